package leaffall

// fakeWorld is a PhysicsWorld that integrates bodies with plain Euler steps
// and records every call, so tests can check which optional operations were
// used.
type fakeWorld struct {
	caps    Capabilities
	gravity float64
	bodies  []*fakeBody
	removed int
	steps   int
}

func newFakeWorld(caps Capabilities) *fakeWorld {
	return &fakeWorld{caps: caps, gravity: -3.2}
}

func allCaps() Capabilities {
	return Capabilities{ResizeColliders: true, SetVelocity: true, TorqueImpulse: true, Damping: true}
}

func (w *fakeWorld) CreateFixedBody(desc BodyDesc) RigidBody {
	return w.add(BodyFixed, desc)
}

func (w *fakeWorld) CreateDynamicBody(desc BodyDesc) RigidBody {
	return w.add(BodyDynamic, desc)
}

func (w *fakeWorld) add(kind BodyKind, desc BodyDesc) *fakeBody {
	mass := desc.Mass
	if mass <= 0 {
		mass = 1
	}
	b := &fakeBody{
		kind:    kind,
		pos:     desc.Position,
		rot:     desc.RotationZ,
		half:    desc.HalfExtents,
		filter:  desc.Filter,
		mass:    mass,
		linDamp: desc.LinearDamping,
		angDamp: desc.AngularDamping,
	}
	w.bodies = append(w.bodies, b)
	return b
}

func (w *fakeWorld) RemoveBody(rb RigidBody) {
	b := rb.(*fakeBody)
	if b.removed {
		return
	}
	b.removed = true
	w.removed++
}

func (w *fakeWorld) Step(dt float64) {
	if dt <= 0 {
		return
	}
	w.steps++
	for _, b := range w.bodies {
		if b.kind != BodyDynamic || b.removed || b.sleeping {
			continue
		}
		b.vel.Y += w.gravity * dt
		b.vel = b.vel.Scale(1 / (1 + dt*b.linDamp))
		b.pos = b.pos.Add(Vec3{b.vel.X * dt, b.vel.Y * dt, 0})
		b.rot += b.angVel * dt
	}
}

func (w *fakeWorld) Capabilities() Capabilities { return w.caps }

// live counts bodies not yet removed.
func (w *fakeWorld) live() int {
	return len(w.bodies) - w.removed
}

type fakeBody struct {
	kind     BodyKind
	pos, vel Vec3
	rot      float64
	angVel   float64
	half     Vec3
	filter   CollisionFilter
	mass     float64
	linDamp  float64
	angDamp  float64
	sleeping bool
	removed  bool

	impulses       []Vec3
	torqueCalls    int
	dampingCalls   int
	setVelCalls    int
	setPosCalls    int
	halfExtentCall int
}

func (b *fakeBody) Kind() BodyKind { return b.kind }
func (b *fakeBody) Translation() Vec3 { return b.pos }
func (b *fakeBody) RotationZ() float64 { return b.rot }
func (b *fakeBody) LinearVelocity() Vec3 { return b.vel }
func (b *fakeBody) HalfExtents() Vec3 { return b.half }

func (b *fakeBody) Filter() CollisionFilter { return b.filter }
func (b *fakeBody) IsSleeping() bool { return b.sleeping }
func (b *fakeBody) Sleep() { b.sleeping = true }

func (b *fakeBody) SetTranslation(p Vec3) {
	b.setPosCalls++
	b.pos = p
}

func (b *fakeBody) SetLinearVelocity(v Vec3) {
	b.setVelCalls++
	b.vel = v
}

func (b *fakeBody) ApplyImpulse(impulse Vec3) {
	b.impulses = append(b.impulses, impulse)
	b.vel = b.vel.Add(impulse.Scale(1 / b.mass))
}

func (b *fakeBody) ApplyTorqueImpulse(torque Vec3) {
	b.torqueCalls++
	b.angVel += torque.Z
}

func (b *fakeBody) SetLinearDamping(d float64) {
	b.dampingCalls++
	b.linDamp = d
}

func (b *fakeBody) SetAngularDamping(d float64) {
	b.dampingCalls++
	b.angDamp = d
}

func (b *fakeBody) SetHalfExtents(h Vec3) {
	b.halfExtentCall++
	b.half = h
}

var (
	_ PhysicsWorld = (*fakeWorld)(nil)
	_ RigidBody    = (*fakeBody)(nil)
	_ PhysicsWorld = (*CPWorld)(nil)
)

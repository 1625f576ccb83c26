package leaffall

import (
	"math"

	"github.com/jakecoffman/cp"
)

const (
	collisionTypeEnvironment cp.CollisionType = 1
	collisionTypeLeaf        cp.CollisionType = 2
)

// minExtent keeps degenerate boxes out of the solver.
const minExtent = 1e-3

// ContactFunc is called when two bodies start touching. It runs inside Step
// and must not add or remove bodies.
type ContactFunc func(a, b RigidBody)

// CPWorld is a PhysicsWorld backed by Chipmunk2D. Bodies are simulated in
// the XY plane; each body keeps a fixed Z so it still sits at its depth in
// the 3D scene.
type CPWorld struct {
	space     *cp.Space
	onContact ContactFunc
	bodies    int
}

// NewCPWorld creates a Chipmunk space with the given vertical gravity and
// solver iteration count.
func NewCPWorld(gravity float64, iterations int) *CPWorld {
	if iterations < 1 {
		iterations = 1
	}
	space := cp.NewSpace()
	space.Iterations = uint(iterations)
	space.SetGravity(cp.Vector{X: 0, Y: gravity})
	space.SleepTimeThreshold = 0.5

	w := &CPWorld{space: space}
	pairs := [][2]cp.CollisionType{
		{collisionTypeLeaf, collisionTypeEnvironment},
		{collisionTypeLeaf, collisionTypeLeaf},
		{collisionTypeEnvironment, collisionTypeEnvironment},
	}
	for _, p := range pairs {
		h := space.NewCollisionHandler(p[0], p[1])
		h.BeginFunc = w.begin
	}
	return w
}

// OnContact registers fn to receive contact-begin events. Pass nil to stop.
func (w *CPWorld) OnContact(fn ContactFunc) {
	w.onContact = fn
}

// BodyCount returns the number of live bodies.
func (w *CPWorld) BodyCount() int {
	return w.bodies
}

func (w *CPWorld) begin(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
	if w.onContact == nil {
		return true
	}
	sa, sb := arb.Shapes()
	a, okA := sa.Body().UserData.(*cpBody)
	b, okB := sb.Body().UserData.(*cpBody)
	if okA && okB {
		w.onContact(a, b)
	}
	return true
}

// Capabilities implements PhysicsWorld. Chipmunk supports everything.
func (w *CPWorld) Capabilities() Capabilities {
	return Capabilities{
		ResizeColliders: true,
		SetVelocity:     true,
		TorqueImpulse:   true,
		Damping:         true,
	}
}

// CreateFixedBody implements PhysicsWorld.
func (w *CPWorld) CreateFixedBody(desc BodyDesc) RigidBody {
	body := cp.NewStaticBody()
	body.SetPosition(cp.Vector{X: desc.Position.X, Y: desc.Position.Y})
	body.SetAngle(desc.RotationZ)
	w.space.AddBody(body)

	b := w.wrap(BodyFixed, body, desc)
	b.attachShape()
	return b
}

// CreateDynamicBody implements PhysicsWorld.
func (w *CPWorld) CreateDynamicBody(desc BodyDesc) RigidBody {
	mass := desc.Mass
	if mass <= 0 {
		mass = 1
	}
	width := math.Max(2*desc.HalfExtents.X, minExtent)
	height := math.Max(2*desc.HalfExtents.Y, minExtent)
	moment := cp.MomentForBox(mass, width, height)
	body := cp.NewBody(mass, moment)
	body.SetPosition(cp.Vector{X: desc.Position.X, Y: desc.Position.Y})
	body.SetAngle(desc.RotationZ)
	w.space.AddBody(body)

	b := w.wrap(BodyDynamic, body, desc)
	b.moment = moment
	body.SetVelocityUpdateFunc(b.updateVelocity)
	b.attachShape()
	return b
}

func (w *CPWorld) wrap(kind BodyKind, body *cp.Body, desc BodyDesc) *cpBody {
	b := &cpBody{
		world:       w,
		kind:        kind,
		body:        body,
		z:           desc.Position.Z,
		half:        desc.HalfExtents,
		filter:      desc.Filter,
		friction:    desc.Friction,
		restitution: desc.Restitution,
		linDamp:     desc.LinearDamping,
		angDamp:     desc.AngularDamping,
	}
	body.UserData = b
	w.bodies++
	return b
}

// RemoveBody implements PhysicsWorld. Removing a body twice is a no-op.
// Bodies frozen by Sleep are kinematic and stay in the dynamic index, and
// Chipmunk wakes its own sleeping bodies on removal, so both are removed
// like awake ones.
func (w *CPWorld) RemoveBody(rb RigidBody) {
	b, ok := rb.(*cpBody)
	if !ok || b.world != w || b.removed {
		return
	}
	b.removed = true
	if b.shape != nil {
		w.space.RemoveShape(b.shape)
		b.shape = nil
	}
	w.space.RemoveBody(b.body)
	w.bodies--
}

// Step implements PhysicsWorld.
func (w *CPWorld) Step(dt float64) {
	if dt <= 0 {
		return
	}
	w.space.Step(dt)
}

// cpBody adapts a Chipmunk body and its single box shape to RigidBody.
type cpBody struct {
	world   *CPWorld
	kind    BodyKind
	body    *cp.Body
	shape   *cp.Shape
	removed bool
	asleep  bool

	z           float64
	half        Vec3
	filter      CollisionFilter
	friction    float64
	restitution float64
	linDamp     float64
	angDamp     float64
	moment      float64
}

func toShapeFilter(f CollisionFilter) cp.ShapeFilter {
	return cp.ShapeFilter{
		Group:      cp.NO_GROUP,
		Categories: uint(f.Membership),
		Mask:       uint(f.Mask),
	}
}

func (b *cpBody) collisionType() cp.CollisionType {
	if b.kind == BodyDynamic {
		return collisionTypeLeaf
	}
	return collisionTypeEnvironment
}

func (b *cpBody) attachShape() {
	width := math.Max(2*b.half.X, minExtent)
	height := math.Max(2*b.half.Y, minExtent)
	shape := cp.NewBox(b.body, width, height, 0)
	shape.SetFriction(b.friction)
	shape.SetElasticity(b.restitution)
	shape.SetFilter(toShapeFilter(b.filter))
	shape.SetCollisionType(b.collisionType())
	b.shape = b.world.space.AddShape(shape)
}

// updateVelocity integrates gravity and applies this body's own damping
// instead of the space-wide value. Damping follows 1/(1 + dt·c).
func (b *cpBody) updateVelocity(body *cp.Body, gravity cp.Vector, _ float64, dt float64) {
	if b.asleep {
		return
	}
	lin := 1 / (1 + dt*b.linDamp)
	ang := 1 / (1 + dt*b.angDamp)
	cp.BodyUpdateVelocity(body, gravity, lin, dt)
	if lin != ang {
		body.SetAngularVelocity(body.AngularVelocity() * ang / lin)
	}
}

func (b *cpBody) Kind() BodyKind { return b.kind }

func (b *cpBody) Translation() Vec3 {
	p := b.body.Position()
	return Vec3{p.X, p.Y, b.z}
}

func (b *cpBody) SetTranslation(p Vec3) {
	if b.removed {
		return
	}
	b.z = p.Z
	b.body.SetPosition(cp.Vector{X: p.X, Y: p.Y})
	if b.kind == BodyFixed {
		// Static shapes keep the bounds they were inserted with.
		b.rebuildShape()
	}
}

func (b *cpBody) RotationZ() float64 { return b.body.Angle() }

func (b *cpBody) LinearVelocity() Vec3 {
	v := b.body.Velocity()
	return Vec3{v.X, v.Y, 0}
}

func (b *cpBody) SetLinearVelocity(v Vec3) {
	if b.kind != BodyDynamic || b.removed || b.asleep {
		return
	}
	b.body.SetVelocity(v.X, v.Y)
}

func (b *cpBody) ApplyImpulse(impulse Vec3) {
	if b.kind != BodyDynamic || b.removed || b.asleep {
		return
	}
	b.body.ApplyImpulseAtWorldPoint(cp.Vector{X: impulse.X, Y: impulse.Y}, b.body.Position())
}

// ApplyTorqueImpulse applies the Z component; the solver is planar.
func (b *cpBody) ApplyTorqueImpulse(torque Vec3) {
	if b.kind != BodyDynamic || b.removed || b.asleep {
		return
	}
	b.body.SetAngularVelocity(b.body.AngularVelocity() + torque.Z/b.moment)
}

func (b *cpBody) SetLinearDamping(d float64) { b.linDamp = d }
func (b *cpBody) SetAngularDamping(d float64) { b.angDamp = d }

// SetHalfExtents rebuilds the box shape; Chipmunk polygons cannot be resized
// in place.
func (b *cpBody) SetHalfExtents(h Vec3) {
	if b.removed || h == b.half {
		return
	}
	b.half = h
	b.rebuildShape()
}

func (b *cpBody) rebuildShape() {
	if b.shape != nil {
		b.world.space.RemoveShape(b.shape)
	}
	b.attachShape()
}

func (b *cpBody) HalfExtents() Vec3 { return b.half }
func (b *cpBody) Filter() CollisionFilter { return b.filter }
func (b *cpBody) IsSleeping() bool { return b.asleep || b.body.IsSleeping() }

// Sleep freezes the body in place by turning it kinematic with zero
// velocity. It stays frozen until it is removed.
func (b *cpBody) Sleep() {
	if b.kind != BodyDynamic || b.removed || b.IsSleeping() {
		return
	}
	b.asleep = true
	b.body.SetType(cp.BODY_KINEMATIC)
}

package leaffall

import (
	"log"
	"math"
)

// Ground describes the visible floor leaves settle on.
type Ground struct {
	// Y is the world height of the floor surface.
	Y float64
	// HalfWidth is half the visible world width at z = 0.
	HalfWidth float64
}

// GroundFor derives the floor from what cam can see at z = 0: the floor
// sits on the bottom edge of the view.
func GroundFor(cam *Camera) Ground {
	w, h := cam.VisibleSizeAt(0)
	return Ground{Y: -h / 2, HalfWidth: w / 2}
}

// Sleep snap offsets above the floor and around z = 0.
const (
	snapLiftMin = 0.01
	snapLiftMax = 0.06
	snapDepth   = 0.3
)

// torqueSpeedGain couples tumbling to fall speed.
const torqueSpeedGain = 0.005

// PhysicsLeaf is one rigid-body leaf and its settle bookkeeping.
type PhysicsLeaf struct {
	Body  RigidBody
	State SettleState
	// PileX is the X this leaf steers toward once settling.
	PileX float64
	Scale float64
	Z     float64

	settleTimer float64
	pushed      bool
}

// Transform returns the leaf's current world transform.
func (l *PhysicsLeaf) Transform() Mat4 {
	return composeZ(l.Body.Translation(), l.Body.RotationZ(), l.Scale)
}

// LeafBodies is the small physics-driven leaf population. It applies the
// wind model before each world step and drives the settle state machine
// after it.
type LeafBodies struct {
	world   PhysicsWorld
	caps    Capabilities
	cfg     PhysicsConfig
	profile SeasonProfile
	noise   *NoiseField
	rng     *RNG
	ground  Ground
	anchorX float64
	quad    float64
	sink    EventSink

	leaves []PhysicsLeaf
	closed bool
}

// LeafBodiesConfig bundles the construction inputs of NewLeafBodies.
type LeafBodiesConfig struct {
	Physics  PhysicsConfig
	Profile  SeasonProfile
	Ground   Ground
	AnchorX  float64
	QuadSize float64
	// Sink is optional.
	Sink EventSink
}

// NewLeafBodies spawns cfg.Physics.Count dynamic bodies in world above the
// visible area. world.Capabilities is queried once here; unsupported
// operations are skipped for the population's lifetime.
func NewLeafBodies(world PhysicsWorld, cfg LeafBodiesConfig, rng *RNG, noise *NoiseField) *LeafBodies {
	lb := &LeafBodies{
		world:   world,
		caps:    world.Capabilities(),
		cfg:     cfg.Physics,
		profile: cfg.Profile,
		noise:   noise,
		rng:     rng,
		ground:  cfg.Ground,
		anchorX: cfg.AnchorX,
		quad:    cfg.QuadSize,
		sink:    cfg.Sink,
	}
	if lb.quad <= 0 {
		lb.quad = 0.6
	}
	lb.logMissing()

	pc := cfg.Physics
	lb.leaves = make([]PhysicsLeaf, pc.Count)
	for i := range lb.leaves {
		scale := pc.Scale.Sample(rng)
		z := pc.Depth.Sample(rng)
		half := lb.quad * scale / 2
		pos := Vec3{
			X: rng.Spread(2 * cfg.Ground.HalfWidth * 0.8),
			Y: pc.SpawnHeight + rng.Spread(2),
			Z: z,
		}
		body := world.CreateDynamicBody(BodyDesc{
			Position:       pos,
			RotationZ:      pc.Tilt.Sample(rng),
			HalfExtents:    Vec3{half, half, 0.01},
			Filter:         LeafFilter(),
			Mass:           pc.Mass,
			Friction:       pc.Friction,
			Restitution:    pc.Restitution,
			LinearDamping:  pc.LinearDamping,
			AngularDamping: pc.AngularDamping,
		})
		lb.leaves[i] = PhysicsLeaf{
			Body:  body,
			State: StateAirborne,
			PileX: cfg.AnchorX,
			Scale: scale,
			Z:     z,
		}
	}
	return lb
}

func (lb *LeafBodies) logMissing() {
	if !lb.caps.SetVelocity {
		log.Printf("leaffall: physics backend cannot set velocity, sleeping leaves keep momentum")
	}
	if !lb.caps.TorqueImpulse {
		log.Printf("leaffall: physics backend has no torque impulses, leaves will not tumble")
	}
	if !lb.caps.Damping {
		log.Printf("leaffall: physics backend has no per-body damping, settle braking disabled")
	}
}

// Leaves returns the population. The returned slice MUST NOT be mutated.
func (lb *LeafBodies) Leaves() []PhysicsLeaf { return lb.leaves }

// Len returns the number of leaves.
func (lb *LeafBodies) Len() int { return len(lb.leaves) }

// AnchorX returns the pile anchor the leaves steer toward.
func (lb *LeafBodies) AnchorX() float64 { return lb.anchorX }

// Ground returns the floor the leaves settle on.
func (lb *LeafBodies) Ground() Ground { return lb.ground }

// SetSink replaces the event sink. nil disables events.
func (lb *LeafBodies) SetSink(sink EventSink) { lb.sink = sink }

// Capabilities returns the capability set captured at construction.
func (lb *LeafBodies) Capabilities() Capabilities { return lb.caps }

// ApplyForces applies the wind model to every airborne leaf. Call it once
// per tick before the world step. t is elapsed simulation time.
func (lb *LeafBodies) ApplyForces(t, dt float64) {
	if dt <= 0 || lb.closed {
		return
	}
	pc := &lb.cfg
	for i := range lb.leaves {
		l := &lb.leaves[i]
		if l.State != StateAirborne {
			continue
		}
		p := l.Body.Translation()
		v := l.Body.LinearVelocity()

		drag := v.Scale(-pc.Drag * dt)
		lift := pc.Lift * dt * clamp(1+l.Z/6, 0.5, 1.5)
		wind := (lb.sample(p.Y*0.3, t*0.5)*pc.Wind + lb.profile.WindSign*pc.WindBias) * dt
		l.Body.ApplyImpulse(Vec3{drag.X + wind, drag.Y + lift, 0})

		if lb.caps.TorqueImpulse {
			raw := lb.sample(p.X*0.3+31, t*0.7)*pc.Torque + lb.profile.WindSign*v.Len()*torqueSpeedGain
			l.Body.ApplyTorqueImpulse(Vec3{Z: clamp(raw, -pc.MaxTorque, pc.MaxTorque) * dt})
		}
		if lb.caps.Damping {
			l.Body.SetLinearDamping(pc.LinearDamping)
			l.Body.SetAngularDamping(pc.AngularDamping)
		}

		inside := math.Abs(p.X) < pc.HotSpotRadius && math.Abs(p.Y) < pc.HotSpotRadius
		switch {
		case inside && !l.pushed:
			l.pushed = true
			dir := Vec3{lb.profile.WindSign, 0, 0}
			if dist := math.Hypot(p.X, p.Y); dist > 1e-9 {
				dir = Vec3{p.X / dist, p.Y / dist, 0}
			}
			l.Body.ApplyImpulse(dir.Scale(pc.HotSpotPush))
		case !inside:
			l.pushed = false
		}
	}
}

// PostStep reads positions back after the world step and advances the
// settle state machine. dt is the simulation time the step covered.
func (lb *LeafBodies) PostStep(dt float64) {
	if lb.closed {
		return
	}
	pc := &lb.cfg
	for i := range lb.leaves {
		l := &lb.leaves[i]
		switch l.State {
		case StateAirborne:
			p := l.Body.Translation()
			if p.Y >= lb.ground.Y+pc.SettleMargin {
				continue
			}
			l.State = StateSettling
			l.settleTimer = 0
			if lb.caps.Damping {
				l.Body.SetLinearDamping(pc.SettleDamping)
				l.Body.SetAngularDamping(pc.SettleDamping)
			}
			l.Body.ApplyImpulse(Vec3{X: (l.PileX - p.X) * pc.SteerGain * pc.Mass})
			lb.emit(i, p)

		case StateSettling:
			if dt > 0 {
				l.settleTimer += dt
			}
			if l.settleTimer < pc.SettleDelay {
				continue
			}
			l.State = StateSleeping
			if !l.Body.IsSleeping() {
				lb.snap(l)
			}
			lb.emit(i, l.Body.Translation())
		}
	}
}

// snap places l in the pile, stops it and puts it to sleep.
func (lb *LeafBodies) snap(l *PhysicsLeaf) {
	jitter := lb.cfg.PileJitter
	l.Body.SetTranslation(Vec3{
		X: l.PileX + lb.rng.Between(-jitter, jitter),
		Y: lb.ground.Y + lb.rng.Between(snapLiftMin, snapLiftMax),
		Z: lb.rng.Between(-snapDepth, snapDepth),
	})
	if lb.caps.SetVelocity {
		l.Body.SetLinearVelocity(Vec3{})
	}
	l.Body.Sleep()
}

func (lb *LeafBodies) sample(x, y float64) float64 {
	if lb.noise == nil {
		return 0
	}
	return lb.noise.Sample(x, y)
}

func (lb *LeafBodies) emit(i int, pos Vec3) {
	if lb.sink == nil {
		return
	}
	lb.sink.EmitLeafEvent(LeafEvent{
		Index:    i,
		State:    lb.leaves[i].State,
		Season:   lb.profile.Season,
		Position: pos,
	})
}

// SetGround moves the ground and the pile anchor, for example after a
// resize. Sleeping leaves move with the pile; airborne and settling ones
// head for the new anchor.
func (lb *LeafBodies) SetGround(g Ground, anchorX float64) {
	shift := Vec3{X: anchorX - lb.anchorX, Y: g.Y - lb.ground.Y}
	lb.ground = g
	lb.anchorX = anchorX
	for i := range lb.leaves {
		l := &lb.leaves[i]
		l.PileX += shift.X
		if l.State == StateSleeping && !lb.closed && shift != (Vec3{}) {
			l.Body.SetTranslation(l.Body.Translation().Add(shift))
		}
	}
}

// Counts returns how many leaves are in each state.
func (lb *LeafBodies) Counts() (airborne, settling, sleeping int) {
	for i := range lb.leaves {
		switch lb.leaves[i].State {
		case StateAirborne:
			airborne++
		case StateSettling:
			settling++
		case StateSleeping:
			sleeping++
		}
	}
	return airborne, settling, sleeping
}

// Transforms appends the world transform of every leaf to dst.
func (lb *LeafBodies) Transforms(dst []Mat4) []Mat4 {
	for i := range lb.leaves {
		dst = append(dst, lb.leaves[i].Transform())
	}
	return dst
}

// Close removes every body from the world. Calling it twice is a no-op.
func (lb *LeafBodies) Close() {
	if lb.closed {
		return
	}
	lb.closed = true
	for i := range lb.leaves {
		lb.world.RemoveBody(lb.leaves[i].Body)
	}
}

package leaffall

// BodyKind distinguishes immovable colliders from simulated bodies.
type BodyKind uint8

const (
	BodyFixed   BodyKind = iota // never moved by the solver; repositioned explicitly
	BodyDynamic                 // integrated by the solver
)

// BodyDesc describes a cuboid rigid body to create.
type BodyDesc struct {
	Position Vec3
	// RotationZ is the initial rotation about Z in radians.
	RotationZ   float64
	HalfExtents Vec3
	Filter      CollisionFilter

	Mass           float64
	Friction       float64
	Restitution    float64
	LinearDamping  float64
	AngularDamping float64
}

// Capabilities lists the optional operations a PhysicsWorld supports. Query
// it once at construction and skip what is missing rather than handling
// failures per call.
type Capabilities struct {
	// ResizeColliders reports whether RigidBody.SetHalfExtents works.
	ResizeColliders bool
	// SetVelocity reports whether RigidBody.SetLinearVelocity works.
	SetVelocity bool
	// TorqueImpulse reports whether RigidBody.ApplyTorqueImpulse works.
	TorqueImpulse bool
	// Damping reports whether per-body damping setters work.
	Damping bool
}

// PhysicsWorld is the rigid-body engine the leaves live in. The engine owns
// integration; callers apply forces and impulses before Step and read
// positions after it.
type PhysicsWorld interface {
	CreateFixedBody(desc BodyDesc) RigidBody
	CreateDynamicBody(desc BodyDesc) RigidBody
	RemoveBody(b RigidBody)
	// Step advances the simulation by dt seconds. It blocks until done.
	Step(dt float64)
	Capabilities() Capabilities
}

// RigidBody is a handle to one body inside a PhysicsWorld. Operations not
// listed in the world's Capabilities are no-ops.
type RigidBody interface {
	Kind() BodyKind
	Translation() Vec3
	SetTranslation(p Vec3)
	RotationZ() float64
	LinearVelocity() Vec3
	SetLinearVelocity(v Vec3)
	ApplyImpulse(impulse Vec3)
	ApplyTorqueImpulse(torque Vec3)
	SetLinearDamping(d float64)
	SetAngularDamping(d float64)
	SetHalfExtents(h Vec3)
	HalfExtents() Vec3
	Filter() CollisionFilter
	Sleep()
	IsSleeping() bool
}

package leaffall

// CollisionGroup is a membership bit. Bodies belong to exactly one group.
type CollisionGroup uint32

const (
	GroupEnvironment CollisionGroup = 1 << 0 // ground and UI colliders
	GroupLeaf        CollisionGroup = 1 << 1 // rigid-body leaves
)

// CollisionFilter pairs a body's membership with the groups it may touch.
type CollisionFilter struct {
	Membership CollisionGroup
	Mask       CollisionGroup
}

// EnvironmentFilter is the filter for fixed environment colliders: they only
// test against leaves.
func EnvironmentFilter() CollisionFilter {
	return CollisionFilter{Membership: GroupEnvironment, Mask: GroupLeaf}
}

// LeafFilter is the filter for leaves: they only test against the
// environment, never each other. Leaves are allowed to overlap visually.
func LeafFilter() CollisionFilter {
	return CollisionFilter{Membership: GroupLeaf, Mask: GroupEnvironment}
}

// Collides reports whether bodies with filters a and b generate narrow-phase
// contacts. Both sides must accept the other.
func Collides(a, b CollisionFilter) bool {
	return a.Membership&b.Mask != 0 && b.Membership&a.Mask != 0
}

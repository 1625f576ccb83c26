package leaffall

// SettleState is the lifecycle of a physics leaf.
type SettleState uint8

const (
	StateAirborne SettleState = iota // falling under wind, lift and drag
	StateSettling                    // near the ground, heavily damped, steering to the pile
	StateSleeping                    // snapped into the pile; receives no forces until reset
)

// String returns the lowercase state name.
func (s SettleState) String() string {
	switch s {
	case StateAirborne:
		return "airborne"
	case StateSettling:
		return "settling"
	case StateSleeping:
		return "sleeping"
	default:
		return "unknown"
	}
}

// EventSink is the interface for optional ECS integration.
// When set on an Engine, settle transitions are forwarded to it.
type EventSink interface {
	EmitLeafEvent(event LeafEvent)
}

// LeafEvent reports that physics leaf Index entered State at Position.
type LeafEvent struct {
	Index    int
	State    SettleState
	Season   Season
	Position Vec3
}

// EventSinkFunc adapts a plain function to EventSink.
type EventSinkFunc func(LeafEvent)

// EmitLeafEvent calls f(event).
func (f EventSinkFunc) EmitLeafEvent(event LeafEvent) { f(event) }

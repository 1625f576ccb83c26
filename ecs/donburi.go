package ecs

import (
	"github.com/phanxgames/leaffall"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// LeafEventType is the Donburi event type for leaffall settle events.
// Subscribe to this in your ECS systems to react to leaves landing.
var LeafEventType = events.NewEventType[leaffall.LeafEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Settle events are published to LeafEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) leaffall.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitLeafEvent(event leaffall.LeafEvent) {
	LeafEventType.Publish(s.world, event)
}

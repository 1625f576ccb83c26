package ecs

import (
	"testing"

	"github.com/phanxgames/leaffall"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)
	if sink == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSink_EmitLeafEvent(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []leaffall.LeafEvent
	LeafEventType.Subscribe(world, func(w donburi.World, e leaffall.LeafEvent) {
		received = append(received, e)
	})

	sink.EmitLeafEvent(leaffall.LeafEvent{
		Index:    3,
		State:    leaffall.StateSettling,
		Season:   leaffall.SeasonFall,
		Position: leaffall.Vec3{X: 1, Y: -5, Z: 0.5},
	})
	sink.EmitLeafEvent(leaffall.LeafEvent{
		Index: 3,
		State: leaffall.StateSleeping,
	})

	// Events are queued until processed.
	LeafEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}

	e0 := received[0]
	if e0.Index != 3 || e0.State != leaffall.StateSettling || e0.Season != leaffall.SeasonFall {
		t.Errorf("event 0: %+v", e0)
	}
	if e0.Position.X != 1 || e0.Position.Y != -5 {
		t.Errorf("event 0 position: (%v,%v)", e0.Position.X, e0.Position.Y)
	}
	if received[1].State != leaffall.StateSleeping {
		t.Errorf("event 1 state = %v, want sleeping", received[1].State)
	}
}

func TestDonburiSink_ImplementsEventSink(t *testing.T) {
	world := donburi.NewWorld()
	var sink leaffall.EventSink = NewDonburiSink(world)
	_ = sink // compile-time interface check
}

func TestDonburiSink_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var count1, count2 int
	LeafEventType.Subscribe(world, func(w donburi.World, e leaffall.LeafEvent) {
		count1++
	})
	LeafEventType.Subscribe(world, func(w donburi.World, e leaffall.LeafEvent) {
		count2++
	})

	sink.EmitLeafEvent(leaffall.LeafEvent{State: leaffall.StateSleeping})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}

func TestDonburiSink_EngineSettleEvents(t *testing.T) {
	world := donburi.NewWorld()

	cfg := leaffall.DefaultConfig()
	cfg.Field.Count = 0
	cfg.Pile.Count = 0
	cfg.Physics.Count = 2
	cfg.Physics.SpawnHeight = -4

	engine, err := leaffall.NewEngine(cfg, leaffall.EngineOptions{
		Width: 800, Height: 600,
		Sink: NewDonburiSink(world),
	})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer engine.Close()

	var sleeping int
	LeafEventType.Subscribe(world, func(w donburi.World, e leaffall.LeafEvent) {
		if e.State == leaffall.StateSleeping {
			sleeping++
		}
	})

	for i := 0; i < 600 && sleeping < 2; i++ {
		engine.Update(1.0 / 60)
		LeafEventType.ProcessEvents(world)
	}
	if sleeping != 2 {
		t.Errorf("sleeping events = %d, want 2", sleeping)
	}
}

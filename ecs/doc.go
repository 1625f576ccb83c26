// Package ecs provides ECS adapters for leaffall's settle events.
//
// The primary adapter is [NewDonburiSink], which forwards leaf settle
// transitions (airborne to settling, settling to sleeping) into a [Donburi]
// world as typed events. Subscribe to [LeafEventType] in your ECS systems to
// receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	engine.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs

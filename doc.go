// Package leaffall renders a seasonal field of falling leaves for
// [Ebitengine] and lets a handful of rigid-body leaves land on interface
// elements.
//
// Two populations share one season theme. The instanced flow field is a
// large set of leaves whose transforms are a pure function of a seed table
// and elapsed time; each instance drifts with the wind and loops across a
// fixed horizontal span. The physics population is a few leaves simulated
// by a [PhysicsWorld] (Chipmunk through [CPWorld] by default). They are
// pushed by noise-driven wind, slow down near the ground and finally snap
// into a decorative pile at the season's anchor.
//
// # Quick start
//
//	cfg := leaffall.DefaultConfig()
//	cfg.Season = leaffall.SeasonFall
//	engine, err := leaffall.NewEngine(cfg, leaffall.EngineOptions{
//		Width: 1280, Height: 720,
//		Textures: leaffall.TextureMap{"leaf_red": leafImg, "bg_fall": bgImg},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Then call [Engine.Update] and [Engine.Draw] from your [ebiten.Game]:
//
//	func (g *Game) Update() error        { g.engine.Update(1.0 / float64(ebiten.TPS())); return nil }
//	func (g *Game) Draw(s *ebiten.Image) { g.engine.Draw(s) }
//
// # Interface colliders
//
// [UIColliderSync] keeps a fixed collider behind each tracked
// [ElementSource]. Element rectangles are reprojected onto the plane
// z = UIConfig.PlaneZ whenever a [LayoutEvent] arrives, so leaves rest on
// headings and panels while the layout scrolls and resizes:
//
//	title := engine.Colliders().Track(leaffall.ElementFunc(func() (leaffall.Rect, bool) {
//		return titleRect, titleVisible
//	}))
//	engine.Colliders().LayoutChanged(leaffall.LayoutEvent{Kind: leaffall.LayoutScroll})
//
// # Seasons and slow motion
//
// [Engine.SetSeason] rebuilds every season-dependent population.
// [Engine.SetSlowMo] eases the simulation time scale with [gween].
// Settle transitions can be forwarded to an ECS through an [EventSink];
// the leaffall/ecs module provides a [Donburi] adapter.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package leaffall

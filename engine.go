package leaffall

import (
	"fmt"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

// EngineOptions are the collaborators of an Engine. Every field is optional.
type EngineOptions struct {
	// Width and Height are the initial viewport size in pixels.
	Width, Height float64
	// World is the rigid-body engine. Nil creates a CPWorld from the
	// physics config, owned and closed by the Engine.
	World PhysicsWorld
	// Textures resolves leaf and background keys. Nil draws nothing but
	// still simulates.
	Textures TextureSource
	// Sink receives settle events.
	Sink EventSink
}

// Engine is the top-level object that owns the camera, both leaf
// populations, the ground pile, the ground collider and the UI colliders.
type Engine struct {
	cfg      Config
	cam      *Camera
	noise    *NoiseField
	world    PhysicsWorld
	textures TextureSource
	sink     EventSink

	ownsWorld bool
	closed    bool
	debug     bool

	season  Season
	profile SeasonProfile
	ground  Ground

	field     *FlowField
	instances InstanceBuffer
	leaves    *LeafBodies
	pile      []Mat4
	floor     RigidBody
	ui        *UIColliderSync

	slowMo     bool
	timeScale  float64
	scaleTween *TweenGroup
	elapsed    float64

	render  *renderer
	overlay statsOverlay
	leafBuf []Mat4
	boxBuf  []Mat4
}

// floorWidthFactor makes the ground collider wider than the view so leaves
// blown past the edges still land.
const floorWidthFactor = 4

// NewEngine validates cfg and builds the populations for cfg.Season.
func NewEngine(cfg Config, opts EngineOptions) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	noise, err := NewNoiseField(cfg.Noise)
	if err != nil {
		return nil, fmt.Errorf("leaffall: failed to create noise field: %w", err)
	}

	e := &Engine{
		cfg:       cfg,
		cam:       NewCamera(cfg.Camera, Rect{Width: opts.Width, Height: opts.Height}),
		noise:     noise,
		world:     opts.World,
		textures:  opts.Textures,
		sink:      opts.Sink,
		timeScale: 1,
		render:    newRenderer(cfg.Field.QuadSize),
	}
	if e.world == nil {
		e.world = NewCPWorld(cfg.Physics.Gravity, cfg.Physics.Iterations)
		e.ownsWorld = true
	}
	e.ui = NewUIColliderSync(e.world, e.cam, cfg.UI)
	e.ui.OnResize(e.viewResized)
	e.rebuild(cfg.Season)
	return e, nil
}

// seedFor derives the RNG seed of a season so each theme is reproducible
// on its own.
func (e *Engine) seedFor(s Season) int64 {
	return e.cfg.Seed*31 + int64(s)
}

// rebuild tears down the season-dependent state and creates it anew.
func (e *Engine) rebuild(s Season) {
	if e.leaves != nil {
		e.leaves.Close()
	}
	if e.floor != nil {
		e.world.RemoveBody(e.floor)
		e.floor = nil
	}

	e.season = s
	e.profile = ProfileFor(s)
	e.ground = GroundFor(e.cam)
	rng := NewRNG(e.seedFor(s))

	e.field = NewFlowField(e.cfg.Field, e.profile, rng, e.noise)
	e.field.SetVisibleSize(e.cam.VisibleSizeAt(0))

	e.floor = e.world.CreateFixedBody(BodyDesc{
		Position:    Vec3{Y: e.ground.Y - e.cfg.Physics.FloorThickness/2},
		HalfExtents: Vec3{e.ground.HalfWidth * floorWidthFactor, e.cfg.Physics.FloorThickness / 2, 5},
		Filter:      EnvironmentFilter(),
		Friction:    e.cfg.Physics.Friction,
	})

	anchorX := e.profile.PileAnchorX(e.ground.HalfWidth, e.cfg.Pile.Margin)
	e.leaves = NewLeafBodies(e.world, LeafBodiesConfig{
		Physics:  e.cfg.Physics,
		Profile:  e.profile,
		Ground:   e.ground,
		AnchorX:  anchorX,
		QuadSize: e.cfg.Field.QuadSize,
		Sink:     e.sink,
	}, rng, e.noise)

	e.pile = LayoutPile(e.profile, PileEnv{Ground: e.ground, PileConfig: e.cfg.Pile}, rng, e.cfg.Pile.Count)
}

// SetSeason switches theme, rebuilding every season-dependent population.
// Setting the current season again restarts it.
func (e *Engine) SetSeason(s Season) {
	if e.closed {
		return
	}
	log.Printf("leaffall: season %s", s)
	e.rebuild(s)
}

// Season returns the active season.
func (e *Engine) Season() Season { return e.season }

// Profile returns the active season profile.
func (e *Engine) Profile() SeasonProfile { return e.profile }

// SetSlowMo eases the simulation time scale toward the slow-motion scale
// (on) or back to real time (off).
func (e *Engine) SetSlowMo(on bool) {
	if e.closed || on == e.slowMo {
		return
	}
	e.slowMo = on
	target := 1.0
	if on {
		target = e.cfg.SlowMo.TimeScale
	}
	if e.cfg.SlowMo.Ramp <= 0 {
		e.timeScale = target
		e.scaleTween = nil
		return
	}
	e.scaleTween = NewTweenGroup([]*float64{&e.timeScale}, []float64{target}, e.cfg.SlowMo.Ramp, ease.InOutQuad)
}

// SlowMo reports whether slow motion is requested.
func (e *Engine) SlowMo() bool { return e.slowMo }

// TimeScale returns the current simulation time scale.
func (e *Engine) TimeScale() float64 { return e.timeScale }

// Elapsed returns the accumulated simulation time in seconds.
func (e *Engine) Elapsed() float64 { return e.elapsed }

// Update advances everything by dt seconds of real time. Simulation time
// advances by dt times the current time scale. Must be called from the
// ebiten Update goroutine.
func (e *Engine) Update(dt float64) {
	if e.closed {
		return
	}
	if dt > 0 {
		if e.scaleTween != nil {
			e.scaleTween.Update(float32(dt))
			if e.scaleTween.Done {
				e.scaleTween = nil
			}
		}
		e.cam.Update(float32(dt))
	}

	simDt := max(dt, 0) * e.timeScale
	e.elapsed += simDt

	var stats debugStats
	var t0 time.Time
	if e.debug {
		t0 = time.Now()
	}

	e.field.Tick(e.elapsed, dt, e.timeScale, &e.instances)

	if e.debug {
		stats.fieldTime = time.Since(t0)
		t0 = time.Now()
	}

	e.leaves.ApplyForces(e.elapsed, simDt)

	if e.debug {
		stats.forcesTime = time.Since(t0)
		t0 = time.Now()
	}

	e.world.Step(simDt)

	if e.debug {
		stats.stepTime = time.Since(t0)
		t0 = time.Now()
	}

	e.leaves.PostStep(simDt)

	if e.debug {
		stats.settleTime = time.Since(t0)
		stats.airborne, stats.settling, stats.sleeping = e.leaves.Counts()
		stats.colliders = len(e.ui.Bindings())
		stats.timeScale = e.timeScale
		e.debugLog(stats)
		e.debugCheckCounts()
		e.overlay.update(dt, func() string {
			return overlayText(e.season, e.timeScale, stats.airborne, stats.settling, stats.sleeping)
		})
	}
}

// Draw renders the background, the instanced field, the pile and the
// physics leaves into screen. Populations whose texture is missing are
// skipped.
func (e *Engine) Draw(screen *ebiten.Image) {
	if e.closed {
		return
	}
	var t0 time.Time
	if e.debug {
		t0 = time.Now()
	}

	r := e.render
	r.begin()
	r.drawBackground(screen, r.texture(e.textures, e.profile.Background))

	e.leafBuf = e.leaves.Transforms(e.leafBuf[:0])
	r.add(e.instances.Transforms)
	r.add(e.pile)
	r.add(e.leafBuf)
	r.flush(screen, e.cam, r.texture(e.textures, e.profile.LeafTexture), ColorWhite)

	if e.debug {
		e.boxBuf = e.boxBuf[:0]
		for _, b := range e.ui.Bindings() {
			e.boxBuf = append(e.boxBuf, b.Visual)
		}
		r.drawBoxes(screen, e.cam, e.boxBuf, Color{0.2, 0.8, 1, 0.35})
		e.overlay.draw(screen)
		e.debugLogDraw(debugStats{drawTime: time.Since(t0), drawCalls: r.drawCalls})
	}
}

// Resize updates the viewport after a window or layout size change and
// moves every UI collider. Resize events delivered to Colliders() through
// an attached LayoutSource have the same effect.
func (e *Engine) Resize(width, height float64) {
	if e.closed {
		return
	}
	e.ui.LayoutChanged(LayoutEvent{Kind: LayoutResize, Width: width, Height: height})
}

// viewResized runs after the camera viewport changed. The pile keeps its
// shape and follows the new anchor.
func (e *Engine) viewResized() {
	if e.closed || e.leaves == nil {
		return
	}
	e.field.SetVisibleSize(e.cam.VisibleSizeAt(0))
	g := GroundFor(e.cam)
	if e.floor != nil {
		if g.Y != e.ground.Y {
			e.floor.SetTranslation(Vec3{Y: g.Y - e.cfg.Physics.FloorThickness/2})
		}
		if e.world.Capabilities().ResizeColliders {
			e.floor.SetHalfExtents(Vec3{g.HalfWidth * floorWidthFactor, e.cfg.Physics.FloorThickness / 2, 5})
		}
	}

	anchorX := e.profile.PileAnchorX(g.HalfWidth, e.cfg.Pile.Margin)
	shift := Vec3{X: anchorX - e.leaves.AnchorX(), Y: g.Y - e.ground.Y}
	for i := range e.pile {
		e.pile[i][12] += shift.X
		e.pile[i][13] += shift.Y
	}
	e.leaves.SetGround(g, anchorX)
	e.ground = g
}

// Instances returns the transforms written by the last Update.
func (e *Engine) Instances() *InstanceBuffer { return &e.instances }

// Field returns the instanced flow field.
func (e *Engine) Field() *FlowField { return e.field }

// Leaves returns the physics leaf population.
func (e *Engine) Leaves() *LeafBodies { return e.leaves }

// Pile returns the decorative pile transforms. The returned slice MUST NOT
// be mutated.
func (e *Engine) Pile() []Mat4 { return e.pile }

// Colliders returns the UI collider sync.
func (e *Engine) Colliders() *UIColliderSync { return e.ui }

// Camera returns the engine camera. It implements Focuser.
func (e *Engine) Camera() *Camera { return e.cam }

// World returns the physics world.
func (e *Engine) World() PhysicsWorld { return e.world }

// Ground returns the floor derived from the current viewport.
func (e *Engine) Ground() Ground { return e.ground }

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config { return e.cfg }

// SetEventSink replaces the settle event sink. nil disables events.
func (e *Engine) SetEventSink(sink EventSink) {
	e.sink = sink
	if e.leaves != nil {
		e.leaves.SetSink(sink)
	}
}

// SetTextures replaces the texture source.
func (e *Engine) SetTextures(src TextureSource) { e.textures = src }

// SetDebugMode enables or disables debug mode. When enabled, per-frame
// timing and leaf state counts are logged to stderr, UI colliders are
// outlined and a stats overlay is drawn.
func (e *Engine) SetDebugMode(enabled bool) {
	e.debug = enabled
}

// Close unsubscribes layout listeners and removes every body the engine
// created. Calling it twice is a no-op.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.ui.Close()
	e.leaves.Close()
	if e.floor != nil {
		e.world.RemoveBody(e.floor)
		e.floor = nil
	}
	e.closed = true
}

package leaffall

import (
	"slices"
	"strings"
	"testing"
)

func newTestEngine(t *testing.T, cfg Config, opts EngineOptions) *Engine {
	t.Helper()
	if opts.Width == 0 {
		opts.Width, opts.Height = 1280, 720
	}
	e, err := NewEngine(cfg, opts)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Camera.FOV = 0
	if _, err := NewEngine(cfg, EngineOptions{}); err == nil || !strings.Contains(err.Error(), "camera.fov") {
		t.Errorf("err = %v, want camera.fov error", err)
	}
}

func TestEngineDefaults(t *testing.T) {
	e := newTestEngine(t, DefaultConfig(), EngineOptions{})
	e.Update(1.0 / 60)
	if e.Instances().Len() != 100 {
		t.Errorf("instances = %d, want 100", e.Instances().Len())
	}
	if e.Leaves().Len() != 8 {
		t.Errorf("physics leaves = %d, want 8", e.Leaves().Len())
	}
	if len(e.Pile()) != 40 {
		t.Errorf("pile = %d, want 40", len(e.Pile()))
	}
	cw, ok := e.World().(*CPWorld)
	if !ok {
		t.Fatalf("World = %T, want *CPWorld", e.World())
	}
	if cw.BodyCount() != 9 {
		t.Errorf("BodyCount = %d, want 8 leaves + floor", cw.BodyCount())
	}
	if e.Season() != SeasonSpring || e.TimeScale() != 1 {
		t.Errorf("season/timeScale = %v/%v, want spring/1", e.Season(), e.TimeScale())
	}
}

func TestEngineGroundMatchesView(t *testing.T) {
	e := newTestEngine(t, DefaultConfig(), EngineOptions{})
	w, h := e.Camera().VisibleSizeAt(0)
	g := e.Ground()
	if !approxEqual(g.Y, -h/2, epsilon) || !approxEqual(g.HalfWidth, w/2, epsilon) {
		t.Errorf("Ground = %+v, want {%v %v}", g, -h/2, w/2)
	}
	if e.Leaves().Ground() != g {
		t.Error("leaves use a different ground than the engine")
	}
}

func TestEngineSetSeasonRebuilds(t *testing.T) {
	e := newTestEngine(t, DefaultConfig(), EngineOptions{})
	oldLeaves := e.Leaves()
	e.SetSeason(SeasonFall)

	if e.Season() != SeasonFall || e.Profile().WindSign != -1 {
		t.Errorf("season/wind = %v/%v, want fall/-1", e.Season(), e.Profile().WindSign)
	}
	if e.Leaves() == oldLeaves {
		t.Error("physics leaves were not rebuilt")
	}
	if got := e.World().(*CPWorld).BodyCount(); got != 9 {
		t.Errorf("BodyCount after season change = %d, want 9", got)
	}
	for i, s := range e.Field().Seeds() {
		if s.Speed >= 0 {
			t.Fatalf("seed %d speed = %v, want leftward drift in fall", i, s.Speed)
		}
	}
	if ax := e.Leaves().AnchorX(); ax <= 0 {
		t.Errorf("fall pile anchor = %v, want right of center", ax)
	}
}

func TestEngineSeasonDeterminism(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 21
	a := newTestEngine(t, cfg, EngineOptions{})
	b := newTestEngine(t, cfg, EngineOptions{})
	if !slices.Equal(a.Field().Seeds(), b.Field().Seeds()) {
		t.Error("same seed produced different fields")
	}
	if !slices.Equal(a.Pile(), b.Pile()) {
		t.Error("same seed produced different piles")
	}

	b.SetSeason(SeasonAutumn)
	b.SetSeason(SeasonSpring)
	if !slices.Equal(a.Field().Seeds(), b.Field().Seeds()) {
		t.Error("returning to a season should reproduce its field")
	}
}

func TestEngineSlowMoRamp(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SlowMo = SlowMoConfig{TimeScale: 0.25, Ramp: 0.4}
	e := newTestEngine(t, cfg, EngineOptions{})

	e.SetSlowMo(true)
	if !e.SlowMo() {
		t.Fatal("SlowMo = false after SetSlowMo(true)")
	}
	e.Update(0.2)
	if s := e.TimeScale(); s <= 0.25 || s >= 1 {
		t.Errorf("mid-ramp time scale = %v, want between 0.25 and 1", s)
	}
	e.Update(0.25)
	if !approxEqual(e.TimeScale(), 0.25, 1e-6) {
		t.Errorf("time scale = %v, want 0.25", e.TimeScale())
	}

	before := e.Elapsed()
	e.Update(0.1)
	if !approxEqual(e.Elapsed()-before, 0.025, 1e-6) {
		t.Errorf("elapsed advanced %v, want 0.025 in slow motion", e.Elapsed()-before)
	}

	e.SetSlowMo(false)
	e.Update(0.5)
	if !approxEqual(e.TimeScale(), 1, 1e-6) {
		t.Errorf("time scale = %v, want 1 after ramping out", e.TimeScale())
	}
}

func TestEngineSlowMoWithoutRamp(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SlowMo.Ramp = 0
	e := newTestEngine(t, cfg, EngineOptions{})
	e.SetSlowMo(true)
	if e.TimeScale() != cfg.SlowMo.TimeScale {
		t.Errorf("time scale = %v, want %v immediately", e.TimeScale(), cfg.SlowMo.TimeScale)
	}
}

func TestEngineUpdateIgnoresNegativeDt(t *testing.T) {
	e := newTestEngine(t, DefaultConfig(), EngineOptions{})
	e.Update(0.5)
	e.Update(-1)
	if !approxEqual(e.Elapsed(), 0.5, epsilon) {
		t.Errorf("Elapsed = %v, want 0.5", e.Elapsed())
	}
}

func TestEngineSettleEvents(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Field.Count = 0
	cfg.Pile.Count = 0
	cfg.Physics.Count = 2
	cfg.Physics.SpawnHeight = -3
	var sleeping []LeafEvent
	e := newTestEngine(t, cfg, EngineOptions{})
	e.SetEventSink(EventSinkFunc(func(ev LeafEvent) {
		if ev.State == StateSleeping {
			sleeping = append(sleeping, ev)
		}
	}))

	for i := 0; i < 600 && len(sleeping) < 2; i++ {
		e.Update(1.0 / 60)
	}
	if len(sleeping) != 2 {
		t.Fatalf("sleep events = %d, want 2", len(sleeping))
	}
	for _, ev := range sleeping {
		if ev.Season != SeasonSpring {
			t.Errorf("event season = %v, want spring", ev.Season)
		}
	}
	if _, _, sl := e.Leaves().Counts(); sl != 2 {
		t.Errorf("sleeping = %d, want 2", sl)
	}
}

func TestEngineResize(t *testing.T) {
	e := newTestEngine(t, DefaultConfig(), EngineOptions{})
	before := e.Ground()
	e.Resize(1920, 720)
	if e.Camera().Viewport.Width != 1920 {
		t.Errorf("viewport width = %v, want 1920", e.Camera().Viewport.Width)
	}
	if g := e.Ground(); g.HalfWidth <= before.HalfWidth || !approxEqual(g.Y, before.Y, epsilon) {
		t.Errorf("Ground = %+v, want wider with the same height as %+v", g, before)
	}
	if f := e.Field().Env().ViewportFactor; f <= 1 {
		t.Errorf("ViewportFactor = %v, want above 1 on a wide screen", f)
	}
	if e.Leaves().Ground() != e.Ground() {
		t.Errorf("leaves ground = %+v, want %+v", e.Leaves().Ground(), e.Ground())
	}
}

func TestEngineResizeMovesPile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Season = SeasonFall
	e := newTestEngine(t, cfg, EngineOptions{})
	before := e.Pile()[0].Position()
	anchor := e.Leaves().AnchorX()

	e.Resize(640, 720)
	want := e.Profile().PileAnchorX(e.Ground().HalfWidth, cfg.Pile.Margin)
	if got := e.Leaves().AnchorX(); !approxEqual(got, want, epsilon) || got >= anchor {
		t.Errorf("anchor = %v, want %v left of %v after narrowing", got, want, anchor)
	}
	assertVec3(t, "pile leaf", e.Pile()[0].Position(), before.Add(Vec3{X: want - anchor}))
	for i, l := range e.Leaves().Leaves() {
		if !approxEqual(l.PileX, want, epsilon) {
			t.Errorf("leaf %d PileX = %v, want %v", i, l.PileX, want)
		}
	}
}

func TestEngineResizeFromLayoutSource(t *testing.T) {
	e := newTestEngine(t, DefaultConfig(), EngineOptions{})
	before := e.Ground()
	src := &fakeLayout{}
	e.Colliders().Attach(src)

	src.emit(LayoutEvent{Kind: LayoutResize, Width: 1920, Height: 720})
	if e.Camera().Viewport.Width != 1920 {
		t.Fatalf("viewport width = %v, want 1920", e.Camera().Viewport.Width)
	}
	if g := e.Ground(); g.HalfWidth <= before.HalfWidth {
		t.Errorf("Ground = %+v, want wider than %+v", g, before)
	}
	if e.Leaves().Ground() != e.Ground() {
		t.Errorf("leaves ground = %+v, want %+v", e.Leaves().Ground(), e.Ground())
	}
	if f := e.Field().Env().ViewportFactor; f <= 1 {
		t.Errorf("ViewportFactor = %v, want above 1", f)
	}
}

func TestEngineColliders(t *testing.T) {
	e := newTestEngine(t, DefaultConfig(), EngineOptions{})
	r := Rect{X: 440, Y: 240, Width: 400, Height: 80}
	b := e.Colliders().Track(rectSource(&r))
	if b == nil {
		t.Fatal("Track returned nil")
	}
	if got := e.World().(*CPWorld).BodyCount(); got != 10 {
		t.Errorf("BodyCount = %d, want 10", got)
	}
	if !approxEqual(b.Body.Translation().Z, e.Config().UI.PlaneZ, 1e-9) {
		t.Errorf("collider z = %v, want %v", b.Body.Translation().Z, e.Config().UI.PlaneZ)
	}
}

func TestEngineExternalWorld(t *testing.T) {
	w := newFakeWorld(allCaps())
	e, err := NewEngine(DefaultConfig(), EngineOptions{Width: 800, Height: 600, World: w})
	if err != nil {
		t.Fatal(err)
	}
	e.Colliders().Track(ElementFunc(func() (Rect, bool) { return Rect{Width: 10, Height: 10}, true }))
	for i := 0; i < 5; i++ {
		e.Update(1.0 / 60)
	}
	if w.steps != 5 {
		t.Errorf("steps = %d, want 5", w.steps)
	}
	e.SetSeason(SeasonAutumn)
	e.Close()
	e.Close()
	if w.live() != 0 {
		t.Errorf("live bodies after Close = %d, want 0", w.live())
	}
	e.Update(1.0 / 60)
	if w.steps != 5 {
		t.Error("closed engine kept stepping the world")
	}
}

package leaffall

import "math"

// ElementSource reports where an interface element currently sits on
// screen. ok is false while the element is absent (not mounted, hidden).
type ElementSource interface {
	ScreenRect() (r Rect, ok bool)
}

// ElementFunc adapts a plain function to ElementSource.
type ElementFunc func() (Rect, bool)

// ScreenRect calls f.
func (f ElementFunc) ScreenRect() (Rect, bool) { return f() }

// LayoutEventKind identifies what moved the interface.
type LayoutEventKind uint8

const (
	LayoutResize   LayoutEventKind = iota // the viewport changed size
	LayoutScroll                          // content scrolled
	LayoutMutation                        // elements were added, removed or restyled
)

// LayoutEvent signals that element rectangles may have changed. Width and
// Height carry the new viewport size for LayoutResize and are ignored
// otherwise.
type LayoutEvent struct {
	Kind          LayoutEventKind
	Width, Height float64
}

// LayoutSource delivers layout events. Subscribe returns a function that
// stops delivery.
type LayoutSource interface {
	Subscribe(fn func(LayoutEvent)) (cancel func())
}

// ColliderBinding ties one interface element to a fixed environment body.
type ColliderBinding struct {
	Element ElementSource
	Body    RigidBody
	Group   CollisionGroup

	// Transform is the collider's world transform (translation and
	// rotation only).
	Transform Mat4
	// Visual is Transform scaled to the collider size, for drawing a unit
	// box over the collider.
	Visual Mat4
	// Size is the full world width, height and depth of the collider.
	Size Vec3
}

// UIColliderSync keeps a fixed collider behind every tracked element so
// physics leaves land on text and panels.
type UIColliderSync struct {
	world  PhysicsWorld
	caps   Capabilities
	cam    *Camera
	cfg    UIConfig
	closed bool

	onResize func()

	bindings []*ColliderBinding
	cancels  []func()
}

// NewUIColliderSync creates a sync placing colliders on the plane
// z = cfg.PlaneZ as seen through cam.
func NewUIColliderSync(world PhysicsWorld, cam *Camera, cfg UIConfig) *UIColliderSync {
	return &UIColliderSync{
		world: world,
		caps:  world.Capabilities(),
		cam:   cam,
		cfg:   cfg,
	}
}

// Track creates a collider for el and positions it immediately.
func (s *UIColliderSync) Track(el ElementSource) *ColliderBinding {
	if s.closed {
		return nil
	}
	half := Vec3{s.cfg.FallbackWidth / 2, s.cfg.FallbackHeight / 2, s.cfg.Depth / 2}
	b := &ColliderBinding{
		Element: el,
		Group:   GroupEnvironment,
		Body: s.world.CreateFixedBody(BodyDesc{
			Position:    Vec3{Z: s.cfg.PlaneZ},
			HalfExtents: half,
			Filter:      EnvironmentFilter(),
			Friction:    s.cfg.Friction,
			Restitution: s.cfg.Restitution,
		}),
		Transform: Translation(Vec3{Z: s.cfg.PlaneZ}),
		Size:      half.Scale(2),
	}
	b.Visual = ComposeTRS(Vec3{Z: s.cfg.PlaneZ}, Vec3{}, b.Size)
	s.bindings = append(s.bindings, b)
	s.update(b)
	return b
}

// Untrack removes b's collider. Unknown bindings are ignored.
func (s *UIColliderSync) Untrack(b *ColliderBinding) {
	for i, c := range s.bindings {
		if c == b {
			s.world.RemoveBody(b.Body)
			s.bindings = append(s.bindings[:i], s.bindings[i+1:]...)
			return
		}
	}
}

// Bindings returns the tracked bindings. The returned slice MUST NOT be
// mutated.
func (s *UIColliderSync) Bindings() []*ColliderBinding {
	return s.bindings
}

// OnResize registers fn to run after a LayoutResize event has resized the
// camera and before the colliders move.
func (s *UIColliderSync) OnResize(fn func()) {
	s.onResize = fn
}

// Attach subscribes to src until Close.
func (s *UIColliderSync) Attach(src LayoutSource) {
	if s.closed {
		return
	}
	s.cancels = append(s.cancels, src.Subscribe(s.LayoutChanged))
}

// LayoutChanged re-reads every tracked element and moves its collider.
// Resize events also resize the camera viewport first.
func (s *UIColliderSync) LayoutChanged(ev LayoutEvent) {
	if s.closed {
		return
	}
	if ev.Kind == LayoutResize {
		s.cam.SetViewport(ev.Width, ev.Height)
		if s.onResize != nil {
			s.onResize()
		}
	}
	s.Sync()
}

// Sync repositions every collider without a layout event.
func (s *UIColliderSync) Sync() {
	for _, b := range s.bindings {
		s.update(b)
	}
}

func (s *UIColliderSync) update(b *ColliderBinding) {
	r, ok := b.Element.ScreenRect()
	if !ok {
		return
	}
	z := s.cfg.PlaneZ
	cx, cy := r.Center()
	center, ok := s.cam.ScreenToPlane(cx, cy, z)
	if !ok {
		return
	}

	w, h := s.cfg.FallbackWidth, s.cfg.FallbackHeight
	tl, okTL := s.cam.ScreenToPlane(r.X, r.Y, z)
	br, okBR := s.cam.ScreenToPlane(r.Right(), r.Bottom(), z)
	if okTL && okBR {
		if dw := math.Abs(br.X - tl.X); dw > minExtent {
			w = dw
		}
		if dh := math.Abs(tl.Y - br.Y); dh > minExtent {
			h = dh
		}
	}

	b.Size = Vec3{w, h, s.cfg.Depth}
	b.Transform = Translation(center)
	b.Visual = ComposeTRS(center, Vec3{}, b.Size)

	b.Body.SetTranslation(center)
	if s.caps.ResizeColliders {
		b.Body.SetHalfExtents(b.Size.Scale(0.5))
	}
}

// Close unsubscribes from every layout source and removes all colliders.
func (s *UIColliderSync) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for _, cancel := range s.cancels {
		if cancel != nil {
			cancel()
		}
	}
	s.cancels = nil
	for _, b := range s.bindings {
		s.world.RemoveBody(b.Body)
	}
	s.bindings = nil
}

package leaffall

import (
	"math"

	"github.com/tanema/gween/ease"
)

// Focuser is implemented by whatever owns camera or position state and can
// steer attention toward a point and back.
type Focuser interface {
	Focus(target Vec3)
	Unfocus()
}

// Camera is a perspective camera looking from Position toward Target. It
// converts between world space, normalized device coordinates (NDC, each
// axis in [-1, 1]) and screen pixels inside Viewport.
type Camera struct {
	Position Vec3
	Target   Vec3
	Up       Vec3
	// FOV is the vertical field of view in degrees.
	FOV       float64
	Near, Far float64
	// Viewport is the screen-space rectangle the camera renders into.
	Viewport Rect

	// FocusDuration is the focus/unfocus tween length in seconds.
	FocusDuration float32
	// FocusEase shapes the focus tween. Defaults to ease.OutCubic.
	FocusEase ease.TweenFunc

	home    Vec3
	focused bool
	focus   *TweenGroup

	view        Mat4
	proj        Mat4
	viewProj    Mat4
	invViewProj Mat4
	dirty       bool
}

// NewCamera creates a camera from cfg looking at the world origin.
func NewCamera(cfg CameraConfig, viewport Rect) *Camera {
	return &Camera{
		Position:      cfg.Position,
		Up:            Vec3{0, 1, 0},
		FOV:           cfg.FOV,
		Near:          cfg.Near,
		Far:           cfg.Far,
		Viewport:      viewport,
		FocusDuration: cfg.FocusDuration,
		FocusEase:     ease.OutCubic,
		dirty:         true,
	}
}

// SetViewport resizes the viewport in pixels.
func (c *Camera) SetViewport(width, height float64) {
	c.Viewport.Width = width
	c.Viewport.Height = height
	c.dirty = true
}

// MarkDirty forces a recomputation of the cached matrices. Call it after
// assigning Position, Target or FOV directly.
func (c *Camera) MarkDirty() {
	c.dirty = true
}

// viewportSize returns the viewport dimensions guarded against zero so
// callers never divide by zero while a window is minimized.
func (c *Camera) viewportSize() (w, h float64) {
	return math.Max(1, c.Viewport.Width), math.Max(1, c.Viewport.Height)
}

// Aspect returns width/height of the viewport.
func (c *Camera) Aspect() float64 {
	w, h := c.viewportSize()
	return w / h
}

// computeMatrices recomputes the cached matrices if dirty.
func (c *Camera) computeMatrices() {
	if !c.dirty {
		return
	}
	c.dirty = false
	c.view = lookAt(c.Position, c.Target, c.Up)
	c.proj = perspective(c.FOV, c.Aspect(), c.Near, c.Far)
	c.viewProj = c.proj.Mul(c.view)
	c.invViewProj = c.viewProj.Invert()
}

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection() Mat4 {
	c.computeMatrices()
	return c.viewProj
}

// Project converts a world point to NDC.
func (c *Camera) Project(world Vec3) Vec3 {
	c.computeMatrices()
	return c.viewProj.TransformPoint(world)
}

// Unproject converts an NDC point back to world space.
func (c *Camera) Unproject(ndc Vec3) Vec3 {
	c.computeMatrices()
	return c.invViewProj.TransformPoint(ndc)
}

// ScreenToNDC converts viewport pixel coordinates (Y down) to NDC (Y up).
func (c *Camera) ScreenToNDC(sx, sy float64) (x, y float64) {
	w, h := c.viewportSize()
	x = ((sx-c.Viewport.X)/w)*2 - 1
	y = -(((sy-c.Viewport.Y)/h)*2 - 1)
	return x, y
}

// NDCToScreen converts NDC to viewport pixel coordinates.
func (c *Camera) NDCToScreen(x, y float64) (sx, sy float64) {
	w, h := c.viewportSize()
	sx = c.Viewport.X + (x+1)/2*w
	sy = c.Viewport.Y + (1-y)/2*h
	return sx, sy
}

// WorldToScreen projects a world point to viewport pixels.
func (c *Camera) WorldToScreen(world Vec3) (sx, sy float64) {
	ndc := c.Project(world)
	return c.NDCToScreen(ndc.X, ndc.Y)
}

// RayPlaneZ casts a ray from the camera through the NDC point and returns
// where it meets the plane z = planeZ. ok is false when the plane is parallel
// to the ray or behind the camera.
func (c *Camera) RayPlaneZ(ndcX, ndcY, planeZ float64) (p Vec3, ok bool) {
	through := c.Unproject(Vec3{ndcX, ndcY, 0.5})
	dir := through.Sub(c.Position).Normalize()
	if math.Abs(dir.Z) < 1e-9 {
		return Vec3{}, false
	}
	t := (planeZ - c.Position.Z) / dir.Z
	if t < 0 {
		return Vec3{}, false
	}
	return c.Position.Add(dir.Scale(t)), true
}

// ScreenToPlane converts a viewport pixel to the world point on plane z = planeZ.
func (c *Camera) ScreenToPlane(sx, sy, planeZ float64) (Vec3, bool) {
	x, y := c.ScreenToNDC(sx, sy)
	return c.RayPlaneZ(x, y, planeZ)
}

// VisibleSizeAt returns the world-space width and height of the view
// frustum cross-section at depth z.
func (c *Camera) VisibleSizeAt(z float64) (width, height float64) {
	dist := math.Abs(c.Position.Z - z)
	height = 2 * dist * math.Tan(c.FOV*math.Pi/360)
	return height * c.Aspect(), height
}

// Focus tweens the look-at target toward target over FocusDuration.
func (c *Camera) Focus(target Vec3) {
	if !c.focused {
		c.home = c.Target
		c.focused = true
	}
	c.tweenTarget(target)
}

// Unfocus tweens the look-at target back to where it was before the first
// Focus call.
func (c *Camera) Unfocus() {
	if !c.focused {
		return
	}
	c.focused = false
	c.tweenTarget(c.home)
}

func (c *Camera) tweenTarget(to Vec3) {
	fn := c.FocusEase
	if fn == nil {
		fn = ease.OutCubic
	}
	d := c.FocusDuration
	if d <= 0 {
		c.Target = to
		c.focus = nil
		c.dirty = true
		return
	}
	c.focus = NewTweenGroup(
		[]*float64{&c.Target.X, &c.Target.Y, &c.Target.Z},
		[]float64{to.X, to.Y, to.Z},
		d, fn,
	)
}

// Focused reports whether the camera is focused away from its home target.
func (c *Camera) Focused() bool {
	return c.focused
}

// Focusing reports whether a focus tween is in progress.
func (c *Camera) Focusing() bool {
	return c.focus != nil
}

// Update advances the focus tween. Called from Engine.Update.
func (c *Camera) Update(dt float32) {
	if c.focus == nil {
		return
	}
	c.focus.Update(dt)
	if c.focus.Done {
		c.focus = nil
	}
	c.dirty = true
}

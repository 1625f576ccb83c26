package leaffall

import (
	"cmp"
	"image/color"
	"log"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// TextureSource resolves texture keys (leaf_pink, bg_fall, ...) to images.
// Texture returns nil while a texture is unavailable; the population using
// it is skipped for that frame but keeps simulating.
type TextureSource interface {
	Texture(key string) *ebiten.Image
}

// TextureMap is a TextureSource backed by a plain map.
type TextureMap map[string]*ebiten.Image

// Texture implements TextureSource.
func (m TextureMap) Texture(key string) *ebiten.Image { return m[key] }

// leafQuad is one transform waiting to be depth sorted and drawn.
type leafQuad struct {
	m     Mat4
	depth float64
}

// renderer turns leaf transforms into projected, depth-sorted textured
// quads and submits them in a single DrawTriangles32 call per texture.
type renderer struct {
	quadSize float64

	quads      []leafQuad
	batchVerts []ebiten.Vertex
	batchInds  []uint32
	missing    map[string]bool

	// drawCalls counts DrawTriangles32 submissions in the last frame.
	drawCalls int
}

func newRenderer(quadSize float64) *renderer {
	return &renderer{
		quadSize: quadSize,
		missing:  make(map[string]bool),
	}
}

// texture resolves key, logging the first miss of each key.
func (r *renderer) texture(src TextureSource, key string) *ebiten.Image {
	if src == nil {
		return nil
	}
	img := src.Texture(key)
	if img == nil {
		if !r.missing[key] {
			r.missing[key] = true
			log.Printf("leaffall: texture %q not available, skipping", key)
		}
		return nil
	}
	delete(r.missing, key)
	return img
}

// drawBackground stretches img to cover target, preserving aspect ratio.
func (r *renderer) drawBackground(target, img *ebiten.Image) {
	if img == nil {
		return
	}
	tb := target.Bounds()
	ib := img.Bounds()
	if ib.Dx() == 0 || ib.Dy() == 0 {
		return
	}
	sx := float64(tb.Dx()) / float64(ib.Dx())
	sy := float64(tb.Dy()) / float64(ib.Dy())
	s := max(sx, sy)
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(s, s)
	op.GeoM.Translate(
		float64(tb.Min.X)+(float64(tb.Dx())-float64(ib.Dx())*s)/2,
		float64(tb.Min.Y)+(float64(tb.Dy())-float64(ib.Dy())*s)/2,
	)
	target.DrawImage(img, &op)
	r.drawCalls++
}

// begin resets the quad list for a new frame.
func (r *renderer) begin() {
	r.quads = r.quads[:0]
	r.drawCalls = 0
}

// add queues transforms for the next flush.
func (r *renderer) add(transforms []Mat4) {
	for _, m := range transforms {
		r.quads = append(r.quads, leafQuad{m: m, depth: m[14]})
	}
}

// flush draws every queued quad with img, farthest first.
func (r *renderer) flush(target *ebiten.Image, cam *Camera, img *ebiten.Image, tint Color) {
	if img == nil || len(r.quads) == 0 {
		r.quads = r.quads[:0]
		return
	}
	slices.SortStableFunc(r.quads, func(a, b leafQuad) int {
		return cmp.Compare(a.depth, b.depth)
	})

	r.batchVerts = r.batchVerts[:0]
	r.batchInds = r.batchInds[:0]
	b := img.Bounds()
	src := [4]float32{float32(b.Min.X), float32(b.Min.Y), float32(b.Max.X), float32(b.Max.Y)}
	vp := cam.ViewProjection()
	for i := range r.quads {
		r.batchVerts, r.batchInds = appendLeafQuad(r.batchVerts, r.batchInds, cam, vp, r.quads[i].m, r.quadSize/2, src, tint)
	}
	r.quads = r.quads[:0]
	if len(r.batchInds) == 0 {
		return
	}

	var triOp ebiten.DrawTrianglesOptions
	triOp.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	target.DrawTriangles32(r.batchVerts, r.batchInds, img, &triOp)
	r.drawCalls++
}

// drawBoxes outlines world-space unit boxes (collider visuals) in a flat
// translucent color. Used in debug mode.
func (r *renderer) drawBoxes(target *ebiten.Image, cam *Camera, visuals []Mat4, tint Color) {
	if len(visuals) == 0 {
		return
	}
	r.batchVerts = r.batchVerts[:0]
	r.batchInds = r.batchInds[:0]
	src := [4]float32{0, 0, 1, 1}
	vp := cam.ViewProjection()
	for _, m := range visuals {
		r.batchVerts, r.batchInds = appendLeafQuad(r.batchVerts, r.batchInds, cam, vp, m, 0.5, src, tint)
	}
	if len(r.batchInds) == 0 {
		return
	}
	var triOp ebiten.DrawTrianglesOptions
	triOp.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	target.DrawTriangles32(r.batchVerts, r.batchInds, ensureWhitePixel(), &triOp)
	r.drawCalls++
}

// quadCorners returns the four corners (TL, TR, BL, BR) of the square of
// half-size half in m's local XY plane, in world space.
func quadCorners(m Mat4, half float64) [4]Vec3 {
	lx := [4]float64{-half, half, -half, half}
	ly := [4]float64{half, half, -half, -half}
	var out [4]Vec3
	for i := range out {
		out[i] = m.TransformPoint(Vec3{lx[i], ly[i], 0})
	}
	return out
}

// appendLeafQuad projects the quad of half-size half under m through vp and
// appends 4 vertices and 6 indices. Quads with a corner outside the depth
// range (behind the camera or past the far plane) are dropped.
func appendLeafQuad(verts []ebiten.Vertex, inds []uint32, cam *Camera, vp, m Mat4, half float64, src [4]float32, tint Color) ([]ebiten.Vertex, []uint32) {
	corners := quadCorners(m, half)
	var sx, sy [4]float32
	for i, c := range corners {
		ndc := vp.TransformPoint(c)
		if ndc.Z < -1 || ndc.Z > 1 {
			return verts, inds
		}
		x, y := cam.NDCToScreen(ndc.X, ndc.Y)
		sx[i], sy[i] = float32(x), float32(y)
	}

	// Premultiplied RGBA.
	ca := float32(tint.A)
	cr := float32(tint.R) * ca
	cg := float32(tint.G) * ca
	cb := float32(tint.B) * ca

	u := [4]float32{src[0], src[2], src[0], src[2]}
	v := [4]float32{src[1], src[1], src[3], src[3]}

	base := uint32(len(verts))
	for i := 0; i < 4; i++ {
		verts = append(verts, ebiten.Vertex{
			DstX:   sx[i],
			DstY:   sy[i],
			SrcX:   u[i],
			SrcY:   v[i],
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		})
	}
	// Two triangles: TL-TR-BL, TR-BR-BL
	inds = append(inds,
		base+0, base+1, base+2,
		base+1, base+3, base+2,
	)
	return verts, inds
}

// whitePixelImage is a lazily created 1x1 white image for untextured
// quads. Single-threaded like the rest of the engine.
var whitePixelImage *ebiten.Image

func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

package raytext

import (
	"math"

	"github.com/Xarvie/ray-text/text/sdfatlas"
)

// RenderVertex is one corner of a glyph or image quad, ready to upload
// to a GPU vertex buffer. UV is normalized to the backing Page's size.
type RenderVertex struct {
	X, Y  float32
	U, V  float32
	Color RGBA
}

// RenderBatch is every quad that can be drawn in a single GPU draw call
// without rebinding uniforms: every glyph in it shares an atlas page,
// fill, effect parameters, and SDF smoothness. Vertices are laid out as
// consecutive quads (4 vertices, 6 indices each) in Indices.
type RenderBatch struct {
	Page       *sdfatlas.Page
	Vertices   []RenderVertex
	Indices    []uint16
	Fill       FillStyle
	Effects    EffectParameters
	Smoothness float64
}

// renderState is the fingerprint DrawTextBlock compares consecutive
// glyphs' draw state by: whenever it changes, the accumulated batch is
// flushed and a new one started, matching the GPU reality that a page
// bind, a fill change, or an effect/smoothness change all require new
// uniforms.
type renderState struct {
	page       *sdfatlas.Page
	fill       FillStyle
	effects    EffectParameters
	styleBits  uint8
	smoothness float64
}

const (
	styleBitFakeBold uint8 = 1 << iota
	styleBitItalic
)

func (s renderState) equal(o renderState) bool {
	return s.page == o.page &&
		s.styleBits == o.styleBits &&
		s.smoothness == o.smoothness &&
		fillEqual(s.fill, o.fill) &&
		effectsEqual(s.effects, o.effects)
}

func fillEqual(a, b FillStyle) bool {
	if a.Type != b.Type || a.Color != b.Color || a.GradientP0 != b.GradientP0 || a.GradientP1 != b.GradientP1 {
		return false
	}
	if len(a.Stops) != len(b.Stops) {
		return false
	}
	for i := range a.Stops {
		if a.Stops[i] != b.Stops[i] {
			return false
		}
	}
	return true
}

func effectsEqual(a, b EffectParameters) bool {
	return ptrEqual(a.Outline, b.Outline) && ptrEqual(a.Glow, b.Glow) &&
		ptrEqual(a.Shadow, b.Shadow) && ptrEqual(a.Inner, b.Inner)
}

func ptrEqual[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ImageDraw is one inline image ready to draw, in transformed
// coordinate space, interleaved among a DrawTextBlock call's
// RenderBatches at the point in draw order where the image occurred.
type ImageDraw struct {
	UserData any
	// Quad is the image's four corners (top-left, top-right,
	// bottom-right, bottom-left), already passed through transform.
	Quad [4]Point
	Tint RGBA
}

// DrawItem is one element of DrawTextBlock's output, in draw order:
// exactly one of Batch or Image is set. Keeping both variants in a
// single ordered slice is what lets a caller flush glyph batches and
// draw images in the same order they occur on the page, rather than
// drawing every glyph before every image regardless of where an image
// sits relative to the surrounding text.
type DrawItem struct {
	Batch *RenderBatch
	Image *ImageDraw
}

// DrawTextBlock is C7: it resolves every glyph in block through the SDF
// cache (rasterizing on first use), applies transform to every glyph's
// and image's layout-space quad, tints every resolved color by
// globalTint, and culls elements whose pre-transform bounds fall
// entirely outside clipRect when one is given. Glyph quads are
// accumulated into RenderBatches in draw order, splitting into a new
// batch whenever the glyph's renderState (atlas page, fill, effects,
// style bits, SDF smoothness) differs from the batch in progress, or
// whenever an inline image interrupts the run: an image flushes the
// glyph batch in progress, draws with the default textured pipeline,
// and a forced state re-push starts the next glyph batch.
// Glyphs with no glyph cell (whitespace, or glyphs dropped for
// exceeding the atlas page size) contribute no quad but still occupied
// advance during layout.
func (e *Engine) DrawTextBlock(block *TextBlock, transform Matrix, globalTint RGBA, clipRect *Rect) []DrawItem {
	var result []DrawItem
	var current *RenderBatch
	var currentState renderState

	flush := func() {
		if current != nil && len(current.Vertices) > 0 {
			result = append(result, DrawItem{Batch: current})
		}
		current = nil
	}

	for _, line := range block.Lines {
		gi, ii := line.GlyphStart, line.ImageStart
		for gi < line.GlyphEnd || ii < line.ImageEnd {
			if ii < line.ImageEnd && (gi >= line.GlyphEnd || block.Images[ii].X <= block.Glyphs[gi].X) {
				flush()
				if img := e.drawImage(block.Images[ii], transform, globalTint, clipRect); img != nil {
					result = append(result, DrawItem{Image: img})
				}
				currentState = renderState{}
				ii++
				continue
			}

			g := block.Glyphs[gi]
			cell, scale := e.lookupOrRasterizeGlyph(g.RenderFontID, g.GlyphID, g.RenderPxSize)
			gi++
			if cell.Page == nil || cell.Width == 0 || cell.Height == 0 {
				continue
			}

			w := float64(cell.Width) * scale
			h := float64(cell.Height) * scale
			offX := cell.OffsetX * scale
			offY := cell.OffsetY * scale

			if clipRect != nil && glyphOutsideClip(g.X+offX, g.Y-offY, w, h, *clipRect) {
				continue
			}

			smoothness := e.smoothnessFor(scale)
			state := renderState{
				page:       cell.Page,
				fill:       g.Style.Fill,
				effects:    g.Style.Effects,
				styleBits:  styleBitsFor(g.Style),
				smoothness: smoothness,
			}

			if current == nil || !currentState.equal(state) {
				flush()
				current = &RenderBatch{
					Page: cell.Page, Fill: g.Style.Fill,
					Effects: tintEffects(g.Style.Effects, globalTint), Smoothness: smoothness,
				}
				currentState = state
			}

			pageSize := float32(cell.Page.Size)
			u0 := float32(cell.X) / pageSize
			v0 := float32(cell.Y) / pageSize
			u1 := float32(cell.X+cell.Width) / pageSize
			v1 := float32(cell.Y+cell.Height) / pageSize

			colors := cornerColors(g.Style.Fill)
			for i := range colors {
				colors[i] = colors[i].Multiply(globalTint)
			}

			topShearX := glyphShear(g.Style, h)
			for _, dx := range emboldenOffsets(g.Style) {
				corners := quadCorners(g.X+offX+dx, g.Y-offY, w, h, topShearX)
				base := uint16(len(current.Vertices))
				for i, c := range corners {
					p := transform.TransformPoint(c)
					current.Vertices = append(current.Vertices, RenderVertex{
						X: float32(p.X), Y: float32(p.Y),
						U: uvFor(i, u0, v0, u1, v1, 0), V: uvFor(i, u0, v0, u1, v1, 1),
						Color: colors[i],
					})
				}
				current.Indices = append(current.Indices, base, base+1, base+2, base, base+2, base+3)
			}
		}
	}
	flush()

	return result
}

// drawImage builds an image's transformed quad, or nil if it falls
// entirely outside clipRect.
func (e *Engine) drawImage(img PositionedImage, transform Matrix, globalTint RGBA, clipRect *Rect) *ImageDraw {
	w, h := img.Params.Width, img.Params.Height
	if clipRect != nil && glyphOutsideClip(img.X, img.Y, w, h, *clipRect) {
		return nil
	}
	corners := quadCorners(img.X, img.Y, w, h, 0)
	var quad [4]Point
	for i, c := range corners {
		quad[i] = transform.TransformPoint(c)
	}
	return &ImageDraw{UserData: img.Params.UserData, Quad: quad, Tint: globalTint}
}

// uvFor returns corner i's (axis==0: U, axis==1: V) texture coordinate,
// matching quadCorners' top-left/top-right/bottom-right/bottom-left order.
func uvFor(i int, u0, v0, u1, v1 float32, axis int) float32 {
	switch {
	case axis == 0 && (i == 0 || i == 3):
		return u0
	case axis == 0:
		return u1
	case axis == 1 && (i == 0 || i == 1):
		return v0
	default:
		return v1
	}
}

// smoothnessFor computes the per-glyph SDF edge smoothness from the
// scale a glyph is drawn at relative to its cached design size, plus
// this Engine's DynamicSmoothnessAdjustment: smaller on-screen glyphs
// (scale < 1) need a softer edge to avoid aliasing, larger ones a
// sharper one, clamped to a GPU-friendly range.
func (e *Engine) smoothnessFor(scale float64) float64 {
	s := 0.02/math.Sqrt(math.Max(0.25, scale)) + e.opts.dynamicSmoothnessAdjustment
	if s < 0.001 {
		s = 0.001
	} else if s > 0.1 {
		s = 0.1
	}
	return s
}

// styleBitsFor packs a glyph's style flags relevant to the GPU's shader
// branch — not its geometry, which is already baked into the quad — so
// they participate in renderState's batch-split comparison.
func styleBitsFor(style CharacterStyle) uint8 {
	var bits uint8
	if style.FakeBold {
		bits |= styleBitFakeBold
	}
	if style.Italic != 0 {
		bits |= styleBitItalic
	}
	return bits
}

// glyphOutsideClip reports whether a glyph's pre-transform bounding box
// (x, y, w, h with y as its top edge) lies entirely outside clip.
func glyphOutsideClip(x, y, w, h float64, clip Rect) bool {
	return x+w < clip.MinX || x > clip.MaxX || y+h < clip.MinY || y > clip.MaxY
}

// tintEffects returns a copy of effects with every enabled effect's
// color multiplied by tint, leaving disabled (nil) effects untouched.
func tintEffects(effects EffectParameters, tint RGBA) EffectParameters {
	out := effects
	if out.Outline != nil {
		o := *out.Outline
		o.Color = o.Color.Multiply(tint)
		out.Outline = &o
	}
	if out.Glow != nil {
		g := *out.Glow
		g.Color = g.Color.Multiply(tint)
		out.Glow = &g
	}
	if out.Shadow != nil {
		s := *out.Shadow
		s.Color = s.Color.Multiply(tint)
		out.Shadow = &s
	}
	if out.Inner != nil {
		i := *out.Inner
		i.Color = i.Color.Multiply(tint)
		out.Inner = &i
	}
	return out
}

// glyphShear returns the horizontal offset applied to a glyph quad's top
// edge to fake italics, leaving the bottom edge fixed: 0.2 of the
// quad's own rendered height, scaled by Italic's strength (0 disables
// it; 1 is a standard slant).
func glyphShear(style CharacterStyle, destHeight float64) float64 {
	return 0.2 * destHeight * style.Italic
}

// quadCorners returns a glyph cell's four corners (top-left,
// top-right, bottom-right, bottom-left), shearing the top edge by
// topShearX while leaving the bottom edge anchored in place.
func quadCorners(x, y, w, h, topShearX float64) [4]Point {
	return [4]Point{
		{X: x + topShearX, Y: y},
		{X: x + w + topShearX, Y: y},
		{X: x + w, Y: y + h},
		{X: x, Y: y + h},
	}
}

// emboldenOffsets returns the horizontal offsets, in pixels, at which
// to stamp a glyph's quad. FakeBold stamps it twice, half a pixel apart,
// approximating a heavier weight when no true bold face is loaded.
func emboldenOffsets(style CharacterStyle) []float64 {
	if !style.FakeBold {
		return []float64{0}
	}
	return []float64{0, 0.5}
}

// HighlightQuad is one rectangle of a selection highlight, already in
// transformed coordinate space and carrying the color it should be
// filled with.
type HighlightQuad struct {
	Rect  Rect
	Color RGBA
}

// DrawSelectionHighlight is a convenience wrapper around
// BoundsOfByteRange: it returns the same rectangles already transformed
// by transform, each paired with color, ready to fill directly without
// the caller threading color through separately.
func (e *Engine) DrawSelectionHighlight(block *TextBlock, startByte, endByte int, color RGBA, transform Matrix) []HighlightQuad {
	rects := e.BoundsOfByteRange(block, startByte, endByte)
	out := make([]HighlightQuad, len(rects))
	for i, r := range rects {
		p0 := transform.TransformPoint(Point{X: r.MinX, Y: r.MinY})
		p1 := transform.TransformPoint(Point{X: r.MaxX, Y: r.MaxY})
		out[i] = HighlightQuad{
			Rect:  Rect{MinX: math.Min(p0.X, p1.X), MinY: math.Min(p0.Y, p1.Y), MaxX: math.Max(p0.X, p1.X), MaxY: math.Max(p0.Y, p1.Y)},
			Color: color,
		}
	}
	return out
}

// cornerColors resolves the four corner colors (top-left, top-right,
// bottom-right, bottom-left) of a glyph quad for fill. FillSolid
// returns the same color at every corner. FillGradient treats
// GradientP0/GradientP1 as fractions of the glyph's own quad and
// samples a LinearGradientBrush built from Stops at each corner, so a
// gradient fill varies smoothly across one glyph the way it would
// across a filled shape.
func cornerColors(fill FillStyle) [4]RGBA {
	brush := brushForFill(fill)
	return [4]RGBA{
		brush.ColorAt(0, 0),
		brush.ColorAt(1, 0),
		brush.ColorAt(1, 1),
		brush.ColorAt(0, 1),
	}
}

// brushForFill resolves a FillStyle to the Brush that paints it.
// FillGradient builds a LinearGradientBrush over Stops; every other
// fill resolves to a SolidBrush, so callers sample both cases through
// the same Brush.ColorAt.
func brushForFill(fill FillStyle) Brush {
	if fill.Type != FillGradient || len(fill.Stops) == 0 {
		return Solid(fill.Color)
	}
	brush := NewLinearGradientBrush(fill.GradientP0.X, fill.GradientP0.Y, fill.GradientP1.X, fill.GradientP1.Y)
	for _, s := range fill.Stops {
		brush.AddColorStop(s.Offset, s.Color)
	}
	return brush
}

package raytext

import "github.com/Xarvie/ray-text/text"

// TextSpan is one run of input text sharing a single CharacterStyle. A
// styled paragraph is a sequence of TextSpans concatenated in logical
// (reading) order.
type TextSpan struct {
	// Text is the span's UTF-8 content. A span representing an inline
	// image instead of text leaves Text empty and sets Image.
	Text  string
	Style CharacterStyle
	Image *InlineImageParams
}

// VAlign controls how an inline image is positioned relative to the
// surrounding text. Every case except LineTop/LineBottom resolves
// against the paragraph's default character style's ascent/descent/
// x-height — a paragraph-wide constant, not the metrics of whatever
// font happens to sit next to the image on its particular line.
type VAlign int

const (
	// VAlignBaseline sits the image's bottom on the baseline.
	VAlignBaseline VAlign = iota
	// VAlignMiddleOfText centers the image across the paragraph
	// default style's x-height band, straddling the baseline.
	VAlignMiddleOfText
	// VAlignTextTop aligns the image's top with the paragraph default
	// style's ascent line.
	VAlignTextTop
	// VAlignTextBottom aligns the image's bottom with the paragraph
	// default style's descent line.
	VAlignTextBottom
	// VAlignLineTop aligns the image's top with the finalized line
	// box's top edge. Resolved after every other element on the line,
	// since the line box itself must be known first; contributes
	// nothing to the line's own ascent/descent.
	VAlignLineTop
	// VAlignLineBottom aligns the image's bottom with the finalized
	// line box's bottom edge, under the same terms as VAlignLineTop.
	VAlignLineBottom
)

// InlineImageParams describes an image embedded inline with text.
type InlineImageParams struct {
	Width, Height float64
	Align         VAlign
	// UserData is opaque to the Engine; callers use it to look up the
	// actual image resource when rendering a PositionedImage.
	UserData any
}

// CharacterStyle carries every per-run visual property a TextSpan can
// request: the font and size to shape with, the fill it is painted
// with, and the optional SDF effects layered on top of that fill.
type CharacterStyle struct {
	FontID   FontID
	SizePx   float64
	Fill     FillStyle
	Effects  EffectParameters
	FakeBold bool
	Italic   float64 // shear factor; 0 disables synthetic italic

	// Script and Language are optional BCP-47-style tags overriding the
	// run's auto-detected script/language during shaping. Empty means
	// "let segmentation decide" — the common case, since most callers
	// never need to override what the bidi/script segmenter infers.
	Script   string
	Language string
}

// AtlasTypeHint selects the kind of bitmap SetAtlasOptions configures
// the glyph cache to produce on a rasterization miss.
type AtlasTypeHint int

const (
	// SDFBitmap rasterizes a resolution-independent signed distance
	// field, scaled at draw time to any render size. The Engine default.
	SDFBitmap AtlasTypeHint = iota
	// AlphaOnlyBitmap stores a plain coverage mask at the font's design
	// size, made by thresholding the generated distance field; it is not
	// resolution-independent.
	AlphaOnlyBitmap
)

// FillType selects how a glyph's interior is colored.
type FillType int

const (
	// FillSolid paints with a single color.
	FillSolid FillType = iota
	// FillGradient paints with a linear gradient across GradientStops.
	FillGradient
)

// GradientStop is one color at a position along a fill gradient.
type GradientStop struct {
	Offset float64
	Color  RGBA
}

// FillStyle is the paint applied to a glyph's filled interior.
type FillStyle struct {
	Type      FillType
	Color     RGBA
	Stops     []GradientStop
	GradientP0, GradientP1 Point
}

// OutlineEffectParams strokes a glyph's SDF contour.
type OutlineEffectParams struct {
	Width float64
	Color RGBA
}

// GlowEffectParams adds a soft glow derived from the glyph's distance
// field, outside its contour.
type GlowEffectParams struct {
	Radius     float64
	Color      RGBA
	Intensity  float64
}

// ShadowEffectParams adds a drop shadow offset from the glyph.
type ShadowEffectParams struct {
	OffsetX, OffsetY float64
	BlurRadius       float64
	Color            RGBA
}

// InnerEffectParams adds a soft shadow or glow inside the glyph's
// contour, derived from the same distance field as GlowEffectParams.
type InnerEffectParams struct {
	Radius    float64
	Color     RGBA
	Intensity float64
}

// EffectParameters bundles the optional per-run SDF effects a
// CharacterStyle may enable. A zero-value field (nil pointer) disables
// that effect.
type EffectParameters struct {
	Outline *OutlineEffectParams
	Glow    *GlowEffectParams
	Shadow  *ShadowEffectParams
	Inner   *InnerEffectParams
}

// Justify controls how a finalized line's glyphs are distributed
// across the wrap width.
type Justify int

const (
	// JustifyLeft packs glyphs against the line's leading edge. This is
	// the Engine's resolved default.
	JustifyLeft Justify = iota
	JustifyCenter
	JustifyRight
	// JustifyFull requests full justification (stretching inter-word
	// spacing so every line but the last fills WrapWidth). This Engine
	// does not implement word-spacing redistribution and resolves
	// JustifyFull identically to JustifyLeft.
	JustifyFull
)

// LineBreakStrategy selects the granularity line breaking considers a
// valid break opportunity.
type LineBreakStrategy int

const (
	// SimpleByWidth breaks wherever a line exceeds WrapWidth, without
	// regard to word or grapheme boundaries.
	SimpleByWidth LineBreakStrategy = iota
	// WordBoundaries only breaks at whitespace between words.
	WordBoundaries
	// GraphemeBoundaries only breaks between grapheme clusters, never
	// inside one — needed for scripts where a cluster spans several
	// code points (e.g. combining marks, some Indic conjuncts).
	GraphemeBoundaries
)

// LineHeightType selects how ParagraphStyle.LineHeightValue is
// interpreted when finalizing a line's vertical extent.
type LineHeightType int

const (
	// ScaledFontMetrics multiplies the font's own recommended line
	// height (ascent+descent+line gap) by LineHeightValue.
	ScaledFontMetrics LineHeightType = iota
	// FactorOfFontSize multiplies the paragraph's font size in pixels
	// by LineHeightValue.
	FactorOfFontSize
	// AbsolutePoints uses LineHeightValue directly, in pixels.
	AbsolutePoints
	// ContentScaled multiplies the line's actual content height
	// (max ascent + max descent across its glyphs) by LineHeightValue.
	ContentScaled
)

// TabAlignment controls how text is positioned relative to a TabStop.
type TabAlignment int

const (
	TabLeft TabAlignment = iota
	TabRight
	TabCenter
	TabDecimal
)

// TabStop is one custom tab position within a paragraph.
type TabStop struct {
	Position  float64
	Alignment TabAlignment
}

// ParagraphStyle configures line breaking and block-level layout for a
// LayoutStyledText call.
type ParagraphStyle struct {
	WrapWidth   float64
	LineSpacing float64
	Justify     Justify
	BaseDirection text.Direction

	LineBreak       LineBreakStrategy
	LineHeightType  LineHeightType
	LineHeightValue float64
	FirstLineIndent float64

	// DefaultStyle is applied to any span that does not set its own
	// CharacterStyle fields (the zero CharacterStyle), and supplies the
	// reference metrics for inline-image vertical alignment.
	DefaultStyle CharacterStyle

	// TabStops and DefaultTabWidthFactor are accepted for forward
	// source compatibility but are not consulted by line breaking;
	// this Engine does not resolve tab stops into pen jumps, matching
	// the original source this spec restores the fields from.
	TabStops              []TabStop
	DefaultTabWidthFactor float64
}

// PositionedGlyph is one shaped, resolved, and placed glyph within a
// TextBlock, carrying everything C7 needs to batch and draw it.
type PositionedGlyph struct {
	GlyphID      uint16
	RenderFontID FontID
	X, Y         float64
	RenderPxSize float64
	Style        CharacterStyle
	// Direction is the bidi direction of the run this glyph was shaped
	// as part of; hit-testing uses it to tell which visual edge of the
	// glyph's cell corresponds to its logical leading edge.
	Direction text.Direction

	SourceSpanIndex            int
	SourceCharByteOffsetInSpan int
	NumSourceCharBytesInSpan   int
}

// PositionedImage is one inline image placed within a TextBlock. X, Y
// is its top-left corner in layout space; Width/Height (Params) give
// its extent. Ascent/Descent are resolved from Params.Align against
// the paragraph's default character style's metrics — an image
// aligned LineTop or LineBottom carries zero Ascent/Descent, since its
// placement depends on the line box rather than contributing to it;
// callers computing caret height for such an element fall back to the
// line's or paragraph's own metrics.
type PositionedImage struct {
	Params          InlineImageParams
	X, Y            float64
	Ascent, Descent float64
	SourceSpanIndex int
}

// VisualRun is a maximal run of PositionedGlyphs sharing direction and
// source span, in the order they should be drawn (visual order).
type VisualRun struct {
	GlyphStart, GlyphEnd int
	Direction            text.Direction
}

// LineLayoutInfo reports the geometry of one finalized line.
type LineLayoutInfo struct {
	Y                    float64
	Width, Ascent, Descent float64
	// LineHeight is the vertical advance from this line's baseline to
	// the next line's baseline, as resolved from ParagraphStyle's
	// LineHeightType/LineHeightValue for this line's content.
	LineHeight           float64
	GlyphStart, GlyphEnd int
	ImageStart, ImageEnd int

	// VisualToLogical[v] and LogicalToVisual[l] map a position within
	// this line between visual (left-to-right screen) order and
	// logical (source byte) order over the line's glyphs, indexed
	// relative to GlyphStart (so index 0 is the line's first glyph in
	// each respective order). The two are inverse permutations of each
	// other: VisualToLogical[LogicalToVisual[l]] == l for every l, and
	// symmetrically in the other direction. A line with no bidi
	// reordering (pure LTR or pure RTL) still populates both as the
	// identity/reverse permutation, so hit-testing never needs a
	// special case for "no bidi".
	VisualToLogical []int
	LogicalToVisual []int
}

// TextBlock is the result of LayoutStyledText: every glyph and image
// positioned in layout space, grouped into lines and visual runs.
type TextBlock struct {
	Glyphs []PositionedGlyph
	Images []PositionedImage
	Runs   []VisualRun
	Lines  []LineLayoutInfo

	Width, Height float64

	// spanByteRange[i] is the [start, end) byte range span i occupies
	// within the concatenated source text LayoutStyledText shaped, used
	// to translate between a single absolute byte offset and a
	// (spanIndex, byteOffset) pair. An image span has {-1, -1}.
	spanByteRange [][2]int
}

// CursorLocationInfo reports where a byte offset within a TextBlock's
// source spans maps to on screen, for caret drawing.
type CursorLocationInfo struct {
	X, Y              float64
	Height            float64
	LineIndex         int
	TrailingEdge      bool
	IsAtLogicalLineEnd bool
}

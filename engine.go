package raytext

import (
	"github.com/Xarvie/ray-text/text"
	"github.com/Xarvie/ray-text/text/sdfatlas"
)

// Engine is the entry point for the library: it owns a font registry
// (C1), an SDF glyph cache (C2), and lays out styled text into
// TextBlocks ready for hit-testing and batched rendering.
//
// Engine is not safe for concurrent use; callers that need concurrent
// access should serialize calls or use one Engine per goroutine.
type Engine struct {
	opts engineOptions

	fonts      *fontRegistry
	cache      *sdfatlas.Cache
	shaperImpl text.Shaper
}

// CreateEngine constructs an Engine with the given options applied over
// the package defaults.
func CreateEngine(opts ...EngineOption) (*Engine, error) {
	o := defaultEngineOptions()
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine{
		opts:  o,
		fonts: newFontRegistry(),
	}
	e.cache = sdfatlas.NewCache(o.glyphCacheCap, o.atlasPageSize, o.atlasPageSize, o.sdfConfig)
	return e, nil
}

// Close releases every font source owned by the Engine and drops the
// glyph cache's atlas pages.
func (e *Engine) Close() error {
	for _, id := range e.fonts.sortedFontIDs() {
		e.fonts.Unload(id)
	}
	e.cache.Clear()
	return nil
}

// LoadFont parses font data (TTF or OTF, including a TrueType/OpenType
// collection) and registers the face at faceIndex with the Engine,
// returning the FontID to reference it by. The first font loaded
// becomes the default font. A faceIndex beyond the data's face count
// returns FontErrorFaceIndexOutOfRange.
func (e *Engine) LoadFont(data []byte, faceIndex int) (FontID, error) {
	if len(data) == 0 {
		return InvalidFontID, &FontError{Kind: FontErrorEmptyData}
	}
	return e.fonts.Load(data, faceIndex)
}

// LoadFontFromFile reads a font file from disk and registers the face
// at faceIndex with the Engine. A read failure is reported as
// FontErrorIo rather than FontErrorParse.
func (e *Engine) LoadFontFromFile(path string, faceIndex int) (FontID, error) {
	return e.fonts.LoadFromFile(path, faceIndex)
}

// UnloadFont removes a previously loaded font and evicts every glyph
// cell already rasterized for it from the glyph cache, so a reused
// FontID value never accidentally serves a stale cell from the
// font it replaced.
func (e *Engine) UnloadFont(id FontID) {
	e.fonts.Unload(id)
	e.cache.EvictFont(uint64(id))
}

// IsFontValid reports whether id refers to a font currently loaded.
func (e *Engine) IsFontValid(id FontID) bool {
	return e.fonts.IsValid(id)
}

// GetDefaultFont returns the font used when a span specifies no font,
// or when every font in a resolution's fallback chain lacks the glyph.
func (e *Engine) GetDefaultFont() FontID {
	return e.fonts.Default()
}

// SetDefaultFont changes the default font. id must already be loaded.
func (e *Engine) SetDefaultFont(id FontID) {
	e.fonts.SetDefault(id)
}

// SetFontFallbackChain sets the ordered list of fonts consulted, after
// primary itself, when resolving a codepoint primary lacks a glyph
// for. Every font carries its own chain.
func (e *Engine) SetFontFallbackChain(primary FontID, fallbacks []FontID) {
	e.fonts.SetFallbackChain(primary, fallbacks)
}

// IsCodepointAvailable reports whether font id carries a real glyph for
// ch. When checkFallback is true, id's own fallback chain is also
// consulted before reporting false.
func (e *Engine) IsCodepointAvailable(id FontID, ch rune, checkFallback bool) bool {
	return e.fonts.IsCodepointAvailable(id, ch, checkFallback)
}

// GetFontProperties reports identifying metadata for a loaded font.
func (e *Engine) GetFontProperties(id FontID) (FontProperties, error) {
	return e.fonts.Properties(id)
}

// GetScaledFontMetrics reports a loaded font's vertical metrics scaled
// to size.
func (e *Engine) GetScaledFontMetrics(id FontID, size float64) (Metrics, error) {
	return e.fonts.ScaledMetrics(id, size)
}

// ClearGlyphCache drops every cached glyph cell and atlas page,
// forcing every subsequent glyph lookup to re-rasterize.
func (e *Engine) ClearGlyphCache() {
	e.cache.Clear()
}

// SetAtlasOptions reconfigures the glyph cache's capacity and atlas
// page dimensions, implicitly clearing it if anything actually changed.
// typeHint selects whether subsequent rasterizations produce SDF cells
// (scalable, the default) or plain alpha coverage masks (cheaper, for
// callers that only ever draw a font at its design size).
func (e *Engine) SetAtlasOptions(maxGlyphsEstimate, atlasWidth, atlasHeight int, typeHint AtlasTypeHint) {
	e.opts.glyphCacheCap = maxGlyphsEstimate
	e.opts.atlasPageSize = atlasWidth
	e.opts.atlasTypeHint = typeHint
	e.cache.Reconfigure(maxGlyphsEstimate, atlasWidth, atlasHeight, e.opts.sdfConfig)
}

// SetDynamicSmoothnessAdjustment sets this Engine's tunable added to
// every batch's computed SDF smoothness (see DrawTextBlock), clamped to
// [-0.04, 0.2]. Modeled as a per-Engine setter rather than a
// package-level variable so multiple Engines in the same process never
// interfere with each other's rendering.
func (e *Engine) SetDynamicSmoothnessAdjustment(v float64) {
	if v < -0.04 {
		v = -0.04
	} else if v > 0.2 {
		v = 0.2
	}
	e.opts.dynamicSmoothnessAdjustment = v
}

// DynamicSmoothnessAdjustment reports the tunable set via
// SetDynamicSmoothnessAdjustment.
func (e *Engine) DynamicSmoothnessAdjustment() float64 {
	return e.opts.dynamicSmoothnessAdjustment
}

// GetAtlasTextureForDebug returns every atlas page currently backing the
// glyph cache, for inspection or offline dumping; the Engine otherwise
// never exposes raw atlas bitmaps.
func (e *Engine) GetAtlasTextureForDebug() []*sdfatlas.Page {
	return e.cache.Pages()
}

// lookupOrRasterizeGlyph is C2's cache-facing half of Resolve: given a
// glyph id already chosen for a specific font (by C4's shaping, with
// .notdef substitution already applied — see resolveFallbackGlyph),
// return its cell, rasterizing and packing it into the atlas on a cache
// miss, plus the linear scale a caller must apply to place it at
// renderPxSize: the cell itself is always rasterized at the font's own
// fixed design size, never at the size it is finally drawn at, so one
// cached cell serves every render size that font is asked to draw at.
func (e *Engine) lookupOrRasterizeGlyph(fontID FontID, gid uint16, renderPxSize float64) (cell sdfatlas.CachedGlyph, scale float64) {
	designSize := e.fonts.designSize(fontID)
	isSDF := e.opts.atlasTypeHint != AlphaOnlyBitmap
	key := sdfatlas.GlyphKey{FontID: uint64(fontID), GlyphID: gid, DesignPxSize: designSize, IsSDF: isSDF}
	scale = renderPxSize / float64(designSize)

	if cached, ok := e.cache.Lookup(key); ok {
		return cached, scale
	}
	cached := e.cache.Rasterize(uint64(fontID), gid, designSize, isSDF, rasterizerFunc(e.fonts.glyphOutlineAndMetrics))
	e.cache.Insert(key, cached)
	return cached, scale
}

// rasterizerFunc adapts a plain function to sdfatlas.Rasterizer, so the
// cache can call back into the font registry without the registry
// importing the sdfatlas package.
type rasterizerFunc func(fontID uint64, glyphID uint16, designPxSize int16) (outline *text.GlyphOutline, advance, ascent, descent float64, ok bool)

// GlyphOutlineAndMetrics implements sdfatlas.Rasterizer.
func (f rasterizerFunc) GlyphOutlineAndMetrics(fontID uint64, glyphID uint16, designPxSize int16) (outline *text.GlyphOutline, advance, ascent, descent float64, ok bool) {
	return f(fontID, glyphID, designPxSize)
}

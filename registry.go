package raytext

import (
	"errors"
	"sort"
	"sync"
	"unicode"

	"github.com/Xarvie/ray-text/text"
)

// FontID identifies a font loaded into an Engine. The zero value,
// InvalidFontID, never refers to a loaded font.
type FontID uint32

// InvalidFontID is returned by LoadFont on failure and never identifies a
// successfully loaded font.
const InvalidFontID FontID = 0

// defaultDesignPxSize is the pixel size at which a font's glyphs are
// rasterized into the SDF atlas when it carries no size of its own. A
// glyph's on-screen size is recovered by scaling this cached bitmap by
// renderPxSize/designPxSize rather than by re-rasterizing per render
// size, which is what keeps the atlas size-independent.
const defaultDesignPxSize int16 = 64

// Metrics describes a font's vertical metrics at a specific size.
type Metrics = text.Metrics

// FontProperties reports identifying information about a loaded font
// plus its unscaled, face-space vertical metrics — the numbers
// GetScaledFontMetrics scales by size to produce Metrics.
type FontProperties struct {
	FamilyName string
	FullName   string
	NumGlyphs  int
	UnitsPerEm int

	// HasTypoMetrics reports whether the font's tables carried usable
	// vertical metrics at all; some fonts report all-zero metrics, in
	// which case Ascender/Descender/LineGap below are meaningless and
	// GetScaledFontMetrics falls back to the face's own per-size
	// metrics instead of scaling these.
	HasTypoMetrics bool

	// Ascender, Descender, LineGap are raw, unscaled face-space metrics
	// (font design units, i.e. as reported at ppem == UnitsPerEm).
	// Descender is stored as a positive distance below the baseline.
	Ascender, Descender, LineGap float64
}

// fontEntry is one font loaded into the registry: its source plus a
// small cache of Face objects keyed by size, since Face creation from a
// FontSource is cheap but the sourceFace it wraps is reused.
type fontEntry struct {
	id     FontID
	source *text.FontSource

	// designPxSize is this font's cached SDF design size: the pixel
	// size its glyphs are rasterized at in the atlas, independent of
	// whatever renderPxSize a span later asks to draw it at.
	designPxSize int16

	mu    sync.Mutex
	faces map[float64]text.Face
}

func (e *fontEntry) faceAt(size float64) text.Face {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.faces == nil {
		e.faces = make(map[float64]text.Face)
	}
	if f, ok := e.faces[size]; ok {
		return f
	}
	f := e.source.Face(size)
	e.faces[size] = f
	return f
}

// fontRegistry is C1: the Engine's multi-font store. It owns loading,
// validity checks, the default font and fallback chain, and exposes the
// outline extraction that C2's glyph cache rasterizes from.
type fontRegistry struct {
	mu        sync.RWMutex
	entries   map[FontID]*fontEntry
	nextID    FontID
	defaultID FontID

	// fallback maps a primary FontID to the ordered list of FontIDs
	// consulted, in order, when a codepoint is missing from the
	// primary. Every font has its own chain; there is no single
	// process-wide chain shared across fonts.
	fallback map[FontID][]FontID

	extractor *text.OutlineExtractor
}

func newFontRegistry() *fontRegistry {
	return &fontRegistry{
		entries:   make(map[FontID]*fontEntry),
		nextID:    InvalidFontID + 1,
		fallback:  make(map[FontID][]FontID),
		extractor: text.NewOutlineExtractor(),
	}
}

// Load parses font data and registers the face at faceIndex, returning
// its FontID. The first font loaded into an otherwise-empty registry
// becomes the default font.
func (r *fontRegistry) Load(data []byte, faceIndex int) (FontID, error) {
	source, err := text.NewFontSource(data, text.WithFaceIndex(faceIndex))
	if err != nil {
		return InvalidFontID, loadError(err, faceIndex, FontErrorParse)
	}
	return r.register(source), nil
}

// LoadFromFile reads and registers the face at faceIndex from a font
// file on disk. A read failure (missing file, permission error, ...)
// is reported as FontErrorIo rather than FontErrorParse, since the data
// never reached the parser.
func (r *fontRegistry) LoadFromFile(path string, faceIndex int) (FontID, error) {
	source, err := text.NewFontSourceFromFile(path, text.WithFaceIndex(faceIndex))
	if err != nil {
		return InvalidFontID, loadError(err, faceIndex, FontErrorIo)
	}
	return r.register(source), nil
}

// loadError classifies a font-source creation failure: an
// ErrFaceIndexOutOfRange is always reported as such regardless of the
// caller's notFound kind, which otherwise names the failure.
func loadError(err error, faceIndex int, notFound FontErrorKind) *FontError {
	if errors.Is(err, text.ErrFaceIndexOutOfRange) {
		Logger().Warn("raytext: font load rejected", "reason", "face index out of range", "faceIndex", faceIndex)
		return &FontError{Kind: FontErrorFaceIndexOutOfRange, Err: err}
	}
	Logger().Warn("raytext: font load failed", "error", err)
	return &FontError{Kind: notFound, Err: err}
}

// register assigns source a new FontID and makes it the registry's
// default font if this is the first one loaded.
func (r *fontRegistry) register(source *text.FontSource) FontID {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	r.entries[id] = &fontEntry{id: id, source: source, designPxSize: defaultDesignPxSize}
	if r.defaultID == InvalidFontID {
		r.defaultID = id
	}
	return id
}

// Unload closes the font's source and removes it from the registry,
// the default font slot, its own fallback chain, and every other
// font's fallback chain that named it.
func (r *fontRegistry) Unload(id FontID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[id]
	if !ok {
		Logger().Warn("raytext: UnloadFont on unknown font", "fontID", id)
		return
	}
	_ = entry.source.Close()
	delete(r.entries, id)

	if r.defaultID == id {
		r.defaultID = InvalidFontID
	}
	delete(r.fallback, id)
	for primary, chain := range r.fallback {
		filtered := chain[:0]
		for _, fid := range chain {
			if fid != id {
				filtered = append(filtered, fid)
			}
		}
		r.fallback[primary] = filtered
	}
}

func (r *fontRegistry) IsValid(id FontID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[id]
	return ok
}

func (r *fontRegistry) Default() FontID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultID
}

func (r *fontRegistry) SetDefault(id FontID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; ok {
		r.defaultID = id
	}
}

// SetFallbackChain replaces the ordered list of fonts consulted, after
// primary itself, when a codepoint is missing from primary. Every font
// carries its own chain — setting primary's chain never affects any
// other font's. Unknown ids (including an unknown primary) are dropped.
func (r *fontRegistry) SetFallbackChain(primary FontID, ids []FontID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[primary]; !ok {
		Logger().Warn("raytext: SetFontFallbackChain on unknown primary font", "fontID", primary)
		return
	}
	chain := make([]FontID, 0, len(ids))
	for _, id := range ids {
		if _, ok := r.entries[id]; ok {
			chain = append(chain, id)
		} else {
			Logger().Warn("raytext: SetFontFallbackChain skipped unknown fallback font", "primary", primary, "fontID", id)
		}
	}
	r.fallback[primary] = chain
}

// FallbackChain reports primary's own fallback chain.
func (r *fontRegistry) FallbackChain(primary FontID) []FontID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	chain := r.fallback[primary]
	out := make([]FontID, len(chain))
	copy(out, chain)
	return out
}

func (r *fontRegistry) entry(id FontID) *fontEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[id]
}

// IsCodepointAvailable reports whether font id carries a non-.notdef
// glyph for ch. When checkFallback is true and id itself lacks the
// glyph, id's own fallback chain (set via SetFallbackChain) is
// consulted in order before returning false.
func (r *fontRegistry) IsCodepointAvailable(id FontID, ch rune, checkFallback bool) bool {
	entry := r.entry(id)
	if entry == nil {
		return false
	}
	if entry.source.Parsed().GlyphIndex(ch) != 0 {
		return true
	}
	if !checkFallback {
		return false
	}
	for _, fid := range r.FallbackChain(id) {
		if e := r.entry(fid); e != nil && e.source.Parsed().GlyphIndex(ch) != 0 {
			return true
		}
	}
	return false
}

// designSize reports id's cached SDF design size, or the package
// default if id is not (or no longer) loaded.
func (r *fontRegistry) designSize(id FontID) int16 {
	entry := r.entry(id)
	if entry == nil {
		return defaultDesignPxSize
	}
	return entry.designPxSize
}

// Properties reports identifying metadata and unscaled, face-space
// vertical metrics for font id. The face-space metrics are read at
// ppem == UnitsPerEm, which is how this Engine's ParsedFont backend
// exposes raw font-design-unit values without a separate API.
func (r *fontRegistry) Properties(id FontID) (FontProperties, error) {
	entry := r.entry(id)
	if entry == nil {
		return FontProperties{}, &FontError{Kind: FontErrorUnknownID, FontID: id}
	}
	parsed := entry.source.Parsed()
	unitsPerEm := parsed.UnitsPerEm()
	if unitsPerEm <= 0 {
		unitsPerEm = 1000
	}
	raw := parsed.Metrics(float64(unitsPerEm))
	descender := raw.Descent
	if descender < 0 {
		descender = -descender
	}
	return FontProperties{
		FamilyName:     entry.source.Name(),
		FullName:       parsed.FullName(),
		NumGlyphs:      parsed.NumGlyphs(),
		UnitsPerEm:     unitsPerEm,
		HasTypoMetrics: raw.Ascent != 0 || descender != 0,
		Ascender:       raw.Ascent,
		Descender:      descender,
		LineGap:        raw.LineGap,
	}, nil
}

// ScaledMetrics reports font id's vertical metrics scaled to size,
// derived from Properties' unscaled face-space metrics rather than
// re-querying the face directly: Scale (size/UnitsPerEm) is applied to
// Ascender/Descender/LineGap, and the x-height/cap-height/underline/
// strikeout fields fall back to standard fractions of Ascent and size
// for fonts whose tables don't report them.
func (r *fontRegistry) ScaledMetrics(id FontID, size float64) (Metrics, error) {
	entry := r.entry(id)
	if entry == nil {
		return Metrics{}, &FontError{Kind: FontErrorUnknownID, FontID: id}
	}
	props, err := r.Properties(id)
	if err != nil {
		return Metrics{}, err
	}
	return scaledMetricsFromProperties(props, size, entry.faceAt(size).Metrics()), nil
}

// scaledMetricsFromProperties builds Metrics at size from props' raw
// face-space numbers, using raw (the face's own per-size metrics) only
// to recover XHeight/CapHeight when the font reports them directly, or
// as the whole basis when props carries no usable typo metrics at all.
func scaledMetricsFromProperties(props FontProperties, size float64, raw Metrics) Metrics {
	unitsPerEm := props.UnitsPerEm
	if unitsPerEm <= 0 {
		unitsPerEm = 1000
	}
	scale := size / float64(unitsPerEm)

	ascent, descent, lineGap := raw.Ascent, raw.Descent, raw.LineGap
	if props.HasTypoMetrics {
		ascent = props.Ascender * scale
		descent = props.Descender * scale
		lineGap = props.LineGap * scale
	}

	xHeight := raw.XHeight
	if xHeight <= 0 {
		xHeight = 0.45 * ascent
	}
	capHeight := raw.CapHeight
	if capHeight <= 0 {
		capHeight = 0.7 * ascent
	}

	recommended := ascent + descent + lineGap
	if recommended <= 0 {
		recommended = 1.2 * size
	}

	return Metrics{
		Ascent:    ascent,
		Descent:   descent,
		LineGap:   lineGap,
		XHeight:   xHeight,
		CapHeight: capHeight,

		Scale:                 scale,
		RecommendedLineHeight: recommended,
		UnderlinePosition:     -0.1 * size,
		UnderlineThickness:    0.05 * size,
		StrikeoutPosition:     xHeight / 2,
		StrikeoutThickness:    size / 20,
	}
}

// resolveGlyphID walks the requested font, then the fallback chain, then
// the default font, looking for the first one carrying a real glyph for
// ch. It returns the glyph id, the font it was found in, and whether any
// font in the chain carried one at all (false means .notdef applies).
func (r *fontRegistry) resolveGlyphID(requested FontID, ch rune) (gid uint16, font FontID, found bool) {
	r.mu.RLock()
	chain := r.fallback[requested]
	candidates := make([]FontID, 0, len(chain)+2)
	candidates = append(candidates, requested)
	candidates = append(candidates, chain...)
	candidates = append(candidates, r.defaultID)
	r.mu.RUnlock()

	seen := make(map[FontID]bool, len(candidates))
	for _, id := range candidates {
		if id == InvalidFontID || seen[id] {
			continue
		}
		seen[id] = true
		entry := r.entry(id)
		if entry == nil {
			continue
		}
		if g := entry.source.Parsed().GlyphIndex(ch); g != 0 {
			return g, id, true
		}
	}
	if requested != InvalidFontID {
		return 0, requested, false
	}
	return 0, r.Default(), false
}

// glyphOutlineAndMetrics backs sdfatlas.Rasterizer for C2 (engine.go
// adapts it through rasterizerFunc), producing a rasterizer-independent
// outline plus scaled metrics for one glyph.
func (r *fontRegistry) glyphOutlineAndMetrics(fontID uint64, glyphID uint16, designPxSize int16) (outline *text.GlyphOutline, advance, ascent, descent float64, ok bool) {
	entry := r.entry(FontID(fontID))
	if entry == nil {
		return nil, 0, 0, 0, false
	}

	ppem := float64(designPxSize)
	parsed := entry.source.Parsed()
	metrics := parsed.Metrics(ppem)

	out, err := r.extractor.ExtractOutline(parsed, text.GlyphID(glyphID), ppem)
	if err != nil {
		return nil, 0, metrics.Ascent, metrics.Descent, false
	}
	return out, float64(out.Advance), metrics.Ascent, metrics.Descent, true
}

// isWhitespace mirrors the short-circuit used by glyph resolution: a
// missing whitespace glyph still advances the pen but is never rendered
// or looked up through the fallback chain for a renderable cell.
func isWhitespace(ch rune) bool {
	return unicode.IsSpace(ch)
}

// sortedFontIDs returns every loaded font id in ascending order, used by
// debug/introspection helpers that need a stable iteration order.
func (r *fontRegistry) sortedFontIDs() []FontID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]FontID, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

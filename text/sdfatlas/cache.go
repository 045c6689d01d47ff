package sdfatlas

import (
	"fmt"

	"github.com/Xarvie/ray-text/internal/cache"
	"github.com/Xarvie/ray-text/text"
)

// AtlasErrorKind classifies an AtlasError.
type AtlasErrorKind int

const (
	// GlyphTooLarge indicates a rasterized glyph could not fit any
	// atlas page, including a freshly opened empty one.
	GlyphTooLarge AtlasErrorKind = iota
)

func (k AtlasErrorKind) String() string {
	switch k {
	case GlyphTooLarge:
		return "glyph-too-large"
	default:
		return "unknown"
	}
}

// AtlasError reports a non-fatal condition in glyph rasterization: the
// glyph involved is still usable for advance-width purposes (see
// CachedGlyph), it simply has no renderable cell.
type AtlasError struct {
	Kind     AtlasErrorKind
	FontID   uint64
	GlyphID  uint16
	Width    int
	Height   int
}

func (e *AtlasError) Error() string {
	return fmt.Sprintf("sdfatlas: %s: font=%d glyph=%d size=%dx%d", e.Kind, e.FontID, e.GlyphID, e.Width, e.Height)
}

// GlyphKey identifies one cached glyph cell: the rendered font, the
// glyph within it, the design size it was rasterized at, and whether
// the cell holds a signed-distance field (IsSDF) or a plain alpha
// coverage mask. The two bitmap kinds never collide in the cache since
// IsSDF is part of the key, so a caller can mix an SDF-backed atlas for
// scalable text with an AlphaOnlyBitmap atlas for fixed-size glyphs
// (e.g. pre-rendered bitmap fonts) through the same Cache.
type GlyphKey struct {
	FontID       uint64
	GlyphID      uint16
	DesignPxSize int16
	IsSDF        bool
}

// CachedGlyph is the value stored per GlyphKey: where the glyph's SDF
// cell lives and the metrics it was rasterized with.
type CachedGlyph struct {
	Page *Page

	// X, Y, Width, Height locate the glyph's cell within Page. An empty
	// glyph (dropped because it could not fit any page) has Width == 0
	// && Height == 0 but a still-valid Page of nil.
	X, Y          int
	Width, Height int

	// OffsetX, OffsetY is the draw offset from the pen position to the
	// top-left of the cell, in design-size pixels.
	OffsetX, OffsetY float64

	// Advance, Ascent, Descent are the glyph's metrics at DesignPxSize;
	// callers scale by renderPxSize/DesignPxSize for on-screen placement.
	Advance float64
	Ascent  float64
	Descent float64
}

// Rasterizer produces a glyph's outline and metrics on a cache miss.
// Implemented by the font registry (C1).
type Rasterizer interface {
	GlyphOutlineAndMetrics(fontID uint64, glyphID uint16, designPxSize int16) (outline *text.GlyphOutline, advance, ascent, descent float64, ok bool)
}

// Cache is C2's glyph SDF cache: a bounded map of GlyphKey to CachedGlyph
// backed by internal/cache's soft-limit LRU and a set of shelf-packed
// pages. It is not safe for concurrent use — the engine's layout and
// render paths run cooperatively on one goroutine — so the concurrency
// internal/cache itself provides does not extend to pages.
type Cache struct {
	capacity int
	pageW    int
	pageH    int
	config   Config

	entries *cache.Cache[GlyphKey, CachedGlyph]

	pages []*Page
}

// NewCache creates a glyph cache holding up to capacity entries, packed
// into pageW x pageH pages, rasterizing with the given SDF configuration.
func NewCache(capacity, pageW, pageH int, config Config) *Cache {
	return &Cache{
		capacity: capacity,
		pageW:    pageW,
		pageH:    pageH,
		config:   config,
		entries:  cache.New[GlyphKey, CachedGlyph](capacity),
	}
}

// Lookup returns the cached glyph for key, promoting it to most-recently
// used. ok is false on a cache miss.
func (c *Cache) Lookup(key GlyphKey) (CachedGlyph, bool) {
	return c.entries.Get(key)
}

// Insert adds or replaces the entry for key. Once the cache's entry
// count exceeds its capacity, the least recently used quarter is
// evicted. Atlas rectangles belonging to an evicted entry are not
// reclaimed; they stay occupied until Clear.
func (c *Cache) Insert(key GlyphKey, value CachedGlyph) {
	c.entries.Set(key, value)
}

// Rasterize renders the glyph's outline — as a distance field when isSDF
// is true, or as a plain alpha coverage mask otherwise — and packs it
// into the current page (opening a new one if it doesn't fit), returning
// a CachedGlyph ready to Insert. A glyph too large for any page produces
// a zero-size CachedGlyph whose Advance/Ascent/Descent are still set, so
// the pen continues to advance correctly.
func (c *Cache) Rasterize(fontID uint64, glyphID uint16, designPxSize int16, isSDF bool, r Rasterizer) CachedGlyph {
	outline, advance, ascent, descent, ok := r.GlyphOutlineAndMetrics(fontID, glyphID, designPxSize)
	if !ok || outline == nil || outline.IsEmpty() {
		return CachedGlyph{Advance: advance, Ascent: ascent, Descent: descent}
	}

	shape := FromOutline(outline)
	if shape.EdgeCount() == 0 {
		return CachedGlyph{Advance: advance, Ascent: ascent, Descent: descent}
	}

	bmp := c.rasterizeShape(shape)
	if !isSDF {
		bmp = toAlphaBitmap(bmp)
	}

	page := c.currentPage()
	x, y, fit := page.Allocate(bmp.Width, bmp.Height, bmp)
	if !fit {
		page = c.openPage()
		x, y, fit = page.Allocate(bmp.Width, bmp.Height, bmp)
	}
	if !fit {
		// Glyph exceeds even an empty page; drop the cell, keep metrics
		// so the pen still advances as if it had been drawn.
		err := &AtlasError{Kind: GlyphTooLarge, FontID: fontID, GlyphID: glyphID, Width: bmp.Width, Height: bmp.Height}
		Logger().Warn("sdfatlas: glyph too large for atlas page", "error", err)
		return CachedGlyph{Advance: advance, Ascent: ascent, Descent: descent}
	}

	return CachedGlyph{
		Page:    page,
		X:       x,
		Y:       y,
		Width:   bmp.Width,
		Height:  bmp.Height,
		OffsetX: -bmp.TranslateX / bmp.Scale,
		OffsetY: -bmp.TranslateY / bmp.Scale,
		Advance: advance,
		Ascent:  ascent,
		Descent: descent,
	}
}

func (c *Cache) rasterizeShape(shape *Shape) *Bitmap {
	return generateFromShape(NewGenerator(c.config), shape)
}

// toAlphaBitmap collapses a generated SDF bitmap into a plain coverage
// mask for the AlphaOnlyBitmap atlas type: pixels on the inside of the
// outline (distance byte at or above the 128 on-edge value, per
// distanceToPixel's convention) become opaque, everything else
// transparent. The distance field is still generated first and then
// thresholded, so the result loses the SDF's resolution-independent
// edges without saving the generation cost.
func toAlphaBitmap(bmp *Bitmap) *Bitmap {
	data := make([]byte, len(bmp.Data))
	for i, v := range bmp.Data {
		if v >= 128 {
			data[i] = 255
		}
	}
	out := *bmp
	out.Data = data
	return &out
}

// generateFromShape mirrors Generator.Generate's body for a
// pre-constructed Shape, since the cache rasterizes from font outlines
// already converted upstream by C1/C4, not from a raw GlyphOutline.
func generateFromShape(g *Generator, shape *Shape) *Bitmap {
	cfg := g.Config()
	if shape == nil || shape.EdgeCount() == 0 {
		size := cfg.Size
		return &Bitmap{Data: make([]byte, size*size), Width: size, Height: size, Scale: 1.0}
	}

	shapeBounds := shape.Bounds
	if shapeBounds.IsEmpty() {
		size := cfg.Size
		return &Bitmap{Data: make([]byte, size*size), Width: size, Height: size, Scale: 1.0}
	}

	padding := cfg.Range
	bounds := shapeBounds.Expand(padding)
	scale := calculateScale(bounds, cfg.Size, padding)

	occupiedW := bounds.Width() * scale
	occupiedH := bounds.Height() * scale
	translateX := (float64(cfg.Size) - occupiedW) / 2
	translateY := (float64(cfg.Size) - occupiedH) / 2

	bmp := &Bitmap{
		Data:       make([]byte, cfg.Size*cfg.Size),
		Width:      cfg.Size,
		Height:     cfg.Size,
		Bounds:     bounds,
		Scale:      scale,
		TranslateX: translateX,
		TranslateY: translateY,
	}

	g.generateDistanceField(bmp, shape)
	return bmp
}

func (c *Cache) currentPage() *Page {
	if len(c.pages) == 0 {
		return c.openPage()
	}
	return c.pages[len(c.pages)-1]
}

func (c *Cache) openPage() *Page {
	page := &Page{
		Data:      make([]byte, c.pageW*c.pageH),
		Size:      c.pageW,
		Format:    DefaultFormat,
		allocator: NewShelfAllocator(c.pageW, c.pageH, Padding),
	}
	c.pages = append(c.pages, page)
	return page
}

// EvictFont removes every cached entry keyed by fontID, for both SDF
// and alpha-only variants and every design size it was ever rasterized
// at. The atlas cells those entries pointed at are not reclaimed, same
// as any other eviction; they stay occupied until Clear.
func (c *Cache) EvictFont(fontID uint64) int {
	return c.entries.DeleteMatching(func(k GlyphKey) bool { return k.FontID == fontID })
}

// Pages returns every atlas page currently allocated by this cache.
func (c *Cache) Pages() []*Page {
	return c.pages
}

// Reconfigure updates capacity and page dimensions, implicitly clearing
// the cache if any parameter actually changed.
func (c *Cache) Reconfigure(capacity, pageW, pageH int, config Config) {
	if capacity == c.capacity && pageW == c.pageW && pageH == c.pageH && config == c.config {
		return
	}
	c.capacity = capacity
	c.pageW = pageW
	c.pageH = pageH
	c.config = config
	c.Clear()
}

// Clear drops every page and cached entry, resetting the packer.
func (c *Cache) Clear() {
	c.entries = cache.New[GlyphKey, CachedGlyph](c.capacity)
	c.pages = nil
}

// Len returns the number of entries currently cached.
func (c *Cache) Len() int {
	return c.entries.Len()
}

package sdfatlas

import (
	"github.com/gogpu/gputypes"
)

// PageSize is the default square dimension, in pixels, of one atlas page.
const PageSize = 1024

// DefaultFormat is the GPU texture format every atlas page declares:
// single-channel, 8-bit, unsigned normalized.
const DefaultFormat = gputypes.TextureFormatR8Unorm

// Padding is the number of transparent pixels separating neighboring
// glyph cells on a page, preventing SDF bleed between glyphs.
const Padding = 2

// Page is one texture-sized bitmap packed with glyph SDF cells via shelf
// allocation. Pages are allocated on demand as the working set of glyphs
// grows; a page that cannot accommodate a glyph causes a new page to be
// opened, never a resize of an existing one.
type Page struct {
	// Data is the page's single-channel pixel buffer, row-major,
	// PageSize*PageSize bytes.
	Data []byte

	Size int

	// Format describes how Data should be interpreted by the GPU
	// texture upload path; SDF atlas pages are always single-channel.
	Format gputypes.TextureFormat

	allocator *ShelfAllocator
	dirty     bool
}

// NewPage creates an empty page of PageSize x PageSize, ready for
// allocation.
func NewPage() *Page {
	return &Page{
		Data:      make([]byte, PageSize*PageSize),
		Size:      PageSize,
		Format:    gputypes.TextureFormatR8Unorm,
		allocator: NewShelfAllocator(PageSize, PageSize, Padding),
	}
}

// Allocate reserves a w x h cell on the page and blits src into it.
// ok is false, with the page left unchanged, if there is no room.
func (p *Page) Allocate(w, h int, src *Bitmap) (x, y int, ok bool) {
	x, y, ok = p.allocator.Allocate(w, h)
	if !ok {
		return -1, -1, false
	}
	p.blit(x, y, w, h, src)
	p.dirty = true
	return x, y, true
}

func (p *Page) blit(x, y, w, h int, src *Bitmap) {
	for row := 0; row < h; row++ {
		srcOff := row * src.Width
		dstOff := (y+row)*p.Size + x
		copy(p.Data[dstOff:dstOff+w], src.Data[srcOff:srcOff+w])
	}
}

// Dirty reports whether the page has pixels written since the last
// MarkClean call, and therefore needs re-upload to the GPU.
func (p *Page) Dirty() bool {
	return p.dirty
}

// MarkClean clears the dirty flag after the page's texture has been
// uploaded.
func (p *Page) MarkClean() {
	p.dirty = false
}

// Utilization returns the fraction of the page's area currently packed.
func (p *Page) Utilization() float64 {
	return p.allocator.Utilization()
}

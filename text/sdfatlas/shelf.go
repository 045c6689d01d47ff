package sdfatlas

// ShelfAllocator packs rectangles into a fixed-size page using horizontal
// shelves: each shelf has a height set by the tallest glyph placed on it
// so far, and glyphs are placed left to right until the shelf is full, at
// which point a new shelf opens below it.
type ShelfAllocator struct {
	width   int
	height  int
	padding int
	shelves []atlasShelf

	usedArea int
}

// atlasShelf is one horizontal strip of a page.
type atlasShelf struct {
	y      int // top of the shelf
	height int // height of the tallest glyph placed on it so far
	x      int // next free x position
}

// NewShelfAllocator creates an allocator for a page of the given size,
// with padding pixels of separation between neighboring glyphs.
func NewShelfAllocator(width, height, padding int) *ShelfAllocator {
	return &ShelfAllocator{
		width:   width,
		height:  height,
		padding: padding,
		shelves: make([]atlasShelf, 0, 16),
	}
}

// Allocate reserves a w x h rectangle, returning its top-left position.
// ok is false if the page has no remaining room for a rectangle this
// size; the allocator's shelves are left unchanged in that case.
func (a *ShelfAllocator) Allocate(w, h int) (x, y int, ok bool) {
	paddedW := w + a.padding
	paddedH := h + a.padding

	for i := range a.shelves {
		s := &a.shelves[i]

		if s.x+paddedW > a.width {
			continue
		}

		if h > s.height {
			// Only the last shelf can grow taller, and only if there's
			// room below it to absorb the extra height.
			if i == len(a.shelves)-1 && s.y+paddedH <= a.height {
				s.height = h
				x, y = s.x, s.y
				s.x += paddedW
				a.usedArea += w * h
				return x, y, true
			}
			continue
		}

		x, y = s.x, s.y
		s.x += paddedW
		a.usedArea += w * h
		return x, y, true
	}

	return a.openNewShelf(w, h, paddedW, paddedH)
}

func (a *ShelfAllocator) openNewShelf(w, h, paddedW, paddedH int) (x, y int, ok bool) {
	newY := 0
	if n := len(a.shelves); n > 0 {
		last := a.shelves[n-1]
		newY = last.y + last.height + a.padding
	}

	if newY+paddedH > a.height {
		return -1, -1, false
	}

	a.shelves = append(a.shelves, atlasShelf{y: newY, height: h, x: paddedW})
	a.usedArea += w * h
	return 0, newY, true
}

// AllocateFixed allocates a square cell, a convenience for atlases whose
// glyphs share one SDF cell size.
func (a *ShelfAllocator) AllocateFixed(cellSize int) (x, y int, ok bool) {
	return a.Allocate(cellSize, cellSize)
}

// Reset drops all allocations so the page can be repacked from scratch.
func (a *ShelfAllocator) Reset() {
	a.shelves = a.shelves[:0]
	a.usedArea = 0
}

// Utilization returns the fraction of the page's area currently in use.
func (a *ShelfAllocator) Utilization() float64 {
	if a.width <= 0 || a.height <= 0 {
		return 0
	}
	return float64(a.usedArea) / float64(a.width*a.height)
}

// UsedArea returns the total pixel area allocated so far.
func (a *ShelfAllocator) UsedArea() int {
	return a.usedArea
}

// TotalArea returns the page's total pixel area.
func (a *ShelfAllocator) TotalArea() int {
	return a.width * a.height
}

// ShelfCount returns the number of shelves opened so far.
func (a *ShelfAllocator) ShelfCount() int {
	return len(a.shelves)
}

// CanFit reports whether a w x h rectangle could be placed without
// actually allocating it.
func (a *ShelfAllocator) CanFit(w, h int) bool {
	paddedW := w + a.padding
	paddedH := h + a.padding

	if paddedW > a.width || paddedH > a.height {
		return false
	}

	for i := range a.shelves {
		s := &a.shelves[i]

		if s.x+paddedW > a.width {
			continue
		}
		if h <= s.height {
			return true
		}
		if i == len(a.shelves)-1 && s.y+paddedH <= a.height {
			return true
		}
	}

	newY := 0
	if n := len(a.shelves); n > 0 {
		last := a.shelves[n-1]
		newY = last.y + last.height + a.padding
	}
	return newY+paddedH <= a.height
}

// RemainingHeight returns the vertical space left for new shelves.
func (a *ShelfAllocator) RemainingHeight() int {
	if len(a.shelves) == 0 {
		return a.height
	}
	last := a.shelves[len(a.shelves)-1]
	used := last.y + last.height + a.padding
	if used >= a.height {
		return 0
	}
	return a.height - used
}

// CurrentShelfRemainingWidth returns the unused width on the most
// recently opened shelf.
func (a *ShelfAllocator) CurrentShelfRemainingWidth() int {
	if len(a.shelves) == 0 {
		return a.width
	}
	last := a.shelves[len(a.shelves)-1]
	if last.x >= a.width {
		return 0
	}
	return a.width - last.x
}

package raytext

import (
	"math"

	"github.com/Xarvie/ray-text/text"
)

// absoluteByteOffset converts a (spanIndex, byteOffset-within-span) pair
// into a single byte offset into the block's concatenated source text.
func (b *TextBlock) absoluteByteOffset(spanIndex, byteOffset int) int {
	if spanIndex < 0 || spanIndex >= len(b.spanByteRange) {
		return 0
	}
	start := b.spanByteRange[spanIndex][0]
	if start < 0 {
		return 0
	}
	return start + byteOffset
}

// spanAndLocalOffset is absoluteByteOffset's inverse: it locates which
// span an absolute byte offset falls within and the offset relative to
// that span's own text. An offset past the end of every span clamps to
// the end of the last text span.
func (b *TextBlock) spanAndLocalOffset(absolute int) (spanIndex, byteOffset int) {
	lastText := -1
	for i, rng := range b.spanByteRange {
		if rng[0] < 0 {
			continue // image span, contributes no bytes
		}
		lastText = i
		if absolute >= rng[0] && absolute < rng[1] {
			return i, absolute - rng[0]
		}
	}
	if lastText < 0 {
		return 0, 0
	}
	rng := b.spanByteRange[lastText]
	return lastText, rng[1] - rng[0]
}

// CursorInfoFromByteOffset is C6: it maps a single absolute byte offset
// into the block's source text to a caret position and height.
// preferLeadingEdge resolves which visual edge of the character at
// byteOffset the caret sits on — its logical-leading edge (true) or its
// logical-trailing edge (false) — which only differs from a plain
// left/right choice at a bidi run boundary, where leading and trailing
// can land on the same visual side as an adjacent, oppositely-directed
// run.
func (e *Engine) CursorInfoFromByteOffset(block *TextBlock, byteOffset int, preferLeadingEdge bool) CursorLocationInfo {
	spanIndex, localOffset := block.spanAndLocalOffset(byteOffset)

	for lineIdx := range block.Lines {
		line := &block.Lines[lineIdx]
		logicalPos := -1
		for lp, vp := range line.LogicalToVisual {
			g := block.Glyphs[line.GlyphStart+vp]
			if g.SourceSpanIndex != spanIndex {
				continue
			}
			if localOffset < g.SourceCharByteOffsetInSpan || localOffset >= g.SourceCharByteOffsetInSpan+g.NumSourceCharBytesInSpan {
				continue
			}
			logicalPos = lp
			break
		}
		if logicalPos < 0 {
			continue
		}

		visualPos := line.LogicalToVisual[logicalPos]
		g := block.Glyphs[line.GlyphStart+visualPos]
		x := glyphEdgeX(block, line, visualPos, preferLeadingEdge, g.Direction)
		return CursorLocationInfo{
			X: x, Y: line.Y - line.Ascent, Height: line.Ascent + line.Descent,
			LineIndex:          lineIdx,
			TrailingEdge:       !preferLeadingEdge,
			IsAtLogicalLineEnd: logicalPos == len(line.LogicalToVisual)-1,
		}
	}

	// Offset not covered by any glyph (end of a span, or a span that
	// shaped to nothing): place the caret at the end of the last line.
	if n := len(block.Lines); n > 0 {
		last := block.Lines[n-1]
		return CursorLocationInfo{
			X: last.Width, Y: last.Y - last.Ascent, Height: last.Ascent + last.Descent,
			LineIndex: n - 1, TrailingEdge: true, IsAtLogicalLineEnd: true,
		}
	}
	return CursorLocationInfo{}
}

// glyphEdgeX resolves the X, in line-local layout space, of one side of
// the glyph at visual position visualPos within line. leading requests
// the glyph's logical-leading edge; dir says which visual side that is:
// the left edge for an LTR glyph, the right edge for an RTL one.
func glyphEdgeX(block *TextBlock, line *LineLayoutInfo, visualPos int, leading bool, dir text.Direction) float64 {
	n := line.GlyphEnd - line.GlyphStart
	g := block.Glyphs[line.GlyphStart+visualPos]
	left := g.X
	right := line.Width
	if visualPos+1 < n {
		right = block.Glyphs[line.GlyphStart+visualPos+1].X
	}

	wantLeft := leading
	if dir == text.DirectionRTL {
		wantLeft = !leading
	}
	if wantLeft {
		return left
	}
	return right
}

// ByteOffsetFromVisualPosition is C6's inverse mapping: given a point in
// the same coordinate space DrawTextBlock uses, it returns the absolute
// byte offset of the glyph edge closest to point, whether that edge is
// the glyph's trailing edge, and the pixel distance from point to the
// edge chosen.
func (e *Engine) ByteOffsetFromVisualPosition(block *TextBlock, point Point) (byteOffset int, isTrailingEdge bool, distanceToClosestEdge float64) {
	lineIdx := nearestLine(block.Lines, point.Y)
	if lineIdx < 0 {
		return 0, false, 0
	}
	line := block.Lines[lineIdx]
	n := line.GlyphEnd - line.GlyphStart
	if n <= 0 {
		return 0, false, 0
	}

	bestVisual := 0
	bestTrailing := false
	bestDist := math.Inf(1)

	for v := 0; v < n; v++ {
		g := block.Glyphs[line.GlyphStart+v]
		left := g.X
		right := line.Width
		if v+1 < n {
			right = block.Glyphs[line.GlyphStart+v+1].X
		}

		leftDist := math.Abs(point.X - left)
		if leftDist < bestDist {
			bestDist, bestVisual, bestTrailing = leftDist, v, false
		}
		rightDist := math.Abs(point.X - right)
		if rightDist < bestDist {
			bestDist, bestVisual, bestTrailing = rightDist, v, true
		}
	}

	g := block.Glyphs[line.GlyphStart+bestVisual]
	local := g.SourceCharByteOffsetInSpan
	// Trailing, for an RTL glyph, lands on this glyph's logical-leading
	// side rather than past its end — mirror glyphEdgeX's left/right
	// swap so the reported offset matches the edge actually chosen.
	trailingInLogicalOrder := bestTrailing
	if g.Direction == text.DirectionRTL {
		trailingInLogicalOrder = !bestTrailing
	}
	if trailingInLogicalOrder {
		local += g.NumSourceCharBytesInSpan
	}
	return block.absoluteByteOffset(g.SourceSpanIndex, local), bestTrailing, bestDist
}

func nearestLine(lines []LineLayoutInfo, y float64) int {
	if len(lines) == 0 {
		return -1
	}
	for i, line := range lines {
		top := line.Y - line.Ascent
		bottom := line.Y + line.Descent
		if y >= top && y <= bottom {
			return i
		}
	}
	if y < lines[0].Y-lines[0].Ascent {
		return 0
	}
	return len(lines) - 1
}

// BoundsOfByteRange is C6's range-to-rectangles mapping: it returns one
// Rect per line covered by the absolute byte range [startByte, endByte),
// in block-local layout coordinates, for selection highlighting.
func (e *Engine) BoundsOfByteRange(block *TextBlock, startByte, endByte int) []Rect {
	startSpan, startLocal := block.spanAndLocalOffset(startByte)
	endSpan, endLocal := block.spanAndLocalOffset(endByte)

	inRange := func(g PositionedGlyph) bool {
		before := g.SourceSpanIndex < startSpan || (g.SourceSpanIndex == startSpan && g.SourceCharByteOffsetInSpan < startLocal)
		after := g.SourceSpanIndex > endSpan || (g.SourceSpanIndex == endSpan && g.SourceCharByteOffsetInSpan >= endLocal)
		return !before && !after
	}

	var rects []Rect
	for _, line := range block.Lines {
		minX, maxX := -1.0, -1.0
		for gi := line.GlyphStart; gi < line.GlyphEnd; gi++ {
			g := block.Glyphs[gi]
			if !inRange(g) {
				continue
			}
			if minX < 0 || g.X < minX {
				minX = g.X
			}
			right := line.Width
			if gi+1 < line.GlyphEnd {
				right = block.Glyphs[gi+1].X
			}
			if right > maxX {
				maxX = right
			}
		}
		if minX >= 0 {
			rects = append(rects, Rect{
				MinX: minX, MaxX: maxX,
				MinY: line.Y - line.Ascent, MaxY: line.Y + line.Descent,
			})
		}
	}
	return rects
}

// Rect is an axis-aligned rectangle in layout space.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

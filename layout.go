package raytext

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Xarvie/ray-text/text"
)

// spanRange locates one TextSpan's text within the paragraph's
// concatenated byte stream, and carries the Face it shapes with.
type spanRange struct {
	index      int
	start, end int // byte offsets into the concatenated text span
	face       text.Face
	fontID     FontID
	sizePx     float64
	isImage    bool
	image      *InlineImageParams // set when isImage; start/end cover its placeholder rune

	// script and language, when non-empty, override this span's
	// auto-detected shaping script/language (CharacterStyle.Script /
	// CharacterStyle.Language).
	script   string
	language string
}

// imagePlaceholderRune is substituted into the concatenated paragraph
// text for every inline image span, so bidi/script segmentation sees a
// single ordinary code point standing in for the image and every later
// span's byte offsets stay contiguous with the source spans.
const imagePlaceholderRune = '￼'

// shapedUnit is one shaped glyph, or one inline image, still in
// paragraph-relative layout order, before line breaking has assigned it
// an X position.
type shapedUnit struct {
	gid          uint16
	advance      float64
	fontID       FontID
	sizePx       float64
	spanIndex    int
	byteOffset   int // offset within the span's own Text
	byteLen      int
	breakAfter   bool
	direction    text.Direction

	// globalStart is this unit's byte offset within the paragraph's
	// concatenated text, used only to merge image units into the
	// shaped glyph sequence at the right position; text units never
	// read it again afterward.
	globalStart int

	isImage bool
	image   *InlineImageParams
}

// LayoutStyledText is C3+C4+C5: it segments spans into bidi/script
// runs, shapes each against its span's font, breaks the result into
// lines at style.WrapWidth, and positions every glyph and image.
func (e *Engine) LayoutStyledText(spans []TextSpan, style ParagraphStyle) (*TextBlock, error) {
	if len(spans) == 0 {
		return nil, &LayoutError{Kind: LayoutErrorEmptyInput}
	}
	if err := validateParagraphStyle(style); err != nil {
		return nil, err
	}
	if style.LineSpacing <= 0 {
		style.LineSpacing = 1.0
	}
	if style.LineHeightValue <= 0 {
		style.LineHeightValue = style.LineSpacing
	}

	ranges, fullText, err := e.buildSpanRanges(spans, style.DefaultStyle)
	if err != nil {
		return nil, err
	}

	units := e.shapeParagraph(fullText, ranges, style.BaseDirection)

	imgRef := e.imageReferenceMetrics(style.DefaultStyle)
	block := e.breakAndPosition(units, spans, style, imgRef)
	block.spanByteRange = spanByteRanges(spans, ranges)
	return block, nil
}

// imageReferenceMetrics resolves the paragraph-wide ascent/descent/
// x-height reference (A, D, X in the vertical-alignment formulas) that
// every inline image on every line aligns against, regardless of the
// font actually adjacent to it on that line: the paragraph's default
// character style, falling back to the registry's default font at a
// conventional text size when the caller left DefaultStyle's font or
// size unset.
func (e *Engine) imageReferenceMetrics(defaultStyle CharacterStyle) Metrics {
	fontID := defaultStyle.FontID
	if !e.fonts.IsValid(fontID) {
		fontID = e.fonts.Default()
	}
	if fontID == InvalidFontID {
		return Metrics{}
	}
	sizePx := defaultStyle.SizePx
	if sizePx <= 0 {
		sizePx = 16
	}
	m, err := e.fonts.ScaledMetrics(fontID, sizePx)
	if err != nil {
		return Metrics{}
	}
	return m
}

// validateParagraphStyle rejects a ParagraphStyle carrying an invalid
// numeric value before any layout work begins. A negative WrapWidth is
// reported as LayoutErrorInvalidWidth — a negative available width has
// no sensible interpretation, unlike 0 or less for LineHeightValue,
// which LayoutStyledText treats as "use LineSpacing instead." Every
// other violation reports LayoutErrorInvalidStyle.
func validateParagraphStyle(style ParagraphStyle) error {
	if style.WrapWidth < 0 {
		return &LayoutError{Kind: LayoutErrorInvalidWidth, Field: "WrapWidth"}
	}
	if style.LineHeightValue < 0 {
		return &LayoutError{Kind: LayoutErrorInvalidStyle, Field: "LineHeightValue"}
	}
	if style.FirstLineIndent < 0 {
		return &LayoutError{Kind: LayoutErrorInvalidStyle, Field: "FirstLineIndent"}
	}
	return validateGradientStops(style.DefaultStyle.Fill, "DefaultStyle.Fill.Stops")
}

// validateGradientStops rejects a FillGradient fill whose Stops are not
// sorted by non-decreasing Offset: a gradient built from out-of-order
// stops has no well-defined direction to paint in.
func validateGradientStops(fill FillStyle, field string) error {
	if fill.Type != FillGradient {
		return nil
	}
	for i := 1; i < len(fill.Stops); i++ {
		if fill.Stops[i].Offset < fill.Stops[i-1].Offset {
			return &LayoutError{Kind: LayoutErrorInvalidStyle, Field: field}
		}
	}
	return nil
}

// spanByteRanges builds TextBlock.spanByteRange from the spanRanges
// already computed by buildSpanRanges, indexed by span index rather
// than by position within ranges (image spans are skipped over when
// assigning byte offsets, so ranges alone does not directly index by
// span).
func spanByteRanges(spans []TextSpan, ranges []spanRange) [][2]int {
	out := make([][2]int, len(spans))
	for i := range out {
		out[i] = [2]int{-1, -1}
	}
	for _, r := range ranges {
		if r.isImage {
			continue
		}
		out[r.index] = [2]int{r.start, r.end}
	}
	return out
}

// buildSpanRanges resolves each span's Face (falling back to the
// default font for an invalid FontID) and concatenates text spans into
// one paragraph string for bidi/script segmentation. An image span
// contributes a single imagePlaceholderRune in its place, so every
// later span's byte offsets stay contiguous and the bidi/script
// segmenter sees one ordinary code point rather than a gap.
func (e *Engine) buildSpanRanges(spans []TextSpan, defaultStyle CharacterStyle) ([]spanRange, string, error) {
	var full strings.Builder
	ranges := make([]spanRange, 0, len(spans))

	for i := range spans {
		sp := &spans[i]
		if sp.Image != nil {
			start := full.Len()
			full.WriteRune(imagePlaceholderRune)
			ranges = append(ranges, spanRange{index: i, isImage: true, image: sp.Image, start: start, end: full.Len()})
			continue
		}

		effective := sp.Style
		if effective.FontID == InvalidFontID && effective.SizePx == 0 {
			effective = defaultStyle
		}

		fontID := effective.FontID
		if !e.fonts.IsValid(fontID) {
			fontID = e.fonts.Default()
		}
		if fontID == InvalidFontID {
			return nil, "", &LayoutError{Kind: LayoutErrorInvalidSpan, Field: "FontID"}
		}
		entry := e.fonts.entry(fontID)
		sizePx := effective.SizePx
		if sizePx <= 0 {
			return nil, "", &LayoutError{Kind: LayoutErrorInvalidSpan, Field: "SizePx"}
		}
		if err := validateGradientStops(effective.Fill, "Style.Fill.Stops"); err != nil {
			return nil, "", err
		}

		start := full.Len()
		full.WriteString(sp.Text)
		ranges = append(ranges, spanRange{
			index:    i,
			start:    start,
			end:      full.Len(),
			face:     entry.faceAt(sizePx),
			fontID:   fontID,
			sizePx:   sizePx,
			script:   effective.Script,
			language: effective.Language,
		})
	}

	return ranges, full.String(), nil
}

// shapeParagraph segments the paragraph by bidi level and script, then
// shapes each segment against the span(s) it overlaps, splitting the
// shaping call at span boundaries so a mixed-style segment is still
// shaped per-font. Inline images never participate in shaping (their
// placeholder rune's segment, if any, simply shapes to nothing); they
// are merged back into the result afterward by paragraph byte position.
func (e *Engine) shapeParagraph(fullText string, ranges []spanRange, baseDir text.Direction) []shapedUnit {
	if fullText == "" {
		return nil
	}

	segmenter := text.NewBuiltinSegmenterWithDirection(baseDir)
	segments := segmenter.Segment(fullText)

	var units []shapedUnit
	for _, seg := range segments {
		segUnits := e.shapeSegmentAcrossSpans(fullText, seg, ranges)
		if seg.Direction == text.DirectionRTL {
			reverseUnits(segUnits)
		}
		if len(segUnits) > 0 {
			segUnits[len(segUnits)-1].breakAfter = true
		}
		units = append(units, segUnits...)
	}
	return mergeImageUnits(units, ranges)
}

// mergeImageUnits builds one shapedUnit per image spanRange and merges
// them into units (already in paragraph order) by paragraph byte
// position. Both inputs are individually ordered by that position, so
// a single merge pass suffices; an image always breaks the line after
// it, the same as whitespace, since a caller rarely wants to wrap
// directly against an image's trailing edge.
func mergeImageUnits(units []shapedUnit, ranges []spanRange) []shapedUnit {
	var images []shapedUnit
	for _, r := range ranges {
		if !r.isImage {
			continue
		}
		images = append(images, shapedUnit{
			spanIndex:   r.index,
			globalStart: r.start,
			breakAfter:  true,
			isImage:     true,
			image:       r.image,
			advance:     r.image.Width,
		})
	}
	if len(images) == 0 {
		return units
	}

	merged := make([]shapedUnit, 0, len(units)+len(images))
	i, j := 0, 0
	for i < len(units) && j < len(images) {
		if units[i].globalStart <= images[j].globalStart {
			merged = append(merged, units[i])
			i++
		} else {
			merged = append(merged, images[j])
			j++
		}
	}
	merged = append(merged, units[i:]...)
	merged = append(merged, images[j:]...)
	return merged
}

// shapeSegmentAcrossSpans shapes the portion of seg covered by each
// overlapping span in turn, in logical order.
func (e *Engine) shapeSegmentAcrossSpans(fullText string, seg text.Segment, ranges []spanRange) []shapedUnit {
	var units []shapedUnit
	for _, r := range ranges {
		if r.isImage {
			continue
		}
		lo := max(seg.Start, r.start)
		hi := min(seg.End, r.end)
		if lo >= hi {
			continue
		}

		chunk := fullText[lo:hi]
		// Shapers report Cluster as a rune index into chunk; runeStarts
		// maps it to the rune's byte offset.
		runeStarts := make([]int, 0, len(chunk))
		for i := range chunk {
			runeStarts = append(runeStarts, i)
		}
		shaped := e.shapeChunk(chunk, r.face, r.script, r.language)
		for _, g := range shaped {
			if g.Cluster >= 0 && g.Cluster < len(runeStarts) {
				g.Cluster = runeStarts[g.Cluster]
			}
			gid, fontID := uint16(g.GID), r.fontID
			if gid == 0 {
				gid, fontID = e.resolveFallbackGlyph(chunk, g.Cluster, r.fontID, r.sizePx)
				if fe := e.fonts.entry(fontID); fontID != r.fontID && fe != nil {
					g.XAdvance = fe.source.Parsed().GlyphAdvance(gid, r.sizePx)
				}
			}
			byteLen := 1
			if g.Cluster >= 0 && g.Cluster < len(chunk) {
				_, byteLen = utf8.DecodeRuneInString(chunk[g.Cluster:])
			}
			units = append(units, shapedUnit{
				gid:         gid,
				advance:     g.XAdvance,
				fontID:      fontID,
				sizePx:      r.sizePx,
				spanIndex:   r.index,
				byteOffset:  (lo - r.start) + g.Cluster,
				byteLen:     byteLen,
				direction:   seg.Direction,
				breakAfter:  isBreakableAt(chunk, g.Cluster),
				globalStart: lo + g.Cluster,
			})
		}
	}
	return units
}

// resolveFallbackGlyph is invoked when shaping a cluster against its
// span's own font produced .notdef: it looks up the cluster's rune in
// the registry's fallback chain and the default font, returning the
// first real glyph id found there. A cluster with no glyph anywhere
// keeps .notdef in the span's original font, so its advance still
// comes from that font's metrics.
func (e *Engine) resolveFallbackGlyph(chunk string, cluster int, spanFont FontID, sizePx float64) (gid uint16, fontID FontID) {
	if cluster < 0 || cluster >= len(chunk) {
		return 0, spanFont
	}
	r, _ := decodeRuneAt(chunk, cluster)
	if gid, font, found := e.fonts.resolveGlyphID(spanFont, r); found {
		return gid, font
	}
	return 0, spanFont
}

func decodeRuneAt(s string, byteOffset int) (rune, int) {
	for i, r := range s[byteOffset:] {
		_ = i
		return r, byteOffset
	}
	return 0, byteOffset
}

// isBreakableAt reports whether a line break may occur immediately
// after the rune starting at byte offset cluster within chunk, i.e.
// the rune itself is whitespace.
func isBreakableAt(chunk string, cluster int) bool {
	if cluster < 0 || cluster >= len(chunk) {
		return false
	}
	for i, r := range chunk[cluster:] {
		_ = i
		return text.IsWhitespace(r)
	}
	return false
}

func reverseUnits(u []shapedUnit) {
	for i, j := 0, len(u)-1; i < j; i, j = i+1, j-1 {
		u[i], u[j] = u[j], u[i]
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// shaper returns the Shaper the Engine shapes complex scripts with.
// Lazily constructed so an Engine that never lays out text never pays
// for it.
func (e *Engine) shaper() text.Shaper {
	if e.shaperImpl == nil {
		e.shaperImpl = text.NewGoTextShaper()
	}
	return e.shaperImpl
}

// shapeChunk shapes chunk against face, honoring an explicit
// script/language override when the active shaper supports one and the
// caller's CharacterStyle declared it; every other shaper (and every
// span that leaves Script/Language empty) falls back to plain Shape,
// which keeps auto-detecting as before.
func (e *Engine) shapeChunk(chunk string, face text.Face, script, language string) []text.ShapedGlyph {
	if script != "" || language != "" {
		if hinted, ok := e.shaper().(text.ScriptHintShaper); ok {
			return hinted.ShapeWithHints(chunk, face, script, language)
		}
	}
	return e.shaper().Shape(chunk, face)
}

// placed is one shaped unit with its tentative X position, assuming
// the whole paragraph were laid out as a single line. Line breaking
// then cuts this flat sequence at break opportunities and re-bases X
// per resulting line, a single-pass-then-slice wrapping strategy.
type placed struct {
	unit       shapedUnit
	x, advance float64
	ascent     float64
	descent    float64
	lineGap    float64
	breakAfter bool
}

// breakAndPosition positions every shaped unit assuming one line, then
// slices that sequence into lines at style.WrapWidth, breaking at the
// last break opportunity at or before the overflow point (falling back
// to a mid-word break if a single unit is itself wider than the wrap
// width).
func (e *Engine) breakAndPosition(units []shapedUnit, spans []TextSpan, style ParagraphStyle, imgRef Metrics) *TextBlock {
	block := &TextBlock{}
	if len(units) == 0 {
		return block
	}

	flat := make([]placed, len(units))
	x := 0.0
	for i, u := range units {
		p := placed{unit: u, x: x, advance: u.advance, breakAfter: u.breakAfter}
		if !u.isImage {
			metrics, _ := e.fonts.ScaledMetrics(u.fontID, u.sizePx)
			p.ascent, p.descent, p.lineGap = metrics.Ascent, metrics.Descent, metrics.LineGap
		}
		flat[i] = p
		x += u.advance
	}

	lineStart := 0
	for lineStart < len(flat) {
		lineEnd := len(flat)
		if style.WrapWidth > 0 {
			startX := flat[lineStart].x
			lastBreak := -1
			for i := lineStart; i < len(flat); i++ {
				edge := flat[i].x + flat[i].advance - startX
				if edge > style.WrapWidth && i > lineStart {
					if lastBreak >= lineStart {
						lineEnd = lastBreak + 1
					} else {
						lineEnd = i
					}
					break
				}
				if isBreakOpportunity(flat[i], style.LineBreak) {
					lastBreak = i
				}
			}
		}
		block.appendLine(flat[lineStart:lineEnd], spans, style, imgRef)
		lineStart = lineEnd
	}

	if len(block.Lines) > 0 {
		last := block.Lines[len(block.Lines)-1]
		block.Height = last.Y - last.Ascent + last.LineHeight
	}
	return block
}

// isBreakOpportunity reports whether a line may end right after p,
// honoring style's LineBreakStrategy. WordBoundaries only allows a
// break after whitespace (p.breakAfter, computed at shaping time).
// SimpleByWidth and GraphemeBoundaries allow a break after any shaped
// unit: this Engine never represents more than one grapheme cluster as
// a single shapedUnit, so the two strategies coincide here — there is
// no coarser unit whose interior GraphemeBoundaries would need to
// protect against splitting.
func isBreakOpportunity(p placed, strategy LineBreakStrategy) bool {
	if strategy == WordBoundaries {
		return p.breakAfter
	}
	return true
}

// resolveLineHeight implements ParagraphStyle's four LineHeightType
// modes, each clamped to at least the line's own content height
// (ascent+descent) so a too-small override never overlaps glyphs from
// adjacent lines.
func resolveLineHeight(style ParagraphStyle, ascent, descent, lineGap, sizePx float64) float64 {
	minHeight := ascent + descent
	value := style.LineHeightValue
	if value <= 0 {
		value = 1.0
	}

	var height float64
	switch style.LineHeightType {
	case FactorOfFontSize:
		height = sizePx * value
	case AbsolutePoints:
		height = value
	case ContentScaled:
		height = minHeight * value
	default: // ScaledFontMetrics
		height = (ascent + descent + lineGap) * value
	}
	if height < minHeight {
		height = minHeight
	}
	return height
}

// pendingImage is an inline image placed within a line, held back from
// TextBlock.Images until the line's baseline Y and final box height
// are known (needed by VAlignLineTop/VAlignLineBottom).
type pendingImage struct {
	params    InlineImageParams
	spanIndex int
	x         float64
	ascent    float64
	descent   float64
}

// imageAscentDescent resolves an inline image's ascent/descent
// against the paragraph-wide reference ascent/descent/x-height ref
// (A, D, X). VAlignLineTop and
// VAlignLineBottom are resolved after the line box, not here — they
// contribute nothing to the line's own ascent/descent (see
// imageLineBoxOffset).
func imageAscentDescent(align VAlign, height float64, ref Metrics) (ascent, descent float64) {
	switch align {
	case VAlignMiddleOfText:
		return maxF(0, ref.XHeight/2+height/2), maxF(0, height/2-ref.XHeight/2)
	case VAlignTextTop:
		return ref.Ascent, maxF(0, height-ref.Ascent)
	case VAlignTextBottom:
		return maxF(0, height-ref.Descent), ref.Descent
	case VAlignLineTop, VAlignLineBottom:
		return 0, 0
	default: // VAlignBaseline
		return height, 0
	}
}

// imageBaselineOffset returns an inline image's top edge as an offset
// from the line's baseline (negative is above it), for every VAlign
// except LineTop/LineBottom (see imageLineBoxOffset).
func imageBaselineOffset(align VAlign, height float64, ref Metrics) float64 {
	switch align {
	case VAlignMiddleOfText:
		return -(ref.XHeight/2 + height/2)
	case VAlignTextTop:
		return -ref.Ascent
	case VAlignTextBottom:
		return ref.Descent - height
	default: // VAlignBaseline
		return -height
	}
}

// imageLineBoxOffset resolves VAlignLineTop/VAlignLineBottom against
// the now-finalized line box: Top sits flush with the box's top edge,
// Bottom flush with its bottom edge.
func imageLineBoxOffset(align VAlign, height, baselineYInBox, boxHeight float64) float64 {
	if align == VAlignLineBottom {
		return boxHeight - baselineYInBox - height
	}
	return -baselineYInBox
}

// appendLine finalizes one already-sliced line: re-bases X positions
// to start at 0, resolves vertical metrics as the max across its
// glyphs and images, applies justification, and appends to the
// block.
func (b *TextBlock) appendLine(line []placed, spans []TextSpan, style ParagraphStyle, imgRef Metrics) {
	if len(line) == 0 {
		return
	}
	isFirstLine := len(b.Lines) == 0
	startX := line[0].x
	indent := 0.0
	if isFirstLine {
		indent = style.FirstLineIndent
	}

	var ascent, descent, lineGap, width float64
	var sizePx float64
	glyphStart := len(b.Glyphs)
	var pending []pendingImage

	for _, p := range line {
		if p.unit.isImage {
			imgAscent, imgDescent := imageAscentDescent(p.unit.image.Align, p.unit.image.Height, imgRef)
			pending = append(pending, pendingImage{
				params: *p.unit.image, spanIndex: p.unit.spanIndex, x: p.x - startX + indent,
				ascent: imgAscent, descent: imgDescent,
			})
			ascent = maxF(ascent, imgAscent)
			descent = maxF(descent, imgDescent)
			width = p.x + p.advance - startX + indent
			continue
		}
		sp := spans[p.unit.spanIndex]
		charStyle := sp.Style
		if charStyle.FontID == InvalidFontID && charStyle.SizePx == 0 {
			charStyle = style.DefaultStyle
		}
		b.Glyphs = append(b.Glyphs, PositionedGlyph{
			GlyphID:                    p.unit.gid,
			RenderFontID:               p.unit.fontID,
			X:                          p.x - startX + indent,
			RenderPxSize:               p.unit.sizePx,
			Style:                      charStyle,
			Direction:                  p.unit.direction,
			SourceSpanIndex:            p.unit.spanIndex,
			SourceCharByteOffsetInSpan: p.unit.byteOffset,
			NumSourceCharBytesInSpan:   p.unit.byteLen,
		})
		ascent = maxF(ascent, p.ascent)
		descent = maxF(descent, p.descent)
		lineGap = maxF(lineGap, p.lineGap)
		width = p.x + p.advance - startX + indent
		sizePx = p.unit.sizePx
	}

	lineHeight := resolveLineHeight(style, ascent, descent, lineGap, sizePx)

	y := ascent
	if n := len(b.Lines); n > 0 {
		last := b.Lines[n-1]
		y = last.Y - last.Ascent + last.LineHeight + ascent
	}
	for i := glyphStart; i < len(b.Glyphs); i++ {
		b.Glyphs[i].Y = y
	}

	imageStart := len(b.Images)
	for _, pi := range pending {
		var top float64
		if pi.params.Align == VAlignLineTop || pi.params.Align == VAlignLineBottom {
			top = imageLineBoxOffset(pi.params.Align, pi.params.Height, ascent, lineHeight)
		} else {
			top = imageBaselineOffset(pi.params.Align, pi.params.Height, imgRef)
		}
		b.Images = append(b.Images, PositionedImage{
			Params:          pi.params,
			X:               pi.x,
			Y:               y + top,
			Ascent:          pi.ascent,
			Descent:         pi.descent,
			SourceSpanIndex: pi.spanIndex,
		})
	}

	offset := justifyOffset(width, style)
	applyJustifyOffset(b.Glyphs[glyphStart:], offset)
	applyJustifyOffsetImages(b.Images[imageStart:], offset)
	b.appendRunsForLine(glyphStart)

	visualToLogical, logicalToVisual := buildBidiMaps(b.Glyphs[glyphStart:len(b.Glyphs)])

	b.Lines = append(b.Lines, LineLayoutInfo{
		Y: y, Width: width, Ascent: ascent, Descent: descent, LineHeight: lineHeight,
		GlyphStart: glyphStart, GlyphEnd: len(b.Glyphs),
		ImageStart: imageStart, ImageEnd: len(b.Images),
		VisualToLogical: visualToLogical, LogicalToVisual: logicalToVisual,
	})
	if width > b.Width {
		b.Width = width
	}
}

// appendRunsForLine groups a line's just-appended glyphs (b.Glyphs
// [glyphStart:]) into maximal runs of consecutive same-direction
// glyphs, in visual order, and appends one VisualRun per group.
func (b *TextBlock) appendRunsForLine(glyphStart int) {
	glyphs := b.Glyphs[glyphStart:]
	if len(glyphs) == 0 {
		return
	}
	runStart := glyphStart
	dir := glyphs[0].Direction
	for i := 1; i < len(glyphs); i++ {
		if glyphs[i].Direction != dir {
			b.Runs = append(b.Runs, VisualRun{GlyphStart: runStart, GlyphEnd: glyphStart + i, Direction: dir})
			runStart = glyphStart + i
			dir = glyphs[i].Direction
		}
	}
	b.Runs = append(b.Runs, VisualRun{GlyphStart: runStart, GlyphEnd: glyphStart + len(glyphs), Direction: dir})
}

// buildBidiMaps derives a line's visual<->logical index maps from its
// already visually-ordered glyphs: sorting those glyphs by source
// (span, byte offset) recovers logical reading order, so the sort
// permutation itself is the map, and its inverse falls out for free.
// This makes the two maps inverse permutations of each other by
// construction, satisfying the bijection every line must hold.
func buildBidiMaps(glyphs []PositionedGlyph) (visualToLogical, logicalToVisual []int) {
	n := len(glyphs)
	visualToLogical = make([]int, n)
	logicalToVisual = make([]int, n)
	if n == 0 {
		return visualToLogical, logicalToVisual
	}

	visualOrder := make([]int, n)
	for i := range visualOrder {
		visualOrder[i] = i
	}
	sort.SliceStable(visualOrder, func(a, b int) bool {
		ga, gb := glyphs[visualOrder[a]], glyphs[visualOrder[b]]
		if ga.SourceSpanIndex != gb.SourceSpanIndex {
			return ga.SourceSpanIndex < gb.SourceSpanIndex
		}
		return ga.SourceCharByteOffsetInSpan < gb.SourceCharByteOffsetInSpan
	})

	for logicalPos, visualPos := range visualOrder {
		logicalToVisual[logicalPos] = visualPos
		visualToLogical[visualPos] = logicalPos
	}
	return visualToLogical, logicalToVisual
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}


// justifyOffset computes the X shift a finalized line's content (both
// glyphs and images) needs per style.Justify. JustifyLeft (the
// Engine's resolved default) and JustifyFull both resolve to no
// adjustment, since JustifyFull falls through the switch below
// unmatched.
func justifyOffset(width float64, style ParagraphStyle) float64 {
	if style.Justify == JustifyLeft || style.WrapWidth <= 0 {
		return 0
	}
	var offset float64
	switch style.Justify {
	case JustifyCenter:
		offset = (style.WrapWidth - width) / 2
	case JustifyRight:
		offset = style.WrapWidth - width
	}
	if offset <= 0 {
		return 0
	}
	return offset
}

// applyJustifyOffset shifts every glyph in glyphs by offset.
func applyJustifyOffset(glyphs []PositionedGlyph, offset float64) {
	if offset == 0 {
		return
	}
	for i := range glyphs {
		glyphs[i].X += offset
	}
}

// applyJustifyOffsetImages shifts every image in images by offset.
func applyJustifyOffsetImages(images []PositionedImage, offset float64) {
	if offset == 0 {
		return
	}
	for i := range images {
		images[i].X += offset
	}
}

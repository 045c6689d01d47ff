package sdfatlas

import (
	"math"
	"sync"

	"github.com/Xarvie/ray-text/text"
)

// Config holds signed-distance-field generation parameters.
type Config struct {
	// Size is the output bitmap size (width = height), in pixels.
	Size int

	// Range is the distance range in pixels that the field encodes on
	// either side of the outline edge.
	Range float64
}

// DefaultConfig returns generation parameters that work well for most
// text rendering scenarios.
func DefaultConfig() Config {
	return Config{
		Size:  32,
		Range: 4.0,
	}
}

// Validate checks the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Size < 8 {
		return &ConfigError{Field: "Size", Reason: "must be at least 8"}
	}
	if c.Size > 4096 {
		return &ConfigError{Field: "Size", Reason: "must be at most 4096"}
	}
	if c.Range <= 0 {
		return &ConfigError{Field: "Range", Reason: "must be positive"}
	}
	return nil
}

// ConfigError reports an invalid Config field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "sdfatlas: invalid config." + e.Field + ": " + e.Reason
}

// Bitmap holds a single-channel signed distance field.
type Bitmap struct {
	// Data holds one grayscale byte per pixel, row-major. 128 is the
	// encoded edge; below is outside, above is inside.
	Data []byte

	Width, Height int

	// Bounds is the shape's bounding box, expanded by the distance
	// range, in the original outline coordinate space.
	Bounds Rect

	// Scale maps outline-space units to pixels.
	Scale float64

	// TranslateX, TranslateY offset outline space into bitmap space.
	TranslateX, TranslateY float64
}

// PixelOffset returns the byte offset of pixel (x, y).
func (b *Bitmap) PixelOffset(x, y int) int {
	return y*b.Width + x
}

// SetPixel sets the distance byte at (x, y).
func (b *Bitmap) SetPixel(x, y int, v byte) {
	b.Data[b.PixelOffset(x, y)] = v
}

// GetPixel returns the distance byte at (x, y).
func (b *Bitmap) GetPixel(x, y int) byte {
	return b.Data[b.PixelOffset(x, y)]
}

// OutlineToPixel converts outline coordinates to bitmap pixel coordinates.
func (b *Bitmap) OutlineToPixel(ox, oy float64) (px, py float64) {
	px = (ox-b.Bounds.MinX)*b.Scale + b.TranslateX
	py = (oy-b.Bounds.MinY)*b.Scale + b.TranslateY
	return
}

// PixelToOutline converts bitmap pixel coordinates to outline coordinates.
func (b *Bitmap) PixelToOutline(px, py float64) (ox, oy float64) {
	ox = (px-b.TranslateX)/b.Scale + b.Bounds.MinX
	oy = (py-b.TranslateY)/b.Scale + b.Bounds.MinY
	return
}

// Generator renders glyph outlines into single-channel SDF bitmaps.
type Generator struct {
	config Config
}

// NewGenerator creates a generator with the given configuration.
func NewGenerator(config Config) *Generator {
	return &Generator{config: config}
}

// DefaultGenerator creates a generator with DefaultConfig.
func DefaultGenerator() *Generator {
	return NewGenerator(DefaultConfig())
}

// Config returns the generator's configuration.
func (g *Generator) Config() Config {
	return g.config
}

// SetConfig updates the generator's configuration.
func (g *Generator) SetConfig(config Config) {
	g.config = config
}

// Generate renders a glyph outline into a signed distance field bitmap.
// Outlines with no geometry (e.g. space) produce an all-outside bitmap.
func (g *Generator) Generate(outline *text.GlyphOutline) (*Bitmap, error) {
	if err := g.config.Validate(); err != nil {
		return nil, err
	}

	if outline == nil || outline.IsEmpty() {
		return g.generateEmpty(), nil
	}

	shape := FromOutline(outline)
	if shape.EdgeCount() == 0 {
		return g.generateEmpty(), nil
	}

	shapeBounds := shape.Bounds
	if shapeBounds.IsEmpty() {
		return g.generateEmpty(), nil
	}

	padding := g.config.Range
	bounds := shapeBounds.Expand(padding)

	scale := calculateScale(bounds, g.config.Size, padding)

	// Center the expanded bounds within the cell so that the glyph sits
	// at the midpoint with symmetric padding on the non-limiting axis.
	occupiedW := bounds.Width() * scale
	occupiedH := bounds.Height() * scale
	translateX := (float64(g.config.Size) - occupiedW) / 2
	translateY := (float64(g.config.Size) - occupiedH) / 2

	bmp := &Bitmap{
		Data:       make([]byte, g.config.Size*g.config.Size),
		Width:      g.config.Size,
		Height:     g.config.Size,
		Bounds:     bounds,
		Scale:      scale,
		TranslateX: translateX,
		TranslateY: translateY,
	}

	g.generateDistanceField(bmp, shape)

	return bmp, nil
}

// generateEmpty produces a bitmap that is "outside" everywhere, for
// glyphs with no visible geometry.
func (g *Generator) generateEmpty() *Bitmap {
	size := g.config.Size
	data := make([]byte, size*size)
	return &Bitmap{
		Data:   data,
		Width:  size,
		Height: size,
		Bounds: Rect{},
		Scale:  1.0,
	}
}

func (g *Generator) generateDistanceField(bmp *Bitmap, shape *Shape) {
	size := g.config.Size
	pixelRange := g.config.Range

	var wg sync.WaitGroup
	numWorkers := 4

	rowsPerWorker := (size + numWorkers - 1) / numWorkers

	for w := 0; w < numWorkers; w++ {
		startRow := w * rowsPerWorker
		endRow := startRow + rowsPerWorker
		if endRow > size {
			endRow = size
		}
		if startRow >= endRow {
			continue
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			g.processRows(bmp, shape, start, end, pixelRange)
		}(startRow, endRow)
	}

	wg.Wait()
}

func (g *Generator) processRows(bmp *Bitmap, shape *Shape, startRow, endRow int, pixelRange float64) {
	size := bmp.Width

	for y := startRow; y < endRow; y++ {
		for x := 0; x < size; x++ {
			px := float64(x) + 0.5
			py := float64(y) + 0.5

			ox := (px-bmp.TranslateX)/bmp.Scale + bmp.Bounds.MinX
			oy := (py-bmp.TranslateY)/bmp.Scale + bmp.Bounds.MinY

			point := Point{X: ox, Y: oy}

			sd := shapeDistance(shape, point)
			bmp.SetPixel(x, y, distanceToPixel(sd.Distance, pixelRange, bmp.Scale))
		}
	}
}

// shapeDistance returns the minimum signed distance from p to any edge
// of the shape.
func shapeDistance(shape *Shape, p Point) SignedDistance {
	minDist := Infinite()
	for _, contour := range shape.Contours {
		for _, edge := range contour.Edges {
			sd := edge.SignedDistance(p)
			minDist = minDist.Combine(sd)
		}
	}
	return minDist
}

// distanceToPixel maps a signed distance to a pixel value in [0, 255].
// 128 encodes the edge; below is outside, above is inside.
func distanceToPixel(distance, pixelRange, scale float64) byte {
	distPx := distance * scale
	normalized := 0.5 + distPx/(2*pixelRange)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}
	return byte(math.Round(normalized * 255))
}

// calculateScale determines the factor that fits bounds within size,
// leaving padding on each side.
func calculateScale(bounds Rect, size int, padding float64) float64 {
	available := float64(size) - 2*padding
	if available <= 0 {
		available = float64(size)
	}

	w := bounds.Width()
	h := bounds.Height()

	if w <= 0 && h <= 0 {
		return 1.0
	}

	scaleX := available / w
	scaleY := available / h

	if w > 0 && h > 0 {
		return min(scaleX, scaleY)
	}
	if w > 0 {
		return scaleX
	}
	return scaleY
}

// GenerateBatch generates SDF bitmaps for multiple outlines concurrently.
func (g *Generator) GenerateBatch(outlines []*text.GlyphOutline) ([]*Bitmap, error) {
	if err := g.config.Validate(); err != nil {
		return nil, err
	}

	results := make([]*Bitmap, len(outlines))
	var wg sync.WaitGroup
	var firstError error
	var errMu sync.Mutex

	for i, outline := range outlines {
		wg.Add(1)
		go func(idx int, o *text.GlyphOutline) {
			defer wg.Done()

			bmp, err := g.Generate(o)
			if err != nil {
				errMu.Lock()
				if firstError == nil {
					firstError = err
				}
				errMu.Unlock()
				return
			}
			results[idx] = bmp
		}(i, outline)
	}

	wg.Wait()

	if firstError != nil {
		return nil, firstError
	}
	return results, nil
}

// GeneratorPool pools Generators for reuse across glyph-cache-miss calls.
type GeneratorPool struct {
	pool   sync.Pool
	config Config
}

// NewGeneratorPool creates a pool of generators sharing one configuration.
func NewGeneratorPool(config Config) *GeneratorPool {
	return &GeneratorPool{
		config: config,
		pool: sync.Pool{
			New: func() interface{} {
				return NewGenerator(config)
			},
		},
	}
}

// Get retrieves a generator from the pool.
func (p *GeneratorPool) Get() *Generator {
	return p.pool.Get().(*Generator)
}

// Put returns a generator to the pool, resetting its configuration.
func (p *GeneratorPool) Put(g *Generator) {
	g.config = p.config
	p.pool.Put(g)
}

// Generate renders an outline using a pooled generator.
func (p *GeneratorPool) Generate(outline *text.GlyphOutline) (*Bitmap, error) {
	gen := p.Get()
	defer p.Put(gen)
	return gen.Generate(outline)
}

package raytext

import "github.com/Xarvie/ray-text/text/sdfatlas"

// EngineOption configures an Engine during creation.
// Use functional options to customize atlas sizing, glyph cache capacity,
// and the SDF generation parameters.
//
// Example:
//
//	engine, err := raytext.CreateEngine(
//		raytext.WithAtlasPageSize(2048),
//		raytext.WithGlyphCacheCapacity(8192),
//	)
type EngineOption func(*engineOptions)

// engineOptions holds optional configuration for Engine creation.
type engineOptions struct {
	atlasPageSize int
	glyphCacheCap int
	sdfConfig     sdfatlas.Config
	atlasTypeHint AtlasTypeHint

	dynamicSmoothnessAdjustment float64
}

// defaultEngineOptions returns the default engine options.
func defaultEngineOptions() engineOptions {
	return engineOptions{
		atlasPageSize: sdfatlas.PageSize,
		glyphCacheCap: 4096,
		sdfConfig:     sdfatlas.DefaultConfig(),
		atlasTypeHint: SDFBitmap,
	}
}

// WithAtlasPageSize sets the width and height, in pixels, of each SDF
// atlas page the Engine allocates. Non-positive values are ignored and
// the previous setting is kept; no other validation is done.
func WithAtlasPageSize(size int) EngineOption {
	return func(o *engineOptions) {
		if size > 0 {
			o.atlasPageSize = size
		}
	}
}

// WithGlyphCacheCapacity sets the maximum number of distinct glyph cells
// (font, glyph, size) the Engine keeps resident. Once the count exceeds
// it, the least recently used quarter of the entries is evicted.
func WithGlyphCacheCapacity(capacity int) EngineOption {
	return func(o *engineOptions) {
		if capacity > 0 {
			o.glyphCacheCap = capacity
		}
	}
}

// WithSDFConfig overrides the distance-field generation parameters
// (output cell size and distance range) used when rasterizing glyphs.
func WithSDFConfig(cfg sdfatlas.Config) EngineOption {
	return func(o *engineOptions) {
		o.sdfConfig = cfg
	}
}

package raytext

import (
	"errors"
	"sync"

	"github.com/Xarvie/ray-text/text/sdfatlas"
)

// ErrFallbackToCPU indicates the GPU accelerator cannot handle this
// batch. The caller should transparently fall back to CPU compositing
// of the same RenderBatch.
var ErrFallbackToCPU = errors.New("raytext: falling back to CPU rendering")

// AcceleratedOp describes operation types for GPU capability checking.
type AcceleratedOp uint32

const (
	// AccelGlyphBatch represents drawing a RenderBatch of glyph quads.
	AccelGlyphBatch AcceleratedOp = 1 << iota

	// AccelOutlineEffect represents the outline (stroke) SDF effect.
	AccelOutlineEffect

	// AccelGlowEffect represents the outer-glow SDF effect.
	AccelGlowEffect

	// AccelShadowEffect represents the drop-shadow SDF effect.
	AccelShadowEffect

	// AccelInnerEffect represents the inner shadow/glow SDF effect.
	AccelInnerEffect
)

// GPURenderTarget provides pixel buffer access for GPU output. The
// Data slice must be in premultiplied RGBA format, 4 bytes per pixel,
// laid out row by row with the given Stride.
type GPURenderTarget struct {
	Data          []uint8
	Width, Height int
	Stride        int // bytes per row
}

// GPUAccelerator is an optional GPU acceleration provider for C7's
// batched output.
//
// When registered via RegisterAccelerator, DrawTextBlockAccelerated
// tries GPU acceleration first for each RenderBatch. If the
// accelerator returns ErrFallbackToCPU or any error, the caller should
// fall back to its own CPU compositing of the same batch.
//
// Implementations are provided by GPU backend packages. Users opt in
// via blank import:
//
//	import _ "example.com/raytext-gpu/wgpu" // enables GPU acceleration
type GPUAccelerator interface {
	// Name returns the accelerator name (e.g., "wgpu", "vulkan").
	Name() string

	// Init initializes GPU resources. Called once during registration.
	Init() error

	// Close releases GPU resources.
	Close()

	// CanAccelerate reports whether the accelerator supports the given
	// operation. A fast check used to skip GPU entirely for ops it
	// doesn't implement.
	CanAccelerate(op AcceleratedOp) bool

	// UploadAtlasPage uploads or refreshes a glyph atlas page's texture
	// data on the GPU. Called whenever DrawTextBlockAccelerated
	// encounters a page it hasn't uploaded, or that the cache grew.
	UploadAtlasPage(page *sdfatlas.Page) error

	// DrawBatch renders one RenderBatch's vertices/indices against the
	// atlas page already uploaded via UploadAtlasPage, applying
	// batch.Effects. Returns ErrFallbackToCPU if the batch cannot be
	// GPU-accelerated (e.g. an effect combination it doesn't support).
	DrawBatch(target GPURenderTarget, batch RenderBatch) error

	// Flush dispatches any pending GPU draw calls to the target pixel
	// buffer. Batch-capable accelerators accumulate DrawBatch calls and
	// dispatch them together on Flush; immediate-mode accelerators
	// return nil.
	Flush(target GPURenderTarget) error
}

// DeviceProviderAware is an optional interface for accelerators that
// can share a GPU device with an external provider (e.g. a host
// window's swap chain). When SetDeviceProvider is called, the
// accelerator reuses the provided device instead of creating its own.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

var (
	accelMu sync.RWMutex
	accel   GPUAccelerator
)

// RegisterAccelerator registers a GPU accelerator for optional GPU
// rendering of RenderBatches.
//
// Only one accelerator can be registered; subsequent calls replace the
// previous one. The accelerator's Init method runs during registration
// — if it fails, the accelerator is not registered and the error is
// returned.
func RegisterAccelerator(a GPUAccelerator) error {
	if a == nil {
		return errors.New("raytext: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		return err
	}
	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
	propagateLogger(a, Logger())
	return nil
}

// Accelerator returns the currently registered GPU accelerator, or nil
// if none.
func Accelerator() GPUAccelerator {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	return a
}

// SetAcceleratorDeviceProvider passes a device provider to the
// registered accelerator, enabling GPU device sharing. A no-op if no
// accelerator is registered or it doesn't support device sharing.
func SetAcceleratorDeviceProvider(provider any) error {
	a := Accelerator()
	if a == nil {
		return nil
	}
	if dpa, ok := a.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}

// DrawTextBlockAccelerated batches block the same way DrawTextBlock
// does, then tries to draw each glyph batch through the registered
// GPUAccelerator. A batch the accelerator declines (ErrFallbackToCPU,
// or any other error) is returned in fallback for the caller to
// composite on the CPU; every other batch is drawn and omitted from
// fallback. GPUAccelerator has no notion of inline images, so every
// ImageDraw item is always returned in fallback for the caller's own
// textured-quad pipeline. With no accelerator registered, every item
// falls back.
func (e *Engine) DrawTextBlockAccelerated(block *TextBlock, target GPURenderTarget, transform Matrix, globalTint RGBA, clipRect *Rect) (fallback []DrawItem, err error) {
	items := e.DrawTextBlock(block, transform, globalTint, clipRect)

	a := Accelerator()
	if a == nil || !a.CanAccelerate(AccelGlyphBatch) {
		return items, nil
	}

	uploaded := make(map[*sdfatlas.Page]bool)
	for _, item := range items {
		if item.Image != nil {
			fallback = append(fallback, item)
			continue
		}
		batch := *item.Batch
		if !uploaded[batch.Page] {
			if err := a.UploadAtlasPage(batch.Page); err != nil {
				fallback = append(fallback, item)
				continue
			}
			uploaded[batch.Page] = true
		}
		if err := a.DrawBatch(target, batch); err != nil {
			fallback = append(fallback, item)
		}
	}

	if err := a.Flush(target); err != nil {
		return items, err
	}
	return fallback, nil
}

//go:build !nogpu

// Package gpu registers the wgpu/hal backend for the debug overlay.
//
// The application hands over the GPU device it already renders with;
// Register installs a loader for the shared overlay resource bundle, which
// is built on the first overlay.Init. Each frame the application wraps its
// render pass with NewEncoder and passes it to Render:
//
//	if err := gpu.Register(provider); err != nil {
//	    return err
//	}
//	overlay.New().Init(80, 25)
//	...
//	overlay.Tick()
//	overlay.Render(gpu.NewEncoder(renderPass))
//
// The provider must be a gpucontext.DeviceProvider that also exposes its
// HAL device and queue (HalDevice and HalQueue methods), as gogpu's does.
package gpu

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/overlay"
	gpuimpl "github.com/gogpu/overlay/internal/gpu"
	"github.com/gogpu/wgpu/hal"
)

// ErrNoHAL is returned when a provider does not expose HAL types.
var ErrNoHAL = errors.New("gpu: provider does not expose HAL types")

// Option configures Register.
type Option func(*config)

type config struct {
	desc   []byte
	format gputypes.TextureFormat
}

// WithDescriptor overrides the embedded resource descriptor with YAML
// data. Fields the data leaves out keep their defaults:
//
//	font:
//	  face: gomono
//	  size: 16
//	shader:
//	  format: spirv
func WithDescriptor(yamlData []byte) Option {
	return func(c *config) {
		c.desc = yamlData
	}
}

// WithTargetFormat sets the color format of the render passes the overlay
// draws into. Default: the provider's surface format, or BGRA8Unorm when
// the provider is headless.
func WithTargetFormat(format gputypes.TextureFormat) Option {
	return func(c *config) {
		c.format = format
	}
}

var (
	mu     sync.Mutex
	bundle *gpuimpl.Bundle
)

// Register installs provider's device as the source of the shared
// DebugOverlayResources bundle. The descriptor is validated immediately;
// GPU objects are created on the first overlay.Init.
func Register(provider gpucontext.DeviceProvider, opts ...Option) error {
	device, queue, err := halFromProvider(provider)
	if err != nil {
		return err
	}

	cfg := config{format: provider.SurfaceFormat()}
	for _, opt := range opts {
		opt(&cfg)
	}
	desc := gpuimpl.DefaultDescriptor()
	if cfg.desc != nil {
		if desc, err = gpuimpl.ParseDescriptor(cfg.desc); err != nil {
			return err
		}
	}

	overlay.RegisterResources(overlay.ResourceBundleName, func() (*overlay.Resources, error) {
		b, err := gpuimpl.NewBundle(device, queue, cfg.format, desc)
		if err != nil {
			return nil, err
		}
		mu.Lock()
		old := bundle
		bundle = b
		mu.Unlock()
		if old != nil {
			old.Destroy()
		}
		return b.Resources(), nil
	})
	overlay.Logger().Debug("gpu: overlay backend registered",
		"adapter", provider.AdapterInfo().Name)
	return nil
}

// Unregister removes the loader, drops the shared bundle and destroys its
// GPU objects. Shut every overlay down first.
func Unregister() {
	overlay.RegisterResources(overlay.ResourceBundleName, nil)
	overlay.ReleaseResources()

	mu.Lock()
	b := bundle
	bundle = nil
	mu.Unlock()
	if b != nil {
		b.Destroy()
	}
}

// NewEncoder wraps an open render pass for overlay.Render.
func NewEncoder(rp hal.RenderPassEncoder) overlay.RenderEncoder {
	return gpuimpl.NewEncoder(rp)
}

// NewResources builds a private resource bundle on device and queue, for
// use with overlay.WithResources. The returned function destroys it.
func NewResources(device hal.Device, queue hal.Queue, format gputypes.TextureFormat, opts ...Option) (*overlay.Resources, func(), error) {
	cfg := config{format: format}
	for _, opt := range opts {
		opt(&cfg)
	}
	desc := gpuimpl.DefaultDescriptor()
	if cfg.desc != nil {
		var err error
		if desc, err = gpuimpl.ParseDescriptor(cfg.desc); err != nil {
			return nil, nil, err
		}
	}
	b, err := gpuimpl.NewBundle(device, queue, cfg.format, desc)
	if err != nil {
		return nil, nil, err
	}
	return b.Resources(), b.Destroy, nil
}

// halFromProvider extracts the HAL device and queue from provider.
func halFromProvider(provider gpucontext.DeviceProvider) (hal.Device, hal.Queue, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	if provider == nil {
		return nil, nil, fmt.Errorf("%w: nil provider", ErrNoHAL)
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHAL)
	}
	return device, queue, nil
}

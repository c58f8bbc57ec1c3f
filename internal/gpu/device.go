//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/overlay"
	"github.com/gogpu/wgpu/hal"
)

// ErrInvalidBufferSize is returned when an instance buffer is requested with
// a non-positive element count or stride.
var ErrInvalidBufferSize = errors.New("gpu: invalid buffer size")

// Device allocates overlay instance buffers on a HAL device. It does not own
// the device or queue; they belong to whoever created them (usually the
// application's gpucontext.DeviceProvider).
type Device struct {
	device hal.Device
	queue  hal.Queue
}

var _ overlay.Device = (*Device)(nil)

// NewDevice wraps a HAL device and queue.
func NewDevice(device hal.Device, queue hal.Queue) *Device {
	return &Device{device: device, queue: queue}
}

// NewBuffer creates a read-only storage buffer of count elements of stride
// bytes each.
func (d *Device) NewBuffer(label string, count, stride int) (overlay.Buffer, error) {
	if count <= 0 || stride <= 0 {
		return nil, fmt.Errorf("%w: %s %d x %d", ErrInvalidBufferSize, label, count, stride)
	}
	size := uint64(count) * uint64(stride) //nolint:gosec // both checked positive
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return &instanceBuffer{
		dev:    d,
		buf:    buf,
		label:  label,
		count:  count,
		stride: stride,
	}, nil
}

// SetLogger sets the logger used by the HAL backend. It is called when
// overlay.SetLogger propagates.
func (d *Device) SetLogger(l *slog.Logger) {
	setLogger(l)
}

// instanceBuffer is a HAL storage buffer holding count instance records.
type instanceBuffer struct {
	dev    *Device
	buf    hal.Buffer
	label  string
	count  int
	stride int
}

var _ overlay.Buffer = (*instanceBuffer)(nil)

func (b *instanceBuffer) Count() int  { return b.count }
func (b *instanceBuffer) Stride() int { return b.stride }

// size returns the buffer size in bytes.
func (b *instanceBuffer) size() uint64 {
	return uint64(b.count) * uint64(b.stride) //nolint:gosec // checked positive in NewBuffer
}

// Upload writes data at the start of the buffer. Data larger than the
// buffer is truncated.
func (b *instanceBuffer) Upload(data []byte) {
	if b.buf == nil || len(data) == 0 {
		return
	}
	if uint64(len(data)) > b.size() {
		slogger().Warn("gpu: instance upload truncated",
			"buffer", b.label, "bytes", len(data), "size", b.size())
		data = data[:b.size()]
	}
	if err := b.dev.queue.WriteBuffer(b.buf, 0, data); err != nil {
		slogger().Warn("gpu: instance upload failed", "buffer", b.label, "err", err)
	}
}

// Release destroys the buffer. Safe to call more than once.
func (b *instanceBuffer) Release() {
	if b.buf == nil {
		return
	}
	b.dev.device.DestroyBuffer(b.buf)
	b.buf = nil
}

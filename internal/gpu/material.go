//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/overlay"
	"github.com/gogpu/wgpu/hal"
)

// ErrUnknownBinding is logged when a material is given a parameter its
// shader does not declare.
var ErrUnknownBinding = errors.New("gpu: unknown material binding")

// scalesUniformSize is the byte size of the scales uniform: one vec4<f32>.
const scalesUniformSize = 16

// Bind group slots shared by both overlay shaders.
const (
	bindingScales    = 0
	bindingPositions = 1
	bindingAtlas     = 2
	bindingSampler   = 3
)

// materialConfig describes one overlay material.
type materialConfig struct {
	name   string
	source string
	atlas  *atlasTexture // nil for materials that do not sample glyphs
	shader ShaderFormat
	target gputypes.TextureFormat
}

// Material is a render pipeline plus the parameters bound to it: the
// scales uniform, the instance storage buffer and, for glyphs, the atlas.
// The bind group is rebuilt lazily when the instance buffer changes.
type Material struct {
	name   string
	device hal.Device
	queue  hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline

	uniform hal.Buffer
	scales  overlay.Vec4

	positions *instanceBuffer
	atlas     *atlasTexture

	bindGroup hal.BindGroup
	dirty     bool
}

var _ overlay.Material = (*Material)(nil)

// newMaterial compiles the shader and creates the pipeline and uniform
// buffer for cfg. On failure every object created so far is destroyed.
func newMaterial(device hal.Device, queue hal.Queue, cfg materialConfig) (*Material, error) {
	m := &Material{
		name:   cfg.name,
		device: device,
		queue:  queue,
		atlas:  cfg.atlas,
	}
	if err := m.createPipeline(cfg); err != nil {
		m.Destroy()
		return nil, err
	}

	uniform, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "overlay_" + cfg.name + "_scales",
		Size:  scalesUniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		m.Destroy()
		return nil, fmt.Errorf("create %s scales buffer: %w", cfg.name, err)
	}
	m.uniform = uniform
	return m, nil
}

func (m *Material) createPipeline(cfg materialConfig) error { //nolint:funlen // GPU pipeline descriptors are inherently verbose
	shader, err := createShaderModule(m.device, "overlay_"+cfg.name+"_shader", cfg.source, cfg.shader)
	if err != nil {
		return err
	}
	m.shader = shader

	entries := []gputypes.BindGroupLayoutEntry{
		{
			Binding:    bindingScales,
			Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		},
		{
			Binding:    bindingPositions,
			Visibility: gputypes.ShaderStageVertex,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage},
		},
	}
	if cfg.atlas != nil {
		entries = append(entries,
			gputypes.BindGroupLayoutEntry{
				Binding:    bindingAtlas,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			gputypes.BindGroupLayoutEntry{
				Binding:    bindingSampler,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		)
	}

	bindLayout, err := m.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "overlay_" + cfg.name + "_bind_layout",
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("create %s bind group layout: %w", cfg.name, err)
	}
	m.bindLayout = bindLayout

	pipeLayout, err := m.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "overlay_" + cfg.name + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{m.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create %s pipeline layout: %w", cfg.name, err)
	}
	m.pipeLayout = pipeLayout

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := m.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "overlay_" + cfg.name + "_pipeline",
		Layout: m.pipeLayout,
		Vertex: hal.VertexState{
			Module:     m.shader,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     m.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    cfg.target,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create %s pipeline: %w", cfg.name, err)
	}
	m.pipeline = pipeline
	return nil
}

// Name returns the material name ("glyph" or "line").
func (m *Material) Name() string { return m.name }

// SetBuffer binds buf as the instance buffer. Only
// overlay.PositionBufferName is recognized.
func (m *Material) SetBuffer(name string, buf overlay.Buffer) {
	if name != overlay.PositionBufferName {
		slogger().Warn("gpu: ignoring buffer", "material", m.name, "name", name, "err", ErrUnknownBinding)
		return
	}
	ib, ok := buf.(*instanceBuffer)
	if !ok {
		slogger().Warn("gpu: ignoring foreign buffer", "material", m.name, "type", fmt.Sprintf("%T", buf))
		return
	}
	m.positions = ib
	m.dirty = true
}

// SetVector uploads v to the scales uniform. Only overlay.ScalesName is
// recognized.
func (m *Material) SetVector(name string, v overlay.Vec4) {
	if name != overlay.ScalesName {
		slogger().Warn("gpu: ignoring vector", "material", m.name, "name", name, "err", ErrUnknownBinding)
		return
	}
	m.scales = v
	if m.uniform == nil {
		return
	}
	if err := m.queue.WriteBuffer(m.uniform, 0, makeScalesUniform(v)); err != nil {
		slogger().Warn("gpu: scales upload failed", "material", m.name, "err", err)
	}
}

// Scales returns the last vector set with SetVector.
func (m *Material) Scales() overlay.Vec4 { return m.scales }

// TextureSize returns the glyph atlas size, or (0, 0) for materials
// without an atlas.
func (m *Material) TextureSize() (width, height int) {
	if m.atlas == nil {
		return 0, 0
	}
	return m.atlas.width, m.atlas.height
}

// bind sets the pipeline and bind group on rp, rebuilding the bind group
// if the instance buffer changed. It reports false when the material has
// nothing bound to draw with.
func (m *Material) bind(rp hal.RenderPassEncoder) bool {
	if m.pipeline == nil || m.positions == nil || m.positions.buf == nil {
		return false
	}
	if m.dirty || m.bindGroup == nil {
		if err := m.rebuildBindGroup(); err != nil {
			slogger().Warn("gpu: bind group", "material", m.name, "err", err)
			return false
		}
	}
	rp.SetPipeline(m.pipeline)
	rp.SetBindGroup(0, m.bindGroup, nil)
	return true
}

func (m *Material) rebuildBindGroup() error {
	if m.bindGroup != nil {
		m.device.DestroyBindGroup(m.bindGroup)
		m.bindGroup = nil
	}

	entries := []gputypes.BindGroupEntry{
		{Binding: bindingScales, Resource: gputypes.BufferBinding{
			Buffer: m.uniform.NativeHandle(), Offset: 0, Size: scalesUniformSize,
		}},
		{Binding: bindingPositions, Resource: gputypes.BufferBinding{
			Buffer: m.positions.buf.NativeHandle(), Offset: 0, Size: m.positions.size(),
		}},
	}
	if m.atlas != nil {
		entries = append(entries,
			gputypes.BindGroupEntry{Binding: bindingAtlas, Resource: gputypes.TextureViewBinding{
				TextureView: m.atlas.view.NativeHandle(),
			}},
			gputypes.BindGroupEntry{Binding: bindingSampler, Resource: gputypes.SamplerBinding{
				Sampler: m.atlas.sampler.NativeHandle(),
			}},
		)
	}

	bg, err := m.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   "overlay_" + m.name + "_bind",
		Layout:  m.bindLayout,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("create %s bind group: %w", m.name, err)
	}
	m.bindGroup = bg
	m.dirty = false
	return nil
}

// Destroy releases the material's GPU objects in reverse creation order.
// The atlas and instance buffers are owned elsewhere. Safe to call more
// than once.
func (m *Material) Destroy() {
	if m.device == nil {
		return
	}
	if m.bindGroup != nil {
		m.device.DestroyBindGroup(m.bindGroup)
		m.bindGroup = nil
	}
	if m.uniform != nil {
		m.device.DestroyBuffer(m.uniform)
		m.uniform = nil
	}
	if m.pipeline != nil {
		m.device.DestroyRenderPipeline(m.pipeline)
		m.pipeline = nil
	}
	if m.pipeLayout != nil {
		m.device.DestroyPipelineLayout(m.pipeLayout)
		m.pipeLayout = nil
	}
	if m.bindLayout != nil {
		m.device.DestroyBindGroupLayout(m.bindLayout)
		m.bindLayout = nil
	}
	if m.shader != nil {
		m.device.DestroyShaderModule(m.shader)
		m.shader = nil
	}
	m.positions = nil
}

// makeScalesUniform packs v as a little-endian vec4<f32>.
func makeScalesUniform(v overlay.Vec4) []byte {
	buf := make([]byte, scalesUniformSize)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

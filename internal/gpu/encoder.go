//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/overlay"
	"github.com/gogpu/wgpu/hal"
)

// Encoder records overlay draw calls into a HAL render pass. The pass must
// target the texture format the materials were created for.
type Encoder struct {
	rp      hal.RenderPassEncoder
	current *Material
}

var _ overlay.RenderEncoder = (*Encoder)(nil)

// NewEncoder wraps an open render pass.
func NewEncoder(rp hal.RenderPassEncoder) *Encoder {
	return &Encoder{rp: rp}
}

// SetPass binds m for the following draws. Overlay materials have a single
// pass; other pass indices are ignored.
func (e *Encoder) SetPass(m overlay.Material, pass int) {
	e.current = nil
	mat, ok := m.(*Material)
	if !ok {
		slogger().Warn("gpu: foreign material", "type", fmt.Sprintf("%T", m))
		return
	}
	if pass != 0 {
		slogger().Warn("gpu: unknown pass", "material", mat.name, "pass", pass)
		return
	}
	if !mat.bind(e.rp) {
		return
	}
	e.current = mat
}

// DrawProcedural draws vertexCount vertices with no vertex buffers. The
// shaders derive every vertex from the instance buffer.
func (e *Encoder) DrawProcedural(topology overlay.Topology, vertexCount, instanceCount int) {
	if e.current == nil || vertexCount <= 0 || instanceCount <= 0 {
		return
	}
	if topology != overlay.TopologyTriangles {
		slogger().Warn("gpu: unsupported topology", "topology", topology.String())
		return
	}
	e.rp.Draw(uint32(vertexCount), uint32(instanceCount), 0, 0) //nolint:gosec // counts checked positive
}

package overlay

// Device allocates instance buffers on the graphics backend.
//
// The overlay never creates a Device itself: it comes with the shared
// Resources bundle, so the host decides which backend the overlay draws
// with (see the gpu package for wgpu and internal/term for the terminal
// preview).
type Device interface {
	// NewBuffer allocates a structured buffer holding count elements of
	// stride bytes each.
	NewBuffer(label string, count, stride int) (Buffer, error)
}

// Buffer is a GPU-resident structured buffer.
type Buffer interface {
	// Count returns the number of elements the buffer was allocated for.
	Count() int

	// Stride returns the element size in bytes.
	Stride() int

	// Upload copies data to the start of the buffer. len(data) is always a
	// multiple of Stride and never exceeds Count*Stride.
	Upload(data []byte)

	// Release frees the buffer. The buffer must not be used afterwards.
	Release()
}

// Material is a shader program plus its parameter bindings.
type Material interface {
	// SetBuffer binds buf to the named shader resource.
	SetBuffer(name string, buf Buffer)

	// SetVector sets the named vec4 uniform.
	SetVector(name string, v Vec4)

	// TextureSize returns the size in pixels of the material's main
	// texture. Materials without a texture return (0, 0).
	TextureSize() (width, height int)
}

// Topology is the primitive topology of a procedural draw.
type Topology int

const (
	// TopologyTriangles draws independent triangles, three vertices each.
	TopologyTriangles Topology = iota
)

// String returns the topology name.
func (t Topology) String() string {
	switch t {
	case TopologyTriangles:
		return "Triangles"
	default:
		return "Unknown"
	}
}

// RenderEncoder records draw commands for the current frame.
type RenderEncoder interface {
	// SetPass activates the given pass of m for subsequent draws.
	SetPass(m Material, pass int)

	// DrawProcedural draws vertexCount vertices without a vertex buffer;
	// the shader derives everything from the vertex index.
	DrawProcedural(topology Topology, vertexCount, instanceCount int)
}

// Renderer is the per-frame capability an engine render subsystem holds.
// *Overlay implements it; test doubles and other overlays can stand in.
type Renderer interface {
	// Tick uploads the frame's instances and prepares shader parameters.
	Tick() error

	// Render records the frame's draw calls.
	Render(enc RenderEncoder)
}

//go:build !nogpu

// Package gpu implements the overlay backend on gogpu/wgpu HAL devices.
//
// # Resources
//
// A Bundle holds everything the overlay draws with on one device:
//
//   - Device: allocates read-only storage buffers for quad and line
//     instances
//   - GlyphAtlas: printable ASCII rasterized from an x/image font face into
//     a fixed grid, uploaded as an R8 texture with a nearest sampler
//   - Material: a render pipeline, its scales uniform and a bind group that
//     is rebuilt when the instance buffer changes
//
// Bundles are described by a YAML Descriptor. The embedded resources.yaml
// holds the defaults (the 7x13 basic face, 16 atlas columns, WGSL shaders).
//
// # Shaders
//
// Both shaders draw without vertex buffers. Vertex i of a draw reads
// instance i/6 from the storage buffer at binding 1 and expands it to
// corner i%6 of two triangles. The glyph shader fills the quad when its
// color carries alpha and samples atlas coverage otherwise. The line
// shader widens each segment to one reference pixel.
//
// WGSL is handed to the device as is by default. With shader format
// "spirv" it is compiled with naga first.
package gpu

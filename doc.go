// Package overlay provides an immediate-mode debug overlay for real-time
// renderers.
//
// # Overview
//
// Any part of an engine can queue colored monospace text, filled
// rectangles and line segments at character-cell coordinates during a
// frame. Once per frame the overlay uploads the queued instances into two
// GPU buffers and issues two procedural draw calls: lines first, then
// glyphs.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/overlay"
//	    "github.com/gogpu/overlay/gpu"
//	)
//
//	// Register the wgpu resource bundle for the host's device.
//	if err := gpu.Register(provider); err != nil {
//	    return err
//	}
//
//	o := overlay.New()
//	o.Init(80, 25)
//	defer o.Shutdown()
//
//	// Anywhere during the frame, without holding a reference:
//	overlay.Writef(1, 1, "^FF0frame^FFF %d", frame)
//
//	// Late in the frame:
//	if err := o.Tick(); err != nil { ... }
//	o.Render(gpu.NewEncoder(renderPass))
//
// # Text
//
// Text is laid out one character per cell. The sequence "^RGB", where R, G
// and B are hex digits, switches the color of the characters that follow
// within the same call; each digit d expands to the 8-bit channel d*16+d.
// "^F00" is red, "^FFF" white.
//
// # Backends
//
// The overlay talks to the graphics backend through the Device, Buffer,
// Material and RenderEncoder interfaces, obtained from a Resources bundle
// registered under ResourceBundleName. The gpu package provides the wgpu
// implementation; internal/term renders to a terminal for previews.
//
// # Threading
//
// All drawing, Tick and Render calls for a frame belong to one thread.
// There is no internal locking on the drawing path, and formatted writes
// share a single scratch buffer.
package overlay

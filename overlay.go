package overlay

import (
	"fmt"
)

// Default grid size in character cells.
const (
	DefaultWidth  = 80
	DefaultHeight = 25
)

// verticesPerInstance is the number of procedural vertices (two triangles)
// each quad or line instance expands to.
const verticesPerInstance = 6

// Overlay is an immediate-mode debug overlay: colored monospace text,
// rectangles and lines queued each frame at character-cell coordinates and
// drawn with two procedural draw calls.
//
// Lifecycle:
//
//	o := overlay.New()
//	o.Init(80, 25)
//	for each frame {
//	    o.Write(0, 0, "^F80fps^FFF %d", fps) // any number of draw calls
//	    o.Tick()                              // upload, then clear
//	    o.Render(enc)                         // lines, then glyphs
//	}
//	o.Shutdown()
//
// An Overlay is not safe for concurrent use: all calls for a frame are
// expected on the render thread. Drawing on an overlay that is not
// initialized does nothing.
type Overlay struct {
	opts options
	res  *Resources

	width, height int

	color            RGBA
	originX, originY float32

	quads *Store[QuadInstance]
	lines *Store[LineInstance]
	sync  *bufferSync

	initialized bool
}

var _ Renderer = (*Overlay)(nil)

// New creates an uninitialized overlay. Call Init before drawing.
func New(opts ...Option) *Overlay {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Overlay{
		opts:   o,
		width:  DefaultWidth,
		height: DefaultHeight,
		color:  o.color,
	}
}

// Init prepares the overlay for a grid of width x height character cells.
//
// The first Init in the process loads the shared DebugOverlayResources
// bundle; later calls reuse it. Init panics if the bundle cannot be loaded,
// since the overlay cannot draw anything without it. The first overlay to
// be initialized becomes the active overlay behind the package-level
// drawing functions.
//
// A bundle's materials hold one instance buffer and one scales vector, so
// a bundle serves one initialized overlay at a time. Init panics with
// ErrResourcesInUse if another overlay holds it; give each additional
// overlay its own bundle with WithResources.
func (o *Overlay) Init(width, height int) {
	if o.res == nil {
		res := o.opts.res
		if res != nil {
			if err := res.Validate(); err != nil {
				panic(fmt.Sprintf("overlay: %v", err))
			}
		} else {
			res = sharedResources()
		}
		if holder := holders[res]; holder != nil && holder != o {
			panic(fmt.Sprintf("overlay: %v", ErrResourcesInUse))
		}
		holders[res] = o
		o.res = res
	}
	if o.quads == nil {
		o.quads = NewStore[QuadInstance](o.opts.capacity)
		o.lines = NewStore[LineInstance](o.opts.capacity)
		o.sync = newBufferSync()
	}
	o.initialized = true

	if active == nil {
		active = o
	}

	o.width = width
	o.height = height
	Logger().Info("overlay: initialized", "width", width, "height", height)
}

// Shutdown releases the overlay's GPU buffers and instance arrays and, if
// it is the active overlay, clears the active overlay. The overlay can be
// initialized again afterwards.
func (o *Overlay) Shutdown() {
	if o.sync != nil {
		o.sync.release()
	}
	o.sync = nil
	o.quads = nil
	o.lines = nil
	if o.res != nil && holders[o.res] == o {
		delete(holders, o.res)
	}
	o.res = nil
	o.initialized = false

	if active == o {
		active = nil
	}
	Logger().Info("overlay: shut down")
}

// Initialized reports whether Init has been called since creation or the
// last Shutdown.
func (o *Overlay) Initialized() bool {
	return o.initialized
}

// Width returns the grid width in character cells.
func (o *Overlay) Width() int { return o.width }

// Height returns the grid height in character cells.
func (o *Overlay) Height() int { return o.height }

// Color returns the current draw color.
func (o *Overlay) Color() RGBA { return o.color }

// SetColor sets the draw color used by subsequent writes.
func (o *Overlay) SetColor(c RGBA) {
	if !o.initialized {
		return
	}
	o.color = c
}

// SetOrigin offsets all subsequent drawing by (x, y) cells. The origin is
// reset to (0, 0) by Tick.
func (o *Overlay) SetOrigin(x, y float32) {
	if !o.initialized {
		return
	}
	o.originX = x
	o.originY = y
}

// Write draws text at cell (x, y). Text may contain "^RGB" color escapes.
// Text longer than ScratchSize characters is truncated.
func (o *Overlay) Write(x, y float32, text string) {
	if !o.initialized {
		return
	}
	o.drawText(x, y, copyScratch(text))
}

// Writef formats args according to format and draws the result at cell
// (x, y). The formatted text may contain "^RGB" color escapes.
//
// Formatting goes through a single shared ScratchSize-character buffer, so
// Writef must not be called from more than one goroutine.
func (o *Overlay) Writef(x, y float32, format string, args ...any) {
	if !o.initialized {
		return
	}
	o.drawText(x, y, formatScratch(format, args...))
}

// WriteColorf is Writef drawn in col. The current draw color is restored
// afterwards.
func (o *Overlay) WriteColorf(col RGBA, x, y float32, format string, args ...any) {
	if !o.initialized {
		return
	}
	prev := o.color
	o.color = col
	o.drawText(x, y, formatScratch(format, args...))
	o.color = prev
}

// WriteChars draws chars at cell (x, y) one cell per character, in the
// current color. Escapes are not interpreted.
func (o *Overlay) WriteChars(x, y float32, chars []rune) {
	if !o.initialized {
		return
	}
	for i, ch := range chars {
		o.addQuad(o.originX+x+float32(i), o.originY+y, 1, 1, ch, o.color)
	}
}

// DrawRect fills a w x h cell rectangle at (x, y) with col. The alpha of
// col is kept, so translucent panels behind text are possible.
func (o *Overlay) DrawRect(x, y, w, h float32, col RGBA) {
	if !o.initialized {
		return
	}
	o.addQuad(o.originX+x, o.originY+y, w, h, noGlyph, col)
}

// drawLine queues a line segment in reference-resolution pixels.
func (o *Overlay) drawLine(x1, y1, x2, y2 float32, col RGBA) {
	if !o.initialized {
		return
	}
	o.addLine(x1, y1, x2, y2, col)
}

// Pending returns the number of quads and lines queued for the next Tick.
func (o *Overlay) Pending() (quads, lines int) {
	if !o.initialized {
		return 0, 0
	}
	return o.quads.Len(), o.lines.Len()
}

// DrawCounts returns the number of quads and lines the next Render draws,
// as uploaded by the last Tick.
func (o *Overlay) DrawCounts() (quads, lines int) {
	if o.sync == nil {
		return 0, 0
	}
	return o.sync.quads.toDraw, o.sync.lines.toDraw
}

// Reallocations returns how many times an instance buffer has been
// (re)allocated since Init.
func (o *Overlay) Reallocations() int {
	if o.sync == nil {
		return 0
	}
	return o.sync.reallocations
}

// Tick uploads the queued instances to the GPU, updates the shader scale
// factors and clears the queue and origin for the next frame. Call it once
// per frame after all drawing and before Render.
//
// If an instance buffer cannot be allocated, its instances are dropped for
// this frame and the error is returned; the queue is cleared either way.
func (o *Overlay) Tick() error {
	if !o.initialized {
		return nil
	}
	err := o.sync.upload(o.res, o.quads, o.lines)
	o.sync.setScales(o.res, o.width, o.height)
	o.clear()
	if err != nil {
		return fmt.Errorf("overlay: tick: %w", err)
	}
	return nil
}

// clear empties both stores and resets the origin.
func (o *Overlay) clear() {
	o.quads.Reset()
	o.lines.Reset()
	o.originX = 0
	o.originY = 0
}

// Render records the frame's draw calls into enc: lines first, then glyphs
// on top. Each instance expands to verticesPerInstance procedural vertices.
func (o *Overlay) Render(enc RenderEncoder) {
	if !o.initialized || enc == nil {
		return
	}
	if n := o.sync.lines.toDraw; n > 0 {
		enc.SetPass(o.res.LineMaterial, 0)
		enc.DrawProcedural(TopologyTriangles, n*verticesPerInstance, 1)
	}
	if n := o.sync.quads.toDraw; n > 0 {
		enc.SetPass(o.res.GlyphMaterial, 0)
		enc.DrawProcedural(TopologyTriangles, n*verticesPerInstance, 1)
	}
}

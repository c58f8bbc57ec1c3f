package overlay

// active is the overlay behind the package-level drawing functions. It is
// set by the first Overlay.Init and cleared by that overlay's Shutdown.
//
// Like the overlay itself it belongs to the render thread and is not
// synchronized.
var active *Overlay

// Active returns the active overlay, or nil if none is initialized.
func Active() *Overlay {
	return active
}

// Width returns the active overlay's grid width, or 0 without one.
func Width() int {
	if active == nil {
		return 0
	}
	return active.Width()
}

// Height returns the active overlay's grid height, or 0 without one.
func Height() int {
	if active == nil {
		return 0
	}
	return active.Height()
}

// SetColor sets the active overlay's draw color.
func SetColor(c RGBA) {
	if active == nil {
		return
	}
	active.SetColor(c)
}

// SetOrigin sets the active overlay's origin.
func SetOrigin(x, y float32) {
	if active == nil {
		return
	}
	active.SetOrigin(x, y)
}

// Write draws text on the active overlay. See Overlay.Write.
func Write(x, y float32, text string) {
	if active == nil {
		return
	}
	active.Write(x, y, text)
}

// Writef draws formatted text on the active overlay. See Overlay.Writef.
func Writef(x, y float32, format string, args ...any) {
	if active == nil {
		return
	}
	active.Writef(x, y, format, args...)
}

// WriteColorf draws formatted text in col on the active overlay.
func WriteColorf(col RGBA, x, y float32, format string, args ...any) {
	if active == nil {
		return
	}
	active.WriteColorf(col, x, y, format, args...)
}

// WriteChars draws raw characters on the active overlay.
func WriteChars(x, y float32, chars []rune) {
	if active == nil {
		return
	}
	active.WriteChars(x, y, chars)
}

// DrawRect fills a rectangle on the active overlay.
func DrawRect(x, y, w, h float32, col RGBA) {
	if active == nil {
		return
	}
	active.DrawRect(x, y, w, h, col)
}

// Tick ticks the active overlay. Failures are logged and otherwise ignored,
// matching the no-error contract of the drawing functions.
func Tick() {
	if active == nil {
		return
	}
	if err := active.Tick(); err != nil {
		Logger().Warn("overlay: frame dropped", "err", err)
	}
}

// Render renders the active overlay into enc.
func Render(enc RenderEncoder) {
	if active == nil {
		return
	}
	active.Render(enc)
}

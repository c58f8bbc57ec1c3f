package overlay

import (
	"errors"
	"strings"
	"testing"
)

func TestFacadeWithoutActiveOverlay(t *testing.T) {
	if Active() != nil {
		t.Fatalf("Active() = %p at test start, want nil", Active())
	}

	// None of these may panic or create state.
	SetColor(Red)
	SetOrigin(1, 2)
	Write(0, 0, "text")
	Writef(0, 0, "%d", 1)
	WriteColorf(Green, 0, 0, "%s", "x")
	WriteChars(0, 0, []rune("abc"))
	DrawRect(0, 0, 5, 5, Blue)
	Tick()
	Render(&fakeEncoder{})

	if Width() != 0 || Height() != 0 {
		t.Errorf("Width/Height = %d/%d without overlay, want 0/0", Width(), Height())
	}
	if Active() != nil {
		t.Error("facade calls created an active overlay")
	}
}

func TestFacadeForwardsToActive(t *testing.T) {
	o, fb := newTestOverlay(t)
	if Active() != o {
		t.Fatal("first initialized overlay is not active")
	}

	SetColor(Green)
	SetOrigin(2, 0)
	Write(0, 0, "ab")
	Writef(0, 1, "%d", 42)
	WriteColorf(Red, 0, 2, "!")
	WriteChars(0, 3, []rune("^"))
	DrawRect(0, 4, 3, 1, Blue)

	if Width() != DefaultWidth || Height() != DefaultHeight {
		t.Errorf("Width/Height = %d/%d, want %d/%d", Width(), Height(), DefaultWidth, DefaultHeight)
	}
	if o.Color() != Green {
		t.Errorf("active color = %+v, want Green", o.Color())
	}
	if q, _ := o.Pending(); q != 7 {
		t.Errorf("queued %d quads, want 7", q)
	}

	Tick()
	enc := &fakeEncoder{}
	Render(enc)
	if len(enc.calls) != 1 || enc.calls[0].vertices != 7*verticesPerInstance {
		t.Errorf("Render draws = %+v, want one 42-vertex glyph draw", enc.calls)
	}
	if b := fb.glyph.uploaded(t); len(b.data) != 7*QuadStride {
		t.Errorf("uploaded %d bytes, want %d", len(b.data), 7*QuadStride)
	}
}

func TestFacadeFirstOverlayStaysActive(t *testing.T) {
	first, _ := newTestOverlay(t)
	second, _ := newTestOverlay(t)

	if Active() != first {
		t.Fatal("second Init replaced the active overlay")
	}
	Write(0, 0, "x")
	if q, _ := second.Pending(); q != 0 {
		t.Errorf("second overlay received %d facade quads", q)
	}
	if q, _ := first.Pending(); q != 1 {
		t.Errorf("first overlay received %d facade quads, want 1", q)
	}

	// Shutting down a non-active overlay leaves the active one alone.
	second.Shutdown()
	if Active() != first {
		t.Error("shutting down the second overlay cleared the active overlay")
	}

	first.Shutdown()
	if Active() != nil {
		t.Error("Active() != nil after the active overlay shut down")
	}

	// After shutdown the facade is inert again.
	Write(0, 0, "y")
	if q, _ := first.Pending(); q != 0 {
		t.Errorf("facade drew on a shut down overlay: %d quads", q)
	}
}

func TestFacadeTickLogsFailure(t *testing.T) {
	o, fb := newTestOverlay(t)
	fb.device.fail = errors.New("device lost")

	var buf strings.Builder
	withTestLogger(t, &buf)

	Write(0, 0, "x")
	Tick()

	if !strings.Contains(buf.String(), "device lost") {
		t.Errorf("log output %q does not mention the failure", buf.String())
	}
	if q, _ := o.Pending(); q != 0 {
		t.Errorf("Pending() = %d after failed Tick, want 0", q)
	}
}

func TestSharedResourcesLoadedOnce(t *testing.T) {
	fb := newFakeBackend()
	loads := 0
	RegisterResources(ResourceBundleName, func() (*Resources, error) {
		loads++
		return fb.res, nil
	})
	t.Cleanup(func() {
		RegisterResources(ResourceBundleName, nil)
		ReleaseResources()
	})

	a := New()
	a.Init(80, 25)
	a.Init(100, 30)
	if a.Width() != 100 || a.Height() != 30 {
		t.Errorf("re-Init size = %dx%d, want 100x30", a.Width(), a.Height())
	}

	// The shared bundle serves one overlay at a time.
	b := New()
	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Error("second overlay on the shared bundle did not panic")
			}
		}()
		b.Init(40, 10)
	}()

	a.Shutdown()
	b.Init(40, 10)
	defer b.Shutdown()

	if loads != 1 {
		t.Errorf("loader ran %d times, want 1", loads)
	}
	if b.res != fb.res {
		t.Error("overlay does not use the registered bundle")
	}
}

func TestSharedResourcesMissingPanics(t *testing.T) {
	RegisterResources(ResourceBundleName, nil)
	ReleaseResources()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Init without registered resources did not panic")
		}
		msg, _ := r.(string)
		if !strings.Contains(msg, ResourceBundleName) {
			t.Errorf("panic message %q does not name the bundle", msg)
		}
	}()
	New().Init(80, 25)
}

func TestLoadResourcesErrors(t *testing.T) {
	t.Cleanup(func() { RegisterResources("test-bundle", nil) })

	if _, err := LoadResources("test-bundle"); !errors.Is(err, ErrResourcesNotRegistered) {
		t.Errorf("LoadResources(unregistered) = %v, want ErrResourcesNotRegistered", err)
	}

	boom := errors.New("atlas missing")
	RegisterResources("test-bundle", func() (*Resources, error) { return nil, boom })
	if _, err := LoadResources("test-bundle"); !errors.Is(err, boom) {
		t.Errorf("LoadResources(failing) = %v, want wrapped loader error", err)
	}

	RegisterResources("test-bundle", func() (*Resources, error) { return &Resources{}, nil })
	if _, err := LoadResources("test-bundle"); !errors.Is(err, ErrInvalidResources) {
		t.Errorf("LoadResources(incomplete) = %v, want ErrInvalidResources", err)
	}
}

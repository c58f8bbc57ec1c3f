package overlay

import (
	"errors"
	"fmt"
	"sync"
)

// ResourceBundleName is the name under which backends register the shared
// overlay resources.
const ResourceBundleName = "DebugOverlayResources"

// Resource errors.
var (
	// ErrResourcesNotRegistered is returned when no loader is registered
	// under the requested bundle name.
	ErrResourcesNotRegistered = errors.New("overlay: resources not registered")

	// ErrInvalidResources is returned when a loader produces an incomplete
	// bundle.
	ErrInvalidResources = errors.New("overlay: invalid resources")

	// ErrResourcesInUse is the Init panic for a bundle already held by
	// another initialized overlay.
	ErrResourcesInUse = errors.New("overlay: resources in use by another overlay")
)

// Resources is the shared bundle the overlay renders with: the device that
// owns the instance buffers, one material per draw call and the glyph
// atlas geometry.
type Resources struct {
	// Device allocates the instance buffers.
	Device Device

	// GlyphMaterial draws quads and samples the glyph atlas.
	GlyphMaterial Material

	// LineMaterial draws line segments.
	LineMaterial Material

	// CellWidth and CellHeight are the size in atlas pixels of one glyph cell.
	CellWidth, CellHeight int

	// CharCols is the number of glyph cells per atlas row.
	CharCols int
}

// Validate reports whether the bundle can be rendered with.
func (r *Resources) Validate() error {
	switch {
	case r == nil:
		return fmt.Errorf("%w: nil bundle", ErrInvalidResources)
	case r.Device == nil:
		return fmt.Errorf("%w: nil device", ErrInvalidResources)
	case r.GlyphMaterial == nil || r.LineMaterial == nil:
		return fmt.Errorf("%w: missing material", ErrInvalidResources)
	case r.CharCols <= 0:
		return fmt.Errorf("%w: char columns %d", ErrInvalidResources, r.CharCols)
	case r.CellWidth <= 0 || r.CellHeight <= 0:
		return fmt.Errorf("%w: cell size %dx%d", ErrInvalidResources, r.CellWidth, r.CellHeight)
	}
	return nil
}

// ResourceLoader builds a resource bundle. It is called at most once per
// process for a successful load.
type ResourceLoader func() (*Resources, error)

// holders maps each bundle to the initialized overlay drawing with it.
// Render thread only, like the active overlay.
var holders = map[*Resources]*Overlay{}

var (
	resourcesMu sync.Mutex
	loaders     = map[string]ResourceLoader{}
	shared      *Resources
)

// RegisterResources registers the loader for a named resource bundle.
// Registering again under the same name replaces the previous loader; an
// already loaded bundle stays in use until ReleaseResources. A nil loader
// unregisters the name.
func RegisterResources(name string, load ResourceLoader) {
	resourcesMu.Lock()
	defer resourcesMu.Unlock()
	if load == nil {
		delete(loaders, name)
		return
	}
	loaders[name] = load
}

// LoadResources runs the loader registered under name and validates its
// result.
func LoadResources(name string) (*Resources, error) {
	resourcesMu.Lock()
	load, ok := loaders[name]
	resourcesMu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrResourcesNotRegistered, name)
	}
	res, err := load()
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", name, err)
	}
	if err := res.Validate(); err != nil {
		return nil, fmt.Errorf("load %q: %w", name, err)
	}
	return res, nil
}

// sharedResources returns the process-wide bundle, loading it on first use.
// The overlay cannot draw anything without it, so a failed load panics.
func sharedResources() *Resources {
	resourcesMu.Lock()
	res := shared
	resourcesMu.Unlock()
	if res != nil {
		return res
	}

	res, err := LoadResources(ResourceBundleName)
	if err != nil {
		panic(fmt.Sprintf("overlay: unable to load %s: %v", ResourceBundleName, err))
	}
	Logger().Debug("overlay: resources loaded",
		"bundle", ResourceBundleName,
		"cell", fmt.Sprintf("%dx%d", res.CellWidth, res.CellHeight),
		"cols", res.CharCols)

	resourcesMu.Lock()
	if shared == nil {
		shared = res
	}
	res = shared
	resourcesMu.Unlock()

	propagateLogger(res, Logger())
	return res
}

// ReleaseResources drops the process-wide bundle. Call it after every
// overlay has shut down and before destroying the backend device; the next
// Init reloads the bundle from its registered loader.
func ReleaseResources() {
	resourcesMu.Lock()
	shared = nil
	resourcesMu.Unlock()
}

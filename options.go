package overlay

// Option configures an Overlay during creation.
//
// Example:
//
//	// Default: white text, shared resources
//	o := overlay.New()
//
//	// Yellow text drawn with a private resource bundle
//	o := overlay.New(overlay.WithColor(overlay.Yellow), overlay.WithResources(res))
type Option func(*options)

// options holds optional configuration for Overlay creation.
type options struct {
	color    RGBA
	capacity int
	res      *Resources
}

// defaultOptions returns the default overlay options.
func defaultOptions() options {
	return options{
		color:    White,
		capacity: DefaultCapacity,
	}
}

// WithColor sets the initial draw color. Default: White.
func WithColor(c RGBA) Option {
	return func(o *options) {
		o.color = c
	}
}

// WithInitialCapacity sets the initial capacity of both instance stores.
// Stores still grow in DefaultCapacity steps from there.
func WithInitialCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithResources makes the overlay render with res instead of the shared
// DebugOverlayResources bundle. A bundle serves one initialized overlay at a
// time, so every overlay beyond the first needs its own bundle here.
func WithResources(res *Resources) Option {
	return func(o *options) {
		o.res = res
	}
}

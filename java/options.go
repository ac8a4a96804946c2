package java

type options struct {
	path  string
	known func(name string) bool
}

type Option func(*options)

// WithPath records the file the source was read from on every produced class.
func WithPath(path string) Option {
	return func(o *options) { o.path = path }
}

// WithKnownTypes lets on-demand imports (import a.b.*) resolve against the
// classes known to the caller.
func WithKnownTypes(known func(name string) bool) Option {
	return func(o *options) { o.known = known }
}

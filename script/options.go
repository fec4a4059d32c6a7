package script

import "github.com/moonbind/moonbind/registry"

// Option configures a script at creation time.
type Option func(*config)

type config struct {
	registry *registry.Registry
	loader   Loader
}

func defaultConfig() config {
	return config{}
}

// WithRegistry exposes the registry's free functions as script globals and
// makes its object types passable into the script. Registration must be
// finished before the script is created.
func WithRegistry(r *registry.Registry) Option {
	return func(c *config) {
		c.registry = r
	}
}

// WithLoader installs the module loader consulted by the script's require
// builtin. Without a loader every require fails.
func WithLoader(l Loader) Option {
	return func(c *config) {
		c.loader = l
	}
}

package deps

import (
	"context"

	"github.com/matzehuels/licensetower/pkg/license"
)

const (
	DefaultMaxDepth = 50   // Default maximum dependency depth
	DefaultMaxNodes = 5000 // Default maximum artifacts to enumerate
	DefaultWorkers  = 8    // Default concurrent descriptor fetches
)

// Artifact is one resolved dependency of the project.
type Artifact struct {
	Group      string
	Artifact   string
	Version    string
	Type       string // "jar", "pom", "test-jar", ...
	Classifier string
	Scope      string // compile, runtime, provided, test, system
	Depth      int    // 1 for direct dependencies; 0 when unknown
}

// Identity returns the version-independent identity of a.
func (a Artifact) Identity() license.Identity {
	return license.Identity{Group: a.Group, Artifact: a.Artifact}
}

// Key returns "group:artifact".
func (a Artifact) Key() string { return a.Group + ":" + a.Artifact }

// String renders "group:artifact:version".
func (a Artifact) String() string { return a.Key() + ":" + a.Version }

// Source enumerates the dependencies of a project.
type Source interface {
	// Dependencies returns the project's dependencies in enumeration
	// order. With transitive false only direct dependencies are returned.
	Dependencies(ctx context.Context, transitive bool) ([]Artifact, error)
}

// Options configures dependency enumeration.
type Options struct {
	MaxDepth int                  // Maximum depth to traverse (default: 50)
	MaxNodes int                  // Maximum artifacts to enumerate (default: 5000)
	Workers  int                  // Concurrent descriptor fetches (default: 8)
	Refresh  bool                 // Bypass cached descriptors
	Logger   func(string, ...any) // Progress/error callback (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.MaxNodes <= 0 {
		opts.MaxNodes = DefaultMaxNodes
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

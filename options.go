package docstruct

import (
	"log/slog"
	"maps"

	"github.com/tsawler/docstruct/layout"
	"github.com/tsawler/docstruct/render"
)

// ExtractOptions holds configuration for a reconstruction run.
type ExtractOptions struct {
	// Pipeline configuration
	config layout.AnalyzerConfig

	// Metadata laid over the service's metadata
	metadata map[string]string

	// Rendering
	render render.Options

	logger *slog.Logger
}

// defaultOptions returns the default options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		config: layout.DefaultAnalyzerConfig(),
		render: render.DefaultOptions(),
	}
}

// clone creates a deep copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := o
	newOpts.metadata = maps.Clone(o.metadata)
	return newOpts
}

package render

// Options controls rendering
type Options struct {
	// Sanitize passes HTML output through the sanitizing policy.
	// Default: false
	Sanitize bool

	// Standalone wraps HTML output in a complete page with a head
	// carrying the document metadata.
	// Default: false
	Standalone bool

	// Indent pretty-prints JSON output.
	// Default: true
	Indent bool
}

// DefaultOptions returns the default rendering options
func DefaultOptions() Options {
	return Options{
		Indent: true,
	}
}

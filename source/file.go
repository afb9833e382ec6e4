package source

import (
	"context"
	"fmt"
	"os"
)

// File loads an element stream from disk. The file may be a bare JSON
// document or a zip archive; the content decides, not the extension.
type File struct {
	Path string
}

// Load reads and decodes the file
func (f File) Load(ctx context.Context) (*Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Path, err)
	}
	payload, err := decodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", f.Path, err)
	}
	return payload, nil
}

package source

import (
	"context"
	"errors"

	"github.com/tsawler/docstruct/model"
)

// ErrNoStructuredData is returned when a zip archive carries no element
// stream
var ErrNoStructuredData = errors.New("source: archive has no structuredData.json")

// StructuredDataName is the name of the element stream inside an archive
const StructuredDataName = "structuredData.json"

// Source produces an element stream
type Source interface {
	Load(ctx context.Context) (*Payload, error)
}

// Payload is a decoded extraction result
type Payload struct {
	Elements []model.PositionedElement

	// Metadata is the service's document metadata flattened to strings
	Metadata map[string]string
}

// Load returns the payload itself, so an already decoded payload can be
// used wherever a Source is expected
func (p *Payload) Load(ctx context.Context) (*Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p, nil
}

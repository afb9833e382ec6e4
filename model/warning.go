package model

import "fmt"

// WarningKind identifies a locally recovered anomaly
type WarningKind int

const (
	// WarningMalformedTableAttrs marks a table cell without row/column
	// indices, or with indices past the table limits; the cell was treated
	// as plain text.
	WarningMalformedTableAttrs WarningKind = iota + 1

	// WarningUnresolvedListLabel marks a list label with no matching body
	// in the look-ahead window; it was emitted as a label-only item.
	WarningUnresolvedListLabel

	// WarningGeometryMissing marks an element without bounds; it was
	// treated as continuing the line of its predecessor.
	WarningGeometryMissing
)

func (k WarningKind) String() string {
	switch k {
	case WarningMalformedTableAttrs:
		return "malformed-table-attrs"
	case WarningUnresolvedListLabel:
		return "unresolved-list-label"
	case WarningGeometryMissing:
		return "geometry-missing"
	default:
		return "unknown"
	}
}

// Warning is a non-fatal issue found while reconstructing a document
type Warning struct {
	Kind      WarningKind
	ElementID int
	Page      int
	Message   string
}

// String formats the warning for logs and CLI output
func (w Warning) String() string {
	return fmt.Sprintf("page %d, element %d: %s: %s", w.Page, w.ElementID, w.Kind, w.Message)
}

package model

// PositionedElement is one unit of content produced by the extraction
// service: a page, an optional bounding box, a structural path and the
// literal text. Elements are immutable once handed to the pipeline.
type PositionedElement struct {
	// ID is the element's original index in the service response. It is
	// used for bookkeeping only and carries no meaning.
	ID int

	// Page is the 0-based source page index
	Page int

	// Bounds is nil when the service did not report geometry
	Bounds *BBox

	// Path encodes the structural ancestry, e.g. "//Document/Table[2]/TR/TD/P"
	Path string

	// Text is the literal text, possibly empty
	Text string

	Font  *Font
	Cell  *CellAttrs
	Table *TableAttrs
}

// HasBounds reports whether the element carries geometry
func (e *PositionedElement) HasBounds() bool {
	return e.Bounds != nil
}

// Font holds the optional font attributes of a text element
type Font struct {
	Size   float64
	Weight int
	Family string
	Name   string
	Italic bool
}

// IsBold reports whether the font weight is bold or heavier
func (f *Font) IsBold() bool {
	return f != nil && f.Weight >= 700
}

// CellAttrs are present only on table-cell elements. RowIndex and ColIndex
// are pointers because the service omits them on malformed cells.
type CellAttrs struct {
	RowIndex        *int
	ColIndex        *int
	RowSpan         int
	ColSpan         int
	BackgroundColor *Color
}

// HasCoordinates reports whether both matrix coordinates are present and
// non-negative
func (c *CellAttrs) HasCoordinates() bool {
	return c != nil && c.RowIndex != nil && c.ColIndex != nil &&
		*c.RowIndex >= 0 && *c.ColIndex >= 0
}

// TableAttrs are present only on table-container elements
type TableAttrs struct {
	DeclaredRowCount int
	DeclaredColCount int
}

// Role is the structural role assigned to an element by classification
type Role int

const (
	RolePlainText Role = iota
	RoleTitle
	RoleHeading1
	RoleHeading2
	RoleListLabel
	RoleListBody
	RoleFigure
	RoleTableContainer
	RoleTableCell
)

// String returns a string representation of the role
func (r Role) String() string {
	switch r {
	case RoleTitle:
		return "title"
	case RoleHeading1:
		return "heading1"
	case RoleHeading2:
		return "heading2"
	case RoleListLabel:
		return "list-label"
	case RoleListBody:
		return "list-body"
	case RoleFigure:
		return "figure"
	case RoleTableContainer:
		return "table"
	case RoleTableCell:
		return "table-cell"
	default:
		return "text"
	}
}

// IsHeading reports whether the role produces a heading block
func (r Role) IsHeading() bool {
	return r == RoleTitle || r == RoleHeading1 || r == RoleHeading2
}

// ClassifiedElement is a PositionedElement annotated by the classifier and
// positioned by reading order.
type ClassifiedElement struct {
	PositionedElement

	Role Role

	// HeadingLevel is 1-6 for heading roles, 0 otherwise
	HeadingLevel int

	// ListDepth is the number of list containers on the path (0 outside lists)
	ListDepth int

	// Cue is set when the text starts with a new-item cue such as "(a)",
	// "1." or an all-caps label followed by a colon
	Cue bool

	// Position is the element's index in reading order
	Position int

	// EffectiveY is the vertical position used for ordering and segmentation.
	// Elements without bounds inherit the value of the element they continue.
	EffectiveY float64

	// EffectiveX is the left edge used for segmentation
	EffectiveX float64
}

// LineHeight returns the height of the element's bounds, or 0 without geometry
func (e *ClassifiedElement) LineHeight() float64 {
	if e.Bounds == nil {
		return 0
	}
	return e.Bounds.Height
}

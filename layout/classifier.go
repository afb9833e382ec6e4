package layout

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/tsawler/docstruct/model"
)

// ClassifierConfig holds the path markers the classifier matches against.
// Markers are compared with path segment names after index suffixes such
// as "[2]" are stripped.
type ClassifierConfig struct {
	// TitleMarker marks the document title. Default: "Title"
	TitleMarker string

	// HeadingPrefix followed by a digit 1-6 marks a heading. Default: "H"
	HeadingPrefix string

	// FigureMarker marks a figure. Default: "Figure"
	FigureMarker string

	// TableMarker marks a table container. Default: "Table"
	TableMarker string

	// CellMarkers mark table cells. Default: "TD", "TH"
	CellMarkers []string

	// ListMarker marks a list container; its count gives the nesting depth.
	// Default: "L"
	ListMarker string

	// ListLabelMarker and ListBodyMarker mark the two halves of a list item.
	// Defaults: "Lbl", "LBody"
	ListLabelMarker string
	ListBodyMarker  string

	// InlineMarkers are skipped from the end of a path before matching, so
	// "//Document/H1/Span" classifies like "//Document/H1"
	InlineMarkers []string

	// CuePatterns mark text that starts a new item
	CuePatterns []*regexp.Regexp
}

// DefaultClassifierConfig returns the markers used by PDF structure trees
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		TitleMarker:     "Title",
		HeadingPrefix:   "H",
		FigureMarker:    "Figure",
		TableMarker:     "Table",
		CellMarkers:     []string{"TD", "TH"},
		ListMarker:      "L",
		ListLabelMarker: "Lbl",
		ListBodyMarker:  "LBody",
		InlineMarkers:   []string{"Span", "ParagraphSpan", "StyleSpan", "Sub", "Sup", "Link", "Reference"},
		CuePatterns:     DefaultCuePatterns(),
	}
}

// Classifier assigns a structural role to each element from its path.
// It never drops or reorders elements.
type Classifier struct {
	config ClassifierConfig
	inline map[string]bool
	cells  map[string]bool
}

// NewClassifier creates a classifier with default configuration
func NewClassifier() *Classifier {
	return NewClassifierWithConfig(DefaultClassifierConfig())
}

// NewClassifierWithConfig creates a classifier with custom configuration
func NewClassifierWithConfig(config ClassifierConfig) *Classifier {
	c := &Classifier{
		config: config,
		inline: make(map[string]bool, len(config.InlineMarkers)),
		cells:  make(map[string]bool, len(config.CellMarkers)),
	}
	for _, m := range config.InlineMarkers {
		c.inline[m] = true
	}
	for _, m := range config.CellMarkers {
		c.cells[m] = true
	}
	return c
}

// ClassifyAll annotates elements in place and returns the warnings raised
// for malformed table cells
func (c *Classifier) ClassifyAll(elements []model.ClassifiedElement) []model.Warning {
	var warnings []model.Warning
	for i := range elements {
		if w := c.Classify(&elements[i]); w != nil {
			warnings = append(warnings, *w)
		}
	}
	return warnings
}

// Classify sets Role, HeadingLevel, ListDepth and Cue on one element. A
// table cell without both matrix indices is demoted to plain text and a
// warning is returned.
func (c *Classifier) Classify(e *model.ClassifiedElement) *model.Warning {
	segments := model.SplitPath(e.Path)

	e.Role = model.RolePlainText
	e.HeadingLevel = 0
	e.ListDepth = 0
	for _, s := range segments {
		if s.Name == c.config.ListMarker {
			e.ListDepth++
		}
	}
	e.Cue = hasCue(e.Text, c.config.CuePatterns)

	last := c.lastSemantic(segments)
	if last < 0 {
		return nil
	}
	name := segments[last].Name

	switch {
	case name == c.config.TitleMarker:
		e.Role = model.RoleTitle
		e.HeadingLevel = 1
		return nil
	case c.headingLevel(name) > 0:
		e.HeadingLevel = c.headingLevel(name)
		e.Role = model.RoleHeading2
		if e.HeadingLevel == 1 {
			e.Role = model.RoleHeading1
		}
		return nil
	case name == c.config.FigureMarker:
		e.Role = model.RoleFigure
		return nil
	case name == c.config.TableMarker:
		if e.Table != nil && e.Table.DeclaredRowCount > 0 {
			e.Role = model.RoleTableContainer
		}
		return nil
	case c.cells[name]:
		if e.Cell.HasCoordinates() {
			e.Role = model.RoleTableCell
			return nil
		}
		return &model.Warning{
			Kind:      model.WarningMalformedTableAttrs,
			ElementID: e.ID,
			Page:      e.Page,
			Message:   fmt.Sprintf("cell %s has no row/column index, treated as text", e.Path),
		}
	}

	for i := last; i >= 0; i-- {
		switch segments[i].Name {
		case c.config.ListLabelMarker:
			e.Role = model.RoleListLabel
			return nil
		case c.config.ListBodyMarker:
			e.Role = model.RoleListBody
			return nil
		}
	}
	return nil
}

// lastSemantic returns the index of the last segment that is not an
// inline marker, or -1
func (c *Classifier) lastSemantic(segments []model.PathSegment) int {
	for i := len(segments) - 1; i >= 0; i-- {
		if !c.inline[segments[i].Name] {
			return i
		}
	}
	return -1
}

// headingLevel returns 1-6 for "H1".."H6", 0 otherwise
func (c *Classifier) headingLevel(name string) int {
	prefix := c.config.HeadingPrefix
	if len(name) != len(prefix)+1 || name[:len(prefix)] != prefix {
		return 0
	}
	level, err := strconv.Atoi(name[len(prefix):])
	if err != nil || level < 1 || level > 6 {
		return 0
	}
	return level
}

package layout

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/tsawler/docstruct/model"
	"github.com/tsawler/docstruct/text"
)

// ListType represents the kind of marker a list label carries
type ListType int

const (
	ListTypeUnknown  ListType = iota
	ListTypeBullet            // Bullet points (•, -, *, etc.)
	ListTypeNumbered          // Numbered (1., 2., 3.)
	ListTypeLettered          // Lettered (a., b., (c))
	ListTypeRoman             // Roman numerals (i., ii., (iv))
	ListTypeCheckbox          // Checkbox lists (☐, ☑, ✓)
)

// String returns a string representation of the list type
func (t ListType) String() string {
	switch t {
	case ListTypeBullet:
		return "bullet"
	case ListTypeNumbered:
		return "numbered"
	case ListTypeLettered:
		return "lettered"
	case ListTypeRoman:
		return "roman"
	case ListTypeCheckbox:
		return "checkbox"
	default:
		return "unknown"
	}
}

// IsOrdered reports whether the marker implies a sequence
func (t ListType) IsOrdered() bool {
	return t == ListTypeNumbered || t == ListTypeLettered || t == ListTypeRoman
}

// ListConfig holds configuration for pairing list labels with bodies
type ListConfig struct {
	// LookAhead is the number of unconsumed bodies examined after each label.
	// Default: 6
	LookAhead int

	// LineHeightFactor scales the label height into the vertical tolerance
	// a body must fall within. Default: 1.0
	LineHeightFactor float64

	// MinLineTolerance is the tolerance (points) used when the label has no
	// usable height, and the floor otherwise. Default: 4.0
	MinLineTolerance float64

	// BulletCharacters are the characters recognized as bullet markers
	BulletCharacters []rune

	// NumberedPatterns, LetterPatterns and RomanPatterns recognize ordered
	// markers such as "1.", "(b)" or "iv)"
	NumberedPatterns []*regexp.Regexp
	LetterPatterns   []*regexp.Regexp
	RomanPatterns    []*regexp.Regexp
}

// DefaultListConfig returns sensible default configuration
func DefaultListConfig() ListConfig {
	return ListConfig{
		LookAhead:        6,
		LineHeightFactor: 1.0,
		MinLineTolerance: 4.0,
		BulletCharacters: []rune{
			'•', '●', '○', '◦', '◉', // Circles
			'■', '□', '▪', '▫', // Squares
			'-', '–', '—', // Dashes
			'*', '✱', '✲', // Asterisks
			'→', '▶', '►', '▸', '➤', '➜', // Arrows
			'‣', '⁃', // Other bullets
			'☐', '☑', '✓', '✔', '✗', '✘', // Checkboxes
		},
		NumberedPatterns: []*regexp.Regexp{
			regexp.MustCompile(`^\(?(\d+(?:\.\d+)*)[.\)]?$`),
		},
		LetterPatterns: []*regexp.Regexp{
			regexp.MustCompile(`^\(?([a-zA-Z])[.\)]$`),
		},
		RomanPatterns: []*regexp.Regexp{
			regexp.MustCompile(`^\(?([ivxlcdmIVXLCDM]+)[.\)]$`),
		},
	}
}

// ListMerger joins list labels with the list bodies the extraction service
// emits as separate elements
type ListMerger struct {
	config ListConfig
}

// NewListMerger creates a list merger with default configuration
func NewListMerger() *ListMerger {
	return &ListMerger{
		config: DefaultListConfig(),
	}
}

// NewListMergerWithConfig creates a list merger with custom configuration
func NewListMergerWithConfig(config ListConfig) *ListMerger {
	return &ListMerger{
		config: config,
	}
}

// Merge pairs every ListLabel in elements with the first following ListBody
// on the same page whose vertical position is within one line of it. A label
// with no match becomes a label-only item and a warning; bodies left over
// become standalone items. Elements with other roles are returned unchanged
// in reading order.
func (m *ListMerger) Merge(elements []model.ClassifiedElement) ([]*model.ListItem, []model.ClassifiedElement, []model.Warning) {
	var (
		items     []*model.ListItem
		remaining []model.ClassifiedElement
		warnings  []model.Warning
		bodies    []int
	)

	for i := range elements {
		if elements[i].Role == model.RoleListBody {
			bodies = append(bodies, i)
		}
	}
	consumed := make(map[int]bool, len(bodies))

	for i := range elements {
		label := &elements[i]
		switch label.Role {
		case model.RoleListBody:
			continue
		case model.RoleListLabel:
		default:
			remaining = append(remaining, *label)
			continue
		}

		match := m.findBody(label, elements, bodies, consumed)
		if match < 0 {
			items = append(items, m.newItem(label, nil))
			warnings = append(warnings, model.Warning{
				Kind:      model.WarningUnresolvedListLabel,
				ElementID: label.ID,
				Page:      label.Page,
				Message:   fmt.Sprintf("no list body within %d candidates for label %q", m.config.LookAhead, label.Text),
			})
			continue
		}
		consumed[match] = true
		items = append(items, m.newItem(label, &elements[match]))
	}

	for _, b := range bodies {
		if consumed[b] {
			continue
		}
		items = append(items, m.newItem(nil, &elements[b]))
	}

	return items, remaining, warnings
}

// findBody returns the index of the matching body or -1. Only the first
// LookAhead unconsumed bodies after the label on its page are examined.
func (m *ListMerger) findBody(label *model.ClassifiedElement, elements []model.ClassifiedElement, bodies []int, consumed map[int]bool) int {
	tolerance := m.tolerance(label)
	seen := 0
	for _, b := range bodies {
		body := &elements[b]
		if consumed[b] || body.Position <= label.Position {
			continue
		}
		if body.Page != label.Page || seen >= m.config.LookAhead {
			return -1
		}
		seen++
		if math.Abs(label.EffectiveY-body.EffectiveY) <= tolerance {
			return b
		}
	}
	return -1
}

// tolerance is one label line height, never below MinLineTolerance
func (m *ListMerger) tolerance(label *model.ClassifiedElement) float64 {
	return math.Max(label.LineHeight()*m.config.LineHeightFactor, m.config.MinLineTolerance)
}

// newItem builds a list item from a label, a body, or both
func (m *ListMerger) newItem(label, body *model.ClassifiedElement) *model.ListItem {
	item := &model.ListItem{}
	first := label
	if first == nil {
		first = body
	}
	item.Page = first.Page
	item.Position = first.Position
	item.Level = max(first.ListDepth-1, 0)

	if label != nil {
		item.Label = label.Text
		item.ElementIDs = append(item.ElementIDs, label.ID)
		item.Ordered = m.DetectType(label.Text).IsOrdered()
	}
	if body != nil {
		item.Body = body.Text
		item.ElementIDs = append(item.ElementIDs, body.ID)
	}
	item.Text = text.JoinWords(item.Label, item.Body)
	return item
}

// DetectType returns the kind of marker a label carries
func (m *ListMerger) DetectType(label string) ListType {
	label = strings.TrimSpace(label)
	if label == "" {
		return ListTypeUnknown
	}

	first := []rune(label)[0]
	for _, bullet := range m.config.BulletCharacters {
		if first == bullet {
			if isCheckbox(bullet) {
				return ListTypeCheckbox
			}
			return ListTypeBullet
		}
	}

	for _, pattern := range m.config.NumberedPatterns {
		if pattern.MatchString(label) {
			return ListTypeNumbered
		}
	}
	for _, pattern := range m.config.LetterPatterns {
		if pattern.MatchString(label) {
			return ListTypeLettered
		}
	}
	for _, pattern := range m.config.RomanPatterns {
		if match := pattern.FindStringSubmatch(label); len(match) > 1 && isValidRoman(match[1]) {
			return ListTypeRoman
		}
	}
	return ListTypeUnknown
}

func isCheckbox(r rune) bool {
	switch r {
	case '☐', '☑', '✓', '✔', '✗', '✘':
		return true
	}
	return false
}

// isValidRoman checks if a string is a plausible roman numeral
func isValidRoman(s string) bool {
	s = strings.ToUpper(s)
	for _, r := range s {
		if !strings.ContainsRune("IVXLCDM", r) {
			return false
		}
	}
	return len(s) >= 1 && len(s) <= 15
}

package docstruct

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tsawler/docstruct/model"
)

// Warning is a non-fatal issue recovered while reconstructing a document
type Warning = model.Warning

// FormatWarnings formats warnings for display, one per line
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}

// SummarizeWarnings counts warnings by kind, e.g.
// "2 warnings (geometry-missing: 1, malformed-table-attrs: 1)"
func SummarizeWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return "no warnings"
	}
	counts := make(map[model.WarningKind]int)
	var kinds []model.WarningKind
	for _, w := range warnings {
		if counts[w.Kind] == 0 {
			kinds = append(kinds, w.Kind)
		}
		counts[w.Kind]++
	}

	parts := make([]string, 0, len(kinds))
	slices.SortFunc(kinds, func(a, b model.WarningKind) int {
		return strings.Compare(a.String(), b.String())
	})
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%s: %d", k, counts[k]))
	}
	noun := "warnings"
	if len(warnings) == 1 {
		noun = "warning"
	}
	return fmt.Sprintf("%d %s (%s)", len(warnings), noun, strings.Join(parts, ", "))
}

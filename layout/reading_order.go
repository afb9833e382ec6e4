package layout

import (
	"sort"

	"github.com/tsawler/docstruct/model"
	"github.com/tsawler/docstruct/text"
)

// ReadingOrderConfig holds configuration for reading order detection
type ReadingOrderConfig struct {
	// YTolerance is the maximum vertical distance (points) between elements
	// that are read as one horizontal band. Default: 2.0
	YTolerance float64

	// NormalizeText converts element text to NFC with collapsed whitespace
	NormalizeText bool

	// InvertedY indicates that Y coordinates increase downward (Y=0 at top)
	// rather than the usual bottom-left origin where Y increases upward.
	// Default: false
	InvertedY bool
}

// DefaultReadingOrderConfig returns sensible default configuration
func DefaultReadingOrderConfig() ReadingOrderConfig {
	return ReadingOrderConfig{
		YTolerance:    2.0,
		NormalizeText: true,
	}
}

// ReadingOrderResult holds the result of reading order analysis
type ReadingOrderResult struct {
	// Elements in reading order. Position is set; Role is left for the
	// classifier.
	Elements []model.ClassifiedElement

	// PageStarts maps each page index present in the input to the index of
	// its first element in Elements
	PageStarts map[int]int

	// PageCount is the highest page index plus one
	PageCount int
}

// ElementsOnPage returns the elements of one page, in reading order
func (r *ReadingOrderResult) ElementsOnPage(page int) []model.ClassifiedElement {
	start, ok := r.PageStarts[page]
	if !ok {
		return nil
	}
	end := start
	for end < len(r.Elements) && r.Elements[end].Page == page {
		end++
	}
	return r.Elements[start:end]
}

// ReadingOrderDetector sorts a flat element stream into document reading
// order: pages ascending, then top to bottom, with same-line fragments kept
// in the order the extraction service scanned them.
type ReadingOrderDetector struct {
	config ReadingOrderConfig
}

// NewReadingOrderDetector creates a new reading order detector with default configuration
func NewReadingOrderDetector() *ReadingOrderDetector {
	return &ReadingOrderDetector{
		config: DefaultReadingOrderConfig(),
	}
}

// NewReadingOrderDetectorWithConfig creates a reading order detector with custom configuration
func NewReadingOrderDetectorWithConfig(config ReadingOrderConfig) *ReadingOrderDetector {
	return &ReadingOrderDetector{
		config: config,
	}
}

// Detect returns the elements in reading order. The result does not depend
// on the order of the input slice: elements on one band are ordered by ID,
// which is the service's scan order.
func (d *ReadingOrderDetector) Detect(elements []model.PositionedElement) *ReadingOrderResult {
	result := &ReadingOrderResult{PageStarts: make(map[int]int)}
	if len(elements) == 0 {
		return result
	}

	ordered := make([]model.ClassifiedElement, len(elements))
	for i, e := range elements {
		if d.config.NormalizeText {
			e.Text = text.Normalize(e.Text)
		}
		ordered[i] = model.ClassifiedElement{PositionedElement: e}
	}

	d.resolveGeometry(ordered)

	// Total order first so banding sees the same sequence for any input order
	sort.Slice(ordered, func(i, j int) bool {
		a, b := &ordered[i], &ordered[j]
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		if ka, kb := d.sortKey(a), d.sortKey(b); ka != kb {
			return ka > kb
		}
		return a.ID < b.ID
	})

	d.orderBands(ordered)

	for i := range ordered {
		ordered[i].Position = i
		page := ordered[i].Page
		if _, ok := result.PageStarts[page]; !ok {
			result.PageStarts[page] = i
		}
		if page+1 > result.PageCount {
			result.PageCount = page + 1
		}
	}
	result.Elements = ordered
	return result
}

// sortKey returns a value that decreases from the top of the page to the bottom
func (d *ReadingOrderDetector) sortKey(e *model.ClassifiedElement) float64 {
	if d.config.InvertedY {
		return -e.EffectiveY
	}
	return e.EffectiveY
}

// resolveGeometry sets EffectiveY and EffectiveX. Elements without bounds
// take the values of the nearest preceding ID on the same page, or of the
// following one when they open the page.
func (d *ReadingOrderDetector) resolveGeometry(elements []model.ClassifiedElement) {
	byPage := make(map[int][]*model.ClassifiedElement)
	for i := range elements {
		e := &elements[i]
		if e.Bounds != nil {
			e.EffectiveY = e.Bounds.Y
			e.EffectiveX = e.Bounds.X
		}
		byPage[e.Page] = append(byPage[e.Page], e)
	}

	for _, page := range byPage {
		sort.Slice(page, func(i, j int) bool { return page[i].ID < page[j].ID })

		var last *model.ClassifiedElement
		var pending []*model.ClassifiedElement
		for _, e := range page {
			if e.Bounds != nil {
				last = e
				for _, p := range pending {
					p.EffectiveY, p.EffectiveX = e.EffectiveY, e.EffectiveX
				}
				pending = nil
				continue
			}
			if last == nil {
				pending = append(pending, e)
				continue
			}
			e.EffectiveY, e.EffectiveX = last.EffectiveY, last.EffectiveX
		}
	}
}

// orderBands groups consecutive elements whose vertical position lies
// within YTolerance of the band's first element and sorts each band by ID
func (d *ReadingOrderDetector) orderBands(elements []model.ClassifiedElement) {
	start := 0
	for i := 1; i <= len(elements); i++ {
		if i < len(elements) &&
			elements[i].Page == elements[start].Page &&
			d.sortKey(&elements[start])-d.sortKey(&elements[i]) <= d.config.YTolerance {
			continue
		}
		band := elements[start:i]
		sort.Slice(band, func(a, b int) bool { return band[a].ID < band[b].ID })
		start = i
	}
}

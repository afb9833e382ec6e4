package render

import (
	"regexp"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	classPattern  = regexp.MustCompile(`^(title|label|placeholder|page-break|figure-placeholder)$`)
	anchorPattern = regexp.MustCompile(`^block-[0-9]+$`)
	colorPattern  = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// sanitizer returns the shared policy. Policies are safe for concurrent
// use once built.
var sanitizer = sync.OnceValue(newPolicy)

// newPolicy starts from the user generated content policy and allows the
// markup the HTML renderer emits
func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("figure", "figcaption", "div", "span", "hr", "br", "thead", "tbody")
	p.AllowAttrs("class").Matching(classPattern).Globally()
	p.AllowAttrs("id").Matching(anchorPattern).Globally()
	p.AllowAttrs("rowspan", "colspan").Matching(bluemonday.Integer).OnElements("td", "th")
	p.AllowAttrs("data-from-page", "data-to-page").Matching(bluemonday.Integer).OnElements("hr")
	p.AllowStyles("background-color").Matching(colorPattern).OnElements("td", "th")
	return p
}

// Sanitize cleans an HTML fragment with the renderer's policy
func Sanitize(fragment string) string {
	return sanitizer().Sanitize(fragment)
}

package rag

import (
	"fmt"
	"math"
	"strings"
)

// maxExcerptLen bounds each formatted excerpt; longer content is cut to
// 497 characters plus an ellipsis.
const maxExcerptLen = 500

// Excerpt is a transient view of one retrieved chunk. Score is only
// meaningful when Scored is set, i.e. the excerpt came from similarity
// search rather than index-order fallback.
type Excerpt struct {
	Content string
	Index   int
	Score   float64
	Scored  bool
}

// formatContext renders excerpts as the plain-text block handed to the
// generation step.
func formatContext(excerpts []Excerpt, total int) string {
	var b strings.Builder
	b.WriteString("Document Content:\n\n")

	for i, ex := range excerpts {
		cleaned := strings.TrimSpace(strings.ReplaceAll(ex.Content, "\n", " "))
		if len(cleaned) > maxExcerptLen {
			cleaned = cleaned[:maxExcerptLen-3] + "..."
		}

		if ex.Scored {
			pct := int(math.Round(ex.Score * 100))
			fmt.Fprintf(&b, "Excerpt %d (Relevance: %d%%): %s\n\n", i+1, pct, cleaned)
		} else {
			fmt.Fprintf(&b, "Excerpt %d: %s\n\n", i+1, cleaned)
		}
	}

	if total > len(excerpts) {
		fmt.Fprintf(&b, "[Note: Document contains %d more excerpts that are not shown here]\n", total-len(excerpts))
	}

	return b.String()
}

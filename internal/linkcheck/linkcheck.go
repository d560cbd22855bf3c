// Package linkcheck verifies links in rendered Markdown bodies. It flags
// site-relative destinations that no page in the current run will serve.
// Findings are advisory; they never fail a sync.
package linkcheck

import (
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Issue is one unresolved site-relative link.
type Issue struct {
	Page        string // site-relative path of the page containing the link
	Destination string
}

// ExtractLinks parses a Markdown body and returns every link-like
// destination (inline links, images, autolinks) in document order.
func ExtractLinks(body []byte) []string {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	var links []string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.AutoLink:
			links = append(links, string(node.URL(body)))
		case *gmast.Image:
			links = append(links, string(node.Destination))
		case *gmast.Link:
			links = append(links, string(node.Destination))
		}
		return gmast.WalkContinue, nil
	})
	return links
}

// Verify checks every rendered page body against the set of permalinks this
// run produces. rendered maps site-relative path to body; permalinks holds
// every permalink served after the run (including "/" when a home page
// exists).
func Verify(rendered map[string]string, permalinks map[string]struct{}) []Issue {
	var issues []Issue
	for page, body := range rendered {
		for _, dest := range ExtractLinks([]byte(body)) {
			if !isSiteRelative(dest) {
				continue
			}
			if _, ok := permalinks[normalize(dest)]; !ok {
				issues = append(issues, Issue{Page: page, Destination: dest})
			}
		}
	}
	return issues
}

// isSiteRelative reports whether a destination targets this site rather than
// an external resource.
func isSiteRelative(dest string) bool {
	return strings.HasPrefix(dest, "/")
}

// normalize strips a fragment and guarantees the trailing slash permalinks
// carry.
func normalize(dest string) string {
	if i := strings.IndexByte(dest, '#'); i >= 0 {
		dest = dest[:i]
	}
	if dest == "" {
		dest = "/"
	}
	if !strings.HasSuffix(dest, "/") {
		dest += "/"
	}
	return dest
}

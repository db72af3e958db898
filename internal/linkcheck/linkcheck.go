// Package linkcheck audits converted Markdown for internal links that point
// at nothing. It is advisory: findings are logged by the caller, never
// fatal.
package linkcheck

import (
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/CueMol/pw-to-mkdocs/internal/util/sets"
)

type LinkKind string

const (
	LinkKindInline LinkKind = "inline"
	LinkKindImage  LinkKind = "image"
	LinkKindAuto   LinkKind = "auto"
)

// Link is one extracted destination from a Markdown body.
type Link struct {
	Kind        LinkKind
	Destination string
}

// Extract parses a Markdown body and collects link-like destinations.
// This is an analysis API; it does not attempt to re-render Markdown.
func Extract(body []byte) []Link {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	links := make([]Link, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.AutoLink:
			links = append(links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body))})
		case *gmast.Image:
			links = append(links, Link{Kind: LinkKindImage, Destination: string(node.Destination)})
		case *gmast.Link:
			links = append(links, Link{Kind: LinkKindInline, Destination: string(node.Destination)})
		}
		return gmast.WalkContinue, nil
	})
	return links
}

// Unresolved returns the root-relative destinations for which known reports
// no target. External URLs and pure fragments are never checked.
func Unresolved(links []Link, known func(target string) bool) []string {
	var missing []string
	seen := sets.New[string]()
	for _, l := range links {
		target := normalize(l.Destination)
		if target == "" || seen.Has(target) {
			continue
		}
		if !strings.HasPrefix(target, "/") {
			continue
		}
		if !known(target) {
			missing = append(missing, target)
			seen.Add(target)
		}
	}
	return missing
}

// normalize strips fragments and trailing slashes so destinations compare
// against page identities.
func normalize(dest string) string {
	if i := strings.Index(dest, "#"); i >= 0 {
		dest = dest[:i]
	}
	return strings.TrimSuffix(dest, "/")
}

// Package convert implements the PukiWiki to Markdown translation engine:
// link resolution, image reference translation, and the ordered markup
// rewrite rules, applied per page by a fixed transform pipeline.
package convert

import (
	"strings"

	"github.com/CueMol/pw-to-mkdocs/internal/config"
)

// IndexPageName is the reserved output identity of the wiki front page.
const IndexPageName = "index"

// Page identifies one wiki page while it flows through the pipeline.
// Name is the decoded, slash-separated logical path relative to its
// language ("index", "cuemol2/TubeRenderer").
type Page struct {
	Name     string
	Language string
}

// TargetPath is the Markdown output path relative to the language root.
func (p Page) TargetPath() string { return p.Name + ".md" }

// BackupPath is the verbatim source copy written next to the Markdown.
func (p Page) BackupPath() string { return p.Name + ".pwtxt" }

// Parent returns the logical path one level above the page, or "" at the
// language root.
func (p Page) Parent() string {
	idx := strings.LastIndex(p.Name, "/")
	if idx < 0 {
		return ""
	}
	return p.Name[:idx]
}

// Document carries a single page's text through the transform sequence.
// Each transform rewrites Content in place; Original is kept untouched for
// the verbatim backup artifact.
type Document struct {
	Page       Page
	SourcePath string
	Encoding   string
	Original   string
	Content    string
}

// Options carries the per-run conversion settings. Everything the resolver
// and translators need is passed explicitly; transforms hold no state of
// their own, so a future parallel walk only has to hand each worker its own
// Document.
type Options struct {
	DefaultLanguage string
	LinkStyle       config.LinkStyle
	ImageBase       string // site directory holding per-page image dirs, e.g. "assets/images"
}

// isDefaultLanguage reports whether lang needs no language path segment.
func (o Options) isDefaultLanguage(lang string) bool {
	return lang == o.DefaultLanguage
}

// buildTarget joins path parts into a link target, applying the configured
// link style and, when lang is a non-default language, its path segment.
// Empty parts are dropped so parent links at the language root stay clean.
func buildTarget(o Options, page Page, lang string, parts ...string) string {
	segs := make([]string, 0, len(parts)+1)
	if lang != "" && !o.isDefaultLanguage(lang) {
		segs = append(segs, lang)
	}
	for _, p := range parts {
		if p != "" {
			segs = append(segs, p)
		}
	}
	joined := strings.Join(segs, "/")

	if o.LinkStyle == config.LinkStyleNested {
		return topDir(o, page) + "/" + joined
	}
	return "/" + joined
}

// topDir computes the "../" chain from the page's output location back to
// the site root, the older nested link convention. The front page sits at
// the root itself.
func topDir(o Options, page Page) string {
	if page.Name == IndexPageName {
		return "."
	}
	n := strings.Count(page.Name, "/") + 1
	if !o.isDefaultLanguage(page.Language) {
		n++
	}
	return strings.TrimSuffix(strings.Repeat("../", n), "/")
}

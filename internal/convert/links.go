package convert

import (
	"fmt"
	"net/url"
	"regexp"

	"github.com/CueMol/pw-to-mkdocs/internal/pwname"
)

// The three internal-link grammars, applied in this order. The resolver
// behind them is shared; only the token shape differs.
var (
	linkLabelPattern = regexp.MustCompile(`\[\[([^>\]]+)>([^>\]]+)\]\]`) // [[text>target]]
	linkColonPattern = regexp.MustCompile(`\[\[([^:\]]+):([^>\]]+)\]\]`) // [[text:target]]
	linkBarePattern  = regexp.MustCompile(`\[\[([^>\]]+)\]\]`)           // [[target]]
)

// Link target classification, first match wins.
var (
	anchorPattern    = regexp.MustCompile(`^#(.+)$`)
	samePagePattern  = regexp.MustCompile(`^\./(.+)$`)
	parentPattern    = regexp.MustCompile(`^\.\./(.*)$`)
	crossLangPattern = regexp.MustCompile(`/(\w+)/index\.php\?(.+)`)
	externalPattern  = regexp.MustCompile(`^https?://`)
)

// resolveLinks rewrites every internal-link token in the document body.
func resolveLinks(doc *Document, opts Options) error {
	content := doc.Content
	for _, pat := range []*regexp.Regexp{linkLabelPattern, linkColonPattern, linkBarePattern} {
		content = pat.ReplaceAllStringFunc(content, func(match string) string {
			m := pat.FindStringSubmatch(match)
			text := m[1]
			target := m[1]
			if len(m) > 2 {
				target = m[2]
			}
			return ResolveLink(target, text, doc.Page, opts)
		})
	}
	doc.Content = content
	return nil
}

// ResolveLink classifies a link target and renders the Markdown link for it.
// Classification order is a contract: anchor, same-page relative, parent
// relative, cross-language absolute, external, then bare page name. A target
// matching nothing else is treated as a bare page name, never an error.
func ResolveLink(target, text string, page Page, opts Options) string {
	if m := anchorPattern.FindStringSubmatch(target); m != nil {
		// Page-local fragment, kept as-is.
		return fmt.Sprintf("[%s](#%s)", text, m[1])
	}

	if m := samePagePattern.FindStringSubmatch(target); m != nil {
		// "./Sub" resolves under the current page's own directory.
		return fmt.Sprintf("[%s](%s)", text, buildTarget(opts, page, page.Language, page.Name, m[1]))
	}

	if m := parentPattern.FindStringSubmatch(target); m != nil {
		// "../Sib" resolves one level above the current page.
		return fmt.Sprintf("[%s](%s)", text, buildTarget(opts, page, page.Language, page.Parent(), m[1]))
	}

	if m := crossLangPattern.FindStringSubmatch(target); m != nil {
		// Absolute wiki URL form: /en/index.php?cuemol2%2FRenderer
		lang := m[1]
		name, err := url.QueryUnescape(m[2])
		if err != nil {
			name = m[2]
		}
		name = pwname.SanitizeName(name)
		return fmt.Sprintf("[%s](%s)", text, buildTarget(opts, page, lang, name))
	}

	if externalPattern.MatchString(target) {
		return fmt.Sprintf("[%s](%s)", text, target)
	}

	// Bare page name.
	return fmt.Sprintf("[%s](%s)", text, buildTarget(opts, page, page.Language, target))
}

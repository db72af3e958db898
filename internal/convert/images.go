package convert

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"
)

var (
	inlineRefPattern = regexp.MustCompile(`&ref\(([^)]+)\);`)      // &ref(foo.png,50%);
	blockRefPattern  = regexp.MustCompile(`(?m)^#ref\(([^)]+)\)`)  // #ref(foo.png) at line start
	zoomPattern      = regexp.MustCompile(`^(.+)%`)
)

// lightboxClass is appended to every image that keeps its click-to-zoom
// link; `nolink` in the directive suppresses it.
const lightboxClass = ".on-glb"

// translateImages rewrites &ref()/#ref() directives into Markdown image
// syntax. Block directives are surrounded with blank lines so the renderer
// treats them as their own paragraph.
func translateImages(doc *Document, opts Options) error {
	var firstErr error

	translate := func(pat *regexp.Regexp, block bool, content string) string {
		return pat.ReplaceAllStringFunc(content, func(match string) string {
			body := pat.FindStringSubmatch(match)[1]
			out, err := translateRef(body, doc.Page, opts, block)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return match
			}
			return out
		})
	}

	content := translate(inlineRefPattern, false, doc.Content)
	content = translate(blockRefPattern, true, content)
	if firstErr != nil {
		return firstErr
	}
	doc.Content = content
	return nil
}

// translateRef renders one directive body ("path,opt,opt") as a Markdown
// image fragment.
func translateRef(body string, page Page, opts Options, block bool) (string, error) {
	parts := strings.Split(body, ",")
	imgPath := stripQuotes(strings.TrimSpace(parts[0]))

	options, err := imageOptions(parts[1:])
	if err != nil {
		return "", fmt.Errorf("image directive %q: %w", body, err)
	}

	base := path.Base(imgPath)
	alt := strings.TrimSuffix(base, path.Ext(base))
	target := buildTarget(opts, page, "", opts.ImageBase, page.Name, base)

	var out string
	if len(options) > 0 {
		out = fmt.Sprintf("![%s](%s){ %s }", alt, target, strings.Join(options, " "))
	} else {
		out = fmt.Sprintf("![%s](%s)", alt, target)
	}
	if block {
		return "\n" + out + "\n", nil
	}
	return out, nil
}

// imageOptions builds the attribute list for an image directive. Order is
// deterministic: options keep their appearance order and the lightbox class,
// when not suppressed by nolink, comes last.
func imageOptions(parts []string) ([]string, error) {
	options := make([]string, 0, len(parts)+1)
	zoomLink := true
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "nolink" {
			zoomLink = false
			continue
		}
		if m := zoomPattern.FindStringSubmatch(p); m != nil {
			pct, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				return nil, fmt.Errorf("bad size option %q: %w", p, err)
			}
			options = append(options, fmt.Sprintf(`style="zoom: %s"`, formatScale(pct/100.0)))
		}
	}
	if zoomLink {
		options = append(options, lightboxClass)
	}
	return options, nil
}

// formatScale renders a zoom factor with at least one decimal digit, so
// integral factors read "1.0" rather than "1".
func formatScale(scale float64) string {
	s := strconv.FormatFloat(scale, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// stripQuotes removes one pair of matching surrounding quotes (double,
// single, or backtick).
func stripQuotes(s string) string {
	if len(s) >= 2 && s[0] == s[len(s)-1] {
		switch s[0] {
		case '"', '\'', '`':
			return s[1 : len(s)-1]
		}
	}
	return s
}

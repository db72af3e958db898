package convert

import (
	"fmt"
	"regexp"
	"strings"
)

// RuleApplicationError reports a rewrite rule that failed while substituting.
// The page is not written; the walker logs this and moves on.
type RuleApplicationError struct {
	PagePath    string
	Rule        string
	Pattern     string
	Replacement string
	Err         error
}

func (e *RuleApplicationError) Error() string {
	return fmt.Sprintf("markup rule %q failed on %s (pattern %q, replacement %q): %v",
		e.Rule, e.PagePath, e.Pattern, e.Replacement, e.Err)
}

func (e *RuleApplicationError) Unwrap() error { return e.Err }

// markupStep is one stage of the rewrite sequence, operating on the page's
// physical lines.
type markupStep struct {
	name string
	fn   func(lines []string) []string
}

// markupSteps run in a fixed order. The ordering is a correctness contract:
// each step may produce text that only later steps are allowed to match
// (emphasis runs last so its sigils never confuse the structural rules, and
// the structural rules never re-match generated heading or list markers).
var markupSteps = []markupStep{
	{"strip-directives", stripDirectives},
	{"blockquote-spacing", spaceBlockquotes},
	{"strip-comments", stripComments},
	{"code-blocks", convertCodeBlocks},
	{"headings", convertHeadings},
	{"definition-lists", convertDefinitionLists},
	{"lists", convertLists},
	{"anchors", convertAnchors},
	{"youtube-embeds", convertYoutube},
	{"line-breaks", convertLineBreaks},
	{"emphasis", convertEmphasis},
}

// rewriteMarkup applies every markup step to the document body in order.
func rewriteMarkup(doc *Document, _ Options) error {
	lines := strings.Split(doc.Content, "\n")
	for _, step := range markupSteps {
		var err error
		lines, err = applyStep(step, lines, doc.SourcePath)
		if err != nil {
			return err
		}
	}
	doc.Content = strings.Join(lines, "\n")
	return nil
}

// applyStep runs one step, converting a panic inside a substitution into a
// RuleApplicationError so the offending rule and page are reported instead
// of killing the walk. Rule-table steps carry the failing pattern and
// replacement template through the panic value.
func applyStep(step markupStep, lines []string, pagePath string) (out []string, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		rerr := &RuleApplicationError{PagePath: pagePath, Rule: step.name}
		if f, ok := r.(*ruleFailure); ok {
			rerr.Pattern = f.pattern
			rerr.Replacement = f.replacement
			rerr.Err = f.err
		} else {
			rerr.Err = fmt.Errorf("%v", r)
		}
		err = rerr
	}()
	return step.fn(lines), nil
}

// Step 1: page directives with no Markdown equivalent disappear entirely.
func stripDirectives(lines []string) []string {
	out := lines[:0:0]
	for _, line := range lines {
		if line == "#contents" || line == "#access" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Step 2: every quoted line gets a blank line in front of it so the
// renderer opens a fresh blockquote block.
var (
	quotePattern       = regexp.MustCompile(`^>[^>]`)
	doubleQuotePattern = regexp.MustCompile(`^>>[^>]`)
)

func spaceBlockquotes(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if quotePattern.MatchString(line) || doubleQuotePattern.MatchString(line) {
			out = append(out, "")
		}
		out = append(out, line)
	}
	return out
}

// Step 3: full-line comments.
func stripComments(lines []string) []string {
	out := lines[:0:0]
	for _, line := range lines {
		if strings.HasPrefix(line, "//") {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Step 4: explicit <pre> tags become fences, then contiguous runs of lines
// indented by a single space are coalesced into one fenced block.
var indentedPattern = regexp.MustCompile(`^ (.+)$`)

func convertCodeBlocks(lines []string) []string {
	out := make([]string, 0, len(lines))
	inRun := false
	for _, line := range lines {
		line = strings.ReplaceAll(line, "<pre>", "```")
		line = strings.ReplaceAll(line, "</pre>", "```")

		if m := indentedPattern.FindStringSubmatch(line); m != nil {
			if !inRun {
				out = append(out, "```")
				inRun = true
			}
			out = append(out, m[1])
			continue
		}
		if inRun {
			out = append(out, "```")
			inRun = false
		}
		out = append(out, line)
	}
	if inRun {
		out = append(out, "```")
	}
	return out
}

// Step 5: headings. The star family carries the +1 level offset that
// reserves H1 for the page title; the bang family is the legacy corpus
// convention where three sigils mark the title itself.
var headingRules = []rewriteRule{
	{regexp.MustCompile(`^\*\s*([^\s*].+)$`), "## $1"},
	{regexp.MustCompile(`^\*\*\s*([^\s*].+)$`), "### $1"},
	{regexp.MustCompile(`^\*\*\*\s*([^\s*].+)$`), "#### $1"},
	{regexp.MustCompile(`^!!!(.+)$`), "# $1"},
	{regexp.MustCompile(`^!!(.+)$`), "## $1"},
	{regexp.MustCompile(`^!(.+)$`), "### $1"},
}

func convertHeadings(lines []string) []string {
	return applyRules(lines, headingRules)
}

// Step 6: ":term|description" becomes a term line plus an indented
// description, preceded by a blank line.
var defListPattern = regexp.MustCompile(`^:(.+)\|(.+)$`)

func convertDefinitionLists(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if m := defListPattern.FindStringSubmatch(line); m != nil {
			out = append(out, "", strings.TrimSpace(m[1]), ":   "+strings.TrimSpace(m[2]))
			continue
		}
		out = append(out, line)
	}
	return out
}

// Step 7: unordered and ordered lists at three nesting levels. A list item
// directly following non-list content gets a separating blank line so the
// renderer starts a new list instead of continuing the paragraph.
var listRules = []rewriteRule{
	{regexp.MustCompile(`^---([^-].+)$`), "        * $1"},
	{regexp.MustCompile(`^--([^-].+)$`), "    * $1"},
	{regexp.MustCompile(`^-([^-].+)$`), "* $1"},
	{regexp.MustCompile(`^\+\+\+([^+].+)$`), "        1. $1"},
	{regexp.MustCompile(`^\+\+([^+].+)$`), "    1. $1"},
	{regexp.MustCompile(`^\+([^+].+)$`), "1. $1"},
}

func listItem(line string) (string, bool) {
	for _, r := range listRules {
		if r.pattern.MatchString(line) {
			return r.pattern.ReplaceAllString(line, r.replacement), true
		}
	}
	return "", false
}

func convertLists(lines []string) []string {
	out := make([]string, 0, len(lines))
	prevList := false
	prevBlank := false
	for _, line := range lines {
		if item, ok := listItem(line); ok {
			if !prevList && !prevBlank {
				out = append(out, "")
			}
			out = append(out, item)
			prevList = true
		} else {
			out = append(out, line)
			prevList = false
		}
		prevBlank = line == ""
	}
	return out
}

// Step 8: named anchors become inline anchor tags; remaining text on the
// line survives on its own line.
var anamePattern = regexp.MustCompile(`&aname\((.*)\);`)

func convertAnchors(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if m := anamePattern.FindStringSubmatch(line); m != nil {
			out = append(out, fmt.Sprintf("<a id=%q></a>", m[1]))
			out = append(out, anamePattern.ReplaceAllString(line, ""))
			continue
		}
		out = append(out, line)
	}
	return out
}

// Step 9: #youtube(id[,loop]) becomes an embedded player. A literal second
// argument "loop" turns on autoplay and looping.
var youtubePattern = regexp.MustCompile(`#youtube\((.*)\)`)

func convertYoutube(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		m := youtubePattern.FindStringSubmatch(line)
		if m == nil {
			out = append(out, line)
			continue
		}
		args := strings.Split(m[1], ",")
		videoID := strings.TrimSpace(args[0])
		loop := ""
		if len(args) == 2 && args[1] == "loop" {
			loop = "autoplay=1&loop=1&"
		}
		out = append(out,
			"",
			fmt.Sprintf(`<iframe width="425" height="350" src="https://www.youtube.com/embed/%s?mute=1&%scontrols=1&rel=0&playlist=%s"`, videoID, loop, videoID),
			`        title="YouTube video player"`,
			`        frameborder="0"`,
			`        allow="autoplay; encrypted-media"`,
			`        allowfullscreen>`,
			`</iframe>`,
			"",
		)
	}
	return out
}

// Step 10: a trailing "~" is PukiWiki's forced line break.
var lineBreakPattern = regexp.MustCompile(`^(.+)~$`)

func convertLineBreaks(lines []string) []string {
	return applyRules(lines, []rewriteRule{{lineBreakPattern, "$1<br/>"}})
}

// Step 11: inline emphasis, last so its sigils cannot disturb the
// structural rules above. Triple quotes must run before double quotes; the
// bold rule would otherwise eat the first two quotes of an italic span.
var emphasisRules = []rewriteRule{
	{regexp.MustCompile(`'''(.+?)'''`), "*$1*"},
	{regexp.MustCompile(`''(.+?)''`), "**$1**"},
	{regexp.MustCompile(`%%(.+?)%%`), "~~$1~~"},
	{regexp.MustCompile(`__(.+?)__`), "<u>$1</u>"},
}

func convertEmphasis(lines []string) []string {
	return applyRules(lines, emphasisRules)
}

// rewriteRule is one (pattern, replacement) pair applied per physical line.
type rewriteRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// ruleFailure is the panic value applyRule raises so applyStep can report
// which (pattern, replacement) pair blew up.
type ruleFailure struct {
	pattern     string
	replacement string
	err         error
}

func applyRules(lines []string, rules []rewriteRule) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		for _, r := range rules {
			line = applyRule(r, line)
		}
		out[i] = line
	}
	return out
}

func applyRule(r rewriteRule, line string) string {
	defer func() {
		if rec := recover(); rec != nil {
			panic(&ruleFailure{
				pattern:     r.pattern.String(),
				replacement: r.replacement,
				err:         fmt.Errorf("%v", rec),
			})
		}
	}()
	return r.pattern.ReplaceAllString(line, r.replacement)
}

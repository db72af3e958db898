package convert

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rewrite(t *testing.T, content string) string {
	t.Helper()
	doc := &Document{Page: Page{Name: "p", Language: "ja"}, Content: content, SourcePath: "p.txt"}
	require.NoError(t, rewriteMarkup(doc, rootOpts()))
	return doc.Content
}

func TestHeadings(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "one star offset to level 2", in: "*Overview", want: "## Overview"},
		{name: "two stars", in: "**Usage", want: "### Usage"},
		{name: "three stars", in: "***Details", want: "#### Details"},
		{name: "star with space", in: "* Spaced heading", want: "## Spaced heading"},
		{name: "legacy double bang", in: "!!Title", want: "## Title"},
		{name: "legacy triple bang is page title", in: "!!!Hello", want: "# Hello"},
		{name: "legacy single bang", in: "!Intro", want: "### Intro"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rewrite(t, tt.in))
		})
	}
}

func TestDirectivesRemoved(t *testing.T) {
	got := rewrite(t, "#contents\nbody\n#access\ntail")
	assert.Equal(t, "body\ntail", got)
}

func TestCommentsRemoved(t *testing.T) {
	got := rewrite(t, "// note to self\nkeep this\n//another")
	assert.Equal(t, "keep this", got)
}

func TestPreTagsBecomeFences(t *testing.T) {
	got := rewrite(t, "<pre>\ncode here\n</pre>")
	assert.Equal(t, "```\ncode here\n```", got)
}

func TestIndentedRunCoalesced(t *testing.T) {
	got := rewrite(t, "before\n one\n two\n three\nafter")
	assert.Equal(t, "before\n```\none\ntwo\nthree\n```\nafter", got)
	assert.Equal(t, 2, strings.Count(got, "```"))
}

func TestIndentedRunAtEOF(t *testing.T) {
	got := rewrite(t, "before\n one\n two")
	assert.Equal(t, "before\n```\none\ntwo\n```", got)
}

func TestBlankLineSplitsIndentedRuns(t *testing.T) {
	got := rewrite(t, " a\n\n b")
	assert.Equal(t, "```\na\n```\n\n```\nb\n```", got)
}

func TestBlockquoteSpacing(t *testing.T) {
	got := rewrite(t, "text\n>quoted\n>>deeper")
	assert.Equal(t, "text\n\n>quoted\n\n>>deeper", got)
}

func TestDefinitionList(t *testing.T) {
	got := rewrite(t, ":term|description here")
	assert.Equal(t, "\nterm\n:   description here", got)
}

func TestLists(t *testing.T) {
	got := rewrite(t, "intro\n-one\n--two\n---three\n+first\n++second")
	want := "intro\n\n* one\n    * two\n        * three\n1. first\n    1. second"
	assert.Equal(t, want, got)
}

func TestListAfterBlankLineNeedsNoExtraBlank(t *testing.T) {
	got := rewrite(t, "intro\n\n-one")
	assert.Equal(t, "intro\n\n* one", got)
}

func TestAnchors(t *testing.T) {
	got := rewrite(t, "&aname(sec1);Section One")
	assert.Equal(t, "<a id=\"sec1\"></a>\nSection One", got)
}

func TestYoutubeEmbed(t *testing.T) {
	got := rewrite(t, "#youtube(abc123)")
	assert.Contains(t, got, "https://www.youtube.com/embed/abc123?mute=1&controls=1&rel=0&playlist=abc123")
	assert.Contains(t, got, "allowfullscreen")
}

func TestYoutubeEmbedLoop(t *testing.T) {
	got := rewrite(t, "#youtube(abc123,loop)")
	assert.Contains(t, got, "autoplay=1&loop=1&")
}

func TestLineBreak(t *testing.T) {
	got := rewrite(t, "first line~\nsecond")
	assert.Equal(t, "first line<br/>\nsecond", got)
}

func TestEmphasis(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bold", in: "a ''bold'' word", want: "a **bold** word"},
		{name: "italic", in: "an '''italic''' word", want: "an *italic* word"},
		{name: "strikethrough", in: "a %%gone%% word", want: "a ~~gone~~ word"},
		{name: "underline", in: "an __under__ word", want: "an <u>under</u> word"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rewrite(t, tt.in))
		})
	}
}

func TestEmphasisInsideHeading(t *testing.T) {
	// The heading rule must win first; the emphasis inside its text is
	// converted afterwards.
	got := rewrite(t, "*''Bold'' heading")
	assert.Equal(t, "## **Bold** heading", got)
}

func TestRuleOrderListNotReprocessedAsHeading(t *testing.T) {
	// Generated "* item" list markers must not be re-matched by the star
	// heading rule, which runs earlier.
	got := rewrite(t, "intro\n-item one")
	assert.Equal(t, "intro\n\n* item one", got)
}

func TestApplyStepReportsFailingRule(t *testing.T) {
	// A substitution failure inside a rule-table step must name the page,
	// the step, and the (pattern, replacement) pair that failed.
	boom := markupStep{name: "headings", fn: func([]string) []string {
		panic(&ruleFailure{
			pattern:     `^!!(.+)$`,
			replacement: "## $1",
			err:         errors.New("bad capture group"),
		})
	}}

	_, err := applyStep(boom, []string{"!!Title"}, "ja/wiki/page.txt")
	var rerr *RuleApplicationError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "ja/wiki/page.txt", rerr.PagePath)
	assert.Equal(t, "headings", rerr.Rule)
	assert.Equal(t, `^!!(.+)$`, rerr.Pattern)
	assert.Equal(t, "## $1", rerr.Replacement)
	assert.Contains(t, err.Error(), `^!!(.+)$`)
	assert.Contains(t, err.Error(), "## $1")
	assert.EqualError(t, rerr.Unwrap(), "bad capture group")
}

func TestApplyStepWrapsArbitraryPanics(t *testing.T) {
	boom := markupStep{name: "lists", fn: func([]string) []string {
		panic("index out of range")
	}}

	_, err := applyStep(boom, []string{"-item"}, "p.txt")
	var rerr *RuleApplicationError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "lists", rerr.Rule)
	assert.Equal(t, "p.txt", rerr.PagePath)
	assert.EqualError(t, rerr.Unwrap(), "index out of range")
}

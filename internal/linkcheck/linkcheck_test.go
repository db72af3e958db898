package linkcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `# Title

See [other](/Manual) and [ext](http://example.org) and [frag](#sec).

![shot](/assets/images/index/shot.png)
`

func TestExtract(t *testing.T) {
	links := Extract([]byte(sample))
	dests := make(map[LinkKind][]string)
	for _, l := range links {
		dests[l.Kind] = append(dests[l.Kind], l.Destination)
	}
	assert.Contains(t, dests[LinkKindInline], "/Manual")
	assert.Contains(t, dests[LinkKindInline], "http://example.org")
	assert.Contains(t, dests[LinkKindImage], "/assets/images/index/shot.png")
}

func TestUnresolved(t *testing.T) {
	links := Extract([]byte(sample))
	known := func(target string) bool { return target == "/Manual" }

	missing := Unresolved(links, known)
	require.Len(t, missing, 1)
	assert.Equal(t, "/assets/images/index/shot.png", missing[0])
}

func TestUnresolvedIgnoresExternalAndFragments(t *testing.T) {
	links := []Link{
		{Kind: LinkKindInline, Destination: "http://example.org/x"},
		{Kind: LinkKindInline, Destination: "#section"},
		{Kind: LinkKindInline, Destination: "relative/path"},
		{Kind: LinkKindInline, Destination: "/Page#frag"},
		{Kind: LinkKindInline, Destination: "/Page"},
	}
	missing := Unresolved(links, func(string) bool { return false })
	assert.Equal(t, []string{"/Page"}, missing)
}

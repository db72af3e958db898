package logfields

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name string
		key  string
		val  string
		attr slog.Attr
	}{
		{"Page", KeyPage, "cuemol2/Renderer", Page("cuemol2/Renderer")},
		{"Language", KeyLanguage, "ja", Language("ja")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"Source", KeySource, "a.txt", Source("a.txt")},
		{"Target", KeyTarget, "a.md", Target("a.md")},
		{"Encoding", KeyEncoding, "euc-jp", Encoding("euc-jp")},
		{"Attachment", KeyAttachment, "shot.png", Attachment("shot.png")},
		{"Rule", KeyRule, "headings", Rule("headings")},
		{"RunID", KeyRunID, "abc", RunID("abc")},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.key, c.attr.Key)
			assert.Equal(t, c.val, c.attr.Value.String())
		})
	}
}

func TestErrorAttr(t *testing.T) {
	assert.Equal(t, "", Error(nil).Value.String())
	assert.Equal(t, "boom", Error(errors.New("boom")).Value.String())
}

func TestNumericAttrs(t *testing.T) {
	count := Count(7)
	assert.Equal(t, KeyCount, count.Key)
	assert.Equal(t, int64(7), count.Value.Int64())

	dur := DurationMS(12.5)
	assert.Equal(t, KeyDurationMS, dur.Key)
	assert.Equal(t, 12.5, dur.Value.Float64())
}

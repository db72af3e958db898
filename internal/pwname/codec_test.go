package pwname

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		hex  string
		want string
	}{
		{name: "ascii page name", hex: "46726F6E7450616765", want: "FrontPage"},
		{name: "ascii with slash keeps separator", hex: "612F62", want: "a/b"},
		{name: "euc-jp kanji", hex: "C9BDBBE6", want: "表紙"},
		{name: "utf-8 hiragana", hex: "E38182", want: "あ"},
		{name: "unsafe characters replaced", hex: "613A622A63", want: "a_b_c"},
		{name: "lowercase hex accepted", hex: "6162", want: "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.hex)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeMalformedHex(t *testing.T) {
	for _, hex := range []string{"ABC", "ZZ", "4X"} {
		_, err := Decode(hex)
		var decErr *DecodeError
		require.ErrorAs(t, err, &decErr, "input %q", hex)
		assert.Equal(t, hex, decErr.Input)
	}
}

func TestDecodeUnresolvedEncoding(t *testing.T) {
	// 0xFF is not a valid lead byte in EUC-JP or UTF-8.
	_, err := Decode("FFFF")
	assert.ErrorIs(t, err, ErrUnresolvedEncoding)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, name := range []string{"FrontPage", "cuemol2/TubeRenderer", "あ", "page-1.2"} {
		got, err := Decode(Encode(name))
		require.NoError(t, err)
		assert.Equal(t, name, got)
	}
}

func TestDecodeLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{
			name: "ls output",
			line: "1\t46726F6E7450616765.txt",
			want: "1\tFrontPage.txt",
		},
		{
			name: "undecodable run left intact",
			line: "FFFFFFFF.txt",
			want: "FFFFFFFF.txt",
		},
		{
			name: "no hex run",
			line: "README.md",
			want: "README.md",
		},
		{
			name: "odd length run left intact",
			line: "x ABCDE y",
			want: "x ABCDE y",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeLine(tt.line))
		})
	}
}

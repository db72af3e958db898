// Package textenc detects the text encoding of wiki source files and
// decodes them into UTF-8 strings.
//
// Detection is best-effort: a charset sniff over the first few KiB,
// biased toward the encodings a Japanese PukiWiki installation actually
// produces. Decoding never fails a page — when the detected encoding turns
// out to be wrong mid-file, invalid input is substituted instead.
package textenc

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

// sniffLen bounds how much of a file is examined during detection.
const sniffLen = 4096

// candidates are tried in order when the generic sniff is inconclusive.
var candidates = []struct {
	label string
	enc   encoding.Encoding
}{
	{"utf-8", unicode.UTF8},
	{"shift_jis", japanese.ShiftJIS},
	{"euc-jp", japanese.EUCJP},
	{"iso-2022-jp", japanese.ISO2022JP},
}

// preferred are the encoding labels accepted directly from the sniffer.
var preferred = map[string]bool{
	"utf-8":       true,
	"shift_jis":   true,
	"euc-jp":      true,
	"iso-2022-jp": true,
	"windows-31j": true,
}

// Detect returns the best-guess encoding label for the given sample.
func Detect(sample []byte) string {
	if len(sample) > sniffLen {
		sample = sample[:sniffLen]
	}

	_, label, _ := charset.DetermineEncoding(sample, "")
	if preferred[label] {
		return label
	}

	// Inconclusive sniff: try the common Japanese encodings strictly and
	// take the first one that decodes the whole sample.
	for _, c := range candidates {
		if decodesStrictly(c.enc, sample) {
			return c.label
		}
	}

	if label != "" {
		return label
	}
	return "utf-8"
}

// Decode converts data to a UTF-8 string using the named encoding. Unknown
// labels and invalid byte sequences degrade to substitution, never to a
// failed page; the returned error reports that degradation for logging.
func Decode(data []byte, label string) (string, error) {
	enc, err := lookup(label)
	if err != nil {
		return lenientUTF8(data), fmt.Errorf("unknown encoding %q, decoded leniently: %w", label, err)
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return lenientUTF8(data), fmt.Errorf("decode as %s failed, decoded leniently: %w", label, err)
	}
	return string(out), nil
}

func lookup(label string) (encoding.Encoding, error) {
	if strings.EqualFold(label, "utf-8") || strings.EqualFold(label, "utf8") {
		return unicode.UTF8, nil
	}
	return htmlindex.Get(label)
}

func decodesStrictly(enc encoding.Encoding, sample []byte) bool {
	out, err := enc.NewDecoder().Bytes(sample)
	if err != nil {
		return false
	}
	return !bytes.ContainsRune(out, utf8.RuneError)
}

// lenientUTF8 interprets data as UTF-8, substituting invalid sequences.
func lenientUTF8(data []byte) string {
	return strings.ToValidUTF8(string(data), string(utf8.RuneError))
}

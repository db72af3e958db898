// Package pwname decodes and encodes the hex-encoded file names PukiWiki
// uses for pages and attachments on disk.
//
// PukiWiki stores a page named 表紙 as E8A1A8E7B499.txt. The byte sequence
// behind the hex digits is either EUC-JP (older installations) or UTF-8;
// both are tried in that order and the first strict decode wins.
package pwname

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
)

// ErrUnresolvedEncoding indicates the hex was well-formed but none of the
// candidate encodings produced a valid decoding of the underlying bytes.
var ErrUnresolvedEncoding = fmt.Errorf("no candidate encoding decodes the name")

// DecodeError indicates malformed hex input (odd length or non-hex digits).
type DecodeError struct {
	Input string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed hex page name %q: %v", e.Input, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// unsafePathChars are substituted with "_" after decoding. Forward slash is
// deliberately absent: it separates path segments in decoded page names.
var unsafePathChars = regexp.MustCompile(`[\\:*?"<>|]+`)

// hexRun matches candidate encoded segments inside arbitrary text, e.g. in
// ls output piped through the decode command.
var hexRun = regexp.MustCompile(`[0-9A-F]{4,}`)

// Decode converts a hex-encoded PukiWiki file name into the human page name.
// The hex must consist of full byte pairs; a *DecodeError is returned
// otherwise. EUC-JP is tried before UTF-8; if neither decodes the bytes,
// ErrUnresolvedEncoding is returned.
func Decode(hexName string) (string, error) {
	raw, err := hex.DecodeString(hexName)
	if err != nil {
		return "", &DecodeError{Input: hexName, Err: err}
	}
	name, ok := tryDecode(raw)
	if !ok {
		return "", fmt.Errorf("decode %q: %w", hexName, ErrUnresolvedEncoding)
	}
	return SanitizeName(name), nil
}

// Encode is the inverse of Decode for UTF-8 names: it renders the name's
// bytes as the uppercase hex string PukiWiki would use on disk.
func Encode(name string) string {
	return strings.ToUpper(hex.EncodeToString([]byte(name)))
}

// SanitizeName replaces characters that are unsafe in output paths with a
// single underscore per run.
func SanitizeName(name string) string {
	return unsafePathChars.ReplaceAllString(name, "_")
}

// DecodeLine decodes every hex run found in a line of text in place,
// leaving undecodable runs untouched. This powers the decode command, which
// is meant to sit at the end of an "ls | ..." pipeline.
func DecodeLine(line string) string {
	return hexRun.ReplaceAllStringFunc(line, func(run string) string {
		if len(run)%2 != 0 {
			return run
		}
		raw, err := hex.DecodeString(run)
		if err != nil {
			return run
		}
		name, ok := tryDecode(raw)
		if !ok {
			return run
		}
		return name
	})
}

// tryDecode attempts the candidate byte decodings in fixed order.
func tryDecode(raw []byte) (string, bool) {
	// The x/text decoders substitute U+FFFD for invalid input instead of
	// failing, so a replacement rune in the output means the bytes were not
	// EUC-JP.
	if s, err := japanese.EUCJP.NewDecoder().Bytes(raw); err == nil && !strings.ContainsRune(string(s), utf8.RuneError) {
		return string(s), true
	}
	if utf8.Valid(raw) {
		return string(raw), true
	}
	return "", false
}

// Package logfields centralizes slog attribute construction so field names
// stay consistent across packages.
package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPage       = "page"
	KeyLanguage   = "language"
	KeyPath       = "path"
	KeySource     = "source"
	KeyTarget     = "target"
	KeyEncoding   = "encoding"
	KeyAttachment = "attachment"
	KeyRule       = "rule"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyRunID      = "run_id"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Page(name string) slog.Attr      { return slog.String(KeyPage, name) }
func Language(l string) slog.Attr     { return slog.String(KeyLanguage, l) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Source(p string) slog.Attr       { return slog.String(KeySource, p) }
func Target(p string) slog.Attr       { return slog.String(KeyTarget, p) }
func Encoding(e string) slog.Attr     { return slog.String(KeyEncoding, e) }
func Attachment(a string) slog.Attr   { return slog.String(KeyAttachment, a) }
func Rule(r string) slog.Attr         { return slog.String(KeyRule, r) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

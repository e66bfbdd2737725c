package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRow        = "row"
	KeySlug       = "slug"
	KeyDocID      = "doc_id"
	KeyStage      = "stage"
	KeyAttempt    = "attempt"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyURL        = "url"
	KeyTitle      = "title"
	KeyWordCount  = "word_count"
	KeyImages     = "images"
	KeyMethod     = "method"
	KeyRunID      = "run_id"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Row(n int) slog.Attr             { return slog.Int(KeyRow, n) }
func Slug(s string) slog.Attr         { return slog.String(KeySlug, s) }
func DocID(id string) slog.Attr       { return slog.String(KeyDocID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Attempt(n int) slog.Attr         { return slog.Int(KeyAttempt, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Title(t string) slog.Attr        { return slog.String(KeyTitle, t) }
func WordCount(n int) slog.Attr       { return slog.Int(KeyWordCount, n) }
func Images(n int) slog.Attr          { return slog.Int(KeyImages, n) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

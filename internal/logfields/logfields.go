package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPage       = "page"
	KeyFragment   = "fragment"
	KeyImage      = "image"
	KeySource     = "source"
	KeyDest       = "destination"
	KeyRule       = "rule"
	KeyOutput     = "output"
	KeyEdges      = "edges"
	KeyPath       = "path"
	KeyCount      = "count"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Page(p string) slog.Attr         { return slog.String(KeyPage, p) }
func Fragment(f string) slog.Attr     { return slog.String(KeyFragment, f) }
func Image(i string) slog.Attr        { return slog.String(KeyImage, i) }
func Source(s string) slog.Attr       { return slog.String(KeySource, s) }
func Dest(d string) slog.Attr         { return slog.String(KeyDest, d) }
func Rule(r string) slog.Attr         { return slog.String(KeyRule, r) }
func Output(o string) slog.Attr       { return slog.String(KeyOutput, o) }
func Edges(n int) slog.Attr           { return slog.Int(KeyEdges, n) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

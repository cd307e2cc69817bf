package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyPath       = "path"
	KeyInputDir   = "input_dir"
	KeyOutputDir  = "output_dir"
	KeyDurationMS = "duration_ms"
	KeyExitCode   = "exit_code"
	KeyRepo       = "repository"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func InputDir(p string) slog.Attr     { return slog.String(KeyInputDir, p) }
func OutputDir(p string) slog.Attr    { return slog.String(KeyOutputDir, p) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func ExitCode(code int) slog.Attr     { return slog.Int(KeyExitCode, code) }
func Repository(url string) slog.Attr { return slog.String(KeyRepo, url) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

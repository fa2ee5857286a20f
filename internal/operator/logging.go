package operator

import (
	"io"
	"log/slog"
)

// Validation failures produce both an error return and a diagnostic log
// entry. The default logger discards; callers that want the diagnostics
// route them to their own handler.
var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// SetLogger installs the logger used for operator diagnostics.
// Not safe to call concurrently with operator use.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

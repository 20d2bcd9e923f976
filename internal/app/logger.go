package app

import (
	"fmt"
	"io"
	"log/slog"
)

// buildLogger creates an isolated slog.Logger for one App instance. It never
// touches the global logger. Unknown levels and formats are errors here
// rather than silent fallbacks; the CLI validates user input before this
// runs, so a bad value is a wiring mistake.
func buildLogger(level, format string, outW io.Writer) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("unknown log level %q: %w", level, err)
	}

	opts := &slog.HandlerOptions{Level: l}
	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(outW, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(outW, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (want \"text\" or \"json\")", format)
	}
}

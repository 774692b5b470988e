package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogMode selects handler format, destination and level.
type LogMode uint8

const (
	ModeDev LogMode = iota
	ModeProd
	ModeSilence
)

func (m LogMode) String() string {
	switch m {
	case ModeDev:
		return "dev"
	case ModeProd:
		return "prod"
	case ModeSilence:
		return "silent"
	default:
		return fmt.Sprintf("LogMode(%d)", uint8(m))
	}
}

// ParseMode accepts "dev", "prod" or "silent".
func ParseMode(s string) (LogMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dev":
		return ModeDev, nil
	case "prod":
		return ModeProd, nil
	case "silent", "silence":
		return ModeSilence, nil
	default:
		return ModeDev, fmt.Errorf("unknown log mode %q (want dev, prod or silent)", s)
	}
}

// NewDefaultLogger builds a logger with the mode's default destination:
// stderr for dev, stdout for prod.
func NewDefaultLogger(mode LogMode) *slog.Logger {
	w := io.Writer(os.Stderr)
	if mode == ModeProd {
		w = os.Stdout
	}
	return New(mode, w)
}

// New builds a logger for mode writing to w.
func New(mode LogMode, w io.Writer) *slog.Logger {
	return slog.New(buildHandler(mode, w))
}

func buildHandler(mode LogMode, w io.Writer) slog.Handler {
	switch mode {
	case ModeProd:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	case ModeSilence:
		return slog.DiscardHandler
	default:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}

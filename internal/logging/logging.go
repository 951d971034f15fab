package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// New builds the root logger. An unknown level falls back to info.
func New(level string, w io.Writer) hclog.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		lvl = hclog.Info
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "animaciones",
		Level:  lvl,
		Output: w,
	})
}

// Discard returns a logger that drops everything, for terminal UIs that own stdout.
func Discard() hclog.Logger {
	return hclog.NewNullLogger()
}

package main

import (
	"io"
	"log/slog"

	"github.com/lmittmann/tint"
)

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05",
		}),
	)
}

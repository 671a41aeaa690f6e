package logging

import (
	"log/slog"
	"os"
)

// Setup installs the process-wide JSON logger. Under the postgres storage
// driver, main later replaces it with a MultiHandler that adds the error
// sink on top of this stdout handler.
func Setup() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

package ui

import (
	"io"

	"github.com/charmbracelet/log"
)

// InitLogger builds the Charm logger shared by the client and the screens.
// Verbose mode adds timestamps, callers and debug output.
func InitLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "pagao",
		ReportCaller:    verbose,
		ReportTimestamp: verbose,
	})

	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}

	return logger
}

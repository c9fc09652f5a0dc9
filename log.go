package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// setupLog discards log output unless VOXCLONE_LOGFILE is set, in which
// case debug logging goes to that file.
func setupLog() (func() error, error) {
	log.SetOutput(io.Discard)
	if logFile := os.Getenv("VOXCLONE_LOGFILE"); logFile != "" {
		f, err := tea.LogToFile(logFile, "voxclone")
		if err != nil {
			return nil, fmt.Errorf("error setting up logging: %w", err)
		}
		log.SetOutput(f)
		log.SetLevel(log.DebugLevel)
		return f.Close, nil
	}
	return func() error { return nil }, nil
}

package seed

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/extrack/pkg/logger"
)

// SetupLogging initializes the global logger and, when logFile is set,
// mirrors its output into that file. The returned closer releases the file.
func SetupLogging(logFile string, verbose bool) (io.Closer, error) {
	if err := logger.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	if logFile == "" {
		return io.NopCloser(nil), nil
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	logger.SetOutput(io.MultiWriter(os.Stdout, file))
	return file, nil
}

// ShowHelp prints usage information for the seed tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Exercise Tracker Seed Tool
==========================

Creates users against a running server, logs exercises for them
concurrently and verifies the log endpoint (count, date window, limit).

Usage:
  go run ./cmd/seed [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:3000")
  -users int
        Number of users to create (default 10)
  -exercises int
        Exercises logged per user (default 20)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -start string
        First date of the exercise window, YYYY-MM-DD (default 2024-01-01)
  -days int
        Length of the exercise window in days (default 30)
  -timeout duration
        HTTP request timeout (default 10s)
  -output string
        Write the seeded users and exercises to this JSON file
  -log string
        Also write log output to this file
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  go run ./cmd/seed -users 50 -exercises 100 -workers 16
  go run ./cmd/seed -url http://localhost:8080 -start 2024-03-01 -days 14
`)
}

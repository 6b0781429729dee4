// Package debug is flx's diagnostic log. Output is off unless the binary
// was built with EnableDebug=true or DEBUG=1 is set, and goes to a writer
// chosen by the CLI: a file under the temp dir, or stderr.
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EnableDebug turns logging on at build time:
// go build -ldflags "-X github.com/standardbeagle/flx/internal/debug.EnableDebug=true"
var EnableDebug = "false"

// QuietMode suppresses all output, including Fatal (set by --quiet).
var QuietMode = false

// Component tags a log line with the subsystem that wrote it.
type Component string

const (
	Index  Component = "INDEX"
	Query  Component = "QUERY"
	Config Component = "CONFIG"
	Watch  Component = "WATCH"
)

var (
	mu      sync.Mutex
	out     io.Writer // nil means discard
	logFile *os.File
)

func SetQuietMode(enabled bool) {
	QuietMode = enabled
}

// SetDebugOutput directs log lines to w. nil discards them.
func SetDebugOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// InitDebugLogFile opens a fresh flx-debug-logs/debug-<time>.log under the
// temp dir and logs to it. Close it with CloseDebugLog.
func InitDebugLogFile() (string, error) {
	dir := filepath.Join(os.TempDir(), "flx-debug-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create debug log directory: %w", err)
	}
	path := filepath.Join(dir, "debug-"+time.Now().Format("2006-01-02T150405")+".log")

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create debug log file: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	logFile, out = f, f
	return path, nil
}

// CloseDebugLog closes the file opened by InitDebugLogFile, if any.
func CloseDebugLog() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile, out = nil, nil
	return err
}

// IsDebugEnabled reports whether Log writes anything. Quiet mode wins over
// both switches.
func IsDebugEnabled() bool {
	if QuietMode {
		return false
	}
	if EnableDebug == "true" {
		return true
	}
	v := os.Getenv("DEBUG")
	return v == "1" || v == "true"
}

func write(prefix, format string, args []interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if out == nil {
		return
	}
	fmt.Fprintf(out, prefix+format, args...)
}

// Log writes one line tagged with c.
func Log(c Component, format string, args ...interface{}) {
	if !IsDebugEnabled() {
		return
	}
	write("[DEBUG:"+string(c)+"] ", format, args)
}

// LogIndex logs line and corpus construction.
func LogIndex(format string, args ...interface{}) { Log(Index, format, args...) }

// LogQuery logs corpus queries and cache hits.
func LogQuery(format string, args ...interface{}) { Log(Query, format, args...) }

// LogConfig logs configuration loading.
func LogConfig(format string, args ...interface{}) { Log(Config, format, args...) }

// LogWatch logs file watching in the CLI.
func LogWatch(format string, args ...interface{}) { Log(Watch, format, args...) }

// Fatal records msg in the debug log, even when debug mode is off, and
// returns it as an error. Callers decide whether to exit.
func Fatal(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if !QuietMode {
		write("[FATAL] ", "%s\n", []interface{}{msg})
	}
	return fmt.Errorf("fatal error: %s", msg)
}

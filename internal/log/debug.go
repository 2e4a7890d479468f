// Package log provides the debug log sink for lazytree. The TUI owns the
// terminal, so nothing is ever written to stdout or stderr; messages are
// buffered in memory until a file sink is configured, then flushed there.
package log

import (
	"log"
	"os"
	"sync"
)

// debugWriter buffers until SetFile points it at a file, then appends
// directly. It implements io.Writer for the standard logger.
type debugWriter struct {
	mu      sync.Mutex
	file    *os.File
	buffer  []byte
	discard bool
}

var (
	writer = &debugWriter{}
	// stdLogger adds timestamps with microsecond precision on top of the sink.
	stdLogger = log.New(writer, "", log.LstdFlags|log.Lmicroseconds)
)

func (w *debugWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.discard {
		return len(p), nil
	}

	if w.file != nil {
		n, err := w.file.Write(p)
		// Sync so a crash doesn't lose the tail. Sync errors are not worth
		// failing a log write over.
		_ = w.file.Sync()
		return n, err
	}

	// The caller may reuse p, so the buffered copy must be ours.
	b := make([]byte, len(p))
	copy(b, p)
	w.buffer = append(w.buffer, b...)
	return len(p), nil
}

// SetFile directs debug output to the given path, creating the file if
// needed and flushing anything buffered so far. An empty path discards the
// buffer and all future messages.
func SetFile(path string) error {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	if writer.file != nil {
		_ = writer.file.Close()
		writer.file = nil
	}

	if path == "" {
		writer.discard = true
		writer.buffer = nil
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		writer.discard = true
		writer.buffer = nil
		return err
	}

	writer.file = f
	writer.discard = false

	if len(writer.buffer) > 0 {
		_, _ = f.Write(writer.buffer)
		_ = f.Sync()
		writer.buffer = nil
	}

	return nil
}

// Printf writes a formatted debug message.
func Printf(format string, args ...any) {
	stdLogger.Printf(format, args...)
}

// Println writes a debug message.
func Println(v ...any) {
	stdLogger.Println(v...)
}

// Close closes the sink file if one is open.
func Close() error {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	if writer.file == nil {
		return nil
	}

	err := writer.file.Close()
	writer.file = nil
	return err
}

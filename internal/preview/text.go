package preview

import (
	"os"
	"strings"
)

// loadText renders up to maxLines lines of a text file. LineCount keeps the
// full total so the pane can show how much was cut.
func loadText(path string, maxLines int) *Content {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Content{Kind: KindError, Err: err.Error()}
	}

	text := string(data)
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		// A trailing newline is a terminator, not an extra line.
		lines = lines[:len(lines)-1]
	}
	total := countLines(text)
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	return &Content{
		Kind:      KindText,
		Lines:     lines,
		LineCount: total,
		Size:      int64(len(data)),
		Extension: pathExtension(path),
		Meta:      readMeta(path),
	}
}

// countLines matches wc -l plus a final unterminated line.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}

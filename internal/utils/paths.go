// Package utils holds small helpers shared across lazytree packages.
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Permissions used when lazytree creates its own directories and files.
const (
	DefaultDirPerms  = 0o750
	DefaultFilePerms = 0o600
)

// ExpandPath resolves a leading ~ against the user's home directory and
// makes the result absolute.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding %q: %w", path, err)
		}
		if path == "~" {
			path = home
		} else {
			path = filepath.Join(home, path[2:])
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("expanding %q: %w", path, err)
	}
	return abs, nil
}

// ConfigDir returns the lazytree configuration directory, honoring
// XDG_CONFIG_HOME.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "lazytree")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".lazytree")
	}
	return filepath.Join(home, ".config", "lazytree")
}

// FormatSize renders a byte count as a short human-readable string.
func FormatSize(size int64) string {
	const (
		kb = 1024
		mb = kb * 1024
		gb = mb * 1024
	)
	switch {
	case size < kb:
		return fmt.Sprintf("%d B", size)
	case size < mb:
		return fmt.Sprintf("%.1f KB", float64(size)/kb)
	case size < gb:
		return fmt.Sprintf("%.1f MB", float64(size)/mb)
	default:
		return fmt.Sprintf("%.2f GB", float64(size)/gb)
	}
}

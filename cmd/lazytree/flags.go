// Package main provides CLI flag definitions for lazytree.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/chmouel/lazytree/internal/theme"
	urfavecli "github.com/urfave/cli/v2"
)

// globalFlags returns all global flags for the application.
// Note: --version is provided automatically by urfave/cli via App.Version
func globalFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:  "debug-log",
			Usage: "Path to debug log file",
		},
		&urfavecli.StringFlag{
			Name:  "output-selection",
			Usage: "Write the directory selected on exit to a file",
		},
		&urfavecli.StringFlag{
			Name:    "theme",
			Aliases: []string{"t"},
			Usage:   "Override the UI theme",
		},
		&urfavecli.BoolFlag{
			Name:    "show-hidden",
			Aliases: []string{"a"},
			Usage:   "Start with hidden files visible",
		},
		&urfavecli.BoolFlag{
			Name:  "show-themes",
			Usage: "List available UI themes",
		},
		&urfavecli.StringFlag{
			Name:  "config-file",
			Usage: "Path to configuration file",
		},
		&urfavecli.StringSliceFlag{
			Name:    "config",
			Aliases: []string{"C"},
			Usage:   "Override config values (repeatable): --config=lt.key=value",
		},
	}
}

// completeGlobalFlags provides completion for subcommand names and
// --config key=value arguments.
func completeGlobalFlags(c *urfavecli.Context) {
	// The word being completed precedes the completion sentinel flag.
	args := os.Args
	var cur string
	if len(args) >= 2 {
		cur = args[len(args)-2]
	}

	if strings.HasPrefix(cur, "lt.") {
		key := strings.TrimPrefix(cur, "lt.")
		if i := strings.IndexByte(key, '='); i >= 0 {
			for _, value := range suggestConfigValues(key[:i]) {
				fmt.Println(value)
			}
			return
		}
		for _, suggestion := range suggestConfigKeys(key) {
			fmt.Println(suggestion)
		}
		return
	}

	// Complete subcommands if no args yet
	if c.NArg() == 0 {
		for _, cmd := range c.App.Commands {
			fmt.Println(cmd.Name)
		}
	}
}

// suggestConfigKeys returns config key suggestions matching the prefix,
// in the format "lt.key=".
func suggestConfigKeys(prefix string) []string {
	allKeys := []string{
		"theme", "show_hidden", "show_icons", "editor", "debug_log",
		"tree_ratio", "preview_debounce_ms", "preview_cache_size",
		"max_preview_bytes", "max_preview_lines", "max_hex_bytes",
		"commit_count", "watch", "favorites_file",
	}

	var matches []string
	for _, key := range allKeys {
		if prefix == "" || strings.HasPrefix(key, prefix) {
			matches = append(matches, "lt."+key+"=")
		}
	}
	return matches
}

// suggestConfigValues returns value suggestions for a given config key.
func suggestConfigValues(key string) []string {
	switch key {
	case "theme":
		return theme.AvailableThemes()
	case "show_hidden", "show_icons", "watch":
		return []string{"true", "false"}
	default:
		return nil
	}
}

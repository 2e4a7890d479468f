// Package main is the entry point for the lazytree application.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chmouel/lazytree/internal/app"
	"github.com/chmouel/lazytree/internal/buildinfo"
	"github.com/chmouel/lazytree/internal/config"
	"github.com/chmouel/lazytree/internal/log"
	"github.com/chmouel/lazytree/internal/theme"
	"github.com/chmouel/lazytree/internal/utils"
	urfavecli "github.com/urfave/cli/v2"
	"golang.org/x/term"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	buildinfo.Set(version, commit, date, builtBy)
	urfavecli.VersionPrinter = func(*urfavecli.Context) {
		printVersion()
	}

	cliApp := &urfavecli.App{
		Name:                 "lazytree",
		Usage:                "A TUI file explorer with git status and previews",
		ArgsUsage:            "[path]",
		Version:              version,
		EnableBashCompletion: true,

		Flags: globalFlags(),

		Commands: []*urfavecli.Command{
			listCommand(),
			statusCommand(),
			completionCommand(),
		},

		Before: func(c *urfavecli.Context) error {
			// Handle early exit flags
			// Note: --version is handled automatically by urfave/cli
			if c.Bool("show-themes") {
				printThemes()
				os.Exit(0)
			}
			return nil
		},

		Action: runTUI,

		BashComplete: completeGlobalFlags,
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// runTUI is the default action that launches the TUI when no subcommand is given.
func runTUI(c *urfavecli.Context) error {
	// Set up debug logging before loading config
	if debugLog := c.String("debug-log"); debugLog != "" {
		expanded, err := utils.ExpandPath(debugLog)
		if err == nil {
			if err := log.SetFile(expanded); err != nil {
				fmt.Fprintf(os.Stderr, "Error opening debug log file %q: %v\n", expanded, err)
			}
		} else {
			if err := log.SetFile(debugLog); err != nil {
				fmt.Fprintf(os.Stderr, "Error opening debug log file %q: %v\n", debugLog, err)
			}
		}
	}

	// Load config
	cfg, err := config.LoadConfig(c.String("config-file"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	// If debug log wasn't set via flag, check if it's in the config
	if c.String("debug-log") == "" {
		if cfg.DebugLog != "" {
			expanded, err := utils.ExpandPath(cfg.DebugLog)
			path := cfg.DebugLog
			if err == nil {
				path = expanded
			}
			if err := log.SetFile(path); err != nil {
				fmt.Fprintf(os.Stderr, "Error opening debug log file from config %q: %v\n", path, err)
			}
		} else {
			// No debug log configured, discard any buffered logs
			_ = log.SetFile("")
		}
	}

	// Apply theme configuration
	if err := applyThemeConfig(cfg, c.String("theme")); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		_ = log.Close()
		return err
	}

	// Apply show-hidden flag
	if c.Bool("show-hidden") {
		cfg.ShowHidden = true
	}

	// Update debug log in config if set via flag
	if debugLog := c.String("debug-log"); debugLog != "" {
		expanded, err := utils.ExpandPath(debugLog)
		if err == nil {
			cfg.DebugLog = expanded
		} else {
			cfg.DebugLog = debugLog
		}
	}

	startDir, err := resolveStartDir(c)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		_ = log.Close()
		return err
	}

	// Overlay lt.* git config for the start directory's repository
	cfg.MergeGitConfig(startDir)

	// Apply CLI config overrides (highest precedence)
	if configOverrides := c.StringSlice("config"); len(configOverrides) > 0 {
		if err := cfg.ApplyCLIOverrides(configOverrides); err != nil {
			fmt.Fprintf(os.Stderr, "Error applying config overrides: %v\n", err)
			_ = log.Close()
			return err
		}
	}

	// The full-screen UI needs a terminal; point scripts at the subcommands
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		_ = log.Close()
		return fmt.Errorf("stdout is not a terminal (use 'lazytree list' for non-interactive output)")
	}

	// Launch TUI
	model, err := app.New(cfg, startDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", startDir, err)
		_ = log.Close()
		return err
	}
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	_, err = p.Run()
	model.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		_ = log.Close()
		return err
	}

	// Handle output-selection flag
	selectedPath := model.GetSelectedPath()
	if outputSelection := c.String("output-selection"); outputSelection != "" {
		expanded, err := utils.ExpandPath(outputSelection)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error expanding output-selection: %v\n", err)
			_ = log.Close()
			return err
		}
		if err := os.MkdirAll(filepath.Dir(expanded), utils.DefaultDirPerms); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output-selection dir: %v\n", err)
			_ = log.Close()
			return err
		}
		data := ""
		if selectedPath != "" {
			data = selectedPath + "\n"
		}
		if err := os.WriteFile(expanded, []byte(data), utils.DefaultFilePerms); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output-selection: %v\n", err)
			_ = log.Close()
			return err
		}
		_ = log.Close()
		return nil
	}

	// Print selected path if any
	if selectedPath != "" {
		fmt.Println(selectedPath)
	}

	if err := log.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing debug log: %v\n", err)
	}

	return nil
}

// resolveStartDir picks the directory to explore from the positional
// argument, defaulting to the current directory.
func resolveStartDir(c *urfavecli.Context) (string, error) {
	startDir := "."
	if c.Args().Len() > 0 {
		startDir = c.Args().First()
	}
	expanded, err := utils.ExpandPath(startDir)
	if err != nil {
		return "", fmt.Errorf("error expanding path: %w", err)
	}
	return expanded, nil
}

// printThemes prints available UI themes.
func printThemes() {
	names := theme.AvailableThemes()
	sort.Strings(names)
	fmt.Println("Available themes:")
	for _, name := range names {
		fmt.Printf("  %s\n", name)
	}
}

// printVersion prints version information.
func printVersion() {
	buildinfo.Enrich()
	fmt.Printf("lazytree version %s\ncommit: %s\nbuilt at: %s\nbuilt by: %s\n",
		buildinfo.Version(), buildinfo.Commit(), buildinfo.Date(), buildinfo.BuiltBy())
}

// applyThemeConfig applies theme configuration from command line flag.
func applyThemeConfig(cfg *config.AppConfig, themeName string) error {
	if themeName == "" {
		return nil
	}

	normalized := config.NormalizeThemeName(themeName)
	if normalized == "" {
		return fmt.Errorf("unknown theme %q", themeName)
	}

	cfg.Theme = normalized
	return nil
}

// Package main provides CLI command definitions for lazytree.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/chmouel/lazytree/internal/config"
	"github.com/chmouel/lazytree/internal/git"
	"github.com/chmouel/lazytree/internal/log"
	"github.com/chmouel/lazytree/internal/models"
	"github.com/chmouel/lazytree/internal/tree"
	"github.com/chmouel/lazytree/internal/utils"
	urfavecli "github.com/urfave/cli/v2"
)

// loadCLIConfig loads configuration for CLI subcommands with the same
// precedence as the TUI: file, git config, then --config overrides.
func loadCLIConfig(configFileFlag string, configOverrides []string, repoPath string) (*config.AppConfig, error) {
	cfg, err := config.LoadConfig(configFileFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	cfg.MergeGitConfig(repoPath)

	if len(configOverrides) > 0 {
		if err := cfg.ApplyCLIOverrides(configOverrides); err != nil {
			return nil, fmt.Errorf("error applying config overrides: %w", err)
		}
	}

	return cfg, nil
}

// newCLIGitService creates a git service configured for CLI mode.
func newCLIGitService() *git.Service {
	return git.NewService(cliNotify, cliNotifyOnce)
}

// cliNotify is a notification callback for git operations in CLI mode.
func cliNotify(message, severity string) {
	if severity == "error" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		return
	}
	fmt.Fprintf(os.Stderr, "%s\n", message)
}

// cliNotifyOnce is a notification callback for git operations that should only fire once.
func cliNotifyOnce(_, message, severity string) {
	cliNotify(message, severity)
}

// openCLIStore roots a tree store at dir the same way the TUI does.
func openCLIStore(c *urfavecli.Context, cfg *config.AppConfig, dir string) (*tree.Store, error) {
	if fi, err := os.Stat(dir); err != nil {
		return nil, err
	} else if !fi.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	showHidden := cfg.ShowHidden || c.Bool("show-hidden")
	store := tree.NewStore(newCLIGitService(), showHidden)
	store.Open(c.Context, dir)
	return store, nil
}

func listCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List the top level of a directory",
		ArgsUsage: "[path]",
		Flags: []urfavecli.Flag{
			&urfavecli.BoolFlag{
				Name:    "pristine",
				Aliases: []string{"p"},
				Usage:   "Output paths only (one per line, suitable for scripting)",
			},
			&urfavecli.BoolFlag{
				Name:  "json",
				Usage: "Output as JSON",
			},
		},
		Action: handleListAction,
	}
}

func validateListFlags(c *urfavecli.Context) error {
	if c.Bool("pristine") && c.Bool("json") {
		return fmt.Errorf("--pristine and --json are mutually exclusive")
	}
	return nil
}

// entryJSON represents the JSON output format for a directory entry.
type entryJSON struct {
	Path          string `json:"path"`
	Name          string `json:"name"`
	IsDir         bool   `json:"is_dir"`
	Size          int64  `json:"size"`
	Status        string `json:"status,omitempty"`
	Ignored       bool   `json:"ignored,omitempty"`
	SymlinkTarget string `json:"symlink_target,omitempty"`
}

// handleListAction handles the list subcommand action.
func handleListAction(c *urfavecli.Context) error {
	defer func() {
		_ = log.Close()
	}()
	if err := validateListFlags(c); err != nil {
		return err
	}

	dir, err := resolveStartDir(c)
	if err != nil {
		return err
	}

	cfg, err := loadCLIConfig(c.String("config-file"), c.StringSlice("config"), dir)
	if err != nil {
		return err
	}

	store, err := openCLIStore(c, cfg, dir)
	if err != nil {
		return err
	}
	entries := store.Entries()

	if c.Bool("json") {
		return outputListJSON(entries)
	}

	if c.Bool("pristine") {
		// Simple path output for scripting
		for _, e := range entries {
			fmt.Println(e.Path)
		}
		return nil
	}

	// Default: verbose table output
	return outputListVerbose(entries)
}

// outputListJSON outputs directory entries as JSON.
func outputListJSON(entries []*models.Entry) error {
	output := make([]entryJSON, 0, len(entries))
	for _, e := range entries {
		output = append(output, entryJSON{
			Path:          e.Path,
			Name:          e.Name,
			IsDir:         e.IsDir,
			Size:          e.Size,
			Status:        statusString(e.Status),
			Ignored:       e.Ignored,
			SymlinkTarget: e.SymlinkTarget,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output); err != nil {
		return err
	}

	return nil
}

// outputListVerbose outputs directory entries in a formatted table.
func outputListVerbose(entries []*models.Entry) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tSTATUS")

	for _, e := range entries {
		name := e.Name
		if e.IsDir {
			name += "/"
		}
		size := "-"
		if !e.IsDir {
			size = utils.FormatSize(e.Size)
		}
		status := statusString(e.Status)
		if status == "" {
			status = "✓"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, size, status)
	}

	if err := w.Flush(); err != nil {
		return err
	}

	return nil
}

// statusString creates a compact status indicator for an entry, staged
// side first. Empty when the entry is clean.
func statusString(st models.FileStatus) string {
	if st.IsClean() {
		return ""
	}

	var parts []string
	if st.Staged != models.StatusNone {
		parts = append(parts, string(st.Staged.Rune()))
	}
	if st.Unstaged != models.StatusNone {
		parts = append(parts, string(st.Unstaged.Rune()))
	}

	return strings.Join(parts, "")
}

func statusCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "status",
		Usage:     "Show the repository summary for a directory",
		ArgsUsage: "[path]",
		Flags: []urfavecli.Flag{
			&urfavecli.BoolFlag{
				Name:  "json",
				Usage: "Output as JSON",
			},
		},
		Action: handleStatusAction,
	}
}

// repoJSON represents the JSON output format for a repository summary.
type repoJSON struct {
	Branch    string `json:"branch"`
	Ahead     int    `json:"ahead"`
	Behind    int    `json:"behind"`
	Staged    int    `json:"staged"`
	Modified  int    `json:"modified"`
	Untracked int    `json:"untracked"`
}

// handleStatusAction handles the status subcommand action.
func handleStatusAction(c *urfavecli.Context) error {
	defer func() {
		_ = log.Close()
	}()

	dir, err := resolveStartDir(c)
	if err != nil {
		return err
	}

	cfg, err := loadCLIConfig(c.String("config-file"), c.StringSlice("config"), dir)
	if err != nil {
		return err
	}

	store, err := openCLIStore(c, cfg, dir)
	if err != nil {
		return err
	}
	info := store.Info()

	if c.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(repoJSON{
			Branch:    info.Branch,
			Ahead:     info.Ahead,
			Behind:    info.Behind,
			Staged:    info.StagedCount,
			Modified:  info.ModifiedCount,
			Untracked: info.UntrackedCount,
		})
	}

	if !info.HasRepo() {
		fmt.Println("not a git repository")
		return nil
	}

	fmt.Println(buildSummaryLine(info))
	return nil
}

// buildSummaryLine formats a repository summary the way the status bar
// shows it: branch, change counts, then ahead/behind.
func buildSummaryLine(info models.RepoInfo) string {
	var parts []string

	if info.Branch != "" {
		parts = append(parts, info.Branch)
	}
	if info.StagedCount > 0 || info.ModifiedCount > 0 || info.UntrackedCount > 0 {
		parts = append(parts, fmt.Sprintf("+%d ~%d ?%d", info.StagedCount, info.ModifiedCount, info.UntrackedCount))
	}
	if info.Branch != "" && (info.Ahead > 0 || info.Behind > 0) {
		parts = append(parts, fmt.Sprintf("↑%d↓%d", info.Ahead, info.Behind))
	}

	return strings.Join(parts, "  ")
}

// Package config loads application configuration from YAML, git config,
// and command-line overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chmouel/lazytree/internal/theme"
	"github.com/chmouel/lazytree/internal/utils"
	"gopkg.in/yaml.v3"
)

// AppConfig defines the global lazytree configuration options.
type AppConfig struct {
	Theme             string
	ShowHidden        bool
	ShowIcons         bool
	Editor            string // Editor command; empty falls back to $EDITOR, then vi.
	DebugLog          string
	TreeRatio         int // Tree pane width in percent, clamped to 15..60.
	PreviewDebounceMs int
	PreviewCacheSize  int
	MaxPreviewBytes   int
	MaxPreviewLines   int
	MaxHexBytes       int
	CommitCount       int
	Watch             bool
	FavoritesFile     string
}

// DefaultConfig returns the default configuration values.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Theme:             "",
		ShowHidden:        false,
		ShowIcons:         true,
		TreeRatio:         30,
		PreviewDebounceMs: 80,
		PreviewCacheSize:  10,
		MaxPreviewBytes:   1 << 20,
		MaxPreviewLines:   1000,
		MaxHexBytes:       4096,
		CommitCount:       5,
		Watch:             true,
	}
}

// ResolveEditor returns the editor command, falling back to $EDITOR and
// then vi.
func (c *AppConfig) ResolveEditor() string {
	if c.Editor != "" {
		return c.Editor
	}
	if env := os.Getenv("EDITOR"); env != "" {
		return env
	}
	return "vi"
}

// FavoritesPath returns the file used to persist favorite paths.
func (c *AppConfig) FavoritesPath() string {
	if c.FavoritesFile != "" {
		if expanded, err := utils.ExpandPath(c.FavoritesFile); err == nil {
			return expanded
		}
		return c.FavoritesFile
	}
	return filepath.Join(utils.ConfigDir(), "favorites")
}

func coerceBool(value any, defaultVal bool) bool {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case string:
		text := strings.ToLower(strings.TrimSpace(v))
		switch text {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return defaultVal
}

func coerceInt(value any, defaultVal int) int {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return defaultVal
	case int:
		return v
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return defaultVal
		}
		if i, err := strconv.Atoi(text); err == nil {
			return i
		}
	}
	return defaultVal
}

func coerceString(value any, defaultVal string) string {
	if value == nil {
		return defaultVal
	}
	if v, ok := value.(string); ok {
		if text := strings.TrimSpace(v); text != "" {
			return text
		}
	}
	return defaultVal
}

func clampTreeRatio(ratio int) int {
	if ratio < 15 {
		return 15
	}
	if ratio > 60 {
		return 60
	}
	return ratio
}

// applyMap overlays config keys from data onto c. Keys that are absent,
// unknown, or fail coercion leave the current value in place.
func (c *AppConfig) applyMap(data map[string]any) {
	if name := coerceString(data["theme"], ""); name != "" {
		if normalized := NormalizeThemeName(name); normalized != "" {
			c.Theme = normalized
		}
	}
	c.ShowHidden = coerceBool(data["show_hidden"], c.ShowHidden)
	c.ShowIcons = coerceBool(data["show_icons"], c.ShowIcons)
	c.Editor = coerceString(data["editor"], c.Editor)
	c.DebugLog = coerceString(data["debug_log"], c.DebugLog)
	c.TreeRatio = clampTreeRatio(coerceInt(data["tree_ratio"], c.TreeRatio))
	c.PreviewDebounceMs = coerceInt(data["preview_debounce_ms"], c.PreviewDebounceMs)
	c.PreviewCacheSize = coerceInt(data["preview_cache_size"], c.PreviewCacheSize)
	c.MaxPreviewBytes = coerceInt(data["max_preview_bytes"], c.MaxPreviewBytes)
	c.MaxPreviewLines = coerceInt(data["max_preview_lines"], c.MaxPreviewLines)
	c.MaxHexBytes = coerceInt(data["max_hex_bytes"], c.MaxHexBytes)
	c.CommitCount = coerceInt(data["commit_count"], c.CommitCount)
	c.Watch = coerceBool(data["watch"], c.Watch)
	c.FavoritesFile = coerceString(data["favorites_file"], c.FavoritesFile)
}

func parseConfig(data map[string]any) *AppConfig {
	cfg := DefaultConfig()
	cfg.applyMap(data)
	return cfg
}

// LoadConfig reads the application configuration from a YAML file. When
// configPath is empty, config.yaml then config.yml under the lazytree
// config directory are tried. A missing or unreadable file yields the
// defaults.
func LoadConfig(configPath string) (*AppConfig, error) {
	configBase := filepath.Clean(utils.ConfigDir())

	var paths []string

	if configPath != "" {
		expanded, err := utils.ExpandPath(configPath)
		if err != nil {
			return DefaultConfig(), err
		}
		if !isPathWithin(configBase, expanded) {
			return DefaultConfig(), fmt.Errorf("config path must reside inside %s", configBase)
		}
		paths = []string{expanded}
	} else {
		paths = []string{
			filepath.Join(configBase, "config.yaml"),
			filepath.Join(configBase, "config.yml"),
		}
	}

	var cfg *AppConfig

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		// #nosec G304 -- path is constrained to the config directory after validation
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var yamlData map[string]any
		if err := yaml.Unmarshal(data, &yamlData); err != nil {
			return DefaultConfig(), nil
		}

		cfg = parseConfig(yamlData)
		break
	}

	if cfg == nil {
		cfg = DefaultConfig()
	}

	if cfg.Theme == "" {
		cfg.Theme = theme.Detect()
	}

	return cfg, nil
}

func isPathWithin(base, target string) bool {
	base = filepath.Clean(base)
	target = filepath.Clean(target)

	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return false
	}
	return true
}

// NormalizeThemeName returns the canonical theme name if it is supported.
func NormalizeThemeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case theme.DraculaName,
		theme.CleanLightName,
		theme.NordName,
		theme.GruvboxDarkName:
		return name
	default:
		return ""
	}
}

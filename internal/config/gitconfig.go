package config

import (
	"fmt"
	"os/exec"
	"strings"
)

// gitConfigMock allows tests to mock git config output.
var gitConfigMock func(args []string, repoPath string) (string, error)

// runGitConfig executes git config command and returns raw output.
func runGitConfig(args []string, repoPath string) (string, error) {
	if gitConfigMock != nil {
		return gitConfigMock(args, repoPath)
	}

	cmd := exec.Command("git", args...)
	if repoPath != "" {
		cmd.Dir = repoPath
	}

	output, err := cmd.Output()
	if err != nil {
		// git config returns exit code 1 when key not found (not an error)
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			return "", nil
		}
		return "", err
	}
	return string(output), nil
}

// parseGitConfigOutput parses git config output into a multi-value map.
// Input format: "lt.tree_ratio 40\nlt.show_hidden true\n"
func parseGitConfigOutput(output string) map[string][]string {
	configMap := make(map[string][]string)
	if output == "" {
		return configMap
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")

	for _, line := range lines {
		if line == "" {
			continue
		}

		// Using SplitN with 2 to handle values containing spaces
		parts := strings.SplitN(line, " ", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimPrefix(parts[0], "lt.")
		value := parts[1]

		// Git config can have multi-values for the same key
		configMap[key] = append(configMap[key], value)
	}

	return configMap
}

// flattenGitConfig converts to the format expected by applyMap. The last
// value wins for keys git reports more than once.
func flattenGitConfig(gitCfg map[string][]string) map[string]any {
	result := make(map[string]any)

	for key, values := range gitCfg {
		if len(values) == 0 {
			continue
		}
		result[key] = values[len(values)-1]
	}

	return result
}

// loadGitConfig reads lt.* git config values as a map for applyMap.
func loadGitConfig(globalOnly bool, repoPath string) (map[string]any, error) {
	args := []string{"config", "--get-regexp", "^lt\\."}

	if globalOnly {
		args = append(args, "--global")
	} else {
		args = append(args, "--local")
	}

	output, err := runGitConfig(args, repoPath)
	if err != nil {
		return nil, err
	}

	if output == "" {
		return make(map[string]any), nil
	}

	return flattenGitConfig(parseGitConfigOutput(output)), nil
}

// isInGitRepo checks if path is in a git repository.
func isInGitRepo(path string) bool {
	if path == "" {
		return false
	}
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = path
	return cmd.Run() == nil
}

// MergeGitConfig overlays lt.* keys from git config onto the
// configuration: global values first, then values local to repoPath when
// it is inside a repository. Lookup failures leave the configuration
// unchanged.
func (c *AppConfig) MergeGitConfig(repoPath string) {
	if data, err := loadGitConfig(true, ""); err == nil && len(data) > 0 {
		c.applyMap(data)
	}

	if repoPath == "" || !isInGitRepo(repoPath) {
		return
	}
	if data, err := loadGitConfig(false, repoPath); err == nil && len(data) > 0 {
		c.applyMap(data)
	}
}

// parseCLIConfigOverrides parses --config=lt.key=value pairs. The last
// value wins when a key repeats.
func parseCLIConfigOverrides(overrides []string) (map[string]any, error) {
	result := make(map[string]any)

	for _, override := range overrides {
		parts := strings.SplitN(override, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config override: %q, expected format: lt.key=value (note: use = not space)", override)
		}

		fullKey := parts[0]
		value := parts[1]

		if !strings.HasPrefix(fullKey, "lt.") {
			return nil, fmt.Errorf("config override key must start with 'lt.': %q", fullKey)
		}

		key := strings.TrimPrefix(fullKey, "lt.")
		if key == "" {
			return nil, fmt.Errorf("empty config key in override: %q", override)
		}

		result[key] = value
	}

	return result, nil
}

// ApplyCLIOverrides applies --config lt.key=value pairs on top of the
// loaded configuration.
func (c *AppConfig) ApplyCLIOverrides(overrides []string) error {
	data, err := parseCLIConfigOverrides(overrides)
	if err != nil {
		return err
	}
	c.applyMap(data)
	return nil
}

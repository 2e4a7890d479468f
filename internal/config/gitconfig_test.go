package config

import (
	"fmt"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initGitRepo creates a throwaway repository, skipping when git is not
// installed.
func initGitRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	require.NoError(t, exec.Command("git", "init", "--quiet", dir).Run())
	return dir
}

func TestParseGitConfigOutput(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		expected map[string][]string
	}{
		{
			name: "single values",
			output: `lt.tree_ratio 40
lt.show_hidden true
lt.theme dracula`,
			expected: map[string][]string{
				"tree_ratio":  {"40"},
				"show_hidden": {"true"},
				"theme":       {"dracula"},
			},
		},
		{
			name: "multi-value keys",
			output: `lt.theme nord
lt.theme gruvbox-dark
lt.tree_ratio 40`,
			expected: map[string][]string{
				"theme":      {"nord", "gruvbox-dark"},
				"tree_ratio": {"40"},
			},
		},
		{
			name: "values with spaces",
			output: `lt.editor code --wait
lt.favorites_file /path/with space/favs`,
			expected: map[string][]string{
				"editor":         {"code --wait"},
				"favorites_file": {"/path/with space/favs"},
			},
		},
		{
			name:     "empty output",
			output:   "",
			expected: map[string][]string{},
		},
		{
			name:     "whitespace only",
			output:   "   \n\n  ",
			expected: map[string][]string{},
		},
		{
			name: "mixed valid and empty lines",
			output: `lt.theme nord

lt.show_hidden true

`,
			expected: map[string][]string{
				"theme":       {"nord"},
				"show_hidden": {"true"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseGitConfigOutput(tt.output))
		})
	}
}

func TestFlattenGitConfig(t *testing.T) {
	tests := []struct {
		name     string
		input    map[string][]string
		expected map[string]any
	}{
		{
			name: "single values",
			input: map[string][]string{
				"tree_ratio": {"40"},
				"theme":      {"dracula"},
			},
			expected: map[string]any{
				"tree_ratio": "40",
				"theme":      "dracula",
			},
		},
		{
			name: "last value wins",
			input: map[string][]string{
				"theme": {"nord", "gruvbox-dark"},
			},
			expected: map[string]any{
				"theme": "gruvbox-dark",
			},
		},
		{
			name: "empty values skipped",
			input: map[string][]string{
				"tree_ratio": {},
			},
			expected: map[string]any{},
		},
		{
			name:     "empty map",
			input:    map[string][]string{},
			expected: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, flattenGitConfig(tt.input))
		})
	}
}

func TestIsInGitRepo(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		assert.False(t, isInGitRepo(""))
	})

	t.Run("plain directory", func(t *testing.T) {
		assert.False(t, isInGitRepo(t.TempDir()))
	})

	t.Run("non-existent path", func(t *testing.T) {
		assert.False(t, isInGitRepo("/non/existent/path/12345"))
	})

	t.Run("repository", func(t *testing.T) {
		repo := initGitRepo(t)
		assert.True(t, isInGitRepo(repo))
	})
}

func TestParseCLIConfigOverrides(t *testing.T) {
	tests := []struct {
		name      string
		overrides []string
		expected  map[string]any
		wantErr   bool
		errMsg    string
	}{
		{
			name:      "single override",
			overrides: []string{"lt.theme=dracula"},
			expected: map[string]any{
				"theme": "dracula",
			},
		},
		{
			name:      "multiple overrides",
			overrides: []string{"lt.theme=nord", "lt.show_hidden=true", "lt.tree_ratio=40"},
			expected: map[string]any{
				"theme":       "nord",
				"show_hidden": "true",
				"tree_ratio":  "40",
			},
		},
		{
			name:      "value with equals sign",
			overrides: []string{"lt.editor=code --goto={file}"},
			expected: map[string]any{
				"editor": "code --goto={file}",
			},
		},
		{
			name:      "repeated key keeps last value",
			overrides: []string{"lt.theme=nord", "lt.theme=dracula"},
			expected: map[string]any{
				"theme": "dracula",
			},
		},
		{
			name:      "missing equals sign",
			overrides: []string{"lt.theme"},
			wantErr:   true,
			errMsg:    "invalid config override",
		},
		{
			name:      "missing lt prefix",
			overrides: []string{"theme=dracula"},
			wantErr:   true,
			errMsg:    "config override key must start with 'lt.'",
		},
		{
			name:      "empty key",
			overrides: []string{"lt.=value"},
			wantErr:   true,
			errMsg:    "empty config key",
		},
		{
			name:      "empty value is allowed",
			overrides: []string{"lt.theme="},
			expected: map[string]any{
				"theme": "",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseCLIConfigOverrides(tt.overrides)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestApplyCLIOverrides(t *testing.T) {
	t.Run("overrides applied", func(t *testing.T) {
		cfg := DefaultConfig()
		err := cfg.ApplyCLIOverrides([]string{
			"lt.tree_ratio=50",
			"lt.show_hidden=true",
			"lt.theme=nord",
		})
		require.NoError(t, err)
		assert.Equal(t, 50, cfg.TreeRatio)
		assert.True(t, cfg.ShowHidden)
		assert.Equal(t, "nord", cfg.Theme)
	})

	t.Run("invalid override leaves config unchanged", func(t *testing.T) {
		cfg := DefaultConfig()
		err := cfg.ApplyCLIOverrides([]string{"tree_ratio=50"})
		require.Error(t, err)
		assert.Equal(t, 30, cfg.TreeRatio)
	})

	t.Run("no overrides", func(t *testing.T) {
		cfg := DefaultConfig()
		require.NoError(t, cfg.ApplyCLIOverrides(nil))
		assert.Equal(t, 30, cfg.TreeRatio)
	})
}

func TestLoadGitConfigErrorHandling(t *testing.T) {
	defer func() { gitConfigMock = nil }()

	gitConfigMock = func(args []string, repoPath string) (string, error) {
		return "", fmt.Errorf("git command failed")
	}

	result, err := loadGitConfig(true, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git command failed")
	assert.Nil(t, result)
}

func TestLoadGitConfig(t *testing.T) {
	defer func() { gitConfigMock = nil }()

	tests := []struct {
		name       string
		globalOnly bool
		repoPath   string
		mockOutput string
		expected   map[string]any
	}{
		{
			name:       "global config with values",
			globalOnly: true,
			repoPath:   "",
			mockOutput: "lt.tree_ratio 40\nlt.show_hidden true\n",
			expected: map[string]any{
				"tree_ratio":  "40",
				"show_hidden": "true",
			},
		},
		{
			name:       "local config with values",
			globalOnly: false,
			repoPath:   "/repo",
			mockOutput: "lt.theme dracula\nlt.watch false\n",
			expected: map[string]any{
				"theme": "dracula",
				"watch": "false",
			},
		},
		{
			name:       "empty output",
			globalOnly: true,
			repoPath:   "",
			mockOutput: "",
			expected:   map[string]any{},
		},
		{
			name:       "repeated key keeps last value",
			globalOnly: true,
			repoPath:   "",
			mockOutput: "lt.theme nord\nlt.theme dracula\n",
			expected: map[string]any{
				"theme": "dracula",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gitConfigMock = func(args []string, repoPath string) (string, error) {
				if tt.globalOnly {
					assert.Contains(t, args, "--global")
				} else {
					assert.Contains(t, args, "--local")
				}
				assert.Equal(t, tt.repoPath, repoPath)
				return tt.mockOutput, nil
			}

			result, err := loadGitConfig(tt.globalOnly, tt.repoPath)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestMergeGitConfig(t *testing.T) {
	defer func() { gitConfigMock = nil }()

	t.Run("global only outside a repository", func(t *testing.T) {
		gitConfigMock = func(args []string, repoPath string) (string, error) {
			for _, a := range args {
				if a == "--global" {
					return "lt.tree_ratio 40\nlt.show_hidden true\n", nil
				}
			}
			t.Fatal("local git config should not be read outside a repository")
			return "", nil
		}

		cfg := DefaultConfig()
		cfg.MergeGitConfig(t.TempDir())
		assert.Equal(t, 40, cfg.TreeRatio)
		assert.True(t, cfg.ShowHidden)
	})

	t.Run("local overrides global inside a repository", func(t *testing.T) {
		repo := initGitRepo(t)

		gitConfigMock = func(args []string, repoPath string) (string, error) {
			for _, a := range args {
				if a == "--global" {
					return "lt.tree_ratio 40\n", nil
				}
			}
			return "lt.tree_ratio 55\n", nil
		}

		cfg := DefaultConfig()
		cfg.MergeGitConfig(repo)
		assert.Equal(t, 55, cfg.TreeRatio)
	})

	t.Run("lookup failure leaves config unchanged", func(t *testing.T) {
		gitConfigMock = func(args []string, repoPath string) (string, error) {
			return "", fmt.Errorf("git command failed")
		}

		cfg := DefaultConfig()
		cfg.MergeGitConfig(t.TempDir())
		assert.Equal(t, 30, cfg.TreeRatio)
		assert.False(t, cfg.ShowHidden)
	})
}

func TestRunGitConfig(t *testing.T) {
	t.Run("real git config call", func(t *testing.T) {
		if _, err := exec.LookPath("git"); err != nil {
			t.Skip("git not installed")
		}
		// Exit code 1 (no matching keys) is not an error.
		output, err := runGitConfig([]string{"config", "--global", "--get-regexp", "^lt\\."}, "")
		require.NoError(t, err)
		assert.True(t, output == "" || strings.Contains(output, "lt."))
	})

	t.Run("mock returns output", func(t *testing.T) {
		defer func() { gitConfigMock = nil }()

		gitConfigMock = func(args []string, repoPath string) (string, error) {
			return "lt.theme nord\n", nil
		}

		output, err := runGitConfig([]string{"config"}, "")
		require.NoError(t, err)
		assert.Equal(t, "lt.theme nord\n", output)
	})
}

package main

import (
	"fmt"
	"os"

	_ "embed"

	urfavecli "github.com/urfave/cli/v2"
)

//go:embed templates/zsh_completion.zsh
var zshCompletion []byte

//go:embed templates/bash_completion.bash
var bashCompletion []byte

// completionCommand returns the completion subcommand definition.
func completionCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "completion",
		Usage:     "Generate shell completion scripts",
		ArgsUsage: "<bash|zsh>",
		Flags: []urfavecli.Flag{
			&urfavecli.BoolFlag{
				Name:  "code",
				Usage: "Output completion code instead of installation instructions",
			},
		},
		Action: handleCompletion,
	}
}

// handleCompletion handles the completion subcommand.
func handleCompletion(c *urfavecli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("usage: lazytree completion [--code] <bash|zsh>")
	}

	shell := c.Args().First()
	switch shell {
	case "bash", "zsh":
	default:
		return fmt.Errorf("unsupported shell: %s (supported: bash, zsh)", shell)
	}

	if !c.Bool("code") {
		printCompletionInstructions(shell)
		return nil
	}

	if shell == "bash" {
		_, _ = os.Stdout.Write(bashCompletion)
	} else {
		_, _ = os.Stdout.Write(zshCompletion)
	}
	return nil
}

// printCompletionInstructions prints how to install the completion script.
func printCompletionInstructions(shell string) {
	switch shell {
	case "bash":
		fmt.Println("# Install bash completions for lazytree:")
		fmt.Println("#   lazytree completion --code bash > /etc/bash_completion.d/lazytree")
		fmt.Println("# Or for the current session:")
		fmt.Println("#   source <(lazytree completion --code bash)")
	case "zsh":
		fmt.Println("# Install zsh completions for lazytree:")
		fmt.Println("#   lazytree completion --code zsh > \"${fpath[1]}/_lazytree\"")
		fmt.Println("# Or add to your .zshrc:")
		fmt.Println("#   source <(lazytree completion --code zsh)")
	}
}

package app

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/govmatch/cmd/govmatch/cmd/match"
	"github.com/agentstation/govmatch/cmd/govmatch/cmd/prompts"
	"github.com/agentstation/govmatch/cmd/govmatch/cmd/rules"
	"github.com/agentstation/govmatch/cmd/govmatch/cmd/verify"
)

// CreateMatchCommand creates the match command with app dependencies.
func (a *App) CreateMatchCommand() *cobra.Command {
	return match.NewCommand(a)
}

// CreatePromptsCommand creates the prompts command with app dependencies.
func (a *App) CreatePromptsCommand() *cobra.Command {
	return prompts.NewCommand(a)
}

// CreateVerifyCommand creates the verify command with app dependencies.
func (a *App) CreateVerifyCommand() *cobra.Command {
	return verify.NewCommand(a)
}

// CreateRulesCommand creates the rules command with app dependencies.
func (a *App) CreateRulesCommand() *cobra.Command {
	return rules.NewCommand(a)
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Show version information for govmatch CLI.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "govmatch version %s\n", a.version)
			fmt.Fprintf(w, "commit: %s\n", a.commit)
			fmt.Fprintf(w, "built: %s\n", a.date)
			fmt.Fprintf(w, "built by: %s\n", a.builtBy)
			fmt.Fprintf(w, "go version: %s\n", runtime.Version())
			fmt.Fprintf(w, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

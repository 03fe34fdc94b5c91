// Package rules implements the rules command.
package rules

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/govmatch/internal/appcontext"
	"github.com/agentstation/govmatch/pkg/rules"
)

// NewCommand creates the rules command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		file     string
		defaults bool
	)

	cmd := &cobra.Command{
		Use:     "rules",
		GroupID: "management",
		Short:   "Print the effective matching rules",
		Long: `Rules prints the rule set the matcher would use as YAML: thresholds,
classification patterns, the generic link filter and manual overrides.

The output is a valid rules file. Save it, edit it and pass it back with
--rules to tune matching.`,
		Example: `  govmatch rules                      # Effective rules (config + defaults)
  govmatch rules --defaults > rules.yaml
  govmatch rules --rules rules.yaml   # Validate and show a rules file`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(app, file, defaults, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&file, "rules", "", "rules file to load and validate")
	cmd.Flags().BoolVar(&defaults, "defaults", false, "print the built-in defaults")

	return cmd
}

// Execute writes the effective rule set as YAML to w.
func Execute(app appcontext.Interface, file string, defaults bool, w io.Writer) error {
	r := rules.Default()
	if !defaults {
		var err error
		if r, err = app.Rules(file); err != nil {
			return err
		}
	}
	data, err := r.YAML()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

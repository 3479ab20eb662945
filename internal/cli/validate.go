package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/wikistream/internal/expr"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Warnings []string `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var wiki string

	cmd := &cobra.Command{
		Use:   "validate <expr.yaml>",
		Short: "Check an expression file without converting it",
		Long: `Parse a YAML expression tree and report structural problems:
missing operands, operators where values are required, unknown properties
and empty IN lists.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, wiki, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&wiki, "wiki", "", "wiki for entity references without one (default from config)")

	return cmd
}

func runValidate(opts *RootOptions, wiki, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	env, err := loadEnvironment(opts, cmd)
	if err != nil {
		return outputCommandError(formatter, ErrCodeConfig, err)
	}
	if wiki == "" {
		wiki = env.cfg.DefaultWiki
	}

	node, err := loadExpression(formatter, path, wiki)
	if err != nil {
		return err
	}

	result := expr.Validate(node)
	if !result.Valid {
		_ = formatter.Error(ErrCodeInvalid, "expression is invalid", result.Warnings)
		if !formatter.JSON() {
			for _, w := range result.Warnings {
				formatter.Println("  - " + w)
			}
		}
		return NewExitError(ExitFailure, "expression is invalid")
	}

	if formatter.JSON() {
		return formatter.Success(ValidationResult{Valid: true})
	}
	formatter.Println("✓ Expression valid")
	return nil
}

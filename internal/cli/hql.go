package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/wikistream/internal/expr"
	"github.com/roach88/wikistream/internal/hql"
	"github.com/roach88/wikistream/internal/model"
)

// HQLOptions holds flags for the hql command.
type HQLOptions struct {
	*RootOptions
	Strict bool
	Local  bool
	Wiki   string
}

// HQLResult is the JSON payload of the hql command.
type HQLResult struct {
	Query       string         `json:"query"`
	Params      map[string]any `json:"params"`
	Unsupported []string       `json:"unsupported,omitempty"`
}

// NewHQLCommand creates the hql command.
func NewHQLCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HQLOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "hql <expr.yaml>",
		Short: "Convert an expression file to HQL",
		Long: `Convert a YAML expression tree to a parameterized HQL condition.

The query text references named parameters (:value_<sha256>, ...) whose
values are printed below it. Nodes the converter cannot render are reported
and make the command exit with code 1; --strict suppresses the partial query.

Example:
  wikistream hql filter.yaml
  wikistream hql --format json --wiki dev filter.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHQL(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail without output on unsupported nodes")
	cmd.Flags().BoolVar(&opts.Local, "local", false, "serialize entity references without the wiki")
	cmd.Flags().StringVar(&opts.Wiki, "wiki", "", "wiki for entity references without one (default from config)")

	return cmd
}

func runHQL(opts *HQLOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	env, err := loadEnvironment(opts.RootOptions, cmd)
	if err != nil {
		return outputCommandError(formatter, ErrCodeConfig, err)
	}

	wiki := opts.Wiki
	if wiki == "" {
		wiki = env.cfg.DefaultWiki
	}
	node, err := loadExpression(formatter, path, wiki)
	if err != nil {
		return err
	}

	var serializer model.Serializer = model.DefaultSerializer{}
	if opts.Local {
		serializer = model.LocalSerializer{}
	}
	convOpts := []hql.Option{
		hql.WithLogger(env.logger.With("component", "hql.converter")),
		hql.WithObserver(env.metrics),
	}
	if opts.Strict {
		convOpts = append(convOpts, hql.WithStrict())
	}

	query, convErr := hql.NewConverter(serializer, convOpts...).Convert(node)
	var unsupported *hql.UnsupportedNodeError
	if convErr != nil && !errors.As(convErr, &unsupported) {
		return outputCommandError(formatter, ErrCodeGeneric, convErr)
	}

	if query != nil {
		result := HQLResult{Query: query.Text, Params: query.Params}
		if unsupported != nil {
			result.Unsupported = unsupported.Nodes
		}
		if err := outputHQL(formatter, result); err != nil {
			return err
		}
	}

	if unsupported != nil {
		if query == nil {
			_ = formatter.Error(ErrCodeUnsupported, unsupported.Error(), unsupported.Nodes)
		}
		return WrapExitError(ExitFailure, "expression has unsupported nodes", unsupported)
	}
	return nil
}

// loadExpression reads an expression file, reporting failures through the
// formatter.
func loadExpression(formatter *OutputFormatter, path, wiki string) (expr.Node, error) {
	formatter.VerboseLog("Loading expression %s", path)

	node, err := expr.LoadFile(path, expr.DecodeOptions{DefaultWiki: wiki})
	if errors.Is(err, fs.ErrNotExist) {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("expression file not found: %s", path), nil)
		return nil, WrapExitError(ExitCommandError, "expression file not found", err)
	}
	if err != nil {
		_ = formatter.Error(ErrCodeParse, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "failed to parse expression", err)
	}
	return node, nil
}

func outputHQL(f *OutputFormatter, result HQLResult) error {
	if f.JSON() {
		return f.Success(result)
	}

	fmt.Fprintln(f.Writer, result.Query)
	keys := make([]string, 0, len(result.Params))
	for k := range result.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(f.Writer, "  :%s = %s\n", k, formatParam(result.Params[k]))
	}
	for _, n := range result.Unsupported {
		fmt.Fprintf(f.Writer, "  ! unsupported: %s\n", n)
	}
	return nil
}

func formatParam(v any) string {
	switch v := v.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(v)
	}
}

// outputCommandError reports err and returns it with a command exit code,
// keeping an ExitError's own code.
func outputCommandError(f *OutputFormatter, code string, err error) error {
	_ = f.Error(code, err.Error(), nil)
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return WrapExitError(ExitCommandError, "command failed", err)
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/wikistream/internal/hql"
	"github.com/roach88/wikistream/internal/model"
	"github.com/roach88/wikistream/internal/notify"
)

// FiltersOptions holds flags shared by the filters subcommands.
type FiltersOptions struct {
	*RootOptions
	NotificationFormat string
}

// NewFiltersCommand creates the filters command group.
func NewFiltersCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FiltersOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "filters",
		Short: "Manage the authors users are not notified about",
		Long: `Users can exclude authors from their notifications, per format
(alert or email). Exclusions feed the user filter, which contributes
NOT (event.user IN (...)) to the user's notification query.`,
	}

	cmd.PersistentFlags().StringVar(&opts.NotificationFormat, "notification-format", string(notify.FormatAlert), "notification format (alert|email)")

	cmd.AddCommand(&cobra.Command{
		Use:           "exclude <user> <author>",
		Short:         "Stop notifying user about events by author",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilterChange(opts, args[0], args[1], true, cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "include <user> <author>",
		Short:         "Notify user about events by author again",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilterChange(opts, args[0], args[1], false, cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "query <user>",
		Short:         "Print the filter part of a user's notification query",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilterQuery(opts, args[0], cmd)
		},
	})

	return cmd
}

func runFilterChange(opts *FiltersOptions, user, author string, exclude bool, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	env, err := loadEnvironment(opts.RootOptions, cmd)
	if err != nil {
		return outputCommandError(formatter, ErrCodeConfig, err)
	}
	defer env.close()

	format, owner, authorRef, err := parseFilterArgs(opts.NotificationFormat, user, author, env.cfg.DefaultWiki)
	if err != nil {
		return outputCommandError(formatter, ErrCodeGeneric, err)
	}

	st, err := env.openStore()
	if err != nil {
		return outputCommandError(formatter, ErrCodeStore, err)
	}

	serialized := model.DefaultSerializer{}.Serialize(authorRef)
	if exclude {
		err = st.ExcludeUser(cmd.Context(), owner, format, serialized)
	} else {
		err = st.IncludeUser(cmd.Context(), owner, format, serialized)
	}
	if err != nil {
		return outputCommandError(formatter, ErrCodeStore, err)
	}

	action := "included"
	if exclude {
		action = "excluded"
	}
	if formatter.JSON() {
		return formatter.Success(map[string]string{
			"user":   owner.String(),
			"author": serialized,
			"format": string(format),
			"action": action,
		})
	}
	formatter.Println(fmt.Sprintf("%s %s for %s (%s)", serialized, action, owner, format))
	return nil
}

func runFilterQuery(opts *FiltersOptions, user string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	env, err := loadEnvironment(opts.RootOptions, cmd)
	if err != nil {
		return outputCommandError(formatter, ErrCodeConfig, err)
	}
	defer env.close()

	format, err := notify.ParseFormat(opts.NotificationFormat)
	if err != nil {
		return outputCommandError(formatter, ErrCodeGeneric, err)
	}
	owner, err := model.ParseDocumentReference(user, env.cfg.DefaultWiki)
	if err != nil {
		return outputCommandError(formatter, ErrCodeGeneric, err)
	}

	st, err := env.openStore()
	if err != nil {
		return outputCommandError(formatter, ErrCodeStore, err)
	}

	filters := []notify.Filter{notify.NewEventUserFilter(st, nil)}
	node := notify.CombineExpressions(cmd.Context(), filters, owner, notify.FilterExclusive, format)
	if node == nil {
		if formatter.JSON() {
			return formatter.Success(HQLResult{Params: map[string]any{}})
		}
		formatter.Println("No filter applies.")
		return nil
	}

	query, err := hql.NewConverter(nil, hql.WithObserver(env.metrics)).Convert(node)
	if err != nil {
		return outputCommandError(formatter, ErrCodeUnsupported, err)
	}
	return outputHQL(formatter, HQLResult{Query: query.Text, Params: query.Params})
}

func parseFilterArgs(formatName, user, author, wiki string) (notify.Format, model.DocumentReference, model.DocumentReference, error) {
	var zero model.DocumentReference

	format, err := notify.ParseFormat(formatName)
	if err != nil {
		return "", zero, zero, err
	}
	owner, err := model.ParseDocumentReference(user, wiki)
	if err != nil {
		return "", zero, zero, fmt.Errorf("invalid user: %w", err)
	}
	authorRef, err := model.ParseDocumentReference(author, wiki)
	if err != nil {
		return "", zero, zero, fmt.Errorf("invalid author: %w", err)
	}
	return format, owner, authorRef, nil
}

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/wikistream/internal/mail"
	"github.com/roach88/wikistream/internal/script"
)

// NewMailCommand creates the mail command group.
func NewMailCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mail",
		Short: "Inspect and resend mail batches",
	}

	cmd.AddCommand(newMailStatusCommand(rootOpts))
	cmd.AddCommand(newMailResendCommand(rootOpts))

	return cmd
}

// StatusView is the output form of a mail status.
type StatusView struct {
	MessageID    string    `json:"message_id"`
	State        string    `json:"state"`
	Date         time.Time `json:"date"`
	Recipients   []string  `json:"recipients"`
	Type         string    `json:"type,omitempty"`
	Wiki         string    `json:"wiki,omitempty"`
	ErrorSummary string    `json:"error_summary,omitempty"`
}

// BatchView is the JSON payload of mail status.
type BatchView struct {
	BatchID   string       `json:"batch_id"`
	Total     int          `json:"total"`
	Processed int          `json:"processed"`
	Statuses  []StatusView `json:"statuses"`
}

func newMailStatusCommand(rootOpts *RootOptions) *cobra.Command {
	var state string

	cmd := &cobra.Command{
		Use:   "status <batch-id>",
		Short: "Print the delivery status of a batch",
		Example: `  wikistream mail status 0190a5e4-7c1d-7cc2-9f6e-6d1f3f5b8a11
  wikistream mail status --state failed --format json <batch-id>`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMailStatus(rootOpts, args[0], state, cmd)
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "only show mails in this state (ready|sent|failed)")

	return cmd
}

func runMailStatus(opts *RootOptions, batchID, stateFilter string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	env, err := loadEnvironment(opts, cmd)
	if err != nil {
		return outputCommandError(formatter, ErrCodeConfig, err)
	}
	defer env.close()

	st, err := env.openStore()
	if err != nil {
		return outputCommandError(formatter, ErrCodeStore, err)
	}

	ctx := cmd.Context()
	result := mail.NewBatchStatusResult(st, batchID)

	var statuses []*mail.Status
	if stateFilter != "" {
		state, err := mail.ParseState(stateFilter)
		if err != nil {
			return outputCommandError(formatter, ErrCodeGeneric, err)
		}
		statuses, err = result.ByState(ctx, state)
		if err != nil {
			return outputCommandError(formatter, ErrCodeStore, err)
		}
	} else {
		statuses, err = result.All(ctx)
		if err != nil {
			return outputCommandError(formatter, ErrCodeStore, err)
		}
	}

	total, err := result.TotalMailCount(ctx)
	if err != nil {
		return outputCommandError(formatter, ErrCodeStore, err)
	}
	if total == 0 {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("no mail in batch %s", batchID), nil)
		return NewExitError(ExitFailure, "batch not found")
	}
	processed, err := result.ProcessedMailCount(ctx)
	if err != nil {
		return outputCommandError(formatter, ErrCodeStore, err)
	}

	view := BatchView{BatchID: batchID, Total: total, Processed: processed, Statuses: make([]StatusView, 0, len(statuses))}
	for _, s := range statuses {
		view.Statuses = append(view.Statuses, StatusView{
			MessageID:    s.MessageID,
			State:        string(s.State),
			Date:         s.Date,
			Recipients:   s.Recipients,
			Type:         s.Type,
			Wiki:         s.Wiki,
			ErrorSummary: s.ErrorSummary,
		})
	}

	if formatter.JSON() {
		return formatter.Success(view)
	}

	formatter.Println(fmt.Sprintf("Batch %s: %d mail(s), %d processed", batchID, total, processed))
	for _, s := range view.Statuses {
		line := fmt.Sprintf("  %s  %-6s  %s  %s", s.MessageID, s.State, s.Date.Format(time.RFC3339), strings.Join(s.Recipients, ","))
		if s.ErrorSummary != "" {
			line += "  (" + s.ErrorSummary + ")"
		}
		formatter.Println(line)
	}
	return nil
}

func newMailResendCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resend [batch-id]",
		Short: "Resend failed mails now",
		Long: `Resend the failed mails of a batch, or of every batch when no id is given.
Mail content saved at failure time is sent again through the configured
provider and the statuses are updated.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			batchID := ""
			if len(args) == 1 {
				batchID = args[0]
			}
			return runMailResend(rootOpts, batchID, cmd)
		},
	}
	return cmd
}

func runMailResend(opts *RootOptions, batchID string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	env, err := loadEnvironment(opts, cmd)
	if err != nil {
		return outputCommandError(formatter, ErrCodeConfig, err)
	}
	defer env.close()

	resender, err := env.resender()
	if err != nil {
		return outputCommandError(formatter, ErrCodeMail, err)
	}

	// The resend runs as an action whose progress the debug service reports.
	execution := script.NewExecution()
	ectx := script.NewExecutionContext()
	ectx.SetProperty(script.ActionProgressKey, script.NewJobProgress())
	execution.Push(ectx)
	defer execution.Pop()

	debug := script.NewDebugService(execution)
	if debug.IsEnabled() {
		resender.SetProgress(&loggedProgress{JobProgress: debug.ActionProgress(), formatter: formatter})
	}

	report, err := resender.Resend(cmd.Context(), batchID)
	if err != nil {
		return outputCommandError(formatter, ErrCodeStore, err)
	}

	if formatter.JSON() {
		if err := formatter.Success(report); err != nil {
			return err
		}
	} else {
		formatter.Println(fmt.Sprintf("Resent %d mail(s): %d sent, %d failed, %d skipped",
			report.Attempted, report.Sent, report.Failed, report.Skipped))
	}

	if report.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d mail(s) failed again", report.Failed))
	}
	return nil
}

// loggedProgress reports the overall offset after every completed step.
type loggedProgress struct {
	*script.JobProgress
	formatter *OutputFormatter
}

func (p *loggedProgress) Step() {
	p.JobProgress.Step()
	p.formatter.VerboseLog("Resend progress: %.0f%%", p.Offset()*100)
}

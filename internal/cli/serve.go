package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/wikistream/internal/mail"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Schedule      string
	MetricsListen string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Resend failed mails on a schedule",
		Long: `Run the mail resend scheduler until interrupted.

Failed mails of every batch are resent on the cron schedule from the config
(mail.resend_schedule) or --schedule. When metrics are enabled, /metrics and
/healthz are served on metrics.listen.

Example:
  wikistream serve --config wikistream.yaml
  wikistream serve --schedule "*/10 * * * *" --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Schedule, "schedule", "", "cron schedule overriding mail.resend_schedule")
	cmd.Flags().StringVar(&opts.MetricsListen, "metrics-listen", "", "address overriding metrics.listen")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	env, err := loadEnvironment(opts.RootOptions, cmd)
	if err != nil {
		return outputCommandError(formatter, ErrCodeConfig, err)
	}
	defer env.close()

	schedule := opts.Schedule
	if schedule == "" {
		schedule = env.cfg.Mail.ResendSchedule
	}
	if schedule == "" {
		err := NewExitError(ExitCommandError, "no resend schedule configured (set mail.resend_schedule or --schedule)")
		return outputCommandError(formatter, ErrCodeConfig, err)
	}

	resender, err := env.resender()
	if err != nil {
		return outputCommandError(formatter, ErrCodeMail, err)
	}

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	scheduler := mail.NewResendScheduler(resender, schedule)
	if err := scheduler.Start(ctx); err != nil {
		return outputCommandError(formatter, ErrCodeConfig, WrapExitError(ExitCommandError, "failed to start scheduler", err))
	}
	defer scheduler.Stop()

	if env.cfg.Metrics.Enabled {
		listen := opts.MetricsListen
		if listen == "" {
			listen = env.cfg.Metrics.Listen
		}
		srv := newMetricsServer(env, listen)
		go func() {
			slog.Info("metrics server listening", "addr", listen)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", "error", err)
				cancel()
			}
		}()
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Resend scheduler started (%s).\n", schedule)
	if next := scheduler.NextRun(); next != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Next run: %s\n", next.Format(time.RFC3339))
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl-C to stop.")

	<-ctx.Done()
	slog.Info("scheduler stopped gracefully")
	return nil
}

func newMetricsServer(env *environment, addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", env.metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if env.store != nil {
			if err := env.store.Ping(r.Context()); err != nil {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		fmt.Fprintln(w, "ok")
	})
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

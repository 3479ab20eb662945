package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/wikistream/internal/config"
	"github.com/roach88/wikistream/internal/mail"
	"github.com/roach88/wikistream/internal/mail/provider"
	"github.com/roach88/wikistream/internal/metrics"
	"github.com/roach88/wikistream/internal/store"
)

// environment carries what commands build from the config file.
type environment struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Collector
	store   *store.Store
}

// loadEnvironment reads the config and installs the configured logger as
// the slog default. --verbose forces debug level.
func loadEnvironment(opts *RootOptions, cmd *cobra.Command) (*environment, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load config", err)
		}
		cfg = loaded
	}
	if opts.Verbose {
		cfg.Log.Level = "debug"
	}

	logger, err := config.NewLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to configure logging", err)
	}
	slog.SetDefault(logger)

	return &environment{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.NewCollector(cfg.Metrics, nil),
	}, nil
}

// openStore opens the configured database.
func (e *environment) openStore() (*store.Store, error) {
	if e.store != nil {
		return e.store, nil
	}
	e.logger.Debug("opening database", "driver", e.cfg.Database.Driver)
	st, err := store.OpenDSN(e.cfg.Database.Driver, e.cfg.Database.DSN)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	e.store = st
	return st, nil
}

func (e *environment) close() {
	if e.store == nil {
		return
	}
	if err := e.store.Close(); err != nil {
		e.logger.Error("error closing database", "error", err)
	}
}

func (e *environment) contentStore() *mail.FileContentStore {
	return mail.NewFileContentStore(e.cfg.Mail.ContentDir)
}

func (e *environment) listenerOptions() []mail.ListenerOption {
	return []mail.ListenerOption{
		mail.WithListenerLogger(e.logger.With("component", "mail.listener")),
		mail.WithStatusObserver(e.metrics),
	}
}

// resender wires the configured provider, stores and listener together.
func (e *environment) resender() (*mail.Resender, error) {
	st, err := e.openStore()
	if err != nil {
		return nil, err
	}
	p, err := provider.New(e.cfg.Mail.Provider)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to configure mail provider", err)
	}
	sender := mail.NewSender(p, mail.UUIDv7Generator{})
	return mail.NewResender(sender, e.contentStore(), st, e.listenerOptions()...), nil
}

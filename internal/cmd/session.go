package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/MiraMatiuchova/OOFPP-Habit-Tracker/internal/config"
	"github.com/MiraMatiuchova/OOFPP-Habit-Tracker/internal/logger"
	"github.com/MiraMatiuchova/OOFPP-Habit-Tracker/internal/storage"
	"github.com/MiraMatiuchova/OOFPP-Habit-Tracker/internal/tracker"
	"github.com/spf13/cobra"
)

// session is one open store with its habits loaded into a tracker.
// It must be closed on every path once opened.
type session struct {
	cfg     *config.Config
	store   *storage.Store
	tracker *tracker.Tracker
	log     logger.Logger
}

// resolveConfig applies defaults < config file < HABITS_DB < flags, then
// expands "~" in the store path.
func resolveConfig(opts *globalOptions) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.LoadConfig(opts.configPath)
	} else {
		cfg, err = config.LoadConfigFromDir(".")
	}
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnv()

	var dbPath, logLevel *string
	if opts.dbPath != "" {
		dbPath = &opts.dbPath
	}
	if opts.logLevel != "" {
		logLevel = &opts.logLevel
	}
	cfg.MergeWithFlags(dbPath, logLevel)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.ResolvePaths(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openSession resolves configuration, opens the store and loads every habit.
func openSession(cmd *cobra.Command, opts *globalOptions) (*session, error) {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return nil, err
	}

	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open habit store: %w", err)
	}

	habits, err := store.Load(commandContext(cmd))
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("load habits: %w", err)
	}
	log.LogLoad(cfg.DBPath, len(habits))

	return &session{
		cfg:     cfg,
		store:   store,
		tracker: tracker.New(habits...),
		log:     log,
	}, nil
}

// save drops deleted habits from the store, then upserts the rest.
func (s *session) save(ctx context.Context) error {
	start := time.Now()

	deleted, err := s.store.Delete(ctx, s.tracker.Deleted()...)
	if err != nil {
		return fmt.Errorf("remove deleted habits: %w", err)
	}

	habits := s.tracker.Habits()
	if err := s.store.Save(ctx, habits); err != nil {
		return fmt.Errorf("save habits: %w", err)
	}

	s.log.LogSave(logger.SaveSummary{
		Path:     s.cfg.DBPath,
		Saved:    len(habits),
		Deleted:  deleted,
		Duration: time.Since(start),
	})
	return nil
}

func (s *session) close() {
	if err := s.store.Close(); err != nil {
		s.log.LogError(fmt.Sprintf("close habit store: %v", err))
	}
}

// commandContext returns the command's context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"noterefiner/internal/app"
	"noterefiner/internal/config"
	"noterefiner/internal/notestore"
	"noterefiner/internal/refine"
	"noterefiner/internal/session"
)

// errReported marks failures whose message was already written for the user.
var errReported = errors.New("reported")

const refineFailedMsg = "Error generating note. Please check your connection."

// cli holds the global flags and the resources opened for one invocation.
type cli struct {
	endpoint string
	backend  string
	boltPath string
	verbose  bool

	logger  *zap.Logger
	cfg     *config.AppConfig
	closers []func() error
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "notectl",
		Short: "Refine rough notes into structured documentation",
		Long: `notectl sends rough notes to a NoteRefiner server for refinement and keeps
a searchable, newest-first history of saved notes in a local store.

Run "notectl shell" for an interactive session.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zcfg := zap.NewProductionConfig()
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			if c.verbose {
				zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			c.logger, err = zcfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			c.cfg, err = config.Load()
			if err != nil {
				return err
			}
			if c.backend != "" {
				c.cfg.Store.Backend = c.backend
			}
			if c.boltPath != "" {
				c.cfg.Store.BoltPath = c.boltPath
			}
			if c.endpoint != "" {
				c.cfg.Refiner.Endpoint = c.endpoint
			}
			return c.cfg.Validate()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			c.close()
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.endpoint, "endpoint", "", "base URL of the refinement server (default $REFINE_ENDPOINT)")
	pf.StringVar(&c.backend, "store", "", "note store backend: memory, bolt, sqlite, postgres, minio (default $STORE_BACKEND)")
	pf.StringVar(&c.boltPath, "bolt-path", "", "bolt database file (default $STORE_BOLT_PATH)")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newRefineCmd(c),
		newNotesCmd(c),
		newModesCmd(),
		newShellCmd(c),
	)
	return root
}

// openStore opens the configured backend and loads the saved notes.
func (c *cli) openStore(ctx context.Context) (*notestore.Store, error) {
	backend, err := app.OpenBackend(ctx, c.cfg, c.logger)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, backend.Close)

	store := notestore.New(backend.KV, c.cfg.Store.Key, notestore.WithLogger(c.logger))
	store.Load(ctx)
	return store, nil
}

// openSession wires a session to the remote refiner and the local store.
func (c *cli) openSession(ctx context.Context) (*session.Session, error) {
	store, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}
	refiner := refine.NewHTTPClient(c.cfg.Refiner.Endpoint, c.cfg.Refiner.Timeout)
	return session.New(refiner, store), nil
}

func (c *cli) close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && c.logger != nil {
			c.logger.Warn("close store", zap.Error(err))
		}
	}
	c.closers = nil
}

// reportRefineFailure prints the user-facing refinement error and logs the cause.
func (c *cli) reportRefineFailure(cmd *cobra.Command, err error) error {
	c.logger.Debug("refine failed", zap.String("endpoint", c.cfg.Refiner.Endpoint), zap.Error(err))
	fmt.Fprintln(cmd.ErrOrStderr(), refineFailedMsg)
	return errReported
}

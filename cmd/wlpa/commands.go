package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/JonMunkholm/wlpa/internal/app"
	"github.com/JonMunkholm/wlpa/internal/config"
	"github.com/JonMunkholm/wlpa/internal/core"
	"github.com/JonMunkholm/wlpa/internal/logging"
	"github.com/JonMunkholm/wlpa/internal/tui"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	commonName     string
	scientificName string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search Schedules I-III (and Schedule IV) by common or scientific name",
	Long: `Search the unified species list. Both flags are case-insensitive substring
matches; when both are given a record must match both.`,
	Example: `  wlpa search --common tiger
  wlpa search -s panthera --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		res := rt.snap.Search(core.Query{CommonName: commonName, ScientificName: scientificName}, rt.policy)
		return printSpecies(cmd.OutOrStdout(), res, rt.snap.Warnings(), jsonOutput)
	},
}

var specimensCmd = &cobra.Command{
	Use:   "specimens [TEXT...]",
	Short: "Search the Schedule IV scheduled specimens list",
	Long: `Search the scheduled specimens by scientific name, family name or any text
in the entry. Multiple arguments are joined with spaces.`,
	Example: `  wlpa specimens orchid
  wlpa specimens "Panthera leo" --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		res := rt.snap.SearchSpecimens(strings.Join(args, " "), rt.policy)
		return printSpecimens(cmd.OutOrStdout(), res, rt.snap.Warnings(), jsonOutput)
	},
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the loaded snapshot and any load warnings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		return printInfo(cmd.OutOrStdout(), rt.snap.Stats(), jsonOutput)
	},
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the reference data interactively",
	Args:  cobra.NoArgs,
	RunE:  runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	return tui.Run(rt.snap, rt.policy)
}

// loadError marks a failed reference data load, which is always shown to
// the user through its mapped message.
type loadError struct{ err error }

func (e *loadError) Error() string { return e.err.Error() }
func (e *loadError) Unwrap() error { return e.err }

type session struct {
	snap   *core.Snapshot
	policy core.EmptyQueryPolicy
	close  func()
}

// setup loads configuration, configures stderr logging and loads the
// snapshot for one command.
func setup(cmd *cobra.Command) (*session, error) {
	// Real environment wins over .env for the CLI.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := logLevel
	if level == "" {
		level = "warn"
		if _, ok := os.LookupEnv("LOG_LEVEL"); ok {
			level = cfg.Logging.Level
		}
	}
	logger := logging.New(os.Stderr, level, cfg.Logging.Format)
	slog.SetDefault(logger)

	policyName := cfg.Search.EmptyQuery
	if emptyQuery != "" {
		policyName = emptyQuery
	}
	policy, err := core.ParseEmptyQueryPolicy(policyName)
	if err != nil {
		return nil, err
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	snap, closeDB, err := app.Start(ctx, cfg)
	if err != nil {
		closeDB()
		logger.Debug("load failed", "error", err)
		return nil, &loadError{err: err}
	}

	return &session{snap: snap, policy: policy, close: closeDB}, nil
}

func isLoadError(err error) bool {
	var le *loadError
	return errors.As(err, &le)
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ikari-pl/littera/internal/command"
	"github.com/ikari-pl/littera/internal/config"
	"github.com/ikari-pl/littera/internal/obs"
	"github.com/ikari-pl/littera/internal/storage/ppg"
)

// Global flags bound on rootCmd, the same "flags over viper/env over
// defaults" precedence the teacher's cmd/bd/main.go establishes, scaled
// down to the handful of cross-cutting flags this Command Surface
// actually needs (spec.md §4.4: --json, --dry-run, --force).
var (
	workRoot   string
	jsonOutput bool
	dryRun     bool
	force      bool
	verbose    bool

	store *ppg.Store
	log   = obs.Discard()
)

var rootCmd = &cobra.Command{
	Use:           "littera",
	Short:         "littera - a local-first writing system for long-form multilingual works",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log = obs.New(verbose)
		slog.SetDefault(log)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&workRoot, "work", ".", "path to the Work's root directory")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit structured JSON output")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "preview the command's effect without touching state")
	rootCmd.PersistentFlags().BoolVar(&force, "force", false, "proceed past a non-empty-parent or destructive-maintenance guard")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log cluster lifecycle and command dispatch at debug level to stderr")

	rootCmd.AddCommand(workCmd, docCmd, sectionCmd, blockCmd, entityCmd, labelCmd,
		overlayCmd, mentionCmd, alignmentCmd, reviewCmd, exportCmd, importCmd, maintenanceCmd)
}

// Execute runs the CLI, returning the error so main can map it to an exit
// code per errs.Kind (cmd/bd/errors.go's FatalError family does this by
// calling os.Exit directly; this package instead lets cobra return the
// error so exactly one place, main.go, ever exits the process).
func Execute() error {
	if err := config.Initialize(); err != nil {
		return err
	}
	return rootCmd.Execute()
}

// opts collects the cross-cutting flags into the shape
// internal/command functions expect.
func opts() command.Options { return command.Options{DryRun: dryRun, Force: force} }

// openStore opens the already-initialized Work at workRoot (`work init`
// calls ppg.Init itself) and returns a live connection, acquiring the cluster (starting it if
// needed) exactly once per command invocation (spec.md §5: "the cluster
// starts on demand when a command needs it").
func openStore(ctx context.Context) (*sql.DB, error) {
	var err error
	log.Debug("acquiring cluster", "work", workRoot)
	store, err = ppg.Open(workRoot, nil)
	if err != nil {
		return nil, err
	}
	return store.DB(ctx)
}

// releaseStore returns the cluster to its idle lease at the end of a
// command (spec.md §4.1: "stops after a configurable idle lease").
func releaseStore() {
	if store != nil {
		log.Debug("releasing cluster", "work", workRoot)
		store.Release()
	}
}

// withDB is the shared wrapper every leaf command's RunE uses: open the
// Work's store, run fn against its connection, and release the cluster
// whether fn succeeds or fails.
func withDB(cmd *cobra.Command, fn func(ctx context.Context, db *sql.DB) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	db, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer releaseStore()
	return fn(ctx, db)
}

// printResult renders v as canonical JSON or stable line-oriented human
// text, per spec.md §4.4's "Deterministic output... Field order and
// whitespace are fixed" — JSON already satisfies that via struct field
// order; human mode reuses the same field/value pairs via reflection so
// the two modes never drift apart.
func printResult(v any) error {
	if v == nil {
		return nil
	}
	if jsonOutput {
		return printJSON(v)
	}
	return printHuman(v)
}

func printf(format string, args ...any) { fmt.Printf(format, args...) }

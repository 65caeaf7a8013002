package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ikari-pl/littera/internal/command"
	"github.com/ikari-pl/littera/internal/configfile"
)

var sectionCmd = &cobra.Command{
	Use:   "section",
	Short: "manage Sections within a Document",
}

var (
	sectionTitle    string
	sectionParentID string
	sectionOrder    int
	sectionMeta     []string
	sectionWatch    bool
)

var sectionAddCmd = &cobra.Command{
	Use:   "add [document-id]",
	Short: "add a Section to a Document, optionally nested under --parent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			r, err := command.AddSection(ctx, db, args[0], sectionParentID, sectionTitle, sectionOrder, parseMeta(sectionMeta), opts())
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

var sectionListCmd = &cobra.Command{
	Use:   "list [document-id]",
	Short: "list a Document's Sections, optionally scoped to --parent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			r, err := command.ListSection(ctx, db, args[0], sectionParentID)
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

var sectionShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "show a Section's own row",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			if sectionWatch {
				return watchSection(ctx, db, args[0])
			}
			r, err := command.ShowSection(ctx, db, args[0])
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

// watchSection re-displays a Section each time the Work's .littera
// directory changes, following the teacher's watchIssues debounce-and-
// redisplay loop (cmd/bd/list.go) generalized from an issues.jsonl/*.db
// write filter to any write inside the Work's state directory, since the
// embedded cluster's own WAL lives there instead of a tracked JSONL file.
func watchSection(ctx context.Context, db *sql.DB, id string) error {
	show := func() error {
		r, err := command.ShowSection(ctx, db, id)
		if err != nil {
			return err
		}
		return printResult(r)
	}
	if err := show(); err != nil {
		return err
	}

	w, err := configfile.Watch(workRoot)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	fmt.Fprintln(os.Stderr, "Watching for changes... (Ctrl+C to exit)")
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	var debounce *time.Timer
	const debounceDelay = 500 * time.Millisecond
	for {
		select {
		case <-sigCh:
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, func() {
				if err := show(); err != nil {
					log.Warn("re-render failed", "error", err)
				}
			})
		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "error", werr)
		}
	}
}

var sectionUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "update a Section's title, parent, or metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			r, err := command.UpdateSection(ctx, db, args[0], sectionTitle, sectionParentID, parseMeta(sectionMeta), opts())
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

var sectionReorderCmd = &cobra.Command{
	Use:   "reorder [id]",
	Short: "move a Section to a new order_index among its siblings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			r, err := command.ReorderSection(ctx, db, args[0], sectionOrder, opts())
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

var sectionDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "delete a Section and, with --force, every child Section and Block beneath it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			return command.DeleteSection(ctx, db, args[0], opts())
		})
	},
}

func init() {
	sectionAddCmd.Flags().StringVar(&sectionTitle, "title", "", "Section title")
	sectionAddCmd.Flags().StringVar(&sectionParentID, "parent", "", "parent Section id (omit for a top-level Section)")
	sectionAddCmd.Flags().IntVar(&sectionOrder, "order", -1, "order_index among siblings (negative assigns max+1)")
	sectionAddCmd.Flags().StringArrayVar(&sectionMeta, "meta", nil, "metadata key=value (repeatable)")

	sectionListCmd.Flags().StringVar(&sectionParentID, "parent", "", "parent Section id (omit to list top-level Sections)")

	sectionUpdateCmd.Flags().StringVar(&sectionTitle, "title", "", "Section title")
	sectionUpdateCmd.Flags().StringVar(&sectionParentID, "parent", "", "new parent Section id")
	sectionUpdateCmd.Flags().StringArrayVar(&sectionMeta, "meta", nil, "metadata key=value (repeatable)")

	sectionReorderCmd.Flags().IntVar(&sectionOrder, "order", 0, "new order_index")

	sectionShowCmd.Flags().BoolVar(&sectionWatch, "watch", false, "re-display the Section whenever the Work's state directory changes, until interrupted")

	sectionCmd.AddCommand(sectionAddCmd, sectionListCmd, sectionShowCmd, sectionUpdateCmd, sectionReorderCmd, sectionDeleteCmd)
}

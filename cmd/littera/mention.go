package main

import (
	"context"
	"database/sql"

	"github.com/spf13/cobra"

	"github.com/ikari-pl/littera/internal/command"
	"github.com/ikari-pl/littera/internal/errs"
	"github.com/ikari-pl/littera/internal/linguistics/simple"
	"github.com/ikari-pl/littera/internal/types"
)

// linguisticsProvider is the reference implementation the CLI renders
// Mention surface forms with; nothing else in cmd/littera depends on a
// concrete linguistics.Provider, only on the interface in internal/linguistics.
var linguisticsProvider = simple.New()

var mentionCmd = &cobra.Command{
	Use:   "mention",
	Short: "manage Mentions linking Entities to Blocks",
}

var (
	mentionEntityID        string
	mentionLanguage        string
	mentionCase            string
	mentionNumber          string
	mentionRole            string
	mentionPossessive      bool
	mentionObservedSurface string
	mentionBlockID         string
)

var mentionAddCmd = &cobra.Command{
	Use:   "add [block-id]",
	Short: "record a Mention of --entity on a Block",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			features := types.MentionFeatures{
				Case:       mentionCase,
				Number:     mentionNumber,
				Role:       mentionRole,
				Possessive: mentionPossessive,
			}
			r, err := command.AddMention(ctx, db, args[0], mentionEntityID, mentionLanguage, features, mentionObservedSurface, opts())
			if err != nil {
				return err
			}
			if r.Warning != "" {
				warnf("%s", r.Warning)
			}
			return printResult(r)
		})
	},
}

var mentionListCmd = &cobra.Command{
	Use:   "list [block-id]",
	Short: "list a Block's Mentions (use --entity to list by Entity instead)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			var (
				r   []command.MentionResult
				err error
			)
			if mentionEntityID != "" {
				r, err = command.ListMentionByEntity(ctx, db, mentionEntityID)
			} else {
				r, err = command.ListMentionByBlock(ctx, db, args[0])
			}
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

var mentionRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "remove a Mention",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			return command.RemoveMention(ctx, db, args[0], opts())
		})
	},
}

var mentionRenderCmd = &cobra.Command{
	Use:   "render [id]",
	Short: "render a Mention's surface form via the reference linguistics Provider (use --block to render every Mention on a Block at once)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			if mentionBlockID != "" {
				r, err := command.RenderMentionSurfacesByBlock(ctx, db, mentionBlockID, linguisticsProvider, nil)
				if err != nil {
					return err
				}
				return printResult(r)
			}
			if len(args) != 1 {
				return errs.InvalidInputf("id", "provide a Mention id, or --block to render every Mention on a Block")
			}
			r, err := command.RenderMentionSurface(ctx, db, args[0], linguisticsProvider, nil)
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

func init() {
	mentionAddCmd.Flags().StringVar(&mentionEntityID, "entity", "", "Entity id")
	mentionAddCmd.Flags().StringVar(&mentionLanguage, "language", "", "language this Mention occurs in")
	mentionAddCmd.Flags().StringVar(&mentionCase, "case", "", "grammatical case")
	mentionAddCmd.Flags().StringVar(&mentionNumber, "number", "", "grammatical number")
	mentionAddCmd.Flags().StringVar(&mentionRole, "role", "", "grammatical role")
	mentionAddCmd.Flags().BoolVar(&mentionPossessive, "possessive", false, "possessive form")
	mentionAddCmd.Flags().StringVar(&mentionObservedSurface, "surface", "", "the surface form as it was actually typed")

	mentionListCmd.Flags().StringVar(&mentionEntityID, "entity", "", "list by Entity id instead of by Block id")

	mentionRenderCmd.Flags().StringVar(&mentionBlockID, "block", "", "render every Mention on this Block concurrently, instead of one Mention id")

	mentionCmd.AddCommand(mentionAddCmd, mentionListCmd, mentionRemoveCmd, mentionRenderCmd)
}

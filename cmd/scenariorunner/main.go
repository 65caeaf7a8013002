// Command scenariorunner drives internal/command directly, scenario by
// scenario, against a fresh embedded cluster in the current directory —
// the Go-level counterpart to cmd/littera's scenario tests, built as a
// standalone binary so the rsc.io/script transcript suite under tests/
// can exercise the same six end-to-end scenarios from spec.md §8 without
// the script language needing to capture a minted id from one step's
// output and thread it into the next step's arguments.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ikari-pl/littera/internal/command"
	"github.com/ikari-pl/littera/internal/docvalue"
	"github.com/ikari-pl/littera/internal/errs"
	"github.com/ikari-pl/littera/internal/storage/ppg"
	"github.com/ikari-pl/littera/internal/types"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: scenariorunner <scenario-name>")
		os.Exit(2)
	}
	scenario, ok := scenarios[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "FAIL: unknown scenario %q\n", os.Args[1])
		os.Exit(2)
	}

	workRoot, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
		os.Exit(1)
	}
	if err := scenario(workRoot); err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("PASS")
}

var scenarios = map[string]func(workRoot string) error{
	"init-and-block":     initAndBlock,
	"mention-uniqueness": mentionUniqueness,
	"cascade-delete":     cascadeDelete,
	"alignment-gaps":     alignmentGaps,
}

func opts() command.Options { return command.Options{} }

func want(cond bool, format string, args ...any) error {
	if !cond {
		return fmt.Errorf(format, args...)
	}
	return nil
}

// scenario 1: init my-work; doc add "Ch. 1"; section add <doc> "Opening";
// block add <section> "It was a dark night." --lang en.
func initAndBlock(workRoot string) error {
	ctx := context.Background()
	store, err := ppg.Init(workRoot, nil)
	if err != nil {
		return err
	}
	defer store.Release()
	db, err := store.DB(ctx)
	if err != nil {
		return err
	}

	w, err := command.InitWork(ctx, db, "My Work", "", "en", docvalue.Nil, opts())
	if err != nil {
		return err
	}
	doc, err := command.AddDocument(ctx, db, w.ID, "Ch. 1", -1, docvalue.Nil, opts())
	if err != nil {
		return err
	}
	section, err := command.AddSection(ctx, db, doc.ID, "", "Opening", -1, docvalue.Nil, opts())
	if err != nil {
		return err
	}
	if _, err := command.AddBlock(ctx, db, section.ID, types.BlockKindProse, "en", "It was a dark night.", -1, docvalue.Nil, opts()); err != nil {
		return err
	}

	blocks, err := command.ListBlock(ctx, db, section.ID)
	if err != nil {
		return err
	}
	if err := want(len(blocks) == 1, "block list returned %d rows, want 1", len(blocks)); err != nil {
		return err
	}
	if err := want(blocks[0].Language == "en", "language = %q, want en", blocks[0].Language); err != nil {
		return err
	}
	return want(blocks[0].SourceText == "It was a dark night.", "source_text = %q", blocks[0].SourceText)
}

// scenario 2: mention add B E en twice; first succeeds, second Conflicts,
// mention list --block B still lists exactly one.
func mentionUniqueness(workRoot string) error {
	ctx := context.Background()
	store, err := ppg.Init(workRoot, nil)
	if err != nil {
		return err
	}
	defer store.Release()
	db, err := store.DB(ctx)
	if err != nil {
		return err
	}

	w, err := command.InitWork(ctx, db, "Work", "", "en", docvalue.Nil, opts())
	if err != nil {
		return err
	}
	doc, err := command.AddDocument(ctx, db, w.ID, "Doc", -1, docvalue.Nil, opts())
	if err != nil {
		return err
	}
	section, err := command.AddSection(ctx, db, doc.ID, "", "Section", -1, docvalue.Nil, opts())
	if err != nil {
		return err
	}
	block, err := command.AddBlock(ctx, db, section.ID, types.BlockKindProse, "en", "Ada said hello.", -1, docvalue.Nil, opts())
	if err != nil {
		return err
	}
	entity, err := command.AddEntity(ctx, db, "person", "Ada", docvalue.Nil, "", opts())
	if err != nil {
		return err
	}

	if _, err := command.AddMention(ctx, db, block.ID, entity.ID, "en", types.MentionFeatures{}, "", opts()); err != nil {
		return fmt.Errorf("first mention add: %w", err)
	}
	_, err = command.AddMention(ctx, db, block.ID, entity.ID, "en", types.MentionFeatures{}, "", opts())
	if err := want(errs.KindOf(err) == errs.Conflict, "second mention add kind = %v, want conflict", errs.KindOf(err)); err != nil {
		return err
	}

	mentions, err := command.ListMentionByBlock(ctx, db, block.ID)
	if err != nil {
		return err
	}
	return want(len(mentions) == 1, "mention list returned %d rows, want 1", len(mentions))
}

// scenario 5: create Work/Doc/2 Sections/5 Blocks/2 Mentions; work delete
// --force; Documents are gone, Mentions on deleted Blocks are gone,
// referenced Entities still exist with zero Mentions.
func cascadeDelete(workRoot string) error {
	ctx := context.Background()
	store, err := ppg.Init(workRoot, nil)
	if err != nil {
		return err
	}
	defer store.Release()
	db, err := store.DB(ctx)
	if err != nil {
		return err
	}

	w, err := command.InitWork(ctx, db, "Work", "", "en", docvalue.Nil, opts())
	if err != nil {
		return err
	}
	doc, err := command.AddDocument(ctx, db, w.ID, "Doc", -1, docvalue.Nil, opts())
	if err != nil {
		return err
	}
	s1, err := command.AddSection(ctx, db, doc.ID, "", "S1", -1, docvalue.Nil, opts())
	if err != nil {
		return err
	}
	s2, err := command.AddSection(ctx, db, doc.ID, "", "S2", -1, docvalue.Nil, opts())
	if err != nil {
		return err
	}
	var b1 *command.BlockResult
	for i, text := range []string{"One.", "Two.", "Three."} {
		b, err := command.AddBlock(ctx, db, s1.ID, types.BlockKindProse, "en", text, -1, docvalue.Nil, opts())
		if err != nil {
			return err
		}
		if i == 0 {
			b1 = b
		}
	}
	var b4 *command.BlockResult
	for i, text := range []string{"Four.", "Five."} {
		b, err := command.AddBlock(ctx, db, s2.ID, types.BlockKindProse, "en", text, -1, docvalue.Nil, opts())
		if err != nil {
			return err
		}
		if i == 0 {
			b4 = b
		}
	}

	e1, err := command.AddEntity(ctx, db, "person", "Ada", docvalue.Nil, "", opts())
	if err != nil {
		return err
	}
	e2, err := command.AddEntity(ctx, db, "person", "Grace", docvalue.Nil, "", opts())
	if err != nil {
		return err
	}
	if _, err := command.AddMention(ctx, db, b1.ID, e1.ID, "en", types.MentionFeatures{}, "", opts()); err != nil {
		return err
	}
	if _, err := command.AddMention(ctx, db, b4.ID, e2.ID, "en", types.MentionFeatures{}, "", opts()); err != nil {
		return err
	}

	if err := command.DeleteWork(ctx, db, w.ID, command.Options{Force: true}); err != nil {
		return err
	}

	_, err = command.ListDocument(ctx, db, w.ID)
	if err := want(errs.KindOf(err) == errs.NotFound, "doc list after delete kind = %v, want not_found", errs.KindOf(err)); err != nil {
		return err
	}

	if _, err := command.ShowEntity(ctx, db, e1.ID); err != nil {
		return fmt.Errorf("entity referenced by a deleted mention must survive: %w", err)
	}
	mentions, err := command.ListMentionByEntity(ctx, db, e1.ID)
	if err != nil {
		return err
	}
	return want(len(mentions) == 0, "entity %s still has %d mentions after cascade delete", e1.ID, len(mentions))
}

// scenario 6: two aligned Blocks (en/pl); an Entity has only an en Label
// and is mentioned in the en Block; alignment gaps reports the Entity as
// missing its pl label against that alignment.
func alignmentGaps(workRoot string) error {
	ctx := context.Background()
	store, err := ppg.Init(workRoot, nil)
	if err != nil {
		return err
	}
	defer store.Release()
	db, err := store.DB(ctx)
	if err != nil {
		return err
	}

	w, err := command.InitWork(ctx, db, "Work", "", "en", docvalue.Nil, opts())
	if err != nil {
		return err
	}
	doc, err := command.AddDocument(ctx, db, w.ID, "Doc", -1, docvalue.Nil, opts())
	if err != nil {
		return err
	}
	section, err := command.AddSection(ctx, db, doc.ID, "", "Section", -1, docvalue.Nil, opts())
	if err != nil {
		return err
	}
	enBlock, err := command.AddBlock(ctx, db, section.ID, types.BlockKindProse, "en", "Ada arrived.", -1, docvalue.Nil, opts())
	if err != nil {
		return err
	}
	plBlock, err := command.AddBlock(ctx, db, section.ID, types.BlockKindProse, "pl", "Ada przybyla.", -1, docvalue.Nil, opts())
	if err != nil {
		return err
	}

	entity, err := command.AddEntity(ctx, db, "person", "Ada", docvalue.Nil, "", opts())
	if err != nil {
		return err
	}
	if _, err := command.SetLabel(ctx, db, entity.ID, "en", "Ada", nil, opts()); err != nil {
		return err
	}
	if _, err := command.AddMention(ctx, db, enBlock.ID, entity.ID, "en", types.MentionFeatures{}, "", opts()); err != nil {
		return err
	}
	if _, err := command.AddAlignment(ctx, db, enBlock.ID, plBlock.ID, types.AlignmentType("translation"), 1.0, opts()); err != nil {
		return err
	}

	gaps, err := command.AlignmentGaps(ctx, db, []string{section.ID})
	if err != nil {
		return err
	}
	for _, g := range gaps.EntityGaps {
		if g.EntityID == entity.ID && g.MissingLanguage == "pl" {
			return nil
		}
	}
	return fmt.Errorf("alignment gaps did not report entity %s missing a pl label; got %+v", entity.ID, gaps.EntityGaps)
}

package main

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikari-pl/littera/internal/errs"
)

// These are scenarios 1, 2, 5 and 6 of the six end-to-end scenarios from
// spec.md §8 (3 and 4 are editor behaviors, tested in internal/editor), driven through
// the actual cobra command tree rather than internal/command directly, so
// a regression in flag wiring or output rendering fails here too. Each
// scenario owns a fresh --work directory and, because LITTERA_TEST_MODE
// forces a zero idle lease, starts and stops its own embedded cluster —
// the first run in a process pays the "download the engine binary" cost
// spec.md §8 calls out as a boundary behavior.

func init() {
	// Never hold a cluster open between commands in this suite; every
	// invocation below acquires and releases independently.
	os.Setenv("LITTERA_TEST_MODE", "1")
}

// runCLI executes the littera command tree with args and returns stdout,
// mapped to an errs.Kind when the command failed. Flags are reset to
// their declared defaults before every invocation so an earlier test's
// --title or --language doesn't leak into the next command the way a
// single long-lived *pflag.FlagSet normally would across repeated
// Execute calls.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	rootCmd.SetArgs(args)
	runErr := rootCmd.Execute()

	w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)

	return buf.String(), runErr
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func requireKind(t *testing.T, err error, want errs.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, errs.KindOf(err))
}

// scenario 1: init and create a Block.
func TestScenarioInitAndCreateBlock(t *testing.T) {
	work := t.TempDir()

	_, err := runCLI(t, "work", "init", "--work", work, "--title", "My Work")
	require.NoError(t, err)

	out, err := runCLI(t, "doc", "add", "--work", work, "--title", "Ch. 1", workIDFromShow(t, work))
	require.NoError(t, err)
	docID := idFromOutput(t, out)

	out, err = runCLI(t, "section", "add", "--work", work, "--title", "Opening", docID)
	require.NoError(t, err)
	sectionID := idFromOutput(t, out)

	_, err = runCLI(t, "block", "add", "--work", work, "--language", "en", "--text", "It was a dark night.", sectionID)
	require.NoError(t, err)

	out, err = runCLI(t, "block", "list", "--work", work, sectionID)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out, "id:"), "block list must return exactly one row")
	assert.Contains(t, out, "language: en")
	assert.Contains(t, out, "source_text: It was a dark night.")
}

// scenario 2: Mention uniqueness.
func TestScenarioMentionUniqueness(t *testing.T) {
	work := t.TempDir()
	_, err := runCLI(t, "work", "init", "--work", work, "--title", "Test Work")
	require.NoError(t, err)

	out, err := runCLI(t, "entity", "add", "--work", work, "--label", "Ada")
	require.NoError(t, err)
	entityID := idFromOutput(t, out)

	docID := addDoc(t, work, "Doc")
	sectionID := addSection(t, work, docID, "Section")
	blockID := addBlock(t, work, sectionID, "en", "Ada said hello.")

	_, err = runCLI(t, "mention", "add", "--work", work, "--entity", entityID, "--language", "en", blockID)
	require.NoError(t, err)

	_, err = runCLI(t, "mention", "add", "--work", work, "--entity", entityID, "--language", "en", blockID)
	requireKind(t, err, errs.Conflict)

	out, err = runCLI(t, "mention", "list", "--work", work, "--entity", entityID, blockID)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "id:"))
}

// scenario 5: Cascade delete.
func TestScenarioCascadeDelete(t *testing.T) {
	work := t.TempDir()
	_, err := runCLI(t, "work", "init", "--work", work, "--title", "Test Work")
	require.NoError(t, err)
	workID := workIDFromShow(t, work)

	docID := addDoc(t, work, "Doc")
	section1 := addSection(t, work, docID, "S1")
	section2 := addSection(t, work, docID, "S2")
	b1 := addBlock(t, work, section1, "en", "One.")
	addBlock(t, work, section1, "en", "Two.")
	addBlock(t, work, section1, "en", "Three.")
	b4 := addBlock(t, work, section2, "en", "Four.")
	addBlock(t, work, section2, "en", "Five.")

	out, err := runCLI(t, "entity", "add", "--work", work, "--label", "Ada")
	require.NoError(t, err)
	e1 := idFromOutput(t, out)
	out, err = runCLI(t, "entity", "add", "--work", work, "--label", "Grace")
	require.NoError(t, err)
	e2 := idFromOutput(t, out)

	_, err = runCLI(t, "mention", "add", "--work", work, "--entity", e1, "--language", "en", b1)
	require.NoError(t, err)
	_, err = runCLI(t, "mention", "add", "--work", work, "--entity", e2, "--language", "en", b4)
	require.NoError(t, err)

	_, err = runCLI(t, "work", "delete", "--work", work, "--force", workID)
	require.NoError(t, err)

	_, err = runCLI(t, "doc", "list", "--work", work, workID)
	requireKind(t, err, errs.NotFound)

	out, err = runCLI(t, "entity", "show", "--work", work, e1)
	require.NoError(t, err, "Entities referenced by deleted Mentions must survive")
	assert.Contains(t, out, e1)

	out, err = runCLI(t, "mention", "list", "--work", work, "--entity", e1, "dangling-block-id")
	require.NoError(t, err)
	assert.Contains(t, out, "(none)", "the Entity's Mentions must be gone along with the deleted Blocks")
}

// scenario 6: Alignment gaps report.
func TestScenarioAlignmentGapsReport(t *testing.T) {
	work := t.TempDir()
	_, err := runCLI(t, "work", "init", "--work", work, "--title", "Test Work")
	require.NoError(t, err)

	docID := addDoc(t, work, "Doc")
	sectionID := addSection(t, work, docID, "Section")
	enBlock := addBlock(t, work, sectionID, "en", "Ada arrived.")
	plBlock := addBlock(t, work, sectionID, "pl", "Ada przybyła.")

	out, err := runCLI(t, "entity", "add", "--work", work, "--label", "Ada")
	require.NoError(t, err)
	entityID := idFromOutput(t, out)

	_, err = runCLI(t, "label", "set", "--work", work, "--language", "en", "--base-form", "Ada", entityID)
	require.NoError(t, err)

	_, err = runCLI(t, "mention", "add", "--work", work, "--entity", entityID, "--language", "en", enBlock)
	require.NoError(t, err)

	_, err = runCLI(t, "alignment", "add", "--work", work, "--type", "translation", enBlock, plBlock)
	require.NoError(t, err)

	out, err = runCLI(t, "alignment", "gaps", "--work", work, "--section", sectionID)
	require.NoError(t, err)
	assert.Contains(t, out, entityID)
	assert.Contains(t, out, "pl")
}

// --- shared scenario helpers ---

func workIDFromShow(t *testing.T, work string) string {
	t.Helper()
	out, err := runCLI(t, "work", "list", "--work", work)
	require.NoError(t, err)
	return idFromOutput(t, out)
}

func addDoc(t *testing.T, work, title string) string {
	t.Helper()
	out, err := runCLI(t, "doc", "add", "--work", work, "--title", title, workIDFromShow(t, work))
	require.NoError(t, err)
	return idFromOutput(t, out)
}

func addSection(t *testing.T, work, docID, title string) string {
	t.Helper()
	out, err := runCLI(t, "section", "add", "--work", work, "--title", title, docID)
	require.NoError(t, err)
	return idFromOutput(t, out)
}

func addBlock(t *testing.T, work, sectionID, language, text string) string {
	t.Helper()
	out, err := runCLI(t, "block", "add", "--work", work, "--language", language, "--text", text, sectionID)
	require.NoError(t, err)
	return idFromOutput(t, out)
}

// idFromOutput extracts the "id: <value>" line printed by human-mode
// output.go for a freshly created (or the first listed) resource.
func idFromOutput(t *testing.T, out string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "id: ") {
			return strings.TrimPrefix(line, "id: ")
		}
	}
	t.Fatalf("no id: line in output:\n%s", out)
	return ""
}

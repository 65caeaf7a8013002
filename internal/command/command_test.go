package command

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikari-pl/littera/internal/docvalue"
	"github.com/ikari-pl/littera/internal/errs"
	"github.com/ikari-pl/littera/internal/linguistics/simple"
)

// newMockDB opens a sqlmock-backed *sql.DB, which satisfies
// dataaccess.Querier directly (*sql.DB already implements
// ExecContext/QueryContext/QueryRowContext). sqlmock is the one library in
// the retrieved pack that fakes database/sql's concrete *sql.Row/*sql.Rows
// return types without a live engine (go.mod manifests for
// iota-uz/iota-sdk, r3e-network/service_layer, and jordigilh/kubernaut
// all depend on it); internal/dataaccess's own tests instead gate on a
// live cluster binary because they exercise the SQL itself, but the
// Command Surface only needs to know that the right statement shape was
// issued, which sqlmock verifies without inventing a fake driver.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestNextOrderIndex(t *testing.T) {
	assert.Equal(t, 0, nextOrderIndex(nil))
	assert.Equal(t, 3, nextOrderIndex([]int{0, 2, 1}))
	assert.Equal(t, 6, nextOrderIndex([]int{5, -1, 3}))
}

func TestNonEmptyParentReportsInvariantViolationWithDescendants(t *testing.T) {
	err := nonEmptyParent("work", "w1", []string{"d1", "d2"})
	e, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.InvariantViolation, e.Kind)
	assert.Contains(t, e.Message, "d1")
	assert.Contains(t, e.Message, "d2")
}

func TestInitWorkDryRunTouchesNoState(t *testing.T) {
	db, mock := newMockDB(t)

	r, err := InitWork(context.Background(), db, "My Work", "", "en", docvalue.Nil, Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, "My Work", r.Title)
	assert.NotEmpty(t, r.ID, "an identifier is minted even in dry-run so the preview is realistic")
	require.NoError(t, mock.ExpectationsWereMet(), "dry-run must not issue any statement")
}

func TestInitWorkRejectsEmptyTitle(t *testing.T) {
	db, _ := newMockDB(t)
	_, err := InitWork(context.Background(), db, "", "", "en", docvalue.Nil, Options{})
	assert.Equal(t, errs.InvalidInput, errs.KindOf(err))
}

func TestInitWorkInsertsWork(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("INSERT INTO works").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "My Work", "", "en", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	r, err := InitWork(context.Background(), db, "My Work", "", "en", docvalue.Nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, "My Work", r.Title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteWorkRequiresForceWhenDocumentsExist(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM works WHERE id = ?").
		WithArgs("w1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "title", "description", "default_language", "metadata"}).
			AddRow("w1", now, "My Work", "", "en", []byte("null")))
	mock.ExpectQuery("SELECT (.+) FROM documents WHERE work_id = ?").
		WithArgs("w1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "work_id", "created_at", "title", "order_index", "metadata"}).
			AddRow("d1", "w1", now, "Doc One", 0, []byte("null")))

	err := DeleteWork(context.Background(), db, "w1", Options{})
	require.Error(t, err)
	e, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.InvariantViolation, e.Kind)
	assert.Contains(t, e.Message, "d1")
	require.NoError(t, mock.ExpectationsWereMet(), "no DELETE should be issued without --force")
}

func TestDeleteWorkWithForceDeletesDespiteDescendants(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM works WHERE id = ?").
		WithArgs("w1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "title", "description", "default_language", "metadata"}).
			AddRow("w1", now, "My Work", "", "en", []byte("null")))
	mock.ExpectQuery("SELECT (.+) FROM documents WHERE work_id = ?").
		WithArgs("w1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "work_id", "created_at", "title", "order_index", "metadata"}).
			AddRow("d1", "w1", now, "Doc One", 0, []byte("null")))
	mock.ExpectExec("DELETE FROM works WHERE id = ?").
		WithArgs("w1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := DeleteWork(context.Background(), db, "w1", Options{Force: true})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

// TestRenderMentionSurfacesByBlockPreservesOrderUnderConcurrency drives
// RenderMentionSurfacesByBlock's errgroup fan-out with two Mentions, so
// each goroutine's ReadEntity/ReadEntityLabelByLanguage pair can interleave
// with the other's on the shared mock. sqlmock's default expectation
// matching is ordered, which a concurrent caller cannot satisfy, so this
// test opens its own connection with MatchExpectationsInOrder(false)
// instead of the package's newMockDB helper.
func TestRenderMentionSurfacesByBlockPreservesOrderUnderConcurrency(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MatchExpectationsInOrder(false))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM mentions WHERE block_id = ?").
		WithArgs("blk1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "block_id", "entity_id", "language",
			"feature_case", "feature_number", "feature_role", "feature_possessive", "feature_extra",
			"observed_surface", "created_at",
		}).
			AddRow("m1", "blk1", "e1", "en", "", "", "", false, []byte("null"), "", now).
			AddRow("m2", "blk1", "e2", "en", "", "", "", false, []byte("null"), "", now))

	for _, id := range []string{"e1", "e2"} {
		mock.ExpectQuery("SELECT (.+) FROM entities WHERE id = ?").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "type_tag", "label", "properties", "status", "notes"}).
				AddRow(id, now, "person", "Entity "+id, []byte("null"), "active", ""))
	}
	mock.ExpectQuery("SELECT (.+) FROM entity_labels WHERE entity_id = \\? AND language = \\?").
		WithArgs("e1", "en").
		WillReturnRows(sqlmock.NewRows([]string{"id", "entity_id", "language", "base_form", "aliases"}).
			AddRow("l1", "e1", "en", "Alpha", []byte("[]")))
	mock.ExpectQuery("SELECT (.+) FROM entity_labels WHERE entity_id = \\? AND language = \\?").
		WithArgs("e2", "en").
		WillReturnRows(sqlmock.NewRows([]string{"id", "entity_id", "language", "base_form", "aliases"}).
			AddRow("l2", "e2", "en", "Beta", []byte("[]")))

	provider := simple.New()
	surfaces, err := RenderMentionSurfacesByBlock(context.Background(), db, "blk1", provider, nil)
	require.NoError(t, err)
	require.Len(t, surfaces, 2)
	assert.Equal(t, "Alpha", surfaces[0].Text, "result order follows ListMentionsByBlock, not goroutine completion order")
	assert.Equal(t, "Beta", surfaces[1].Text)
	require.NoError(t, mock.ExpectationsWereMet())
}

// TestRenderMentionSurfacesByBlockStopsOnFirstError confirms a lookup
// failure on one Mention cancels the others via the errgroup's shared
// context rather than the whole call silently partially succeeding.
func TestRenderMentionSurfacesByBlockStopsOnFirstError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MatchExpectationsInOrder(false))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM mentions WHERE block_id = ?").
		WithArgs("blk1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "block_id", "entity_id", "language",
			"feature_case", "feature_number", "feature_role", "feature_possessive", "feature_extra",
			"observed_surface", "created_at",
		}).
			AddRow("m1", "blk1", "e1", "en", "", "", "", false, []byte("null"), "", now))
	mock.ExpectQuery("SELECT (.+) FROM entities WHERE id = ?").
		WithArgs("e1").
		WillReturnError(sql.ErrNoRows)

	_, err = RenderMentionSurfacesByBlock(context.Background(), db, "blk1", simple.New(), nil)
	require.Error(t, err)
	e, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.NotFound, e.Kind)
}

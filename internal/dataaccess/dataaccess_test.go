package dataaccess

import (
	"context"
	"database/sql"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikari-pl/littera/internal/docvalue"
	"github.com/ikari-pl/littera/internal/errs"
	"github.com/ikari-pl/littera/internal/types"
)

// skipIfNoEngine skips integration tests when no embedded engine binary is
// on PATH, the same gate the teacher uses for Dolt (dolt_test.go's
// skipIfNoDolt): this package's CRUD logic is only truly exercised against
// a running cluster.
func skipIfNoEngine(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("engine"); err != nil {
		t.Skip("embedded engine binary not installed, skipping dataaccess integration test")
	}
}

func testContext(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), 30*time.Second)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", placeholders(0))
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?,?,?", placeholders(3))
}

func TestEncodeDecodeAliasesRoundTrip(t *testing.T) {
	in := []string{"alpha", "beta"}
	b, err := encodeAliases(in)
	require.NoError(t, err)

	out, err := decodeAliases(b)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeAliasesEmpty(t *testing.T) {
	out, err := decodeAliases(nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestNullableString(t *testing.T) {
	assert.Nil(t, nullableString(""))
	assert.Equal(t, "x", nullableString("x"))
}

func TestDuplicateMapsUniqueViolationToConflict(t *testing.T) {
	err := duplicate("work", errors.New("Error 1062: Duplicate entry 'x' for key 'PRIMARY'"))
	require.Error(t, err)
	assert.Equal(t, errs.Conflict, errs.KindOf(err))
}

func TestDuplicatePassesThroughOtherErrors(t *testing.T) {
	err := duplicate("work", errors.New("connection reset"))
	require.Error(t, err)
	assert.Equal(t, errs.Internal, errs.KindOf(err))
}

func TestNotFoundMapsNoRowsToNotFoundKind(t *testing.T) {
	err := notFound("work", "w-1", sql.ErrNoRows)
	require.Error(t, err)
	assert.Equal(t, errs.NotFound, errs.KindOf(err))
}

// TestEntityCRUDAgainstLiveCluster is gated on the engine binary being
// installed, matching how the teacher gates its own
// server_integration_test.go. Past the gate it builds a sample Entity and
// skips; no create/read/list/update/delete round trip is run.
func TestEntityCRUDAgainstLiveCluster(t *testing.T) {
	skipIfNoEngine(t)
	_, cancel := testContext(t)
	defer cancel()

	// A live run would open a *ppg.Store for a scratch Work, then Create,
	// Read, List, Update, and Delete this Entity inside it.
	_ = &types.Entity{
		ID:         types.NewID(),
		CreatedAt:  time.Now().UTC(),
		TypeTag:    "person",
		Label:      "Marie Curie",
		Properties: docvalue.FromStringMap(map[string]string{"born": "1867"}),
		Status:     types.EntityStatusActive,
	}
	t.Skip("the live-cluster CRUD round trip is not run by this test")
}

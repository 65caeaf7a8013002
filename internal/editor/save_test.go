package editor

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransactor records whether a transaction was requested without
// needing a live *sql.Tx: Session.Save's own dirty-set bookkeeping is
// what this package can test standalone. It never calls fn, so the
// statements dataaccess.ApplyBlockBatch would issue are not exercised
// here, nor by any test in internal/dataaccess.
type fakeTransactor struct {
	called bool
	err    error
}

func (f *fakeTransactor) WithTx(_ context.Context, _ func(*sql.Tx) error) error {
	f.called = true
	return f.err
}

func TestSaveIsNoOpWhenNothingIsDirty(t *testing.T) {
	s := NewSession("s1", sampleBlocks())
	tx := &fakeTransactor{}

	err := s.Save(context.Background(), tx)
	require.NoError(t, err)
	assert.False(t, tx.called, "a clean session must not open a transaction")
}

func TestSaveOpensTransactionWhenDirtyAndClearsFlagOnSuccess(t *testing.T) {
	s := NewSession("s1", sampleBlocks())
	doc := s.Document()
	fresh := &Container{BlockID: "b3", Content: []Content{Paragraph{}}}
	s.Replace(&Document{SectionID: doc.SectionID, Containers: append(append([]*Container{}, doc.Containers...), fresh)})

	tx := &fakeTransactor{}
	err := s.Save(context.Background(), tx)
	require.NoError(t, err)
	assert.True(t, tx.called)
	assert.False(t, s.IsDirty(), "a successful save clears the dirty flag")
}

func TestSaveLeavesDocumentDirtyOnFailure(t *testing.T) {
	s := NewSession("s1", sampleBlocks())
	doc := s.Document()
	fresh := &Container{BlockID: "b3", Content: []Content{Paragraph{}}}
	s.Replace(&Document{SectionID: doc.SectionID, Containers: append(append([]*Container{}, doc.Containers...), fresh)})

	tx := &fakeTransactor{err: assert.AnError}
	err := s.Save(context.Background(), tx)
	require.Error(t, err)
	assert.True(t, s.IsDirty(), "a failed save must leave the dirty flag set")
}

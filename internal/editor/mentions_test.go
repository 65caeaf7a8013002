package editor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedCandidates(calls *int) CandidateSource {
	return func(_ context.Context) ([]EntityCandidate, error) {
		*calls++
		return []EntityCandidate{
			{EntityID: "e1", Label: "Ada Lovelace"},
			{EntityID: "e2", Label: "Alan Turing"},
			{EntityID: "e3", Label: "Grace Hopper"},
		}, nil
	}
}

func TestMentionSessionCachesCandidatesAfterFirstFetch(t *testing.T) {
	calls := 0
	s := NewMentionSession("c1", 0, fixedCandidates(&calls))

	_, err := s.Candidates(context.Background())
	require.NoError(t, err)
	_, err = s.Candidates(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}

func TestMentionSessionFilterPrefixBeforeSubstring(t *testing.T) {
	calls := 0
	s := NewMentionSession("c1", 0, fixedCandidates(&calls))

	out, err := s.Filter(context.Background(), "ada")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Ada Lovelace", out[0].Label)

	out, err = s.Filter(context.Background(), "a")
	require.NoError(t, err)
	require.Len(t, out, 3, "all three labels contain 'a'")
}

func TestAcceptInsertsAtomicMentionNode(t *testing.T) {
	before := []Inline{Text{Value: "Hello "}}
	after := []Inline{Text{Value: " there."}}
	out := Accept(before, EntityCandidate{EntityID: "e1", Label: "Ada"}, after)

	require.Len(t, out, 3)
	m, ok := out[1].(Mention)
	require.True(t, ok)
	assert.Equal(t, "Ada", m.Label)
	assert.Equal(t, "e1", m.EntityID)
}

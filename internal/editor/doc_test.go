package editor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikari-pl/littera/internal/types"
)

func TestNewDocumentPreservesBlockOrderAndIdentifiers(t *testing.T) {
	now := time.Now().UTC()
	blocks := []*types.Block{
		{ID: "b1", CreatedAt: now, Kind: types.BlockKindProse, Language: "en", SourceText: "One."},
		{ID: "b2", CreatedAt: now, Kind: types.BlockKindHeading, Language: "en", SourceText: "# Two"},
	}
	doc := NewDocument("s1", blocks)

	require.Len(t, doc.Containers, 2)
	assert.Equal(t, "b1", doc.Containers[0].BlockID)
	assert.Equal(t, "b2", doc.Containers[1].BlockID)
	assert.Equal(t, types.BlockKindHeading, doc.Containers[1].Kind)
}

func TestNewDocumentOnEmptyBlockListYieldsOneContainer(t *testing.T) {
	doc := NewDocument("s1", nil)
	require.Len(t, doc.Containers, 1)
}

func TestCodeContainerHoldsRawTextOnly(t *testing.T) {
	blocks := []*types.Block{
		{ID: "b1", Kind: types.BlockKindCode, Language: "go", SourceText: "x := 1"},
	}
	doc := NewDocument("s1", blocks)
	require.Len(t, doc.Containers[0].Content, 1)
	cb, ok := doc.Containers[0].Content[0].(CodeBlock)
	require.True(t, ok)
	assert.Equal(t, "x := 1", cb.Text)
}

package editor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikari-pl/littera/internal/types"
)

func sampleBlocks() []*types.Block {
	now := time.Now().UTC()
	return []*types.Block{
		{ID: "b1", SectionID: "s1", CreatedAt: now, Kind: types.BlockKindProse, Language: "en", OrderIndex: 0, SourceText: "First."},
		{ID: "b2", SectionID: "s1", CreatedAt: now, Kind: types.BlockKindProse, Language: "en", OrderIndex: 1, SourceText: "Second."},
	}
}

func TestNewSessionIsNotDirty(t *testing.T) {
	s := NewSession("s1", sampleBlocks())
	assert.False(t, s.IsDirty())
	d := s.Diff()
	assert.Empty(t, d.Create)
	assert.Empty(t, d.Update)
	assert.Empty(t, d.Delete)
}

func TestUnchangedContainerIsClean(t *testing.T) {
	s := NewSession("s1", sampleBlocks())
	doc := s.Document()
	// Rebuild the slice without touching any *Container pointer.
	same := &Document{SectionID: doc.SectionID, Containers: append([]*Container{}, doc.Containers...)}
	s.Replace(same)
	assert.False(t, s.IsDirty())
}

func TestReplacingAContainerPointerMarksUpdate(t *testing.T) {
	s := NewSession("s1", sampleBlocks())
	doc := s.Document()

	changed := &Container{BlockID: doc.Containers[0].BlockID, Kind: types.BlockKindProse, Language: "en",
		Content: []Content{Paragraph{Inline: []Inline{Text{Value: "Edited."}}}}}
	newContainers := append([]*Container{}, doc.Containers...)
	newContainers[0] = changed
	s.Replace(&Document{SectionID: doc.SectionID, Containers: newContainers})

	d := s.Diff()
	require.Len(t, d.Update, 1)
	assert.Equal(t, doc.Containers[0].BlockID, d.Update[0].BlockID)
	assert.Empty(t, d.Create)
	assert.Empty(t, d.Delete)
}

func TestAddingAContainerMarksCreate(t *testing.T) {
	s := NewSession("s1", sampleBlocks())
	doc := s.Document()

	fresh := &Container{BlockID: types.NewID(), Kind: types.BlockKindProse, Language: "en",
		Content: []Content{Paragraph{}}}
	s.Replace(&Document{SectionID: doc.SectionID, Containers: append(append([]*Container{}, doc.Containers...), fresh)})

	d := s.Diff()
	require.Len(t, d.Create, 1)
	assert.Equal(t, fresh.BlockID, d.Create[0].BlockID)
}

func TestRemovingAContainerMarksDelete(t *testing.T) {
	s := NewSession("s1", sampleBlocks())
	doc := s.Document()

	s.Replace(&Document{SectionID: doc.SectionID, Containers: doc.Containers[:1]})

	d := s.Diff()
	require.Len(t, d.Delete, 1)
	assert.Equal(t, doc.Containers[1].BlockID, d.Delete[0])
}

func TestDeletingLastContainerInsertsEmptyReplacement(t *testing.T) {
	s := NewSession("s1", sampleBlocks()[:1])
	doc := s.Document()

	s.Replace(&Document{SectionID: doc.SectionID, Containers: nil})
	require.Len(t, s.Document().Containers, 1, "a document must always have at least one container")
	assert.NotEqual(t, doc.Containers[0].BlockID, s.Document().Containers[0].BlockID)
}

func TestEditingOneOfThreeBlocksOnlyDirtiesThatOne(t *testing.T) {
	now := time.Now().UTC()
	blocks := []*types.Block{
		{ID: "b1", SectionID: "s1", CreatedAt: now, Kind: types.BlockKindProse, Language: "en", OrderIndex: 0, SourceText: "First."},
		{ID: "b2", SectionID: "s1", CreatedAt: now, Kind: types.BlockKindProse, Language: "en", OrderIndex: 1, SourceText: "Second."},
		{ID: "b3", SectionID: "s1", CreatedAt: now, Kind: types.BlockKindProse, Language: "en", OrderIndex: 2, SourceText: "Third."},
	}
	s := NewSession("s1", blocks)
	doc := s.Document()

	edited := &Container{BlockID: doc.Containers[1].BlockID, Kind: types.BlockKindProse, Language: "en",
		Content: []Content{Paragraph{Inline: []Inline{Text{Value: "Second, edited."}}}}}
	newContainers := append([]*Container{}, doc.Containers...)
	newContainers[1] = edited
	s.Replace(&Document{SectionID: doc.SectionID, Containers: newContainers})

	d := s.Diff()
	require.Len(t, d.Update, 1, "exactly one batch-update entry for the one edited block")
	assert.Equal(t, blocks[1].ID, d.Update[0].BlockID)
	assert.Empty(t, d.Create)
	assert.Empty(t, d.Delete)
}

func TestMarkSavedClearsDirtyFlag(t *testing.T) {
	s := NewSession("s1", sampleBlocks())
	doc := s.Document()

	fresh := &Container{BlockID: types.NewID(), Kind: types.BlockKindProse, Content: []Content{Paragraph{}}}
	s.Replace(&Document{SectionID: doc.SectionID, Containers: append(append([]*Container{}, doc.Containers...), fresh)})
	require.True(t, s.IsDirty())

	s.markSaved()
	assert.False(t, s.IsDirty())
}

package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikari-pl/littera/internal/types"
)

func TestRecognizeCommandRequiresEmptyNode(t *testing.T) {
	_, ok := RecognizeCommand("/quote", false)
	assert.False(t, ok, "the palette must only activate at the start of an otherwise-empty content node")
}

func TestRecognizeCommandTokens(t *testing.T) {
	cases := []struct {
		text  string
		kind  types.BlockKind
		level int
	}{
		{"/code", types.BlockKindCode, 0},
		{"/quote", types.BlockKindQuote, 0},
		{"/hr", types.BlockKindHR, 0},
		{"/heading", types.BlockKindHeading, 1},
		{"/h3", types.BlockKindHeading, 3},
	}
	for _, tc := range cases {
		cmd, ok := RecognizeCommand(tc.text, true)
		require.True(t, ok, tc.text)
		assert.Equal(t, tc.kind, cmd.Kind)
		assert.Equal(t, tc.level, cmd.Level)
	}
}

func TestRecognizeCommandRejectsUnknownToken(t *testing.T) {
	_, ok := RecognizeCommand("/bogus", true)
	assert.False(t, ok)
}

func TestRecognizeCommandRejectsOutOfRangeHeadingLevel(t *testing.T) {
	_, ok := RecognizeCommand("/h9", true)
	assert.False(t, ok)
}

func TestApplyHorizontalRuleReplacesWithHRPlusEmptyNode(t *testing.T) {
	c := &Container{BlockID: "b1", Kind: types.BlockKindProse, Content: []Content{Paragraph{}}}
	out := Apply(c, StructuralCommand{Kind: types.BlockKindHR})

	require.Len(t, out.Content, 2)
	_, isHR := out.Content[0].(HR)
	assert.True(t, isHR)
	_, isParagraph := out.Content[1].(Paragraph)
	assert.True(t, isParagraph)
	assert.Equal(t, c.BlockID, out.BlockID, "structural commands mutate block type, never the container identity")
}

func TestApplyHeadingSetsLevel(t *testing.T) {
	c := &Container{BlockID: "b1", Kind: types.BlockKindProse, Content: []Content{Paragraph{}}}
	out := Apply(c, StructuralCommand{Kind: types.BlockKindHeading, Level: 2})

	require.Len(t, out.Content, 1)
	h, ok := out.Content[0].(Heading)
	require.True(t, ok)
	assert.Equal(t, 2, h.Level)
}

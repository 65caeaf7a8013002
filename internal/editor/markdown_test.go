package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikari-pl/littera/internal/types"
)

func TestParseSerializeFixedPoint(t *testing.T) {
	cases := []struct {
		name string
		kind types.BlockKind
		src  string
	}{
		{"plain paragraph", types.BlockKindProse, "Hello there."},
		{"heading", types.BlockKindHeading, "# A Title"},
		{"hr", types.BlockKindHR, "---"},
		{"quote", types.BlockKindQuote, "> A quoted line."},
		{
			"mention literal",
			types.BlockKindProse,
			"Hello {@Ada|entity:11111111-1111-1111-1111-111111111111} there.",
		},
		{"emphasis", types.BlockKindProse, "a *b* c"},
		{"strong", types.BlockKindProse, "a **b** c"},
		{"code span", types.BlockKindProse, "a `b` c"},
		{"code block", types.BlockKindCode, "func main() {\n\tfmt.Println(1)\n}"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			content, err := Parse(tc.kind, tc.src)
			require.NoError(t, err)
			once := Serialize(tc.kind, content)

			content2, err := Parse(tc.kind, once)
			require.NoError(t, err)
			twice := Serialize(tc.kind, content2)

			assert.Equal(t, once, twice, "round-tripping source_text through the document model twice must reach a fixed point")
		})
	}
}

func TestMentionLiteralRoundTripsByteExact(t *testing.T) {
	src := "Hello {@Ada|entity:11111111-1111-1111-1111-111111111111} there."
	content, err := Parse(types.BlockKindProse, src)
	require.NoError(t, err)
	out := Serialize(types.BlockKindProse, content)
	assert.Equal(t, src, out)
}

func TestMentionWithUnresolvedIdentifierStillRoundTrips(t *testing.T) {
	src := "See {@Unknown|entity:does-not-exist} for details."
	content, err := Parse(types.BlockKindProse, src)
	require.NoError(t, err)
	out := Serialize(types.BlockKindProse, content)
	assert.Equal(t, src, out)
}

func TestCodeBlockPreservesRawTextVerbatim(t *testing.T) {
	src := "func main() {\n\tfmt.Println(\"hi\")\n}"
	content, err := Parse(types.BlockKindCode, src)
	require.NoError(t, err)
	require.Len(t, content, 1)
	cb, ok := content[0].(CodeBlock)
	require.True(t, ok)
	assert.Equal(t, src, cb.Text)
	assert.Equal(t, src, Serialize(types.BlockKindCode, content))
}

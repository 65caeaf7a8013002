package docvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripJSON(t *testing.T) {
	v := Of(map[string]any{
		"lang":    "en",
		"count":   3,
		"aliases": []any{"a", "b"},
	})

	data, err := EncodeJSON(v)
	require.NoError(t, err)

	decoded, err := ParseJSON(data)
	require.NoError(t, err)

	assert.Equal(t, "en", decoded.Get("lang").String())
	assert.Equal(t, 3, decoded.Get("count").Int())
	assert.Equal(t, []string{"a", "b"}, func() []string {
		var out []string
		for _, item := range decoded.Get("aliases").Items() {
			out = append(out, item.String())
		}
		return out
	}())
}

func TestNilValueEncodesAsEmptyObject(t *testing.T) {
	data, err := EncodeJSON(Nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestParseEmptyBytesIsNil(t *testing.T) {
	v, err := ParseJSON(nil)
	require.NoError(t, err)
	assert.True(t, v.IsNil())
}

func TestFromStringMap(t *testing.T) {
	v := FromStringMap(map[string]string{"genre": "epistolary"})
	assert.Equal(t, "epistolary", v.Get("genre").String())
}

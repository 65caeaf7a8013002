package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSortByKeyOrdersByIndexThenTimeThenID(t *testing.T) {
	now := time.Now()
	items := []SortKey{
		{OrderIndex: 1, CreatedAt: now, ID: "b"},
		{OrderIndex: 1, CreatedAt: now, ID: "a"},
		{OrderIndex: 0, CreatedAt: now.Add(time.Hour), ID: "z"},
	}
	SortByKey(items, func(k SortKey) SortKey { return k })

	assert.Equal(t, "z", items[0].ID)
	assert.Equal(t, "a", items[1].ID)
	assert.Equal(t, "b", items[2].ID)
}

func TestRegisterBlockKindExtendsVocabulary(t *testing.T) {
	assert.False(t, IsKnownBlockKind("footnote"))
	RegisterBlockKind("footnote")
	assert.True(t, IsKnownBlockKind("footnote"))
}

func TestNewIDIsUnique(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}

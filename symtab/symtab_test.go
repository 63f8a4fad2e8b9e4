package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertAndFind(t *testing.T) {
	tab := New()
	require.True(t, tab.Insert("FIRST", 0x1000))
	addr, ok := tab.Find("FIRST")
	require.True(t, ok)
	assert.Equal(t, uint32(0x1000), addr)

	_, ok = tab.Find("NOPE")
	assert.False(t, ok)
}

func TestInsertRejectsDuplicate(t *testing.T) {
	tab := New()
	require.True(t, tab.Insert("FIRST", 0x1000))
	assert.False(t, tab.Insert("FIRST", 0x2000))

	addr, ok := tab.Find("FIRST")
	require.True(t, ok)
	assert.Equal(t, uint32(0x1000), addr, "a rejected duplicate must not overwrite the existing value")
}

func TestIterSortedOrdersByLabel(t *testing.T) {
	tab := New()
	tab.Insert("ZEBRA", 3)
	tab.Insert("ALPHA", 1)
	tab.Insert("MID", 2)

	syms := tab.IterSorted()
	var labels []string
	for _, s := range syms {
		labels = append(labels, s.Label)
	}
	assert.Equal(t, []string{"ALPHA", "MID", "ZEBRA"}, labels)
	assert.Equal(t, 3, tab.Len())
}

package collector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/treeplot/internal/types"
)

func newTestCollector() *Collector {
	c := New(NewInsertionLog())
	c.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return c
}

func TestCollect_RangeTree(t *testing.T) {
	c := newTestCollector()

	sub := c.Collect(types.ModeRangeTree, map[string]string{"x": "4", "y": "-9"})

	assert.Equal(t, "/add-2d-range-tree", sub.Endpoint)
	assert.Equal(t, "x=4&y=-9", sub.Body)
	assert.Equal(t, "", sub.Focus)
	assert.Equal(t, uint64(1), sub.Seq)

	entries := c.Log().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"4", "-9"}, entries[0].Fields)
	assert.Equal(t, "(4, -9)", entries[0].Text)
}

func TestCollect_RedBlackTree(t *testing.T) {
	c := newTestCollector()

	sub := c.Collect(types.ModeRedBlackTree, map[string]string{"k": "17", "x": "ignored"})

	assert.Equal(t, "/add-red-black-tree", sub.Endpoint)
	assert.Equal(t, "k=17", sub.Body)
	assert.Equal(t, "k", sub.Focus)
	assert.IsType(t, types.KeyInsertion{}, sub.Record)

	entries := c.Log().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "17", entries[0].Text)
}

func TestCollect_NonNumericStillSent(t *testing.T) {
	c := newTestCollector()

	sub := c.Collect(types.ModeRangeTree, map[string]string{"x": "abc", "y": "2"})

	assert.Equal(t, "x=NaN&y=2", sub.Body)
	entries := c.Log().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "abc", entries[0].Fields[0])
}

func TestCollect_PrependsMostRecentFirst(t *testing.T) {
	c := newTestCollector()

	for _, k := range []string{"1", "2", "3"} {
		c.Collect(types.ModeRedBlackTree, map[string]string{"k": k})
	}

	entries := c.Log().Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "3", entries[0].Text)
	assert.Equal(t, "1", entries[2].Text)
	assert.Equal(t, uint64(3), entries[0].Seq)
}

func TestInsertionLog_EntriesIsCopy(t *testing.T) {
	l := NewInsertionLog()
	l.Prepend(types.LogEntry{Text: "a", Fields: []string{"a"}})

	got := l.Entries()
	got[0].Text = "changed"

	assert.Equal(t, "a", l.Entries()[0].Text)
	assert.Equal(t, "a\n", l.String())
}

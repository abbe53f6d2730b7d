package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/treeplot/internal/rangetree"
)

func newManager(t *testing.T) (*Manager, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "treeplot.db")
	m, err := NewManager(path)
	require.NoError(t, err)
	return m, path
}

func TestManager_SaveAndLoad(t *testing.T) {
	m, _ := newManager(t)
	defer m.Close()

	require.NoError(t, m.SaveKey(5, 1))
	require.NoError(t, m.SaveKey(-3, 2))
	require.NoError(t, m.SavePoint(rangetree.Point{X: 1, Y: 2}, 3))
	require.NoError(t, m.SavePoint(rangetree.Point{X: 1, Y: 2}, 4))

	snap, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, []int64{5, -3}, snap.Keys)
	assert.Equal(t, []rangetree.Point{{X: 1, Y: 2}, {X: 1, Y: 2}}, snap.Points)
}

func TestManager_PersistsAcrossReopen(t *testing.T) {
	m, path := newManager(t)
	require.NoError(t, m.SaveKey(42, 1))
	require.NoError(t, m.Close())

	m2, err := NewManager(path)
	require.NoError(t, err)
	defer m2.Close()

	snap, err := m2.Load()
	require.NoError(t, err)
	assert.Equal(t, []int64{42}, snap.Keys)
	assert.Empty(t, snap.Points)
}

func TestManager_StatsAndClear(t *testing.T) {
	m, _ := newManager(t)
	defer m.Close()

	s, err := m.Stats()
	require.NoError(t, err)
	assert.Zero(t, s.Keys)
	assert.True(t, s.LastInsert.IsZero())

	require.NoError(t, m.SaveKey(1, 1))
	require.NoError(t, m.SavePoint(rangetree.Point{X: 3, Y: 4}, 2))

	s, err = m.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, s.Keys)
	assert.Equal(t, 1, s.Points)
	assert.False(t, s.LastInsert.IsZero())

	require.NoError(t, m.Clear())
	snap, err := m.Load()
	require.NoError(t, err)
	assert.Empty(t, snap.Keys)
	assert.Empty(t, snap.Points)
}

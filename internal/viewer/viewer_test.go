package viewer

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngURI(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestManager_CreatesOnceThenRefreshes(t *testing.T) {
	m := NewManager(DefaultOptions())
	_, ok := m.Widget()
	assert.False(t, ok)

	created, err := m.CreateOrRefresh(pngURI(t, 4, 3))
	require.NoError(t, err)
	assert.True(t, created)
	first, ok := m.Widget()
	require.True(t, ok)
	assert.Equal(t, image.Pt(4, 3), first.Natural())
	assert.Equal(t, "(4 x 3)", first.Title())

	second := pngURI(t, 8, 5)
	created, err = m.CreateOrRefresh(second)
	require.NoError(t, err)
	assert.False(t, created)

	again, _ := m.Widget()
	assert.Same(t, first, again)
	assert.Equal(t, image.Pt(8, 5), again.Natural())
	assert.Equal(t, second, m.Element().Src)
	assert.Equal(t, 2, again.Views())
}

func TestManager_ViewedHookResetsZoom(t *testing.T) {
	m := NewManager(DefaultOptions())
	_, err := m.CreateOrRefresh(pngURI(t, 2, 2))
	require.NoError(t, err)

	w, _ := m.Widget()
	require.NoError(t, w.Invoke(ActionZoomIn))
	assert.InDelta(t, 1.1, w.Ratio(), 1e-9)

	_, err = m.CreateOrRefresh(pngURI(t, 2, 2))
	require.NoError(t, err)
	assert.Equal(t, 1.0, w.Ratio())
}

func TestManager_DecodeErrorStillCreates(t *testing.T) {
	m := NewManager(DefaultOptions())
	created, err := m.CreateOrRefresh("data:image/png;base64,????")
	assert.True(t, created)
	assert.Error(t, err)

	w, ok := m.Widget()
	require.True(t, ok)
	assert.Nil(t, w.Image())
	assert.Contains(t, w.Render(20, 2), "base64")
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.False(t, opts.Fullscreen)
	assert.True(t, opts.Inline)
	assert.False(t, opts.Navbar)
	assert.Equal(t, []Action{ActionZoomIn, ActionZoomOut, ActionOneToOne, ActionReset}, opts.Toolbar.Buttons())
}

func TestWidget_ToolbarActions(t *testing.T) {
	m := NewManager(DefaultOptions())
	_, err := m.CreateOrRefresh(pngURI(t, 2, 2))
	require.NoError(t, err)
	w, _ := m.Widget()

	require.NoError(t, w.Invoke(ActionZoomOut))
	assert.InDelta(t, 0.9, w.Ratio(), 1e-9)

	require.NoError(t, w.Invoke(ActionOneToOne))
	assert.Equal(t, 1.0, w.Ratio())
	require.NoError(t, w.Invoke(ActionOneToOne))
	assert.InDelta(t, 0.9, w.Ratio(), 1e-9)

	w.Move(3, -2)
	require.NoError(t, w.Invoke(ActionReset))
	x, y := w.Offset()
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)
	assert.Equal(t, 1.0, w.Ratio())

	assert.Error(t, w.Invoke(ActionRotateLeft))
}

func TestWidget_RenderSize(t *testing.T) {
	m := NewManager(DefaultOptions())
	_, err := m.CreateOrRefresh(pngURI(t, 6, 4))
	require.NoError(t, err)
	w, _ := m.Widget()

	out := w.Render(10, 3)
	assert.Len(t, strings.Split(out, "\n"), 3)
	assert.Contains(t, out, upperHalfBlock)
}

func TestDecodeDataURI(t *testing.T) {
	_, _, err := DecodeDataURI("Invalid key")
	assert.ErrorIs(t, err, ErrNotImageURI)

	mt, data, err := DecodeDataURI("data:image/svg+xml,%3Csvg%3E")
	require.NoError(t, err)
	assert.Equal(t, "image/svg+xml", mt)
	assert.Equal(t, "<svg>", string(data))
}

func TestNewManager_DiscardsLogsByDefault(t *testing.T) {
	m := NewManager(DefaultOptions())
	assert.Equal(t, slog.DiscardHandler, m.logger.Handler())
}

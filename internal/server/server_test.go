package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/treeplot/internal/rangetree"
	"github.com/studiowebux/treeplot/internal/store"
	"github.com/studiowebux/treeplot/internal/types"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(&Config{Logging: true})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func postForm(t *testing.T, ts *httptest.Server, path string, form url.Values) (int, string) {
	t.Helper()
	resp, err := http.PostForm(ts.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAddRedBlack_ReturnsImage(t *testing.T) {
	s, ts := newTestServer(t)

	status, body := postForm(t, ts, types.EndpointRedBlackTree, url.Values{"k": {"7"}})
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, strings.HasPrefix(body, "data:image/png;base64,"))
	assert.Equal(t, []int64{7}, s.Snapshot().RedBlack.Keys)
}

func TestAddRedBlack_NaN(t *testing.T) {
	s, ts := newTestServer(t)

	status, body := postForm(t, ts, types.EndpointRedBlackTree, url.Values{"k": {"NaN"}})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, MessageInvalidKey, body)
	assert.Zero(t, s.Snapshot().RedBlack.Size)
}

func TestAddRange_ReturnsImageAndKeepsDuplicates(t *testing.T) {
	s, ts := newTestServer(t)

	for i := 0; i < 2; i++ {
		status, body := postForm(t, ts, types.EndpointRangeTree, url.Values{"x": {"1"}, "y": {"2"}})
		assert.Equal(t, http.StatusOK, status)
		assert.True(t, strings.HasPrefix(body, "data:image/png;base64,"))
	}
	assert.Equal(t, 2, s.Snapshot().Range.Size)
}

func TestAddRange_InvalidPoint(t *testing.T) {
	_, ts := newTestServer(t)

	_, body := postForm(t, ts, types.EndpointRangeTree, url.Values{"x": {"1"}, "y": {"NaN"}})
	assert.Equal(t, MessageInvalidPoint, body)
}

func TestAdd_WrongMethod(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + types.EndpointRedBlackTree)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestTree_JSON(t *testing.T) {
	_, ts := newTestServer(t)
	postForm(t, ts, types.EndpointRedBlackTree, url.Values{"k": {"2"}})
	postForm(t, ts, types.EndpointRedBlackTree, url.Values{"k": {"1"}})

	resp, err := http.Get(ts.URL + "/tree")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var snap TreeSnapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, []int64{1, 2}, snap.RedBlack.Keys)
	require.NotNil(t, snap.RedBlack.Root)
	require.NotNil(t, snap.RedBlack.Root.Red)
	assert.False(t, *snap.RedBlack.Root.Red)
	assert.Empty(t, snap.Range.Points)
}

func TestHealthAndMetrics(t *testing.T) {
	_, ts := newTestServer(t)
	postForm(t, ts, types.EndpointRedBlackTree, url.Values{"k": {"1"}})
	postForm(t, ts, types.EndpointRedBlackTree, url.Values{"k": {"x"}})

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	text := string(body)
	assert.Contains(t, text, `treeplot_insertions_total{structure="red-black-tree"} 1`)
	assert.Contains(t, text, `treeplot_invalid_insertions_total{structure="red-black-tree"} 1`)
	assert.Contains(t, text, "treeplot_render_duration_seconds")
}

func TestRequestLog(t *testing.T) {
	s, ts := newTestServer(t)
	postForm(t, ts, types.EndpointRedBlackTree, url.Values{"k": {"3"}})
	postForm(t, ts, types.EndpointRedBlackTree, url.Values{"k": {"NaN"}})

	logs := s.GetLogs()
	require.Len(t, logs, 2)
	assert.Equal(t, "k=3", logs[0].Body)
	assert.Equal(t, "image", logs[0].Outcome)
	assert.Equal(t, "message", logs[1].Outcome)

	s.ClearLogs()
	assert.Empty(t, s.GetLogs())
}

func TestWithStore_RestoresTrees(t *testing.T) {
	path := filepath.Join(t.TempDir(), "treeplot.db")
	st, err := store.NewManager(path)
	require.NoError(t, err)

	s, err := NewServer(&Config{}).WithStore(st)
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	postForm(t, ts, types.EndpointRedBlackTree, url.Values{"k": {"5"}})
	postForm(t, ts, types.EndpointRangeTree, url.Values{"x": {"1"}, "y": {"1"}})
	ts.Close()
	require.NoError(t, st.Close())

	st2, err := store.NewManager(path)
	require.NoError(t, err)
	defer st2.Close()
	s2, err := NewServer(&Config{}).WithStore(st2)
	require.NoError(t, err)

	snap := s2.Snapshot()
	assert.Equal(t, []int64{5}, snap.RedBlack.Keys)
	assert.Equal(t, 1, snap.Range.Size)
}

func TestGetAddress(t *testing.T) {
	assert.Equal(t, "http://localhost:9090", NewServer(&Config{Addr: ":9090"}).GetAddress())
	assert.Equal(t, "http://127.0.0.1:1", NewServer(&Config{Addr: "127.0.0.1:1"}).GetAddress())
}

func TestStartStop(t *testing.T) {
	s := NewServer(&Config{Addr: "127.0.0.1:0"})
	require.NoError(t, s.Start())
	defer s.Stop(context.Background())

	resp, err := http.Get(s.GetAddress() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStart_AddressInUse(t *testing.T) {
	s := NewServer(&Config{Addr: "127.0.0.1:0"})
	require.NoError(t, s.Start())
	defer s.Stop(context.Background())

	other := NewServer(&Config{Addr: strings.TrimPrefix(s.GetAddress(), "http://")})
	assert.Error(t, other.Start())
}

func getJSON(t *testing.T, ts *httptest.Server, path string, v any) int {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func TestQuery_ReturnsPointsInRectangle(t *testing.T) {
	_, ts := newTestServer(t)
	for _, p := range [][2]string{{"1", "1"}, {"5", "5"}, {"3", "9"}, {"4", "2"}} {
		postForm(t, ts, types.EndpointRangeTree, url.Values{"x": {p[0]}, "y": {p[1]}})
	}

	var res RangeQuery
	status := getJSON(t, ts, "/query?x1=2&x2=5&y1=0&y2=6", &res)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, []rangetree.Point{{X: 4, Y: 2}, {X: 5, Y: 5}}, res.Points)

	status = getJSON(t, ts, "/query?x1=9&x2=10&y1=0&y2=1", &res)
	require.Equal(t, http.StatusOK, status)
	assert.Zero(t, res.Count)
	assert.NotNil(t, res.Points)

	status = getJSON(t, ts, "/query?x1=a&x2=1&y1=0&y2=1", &res)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestLookup_PresenceAndSuccessor(t *testing.T) {
	_, ts := newTestServer(t)
	for _, k := range []string{"10", "20", "30"} {
		postForm(t, ts, types.EndpointRedBlackTree, url.Values{"k": {k}})
	}

	var res KeyLookup
	require.Equal(t, http.StatusOK, getJSON(t, ts, "/lookup?k=20", &res))
	assert.True(t, res.Present)
	require.NotNil(t, res.Successor)
	assert.Equal(t, int64(30), *res.Successor)

	res = KeyLookup{}
	require.Equal(t, http.StatusOK, getJSON(t, ts, "/lookup?k=15", &res))
	assert.False(t, res.Present)
	assert.Equal(t, int64(20), *res.Successor)

	res = KeyLookup{}
	require.Equal(t, http.StatusOK, getJSON(t, ts, "/lookup?k=30", &res))
	assert.Nil(t, res.Successor)

	assert.Equal(t, http.StatusBadRequest, getJSON(t, ts, "/lookup?k=NaN", &res))
}

func TestLogsEndpoint(t *testing.T) {
	s, ts := newTestServer(t)
	postForm(t, ts, types.EndpointRedBlackTree, url.Values{"k": {"1"}})
	postForm(t, ts, types.EndpointRedBlackTree, url.Values{"k": {"x"}})

	var logs []RequestLog
	require.Equal(t, http.StatusOK, getJSON(t, ts, "/logs", &logs))
	require.Len(t, logs, 2)
	assert.Equal(t, "image", logs[0].Outcome)
	assert.Equal(t, "message", logs[1].Outcome)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/logs", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// the DELETE itself is logged after the clear
	logs = s.GetLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, http.MethodDelete, logs[0].Method)
}

func TestLogsSince(t *testing.T) {
	s := NewServer(&Config{Logging: true, MaxLogs: 2})
	for i := 0; i < 3; i++ {
		s.logRequest(RequestLog{Path: "/p"})
	}

	logs := s.GetLogs()
	require.Len(t, logs, 2)
	assert.Equal(t, uint64(2), logs[0].Seq)
	assert.Equal(t, uint64(3), logs[1].Seq)

	assert.Len(t, s.LogsSince(0), 2)
	since := s.LogsSince(2)
	require.Len(t, since, 1)
	assert.Equal(t, uint64(3), since[0].Seq)
	assert.Empty(t, s.LogsSince(3))

	select {
	case <-s.NotifyChannel():
	default:
		t.Fatal("expected a notification")
	}
}

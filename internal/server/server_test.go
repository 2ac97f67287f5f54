package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/Phiocto/calculi"
	"github.com/Phiocto/calculi/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(config.DefaultConfig().Server, zap.NewNop()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func postTool(t *testing.T, srv *httptest.Server, body string) (*http.Response, calculi.ToolResponse) {
	t.Helper()
	resp, err := srv.Client().Post(srv.URL+"/tool", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out calculi.ToolResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func TestHandleTool_Derive(t *testing.T) {
	srv := newTestServer(t)

	resp, out := postTool(t, srv, `{"tool":"derive","params":{"text":"x ^ 3"}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, out.Error)
	assert.Equal(t, "3 * x ^ 2", out.String)
	assert.NotEmpty(t, resp.Header.Get(requestIDHeader))
}

func TestHandleTool_LongSum(t *testing.T) {
	srv := newTestServer(t)

	text := "x" + strings.Repeat("+x", 199)
	resp, out := postTool(t, srv, `{"tool":"parse","params":{"text":"`+text+`"}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, out.Error)
	assert.Equal(t, "x"+strings.Repeat(" + x", 199), out.LaTeX)
}

func TestHandleTool_SolveFor(t *testing.T) {
	srv := newTestServer(t)

	_, out := postTool(t, srv, `{"tool":"solve_for","params":{"text":"(16 + x) / 4","outcome":8}}`)
	assert.Equal(t, "x = 16", out.String)
}

func TestHandleTool_ToolErrorIsOK(t *testing.T) {
	srv := newTestServer(t)

	resp, out := postTool(t, srv, `{"tool":"derive","params":{"text":"abs(x)"}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, out.Error, "undefined")
}

func TestHandleTool_RequestIDEchoed(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/tool", strings.NewReader(`{"tool":"tool_spec"}`))
	require.NoError(t, err)
	req.Header.Set(requestIDHeader, "abc-123")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "abc-123", resp.Header.Get(requestIDHeader))
}

func TestHandleTool_BadRequests(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"tool":`},
		{"unknown field", `{"tool":"parse","extra":1}`},
		{"trailing data", `{"tool":"parse"} {"tool":"parse"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := postTool(t, srv, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestHandleTool_BodyLimit(t *testing.T) {
	cfg := config.DefaultConfig().Server
	cfg.MaxBodyBytes = 32
	srv := httptest.NewServer(New(cfg, nil).Handler())
	defer srv.Close()

	body := `{"tool":"parse","params":{"text":"` + strings.Repeat("x+", 64) + `x"}}`
	resp, _ := postTool(t, srv, body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleTool_RateLimited(t *testing.T) {
	cfg := config.DefaultConfig().Server
	cfg.RateLimit = 0.001
	cfg.RateBurst = 1
	srv := httptest.NewServer(New(cfg, zap.NewNop()).Handler())
	defer srv.Close()

	first, _ := postTool(t, srv, `{"tool":"tool_spec"}`)
	assert.Equal(t, http.StatusOK, first.StatusCode)

	second, _ := postTool(t, srv, `{"tool":"tool_spec"}`)
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
	assert.Equal(t, "1", second.Header.Get("Retry-After"))
}

func TestHandleTool_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/tool")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestSchemaAndHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/schema")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var schema map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&schema))
	assert.Contains(t, schema, "tools")

	health, err := srv.Client().Get(srv.URL + "/health")
	require.NoError(t, err)
	defer health.Body.Close()
	var status map[string]interface{}
	require.NoError(t, json.NewDecoder(health.Body).Decode(&status))
	assert.Equal(t, "ok", status["status"])
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	cfg := config.DefaultConfig().Server
	cfg.ShutdownTimeout = "1s"
	s := New(cfg, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	require.Eventually(t, func() bool {
		resp, err := client.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRun_ListenError(t *testing.T) {
	cfg := config.DefaultConfig().Server
	cfg.Addr = "not-an-address"
	err := New(cfg, nil).Run(context.Background())
	assert.ErrorContains(t, err, "failed to listen")
}

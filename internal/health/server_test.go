package health

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestRouter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		pingErr    error
		wantCode   int
		wantStatus string
	}{
		{name: "healthz", path: "/healthz", wantCode: http.StatusOK, wantStatus: "ok"},
		{name: "healthz ignores store", path: "/healthz", pingErr: errors.New("down"), wantCode: http.StatusOK, wantStatus: "ok"},
		{name: "ready", path: "/readyz", wantCode: http.StatusOK, wantStatus: "ready"},
		{name: "not ready", path: "/readyz", pingErr: errors.New("database is locked"), wantCode: http.StatusServiceUnavailable, wantStatus: "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			router := NewRouter(pingerFunc(func(context.Context) error { return tt.pingErr }), time.Now())

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body status
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantStatus, body.Status)
			if tt.wantCode != http.StatusOK {
				assert.Equal(t, tt.pingErr.Error(), body.Error)
			}
		})
	}
}

func TestRouterUnknownPath(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()
	NewRouter(pingerFunc(func(context.Context) error { return nil }), time.Now()).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServerStopsOnCancel(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewServer(ln.Addr().String(), pingerFunc(func(context.Context) error { return nil }), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

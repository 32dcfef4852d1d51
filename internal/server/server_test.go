package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/notifyd/internal/api"
	"github.com/shaharia-lab/notifyd/internal/logger"
	"github.com/shaharia-lab/notifyd/internal/server"
	"github.com/shaharia-lab/notifyd/internal/service"
	svcmocks "github.com/shaharia-lab/notifyd/internal/service/mocks"
)

func newTestServer(t *testing.T, dispatchSvc service.DispatchService, opts server.Options) http.Handler {
	t.Helper()
	apiSrv := api.New(dispatchSvc, logger.Discard())
	return server.New(apiSrv, opts, logger.Discard()).Handler()
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, new(svcmocks.MockDispatchService), server.Options{})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("notifyd_dispatch_sent_total 1\n"))
	})
	h := newTestServer(t, new(svcmocks.MockDispatchService), server.Options{MetricsHandler: metrics})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "notifyd_dispatch_sent_total")
}

func TestMetricsEndpoint_Disabled(t *testing.T) {
	h := newTestServer(t, new(svcmocks.MockDispatchService), server.Options{})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORS_PreflightAnyOrigin(t *testing.T) {
	h := newTestServer(t, new(svcmocks.MockDispatchService), server.Options{AllowedOrigins: []string{"*"}})

	req := httptest.NewRequest(http.MethodOptions, "/send-email", nil)
	req.Header.Set("Origin", "https://app.example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, X-Custom")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Less(t, w.Code, 300)
	assert.Equal(t, "https://app.example.org", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Headers"))
}

func TestCORS_SimpleRequestEchoesOrigin(t *testing.T) {
	dispatchSvc := new(svcmocks.MockDispatchService)
	dispatchSvc.On("Dispatch", mock.Anything, mock.Anything).
		Return(&service.DispatchResult{Message: "Confirm user email sent."}, nil)
	h := newTestServer(t, dispatchSvc, server.Options{AllowedOrigins: []string{"*"}})

	req := httptest.NewRequest(http.MethodPost, "/send-email", strings.NewReader(`{"theme":"confirm_user"}`))
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_RestrictedOrigins(t *testing.T) {
	h := newTestServer(t, new(svcmocks.MockDispatchService), server.Options{
		AllowedOrigins: []string{"https://allowed.example"},
	})

	req := httptest.NewRequest(http.MethodOptions, "/send-email", nil)
	req.Header.Set("Origin", "https://other.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoverer_PanicBecomes500(t *testing.T) {
	dispatchSvc := new(svcmocks.MockDispatchService)
	dispatchSvc.On("Dispatch", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { panic("unexpected") }).
		Return(nil, nil)
	h := newTestServer(t, dispatchSvc, server.Options{})

	w := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/send-email", strings.NewReader(`{}`)))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	apiSrv := api.New(new(svcmocks.MockDispatchService), logger.Discard())
	srv := server.New(apiSrv, server.Options{Port: 0}, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	// Give Run time to start listening before canceling.
	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

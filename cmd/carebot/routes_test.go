package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityhospital/carebot/internal/metrics"
	"github.com/cityhospital/carebot/internal/whatsapp"
)

func newTestServer(t *testing.T, registry *prometheus.Registry, onMessage whatsapp.MessageHandler) *httptest.Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	var m *metrics.Metrics
	if registry != nil {
		m = metrics.New(registry)
	}
	webhook := whatsapp.NewWebhookHandler("secret", onMessage, log, m)
	srv := httptest.NewServer(newRouter(webhook, registry, log))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	status, body := get(t, srv.URL+"/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body)
}

func TestWebhookVerifyRoute(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	status, body := get(t, srv.URL+"/webhook?hub.mode=subscribe&hub.verify_token=secret&hub.challenge=abc123")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "abc123", body)

	status, body = get(t, srv.URL+"/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=abc123")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Empty(t, body)
}

func TestWebhookPostRoute(t *testing.T) {
	received := make(chan whatsapp.Inbound, 1)
	srv := newTestServer(t, prometheus.NewRegistry(), func(ctx context.Context, msg whatsapp.Inbound) {
		received <- msg
	})

	payload := `{"entry":[{"changes":[{"value":{"messages":[{"from":"5511","id":"m1","type":"text","text":{"body":"7"}}]}}]}]}`
	resp, err := http.Post(srv.URL+"/webhook", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	msg := <-received
	assert.Equal(t, "7", msg.Text)

	resp, err = http.Post(srv.URL+"/webhook", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsRoute(t *testing.T) {
	srv := newTestServer(t, prometheus.NewRegistry(), func(context.Context, whatsapp.Inbound) {})

	resp, err := http.Post(srv.URL+"/webhook", "application/json", strings.NewReader(`not json`))
	require.NoError(t, err)
	resp.Body.Close()

	status, body := get(t, srv.URL+"/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `carebot_webhook_events_total{outcome="invalid"} 1`)
}

func TestMetricsRouteDisabled(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	status, _ := get(t, srv.URL+"/metrics")
	assert.Equal(t, http.StatusNotFound, status)
}

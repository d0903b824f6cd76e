package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/clientes/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, path := range []string{"/api/clientes/1", "/api/clientes/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, float64(2), value(t, m.requests.WithLabelValues("/api/clientes/{id}", http.MethodGet, "404")))
}

func TestMiddleware_DefaultStatus(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, float64(1), value(t, m.requests.WithLabelValues("/api/health", http.MethodGet, "200")))
}

func TestDocumentEventAndHandler(t *testing.T) {
	m := New()
	m.DocumentEvent("invoice.paid")
	m.DocumentEvent("invoice.paid")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `backoffice_document_events_total{kind="invoice.paid"} 2`), body)
	assert.Contains(t, body, "go_goroutines")
}

type stubPublisher struct {
	keys []string
}

func (s *stubPublisher) Publish(_ context.Context, routingKey string, _ any) error {
	s.keys = append(s.keys, routingKey)
	return nil
}

func TestCountingPublisher(t *testing.T) {
	m := New()
	next := &stubPublisher{}
	pub := m.CountingPublisher(next)

	require.NoError(t, pub.Publish(context.Background(), "quote.created", struct{}{}))
	assert.Equal(t, []string{"quote.created"}, next.keys)
	assert.Equal(t, float64(1), value(t, m.documents.WithLabelValues("quote.created")))
}

package profiler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestServiceOpts(t *testing.T) {
	tests := []struct {
		name string
		opts ServiceOpts
		err  string
	}{
		{"missing datadir", ServiceOpts{Port: 8081, StatsInterval: time.Second}, "missing profiler datadir"},
		{"low port", ServiceOpts{Port: 80, StatsInterval: time.Second, Datadir: "x"}, "port must be in range [1024, 49151]"},
		{"zero interval", ServiceOpts{Port: 8081, Datadir: "x"}, "stats interval must be a positive duration"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewService(tt.opts)
			require.EqualError(t, err, tt.err)
		})
	}
}

func TestMetricsHandler(t *testing.T) {
	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_counter_total",
		Help: "test counter",
	})
	registry.MustRegister(counter)
	counter.Inc()

	rec := httptest.NewRecorder()
	newHandler(registry).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "test_counter_total 1")

	datadir := t.TempDir()
	svc, err := NewService(ServiceOpts{
		Port: 8081, StatsInterval: time.Second, Datadir: datadir, Gatherer: registry,
	})
	require.NoError(t, err)
	require.NoError(t, svc.dumpMetrics(datadir))

	entries, err := os.ReadDir(datadir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

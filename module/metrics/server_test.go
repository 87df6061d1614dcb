package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerexec/ledgerexec/module/metrics"
)

func scrape(t *testing.T, url string) string {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestHandlerRecordsScrapes(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics.NewClientCollector(registry).ReceiptPolled("SUCCESS")

	server := httptest.NewServer(metrics.NewHandler(registry, metrics.NewHTTPCollector(registry)))
	defer server.Close()

	body := scrape(t, server.URL+"/metrics")
	assert.Contains(t, body, "ledgerexec_receipt")

	// the scrape is recorded once it is answered
	require.Eventually(t, func() bool {
		count, err := testutil.GatherAndCount(registry, "ledgerexec_http_request_duration_seconds")
		return err == nil && count == 1
	}, time.Second, 5*time.Millisecond)

	body = scrape(t, server.URL+"/metrics")
	assert.Contains(t, body, `ledgerexec_http_request_duration_seconds_count{code="200",handler="/metrics"`)

	resp, err := http.Get(server.URL + "/other")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandlerWithoutRecorder(t *testing.T) {
	registry := prometheus.NewRegistry()
	server := httptest.NewServer(metrics.NewHandler(registry, nil))
	defer server.Close()

	body := scrape(t, server.URL+"/metrics")
	assert.NotContains(t, body, "http_request_duration_seconds")
}

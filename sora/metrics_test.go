package sora

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CountsRequestsAndPolls(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "task_01", "status": "succeeded", "generations": []}`)
	}))

	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	client.WithMetrics(m)

	_, _, err := client.PollUntilTerminal(context.Background(), "task_01", time.Millisecond, 0)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("get_job", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.polls))
}

func TestMetrics_CountsDownloadOutcomes(t *testing.T) {
	client := newTestClient(t, contentHandler(t, http.StatusNotFound))

	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	client.WithMetrics(m)

	_, err := client.GetVideoContent(context.Background(), "gen_01")
	require.NoError(t, err)
	_, err = client.GetGIFContent(context.Background(), "gen_01")
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.downloads.WithLabelValues("video", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.downloads.WithLabelValues("gif", "error")))
}

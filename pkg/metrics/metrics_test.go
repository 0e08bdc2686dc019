package metrics

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clubarerrors "github.com/arthur-debert/clubar/pkg/errors"
	"github.com/arthur-debert/clubar/pkg/markup"
)

func TestObserveSegment(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveSegment("stdin", 3, nil)
	m.ObserveSegment("stdin", 5, nil)
	m.ObserveSegment("stdin", 0, clubarerrors.New(clubarerrors.ErrBlockOverflow, "too many"))
	m.ObserveSegment("custom", 0, errors.New("plain"))

	assert.Equal(t, 3.0, testutil.ToFloat64(m.segments.WithLabelValues("stdin")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.blocks.WithLabelValues("stdin")), "errors keep the last block count")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.segmentErrors.WithLabelValues("stdin", "BLOCK_OVERFLOW")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.segmentErrors.WithLabelValues("custom", "UNKNOWN")))
}

func TestObserveActionAndPool(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveAction(markup.KindBtnLeft)
	m.ObserveAction(markup.KindBtnLeft)
	m.ObserveAction(markup.KindScrollUp)
	m.ObservePool("stdin", markup.PoolStats{Free: 7})
	m.SetBlocks("custom", 2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.actions.WithLabelValues("BtnL")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.actions.WithLabelValues("ScrlU")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.poolFree.WithLabelValues("stdin")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.blocks.WithLabelValues("custom")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveSegment("stdin", 1, nil)
		m.SetBlocks("stdin", 1)
		m.ObserveAction(markup.KindBtnLeft)
		m.ObservePool("stdin", markup.PoolStats{})
	})
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveSegment("stdin", 1, nil)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(body, `clubar_segment_total{channel="stdin"} 1`), body)
}

func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, "127.0.0.1:0", prometheus.NewRegistry()) }()

	cancel()
	require.NoError(t, <-done)
}

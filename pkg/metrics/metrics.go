// Package metrics instruments the status line pipeline with Prometheus
// counters and gauges. A nil *Metrics is valid and records nothing.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	clubarerrors "github.com/arthur-debert/clubar/pkg/errors"
	"github.com/arthur-debert/clubar/pkg/logging"
	"github.com/arthur-debert/clubar/pkg/markup"
)

const namespace = "clubar"

type Metrics struct {
	segments      *prometheus.CounterVec
	segmentErrors *prometheus.CounterVec
	blocks        *prometheus.GaugeVec
	actions       *prometheus.CounterVec
	poolFree      *prometheus.GaugeVec
}

// New registers the clubar collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		segments: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segment_total",
			Help:      "Status lines segmented, per channel.",
		}, []string{"channel"}),
		segmentErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segment_errors_total",
			Help:      "Status lines rejected by the segmenter, per channel and error code.",
		}, []string{"channel", "code"}),
		blocks: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "blocks",
			Help:      "Blocks currently displayed, per channel.",
		}, []string{"channel"}),
		actions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Actions dispatched, per button or scroll kind.",
		}, []string{"kind"}),
		poolFree: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "node_pool_free",
			Help:      "Nodes waiting on the free list of a channel pool.",
		}, []string{"channel"}),
	}
}

// ObserveSegment records one segmentation of channel.
func (m *Metrics) ObserveSegment(channel string, blocks int, err error) {
	if m == nil {
		return
	}
	m.segments.WithLabelValues(channel).Inc()
	if err != nil {
		code := string(clubarerrors.GetErrorCode(err))
		m.segmentErrors.WithLabelValues(channel, code).Inc()
		return
	}
	m.blocks.WithLabelValues(channel).Set(float64(blocks))
}

// SetBlocks sets the displayed block count of channel.
func (m *Metrics) SetBlocks(channel string, blocks int) {
	if m == nil {
		return
	}
	m.blocks.WithLabelValues(channel).Set(float64(blocks))
}

// ObserveAction counts a dispatched action.
func (m *Metrics) ObserveAction(kind markup.Kind) {
	if m == nil {
		return
	}
	m.actions.WithLabelValues(kind.String()).Inc()
}

// ObservePool records the free list size of a channel pool.
func (m *Metrics) ObservePool(channel string, stats markup.PoolStats) {
	if m == nil {
		return
	}
	m.poolFree.WithLabelValues(channel).Set(float64(stats.Free))
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer) error {
	log := logging.GetLogger("metrics")

	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(g))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Serving metrics")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return clubarerrors.Wrapf(err, clubarerrors.ErrInternal, "metrics server on %s failed", addr)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		<-errCh
		return nil
	}
}

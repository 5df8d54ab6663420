// Package metrics exports the results of periodic status queries to
// Prometheus.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gstoney/mcproto"
	"github.com/gstoney/mcproto/packet"
)

const Namespace = "mcping"

// Collector holds the per server metrics.
type Collector struct {
	up         *prometheus.GaugeVec
	online     *prometheus.GaugeVec
	max        *prometheus.GaugeVec
	latency    *prometheus.HistogramVec
	pollErrors *prometheus.CounterVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		up: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "up",
			Help:      "Whether the last status query succeeded",
		}, []string{"server"}),

		online: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "players_online",
			Help:      "Players online as reported by the server",
		}, []string{"server"}),

		max: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "players_max",
			Help:      "Player slots as reported by the server",
		}, []string{"server"}),

		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "latency_seconds",
			Help:      "Round trip time of the ping exchange",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"server"}),

		pollErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "poll_errors_total",
			Help:      "Failed status queries by cause",
		}, []string{"server", "reason"}),
	}
}

// Observe records a successful query.
func (c *Collector) Observe(server string, res mcproto.StatusResult) {
	c.up.WithLabelValues(server).Set(1)
	if p := res.Status.Players; p != nil {
		c.online.WithLabelValues(server).Set(float64(p.Online))
		c.max.WithLabelValues(server).Set(float64(p.Max))
	}
	c.latency.WithLabelValues(server).Observe(res.Latency.Seconds())
}

// Failed records a failed query.
func (c *Collector) Failed(server string, err error) {
	c.up.WithLabelValues(server).Set(0)
	c.pollErrors.WithLabelValues(server, Reason(err)).Inc()
}

// Reason classifies err for the reason label.
func Reason(err error) string {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	case errors.Is(err, packet.ErrLimitExceeded):
		return "limit"
	case errors.Is(err, packet.ErrProtocolViolation):
		return "protocol"
	case packet.IsMalformed(err):
		return "malformed"
	case errors.As(err, new(*net.OpError)):
		return "network"
	}
	return "other"
}

// Target is one server to poll.
type Target struct {
	Label string
	// Resolve returns the address to dial; it runs before every poll.
	Resolve func(ctx context.Context) (string, error)
}

// QueryFunc performs one status query against addr.
type QueryFunc func(ctx context.Context, addr string) (mcproto.StatusResult, error)

// Poller queries every target concurrently, once per interval.
type Poller struct {
	Targets   []Target
	Query     QueryFunc
	Collector *Collector
	Logger    *slog.Logger
}

func (p *Poller) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

// PollOnce queries every target and waits for all of them.
func (p *Poller) PollOnce(ctx context.Context) {
	var wg sync.WaitGroup
	for _, t := range p.Targets {
		wg.Add(1)
		go func(t Target) {
			defer wg.Done()
			p.poll(ctx, t)
		}(t)
	}
	wg.Wait()
}

func (p *Poller) poll(ctx context.Context, t Target) {
	addr, err := t.Resolve(ctx)
	if err == nil {
		var res mcproto.StatusResult
		if res, err = p.Query(ctx, addr); err == nil {
			p.Collector.Observe(t.Label, res)
			p.logger().Debug("polled", "server", t.Label, "addr", addr, "latency", res.Latency)
			return
		}
	}

	p.Collector.Failed(t.Label, err)
	p.logger().Warn("poll failed", "server", t.Label, "err", err)
}

// Run polls immediately and then every interval until ctx is done.
func (p *Poller) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		p.PollOnce(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/gstoney/mcproto"
	"github.com/gstoney/mcproto/internal/config"
	"github.com/gstoney/mcproto/internal/ec2addr"
	"github.com/gstoney/mcproto/internal/metrics"
)

func exporterCmd(g *globalFlags) *cobra.Command {
	var listen string
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "exporter",
		Short: "Poll the configured servers and serve Prometheus metrics",
		Long: `Poll every server of the config file once per interval and serve
the results on /metrics. /healthz reports liveness.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Exporter.Listen = listen
			}
			if interval > 0 {
				cfg.Exporter.Interval = interval
			}
			if len(cfg.Servers) == 0 {
				return errors.New("no servers configured")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runExporter(ctx, cfg, slog.Default())
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "metrics listen address (default "+config.DefaultListen+")")
	cmd.Flags().DurationVarP(&interval, "interval", "i", 0, "poll interval (default 30s)")

	return cmd
}

func runExporter(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	targets, err := buildTargets(ctx, cfg)
	if err != nil {
		return err
	}

	poller := &metrics.Poller{
		Targets: targets,
		Query: func(ctx context.Context, addr string) (mcproto.StatusResult, error) {
			return queryStatus(ctx, addr, cfg.Protocol, cfg.Timeout)
		},
		Collector: metrics.New(reg),
		Logger:    log,
	}

	srv := &http.Server{
		Addr:              cfg.Exporter.Listen,
		Handler:           newRouter(reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("serving metrics", "addr", srv.Addr, "servers", len(targets), "interval", cfg.Exporter.Interval)
		errc <- srv.ListenAndServe()
	}()
	go poller.Run(ctx, cfg.Exporter.Interval)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newRouter(reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok\n"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	return r
}

func buildTargets(ctx context.Context, cfg *config.Config) ([]metrics.Target, error) {
	var resolver *ec2addr.Resolver

	targets := make([]metrics.Target, 0, len(cfg.Servers))
	for _, s := range cfg.Servers {
		s := s
		t := metrics.Target{Label: s.Label()}

		if s.EC2Instance == "" {
			t.Resolve = func(context.Context) (string, error) { return s.Address, nil }
			targets = append(targets, t)
			continue
		}

		if resolver == nil {
			r, err := ec2addr.New(ctx, cfg.AWS.Region, cfg.AWS.Profile)
			if err != nil {
				return nil, fmt.Errorf("server %s: %w", t.Label, err)
			}
			resolver = r
		}
		t.Resolve = func(ctx context.Context) (string, error) {
			return resolver.Resolve(ctx, s.EC2Instance, defaultPort)
		}
		targets = append(targets, t)
	}
	return targets, nil
}

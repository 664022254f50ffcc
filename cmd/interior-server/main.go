// Command interior-server loads planet definitions and serves density
// queries over gRPC, with Prometheus metrics on a side HTTP listener.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/signalsfoundry/planetary-interior/core"
	"github.com/signalsfoundry/planetary-interior/internal/api"
	"github.com/signalsfoundry/planetary-interior/internal/config"
	"github.com/signalsfoundry/planetary-interior/internal/logging"
	"github.com/signalsfoundry/planetary-interior/internal/observability"
	"github.com/signalsfoundry/planetary-interior/internal/store"
	"github.com/signalsfoundry/planetary-interior/kb"
)

func main() {
	flags := pflag.NewFlagSet("interior-server", pflag.ExitOnError)
	cfgFile := flags.String("config", "", "config file (YAML)")
	flags.String("grpc-addr", config.DefaultGRPCAddr, "TCP address the gRPC server listens on")
	flags.String("metrics-addr", config.DefaultMetricsAddr, "HTTP address for Prometheus /metrics (empty disables)")
	flags.String("log-level", config.DefaultLogLevel, "Log level (debug|info|warn|error)")
	flags.String("log-format", config.DefaultLogFormat, "Log format (text|json)")
	flags.String("cache-path", "", "SQLite file caching tabulated mean densities")
	flags.StringSlice("planet", nil, "Planet definition YAML to load (repeatable)")
	flags.Float64("step", core.DefaultStep, "Default integration step in metres for tabulated layers")
	flags.Int("workers", 0, "Concurrent workers for profile sweeps")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(*cfgFile, flags)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		logging.NewFromEnv().Error(context.Background(), "invalid configuration", logging.Err(err))
		os.Exit(2)
	}

	log := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Error(ctx, "failed to listen for gRPC", logging.String("addr", cfg.GRPCAddr), logging.Err(err))
		os.Exit(1)
	}

	if err := run(ctx, cfg, log, lis); err != nil {
		log.Error(ctx, "server exited", logging.Err(err))
		os.Exit(1)
	}
}

// run serves until ctx is cancelled. lis is owned by run and closed on return.
func run(ctx context.Context, cfg *config.Config, log logging.Logger, lis net.Listener) error {
	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	reg := prometheus.NewRegistry()
	collector, err := observability.NewInteriorCollector(reg)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	compute, err := observability.NewComputeCollector(reg)
	if err != nil {
		return fmt.Errorf("init compute metrics: %w", err)
	}

	var cache *store.SQLiteCache
	if cfg.CachePath != "" {
		cache, err = store.Open(ctx, cfg.CachePath)
		if err != nil {
			return err
		}
		defer cache.Close()
		log.Info(ctx, "opened mean density cache", logging.String("path", cfg.CachePath))
	}

	registry := kb.NewKnowledgeBase()
	unsubscribe := registry.Subscribe(func(kb.Event) {
		collector.SetPlanetCount(registry.Len())
	})
	defer unsubscribe()

	if err := loadPlanets(ctx, registry, cfg, cache, compute, log); err != nil {
		return err
	}

	server := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			api.RequestIDUnaryServerInterceptor(log),
			api.TracingUnaryServerInterceptor(),
			collector.UnaryServerInterceptor(),
		),
	)
	api.RegisterPlanetServiceServer(server, api.NewPlanetService(registry, log,
		api.WithMetrics(collector),
		api.WithComputeMetrics(compute),
		api.WithWorkers(cfg.Workers),
	))

	g, ctx := errgroup.WithContext(ctx)

	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		metricsSrv = &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			log.Info(ctx, "serving Prometheus metrics", logging.String("addr", cfg.MetricsAddr))
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		log.Info(ctx, "starting planet gRPC server",
			logging.String("addr", lis.Addr().String()),
			logging.Int("planets", registry.Len()),
		)
		if err := server.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info(context.Background(), "shutting down planet server")
		server.GracefulStop()
		if metricsSrv != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsSrv.Shutdown(shutdownCtx)
		}
		return nil
	})

	return g.Wait()
}

// loadPlanets builds every configured planet, evaluates its summary once so
// cache lookups happen at startup, and adds it to the registry.
func loadPlanets(ctx context.Context, registry *kb.KnowledgeBase, cfg *config.Config, cache *store.SQLiteCache, compute *observability.ComputeCollector, log logging.Logger) error {
	for _, path := range cfg.PlanetFiles {
		opts := []core.BuildOption{core.WithDefaultStep(cfg.Step)}
		if cache != nil {
			opts = append(opts, core.WithMeanDensityCache(cache, func(err error) {
				log.Warn(ctx, "mean density cache unavailable", logging.String("path", path), logging.Err(err))
			}))
		}
		p, def, err := core.BuildPlanetFromFile(path, opts...)
		if err != nil {
			return err
		}

		start := time.Now()
		summary, err := core.Summarize(p)
		if err != nil {
			return fmt.Errorf("summarize %q: %w", path, err)
		}
		compute.ObserveIntegration(time.Since(start))
		for _, l := range summary.Layers {
			if l.Cached {
				compute.ObserveCacheLookup(l.FromCache)
			}
		}

		id := def.ID
		if id == "" {
			id = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		if err := registry.AddPlanet(id, *def, p); err != nil {
			return fmt.Errorf("register %q: %w", path, err)
		}
		log.Info(ctx, "loaded planet",
			logging.String("id", id),
			logging.String("path", path),
			logging.Float64("mean_density", summary.MeanDensity),
		)
	}
	return nil
}

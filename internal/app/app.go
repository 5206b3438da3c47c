// Package app wires the serving process together: the block-list index, the
// request counters and the HTTP and gRPC front ends.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/TomasB/redblock/internal/config"
	"github.com/TomasB/redblock/internal/data"
	"github.com/TomasB/redblock/internal/handler/check"
	grpchandler "github.com/TomasB/redblock/internal/handler/grpc"
	"github.com/TomasB/redblock/internal/handler/health"
	"github.com/TomasB/redblock/internal/handler/middleware"
	statshandler "github.com/TomasB/redblock/internal/handler/stats"
	"github.com/TomasB/redblock/internal/stats"
	redblockv1 "github.com/TomasB/redblock/pkg/redblock/v1"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

const shutdownTimeout = 30 * time.Second

// App is a configured, not yet serving, redblock process.
type App struct {
	cfg      config.Config
	holder   *data.Holder
	watcher  *data.Watcher
	counters *stats.Counters
	store    stats.Store
	flusher  *stats.Flusher
	router   *gin.Engine
	grpc     *grpc.Server
}

// New loads the policy, the index and the persisted counters, and builds the
// HTTP and gRPC handlers.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	a := &App{cfg: cfg}

	policy, err := config.LoadPolicy(cfg.PolicyPath)
	if err != nil {
		return nil, err
	}

	if err := a.loadIndex(policy); err != nil {
		return nil, err
	}

	a.store = openStore(ctx, cfg)
	initial, err := a.store.Load(ctx)
	if err != nil {
		slog.Warn("failed to load stats, starting from zero", "backend", cfg.StatsBackend, "error", err)
	}
	a.counters = stats.NewCounters(initial)
	a.flusher = stats.NewFlusher(a.counters, a.store, cfg.StatsFlushInterval)
	slog.Info("stats loaded", "backend", cfg.StatsBackend, "requests", initial.Requests)

	a.router = a.newRouter()

	if cfg.GRPCPort != "" {
		a.grpc = grpc.NewServer()
		redblockv1.RegisterRedblockServer(a.grpc, grpchandler.NewHandler(a.holder, a.counters))
	}

	return a, nil
}

func (a *App) loadIndex(policy *config.Policy) error {
	if a.cfg.IndexBackend == config.BackendMMDB {
		idx, err := data.NewMmdbIndex(a.cfg.MMDBPath, policy)
		if err != nil {
			return fmt.Errorf("open MMDB: %w", err)
		}
		a.holder = data.NewHolder(idx)
		slog.Info("MMDB loaded", "path", a.cfg.MMDBPath, "nodes", idx.Len())
		return nil
	}

	build, err := data.NewBuilder(a.cfg.IndexBackend)
	if err != nil {
		return err
	}
	start := time.Now()
	a.holder = data.NewHolder(build(data.LoadBlocklist(a.cfg.BlocklistPath)))
	slog.Info("index built",
		"backend", a.cfg.IndexBackend,
		"entries", a.holder.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if a.cfg.WatchBlocklist {
		a.watcher = data.NewWatcher(a.cfg.BlocklistPath, build, a.holder)
	}
	return nil
}

func openStore(ctx context.Context, cfg config.Config) stats.Store {
	if cfg.StatsBackend == config.StatsRedis {
		store, err := stats.NewRedisStore(ctx, cfg.RedisURL)
		if err == nil {
			return store
		}
		slog.Error("redis unavailable, falling back to file stats", "error", err, "path", cfg.StatsPath)
	}
	return stats.NewFileStore(cfg.StatsPath)
}

func (a *App) newRouter() *gin.Engine {
	router := gin.New()
	router.Use(middleware.Logger(slog.Default()))
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())

	healthHandler := health.NewHandler(a.holder)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	statsHandler := statshandler.NewHandler(a.counters, a.cfg.RedirectURL)
	router.GET("/", statsHandler.Root)
	router.GET("/stats", statsHandler.Stats)

	checkHandler := check.NewHandler(a.holder, a.counters)
	router.GET("/test", checkHandler.Test)

	registry := prometheus.NewRegistry()
	registry.MustRegister(stats.NewCollector(a.counters, a.holder.Len))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return router
}

// Handler returns the HTTP handler.
func (a *App) Handler() http.Handler {
	return a.router
}

// Counters returns the live request counters.
func (a *App) Counters() *stats.Counters {
	return a.counters
}

// Run serves until ctx is done and then shuts everything down, saving the
// counters one last time. Failing to bind a listener is returned at once.
func (a *App) Run(ctx context.Context) error {
	httpLn, err := net.Listen("tcp", ":"+a.cfg.Port)
	if err != nil {
		a.close()
		return fmt.Errorf("listen http: %w", err)
	}

	var grpcLn net.Listener
	if a.grpc != nil {
		grpcLn, err = net.Listen("tcp", ":"+a.cfg.GRPCPort)
		if err != nil {
			_ = httpLn.Close()
			a.close()
			return fmt.Errorf("listen grpc: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	srv := &http.Server{Handler: a.router}
	g.Go(func() error {
		slog.Info("http server started", "addr", httpLn.Addr().String())
		if err := srv.Serve(httpLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("http server forced to shutdown", "error", err)
		}
		return nil
	})

	if a.grpc != nil {
		g.Go(func() error {
			slog.Info("grpc server started", "addr", grpcLn.Addr().String())
			if err := a.grpc.Serve(grpcLn); err != nil {
				return fmt.Errorf("grpc server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			a.grpc.GracefulStop()
			return nil
		})
	}

	if a.watcher != nil {
		g.Go(func() error {
			if err := a.watcher.Run(gctx); err != nil {
				// Serving continues with the loaded index.
				slog.Error("block list watcher stopped", "error", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		return a.flusher.Run(gctx)
	})

	err = g.Wait()
	// Requests drained during shutdown may have landed after the flusher's last save.
	a.flusher.Flush(context.Background())
	a.close()
	slog.Info("service stopped")
	return err
}

func (a *App) close() {
	if err := a.store.Close(); err != nil {
		slog.Error("failed to close stats store", "error", err)
	}
	if err := a.holder.Close(); err != nil {
		slog.Error("failed to close index", "error", err)
	}
}

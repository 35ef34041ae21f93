package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pribylovaa/post-comment-service/pkg/interceptors"

	"github.com/pribylovaa/post-comment-service/internal/config"
	apihttp "github.com/pribylovaa/post-comment-service/internal/http"
	"github.com/pribylovaa/post-comment-service/internal/http/middleware"
	"github.com/pribylovaa/post-comment-service/internal/service"
	"github.com/pribylovaa/post-comment-service/internal/storage"
	"github.com/pribylovaa/post-comment-service/internal/storage/breaker"
	pcmongo "github.com/pribylovaa/post-comment-service/internal/storage/mongo"
	"github.com/pribylovaa/post-comment-service/internal/validation"

	"google.golang.org/grpc"
	health "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting post-comment-service", "env", cfg.Env)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	dbCtx, dbCancel := context.WithTimeout(rootCtx, 10*time.Second)
	mongoStore, err := pcmongo.New(dbCtx, cfg)
	dbCancel()
	if err != nil {
		log.Error("mongo_connect_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	log.Info("mongo_connected", slog.String("collection", cfg.DB.Collection))

	var store storage.Storage = mongoStore
	if !cfg.Breaker.Disabled {
		cb, err := breaker.New(mongoStore, cfg.Breaker, log, prometheus.DefaultRegisterer)
		if err != nil {
			log.Error("breaker_init_failed", slog.String("err", err.Error()))
			_ = mongoStore.Close(context.Background())
			os.Exit(1)
		}
		store = cb
		log.Info("breaker_enabled")
	}

	svc := service.New(store, validation.New(), *cfg)
	log.Info("service_initialized")

	var ready atomic.Bool

	apiSrv, err := newAPIServer(cfg, svc, log)
	if err != nil {
		log.Error("http_init_failed", slog.String("err", err.Error()))
		_ = mongoStore.Close(context.Background())
		os.Exit(1)
	}

	opsSrv := &http.Server{
		Addr:              cfg.Ops.Addr(),
		Handler:           apihttp.NewOpsRouter(store, &ready, prometheus.DefaultGatherer),
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer, hs := newGRPCServer(cfg, log)

	grpcAddr := cfg.GRPC.Addr()
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.Error("grpc_listen_failed",
			slog.String("addr", grpcAddr),
			slog.String("err", err.Error()),
		)
		_ = mongoStore.Close(context.Background())
		os.Exit(1)
	}

	serveErrCh := make(chan error, 3)

	go func() {
		log.Info("ops_listen_start", slog.String("addr", opsSrv.Addr))
		if err := opsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
	}()

	go func() {
		log.Info("http_listen_start", slog.String("addr", apiSrv.Addr))
		if err := apiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
	}()

	go func() {
		log.Info("grpc_listen_start", slog.String("addr", grpcAddr))
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			serveErrCh <- err
		}
	}()

	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	ready.Store(true)

	exitCode := 0
	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		log.Error("serve_failed", slog.String("err", err.Error()))
		exitCode = 1
	}

	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	ready.Store(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Timeouts.Shutdown)
	defer shutdownCancel()

	if err := apiSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_failed", slog.String("err", err.Error()))
	}

	done := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		log.Info("grpc_stopped")
	case <-shutdownCtx.Done():
		log.Warn("grpc_force_stop")
		grpcServer.Stop()
	}

	_ = opsSrv.Shutdown(shutdownCtx)

	if err := mongoStore.Close(shutdownCtx); err != nil {
		log.Warn("mongo_close_failed", slog.String("err", err.Error()))
	}

	log.Info("service_stopped")
	os.Exit(exitCode)
}

// newAPIServer - REST API комментариев.
func newAPIServer(cfg *config.Config, svc *service.Service, log *slog.Logger) (*http.Server, error) {
	metrics, err := middleware.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return nil, err
	}

	router := apihttp.NewRouter(svc, apihttp.Options{
		Logger:  log,
		Timeout: cfg.Timeouts.Request,
		Limits:  cfg.Limits,
		Metrics: metrics,
	})

	return &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}, nil
}

// newGRPCServer - служебный gRPC: health (+ reflection в local/dev).
func newGRPCServer(cfg *config.Config, log *slog.Logger) (*grpc.Server, *health.Server) {
	grpc_prometheus.EnableHandlingTimeHistogram()

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			interceptors.Recover(log),
			interceptors.UnaryLoggingInterceptor(log),
			interceptors.WithTimeout(cfg.Timeouts.Request),
			grpc_prometheus.UnaryServerInterceptor,
		),
		grpc.ChainStreamInterceptor(
			grpc_prometheus.StreamServerInterceptor,
		),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)

	if cfg.Env == envLocal || cfg.Env == envDev {
		reflection.Register(grpcServer)
	}

	grpc_prometheus.Register(grpcServer)

	return grpcServer, hs
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

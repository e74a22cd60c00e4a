package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"

	"shortlink/internal/config"
	"shortlink/internal/geolocation"
	"shortlink/internal/handler"
	"shortlink/internal/metrics"
	custommiddleware "shortlink/internal/middleware"
	"shortlink/internal/repository"
	"shortlink/internal/service"
	"shortlink/internal/shortener"
	"shortlink/internal/validation"
)

const infraSampleInterval = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := run(ctx, logger); err != nil {
		logger.Error("application failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level, err := cfg.App.Level()
	if err != nil {
		return err
	}
	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	logger.Info("opening store", slog.String("store_url", repository.RedactURL(cfg.Store.URL)))
	store, err := repository.Open(ctx, &cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	recorder := metrics.NewRecorder(metricsSink(store, logger), &cfg.Metrics, logger)
	recorder.Start(ctx)
	defer recorder.Close()

	if cfg.Metrics.Enabled {
		poolStats, _ := store.(metrics.PoolStatter)
		go recorder.CollectInfra(ctx, infraSampleInterval, poolStats)
	}

	codes := shortener.NewUnique(shortener.New(), repository.NewCodeIndex(store), cfg.Shortener.MaxAttempts)
	geo := geolocation.NewClient(&cfg.Geo, logger)
	linkService := service.NewLinkService(store, codes, geo, recorder, logger, cfg.Shortener.MaxAttempts)

	urlValidator := validation.NewURLValidator(
		cfg.Validation.MaxURLLength,
		cfg.Validation.Strict,
		cfg.Validation.AllowPrivateIPs,
	)
	h := handler.New(linkService, urlValidator, logger, recorder, cfg.App.PublicBaseURL)

	templates, err := handler.NewTemplates()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	ipExtractor, err := custommiddleware.IPExtractor(cfg.Server.TrustedProxies)
	if err != nil {
		return err
	}

	skipPprof := custommiddleware.SkipPathPrefixes(custommiddleware.PprofPrefix)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = templates
	e.IPExtractor = ipExtractor
	e.Use(middleware.Recover())
	e.Use(custommiddleware.RequestID())
	e.Use(custommiddleware.RequestLogger(logger, skipPprof))
	e.Use(middleware.BodyLimit(cfg.Validation.MaxRequestBodySize))
	e.Use(custommiddleware.MetricsWithConfig(custommiddleware.MetricsConfig{
		Recorder: recorder,
		Skipper:  skipPprof,
	}))

	h.Register(e)

	if cfg.Pprof.Enabled {
		custommiddleware.RegisterPprof(e, cfg.Pprof.Secret)
		logger.Info("pprof endpoints enabled", slog.String("path", custommiddleware.PprofPrefix+"/*"))
	}

	g, gctx := errgroup.WithContext(ctx)
	var servers []*http.Server

	httpAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpListener, err := listen(httpAddr, cfg.Server.MaxConnections)
	if err != nil {
		return fmt.Errorf("failed to create HTTP listener: %w", err)
	}
	httpServer := newServer(e, &cfg.Server)
	servers = append(servers, httpServer)
	logger.Info("starting HTTP server",
		slog.String("addr", httpAddr),
		slog.Int("max_connections", cfg.Server.MaxConnections))
	g.Go(func() error { return serve(httpServer, httpListener) })

	if cfg.TLS.Enabled {
		httpsAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.TLS.Port)
		httpsListener, err := listenTLS(httpsAddr, cfg.Server.MaxConnections, &cfg.TLS)
		if err != nil {
			return fmt.Errorf("failed to create HTTPS listener: %w", err)
		}
		httpsServer := newServer(e, &cfg.Server)
		servers = append(servers, httpsServer)
		logger.Info("starting HTTPS server",
			slog.String("addr", httpsAddr),
			slog.Int("max_connections", cfg.Server.MaxConnections))
		g.Go(func() error { return serve(httpsServer, httpsListener) })
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down servers")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("server shutdown failed: %w", err))
			}
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}

func metricsSink(store repository.Store, logger *slog.Logger) metrics.Sink {
	if pg, ok := store.(*repository.PostgresRepository); ok {
		return metrics.NewPostgresSink(pg.Pool())
	}
	return metrics.NewLogSink(logger)
}

func newServer(e *echo.Echo, cfg *config.ServerConfig) *http.Server {
	return &http.Server{
		Handler:        e,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 14, // 16KB
	}
}

func listen(addr string, maxConns int) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	if maxConns > 0 {
		ln = netutil.LimitListener(ln, maxConns)
	}
	return ln, nil
}

func listenTLS(addr string, maxConns int, cfg *config.TLSConfig) (net.Listener, error) {
	cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}

	ln, err := listen(addr, maxConns)
	if err != nil {
		return nil, err
	}

	return tls.NewListener(ln, &tls.Config{
		MinVersion:       tls.VersionTLS13,
		Certificates:     []tls.Certificate{cert},
		CurvePreferences: []tls.CurveID{tls.X25519},
	}), nil
}

func serve(srv *http.Server, ln net.Listener) error {
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

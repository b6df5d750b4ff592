package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tnicklin/jstclock/config"
	"github.com/tnicklin/jstclock/jst"
	"github.com/tnicklin/jstclock/logger"
	"github.com/tnicklin/jstclock/transport"
)

func main() {
	params, err := build()
	if err != nil {
		log.Fatal(err)
	}

	if err = run(params); err != nil {
		log.Fatal(err)
	}
}

func build() (runParams, error) {
	configPath := flag.String("config", "config/config.yaml", "path to YAML config")
	flag.Parse()

	cfg, err := config.LoadWithDefaults(*configPath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = config.Default()
	} else if err != nil {
		return runParams{}, fmt.Errorf("load config: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return runParams{}, fmt.Errorf("initialize logger: %w", err)
	}

	httpClient, err := transport.NewHTTPClient(cfg.JST.Timeout)
	if err != nil {
		return runParams{}, fmt.Errorf("build http client: %w", err)
	}

	client, err := jst.NewClient(
		jst.WithConfig(cfg.JST),
		jst.WithHTTPClient(httpClient),
		jst.WithLogger(appLogger.Named("jst")),
	)
	if err != nil {
		return runParams{}, fmt.Errorf("create jst client: %w", err)
	}

	return runParams{
		Config: cfg,
		Logger: appLogger,
		Client: client,
	}, nil
}

type runParams struct {
	Config *config.AppConfig
	Logger logger.Logger
	Client *jst.Client
}

// run resolves the offset once, prints it, then cross-checks with one
// asynchronous query.
func run(p runParams) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer p.Logger.Sync()

	if addr := p.Config.Metrics.ListenAddr; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				p.Logger.ErrorW("metrics server", "error", err)
			}
		}()
		defer srv.Close()
	}

	resolver, err := jst.NewWithClient(ctx, p.Client)
	if err != nil {
		return fmt.Errorf("resolve jst: %w", err)
	}

	fmt.Printf("now:    %s\n", resolver.Now().Format(time.RFC3339Nano))
	fmt.Printf("offset: %s\n", resolver.Offset())
	fmt.Printf("source: %s\n", resolver.Source())

	result := <-p.Client.FetchAsync(ctx)
	if !result.Success {
		p.Logger.WarnW("async jst query failed, showing local time", "error", result.Err)
	}
	fmt.Printf("async:  %s (authoritative=%t)\n", result.Time.Format(time.RFC3339), result.Success)

	return nil
}

package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pptally/internal/adapters/beatmapcache"
	"pptally/internal/adapters/osuapi"
	"pptally/internal/config"
	"pptally/internal/domain/curvefit"
	"pptally/internal/domain/extrapolate"
	"pptally/internal/domain/profile"
	"pptally/internal/domain/rankweight"
	"pptally/internal/domain/scoring"
	"pptally/internal/recompute"
	"pptally/internal/report"
	"pptally/pkg/logger"
	"pptally/pkg/metrics"
)

const metricsReadHeaderTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	user := flag.String("user", "", "user name or ID to check (required)")
	key := flag.String("key", "", "API key (overrides PPTALLY_API_KEY)")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 1
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if *key != "" {
		cfg.APIKey = *key
	}
	if *user == "" {
		os.Stderr.WriteString("usage: pptally -user <name or ID> [-key <api key>]\n")
		return 2
	}
	if cfg.APIKey == "" {
		os.Stderr.WriteString("an API key is required (PPTALLY_API_KEY or -key)\n")
		return 2
	}

	// Optional metrics listener for long batch runs.
	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, log, cfg.MetricsAddr)
	}

	client := osuapi.New(cfg.APIKey,
		osuapi.WithBaseURL(cfg.APIBaseURL),
		osuapi.WithBeatmapBaseURL(cfg.BeatmapBaseURL),
		osuapi.WithTimeout(time.Duration(cfg.APITimeoutMS)*time.Millisecond))

	cache, err := beatmapcache.Open(cfg.CachePath, client)
	if err != nil {
		log.Error(ctx, "open beatmap cache", logger.Error(err))
		return 1
	}
	defer func() {
		if err := cache.Close(); err != nil {
			log.Warn(ctx, "close beatmap cache", logger.Error(err))
		}
	}()

	weights := rankweight.New(rankweight.WithDecay(cfg.Decay))
	calc := profile.New(
		profile.WithScheme(weights),
		profile.WithFitter(curvefit.New()),
		profile.WithEstimator(extrapolate.New(
			extrapolate.WithScheme(weights),
			extrapolate.WithMinSample(cfg.MinFitSample))))

	pipeline := recompute.New(client, cache, scoring.Passthrough{},
		recompute.WithCalculator(calc),
		recompute.WithWorkers(cfg.Workers),
		recompute.WithBestLimit(cfg.BestLimit))

	result, err := pipeline.Run(ctx, *user)
	if err != nil {
		log.Error(ctx, "check failed", logger.String("user", *user), logger.Error(err))
		return 1
	}

	if err := report.Write(os.Stdout, result); err != nil {
		log.Error(ctx, "render report", logger.Error(err))
		return 1
	}
	return 0
}

func serveMetrics(ctx context.Context, log logger.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}
	log.Info(ctx, "serving metrics", logger.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Warn(ctx, "metrics server failed", logger.Error(err))
	}
}

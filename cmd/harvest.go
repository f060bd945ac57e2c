package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pkruk/jobharvest/internal/clock/system"
	"github.com/pkruk/jobharvest/internal/config"
	"github.com/pkruk/jobharvest/internal/dataset"
	"github.com/pkruk/jobharvest/internal/extract"
	"github.com/pkruk/jobharvest/internal/fetcher/detector"
	"github.com/pkruk/jobharvest/internal/fetcher/headless"
	"github.com/pkruk/jobharvest/internal/fetcher/static"
	"github.com/pkruk/jobharvest/internal/harvest"
)

// newHarvestCmd creates the 'harvest' subcommand, which runs one incremental
// collection pass against the configured source.
func newHarvestCmd() *cobra.Command {
	var (
		targetOverride int
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Run one incremental collection pass",
		Long: `Walks the source's listing pages, skips everything already in the
dataset, fetches the still-needed detail pages with bounded concurrency, and
appends each completed batch durably. Stops once the target count is reached
or pagination is exhausted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			if targetOverride > 0 {
				app.Config.Harvest.Target = targetOverride
			}
			if metricsAddr != "" {
				app.Config.Harvest.MetricsAddr = metricsAddr
			}
			return runHarvest(cmd.Context(), app)
		},
	}

	cmd.Flags().IntVar(&targetOverride, "target", 0, "override the target record count")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address during the run")
	return cmd
}

func runHarvest(ctx context.Context, app *App) error {
	cfg := app.Config
	logger := app.Logger

	identity, err := harvest.NewIdentity(cfg.Source.Identity)
	if err != nil {
		return err
	}

	gumtree, err := extract.NewGumtree(cfg.Source.SiteBase)
	if err != nil {
		return fmt.Errorf("init extractor: %w", err)
	}

	fetcher, err := buildFetcher(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := fetcher.Close(ctx); cerr != nil {
			logger.Warn("failed to close fetcher", zap.Error(cerr))
		}
	}()

	if addr := cfg.Harvest.MetricsAddr; addr != "" {
		_, stopMetrics, merr := serveMetrics(addr, logger.Named("metrics"))
		if merr != nil {
			return merr
		}
		defer stopMetrics()
	}

	store := dataset.New(cfg.Dataset.Path, logger.Named("dataset"))

	snapshot, err := store.Snapshot()
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	index := harvest.BuildIndex(snapshot, identity)
	existing := 0
	for _, r := range snapshot {
		if r.Valid() {
			existing++
		}
	}
	logger.Info("dataset loaded",
		zap.Int("rows", len(snapshot)),
		zap.Int("valid", existing),
		zap.Int("index_keys", index.Len()),
		zap.String("identity", identity.Name()),
	)

	goal := resolveTarget(cfg, logger)
	target := harvest.NewTarget(goal, existing)

	clock := system.New()
	pacer := harvest.NewOriginPacer(cfg.FetchDelay())
	scheduler := harvest.NewScheduler(
		cfg.Harvest.Concurrency,
		fetcher,
		gumtree,
		pacer,
		clock,
		logger.Named("scheduler"),
	)
	var links harvest.LinkCollector = gumtree
	if cfg.Source.Fetcher == "static" {
		// Plain HTTP against a script-rendered site yields nothing; surface
		// that instead of silently stopping at page 1.
		links = detector.Wrap(gumtree, logger.Named("detector"))
	}

	walker := harvest.NewWalker(
		cfg.Source.BaseURL,
		fetcher,
		links,
		identity,
		logger.Named("walker"),
	)

	runID := uuid.NewString()
	engine := harvest.NewEngine(
		walker,
		scheduler,
		index,
		target,
		store,
		identity,
		runID,
		cfg.Harvest.MaxPages,
		cfg.PageDelay(),
		logger.Named("engine"),
	)

	summary, err := engine.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("harvest run: %w", err)
	}
	logger.Info("harvest complete",
		zap.Int("accepted", summary.Accepted),
		zap.Int("total", summary.Total()),
		zap.Int("target", summary.Target),
		zap.String("dataset", cfg.Dataset.Path),
	)
	return nil
}

func buildFetcher(cfg config.Config) (harvest.PageFetcher, error) {
	switch cfg.Source.Fetcher {
	case "static":
		return static.New(static.Config{
			UserAgent: cfg.Source.UserAgent,
			Timeout:   cfg.NavTimeout(),
		}), nil
	default:
		f, err := headless.New(headless.Config{
			MaxParallel:       cfg.Headless.MaxParallel,
			UserAgent:         cfg.Source.UserAgent,
			NavigationTimeout: cfg.NavTimeout(),
			SettleDelay:       cfg.SettleDelay(),
		})
		if err != nil {
			return nil, fmt.Errorf("init headless fetcher: %w", err)
		}
		return f, nil
	}
}

// serveMetrics exposes the harvest counters over HTTP at /metrics for the
// duration of the run. It returns the bound address and a stop function that
// drains the server.
func serveMetrics(addr string, logger *zap.Logger) (string, func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("metrics listener %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Handler: mux}

	go func() {
		if serr := srv.Serve(ln); serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			logger.Warn("metrics server stopped", zap.Error(serr))
		}
	}()
	logger.Info("metrics server listening", zap.String("addr", ln.Addr().String()))

	stop := func() {
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}
	return ln.Addr().String(), stop, nil
}

// resolveTarget picks the run's goal: an explicit config value wins;
// otherwise the reference dataset acts as a sizing oracle, with a fixed
// default when it is missing or empty.
func resolveTarget(cfg config.Config, logger *zap.Logger) int {
	if cfg.Harvest.Target > 0 {
		return cfg.Harvest.Target
	}
	ref := dataset.New(cfg.Dataset.ReferencePath, logger.Named("reference"))
	count, err := ref.CountValid()
	if err != nil {
		logger.Warn("sizing oracle unreadable, using default target",
			zap.String("path", cfg.Dataset.ReferencePath),
			zap.Int("default", cfg.Harvest.DefaultTarget),
			zap.Error(err),
		)
		return cfg.Harvest.DefaultTarget
	}
	if count == 0 {
		logger.Warn("sizing oracle empty or missing, using default target",
			zap.String("path", cfg.Dataset.ReferencePath),
			zap.Int("default", cfg.Harvest.DefaultTarget),
		)
		return cfg.Harvest.DefaultTarget
	}
	logger.Info("target derived from reference dataset",
		zap.String("path", cfg.Dataset.ReferencePath),
		zap.Int("target", count),
	)
	return count
}

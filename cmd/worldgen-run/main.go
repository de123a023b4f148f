// Command worldgen-run loads a domain/engine configuration, drives one
// simulation run to completion, and persists and/or reports the result.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/mrwong99/worldforge/internal/config"
	"github.com/mrwong99/worldforge/internal/distribution"
	"github.com/mrwong99/worldforge/internal/driver"
	"github.com/mrwong99/worldforge/internal/enrichment"
	enrichmcp "github.com/mrwong99/worldforge/internal/enrichment/mcp"
	enrichopenai "github.com/mrwong99/worldforge/internal/enrichment/openai"
	"github.com/mrwong99/worldforge/internal/exampledomain"
	"github.com/mrwong99/worldforge/internal/feedback"
	"github.com/mrwong99/worldforge/internal/graph"
	"github.com/mrwong99/worldforge/internal/health"
	"github.com/mrwong99/worldforge/internal/observe"
	"github.com/mrwong99/worldforge/internal/persistence"
	"github.com/mrwong99/worldforge/internal/persistence/postgres"
	"github.com/mrwong99/worldforge/internal/population"
	"github.com/mrwong99/worldforge/internal/rng"
	"github.com/mrwong99/worldforge/internal/targeting"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "configs/example.yaml", "path to the YAML domain/engine configuration file")
	runID := flag.String("run-id", "", "identifier for this run (defaults to a timestamp-derived id)")
	healthAddr := flag.String("health-addr", "", "optional address to serve /healthz and /readyz on, e.g. :8081")
	postgresDSN := flag.String("postgres-dsn", "", "optional PostgreSQL DSN to persist the final graph snapshot to")
	openaiModel := flag.String("enrichment-openai-model", "", "OpenAI chat model to use for enrichment (enables the OpenAI collaborator when set, requires OPENAI_API_KEY)")
	mcpCommand := flag.String("enrichment-mcp-command", "", "command to launch an MCP enrichment server over stdio (enables the MCP collaborator when set)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	logger := newLogger(*logLevel)
	slog.SetDefault(logger)

	if *runID == "" {
		*runID = fmt.Sprintf("run-%d", time.Now().UnixNano())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownObserve, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceName: "worldgen-run"})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownObserve(shutdownCtx)
	}()

	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "worldgen-run: config file %q not found — see configs/example.yaml\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "worldgen-run: %v\n", err)
		}
		return 1
	}

	built, err := config.Build(cfg)
	if err != nil {
		slog.Error("failed to build configuration", "err", err)
		return 1
	}

	registry := config.NewRegistry()
	registerExampleDomain(registry)

	d, err := newDriver(cfg, built, registry)
	if err != nil {
		slog.Error("failed to assemble driver", "err", err)
		return 1
	}

	var tickCount atomic.Int64
	if *healthAddr != "" {
		startHealthServer(ctx, *healthAddr, &tickCount)
	}

	collaborator, closeCollaborator, err := buildCollaborator(ctx, *openaiModel, *mcpCommand)
	if err != nil {
		slog.Error("failed to build enrichment collaborator", "err", err)
		return 1
	}
	if closeCollaborator != nil {
		defer closeCollaborator()
	}
	if collaborator != nil {
		d.Enrichment = enrichment.NewQueue(ctx, collaborator)
	}

	slog.Info("worldgen-run starting", "run_id", *runID, "config", *configPath, "seed", cfg.Engine.Seed)

	report, err := d.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run failed", "err", err)
		return 1
	}
	tickCount.Store(int64(report.TotalTicks))

	slog.Info("worldgen-run finished",
		"run_id", *runID,
		"stop_reason", report.StopReason,
		"total_ticks", report.TotalTicks,
		"eras_completed", report.ErasCompleted,
		"entities_enriched", len(report.EnrichmentMerges.Applied),
		"enrichment_collisions_rejected", len(report.EnrichmentMerges.Rejected),
	)

	if *postgresDSN != "" {
		if err := persistReport(ctx, *postgresDSN, *runID, d, built, report); err != nil {
			slog.Error("failed to persist run", "err", err)
			return 1
		}
		slog.Info("run persisted", "run_id", *runID, "dsn_host_redacted", true)
	}

	return 0
}

// newDriver assembles a [driver.Driver] from a built configuration,
// resolving every era's template/system ids through registry.
func newDriver(cfg *config.Config, built *config.Built, registry *config.Registry) (*driver.Driver, error) {
	allTemplateIDs := map[string]struct{}{}
	allSystemIDs := map[string]struct{}{}
	for _, era := range cfg.Engine.Eras {
		for id := range era.TemplateWeights {
			allTemplateIDs[id] = struct{}{}
		}
		for id := range era.SystemModifiers {
			allSystemIDs[id] = struct{}{}
		}
	}

	templateIDs := make([]string, 0, len(allTemplateIDs))
	for id := range allTemplateIDs {
		templateIDs = append(templateIDs, id)
	}
	systemIDs := make([]string, 0, len(allSystemIDs))
	for id := range allSystemIDs {
		systemIDs = append(systemIDs, id)
	}

	templates, err := registry.Templates(templateIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve templates: %w", err)
	}
	systems, err := registry.Systems(systemIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve systems: %w", err)
	}

	relationshipKinds := make([]string, 0, len(built.Domain.RelationshipKinds))
	for kind := range built.Domain.RelationshipKinds {
		relationshipKinds = append(relationshipKinds, kind)
	}

	popTracker := population.NewTracker(built.Registries, relationshipKinds, built.PressureNames, 10)
	var distTracker *distribution.Tracker
	if built.DistributionTargets != nil {
		distTracker = distribution.NewTracker(popTracker, *built.DistributionTargets)
	}

	return &driver.Driver{
		Store:        graph.New(),
		Domain:       built.Domain,
		Registries:   built.Registries,
		Templates:    templates,
		Systems:      systems,
		Config:       built.DriverConfig,
		Feedback:     feedback.NewController(built.FeedbackLoops, built.FeedbackTuning),
		Population:   popTracker,
		Distribution: distTracker,
		Diversity:    &targeting.DiversityTracker{},
		Rnd:          rng.New(cfg.Engine.Seed),
	}, nil
}

// registerExampleDomain binds the bundled reference templates/systems
// (package exampledomain) so configs/example.yaml can run out of the box.
// An embedder with its own domain registers its own implementations instead.
func registerExampleDomain(registry *config.Registry) {
	registry.RegisterTemplate(exampledomain.FoundSettlement{})
	registry.RegisterSystem(exampledomain.Migration{})
}

// buildCollaborator constructs at most one enrichment collaborator from the
// given flags. Neither flag set means enrichment is disabled entirely.
func buildCollaborator(ctx context.Context, openaiModel, mcpCommand string) (enrichment.Collaborator, func(), error) {
	switch {
	case openaiModel != "":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, nil, errors.New("OPENAI_API_KEY must be set when -enrichment-openai-model is used")
		}
		c, err := enrichopenai.New(apiKey, openaiModel)
		if err != nil {
			return nil, nil, err
		}
		return c, nil, nil
	case mcpCommand != "":
		c, err := enrichmcp.Connect(ctx, enrichmcp.Config{Command: mcpCommand})
		if err != nil {
			return nil, nil, err
		}
		return c, func() { _ = c.Close() }, nil
	default:
		return nil, nil, nil
	}
}

// persistReport writes report's final graph state to a PostgreSQL sink.
func persistReport(ctx context.Context, dsn, runID string, d *driver.Driver, built *config.Built, report *driver.Report) error {
	store, err := postgres.NewStore(ctx, dsn)
	if err != nil {
		return err
	}
	defer store.Close()

	view := graph.NewView(d.Store)
	snap := persistence.GraphSnapshot{
		Entities:         view.Entities(),
		Relationships:    view.Relationships(),
		Pressures:        view.Pressures(),
		History:          report.History,
		FinalTick:        view.Tick(),
		FinalEpoch:       view.Epoch(),
		FinalEra:         view.CurrentEra(),
		CoordinateSpaces: built.Domain.CoordinateSpaces,
	}
	return store.Persist(ctx, runID, snap)
}

// startHealthServer serves /healthz and /readyz on addr until ctx is
// cancelled. The caller stores the run's total tick count in tickCount once
// d.Run returns, not per tick: during a run the driver_progress check sees
// 0 and passes, and after the count is stored every check but the first
// reports no progress.
func startHealthServer(ctx context.Context, addr string, tickCount *atomic.Int64) {
	lastSeen := atomic.Int64{}
	handler := health.New(health.Checker{
		Name: "driver_progress",
		Check: func(context.Context) error {
			current := tickCount.Load()
			if current == lastSeen.Load() && current > 0 {
				return fmt.Errorf("no tick progress since last check (stuck at tick %d)", current)
			}
			lastSeen.Store(current)
			return nil
		},
	})

	mux := http.NewServeMux()
	handler.Register(mux)
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("health server error", "err", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

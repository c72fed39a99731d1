package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	httpadapter "incumbent/internal/adapter/http"
	metricsinmem "incumbent/internal/adapter/metrics/inmemory"
	"incumbent/internal/adapter/notify/wsnotify"
	gormrepo "incumbent/internal/adapter/repo/gorm"
	"incumbent/internal/adapter/repo/memory"
	sqlitestore "incumbent/internal/adapter/repo/sqlite"
	"incumbent/internal/app/budget"
	"incumbent/internal/app/observe"
	"incumbent/internal/app/ports"
	"incumbent/internal/app/replay"
	"incumbent/internal/app/rules"
	"incumbent/internal/app/simulation"
	"incumbent/internal/app/status"
	"incumbent/internal/domain/economy"
	"incumbent/internal/platform/config"
	"incumbent/internal/platform/otel"

	"github.com/cloudwego/hertz/pkg/app/server"
)

func main() {
	proc, err := config.ParseProcess()
	if err != nil {
		slog.Error("load process config", "error", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: proc.SlogLevel()}))
	slog.SetDefault(logger)

	if err := run(proc, logger); err != nil {
		logger.Error("incumbent stopped", "error", err)
		os.Exit(1)
	}
}

func run(proc config.Process, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Setup(ctx, proc.ServiceName)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	game, err := config.LoadGame(proc.GameConfigPath)
	if err != nil {
		return err
	}
	seed := resolveSeed(proc.Seed, time.Now)
	world, err := economy.NewWorld(game, seed)
	if err != nil {
		return fmt.Errorf("generate world: %w", err)
	}
	logger.Info("world generated", "seed", seed, "population", world.Population(), "businesses", world.BusinessCount())

	reports, tx, closeStore, err := buildStore(ctx, proc)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("close store", "error", err)
		}
	}()

	hub := wsnotify.NewHub(logger.With("component", "ws"))
	go hub.Run(ctx)
	kpiRecorder := metricsinmem.NewRecorder()

	engine := simulation.NewEngine(world, simulation.Options{
		Reports:  reports,
		Tx:       tx,
		Notifier: hub,
		Metrics:  kpiRecorder,
		Logger:   logger.With("component", "simulation"),
	})

	h := httpadapter.Handler{
		ObserveUC:    observe.UseCase{World: engine},
		StatusUC:     status.UseCase{Loop: engine, World: engine},
		ReplayUC:     replay.UseCase{Reports: reports},
		ListRulesUC:  rules.ListUseCase{World: engine},
		ToggleRuleUC: rules.ToggleUseCase{World: engine},
		UpdateRuleUC: rules.UpdateUseCase{World: engine},
		TaxUC:        budget.TaxUseCase{World: engine},
		BudgetUC:     budget.UseCase{World: engine},
		CapacityUC:   budget.CapacityUseCase{World: engine},
		KPI:          kpiRecorder,

		AllowedOrigins: proc.CORSOrigins,
	}

	wsServer := &http.Server{Addr: proc.WSAddr, Handler: wsMux(hub), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("websocket listening", "addr", proc.WSAddr)
		if err := wsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("websocket server", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = wsServer.Shutdown(shutdownCtx)
	}()

	loopErr := make(chan error, 1)
	go func() { loopErr <- engine.Run(ctx, proc.TickInterval) }()

	s := server.Default(server.WithHostPorts(proc.HTTPAddr))
	h.RegisterRoutes(s)
	logger.Info("incumbent listening", "addr", proc.HTTPAddr, "store", proc.Store, "tick", proc.TickInterval)
	s.Spin()

	stop()
	return <-loopErr
}

// buildStore picks the report store. The returned close func is never nil.
func buildStore(ctx context.Context, proc config.Process) (ports.ReportRepository, ports.TxManager, func() error, error) {
	switch proc.Store {
	case config.StorePostgres:
		db, err := gormrepo.OpenPostgres(proc.DSN)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := gormrepo.ApplyMigrations(ctx, db, os.DirFS(proc.MigrationsDir)); err != nil {
			return nil, nil, nil, fmt.Errorf("apply migrations: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("postgres handle: %w", err)
		}
		return gormrepo.NewReportRepo(db), gormrepo.NewTxManager(db), sqlDB.Close, nil
	case config.StoreSQLite:
		if err := os.MkdirAll(filepath.Dir(proc.SQLitePath), 0o755); err != nil {
			return nil, nil, nil, fmt.Errorf("create sqlite dir: %w", err)
		}
		store, err := sqlitestore.Open(ctx, proc.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, store, store.Close, nil
	default:
		store := memory.NewStore()
		return memory.NewReportRepo(store), memory.NewTxManager(store), func() error { return nil }, nil
	}
}

func wsMux(hub *wsnotify.Hub) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	return mux
}

// resolveSeed keeps a configured seed and otherwise derives one from the
// clock, so runs differ unless pinned.
func resolveSeed(seed uint64, now func() time.Time) uint64 {
	if seed != 0 {
		return seed
	}
	return uint64(now().UnixNano())
}

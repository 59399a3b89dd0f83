package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"samadhan/internal/adjudication"
	"samadhan/internal/audit"
	"samadhan/internal/complaint/service"
	"samadhan/internal/complaint/store"
	"samadhan/internal/evidence"
	"samadhan/internal/feedback"
	"samadhan/internal/geofence"
	"samadhan/internal/platform/config"
	"samadhan/internal/platform/httpserver"
	"samadhan/internal/platform/logger"
	"samadhan/internal/platform/metrics"
	platformredis "samadhan/internal/platform/redis"
	"samadhan/internal/roster"
	httptransport "samadhan/internal/transport/http"
	"samadhan/internal/verification"
)

// main wires the lifecycle engine together and keeps the process lifecycle
// small. Domain logic lives under internal/.
func main() {
	cfg := config.FromEnv()
	log := logger.New(slog.LevelInfo)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	backends := map[string]httptransport.HealthChecker{}

	complaints, closeStore, err := newComplaintStore(cfg, log, backends)
	if err != nil {
		return err
	}
	defer closeStore()

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		backends["redis"] = redisClient
		log.Info("redis tally cache enabled")
	}

	officers := roster.DefaultRoster()
	validator := geofence.New(cfg.GeofenceToleranceMeters)

	inbox := make(chan audit.Event, 256)
	trail := audit.NewInMemoryStore()
	auditWorker := audit.NewWorker(trail, inbox, log)
	publisher := audit.NewPublisher(inbox)

	svc := service.New(complaints, officers, validator,
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithAuditPublisher(publisher),
		service.WithServiceArea(cfg.ServiceArea),
		service.WithSLAWindow(cfg.SLAWindow),
	)

	engine := verification.New(svc, svc, validator, verification.Config{
		QueueDepth:  cfg.Verification.QueueDepth,
		SuccessBias: cfg.Verification.SuccessBias,
		RunBudget:   cfg.Verification.RunBudget,
		StageDelay:  cfg.Verification.StageDelay,
	},
		verification.WithLogger(log),
		verification.WithMetrics(m),
	)
	svc.SetVerificationQueue(engine)

	feedbackOpts := []feedback.Option{
		feedback.WithLogger(log),
		feedback.WithMetrics(m),
		feedback.WithAuditPublisher(publisher),
	}
	if redisClient != nil {
		feedbackOpts = append(feedbackOpts, feedback.WithTallyCache(redisClient.Client))
	}
	votes := feedback.New(complaints, feedbackOpts...)

	router := httptransport.NewRouter(httptransport.Deps{
		Complaints: httptransport.NewComplaintHandler(svc, trail, log),
		Review:     httptransport.NewReviewHandler(adjudication.New(svc), log),
		Community:  httptransport.NewCommunityHandler(votes, log),
		Directory:  httptransport.NewDirectoryHandler(officers, log),
		Artifacts:  httptransport.NewArtifactHandler(evidence.NewInMemory(), log),
		Backends:   backends,
		Logger:     log,
	})
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ignoreCancel(auditWorker.Run(gctx))
	})
	g.Go(func() error {
		return ignoreCancel(engine.Run(gctx))
	})
	g.Go(func() error {
		log.Info("starting samadhan server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newComplaintStore picks Postgres when a DSN is configured, otherwise the
// seeded in-memory store.
func newComplaintStore(cfg config.Config, log *slog.Logger, backends map[string]httptransport.HealthChecker) (store.Store, func(), error) {
	if cfg.PostgresDSN == "" {
		mem := store.NewInMemory()
		store.SeedDemoComplaints(mem, time.Now())
		log.Info("using in-memory complaint store with demo seed data")
		return mem, func() {}, nil
	}

	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, err
	}
	backends["postgres"] = dbHealth{db}
	log.Info("using postgres complaint store")
	return store.NewPostgres(db), func() { db.Close() }, nil
}

type dbHealth struct {
	db *sql.DB
}

func (h dbHealth) Health(ctx context.Context) error {
	return h.db.PingContext(ctx)
}

func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	auditsvc "sello/internal/audit"
	"sello/internal/platform/config"
	"sello/internal/platform/httpserver"
	"sello/internal/platform/logger"
	platformredis "sello/internal/platform/redis"
	"sello/internal/provider/store"
	"sello/internal/verification"
	"sello/internal/verification/collab"
	"sello/internal/verification/gate"
	"sello/internal/verification/handler"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()
	cfg := config.FromEnv()

	policy, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		log.Error("load policy", "error", err)
		os.Exit(1)
	}

	var profiles store.ProfileStore
	var services store.ServiceStore
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			log.Error("ping postgres", "error", err)
			os.Exit(1)
		}
		profiles = store.NewPostgresProfileStore(db)
		services = store.NewPostgresServiceStore(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		profiles = store.NewInMemoryProfileStore()
		services = store.NewInMemoryServiceStore()
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	alertSink, err := auditsvc.NewKafkaAlertSink(cfg.Kafka, log)
	if err != nil {
		log.Error("connect kafka", "error", err)
		os.Exit(1)
	}

	publisherOpts := []auditsvc.Option{auditsvc.WithLogger(log)}
	if alertSink != nil {
		defer alertSink.Close()
		publisherOpts = append(publisherOpts, auditsvc.WithAlertSink(alertSink))
	}
	publisher := auditsvc.NewPublisher(auditsvc.NewInMemoryStore(), publisherOpts...)

	scorer := collab.NewScorerClient(cfg.ScorerURL)
	orchestrator := verification.NewOrchestrator(policy, verification.Collaborators{
		OCR:       scorer,
		Analyzer:  scorer,
		Faces:     scorer,
		Moderator: scorer,
		Fetcher:   collab.NewHTTPFetcher(),
	},
		verification.WithLogger(log),
		verification.WithCollaboratorTimeout(cfg.CollaboratorTimeout),
	)

	gateOpts := []gate.GateOption{gate.WithLogger(log)}
	if redisClient != nil {
		gateOpts = append(gateOpts,
			gate.WithRunLock(gate.MultiLock{
				gate.NewKeyedLock(),
				gate.NewRedisRunLock(redisClient, 5*time.Minute),
			}),
			gate.WithVerdictCache(gate.NewRedisVerdictCache(redisClient, 24*time.Hour)),
		)
	}
	g := gate.New(profiles, services, orchestrator, publisher, policy, gateOpts...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go g.Start(ctx, cfg.WorkerCount)

	router := handler.NewRouter(handler.New(g, log))
	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "error", err)
	}
}

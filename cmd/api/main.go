package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/mednex-health/mednex-api/internal/config"
	"github.com/mednex-health/mednex-api/internal/email"
	"github.com/mednex-health/mednex-api/internal/handler"
	adminHandler "github.com/mednex-health/mednex-api/internal/handler/admin"
	authHandler "github.com/mednex-health/mednex-api/internal/handler/auth"
	chatHandler "github.com/mednex-health/mednex-api/internal/handler/chat"
	diagnosisHandler "github.com/mednex-health/mednex-api/internal/handler/diagnosis"
	explanationHandler "github.com/mednex-health/mednex-api/internal/handler/explanation"
	graphHandler "github.com/mednex-health/mednex-api/internal/handler/graph"
	predictionHandler "github.com/mednex-health/mednex-api/internal/handler/prediction"
	"github.com/mednex-health/mednex-api/internal/middleware"
	"github.com/mednex-health/mednex-api/internal/repository/postgres"
	"github.com/mednex-health/mednex-api/internal/router"
	assistantService "github.com/mednex-health/mednex-api/internal/service/assistant"
	authService "github.com/mednex-health/mednex-api/internal/service/auth"
	catalogService "github.com/mednex-health/mednex-api/internal/service/catalog"
	diagnosisService "github.com/mednex-health/mednex-api/internal/service/diagnosis"
	explanationService "github.com/mednex-health/mednex-api/internal/service/explanation"
	extractorService "github.com/mednex-health/mednex-api/internal/service/extractor"
	graphService "github.com/mednex-health/mednex-api/internal/service/graph"
	matcherService "github.com/mednex-health/mednex-api/internal/service/matcher"
	userService "github.com/mednex-health/mednex-api/internal/service/user"
	"github.com/mednex-health/mednex-api/internal/worker"
	"github.com/mednex-health/mednex-api/pkg/auth"
	"github.com/mednex-health/mednex-api/pkg/logger"
	redisBroker "github.com/mednex-health/mednex-api/pkg/messaging/redis"
	"github.com/mednex-health/mednex-api/pkg/metrics"
)

const version = "1.0.0"

func main() {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	base := postgres.NewBaseRepository(db)
	userRepo := postgres.NewUserRepository(base)
	diseaseRepo := postgres.NewDiseaseRepository(base)
	symptomRepo := postgres.NewSymptomRepository(base)
	outboxRepo := postgres.NewOutboxRepository(base)
	diagnosisRepo := postgres.NewDiagnosisRepository(base, outboxRepo)
	explanationRepo := postgres.NewExplanationRepository(base)

	// Services
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)

	var emailSvc email.Service
	if cfg.SMTP.Host != "" {
		emailSvc = email.NewSMTPService(email.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}

	upstreamTimeout := time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second
	authSvc := authService.NewService(userRepo, jwtSvc, emailSvc)
	matcherSvc := matcherService.NewService(diseaseRepo)
	diagnosisSvc := diagnosisService.NewService(diagnosisRepo)
	extractorSvc := extractorService.NewService(extractorService.Config{
		ServiceURL: cfg.Upstream.NERServiceURL,
		Timeout:    upstreamTimeout,
	})
	assistantSvc := assistantService.NewService(assistantService.Config{
		APIKey:  cfg.Upstream.ChatAPIKey,
		APIURL:  cfg.Upstream.ChatAPIURL,
		Model:   cfg.Upstream.ChatModel,
		Timeout: upstreamTimeout,
	})
	graphSvc := graphService.NewService(diseaseRepo)
	explanationSvc := explanationService.NewService(explanationRepo)
	userSvc := userService.NewService(userRepo, outboxRepo)
	catalogSvc := catalogService.NewService(diseaseRepo, symptomRepo, outboxRepo)

	// Metrics
	m := metrics.NewMetrics("mednex")

	// Middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(authSvc)
	h := handler.NewHandler(version)
	authH := authHandler.NewHandler(authSvc)
	predictionH := predictionHandler.NewHandler(matcherSvc, extractorSvc, m)
	graphH := graphHandler.NewHandler(graphSvc)
	chatH := chatHandler.NewHandler(assistantSvc)
	explanationH := explanationHandler.NewHandler(explanationSvc)
	diagnosisH := diagnosisHandler.NewHandler(diagnosisSvc)
	adminH := adminHandler.NewHandler(userSvc, catalogSvc, diagnosisSvc)

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	}

	r := router.NewRouter(
		authMiddleware,
		h,
		authH,
		predictionH,
		graphH,
		chatH,
		explanationH,
		diagnosisH,
		adminH,
		m,
		router.RouterConfig{
			RateLimitRPS:   100,
			RateLimitBurst: 200,
			CORSConfig:     corsConfig,
			Timeout:        time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	// Audit event publishing is best-effort: the API runs without Redis,
	// events just stay pending in the outbox.
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	if cfg.Redis.URL != "" {
		broker, err := redisBroker.NewRedisBroker(redisBroker.Config{URL: cfg.Redis.URL}, &log.Logger)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, outbox events will stay pending")
		} else {
			defer broker.Close()
			processor := worker.NewOutboxProcessor(
				outboxRepo,
				broker,
				worker.OutboxProcessorConfig{},
				logger.NewLogger(nil),
				m,
			)
			go processor.Start(workerCtx)
		}
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	stopWorker()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

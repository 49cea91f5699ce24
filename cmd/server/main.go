package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"factory-gpt-service/internal/adapters/primary/http/handlers"
	"factory-gpt-service/internal/adapters/primary/http/middleware"
	"factory-gpt-service/internal/adapters/secondary/azureopenai"
	"factory-gpt-service/internal/adapters/secondary/mqtt"
	"factory-gpt-service/internal/adapters/secondary/postgres"
	"factory-gpt-service/internal/adapters/secondary/sessions"
	"factory-gpt-service/internal/config"
	"factory-gpt-service/internal/core/services"
)

const sweepInterval = 10 * time.Minute

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	// Create database pool. A missing or unreachable warehouse is not fatal:
	// the server still serves and the agent reports the error state.
	var pool *pgxpool.Pool
	if err := cfg.Database.Validate(); err != nil {
		log.WithError(err).Warn("warehouse is not configured")
	} else {
		poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
		if err != nil {
			log.Fatalf("parse db config: %v", err)
		}
		poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
		poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
		poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

		pool, err = pgxpool.NewWithConfig(context.Background(), poolCfg)
		if err != nil {
			log.Fatalf("create db pool: %v", err)
		}
		defer pool.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Secondary Adapters
	llm, llmErr := azureopenai.NewClient(&cfg.AzureOpenAI)
	if llmErr != nil {
		log.WithError(llmErr).Warn("azure openai is not configured")
	}

	warehouseRepo := postgres.NewWarehouseRepository(pool)
	sessionStore := sessions.NewMemoryStore()

	// Core Services
	schemaSvc := services.NewSchemaService(warehouseRepo)
	indexSvc := services.NewMachineIndexService(warehouseRepo)
	agentSvc := services.NewAgentService(llm, warehouseRepo, schemaSvc, indexSvc)
	insightsSvc := services.NewInsightsService(llm, sessionStore, cfg.Insights.UploadDir, cfg.Insights.SessionTTL)

	// Initialize the agent in the background; /agent-status reports progress.
	go func() {
		switch {
		case llmErr != nil:
			agentSvc.Fail(llmErr)
		case pool == nil:
			agentSvc.Fail(cfg.Database.Validate())
		default:
			if err := agentSvc.Init(ctx); err != nil {
				log.WithError(err).Error("agent initialization failed")
			}
		}
	}()

	go insightsSvc.RunSweeper(ctx, sweepInterval)

	// Telemetry ingest (optional - based on config)
	if cfg.MQTT.Enabled && pool != nil {
		telemetrySvc := services.NewTelemetryIngestService(postgres.NewTelemetryRepository(pool))
		subscriber, err := mqtt.NewSubscriber(&cfg.MQTT, telemetrySvc.HandleMessage)
		if err != nil {
			log.WithError(err).Warn("mqtt ingest init failed (continuing without live telemetry)")
		} else {
			defer subscriber.Close()
			log.Info("mqtt telemetry ingest started")
		}
	} else {
		log.Info("mqtt telemetry ingest disabled")
	}

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(agentSvc, insightsSvc, cfg.Reports.LeadTimeURL)

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	api := router.Group(cfg.Server.BasePath)
	h.RegisterRoutes(api)

	// Health check with DB ping
	router.GET("/healthz", func(c *gin.Context) {
		if pool == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "database not configured"})
			return
		}
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Start server
	addr := cfg.Server.Addr()
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

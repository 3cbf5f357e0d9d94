package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voiceagent-platform/internal/agents"
	"voiceagent-platform/internal/audit"
	"voiceagent-platform/internal/auth"
	"voiceagent-platform/internal/config"
	"voiceagent-platform/internal/contact"
	"voiceagent-platform/internal/conversations"
	"voiceagent-platform/internal/profiles"
	"voiceagent-platform/internal/reporting"
	"voiceagent-platform/internal/tasks"
	"voiceagent-platform/internal/voiceai"
	"voiceagent-platform/pkg/logger"
	"voiceagent-platform/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	voiceClient, err := voiceai.NewClient(cfg.VoiceAI)
	if err != nil {
		log.Error("voiceai init failed", "err", err)
		os.Exit(1)
	}

	// Repositories
	agentRepo := agents.NewPostgresRepo(db)
	taskRepo := tasks.NewPostgresRepo(db)
	profileRepo := profiles.NewPostgresRepo(db)
	convStore := conversations.NewPostgresStore(db)
	auditRepo := audit.NewPostgresRepo(db)
	reportRepo := reporting.NewPostgresRepo(db)

	// Services
	agentService := agents.NewService(agentRepo, voiceClient)
	taskService := tasks.NewService(taskRepo, agentRepo, profileRepo, voiceClient)
	auditService := audit.NewService(auditRepo)
	reconciler := conversations.NewReconciler(convStore, voiceClient, auditService)
	reportService := reporting.NewService(reportRepo)
	contactService := contact.NewService(
		cfg.Contact.ResendAPIKey,
		cfg.Contact.FromAddress,
		cfg.Contact.RecipientEmail,
		10*time.Second,
	)

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	deps := handlerSet{
		Auth:          auth.Handlers{Manager: authManager},
		Agents:        agents.Handlers{Service: agentService},
		Tasks:         tasks.Handlers{Service: taskService},
		Profiles:      profiles.Handlers{Repo: profileRepo},
		Conversations: conversations.Handlers{Reconciler: reconciler, Locks: conversations.NewRedisAgentLocks(rdb)},
		Reporting:     reporting.Handlers{Service: reportService},
		Contact:       contact.Handlers{Service: contactService},
	}

	health := func(c *gin.Context) {
		if err := utils.HealthCheck(c.Request.Context(), db, 2*time.Second); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}

	registerRoutes(r, deps, auth.RequireAccessToken(authManager), health)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}

	_ = logger.ShutdownFlush(shutdownCtx, 2*time.Second)
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finbot/finbot/config"
	"finbot/finbot/controllers"
	"finbot/finbot/routes"
	"finbot/finbot/services/memory"
	"finbot/finbot/services/nlp"
	"finbot/finbot/sources/psql"
	"finbot/finbot/sources/psql/dao"
	"finbot/finbot/utils/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func main() {
	logging.InitLogger()
	cfg := config.LoadConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Error("database connection error", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	userDAO := dao.NewUserDAO(db.DB)
	sessionDAO := dao.NewSessionDAO(db.DB)
	turnDAO := dao.NewChatTurnDAO(db.DB)

	backend := nlp.NewScriptBackend(cfg.Assistant.PythonBin, cfg.Assistant.QueryScript)
	summarizer := nlp.NewScriptSummarizer(cfg.Assistant.PythonBin, cfg.Assistant.SummaryScript)
	resolver := memory.NewResolver(sessionDAO, summarizer)
	accumulator := memory.NewAccumulator(sessionDAO, turnDAO, summarizer,
		cfg.Assistant.SummaryThreshold, cfg.Assistant.TitleWords)

	authCtrl := controllers.NewAuthController(userDAO, cfg)
	chatCtrl := controllers.NewChatController(userDAO, sessionDAO, turnDAO, backend, resolver, accumulator)
	sessionCtrl := controllers.NewSessionController(userDAO, sessionDAO, turnDAO)
	webhookCtrl := controllers.NewWebhookController(userDAO, cfg.WebhookSecret)
	healthCtrl := controllers.NewHealthController()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Mount("/auth", routes.AuthRoutes(authCtrl))
	r.Mount("/chat", routes.ChatRoutes(chatCtrl, cfg))
	r.Mount("/sessions", routes.SessionRoutes(sessionCtrl, cfg))
	r.Mount("/webhooks", routes.WebhookRoutes(webhookCtrl))
	r.Mount("/health", routes.HealthRoutes(healthCtrl))

	srv := &http.Server{
		Addr:    ":3000",
		Handler: r,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}

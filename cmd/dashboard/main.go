package main

import (
	"fmt"
	stdlog "log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"ragadmin/internal/backend"
	"ragadmin/internal/pkg/logger"
	"ragadmin/internal/platform/config"
	"ragadmin/internal/platform/session"
	"ragadmin/internal/web"
	"ragadmin/internal/web/handlers"
	"ragadmin/internal/web/middleware"
	"ragadmin/internal/workflow"
)

func main() {
	// A missing .env is fine; config falls back to defaults and real env vars.
	_ = godotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		stdlog.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	// Session
	sessions := session.NewStore(cfg.Session.FilePath)
	if err := sessions.Load(); err != nil {
		stdlog.Fatalf("Failed to load session state: %v", err)
	}
	sessions.Subscribe(func() {
		log.Warn().Msg("session cleared; operator must log in again")
	})

	// Backend client
	client := backend.NewClient(cfg.Backend, sessions)

	// Workflow services
	licenseSvc := workflow.NewLicenseService(client)
	kbSvc := workflow.NewKnowledgeBaseService(client)
	aiConfigSvc := workflow.NewAIConfigService(client)

	// Handlers
	renderer, err := handlers.NewRenderer()
	if err != nil {
		stdlog.Fatalf("Failed to parse templates: %v", err)
	}

	deps := &web.Dependencies{
		AuthHandler:           handlers.NewAuthHandler(client, sessions, renderer),
		DashboardHandler:      handlers.NewDashboardHandler(licenseSvc, sessions, renderer),
		UsersHandler:          handlers.NewUsersHandler(client, sessions, renderer),
		LicensesHandler:       handlers.NewLicensesHandler(licenseSvc, sessions, renderer),
		KnowledgeBasesHandler: handlers.NewKnowledgeBasesHandler(kbSvc, sessions, renderer),
		ConfigurationHandler:  handlers.NewConfigurationHandler(aiConfigSvc, sessions, renderer),
		Guard:                 middleware.NewGuard(sessions),
	}
	router := web.NewRouter(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Info().Str("addr", addr).Str("backend", cfg.Backend.APIURL).Msg("dashboard starting")
	if err := server.ListenAndServe(); err != nil {
		stdlog.Fatalf("Server failed: %v", err)
	}
}

package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ambassador_backend/database"
	"ambassador_backend/internal/auth"
	"ambassador_backend/internal/config"
	"ambassador_backend/internal/email"
	"ambassador_backend/internal/handlers"
	"ambassador_backend/internal/imageprocessor"
	"ambassador_backend/internal/logger"
	"ambassador_backend/internal/middleware"
	"ambassador_backend/internal/repositories"
	"ambassador_backend/internal/routes"
	"ambassador_backend/internal/services"
	"ambassador_backend/internal/storage"
	"ambassador_backend/internal/validator"
	"ambassador_backend/internal/workers"
)

const (
	verifyPath      = "/api/v1/applications/verify"
	shutdownTimeout = 10 * time.Second
)

// App - собранное приложение: роутер, сервисы и очередь писем
type App struct {
	Router     *gin.Engine
	Services   *services.ServiceContainer
	MailWorker *workers.MailWorker
}

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := database.Open(cfg.Database.Driver, cfg.Database.DSN, cfg.Server.Env)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	application, err := New(cfg, gormDB, nil)
	if err != nil {
		logger.Fatal("Failed to initialize application", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Services.AuthService.SeedFirstAdmin(ctx, gormDB, cfg.FirstAdminEmail, cfg.FirstAdminPassword); err != nil {
		// без администратора дашборд бесполезен
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	application.MailWorker.Start(ctx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              address,
		Handler:           application.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "address", address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	application.MailWorker.Wait()
	if err := application.Services.EmailProvider.Close(); err != nil {
		logger.Warn("Email provider close error", "error", err)
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("Database close error", "error", err)
	}
	logger.Info("Server stopped")
}

// New собирает приложение. provider == nil - выбор по конфигу (SMTP или лог).
// Очередь писем не запущена, ее стартует вызывающий.
func New(cfg *config.Config, gormDB *gorm.DB, provider email.Provider) (*App, error) {
	if cfg.JWT.Secret == "" {
		return nil, errors.New("jwt secret is not configured")
	}

	if provider == nil {
		provider = newEmailProvider(cfg)
	}

	storageInstance, err := storage.NewStorage(storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Endpoint:  cfg.Storage.Endpoint,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	mailWorker := workers.NewMailWorker(provider, cfg.MailQueue.Size)

	// 1. Сервисы
	serviceContainer, err := initializeServices(cfg, provider, storageInstance, mailWorker)
	if err != nil {
		return nil, err
	}

	// 2. Хэндлеры
	appHandlers := initializeHandlers(cfg, serviceContainer)

	// 3. Gin
	ginRouter := initializeGinRouter(cfg, gormDB)
	if local, ok := storageInstance.(*storage.LocalStorage); ok && strings.HasPrefix(cfg.Storage.BaseURL, "/") {
		ginRouter.Static(cfg.Storage.BaseURL, local.BasePath())
	}

	// 4. Маршруты
	routes.RegisterRoutes(ginRouter, appHandlers, serviceContainer.TokenManager)

	return &App{
		Router:     ginRouter,
		Services:   serviceContainer,
		MailWorker: mailWorker,
	}, nil
}

func newEmailProvider(cfg *config.Config) email.Provider {
	if !cfg.Email.Enabled {
		logger.Warn("Email is disabled, messages will only be logged")
		return email.NewLogProvider()
	}

	smtpCfg := email.DefaultConfig()
	smtpCfg.Host = cfg.Email.SMTPHost
	smtpCfg.Port = cfg.Email.SMTPPort
	smtpCfg.Username = cfg.Email.SMTPUsername
	smtpCfg.Password = cfg.Email.SMTPPassword
	smtpCfg.FromEmail = cfg.Email.FromEmail
	smtpCfg.FromName = cfg.Email.FromName
	smtpCfg.UseTLS = cfg.Email.UseTLS

	provider := email.NewSMTPProvider(smtpCfg)
	if err := provider.Validate(); err != nil {
		logger.Warn("SMTP configuration is incomplete, falling back to log provider", "error", err)
		return email.NewLogProvider()
	}
	return provider
}

func initializeServices(
	cfg *config.Config,
	provider email.Provider,
	storageInstance storage.Storage,
	mailQueue services.MailQueue,
) (*services.ServiceContainer, error) {
	templates, err := email.NewDefaultTemplateManager()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}
	siteName := cfg.Email.FromName
	if siteName == "" {
		siteName = "Campus Ambassador Program"
	}
	composer := email.NewComposer(templates, siteName)

	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute)
	nonceManager := auth.NewNonceManager(cfg.Nonce.Secret, time.Duration(cfg.Nonce.TTL)*time.Minute)

	// --- Репозитории ---
	applicationRepo := repositories.NewApplicationRepository()
	campaignRepo := repositories.NewCampaignRepository()
	frameRepo := repositories.NewFrameRepository()
	adminRepo := repositories.NewAdminRepository()

	// --- Сервисы ---
	applicationService := services.NewApplicationService(
		applicationRepo,
		campaignRepo,
		services.NewTokenService(),
		services.NewSanitizer(),
		validator.New(),
		composer,
		mailQueue,
		services.ApplicationServiceConfig{
			VerifyURL:        strings.TrimRight(cfg.Verification.BaseURL, "/") + verifyPath,
			TokenTTL:         cfg.Verification.TokenTTL,
			RegistrationOpen: cfg.RegistrationOpen(),
			AdminEmail:       cfg.Application.AdminEmail,
			NotifyAdmin:      cfg.Application.EmailNotifications,
			ItemsPerPage:     cfg.Application.ItemsPerPage,
		},
	)
	limits := config.DefaultUploadLimits
	frameService := services.NewFrameService(
		frameRepo,
		campaignRepo,
		storageInstance,
		imageprocessor.NewProcessor(limits.MaxPhotoPixels),
		limits,
	)
	campaignService := services.NewCampaignService(campaignRepo, applicationRepo, frameService, applicationService)
	authService := services.NewAuthService(adminRepo, tokenManager)

	return &services.ServiceContainer{
		ApplicationService: applicationService,
		AuthService:        authService,
		CampaignService:    campaignService,
		FrameService:       frameService,
		TokenManager:       tokenManager,
		NonceManager:       nonceManager,
		EmailProvider:      provider,
		Storage:            storageInstance,
	}, nil
}

func initializeHandlers(cfg *config.Config, services *services.ServiceContainer) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		ApplicationHandler: handlers.NewApplicationHandler(
			baseHandler,
			services.ApplicationService,
			services.NonceManager,
			cfg.Verification.RedirectURL,
		),
		AdminApplicationHandler: handlers.NewAdminApplicationHandler(baseHandler, services.ApplicationService),
		AuthHandler:             handlers.NewAuthHandler(baseHandler, services.AuthService),
		CampaignHandler:         handlers.NewCampaignHandler(baseHandler, services.CampaignService),
		FrameHandler:            handlers.NewFrameHandler(baseHandler, services.FrameService, config.DefaultUploadLimits),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(middleware.DBMiddleware(db))
	return router
}

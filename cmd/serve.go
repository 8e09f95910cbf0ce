package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/valvedesk/quoting-backoffice/app/handlers"
	"github.com/valvedesk/quoting-backoffice/app/middleware"
	"github.com/valvedesk/quoting-backoffice/app/router"
	"github.com/valvedesk/quoting-backoffice/app/services"
	businessflow "github.com/valvedesk/quoting-backoffice/business_flow"
	"github.com/valvedesk/quoting-backoffice/config"
	"github.com/valvedesk/quoting-backoffice/repository"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// Application holds the long-lived resources of a running server
type Application struct {
	router    *router.FiberRouter
	db        *gorm.DB
	cache     *redis.Client
	stopFuncs []func()
}

func runServe(cmd *cobra.Command, args []string) error {
	logger.Info("Starting quoting back-office")

	app, err := initializeApplication(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	app.router.SetupRoutes()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if cfg.Security.TLSEnabled {
			logger.Info("Server starting with TLS", zap.String("address", address))
			serverErr <- app.router.GetApp().Listen(address, tlsListenConfig(cfg.Security))
			return
		}
		serverErr <- app.router.Start(address)
	}()

	select {
	case sig := <-sigChan:
		logger.Info("Shutting down gracefully", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server stopped unexpectedly", zap.Error(err))
			app.close()
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := app.router.GetApp().ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	app.close()
	logger.Info("Server stopped")
	return nil
}

func (a *Application) close() {
	for _, fn := range a.stopFuncs {
		fn()
	}
	if a.cache != nil {
		_ = a.cache.Close()
	}
	closeDatabase(a.db, logger)
}

// initializeApplication builds repositories, services, flows and handlers and hands them to the router
func initializeApplication(ctx context.Context, cfg *config.ProductionConfig, log *zap.Logger) (*Application, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := initializeDatabase(cfg.Database, log)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache, log)
	if err != nil {
		closeDatabase(db, log)
		return nil, err
	}

	app := &Application{db: db, cache: rc}
	app.stopFuncs = append(app.stopFuncs, startCacheHealthMonitor(ctx, rc, cfg.Cache.HealthCheckInterval, log))

	// Repositories
	txManager := repository.NewTxManager(db)
	priceRepos := repository.NewPriceRepositories(db)
	supplierRepo := repository.NewSupplierRepository(db)
	referenceRepo := repository.NewReferenceItemRepository(db)
	billRepo := repository.NewBillRepository(db)
	operatorRepo := repository.NewOperatorRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	settingRepo := repository.NewSystemSettingRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Services
	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.UseRSAKeys,
		cfg.JWT.PrivateKey,
		cfg.JWT.PublicKey,
		cfg.JWT.SecretKey,
	)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	log.Info("Token service initialized", zap.String("issuer", cfg.JWT.Issuer), zap.String("audience", cfg.JWT.Audience))

	captchaSvc, err := services.NewCaptchaServiceRotate(cfg.Captcha.TTL, cfg.Captcha.Padding, cfg.Captcha.ImageSize)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("failed to initialize captcha service: %w", err)
	}

	settingCache := services.NewSettingCache(cfg.Cache.SettingTTL)
	menuCache := services.NewMenuCache(rc, cfg.Cache.RedisPrefix, cfg.Cache.DefaultTTL, log.Named("menu_cache"))

	// Flows
	settingFlow := businessflow.NewSettingFlow(settingRepo, auditRepo, txManager, settingCache, log.Named("setting"))
	menuFlow := businessflow.NewMenuFlow(menuRepo, roleRepo, auditRepo, txManager, menuCache, log.Named("menu"))
	lifecycleFlow := businessflow.NewPriceLifecycleFlow(priceRepos, txManager, log.Named("price"))
	queryFlow := businessflow.NewPriceQueryFlow(priceRepos, cfg.Price.ExportMaxRows)
	quoteFlow := businessflow.NewQuoteFlow(priceRepos, billRepo, supplierRepo, auditRepo, txManager, settingFlow, cfg.Price.DefaultValidityDays, log.Named("quote"))
	supplierFlow := businessflow.NewSupplierFlow(supplierRepo, auditRepo, txManager, log.Named("supplier"))
	referenceFlow := businessflow.NewReferenceFlow(referenceRepo)
	billFlow := businessflow.NewBillFlow(billRepo)
	authFlow := businessflow.NewOperatorAuthFlow(operatorRepo, auditRepo, tokenService, captchaSvc, log.Named("auth"))
	operatorFlow := businessflow.NewOperatorFlow(operatorRepo, roleRepo, cfg.Security.BcryptCost)

	// Handlers
	h := router.Handlers{
		Auth:      handlers.NewAuthHandler(authFlow, log),
		Price:     handlers.NewPriceHandler(lifecycleFlow, queryFlow, quoteFlow, log),
		Supplier:  handlers.NewSupplierHandler(supplierFlow, log),
		Reference: handlers.NewReferenceHandler(referenceFlow, log),
		Bill:      handlers.NewBillHandler(billFlow, log),
		Menu:      handlers.NewMenuHandler(menuFlow, log),
		Operator:  handlers.NewOperatorHandler(operatorFlow, log),
		Setting:   handlers.NewSettingHandler(settingFlow, log),
	}

	authMiddleware := middleware.NewAuthMiddleware(tokenService)
	permissionMiddleware := middleware.NewPermissionMiddleware(menuFlow, log.Named("permission"))

	app.router = router.NewFiberRouter(cfg, h, authMiddleware, permissionMiddleware, log.Named("http"))
	return app, nil
}

func tlsListenConfig(sec config.SecurityConfig) fiber.ListenConfig {
	return fiber.ListenConfig{
		CertFile:    sec.TLSCertFile,
		CertKeyFile: sec.TLSKeyFile,
	}
}

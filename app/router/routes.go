// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/swag"
	"go.uber.org/zap"

	"github.com/valvedesk/quoting-backoffice/app/dto"
	"github.com/valvedesk/quoting-backoffice/app/handlers"
	"github.com/valvedesk/quoting-backoffice/app/middleware"
	businessflow "github.com/valvedesk/quoting-backoffice/business_flow"
	"github.com/valvedesk/quoting-backoffice/config"
	_ "github.com/valvedesk/quoting-backoffice/docs"
	"github.com/valvedesk/quoting-backoffice/utils"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Auth      handlers.AuthHandlerInterface
	Price     handlers.PriceHandlerInterface
	Supplier  handlers.SupplierHandlerInterface
	Reference handlers.ReferenceHandlerInterface
	Bill      handlers.BillHandlerInterface
	Menu      handlers.MenuHandlerInterface
	Operator  handlers.OperatorHandlerInterface
	Setting   handlers.SettingHandlerInterface
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app         *fiber.App
	cfg         *config.ProductionConfig
	handlers    Handlers
	auth        *middleware.AuthMiddleware
	permissions *middleware.PermissionMiddleware
	logger      *zap.Logger
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(
	cfg *config.ProductionConfig,
	h Handlers,
	auth *middleware.AuthMiddleware,
	permissions *middleware.PermissionMiddleware,
	logger *zap.Logger,
) *FiberRouter {
	if logger == nil {
		logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:      "Valve Quoting Back-office",
		ServerHeader: "valve-quoting",
		ErrorHandler: errorHandler(logger),
		BodyLimit:    cfg.Server.BodyLimit,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:         app,
		cfg:         cfg,
		handlers:    h,
		auth:        auth,
		permissions: permissions,
		logger:      logger,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	r.setupMiddleware()

	if r.cfg.Metrics.Enabled {
		r.app.Get(r.cfg.Metrics.Path, adaptor.HTTPHandler(promhttp.Handler()))
	}

	api := r.app.Group("/api/v1")
	api.Get("/health", r.healthCheck)

	if r.cfg.Deployment.Environment == "development" || r.cfg.Deployment.Environment == "local" {
		api.Get("/swagger.json", r.serveSwaggerJSON)
		r.logger.Info("API documentation enabled")
	}

	api.Use(limiter.New(limiter.Config{
		Max:          r.cfg.Security.GlobalRateLimit,
		Expiration:   r.cfg.Security.RateLimitWindow,
		KeyGenerator: func(c fiber.Ctx) string { return c.IP() },
		LimitReached: rateLimitReached,
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	admin := api.Group("/admin")

	// Operator authentication, with stricter rate limiting
	authGroup := admin.Group("/auth")
	authGroup.Use(limiter.New(limiter.Config{
		Max:          r.cfg.Security.AuthRateLimit,
		Expiration:   r.cfg.Security.RateLimitWindow,
		KeyGenerator: func(c fiber.Ctx) string { return c.IP() },
		LimitReached: rateLimitReached,
	}))
	authGroup.Get("/captcha", r.handlers.Auth.InitCaptcha)
	authGroup.Post("/login", r.handlers.Auth.Login)
	authGroup.Post("/refresh", r.handlers.Auth.Refresh)
	authGroup.Post("/logout", r.auth.Authenticate(), r.handlers.Auth.Logout)

	protected := admin.Group("", r.auth.Authenticate())
	protected.Get("/me/menus", r.handlers.Menu.MyMenus)

	require := r.permissions.Require

	menus := protected.Group("/menus", require(businessflow.PermissionMenu))
	menus.Get("/", r.handlers.Menu.Tree)
	menus.Post("/", r.handlers.Menu.CreateMenu)
	menus.Put("/:id", r.handlers.Menu.UpdateMenu)
	menus.Delete("/:id", r.handlers.Menu.DeleteMenu)

	roles := protected.Group("/roles", require(businessflow.PermissionRole))
	roles.Get("/", r.handlers.Menu.ListRoles)
	roles.Post("/", r.handlers.Menu.CreateRole)
	roles.Put("/:id/menus", r.handlers.Menu.ReplaceRoleMenus)

	operators := protected.Group("/operators", require(businessflow.PermissionOperator))
	operators.Get("/", r.handlers.Operator.List)
	operators.Post("/", r.handlers.Operator.Create)
	operators.Get("/:id", r.handlers.Operator.Get)

	suppliers := protected.Group("/suppliers", require(businessflow.PermissionSupplier))
	suppliers.Get("/", r.handlers.Supplier.List)
	suppliers.Post("/", r.handlers.Supplier.Create)
	suppliers.Post("/import", r.handlers.Supplier.Import)
	suppliers.Get("/export", r.handlers.Supplier.Export)
	suppliers.Get("/:id", r.handlers.Supplier.Get)
	suppliers.Put("/:id", r.handlers.Supplier.Update)
	suppliers.Delete("/:id", r.handlers.Supplier.Delete)

	references := protected.Group("/reference-items", require(businessflow.PermissionReference))
	references.Get("/", r.handlers.Reference.List)
	references.Post("/", r.handlers.Reference.Create)
	references.Put("/:id", r.handlers.Reference.Update)
	references.Delete("/:id", r.handlers.Reference.Delete)

	bills := protected.Group("/bills", require(businessflow.PermissionBill))
	bills.Get("/", r.handlers.Bill.List)
	bills.Post("/", r.handlers.Bill.Create)
	bills.Get("/:id", r.handlers.Bill.Get)

	prices := protected.Group("/prices", require(businessflow.PermissionPrice))
	prices.Post("/quote", r.handlers.Price.SubmitQuote)
	prices.Post("/status", r.handlers.Price.SetPriceStatus)
	prices.Get("/:category/:set/export", r.handlers.Price.ExportPrices)
	prices.Get("/:category/:set", r.handlers.Price.ListPrices)
	prices.Put("/:category/:id/remark", r.handlers.Price.UpdateRemark)

	settings := protected.Group("/settings", require(businessflow.PermissionSetting))
	settings.Get("/", r.handlers.Setting.List)
	settings.Get("/:key", r.handlers.Setting.Get)
	settings.Put("/:key", r.handlers.Setting.Upsert)

	r.app.Use(r.notFoundHandler)

	r.logger.Info("Routes configured", zap.Int("handlers", int(r.app.HandlersCount())))
}

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header:    "X-Request-ID",
		Generator: generateRequestID,
	}))

	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             r.cfg.Security.XFrameOptions,
		HSTSMaxAge:                r.cfg.Security.HSTSMaxAge,
		ContentSecurityPolicy:     r.cfg.Security.CSPPolicy,
		ReferrerPolicy:            r.cfg.Security.ReferrerPolicy,
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "cross-origin",
		XDNSPrefetchControl:       "off",
		XDownloadOptions:          "noopen",
		XPermittedCrossDomain:     "none",
	}))

	maxAge := r.cfg.Security.CORSMaxAge
	if maxAge == 0 {
		maxAge = utils.CORSMaxAge
	}
	r.app.Use(cors.New(cors.Config{
		AllowOrigins:     r.cfg.Security.AllowedOrigins,
		AllowMethods:     r.cfg.Security.AllowedMethods,
		AllowHeaders:     r.cfg.Security.AllowedHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: r.cfg.Security.AllowCredentials,
		MaxAge:           maxAge,
	}))

	if r.cfg.Server.EnableCompression {
		r.app.Use(compress.New(compress.Config{
			Level: compress.Level(r.cfg.Server.CompressionLevel),
			Next: func(c fiber.Ctx) bool {
				// workbooks are already zip-compressed
				return strings.HasSuffix(c.Path(), "/export")
			},
		}))
	}

	if r.cfg.Server.EnableMetrics {
		r.app.Use(middleware.Metrics())
	}

	if r.cfg.Logging.EnableAccessLog {
		r.app.Use(logger.New(logger.Config{
			Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","protocol":"${protocol}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent},"referer":"${referer}"}` + "\n",
			TimeFormat: time.RFC3339,
			TimeZone:   "UTC",
			Next: func(c fiber.Ctx) bool {
				return c.Path() == "/api/v1/health"
			},
		}))
	}

	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e any) {
			r.logger.Error("panic recovered",
				zap.Any("request_id", c.Locals("requestid")),
				zap.String("error", fmt.Sprint(e)),
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
				zap.String("ip", c.IP()),
			)
		},
	}))
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	r.logger.Info("Starting server", zap.String("address", address))
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"version":   r.cfg.Deployment.Version,
			"service":   "valve-quoting-backoffice",
		},
	})
}

func (r *FiberRouter) serveSwaggerJSON(c fiber.Ctx) error {
	doc, err := swag.ReadDoc()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.APIResponse{
			Success: false,
			Message: "Failed to load Swagger documentation",
			Error:   dto.ErrorDetail{Code: "SWAGGER_LOAD_ERROR"},
		})
	}
	c.Set("Content-Type", "application/json")
	return c.SendString(doc)
}

func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": c.Locals("requestid"),
			},
		},
	})
}

func rateLimitReached(c fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
		Success: false,
		Message: "Too many requests. Please try again later.",
		Error:   dto.ErrorDetail{Code: "RATE_LIMIT_EXCEEDED"},
	})
}

// errorHandler answers errors that escape the handlers
func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}
		log.Error("request failed", zap.Int("status", code), zap.Error(err))

		return c.Status(code).JSON(dto.APIResponse{
			Success: false,
			Message: "An internal server error occurred",
			Error: dto.ErrorDetail{
				Code: "INTERNAL_ERROR",
				Details: fiber.Map{
					"timestamp":  utils.UTCNow().Unix(),
					"request_id": c.Locals("requestid"),
				},
			},
		})
	}
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	_, _ = rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

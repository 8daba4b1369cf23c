package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	common_api "go-reports/internal/common/api"
	"go-reports/internal/config"
	"go-reports/internal/database"
	"go-reports/internal/features/audit"
	"go-reports/internal/features/dashboard"
	"go-reports/internal/features/maintenance"
	"go-reports/internal/features/share"
	"go-reports/internal/features/system"
	"go-reports/internal/features/template"
	"go-reports/internal/logger"
	"go-reports/internal/middleware"
	"go-reports/pkg/utils"

	_ "go-reports/docs" // Import swagger docs

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var apiErr *common_api.Error
			if errors.As(err, &apiErr) {
				return c.Status(apiErr.Status).JSON(fiber.Map{
					"code":  apiErr.Code,
					"error": apiErr.Message,
				})
			}
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	prometheus := fiberprometheus.New("go-reports")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	log.Printf("Registering %d routes...\n", len(routes))
	for _, route := range routes {
		route.Setup(app)
	}
	log.Println("All routes registered successfully")
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(lc fx.Lifecycle, versionRepo dashboard.VersionRepository, shareRepo share.Repository) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := versionRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure version indexes: %v", err)
				}
				if err := shareRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure share indexes: %v", err)
				}
			}()
			return nil
		},
	})
}

// @title           go-reports API
// @version         1.0
// @description     Dashboard layout validation, versioning, publication and public sharing.

// @host            localhost:8080
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Initialize Repositories
			audit.NewRepository,
			dashboard.NewRepository,
			dashboard.NewVersionRepository,
			share.NewRepository,
			template.NewRepository,

			// Initialize Services
			audit.NewService,
			dashboard.NewService,
			share.NewService,
			template.NewService,
			maintenance.NewScheduler,

			// Initialize Controllers
			dashboard.NewController,
			share.NewController,
			template.NewController,

			// Initialize API Routes
			AsRoute(dashboard.NewApi),
			AsRoute(share.NewApi),
			AsRoute(template.NewApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) { utils.SetSecret(cfg.JWTSecret) },
			RegisterAllRoutesWithAnnotation,
			InitializeIndexes,
			func(lc fx.Lifecycle, scheduler maintenance.Scheduler) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return scheduler.Start(ctx)
					},
					OnStop: func(ctx context.Context) error {
						return scheduler.Stop()
					},
				})
			},
			StartServer,
		),
	)

	app.Run()
}

package dashboard

import (
	"go-reports/internal/common/api"
	"go-reports/internal/config"
	"go-reports/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type Api struct {
	Controller *Controller
	Config     *config.Config
}

func NewApi(controller *Controller, cfg *config.Config) api.Route {
	return &Api{
		Controller: controller,
		Config:     cfg,
	}
}

func (a *Api) Setup(app *fiber.App) {
	group := app.Group("/api/dashboards", middleware.AuthMiddleware(a.Config.SkipAuth))

	group.Post("/", a.Controller.Create)
	group.Get("/", a.Controller.List)
	group.Get("/:id", a.Controller.Get)
	group.Delete("/:id", a.Controller.Delete)

	group.Post("/:id/versions", a.Controller.CreateVersion)
	group.Get("/:id/versions", a.Controller.ListVersions)
	group.Get("/:id/audit", a.Controller.AuditTrail)
	group.Get("/:id/export", a.Controller.Export)

	group.Post("/:id/publish", a.Controller.Publish)
	group.Post("/:id/rollback", a.Controller.Rollback)
	group.Post("/:id/clone", a.Controller.Clone)
}

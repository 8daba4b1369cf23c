package share

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
	group := app.Group("/api/dashboards/:id/public-share", middleware.AuthMiddleware(a.Config.SkipAuth))

	group.Post("/", a.Controller.Create)
	group.Post("/rotate", a.Controller.Rotate)
	group.Delete("/", a.Controller.Revoke)
	group.Get("/", a.Controller.List)
	group.Get("/active", a.Controller.Active)

	// Anonymous reader surface; the token is the only credential.
	app.Get("/public/reports/:token", a.Controller.PublicReport)
}

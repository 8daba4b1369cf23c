package template

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
	group := app.Group("/api/templates", middleware.AuthMiddleware(a.Config.SkipAuth))

	group.Get("/", a.Controller.List)
	group.Post("/:id/instantiate", a.Controller.Instantiate)
}

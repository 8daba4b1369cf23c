package template

import (
	"go-reports/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	Service Service
}

func NewController(service Service) *Controller {
	return &Controller{Service: service}
}

type instantiateRequest struct {
	BrandID string `json:"brandId"`
}

// List godoc
// @Summary List templates
// @Description Global templates first, then the tenant's own
// @Tags template
// @Produce json
// @Success 200 {array} Template
// @Router /api/templates [get]
func (ctrl *Controller) List(c *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(c)
	if err != nil {
		return err
	}

	templates, err := ctrl.Service.List(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(templates)
}

// Instantiate godoc
// @Summary Instantiate a template
// @Description Create a DRAFT dashboard with version 1 from the template layout
// @Tags template
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param body body instantiateRequest true "Target brand"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/templates/{id}/instantiate [post]
func (ctrl *Controller) Instantiate(c *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(c)
	if err != nil {
		return err
	}

	var req instantiateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	dash, version, err := ctrl.Service.Instantiate(c.UserContext(), actor, c.Params("id"), req.BrandID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"dashboardId":   dash.ID.Hex(),
		"latestVersion": version,
	})
}

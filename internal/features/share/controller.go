package share

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

// Create godoc
// @Summary Create public share
// @Description Issue a share token for a published, healthy dashboard
// @Tags share
// @Produce json
// @Param id path string true "Dashboard ID"
// @Success 201 {object} CreateResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /api/dashboards/{id}/public-share [post]
func (ctrl *Controller) Create(c *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(c)
	if err != nil {
		return err
	}

	resp, err := ctrl.Service.Create(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Rotate godoc
// @Summary Rotate public share token
// @Description Revoke the active token and issue a new one atomically
// @Tags share
// @Produce json
// @Param id path string true "Dashboard ID"
// @Success 201 {object} CreateResponse
// @Router /api/dashboards/{id}/public-share/rotate [post]
func (ctrl *Controller) Rotate(c *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(c)
	if err != nil {
		return err
	}

	resp, err := ctrl.Service.Rotate(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Revoke godoc
// @Summary Revoke public share
// @Tags share
// @Param id path string true "Dashboard ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/dashboards/{id}/public-share [delete]
func (ctrl *Controller) Revoke(c *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(c)
	if err != nil {
		return err
	}

	if err := ctrl.Service.Revoke(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"revoked": true})
}

// List godoc
// @Summary List shares of a dashboard
// @Tags share
// @Produce json
// @Param id path string true "Dashboard ID"
// @Success 200 {array} PublicShare
// @Router /api/dashboards/{id}/public-share [get]
func (ctrl *Controller) List(c *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(c)
	if err != nil {
		return err
	}

	shares, err := ctrl.Service.List(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(shares)
}

// Active godoc
// @Summary Get the current ACTIVE share of a dashboard
// @Tags share
// @Produce json
// @Param id path string true "Dashboard ID"
// @Success 200 {object} PublicShare
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards/{id}/public-share/active [get]
func (ctrl *Controller) Active(c *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(c)
	if err != nil {
		return err
	}

	sh, err := ctrl.Service.Active(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(sh)
}

// PublicReport godoc
// @Summary Read a publicly shared report
// @Description Resolve a share token and return the published layout
// @Tags public
// @Produce json
// @Param token path string true "Share token"
// @Success 200 {object} layout.Document
// @Failure 404 {object} map[string]interface{}
// @Router /public/reports/{token} [get]
func (ctrl *Controller) PublicReport(c *fiber.Ctx) error {
	doc, err := ctrl.Service.ResolveToken(c.UserContext(), c.Params("token"))
	if err != nil {
		return err
	}
	return c.JSON(doc)
}

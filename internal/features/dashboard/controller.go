package dashboard

import (
	"fmt"

	"go-reports/internal/features/layout"
	"go-reports/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	Service Service
}

func NewController(service Service) *Controller {
	return &Controller{Service: service}
}

type createVersionRequest struct {
	Layout *layout.Document `json:"layout_json"`
}

type publishRequest struct {
	VersionID string `json:"versionId"`
}

// Create godoc
// @Summary Create dashboard
// @Description Create a new dashboard with its version 1
// @Tags dashboard
// @Accept json
// @Produce json
// @Param dashboard body CreateRequest true "Dashboard"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/dashboards [post]
func (ctrl *Controller) Create(c *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(c)
	if err != nil {
		return err
	}

	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	dash, version, err := ctrl.Service.Create(c.UserContext(), actor, req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"dashboard":     dash,
		"latestVersion": version,
	})
}

// List godoc
// @Summary List dashboards
// @Tags dashboard
// @Produce json
// @Success 200 {array} Dashboard
// @Router /api/dashboards [get]
func (ctrl *Controller) List(c *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(c)
	if err != nil {
		return err
	}

	dashboards, err := ctrl.Service.List(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(dashboards)
}

// Get godoc
// @Summary Get dashboard
// @Tags dashboard
// @Produce json
// @Param id path string true "Dashboard ID"
// @Success 200 {object} Dashboard
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards/{id} [get]
func (ctrl *Controller) Get(c *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(c)
	if err != nil {
		return err
	}

	dash, err := ctrl.Service.Get(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dash)
}

// AuditTrail godoc
// @Summary List the audit trail of a dashboard
// @Tags dashboard
// @Produce json
// @Param id path string true "Dashboard ID"
// @Success 200 {array} audit.Log
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards/{id}/audit [get]
func (ctrl *Controller) AuditTrail(c *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(c)
	if err != nil {
		return err
	}

	logs, err := ctrl.Service.AuditTrail(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(logs)
}

// Export godoc
// @Summary Export version history as xlsx
// @Tags dashboard
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Dashboard ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards/{id}/export [get]
func (ctrl *Controller) Export(c *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(c)
	if err != nil {
		return err
	}

	data, filename, err := ctrl.Service.ExportVersions(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	return c.Send(data)
}

// Delete godoc
// @Summary Delete dashboard
// @Tags dashboard
// @Param id path string true "Dashboard ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards/{id} [delete]
func (ctrl *Controller) Delete(c *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(c)
	if err != nil {
		return err
	}

	if err := ctrl.Service.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"deleted": true})
}

// Clone godoc
// @Summary Clone dashboard
// @Description Create a DRAFT copy of the dashboard from its latest version
// @Tags dashboard
// @Produce json
// @Param id path string true "Dashboard ID"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards/{id}/clone [post]
func (ctrl *Controller) Clone(c *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(c)
	if err != nil {
		return err
	}

	dash, version, err := ctrl.Service.Clone(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"dashboard":     dash,
		"latestVersion": version,
	})
}

// CreateVersion godoc
// @Summary Create dashboard version
// @Tags dashboard
// @Accept json
// @Produce json
// @Param id path string true "Dashboard ID"
// @Success 201 {object} Version
// @Failure 400 {object} map[string]interface{}
// @Router /api/dashboards/{id}/versions [post]
func (ctrl *Controller) CreateVersion(c *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(c)
	if err != nil {
		return err
	}

	var req createVersionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	version, err := ctrl.Service.CreateVersion(c.UserContext(), actor, c.Params("id"), req.Layout)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(version)
}

// ListVersions godoc
// @Summary List dashboard versions
// @Tags dashboard
// @Produce json
// @Param id path string true "Dashboard ID"
// @Success 200 {array} Version
// @Router /api/dashboards/{id}/versions [get]
func (ctrl *Controller) ListVersions(c *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(c)
	if err != nil {
		return err
	}

	versions, err := ctrl.Service.ListVersions(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(versions)
}

// Publish godoc
// @Summary Publish a version
// @Tags dashboard
// @Accept json
// @Produce json
// @Param id path string true "Dashboard ID"
// @Param body body publishRequest true "Version reference"
// @Success 200 {object} Dashboard
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/dashboards/{id}/publish [post]
func (ctrl *Controller) Publish(c *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(c)
	if err != nil {
		return err
	}

	var req publishRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	dash, err := ctrl.Service.Publish(c.UserContext(), actor, c.Params("id"), req.VersionID)
	if err != nil {
		return err
	}
	return c.JSON(dash)
}

// Rollback godoc
// @Summary Roll the published version back to another version
// @Tags dashboard
// @Accept json
// @Produce json
// @Param id path string true "Dashboard ID"
// @Param body body publishRequest true "Version reference"
// @Success 200 {object} Dashboard
// @Failure 403 {object} map[string]interface{}
// @Router /api/dashboards/{id}/rollback [post]
func (ctrl *Controller) Rollback(c *fiber.Ctx) error {
	actor, err := middleware.ActorFromCtx(c)
	if err != nil {
		return err
	}

	var req publishRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	dash, err := ctrl.Service.Rollback(c.UserContext(), actor, c.Params("id"), req.VersionID)
	if err != nil {
		return err
	}
	return c.JSON(dash)
}

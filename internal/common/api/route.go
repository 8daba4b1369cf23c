package api

import (
	"github.com/gofiber/fiber/v2"
)

// Route is implemented by every feature's Api struct so that
// Fx can collect them into the "routes" group and register them.
type Route interface {
	Setup(app *fiber.App)
}

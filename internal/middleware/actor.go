package middleware

import (
	"go-reports/internal/common/models"
	"go-reports/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActorFromCtx resolves the authenticated actor injected by AuthMiddleware.
func ActorFromCtx(c *fiber.Ctx) (models.Actor, error) {
	claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok {
		return models.Actor{}, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return models.Actor{}, fiber.NewError(fiber.StatusUnauthorized, "invalid user ID")
	}
	tenantID, err := primitive.ObjectIDFromHex(claims.TenantID)
	if err != nil {
		return models.Actor{}, fiber.NewError(fiber.StatusUnauthorized, "invalid tenant ID")
	}

	return models.Actor{
		TenantID: tenantID,
		UserID:   userID,
		Roles:    claims.Roles,
	}, nil
}

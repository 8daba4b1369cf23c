package audit

import (
	"time"

	"go-reports/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Log records one mutating operation on publication or sharing state.
type Log struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TenantID primitive.ObjectID `json:"tenant_id" bson:"tenant_id"`
	Action   models.AuditAction `json:"action" bson:"action"`
	Entity   string             `json:"entity" bson:"entity"`
	EntityID string             `json:"entity_id" bson:"entity_id"`
	ActorID  primitive.ObjectID `json:"actor_id" bson:"actor_id"`
	Detail   string             `json:"detail,omitempty" bson:"detail,omitempty"`
	At       time.Time          `json:"at" bson:"at"`
}

package share

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusRevoked Status = "REVOKED"
)

// PublicShare exposes a published dashboard through a revocable token.
// Only the one-way hash of the token is ever stored.
type PublicShare struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TenantID    primitive.ObjectID `json:"tenant_id" bson:"tenant_id"`
	DashboardID primitive.ObjectID `json:"dashboard_id" bson:"dashboard_id"`
	TokenHash   string             `json:"-" bson:"token_hash"`
	Status      Status             `json:"status" bson:"status"`
	CreatedBy   primitive.ObjectID `json:"created_by" bson:"created_by"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	RevokedAt   *time.Time         `json:"revoked_at,omitempty" bson:"revoked_at,omitempty"`
}

// CreateResponse carries the only observable copy of the plaintext token.
type CreateResponse struct {
	Share     *PublicShare `json:"share"`
	PublicURL string       `json:"publicUrl"`
}

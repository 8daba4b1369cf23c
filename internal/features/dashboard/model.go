package dashboard

import (
	"time"

	"go-reports/internal/features/layout"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
)

// CloneSuffix is appended to the name of a cloned dashboard.
const CloneSuffix = " (cópia)"

// Dashboard is a tenant-owned report composed of versioned layouts.
type Dashboard struct {
	ID                 primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	TenantID           primitive.ObjectID  `json:"tenant_id" bson:"tenant_id"`
	BrandID            primitive.ObjectID  `json:"brand_id" bson:"brand_id"`
	GroupID            *primitive.ObjectID `json:"group_id,omitempty" bson:"group_id,omitempty"`
	Name               string              `json:"name" bson:"name"`
	Status             Status              `json:"status" bson:"status"`
	PublishedVersionID *primitive.ObjectID `json:"published_version_id,omitempty" bson:"published_version_id,omitempty"`
	SharedEnabled      bool                `json:"shared_enabled" bson:"shared_enabled"`
	SharedTokenHash    string              `json:"-" bson:"shared_token_hash,omitempty"`
	SharedAt           *time.Time          `json:"shared_at,omitempty" bson:"shared_at,omitempty"`
	CreatedBy          primitive.ObjectID  `json:"created_by" bson:"created_by"`
	CreatedAt          time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at" bson:"updated_at"`
}

// Version is an immutable numbered snapshot of a dashboard's layout.
// The layout is stored as submitted; current validation rules are re-applied
// whenever the version is published or exposed.
type Version struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	DashboardID   primitive.ObjectID `json:"dashboard_id" bson:"dashboard_id"`
	VersionNumber int                `json:"version_number" bson:"version_number"`
	Layout        *layout.Document   `json:"layout_json" bson:"layout_json"`
	CreatedBy     primitive.ObjectID `json:"created_by" bson:"created_by"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
}

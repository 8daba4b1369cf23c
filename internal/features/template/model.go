package template

import (
	"time"

	"go-reports/internal/features/layout"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Template is a reusable layout. A nil TenantID marks a global template,
// visible to every tenant.
type Template struct {
	ID        primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	TenantID  *primitive.ObjectID `json:"tenant_id,omitempty" bson:"tenant_id,omitempty"`
	Name      string              `json:"name" bson:"name"`
	Category  string              `json:"category,omitempty" bson:"category,omitempty"`
	Layout    *layout.Document    `json:"layout_json" bson:"layout_json"`
	CreatedAt time.Time           `json:"created_at" bson:"created_at"`
}

// IsGlobal reports whether the template is visible to every tenant.
func (t *Template) IsGlobal() bool {
	return t.TenantID == nil
}

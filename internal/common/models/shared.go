package models

import (
	"slices"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContextKey string

const (
	TenantIDKey ContextKey = "tenant_id"
)

// Agency roles. Viewer is the portal role and cannot mutate published state.
const (
	RoleOwner   = "owner"
	RoleAdmin   = "admin"
	RoleAnalyst = "analyst"
	RoleViewer  = "viewer"
)

var publishingRoles = []string{RoleOwner, RoleAdmin, RoleAnalyst}

// Actor is the explicit request context every service operation receives.
// Tenant isolation and permission checks run against it, never against
// ambient request state.
type Actor struct {
	TenantID primitive.ObjectID
	UserID   primitive.ObjectID
	Roles    []string
}

// CanPublish reports whether the actor may publish, rollback or share dashboards.
func (a Actor) CanPublish() bool {
	for _, r := range a.Roles {
		if slices.Contains(publishingRoles, r) {
			return true
		}
	}
	return false
}

type AuditAction string

const (
	AuditActionCreate      AuditAction = "CREATE"
	AuditActionDelete      AuditAction = "DELETE"
	AuditActionClone       AuditAction = "CLONE"
	AuditActionVersion     AuditAction = "VERSION"
	AuditActionPublish     AuditAction = "PUBLISH"
	AuditActionRollback    AuditAction = "ROLLBACK"
	AuditActionShare       AuditAction = "SHARE"
	AuditActionRotate      AuditAction = "ROTATE"
	AuditActionRevoke      AuditAction = "REVOKE"
	AuditActionInstantiate AuditAction = "INSTANTIATE"
)

// Package context provides request-scoped values extraction.
package context

import (
	"context"
	"slices"
)

// Roles recognised by the platform.
const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleAdmin      = "ADMIN"
	RoleEmployee   = "EMPLOYEE"
)

// UserContext contains the identity carried by a validated bearer token.
type UserContext struct {
	UserID         string
	Email          string
	Role           string
	OrganizationID string // empty for super admins
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// GetOrganizationID returns the caller's organization ID or empty string.
func GetOrganizationID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.OrganizationID
	}
	return ""
}

// HasRole checks if user has one of the given roles.
func HasRole(ctx context.Context, roles ...string) bool {
	u := GetUser(ctx)
	if u == nil {
		return false
	}
	return slices.Contains(roles, u.Role)
}

// HasOrgAccess reports whether the caller may act on the organization.
// Super admins may act on any organization.
func HasOrgAccess(ctx context.Context, orgID string) bool {
	u := GetUser(ctx)
	if u == nil {
		return false
	}
	if u.Role == RoleSuperAdmin {
		return true
	}
	return u.OrganizationID != "" && u.OrganizationID == orgID
}

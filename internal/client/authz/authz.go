// Package authz answers role and permission questions about the signed-in
// user. All functions are pure and treat a nil profile as a user with no
// roles and no permissions.
package authz

import (
	"slices"
	"strings"

	"github.com/miguelherrera-611/vetclinic/internal/client/models"
)

// Primary roles.
const (
	RoleAdmin        = "admin"
	RoleVeterinarian = "veterinarian"
	RoleUser         = "user"
)

// HasRole reports whether p holds role, ignoring case.
func HasRole(p *models.UserProfile, role string) bool {
	if p == nil {
		return false
	}
	return slices.ContainsFunc(p.Roles, func(r string) bool {
		return strings.EqualFold(r, role)
	})
}

// HasAnyRole reports whether p holds at least one of roles.
func HasAnyRole(p *models.UserProfile, roles ...string) bool {
	for _, r := range roles {
		if HasRole(p, r) {
			return true
		}
	}
	return false
}

// PrimaryRole picks one role for display: admin beats veterinarian beats
// user. Matching is by substring, so "ROLE_ADMIN" counts as admin and
// "veterinario" as veterinarian.
func PrimaryRole(p *models.UserProfile) string {
	if p == nil {
		return RoleUser
	}
	if anyContains(p.Roles, "admin") {
		return RoleAdmin
	}
	if anyContains(p.Roles, "vet") {
		return RoleVeterinarian
	}
	return RoleUser
}

func anyContains(roles []string, sub string) bool {
	return slices.ContainsFunc(roles, func(r string) bool {
		return strings.Contains(strings.ToLower(r), sub)
	})
}

// HasPermission reports exact membership of perm in p's permissions.
func HasPermission(p *models.UserProfile, perm string) bool {
	return p != nil && slices.Contains(p.Permissions, perm)
}

func IsAdmin(p *models.UserProfile) bool { return HasAnyRole(p, "admin", "administrator") }

func IsVeterinarian(p *models.UserProfile) bool { return HasAnyRole(p, "veterinario", "vet") }

func IsUser(p *models.UserProfile) bool { return HasAnyRole(p, "user", "cliente") }

// DisplayInfo is what the UI shows about the signed-in user.
type DisplayInfo struct {
	ID          string
	Username    string
	Email       string
	FullName    string
	Avatar      string
	Role        string
	Roles       []string
	Permissions []string
}

// Display builds the UI view of p. It returns nil for a nil profile.
func Display(p *models.UserProfile) *DisplayInfo {
	if p == nil {
		return nil
	}
	full := p.FullName
	if full == "" {
		full = strings.TrimSpace(p.FirstName + " " + p.LastName)
	}
	return &DisplayInfo{
		ID:          string(p.ID),
		Username:    p.Username,
		Email:       p.Email,
		FullName:    full,
		Avatar:      p.Avatar,
		Role:        PrimaryRole(p),
		Roles:       slices.Clone([]string(p.Roles)),
		Permissions: slices.Clone(p.Permissions),
	}
}

// Package models holds the client-side data model: users and sessions,
// wellness-domain records, and the theme preference. JSON tags follow the
// backend's wire schema, which names person fields in Spanish.
package models

import (
	"strings"

	"github.com/serenvoice/serenvoice-cli/internal/common"
)

// User is the cached profile of the signed-in person. It is a convenience
// copy and always possibly stale relative to the backend's record.
type User struct {
	ID      int      `json:"id"`
	Name    string   `json:"nombre"`
	Surname string   `json:"apellido,omitempty"`
	Email   string   `json:"email,omitempty"`
	Roles   []string `json:"roles,omitempty"`
	Avatar  string   `json:"avatar,omitempty"`
	Gender  string   `json:"genero,omitempty"`

	// Role is derived client-side: the first entry of Roles, or
	// common.DefaultRole when the list is empty. Not part of the wire
	// schema sent by the server, but persisted with the cached user.
	Role string `json:"role,omitempty"`
}

// DeriveRole fills in Role from Roles.
func (u *User) DeriveRole() {
	if len(u.Roles) > 0 {
		u.Role = u.Roles[0]
		return
	}
	u.Role = common.DefaultRole
}

// HasRole reports whether the user carries the given role. The derived
// Role field counts as well, so a user restored from an older cache
// without the Roles list still answers correctly for its primary role.
func (u *User) HasRole(role string) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return u.Role != "" && u.Role == role
}

// FullName joins name and surname for display.
func (u *User) FullName() string {
	return strings.TrimSpace(u.Name + " " + u.Surname)
}

// Merge applies the non-nil fields of patch to the user.
func (u *User) Merge(patch UserPatch) {
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Surname != nil {
		u.Surname = *patch.Surname
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Avatar != nil {
		u.Avatar = *patch.Avatar
	}
}

// UserPatch carries a partial profile edit; nil fields are left alone.
type UserPatch struct {
	Name    *string
	Surname *string
	Email   *string
	Avatar  *string
}

// Registration is the payload for creating an account.
type Registration struct {
	Name      string `json:"name"`
	Surname   string `json:"surname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Gender    string `json:"gender,omitempty"`
	BirthDate string `json:"birth_date"`
}

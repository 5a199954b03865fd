package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"slices"
)

// UserID is the principal's identifier. The API emits it either as a JSON
// string (document stores) or a number (relational backends); both decode
// into the same string form.
type UserID string

func (id *UserID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("user id must be a string or a number")
	}
	*id = UserID(n.String())
	return nil
}

// Roles is the principal's role list. On the wire it may be a single string
// ("admin") or an array (["admin", "vet"]); both decode into a slice.
type Roles []string

func (r *Roles) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*r = nil
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*r = nil
			return nil
		}
		*r = Roles{s}
		return nil
	default:
		var list []string
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		*r = list
		return nil
	}
}

// UserProfile is the identifying and authorization data of the signed-in
// principal, cached alongside the credential.
type UserProfile struct {
	ID          UserID   `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email,omitempty"`
	FullName    string   `json:"fullName,omitempty"`
	FirstName   string   `json:"firstName,omitempty"`
	LastName    string   `json:"lastName,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Roles       Roles    `json:"roles,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	Avatar      string   `json:"avatar,omitempty"`
}

// UnmarshalJSON accepts the backend's aliases: "role" for a single role
// and "profilePicture" for the avatar.
func (p *UserProfile) UnmarshalJSON(b []byte) error {
	type plain UserProfile
	var aux struct {
		plain
		Role           Roles  `json:"role"`
		ProfilePicture string `json:"profilePicture"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*p = UserProfile(aux.plain)
	if len(p.Roles) == 0 && len(aux.Role) > 0 {
		p.Roles = aux.Role
	}
	if p.Avatar == "" {
		p.Avatar = aux.ProfilePicture
	}
	return nil
}

// IsZero reports whether p identifies nobody, as with an empty response body.
func (p *UserProfile) IsZero() bool {
	return p == nil || (p.ID == "" && p.Username == "" && p.Email == "")
}

// Clone returns a deep copy so callers cannot mutate cached state.
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	c := *p
	c.Roles = slices.Clone(p.Roles)
	c.Permissions = slices.Clone(p.Permissions)
	return &c
}

// ProfilePatch is a shallow update of a UserProfile. Nil fields are left
// untouched; a non-nil slice replaces the whole list.
type ProfilePatch struct {
	Username    *string  `json:"username,omitempty" validate:"omitempty,min=4,max=20"`
	Email       *string  `json:"email,omitempty" validate:"omitempty,email"`
	FullName    *string  `json:"fullName,omitempty"`
	FirstName   *string  `json:"firstName,omitempty"`
	LastName    *string  `json:"lastName,omitempty"`
	Phone       *string  `json:"phone,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	Avatar      *string  `json:"avatar,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (pp ProfilePatch) IsEmpty() bool {
	return pp.Username == nil && pp.Email == nil && pp.FullName == nil &&
		pp.FirstName == nil && pp.LastName == nil && pp.Phone == nil &&
		pp.Roles == nil && pp.Permissions == nil && pp.Avatar == nil
}

// Merge returns a copy of p with the patch's set fields applied.
// The receiver is not modified.
func (p *UserProfile) Merge(patch ProfilePatch) *UserProfile {
	out := p.Clone()
	if out == nil {
		return nil
	}
	if patch.Username != nil {
		out.Username = *patch.Username
	}
	if patch.Email != nil {
		out.Email = *patch.Email
	}
	if patch.FullName != nil {
		out.FullName = *patch.FullName
	}
	if patch.FirstName != nil {
		out.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		out.LastName = *patch.LastName
	}
	if patch.Phone != nil {
		out.Phone = *patch.Phone
	}
	if patch.Roles != nil {
		out.Roles = slices.Clone(Roles(patch.Roles))
	}
	if patch.Permissions != nil {
		out.Permissions = slices.Clone(patch.Permissions)
	}
	if patch.Avatar != nil {
		out.Avatar = *patch.Avatar
	}
	return out
}

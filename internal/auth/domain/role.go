package domain

import (
	"errors"
	"strings"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleLandlord Role = "landlord"
	RoleTenant   Role = "tenant"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleLandlord, RoleTenant}

var ErrUnknownRole = errors.New("domain: unknown role")

// ParseRole normalises s to lowercase and checks it against Roles.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrUnknownRole
	}
	return r, nil
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleLandlord, RoleTenant:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

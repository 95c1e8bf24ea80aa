package domain

import (
	"fmt"
	"strings"
)

// Role is the caller's role towards the backend.
type Role string

const (
	// RoleAdmin sees every occurrence in the condominium.
	RoleAdmin Role = "admin"
	// RoleResident sees only the occurrences they reported.
	RoleResident Role = "resident"
)

// IsValid checks if the role is supported.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleResident
}

// ParseRole parses a role name, case-insensitively.
func ParseRole(raw string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(raw)))
	if !r.IsValid() {
		return "", fmt.Errorf("invalid role: %q (expected admin or resident)", raw)
	}
	return r, nil
}

// Scope selects which search endpoint variant serves the caller.
type Scope struct {
	Role       Role
	ResidentID string
}

// AdminScope returns the scope of an administrator.
func AdminScope() Scope {
	return Scope{Role: RoleAdmin}
}

// ResidentScope returns the scope of one resident.
func ResidentScope(residentID string) Scope {
	return Scope{Role: RoleResident, ResidentID: residentID}
}

// Validate checks that a resident scope carries a resident id.
func (s Scope) Validate() error {
	if !s.Role.IsValid() {
		return fmt.Errorf("invalid role: %q", s.Role)
	}
	if s.Role == RoleResident && strings.TrimSpace(s.ResidentID) == "" {
		return fmt.Errorf("resident scope requires a resident id")
	}
	return nil
}

package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
)

// Role represents a Farmlytic account type.
// Keep string form for easy persistence and cookies.
type Role string

const (
	RoleFarmer     Role = "farmer"
	RoleSupplier   Role = "supplier"
	RoleSpecialist Role = "specialist"

	// RoleNone marks an authenticated principal whose groups map to no known role.
	RoleNone Role = ""
)

// ParseRole returns the Role for s, or RoleNone when s is not a known role.
func ParseRole(s string) Role {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleFarmer, RoleSupplier, RoleSpecialist:
		return r
	default:
		return RoleNone
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return ParseRole(string(r)) == r && r != RoleNone }

// Label is the human readable form shown in the navigation bar.
func (r Role) Label() string {
	switch r {
	case RoleFarmer:
		return "Farmer"
	case RoleSupplier:
		return "Supplier"
	case RoleSpecialist:
		return "Specialist"
	default:
		return "Member"
	}
}

// Identity represents the authenticated principal returned by an IdP.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID    string // stable user identifier (sub)
	FirstName string
	LastName  string
	Email     string
	Groups    []string
	ExpiresAt time.Time // absolute expiry from IdP token
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// User returns the routing view of the session owner.
func (s Session) User() User {
	return User{ID: s.UserID, Role: s.Role}
}

// DisplayName prefers the given name and falls back to the email address.
func (s Session) DisplayName() string {
	name := strings.TrimSpace(s.FirstName + " " + s.LastName)
	if name != "" {
		return name
	}
	return s.Email
}

// User is the minimal principal consulted by route guards.
type User struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// State is the three-way authentication state of a request.
// Loading means resolution did not finish and must never be read as signed out.
type State struct {
	Authenticated bool
	Loading       bool
	User          *User
	Session       *Session
}

// LoadingState is returned when the session backend could not answer in time.
func LoadingState() State { return State{Loading: true} }

// AnonymousState is the resolved state of a request without a valid session.
func AnonymousState() State { return State{} }

// AuthenticatedState builds the resolved state for sess.
func AuthenticatedState(sess Session) State {
	u := sess.User()
	return State{Authenticated: true, User: &u, Session: &sess}
}

// Role returns the role of the resolved user, or RoleNone.
func (s State) Role() Role {
	if s.User == nil {
		return RoleNone
	}
	return s.User.Role
}

package model

import "time"

// Role is the closed permission tier. Checks against it go through the
// membership helpers below rather than ad hoc string comparisons.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleEditor        Role = "editor"
	RoleViewer        Role = "viewer"
)

// EditorRoles is the union allowed to mutate sewadar records.
// AdminRoles is the union allowed to manage identities and read the audit trail.
var (
	EditorRoles = []Role{RoleAdministrator, RoleEditor}
	AdminRoles  = []Role{RoleAdministrator}
)

func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleAdministrator:
		return RoleAdministrator, true
	case RoleEditor:
		return RoleEditor, true
	case RoleViewer:
		return RoleViewer, true
	}
	return "", false
}

func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

func (r Role) In(allowed ...Role) bool {
	for _, candidate := range allowed {
		if r == candidate {
			return true
		}
	}
	return false
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         Role      `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AuthClaims is the decoded token payload. It is a snapshot taken at
// issuance: the role claim stays trusted until the token expires even if the
// stored role changes, while the active flag is re-checked live per request.
type AuthClaims struct {
	UserID   string
	Email    string
	Role     Role
	Type     string
	TokenID  string
	IssuedAt time.Time
	Expiry   time.Time
}

// RequestIdentity is what the gate attaches to the request context after a
// successful authentication: claim-sourced id/email/role plus the display
// name from the live user row.
type RequestIdentity struct {
	UserID    string `json:"id"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type AuthUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `json:"role"`
	Active    bool   `json:"active"`
}

type TokenPair struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int64    `json:"expires_in"`
	User         AuthUser `json:"user"`
}

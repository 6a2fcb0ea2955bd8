package domain

import "strings"

// Role identifies which side of the marketplace a user acts on.
type Role string

const (
	RoleExecutor Role = "E"
	RoleCustomer Role = "C"
)

// ParseRole accepts the backend's one-letter codes and the long names.
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "E", "EXECUTOR":
		return RoleExecutor, nil
	case "C", "CUSTOMER":
		return RoleCustomer, nil
	}
	return "", ErrUnknownRole
}

func (r Role) String() string {
	switch r {
	case RoleExecutor:
		return "executor"
	case RoleCustomer:
		return "customer"
	}
	return "unknown"
}

// Session is the three-field record kept for an authenticated principal.
// AccessToken is owned by the session manager and may be empty while the
// principal is still known (e.g. right after a failed request).
type Session struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"id_user"`
	Role        Role   `json:"role_user"`
}

// Authenticated reports whether the record identifies a principal.
func (s Session) Authenticated() bool {
	return s.UserID != ""
}

// IsOwnProfile reports whether profileID refers to the session's own user.
// An empty profileID means the viewer's own dashboard.
func (s Session) IsOwnProfile(profileID string) bool {
	return profileID == "" || profileID == s.UserID
}

package domain

import "time"

type UserRole string

const (
	RoleGuest     UserRole = "guest"
	RoleUser      UserRole = "user"
	RoleModerator UserRole = "moderator"
	RoleAdmin     UserRole = "admin"
)

// Roles lists every role in ascending order of privilege.
var Roles = []UserRole{RoleGuest, RoleUser, RoleModerator, RoleAdmin}

func ParseRole(s string) (UserRole, bool) {
	for _, r := range Roles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// IsElevated reports whether the role receives moderation permissions on
// resources owned by other users.
func (r UserRole) IsElevated() bool {
	return r == RoleModerator || r == RoleAdmin
}

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	AvatarURL    string    `json:"avatar,omitempty"`
	RefreshToken string    `json:"-"`
	Confirmed    bool      `json:"confirmed"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

package entities

import (
	"strings"

	"github.com/aarondl/null/v8"
)

type User struct {
	ID           int64       `json:"id"`
	FirstName    null.String `json:"first_name"`
	LastName     null.String `json:"last_name"`
	Username     string      `json:"username"`
	PasswordHash string      `json:"-"`
	Role         string      `json:"role"`
	BranchID     null.Int64  `json:"branch_id"`
}

// DisplayName is "first last" trimmed, falling back to the username when
// both name parts are blank.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName.String + " " + u.LastName.String)
	if name == "" {
		return u.Username
	}
	return name
}

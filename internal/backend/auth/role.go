package auth

import "fmt"

// Role is the permission level of a resident account.
type Role string

const (
	RoleMember Role = "member"
	RoleBoard  Role = "board"
	RoleAdmin  Role = "admin"
)

var roleLevels = map[Role]int{
	RoleMember: 1,
	RoleBoard:  2,
	RoleAdmin:  3,
}

// ParseRole validates a role name.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := roleLevels[r]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// AtLeast reports whether r grants everything min grants.
func (r Role) AtLeast(min Role) bool {
	return roleLevels[r] >= roleLevels[min] && roleLevels[r] > 0
}

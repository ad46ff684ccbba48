package entity

// Roles are asserted by the identity gate in the bearer token; the engine
// only checks them and never stores users.

// Role ID constants
const (
	RoleIDAdmin  = 1
	RoleIDStaff  = 2
	RoleIDMember = 3
)

// RoleNames constants
const (
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
	RoleMember = "member"
)

// RoleName returns the name for a role ID, or empty when unknown
func RoleName(roleID int) string {
	switch roleID {
	case RoleIDAdmin:
		return RoleAdmin
	case RoleIDStaff:
		return RoleStaff
	case RoleIDMember:
		return RoleMember
	}
	return ""
}

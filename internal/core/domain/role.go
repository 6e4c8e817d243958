package domain

// Role is a capability label attached to a user inside one church.
// Roles are not ordered; access checks are plain membership tests.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleTreasurer Role = "tesoureiro"
	RolePastor    Role = "pastor"
	RoleLeader    Role = "lider"
	RoleUser      Role = "user"
)

// AllRoles lists every known role.
var AllRoles = []Role{RoleAdmin, RoleTreasurer, RolePastor, RoleLeader, RoleUser}

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// RoleSet is the resolved set of roles of a user in a church.
// The zero value is an empty, usable set.
type RoleSet map[Role]struct{}

// NewRoleSet builds a set from the given roles, dropping duplicates.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// HasRole reports whether r is in the set. A nil set has no roles.
func (s RoleSet) HasRole(r Role) bool {
	_, ok := s[r]
	return ok
}

// HasAnyRole reports whether at least one of roles is in the set.
func (s RoleSet) HasAnyRole(roles ...Role) bool {
	for _, r := range roles {
		if s.HasRole(r) {
			return true
		}
	}
	return false
}

// Slice returns the roles in AllRoles order, for stable JSON output.
func (s RoleSet) Slice() []Role {
	out := make([]Role, 0, len(s))
	for _, r := range AllRoles {
		if s.HasRole(r) {
			out = append(out, r)
		}
	}
	return out
}

// RoleAssignment is one (user, church, role) row.
type RoleAssignment struct {
	UserID   string `json:"userID"`
	ChurchID string `json:"churchID"`
	Role     Role   `json:"role"`
}

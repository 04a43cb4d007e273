package model

// Role is the closed set of user roles. Anything outside these three values
// is a configuration error, not a runtime case.
type Role string

const (
	RoleEmployee Role = "Employee"
	RoleManager  Role = "Manager"
	RoleAdmin    Role = "Admin"
)

// ParseRole maps a raw string onto the closed role set.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleEmployee, RoleManager, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// Capability identifies a role-gated operation.
type Capability string

const (
	CapRegisterSoftware    Capability = "software.register"
	CapListSoftware        Capability = "software.list"
	CapCreateRequest       Capability = "requests.create"
	CapListPendingRequests Capability = "requests.list_pending"
	CapListOwnRequests     Capability = "requests.list_own"
	CapDecideRequest       Capability = "requests.decide"
)

// policy is the single authorization table: role × capability → allowed.
// Every service operation consults this instead of comparing role strings.
var policy = map[Role]map[Capability]bool{
	RoleEmployee: {
		CapListSoftware:    true,
		CapCreateRequest:   true,
		CapListOwnRequests: true,
	},
	RoleManager: {
		CapListSoftware:        true,
		CapListPendingRequests: true,
		CapListOwnRequests:     true,
		CapDecideRequest:       true,
	},
	RoleAdmin: {
		CapRegisterSoftware:    true,
		CapListSoftware:        true,
		CapListPendingRequests: true,
		CapListOwnRequests:     true,
		CapDecideRequest:       true,
	},
}

// Can reports whether the role holds the given capability.
func (r Role) Can(c Capability) bool {
	return policy[r][c]
}

package alerts

// Gate decides whether an actor may originate notifications.
type Gate interface {
	Authorize(actor Actor) bool
}

// RoleGate permits exactly one role. There are no graded permissions.
type RoleGate struct {
	role string
}

// NewRoleGate returns a gate for role, or DefaultPrivilegedRole when empty.
func NewRoleGate(role string) RoleGate {
	if role == "" {
		role = DefaultPrivilegedRole
	}
	return RoleGate{role: role}
}

func (g RoleGate) Authorize(actor Actor) bool {
	return actor.Role != "" && actor.Role == g.role
}

// Role returns the privileged role this gate admits.
func (g RoleGate) Role() string {
	return g.role
}

package auth

import (
	"fmt"
)

// Role is one of the closed set of principal roles.
type Role string

// Roles of the system.
const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleAgent      Role = "agent"
	RoleUser       Role = "user"
)

var roleOrder = []Role{RoleSuperAdmin, RoleAdmin, RoleManager, RoleAgent, RoleUser} //nolint:gochecknoglobals

// roleTable is the static role to grant mapping. It is never mutated after init.
var roleTable = map[Role]GrantSet{ //nolint:gochecknoglobals
	RoleSuperAdmin: NewGrantSet(concat(
		grantsOf(ResourceTicket, ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionAssign,
			ActionEscalate, ActionResolve, ActionClose, ActionReopen, ActionBatchDelete, ActionExport),
		grantsOf(ResourceIncident, ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionAssign,
			ActionEscalate, ActionResolve, ActionClose, ActionDeclareMajor),
		grantsOf(ResourceProblem, ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionAssign,
			ActionResolve, ActionClose),
		grantsOf(ResourceChange, ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionApprove,
			ActionReject, ActionImplement, ActionReview),
		grantsOf(ResourceKnowledge, ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionPublish,
			ActionArchive),
		grantsOf(ResourceCMDB, ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionManage,
			ActionImport, ActionExport),
		grantsOf(ResourceUser, ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionManage,
			ActionResetPassword),
		grantsOf(ResourceRole, ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionManage),
		grantsOf(ResourceSystem, ActionRead, ActionUpdate, ActionManage, ActionViewLogs, ActionBackup),
		grantsOf(ResourceReport, ActionRead, ActionExport, ActionCreate, ActionSchedule),
	)...),

	RoleAdmin: NewGrantSet(concat(
		grantsOf(ResourceTicket, ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionAssign,
			ActionEscalate, ActionResolve, ActionClose, ActionReopen, ActionExport),
		grantsOf(ResourceIncident, ActionRead, ActionCreate, ActionUpdate, ActionAssign, ActionEscalate,
			ActionResolve, ActionClose, ActionDeclareMajor),
		grantsOf(ResourceProblem, ActionRead, ActionCreate, ActionUpdate, ActionAssign, ActionResolve,
			ActionClose),
		grantsOf(ResourceChange, ActionRead, ActionCreate, ActionUpdate, ActionApprove, ActionReject,
			ActionImplement, ActionReview),
		grantsOf(ResourceKnowledge, ActionRead, ActionCreate, ActionUpdate, ActionPublish),
		grantsOf(ResourceCMDB, ActionRead, ActionCreate, ActionUpdate, ActionManage),
		grantsOf(ResourceUser, ActionRead, ActionCreate, ActionUpdate, ActionManage),
		grantsOf(ResourceReport, ActionRead, ActionExport, ActionCreate),
	)...),

	RoleManager: NewGrantSet(concat(
		grantsOf(ResourceTicket, ActionRead, ActionCreate, ActionUpdate, ActionAssign, ActionEscalate,
			ActionResolve, ActionClose, ActionExport),
		grantsOf(ResourceIncident, ActionRead, ActionCreate, ActionUpdate, ActionAssign, ActionEscalate,
			ActionResolve, ActionClose),
		grantsOf(ResourceProblem, ActionRead, ActionCreate, ActionUpdate, ActionAssign, ActionResolve,
			ActionClose),
		grantsOf(ResourceChange, ActionRead, ActionCreate, ActionUpdate, ActionApprove, ActionReview),
		grantsOf(ResourceKnowledge, ActionRead, ActionCreate, ActionUpdate),
		grantsOf(ResourceCMDB, ActionRead, ActionCreate, ActionUpdate),
		grantsOf(ResourceReport, ActionRead, ActionExport),
	)...),

	RoleAgent: NewGrantSet(concat(
		grantsOf(ResourceTicket, ActionRead, ActionCreate, ActionUpdate, ActionResolve, ActionClose),
		grantsOf(ResourceIncident, ActionRead, ActionCreate, ActionUpdate, ActionResolve, ActionClose),
		grantsOf(ResourceProblem, ActionRead, ActionCreate, ActionUpdate),
		grantsOf(ResourceChange, ActionRead, ActionCreate, ActionUpdate),
		grantsOf(ResourceKnowledge, ActionRead, ActionCreate, ActionUpdate),
		grantsOf(ResourceCMDB, ActionRead),
		grantsOf(ResourceReport, ActionRead),
	)...),

	RoleUser: NewGrantSet(concat(
		grantsOf(ResourceTicket, ActionRead, ActionCreate),
		grantsOf(ResourceIncident, ActionRead, ActionCreate),
		grantsOf(ResourceKnowledge, ActionRead),
		grantsOf(ResourceCMDB, ActionRead),
	)...),
}

func concat(groups ...[]Grant) []Grant {
	var out []Grant
	for _, g := range groups {
		out = append(out, g...)
	}

	return out
}

// Roles returns the closed role set, most privileged first.
func Roles() []Role {
	return append([]Role(nil), roleOrder...)
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleTable[r]

	return ok
}

// ParseRole returns the role named s.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}

	return r, nil
}

// RolePermissions returns the grants of role. Unknown roles get the empty set.
func RolePermissions(role Role) GrantSet {
	if gs, ok := roleTable[role]; ok {
		return gs
	}

	return GrantSet{}
}

package auth

import (
	"fmt"
)

// Resource is a protected ITSM resource.
type Resource string

// Resources of the system.
const (
	ResourceTicket    Resource = "ticket"
	ResourceIncident  Resource = "incident"
	ResourceProblem   Resource = "problem"
	ResourceChange    Resource = "change"
	ResourceKnowledge Resource = "knowledge"
	ResourceCMDB      Resource = "cmdb"
	ResourceUser      Resource = "user"
	ResourceRole      Resource = "role"
	ResourceSystem    Resource = "system"
	ResourceReport    Resource = "report"
	ResourceDashboard Resource = "dashboard"
	ResourceTenant    Resource = "tenant"
	ResourceAdmin     Resource = "admin"
)

// Action is an operation on a Resource.
type Action string

// Actions of the system.
const (
	ActionRead          Action = "read"
	ActionCreate        Action = "create"
	ActionUpdate        Action = "update"
	ActionDelete        Action = "delete"
	ActionAssign        Action = "assign"
	ActionEscalate      Action = "escalate"
	ActionResolve       Action = "resolve"
	ActionClose         Action = "close"
	ActionReopen        Action = "reopen"
	ActionApprove       Action = "approve"
	ActionReject        Action = "reject"
	ActionImplement     Action = "implement"
	ActionReview        Action = "review"
	ActionPublish       Action = "publish"
	ActionArchive       Action = "archive"
	ActionManage        Action = "manage"
	ActionImport        Action = "import"
	ActionExport        Action = "export"
	ActionResetPassword Action = "reset_password"
	ActionViewLogs      Action = "view_logs"
	ActionBackup        Action = "backup"
	ActionSchedule      Action = "schedule"
	ActionDeclareMajor  Action = "declare_major"
	ActionBatchDelete   Action = "batch_delete"
)

var resources = []Resource{ //nolint:gochecknoglobals
	ResourceTicket, ResourceIncident, ResourceProblem, ResourceChange, ResourceKnowledge,
	ResourceCMDB, ResourceUser, ResourceRole, ResourceSystem, ResourceReport,
	ResourceDashboard, ResourceTenant, ResourceAdmin,
}

var actions = []Action{ //nolint:gochecknoglobals
	ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionAssign, ActionEscalate,
	ActionResolve, ActionClose, ActionReopen, ActionApprove, ActionReject, ActionImplement,
	ActionReview, ActionPublish, ActionArchive, ActionManage, ActionImport, ActionExport,
	ActionResetPassword, ActionViewLogs, ActionBackup, ActionSchedule, ActionDeclareMajor,
	ActionBatchDelete,
}

// Resources returns every known resource.
func Resources() []Resource {
	return append([]Resource(nil), resources...)
}

// Actions returns every known action.
func Actions() []Action {
	return append([]Action(nil), actions...)
}

// Valid reports whether r is a known resource.
func (r Resource) Valid() bool {
	for _, k := range resources {
		if k == r {
			return true
		}
	}

	return false
}

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	for _, k := range actions {
		if k == a {
			return true
		}
	}

	return false
}

// ParseResource returns the resource named s.
func ParseResource(s string) (Resource, error) {
	r := Resource(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownResource, s)
	}

	return r, nil
}

// ParseAction returns the action named s.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}

	return a, nil
}

// BatchPrefix marks the batch counterpart of an action.
const BatchPrefix = "batch_"

// BatchAction is the action a batch operation of a needs in addition to a itself.
func BatchAction(a Action) Action {
	return Action(BatchPrefix + string(a))
}

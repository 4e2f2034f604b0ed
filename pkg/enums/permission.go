package enums

import "fmt"

// PermissionModule names a feature area that can be gated per user.
type PermissionModule string

const (
	PermissionModuleDocuments  PermissionModule = "documents"
	PermissionModuleCustomers  PermissionModule = "customers"
	PermissionModuleBuilders   PermissionModule = "builders"
	PermissionModulePayments   PermissionModule = "payments"
	PermissionModuleChallans   PermissionModule = "challans"
	PermissionModuleTasks      PermissionModule = "tasks"
	PermissionModuleAttendance PermissionModule = "attendance"
	PermissionModulePayroll    PermissionModule = "payroll"
	PermissionModuleSettings   PermissionModule = "settings"
	PermissionModuleUsers      PermissionModule = "users"
	PermissionModuleMailbox    PermissionModule = "mailbox"
)

var validPermissionModules = []PermissionModule{
	PermissionModuleDocuments,
	PermissionModuleCustomers,
	PermissionModuleBuilders,
	PermissionModulePayments,
	PermissionModuleChallans,
	PermissionModuleTasks,
	PermissionModuleAttendance,
	PermissionModulePayroll,
	PermissionModuleSettings,
	PermissionModuleUsers,
	PermissionModuleMailbox,
}

// String implements fmt.Stringer.
func (p PermissionModule) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PermissionModule.
func (p PermissionModule) IsValid() bool {
	for _, candidate := range validPermissionModules {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePermissionModule converts raw input into a PermissionModule.
func ParsePermissionModule(value string) (PermissionModule, error) {
	for _, candidate := range validPermissionModules {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid permission module %q", value)
}

// PermissionAction names an operation within a module.
type PermissionAction string

const (
	PermissionActionView    PermissionAction = "view"
	PermissionActionCreate  PermissionAction = "create"
	PermissionActionEdit    PermissionAction = "edit"
	PermissionActionDelete  PermissionAction = "delete"
	PermissionActionApprove PermissionAction = "approve"
)

var validPermissionActions = []PermissionAction{
	PermissionActionView,
	PermissionActionCreate,
	PermissionActionEdit,
	PermissionActionDelete,
	PermissionActionApprove,
}

// String implements fmt.Stringer.
func (p PermissionAction) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PermissionAction.
func (p PermissionAction) IsValid() bool {
	for _, candidate := range validPermissionActions {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePermissionAction converts raw input into a PermissionAction.
func ParsePermissionAction(value string) (PermissionAction, error) {
	for _, candidate := range validPermissionActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid permission action %q", value)
}

package domain

// Role is the closed vocabulary of per-company roles. RoleSuperAdmin is
// synthetic: it never appears on a stored membership edge and is attached
// only when a super-admin binds a company.
type Role string

const (
	RoleOwner      Role = "owner"
	RoleAdmin      Role = "admin"
	RoleAccountant Role = "accountant"
	RoleManager    Role = "manager"
	RoleCashier    Role = "cashier"
	RoleSuperAdmin Role = "super_admin"
)

// Permission names the discrete capabilities gated per role.
type Permission string

const (
	PermCompanyManage Permission = "company.manage"
	PermUsersManage   Permission = "users.manage"
	PermLedgerPost    Permission = "ledger.post"
	PermLedgerView    Permission = "ledger.view"
	PermPayrollRun    Permission = "payroll.run"
	PermPOSSell       Permission = "pos.sell"
	PermReportsView   Permission = "reports.view"
)

// rolePermissions is the capability-list model: each role maps to the static
// set of permissions it grants.
var rolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermCompanyManage, PermUsersManage, PermLedgerPost, PermLedgerView,
		PermPayrollRun, PermPOSSell, PermReportsView,
	},
	RoleAdmin: {
		PermUsersManage, PermLedgerPost, PermLedgerView,
		PermPayrollRun, PermPOSSell, PermReportsView,
	},
	RoleAccountant: {PermLedgerPost, PermLedgerView, PermPayrollRun, PermReportsView},
	RoleManager:    {PermLedgerView, PermPOSSell, PermReportsView},
	RoleCashier:    {PermPOSSell},
}

// roleLevels is the level model: threshold comparisons against a required role.
var roleLevels = map[Role]int{
	RoleCashier:    1,
	RoleManager:    2,
	RoleAccountant: 3,
	RoleAdmin:      4,
	RoleOwner:      5,
}

// ValidRole reports whether r is an assignable membership role.
// RoleSuperAdmin is deliberately excluded.
func ValidRole(r Role) bool {
	_, ok := roleLevels[r]
	return ok
}

// HasPermission reports whether role grants perm. RoleSuperAdmin grants
// everything. Pure: depends only on its arguments.
func HasPermission(role Role, perm Permission) bool {
	if role == RoleSuperAdmin {
		return true
	}
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// RoleLevel returns the numeric rank of role for threshold checks.
// Unknown roles rank 0; RoleSuperAdmin outranks every assignable role.
func RoleLevel(role Role) int {
	if role == RoleSuperAdmin {
		return 100
	}
	return roleLevels[role]
}

// PermissionsFor returns the full permission set granted by role, for
// inclusion in select-company and me responses.
func PermissionsFor(role Role) []Permission {
	if role == RoleSuperAdmin {
		return []Permission{
			PermCompanyManage, PermUsersManage, PermLedgerPost, PermLedgerView,
			PermPayrollRun, PermPOSSell, PermReportsView,
		}
	}
	perms := rolePermissions[role]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

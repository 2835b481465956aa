package authorize

import "strings"

type Action string
type Resource string
type Role string
type Domain string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"

	// ActionPurge removes every slot at once; stricter than ActionDelete.
	ActionPurge Action = "purge"
	// ActionSeed triggers default-week seeding by hand.
	ActionSeed Action = "seed"

	ActionManage Action = "manage"
)

const WildcardAction Action = "*"

var KnownActions = map[Action]struct{}{
	ActionCreate: {}, ActionRead: {}, ActionUpdate: {}, ActionDelete: {}, ActionList: {},
	ActionPurge: {}, ActionSeed: {}, ActionManage: {},
}

const (
	WildcardResource Resource = "*"

	ResourceUser     Resource = "user"
	ResourceSlot     Resource = "slot"
	ResourceSchedule Resource = "schedule"
	ResourceRBAC     Resource = "rbac"
)

var KnownResources = map[Resource]struct{}{
	ResourceUser: {}, ResourceSlot: {}, ResourceSchedule: {}, ResourceRBAC: {},
}

// Roles are the policy subjects users are grouped into.
const (
	WildcardRole Role = "*"

	RoleAdmin Role = "role:sys:admin"
	RoleStaff Role = "role:sys:staff"
)

var KnownRoles = map[Role]struct{}{
	RoleAdmin: {},
	RoleStaff: {},
}

// Account role strings as stored in users.role.
const (
	UserRoleAdmin = "ADMIN"
	UserRoleStaff = "STAFF"
)

// accountRoles maps users.role values to casbin roles.
var accountRoles = map[string]Role{
	UserRoleAdmin: RoleAdmin,
	UserRoleStaff: RoleStaff,
}

// RBACRoleForUserRole resolves a users.role value, case-insensitively.
func RBACRoleForUserRole(userRole string) (Role, bool) {
	r, ok := accountRoles[strings.ToUpper(strings.TrimSpace(userRole))]
	return r, ok
}

// The clinic is a single tenant, so every rule lives in sys.
const (
	DomainSys      Domain = "sys"
	WildcardDomain Domain = "*"
)

// IsValidDomain checks whether d is a recognised domain string.
func IsValidDomain(d Domain) bool {
	return d == DomainSys || d == WildcardDomain
}

type PolicyEffect string

const (
	EffectAllow PolicyEffect = "allow"
	EffectDeny  PolicyEffect = "deny"
)

// GroupSubject is the g.sub in Casbin: a concrete principal id (user_id).
type GroupSubject string

// Permission rows: p, role, domain, resource, action, eft
type PermissionPolicy struct {
	Subject Role
	Domain  Domain
	Object  Resource
	Action  Action
	Effect  PolicyEffect
}

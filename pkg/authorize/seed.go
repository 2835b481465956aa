package authorize

import (
	"context"
	"fmt"
	"log/slog"
)

// DefaultPolicies is the baseline policy set for the clinic.
//
// Admins may do anything in sys. Staff may maintain individual slots but
// cannot purge the whole schedule.
func DefaultPolicies() []PermissionPolicy {
	return []PermissionPolicy{
		{RoleAdmin, DomainSys, WildcardResource, WildcardAction, EffectAllow},

		{RoleStaff, DomainSys, ResourceSlot, ActionCreate, EffectAllow},
		{RoleStaff, DomainSys, ResourceSlot, ActionUpdate, EffectAllow},
		{RoleStaff, DomainSys, ResourceSlot, ActionDelete, EffectAllow},
		{RoleStaff, DomainSys, ResourceSlot, ActionRead, EffectAllow},
		{RoleStaff, DomainSys, ResourceSlot, ActionList, EffectAllow},
		{RoleStaff, DomainSys, ResourceSchedule, ActionRead, EffectAllow},
		{RoleStaff, DomainSys, ResourceSlot, ActionPurge, EffectDeny},
		{RoleStaff, DomainSys, ResourceSchedule, ActionSeed, EffectDeny},
	}
}

// SeedDefaultPolicies writes DefaultPolicies. Existing rows are left alone.
func SeedDefaultPolicies(ctx context.Context, auth IAuthorization) error {
	logger := slog.Default()

	policies := DefaultPolicies()
	for _, p := range policies {
		added, err := auth.AddPermission(ctx, p.Subject, p.Domain, p.Object, p.Action, p.Effect)
		if err != nil {
			logger.Error("failed to add policy", "policy", p, "error", err)
			return err
		}
		if added {
			logger.Debug("added policy", "role", p.Subject, "domain", p.Domain, "resource", p.Object, "action", p.Action)
		}
	}

	logger.Info("seeded default RBAC policies", "count", len(policies))
	return nil
}

// SyncUserRole makes the user's sys-domain role match the account role
// stored in the database. It is idempotent and drops any other sys role
// the user held.
func SyncUserRole(ctx context.Context, auth IAuthorization, userID, userRole string) error {
	want, ok := RBACRoleForUserRole(userRole)
	if !ok {
		return fmt.Errorf("%w: unknown account role %q", ErrInvalidArgs, userRole)
	}
	subject := GroupSubject(userID)

	current, err := auth.GetRolesForUserInDomain(ctx, subject, DomainSys)
	if err != nil {
		return err
	}
	has := false
	for _, r := range current {
		if r == want {
			has = true
			continue
		}
		if _, err := auth.RemoveRoleForUserInDomain(ctx, subject, r, DomainSys); err != nil {
			return err
		}
	}
	if has {
		return nil
	}
	_, err = auth.AddRoleForUserInDomain(ctx, subject, want, DomainSys)
	return err
}

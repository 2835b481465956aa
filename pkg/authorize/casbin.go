package authorize

import (
	"context"
	"errors"
	"fmt"

	casbin "github.com/casbin/casbin/v2"
)

var (
	ErrForbidden   = errors.New("forbidden")
	ErrInvalidArgs = errors.New("invalid authorization arguments")
)

// IAuthorization is what middleware, services and the CLI depend on.
type IAuthorization interface {
	Enforce(ctx context.Context, subject GroupSubject, domain Domain, object Resource, action Action) (bool, error)
	// MustEnforce returns ErrForbidden when the request is denied.
	MustEnforce(ctx context.Context, subject GroupSubject, domain Domain, object Resource, action Action) error

	// g, user_id, role, domain
	AddRoleForUserInDomain(ctx context.Context, subject GroupSubject, role Role, domain Domain) (bool, error)
	RemoveRoleForUserInDomain(ctx context.Context, subject GroupSubject, role Role, domain Domain) (bool, error)
	GetRolesForUserInDomain(ctx context.Context, subject GroupSubject, domain Domain) ([]Role, error)

	// p, role, domain, object, action, eft
	AddPermission(ctx context.Context, role Role, domain Domain, object Resource, action Action, effect PolicyEffect) (bool, error)
	RemovePermission(ctx context.Context, role Role, domain Domain, object Resource, action Action, effect PolicyEffect) (bool, error)
}

// Authorization is a typed wrapper around casbin.DistributedEnforcer that
// rejects tuples naming unknown roles, resources, actions or domains.
type Authorization struct {
	enforcer *casbin.DistributedEnforcer
}

// NewAuthorization wraps an already configured enforcer and loads its policy.
func NewAuthorization(e *casbin.DistributedEnforcer) (IAuthorization, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: enforcer is nil", ErrInvalidArgs)
	}
	if err := e.LoadPolicy(); err != nil {
		return nil, err
	}
	return &Authorization{enforcer: e}, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgs}, args...)...)
}

func checkDomain(d Domain) error {
	if !IsValidDomain(d) {
		return invalid("invalid domain: %q", d)
	}
	return nil
}

func checkRole(r Role, allowWildcard bool) error {
	if r == "" {
		return invalid("role is empty")
	}
	if _, ok := KnownRoles[r]; ok || (allowWildcard && r == WildcardRole) {
		return nil
	}
	return invalid("unknown role: %q", r)
}

func checkTarget(object Resource, action Action) error {
	if _, ok := KnownResources[object]; !ok && object != WildcardResource {
		return invalid("unknown resource: %q", object)
	}
	if _, ok := KnownActions[action]; !ok && action != WildcardAction {
		return invalid("unknown action: %q", action)
	}
	return nil
}

func checkEffect(e PolicyEffect) error {
	if e != EffectAllow && e != EffectDeny {
		return invalid("invalid effect: %q", e)
	}
	return nil
}

func (a *Authorization) Enforce(_ context.Context, subject GroupSubject, domain Domain, object Resource, action Action) (bool, error) {
	if subject == "" {
		return false, invalid("subject is empty")
	}
	if err := errors.Join(checkDomain(domain), checkTarget(object, action)); err != nil {
		return false, err
	}
	return a.enforcer.Enforce(string(subject), string(domain), string(object), string(action))
}

func (a *Authorization) MustEnforce(ctx context.Context, subject GroupSubject, domain Domain, object Resource, action Action) error {
	ok, err := a.Enforce(ctx, subject, domain, object, action)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

func (a *Authorization) AddRoleForUserInDomain(_ context.Context, subject GroupSubject, role Role, domain Domain) (bool, error) {
	if subject == "" {
		return false, invalid("subject is empty")
	}
	if err := errors.Join(checkRole(role, false), checkDomain(domain)); err != nil {
		return false, err
	}
	return a.enforcer.AddGroupingPolicy(string(subject), string(role), string(domain))
}

// RemoveRoleForUserInDomain accepts unknown roles so stale grouping rows
// can still be cleaned up.
func (a *Authorization) RemoveRoleForUserInDomain(_ context.Context, subject GroupSubject, role Role, domain Domain) (bool, error) {
	if subject == "" || role == "" {
		return false, invalid("empty subject/role")
	}
	if err := checkDomain(domain); err != nil {
		return false, err
	}
	return a.enforcer.RemoveGroupingPolicy(string(subject), string(role), string(domain))
}

func (a *Authorization) GetRolesForUserInDomain(_ context.Context, subject GroupSubject, domain Domain) ([]Role, error) {
	if subject == "" {
		return nil, invalid("subject is empty")
	}
	if err := checkDomain(domain); err != nil {
		return nil, err
	}
	roles := a.enforcer.GetRolesForUserInDomain(string(subject), string(domain))
	out := make([]Role, 0, len(roles))
	for _, r := range roles {
		out = append(out, Role(r))
	}
	return out, nil
}

func (a *Authorization) AddPermission(_ context.Context, role Role, domain Domain, object Resource, action Action, effect PolicyEffect) (bool, error) {
	if object == "" || action == "" {
		return false, invalid("empty permission fields")
	}
	if err := errors.Join(checkRole(role, true), checkDomain(domain), checkTarget(object, action), checkEffect(effect)); err != nil {
		return false, err
	}
	return a.enforcer.AddPolicy(string(role), string(domain), string(object), string(action), string(effect))
}

func (a *Authorization) RemovePermission(_ context.Context, role Role, domain Domain, object Resource, action Action, effect PolicyEffect) (bool, error) {
	if role == "" || object == "" || action == "" || effect == "" {
		return false, invalid("empty permission fields")
	}
	if err := checkDomain(domain); err != nil {
		return false, err
	}
	return a.enforcer.RemovePolicy(string(role), string(domain), string(object), string(action), string(effect))
}

package authorize

import (
	"context"
	"log/slog"
	"time"
)

// AuditedAuthorization logs every decision and policy change made through
// the wrapped IAuthorization. Denials log at warn so a purge attempt by
// staff shows up without enabling debug output.
type AuditedAuthorization struct {
	inner  IAuthorization
	logger *slog.Logger
}

func NewAuditedAuthorization(inner IAuthorization, logger *slog.Logger) IAuthorization {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditedAuthorization{inner: inner, logger: logger}
}

func (a *AuditedAuthorization) record(ctx context.Context, event string, level slog.Level, err error, attrs ...any) {
	if err != nil {
		level = slog.LevelError
		attrs = append(attrs, "error", err.Error())
	}
	a.logger.Log(ctx, level, event, attrs...)
}

func (a *AuditedAuthorization) Enforce(ctx context.Context, subject GroupSubject, domain Domain, object Resource, action Action) (bool, error) {
	start := time.Now()
	allowed, err := a.inner.Enforce(ctx, subject, domain, object, action)

	level := slog.LevelInfo
	if !allowed {
		level = slog.LevelWarn
	}
	a.record(ctx, "authz_decision", level, err,
		"subject", string(subject),
		"domain", string(domain),
		"resource", string(object),
		"action", string(action),
		"allowed", allowed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return allowed, err
}

func (a *AuditedAuthorization) MustEnforce(ctx context.Context, subject GroupSubject, domain Domain, object Resource, action Action) error {
	ok, err := a.Enforce(ctx, subject, domain, object, action)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

func (a *AuditedAuthorization) AddRoleForUserInDomain(ctx context.Context, subject GroupSubject, role Role, domain Domain) (bool, error) {
	added, err := a.inner.AddRoleForUserInDomain(ctx, subject, role, domain)
	a.record(ctx, "authz_role_change", slog.LevelInfo, err,
		"operation", "add_role", "subject", string(subject), "role", string(role), "domain", string(domain), "changed", added)
	return added, err
}

func (a *AuditedAuthorization) RemoveRoleForUserInDomain(ctx context.Context, subject GroupSubject, role Role, domain Domain) (bool, error) {
	removed, err := a.inner.RemoveRoleForUserInDomain(ctx, subject, role, domain)
	a.record(ctx, "authz_role_change", slog.LevelInfo, err,
		"operation", "remove_role", "subject", string(subject), "role", string(role), "domain", string(domain), "changed", removed)
	return removed, err
}

func (a *AuditedAuthorization) GetRolesForUserInDomain(ctx context.Context, subject GroupSubject, domain Domain) ([]Role, error) {
	return a.inner.GetRolesForUserInDomain(ctx, subject, domain)
}

func (a *AuditedAuthorization) AddPermission(ctx context.Context, role Role, domain Domain, object Resource, action Action, effect PolicyEffect) (bool, error) {
	added, err := a.inner.AddPermission(ctx, role, domain, object, action, effect)
	a.record(ctx, "authz_permission_change", slog.LevelInfo, err,
		"operation", "add_permission", "role", string(role), "domain", string(domain),
		"resource", string(object), "action", string(action), "effect", string(effect), "changed", added)
	return added, err
}

func (a *AuditedAuthorization) RemovePermission(ctx context.Context, role Role, domain Domain, object Resource, action Action, effect PolicyEffect) (bool, error) {
	removed, err := a.inner.RemovePermission(ctx, role, domain, object, action, effect)
	a.record(ctx, "authz_permission_change", slog.LevelInfo, err,
		"operation", "remove_permission", "role", string(role), "domain", string(domain),
		"resource", string(object), "action", string(action), "effect", string(effect), "changed", removed)
	return removed, err
}

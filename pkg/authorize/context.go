package authorize

import (
	"context"
	"errors"

	"github.com/thanhyclinic/schedule_backend/pkg/reqctx"
)

var ErrNoSubjectInContext = errors.New("no subject found in context")

// SubjectFromContext maps the authenticated user in ctx to the casbin
// subject used for grouping policies.
func SubjectFromContext(ctx context.Context) (GroupSubject, error) {
	id, ok := reqctx.UserIDFromContext(ctx)
	if !ok {
		return "", ErrNoSubjectInContext
	}
	return GroupSubject(id.String()), nil
}

// EnforceFromContext checks the user in ctx against the sys domain.
func EnforceFromContext(ctx context.Context, auth IAuthorization, object Resource, action Action) error {
	subject, err := SubjectFromContext(ctx)
	if err != nil {
		return err
	}
	return auth.MustEnforce(ctx, subject, DomainSys, object, action)
}

package authorize

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/thanhyclinic/schedule_backend/pkg/logs"
	"github.com/thanhyclinic/schedule_backend/pkg/reqctx"
)

func TestAuditedAuthorizationLogsDecisions(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(logs.ContextHandler(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	auth := NewAuditedAuthorization(seededAuth(t), logger)

	ctx := reqctx.WithRequestMeta(context.Background(), &reqctx.RequestMeta{RequestID: "rid-42"})
	ctx = reqctx.WithClaims(ctx, stubClaims{userID: uuid.MustParse(testStaffID)})

	if err := auth.MustEnforce(ctx, GroupSubject(testStaffID), DomainSys, ResourceSlot, ActionPurge); err != ErrForbidden {
		t.Fatalf("MustEnforce() = %v, want ErrForbidden", err)
	}

	out := buf.String()
	for _, want := range []string{"level=WARN", "msg=authz_decision", "allowed=false", "action=purge", "request_id=rid-42"} {
		if !strings.Contains(out, want) {
			t.Errorf("audit log missing %q:\n%s", want, out)
		}
	}
}

func TestAuditedAuthorizationLogsRoleChanges(t *testing.T) {
	var buf bytes.Buffer
	auth := NewAuditedAuthorization(seededAuth(t), slog.New(slog.NewTextHandler(&buf, nil)))

	id := uuid.NewString()
	added, err := auth.AddRoleForUserInDomain(context.Background(), GroupSubject(id), RoleStaff, DomainSys)
	if err != nil || !added {
		t.Fatalf("AddRoleForUserInDomain() = %v, %v", added, err)
	}
	if !strings.Contains(buf.String(), "operation=add_role") {
		t.Errorf("expected role change to be logged, got:\n%s", buf.String())
	}
}

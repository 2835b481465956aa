package authorize

import (
	"testing"
)

func TestIsValidDomain(t *testing.T) {
	tests := []struct {
		name     string
		domain   Domain
		expected bool
	}{
		{"sys domain", DomainSys, true},
		{"wildcard domain", WildcardDomain, true},
		{"empty domain", Domain(""), false},
		{"random string", Domain("random"), false},
		{"per-user domain", Domain("user:550e8400-e29b-41d4-a716-446655440000"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidDomain(tt.domain)
			if result != tt.expected {
				t.Errorf("IsValidDomain(%q) = %v, want %v", tt.domain, result, tt.expected)
			}
		})
	}
}

func TestRBACRoleForUserRole(t *testing.T) {
	tests := []struct {
		in     string
		want   Role
		wantOK bool
	}{
		{"ADMIN", RoleAdmin, true},
		{"admin", RoleAdmin, true},
		{" STAFF ", RoleStaff, true},
		{"OWNER", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := RBACRoleForUserRole(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("RBACRoleForUserRole(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestKnownSets(t *testing.T) {
	for _, a := range []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionList, ActionPurge, ActionSeed, ActionManage} {
		if _, ok := KnownActions[a]; !ok {
			t.Errorf("Expected action %q to be in KnownActions", a)
		}
	}
	for _, r := range []Resource{ResourceUser, ResourceSlot, ResourceSchedule, ResourceRBAC} {
		if _, ok := KnownResources[r]; !ok {
			t.Errorf("Expected resource %q to be in KnownResources", r)
		}
	}
	for _, r := range []Role{RoleAdmin, RoleStaff} {
		if _, ok := KnownRoles[r]; !ok {
			t.Errorf("Expected role %q to be in KnownRoles", r)
		}
	}
}

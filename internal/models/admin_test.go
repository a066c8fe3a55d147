package models

import "testing"

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name  string
		admin Admin
		perm  string
		want  bool
	}{
		{
			name:  "super admin bypasses the map",
			admin: Admin{IsSuperAdmin: true},
			perm:  PermManageUsers,
			want:  true,
		},
		{
			name:  "super admin holds unknown capabilities too",
			admin: Admin{IsSuperAdmin: true},
			perm:  "manage_everything",
			want:  true,
		},
		{
			name:  "nil map grants nothing",
			admin: Admin{},
			perm:  PermManageUsers,
			want:  false,
		},
		{
			name:  "granted capability",
			admin: Admin{Permissions: PermissionMap{PermManageUsers: true}},
			perm:  PermManageUsers,
			want:  true,
		},
		{
			name:  "explicitly revoked capability",
			admin: Admin{Permissions: PermissionMap{PermManageUsers: false}},
			perm:  PermManageUsers,
			want:  false,
		},
		{
			name:  "absent capability",
			admin: Admin{Permissions: PermissionMap{PermManageBlogs: true}},
			perm:  PermManageEnquiries,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.admin.HasPermission(tt.perm); got != tt.want {
				t.Fatalf("HasPermission(%q) = %v, want %v", tt.perm, got, tt.want)
			}
		})
	}
}

func TestPermissionMapScanRoundTrip(t *testing.T) {
	original := PermissionMap{PermManageUsers: true, PermManageEnquiries: false}

	value, err := original.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var scanned PermissionMap
	if err := scanned.Scan(value); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(scanned) != 2 || !scanned[PermManageUsers] || scanned[PermManageEnquiries] {
		t.Fatalf("round trip mismatch: %v", scanned)
	}
}

func TestPermissionMapScanNil(t *testing.T) {
	scanned := PermissionMap{PermManageUsers: true}
	if err := scanned.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if scanned != nil {
		t.Fatalf("expected nil map, got %v", scanned)
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleAdmin, RoleSuperAdmin, RoleModerator} {
		if !ValidRole(role) {
			t.Fatalf("role %q should be valid", role)
		}
	}
	if ValidRole("overlord") {
		t.Fatal("unknown role accepted")
	}
}

func TestAdminApplyMergesOnlySetFields(t *testing.T) {
	admin := Admin{
		Email:    "ops@example.com",
		FullName: "Ops Admin",
		Role:     RoleAdmin,
		IsActive: true,
	}

	name := "Renamed Admin"
	active := false
	admin.Apply(AdminUpdate{FullName: &name, IsActive: &active})

	if admin.FullName != name || admin.IsActive {
		t.Fatalf("update not applied: %+v", admin)
	}
	if admin.Email != "ops@example.com" || admin.Role != RoleAdmin {
		t.Fatalf("untouched fields changed: %+v", admin)
	}
}

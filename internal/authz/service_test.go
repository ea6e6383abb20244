package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	return svc
}

func TestBuiltinRolesListed(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	// 再次执行应保持幂等
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("second bootstrap failed: %v", err)
	}
	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	want := []string{"role:catalog_manager", "role:marketing", "role:readonly_auditor"}
	if strings.Join(roles, ",") != strings.Join(want, ",") {
		t.Fatalf("roles want %v, got %v", want, roles)
	}
}

func TestBuiltinRoleMatrix(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.SetAdminRoles(2, []string{RoleReadonlyAuditor}); err != nil {
		t.Fatalf("set roles failed: %v", err)
	}
	if err := svc.SetAdminRoles(3, []string{RoleCatalogManager}); err != nil {
		t.Fatalf("set roles failed: %v", err)
	}
	if err := svc.SetAdminRoles(4, []string{RoleMarketing}); err != nil {
		t.Fatalf("set roles failed: %v", err)
	}

	cases := []struct {
		admin  uint
		obj    string
		act    string
		expect bool
	}{
		{2, "/api/v1/admin/coupons", "GET", true},
		{2, "/api/v1/admin/coupons", "POST", false},
		{3, "/api/v1/admin/products/:id", "PUT", true},
		{3, "/api/v1/admin/coupons/:id", "DELETE", false},
		{3, "/api/v1/admin/orders", "get", true},
		{4, "/api/v1/admin/coupons/reset", "POST", true},
		{4, "/api/v1/admin/coupons/:id", "PUT", true},
		{4, "/api/v1/admin/categories", "POST", false},
		{9, "/api/v1/admin/dashboard", "GET", false},
	}
	for _, tc := range cases {
		allow, err := svc.EnforceAdmin(tc.admin, tc.obj, tc.act)
		if err != nil {
			t.Fatalf("enforce failed: %v", err)
		}
		if allow != tc.expect {
			t.Fatalf("admin=%d %s %s want %v got %v", tc.admin, tc.act, tc.obj, tc.expect, allow)
		}
	}
}

func TestSetAdminRolesOverride(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.SetAdminRoles(5, []string{RoleMarketing}); err != nil {
		t.Fatalf("set first role failed: %v", err)
	}
	if err := svc.SetAdminRoles(5, []string{RoleCatalogManager}); err != nil {
		t.Fatalf("set second role failed: %v", err)
	}
	roles, err := svc.GetAdminRoles(5)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:catalog_manager" {
		t.Fatalf("roles want [role:catalog_manager], got=%v", roles)
	}
	allow, err := svc.EnforceAdmin(5, "/admin/coupons", "POST")
	if err != nil {
		t.Fatalf("enforce failed: %v", err)
	}
	if allow {
		t.Fatalf("expected old role permission removed")
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/api/v1/admin/coupons/:id", want: "/admin/coupons/:id"},
		{in: "/admin/coupons/:id", want: "/admin/coupons/:id"},
		{in: "admin/coupons", want: "/admin/coupons"},
		{in: "/api/v1", want: "/"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		if got := NormalizeObject(item.in); got != item.want {
			t.Fatalf("normalize object failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}

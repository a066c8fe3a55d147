package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amberglobal/identity-service/internal/models"
	"github.com/amberglobal/identity-service/internal/repository"
	"github.com/amberglobal/identity-service/internal/service"
	"github.com/gin-gonic/gin"
)

const testSecret = "this-is-a-test-secret-with-32-bytes!"

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWT(t *testing.T) service.JWTService {
	t.Helper()
	svc, err := service.NewJWTService(testSecret, "HS256", 30*time.Minute, 480*time.Minute)
	if err != nil {
		t.Fatalf("NewJWTService: %v", err)
	}
	return svc
}

// =============================================================================
// Mock AdminRepository
// =============================================================================

type mockAdminRepository struct {
	findByIDFunc func(ctx context.Context, id int64) (*models.Admin, error)
}

func (m *mockAdminRepository) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	return nil, errors.New("not implemented")
}

func (m *mockAdminRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	return nil, errors.New("not implemented")
}

func (m *mockAdminRepository) FindByID(ctx context.Context, id int64) (*models.Admin, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	return errors.New("not implemented")
}

func (m *mockAdminRepository) Update(ctx context.Context, admin *models.Admin) error {
	return errors.New("not implemented")
}

func (m *mockAdminRepository) Delete(ctx context.Context, id int64) error {
	return errors.New("not implemented")
}

func (m *mockAdminRepository) List(ctx context.Context, offset, limit int) ([]models.Admin, error) {
	return nil, errors.New("not implemented")
}

func (m *mockAdminRepository) Count(ctx context.Context) (int64, error) {
	return 0, errors.New("not implemented")
}

func performRequest(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// =============================================================================
// UserAuth
// =============================================================================

func TestUserAuthMissingHeader(t *testing.T) {
	router := gin.New()
	router.GET("/protected", UserAuth(newTestJWT(t)), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := performRequest(router, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestUserAuthMalformedHeader(t *testing.T) {
	router := gin.New()
	router.GET("/protected", UserAuth(newTestJWT(t)), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := performRequest(router, "Token abc")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestUserAuthSetsUserID(t *testing.T) {
	jwtSvc := newTestJWT(t)
	token, err := jwtSvc.GenerateUserToken(7, "buyer@example.com")
	if err != nil {
		t.Fatalf("GenerateUserToken: %v", err)
	}

	router := gin.New()
	router.GET("/protected", UserAuth(jwtSvc), func(c *gin.Context) {
		if UserIDFromContext(c) != 7 {
			t.Fatalf("expected user id 7 in context, got %d", UserIDFromContext(c))
		}
		c.Status(http.StatusOK)
	})

	w := performRequest(router, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestUserAuthRejectsAdminToken(t *testing.T) {
	jwtSvc := newTestJWT(t)
	token, err := jwtSvc.GenerateAdminToken(3, "ops", "admin")
	if err != nil {
		t.Fatalf("GenerateAdminToken: %v", err)
	}

	router := gin.New()
	router.GET("/protected", UserAuth(jwtSvc), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := performRequest(router, "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

// =============================================================================
// AdminAuth
// =============================================================================

func adminRouter(t *testing.T, admins repository.AdminRepository, extra ...gin.HandlerFunc) (*gin.Engine, string) {
	t.Helper()
	jwtSvc := newTestJWT(t)
	token, err := jwtSvc.GenerateAdminToken(3, "ops", "admin")
	if err != nil {
		t.Fatalf("GenerateAdminToken: %v", err)
	}

	router := gin.New()
	chain := append([]gin.HandlerFunc{AdminAuth(jwtSvc, admins)}, extra...)
	chain = append(chain, func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/protected", chain...)
	return router, token
}

func TestAdminAuthLoadsFreshRecord(t *testing.T) {
	admins := &mockAdminRepository{
		findByIDFunc: func(ctx context.Context, id int64) (*models.Admin, error) {
			return &models.Admin{ID: id, Username: "ops", IsActive: true}, nil
		},
	}
	router, token := adminRouter(t, admins)

	w := performRequest(router, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestAdminAuthRejectsInactiveAdmin(t *testing.T) {
	admins := &mockAdminRepository{
		findByIDFunc: func(ctx context.Context, id int64) (*models.Admin, error) {
			return &models.Admin{ID: id, Username: "ops", IsActive: false}, nil
		},
	}
	router, token := adminRouter(t, admins)

	w := performRequest(router, "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for an inactive admin, got %d", w.Code)
	}
}

func TestAdminAuthRejectsDeletedAdmin(t *testing.T) {
	admins := &mockAdminRepository{
		findByIDFunc: func(ctx context.Context, id int64) (*models.Admin, error) {
			return nil, repository.ErrNotFound
		},
	}
	router, token := adminRouter(t, admins)

	w := performRequest(router, "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a deleted admin, got %d", w.Code)
	}
}

// =============================================================================
// Permission guards
// =============================================================================

func TestRequireSuperAdminBlocksRegularAdmin(t *testing.T) {
	admins := &mockAdminRepository{
		findByIDFunc: func(ctx context.Context, id int64) (*models.Admin, error) {
			return &models.Admin{ID: id, Username: "ops", IsActive: true}, nil
		},
	}
	router, token := adminRouter(t, admins, RequireSuperAdmin())

	w := performRequest(router, "Bearer "+token)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestRequirePermissionDeniesMissingCapability(t *testing.T) {
	admins := &mockAdminRepository{
		findByIDFunc: func(ctx context.Context, id int64) (*models.Admin, error) {
			return &models.Admin{
				ID:          id,
				Username:    "ops",
				IsActive:    true,
				Permissions: models.PermissionMap{models.PermManageBlogs: true},
			}, nil
		},
	}
	router, token := adminRouter(t, admins, RequirePermission(models.PermManageUsers))

	w := performRequest(router, "Bearer "+token)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), models.PermManageUsers) {
		t.Fatalf("expected the missing capability in the body, got %s", w.Body.String())
	}
}

func TestRequirePermissionSuperAdminBypass(t *testing.T) {
	admins := &mockAdminRepository{
		findByIDFunc: func(ctx context.Context, id int64) (*models.Admin, error) {
			return &models.Admin{ID: id, Username: "root", IsActive: true, IsSuperAdmin: true}, nil
		},
	}
	router, token := adminRouter(t, admins, RequirePermission(models.PermManageUsers))

	w := performRequest(router, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for a super admin, got %d", w.Code)
	}
}

func TestRequirePermissionGrantedCapability(t *testing.T) {
	admins := &mockAdminRepository{
		findByIDFunc: func(ctx context.Context, id int64) (*models.Admin, error) {
			return &models.Admin{
				ID:          id,
				Username:    "ops",
				IsActive:    true,
				Permissions: models.PermissionMap{models.PermManageUsers: true},
			}, nil
		},
	}
	router, token := adminRouter(t, admins, RequirePermission(models.PermManageUsers))

	w := performRequest(router, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

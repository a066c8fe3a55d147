package service

import (
	"context"
	"errors"
	"time"

	"github.com/amberglobal/identity-service/internal/models"
	"github.com/amberglobal/identity-service/internal/notification"
)

const testSecret = "this-is-a-test-secret-with-32-bytes!"

// =============================================================================
// Mock UserRepository
// =============================================================================

type mockUserRepository struct {
	findByEmailFunc func(ctx context.Context, email string) (*models.User, error)
	findByIDFunc    func(ctx context.Context, id int64) (*models.User, error)
	createFunc      func(ctx context.Context, user *models.User) error
	updateFunc      func(ctx context.Context, user *models.User) error
	deleteFunc      func(ctx context.Context, id int64) error
	listFunc        func(ctx context.Context, offset, limit int) ([]models.User, error)
	countFunc       func(ctx context.Context) (int64, error)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepository) Update(ctx context.Context, user *models.User) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, user)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepository) List(ctx context.Context, offset, limit int) ([]models.User, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, offset, limit)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, errors.New("not implemented")
}

// =============================================================================
// Mock AdminRepository
// =============================================================================

type mockAdminRepository struct {
	findByUsernameFunc func(ctx context.Context, username string) (*models.Admin, error)
	findByEmailFunc    func(ctx context.Context, email string) (*models.Admin, error)
	findByIDFunc       func(ctx context.Context, id int64) (*models.Admin, error)
	createFunc         func(ctx context.Context, admin *models.Admin) error
	updateFunc         func(ctx context.Context, admin *models.Admin) error
	deleteFunc         func(ctx context.Context, id int64) error
	listFunc           func(ctx context.Context, offset, limit int) ([]models.Admin, error)
	countFunc          func(ctx context.Context) (int64, error)
}

func (m *mockAdminRepository) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAdminRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAdminRepository) FindByID(ctx context.Context, id int64) (*models.Admin, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, admin)
	}
	return errors.New("not implemented")
}

func (m *mockAdminRepository) Update(ctx context.Context, admin *models.Admin) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, admin)
	}
	return errors.New("not implemented")
}

func (m *mockAdminRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return errors.New("not implemented")
}

func (m *mockAdminRepository) List(ctx context.Context, offset, limit int) ([]models.Admin, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, offset, limit)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAdminRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, errors.New("not implemented")
}

// =============================================================================
// Mock OTPRepository
// =============================================================================

type mockOTPRepository struct {
	createFunc           func(ctx context.Context, otp *models.OneTimeCode) error
	findValidFunc        func(ctx context.Context, email, code string, now time.Time) (*models.OneTimeCode, error)
	markUsedFunc         func(ctx context.Context, id int64) error
	markUsedForEmailFunc func(ctx context.Context, email string) error
	deleteExpiredFunc    func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockOTPRepository) Create(ctx context.Context, otp *models.OneTimeCode) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, otp)
	}
	return errors.New("not implemented")
}

func (m *mockOTPRepository) FindValid(ctx context.Context, email, code string, now time.Time) (*models.OneTimeCode, error) {
	if m.findValidFunc != nil {
		return m.findValidFunc(ctx, email, code, now)
	}
	return nil, errors.New("not implemented")
}

func (m *mockOTPRepository) MarkUsed(ctx context.Context, id int64) error {
	if m.markUsedFunc != nil {
		return m.markUsedFunc(ctx, id)
	}
	return errors.New("not implemented")
}

func (m *mockOTPRepository) MarkUsedForEmail(ctx context.Context, email string) error {
	if m.markUsedForEmailFunc != nil {
		return m.markUsedForEmailFunc(ctx, email)
	}
	return errors.New("not implemented")
}

func (m *mockOTPRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.deleteExpiredFunc != nil {
		return m.deleteExpiredFunc(ctx, now)
	}
	return 0, errors.New("not implemented")
}

// =============================================================================
// Mock AuditRepository
// =============================================================================

// mockAuditRepository records every event so tests can assert on the trail.
type mockAuditRepository struct {
	events []models.AuditEvent
}

func (m *mockAuditRepository) Create(ctx context.Context, event *models.AuditEvent) error {
	m.events = append(m.events, *event)
	return nil
}

func (m *mockAuditRepository) Recent(ctx context.Context, limit int) ([]models.AuditEvent, error) {
	if limit > len(m.events) {
		limit = len(m.events)
	}
	return m.events[len(m.events)-limit:], nil
}

func (m *mockAuditRepository) lastEventType() string {
	if len(m.events) == 0 {
		return ""
	}
	return m.events[len(m.events)-1].Type
}

// =============================================================================
// Mock EntityStore
// =============================================================================

type mockEntityStore struct {
	countFunc       func(ctx context.Context, entity string) (int64, error)
	listFunc        func(ctx context.Context, entity string, offset, limit int) ([]map[string]interface{}, error)
	updateFieldFunc func(ctx context.Context, entity string, id int64, field string, value interface{}) error
}

func (m *mockEntityStore) Count(ctx context.Context, entity string) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, entity)
	}
	return 0, errors.New("not implemented")
}

func (m *mockEntityStore) List(ctx context.Context, entity string, offset, limit int) ([]map[string]interface{}, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, entity, offset, limit)
	}
	return nil, errors.New("not implemented")
}

func (m *mockEntityStore) UpdateField(ctx context.Context, entity string, id int64, field string, value interface{}) error {
	if m.updateFieldFunc != nil {
		return m.updateFieldFunc(ctx, entity, id, field, value)
	}
	return errors.New("not implemented")
}

// =============================================================================
// Mock Notifier and PasswordHasher
// =============================================================================

// mockNotifier records sends and answers with a configurable result.
type mockNotifier struct {
	ok    bool
	sends []string
}

func (m *mockNotifier) Send(kind notification.Kind, email, code, displayName string) bool {
	m.sends = append(m.sends, email)
	return m.ok
}

// fakeHasher avoids bcrypt cost in tests. Verify matches only digests that
// fakeHasher itself produced.
type fakeHasher struct{}

func (fakeHasher) Hash(plaintext string) (string, error) {
	return "hashed:" + plaintext, nil
}

func (fakeHasher) Verify(plaintext, digest string) bool {
	return digest == "hashed:"+plaintext
}

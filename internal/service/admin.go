package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/amberglobal/identity-service/internal/models"
	"github.com/amberglobal/identity-service/internal/ratelimit"
	"github.com/amberglobal/identity-service/internal/repository"
)

// CreateAdminRequest carries the fields a super admin supplies when creating
// a new admin account.
type CreateAdminRequest struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	FullName        string
	Role            string
	IsSuperAdmin    bool
	Permissions     models.PermissionMap
}

// AdminTokenResponse is returned by the dedicated admin login endpoint.
type AdminTokenResponse struct {
	AccessToken string               `json:"access_token"`
	TokenType   string               `json:"token_type"`
	AdminID     int64                `json:"admin_id"`
	Username    string               `json:"username"`
	Role        string               `json:"role"`
	Permissions models.PermissionMap `json:"permissions,omitempty"`
}

// DashboardStats aggregates counts for the admin dashboard. Catalog counts
// come through the generic entity store.
type DashboardStats struct {
	TotalUsers       int64               `json:"total_users"`
	TotalProducts    int64               `json:"total_products"`
	TotalEnquiries   int64               `json:"total_enquiries"`
	TotalBlogs       int64               `json:"total_blogs"`
	TotalCategories  int64               `json:"total_categories"`
	RecentActivities []models.AuditEvent `json:"recent_activities"`
}

// AdminService implements admin authentication, self-service, and the
// privileged management operations gated by the permission guard.
type AdminService interface {
	Login(ctx context.Context, email, password, clientIP string) (*AdminTokenResponse, error)
	Get(ctx context.Context, id int64) (*models.Admin, error)
	ChangePassword(ctx context.Context, admin *models.Admin, current, newPassword, confirm string) error
	Create(ctx context.Context, actor *models.Admin, req CreateAdminRequest) (*models.Admin, error)
	List(ctx context.Context, offset, limit int) ([]models.Admin, error)
	Update(ctx context.Context, actor *models.Admin, id int64, update models.AdminUpdate) (*models.Admin, error)
	Delete(ctx context.Context, actor *models.Admin, id int64) error
	DashboardStats(ctx context.Context) (*DashboardStats, error)
	ListUsers(ctx context.Context, offset, limit int) ([]models.User, error)
	SetUserVerified(ctx context.Context, actor *models.Admin, userID int64, verified bool) error
	ListEnquiries(ctx context.Context, offset, limit int) ([]map[string]interface{}, error)
	UpdateEnquiryStatus(ctx context.Context, actor *models.Admin, enquiryID int64, status string) error
	RecentActivities(ctx context.Context, limit int) ([]models.AuditEvent, error)
	// EnsureBootstrap creates the initial super admin when the admin table
	// is empty. No-op when admins exist or credentials are unset.
	EnsureBootstrap(ctx context.Context, username, email, password string) error
}

type adminService struct {
	admins   repository.AdminRepository
	users    repository.UserRepository
	audits   repository.AuditRepository
	entities repository.EntityStore
	jwt      JWTService
	hasher   PasswordHasher
	limiter  *ratelimit.Limiter
}

// NewAdminService wires the admin flows. limiter may be nil to disable
// login throttling.
func NewAdminService(
	admins repository.AdminRepository,
	users repository.UserRepository,
	audits repository.AuditRepository,
	entities repository.EntityStore,
	jwt JWTService,
	hasher PasswordHasher,
	limiter *ratelimit.Limiter,
) AdminService {
	return &adminService{
		admins:   admins,
		users:    users,
		audits:   audits,
		entities: entities,
		jwt:      jwt,
		hasher:   hasher,
		limiter:  limiter,
	}
}

func (s *adminService) Login(ctx context.Context, email, password, clientIP string) (*AdminTokenResponse, error) {
	if err := s.limiter.Check(ctx, email, clientIP); err != nil {
		return nil, err
	}

	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.limiter.RecordFailure(ctx, email, clientIP)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Verify(password, admin.PasswordHash) {
		s.limiter.RecordFailure(ctx, email, clientIP)
		return nil, ErrInvalidCredentials
	}
	if !admin.IsActive {
		return nil, ErrInactiveAdmin
	}

	now := time.Now()
	admin.LastLogin = &now
	if err := s.admins.Update(ctx, admin); err != nil {
		return nil, err
	}

	token, err := s.jwt.GenerateAdminToken(admin.ID, admin.Username, admin.Role)
	if err != nil {
		return nil, err
	}

	s.limiter.Reset(ctx, email, clientIP)
	s.audit(ctx, models.EventAdminLogin, fmt.Sprintf("Admin %s logged in", admin.Username), admin.Email)

	return &AdminTokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		AdminID:     admin.ID,
		Username:    admin.Username,
		Role:        admin.Role,
		Permissions: admin.Permissions,
	}, nil
}

func (s *adminService) Get(ctx context.Context, id int64) (*models.Admin, error) {
	admin, err := s.admins.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return admin, nil
}

func (s *adminService) ChangePassword(ctx context.Context, admin *models.Admin, current, newPassword, confirm string) error {
	if !s.hasher.Verify(current, admin.PasswordHash) {
		return NewValidationError("Current password is incorrect")
	}
	if newPassword != confirm {
		return NewValidationError("Passwords do not match")
	}
	if len(newPassword) < 8 {
		return NewValidationError("Password must be at least 8 characters long")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	admin.PasswordHash = hash
	if err := s.admins.Update(ctx, admin); err != nil {
		return err
	}

	s.audit(ctx, models.EventAdminPasswordChange, fmt.Sprintf("Admin %s changed password", admin.Username), admin.Email)
	return nil
}

// Create registers a new admin. The caller must already be authorized as a
// super admin; this method still validates that the new username and email
// are unique across both admin namespaces, so the email-then-username
// resolution order in login can never become ambiguous.
func (s *adminService) Create(ctx context.Context, actor *models.Admin, req CreateAdminRequest) (*models.Admin, error) {
	if req.Password != req.ConfirmPassword {
		return nil, NewValidationError("Passwords do not match")
	}
	if len(req.Password) < 8 {
		return nil, NewValidationError("Password must be at least 8 characters long")
	}
	role := req.Role
	if role == "" {
		role = models.RoleAdmin
	}
	if !models.ValidRole(role) {
		return nil, NewValidationError(fmt.Sprintf("Invalid role %q", role))
	}

	if err := s.checkIdentifierFree(ctx, req.Username, ErrUsernameExists); err != nil {
		return nil, err
	}
	if err := s.checkIdentifierFree(ctx, req.Email, ErrEmailExists); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	admin := &models.Admin{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         role,
		IsActive:     true,
		IsSuperAdmin: req.IsSuperAdmin,
		Permissions:  req.Permissions,
		CreatedBy:    &actor.ID,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, err
	}

	s.audit(ctx, models.EventAdminCreated,
		fmt.Sprintf("Admin %s created by %s", admin.Username, actor.Username), actor.Email)
	return admin, nil
}

// checkIdentifierFree rejects an identifier already in use as either an
// admin username or an admin email.
func (s *adminService) checkIdentifierFree(ctx context.Context, identifier string, conflict error) error {
	if _, err := s.admins.FindByUsername(ctx, identifier); err == nil {
		return conflict
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if _, err := s.admins.FindByEmail(ctx, identifier); err == nil {
		return conflict
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

func (s *adminService) List(ctx context.Context, offset, limit int) ([]models.Admin, error) {
	return s.admins.List(ctx, offset, limit)
}

func (s *adminService) Update(ctx context.Context, actor *models.Admin, id int64, update models.AdminUpdate) (*models.Admin, error) {
	admin, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// A super admin may never strip their own flag.
	if admin.ID == actor.ID && update.IsSuperAdmin != nil && !*update.IsSuperAdmin {
		return nil, ErrSelfDemotion
	}
	if update.Role != nil && !models.ValidRole(*update.Role) {
		return nil, NewValidationError(fmt.Sprintf("Invalid role %q", *update.Role))
	}

	admin.Apply(update)
	if err := s.admins.Update(ctx, admin); err != nil {
		return nil, err
	}

	s.audit(ctx, models.EventAdminUpdated,
		fmt.Sprintf("Admin %s updated by %s", admin.Username, actor.Username), actor.Email)
	return admin, nil
}

func (s *adminService) Delete(ctx context.Context, actor *models.Admin, id int64) error {
	admin, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if admin.ID == actor.ID {
		return ErrSelfDeletion
	}

	if err := s.admins.Delete(ctx, id); err != nil {
		return err
	}

	s.audit(ctx, models.EventAdminDeleted,
		fmt.Sprintf("Admin %s deleted by %s", admin.Username, actor.Username), actor.Email)
	return nil
}

func (s *adminService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	counts := []struct {
		entity string
		dest   *int64
	}{
		{repository.EntityProducts, &stats.TotalProducts},
		{repository.EntityEnquiries, &stats.TotalEnquiries},
		{repository.EntityBlogs, &stats.TotalBlogs},
		{repository.EntityCategories, &stats.TotalCategories},
	}
	for _, c := range counts {
		if *c.dest, err = s.entities.Count(ctx, c.entity); err != nil {
			return nil, err
		}
	}

	if stats.RecentActivities, err = s.audits.Recent(ctx, 10); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *adminService) ListUsers(ctx context.Context, offset, limit int) ([]models.User, error) {
	return s.users.List(ctx, offset, limit)
}

func (s *adminService) SetUserVerified(ctx context.Context, actor *models.Admin, userID int64, verified bool) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	user.IsVerified = verified
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.audit(ctx, models.EventUserStatusUpdated,
		fmt.Sprintf("User %s verification status updated to %t by %s", user.Email, verified, actor.Username),
		actor.Email)
	return nil
}

func (s *adminService) ListEnquiries(ctx context.Context, offset, limit int) ([]map[string]interface{}, error) {
	return s.entities.List(ctx, repository.EntityEnquiries, offset, limit)
}

func (s *adminService) UpdateEnquiryStatus(ctx context.Context, actor *models.Admin, enquiryID int64, status string) error {
	err := s.entities.UpdateField(ctx, repository.EntityEnquiries, enquiryID, "status", status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("enquiry %d: %w", enquiryID, repository.ErrNotFound)
		}
		return err
	}

	s.audit(ctx, models.EventEnquiryStatusUpdated,
		fmt.Sprintf("Enquiry %d status updated to %s by %s", enquiryID, status, actor.Username),
		actor.Email)
	return nil
}

func (s *adminService) RecentActivities(ctx context.Context, limit int) ([]models.AuditEvent, error) {
	return s.audits.Recent(ctx, limit)
}

func (s *adminService) EnsureBootstrap(ctx context.Context, username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return nil
	}
	count, err := s.admins.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	admin := &models.Admin{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FullName:     username,
		Role:         models.RoleSuperAdmin,
		IsActive:     true,
		IsSuperAdmin: true,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return err
	}
	log.Printf("bootstrap super admin %s created", username)
	return nil
}

func (s *adminService) audit(ctx context.Context, eventType, description, email string) {
	event := &models.AuditEvent{
		Type:        eventType,
		Description: description,
		UserEmail:   email,
	}
	if err := s.audits.Create(ctx, event); err != nil {
		log.Printf("failed to record %s audit event: %v", eventType, err)
	}
}

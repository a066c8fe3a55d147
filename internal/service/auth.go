package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/amberglobal/identity-service/internal/models"
	"github.com/amberglobal/identity-service/internal/notification"
	"github.com/amberglobal/identity-service/internal/ratelimit"
	"github.com/amberglobal/identity-service/internal/repository"
)

// SignupRequest carries the fields needed to register a new user.
type SignupRequest struct {
	UserName        string
	Email           string
	Password        string
	ConfirmPassword string
	BusinessName    string
	Address         string
	Phone           string
}

// AckResponse acknowledges an email-bound action without issuing a token.
type AckResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

// TokenResponse is returned by flows that end with a fresh user token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	IsAdmin     bool   `json:"is_admin"`
	UserID      int64  `json:"user_id"`
	Email       string `json:"email"`
}

// LoginResponse covers both principal kinds resolved by Login. Admin-only
// fields are omitted for user logins and vice versa.
type LoginResponse struct {
	AccessToken string               `json:"access_token"`
	TokenType   string               `json:"token_type"`
	UserType    string               `json:"user_type"`
	IsAdmin     bool                 `json:"is_admin"`
	UserID      int64                `json:"user_id,omitempty"`
	Email       string               `json:"email,omitempty"`
	AdminID     int64                `json:"admin_id,omitempty"`
	Username    string               `json:"username,omitempty"`
	Role        string               `json:"role,omitempty"`
	Permissions models.PermissionMap `json:"permissions,omitempty"`
}

// ResetPasswordRequest carries a reset-password submission.
type ResetPasswordRequest struct {
	Email           string
	Code            string
	NewPassword     string
	ConfirmPassword string
}

// AuthService implements signup, verification, login dispatch, and password
// reset.
type AuthService interface {
	Signup(ctx context.Context, req SignupRequest) (*AckResponse, error)
	VerifyOTP(ctx context.Context, email, code string) (*TokenResponse, error)
	ResendOTP(ctx context.Context, email string) (*AckResponse, error)
	Login(ctx context.Context, identifier, password, clientIP string) (*LoginResponse, error)
	ForgotPassword(ctx context.Context, email string) (*AckResponse, error)
	ResetPassword(ctx context.Context, req ResetPasswordRequest) (*TokenResponse, error)
	Profile(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, update models.UserUpdate) (*models.User, error)
}

// principal is the outcome of identifier resolution during login.
type principal struct {
	admin *models.Admin
	user  *models.User
}

// principalResolver maps a login identifier to a principal, or
// repository.ErrNotFound when the identifier does not match its namespace.
type principalResolver func(ctx context.Context, identifier string) (*principal, error)

type authService struct {
	users    repository.UserRepository
	admins   repository.AdminRepository
	audits   repository.AuditRepository
	otp      OTPService
	jwt      JWTService
	hasher   PasswordHasher
	notifier notification.Notifier
	limiter  *ratelimit.Limiter

	// resolvers are tried in declaration order; the first hit wins, which
	// makes the admin-before-user precedence an explicit invariant.
	resolvers []principalResolver
}

// NewAuthService wires the authentication flows. limiter may be nil to
// disable login throttling.
func NewAuthService(
	users repository.UserRepository,
	admins repository.AdminRepository,
	audits repository.AuditRepository,
	otp OTPService,
	jwt JWTService,
	hasher PasswordHasher,
	notifier notification.Notifier,
	limiter *ratelimit.Limiter,
) AuthService {
	s := &authService{
		users:    users,
		admins:   admins,
		audits:   audits,
		otp:      otp,
		jwt:      jwt,
		hasher:   hasher,
		notifier: notifier,
		limiter:  limiter,
	}
	s.resolvers = []principalResolver{
		s.resolveAdminByEmail,
		s.resolveAdminByUsername,
		s.resolveUserByEmail,
	}
	return s
}

func (s *authService) Signup(ctx context.Context, req SignupRequest) (*AckResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, NewValidationError("Passwords do not match")
	}
	if len(req.Password) < 6 {
		return nil, NewValidationError("Password must be at least 6 characters long")
	}

	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		UserName:     req.UserName,
		BusinessName: req.BusinessName,
		Address:      req.Address,
		Phone:        req.Phone,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	code, err := s.otp.Issue(ctx, req.Email)
	if err != nil {
		s.rollbackSignup(ctx, user)
		return nil, err
	}

	if !s.notifier.Send(notification.KindVerification, req.Email, code, req.UserName) {
		// The user must never be left registered but unnotified.
		s.rollbackSignup(ctx, user)
		return nil, ErrNotificationFailed
	}

	s.audit(ctx, models.EventSignup, fmt.Sprintf("User %s registered and OTP sent.", user.Email), user.Email)

	return &AckResponse{
		Message: "Registration successful! Please check your email for verification code.",
		Email:   req.Email,
	}, nil
}

func (s *authService) rollbackSignup(ctx context.Context, user *models.User) {
	if err := s.users.Delete(ctx, user.ID); err != nil {
		log.Printf("signup rollback failed for %s: %v", user.Email, err)
	}
}

func (s *authService) VerifyOTP(ctx context.Context, email, code string) (*TokenResponse, error) {
	otp, err := s.otp.Validate(ctx, email, code)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.otp.Consume(ctx, otp); err != nil {
		return nil, err
	}

	// The only path that flips is_verified.
	user.IsVerified = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.jwt.GenerateUserToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, models.EventEmailVerified, fmt.Sprintf("User %s verified email.", user.Email), user.Email)

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserID:      user.ID,
		Email:       user.Email,
	}, nil
}

func (s *authService) ResendOTP(ctx context.Context, email string) (*AckResponse, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.IsVerified {
		return nil, ErrAlreadyVerified
	}

	code, err := s.otp.Issue(ctx, email)
	if err != nil {
		return nil, err
	}
	if !s.notifier.Send(notification.KindVerification, email, code, user.UserName) {
		return nil, ErrNotificationFailed
	}

	s.audit(ctx, models.EventOTPResent, fmt.Sprintf("OTP resent to %s.", email), email)

	return &AckResponse{
		Message: "OTP sent successfully! Please check your email.",
		Email:   email,
	}, nil
}

// Login resolves the identifier against the ordered resolver list and
// authenticates the first principal found. An email matching both an admin
// and a user record always authenticates as the admin.
func (s *authService) Login(ctx context.Context, identifier, password, clientIP string) (*LoginResponse, error) {
	if err := s.limiter.Check(ctx, identifier, clientIP); err != nil {
		return nil, err
	}

	p := s.resolvePrincipal(ctx, identifier)
	if p == nil {
		s.limiter.RecordFailure(ctx, identifier, clientIP)
		return nil, ErrInvalidCredentials
	}

	var resp *LoginResponse
	var err error
	if p.admin != nil {
		resp, err = s.loginAdmin(ctx, p.admin, password)
	} else {
		resp, err = s.loginUser(ctx, p.user, password)
	}
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.limiter.RecordFailure(ctx, identifier, clientIP)
		}
		return nil, err
	}

	s.limiter.Reset(ctx, identifier, clientIP)
	return resp, nil
}

func (s *authService) resolvePrincipal(ctx context.Context, identifier string) *principal {
	for _, resolve := range s.resolvers {
		p, err := resolve(ctx, identifier)
		if err == nil {
			return p
		}
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("principal resolution failed for %q: %v", identifier, err)
			return nil
		}
	}
	return nil
}

func (s *authService) resolveAdminByEmail(ctx context.Context, identifier string) (*principal, error) {
	admin, err := s.admins.FindByEmail(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return &principal{admin: admin}, nil
}

func (s *authService) resolveAdminByUsername(ctx context.Context, identifier string) (*principal, error) {
	admin, err := s.admins.FindByUsername(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return &principal{admin: admin}, nil
}

func (s *authService) resolveUserByEmail(ctx context.Context, identifier string) (*principal, error) {
	user, err := s.users.FindByEmail(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return &principal{user: user}, nil
}

func (s *authService) loginAdmin(ctx context.Context, admin *models.Admin, password string) (*LoginResponse, error) {
	if !s.hasher.Verify(password, admin.PasswordHash) {
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

	s.audit(ctx, models.EventAdminLogin, fmt.Sprintf("Admin %s logged in via user endpoint", admin.Username), admin.Email)

	return &LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserType:    "admin",
		IsAdmin:     true,
		AdminID:     admin.ID,
		Username:    admin.Username,
		Email:       admin.Email,
		Role:        admin.Role,
		Permissions: admin.Permissions,
	}, nil
}

func (s *authService) loginUser(ctx context.Context, user *models.User, password string) (*LoginResponse, error) {
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsVerified {
		return nil, ErrNotVerified
	}

	token, err := s.jwt.GenerateUserToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, models.EventLogin, fmt.Sprintf("User %s logged in.", user.Email), user.Email)

	return &LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserType:    "user",
		UserID:      user.ID,
		Email:       user.Email,
	}, nil
}

func (s *authService) ForgotPassword(ctx context.Context, email string) (*AckResponse, error) {
	// Reset never creates identities; unknown emails are a hard 404.
	// Verification status is deliberately not required here.
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	code, err := s.otp.Issue(ctx, email)
	if err != nil {
		return nil, err
	}
	if !s.notifier.Send(notification.KindPasswordReset, email, code, user.UserName) {
		return nil, ErrNotificationFailed
	}

	s.audit(ctx, models.EventPasswordResetRequested, fmt.Sprintf("Password reset requested for %s.", email), email)

	return &AckResponse{
		Message: "Password reset OTP sent! Please check your email for verification code.",
		Email:   email,
	}, nil
}

func (s *authService) ResetPassword(ctx context.Context, req ResetPasswordRequest) (*TokenResponse, error) {
	if req.NewPassword != req.ConfirmPassword {
		return nil, NewValidationError("Passwords do not match")
	}
	if reasons := passwordPolicyViolations(req.NewPassword); len(reasons) > 0 {
		return nil, &ValidationError{Reasons: reasons}
	}

	otp, err := s.otp.Validate(ctx, req.Email, req.Code)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.otp.Consume(ctx, otp); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.jwt.GenerateUserToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, models.EventPasswordResetCompleted, fmt.Sprintf("Password reset completed for %s.", user.Email), user.Email)

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserID:      user.ID,
		Email:       user.Email,
	}, nil
}

func (s *authService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID int64, update models.UserUpdate) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.Apply(update)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// audit appends an event row. Failures are logged and swallowed: the audit
// trail must never fail the action it describes.
func (s *authService) audit(ctx context.Context, eventType, description, email string) {
	event := &models.AuditEvent{
		Type:        eventType,
		Description: description,
		UserEmail:   email,
	}
	if err := s.audits.Create(ctx, event); err != nil {
		log.Printf("failed to record %s audit event: %v", eventType, err)
	}
}

package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserClaims is the claim set minted for verified users. Subject carries the
// email address.
type UserClaims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// AdminClaims is the claim set minted for admins. Subject carries the
// username; the role string rides along so fast paths need no store lookup.
type AdminClaims struct {
	AdminID int64  `json:"admin_id"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService mints and verifies signed, time-limited bearer tokens.
type JWTService interface {
	GenerateUserToken(userID int64, email string) (string, error)
	GenerateAdminToken(adminID int64, username, role string) (string, error)
	ValidateUserToken(tokenString string) (*UserClaims, error)
	ValidateAdminToken(tokenString string) (*AdminClaims, error)
}

type jwtService struct {
	secret      string
	method      jwt.SigningMethod
	userExpiry  time.Duration
	adminExpiry time.Duration
}

// NewJWTService creates a JWTService signing with the named HMAC algorithm.
func NewJWTService(secret, algorithm string, userExpiry, adminExpiry time.Duration) (JWTService, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not an HMAC method", algorithm)
	}
	return &jwtService{
		secret:      secret,
		method:      method,
		userExpiry:  userExpiry,
		adminExpiry: adminExpiry,
	}, nil
}

func (s *jwtService) GenerateUserToken(userID int64, email string) (string, error) {
	claims := UserClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.userExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(s.method, claims)
	return token.SignedString([]byte(s.secret))
}

func (s *jwtService) GenerateAdminToken(adminID int64, username, role string) (string, error) {
	claims := AdminClaims{
		AdminID: adminID,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.adminExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(s.method, claims)
	return token.SignedString([]byte(s.secret))
}

// ValidateUserToken verifies signature and expiry. Any failure yields
// ErrInvalidToken so callers cannot distinguish which check tripped.
func (s *jwtService) ValidateUserToken(tokenString string) (*UserClaims, error) {
	var claims UserClaims
	if err := s.parse(tokenString, &claims); err != nil {
		return nil, err
	}
	if claims.UserID == 0 || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// ValidateAdminToken verifies signature and expiry and requires the
// admin-specific claims to be present.
func (s *jwtService) ValidateAdminToken(tokenString string) (*AdminClaims, error) {
	var claims AdminClaims
	if err := s.parse(tokenString, &claims); err != nil {
		return nil, err
	}
	if claims.AdminID == 0 || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

func (s *jwtService) parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

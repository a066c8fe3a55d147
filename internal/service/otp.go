package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/amberglobal/identity-service/internal/models"
	"github.com/amberglobal/identity-service/internal/repository"
)

const otpDigits = 6

// OTPService manages the lifecycle of one-time codes: generation,
// validation, single-use consumption, and expiry sweeping.
type OTPService interface {
	Issue(ctx context.Context, email string) (string, error)
	Validate(ctx context.Context, email, code string) (*models.OneTimeCode, error)
	// Consume marks the code used. Must be called at most once per
	// successful verification.
	Consume(ctx context.Context, otp *models.OneTimeCode) error
	Sweep(ctx context.Context) (int64, error)
	// RunSweeper deletes expired codes on the given interval until the
	// context is cancelled. Safe to run alongside live verification:
	// deletion only removes codes that already fail validation.
	RunSweeper(ctx context.Context, interval time.Duration)
}

type otpService struct {
	otps               repository.OTPRepository
	ttl                time.Duration
	invalidatePrevious bool
	now                func() time.Time
}

// NewOTPService creates an OTPService. When invalidatePrevious is set,
// issuing a code retires any outstanding codes for the same email; the
// default behavior tolerates several live codes per email.
func NewOTPService(otps repository.OTPRepository, ttl time.Duration, invalidatePrevious bool) OTPService {
	return &otpService{
		otps:               otps,
		ttl:                ttl,
		invalidatePrevious: invalidatePrevious,
		now:                time.Now,
	}
}

func (s *otpService) Issue(ctx context.Context, email string) (string, error) {
	if s.invalidatePrevious {
		if err := s.otps.MarkUsedForEmail(ctx, email); err != nil {
			return "", err
		}
	}

	code, err := generateCode(otpDigits)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}

	now := s.now()
	otp := &models.OneTimeCode{
		Email:     email,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.otps.Create(ctx, otp); err != nil {
		return "", err
	}
	return code, nil
}

func (s *otpService) Validate(ctx context.Context, email, code string) (*models.OneTimeCode, error) {
	otp, err := s.otps.FindValid(ctx, email, code, s.now())
	if err != nil {
		return nil, ErrInvalidOTP
	}
	return otp, nil
}

func (s *otpService) Consume(ctx context.Context, otp *models.OneTimeCode) error {
	if err := s.otps.MarkUsed(ctx, otp.ID); err != nil {
		return err
	}
	otp.IsUsed = true
	return nil
}

func (s *otpService) Sweep(ctx context.Context) (int64, error) {
	return s.otps.DeleteExpired(ctx, s.now())
}

func (s *otpService) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := s.Sweep(ctx)
			if err != nil {
				log.Printf("otp sweep failed: %v", err)
				continue
			}
			if deleted > 0 {
				log.Printf("otp sweep removed %d expired codes", deleted)
			}
		}
	}
}

// generateCode returns a uniformly random decimal string of the given
// length, zero-padded.
func generateCode(digits int) (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}

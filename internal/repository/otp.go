package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/amberglobal/identity-service/internal/models"
	"gorm.io/gorm"
)

// OTPRepository defines the interface for one-time code storage.
type OTPRepository interface {
	Create(ctx context.Context, otp *models.OneTimeCode) error
	// FindValid returns the newest code matching (email, code) that is
	// unexpired at now and unused, or ErrNotFound.
	FindValid(ctx context.Context, email, code string, now time.Time) (*models.OneTimeCode, error)
	MarkUsed(ctx context.Context, id int64) error
	// MarkUsedForEmail retires every outstanding code for the email.
	MarkUsedForEmail(ctx context.Context, email string) error
	// DeleteExpired removes codes whose expiry is at or before now and
	// reports how many rows went away.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type otpRepository struct {
	db *gorm.DB
}

// NewOTPRepository creates a new OTPRepository instance.
func NewOTPRepository(db *gorm.DB) OTPRepository {
	return &otpRepository{db: db}
}

func (r *otpRepository) Create(ctx context.Context, otp *models.OneTimeCode) error {
	if err := r.db.WithContext(ctx).Create(otp).Error; err != nil {
		return fmt.Errorf("failed to create otp: %w", err)
	}
	return nil
}

func (r *otpRepository) FindValid(ctx context.Context, email, code string, now time.Time) (*models.OneTimeCode, error) {
	var otp models.OneTimeCode
	err := r.db.WithContext(ctx).
		Where("email = ? AND code = ? AND expires_at > ? AND is_used = ?", email, code, now, false).
		Order("id DESC").
		First(&otp).Error
	if err != nil {
		return nil, translateError(err, "find valid otp")
	}
	return &otp, nil
}

func (r *otpRepository) MarkUsed(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).
		Model(&models.OneTimeCode{}).
		Where("id = ?", id).
		Update("is_used", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark otp %d used: %w", id, err)
	}
	return nil
}

func (r *otpRepository) MarkUsedForEmail(ctx context.Context, email string) error {
	err := r.db.WithContext(ctx).
		Model(&models.OneTimeCode{}).
		Where("email = ? AND is_used = ?", email, false).
		Update("is_used", true).Error
	if err != nil {
		return fmt.Errorf("failed to retire otps for %s: %w", email, err)
	}
	return nil
}

func (r *otpRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&models.OneTimeCode{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired otps: %w", result.Error)
	}
	return result.RowsAffected, nil
}

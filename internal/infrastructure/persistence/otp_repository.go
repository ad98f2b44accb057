package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"gorm.io/gorm"
)

// GormOtpRepository implements OtpRepository using GORM
type GormOtpRepository struct {
	db *gorm.DB
}

// NewGormOtpRepository creates a new GormOtpRepository
func NewGormOtpRepository(db *gorm.DB) *GormOtpRepository {
	return &GormOtpRepository{db: db}
}

func (r *GormOtpRepository) Save(ctx context.Context, otp *identity.Otp) error {
	return r.db.WithContext(ctx).Save(otp).Error
}

// FindValid returns the newest unexpired code of a user
func (r *GormOtpRepository) FindValid(ctx context.Context, userID uuid.UUID, code int, now time.Time) (*identity.Otp, error) {
	return findOne[identity.Otp](r.db.WithContext(ctx).
		Where("user_id = ? AND otp = ? AND expire > ?", userID, code, now).
		Order("created_at DESC"))
}

func (r *GormOtpRepository) DeleteForUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&identity.Otp{}).Error
}

// DeleteExpired purges codes that expired before now
func (r *GormOtpRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expire <= ?", now).Delete(&identity.Otp{})
	return res.RowsAffected, res.Error
}

var _ identity.OtpRepository = (*GormOtpRepository)(nil)

package identity

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Default one time password settings
const (
	DefaultOtpDigits = 6
	DefaultOtpTTL    = 5 * time.Minute
)

// Otp is a one time password issued to a user
type Otp struct {
	shared.BaseEntity
	UserID         uuid.UUID `gorm:"type:uuid;not null;index" json:"user"`
	Otp            int       `gorm:"not null" json:"otp"`
	SessionID      *string   `gorm:"type:varchar(128)" json:"session_id"`
	SessionMessage *string   `gorm:"type:text" json:"session_message"`
	Expire         time.Time `gorm:"not null;index" json:"expire"`
}

// TableName returns the table name for GORM
func (Otp) TableName() string {
	return "otps"
}

// NewOtp issues a random code of the given number of digits valid for ttl
func NewOtp(userID uuid.UUID, digits int, ttl time.Duration, now time.Time) (*Otp, error) {
	if digits <= 0 {
		digits = DefaultOtpDigits
	}
	lo := pow10(digits - 1)
	n, err := rand.Int(rand.Reader, big.NewInt(int64(pow10(digits)-lo)))
	if err != nil {
		return nil, shared.WrapDomainError("OTP_GENERATION", "Failed to generate OTP", err)
	}
	session := uuid.NewString()
	return &Otp{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Otp:        lo + int(n.Int64()),
		SessionID:  &session,
		Expire:     now.Add(ttl),
	}, nil
}

// Matches reports whether code is this OTP and it has not expired
func (o *Otp) Matches(code int, now time.Time) bool {
	return o.Otp == code && now.Before(o.Expire)
}

func pow10(n int) int {
	v := 1
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}

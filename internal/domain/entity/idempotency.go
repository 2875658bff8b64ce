package entity

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyKey records the response to a write request so a retried
// submission of the same reservation or invoice is answered from the record.
type IdempotencyKey struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Key          string    `gorm:"size:255;not null;uniqueIndex:idx_idempotency_user_key"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_idempotency_user_key"`
	Endpoint     string    `gorm:"size:255;not null"`
	RequestHash  string    `gorm:"size:64"`
	ResponseCode int       `gorm:"not null"`
	ResponseBody string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsExpired checks if the idempotency key has expired
func (i *IdempotencyKey) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// Matches reports whether a replay targets the same endpoint with the same body.
func (i *IdempotencyKey) Matches(endpoint, requestHash string) bool {
	return i.Endpoint == endpoint && (i.RequestHash == "" || i.RequestHash == requestHash)
}

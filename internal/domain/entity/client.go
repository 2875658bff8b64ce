package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is the company that books and is billed for stays. Its billing
// state code decides whether an invoice is intra- or inter-state.
type Client struct {
	ID               uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name             string         `gorm:"size:255;not null;index" json:"name"`
	GSTIN            *string        `gorm:"size:20;column:gstin" json:"gstin,omitempty"`
	ContactName      *string        `gorm:"size:255" json:"contact_name,omitempty"`
	Phone            *string        `gorm:"size:50" json:"phone,omitempty"`
	Email            *string        `gorm:"size:255" json:"email,omitempty"`
	BillingAddress   *string        `gorm:"type:text" json:"billing_address,omitempty"`
	BillingPincode   *string        `gorm:"size:6" json:"billing_pincode,omitempty"`
	BillingCity      *string        `gorm:"size:100" json:"billing_city,omitempty"`
	BillingState     *string        `gorm:"size:100" json:"billing_state,omitempty"`
	BillingStateCode string         `gorm:"size:2" json:"billing_state_code"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new client
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Client model
func (Client) TableName() string {
	return "clients"
}

package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Host is the owner or operator of one or more properties. The host ledger
// of a reservation is what the host is paid.
type Host struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name          string         `gorm:"size:255;not null;index" json:"name"`
	Phone         *string        `gorm:"size:50" json:"phone,omitempty"`
	Email         *string        `gorm:"size:255" json:"email,omitempty"`
	PAN           *string        `gorm:"size:20;column:pan" json:"pan,omitempty"`
	GSTIN         *string        `gorm:"size:20;column:gstin" json:"gstin,omitempty"`
	Address       *string        `gorm:"type:text" json:"address,omitempty"`
	Pincode       *string        `gorm:"size:6" json:"pincode,omitempty"`
	City          *string        `gorm:"size:100" json:"city,omitempty"`
	State         *string        `gorm:"size:100" json:"state,omitempty"`
	AccountHolder *string        `gorm:"size:255" json:"account_holder,omitempty"`
	AccountNumber *string        `gorm:"size:100" json:"account_number,omitempty"`
	BankName      *string        `gorm:"size:255" json:"bank_name,omitempty"`
	IFSC          *string        `gorm:"size:20;column:ifsc" json:"ifsc,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Properties []Property `gorm:"foreignKey:HostID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new host
func (h *Host) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Host model
func (Host) TableName() string {
	return "hosts"
}

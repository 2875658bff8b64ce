package entity

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Property is a rentable apartment or villa. RoomTypes lists the room names
// that reservations are checked against for availability.
type Property struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	HostID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"host_id"`
	Name            string         `gorm:"size:255;not null;index" json:"name"`
	Code            string         `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Address         *string        `gorm:"type:text" json:"address,omitempty"`
	Pincode         *string        `gorm:"size:6" json:"pincode,omitempty"`
	City            *string        `gorm:"size:100" json:"city,omitempty"`
	State           *string        `gorm:"size:100" json:"state,omitempty"`
	StateCode       string         `gorm:"size:2" json:"state_code"`
	RoomTypes       datatypes.JSON `gorm:"type:jsonb" json:"room_types"`
	DefaultCheckIn  string         `gorm:"size:5;default:'14:00'" json:"default_check_in"`
	DefaultCheckOut string         `gorm:"size:5;default:'11:00'" json:"default_check_out"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Host *Host `gorm:"foreignKey:HostID" json:"host,omitempty"`
}

// BeforeCreate generates a UUID before creating a new property
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Property model
func (Property) TableName() string {
	return "properties"
}

// RoomTypeList decodes RoomTypes. Malformed JSON yields an empty list.
func (p *Property) RoomTypeList() []string {
	var out []string
	if len(p.RoomTypes) == 0 {
		return []string{}
	}
	if err := json.Unmarshal(p.RoomTypes, &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

// SetRoomTypes stores the list as JSON.
func (p *Property) SetRoomTypes(roomTypes []string) {
	if roomTypes == nil {
		roomTypes = []string{}
	}
	raw, _ := json.Marshal(roomTypes)
	p.RoomTypes = datatypes.JSON(raw)
}

// HasRoomType reports whether the property offers roomType, ignoring case.
func (p *Property) HasRoomType(roomType string) bool {
	roomType = strings.TrimSpace(roomType)
	for _, rt := range p.RoomTypeList() {
		if strings.EqualFold(strings.TrimSpace(rt), roomType) {
			return true
		}
	}
	return false
}

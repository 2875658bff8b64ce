package entity

// Pincode is a postal code directory entry used to autofill city and state.
type Pincode struct {
	Code      string `gorm:"size:6;primaryKey" json:"code"`
	City      string `gorm:"size:100;not null;index" json:"city"`
	District  string `gorm:"size:100" json:"district"`
	State     string `gorm:"size:100;not null" json:"state"`
	StateCode string `gorm:"size:2;not null" json:"state_code"`
}

// TableName returns the table name for the Pincode model
func (Pincode) TableName() string {
	return "pincodes"
}

package request

import (
	"github.com/google/uuid"
	"github.com/sangkips/stayledger-api/internal/application/service"
)

// HostRequest represents a host create or update request
type HostRequest struct {
	Name          string  `json:"name" binding:"required,max=255"`
	Phone         *string `json:"phone" binding:"omitempty,max=50"`
	Email         *string `json:"email" binding:"omitempty,max=255"`
	PAN           *string `json:"pan"`
	GSTIN         *string `json:"gstin"`
	Address       *string `json:"address"`
	Pincode       *string `json:"pincode"`
	City          *string `json:"city"`
	State         *string `json:"state"`
	AccountHolder *string `json:"account_holder"`
	AccountNumber *string `json:"account_number"`
	BankName      *string `json:"bank_name"`
	IFSC          *string `json:"ifsc"`
}

// ToInput converts the request into service input
func (r *HostRequest) ToInput() *service.HostInput {
	return &service.HostInput{
		Name:          r.Name,
		Phone:         r.Phone,
		Email:         r.Email,
		PAN:           r.PAN,
		GSTIN:         r.GSTIN,
		Address:       r.Address,
		Pincode:       r.Pincode,
		City:          r.City,
		State:         r.State,
		AccountHolder: r.AccountHolder,
		AccountNumber: r.AccountNumber,
		BankName:      r.BankName,
		IFSC:          r.IFSC,
	}
}

// PropertyRequest represents a property create or update request
type PropertyRequest struct {
	HostID          uuid.UUID `json:"host_id" binding:"required"`
	Name            string    `json:"name" binding:"required,max=255"`
	Code            string    `json:"code" binding:"required,max=50"`
	Address         *string   `json:"address"`
	Pincode         *string   `json:"pincode"`
	City            *string   `json:"city"`
	State           *string   `json:"state"`
	StateCode       string    `json:"state_code" binding:"omitempty,len=2"`
	RoomTypes       []string  `json:"room_types"`
	DefaultCheckIn  string    `json:"default_check_in"`
	DefaultCheckOut string    `json:"default_check_out"`
}

// ToInput converts the request into service input
func (r *PropertyRequest) ToInput() *service.PropertyInput {
	return &service.PropertyInput{
		HostID:          r.HostID,
		Name:            r.Name,
		Code:            r.Code,
		Address:         r.Address,
		Pincode:         r.Pincode,
		City:            r.City,
		State:           r.State,
		StateCode:       r.StateCode,
		RoomTypes:       r.RoomTypes,
		DefaultCheckIn:  r.DefaultCheckIn,
		DefaultCheckOut: r.DefaultCheckOut,
	}
}

// ClientRequest represents a client create or update request
type ClientRequest struct {
	Name             string  `json:"name" binding:"required,max=255"`
	GSTIN            *string `json:"gstin"`
	ContactName      *string `json:"contact_name"`
	Phone            *string `json:"phone"`
	Email            *string `json:"email"`
	BillingAddress   *string `json:"billing_address"`
	BillingPincode   *string `json:"billing_pincode"`
	BillingCity      *string `json:"billing_city"`
	BillingState     *string `json:"billing_state"`
	BillingStateCode string  `json:"billing_state_code" binding:"omitempty,len=2"`
}

// ToInput converts the request into service input
func (r *ClientRequest) ToInput() *service.ClientInput {
	return &service.ClientInput{
		Name:             r.Name,
		GSTIN:            r.GSTIN,
		ContactName:      r.ContactName,
		Phone:            r.Phone,
		Email:            r.Email,
		BillingAddress:   r.BillingAddress,
		BillingPincode:   r.BillingPincode,
		BillingCity:      r.BillingCity,
		BillingState:     r.BillingState,
		BillingStateCode: r.BillingStateCode,
	}
}

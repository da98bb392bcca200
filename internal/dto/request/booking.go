package request

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FlexString accepts a JSON string or number. The party size arrives as either.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// ConfirmBookingRequest is the booking form. Field order is the order
// missing fields are reported in.
type ConfirmBookingRequest struct {
	CustomerName    string     `json:"customerName" validate:"required,personname"`
	CustomerPhone   string     `json:"customerPhone" validate:"required,vnphone"`
	CustomerEmail   string     `json:"customerEmail" validate:"omitempty,looseemail"`
	Service         string     `json:"service"`
	BranchName      string     `json:"branchName" validate:"required"`
	BranchAddress   string     `json:"branchAddress"`
	BookingDate     string     `json:"bookingDate" validate:"required"`
	BookingTime     string     `json:"bookingTime" validate:"required"`
	BookingCustomer FlexString `json:"bookingCustomer"`
	TargetTab       string     `json:"targetTab"`
}

// Normalize trims surrounding whitespace so blank values count as missing.
func (r *ConfirmBookingRequest) Normalize() {
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	r.CustomerPhone = strings.TrimSpace(r.CustomerPhone)
	r.CustomerEmail = strings.TrimSpace(r.CustomerEmail)
	r.Service = strings.TrimSpace(r.Service)
	r.BranchName = strings.TrimSpace(r.BranchName)
	r.BranchAddress = strings.TrimSpace(r.BranchAddress)
	r.BookingDate = strings.TrimSpace(r.BookingDate)
	r.BookingTime = strings.TrimSpace(r.BookingTime)
	r.BookingCustomer = FlexString(strings.TrimSpace(string(r.BookingCustomer)))
	r.TargetTab = strings.TrimSpace(r.TargetTab)
}

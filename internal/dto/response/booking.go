package response

import (
	"branch-locator/internal/data/entity"
)

// BookingConfirmResponse is returned for every booking that passed validation,
// whatever the channels did with it.
type BookingConfirmResponse struct {
	Success       bool                `json:"success"`
	BookingID     string              `json:"bookingId"`
	EmailDetails  entity.EmailDetails `json:"emailDetails"`
	SheetsDetails entity.RelayDetails `json:"sheetsDetails"`
	GasDetails    entity.RelayDetails `json:"gasDetails"`
	ZaloDetails   entity.ChatDetails  `json:"zaloDetails"`
}

type ValidationErrorResponse struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Kind    string   `json:"kind"`
	Fields  []string `json:"fields"`
}

// ErrorResponse is the flat error shape used by the booking and diagnostic endpoints.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

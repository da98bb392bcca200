package entity

import (
	"time"
)

const (
	DefaultPartySize    = "1"
	DefaultServiceLabel = "(Chưa chọn)"
)

// Booking is an accepted booking request. It lives for one HTTP request and is
// only forwarded to the notification channels.
type Booking struct {
	ID              string
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	Service         string
	BranchName      string
	BranchAddress   string
	BookingDate     string
	BookingTime     string
	BookingCustomer string
	TargetTab       string
	SubmittedAt     time.Time
}

func (b *Booking) PartySize() string {
	if b.BookingCustomer == "" {
		return DefaultPartySize
	}
	return b.BookingCustomer
}

func (b *Booking) ServiceLabel() string {
	if b.Service == "" {
		return DefaultServiceLabel
	}
	return b.Service
}

func (b *Booking) HasEmail() bool {
	return b.CustomerEmail != ""
}

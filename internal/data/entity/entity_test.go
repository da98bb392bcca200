package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenCacheState(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		cache *TokenCache
		want  TokenState
	}{
		{"nil cache", nil, TokenStateNone},
		{"empty access token", &TokenCache{ExpiresAt: now.Add(24 * time.Hour).UnixMilli()}, TokenStateNone},
		{"fresh", &TokenCache{AccessToken: "a", ExpiresAt: now.Add(2 * time.Hour).UnixMilli()}, TokenStateValid},
		{"within buffer", &TokenCache{AccessToken: "a", ExpiresAt: now.Add(30 * time.Minute).UnixMilli()}, TokenStateExpiringSoon},
		{"exactly at buffer", &TokenCache{AccessToken: "a", ExpiresAt: now.Add(time.Hour).UnixMilli()}, TokenStateExpiringSoon},
		{"expired", &TokenCache{AccessToken: "a", ExpiresAt: now.Add(-time.Minute).UnixMilli()}, TokenStateExpiringSoon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cache.State(now))
		})
	}
}

func TestBranchOpeningHours(t *testing.T) {
	tests := []struct {
		hours       string
		open, close int
		ok          bool
	}{
		{"10:00 - 22:00", 600, 1320, true},
		{"9:30 - 21:30", 570, 1290, true},
		{"8:00 - 00:00", 480, 1440, true},
		{"22:00 - 02:00", 1320, 1560, true},
		{"Mở cả ngày", 0, 0, false},
		{"10:75 - 22:00", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.hours, func(t *testing.T) {
			b := Branch{Hours: tt.hours}
			open, close, ok := b.OpeningHours()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.open, open)
			assert.Equal(t, tt.close, close)
		})
	}
}

func TestBranchHasService(t *testing.T) {
	b := Branch{Services: []string{"Tư vấn", "Rửa mặt"}}
	assert.True(t, b.HasService("tư vấn"))
	assert.False(t, b.HasService("Mỹ phẩm"))
}

func TestBookingDefaults(t *testing.T) {
	b := Booking{}
	assert.Equal(t, "1", b.PartySize())
	assert.Equal(t, "(Chưa chọn)", b.ServiceLabel())
	assert.False(t, b.HasEmail())

	b = Booking{BookingCustomer: "3", Service: "Rửa mặt", CustomerEmail: "a@b.co"}
	assert.Equal(t, "3", b.PartySize())
	assert.Equal(t, "Rửa mặt", b.ServiceLabel())
	assert.True(t, b.HasEmail())
}

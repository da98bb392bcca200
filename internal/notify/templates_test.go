package notify

import (
	"strings"
	"testing"
	"time"

	"branch-locator/internal/data/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingEmail(t *testing.T) {
	b := sampleBooking()
	b.CustomerName = "<script>x</script>"

	msg, err := BookingEmail(b)
	require.NoError(t, err)

	assert.Equal(t, "Xác nhận đặt lịch - Vincom Center Bà Triệu", msg.Subject)
	assert.Contains(t, msg.Body, "Số khách: 2")
	assert.Contains(t, msg.Body, b.ID)
	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.HTML, "&lt;script&gt;")
}

func TestBookingEmail_Defaults(t *testing.T) {
	b := sampleBooking()
	b.Service = ""
	b.BookingCustomer = ""

	msg, err := BookingEmail(b)
	require.NoError(t, err)
	assert.Contains(t, msg.Body, "Dịch vụ: (Chưa chọn)")
	assert.Contains(t, msg.Body, "Số khách: 1")
}

func TestChatText(t *testing.T) {
	b := sampleBooking()
	text := ChatText(b)
	assert.True(t, strings.HasPrefix(text, "Đơn đặt lịch mới\n"))
	assert.Contains(t, text, "Email: an@example.com")
	assert.Contains(t, text, "Thời gian: 2025-10-21 10:30")

	b.CustomerEmail = ""
	b.BranchAddress = ""
	text = ChatText(b)
	assert.NotContains(t, text, "Email:")
	assert.NotContains(t, text, "Đ/c:")
}

func TestTokenAlertEmail(t *testing.T) {
	now := time.Date(2025, 10, 20, 3, 0, 0, 0, time.UTC)
	alert := TokenAlert{
		Cache:   entity.TokenCache{AccessToken: "acc", RefreshToken: "ref", ExpiresAt: now.Add(25 * time.Hour).UnixMilli()},
		Store:   "redis",
		Trigger: "diagnostic",
		Now:     now,
	}

	assert.Equal(t, "25.0", alert.ExpiresInHours())
	assert.Equal(t, "11:00:00 21/10/2025", alert.ExpiresAtLocal())

	msg, err := TokenAlertEmail(alert)
	require.NoError(t, err)
	assert.Contains(t, msg.Body, "Refresh Token: ref")
	assert.Contains(t, msg.Body, "Cần cập nhật thủ công")
	assert.Contains(t, msg.Body, "TEST MODE")

	alert.Persisted = true
	alert.Trigger = "auto"
	msg, err = TokenAlertEmail(alert)
	require.NoError(t, err)
	assert.Contains(t, msg.HTML, "Token đã được tự động lưu (redis)")
	assert.NotContains(t, msg.HTML, "TEST MODE")
}

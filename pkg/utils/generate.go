package utils

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// ==================== UUID ====================

func GenerateUUIDString() string {
	return uuid.New().String()
}

// ==================== BOOKING ID ====================

// GenerateBookingID formats BOOK-YYYYMMDD-HHMMSS-NNNN using the given wall time.
func GenerateBookingID(now time.Time) string {
	datePart := now.Format("20060102")
	timePart := now.Format("150405")
	randomPart := fmt.Sprintf("%04d", rand.IntN(10000))

	return fmt.Sprintf("BOOK-%s-%s-%s", datePart, timePart, randomPart)
}

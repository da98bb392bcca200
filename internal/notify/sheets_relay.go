package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"branch-locator/internal/data/entity"

	"go.uber.org/zap"
)

const DefaultSheetTab = "List 20_10"

// relayAck is the optional acknowledgement returned by the Apps Script.
type relayAck struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
	Tab     string `json:"tab"`
}

// SheetsRelay forwards bookings to an Apps Script web app as a fixed 8-element array.
type SheetsRelay struct {
	url        string
	defaultTab string
	http       *http.Client
	log        *zap.Logger
}

func NewSheetsRelay(webAppURL, defaultTab string, httpClient *http.Client, log *zap.Logger) *SheetsRelay {
	if defaultTab == "" {
		defaultTab = DefaultSheetTab
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &SheetsRelay{
		url:        webAppURL,
		defaultTab: defaultTab,
		http:       httpClient,
		log:        log.With(zap.String("service", "sheets_relay")),
	}
}

func (r *SheetsRelay) Configured() bool { return r.url != "" }

// TabFor returns the requested tab or the default one.
func (r *SheetsRelay) TabFor(b *entity.Booking) string {
	if b.TargetTab != "" {
		return b.TargetTab
	}
	return r.defaultTab
}

// Payload is [branch, name, phone, email, date, time, party size, tab].
func (r *SheetsRelay) Payload(b *entity.Booking) []string {
	return []string{
		sanitizeCell(b.BranchName),
		sanitizeCell(b.CustomerName),
		b.CustomerPhone,
		sanitizeCell(b.CustomerEmail),
		sanitizeCell(b.BookingDate),
		sanitizeCell(b.BookingTime),
		sanitizeCell(b.BookingCustomer),
		r.TabFor(b),
	}
}

func (r *SheetsRelay) Relay(ctx context.Context, b *entity.Booking) entity.RelayDetails {
	if !r.Configured() {
		return entity.RelayDetails{Attempted: false}
	}

	details := entity.RelayDetails{Attempted: true, Tab: r.TabFor(b)}

	raw, err := json.Marshal(r.Payload(b))
	if err != nil {
		details.Error = err.Error()
		return details
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(raw))
	if err != nil {
		details.Error = err.Error()
		return details
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		r.log.Warn("Sheets relay request failed", zap.String("booking_id", b.ID), zap.Error(err))
		details.Error = err.Error()
		return details
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		r.log.Warn("Sheets relay response unreadable", zap.String("booking_id", b.ID), zap.Error(err))
		details.Error = "read response: " + err.Error()
		return details
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		r.log.Warn("Sheets relay returned error status", zap.String("booking_id", b.ID), zap.Int("status", resp.StatusCode))
		details.Error = fmt.Sprintf("HTTP %d", resp.StatusCode)
		return details
	}

	var ack relayAck
	if err := json.Unmarshal(body, &ack); err == nil {
		details.Message = ack.Message
		if ack.Tab != "" {
			details.Tab = ack.Tab
		}
		if ack.Success != nil && !*ack.Success {
			details.Error = ack.Error
			if details.Error == "" {
				details.Error = "Apps Script reported failure"
			}
			return details
		}
	}

	details.Success = true
	return details
}

package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"branch-locator/internal/data/entity"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const msgSheetsNotConfigured = "Google Sheets API not configured"

// SheetHeader is written to a freshly created tab.
var SheetHeader = []any{"Chi nhánh", "Tên khách hàng", "SĐT", "Email", "Ngày", "Giờ", "Số khách", "Thời gian"}

// SpreadsheetAPI is the subset of the Sheets API used for booking rows.
type SpreadsheetAPI interface {
	TabTitles(ctx context.Context, spreadsheetID string) ([]string, error)
	AddTab(ctx context.Context, spreadsheetID, title string) error
	Append(ctx context.Context, spreadsheetID, a1Range string, rows [][]any) error
}

type googleSheets struct {
	srv *sheets.Service
}

// NewGoogleSheets authenticates with a service account JSON document.
func NewGoogleSheets(ctx context.Context, credentialsJSON string, opts ...option.ClientOption) (SpreadsheetAPI, error) {
	opts = append([]option.ClientOption{
		option.WithCredentialsJSON([]byte(credentialsJSON)),
		option.WithScopes(sheets.SpreadsheetsScope),
	}, opts...)
	return newGoogleSheets(ctx, opts...)
}

func newGoogleSheets(ctx context.Context, opts ...option.ClientOption) (SpreadsheetAPI, error) {
	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &googleSheets{srv: srv}, nil
}

func (g *googleSheets) TabTitles(ctx context.Context, spreadsheetID string) ([]string, error) {
	ss, err := g.srv.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(ss.Sheets))
	for _, s := range ss.Sheets {
		if s.Properties != nil {
			titles = append(titles, s.Properties.Title)
		}
	}
	return titles, nil
}

func (g *googleSheets) AddTab(ctx context.Context, spreadsheetID, title string) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: title}},
		}},
	}
	_, err := g.srv.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do()
	return err
}

func (g *googleSheets) Append(ctx context.Context, spreadsheetID, a1Range string, rows [][]any) error {
	_, err := g.srv.Spreadsheets.Values.Append(spreadsheetID, a1Range, &sheets.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

// SheetsWriter appends booking rows directly through the Sheets API.
type SheetsWriter struct {
	api           SpreadsheetAPI
	spreadsheetID string
	defaultTab    string
	now           func() time.Time
	log           *zap.Logger
}

// NewSheetsWriter is disabled when api is nil.
func NewSheetsWriter(api SpreadsheetAPI, spreadsheetID, defaultTab string, now func() time.Time, log *zap.Logger) *SheetsWriter {
	if defaultTab == "" {
		defaultTab = DefaultSheetTab
	}
	if now == nil {
		now = time.Now
	}
	return &SheetsWriter{
		api:           api,
		spreadsheetID: spreadsheetID,
		defaultTab:    defaultTab,
		now:           now,
		log:           log.With(zap.String("service", "sheets_api")),
	}
}

func (w *SheetsWriter) Configured() bool { return w.api != nil && w.spreadsheetID != "" }

// Row is [branch, name, 'phone, email, date, time, guests, timestamp]. The
// apostrophe keeps the leading zero of the phone number.
func (w *SheetsWriter) Row(b *entity.Booking) []any {
	stamp := w.now().In(vietnamTZ).Format("02/01/2006 15:04:05")
	return []any{
		sanitizeCell(b.BranchName),
		sanitizeCell(b.CustomerName),
		"'" + b.CustomerPhone,
		sanitizeCell(b.CustomerEmail),
		sanitizeCell(b.BookingDate),
		sanitizeCell(b.BookingTime),
		sanitizeCell(b.PartySize()),
		stamp,
	}
}

// sanitizeCell stops customer text from being parsed as a formula when the
// sheet evaluates input as typed.
func sanitizeCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@':
		return "'" + s
	}
	return s
}

func (w *SheetsWriter) Write(ctx context.Context, b *entity.Booking) entity.RelayDetails {
	if !w.Configured() {
		return entity.RelayDetails{Attempted: false, Error: msgSheetsNotConfigured}
	}

	tab := b.TargetTab
	if tab == "" {
		tab = w.defaultTab
	}
	details := entity.RelayDetails{Attempted: true, Tab: tab}

	titles, err := w.api.TabTitles(ctx, w.spreadsheetID)
	if err != nil {
		w.log.Warn("Failed to list sheet tabs", zap.Error(err))
		details.Error = err.Error()
		return details
	}

	if !containsString(titles, tab) {
		if err := w.api.AddTab(ctx, w.spreadsheetID, tab); err != nil {
			w.log.Warn("Failed to create sheet tab", zap.String("tab", tab), zap.Error(err))
			details.Error = err.Error()
			return details
		}
		if err := w.api.Append(ctx, w.spreadsheetID, tabRange(tab), [][]any{SheetHeader}); err != nil {
			details.Error = err.Error()
			return details
		}
		details.Message = "created tab " + tab
	}

	if err := w.api.Append(ctx, w.spreadsheetID, tabRange(tab), [][]any{w.Row(b)}); err != nil {
		w.log.Warn("Failed to append booking row", zap.String("booking_id", b.ID), zap.Error(err))
		details.Error = err.Error()
		return details
	}

	details.Success = true
	return details
}

// tabRange quotes a tab title for A1 notation.
func tabRange(tab string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'!A:H"
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

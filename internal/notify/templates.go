package notify

import (
	"bytes"
	htmltemplate "html/template"
	"strconv"
	"strings"
	texttemplate "text/template"
	"time"

	"branch-locator/internal/data/entity"
)

var vietnamTZ = loadVietnamTZ()

func loadVietnamTZ() *time.Location {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		return time.FixedZone("ICT", 7*60*60)
	}
	return loc
}

var bookingText = texttemplate.Must(texttemplate.New("booking_text").Parse(
	`Khách hàng: {{.CustomerName}}
Điện thoại: {{.CustomerPhone}}
Email: {{.CustomerEmail}}
Dịch vụ: {{.ServiceLabel}}
Chi nhánh: {{.BranchName}}
Địa chỉ: {{.BranchAddress}}
Ngày: {{.BookingDate}}
Giờ: {{.BookingTime}}
Số khách: {{.PartySize}}
Mã đặt lịch: {{.ID}}`))

var bookingHTML = htmltemplate.Must(htmltemplate.New("booking_html").Parse(`
<h2>Xác nhận đặt lịch</h2>
<p><strong>Khách hàng:</strong> {{.CustomerName}}</p>
<p><strong>Điện thoại:</strong> {{.CustomerPhone}}</p>
<p><strong>Email:</strong> {{.CustomerEmail}}</p>
<p><strong>Dịch vụ:</strong> {{.ServiceLabel}}</p>
<p><strong>Chi nhánh:</strong> {{.BranchName}}</p>
<p><strong>Địa chỉ:</strong> {{.BranchAddress}}</p>
<p><strong>Ngày:</strong> {{.BookingDate}}</p>
<p><strong>Giờ:</strong> {{.BookingTime}}</p>
<p><strong>Số khách:</strong> {{.PartySize}}</p>
<p style="color:#6b7280;font-size:12px;">Mã đặt lịch: {{.ID}}</p>
`))

// BookingSubject is shared by the customer and business copies.
func BookingSubject(b *entity.Booking) string {
	return "Xác nhận đặt lịch - " + b.BranchName
}

func BookingEmail(b *entity.Booking) (EmailMessage, error) {
	var text, html bytes.Buffer
	if err := bookingText.Execute(&text, b); err != nil {
		return EmailMessage{}, err
	}
	if err := bookingHTML.Execute(&html, b); err != nil {
		return EmailMessage{}, err
	}
	return EmailMessage{
		Subject: BookingSubject(b),
		Body:    text.String(),
		HTML:    html.String(),
	}, nil
}

// ChatText is the admin notification sent through the OA.
func ChatText(b *entity.Booking) string {
	var sb strings.Builder
	sb.WriteString("Đơn đặt lịch mới\n")
	sb.WriteString("————————————\n")
	sb.WriteString("Khách: " + b.CustomerName + "\n")
	sb.WriteString("SĐT: " + b.CustomerPhone)
	if b.CustomerEmail != "" {
		sb.WriteString("\nEmail: " + b.CustomerEmail)
	}
	sb.WriteString("\n")
	sb.WriteString("Dịch vụ: " + b.ServiceLabel() + "\n")
	sb.WriteString("Chi nhánh: " + b.BranchName)
	if b.BranchAddress != "" {
		sb.WriteString("\nĐ/c: " + b.BranchAddress)
	}
	sb.WriteString("\n")
	sb.WriteString("Thời gian: " + b.BookingDate + " " + b.BookingTime + "\n")
	sb.WriteString("Số khách: " + b.PartySize())
	return sb.String()
}

// TokenAlert describes a refreshed chat token for the operator email.
type TokenAlert struct {
	Cache     entity.TokenCache
	Persisted bool
	Store     string
	Trigger   string // "auto" or "diagnostic"
	Now       time.Time
}

func (a TokenAlert) ExpiresInHours() string {
	hours := float64(a.Cache.ExpiresAt-a.Now.UnixMilli()) / float64(time.Hour/time.Millisecond)
	return strconv.FormatFloat(hours, 'f', 1, 64)
}

func (a TokenAlert) ExpiresAtLocal() string {
	return time.UnixMilli(a.Cache.ExpiresAt).In(vietnamTZ).Format("15:04:05 02/01/2006")
}

func (a TokenAlert) Diagnostic() bool { return a.Trigger == "diagnostic" }

var tokenAlertText = texttemplate.Must(texttemplate.New("token_text").Parse(
	`Zalo OA Token Refreshed

Access Token: {{.Cache.AccessToken}}
{{if .Cache.RefreshToken}}Refresh Token: {{.Cache.RefreshToken}}
{{end}}Expires in: {{.ExpiresInHours}} hours
Expires at: {{.ExpiresAtLocal}}

{{if .Persisted}}Token đã được tự động lưu ({{.Store}}).{{else}}Cần cập nhật thủ công ZALO_OA_ACCESS_TOKEN và ZALO_OA_REFRESH_TOKEN trong environment variables.{{end}}
{{if .Diagnostic}}
TEST MODE: email gửi từ endpoint /zalo/test-refresh{{end}}`))

var tokenAlertHTML = htmltemplate.Must(htmltemplate.New("token_html").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2563eb;">Zalo OA Access Token đã được làm mới</h2>
  <p>Hệ thống đã tự động refresh token Zalo OA của bạn.</p>
  {{if .Persisted}}
  <div style="background: #d1fae5; border-left: 4px solid #10b981; padding: 12px; margin: 20px 0;">
    <p style="margin: 0;"><strong>Token đã được tự động lưu ({{.Store}})</strong></p>
  </div>
  {{else}}
  <div style="background: #fef3c7; border-left: 4px solid #f59e0b; padding: 12px; margin: 20px 0;">
    <p style="margin: 0;"><strong>Cần cập nhật thủ công trong Production!</strong></p>
  </div>
  {{end}}
  <h3>Token mới:</h3>
  <p><strong>Access Token:</strong></p>
  <code style="display: block; word-break: break-all; font-size: 12px;">{{.Cache.AccessToken}}</code>
  {{if .Cache.RefreshToken}}
  <p><strong>Refresh Token (mới):</strong></p>
  <code style="display: block; word-break: break-all; font-size: 12px;">{{.Cache.RefreshToken}}</code>
  {{end}}
  <div style="background: #eff6ff; border-left: 4px solid #3b82f6; padding: 12px; margin: 20px 0;">
    <p style="margin: 0;"><strong>Hết hạn sau:</strong> {{.ExpiresInHours}} giờ</p>
    <p style="margin: 8px 0 0 0;"><strong>Hết hạn vào:</strong> {{.ExpiresAtLocal}}</p>
  </div>
  {{if not .Persisted}}
  <h3>Cách cập nhật:</h3>
  <ol style="line-height: 1.8;">
    <li>Cập nhật <code>ZALO_OA_ACCESS_TOKEN</code> và <code>ZALO_OA_REFRESH_TOKEN</code> trên hosting platform</li>
    <li>Local: cập nhật file <code>.env</code></li>
  </ol>
  <p><strong>Lưu ý:</strong> Token cũ sẽ không hoạt động sau ~25 giờ.</p>
  {{end}}
  {{if .Diagnostic}}<p style="color: #10b981; font-size: 12px;"><strong>TEST MODE:</strong> email gửi từ endpoint /zalo/test-refresh</p>{{end}}
</div>
`))

const tokenAlertSubject = "Zalo OA Token đã được làm mới tự động"

func TokenAlertEmail(a TokenAlert) (EmailMessage, error) {
	var text, html bytes.Buffer
	if err := tokenAlertText.Execute(&text, a); err != nil {
		return EmailMessage{}, err
	}
	if err := tokenAlertHTML.Execute(&html, a); err != nil {
		return EmailMessage{}, err
	}
	return EmailMessage{Subject: tokenAlertSubject, Body: text.String(), HTML: html.String()}, nil
}

const testEmailSubject = "Test Email from Production"

func TestEmail(now time.Time) EmailMessage {
	stamp := now.In(vietnamTZ).Format("15:04:05 02/01/2006")
	return EmailMessage{
		Subject: testEmailSubject,
		Body:    "This is a test email from your production server.",
		HTML: "<h2>Test Email</h2>" +
			"<p>This is a test email from your production server.</p>" +
			"<p>If you receive this, email configuration is working correctly!</p>" +
			"<p><strong>Time:</strong> " + stamp + "</p>",
	}
}

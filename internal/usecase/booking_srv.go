package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"branch-locator/internal/data/entity"
	"branch-locator/internal/data/repository"
	"branch-locator/internal/dto/request"
	"branch-locator/internal/dto/response"
	"branch-locator/pkg/clock"
	"branch-locator/pkg/fanout"
	"branch-locator/pkg/metrics"
	"branch-locator/pkg/utils"

	"go.uber.org/zap"
)

type ValidationKind string

const (
	MissingField ValidationKind = "MissingField"
	InvalidName  ValidationKind = "InvalidName"
	InvalidPhone ValidationKind = "InvalidPhone"
	InvalidEmail ValidationKind = "InvalidEmail"
)

const (
	msgInvalidName  = "Tên khách hàng phải có ít nhất 2 ký tự và không chứa số"
	msgInvalidPhone = "Số điện thoại không đúng định dạng Việt Nam (10 số, bắt đầu bằng 03/05/07/08/09)"
	msgInvalidEmail = "Email không đúng định dạng"
)

// ValidationError rejects a booking before any channel is touched.
type ValidationError struct {
	Kind    ValidationKind
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Channel names used in logs and metrics.
const (
	ChannelEmail  = "email"
	ChannelRelay  = "gas"
	ChannelSheets = "sheets"
	ChannelChat   = "zalo"
)

type EmailChannel interface {
	Configured() bool
	NotifyBooking(ctx context.Context, b *entity.Booking) entity.EmailDetails
}

type RelayChannel interface {
	Configured() bool
	Relay(ctx context.Context, b *entity.Booking) entity.RelayDetails
}

type SheetsChannel interface {
	Configured() bool
	Write(ctx context.Context, b *entity.Booking) entity.RelayDetails
}

type ChatChannel interface {
	Configured() bool
	NotifyAdmins(ctx context.Context, b *entity.Booking) entity.ChatDetails
}

// Channels groups the notification fan-out targets of a booking.
type Channels struct {
	Email  EmailChannel
	Relay  RelayChannel
	Sheets SheetsChannel
	Chat   ChatChannel
}

type BookingService interface {
	Confirm(ctx context.Context, req *request.ConfirmBookingRequest) (*response.BookingConfirmResponse, error)
}

type bookingService struct {
	channels Channels
	branches repository.BranchRepository
	clock    clock.Clock
	metrics  *metrics.BookingMetrics
	log      *zap.Logger
}

// NewBookingService builds the booking flow. branches may be nil; it is only
// used to fill in a missing branch address.
func NewBookingService(channels Channels, branches repository.BranchRepository, clk clock.Clock, m *metrics.BookingMetrics, log *zap.Logger) BookingService {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &bookingService{
		channels: channels,
		branches: branches,
		clock:    clk,
		metrics:  m,
		log:      log.With(zap.String("service", "booking")),
	}
}

// ValidateBooking applies the rules in a fixed order: missing fields, name, phone, email.
func ValidateBooking(req *request.ConfirmBookingRequest) *ValidationError {
	fieldErrors := utils.ValidateStructOrdered(req)
	if len(fieldErrors) == 0 {
		return nil
	}

	var missing []string
	failed := map[string]bool{}
	for _, fe := range fieldErrors {
		if fe.Tag == "required" {
			missing = append(missing, fe.Field)
			continue
		}
		failed[fe.Tag] = true
	}

	switch {
	case len(missing) > 0:
		return &ValidationError{
			Kind:    MissingField,
			Fields:  missing,
			Message: "Missing required fields: " + strings.Join(missing, ", "),
		}
	case failed["personname"]:
		return &ValidationError{Kind: InvalidName, Fields: []string{"customerName"}, Message: msgInvalidName}
	case failed["vnphone"]:
		return &ValidationError{Kind: InvalidPhone, Fields: []string{"customerPhone"}, Message: msgInvalidPhone}
	case failed["looseemail"]:
		return &ValidationError{Kind: InvalidEmail, Fields: []string{"customerEmail"}, Message: msgInvalidEmail}
	default:
		fields := make([]string, 0, len(fieldErrors))
		for _, fe := range fieldErrors {
			fields = append(fields, fe.Field)
		}
		return &ValidationError{Kind: MissingField, Fields: fields, Message: utils.FormatValidationErrors(fieldErrors)}
	}
}

func (s *bookingService) Confirm(ctx context.Context, req *request.ConfirmBookingRequest) (*response.BookingConfirmResponse, error) {
	req.Normalize()
	if verr := ValidateBooking(req); verr != nil {
		s.metrics.ObserveBooking("rejected")
		s.log.Warn("Booking validation failed", zap.String("kind", string(verr.Kind)), zap.Strings("fields", verr.Fields))
		return nil, verr
	}

	now := s.clock.Now()
	booking := &entity.Booking{
		ID:              utils.GenerateBookingID(now),
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		Service:         req.Service,
		BranchName:      req.BranchName,
		BranchAddress:   req.BranchAddress,
		BookingDate:     req.BookingDate,
		BookingTime:     req.BookingTime,
		BookingCustomer: string(req.BookingCustomer),
		TargetTab:       req.TargetTab,
		SubmittedAt:     now,
	}

	if booking.BranchAddress == "" && s.branches != nil {
		if b, err := s.branches.FindByName(ctx, booking.BranchName); err == nil && b != nil {
			booking.BranchAddress = b.Address
		}
	}

	clientIP, _ := utils.GetClientIP(ctx)
	s.log.Info("Booking accepted",
		zap.String("booking_id", booking.ID),
		zap.String("client_ip", clientIP),
		zap.String("branch", booking.BranchName),
		zap.String("date", booking.BookingDate),
		zap.String("time", booking.BookingTime),
	)

	resp := &response.BookingConfirmResponse{Success: true, BookingID: booking.ID}

	outcomes := fanout.Settle(ctx,
		fanout.Task{Name: ChannelEmail, Run: func(ctx context.Context) error {
			resp.EmailDetails = s.channels.Email.NotifyBooking(ctx, booking)
			return emailErr(resp.EmailDetails)
		}},
		fanout.Task{Name: ChannelRelay, Run: func(ctx context.Context) error {
			resp.GasDetails = s.channels.Relay.Relay(ctx, booking)
			return relayErr(resp.GasDetails)
		}},
		fanout.Task{Name: ChannelSheets, Run: func(ctx context.Context) error {
			resp.SheetsDetails = s.channels.Sheets.Write(ctx, booking)
			return relayErr(resp.SheetsDetails)
		}},
		fanout.Task{Name: ChannelChat, Run: func(ctx context.Context) error {
			resp.ZaloDetails = s.channels.Chat.NotifyAdmins(ctx, booking)
			return chatErr(resp.ZaloDetails)
		}},
	)

	for _, o := range outcomes {
		if errors.Is(o.Err, fanout.ErrPanic) {
			s.log.Error("Notification channel panicked", zap.String("channel", o.Name), zap.Error(o.Err))
			s.recoverPanicked(resp, o)
		}
		status := s.channelStatus(o)
		s.metrics.ObserveChannel(o.Name, status, o.Elapsed.Seconds())
		if status == "failed" {
			s.log.Warn("Notification channel failed",
				zap.String("booking_id", booking.ID),
				zap.String("channel", o.Name),
				zap.Error(o.Err))
		}
	}

	s.metrics.ObserveBooking("accepted")
	return resp, nil
}

// recoverPanicked replaces whatever a panicking channel left behind with a failure result.
func (s *bookingService) recoverPanicked(resp *response.BookingConfirmResponse, o fanout.Outcome) {
	msg := o.Err.Error()
	switch o.Name {
	case ChannelEmail:
		resp.EmailDetails = entity.EmailDetails{
			Customer: entity.EmailResult{Success: false, Attempted: entity.Bool(true), Error: msg},
			Business: entity.BusinessEmailResult{Success: false, Error: msg},
		}
	case ChannelRelay:
		resp.GasDetails = entity.RelayDetails{Attempted: true, Error: msg}
	case ChannelSheets:
		resp.SheetsDetails = entity.RelayDetails{Attempted: true, Error: msg}
	case ChannelChat:
		resp.ZaloDetails = entity.ChatDetails{Attempted: true, Error: msg}
	}
}

func (s *bookingService) channelStatus(o fanout.Outcome) string {
	var configured bool
	switch o.Name {
	case ChannelEmail:
		configured = s.channels.Email.Configured()
	case ChannelRelay:
		configured = s.channels.Relay.Configured()
	case ChannelSheets:
		configured = s.channels.Sheets.Configured()
	case ChannelChat:
		configured = s.channels.Chat.Configured()
	}
	switch {
	case !configured:
		return "skipped"
	case o.OK():
		return "success"
	default:
		return "failed"
	}
}

func emailErr(d entity.EmailDetails) error {
	if d.Customer.Success || d.Business.Success {
		return nil
	}
	if d.Business.Error != "" {
		return errors.New(d.Business.Error)
	}
	return errors.New(d.Customer.Error)
}

func relayErr(d entity.RelayDetails) error {
	if !d.Attempted || d.Success {
		return nil
	}
	return errors.New(d.Error)
}

func chatErr(d entity.ChatDetails) error {
	switch {
	case !d.Attempted:
		return nil
	case d.Error != "":
		return errors.New(d.Error)
	case !d.Success():
		return fmt.Errorf("all %d admin messages failed", d.Failed)
	}
	return nil
}

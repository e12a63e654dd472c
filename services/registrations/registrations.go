// Package registrations wraps the student-facing registration and
// waitlist endpoints, plus local ticket materialization (QR and PDF).
// Capacity math, duplicate detection, and waitlist promotion all happen
// server-side; this package only issues the calls and renders the
// results.
package registrations

import (
	"context"
	"fmt"

	"github.com/campus-events/client-go/api"
	"github.com/campus-events/client-go/common/apperrors"
	"github.com/campus-events/client-go/common/download"
	"github.com/campus-events/client-go/common/pdf"
	"github.com/campus-events/client-go/common/qrcode"
	"github.com/campus-events/client-go/common/validator"
	"github.com/campus-events/client-go/models"
)

// Service calls the registration endpoints
type Service struct {
	api       *api.Client
	downloads *download.Writer
}

// NewService creates the registrations service
func NewService(client *api.Client, downloads *download.Writer) *Service {
	return &Service{api: client, downloads: downloads}
}

type listResponse struct {
	api.Envelope
	Registrations []models.Registration `json:"registrations"`
}

// List fetches the current user's registrations
func (s *Service) List(ctx context.Context) ([]models.Registration, error) {
	var resp listResponse
	if err := s.api.Get(ctx, "/api/registrations", &resp); err != nil {
		return nil, err
	}
	return resp.Registrations, nil
}

type createResponse struct {
	api.Envelope
	Registration models.Registration `json:"registration"`
}

// Create registers the current user for an event, optionally with guests
// and a session selection. Whether the result is confirmed or waitlisted
// is the backend's call; inspect the returned status.
func (s *Service) Create(ctx context.Context, eventID string, guests []models.Guest, sessions []string) (*models.Registration, error) {
	if eventID == "" {
		return nil, apperrors.MissingField("eventId")
	}

	guestForms := make([]validator.GuestForm, len(guests))
	for i, g := range guests {
		guestForms[i] = validator.GuestForm{Name: g.Name, Email: g.Email}
	}
	if errs, ok := validator.ValidateGuests(guestForms); !ok {
		for field, msg := range errs {
			return nil, apperrors.ValidationError(msg).WithField("field", field)
		}
	}

	var resp createResponse
	err := s.api.Post(ctx, "/api/registrations", map[string]interface{}{
		"eventId":  eventID,
		"guests":   guests,
		"sessions": sessions,
	}, &resp)
	if err != nil {
		return nil, err
	}
	reg := resp.Registration
	return &reg, nil
}

// Cancel withdraws a registration. Any waitlist promotion this triggers
// happens server-side.
func (s *Service) Cancel(ctx context.Context, registrationID string) error {
	if registrationID == "" {
		return apperrors.MissingField("registrationId")
	}
	var resp struct{ api.Envelope }
	return s.api.Delete(ctx, fmt.Sprintf("/api/registrations/%s", registrationID), &resp)
}

// ============================================================
// Waitlist
// ============================================================

type waitlistResponse struct {
	api.Envelope
	Entries []models.WaitlistEntry `json:"entries"`
}

// Waitlist fetches the current user's waitlist entries; positions are
// 1-based and server-maintained
func (s *Service) Waitlist(ctx context.Context) ([]models.WaitlistEntry, error) {
	var resp waitlistResponse
	if err := s.api.Get(ctx, "/api/waitlist", &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

type joinWaitlistResponse struct {
	api.Envelope
	Entry models.WaitlistEntry `json:"entry"`
}

// JoinWaitlist queues the user for a full event
func (s *Service) JoinWaitlist(ctx context.Context, eventID, notificationPreference string) (*models.WaitlistEntry, error) {
	if eventID == "" {
		return nil, apperrors.MissingField("eventId")
	}
	var resp joinWaitlistResponse
	err := s.api.Post(ctx, "/api/waitlist", map[string]string{
		"eventId":                eventID,
		"notificationPreference": notificationPreference,
	}, &resp)
	if err != nil {
		return nil, err
	}
	entry := resp.Entry
	return &entry, nil
}

// LeaveWaitlist removes a waitlist entry; the backend re-packs positions
func (s *Service) LeaveWaitlist(ctx context.Context, entryID string) error {
	if entryID == "" {
		return apperrors.MissingField("entryId")
	}
	var resp struct{ api.Envelope }
	return s.api.Delete(ctx, fmt.Sprintf("/api/waitlist/%s", entryID), &resp)
}

// ============================================================
// Ticket materialization
// ============================================================

// TicketQR renders the registration's ticket code as a PNG data URI
func (s *Service) TicketQR(reg models.Registration) (string, error) {
	if reg.TicketCode == "" {
		return "", apperrors.ValidationError("registration has no ticket code yet")
	}
	uri, err := qrcode.TicketQRDataURI(reg.TicketCode, qrcode.SizeStandard)
	if err != nil {
		return "", apperrors.Internal("failed to render ticket QR").WithCause(err)
	}
	return uri, nil
}

// TicketPDF renders and saves a printable e-ticket, returning the saved
// path (ticket_<YYYY-MM-DD>.pdf in the download directory)
func (s *Service) TicketPDF(reg models.Registration, event models.Event, user models.User) (string, error) {
	if reg.TicketCode == "" {
		return "", apperrors.ValidationError("registration has no ticket code yet")
	}

	png, err := qrcode.TicketQRPNG(reg.TicketCode, qrcode.SizeLarge)
	if err != nil {
		return "", apperrors.Internal("failed to render ticket QR").WithCause(err)
	}

	data, err := pdf.GenerateTicketPDF(pdf.TicketPDFData{
		TicketCode:    reg.TicketCode,
		EventTitle:    event.Title,
		EventDate:     event.Date,
		StartTime:     event.StartTime,
		EndTime:       event.EndTime,
		Venue:         event.Venue,
		Location:      event.Location,
		AttendeeName:  user.Name,
		AttendeeEmail: user.Email,
		GuestCount:    len(reg.Guests),
		QRCodePNG:     png,
	})
	if err != nil {
		return "", apperrors.Internal("failed to render ticket PDF").WithCause(err)
	}

	path, err := s.downloads.SavePDF("ticket", data)
	if err != nil {
		return "", apperrors.Internal("failed to save ticket PDF").WithCause(err)
	}
	return path, nil
}

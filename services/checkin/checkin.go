// Package checkin wraps the door check-in flow: resolve a scanned or
// typed code against the backend, record the check-in with its method,
// and undo mistakes. There is no client-side ticket validation and no
// local attendee dataset; the backend is the authority for both.
package checkin

import (
	"context"
	"fmt"

	"github.com/campus-events/client-go/api"
	"github.com/campus-events/client-go/common/apperrors"
	"github.com/campus-events/client-go/common/textfilter"
	"github.com/campus-events/client-go/models"
)

// Service calls the check-in endpoints
type Service struct {
	api *api.Client
}

// NewService creates the check-in service
func NewService(client *api.Client) *Service {
	return &Service{api: client}
}

func validMethod(method string) bool {
	switch method {
	case models.CheckInMethodQRScan, models.CheckInMethodManual, models.CheckInMethodSearch:
		return true
	}
	return false
}

type validateResponse struct {
	api.Envelope
	Attendee models.Attendee `json:"attendee"`
}

// ValidateCode resolves a ticket code for an event. The backend decides
// whether the code exists, belongs to this event, and is not already
// checked in; the client only relays its answer.
func (s *Service) ValidateCode(ctx context.Context, eventID, code string) (*models.Attendee, error) {
	if eventID == "" {
		return nil, apperrors.MissingField("eventId")
	}
	if code == "" {
		return nil, apperrors.MissingField("code")
	}

	var resp validateResponse
	err := s.api.Post(ctx, "/api/checkin/validate", map[string]string{
		"eventId": eventID,
		"code":    code,
	}, &resp)
	if err != nil {
		return nil, err
	}
	attendee := resp.Attendee
	return &attendee, nil
}

type checkInResponse struct {
	api.Envelope
	CheckIn models.CheckIn `json:"checkIn"`
}

// CheckIn records an attendee's arrival. method tags the provenance:
// qr_scan, manual, or search.
func (s *Service) CheckIn(ctx context.Context, eventID, registrationID, method string) (*models.CheckIn, error) {
	if eventID == "" {
		return nil, apperrors.MissingField("eventId")
	}
	if registrationID == "" {
		return nil, apperrors.MissingField("registrationId")
	}
	if !validMethod(method) {
		return nil, apperrors.ValidationError(
			fmt.Sprintf("check-in method must be %s, %s, or %s",
				models.CheckInMethodQRScan, models.CheckInMethodManual, models.CheckInMethodSearch))
	}

	var resp checkInResponse
	err := s.api.Post(ctx, "/api/checkin", map[string]string{
		"eventId":        eventID,
		"registrationId": registrationID,
		"method":         method,
	}, &resp)
	if err != nil {
		return nil, err
	}
	record := resp.CheckIn
	return &record, nil
}

// CheckInByCode is the scan path: resolve the code, then check in with
// the qr_scan method. Two backend round trips by design; the
// confirmation screen between them shows the attendee before committing.
func (s *Service) CheckInByCode(ctx context.Context, eventID, code string) (*models.CheckIn, error) {
	attendee, err := s.ValidateCode(ctx, eventID, code)
	if err != nil {
		return nil, err
	}
	return s.CheckIn(ctx, eventID, attendee.RegistrationID, models.CheckInMethodQRScan)
}

// Undo deletes a check-in record, returning the attendee to not-checked-
// in
func (s *Service) Undo(ctx context.Context, checkInID string) error {
	if checkInID == "" {
		return apperrors.MissingField("checkInId")
	}
	var resp struct{ api.Envelope }
	return s.api.Delete(ctx, fmt.Sprintf("/api/checkin/%s", checkInID), &resp)
}

type historyResponse struct {
	api.Envelope
	CheckIns []models.CheckIn `json:"checkIns"`
}

// History lists an event's check-in records, newest first
func (s *Service) History(ctx context.Context, eventID string) ([]models.CheckIn, error) {
	if eventID == "" {
		return nil, apperrors.MissingField("eventId")
	}
	var resp historyResponse
	err := s.api.Get(ctx, "/api/checkin/history", &resp,
		api.WithQuery(api.Query{"eventId": eventID}))
	if err != nil {
		return nil, err
	}
	return resp.CheckIns, nil
}

// SearchAttendees filters a fetched attendee list for the door screen:
// case-insensitive substring over name, email, and ticket code, plus an
// exact check-in-status filter ("all" disables it)
func SearchAttendees(attendees []models.Attendee, query, checkInStatus string) []models.Attendee {
	return textfilter.Filter(attendees, query, checkInStatus,
		func(a models.Attendee) []string { return []string{a.Name, a.Email, a.TicketCode} },
		func(a models.Attendee) string { return a.CheckInStatus },
	)
}

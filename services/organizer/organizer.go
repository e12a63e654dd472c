// Package organizer wraps the organizer console: event CRUD, attendee
// management, announcements, and statistics. Create/edit forms are
// validated client-side before any network call; approval workflows stay
// server-side.
package organizer

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/campus-events/client-go/api"
	"github.com/campus-events/client-go/common/apperrors"
	"github.com/campus-events/client-go/common/download"
	"github.com/campus-events/client-go/common/textfilter"
	"github.com/campus-events/client-go/common/validator"
	"github.com/campus-events/client-go/models"
)

// Service calls the organizer endpoints
type Service struct {
	api       *api.Client
	downloads *download.Writer
}

// NewService creates the organizer service
func NewService(client *api.Client, downloads *download.Writer) *Service {
	return &Service{api: client, downloads: downloads}
}

// FormError carries the per-field validation failures of a rejected form
type FormError struct {
	Fields map[string]string
}

// Error implements the error interface with a stable, readable summary
func (e *FormError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
	}
	return "invalid form: " + strings.Join(msgs, "; ")
}

type listResponse struct {
	api.Envelope
	Events []models.Event `json:"events"`
}

// Events lists the organizer's own events, all statuses included
func (s *Service) Events(ctx context.Context) ([]models.Event, error) {
	var resp listResponse
	if err := s.api.Get(ctx, "/api/organizer/events", &resp); err != nil {
		return nil, err
	}
	return resp.Events, nil
}

type eventResponse struct {
	api.Envelope
	Event models.Event `json:"event"`
}

func formPayload(form validator.EventForm) map[string]interface{} {
	payload := map[string]interface{}{
		"title":       form.Title,
		"description": form.Description,
		"categoryId":  form.CategoryID,
		"date":        form.Date,
		"startTime":   form.StartTime,
		"endTime":     form.EndTime,
		"venue":       form.VenueID,
		"location":    form.Location,
		"capacity":    form.Capacity,
		"tags":        form.Tags,
		"imageUrl":    form.ImageURL,
	}
	if form.ChangeNote != "" {
		payload["changeNote"] = form.ChangeNote
	}
	return payload
}

// CreateEvent validates the form and submits a new event (status starts
// at draft/pending server-side). venueCapacity is the selected venue's
// capacity, 0 when no venue is selected.
func (s *Service) CreateEvent(ctx context.Context, form validator.EventForm, venueCapacity int) (*models.Event, error) {
	if errs, ok := validator.ValidateEventForm(form, validator.EventFormContext{
		VenueCapacity: venueCapacity,
	}); !ok {
		return nil, &FormError{Fields: errs}
	}

	var resp eventResponse
	if err := s.api.Post(ctx, "/api/organizer/events", formPayload(form), &resp); err != nil {
		return nil, err
	}
	event := resp.Event
	return &event, nil
}

// UpdateEvent validates and submits changes to an existing event.
// currentStatus is the event's status as last fetched; editing a pending
// event requires a change note for the reviewers.
func (s *Service) UpdateEvent(ctx context.Context, eventID string, form validator.EventForm, venueCapacity int, currentStatus string) (*models.Event, error) {
	if eventID == "" {
		return nil, apperrors.MissingField("eventId")
	}
	if errs, ok := validator.ValidateEventForm(form, validator.EventFormContext{
		VenueCapacity:  venueCapacity,
		EditingPending: currentStatus == models.EventPending,
	}); !ok {
		return nil, &FormError{Fields: errs}
	}

	var resp eventResponse
	if err := s.api.Put(ctx, fmt.Sprintf("/api/organizer/events/%s", eventID), formPayload(form), &resp); err != nil {
		return nil, err
	}
	event := resp.Event
	return &event, nil
}

// CancelEvent cancels a pending or published event
func (s *Service) CancelEvent(ctx context.Context, eventID string) error {
	if eventID == "" {
		return apperrors.MissingField("eventId")
	}
	var resp struct{ api.Envelope }
	return s.api.Post(ctx, fmt.Sprintf("/api/organizer/events/%s/cancel", eventID), nil, &resp)
}

// DuplicateEvent clones an event into a new draft
func (s *Service) DuplicateEvent(ctx context.Context, eventID string) (*models.Event, error) {
	if eventID == "" {
		return nil, apperrors.MissingField("eventId")
	}
	var resp eventResponse
	if err := s.api.Post(ctx, fmt.Sprintf("/api/organizer/events/%s/duplicate", eventID), nil, &resp); err != nil {
		return nil, err
	}
	event := resp.Event
	return &event, nil
}

// ============================================================
// Attendees
// ============================================================

type attendeesResponse struct {
	api.Envelope
	Attendees []models.Attendee `json:"attendees"`
}

// Attendees fetches an event's attendee list, passing the search and
// check-in-status filters through to the backend
func (s *Service) Attendees(ctx context.Context, eventID, search, checkInStatus string) ([]models.Attendee, error) {
	if eventID == "" {
		return nil, apperrors.MissingField("eventId")
	}
	var resp attendeesResponse
	err := s.api.Get(ctx, fmt.Sprintf("/api/organizer/events/%s/attendees", eventID), &resp,
		api.WithQuery(api.Query{"search": search, "checkInStatus": checkInStatus}))
	if err != nil {
		return nil, err
	}
	return resp.Attendees, nil
}

// FilterAttendees refines an already-fetched list locally: exact
// check-in-status match ("all" disables it) plus case-insensitive
// substring over name, email, and ticket code.
func FilterAttendees(attendees []models.Attendee, query, checkInStatus string) []models.Attendee {
	return textfilter.Filter(attendees, query, checkInStatus,
		func(a models.Attendee) []string { return []string{a.Name, a.Email, a.TicketCode} },
		func(a models.Attendee) string { return a.CheckInStatus },
	)
}

// ExportAttendees downloads the attendee CSV and saves it as
// attendees_<YYYY-MM-DD>.csv, returning the saved path
func (s *Service) ExportAttendees(ctx context.Context, eventID string) (string, error) {
	if eventID == "" {
		return "", apperrors.MissingField("eventId")
	}
	csv, err := s.api.DoText(ctx, http.MethodGet, fmt.Sprintf("/api/organizer/events/%s/attendees/export", eventID))
	if err != nil {
		return "", err
	}
	return s.downloads.SaveCSV("attendees", []byte(csv))
}

// ============================================================
// Announcements and statistics
// ============================================================

// SendAnnouncement messages an event's attendees via the chosen channels
func (s *Service) SendAnnouncement(ctx context.Context, eventID, subject, message string, sendVia []string) error {
	if eventID == "" {
		return apperrors.MissingField("eventId")
	}
	if strings.TrimSpace(subject) == "" {
		return apperrors.MissingField("subject")
	}
	if strings.TrimSpace(message) == "" {
		return apperrors.MissingField("message")
	}

	var resp struct{ api.Envelope }
	return s.api.Post(ctx, fmt.Sprintf("/api/organizer/events/%s/announcements", eventID), map[string]interface{}{
		"subject": subject,
		"message": message,
		"sendVia": sendVia,
	}, &resp)
}

// Statistics is the organizer dashboard summary
type Statistics struct {
	TotalEvents        int     `json:"totalEvents"`
	PublishedEvents    int     `json:"publishedEvents"`
	TotalRegistrations int     `json:"totalRegistrations"`
	TotalCheckIns      int     `json:"totalCheckIns"`
	AverageFillRate    float64 `json:"averageFillRate"`
}

type statisticsResponse struct {
	api.Envelope
	Statistics Statistics `json:"statistics"`
}

// Statistics fetches the organizer's aggregate numbers
func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	var resp statisticsResponse
	if err := s.api.Get(ctx, "/api/organizer/statistics", &resp); err != nil {
		return nil, err
	}
	stats := resp.Statistics
	return &stats, nil
}

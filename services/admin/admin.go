// Package admin wraps the admin console: approval queues, category and
// venue reference data, audit logs, and analytics. Every call carries the
// "Role: admin" header on top of the bearer token.
package admin

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/campus-events/client-go/api"
	"github.com/campus-events/client-go/common/apperrors"
	"github.com/campus-events/client-go/common/download"
	"github.com/campus-events/client-go/common/textfilter"
	"github.com/campus-events/client-go/models"
)

// Service calls the admin endpoints
type Service struct {
	api       *api.Client
	downloads *download.Writer
}

// NewService creates the admin service
func NewService(client *api.Client, downloads *download.Writer) *Service {
	return &Service{api: client, downloads: downloads}
}

// ============================================================
// Approvals
// ============================================================

type organizersResponse struct {
	api.Envelope
	Organizers []models.User `json:"organizers"`
}

// PendingOrganizers lists organizer accounts awaiting approval
func (s *Service) PendingOrganizers(ctx context.Context) ([]models.User, error) {
	var resp organizersResponse
	if err := s.api.Get(ctx, "/api/admin/approvals/organizers", &resp, api.WithAdminRole()); err != nil {
		return nil, err
	}
	return resp.Organizers, nil
}

// ApproveOrganizer flips isApproved for an organizer account
func (s *Service) ApproveOrganizer(ctx context.Context, userID string) error {
	if userID == "" {
		return apperrors.MissingField("userId")
	}
	var resp struct{ api.Envelope }
	return s.api.Post(ctx, fmt.Sprintf("/api/admin/approvals/organizers/%s/approve", userID), nil, &resp,
		api.WithAdminRole())
}

// RejectOrganizer declines an organizer application. Notes are required:
// the applicant sees them.
func (s *Service) RejectOrganizer(ctx context.Context, userID, notes string) error {
	if userID == "" {
		return apperrors.MissingField("userId")
	}
	if strings.TrimSpace(notes) == "" {
		return apperrors.MissingField("notes")
	}
	var resp struct{ api.Envelope }
	return s.api.Post(ctx, fmt.Sprintf("/api/admin/approvals/organizers/%s/reject", userID),
		map[string]string{"notes": notes}, &resp, api.WithAdminRole())
}

type pendingEventsResponse struct {
	api.Envelope
	Events []models.Event `json:"events"`
}

// PendingEvents lists event submissions awaiting review
func (s *Service) PendingEvents(ctx context.Context) ([]models.Event, error) {
	var resp pendingEventsResponse
	if err := s.api.Get(ctx, "/api/admin/approvals/events", &resp, api.WithAdminRole()); err != nil {
		return nil, err
	}
	return resp.Events, nil
}

// ApproveEvent publishes a pending event
func (s *Service) ApproveEvent(ctx context.Context, eventID string) error {
	if eventID == "" {
		return apperrors.MissingField("eventId")
	}
	var resp struct{ api.Envelope }
	return s.api.Post(ctx, fmt.Sprintf("/api/admin/approvals/events/%s/approve", eventID), nil, &resp,
		api.WithAdminRole())
}

// RejectEvent sends a submission back with mandatory reviewer notes
func (s *Service) RejectEvent(ctx context.Context, eventID, notes string) error {
	if eventID == "" {
		return apperrors.MissingField("eventId")
	}
	if strings.TrimSpace(notes) == "" {
		return apperrors.MissingField("notes")
	}
	var resp struct{ api.Envelope }
	return s.api.Post(ctx, fmt.Sprintf("/api/admin/approvals/events/%s/reject", eventID),
		map[string]string{"notes": notes}, &resp, api.WithAdminRole())
}

// ============================================================
// Categories
// ============================================================

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slugify lowercases and collapses whitespace runs into single hyphens.
// Idempotent: applying it twice equals applying it once.
func Slugify(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(name), "-")
}

type categoryResponse struct {
	api.Envelope
	Category models.Category `json:"category"`
}

type categoriesResponse struct {
	api.Envelope
	Categories []models.Category `json:"categories"`
}

// Categories lists all categories, retired ones included
func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	var resp categoriesResponse
	if err := s.api.Get(ctx, "/api/admin/categories", &resp, api.WithAdminRole()); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// CreateCategory adds a category; the slug is derived from the name
func (s *Service) CreateCategory(ctx context.Context, name, color string) (*models.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.MissingField("name")
	}
	var resp categoryResponse
	err := s.api.Post(ctx, "/api/admin/categories", map[string]string{
		"name":  name,
		"slug":  Slugify(name),
		"color": color,
	}, &resp, api.WithAdminRole())
	if err != nil {
		return nil, err
	}
	cat := resp.Category
	return &cat, nil
}

// UpdateCategory renames a category, re-deriving its slug
func (s *Service) UpdateCategory(ctx context.Context, id, name, color string) (*models.Category, error) {
	if id == "" {
		return nil, apperrors.MissingField("id")
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.MissingField("name")
	}
	var resp categoryResponse
	err := s.api.Put(ctx, fmt.Sprintf("/api/admin/categories/%s", id), map[string]string{
		"name":  name,
		"slug":  Slugify(name),
		"color": color,
	}, &resp, api.WithAdminRole())
	if err != nil {
		return nil, err
	}
	cat := resp.Category
	return &cat, nil
}

// SetCategoryActive retires (false) or reactivates (true) a category.
// Soft delete only; events keep their categoryId.
func (s *Service) SetCategoryActive(ctx context.Context, id string, active bool) error {
	if id == "" {
		return apperrors.MissingField("id")
	}
	var resp struct{ api.Envelope }
	return s.api.Put(ctx, fmt.Sprintf("/api/admin/categories/%s", id),
		map[string]bool{"isActive": active}, &resp, api.WithAdminRole())
}

// DeleteCategory hard-deletes a category; the backend refuses when events
// still reference it
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.MissingField("id")
	}
	var resp struct{ api.Envelope }
	return s.api.Delete(ctx, fmt.Sprintf("/api/admin/categories/%s", id), &resp, api.WithAdminRole())
}

// ============================================================
// Venues
// ============================================================

// JoinFacilities serializes a facilities list for the venue form
func JoinFacilities(facilities []string) string {
	return strings.Join(facilities, ", ")
}

// SplitFacilities parses a comma-separated facilities string back into a
// list: split on commas, trim, drop empties. Round-trips JoinFacilities
// for comma-free entries.
func SplitFacilities(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

type venueResponse struct {
	api.Envelope
	Venue models.Venue `json:"venue"`
}

type venuesResponse struct {
	api.Envelope
	Venues []models.Venue `json:"venues"`
}

// Venues lists all venues, retired ones included
func (s *Service) Venues(ctx context.Context) ([]models.Venue, error) {
	var resp venuesResponse
	if err := s.api.Get(ctx, "/api/admin/venues", &resp, api.WithAdminRole()); err != nil {
		return nil, err
	}
	return resp.Venues, nil
}

// VenueInput is the create/update venue form
type VenueInput struct {
	Name       string   `json:"name"`
	Building   string   `json:"building,omitempty"`
	Capacity   int      `json:"capacity"`
	Facilities []string `json:"facilities,omitempty"`
}

func (v VenueInput) validate() error {
	if strings.TrimSpace(v.Name) == "" {
		return apperrors.MissingField("name")
	}
	if v.Capacity <= 0 {
		return apperrors.ValidationError("venue capacity must be positive")
	}
	return nil
}

// CreateVenue adds a venue
func (s *Service) CreateVenue(ctx context.Context, input VenueInput) (*models.Venue, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	var resp venueResponse
	if err := s.api.Post(ctx, "/api/admin/venues", input, &resp, api.WithAdminRole()); err != nil {
		return nil, err
	}
	venue := resp.Venue
	return &venue, nil
}

// UpdateVenue edits a venue
func (s *Service) UpdateVenue(ctx context.Context, id string, input VenueInput) (*models.Venue, error) {
	if id == "" {
		return nil, apperrors.MissingField("id")
	}
	if err := input.validate(); err != nil {
		return nil, err
	}
	var resp venueResponse
	if err := s.api.Put(ctx, fmt.Sprintf("/api/admin/venues/%s", id), input, &resp, api.WithAdminRole()); err != nil {
		return nil, err
	}
	venue := resp.Venue
	return &venue, nil
}

// SetVenueActive retires or reactivates a venue
func (s *Service) SetVenueActive(ctx context.Context, id string, active bool) error {
	if id == "" {
		return apperrors.MissingField("id")
	}
	var resp struct{ api.Envelope }
	return s.api.Put(ctx, fmt.Sprintf("/api/admin/venues/%s", id),
		map[string]bool{"isActive": active}, &resp, api.WithAdminRole())
}

// DeleteVenue hard-deletes a venue
func (s *Service) DeleteVenue(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.MissingField("id")
	}
	var resp struct{ api.Envelope }
	return s.api.Delete(ctx, fmt.Sprintf("/api/admin/venues/%s", id), &resp, api.WithAdminRole())
}

// ============================================================
// Audit logs, analytics, dashboard
// ============================================================

// AuditFilters narrow the audit-log listing
type AuditFilters struct {
	Action    string
	User      string
	StartDate string
	EndDate   string
}

type auditLogsResponse struct {
	api.Envelope
	Logs []models.AuditLogEntry `json:"logs"`
}

// AuditLogs fetches audit entries; the client never writes them
func (s *Service) AuditLogs(ctx context.Context, filters AuditFilters) ([]models.AuditLogEntry, error) {
	var resp auditLogsResponse
	err := s.api.Get(ctx, "/api/admin/audit-logs", &resp, api.WithAdminRole(),
		api.WithQuery(api.Query{
			"action":    filters.Action,
			"user":      filters.User,
			"startDate": filters.StartDate,
			"endDate":   filters.EndDate,
		}))
	if err != nil {
		return nil, err
	}
	return resp.Logs, nil
}

// SearchAuditLogs refines a fetched list locally: exact action match
// ("all" disables) plus substring over user, action, and details
func SearchAuditLogs(logs []models.AuditLogEntry, query, action string) []models.AuditLogEntry {
	return textfilter.Filter(logs, query, action,
		func(e models.AuditLogEntry) []string { return []string{e.User, e.Action, e.Details} },
		func(e models.AuditLogEntry) string { return e.Action },
	)
}

// ExportAuditLogs downloads the audit CSV and saves it as
// audit_logs_<YYYY-MM-DD>.csv
func (s *Service) ExportAuditLogs(ctx context.Context) (string, error) {
	csv, err := s.api.DoText(ctx, http.MethodGet, "/api/admin/audit-logs/export", api.WithAdminRole())
	if err != nil {
		return "", err
	}
	return s.downloads.SaveCSV("audit_logs", []byte(csv))
}

// Analytics is the admin-wide reporting payload; the client only shapes
// it for display
type Analytics struct {
	TotalUsers         int            `json:"totalUsers"`
	TotalEvents        int            `json:"totalEvents"`
	TotalRegistrations int            `json:"totalRegistrations"`
	RegistrationsByDay map[string]int `json:"registrationsByDay"`
	EventsByCategory   map[string]int `json:"eventsByCategory"`
}

type analyticsResponse struct {
	api.Envelope
	Analytics Analytics `json:"analytics"`
}

// Analytics fetches platform-wide aggregates
func (s *Service) Analytics(ctx context.Context) (*Analytics, error) {
	var resp analyticsResponse
	if err := s.api.Get(ctx, "/api/admin/analytics", &resp, api.WithAdminRole()); err != nil {
		return nil, err
	}
	analytics := resp.Analytics
	return &analytics, nil
}

// ExportAnalytics downloads the analytics CSV and saves it as
// analytics_<YYYY-MM-DD>.csv
func (s *Service) ExportAnalytics(ctx context.Context) (string, error) {
	csv, err := s.api.DoText(ctx, http.MethodGet, "/api/admin/analytics/export", api.WithAdminRole())
	if err != nil {
		return "", err
	}
	return s.downloads.SaveCSV("analytics", []byte(csv))
}

// Dashboard is the admin landing summary
type Dashboard struct {
	PendingOrganizers int `json:"pendingOrganizers"`
	PendingEvents     int `json:"pendingEvents"`
	ActiveEvents      int `json:"activeEvents"`
	CheckInsToday     int `json:"checkInsToday"`
}

type dashboardResponse struct {
	api.Envelope
	Dashboard Dashboard `json:"dashboard"`
}

// Dashboard fetches the admin landing numbers
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	var resp dashboardResponse
	if err := s.api.Get(ctx, "/api/admin/dashboard", &resp, api.WithAdminRole()); err != nil {
		return nil, err
	}
	dash := resp.Dashboard
	return &dash, nil
}

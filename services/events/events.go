// Package events wraps the public event-discovery endpoints
package events

import (
	"context"
	"fmt"
	"strconv"

	"github.com/campus-events/client-go/api"
	"github.com/campus-events/client-go/models"
)

// Service calls the event browsing endpoints
type Service struct {
	api *api.Client
}

// NewService creates the events service
func NewService(client *api.Client) *Service {
	return &Service{api: client}
}

// ListFilters are the supported browse filters. Empty or "all" values are
// omitted from the request entirely.
type ListFilters struct {
	Search       string
	Category     string
	Organizer    string
	StartDate    string // YYYY-MM-DD
	EndDate      string // YYYY-MM-DD
	Availability string // e.g. "available", "waitlist"
	SortBy       string // e.g. "date", "popularity"
	Page         int
	Limit        int
}

func (f ListFilters) query() api.Query {
	q := api.Query{
		"search":       f.Search,
		"category":     f.Category,
		"organizer":    f.Organizer,
		"startDate":    f.StartDate,
		"endDate":      f.EndDate,
		"availability": f.Availability,
		"sortBy":       f.SortBy,
	}
	if f.Page > 0 {
		q["page"] = strconv.Itoa(f.Page)
	}
	if f.Limit > 0 {
		q["limit"] = strconv.Itoa(f.Limit)
	}
	return q
}

// EventPage is one page of browse results
type EventPage struct {
	Events []models.Event
	Total  int
	Page   int
}

type listResponse struct {
	api.Envelope
	Events []models.Event `json:"events"`
	Total  int            `json:"total"`
	Page   int            `json:"page"`
}

// List browses published events
func (s *Service) List(ctx context.Context, filters ListFilters) (*EventPage, error) {
	var resp listResponse
	if err := s.api.Get(ctx, "/api/events", &resp, api.WithQuery(filters.query())); err != nil {
		return nil, err
	}
	return &EventPage{Events: resp.Events, Total: resp.Total, Page: resp.Page}, nil
}

type detailResponse struct {
	api.Envelope
	Event models.Event `json:"event"`
}

// Get fetches one event by id
func (s *Service) Get(ctx context.Context, id string) (*models.Event, error) {
	var resp detailResponse
	if err := s.api.Get(ctx, fmt.Sprintf("/api/events/%s", id), &resp); err != nil {
		return nil, err
	}
	event := resp.Event
	return &event, nil
}

type categoriesResponse struct {
	api.Envelope
	Categories []models.Category `json:"categories"`
}

// Categories fetches the category reference data
func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	var resp categoriesResponse
	if err := s.api.Get(ctx, "/api/categories", &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// SpotsLeft reports remaining capacity as the client sees it. The number
// is advisory; the backend is the authority and may disagree by the time
// a registration lands.
func SpotsLeft(e models.Event) int {
	left := e.Capacity - e.RegisteredCount
	if left < 0 {
		return 0
	}
	return left
}

// Package notifications wraps the notification endpoints and the unread-
// count poller that keeps the badge fresh while a session is active.
package notifications

import (
	"context"
	"fmt"

	"github.com/campus-events/client-go/api"
	"github.com/campus-events/client-go/common/apperrors"
	"github.com/campus-events/client-go/models"
)

// Service calls the notification endpoints
type Service struct {
	api *api.Client
}

// NewService creates the notifications service
func NewService(client *api.Client) *Service {
	return &Service{api: client}
}

type listResponse struct {
	api.Envelope
	Notifications []models.Notification `json:"notifications"`
}

// List fetches the current user's notifications, newest first
func (s *Service) List(ctx context.Context) ([]models.Notification, error) {
	var resp listResponse
	if err := s.api.Get(ctx, "/api/notifications", &resp); err != nil {
		return nil, err
	}
	return resp.Notifications, nil
}

type countResponse struct {
	api.Envelope
	Count int `json:"count"`
}

// UnreadCount fetches the unread badge number
func (s *Service) UnreadCount(ctx context.Context) (int, error) {
	var resp countResponse
	if err := s.api.Get(ctx, "/api/notifications/unread-count", &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// MarkRead marks one notification as read
func (s *Service) MarkRead(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.MissingField("id")
	}
	var resp struct{ api.Envelope }
	return s.api.Put(ctx, fmt.Sprintf("/api/notifications/%s/read", id), nil, &resp)
}

// MarkAllRead clears the unread badge entirely
func (s *Service) MarkAllRead(ctx context.Context) error {
	var resp struct{ api.Envelope }
	return s.api.Put(ctx, "/api/notifications/read-all", nil, &resp)
}

// Package auth wraps the login/register/profile endpoints and owns the
// only service-level side effect in the client: writing and clearing the
// persisted session.
package auth

import (
	"context"
	"strings"

	"github.com/campus-events/client-go/api"
	"github.com/campus-events/client-go/common/apperrors"
	"github.com/campus-events/client-go/common/validator"
	"github.com/campus-events/client-go/models"
	"github.com/campus-events/client-go/session"
)

// Service calls the auth endpoints
type Service struct {
	api   *api.Client
	store *session.Store
}

// NewService creates the auth service
func NewService(client *api.Client, store *session.Store) *Service {
	return &Service{api: client, store: store}
}

type loginResponse struct {
	api.Envelope
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// Login authenticates and, on success, enters the authenticated state and
// persists token + user. An organizer whose account is awaiting approval
// is rejected with a distinct pending-approval message and the store is
// left untouched.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, apperrors.MissingField("email")
	}
	if password == "" {
		return nil, apperrors.MissingField("password")
	}

	var resp loginResponse
	err := s.api.Post(ctx, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}

	// Belt and braces: even if the backend hands out a token, an
	// unapproved organizer must not get a usable session
	if resp.User.Role == models.RoleOrganizer && !resp.User.IsApproved {
		return nil, apperrors.PendingApproval()
	}
	if resp.Token == "" {
		return nil, apperrors.Internal("login response carried no token")
	}

	if err := s.store.SetSession(resp.User, resp.Token); err != nil {
		return nil, apperrors.Internal("failed to persist session").WithCause(err)
	}
	user := resp.User
	return &user, nil
}

// RegisterInput is the sign-up form
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Phone    string `json:"phone,omitempty"`
}

type registerResponse struct {
	api.Envelope
	User models.User `json:"user"`
}

// Register creates a student or organizer account. Organizers start
// unapproved and cannot log in until an admin approves them.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if strings.TrimSpace(input.Email) == "" {
		return nil, apperrors.MissingField("email")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.MissingField("name")
	}
	if input.Password == "" {
		return nil, apperrors.MissingField("password")
	}
	if input.Role != models.RoleStudent && input.Role != models.RoleOrganizer {
		return nil, apperrors.ValidationError("role must be student or organizer")
	}
	if input.Phone != "" && !validator.IsValidPhone(input.Phone) {
		return nil, apperrors.ValidationError("Phone must match NNN-NNN-NNNN")
	}

	var resp registerResponse
	if err := s.api.Post(ctx, "/api/auth/register", input, &resp); err != nil {
		return nil, err
	}
	user := resp.User
	return &user, nil
}

// Logout unconditionally clears the session, memory and disk both. No
// network call is made; the backend token simply stops being presented.
func (s *Service) Logout() error {
	return s.store.Clear()
}

type meResponse struct {
	api.Envelope
	User models.User `json:"user"`
}

// Probe asks the backend whether the current token is still accepted and
// returns the server's view of the user. This is the opt-in complement to
// the presence-only session.Validate.
func (s *Service) Probe(ctx context.Context) (*models.User, error) {
	if !s.store.Validate() {
		return nil, apperrors.Unauthorized("not logged in")
	}
	var resp meResponse
	if err := s.api.Get(ctx, "/api/auth/me", &resp); err != nil {
		return nil, err
	}
	user := resp.User
	return &user, nil
}

// UpdateProfile validates and saves profile changes, refreshing the
// persisted user on success
func (s *Service) UpdateProfile(ctx context.Context, form validator.ProfileForm) (*models.User, error) {
	if errs, ok := validator.ValidateProfileForm(form); !ok {
		for field, msg := range errs {
			return nil, apperrors.ValidationError(msg).WithField("field", field)
		}
	}

	var resp meResponse
	err := s.api.Put(ctx, "/api/auth/profile", map[string]string{
		"name":  form.Name,
		"phone": form.Phone,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if token := s.store.Token(); token != "" {
		if err := s.store.SetSession(resp.User, token); err != nil {
			return nil, apperrors.Internal("failed to refresh persisted user").WithCause(err)
		}
	}
	user := resp.User
	return &user, nil
}

package validator

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Capacity bounds for any event
const (
	MinCapacity = 1
	MaxCapacity = 5000
)

// MinDescriptionLength is the minimum event description length
const MinDescriptionLength = 50

// PhonePattern matches NNN-NNN-NNNN
var PhonePattern = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)

// timePattern matches zero-padded 24-hour HH:MM
var timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// EventForm is the client-side shape of the create/edit event form.
// Date is YYYY-MM-DD; StartTime/EndTime are zero-padded 24-hour HH:MM,
// which makes their ordering a plain string comparison.
type EventForm struct {
	Title       string
	Description string
	CategoryID  string
	Date        string
	StartTime   string
	EndTime     string
	VenueID     string
	Location    string
	Capacity    int
	Tags        []string
	ImageURL    string
	ChangeNote  string
}

// EventFormContext carries the facts validation needs beyond the form
// itself. Now is injectable for tests; zero value means time.Now().
type EventFormContext struct {
	// VenueCapacity is the selected venue's capacity; 0 means no venue
	// selected (no venue bound applies)
	VenueCapacity int

	// EditingPending is true when editing an event whose status is
	// "pending"; a change note is then required
	EditingPending bool

	Now time.Time
}

// ValidateEventForm checks every rule and returns a field -> message map
// plus overall validity. Pure function: no network calls, no I/O.
func ValidateEventForm(form EventForm, ctx EventFormContext) (map[string]string, bool) {
	errs := make(map[string]string)

	if strings.TrimSpace(form.Title) == "" {
		errs["title"] = "Title is required"
	}

	if len(strings.TrimSpace(form.Description)) < MinDescriptionLength {
		errs["description"] = fmt.Sprintf("Description must be at least %d characters", MinDescriptionLength)
	}

	if form.CategoryID == "" {
		errs["category"] = "Category is required"
	}

	validateEventDate(form.Date, ctx.Now, errs)
	validateEventTimes(form.StartTime, form.EndTime, errs)
	validateCapacity(form.Capacity, form.VenueID, ctx.VenueCapacity, errs)

	if ctx.EditingPending && strings.TrimSpace(form.ChangeNote) == "" {
		errs["changeNote"] = "Please describe what changed for the reviewers"
	}

	return errs, len(errs) == 0
}

// validateEventDate rejects dates before today. The comparison is at day
// granularity: an event today with a start time already past is still valid.
func validateEventDate(date string, now time.Time, errs map[string]string) {
	if date == "" {
		errs["date"] = "Date is required"
		return
	}

	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		errs["date"] = "Date must be in YYYY-MM-DD format"
		return
	}

	if now.IsZero() {
		now = time.Now()
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	eventDay := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)

	if eventDay.Before(today) {
		errs["date"] = "Date cannot be in the past"
	}
}

// validateEventTimes requires endTime strictly after startTime. Both are
// zero-padded 24-hour strings, so lexicographic comparison is correct.
func validateEventTimes(start, end string, errs map[string]string) {
	if start == "" {
		errs["startTime"] = "Start time is required"
	} else if !timePattern.MatchString(start) {
		errs["startTime"] = "Start time must be in HH:MM format"
	}

	if end == "" {
		errs["endTime"] = "End time is required"
		return
	}
	if !timePattern.MatchString(end) {
		errs["endTime"] = "End time must be in HH:MM format"
		return
	}

	if start != "" && timePattern.MatchString(start) && end <= start {
		errs["endTime"] = "End time must be after start time"
	}
}

func validateCapacity(capacity int, venueID string, venueCapacity int, errs map[string]string) {
	if capacity < MinCapacity || capacity > MaxCapacity {
		errs["capacity"] = fmt.Sprintf("Capacity must be between %d and %d", MinCapacity, MaxCapacity)
		return
	}
	if venueID != "" && venueCapacity > 0 && capacity > venueCapacity {
		errs["capacity"] = fmt.Sprintf("Capacity exceeds the venue capacity of %d", venueCapacity)
	}
}

// ============================================================
// Profile validation
// ============================================================

// ProfileForm is the editable slice of the user profile
type ProfileForm struct {
	Name  string
	Phone string
}

// ValidateProfileForm checks profile fields. Phone is optional but must
// match NNN-NNN-NNNN when present.
func ValidateProfileForm(form ProfileForm) (map[string]string, bool) {
	errs := make(map[string]string)

	if strings.TrimSpace(form.Name) == "" {
		errs["name"] = "Name is required"
	}

	if form.Phone != "" && !IsValidPhone(form.Phone) {
		errs["phone"] = "Phone must match NNN-NNN-NNNN"
	}

	return errs, len(errs) == 0
}

// IsValidPhone validates the NNN-NNN-NNNN phone format
func IsValidPhone(phone string) bool {
	return PhonePattern.MatchString(strings.TrimSpace(phone))
}

// ============================================================
// Registration validation
// ============================================================

// GuestForm is one guest row on the registration form
type GuestForm struct {
	Name  string
	Email string
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_+&*-]+(?:\.[a-zA-Z0-9_+&*-]+)*@(?:[a-zA-Z0-9-]+\.)+[a-zA-Z]{2,7}$`)

// IsValidEmail validates email format
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// ValidateGuests checks each guest row; keys look like "guests[0].name"
func ValidateGuests(guests []GuestForm) (map[string]string, bool) {
	errs := make(map[string]string)
	for i, g := range guests {
		if strings.TrimSpace(g.Name) == "" {
			errs[fmt.Sprintf("guests[%d].name", i)] = "Guest name is required"
		}
		if !IsValidEmail(g.Email) {
			errs[fmt.Sprintf("guests[%d].email", i)] = "Guest email is invalid"
		}
	}
	return errs, len(errs) == 0
}

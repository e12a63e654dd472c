// Package models holds the client-side copies of backend-owned entities.
// Authoritative definitions live server-side; everything here is a
// transient, disposable snapshot with no local persistence (the session's
// user + token are the single exception, held by the session store).
package models

// User roles
const (
	RoleStudent   = "student"
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

// Event statuses
const (
	EventDraft     = "draft"
	EventPending   = "pending"
	EventPublished = "published"
	EventCancelled = "cancelled"
)

// Registration statuses
const (
	RegistrationConfirmed  = "confirmed"
	RegistrationCancelled  = "cancelled"
	RegistrationWaitlisted = "waitlisted"
)

// Check-in methods record how an attendee was identified at the door
const (
	CheckInMethodQRScan = "qr_scan"
	CheckInMethodManual = "manual"
	CheckInMethodSearch = "search"
)

// User represents an account. IsApproved only matters for organizers; an
// unapproved organizer cannot log in.
type User struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Phone      string `json:"phone,omitempty"`
	IsApproved bool   `json:"isApproved"`
}

// Event represents an event listing. registeredCount <= capacity is
// enforced server-side.
type Event struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	CategoryID      string   `json:"categoryId"`
	Date            string   `json:"date"`      // YYYY-MM-DD
	StartTime       string   `json:"startTime"` // HH:MM
	EndTime         string   `json:"endTime"`   // HH:MM
	Venue           string   `json:"venue"`
	Location        string   `json:"location"`
	Capacity        int      `json:"capacity"`
	RegisteredCount int      `json:"registeredCount"`
	Status          string   `json:"status"`
	Tags            []string `json:"tags,omitempty"`
	ImageURL        string   `json:"imageUrl,omitempty"`
	Organizer       string   `json:"organizer"`
}

// Guest is an extra attendee attached to a registration
type Guest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Registration ties a user to an event. One registration per (user,
// event) pair; the backend enforces it.
type Registration struct {
	ID            string  `json:"id"`
	UserID        string  `json:"userId"`
	EventID       string  `json:"eventId"`
	Status        string  `json:"status"`
	TicketCode    string  `json:"ticketCode"`
	QRCode        string  `json:"qrCode,omitempty"`
	Guests        []Guest `json:"guests,omitempty"`
	CheckInStatus string  `json:"checkInStatus,omitempty"`
}

// WaitlistEntry is a server-maintained 1-based contiguous rank per event
type WaitlistEntry struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	EventID  string `json:"eventId"`
	Position int    `json:"position"`
}

// CheckIn records one door check-in; undo deletes it
type CheckIn struct {
	ID             string `json:"id"`
	EventID        string `json:"eventId"`
	RegistrationID string `json:"registrationId"`
	Method         string `json:"method"`
	CheckedInAt    string `json:"checkedInAt"`
	CheckedInBy    string `json:"checkedInBy"`
}

// Category is reference data; IsActive is the retire/reactivate soft
// delete, not a hard delete.
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Color    string `json:"color,omitempty"`
	IsActive bool   `json:"isActive"`
}

// Venue is reference data with a capacity bound event forms validate
// against
type Venue struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Building   string   `json:"building,omitempty"`
	Capacity   int      `json:"capacity"`
	Facilities []string `json:"facilities,omitempty"`
	IsActive   bool     `json:"isActive"`
}

// RelatedEvent is the weak reference a notification carries: id + title
// only, no ownership
type RelatedEvent struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Notification is a per-user message
type Notification struct {
	ID           string        `json:"id"`
	UserID       string        `json:"userId"`
	Type         string        `json:"type"`
	Title        string        `json:"title"`
	Message      string        `json:"message"`
	RelatedEvent *RelatedEvent `json:"relatedEvent,omitempty"`
	IsRead       bool          `json:"isRead"`
	CreatedAt    string        `json:"createdAt"`
}

// AuditLogEntry is write-only from the client's perspective; the client
// only reads and exports, never creates.
type AuditLogEntry struct {
	ID        string `json:"id"`
	Action    string `json:"action"`
	User      string `json:"user"`
	Timestamp string `json:"timestamp"`
	Details   string `json:"details,omitempty"`
}

// Attendee is the organizer/check-in view of a registration joined with
// its user
type Attendee struct {
	RegistrationID string `json:"registrationId"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	TicketCode     string `json:"ticketCode"`
	GuestCount     int    `json:"guestCount"`
	CheckInStatus  string `json:"checkInStatus"`
}

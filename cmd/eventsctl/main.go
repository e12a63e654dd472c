// eventsctl is the command-line client for the campus events backend.
// It wires the session store, the API client, and the service layer into
// subcommands grouped by audience: everyday browsing and registration,
// organizer tools, and admin tools.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/campus-events/client-go/api"
	"github.com/campus-events/client-go/common/config"
	"github.com/campus-events/client-go/common/download"
	"github.com/campus-events/client-go/common/inflight"
	"github.com/campus-events/client-go/common/logger"
	"github.com/campus-events/client-go/common/validator"
	"github.com/campus-events/client-go/models"
	"github.com/campus-events/client-go/services/admin"
	"github.com/campus-events/client-go/services/auth"
	"github.com/campus-events/client-go/services/checkin"
	"github.com/campus-events/client-go/services/events"
	"github.com/campus-events/client-go/services/notifications"
	"github.com/campus-events/client-go/services/organizer"
	"github.com/campus-events/client-go/services/registrations"
	"github.com/campus-events/client-go/session"
)

type app struct {
	cfg   *config.ClientConfig
	store *session.Store
	guard *inflight.Guard

	auth          *auth.Service
	events        *events.Service
	registrations *registrations.Service
	organizer     *organizer.Service
	admin         *admin.Service
	notifications *notifications.Service
	checkin       *checkin.Service
}

func newApp() *app {
	cfg := config.Load()
	log := logger.Default()

	store := session.NewStore(cfg.SessionFile, log)
	if err := store.Hydrate(); err != nil {
		log.WithError(err).Warn("could not restore session")
	}

	client := api.New(cfg, store, log)
	downloads := download.NewWriter(cfg.DownloadDir)

	return &app{
		cfg:           cfg,
		store:         store,
		guard:         inflight.NewGuard(),
		auth:          auth.NewService(client, store),
		events:        events.NewService(client),
		registrations: registrations.NewService(client, downloads),
		organizer:     organizer.NewService(client, downloads),
		admin:         admin.NewService(client, downloads),
		notifications: notifications.NewService(client),
		checkin:       checkin.NewService(client),
	}
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp()
	args := os.Args[2:]

	var err error
	switch os.Args[1] {
	case "login":
		err = a.cmdLogin(ctx, args)
	case "logout":
		err = a.auth.Logout()
	case "register":
		err = a.cmdRegister(ctx, args)
	case "whoami":
		err = a.cmdWhoami(ctx)
	case "profile":
		err = a.cmdProfile(ctx, args)
	case "events":
		err = a.cmdEvents(ctx, args)
	case "registrations":
		err = a.cmdRegistrations(ctx, args)
	case "waitlist":
		err = a.cmdWaitlist(ctx, args)
	case "ticket":
		err = a.cmdTicket(ctx, args)
	case "notifications":
		err = a.cmdNotifications(ctx, args)
	case "organizer":
		err = a.cmdOrganizer(ctx, args)
	case "checkin":
		err = a.cmdCheckin(ctx, args)
	case "admin":
		err = a.cmdAdmin(ctx, args)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: eventsctl <command> [flags]

commands:
  login, logout, register, whoami, profile
  events        list | show
  registrations list | create | cancel
  waitlist      list | join | leave
  ticket        qr | pdf
  notifications list | count | watch | read | read-all
  organizer     events | create | update | cancel | duplicate | attendees | export | announce | stats
  checkin       validate | scan | record | undo | history
  admin         organizers | events | categories | venues | audit | analytics | dashboard`)
}

// requireRole refuses role-gated commands before any network call, the
// same gate the navigation applies.
func (a *app) requireRole(roles ...string) error {
	if !a.store.Validate() {
		return fmt.Errorf("not logged in; run eventsctl login")
	}
	if !session.Allowed(a.store.Role(), roles) {
		return fmt.Errorf("requires role %s", strings.Join(roles, " or "))
	}
	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ============================================================
// Auth commands
// ============================================================

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	_ = fs.Parse(args)

	return a.guard.Do("login", func() error {
		user, err := a.auth.Login(ctx, *email, *password)
		if err != nil {
			return err
		}
		fmt.Printf("logged in as %s (%s)\n", user.Name, user.Role)
		return nil
	})
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	input := auth.RegisterInput{}
	fs.StringVar(&input.Name, "name", "", "full name")
	fs.StringVar(&input.Email, "email", "", "email")
	fs.StringVar(&input.Password, "password", "", "password")
	fs.StringVar(&input.Role, "role", models.RoleStudent, "student or organizer")
	fs.StringVar(&input.Phone, "phone", "", "phone (XXX-XXX-XXXX)")
	_ = fs.Parse(args)

	return a.guard.Do("register", func() error {
		user, err := a.auth.Register(ctx, input)
		if err != nil {
			return err
		}
		if user.Role == models.RoleOrganizer && !user.IsApproved {
			fmt.Println("account created; organizer access is pending admin approval")
			return nil
		}
		fmt.Println("account created; you can log in now")
		return nil
	})
}

func (a *app) cmdWhoami(ctx context.Context) error {
	user, err := a.auth.Probe(ctx)
	if err != nil {
		return err
	}
	return printJSON(user)
}

func (a *app) cmdProfile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	form := validator.ProfileForm{}
	fs.StringVar(&form.Name, "name", "", "full name")
	fs.StringVar(&form.Phone, "phone", "", "phone (XXX-XXX-XXXX)")
	_ = fs.Parse(args)

	return a.guard.Do("profile", func() error {
		user, err := a.auth.UpdateProfile(ctx, form)
		if err != nil {
			return err
		}
		return printJSON(user)
	})
}

// ============================================================
// Event browsing
// ============================================================

func (a *app) cmdEvents(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: eventsctl events list|show")
	}
	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("events list", flag.ExitOnError)
		filters := events.ListFilters{}
		fs.StringVar(&filters.Search, "search", "", "search term")
		fs.StringVar(&filters.Category, "category", "", "category slug")
		fs.StringVar(&filters.StartDate, "from", "", "start date (YYYY-MM-DD)")
		fs.StringVar(&filters.EndDate, "to", "", "end date (YYYY-MM-DD)")
		fs.StringVar(&filters.Availability, "availability", "", "available or waitlist")
		fs.StringVar(&filters.SortBy, "sort", "", "date or popularity")
		fs.IntVar(&filters.Page, "page", 0, "page number")
		fs.IntVar(&filters.Limit, "limit", 0, "page size")
		_ = fs.Parse(args[1:])

		page, err := a.events.List(ctx, filters)
		if err != nil {
			return err
		}
		for _, ev := range page.Events {
			fmt.Printf("%-12s %s  %s  %s (%d left)\n",
				ev.ID, ev.Date, ev.StartTime, ev.Title, events.SpotsLeft(ev))
		}
		fmt.Printf("%d event(s)\n", page.Total)
		return nil

	case "show":
		if len(args) < 2 {
			return fmt.Errorf("usage: eventsctl events show <id>")
		}
		ev, err := a.events.Get(ctx, args[1])
		if err != nil {
			return err
		}
		return printJSON(ev)
	}
	return fmt.Errorf("unknown events subcommand %q", args[0])
}

// ============================================================
// Registrations and waitlist
// ============================================================

func (a *app) cmdRegistrations(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: eventsctl registrations list|create|cancel")
	}
	if err := a.requireRole(); err != nil {
		return err
	}
	switch args[0] {
	case "list":
		list, err := a.registrations.List(ctx)
		if err != nil {
			return err
		}
		return printJSON(list)

	case "create":
		fs := flag.NewFlagSet("registrations create", flag.ExitOnError)
		eventID := fs.String("event", "", "event id")
		guests := fs.String("guests", "", "guests as name:email pairs, comma separated")
		sessions := fs.String("sessions", "", "session ids, comma separated")
		_ = fs.Parse(args[1:])

		return a.guard.Do("register:"+*eventID, func() error {
			reg, err := a.registrations.Create(ctx, *eventID, parseGuests(*guests), splitList(*sessions))
			if err != nil {
				return err
			}
			fmt.Printf("registered; ticket code %s\n", reg.TicketCode)
			return nil
		})

	case "cancel":
		if len(args) < 2 {
			return fmt.Errorf("usage: eventsctl registrations cancel <id>")
		}
		return a.guard.Do("cancel:"+args[1], func() error {
			return a.registrations.Cancel(ctx, args[1])
		})
	}
	return fmt.Errorf("unknown registrations subcommand %q", args[0])
}

func (a *app) cmdWaitlist(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: eventsctl waitlist list|join|leave")
	}
	if err := a.requireRole(); err != nil {
		return err
	}
	switch args[0] {
	case "list":
		list, err := a.registrations.Waitlist(ctx)
		if err != nil {
			return err
		}
		return printJSON(list)

	case "join":
		fs := flag.NewFlagSet("waitlist join", flag.ExitOnError)
		eventID := fs.String("event", "", "event id")
		notify := fs.String("notify", "email", "notification preference")
		_ = fs.Parse(args[1:])
		return a.guard.Do("waitlist:"+*eventID, func() error {
			entry, err := a.registrations.JoinWaitlist(ctx, *eventID, *notify)
			if err != nil {
				return err
			}
			fmt.Printf("waitlisted at position %d\n", entry.Position)
			return nil
		})

	case "leave":
		if len(args) < 2 {
			return fmt.Errorf("usage: eventsctl waitlist leave <entry-id>")
		}
		return a.registrations.LeaveWaitlist(ctx, args[1])
	}
	return fmt.Errorf("unknown waitlist subcommand %q", args[0])
}

func (a *app) cmdTicket(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: eventsctl ticket qr|pdf <registration-id>")
	}
	if err := a.requireRole(); err != nil {
		return err
	}

	list, err := a.registrations.List(ctx)
	if err != nil {
		return err
	}
	var reg *models.Registration
	for i := range list {
		if list[i].ID == args[1] {
			reg = &list[i]
			break
		}
	}
	if reg == nil {
		return fmt.Errorf("registration %s not found", args[1])
	}

	switch args[0] {
	case "qr":
		uri, err := a.registrations.TicketQR(*reg)
		if err != nil {
			return err
		}
		fmt.Println(uri)
		return nil

	case "pdf":
		ev, err := a.events.Get(ctx, reg.EventID)
		if err != nil {
			return err
		}
		user := a.store.Current()
		if user == nil {
			return fmt.Errorf("not logged in")
		}
		path, err := a.registrations.TicketPDF(*reg, *ev, *user)
		if err != nil {
			return err
		}
		fmt.Println("saved", path)
		return nil
	}
	return fmt.Errorf("unknown ticket subcommand %q", args[0])
}

// ============================================================
// Notifications
// ============================================================

func (a *app) cmdNotifications(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: eventsctl notifications list|count|watch|read|read-all")
	}
	if err := a.requireRole(); err != nil {
		return err
	}
	switch args[0] {
	case "list":
		list, err := a.notifications.List(ctx)
		if err != nil {
			return err
		}
		for _, n := range list {
			marker := " "
			if !n.IsRead {
				marker = "*"
			}
			fmt.Printf("%s %-12s %s\n", marker, n.ID, n.Title)
		}
		return nil

	case "count":
		count, err := a.notifications.UnreadCount(ctx)
		if err != nil {
			return err
		}
		fmt.Println(count)
		return nil

	case "watch":
		// Poll until interrupted; the signal context tears the poller down
		poller := notifications.NewPoller(a.notifications, a.cfg.PollInterval, func(count int) {
			fmt.Printf("unread: %d\n", count)
		}, logger.Default())
		poller.Start(ctx)
		<-ctx.Done()
		poller.Stop()
		return nil

	case "read":
		if len(args) < 2 {
			return fmt.Errorf("usage: eventsctl notifications read <id>")
		}
		return a.notifications.MarkRead(ctx, args[1])

	case "read-all":
		return a.notifications.MarkAllRead(ctx)
	}
	return fmt.Errorf("unknown notifications subcommand %q", args[0])
}

// ============================================================
// Organizer commands
// ============================================================

func (a *app) cmdOrganizer(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: eventsctl organizer <subcommand>")
	}
	if err := a.requireRole(models.RoleOrganizer, models.RoleAdmin); err != nil {
		return err
	}
	switch args[0] {
	case "events":
		list, err := a.organizer.Events(ctx)
		if err != nil {
			return err
		}
		for _, ev := range list {
			fmt.Printf("%-12s %-10s %s  %s\n", ev.ID, ev.Status, ev.Date, ev.Title)
		}
		return nil

	case "create", "update":
		fs := flag.NewFlagSet("organizer "+args[0], flag.ExitOnError)
		form := validator.EventForm{}
		id := fs.String("id", "", "event id (update only)")
		status := fs.String("status", "", "current status (update only)")
		venueCapacity := fs.Int("venue-capacity", 0, "selected venue capacity")
		tags := fs.String("tags", "", "tags, comma separated")
		fs.StringVar(&form.Title, "title", "", "event title")
		fs.StringVar(&form.Description, "description", "", "event description")
		fs.StringVar(&form.CategoryID, "category", "", "category id")
		fs.StringVar(&form.Date, "date", "", "date (YYYY-MM-DD)")
		fs.StringVar(&form.StartTime, "start", "", "start time (HH:MM)")
		fs.StringVar(&form.EndTime, "end", "", "end time (HH:MM)")
		fs.StringVar(&form.VenueID, "venue", "", "venue id")
		fs.StringVar(&form.Location, "location", "", "free-text location")
		fs.IntVar(&form.Capacity, "capacity", 0, "capacity")
		fs.StringVar(&form.ImageURL, "image", "", "image URL")
		fs.StringVar(&form.ChangeNote, "change-note", "", "change note (required for pending events)")
		_ = fs.Parse(args[1:])
		form.Tags = splitList(*tags)

		return a.guard.Do("organizer-event", func() error {
			var ev *models.Event
			var err error
			if args[0] == "create" {
				ev, err = a.organizer.CreateEvent(ctx, form, *venueCapacity)
			} else {
				ev, err = a.organizer.UpdateEvent(ctx, *id, form, *venueCapacity, *status)
			}
			if err != nil {
				return err
			}
			fmt.Printf("event %s is %s\n", ev.ID, ev.Status)
			return nil
		})

	case "cancel":
		if len(args) < 2 {
			return fmt.Errorf("usage: eventsctl organizer cancel <event-id>")
		}
		return a.guard.Do("cancel-event:"+args[1], func() error {
			return a.organizer.CancelEvent(ctx, args[1])
		})

	case "duplicate":
		if len(args) < 2 {
			return fmt.Errorf("usage: eventsctl organizer duplicate <event-id>")
		}
		ev, err := a.organizer.DuplicateEvent(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("created draft %s\n", ev.ID)
		return nil

	case "attendees":
		fs := flag.NewFlagSet("organizer attendees", flag.ExitOnError)
		eventID := fs.String("event", "", "event id")
		search := fs.String("search", "", "name/email/ticket search")
		status := fs.String("status", "all", "check-in status filter")
		_ = fs.Parse(args[1:])

		list, err := a.organizer.Attendees(ctx, *eventID, *search, *status)
		if err != nil {
			return err
		}
		for _, at := range list {
			fmt.Printf("%-12s %-24s %-28s %s (%d guests) %s\n",
				at.RegistrationID, at.Name, at.Email, at.TicketCode, at.GuestCount, at.CheckInStatus)
		}
		return nil

	case "export":
		fs := flag.NewFlagSet("organizer export", flag.ExitOnError)
		eventID := fs.String("event", "", "event id")
		_ = fs.Parse(args[1:])
		path, err := a.organizer.ExportAttendees(ctx, *eventID)
		if err != nil {
			return err
		}
		fmt.Println("saved", path)
		return nil

	case "announce":
		fs := flag.NewFlagSet("organizer announce", flag.ExitOnError)
		eventID := fs.String("event", "", "event id")
		subject := fs.String("subject", "", "announcement subject")
		message := fs.String("message", "", "announcement body")
		via := fs.String("via", "email", "channels, comma separated")
		_ = fs.Parse(args[1:])
		return a.guard.Do("announce:"+*eventID, func() error {
			return a.organizer.SendAnnouncement(ctx, *eventID, *subject, *message, splitList(*via))
		})

	case "stats":
		stats, err := a.organizer.Statistics(ctx)
		if err != nil {
			return err
		}
		return printJSON(stats)
	}
	return fmt.Errorf("unknown organizer subcommand %q", args[0])
}

// ============================================================
// Check-in commands
// ============================================================

func (a *app) cmdCheckin(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: eventsctl checkin validate|scan|record|undo|history")
	}
	if err := a.requireRole(models.RoleOrganizer, models.RoleAdmin); err != nil {
		return err
	}
	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("checkin validate", flag.ExitOnError)
		eventID := fs.String("event", "", "event id")
		code := fs.String("code", "", "ticket code")
		_ = fs.Parse(args[1:])
		attendee, err := a.checkin.ValidateCode(ctx, *eventID, *code)
		if err != nil {
			return err
		}
		return printJSON(attendee)

	case "scan":
		fs := flag.NewFlagSet("checkin scan", flag.ExitOnError)
		eventID := fs.String("event", "", "event id")
		code := fs.String("code", "", "ticket code")
		_ = fs.Parse(args[1:])
		return a.guard.Do("checkin:"+*code, func() error {
			record, err := a.checkin.CheckInByCode(ctx, *eventID, *code)
			if err != nil {
				return err
			}
			fmt.Printf("checked in (record %s)\n", record.ID)
			return nil
		})

	case "record":
		fs := flag.NewFlagSet("checkin record", flag.ExitOnError)
		eventID := fs.String("event", "", "event id")
		regID := fs.String("registration", "", "registration id")
		method := fs.String("method", models.CheckInMethodManual, "qr_scan, manual, or search")
		_ = fs.Parse(args[1:])
		return a.guard.Do("checkin:"+*regID, func() error {
			record, err := a.checkin.CheckIn(ctx, *eventID, *regID, *method)
			if err != nil {
				return err
			}
			fmt.Printf("checked in (record %s)\n", record.ID)
			return nil
		})

	case "undo":
		if len(args) < 2 {
			return fmt.Errorf("usage: eventsctl checkin undo <checkin-id>")
		}
		return a.checkin.Undo(ctx, args[1])

	case "history":
		fs := flag.NewFlagSet("checkin history", flag.ExitOnError)
		eventID := fs.String("event", "", "event id")
		_ = fs.Parse(args[1:])
		list, err := a.checkin.History(ctx, *eventID)
		if err != nil {
			return err
		}
		return printJSON(list)
	}
	return fmt.Errorf("unknown checkin subcommand %q", args[0])
}

// ============================================================
// Admin commands
// ============================================================

func (a *app) cmdAdmin(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: eventsctl admin <subcommand>")
	}
	if err := a.requireRole(models.RoleAdmin); err != nil {
		return err
	}
	switch args[0] {
	case "organizers":
		return a.cmdAdminOrganizers(ctx, args[1:])
	case "events":
		return a.cmdAdminEvents(ctx, args[1:])
	case "categories":
		return a.cmdAdminCategories(ctx, args[1:])
	case "venues":
		return a.cmdAdminVenues(ctx, args[1:])
	case "audit":
		return a.cmdAdminAudit(ctx, args[1:])
	case "analytics":
		if len(args) > 1 && args[1] == "export" {
			path, err := a.admin.ExportAnalytics(ctx)
			if err != nil {
				return err
			}
			fmt.Println("saved", path)
			return nil
		}
		stats, err := a.admin.Analytics(ctx)
		if err != nil {
			return err
		}
		return printJSON(stats)
	case "dashboard":
		dash, err := a.admin.Dashboard(ctx)
		if err != nil {
			return err
		}
		return printJSON(dash)
	}
	return fmt.Errorf("unknown admin subcommand %q", args[0])
}

func (a *app) cmdAdminOrganizers(ctx context.Context, args []string) error {
	if len(args) == 0 {
		list, err := a.admin.PendingOrganizers(ctx)
		if err != nil {
			return err
		}
		return printJSON(list)
	}
	switch args[0] {
	case "approve":
		if len(args) < 2 {
			return fmt.Errorf("usage: eventsctl admin organizers approve <user-id>")
		}
		return a.guard.Do("organizer:"+args[1], func() error {
			return a.admin.ApproveOrganizer(ctx, args[1])
		})
	case "reject":
		fs := flag.NewFlagSet("admin organizers reject", flag.ExitOnError)
		id := fs.String("id", "", "user id")
		notes := fs.String("notes", "", "rejection notes (required)")
		_ = fs.Parse(args[1:])
		return a.guard.Do("organizer:"+*id, func() error {
			return a.admin.RejectOrganizer(ctx, *id, *notes)
		})
	}
	return fmt.Errorf("unknown organizers subcommand %q", args[0])
}

func (a *app) cmdAdminEvents(ctx context.Context, args []string) error {
	if len(args) == 0 {
		list, err := a.admin.PendingEvents(ctx)
		if err != nil {
			return err
		}
		return printJSON(list)
	}
	switch args[0] {
	case "approve":
		if len(args) < 2 {
			return fmt.Errorf("usage: eventsctl admin events approve <event-id>")
		}
		return a.guard.Do("event:"+args[1], func() error {
			return a.admin.ApproveEvent(ctx, args[1])
		})
	case "reject":
		fs := flag.NewFlagSet("admin events reject", flag.ExitOnError)
		id := fs.String("id", "", "event id")
		notes := fs.String("notes", "", "rejection notes (required)")
		_ = fs.Parse(args[1:])
		return a.guard.Do("event:"+*id, func() error {
			return a.admin.RejectEvent(ctx, *id, *notes)
		})
	}
	return fmt.Errorf("unknown events subcommand %q", args[0])
}

func (a *app) cmdAdminCategories(ctx context.Context, args []string) error {
	if len(args) == 0 {
		list, err := a.admin.Categories(ctx)
		if err != nil {
			return err
		}
		return printJSON(list)
	}
	fs := flag.NewFlagSet("admin categories", flag.ExitOnError)
	id := fs.String("id", "", "category id")
	name := fs.String("name", "", "category name")
	color := fs.String("color", "", "display color")
	_ = fs.Parse(args[1:])

	switch args[0] {
	case "create":
		cat, err := a.admin.CreateCategory(ctx, *name, *color)
		if err != nil {
			return err
		}
		fmt.Printf("created %s (%s)\n", cat.ID, cat.Slug)
		return nil
	case "update":
		_, err := a.admin.UpdateCategory(ctx, *id, *name, *color)
		return err
	case "activate":
		return a.admin.SetCategoryActive(ctx, *id, true)
	case "deactivate":
		return a.admin.SetCategoryActive(ctx, *id, false)
	case "delete":
		return a.admin.DeleteCategory(ctx, *id)
	}
	return fmt.Errorf("unknown categories subcommand %q", args[0])
}

func (a *app) cmdAdminVenues(ctx context.Context, args []string) error {
	if len(args) == 0 {
		list, err := a.admin.Venues(ctx)
		if err != nil {
			return err
		}
		return printJSON(list)
	}
	fs := flag.NewFlagSet("admin venues", flag.ExitOnError)
	id := fs.String("id", "", "venue id")
	input := admin.VenueInput{}
	facilities := fs.String("facilities", "", "facilities, comma separated")
	fs.StringVar(&input.Name, "name", "", "venue name")
	fs.StringVar(&input.Building, "building", "", "venue building")
	fs.IntVar(&input.Capacity, "capacity", 0, "venue capacity")
	_ = fs.Parse(args[1:])
	input.Facilities = admin.SplitFacilities(*facilities)

	switch args[0] {
	case "create":
		venue, err := a.admin.CreateVenue(ctx, input)
		if err != nil {
			return err
		}
		fmt.Printf("created venue %s\n", venue.ID)
		return nil
	case "update":
		_, err := a.admin.UpdateVenue(ctx, *id, input)
		return err
	case "activate":
		return a.admin.SetVenueActive(ctx, *id, true)
	case "deactivate":
		return a.admin.SetVenueActive(ctx, *id, false)
	case "delete":
		return a.admin.DeleteVenue(ctx, *id)
	}
	return fmt.Errorf("unknown venues subcommand %q", args[0])
}

func (a *app) cmdAdminAudit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("admin audit", flag.ExitOnError)
	filters := admin.AuditFilters{}
	search := fs.String("search", "", "local substring search")
	action := fs.String("action", "all", "action category filter")
	export := fs.Bool("export", false, "save the full log as CSV")
	fs.StringVar(&filters.StartDate, "from", "", "start date (YYYY-MM-DD)")
	fs.StringVar(&filters.EndDate, "to", "", "end date (YYYY-MM-DD)")
	_ = fs.Parse(args)

	if *export {
		path, err := a.admin.ExportAuditLogs(ctx)
		if err != nil {
			return err
		}
		fmt.Println("saved", path)
		return nil
	}

	logs, err := a.admin.AuditLogs(ctx, filters)
	if err != nil {
		return err
	}
	return printJSON(admin.SearchAuditLogs(logs, *search, *action))
}

// ============================================================
// Flag helpers
// ============================================================

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseGuests parses "Name:email,Name:email" into guest records
func parseGuests(s string) []models.Guest {
	var guests []models.Guest
	for _, pair := range splitList(s) {
		name, email, _ := strings.Cut(pair, ":")
		guests = append(guests, models.Guest{
			Name:  strings.TrimSpace(name),
			Email: strings.TrimSpace(email),
		})
	}
	return guests
}

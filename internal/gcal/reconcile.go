package gcal

import (
	"context"
	"fmt"
	"time"

	"github.com/pfrederiksen/gradescope-sync/internal/logger"
	"google.golang.org/api/calendar/v3"
)

// DefaultCalendarID targets the account's primary calendar.
const DefaultCalendarID = "primary"

// DisplayTimeZone is affixed to every event. Due-date text that carries
// its own offset keeps it; civil times parsed without one are pinned
// here at the reconcile boundary.
const DisplayTimeZone = "America/New_York"

// Reminder offsets in minutes before the due date.
const (
	reminderHourMinutes = 60
	reminderDayMinutes  = 1440
)

// Outcome reports what Reconcile did with one assignment. The zero
// value is SkippedUnparseable, the no-write outcome.
type Outcome int

const (
	SkippedUnparseable Outcome = iota
	Created
	Updated
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Updated:
		return "updated"
	default:
		return "skipped"
	}
}

// Reconciler maps one assignment onto exactly one calendar event, keyed
// by the event title.
type Reconciler struct {
	api        API
	calendarID string
	loc        *time.Location
}

// NewReconciler builds a Reconciler for the given calendar. An empty
// calendarID targets the primary calendar.
func NewReconciler(api API, calendarID string) (*Reconciler, error) {
	loc, err := time.LoadLocation(DisplayTimeZone)
	if err != nil {
		return nil, fmt.Errorf("loading display timezone: %w", err)
	}
	if calendarID == "" {
		calendarID = DefaultCalendarID
	}
	return &Reconciler{
		api:        api,
		calendarID: calendarID,
		loc:        loc,
	}, nil
}

// Reconcile creates or updates the event titled title. A zero due time
// means the due date never parsed: there is nothing to schedule, so the
// calendar is not contacted at all. Otherwise exactly one remote write
// happens: an in-place update when an event with that exact title
// already exists, an insert when none does.
func (r *Reconciler) Reconcile(ctx context.Context, title string, due time.Time, description, location string) (Outcome, error) {
	if due.IsZero() {
		return SkippedUnparseable, nil
	}

	body := r.eventBody(title, due, description, location)

	if existing := r.lookup(ctx, title); existing != nil {
		if _, err := r.api.Update(ctx, r.calendarID, existing.Id, body); err != nil {
			return SkippedUnparseable, fmt.Errorf("updating event %q: %w", title, err)
		}
		return Updated, nil
	}

	if _, err := r.api.Insert(ctx, r.calendarID, body); err != nil {
		return SkippedUnparseable, fmt.Errorf("inserting event %q: %w", title, err)
	}
	return Created, nil
}

// lookup finds the first event whose title equals title exactly. The
// remote search is full-text, so similarly named assignments come back
// too; the equality filter keeps those from being overwritten. When the
// search itself fails the error is logged and treated as "no existing
// event", letting the caller fall through to an insert.
func (r *Reconciler) lookup(ctx context.Context, title string) *calendar.Event {
	events, err := r.api.Search(ctx, r.calendarID, title)
	if err != nil {
		logger.Warn("calendar lookup failed, assuming no existing event", logger.Fields{
			"title": title,
			"error": err.Error(),
		})
		return nil
	}
	for _, ev := range events {
		if ev.Summary == title {
			// First exact match wins; remote duplicates are ignored.
			return ev
		}
	}
	return nil
}

// eventBody builds the full event replacement. Start and end are the
// same instant: due dates are markers, not ranges.
func (r *Reconciler) eventBody(title string, due time.Time, description, location string) *calendar.Event {
	when := pinZone(due, r.loc).Format(time.RFC3339)
	return &calendar.Event{
		Summary:     title,
		Description: description,
		Location:    location,
		Start: &calendar.EventDateTime{
			DateTime: when,
			TimeZone: DisplayTimeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: when,
			TimeZone: DisplayTimeZone,
		},
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "popup", Minutes: reminderHourMinutes},
				{Method: "popup", Minutes: reminderDayMinutes},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}
}

// pinZone rebuilds a civil time in the display timezone. Times that
// arrived with an embedded offset are already absolute and pass through
// untouched; the UTC placeholder location marks a naive parse.
func pinZone(t time.Time, loc *time.Location) time.Time {
	if _, offset := t.Zone(); offset != 0 || t.Location() != time.UTC {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
}

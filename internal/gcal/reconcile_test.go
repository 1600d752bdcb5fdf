package gcal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"google.golang.org/api/calendar/v3"
)

// fakeAPI is an in-memory Calendar API. Search mimics the remote
// full-text behavior: it returns every event whose summary contains the
// query, not only exact matches.
type fakeAPI struct {
	events    []*calendar.Event
	nextID    int
	searchErr error

	searches int
	inserts  int
	updates  int
}

func (f *fakeAPI) Search(_ context.Context, _ string, query string) ([]*calendar.Event, error) {
	f.searches++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	matches := make([]*calendar.Event, 0)
	for _, ev := range f.events {
		if strings.Contains(ev.Summary, query) || strings.Contains(query, ev.Summary) {
			matches = append(matches, ev)
		}
	}
	return matches, nil
}

func (f *fakeAPI) Insert(_ context.Context, _ string, ev *calendar.Event) (*calendar.Event, error) {
	f.inserts++
	f.nextID++
	ev.Id = fmt.Sprintf("evt-%d", f.nextID)
	f.events = append(f.events, ev)
	return ev, nil
}

func (f *fakeAPI) Update(_ context.Context, _ string, eventID string, ev *calendar.Event) (*calendar.Event, error) {
	f.updates++
	for i, existing := range f.events {
		if existing.Id == eventID {
			ev.Id = eventID
			f.events[i] = ev
			return ev, nil
		}
	}
	return nil, fmt.Errorf("no event with id %s", eventID)
}

func (f *fakeAPI) countWithTitle(title string) int {
	n := 0
	for _, ev := range f.events {
		if ev.Summary == title {
			n++
		}
	}
	return n
}

func newTestReconciler(t *testing.T, api API) *Reconciler {
	t.Helper()
	r, err := NewReconciler(api, "")
	if err != nil {
		t.Fatalf("NewReconciler() failed: %v", err)
	}
	return r
}

func TestReconcile_SkipWithoutRemoteCalls(t *testing.T) {
	fake := &fakeAPI{}
	r := newTestReconciler(t, fake)

	outcome, err := r.Reconcile(context.Background(), "HW 1 - CS 2110", time.Time{}, "desc", "")
	if err != nil {
		t.Fatalf("Reconcile() unexpected error: %v", err)
	}
	if outcome != SkippedUnparseable {
		t.Errorf("Reconcile() = %v, want SkippedUnparseable", outcome)
	}
	if fake.searches != 0 || fake.inserts != 0 || fake.updates != 0 {
		t.Errorf("skip contacted the calendar: searches=%d inserts=%d updates=%d",
			fake.searches, fake.inserts, fake.updates)
	}
}

func TestReconcile_CreatedThenUpdated(t *testing.T) {
	fake := &fakeAPI{}
	r := newTestReconciler(t, fake)
	due := time.Date(2026, time.January, 15, 23, 59, 0, 0, time.UTC)

	outcome, err := r.Reconcile(context.Background(), "HW 1 - CS 2110", due, "desc", "")
	if err != nil {
		t.Fatalf("first Reconcile() failed: %v", err)
	}
	if outcome != Created {
		t.Errorf("first Reconcile() = %v, want Created", outcome)
	}

	outcome, err = r.Reconcile(context.Background(), "HW 1 - CS 2110", due, "desc", "")
	if err != nil {
		t.Fatalf("second Reconcile() failed: %v", err)
	}
	if outcome != Updated {
		t.Errorf("second Reconcile() = %v, want Updated", outcome)
	}

	if n := fake.countWithTitle("HW 1 - CS 2110"); n != 1 {
		t.Errorf("expected exactly 1 event with the title, got %d", n)
	}
}

func TestReconcile_UpdateReplacesDueDate(t *testing.T) {
	fake := &fakeAPI{}
	r := newTestReconciler(t, fake)

	ts1 := time.Date(2026, time.January, 15, 23, 59, 0, 0, time.UTC)
	ts2 := time.Date(2026, time.January, 22, 23, 59, 0, 0, time.UTC)

	if _, err := r.Reconcile(context.Background(), "HW 1 - CS 2110", ts1, "desc", ""); err != nil {
		t.Fatalf("first Reconcile() failed: %v", err)
	}
	if _, err := r.Reconcile(context.Background(), "HW 1 - CS 2110", ts2, "desc", ""); err != nil {
		t.Fatalf("second Reconcile() failed: %v", err)
	}

	if len(fake.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(fake.events))
	}
	ev := fake.events[0]

	loc, err := time.LoadLocation(DisplayTimeZone)
	if err != nil {
		t.Fatalf("loading display timezone: %v", err)
	}
	want := time.Date(2026, time.January, 22, 23, 59, 0, 0, loc).Format(time.RFC3339)
	if ev.Start.DateTime != want {
		t.Errorf("event start = %q, want %q", ev.Start.DateTime, want)
	}
	if ev.End.DateTime != ev.Start.DateTime {
		t.Errorf("event end = %q, want equal to start %q", ev.End.DateTime, ev.Start.DateTime)
	}
}

func TestReconcile_ExactTitleFilter(t *testing.T) {
	// A fuzzy near-miss is already on the calendar. It must not be
	// updated; the reconciler creates a fresh event instead.
	fake := &fakeAPI{
		events: []*calendar.Event{{Id: "evt-existing", Summary: "HW 1 - CS 2110 (late)"}},
		nextID: 100,
	}
	r := newTestReconciler(t, fake)
	due := time.Date(2026, time.January, 15, 23, 59, 0, 0, time.UTC)

	outcome, err := r.Reconcile(context.Background(), "HW 1 - CS 2110", due, "desc", "")
	if err != nil {
		t.Fatalf("Reconcile() failed: %v", err)
	}
	if outcome != Created {
		t.Errorf("Reconcile() = %v, want Created despite fuzzy match", outcome)
	}
	if fake.updates != 0 {
		t.Errorf("fuzzy match was updated: updates=%d", fake.updates)
	}
}

func TestReconcile_FirstExactMatchWins(t *testing.T) {
	// Duplicate exact titles already exist remotely. The reconciler
	// commits to the first one and leaves the rest alone.
	fake := &fakeAPI{
		events: []*calendar.Event{
			{Id: "evt-1", Summary: "HW 1 - CS 2110"},
			{Id: "evt-2", Summary: "HW 1 - CS 2110"},
		},
		nextID: 100,
	}
	r := newTestReconciler(t, fake)
	due := time.Date(2026, time.January, 15, 23, 59, 0, 0, time.UTC)

	outcome, err := r.Reconcile(context.Background(), "HW 1 - CS 2110", due, "desc", "")
	if err != nil {
		t.Fatalf("Reconcile() failed: %v", err)
	}
	if outcome != Updated {
		t.Errorf("Reconcile() = %v, want Updated", outcome)
	}
	if fake.events[0].Id != "evt-1" || fake.events[0].Description != "desc" {
		t.Error("expected the first exact match to be the one updated")
	}
	if fake.events[1].Description != "" {
		t.Error("second duplicate should be untouched")
	}
}

func TestReconcile_LookupFailureFallsThroughToInsert(t *testing.T) {
	fake := &fakeAPI{searchErr: errors.New("quota exceeded")}
	r := newTestReconciler(t, fake)
	due := time.Date(2026, time.January, 15, 23, 59, 0, 0, time.UTC)

	outcome, err := r.Reconcile(context.Background(), "HW 1 - CS 2110", due, "desc", "")
	if err != nil {
		t.Fatalf("Reconcile() failed: %v", err)
	}
	if outcome != Created {
		t.Errorf("Reconcile() = %v, want Created after failed lookup", outcome)
	}
	if fake.inserts != 1 {
		t.Errorf("inserts = %d, want 1", fake.inserts)
	}
}

func TestReconcile_Reminders(t *testing.T) {
	fake := &fakeAPI{}
	r := newTestReconciler(t, fake)
	due := time.Date(2026, time.January, 15, 23, 59, 0, 0, time.UTC)

	if _, err := r.Reconcile(context.Background(), "HW 1 - CS 2110", due, "desc", ""); err != nil {
		t.Fatalf("Reconcile() failed: %v", err)
	}

	rem := fake.events[0].Reminders
	if rem == nil || rem.UseDefault {
		t.Fatal("expected reminders with UseDefault=false")
	}
	if len(rem.Overrides) != 2 {
		t.Fatalf("expected 2 reminder overrides, got %d", len(rem.Overrides))
	}
	minutes := map[int64]bool{}
	for _, o := range rem.Overrides {
		if o.Method != "popup" {
			t.Errorf("reminder method = %q, want popup", o.Method)
		}
		minutes[o.Minutes] = true
	}
	if !minutes[60] || !minutes[1440] {
		t.Errorf("reminder minutes = %v, want 60 and 1440", minutes)
	}
}

func TestPinZone(t *testing.T) {
	loc, err := time.LoadLocation(DisplayTimeZone)
	if err != nil {
		t.Fatalf("loading display timezone: %v", err)
	}

	naive := time.Date(2026, time.January, 15, 23, 59, 0, 0, time.UTC)
	pinned := pinZone(naive, loc)
	if pinned.Location() != loc {
		t.Errorf("naive time pinned to %v, want %v", pinned.Location(), loc)
	}
	if pinned.Hour() != 23 || pinned.Minute() != 59 {
		t.Errorf("pinning changed the civil time: got %02d:%02d", pinned.Hour(), pinned.Minute())
	}

	offset := time.FixedZone("", -7*60*60)
	zoned := time.Date(2026, time.January, 15, 23, 59, 0, 0, offset)
	if kept := pinZone(zoned, loc); !kept.Equal(zoned) || kept.Location() != offset {
		t.Error("time with an embedded offset should pass through untouched")
	}
}

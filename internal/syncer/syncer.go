package syncer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pfrederiksen/gradescope-sync/internal/duedate"
	"github.com/pfrederiksen/gradescope-sync/internal/gcal"
	"github.com/pfrederiksen/gradescope-sync/internal/gradescope"
	"github.com/pfrederiksen/gradescope-sync/internal/logger"
)

// Portal is the slice of the Gradescope client the syncer drives.
type Portal interface {
	Login(email, password string) error
	Courses() ([]*gradescope.Course, error)
	Assignments(courseID string) ([]*gradescope.Assignment, error)
}

// Reconciler maps one assignment title onto one calendar event.
type Reconciler interface {
	Reconcile(ctx context.Context, title string, due time.Time, description, location string) (gcal.Outcome, error)
}

// Summary aggregates per-assignment outcomes for one run.
type Summary struct {
	Courses int
	Created int
	Updated int
	Skipped int
}

func (s *Summary) record(o gcal.Outcome) {
	switch o {
	case gcal.Created:
		s.Created++
	case gcal.Updated:
		s.Updated++
	case gcal.SkippedUnparseable:
		s.Skipped++
	}
}

// Syncer composes the portal and the reconciler for one run.
type Syncer struct {
	portal Portal
	rec    Reconciler
	out    io.Writer
}

// New creates a Syncer narrating progress to out.
func New(portal Portal, rec Reconciler, out io.Writer) *Syncer {
	return &Syncer{
		portal: portal,
		rec:    rec,
		out:    out,
	}
}

// Run executes one full sync: log in, then process every course and
// every assignment strictly in listing order. Each assignment goes
// through normalize-then-reconcile before the next one starts. Any
// error returned here aborts the run; per-assignment degradation
// (missing due dates, failed lookups) is handled below this level and
// only counted.
func (s *Syncer) Run(ctx context.Context, email, password string) (*Summary, error) {
	fmt.Fprintf(s.out, "Logging into Gradescope as %s...\n", email)
	if err := s.portal.Login(email, password); err != nil {
		return nil, err
	}

	courses, err := s.portal.Courses()
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	fmt.Fprintf(s.out, "Found %d courses.\n", len(courses))

	summary := &Summary{}
	for _, course := range courses {
		fmt.Fprintf(s.out, "\n%s:\n", course.ShortName)
		summary.Courses++

		assignments, err := s.portal.Assignments(course.ID)
		if err != nil {
			return nil, fmt.Errorf("listing assignments for %s: %w", course.ShortName, err)
		}

		for _, a := range assignments {
			due := duedate.Normalize(a.DueDateText)
			if due.IsZero() && a.DueDateText != "" {
				logger.Debug("due date text did not parse", logger.Fields{
					"assignment": a.Name,
					"text":       a.DueDateText,
				})
			}

			title := eventTitle(a, course)
			outcome, err := s.rec.Reconcile(ctx, title, due, description(course, a), a.SourceURL)
			if err != nil {
				return nil, err
			}
			summary.record(outcome)
			fmt.Fprintf(s.out, "  %s: %s\n", outcome, a.Name)
		}
	}

	return summary, nil
}

// eventTitle is the reconciliation identity key: the same assignment
// must produce the same title on every run.
func eventTitle(a *gradescope.Assignment, course *gradescope.Course) string {
	return fmt.Sprintf("%s - %s", a.Name, course.ShortName)
}

// description builds the body text shown in the calendar entry.
func description(course *gradescope.Course, a *gradescope.Assignment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Course: %s", course.FullName)
	if a.DueDateText != "" {
		fmt.Fprintf(&b, "\nDue: %s", a.DueDateText)
	}
	if a.SourceURL != "" {
		fmt.Fprintf(&b, "\n%s", a.SourceURL)
	}
	return b.String()
}

package gcal

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// API is the slice of the Google Calendar surface the reconciler
// consumes: free-text event search, insert, and update. Tests implement
// it with an in-memory fake.
type API interface {
	Search(ctx context.Context, calendarID, query string) ([]*calendar.Event, error)
	Insert(ctx context.Context, calendarID string, ev *calendar.Event) (*calendar.Event, error)
	Update(ctx context.Context, calendarID, eventID string, ev *calendar.Event) (*calendar.Event, error)
}

// service implements API against the real Calendar API.
type service struct {
	svc *calendar.Service
}

// NewService builds a Calendar client from an oauth2 token source.
func NewService(ctx context.Context, ts oauth2.TokenSource) (API, error) {
	svc, err := calendar.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("creating calendar service: %w", err)
	}
	return &service{svc: svc}, nil
}

func (s *service) Search(ctx context.Context, calendarID, query string) ([]*calendar.Event, error) {
	events, err := s.svc.Events.List(calendarID).Q(query).SingleEvents(true).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return events.Items, nil
}

func (s *service) Insert(ctx context.Context, calendarID string, ev *calendar.Event) (*calendar.Event, error) {
	return s.svc.Events.Insert(calendarID, ev).Context(ctx).Do()
}

func (s *service) Update(ctx context.Context, calendarID, eventID string, ev *calendar.Event) (*calendar.Event, error) {
	return s.svc.Events.Update(calendarID, eventID, ev).Context(ctx).Do()
}

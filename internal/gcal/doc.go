// Package gcal reconciles assignment due dates against Google Calendar.
//
// Each assignment maps to exactly one event, keyed by the event title.
// The remote search is full-text rather than exact, so every lookup is
// followed by a client-side exact-title filter before deciding between
// an insert and an in-place update. Events are never deleted: an
// assignment that disappears from the portal leaves its event behind,
// which is a documented limitation of title-keyed reconciliation.
package gcal

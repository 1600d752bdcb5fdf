// Package syncer drives the scrape-normalize-reconcile pipeline.
//
// One run logs into Gradescope once, walks every course and every
// assignment in the order the portal lists them, normalizes each due
// date, and reconciles each assignment against the calendar before
// moving on. The syncer owns no domain logic: extraction heuristics
// live in the gradescope package, date parsing in duedate, and the
// create-or-update decision in gcal. It only composes them, narrates
// progress, and counts outcomes.
package syncer

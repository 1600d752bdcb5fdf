// Package gradescope scrapes course and assignment listings from the
// Gradescope web interface.
//
// Gradescope has no public API, so the package logs in through the HTML
// login form (lifting the hidden anti-forgery token the form requires)
// and extracts structured records from server-rendered pages. The markup
// is an external contract that Gradescope can change at any time: every
// matching heuristic lives behind Courses and Assignments so the rest of
// the pipeline depends only on the Course and Assignment shapes, and the
// absence of any optional field degrades row by row instead of failing
// the scan.
package gradescope

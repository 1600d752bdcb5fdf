package gradescope

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Assignment is one row of a course's assignment table. DueDateText is
// the portal's raw text, unparsed; an empty value means the assignment
// has no due date, which is a valid terminal state.
type Assignment struct {
	Name        string `json:"name"`
	ID          string `json:"id,omitempty"`
	DueDateText string `json:"due_date_text,omitempty"`
	SourceURL   string `json:"source_url,omitempty"`
}

var (
	assignmentIDPattern = regexp.MustCompile(`/assignments/(\d+)`)
	timeOfDayPattern    = regexp.MustCompile(`(?i)\d{1,2}:\d{2}\s*(AM|PM)?`)
)

// Assignments fetches a course page and scans its assignment table.
func (c *Client) Assignments(courseID string) ([]*Assignment, error) {
	doc, err := c.getDocument("/courses/" + courseID)
	if err != nil {
		return nil, fmt.Errorf("fetching course %s: %w", courseID, err)
	}
	return c.parseAssignments(doc), nil
}

// parseAssignments keeps table rows with at least three cells and a link
// in the first cell; rows without one (headers, unreleased assignments)
// are skipped, not errored. Due-date text is found in two stages: a
// heuristic scan of the later cells for a time-of-day pattern or the
// literal "due", then any <time> element in the row overrides the
// heuristic with its datetime attribute (or its visible text). Course
// layouts disagree about which cell holds the date, but the time
// element's machine-readable attribute is reliable when present.
func (c *Client) parseAssignments(doc *goquery.Document) []*Assignment {
	assignments := make([]*Assignment, 0)

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td, th")
		if cells.Length() < 3 {
			return
		}

		link := cells.First().Find("a").First()
		if link.Length() == 0 {
			return
		}

		a := &Assignment{Name: strings.TrimSpace(link.Text())}
		if href, ok := link.Attr("href"); ok && href != "" {
			a.SourceURL = c.BaseURL + href
			if m := assignmentIDPattern.FindStringSubmatch(href); m != nil {
				a.ID = m[1]
			}
		}

		cells.Slice(1, cells.Length()).EachWithBreak(func(_ int, cell *goquery.Selection) bool {
			text := strings.TrimSpace(cell.Text())
			if text == "" {
				return true
			}
			if timeOfDayPattern.MatchString(text) || strings.Contains(strings.ToLower(text), "due") {
				a.DueDateText = text
				return false
			}
			return true
		})

		if el := row.Find("time").First(); el.Length() > 0 {
			if dt, ok := el.Attr("datetime"); ok && strings.TrimSpace(dt) != "" {
				a.DueDateText = strings.TrimSpace(dt)
			} else if text := strings.TrimSpace(el.Text()); text != "" {
				a.DueDateText = text
			}
		}

		assignments = append(assignments, a)
	})

	return assignments
}

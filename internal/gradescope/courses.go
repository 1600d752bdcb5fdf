package gradescope

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Course is one course box on the Gradescope account page. Courses are
// rebuilt from the listing on every run and never persisted.
type Course struct {
	ID        string `json:"id"`
	ShortName string `json:"short_name"`
	FullName  string `json:"full_name"`
	SourceURL string `json:"source_url"`
}

// ShortNamePlaceholder stands in when a course box has no heading.
const ShortNamePlaceholder = "Unnamed Course"

var (
	courseHrefPattern      = regexp.MustCompile(`^/courses/(\d+)`)
	courseNameClassPattern = regexp.MustCompile(`courseBox--name`)
)

// Courses scans the account page for links to course pages.
func (c *Client) Courses() ([]*Course, error) {
	doc, err := c.getDocument("/account")
	if err != nil {
		return nil, fmt.Errorf("fetching account page: %w", err)
	}
	return c.parseCourses(doc), nil
}

// parseCourses extracts one Course per anchor whose target matches the
// course URL pattern, taking the trailing path segment as the course ID.
// Missing metadata degrades box by box: no heading falls back to a
// placeholder short name, no name element reuses the short name as the
// full name. Nothing here aborts the scan.
func (c *Client) parseCourses(doc *goquery.Document) []*Course {
	courses := make([]*Course, 0)

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		m := courseHrefPattern.FindStringSubmatch(href)
		if m == nil {
			return
		}

		course := &Course{
			ID:        m[1],
			SourceURL: c.BaseURL + href,
		}

		short := strings.TrimSpace(sel.Find("h1, h2, h3, h4").First().Text())
		if short == "" {
			short = ShortNamePlaceholder
		}
		course.ShortName = short

		full := ""
		sel.Find("[class]").EachWithBreak(func(_ int, el *goquery.Selection) bool {
			class, _ := el.Attr("class")
			if courseNameClassPattern.MatchString(class) {
				full = strings.TrimSpace(el.Text())
				return false
			}
			return true
		})
		if full == "" {
			full = short
		}
		course.FullName = full

		courses = append(courses, course)
	})

	return courses
}

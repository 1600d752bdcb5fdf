package gradescope

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	BaseURL   = "https://www.gradescope.com"
	UserAgent = "gradescope-sync/1.0 (github.com/pfrederiksen/gradescope-sync)"
	Timeout   = 30 * time.Second
)

// Login outcomes the portal can signal. All three abort the run: there
// is nothing to scrape without an authenticated session.
var (
	ErrNoAuthToken        = errors.New("gradescope: login page has no authenticity token (form contract changed or wrong page)")
	ErrInvalidCredentials = errors.New("gradescope: invalid email or password")
	ErrUnexpectedRedirect = errors.New("gradescope: login did not land on the account page")
)

// Markers embedded in login response bodies. The portal answers HTTP 200
// for both outcomes, so these are the only reliable signals.
const (
	invalidCredsMarker   = "Invalid email/password combination"
	coursesListingMarker = "Your Courses"
)

// Client is an authenticated Gradescope session. The cookie jar holds
// the session cookie for the lifetime of one sync run; a Client is not
// safe for concurrent use.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New creates a Client with a fresh cookie jar.
func New() (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	return &Client{
		BaseURL: BaseURL,
		HTTPClient: &http.Client{
			Jar:     jar,
			Timeout: Timeout,
		},
	}, nil
}

// Login fetches the login form, lifts its hidden anti-forgery token, and
// posts the credentials alongside it. Success cannot be read off the
// status code: the landing URL and response body are inspected instead.
func (c *Client) Login(email, password string) error {
	doc, err := c.getDocument("/login")
	if err != nil {
		return fmt.Errorf("fetching login page: %w", err)
	}

	token, ok := doc.Find(`form input[name="authenticity_token"]`).First().Attr("value")
	if !ok || token == "" {
		return ErrNoAuthToken
	}

	form := url.Values{
		"utf8":                 {"✓"},
		"authenticity_token":   {token},
		"session[email]":       {email},
		"session[password]":    {password},
		"session[remember_me]": {"0"},
		"commit":               {"Log In"},
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+"/login", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating login request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("posting login form: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading login response: %w", err)
	}

	if strings.Contains(string(body), invalidCredsMarker) {
		return ErrInvalidCredentials
	}
	if strings.Contains(resp.Request.URL.Path, "/account") || strings.Contains(string(body), coursesListingMarker) {
		return nil
	}
	return ErrUnexpectedRedirect
}

// getDocument fetches a portal path and parses it into a goquery document.
func (c *Client) getDocument(path string) (*goquery.Document, error) {
	req, err := http.NewRequest(http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status code %d", path, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// Package attendance talks to the remote attendance service.
//
// Every exported operation runs in its own Session: a fresh cookie jar that logs in first.
// Sessions are never reused, so a day's status fetch and its submissions each authenticate separately.
package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

const (
	loginPath   = "login/confirm"
	historyPath = "absensi/history/kemarin"
	hitPath     = "absensi/hit"

	// loginFailureMarker appears in the login response body when the service rejects the credentials.
	loginFailureMarker = "gagal"

	maxBodySize = 1 << 20
)

var (
	ErrLoginFailed      = errors.New("login failed")
	ErrUnexpectedStatus = errors.New("unexpected status code")
)

// Credentials are handed to the login call as they are.
type Credentials struct {
	Username string
	Password string
}

// Label names a submission.
type Label string

const (
	Morning Label = "morning"
	Evening Label = "evening"
)

// DailyRecord is one entry of the attendance history.
type DailyRecord struct {
	Date      string  `json:"tanggal"`
	Arrival   *string `json:"jam_datang"`
	Departure *string `json:"jam_pulang"`
}

// Day returns the date portion of the record's timestamp.
func (r DailyRecord) Day() string {
	day, _, _ := strings.Cut(r.Date, " ")
	return day
}

// DailyStatus tells whether the user already checked in and/or out on a given day.
type DailyStatus struct {
	Arrival   *string `json:"arrival"`
	Departure *string `json:"departure"`
}

func (s DailyStatus) String() string {
	return "arrival=" + orNone(s.Arrival) + " departure=" + orNone(s.Departure)
}

func orNone(s *string) string {
	if s == nil {
		return "none"
	}
	return *s
}

type Client struct {
	HTTPClient  *http.Client
	baseURL     *url.URL
	credentials Credentials
	logger      *slog.Logger
}

func New(baseURL string, credentials Credentials, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		HTTPClient:  httpClient,
		baseURL:     u,
		credentials: credentials,
		logger:      logger,
	}, nil
}

// BaseURL returns the service's base address.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Session is one authenticated sequence of calls.
type Session struct {
	client *http.Client
}

// NewSession returns a Session with an empty cookie jar.
func (c *Client) NewSession() *Session {
	jar, _ := cookiejar.New(nil)
	return &Session{client: &http.Client{
		Transport: c.HTTPClient.Transport,
		Timeout:   c.HTTPClient.Timeout,
		Jar:       jar,
	}}
}

// Login submits the credentials. The service reports a rejection in the body, not in the status code.
func (c *Client) Login(ctx context.Context, s *Session) error {
	form := url.Values{}
	form.Set("login", c.credentials.Username)
	form.Set("password", c.credentials.Password)

	body, _, err := c.do(ctx, s, http.MethodPost, loginPath, form)
	if err != nil {
		return err
	}
	if strings.Contains(strings.ToLower(body), loginFailureMarker) {
		return ErrLoginFailed
	}
	return nil
}

// History returns yesterday's and today's attendance records. The session must be logged in.
func (c *Client) History(ctx context.Context, s *Session) ([]DailyRecord, error) {
	body, code, err := c.do(ctx, s, http.MethodGet, historyPath, nil)
	if err != nil {
		return nil, err
	}
	if code != http.StatusOK {
		return nil, fmt.Errorf("history: %w: %d", ErrUnexpectedStatus, code)
	}
	var records []DailyRecord
	if err = json.Unmarshal([]byte(body), &records); err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return records, nil
}

// Hit records an attendance. The response is returned as is: it is not inspected for failure.
func (c *Client) Hit(ctx context.Context, s *Session) (string, error) {
	body, _, err := c.do(ctx, s, http.MethodPost, hitPath, url.Values{})
	return strings.TrimSpace(body), err
}

// Verify logs in once to check the credentials.
func (c *Client) Verify(ctx context.Context) error {
	return c.Login(ctx, c.NewSession())
}

// Status logs in and returns the attendance status for day. If the history has no record for day,
// both timestamps are nil.
func (c *Client) Status(ctx context.Context, day time.Time) (DailyStatus, error) {
	s := c.NewSession()
	if err := c.Login(ctx, s); err != nil {
		return DailyStatus{}, err
	}
	records, err := c.History(ctx, s)
	if err != nil {
		return DailyStatus{}, err
	}

	today := day.Format(time.DateOnly)
	for _, record := range records {
		if record.Day() == today {
			status := DailyStatus{Arrival: record.Arrival, Departure: record.Departure}
			c.logger.Info("attendance record found", "day", today, "status", status)
			return status, nil
		}
	}
	c.logger.Info("no attendance record yet", "day", today)
	return DailyStatus{}, nil
}

// Submit logs in and records an attendance for label. It returns the service's response text.
func (c *Client) Submit(ctx context.Context, label Label) (string, error) {
	s := c.NewSession()
	if err := c.Login(ctx, s); err != nil {
		return "", err
	}
	c.logger.Info("login succeeded", "session", label)
	return c.Hit(ctx, s)
}

func (c *Client) do(ctx context.Context, s *Session, method, path string, form url.Values) (string, int, error) {
	target := c.baseURL.JoinPath(path).String()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return "", 0, err
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("read %s: %w", path, err)
	}
	return string(payload), resp.StatusCode, nil
}

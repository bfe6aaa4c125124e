package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

const DefaultBaseURL = "https://tt-api.tikalk.dev"

var (
	ErrUnauthenticated = fmt.Errorf("not authenticated with the time tracker, login is required")
	ErrNotFound        = fmt.Errorf("time tracker entry not found")
	ErrValidation      = fmt.Errorf("time tracker rejected the entry")
)

// Client is the narrow interface the sync pipeline needs from the remote
// time-tracker API.
type Client interface {
	Login(ctx context.Context, email string, password string) error
	AddTime(ctx context.Context, entry TimeEntry) error
	GetReports(ctx context.Context, date string) (DayReports, error)
	DeleteTime(ctx context.Context, id int) error
	GetProjects(ctx context.Context) ([]Project, error)
	Health(ctx context.Context) error
}

type ClientImpl struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func NewClient(baseURL string) *ClientImpl {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &ClientImpl{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Login authenticates against POST /login and stores the bearer token for
// subsequent calls.
func (c *ClientImpl) Login(ctx context.Context, email string, password string) error {
	body := map[string]string{"email": email, "password": password}
	var response struct {
		Token string `json:"token"`
	}
	if err := c.post(ctx, "/login", body, &response, false); err != nil {
		log.Errorf("Failed to login to time tracker: %v", err)
		return err
	}
	if response.Token == "" {
		return fmt.Errorf("time tracker login returned an empty token")
	}
	c.token = response.Token
	return nil
}

// AddTime submits one entry via POST /time/add. The numeric duration is
// serialized to the wire's string form here and nowhere else.
func (c *ClientImpl) AddTime(ctx context.Context, entry TimeEntry) error {
	body := map[string]string{
		"date":     entry.Date,
		"project":  entry.Project,
		"task":     entry.Task,
		"duration": FormatHours(entry.Hours),
		"note":     entry.Note,
	}
	if err := c.post(ctx, "/time/add", body, nil, true); err != nil {
		log.Errorf("Failed to add time entry (%s, project %s, task %s): %v", entry.Date, entry.Project, entry.Task, err)
		return err
	}
	return nil
}

// GetReports fetches the recorded entries for one date via GET /time/reports.
func (c *ClientImpl) GetReports(ctx context.Context, date string) (DayReports, error) {
	if c.token == "" {
		return DayReports{}, ErrUnauthenticated
	}

	query := url.Values{"date": {date}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/time/reports?"+query.Encode(), nil)
	if err != nil {
		return DayReports{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Errorf("Failed to fetch reports for %s: %v", date, err)
		return DayReports{}, err
	}
	defer resp.Body.Close()

	if err := statusToError(resp); err != nil {
		log.Errorf("Time tracker returned an error for reports on %s: %v", date, err)
		return DayReports{}, err
	}

	var reports DayReports
	if err := json.NewDecoder(resp.Body).Decode(&reports); err != nil {
		return DayReports{}, fmt.Errorf("failed to decode reports response: %w", err)
	}
	// The API omits the date on per-day queries; stamp it so callers can key
	// reports by date uniformly.
	for i := range reports.Reports {
		if reports.Reports[i].Date == "" {
			reports.Reports[i].Date = date
		}
	}
	return reports, nil
}

// DeleteTime removes one entry by ID via POST /time/delete.
func (c *ClientImpl) DeleteTime(ctx context.Context, id int) error {
	body := map[string]string{"id": strconv.Itoa(id)}
	if err := c.post(ctx, "/time/delete", body, nil, true); err != nil {
		log.Errorf("Failed to delete time entry %d: %v", id, err)
		return err
	}
	return nil
}

// GetProjects lists the projects and tasks the ledger knows for this user.
func (c *ClientImpl) GetProjects(ctx context.Context) ([]Project, error) {
	if c.token == "" {
		return nil, ErrUnauthenticated
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/user/projects", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Errorf("Failed to fetch projects: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	if err := statusToError(resp); err != nil {
		return nil, err
	}

	var projects []Project
	if err := json.NewDecoder(resp.Body).Decode(&projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects response: %w", err)
	}
	return projects, nil
}

// Health probes GET /health without authentication.
func (c *ClientImpl) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return statusToError(resp)
}

func (c *ClientImpl) post(ctx context.Context, path string, body any, out any, authenticated bool) error {
	if authenticated && c.token == "" {
		return ErrUnauthenticated
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := statusToError(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func statusToError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	detail := readErrorDetail(resp.Body)
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthenticated, detail)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, detail)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrValidation, detail)
	}
	return fmt.Errorf("time tracker API returned status %d: %s", resp.StatusCode, detail)
}

func readErrorDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 512))
	if err != nil || len(data) == 0 {
		return "no detail"
	}
	var wrapped struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &wrapped) == nil && wrapped.Error != "" {
		return wrapped.Error
	}
	return string(data)
}

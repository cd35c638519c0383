package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// Client is the remote time-tracking API. Every method takes the bearer
// credential explicitly: validation probes candidate credentials that are not
// (yet) the stored one.
type Client interface {
	CurrentUser(ctx context.Context, token string) (Identity, error)                                 // GET /api/users/current-user
	UserRates(ctx context.Context, token string, userId int) ([]UserRate, error)                     // GET /api/users/{id}/user-rate
	Projects(ctx context.Context, token string, userId int, date string) ([]Project, error)          // GET /api/projects/all
	TimesheetOverview(ctx context.Context, token string, userId int, from, to string) ([]DayOverview, error) // GET /api/users/{id}/timesheet-overview
	SubmitWorklogs(ctx context.Context, token string, payload SubmissionPayload) (Confirmation, error) // POST /api/user/worklogs
}

type ClientImpl struct {
	baseURL string
}

func NewClient(baseURL string) *ClientImpl {
	return &ClientImpl{baseURL: strings.TrimSuffix(baseURL, "/")}
}

// httpClient builds an HTTP client that attaches the bearer credential to
// every request.
func (c *ClientImpl) httpClient(ctx context.Context, token string) *http.Client {
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return oauth2.NewClient(ctx, source)
}

// get performs an authorized GET and returns the raw body of a 2xx response.
// Non-2xx responses are classified into the error taxonomy.
func (c *ClientImpl) get(ctx context.Context, token string, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := c.httpClient(ctx, token).Do(req)
	if err != nil {
		log.Errorf("Failed to execute request: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := statusToError(resp.StatusCode, string(body))
		log.Error(err)
		return nil, err
	}
	return body, nil
}

// decode parses a required JSON body, distinguishing blank bodies from
// unparseable ones.
func decode(body []byte, v any) error {
	if strings.TrimSpace(string(body)) == "" {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func (c *ClientImpl) CurrentUser(ctx context.Context, token string) (Identity, error) {
	body, err := c.get(ctx, token, c.baseURL+"/api/users/current-user")
	if err != nil {
		return Identity{}, err
	}

	// Some deployments answer with "name", others with "username".
	var payload struct {
		Id       int    `json:"id"`
		Name     string `json:"name"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := decode(body, &payload); err != nil {
		return Identity{}, err
	}

	username := payload.Username
	if username == "" {
		username = payload.Name
	}
	return Identity{Id: payload.Id, Username: username, Email: payload.Email}, nil
}

func (c *ClientImpl) UserRates(ctx context.Context, token string, userId int) ([]UserRate, error) {
	body, err := c.get(ctx, token, fmt.Sprintf("%s/api/users/%d/user-rate", c.baseURL, userId))
	if err != nil {
		return nil, err
	}

	var rates []UserRate
	if err := decode(body, &rates); err != nil {
		return nil, err
	}
	return rates, nil
}

func (c *ClientImpl) Projects(ctx context.Context, token string, userId int, date string) ([]Project, error) {
	u := fmt.Sprintf("%s/api/projects/all?userId=%d&date=%s", c.baseURL, userId, url.QueryEscape(date))
	body, err := c.get(ctx, token, u)
	if err != nil {
		return nil, err
	}

	var projects []Project
	if err := decode(body, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *ClientImpl) TimesheetOverview(ctx context.Context, token string, userId int, from, to string) ([]DayOverview, error) {
	u := fmt.Sprintf("%s/api/users/%d/timesheet-overview?fromDate=%s&toDate=%s",
		c.baseURL, userId, url.QueryEscape(from), url.QueryEscape(to))
	body, err := c.get(ctx, token, u)
	if err != nil {
		return nil, err
	}

	var overview []DayOverview
	if err := decode(body, &overview); err != nil {
		return nil, err
	}
	return overview, nil
}

func (c *ClientImpl) SubmitWorklogs(ctx context.Context, token string, payload SubmissionPayload) (Confirmation, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return Confirmation{}, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/user/worklogs", bytes.NewReader(encoded))
	if err != nil {
		return Confirmation{}, err
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient(ctx, token).Do(req)
	if err != nil {
		log.Errorf("Failed to execute request: %v", err)
		return Confirmation{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Confirmation{}, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := statusToError(resp.StatusCode, string(body))
		log.Error(err)
		return Confirmation{}, err
	}

	// A blank or non-JSON 2xx body still means the submission went through
	// (some success responses are 204). Synthesize a confirmation instead of
	// failing.
	text := strings.TrimSpace(string(body))
	if text == "" {
		return Confirmation{Message: "Worklog submitted successfully", ReceiptId: uuid.NewString()}, nil
	}
	var confirmation Confirmation
	if err := json.Unmarshal(body, &confirmation); err != nil {
		return Confirmation{Message: "Success", Response: text}, nil
	}
	return confirmation, nil
}

// Package apiclient is a small SDK for the StayLedger REST API used by
// stayctl and other back-office tooling.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sangkips/stayledger-api/pkg/apperror"
	"github.com/sangkips/stayledger-api/pkg/lookup"
	"github.com/sangkips/stayledger-api/pkg/pricing"
)

// Config is injected by the caller; the client never reads the environment.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client talks to the API. It is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	token   string
	http    *http.Client
}

// Entity names accepted by Search.
const (
	EntityHosts      = "hosts"
	EntityProperties = "properties"
	EntityClients    = "clients"
	EntityPincodes   = "pincodes"
)

// New validates cfg and builds a client.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("api base url is required")
	}
	u, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: u,
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// AvailabilityResult mirrors the availability endpoint's data payload.
type AvailabilityResult struct {
	Success      bool                       `json:"success"`
	Blocked      bool                       `json:"blocked"`
	Availability []pricing.RoomAvailability `json:"availability"`
}

// CheckRoomAvailability validates q locally and only then asks the server.
// A precondition failure is returned as *apperror.AppError without any request.
func (c *Client) CheckRoomAvailability(ctx context.Context, q pricing.AvailabilityQuery) (*AvailabilityResult, error) {
	if _, err := q.Resolve(); err != nil {
		return nil, err
	}
	var out AvailabilityResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/reservations/availability", nil, q, &out); err != nil {
		return nil, err
	}
	// the breakdown is authoritative even if an older server omits the flag
	out.Blocked = out.Blocked || pricing.AnyConflict(out.Availability)
	return &out, nil
}

// Search runs a typeahead lookup against one entity.
func (c *Client) Search(ctx context.Context, entity, query string) ([]lookup.Item, error) {
	switch entity {
	case EntityHosts, EntityProperties, EntityClients, EntityPincodes:
	default:
		return nil, fmt.Errorf("unknown lookup entity %q", entity)
	}
	params := url.Values{"q": []string{query}}
	var items []lookup.Item
	if err := c.do(ctx, http.MethodGet, "/api/v1/"+entity+"/search", params, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []lookup.Item{}
	}
	return items, nil
}

// Quote asks the server to derive days and both ledgers for a form state.
func (c *Client) Quote(ctx context.Context, q pricing.StayQuote) (*pricing.StayQuote, error) {
	var out pricing.StayQuote
	if err := c.do(ctx, http.MethodPost, "/api/v1/reservations/quote", nil, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
	Errors  []apperror.FieldError `json:"errors"`
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out interface{}) error {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if params != nil {
		u.RawQuery = params.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode %s %s: status %d: %w", method, path, resp.StatusCode, err)
	}
	if len(env.Data) > 0 && out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode %s %s data: %w", method, path, err)
		}
	}
	if resp.StatusCode >= 400 || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &apperror.AppError{Code: resp.StatusCode, Message: msg, Errors: env.Errors}
	}
	return nil
}

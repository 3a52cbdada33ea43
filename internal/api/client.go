// Package api is the data-access collaborator: a thin HTTP client for the
// Transitland REST API. It owns transport, bearer attachment and the error
// taxonomy; all derivation and filtering happens in the callers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/transitland-client/internal/models"
)

// ErrInvalidCredentials is returned by Login when the server rejects the
// email/password pair. All other request failures surface as *APIError.
var ErrInvalidCredentials = errors.New("invalid credentials")

// APIError is a generic request failure: network-level errors are wrapped
// separately, so an APIError always carries the server's status code and,
// when present, the detail message from the response body.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %d %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api: status %d", e.StatusCode)
}

// TokenSource supplies the bearer token attached to authenticated requests.
type TokenSource interface {
	Token() string
}

// Client talks to one API base URL. Safe for use by a single view at a
// time; the client itself holds no mutable request state beyond the token
// source.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout on the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// NewClient creates a client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTokenSource installs the session token source after login.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// Login exchanges credentials for a bearer token. The endpoint speaks
// OAuth2 password form encoding with the email in the username field.
func (c *Client) Login(ctx context.Context, email, password string) (models.TokenResponse, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return models.TokenResponse{}, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return models.TokenResponse{}, fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return models.TokenResponse{}, ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		return models.TokenResponse{}, readAPIError(resp)
	}

	var token models.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return models.TokenResponse{}, fmt.Errorf("decode token response: %w", err)
	}
	return token, nil
}

// CurrentUser fetches the identity behind the current token.
func (c *Client) CurrentUser(ctx context.Context) (models.User, error) {
	var user models.User
	err := c.getJSON(ctx, "/users/me", nil, &user)
	return user, err
}

// Buses lists the fleet, optionally filtered server-side by garage.
// An empty or "all" garage fetches everything.
func (c *Client) Buses(ctx context.Context, garage string) ([]models.Bus, error) {
	var buses []models.Bus
	err := c.getJSON(ctx, "/buses", garageParams(garage), &buses)
	return buses, err
}

// Bus fetches a single bus by ID.
func (c *Client) Bus(ctx context.Context, id string) (models.Bus, error) {
	var bus models.Bus
	err := c.getJSON(ctx, "/buses/"+url.PathEscape(id), nil, &bus)
	return bus, err
}

// UpdateMileage reports a new odometer reading for a bus. The server owns
// the PM trigger logic that may fire off the back of it.
func (c *Client) UpdateMileage(ctx context.Context, busID string, mileage int) error {
	params := url.Values{}
	params.Set("mileage", strconv.Itoa(mileage))
	return c.do(ctx, http.MethodPut, "/buses/"+url.PathEscape(busID)+"/mileage", params, nil, nil)
}

// WorkOrders lists all work orders.
func (c *Client) WorkOrders(ctx context.Context) ([]models.WorkOrder, error) {
	var orders []models.WorkOrder
	err := c.getJSON(ctx, "/work-orders", nil, &orders)
	return orders, err
}

// CreateWorkOrder files a new work order.
func (c *Client) CreateWorkOrder(ctx context.Context, req models.CreateWorkOrderRequest) (models.WorkOrder, error) {
	var created models.WorkOrder
	err := c.do(ctx, http.MethodPost, "/work-orders", nil, req, &created)
	return created, err
}

// FixWorkOrder marks a work order fixed.
func (c *Client) FixWorkOrder(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/work-orders/%d/fix", id), nil, nil, nil)
}

// UsedParts lists the parts consumed by a work order.
func (c *Client) UsedParts(ctx context.Context, workOrderID int) ([]models.UsedPart, error) {
	var parts []models.UsedPart
	err := c.getJSON(ctx, fmt.Sprintf("/work-orders/%d/used-parts", workOrderID), nil, &parts)
	return parts, err
}

// AddUsedPart records a parts draw against a work order. The server
// decrements inventory; callers re-fetch rather than mutate locally.
func (c *Client) AddUsedPart(ctx context.Context, workOrderID int, req models.AddUsedPartRequest) (models.UsedPart, error) {
	req.WorkOrderID = workOrderID
	var part models.UsedPart
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/work-orders/%d/used-parts", workOrderID), nil, req, &part)
	return part, err
}

// Inventory lists stock lines, optionally filtered server-side by garage.
func (c *Client) Inventory(ctx context.Context, garage string) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := c.getJSON(ctx, "/inventory", garageParams(garage), &items)
	return items, err
}

func garageParams(garage string) url.Values {
	if garage == "" || garage == "all" {
		return nil
	}
	params := url.Values{}
	params.Set("garage", garage)
	return params
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, params, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := readAPIError(resp)
		log.WithFields(log.Fields{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
		}).Warn("request failed")
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// readAPIError extracts the FastAPI-style {"detail": "..."} message when
// present and falls back to the raw body.
func readAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return apiErr
	}

	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		apiErr.Detail = payload.Detail
		return apiErr
	}
	apiErr.Detail = strings.TrimSpace(string(body))
	return apiErr
}

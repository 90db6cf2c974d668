package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ghalass/gmao-pro-sub001/internal/rje"
	"github.com/ghalass/gmao-pro-sub001/internal/store"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// APIError is a non-2xx answer of the gmao-data API.
type APIError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gmao api: %s (status: %d)", e.Message, e.Status)
}

type loginResponse struct {
	Token   string         `json:"token"`
	Session *store.Session `json:"session"`
}

// Client calls the gmao-data HTTP API with a bearer token.
type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func New(baseURL string, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(60*time.Second). // large exports
		SetHeader("Accept", "application/json")
	return &Client{httpClient: httpClient, logger: logger}
}

// SetToken uses token for every following call.
func (c *Client) SetToken(token string) {
	c.httpClient.SetAuthToken(token)
}

// Login opens a session and keeps its token.
func (c *Client) Login(ctx context.Context, email, password string) (*store.Session, string, error) {
	var out loginResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&out).
		SetError(&APIError{}).
		Post("/api/v1/auth/login")
	if err := check(resp, err); err != nil {
		return nil, "", err
	}
	c.SetToken(out.Token)
	c.logger.Debug("Logged in", zap.String("user_id", out.Session.UserID))
	return out.Session, out.Token, nil
}

// RJE fetches the daily report of date (YYYY-MM-DD).
func (c *Client) RJE(ctx context.Context, date string) (*rje.Report, error) {
	var rep rje.Report
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("date", date).
		SetResult(&rep).
		SetError(&APIError{}).
		Get("/api/v1/rapports/rje")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &rep, nil
}

// ExportRJE downloads the report workbook.
func (c *Client) ExportRJE(ctx context.Context, date string) ([]byte, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("date", date).
		SetError(&APIError{}).
		Get("/api/v1/rapports/rje/export")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

func check(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("failed to call gmao api: %w", err)
	}
	if resp.IsError() {
		if apiErr, ok := resp.Error().(*APIError); ok && apiErr.Message != "" {
			return apiErr
		}
		return &APIError{Status: resp.StatusCode(), Message: http.StatusText(resp.StatusCode())}
	}
	return nil
}

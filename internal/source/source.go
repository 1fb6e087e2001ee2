// Package source is the client's view of the remote data API.
package source

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

	"country-converter/internal/models"

	"github.com/sirupsen/logrus"
)

// ErrUnauthorized matches fetch errors caused by a missing or rejected token.
var ErrUnauthorized = errors.New("unauthorized")

// FetchError is the single error shape every failed request surfaces as.
// Message is meant for the user.
type FetchError struct {
	Status  int // 0 for transport failures
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *FetchError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// TokenFunc supplies the bearer token for a request. An empty token sends no
// Authorization header.
type TokenFunc func(ctx context.Context) (string, error)

// Client talks to the data API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenFunc
	logger     logrus.FieldLogger
}

// NewClient creates a Client. timeout bounds every request.
func NewClient(baseURL string, timeout time.Duration, token TokenFunc, logger logrus.FieldLogger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		token:  token,
		logger: logger,
	}
}

type exchangeRatesResponse struct {
	Base  string                `json:"base"`
	Rates []models.ExchangeRate `json:"rates"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// FetchCountries returns every country with its currencies.
func (c *Client) FetchCountries(ctx context.Context) ([]models.Country, error) {
	var countries []models.Country
	if err := c.do(ctx, http.MethodGet, "/api/countries", nil, &countries); err != nil {
		return nil, err
	}
	c.logger.WithField("count", len(countries)).Debug("fetched countries")
	return countries, nil
}

// FetchExchangeRates returns the rate table quoted in the reference currency.
func (c *Client) FetchExchangeRates(ctx context.Context) ([]models.ExchangeRate, error) {
	var resp exchangeRatesResponse
	if err := c.do(ctx, http.MethodGet, "/api/exchange-rates", nil, &resp); err != nil {
		return nil, err
	}
	c.logger.WithFields(logrus.Fields{"count": len(resp.Rates), "base": resp.Base}).Debug("fetched exchange rates")
	return resp.Rates, nil
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/api/login", loginRequest{Username: username, Password: password}, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", &FetchError{Status: http.StatusOK, Message: "login response carried no token"}
	}
	return resp.Token, nil
}

// RatesFeedURL returns the websocket URL of the rate-change feed.
func (c *Client) RatesFeedURL() (string, error) {
	u, err := url.Parse(c.baseURL + "/api/ws/rates")
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	return u.String(), nil
}

// BearerToken resolves the current token through the configured TokenFunc.
func (c *Client) BearerToken(ctx context.Context) (string, error) {
	if c.token == nil {
		return "", nil
	}
	return c.token(ctx)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.BearerToken(ctx)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Message: transportMessage(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &FetchError{Status: resp.StatusCode, Message: errorMessage(resp)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{Status: resp.StatusCode, Message: "unreadable response from server", Err: err}
	}
	return nil
}

func transportMessage(err error) string {
	var ne interface{ Timeout() bool }
	if errors.As(err, &ne) && ne.Timeout() {
		return "request timed out"
	}
	if errors.Is(err, context.Canceled) {
		return "request cancelled"
	}
	return "server unreachable"
}

func errorMessage(resp *http.Response) string {
	var payload struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return http.StatusText(resp.StatusCode)
}

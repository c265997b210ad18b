// Package interpreter provides a client for the external service that turns
// a ticket photo or a free-text prompt into candidate plays.
package interpreter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abrezinsky/beastreader/internal/logger"
	"github.com/abrezinsky/beastreader/internal/models"
)

// FlexString is a string type that can be unmarshaled from either a string or a number.
// Recognizers sometimes return bet numbers as JSON numbers.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler for FlexString
func (f *FlexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}

	return fmt.Errorf("FlexString: cannot unmarshal %s", string(data))
}

// String returns the string value
func (f FlexString) String() string {
	return string(f)
}

// FlexAmount is a nullable amount that accepts a number, a numeric string,
// an empty string or null.
type FlexAmount struct {
	Value *decimal.Decimal
}

// UnmarshalJSON implements json.Unmarshaler for FlexAmount
func (a *FlexAmount) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		a.Value = nil
		return nil
	}
	raw = strings.Trim(raw, `"`)
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "$")
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("FlexAmount: cannot unmarshal %s", string(data))
	}
	a.Value = &d
	return nil
}

// MarshalJSON implements json.Marshaler for FlexAmount
func (a FlexAmount) MarshalJSON() ([]byte, error) {
	if a.Value == nil {
		return []byte("null"), nil
	}
	return []byte(a.Value.String()), nil
}

// Candidate is one play recognized by the service
type Candidate struct {
	BetNumber      FlexString `json:"betNumber"`
	StraightAmount FlexAmount `json:"straightAmount"`
	BoxAmount      FlexAmount `json:"boxAmount"`
	ComboAmount    FlexAmount `json:"comboAmount"`
}

// Model converts the candidate into the builder's import shape
func (c Candidate) Model() models.Candidate {
	return models.Candidate{
		BetNumber:      strings.TrimSpace(c.BetNumber.String()),
		StraightAmount: c.StraightAmount.Value,
		BoxAmount:      c.BoxAmount.Value,
		ComboAmount:    c.ComboAmount.Value,
	}
}

// Client defines the interface for interpretation operations
type Client interface {
	// InterpretImage recognizes plays in a base64-encoded ticket photo
	InterpretImage(ctx context.Context, imageBase64 string) ([]Candidate, error)
	// InterpretText recognizes plays in a free-text prompt
	InterpretText(ctx context.Context, prompt string) ([]Candidate, error)
	// BaseURL returns the configured service base URL
	BaseURL() string
}

// HTTPClient is a real HTTP client for the interpretation service
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	log        logger.Logger
}

// NewHTTPClient creates a new interpretation client
func NewHTTPClient(baseURL string, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		log: log,
	}
}

// NewHTTPClientWithHTTPClient creates a new interpretation client with a custom http.Client
func NewHTTPClientWithHTTPClient(baseURL string, httpClient *http.Client, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		log:        log,
	}
}

// BaseURL returns the configured service base URL
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// InterpretImage recognizes plays in a base64-encoded ticket photo
func (c *HTTPClient) InterpretImage(ctx context.Context, imageBase64 string) ([]Candidate, error) {
	var out []Candidate
	if err := c.doRequest(ctx, "/interpret/image", map[string]string{"image": imageBase64}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// InterpretText recognizes plays in a free-text prompt
func (c *HTTPClient) InterpretText(ctx context.Context, prompt string) ([]Candidate, error) {
	var out []Candidate
	if err := c.doRequest(ctx, "/interpret/text", map[string]string{"prompt": prompt}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// doRequest posts a JSON body and decodes the JSON response
func (c *HTTPClient) doRequest(ctx context.Context, path string, payload interface{}, response interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	apiURL := c.baseURL + path
	c.log.Debug("Interpreter request", "method", "POST", "url", apiURL, "bytes", len(body))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to interpreter: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debug("Interpreter response", "status", resp.StatusCode, "bytes", len(respBody))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("interpreter returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if err := json.Unmarshal(respBody, response); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

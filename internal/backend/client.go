// Package backend talks to the thermostat HTTP API the reconciler polls.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"
)

// Paths served by the thermostat backend.
const (
	PathTemperature        = "/get-temperature"
	PathUpdateTemperature  = "/update-temperature"
	PathOutsideTemperature = "/get-outside-temperature"
)

const (
	defaultTimeout  = 3 * time.Second
	maxResponseSize = 1 << 16 // 64 KB
)

// ErrMalformedResponse is returned when the backend answers 2xx but the body
// lacks the expected field.
var ErrMalformedResponse = errors.New("malformed backend response")

// Wire shapes. Pointers distinguish a missing field from zero.
type temperatureResponse struct {
	Temperature *float64 `json:"temperature"`
}

type outsideResponse struct {
	OutsideTemperature *float64 `json:"outsideTemperature"`
}

type changeRequest struct {
	Change float64 `json:"change"`
}

// Client implements the reconciler's temperature source over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the backend at baseURL. A zero timeout uses
// the default of 3s.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// IndoorTemperature reads the thermostat's current temperature.
func (c *Client) IndoorTemperature(ctx context.Context) (float64, error) {
	var out temperatureResponse
	if err := c.do(ctx, http.MethodGet, PathTemperature, nil, &out); err != nil {
		return 0, err
	}
	return requireFinite(out.Temperature, "temperature")
}

// OutdoorTemperature reads the outside temperature.
func (c *Client) OutdoorTemperature(ctx context.Context) (float64, error) {
	var out outsideResponse
	if err := c.do(ctx, http.MethodGet, PathOutsideTemperature, nil, &out); err != nil {
		return 0, err
	}
	return requireFinite(out.OutsideTemperature, "outsideTemperature")
}

// ApplyDelta asks the backend to move the setpoint and returns the confirmed
// temperature.
func (c *Client) ApplyDelta(ctx context.Context, delta float64) (float64, error) {
	var out temperatureResponse
	if err := c.do(ctx, http.MethodPost, PathUpdateTemperature, changeRequest{Change: delta}, &out); err != nil {
		return 0, err
	}
	return requireFinite(out.Temperature, "temperature")
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(out); err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrMalformedResponse, err)
	}
	return nil
}

func requireFinite(v *float64, field string) (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("%w: missing %q", ErrMalformedResponse, field)
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, fmt.Errorf("%w: %q is not finite", ErrMalformedResponse, field)
	}
	return *v, nil
}

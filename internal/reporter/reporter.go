package reporter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gojek/heimdall/v7"
	"github.com/gojek/heimdall/v7/httpclient"

	gojson "github.com/goccy/go-json"

	"github.com/stephenreynolds/flamegraph-ai/internal/hotspot"
)

type (
	// Client posts hotspot summaries to the downstream reporting service,
	// which turns them into user-facing recommendations. Transient
	// failures are retried here, never inside the analyzer.
	Client struct {
		http *httpclient.Client
		url  string
	}

	// ReportPayload is the body posted to the reporting service.
	ReportPayload struct {
		ProfileID string           `json:"profile_id"`
		Received  int64            `json:"received"`
		Summary   *hotspot.Summary `json:"summary"`
	}

	ErrorResponse struct {
		Error Error `json:"error"`
	}

	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
)

func NewClient(host string) (Client, error) {
	if host == "" {
		return Client{}, errors.New("host must be set")
	}
	return Client{
		url: fmt.Sprintf("%s/reports", host),
		http: httpclient.NewClient(
			httpclient.WithHTTPTimeout(10*time.Second),
			httpclient.WithRetryCount(3),
			httpclient.WithRetrier(heimdall.NewRetrier(
				heimdall.NewConstantBackoff(500*time.Millisecond, 100*time.Millisecond))),
		),
	}, nil
}

func (c *Client) SendSummary(ctx context.Context, payload ReportPayload) error {
	body, err := gojson.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		var errorResponse ErrorResponse
		if err := gojson.NewDecoder(resp.Body).Decode(&errorResponse); err == nil && errorResponse.Error.Message != "" {
			return fmt.Errorf("reporting service: %s: %s", errorResponse.Error.Type, errorResponse.Error.Message)
		}
		return fmt.Errorf("reporting service returned status %d", resp.StatusCode)
	}
	return nil
}

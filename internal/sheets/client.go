package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MAMIDISETTI/taskmanagers/internal/ingest"
)

// ErrHTMLResponse indicates the spreadsheet source returned an HTML
// page instead of JSON. In practice this means the deployed sheet URL
// is wrong (a login or error page), not a transient failure.
var ErrHTMLResponse = errors.New("spreadsheet source returned HTML; check the deployed sheet URL")

// Payload is the document shape the external spreadsheet source serves.
type Payload struct {
	SpreadSheetName    string       `json:"spread_sheet_name"`
	DataSetsToBeLoaded []string     `json:"data_sets_to_be_loaded"`
	Data               []ingest.Row `json:"data"`
}

// Client fetches row batches from the external spreadsheet source.
type Client struct {
	httpClient *http.Client
}

// NewClient builds a Client with a bounded request timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch GETs the caller-supplied URL and decodes the payload.
func (c *Client) Fetch(ctx context.Context, url string) (*Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building spreadsheet request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("spreadsheet source unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, fmt.Errorf("reading spreadsheet response: %w", err)
	}

	if looksLikeHTML(resp.Header.Get("Content-Type"), body) {
		return nil, ErrHTMLResponse
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("spreadsheet source returned status %d", resp.StatusCode)
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decoding spreadsheet payload: %w", err)
	}
	return &payload, nil
}

func looksLikeHTML(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}
	trimmed := strings.TrimSpace(string(body))
	lower := strings.ToLower(trimmed)
	return strings.HasPrefix(lower, "<!doctype html") || strings.HasPrefix(lower, "<html")
}

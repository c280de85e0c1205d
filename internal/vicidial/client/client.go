// Package client talks to the call-center bridge that fronts ViciDial.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"vanguard_backend/internal/vicidial/transport"
	"vanguard_backend/platform/apperr"
	"vanguard_backend/platform/logger"
)

const (
	catalogPath = "/api/vicidial/data"
	processPath = "/api/vicidial/process-lead"

	catalogTimeout = 30 * time.Second
)

// Config narrows the application config to what the client needs.
type Config interface {
	GetViciDialBaseURL() string
}

// Client issues catalog and per-lead processing calls against the bridge.
// Catalog fetches carry a timeout; per-lead processing deliberately does not,
// because server-side transcription can take minutes. Cancellation comes from
// the caller's context.
type Client struct {
	baseURL       string
	catalogClient *http.Client
	processClient *http.Client
	log           *logger.Logger
}

// New creates a bridge client from the configured base URL.
func New(cfg Config, log *logger.Logger) *Client {
	return &Client{
		baseURL:       strings.TrimRight(cfg.GetViciDialBaseURL(), "/"),
		catalogClient: &http.Client{Timeout: catalogTimeout},
		processClient: &http.Client{},
		log:           log,
	}
}

// FetchCatalog retrieves the list catalogue and current sale leads. With
// countsOnly set, the bridge omits the lead payload and returns counts only.
// The client never retries; callers decide whether to retry.
func (c *Client) FetchCatalog(ctx context.Context, countsOnly bool) (*transport.CatalogResponse, error) {
	endpoint := c.baseURL + catalogPath
	if countsOnly {
		endpoint += "?countsOnly=true"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "build catalog request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.catalogClient.Do(req)
	if err != nil {
		return nil, apperr.Unavailable("call-center catalog unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Unavailable("call-center catalog read failed", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.Unavailable(fmt.Sprintf("call-center catalog returned status %d", resp.StatusCode), nil)
	}

	if err := rejectNonJSON(resp.Header.Get("Content-Type"), body); err != nil {
		return nil, err
	}

	var catalog transport.CatalogResponse
	if err := json.Unmarshal(body, &catalog); err != nil {
		return nil, apperr.BadGateway("call-center catalog response is not valid JSON", err)
	}
	if !catalog.Success {
		return nil, apperr.BadGateway("call-center catalog reported failure: "+catalog.Error, nil)
	}

	return &catalog, nil
}

// ProcessLead asks the bridge to transcribe and enrich a single lead. Any
// non-2xx response or explicit failure becomes a processing error; callers
// import the lead with empty enrichment instead of aborting the batch.
func (c *Client) ProcessLead(ctx context.Context, lead transport.RemoteLeadRecord) (*transport.EnrichedLead, error) {
	payload, err := json.Marshal(transport.ProcessLeadRequest{LeadData: lead})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "encode process request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+processPath, bytes.NewReader(payload))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "build process request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.processClient.Do(req)
	if err != nil {
		return nil, apperr.Processing("lead processing call failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Processing("lead processing response read failed", err)
	}

	c.log.Debug("lead processed",
		"lead_id", lead.ID,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperr.Processing(fmt.Sprintf("lead processing returned status %d", resp.StatusCode), nil)
	}

	var result transport.ProcessLeadResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, apperr.Processing("lead processing response is not valid JSON", err)
	}
	if !result.Success {
		reason := result.Error
		if reason == "" {
			reason = "unspecified processing failure"
		}
		return nil, apperr.Processing(reason, nil)
	}

	return &result.Lead, nil
}

// rejectNonJSON catches the bridge's habit of answering HTML error pages with
// a 200 status. Those must surface as a format problem, not a parse panic.
func rejectNonJSON(contentType string, body []byte) error {
	if strings.Contains(contentType, "text/html") {
		return apperr.BadGateway("call-center returned an HTML page where JSON was expected", nil)
	}
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '<') {
		return apperr.BadGateway("call-center returned an HTML page where JSON was expected", nil)
	}
	return nil
}

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/pascalpat/sitelog/internal/domain"
)

// Client provides access to the daily reporting backend.
type Client interface {
	// ListCatalog fetches one reference list (workers, equipment, ...).
	ListCatalog(ctx context.Context, kind domain.CatalogKind) ([]domain.CatalogItem, error)

	// ListConfirmed fetches the persisted entries for one category and
	// (project, date) context.
	ListConfirmed(ctx context.Context, cat domain.Category, projectID, date string) ([]domain.ConfirmedEntry, error)

	// ConfirmBatch submits all staged lines for one category in a single
	// request and returns the authoritative records on success.
	ConfirmBatch(ctx context.Context, cat domain.Category, projectID, date string, lines []DraftEntryPayload) ([]domain.ConfirmedEntry, error)

	// UpdateEntry applies a single-row update keyed by server id.
	UpdateEntry(ctx context.Context, cat domain.Category, serverID string, update EntryUpdate) error

	// DeleteEntry removes a single confirmed entry by server id.
	DeleteEntry(ctx context.Context, cat domain.Category, serverID string) error
}

// httpClient implements Client over the backend's JSON HTTP API.
type httpClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewClient creates a Client that talks to the backend named in cfg.
func NewClient(cfg Config, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &httpClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

// flexID decodes a catalog id that arrives as either a JSON number or a
// string, depending on the blueprint.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// catalogItemRecord tolerates the shape drift between catalog blueprints:
// workers carry id+name, activity codes id+code+description, work packages
// code+name.
type catalogItemRecord struct {
	ID          flexID `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (c *httpClient) ListCatalog(ctx context.Context, kind domain.CatalogKind) ([]domain.CatalogItem, error) {
	seg, ok := catalogPaths[kind]
	if !ok {
		return nil, fmt.Errorf("unknown catalog kind %q", kind)
	}

	var resp struct {
		Items []catalogItemRecord `json:"items"`
	}
	if err := c.call(ctx, "list_catalog", http.MethodGet, "/"+seg+"/list", nil, nil, &resp); err != nil {
		return nil, err
	}

	items := make([]domain.CatalogItem, 0, len(resp.Items))
	for _, rec := range resp.Items {
		item := domain.CatalogItem{
			ID:          string(rec.ID),
			Kind:        kind,
			Label:       rec.Name,
			Description: rec.Description,
		}
		if rec.Code != "" {
			item.Label = rec.Code
			if item.Description == "" && rec.Name != "" {
				item.Description = rec.Name
			}
		}
		if item.ID == "" {
			item.ID = rec.Code
		}
		items = append(items, item)
	}
	return items, nil
}

func (c *httpClient) ListConfirmed(ctx context.Context, cat domain.Category, projectID, date string) ([]domain.ConfirmedEntry, error) {
	route, ok := categoryRoutes[cat]
	if !ok {
		return nil, fmt.Errorf("unknown category %q", cat)
	}

	query := url.Values{}
	query.Set("project_id", projectID)
	query.Set("date", date)

	// The read-back key varies by category; decode loosely then pick.
	var resp map[string]json.RawMessage
	if err := c.call(ctx, "list_confirmed", http.MethodGet, "/"+route.base+"/by-project-date", query, nil, &resp); err != nil {
		return nil, err
	}

	var records []entryRecord
	if raw, ok := resp[route.listKey]; ok {
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("decoding %s list: %w", route.listKey, err)
		}
	} else if raw, ok := resp["entries"]; ok {
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("decoding entries list: %w", err)
		}
	}

	entries := make([]domain.ConfirmedEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, rec.toDomain(cat))
	}
	return entries, nil
}

func (c *httpClient) ConfirmBatch(ctx context.Context, cat domain.Category, projectID, date string, lines []DraftEntryPayload) ([]domain.ConfirmedEntry, error) {
	route, ok := categoryRoutes[cat]
	if !ok {
		return nil, fmt.Errorf("unknown category %q", cat)
	}

	body := confirmRequest{
		ProjectID:    projectID,
		DateOfReport: date,
		Usage:        lines,
	}

	var resp struct {
		Records []entryRecord `json:"records"`
	}
	if err := c.call(ctx, "confirm_batch", http.MethodPost, "/"+route.base+"/"+route.confirmPath, nil, body, &resp); err != nil {
		return nil, err
	}

	entries := make([]domain.ConfirmedEntry, 0, len(resp.Records))
	for _, rec := range resp.Records {
		entries = append(entries, rec.toDomain(cat))
	}
	return entries, nil
}

func (c *httpClient) UpdateEntry(ctx context.Context, cat domain.Category, serverID string, update EntryUpdate) error {
	route, ok := categoryRoutes[cat]
	if !ok {
		return fmt.Errorf("unknown category %q", cat)
	}
	path := "/" + route.base + "/update-entry/" + url.PathEscape(serverID)
	return c.call(ctx, "update_entry", http.MethodPut, path, nil, update, nil)
}

func (c *httpClient) DeleteEntry(ctx context.Context, cat domain.Category, serverID string) error {
	route, ok := categoryRoutes[cat]
	if !ok {
		return fmt.Errorf("unknown category %q", cat)
	}
	path := "/" + route.base + "/delete-entry/" + url.PathEscape(serverID)
	return c.call(ctx, "delete_entry", http.MethodDelete, path, nil, nil, nil)
}

// call performs one JSON request with retry for transport failures. A
// received response, even a non-2xx one, is never retried: the client
// cannot know whether the backend applied the batch.
func (c *httpClient) call(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	var lastErr error
	attempts := 1 + c.cfg.MaxRetries

	for i := 0; i < attempts; i++ {
		status, err := c.doRequest(ctx, method, path, query, body, out)
		if err == nil {
			c.observer.OnCallComplete(CallEvent{
				Operation: op, Method: method, Path: path,
				Status: status, LatencyMs: time.Since(start).Milliseconds(), Success: true,
			})
			return nil
		}
		lastErr = err

		// A response was received; surface the failure as-is. Retrying
		// here would re-send a request the backend may already have
		// applied. Decode and body-read failures count: the batch could
		// have been accepted even though the response never arrived whole.
		if status != 0 {
			code := "DECODE"
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				code = "API"
			}
			c.observer.OnCallComplete(CallEvent{
				Operation: op, Method: method, Path: path,
				Status: status, LatencyMs: time.Since(start).Milliseconds(),
				Success: false, ErrorCode: code,
			})
			return err
		}

		if ctx.Err() != nil {
			break
		}
	}

	errCode := errorCode(ctx, lastErr)
	c.observer.OnCallComplete(CallEvent{
		Operation: op, Method: method, Path: path,
		LatencyMs: time.Since(start).Milliseconds(), Success: false, ErrorCode: errCode,
	})

	if ctx.Err() != nil {
		return ErrTimeout
	}
	if isConnectionError(lastErr) {
		return ErrBackendUnavailable
	}
	return fmt.Errorf("%w: %v", ErrRetryExhausted, lastErr)
}

func (c *httpClient) doRequest(ctx context.Context, method, path string, query url.Values, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	fullURL := c.cfg.BaseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return httpResp.StatusCode, fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		apiErr := &APIError{Status: httpResp.StatusCode}
		var errBody struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errBody) == nil {
			apiErr.Message = errBody.Error
		}
		return httpResp.StatusCode, apiErr
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return httpResp.StatusCode, fmt.Errorf("decoding response: %w", err)
		}
	}
	return httpResp.StatusCode, nil
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(ctx context.Context, err error) string {
	switch {
	case err == nil:
		return ""
	case ctx.Err() != nil:
		return "TIMEOUT"
	case isConnectionError(err):
		return "UNAVAILABLE"
	default:
		return "UNKNOWN"
	}
}

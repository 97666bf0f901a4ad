package ragic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"riveros/internal/core"
)

// Query is the structured read intent the gateway translates into the
// backend's query-string dialect. Only equality filtering is supported.
type Query struct {
	WhereField string
	WhereValue string
	SortField  string
	Desc       bool
	Limit      int
}

// Client performs authenticated HTTP round trips against the tabular
// backend. It never retries; retry policy belongs to callers.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// New creates a Client for the given base URL (including account and, where
// applicable, the API subdirectory) and static API key.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpc:   newHTTPClient(),
	}
}

// newHTTPClient builds a pooled HTTP client sized for a single upstream host.
func newHTTPClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		MaxConnsPerHost:       50,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   60 * time.Second,
	}
}

// FetchRows performs one GET against a sheet and returns the decoded body:
// a map keyed by row identifier, each value itself a field-id map. Backend
// metadata keys are returned as-is; the codec layer skips them.
func (c *Client) FetchRows(ctx context.Context, sheetPath string, q Query) (map[string]any, error) {
	params := url.Values{}
	if q.WhereField != "" {
		params.Set("where", fmt.Sprintf("%s,eq,%s", q.WhereField, q.WhereValue))
	}
	if q.SortField != "" {
		params.Set("sortField", q.SortField)
		if q.Desc {
			params.Set("desc", "1")
		}
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	body, err := c.do(ctx, http.MethodGet, sheetPath, params, nil)
	if err != nil {
		return nil, err
	}

	rows, err := decodeObject(body)
	if err != nil {
		return nil, fmt.Errorf("%w: decode rows: %v", core.ErrBackendUnavailable, err)
	}
	return rows, nil
}

// WriteRow performs one POST against a sheet. A non-empty rowID switches the
// write from create to in-place update of that row. Subtable row keys follow
// the backend's convention: negative sequential strings create new sub-rows,
// positive existing identifiers update them.
//
// doFormula is always set because percentage-filled and the category totals
// are formula fields the client must not send; doLinkLoad refreshes display
// fields mirroring linked rows.
func (c *Client) WriteRow(ctx context.Context, sheetPath, rowID string, fields map[string]string, subtables map[string]map[string]map[string]string) (map[string]any, error) {
	payload := make(map[string]any, len(fields)+len(subtables))
	for k, v := range fields {
		payload[k] = v
	}
	for subTableID, rows := range subtables {
		payload[SubtableKey(subTableID)] = rows
	}

	path := sheetPath
	if rowID != "" {
		path = sheetPath + "/" + rowID
	}

	params := url.Values{}
	params.Set("doLinkLoad", "true")
	params.Set("doFormula", "true")

	body, err := c.do(ctx, http.MethodPost, path, params, payload)
	if err != nil {
		return nil, err
	}

	resp, err := decodeObject(body)
	if err != nil {
		// Write went through; an unparseable body is not worth failing over.
		slog.WarnContext(ctx, "Unparseable backend write response", "sheet", sheetPath, "error", err)
		return map[string]any{}, nil
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, payload any) ([]byte, error) {
	u, err := url.Parse(c.baseURL + "/" + path)
	if err != nil {
		return nil, fmt.Errorf("%w: bad request url: %v", core.ErrBackendUnavailable, err)
	}

	query := u.Query()
	query.Set("v", "3")
	query.Set("api", "")
	query.Set("naming", "EID")
	for k, vs := range params {
		for _, v := range vs {
			query.Set(k, v)
		}
	}
	u.RawQuery = query.Encode()

	var bodyReader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", core.ErrBackendUnavailable, err)
	}
	req.Header.Set("Authorization", "Basic "+c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrBackendUnavailable, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", core.ErrBackendUnavailable, err)
	}

	// Reads have no rejected class: any non-2xx on a GET means the data is
	// unreachable. Only a 4xx answer to a write carries the rejected meaning.
	switch {
	case res.StatusCode >= 200 && res.StatusCode < 300:
		return raw, nil
	case method == http.MethodPost && res.StatusCode >= 400 && res.StatusCode < 500:
		return nil, fmt.Errorf("%w: %s %s: status %d", core.ErrBackendRejected, method, path, res.StatusCode)
	default:
		return nil, fmt.Errorf("%w: %s %s: status %d", core.ErrBackendUnavailable, method, path, res.StatusCode)
	}
}

// decodeObject parses a JSON object keeping numbers as json.Number so field
// values survive re-stringification without float formatting drift.
func decodeObject(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

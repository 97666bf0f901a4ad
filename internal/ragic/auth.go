package ragic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"riveros/internal/core"
)

// ErrAuthFailed means the backend rejected the credentials.
var ErrAuthFailed = errors.New("invalid email or password")

// PasswordAuth validates credentials against the backend's one-shot session
// endpoint at the server origin and returns the opaque session identifier.
//
// On failure the backend answers with a literal -1, which shows up in three
// encodings depending on server version: a bare JSON number, the string
// "-1", or an object whose sid/sessionId is -1. All three map to
// ErrAuthFailed, never to a valid session value.
func (c *Client) PasswordAuth(ctx context.Context, email, password string) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("%w: bad base url: %v", core.ErrBackendUnavailable, err)
	}

	u := url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/AUTH"}
	q := url.Values{}
	q.Set("u", email)
	q.Set("p", password)
	q.Set("login_type", "sessionId")
	q.Set("json", "1")
	q.Set("api", "")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: build auth request: %v", core.ErrBackendUnavailable, err)
	}

	res, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrBackendUnavailable, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read auth response: %v", core.ErrBackendUnavailable, err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", ErrAuthFailed
	}

	sid, ok := parseSessionID(raw)
	if !ok {
		return "", ErrAuthFailed
	}
	return sid, nil
}

// parseSessionID extracts a session id from the auth response body, which
// may be a JSON scalar, a JSON object, or plain text.
func parseSessionID(raw []byte) (string, bool) {
	var data any
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil {
		data = strings.TrimSpace(string(raw))
	}

	switch v := data.(type) {
	case json.Number:
		if v.String() == "-1" {
			return "", false
		}
		return v.String(), true
	case string:
		return validSID(v)
	case map[string]any:
		for _, key := range []string{"sid", "sessionId"} {
			if sv, ok := v[key]; ok {
				switch s := sv.(type) {
				case json.Number:
					if s.String() == "-1" {
						return "", false
					}
					return s.String(), true
				case string:
					return validSID(s)
				}
			}
		}
		return "", false
	default:
		return "", false
	}
}

func validSID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-1" {
		return "", false
	}
	return s, true
}

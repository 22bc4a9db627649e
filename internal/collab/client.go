// Package collab holds HTTP clients for the services the moderation
// engine collaborates with: the content service (visibility lookups and
// removals) and the user service (existence checks, counts, suspensions).
package collab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// client is the shared HTTP plumbing for collaborator clients.
type client struct {
	baseURL string
	http    *http.Client
}

func newClient(baseURL string) client {
	return client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// apiError is a non-2xx response from a collaborator.
type apiError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// getJSON issues a GET with opts encoded as query parameters and
// decodes the JSON response into out.
func (c *client) getJSON(ctx context.Context, path string, opts any, out any) error {
	u := c.baseURL + path
	if opts != nil {
		v, err := query.Values(opts)
		if err != nil {
			return fmt.Errorf("encode query: %w", err)
		}
		u += "?" + v.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	return c.do(req, out)
}

// postJSON issues a POST with body serialized as JSON. out may be nil
// when the response body is not needed.
func (c *client) postJSON(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.do(req, out)
}

func (c *client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &apiError{
			Method: req.Method,
			Path:   pathOf(req.URL),
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(body)),
		}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func pathOf(u *url.URL) string {
	if u == nil {
		return ""
	}
	return u.Path
}

// Package api is the HTTP client for the sheet backend. Every endpoint
// answers with the uniform envelope {success, data, message, errors}; the
// client decodes it and converts failures into *Error values the UI can
// surface directly.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sheetdesk/sheetdesk/internal/core"
)

// AuthScheme is the fixed prefix the backend expects on the Authorization
// header, in place of the usual "Bearer".
const AuthScheme = "authorization"

// TokenSource supplies the session token attached to outgoing requests.
// An empty return sends the request unauthenticated.
type TokenSource func() string

// Response is the uniform envelope every backend endpoint answers with.
type Response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Errors  []string        `json:"errors,omitempty"`
}

// Error is a structured backend failure. Message carries a single fatal
// error (form submits); Errors carries row-level validation failures
// (bulk import).
type Error struct {
	Status  int
	Message string
	Errors  []string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Errors) > 0 {
		return fmt.Sprintf("%d row errors", len(e.Errors))
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// AsError returns err as an *Error when the backend produced a structured
// failure, nil for transport-level failures.
func AsError(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}

// Ref is one entry of a cascading reference lookup (state, district, block).
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Client talks to the sheet backend.
type Client struct {
	base  string
	http  *http.Client
	token TokenSource
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// WithTokenSource sets where the session token is read from.
func WithTokenSource(ts TokenSource) ClientOption {
	return func(c *Client) { c.token = ts }
}

// New creates a client for the API base URL.
func New(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List fetches the full collection for an entity.
func (c *Client) List(ctx context.Context, entity core.EntityKind) ([]core.Record, error) {
	var rows []core.Record
	if err := c.do(ctx, http.MethodGet, listPath(entity), nil, &rows); err != nil {
		return nil, fmt.Errorf("list %s: %w", entity, err)
	}
	return rows, nil
}

// ListSub fetches an entity subresource collection, e.g. batches of a center.
func (c *Client) ListSub(ctx context.Context, entity core.EntityKind, sub string) ([]core.Record, error) {
	var rows []core.Record
	if err := c.do(ctx, http.MethodGet, listPath(entity)+"/"+sub, nil, &rows); err != nil {
		return nil, fmt.Errorf("list %s/%s: %w", entity, sub, err)
	}
	return rows, nil
}

// Create submits a new record with all form field values.
func (c *Client) Create(ctx context.Context, entity core.EntityKind, fields map[string]string) error {
	if err := c.do(ctx, http.MethodPost, createPath(entity), jsonBody(fields), nil); err != nil {
		return fmt.Errorf("create %s: %w", entity, err)
	}
	return nil
}

// Update patches an existing record keyed by its primary id.
func (c *Client) Update(ctx context.Context, entity core.EntityKind, id string, fields map[string]string) error {
	if err := c.do(ctx, http.MethodPatch, updatePath(entity, id), jsonBody(fields), nil); err != nil {
		return fmt.Errorf("update %s/%s: %w", entity, id, err)
	}
	return nil
}

// SetEnabled flips a record's enable switch; enabled is encoded as 1/0 the
// way the backend expects it.
func (c *Client) SetEnabled(ctx context.Context, entity core.EntityKind, id string, enabled int) error {
	fields := map[string]string{"bEnable": fmt.Sprintf("%d", enabled)}
	if err := c.do(ctx, http.MethodPatch, updatePath(entity, id), jsonBody(fields), nil); err != nil {
		return fmt.Errorf("set enabled %s/%s: %w", entity, id, err)
	}
	return nil
}

// BulkUpload ships one spreadsheet file to the bulk endpoint as
// multipart/form-data under the field name "file".
func (c *Client) BulkUpload(ctx context.Context, sheet core.SheetKind, filename string, file io.Reader) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("bulk upload: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("bulk upload: read file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("bulk upload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, bulkPath(sheet), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	if err := c.send(req, nil); err != nil {
		return fmt.Errorf("bulk upload %s: %w", sheet, err)
	}
	return nil
}

// States fetches the top level of the cascading reference lookup.
func (c *Client) States(ctx context.Context) ([]Ref, error) {
	var refs []Ref
	if err := c.do(ctx, http.MethodGet, "/general/states", nil, &refs); err != nil {
		return nil, fmt.Errorf("states: %w", err)
	}
	return refs, nil
}

// Districts fetches the districts of one state.
func (c *Client) Districts(ctx context.Context, stateID string) ([]Ref, error) {
	var refs []Ref
	q := url.Values{"stateId": {stateID}}
	if err := c.do(ctx, http.MethodGet, "/general/districts?"+q.Encode(), nil, &refs); err != nil {
		return nil, fmt.Errorf("districts: %w", err)
	}
	return refs, nil
}

// Blocks fetches the blocks of one district.
func (c *Client) Blocks(ctx context.Context, districtID string) ([]Ref, error) {
	var refs []Ref
	q := url.Values{"districtId": {districtID}}
	if err := c.do(ctx, http.MethodGet, "/general/blocks?"+q.Encode(), nil, &refs); err != nil {
		return nil, fmt.Errorf("blocks: %w", err)
	}
	return refs, nil
}

// Template downloads the import template for an entity. The caller owns
// the returned body.
func (c *Client) Template(ctx context.Context, entity core.EntityKind) (io.ReadCloser, error) {
	req, err := c.newRequest(ctx, http.MethodGet, templatePath(entity), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", entity, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &Error{Status: resp.StatusCode, Message: "template not available"}
	}
	return resp.Body, nil
}

// do issues a JSON request and unmarshals the envelope's data into out.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", AuthScheme+" "+tok)
		}
	}
	return req, nil
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope Response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if !envelope.Success {
		return &Error{
			Status:  resp.StatusCode,
			Message: envelope.Message,
			Errors:  envelope.Errors,
		}
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}

func jsonBody(fields map[string]string) io.Reader {
	// Marshalling a map[string]string cannot fail.
	b, _ := json.Marshal(fields)
	return bytes.NewReader(b)
}

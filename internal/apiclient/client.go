// Package apiclient is the outbound REST boundary. One generic request
// path builds the URL, attaches the bearer token and normalizes every
// failure into *APIError; the per-endpoint methods only shape parameters.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mkravchenko/marketplace/internal/util"
)

type APIError struct {
	Message string         `json:"message"`
	Status  int            `json:"status"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

func IsAPIError(err error) (*APIError, bool) {
	apiErr, ok := err.(*APIError)
	return apiErr, ok
}

// Response is the envelope every endpoint answers with.
type Response[T any] struct {
	Success bool                `json:"success"`
	Data    T                   `json:"data,omitempty"`
	Message string              `json:"message,omitempty"`
	Error   string              `json:"error,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// Paginated is the envelope of list endpoints.
type Paginated[T any] struct {
	Response[[]T]
	Pagination util.Pagination `json:"pagination"`
}

// TokenSource supplies the bearer token, typically backed by the persisted
// session.
type TokenSource interface {
	Token(ctx context.Context) (string, bool, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		tokens: tokens,
	}
}

// multipartBody carries a prepared multipart payload. Its content type is
// set by the multipart writer so the boundary survives; the JSON
// content-type header is skipped for it.
type multipartBody struct {
	reader      io.Reader
	contentType string
}

func (c *Client) buildURL(endpoint string, params url.Values) string {
	u := c.baseURL + endpoint
	if len(params) > 0 {
		q := url.Values{}
		for key, vals := range params {
			for _, v := range vals {
				if v == "" {
					continue
				}
				q.Add(key, v)
			}
		}
		if enc := q.Encode(); enc != "" {
			u += "?" + enc
		}
	}
	return u
}

func (c *Client) do(ctx context.Context, method, endpoint string, params url.Values, body any, out any) error {
	var (
		reader      io.Reader
		contentType string
	)

	switch b := body.(type) {
	case nil:
	case *multipartBody:
		reader = b.reader
		contentType = b.contentType
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return &APIError{Message: fmt.Sprintf("encode request: %v", err), Status: 0}
		}
		reader = bytes.NewReader(raw)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(endpoint, params), reader)
	if err != nil {
		return &APIError{Message: err.Error(), Status: 0}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if c.tokens != nil {
		if token, ok, err := c.tokens.Token(ctx); err == nil && ok && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Never reached a server: status 0.
		return &APIError{Message: err.Error(), Status: 0}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Message string         `json:"message"`
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		}
		apiErr := &APIError{Status: resp.StatusCode}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errBody); decodeErr == nil && errBody.Message != "" {
			apiErr.Message = errBody.Message
			apiErr.Code = errBody.Code
			apiErr.Details = errBody.Details
		} else {
			apiErr.Message = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Message: fmt.Sprintf("decode response: %v", err), Status: resp.StatusCode}
	}
	return nil
}

// Do issues a request and decodes the standard envelope.
func Do[T any](ctx context.Context, c *Client, method, endpoint string, params url.Values, body any) (*Response[T], error) {
	var out Response[T]
	if err := c.do(ctx, method, endpoint, params, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DoList issues a request against a list endpoint and decodes the
// paginated envelope.
func DoList[T any](ctx context.Context, c *Client, method, endpoint string, params url.Values, body any) (*Paginated[T], error) {
	var out Paginated[T]
	if err := c.do(ctx, method, endpoint, params, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// NewMultipartFile wraps a single file into a multipart payload for Upload.
func NewMultipartFile(fieldName, fileName string, r io.Reader) (*multipartBody, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(fieldName, fileName)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return &multipartBody{reader: &buf, contentType: w.FormDataContentType()}, nil
}

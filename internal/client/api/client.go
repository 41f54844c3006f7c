package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/gymdesk/internal/client/securestore"
	"github.com/dmitrijs2005/gymdesk/internal/common"
	"github.com/dmitrijs2005/gymdesk/internal/logging"
	"github.com/google/uuid"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 4 << 20

// Client is the configured gateway. Resource groups hang off it as fields.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      securestore.Store
	log        logging.Logger
	requestID  func() string

	Auth       *AuthAPI
	Gyms       *GymsAPI
	Members    *MembersAPI
	Attendance *AttendanceAPI
	Payments   *PaymentsAPI
	Plans      *PlansAPI
	Progress   *ProgressAPI
	AI         *AIAPI
}

type Option func(*Client)

// WithHTTPClient replaces the transport. Tests pass httptest clients here.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithTimeout bounds every request. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			return
		}
		h := *c.httpClient
		h.Timeout = d
		c.httpClient = &h
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithRequestID overrides the X-Request-ID generator.
func WithRequestID(fn func() string) Option {
	return func(c *Client) { c.requestID = fn }
}

// New builds a gateway for the backend at baseURL (scheme://host[:port]).
// All paths are resolved under baseURL + "/api". The credential is read
// from store on every request.
func New(baseURL string, store securestore.Store, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/api",
		httpClient: &http.Client{},
		store:      store,
		log:        logging.Discard(),
		requestID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Auth = &AuthAPI{c: c}
	c.Gyms = &GymsAPI{c: c}
	c.Members = &MembersAPI{c: c}
	c.Attendance = &AttendanceAPI{c: c}
	c.Payments = &PaymentsAPI{c: c}
	c.Plans = &PlansAPI{c: c}
	c.Progress = &ProgressAPI{c: c}
	c.AI = &AIAPI{c: c}
	return c
}

// BaseURL returns the resolved API root, including the "/api" prefix.
func (c *Client) BaseURL() string { return c.baseURL }

type request struct {
	method string
	path   string
	query  url.Values
	header http.Header
	body   any
}

// do sends r and decodes a 2xx JSON body into out (unless out is nil).
func (c *Client) do(ctx context.Context, r request, out any) error {
	reqID := c.requestID()
	log := c.log.With("method", r.method, "path", r.path, "request_id", reqID)

	req, err := c.newRequest(ctx, r, reqID)
	if err != nil {
		return &Error{Kind: KindNetwork, Err: err}
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug(ctx, "request failed", "err", err)
		return &Error{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		log.Debug(ctx, "reading response failed", "status", resp.StatusCode, "err", err)
		return &Error{Kind: KindNetwork, Status: resp.StatusCode, Err: err}
	}

	log.Debug(ctx, "request completed", "status", resp.StatusCode, "elapsed", time.Since(started))

	if resp.StatusCode == http.StatusUnauthorized {
		c.dropCredential(ctx, log)
		detail, _, _ := parseDetail(body)
		return &Error{Kind: KindAuthExpired, Status: resp.StatusCode, Detail: detail}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromBody(resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{
			Kind:   KindNetwork,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%w: %w", ErrMalformedResponse, err),
		}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, r request, reqID string) (*http.Request, error) {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, reqID)
	for k, vs := range r.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	token, ok, err := c.store.Get(ctx, common.SessionTokenKey)
	switch {
	case err != nil:
		c.log.Warn(ctx, "credential read failed, sending unauthenticated", "err", err)
	case ok && token != "":
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	return req, nil
}

// dropCredential deletes the persisted credential after a 401. It runs even
// when the caller's context is already done.
func (c *Client) dropCredential(ctx context.Context, log logging.Logger) {
	if err := c.store.Delete(context.WithoutCancel(ctx), common.SessionTokenKey); err != nil {
		log.Error(ctx, "failed to delete credential after 401", "err", err)
		return
	}
	log.Warn(ctx, "credential deleted after 401")
}

func errorFromBody(status int, body []byte) error {
	detail, structured, err := parseDetail(body)
	if err != nil {
		return &Error{
			Kind:   KindNetwork,
			Status: status,
			Err:    fmt.Errorf("%w: %w", ErrMalformedResponse, err),
		}
	}

	kind := KindRejected
	if status == http.StatusUnprocessableEntity || structured {
		kind = KindValidation
	}
	return &Error{Kind: kind, Status: status, Detail: detail}
}

// IsMalformed reports whether err is a network error caused by an
// undecodable response body.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedResponse)
}

func idPath(prefix, id string, suffix ...string) string {
	p := prefix + "/" + url.PathEscape(id)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

// Package apiclient talks to the remote POS REST API.
//
// Every call except login and register carries the held bearer credential,
// and any 401/403 on such a call is reported to the session so it can end.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/oauth2"

	domainauth "github.com/lubsanchez/pos-console/internal/domain/auth"
)

// Defaults for Options.
const (
	DefaultBaseURL = "http://localhost:3333/api"
	DefaultTimeout = 30 * time.Second
)

const maxBody = 4 << 20

var (
	// ErrNoCredential is returned by authenticated calls made while signed out.
	ErrNoCredential = errors.New("no credential held")
	// ErrUnsuccessful is returned when the API answers 2xx with success=false.
	ErrUnsuccessful = errors.New("api reported failure")
)

// StatusError is a non-2xx API response.
type StatusError struct {
	Status  int
	Method  string
	Path    string
	Message string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, msg)
}

// StatusCode returns the HTTP status.
func (e *StatusError) StatusCode() int { return e.Status }

// ServerMessage returns the message the API sent, if any.
func (e *StatusError) ServerMessage() string { return e.Message }

// Session is what the client needs from the session owner: the held credential
// and a way to report that the API rejected it. *session.Store satisfies it.
type Session interface {
	Credential() (domainauth.Credential, bool)
	HandleUnauthorized(ctx context.Context, rejected domainauth.Credential)
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// Transport is the underlying round tripper; http.DefaultTransport when nil.
	Transport http.RoundTripper
	Logger    *slog.Logger
}

// Client is a typed client for the POS API.
type Client struct {
	base   *url.URL
	logger *slog.Logger

	// public sends unauthenticated requests (login, register).
	public *http.Client
	// authed attaches the bearer credential and reports 401/403.
	authed    *http.Client
	transport http.RoundTripper

	mu      sync.RWMutex
	session Session
}

// New constructs a Client. Call Attach once the session owner exists.
func New(opts Options) (*Client, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimSuffix(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("api base url must be http or https: %q", raw)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	c := &Client{base: base, transport: transport, logger: logger.With("component", "apiclient")}
	c.public = &http.Client{Transport: transport, Timeout: timeout, Jar: jar}
	// The hook sits under the oauth2 transport so it sees the bearer actually sent.
	c.authed = &http.Client{
		Transport: &oauth2.Transport{
			Source: credentialSource{c},
			Base:   &rejectionHook{next: transport, report: c.reportUnauthorized},
		},
		Timeout: timeout,
		Jar:     jar,
	}
	return c, nil
}

// Attach binds the session whose credential is sent and which is told about rejections.
func (c *Client) Attach(s Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
}

func (c *Client) currentSession() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

func (c *Client) reportUnauthorized(ctx context.Context, sent domainauth.Credential, status int, path string) {
	s := c.currentSession()
	if s == nil {
		return
	}
	c.logger.InfoContext(ctx, "api rejected credential", slog.Int("status", status), slog.String("path", path))
	s.HandleUnauthorized(ctx, sent)
}

// credentialSource adapts the attached session to oauth2.TokenSource.
type credentialSource struct{ c *Client }

func (s credentialSource) Token() (*oauth2.Token, error) {
	sess := s.c.currentSession()
	if sess == nil {
		return nil, ErrNoCredential
	}
	cred, ok := sess.Credential()
	if !ok {
		return nil, ErrNoCredential
	}
	return bearer(cred), nil
}

// withCredential returns a client that sends cred regardless of the attached session
// and never reports rejections.
func (c *Client) withCredential(cred domainauth.Credential) *http.Client {
	return &http.Client{
		Transport: &oauth2.Transport{Source: oauth2.StaticTokenSource(bearer(cred)), Base: c.transport},
		Timeout:   c.public.Timeout,
		Jar:       c.public.Jar,
	}
}

func bearer(cred domainauth.Credential) *oauth2.Token {
	typ := cred.Type
	if typ == "" {
		typ = "Bearer"
	}
	return &oauth2.Token{AccessToken: cred.Token, TokenType: typ}
}

// rejectionHook reports 401/403 answers to authenticated requests together
// with the credential the request carried.
type rejectionHook struct {
	next   http.RoundTripper
	report func(ctx context.Context, sent domainauth.Credential, status int, path string)
}

func (h *rejectionHook) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := h.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusForbidden {
		return resp, nil
	}
	if sent, ok := sentCredential(req); ok {
		h.report(req.Context(), sent, resp.StatusCode, req.URL.Path)
	}
	return resp, nil
}

func sentCredential(req *http.Request) (domainauth.Credential, bool) {
	typ, token, ok := strings.Cut(req.Header.Get("Authorization"), " ")
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return domainauth.Credential{}, false
	}
	return domainauth.Credential{Type: strings.ToLower(typ), Token: token}, true
}

// envelope is the API's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func (e envelope) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

type call struct {
	method string
	path   string
	query  url.Values
	body   any
	// client defaults to the authenticated client.
	client *http.Client
	header http.Header
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := *c.base
	u.Path = c.base.Path + path
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// do performs a call and decodes the envelope's data into out (when non-nil).
func (c *Client) do(ctx context.Context, in call, out any) error {
	var body io.Reader
	if in.body != nil {
		buf, err := json.Marshal(in.body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", in.method, in.path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, in.method, c.endpoint(in.path, in.query), body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", in.method, in.path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range in.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	client := in.client
	if client == nil {
		client = c.authed
	}
	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, ErrNoCredential) {
			return ErrNoCredential
		}
		return fmt.Errorf("%s %s: %w", in.method, in.path, err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("read %s %s: %w", in.method, in.path, err)
	}
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Status: resp.StatusCode, Method: in.method, Path: in.path}
		if decodeErr == nil {
			se.Message = env.text()
		}
		return se
	}
	if len(raw) == 0 || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if decodeErr != nil {
		return fmt.Errorf("decode %s %s: %w", in.method, in.path, decodeErr)
	}
	if !env.Success {
		if msg := env.text(); msg != "" {
			return fmt.Errorf("%s %s: %w: %s", in.method, in.path, ErrUnsuccessful, msg)
		}
		return fmt.Errorf("%s %s: %w", in.method, in.path, ErrUnsuccessful)
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s %s data: %w", in.method, in.path, err)
	}
	return nil
}

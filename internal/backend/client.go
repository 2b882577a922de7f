// Package backend holds the typed gateway to the backend REST API. Each exported method
// maps to one endpoint, relays the session through a session.Store, and reports failures
// as *Error values.
package backend

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

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/hongminglow/sg-web/internal/session"
)

const maxBodyBytes = 8 << 20

// Observer receives one notification per gateway call. kind is 0 on success.
type Observer interface {
	ObserveCall(endpoint string, kind Kind, elapsed time.Duration)
}

// Config configures a Client.
type Config struct {
	BaseURL string
	APIKey  string
	// Timeout of zero leaves the http.Client default in place.
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     logrus.FieldLogger
	Observer   Observer
}

// Client calls the backend API. It is safe for concurrent use.
type Client struct {
	baseURL  string
	relay    *session.Relay
	http     *http.Client
	log      logrus.FieldLogger
	observer Observer
}

// New builds a Client.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	log := cfg.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Client{
		baseURL:  strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/"),
		relay:    session.NewRelay(cfg.APIKey),
		http:     httpClient,
		log:      log,
		observer: cfg.Observer,
	}
}

type call struct {
	endpoint    string
	method      string
	path        string
	query       url.Values
	body        any
	requireAuth bool
	capture     bool
}

func (c *Client) do(ctx context.Context, store session.Store, cl call, out any) (err error) {
	start := time.Now()
	defer func() {
		c.report(cl.endpoint, err, time.Since(start))
	}()

	if cl.requireAuth && !hasToken(store) {
		return errNotAuthenticated
	}

	var body io.Reader
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return networkError(fmt.Errorf("marshal %s payload: %w", cl.endpoint, err))
		}
		body = bytes.NewReader(payload)
	}

	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, target, body)
	if err != nil {
		return networkError(fmt.Errorf("build %s request: %w", cl.endpoint, err))
	}
	req.Header = c.relay.Headers(store)
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.http.Do(req)
	if err != nil {
		return networkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return networkError(fmt.Errorf("read %s response: %w", cl.endpoint, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{Kind: KindBackend, Status: resp.StatusCode, Message: backendMessage(raw)}
	}

	if cl.capture {
		c.relay.Capture(resp, store)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return networkError(fmt.Errorf("decode %s response: %w", cl.endpoint, err))
	}
	return nil
}

func (c *Client) report(endpoint string, err error, elapsed time.Duration) {
	kind := KindOf(err)
	if c.observer != nil {
		c.observer.ObserveCall(endpoint, kind, elapsed)
	}
	if err == nil {
		return
	}
	entry := c.log.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"kind":     kind.String(),
		"elapsed":  elapsed.String(),
	})
	switch kind {
	case KindUnauthenticated:
		entry.Debug("backend call skipped")
	default:
		entry.WithError(err).Warn("backend call failed")
	}
}

// backendMessage pulls the message field out of an error body of any shape.
func backendMessage(raw []byte) string {
	if !gjson.ValidBytes(raw) {
		return MsgRequestFailed
	}
	msg := gjson.GetBytes(raw, "message")
	if msg.Type != gjson.String {
		return MsgRequestFailed
	}
	return msg.Str
}

func hasToken(store session.Store) bool {
	if store == nil {
		return false
	}
	_, ok := store.Token()
	return ok
}

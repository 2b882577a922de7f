// Package session relays the backend session token between the browser cookie and
// outbound backend requests. The token is opaque; it is never decoded here.
package session

import (
	"net/http"
	"regexp"
	"strings"
	"time"
)

// CookieName is the cookie carrying the backend session token.
const CookieName = "sg_token"

// MaxAge is the lifetime given to the session cookie.
const MaxAge = 7 * 24 * time.Hour

// APIKeyHeader carries the optional backend API key.
const APIKeyHeader = "x-api-key"

const apiKeyPlaceholder = "replace_me"

var tokenPattern = regexp.MustCompile(CookieName + `=([^;]+)`)

// Store is the caller's cookie store for one request/response cycle.
type Store interface {
	Token() (string, bool)
	SetToken(token string)
	Clear()
}

// Relay builds outbound headers from a Store and captures tokens from backend responses.
type Relay struct {
	apiKey string
}

// NewRelay returns a relay. An empty or placeholder API key is ignored.
func NewRelay(apiKey string) *Relay {
	key := strings.TrimSpace(apiKey)
	if strings.EqualFold(key, apiKeyPlaceholder) {
		key = ""
	}
	return &Relay{apiKey: key}
}

// Headers returns the headers for an outbound backend request.
func (r *Relay) Headers(store Store) http.Header {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	if store != nil {
		if token, ok := store.Token(); ok {
			h.Set("Cookie", CookieName+"="+token)
		}
	}
	if r.apiKey != "" {
		h.Set(APIKeyHeader, r.apiKey)
	}
	return h
}

// Capture looks for a session token in the response's Set-Cookie headers and writes it
// into store. It reports whether a token was found.
func (r *Relay) Capture(resp *http.Response, store Store) bool {
	if resp == nil || store == nil {
		return false
	}
	token, ok := ExtractToken(resp.Header.Values("Set-Cookie"))
	if !ok {
		return false
	}
	store.SetToken(token)
	return true
}

// ExtractToken returns the first session token found in the given Set-Cookie values.
func ExtractToken(setCookies []string) (string, bool) {
	for _, v := range setCookies {
		if m := tokenPattern.FindStringSubmatch(v); m != nil {
			return m[1], true
		}
	}
	return "", false
}

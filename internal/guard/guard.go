// Package guard decides whether a page request may proceed based only on its path and
// whether a session cookie is present. Tokens are not validated here; the backend rejects
// bad ones on the next call.
package guard

import "strings"

// Decision is the outcome of Decide.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectHome
)

// Redirect targets.
const (
	LoginPath = "/login"
	HomePath  = "/dashboard"
)

// ProtectedPrefixes are the authenticated areas.
var ProtectedPrefixes = []string{"/dashboard", "/wallet", "/buy", "/sell", "/scheme", "/delivery", "/profile"}

// AuthPages are only useful to signed-out visitors.
var AuthPages = []string{"/login", "/register"}

// Decide returns what to do with a request for path.
func Decide(path string, hasSession bool) Decision {
	switch {
	case !hasSession && IsProtected(path):
		return RedirectLogin
	case hasSession && IsAuthPage(path):
		return RedirectHome
	default:
		return Allow
	}
}

// Target returns the redirect location for d, or "" for Allow.
func (d Decision) Target() string {
	switch d {
	case RedirectLogin:
		return LoginPath
	case RedirectHome:
		return HomePath
	default:
		return ""
	}
}

// IsProtected reports whether path is inside an authenticated area.
func IsProtected(path string) bool {
	for _, p := range ProtectedPrefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// IsAuthPage reports whether path is the login or register page.
func IsAuthPage(path string) bool {
	path = strings.TrimSuffix(path, "/")
	for _, p := range AuthPages {
		if path == p {
			return true
		}
	}
	return false
}

package session

import (
	"net/http"
	"sync"
)

// CookieStore reads the token from an inbound request and writes changes to the response.
type CookieStore struct {
	r      *http.Request
	w      http.ResponseWriter
	secure bool

	token   string
	present bool
}

// NewCookieStore binds a store to one request/response pair. secure sets the Secure
// attribute on written cookies and should be on in production.
func NewCookieStore(w http.ResponseWriter, r *http.Request, secure bool) *CookieStore {
	s := &CookieStore{r: r, w: w, secure: secure}
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		s.token = c.Value
		s.present = true
	}
	return s
}

func (s *CookieStore) Token() (string, bool) {
	return s.token, s.present
}

func (s *CookieStore) SetToken(token string) {
	s.token = token
	s.present = token != ""
	http.SetCookie(s.w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *CookieStore) Clear() {
	s.token = ""
	s.present = false
	http.SetCookie(s.w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// HasToken reports whether the request carries a non-empty session cookie.
func HasToken(r *http.Request) bool {
	c, err := r.Cookie(CookieName)
	return err == nil && c.Value != ""
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryStore returns a store holding token. An empty token means no session.
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (m *MemoryStore) Token() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.token != ""
}

func (m *MemoryStore) SetToken(token string) {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
}

func (m *MemoryStore) Clear() {
	m.SetToken("")
}

package middleware

import (
	"net/http"

	"github.com/hongminglow/sg-web/internal/guard"
	"github.com/hongminglow/sg-web/internal/session"
)

// Guard redirects page requests according to guard.Decide. Only the presence of the
// session cookie is checked here; the pages validate it with the backend.
func Guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d := guard.Decide(r.URL.Path, session.HasToken(r))
		if d == guard.Allow {
			next.ServeHTTP(w, r)
			return
		}
		http.Redirect(w, r, d.Target(), http.StatusSeeOther)
	})
}

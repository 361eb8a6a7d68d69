package middleware

import (
	"net/http"

	"ragadmin/internal/platform/session"
)

// Guard keeps anonymous visitors out of the authenticated pages. It only
// checks presence (and local expiry) of the session; the backend remains
// the authority and will answer 401 to anything stale, which clears the
// session globally.
type Guard struct {
	sessions *session.Store
}

func NewGuard(sessions *session.Store) *Guard {
	return &Guard{sessions: sessions}
}

func (g *Guard) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !g.sessions.Authenticated() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

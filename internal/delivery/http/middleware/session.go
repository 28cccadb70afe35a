package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"bethys-backend/internal/domain"
)

const sessionCookie = "bethys_session"

// SessionMiddleware attaches an opaque session ID to every request. The ID
// comes from the session cookie, or the X-Session-ID header for non-browser
// clients; first-time visitors get a fresh one. No accounts, no passwords:
// the session is just the key the cart blob is stored under.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := ""

		if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
			sessionID = cookie.Value
		} else if header := r.Header.Get("X-Session-ID"); header != "" {
			sessionID = header
		}

		if sessionID == "" {
			sessionID = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    sessionID,
				Path:     "/",
				Expires:  time.Now().Add(30 * 24 * time.Hour),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), domain.SessionContextKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionID extracts the session ID placed by SessionMiddleware.
func SessionID(r *http.Request) (string, bool) {
	sid, ok := r.Context().Value(domain.SessionContextKey).(string)
	return sid, ok && sid != ""
}

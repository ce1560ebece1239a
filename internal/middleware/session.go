package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	inHttp "github.com/shopindream/storefront/internal/http"
	"github.com/shopindream/storefront/internal/log"
)

// Session attaches a stable per-browser session id to the request context.
// The id scopes the locally persisted cart, it is not an authentication token.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := r.Context()
		logger := zerolog.Ctx(c).With().Str(log.KeyTag, "middleware Session").Logger()

		sessionID := ""
		cookie, err := r.Cookie(inHttp.SessionCookieName)
		if err == nil {
			if _, parseErr := uuid.Parse(cookie.Value); parseErr == nil {
				sessionID = cookie.Value
			}
		}
		if sessionID == "" {
			sessionID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     inHttp.SessionCookieName,
				Value:    sessionID,
				Path:     "/",
				Expires:  time.Now().Add(30 * 24 * time.Hour),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			logger.Debug().Str(log.KeySessionID, sessionID).Msg("issued new session id")
		}

		logger = logger.With().Str(log.KeySessionID, sessionID).Logger()
		c = log.AttachSessionIDToContext(c, sessionID)
		c = logger.WithContext(c)
		next.ServeHTTP(w, r.WithContext(c))
	})
}

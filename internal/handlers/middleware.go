package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	sessionCookieName = "quizbot_session"
	sessionIDKey      = "session_id"
)

// SessionMiddleware assigns every client a stable session identifier via
// a signed cookie. The identifier keys all per-session quiz state; no
// user accounts are involved.
func SessionMiddleware(store *sessions.CookieStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := store.Get(c.Request, sessionCookieName)
		if err != nil {
			// Tampered or stale cookie: fall through to a fresh session
			session, _ = store.New(c.Request, sessionCookieName)
		}

		id, ok := session.Values["id"].(string)
		if !ok || id == "" {
			id = uuid.NewString()
			session.Values["id"] = id
			if err := session.Save(c.Request, c.Writer); err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Failed to establish session",
				})
				return
			}
		}

		c.Set(sessionIDKey, id)
		c.Next()
	}
}

// SessionID returns the session identifier set by SessionMiddleware
func SessionID(c *gin.Context) string {
	if id, ok := c.Get(sessionIDKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}

// NewSessionCookieStore builds the cookie store with widget-appropriate options
func NewSessionCookieStore(secret string) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

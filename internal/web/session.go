package web

import (
	"context"
	"net/http"

	"github.com/Chetan-316/visualcraft/internal/session"
)

// sessionCookie names the cookie carrying the session ID.
const sessionCookie = "vc_session"

type contextKey string

const ctxKeySession contextKey = "session_context"

// sessionMiddleware resolves the request's session context from the session
// cookie, creating a fresh session (and setting the cookie) when the request
// carries none or references an unknown ID. Handlers read the context via
// sessionFrom; two browsers never share upload or chart state.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sctx *session.Context

		if cookie, err := r.Cookie(sessionCookie); err == nil {
			sctx, _ = s.store.Get(cookie.Value)
		}

		if sctx == nil {
			id, fresh := s.store.New()
			sctx = fresh
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), ctxKeySession, sctx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFrom extracts the session context installed by sessionMiddleware.
func sessionFrom(r *http.Request) *session.Context {
	sctx, _ := r.Context().Value(ctxKeySession).(*session.Context)
	return sctx
}

package httpapi

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const identityKey contextKey = "identity"

// identityHeaders are set by an authenticating reverse proxy
// (Traefik BasicAuth and friends), checked in this order.
var identityHeaders = []string{"X-Auth-User", "X-Forwarded-User", "Remote-User"}

// IdentityMiddleware records the proxy-supplied user, if any. Requests
// without one pass through untouched: usernames are client-supplied and
// the header only fills in a username the body left out.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var user string
		for _, h := range identityHeaders {
			if user = strings.TrimSpace(r.Header.Get(h)); user != "" {
				break
			}
		}

		if user == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func Identity(r *http.Request) string {
	user, ok := r.Context().Value(identityKey).(string)
	if !ok {
		return ""
	}
	return user
}

// usernameOr returns username, or the proxy identity when it is blank.
func usernameOr(r *http.Request, username string) string {
	if strings.TrimSpace(username) != "" {
		return username
	}
	return Identity(r)
}

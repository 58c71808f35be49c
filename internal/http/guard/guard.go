// Package guard authenticates requests and authorizes account access.
package guard

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/access"
	"github.com/MrJamesThe3rd/tally/internal/auth"
	"github.com/MrJamesThe3rd/tally/internal/http/httperr"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/user"
)

// AccountParam is the URL parameter Account reads the account id from.
const AccountParam = "accountID"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*user.User, error)
}

type Authorizer interface {
	Authorize(ctx context.Context, p access.Principal, accountID uuid.UUID, required ...access.Permission) (access.Grant, error)
}

type userKey struct{}

// Authenticate requires a valid bearer token for an active user and puts the
// caller's principal on the request context.
func Authenticate(users Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				respond.Error(w, http.StatusUnauthorized, "access token required")
				return
			}

			u, err := users.Authenticate(r.Context(), strings.TrimSpace(token))
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrTokenExpired):
					respond.Error(w, http.StatusUnauthorized, "token expired")
				case errors.Is(err, auth.ErrTokenInvalid), errors.Is(err, user.ErrNotFound):
					respond.Error(w, http.StatusUnauthorized, "invalid token")
				default:
					httperr.Write(w, r, err)
				}

				return
			}

			ctx := access.WithPrincipal(r.Context(), access.Principal{UserID: u.ID, Email: u.Email, IsAdmin: u.IsAdmin()})
			ctx = context.WithValue(ctx, userKey{}, u)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !Principal(r).IsAdmin {
			respond.Error(w, http.StatusForbidden, "admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Account authorizes the caller on the account named by the accountID URL
// parameter and stores the resulting grant on the request context.
func Account(engine Authorizer, required ...access.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accountID, ok := respond.ID(w, r, AccountParam)
			if !ok {
				return
			}

			g, err := engine.Authorize(r.Context(), Principal(r), accountID, required...)
			if err != nil {
				httperr.Write(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(access.WithGrant(r.Context(), g)))
		})
	}
}

// Principal returns the authenticated caller. The zero value is returned
// outside Authenticate.
func Principal(r *http.Request) access.Principal {
	p, _ := access.PrincipalFrom(r.Context())
	return p
}

// User returns the authenticated user.
func User(r *http.Request) *user.User {
	u, _ := r.Context().Value(userKey{}).(*user.User)
	return u
}

// Grant returns the grant stored by Account.
func Grant(r *http.Request) access.Grant {
	g, _ := access.GrantFrom(r.Context())
	return g
}

// AccountID is the account the request was authorized for.
func AccountID(r *http.Request) uuid.UUID {
	return Grant(r).AccountID
}

// With is a shorthand for routing a group of handlers behind Account.
func With(r chi.Router, engine Authorizer, required ...access.Permission) chi.Router {
	return r.With(Account(engine, required...))
}

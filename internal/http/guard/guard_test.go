package guard_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/access"
	"github.com/MrJamesThe3rd/tally/internal/auth"
	"github.com/MrJamesThe3rd/tally/internal/http/guard"
	"github.com/MrJamesThe3rd/tally/internal/user"
)

type fakeUsers struct {
	user *user.User
	err  error
}

func (f fakeUsers) Authenticate(_ context.Context, token string) (*user.User, error) {
	if token != "good" {
		return nil, auth.ErrTokenInvalid
	}

	return f.user, f.err
}

type fakeEngine struct {
	grant access.Grant
	err   error
	got   []access.Permission
}

func (f *fakeEngine) Authorize(_ context.Context, _ access.Principal, accountID uuid.UUID, required ...access.Permission) (access.Grant, error) {
	f.got = required
	if f.err != nil {
		return access.Grant{}, f.err
	}

	g := f.grant
	g.AccountID = accountID

	return g, nil
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	return body.Error
}

func TestAuthenticate(t *testing.T) {
	active := &user.User{ID: uuid.New(), Email: "ana@example.com", Role: user.RoleAdmin, State: user.StateActive}

	tests := []struct {
		name       string
		header     string
		users      fakeUsers
		wantStatus int
		wantError  string
	}{
		{name: "MissingHeader", header: "", wantStatus: http.StatusUnauthorized, wantError: "access token required"},
		{name: "NotBearer", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantError: "access token required"},
		{name: "InvalidToken", header: "Bearer bad", wantStatus: http.StatusUnauthorized, wantError: "invalid token"},
		{name: "Expired", header: "Bearer good", users: fakeUsers{err: auth.ErrTokenExpired}, wantStatus: http.StatusUnauthorized, wantError: "token expired"},
		{name: "UserGone", header: "Bearer good", users: fakeUsers{err: user.ErrNotFound}, wantStatus: http.StatusUnauthorized, wantError: "invalid token"},
		{name: "Blocked", header: "Bearer good", users: fakeUsers{err: user.ErrBlocked}, wantStatus: http.StatusForbidden, wantError: user.ErrBlocked.Error()},
		{name: "Valid", header: "Bearer good", users: fakeUsers{user: active}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen access.Principal

			h := guard.Authenticate(tt.users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = guard.Principal(r)
				assert.Equal(t, tt.users.user, guard.User(r))
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, errorBody(t, rec))
				return
			}

			assert.Equal(t, access.Principal{UserID: active.ID, Email: active.Email, IsAdmin: true}, seen)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	for _, admin := range []bool{false, true} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(access.WithPrincipal(req.Context(), access.Principal{UserID: uuid.New(), IsAdmin: admin}))

		rec := httptest.NewRecorder()
		guard.RequireAdmin(ok).ServeHTTP(rec, req)

		if admin {
			assert.Equal(t, http.StatusOK, rec.Code)
		} else {
			assert.Equal(t, http.StatusForbidden, rec.Code)
		}
	}
}

func TestAccount(t *testing.T) {
	accountID := uuid.New()

	tests := []struct {
		name       string
		path       string
		engine     *fakeEngine
		wantStatus int
		wantError  string
	}{
		{
			name:       "Granted",
			path:       "/accounts/" + accountID.String(),
			engine:     &fakeEngine{grant: access.Grant{Role: access.RoleEditor}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "BadID",
			path:       "/accounts/not-a-uuid",
			engine:     &fakeEngine{},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid accountID",
		},
		{
			name:       "Denied",
			path:       "/accounts/" + accountID.String(),
			engine:     &fakeEngine{err: access.ErrAccessDenied},
			wantStatus: http.StatusNotFound,
			wantError:  "account not found or access denied",
		},
		{
			name:       "Insufficient",
			path:       "/accounts/" + accountID.String(),
			engine:     &fakeEngine{err: access.ErrInsufficientPermission},
			wantStatus: http.StatusForbidden,
			wantError:  "insufficient permissions",
		},
		{
			name:       "Archived",
			path:       "/accounts/" + accountID.String(),
			engine:     &fakeEngine{err: access.ErrArchivedAccount},
			wantStatus: http.StatusForbidden,
			wantError:  access.ErrArchivedAccount.Error(),
		},
		{
			name:       "LookupFailure",
			path:       "/accounts/" + accountID.String(),
			engine:     &fakeEngine{err: errors.New("connection reset")},
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chi.NewRouter()
			guard.With(r, tt.engine, access.PermEdit).Get("/accounts/{accountID}", func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, accountID, guard.AccountID(r))
				assert.Equal(t, access.RoleEditor, guard.Grant(r).Role)
				w.WriteHeader(http.StatusOK)
			})

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, errorBody(t, rec))
				return
			}

			assert.Equal(t, []access.Permission{access.PermEdit}, tt.engine.got)
		})
	}
}

// Package httperr maps domain errors to HTTP responses.
package httperr

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrJamesThe3rd/tally/internal/access"
	"github.com/MrJamesThe3rd/tally/internal/account"
	"github.com/MrJamesThe3rd/tally/internal/auth"
	"github.com/MrJamesThe3rd/tally/internal/calendar"
	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/currency"
	"github.com/MrJamesThe3rd/tally/internal/document"
	"github.com/MrJamesThe3rd/tally/internal/export"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/matching"
	"github.com/MrJamesThe3rd/tally/internal/movement"
	"github.com/MrJamesThe3rd/tally/internal/report"
	"github.com/MrJamesThe3rd/tally/internal/tag"
	"github.com/MrJamesThe3rd/tally/internal/task"
	"github.com/MrJamesThe3rd/tally/internal/user"
)

// Checked in order; the first match wins.
var statuses = []struct {
	err    error
	status int
}{
	{access.ErrAccessDenied, http.StatusNotFound},
	{access.ErrInsufficientPermission, http.StatusForbidden},
	{access.ErrArchivedAccount, http.StatusForbidden},
	{user.ErrBlocked, http.StatusForbidden},

	{auth.ErrTokenExpired, http.StatusUnauthorized},
	{auth.ErrTokenInvalid, http.StatusUnauthorized},
	{user.ErrInvalidCredentials, http.StatusUnauthorized},

	{account.ErrCannotModifyOwner, http.StatusBadRequest},
	{account.ErrAlreadyMember, http.StatusBadRequest},
	{account.ErrInvalidRole, http.StatusBadRequest},
	{account.ErrInvalid, http.StatusBadRequest},
	{currency.ErrUnsupported, http.StatusBadRequest},
	{user.ErrInvalid, http.StatusBadRequest},
	{user.ErrEmailTaken, http.StatusBadRequest},
	{user.ErrWrongPassword, http.StatusBadRequest},
	{user.ErrSelfDelete, http.StatusBadRequest},
	{category.ErrInvalid, http.StatusBadRequest},
	{category.ErrNameTaken, http.StatusBadRequest},
	{category.ErrInUse, http.StatusBadRequest},
	{movement.ErrInvalid, http.StatusBadRequest},
	{movement.ErrInvalidCategory, http.StatusBadRequest},
	{movement.ErrNotPending, http.StatusBadRequest},
	{tag.ErrInvalid, http.StatusBadRequest},
	{tag.ErrNameTaken, http.StatusBadRequest},
	{document.ErrInvalid, http.StatusBadRequest},
	{task.ErrInvalid, http.StatusBadRequest},
	{task.ErrSameState, http.StatusBadRequest},
	{calendar.ErrInvalid, http.StatusBadRequest},
	{calendar.ErrInvalidCategory, http.StatusBadRequest},
	{calendar.ErrInvalidMovement, http.StatusBadRequest},
	{report.ErrInvalid, http.StatusBadRequest},
	{matching.ErrInvalid, http.StatusBadRequest},
	{importer.ErrUnknownBank, http.StatusBadRequest},
	{export.ErrInvalidRange, http.StatusBadRequest},

	{account.ErrNotFound, http.StatusNotFound},
	{account.ErrUserNotFound, http.StatusNotFound},
	{account.ErrMemberNotFound, http.StatusNotFound},
	{user.ErrNotFound, http.StatusNotFound},
	{category.ErrNotFound, http.StatusNotFound},
	{movement.ErrNotFound, http.StatusNotFound},
	{tag.ErrNotFound, http.StatusNotFound},
	{document.ErrNotFound, http.StatusNotFound},
	{document.ErrMovementNotFound, http.StatusNotFound},
	{task.ErrNotFound, http.StatusNotFound},
	{calendar.ErrEventNotFound, http.StatusNotFound},
	{calendar.ErrReminderNotFound, http.StatusNotFound},
	{report.ErrNoData, http.StatusNotFound},
	{matching.ErrNotFound, http.StatusNotFound},
}

// Status returns the response status for err and the sentinel it matched,
// nil for unknown errors.
func Status(err error) (int, error) {
	for _, s := range statuses {
		if errors.Is(err, s.err) {
			return s.status, s.err
		}
	}

	return http.StatusInternalServerError, nil
}

// Write answers with the status mapped from err. Known errors carry their
// message, not-found errors only the sentinel's; anything else is logged and
// answered with a generic 500.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	status, sentinel := Status(err)
	if sentinel == nil {
		slog.Error("request failed",
			"method", r.Method,
			"route", routePattern(r),
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
		respond.Error(w, status, "internal server error")

		return
	}

	msg := err.Error()
	if status == http.StatusNotFound {
		msg = sentinel.Error()
	}

	respond.Error(w, status, msg)
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}

	return r.URL.Path
}

package report

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tally/internal/access"
	"github.com/MrJamesThe3rd/tally/internal/http/guard"
	"github.com/MrJamesThe3rd/tally/internal/http/httperr"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/movement"
	"github.com/MrJamesThe3rd/tally/internal/report"
)

type Handler struct {
	svc   *report.Service
	authz guard.Authorizer
}

func NewHandler(svc *report.Service, authz guard.Authorizer) *Handler {
	return &Handler{svc: svc, authz: authz}
}

// Routes serves the reports of the account in the mount path.
func (h *Handler) Routes(r chi.Router) {
	r.Use(guard.Account(h.authz, access.PermViewReports))

	r.Get("/dashboard", h.dashboard)
	r.Get("/totals", h.totals)
	r.Get("/categories", h.byCategory)
	r.Get("/top-categories", h.topCategories)
	r.Get("/compare", h.compare)
	r.Get("/providers", h.byProvider)
	r.Get("/trends", h.trends)
	r.Get("/most-expensive-month", h.mostExpensiveMonth)
	r.Get("/net-income", h.netIncome)
}

// AdminRoutes serve reports across every account.
func (h *Handler) AdminRoutes(r chi.Router) {
	r.Get("/all-accounts", h.accounts)
}

func dateRange(w http.ResponseWriter, r *http.Request, fromKey, toKey string) (report.Range, bool) {
	from, ok := respond.Date(w, r, fromKey)
	if !ok {
		return report.Range{}, false
	}

	to, ok := respond.Date(w, r, toKey)
	if !ok {
		return report.Range{}, false
	}

	return report.Range{From: from, To: to}, true
}

// intParam reads an optional integer query value. Zero means absent.
func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, true
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, name+" must be a number")
		return 0, false
	}

	return n, true
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Dashboard(r.Context(), guard.AccountID(r))
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, d)
}

func (h *Handler) totals(w http.ResponseWriter, r *http.Request) {
	rng, ok := dateRange(w, r, "from", "to")
	if !ok {
		return
	}

	group := report.Grouping(r.URL.Query().Get("groupBy"))

	totals, err := h.svc.Totals(r.Context(), guard.AccountID(r), group, rng)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, totals)
}

func (h *Handler) byCategory(w http.ResponseWriter, r *http.Request) {
	rng, ok := dateRange(w, r, "from", "to")
	if !ok {
		return
	}

	typ := movement.Type(r.URL.Query().Get("type"))

	b, err := h.svc.ByCategory(r.Context(), guard.AccountID(r), typ, rng)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, b)
}

func (h *Handler) topCategories(w http.ResponseWriter, r *http.Request) {
	rng, ok := dateRange(w, r, "from", "to")
	if !ok {
		return
	}

	limit, ok := intParam(w, r, "limit")
	if !ok {
		return
	}

	typ := movement.Type(r.URL.Query().Get("type"))

	shares, err := h.svc.TopCategories(r.Context(), guard.AccountID(r), typ, rng, limit)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, shares)
}

func (h *Handler) compare(w http.ResponseWriter, r *http.Request) {
	a, ok := dateRange(w, r, "fromA", "toA")
	if !ok {
		return
	}

	b, ok := dateRange(w, r, "fromB", "toB")
	if !ok {
		return
	}

	c, err := h.svc.Compare(r.Context(), guard.AccountID(r), a, b)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, c)
}

func (h *Handler) byProvider(w http.ResponseWriter, r *http.Request) {
	rng, ok := dateRange(w, r, "from", "to")
	if !ok {
		return
	}

	limit, ok := intParam(w, r, "limit")
	if !ok {
		return
	}

	spend, err := h.svc.ByProvider(r.Context(), guard.AccountID(r), rng, limit)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, spend)
}

func (h *Handler) trends(w http.ResponseWriter, r *http.Request) {
	months, ok := intParam(w, r, "months")
	if !ok {
		return
	}

	t, err := h.svc.Trends(r.Context(), guard.AccountID(r), months)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, t)
}

func (h *Handler) mostExpensiveMonth(w http.ResponseWriter, r *http.Request) {
	year, ok := intParam(w, r, "year")
	if !ok {
		return
	}

	p, err := h.svc.MostExpensiveMonth(r.Context(), guard.AccountID(r), year)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, p)
}

func (h *Handler) netIncome(w http.ResponseWriter, r *http.Request) {
	rng, ok := dateRange(w, r, "from", "to")
	if !ok {
		return
	}

	deductions, ok := respond.IDs(w, r, "deductions")
	if !ok {
		return
	}

	n, err := h.svc.NetIncome(r.Context(), guard.AccountID(r), rng, deductions)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, n)
}

func (h *Handler) accounts(w http.ResponseWriter, r *http.Request) {
	totals, err := h.svc.Accounts(r.Context())
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, totals)
}

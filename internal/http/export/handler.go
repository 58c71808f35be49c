package export

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tally/internal/access"
	"github.com/MrJamesThe3rd/tally/internal/export"
	"github.com/MrJamesThe3rd/tally/internal/http/guard"
	"github.com/MrJamesThe3rd/tally/internal/http/httperr"
	movementhttp "github.com/MrJamesThe3rd/tally/internal/http/movement"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
)

type Handler struct {
	svc   *export.Service
	authz guard.Authorizer
}

func NewHandler(svc *export.Service, authz guard.Authorizer) *Handler {
	return &Handler{svc: svc, authz: authz}
}

func (h *Handler) Routes(r chi.Router) {
	r.Use(guard.Account(h.authz, access.PermView))
	r.Post("/", h.metadata)
	r.Post("/download", h.download)
}

type exportRequest struct {
	From movementhttp.Date `json:"from"`
	To   movementhttp.Date `json:"to"`
}

type itemResponse struct {
	Movement movementhttp.Response `json:"movement"`
	Files    []string              `json:"files"`
}

type exportMetadataResponse struct {
	Items   []itemResponse `json:"items"`
	Summary string         `json:"summary"`
}

func (req exportRequest) bounds(w http.ResponseWriter) (time.Time, time.Time, bool) {
	from, to := time.Time(req.From), time.Time(req.To)
	if from.IsZero() || to.IsZero() {
		respond.Error(w, http.StatusBadRequest, "from and to are required")
		return from, to, false
	}

	return from, to, true
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	from, to, ok := req.bounds(w)
	if !ok {
		return
	}

	items, err := h.svc.Export(r.Context(), guard.AccountID(r), from, to, io.Discard)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, exportMetadataResponse{
		Items: respond.Map(items, func(it export.Item) itemResponse {
			return itemResponse{
				Movement: movementhttp.NewResponse(it.Movement),
				Files:    respond.Map(it.Files, func(s string) string { return s }),
			}
		}),
		Summary: export.Summary(items),
	})
}

// download builds the archive in a temp file first so a failed document
// fetch still produces a proper error response.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	from, to, ok := req.bounds(w)
	if !ok {
		return
	}

	tmp, err := os.CreateTemp("", "tally-export-*.zip")
	if err != nil {
		httperr.Write(w, r, fmt.Errorf("creating export file: %w", err))
		return
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := h.svc.Export(r.Context(), guard.AccountID(r), from, to, tmp); err != nil {
		httperr.Write(w, r, err)
		return
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		httperr.Write(w, r, fmt.Errorf("rewinding export file: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"export_%s_%s.zip\"", from.Format("20060102"), to.Format("20060102")))

	if _, err := io.Copy(w, tmp); err != nil {
		slog.Error("failed to stream export", "error", err)
	}
}

package matching

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tally/internal/http/guard"
	"github.com/MrJamesThe3rd/tally/internal/http/httperr"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/matching"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
	r.With(guard.RequireAdmin).Delete("/{id}", h.forget)
}

type suggestResponse struct {
	RawDescription string `json:"rawDescription"`
	Provider       string `json:"provider"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	rawDesc := r.URL.Query().Get("description")
	if rawDesc == "" {
		respond.Error(w, http.StatusBadRequest, "description query parameter is required")
		return
	}

	provider, err := h.svc.Suggest(r.Context(), rawDesc)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, suggestResponse{
		RawDescription: rawDesc,
		Provider:       provider,
	})
}

type learnRequest struct {
	RawPattern string `json:"rawPattern"`
	Provider   string `json:"provider"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	m, err := h.svc.Learn(r.Context(), req.RawPattern, req.Provider)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, m)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	mappings, err := h.svc.List(r.Context())
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	if mappings == nil {
		mappings = []matching.Mapping{}
	}

	respond.JSON(w, http.StatusOK, mappings)
}

func (h *Handler) forget(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Forget(r.Context(), id); err != nil {
		httperr.Write(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package document

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/access"
	"github.com/MrJamesThe3rd/tally/internal/document"
	"github.com/MrJamesThe3rd/tally/internal/http/guard"
	"github.com/MrJamesThe3rd/tally/internal/http/httperr"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
)

type Handler struct {
	svc   *document.Service
	authz guard.Authorizer
}

func NewHandler(svc *document.Service, authz guard.Authorizer) *Handler {
	return &Handler{svc: svc, authz: authz}
}

// MovementRoutes serves the documents of the {movementID} in the mount path.
func (h *Handler) MovementRoutes(r chi.Router) {
	guard.With(r, h.authz, access.PermView).Get("/", h.list)
	guard.With(r, h.authz, access.PermCreate).Post("/", h.attach)
	guard.With(r, h.authz, access.PermCreate).Post("/batch", h.attachMany)
}

// Routes serves single documents of the account in the mount path.
func (h *Handler) Routes(r chi.Router) {
	guard.With(r, h.authz, access.PermView).Get("/{documentID}", h.get)
	guard.With(r, h.authz, access.PermDelete).Delete("/{documentID}", h.delete)
}

type documentResponse struct {
	ID         uuid.UUID         `json:"id"`
	MovementID uuid.UUID         `json:"movementId"`
	URL        string            `json:"url"`
	FileName   string            `json:"fileName"`
	FileType   document.FileType `json:"fileType"`
	Origin     document.Origin   `json:"origin"`
	Size       *int64            `json:"size,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
}

func toResponse(d *document.Document) documentResponse {
	return documentResponse{
		ID:         d.ID,
		MovementID: d.MovementID,
		URL:        d.URL,
		FileName:   d.FileName,
		FileType:   d.FileType,
		Origin:     d.Origin,
		Size:       d.Size,
		CreatedAt:  d.CreatedAt,
	}
}

type fileDTO struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
	Size     *int64 `json:"size,omitempty"`
}

func (f fileDTO) file() document.File {
	return document.File{URL: f.URL, Name: f.FileName, Size: f.Size}
}

type attachRequest struct {
	fileDTO
	Origin document.Origin `json:"origin"`
}

type attachManyRequest struct {
	Origin document.Origin `json:"origin"`
	Files  []fileDTO       `json:"files"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	movementID, ok := respond.ID(w, r, "movementID")
	if !ok {
		return
	}

	docs, err := h.svc.List(r.Context(), guard.AccountID(r), movementID)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.Map(docs, toResponse))
}

func (h *Handler) attach(w http.ResponseWriter, r *http.Request) {
	movementID, ok := respond.ID(w, r, "movementID")
	if !ok {
		return
	}

	var req attachRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	docs, err := h.svc.Attach(r.Context(), guard.AccountID(r), movementID, req.Origin, []document.File{req.file()})
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(docs[0]))
}

func (h *Handler) attachMany(w http.ResponseWriter, r *http.Request) {
	movementID, ok := respond.ID(w, r, "movementID")
	if !ok {
		return
	}

	var req attachManyRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	files := respond.Map(req.Files, fileDTO.file)

	docs, err := h.svc.Attach(r.Context(), guard.AccountID(r), movementID, req.Origin, files)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, respond.Map(docs, toResponse))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r, "documentID")
	if !ok {
		return
	}

	d, err := h.svc.Get(r.Context(), guard.AccountID(r), id)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(d))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r, "documentID")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), guard.AccountID(r), id); err != nil {
		httperr.Write(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

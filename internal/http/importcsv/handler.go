package importcsv

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tally/internal/access"
	"github.com/MrJamesThe3rd/tally/internal/http/guard"
	"github.com/MrJamesThe3rd/tally/internal/http/httperr"
	movementhttp "github.com/MrJamesThe3rd/tally/internal/http/movement"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/matching"
	"github.com/MrJamesThe3rd/tally/internal/movement"
)

const maxUpload = 10 << 20

type Handler struct {
	importSvc   *importer.Service
	movementSvc *movement.Service
	matchSvc    *matching.Service
	authz       guard.Authorizer
}

func NewHandler(importSvc *importer.Service, movementSvc *movement.Service, matchSvc *matching.Service, authz guard.Authorizer) *Handler {
	return &Handler{
		importSvc:   importSvc,
		movementSvc: movementSvc,
		matchSvc:    matchSvc,
		authz:       authz,
	}
}

// Routes is mounted under an account's movements.
func (h *Handler) Routes(r chi.Router) {
	r.Use(guard.Account(h.authz, access.PermCreate))
	r.Get("/banks", h.banks)
	r.Post("/", h.importStatement)
	r.Post("/confirm", h.confirmImport)
}

type importSuccessResponse struct {
	Imported  int                     `json:"imported"`
	Movements []movementhttp.Response `json:"movements"`
}

type conflictDTO struct {
	Incoming movementhttp.ParamsDTO `json:"incoming"`
	Existing movementhttp.Response  `json:"existing"`
}

type importConflictResponse struct {
	New       []movementhttp.ParamsDTO `json:"new"`
	Conflicts []conflictDTO            `json:"conflicts"`
}

type confirmRequest struct {
	Movements []movementhttp.ParamsDTO `json:"movements"`
}

func (h *Handler) banks(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, h.importSvc.Banks())
}

func (h *Handler) importStatement(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)

	if err := r.ParseMultipartForm(maxUpload); err != nil {
		respond.Error(w, http.StatusBadRequest, "failed to parse form: "+err.Error())
		return
	}

	bank := importer.Bank(r.FormValue("bank"))
	if bank == "" {
		respond.Error(w, http.StatusBadRequest, "bank field is required")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	params, err := h.importSvc.Import(bank, file)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.matchSvc.Apply(r.Context(), params); err != nil {
		httperr.Write(w, r, err)
		return
	}

	result, err := h.movementSvc.Import(r.Context(), guard.AccountID(r), params)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	if len(result.Conflicts) > 0 {
		respond.JSON(w, http.StatusConflict, importConflictResponse{
			New: respond.Map(result.New, movementhttp.ToParamsDTO),
			Conflicts: respond.Map(result.Conflicts, func(c movement.Conflict) conflictDTO {
				return conflictDTO{
					Incoming: movementhttp.ToParamsDTO(c.Incoming),
					Existing: movementhttp.NewResponse(c.Existing),
				}
			}),
		})

		return
	}

	respond.JSON(w, http.StatusCreated, toSuccessResponse(result.Imported))
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	params := make([]movement.CreateParams, 0, len(req.Movements))
	for _, p := range req.Movements {
		params = append(params, p.Params(movement.OriginScanned))
	}

	items, err := h.movementSvc.ImportSelected(r.Context(), guard.AccountID(r), params)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toSuccessResponse(items))
}

func toSuccessResponse(items []*movement.Movement) importSuccessResponse {
	return importSuccessResponse{
		Imported:  len(items),
		Movements: respond.Map(items, movementhttp.NewResponse),
	}
}

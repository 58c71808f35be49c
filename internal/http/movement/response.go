package movement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/movement"
)

// Response is the wire form of a stored movement.
type Response struct {
	ID          uuid.UUID          `json:"id"`
	AccountID   uuid.UUID          `json:"accountId"`
	Type        movement.Type      `json:"type"`
	Date        string             `json:"date"`
	Amount      decimal.Decimal    `json:"amount"`
	CategoryID  uuid.UUID          `json:"categoryId"`
	Category    *categoryResponse  `json:"category,omitempty"`
	Provider    string             `json:"provider"`
	Description string             `json:"description"`
	Notes       string             `json:"notes,omitempty"`
	Origin      movement.Origin    `json:"origin"`
	State       movement.State     `json:"state"`
	Tags        []tagResponse      `json:"tags"`
	Documents   []documentResponse `json:"documents"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

type categoryResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Type string    `json:"type"`
}

type tagResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
}

type documentResponse struct {
	ID       uuid.UUID `json:"id"`
	URL      string    `json:"url"`
	FileName string    `json:"fileName"`
	FileType string    `json:"fileType"`
}

func NewResponse(m *movement.Movement) Response {
	resp := Response{
		ID:          m.ID,
		AccountID:   m.AccountID,
		Type:        m.Type,
		Date:        m.Date.Format(time.DateOnly),
		Amount:      m.Amount,
		CategoryID:  m.CategoryID,
		Provider:    m.Provider,
		Description: m.Description,
		Notes:       m.Notes,
		Origin:      m.Origin,
		State:       m.State,
		Tags: respond.Map(m.Tags, func(t movement.TagRef) tagResponse {
			return tagResponse{ID: t.ID, Name: t.Name, Color: t.Color}
		}),
		Documents: respond.Map(m.Documents, func(d movement.DocumentRef) documentResponse {
			return documentResponse{ID: d.ID, URL: d.URL, FileName: d.FileName, FileType: d.FileType}
		}),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}

	if m.Category != nil {
		resp.Category = &categoryResponse{
			ID:   m.Category.ID,
			Name: m.Category.Name,
			Type: m.Category.Type,
		}
	}

	return resp
}

// ParamsDTO is the wire form of a movement that has not been stored yet.
// Imports hand these back to the client and accept them again on confirm.
type ParamsDTO struct {
	Type        movement.Type   `json:"type"`
	Date        Date            `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	CategoryID  uuid.UUID       `json:"categoryId"`
	Provider    string          `json:"provider"`
	Description string          `json:"description"`
	Notes       string          `json:"notes,omitempty"`
	State       movement.State  `json:"state,omitempty"`
	TagIDs      []uuid.UUID     `json:"tagIds,omitempty"`
}

func (p ParamsDTO) Params(origin movement.Origin) movement.CreateParams {
	return movement.CreateParams{
		Type:        p.Type,
		Date:        time.Time(p.Date),
		Amount:      p.Amount,
		CategoryID:  p.CategoryID,
		Provider:    p.Provider,
		Description: p.Description,
		Notes:       p.Notes,
		Origin:      origin,
		State:       p.State,
		TagIDs:      p.TagIDs,
	}
}

func ToParamsDTO(p movement.CreateParams) ParamsDTO {
	return ParamsDTO{
		Type:        p.Type,
		Date:        Date(p.Date),
		Amount:      p.Amount,
		CategoryID:  p.CategoryID,
		Provider:    p.Provider,
		Description: p.Description,
		Notes:       p.Notes,
		State:       p.State,
		TagIDs:      p.TagIDs,
	}
}

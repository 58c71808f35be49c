package user

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/user"
)

type userResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      user.Role  `json:"role"`
	State     user.State `json:"state"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type accountRefResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	Currency string    `json:"currency"`
	State    string    `json:"state"`
	Role     string    `json:"role"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type profileResponse struct {
	userResponse
	Accounts []accountRefResponse `json:"accounts"`
}

func toResponse(u *user.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		State:     u.State,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toAccountRef(a *user.AccountRef) accountRefResponse {
	return accountRefResponse{
		ID:       a.ID,
		Name:     a.Name,
		Type:     a.Type,
		Currency: a.Currency,
		State:    a.State,
		Role:     a.Role,
	}
}

func toProfile(p *user.Profile) profileResponse {
	return profileResponse{
		userResponse: toResponse(p.User),
		Accounts:     respond.Map(p.Accounts, toAccountRef),
	}
}

func toSession(s *user.Session) sessionResponse {
	return sessionResponse{Token: s.Token, User: toResponse(s.User)}
}

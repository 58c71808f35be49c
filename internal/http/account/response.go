package account

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/access"
	"github.com/MrJamesThe3rd/tally/internal/account"
)

type accountResponse struct {
	ID        uuid.UUID           `json:"id"`
	Name      string              `json:"name"`
	Type      account.Type        `json:"type"`
	Currency  string              `json:"currency"`
	OwnerID   uuid.UUID           `json:"ownerId"`
	State     access.AccountState `json:"state"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

type ownerResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type balanceResponse struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Total    decimal.Decimal `json:"total"`
}

type summaryResponse struct {
	accountResponse
	Role        access.Role       `json:"role"`
	AccessType  access.AccessType `json:"accessType"`
	Owner       ownerResponse     `json:"owner"`
	Balance     balanceResponse   `json:"balance"`
	MemberCount int               `json:"memberCount"`
}

type memberResponse struct {
	UserID     uuid.UUID         `json:"userId"`
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Role       access.Role       `json:"role"`
	AccessType access.AccessType `json:"accessType"`
	JoinedAt   time.Time         `json:"joinedAt"`
}

type detailResponse struct {
	summaryResponse
	Members []memberResponse `json:"members"`
}

type updateResponse struct {
	Message           string          `json:"message"`
	Account           accountResponse `json:"account"`
	CurrencyConverted bool            `json:"currencyConverted"`
	OldCurrency       string          `json:"oldCurrency,omitempty"`
	NewCurrency       string          `json:"newCurrency,omitempty"`
	Movements         int             `json:"convertedMovements"`
	Events            int             `json:"convertedEvents"`
}

func toResponse(a *account.Account) accountResponse {
	return accountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Type:      a.Type,
		Currency:  a.Currency,
		OwnerID:   a.OwnerID,
		State:     a.State,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func toSummary(s *account.Summary) summaryResponse {
	return summaryResponse{
		accountResponse: toResponse(&s.Account),
		Role:            s.Role,
		AccessType:      s.AccessType,
		Owner:           ownerResponse{Name: s.Owner.Name, Email: s.Owner.Email},
		Balance: balanceResponse{
			Income:   s.Balance.Income,
			Expenses: s.Balance.Expenses,
			Total:    s.Balance.Total,
		},
		MemberCount: s.MemberCount,
	}
}

func toMember(m *account.Member) memberResponse {
	return memberResponse{
		UserID:     m.UserID,
		Name:       m.Name,
		Email:      m.Email,
		Role:       m.Role,
		AccessType: m.AccessType,
		JoinedAt:   m.JoinedAt,
	}
}

func toDetail(d *account.Detail) detailResponse {
	members := make([]memberResponse, 0, len(d.Members))
	for _, m := range d.Members {
		members = append(members, toMember(m))
	}

	return detailResponse{summaryResponse: toSummary(&d.Summary), Members: members}
}

func toUpdate(res *account.UpdateResult) updateResponse {
	msg := "Account updated successfully"
	if res.Converted {
		msg = fmt.Sprintf("Account updated and all amounts converted from %s to %s", res.OldCurrency, res.NewCurrency)
	}

	return updateResponse{
		Message:           msg,
		Account:           toResponse(res.Account),
		CurrencyConverted: res.Converted,
		OldCurrency:       res.OldCurrency,
		NewCurrency:       res.NewCurrency,
		Movements:         res.Movements,
		Events:            res.Events,
	}
}

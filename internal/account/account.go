package account

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/access"
)

var (
	ErrNotFound          = errors.New("account not found")
	ErrInvalid           = errors.New("invalid account")
	ErrOwnerOnly         = fmt.Errorf("%w: only the account owner can do this", access.ErrInsufficientPermission)
	ErrCannotModifyOwner = errors.New("the account owner cannot be changed or removed")
	ErrAlreadyMember     = errors.New("user is already a member of this account")
	ErrUserNotFound      = errors.New("user not found")
	ErrMemberNotFound    = errors.New("member not found")
	ErrInvalidRole       = errors.New("role must be editor or readonly")
)

type Type string

const (
	TypePersonal Type = "personal"
	TypeBusiness Type = "business"
	TypeSavings  Type = "savings"
	TypeShared   Type = "shared"
)

func (t Type) Valid() bool {
	switch t {
	case TypePersonal, TypeBusiness, TypeSavings, TypeShared:
		return true
	}

	return false
}

type Account struct {
	ID        uuid.UUID
	Name      string
	Type      Type
	Currency  string
	OwnerID   uuid.UUID
	State     access.AccountState
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Owner struct {
	Name  string
	Email string
}

type Balance struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Total    decimal.Decimal
}

// Summary is an account as seen by one user. Balance covers confirmed
// movements only.
type Summary struct {
	Account
	Role        access.Role
	AccessType  access.AccessType
	Owner       Owner
	Balance     Balance
	MemberCount int
}

type Member struct {
	UserID     uuid.UUID
	Name       string
	Email      string
	Role       access.Role
	AccessType access.AccessType
	JoinedAt   time.Time
}

type Detail struct {
	Summary
	Members []*Member
}

// UserRef is the part of a user the membership flows need.
type UserRef struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// CategoryTemplate is a global category copied into new accounts.
type CategoryTemplate struct {
	Name  string
	Type  string
	Order int
}

// Amount is a monetary column of one row under an account.
type Amount struct {
	ID    uuid.UUID
	Value decimal.Decimal
}

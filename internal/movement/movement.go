package movement

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound        = errors.New("movement not found")
	ErrInvalid         = errors.New("invalid movement")
	ErrInvalidCategory = errors.New("invalid category for this account")
	ErrNotPending      = errors.New("movement is not pending review")
)

// Type is the direction of a movement.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// State is the review state of a movement. Only confirmed movements count
// toward balances and reports.
type State string

const (
	StateConfirmed     State = "confirmed"
	StatePendingReview State = "pending_review"
)

func (s State) Valid() bool {
	return s == StateConfirmed || s == StatePendingReview
}

// Origin records how a movement entered the ledger.
type Origin string

const (
	OriginManual  Origin = "manual"
	OriginScanned Origin = "scanned"
)

func (o Origin) Valid() bool {
	return o == OriginManual || o == OriginScanned
}

// Movement is a single income or expense entry of an account.
type Movement struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	Type        Type
	Date        time.Time
	Amount      decimal.Decimal
	CategoryID  uuid.UUID
	Category    *CategoryRef // Loaded via JOIN
	Provider    string
	Description string
	Notes       string
	Origin      Origin
	State       State
	Tags        []TagRef
	Documents   []DocumentRef
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CategoryRef struct {
	ID   uuid.UUID
	Name string
	Type string
}

type TagRef struct {
	ID    uuid.UUID
	Name  string
	Color string
}

type DocumentRef struct {
	ID       uuid.UUID
	URL      string
	FileName string
	FileType string
}

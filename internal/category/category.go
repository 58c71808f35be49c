package category

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("category not found")
	ErrInvalid   = errors.New("invalid category")
	ErrNameTaken = errors.New("a category with this name already exists")
	ErrInUse     = errors.New("cannot delete a category that is in use")
)

type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
	TypeBoth    Type = "both"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense || t == TypeBoth
}

// Category is either scoped to one account or global. Global categories have
// no account and serve as templates copied into new accounts.
type Category struct {
	ID        uuid.UUID
	AccountID *uuid.UUID
	Name      string
	Type      Type
	Order     int
	Global    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

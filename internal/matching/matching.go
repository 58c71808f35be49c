// Package matching learns which provider a raw bank statement description
// belongs to.
package matching

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("mapping not found")
	ErrInvalid  = errors.New("invalid mapping")
)

// Mapping pairs a case-insensitive fragment of a statement description with
// the provider name it stands for.
type Mapping struct {
	ID         uuid.UUID `json:"id"`
	RawPattern string    `json:"rawPattern"`
	Provider   string    `json:"provider"`
	CreatedAt  time.Time `json:"createdAt"`
}

package tag

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("tag not found")
	ErrInvalid   = errors.New("invalid tag")
	ErrNameTaken = errors.New("a tag with this name already exists")
)

const DefaultColor = "#3B82F6"

type Tag struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Name      string
	Color     string
	// Usage is the number of movements carrying the tag.
	Usage     int
	CreatedAt time.Time
}

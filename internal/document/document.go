package document

import (
	"errors"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("document not found")
	ErrMovementNotFound = errors.New("movement not found")
	ErrInvalid          = errors.New("invalid document")
)

type FileType string

const (
	FileTypeImage FileType = "image"
	FileTypePDF   FileType = "pdf"
	FileTypeOther FileType = "other"
)

type Origin string

const (
	OriginPhoto  Origin = "photo"
	OriginUpload Origin = "upload"
)

func (o Origin) Valid() bool {
	return o == OriginPhoto || o == OriginUpload
}

// Document is a stored file attached to a movement. The file itself lives
// wherever URL points.
type Document struct {
	ID         uuid.UUID
	MovementID uuid.UUID
	URL        string
	FileName   string
	FileType   FileType
	Origin     Origin
	Size       *int64
	CreatedAt  time.Time
}

var imageExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true, "webp": true, "bmp": true,
}

// Classify derives the file type from the name's extension.
func Classify(name string) FileType {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))

	switch {
	case imageExtensions[ext]:
		return FileTypeImage
	case ext == "pdf":
		return FileTypePDF
	default:
		return FileTypeOther
	}
}

package document

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=document
type Repository interface {
	MovementExists(ctx context.Context, accountID, movementID uuid.UUID) (bool, error)
	List(ctx context.Context, movementID uuid.UUID) ([]*Document, error)
	Get(ctx context.Context, accountID, id uuid.UUID) (*Document, error)
	Create(ctx context.Context, docs []*Document) error
	Delete(ctx context.Context, accountID, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// File is a reference to an already stored file.
type File struct {
	URL  string
	Name string
	Size *int64
}

func (s *Service) checkMovement(ctx context.Context, accountID, movementID uuid.UUID) error {
	ok, err := s.repo.MovementExists(ctx, accountID, movementID)
	if err != nil {
		return fmt.Errorf("check movement: %w", err)
	}

	if !ok {
		return ErrMovementNotFound
	}

	return nil
}

func (s *Service) List(ctx context.Context, accountID, movementID uuid.UUID) ([]*Document, error) {
	if err := s.checkMovement(ctx, accountID, movementID); err != nil {
		return nil, err
	}

	docs, err := s.repo.List(ctx, movementID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	return docs, nil
}

func (s *Service) Get(ctx context.Context, accountID, id uuid.UUID) (*Document, error) {
	return s.repo.Get(ctx, accountID, id)
}

// Attach registers files against a movement. All files are stored or none.
func (s *Service) Attach(ctx context.Context, accountID, movementID uuid.UUID, origin Origin, files []File) ([]*Document, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files", ErrInvalid)
	}

	if origin == "" {
		origin = OriginUpload
	}

	if !origin.Valid() {
		return nil, fmt.Errorf("%w: origin must be photo or upload", ErrInvalid)
	}

	docs := make([]*Document, 0, len(files))

	for _, f := range files {
		url := strings.ReplaceAll(strings.TrimSpace(f.URL), `\`, "/")
		if url == "" {
			return nil, fmt.Errorf("%w: url is required", ErrInvalid)
		}

		name := strings.TrimSpace(f.Name)
		if name == "" {
			name = path.Base(url)
		}

		if f.Size != nil && *f.Size < 0 {
			return nil, fmt.Errorf("%w: size cannot be negative", ErrInvalid)
		}

		docs = append(docs, &Document{
			MovementID: movementID,
			URL:        url,
			FileName:   name,
			FileType:   Classify(name),
			Origin:     origin,
			Size:       f.Size,
		})
	}

	if err := s.checkMovement(ctx, accountID, movementID); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, docs); err != nil {
		return nil, fmt.Errorf("create documents: %w", err)
	}

	return docs, nil
}

func (s *Service) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	return s.repo.Delete(ctx, accountID, id)
}

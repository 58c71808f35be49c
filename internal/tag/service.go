package tag

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=tag
type Repository interface {
	List(ctx context.Context, accountID uuid.UUID) ([]*Tag, error)
	Get(ctx context.Context, accountID, id uuid.UUID) (*Tag, error)
	NameExists(ctx context.Context, accountID uuid.UUID, name string, exclude uuid.UUID) (bool, error)
	Create(ctx context.Context, t *Tag) error
	Update(ctx context.Context, t *Tag) error
	Delete(ctx context.Context, accountID, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type UpdateParams struct {
	Name  *string
	Color *string
}

func (s *Service) List(ctx context.Context, accountID uuid.UUID) ([]*Tag, error) {
	tags, err := s.repo.List(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	return tags, nil
}

func (s *Service) Get(ctx context.Context, accountID, id uuid.UUID) (*Tag, error) {
	return s.repo.Get(ctx, accountID, id)
}

func (s *Service) Create(ctx context.Context, accountID uuid.UUID, name, color string) (*Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}

	if color == "" {
		color = DefaultColor
	}

	if !colorPattern.MatchString(color) {
		return nil, fmt.Errorf("%w: color must look like #RRGGBB", ErrInvalid)
	}

	if err := s.checkName(ctx, accountID, name, uuid.Nil); err != nil {
		return nil, err
	}

	t := &Tag{AccountID: accountID, Name: name, Color: color}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}

	return t, nil
}

func (s *Service) checkName(ctx context.Context, accountID uuid.UUID, name string, exclude uuid.UUID) error {
	taken, err := s.repo.NameExists(ctx, accountID, name, exclude)
	if err != nil {
		return fmt.Errorf("check tag name: %w", err)
	}

	if taken {
		return ErrNameTaken
	}

	return nil
}

func (s *Service) Update(ctx context.Context, accountID, id uuid.UUID, params UpdateParams) (*Tag, error) {
	t, err := s.repo.Get(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalid)
		}

		if err := s.checkName(ctx, accountID, name, id); err != nil {
			return nil, err
		}

		t.Name = name
	}

	if params.Color != nil {
		if !colorPattern.MatchString(*params.Color) {
			return nil, fmt.Errorf("%w: color must look like #RRGGBB", ErrInvalid)
		}

		t.Color = *params.Color
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("update tag: %w", err)
	}

	return t, nil
}

func (s *Service) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	return s.repo.Delete(ctx, accountID, id)
}

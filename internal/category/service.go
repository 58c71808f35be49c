package category

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=category
type Repository interface {
	// List returns the account's categories plus every global one. A nil
	// account lists globals only.
	List(ctx context.Context, accountID *uuid.UUID, typ *Type) ([]*Category, error)
	Get(ctx context.Context, id uuid.UUID) (*Category, error)
	NameExists(ctx context.Context, accountID *uuid.UUID, name string, exclude uuid.UUID) (bool, error)
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	InUse(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name  string
	Type  Type
	Order int
}

type UpdateParams struct {
	Name  *string
	Type  *Type
	Order *int
}

func (s *Service) List(ctx context.Context, accountID uuid.UUID, typ *Type) ([]*Category, error) {
	return s.list(ctx, &accountID, typ)
}

func (s *Service) ListGlobal(ctx context.Context, typ *Type) ([]*Category, error) {
	return s.list(ctx, nil, typ)
}

func (s *Service) list(ctx context.Context, accountID *uuid.UUID, typ *Type) ([]*Category, error) {
	if typ != nil && !typ.Valid() {
		return nil, fmt.Errorf("%w: type must be income, expense or both", ErrInvalid)
	}

	categories, err := s.repo.List(ctx, accountID, typ)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}

func (s *Service) Create(ctx context.Context, accountID uuid.UUID, params CreateParams) (*Category, error) {
	return s.create(ctx, &accountID, params)
}

func (s *Service) CreateGlobal(ctx context.Context, params CreateParams) (*Category, error) {
	return s.create(ctx, nil, params)
}

func (s *Service) create(ctx context.Context, accountID *uuid.UUID, params CreateParams) (*Category, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}

	if !params.Type.Valid() {
		return nil, fmt.Errorf("%w: type must be income, expense or both", ErrInvalid)
	}

	if err := s.checkName(ctx, accountID, name, uuid.Nil); err != nil {
		return nil, err
	}

	c := &Category{
		AccountID: accountID,
		Name:      name,
		Type:      params.Type,
		Order:     params.Order,
		Global:    accountID == nil,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	return c, nil
}

func (s *Service) checkName(ctx context.Context, accountID *uuid.UUID, name string, exclude uuid.UUID) error {
	taken, err := s.repo.NameExists(ctx, accountID, name, exclude)
	if err != nil {
		return fmt.Errorf("check category name: %w", err)
	}

	if taken {
		return ErrNameTaken
	}

	return nil
}

// owned loads a category and checks it sits in the given scope. Categories
// outside the scope are reported as not found.
func (s *Service) owned(ctx context.Context, accountID *uuid.UUID, id uuid.UUID) (*Category, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if accountID == nil {
		if !c.Global {
			return nil, ErrNotFound
		}

		return c, nil
	}

	if c.Global || c.AccountID == nil || *c.AccountID != *accountID {
		return nil, ErrNotFound
	}

	return c, nil
}

// Update edits an account category. Global categories are only editable
// through UpdateGlobal.
func (s *Service) Update(ctx context.Context, accountID, id uuid.UUID, params UpdateParams) (*Category, error) {
	return s.update(ctx, &accountID, id, params)
}

func (s *Service) UpdateGlobal(ctx context.Context, id uuid.UUID, params UpdateParams) (*Category, error) {
	return s.update(ctx, nil, id, params)
}

func (s *Service) update(ctx context.Context, accountID *uuid.UUID, id uuid.UUID, params UpdateParams) (*Category, error) {
	c, err := s.owned(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalid)
		}

		if !strings.EqualFold(name, c.Name) {
			if err := s.checkName(ctx, accountID, name, c.ID); err != nil {
				return nil, err
			}
		}

		c.Name = name
	}

	if params.Type != nil {
		if !params.Type.Valid() {
			return nil, fmt.Errorf("%w: type must be income, expense or both", ErrInvalid)
		}

		c.Type = *params.Type
	}

	if params.Order != nil {
		c.Order = *params.Order
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	return c, nil
}

// Delete removes an account category that no movement references.
func (s *Service) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	return s.delete(ctx, &accountID, id)
}

func (s *Service) DeleteGlobal(ctx context.Context, id uuid.UUID) error {
	return s.delete(ctx, nil, id)
}

func (s *Service) delete(ctx context.Context, accountID *uuid.UUID, id uuid.UUID) error {
	if _, err := s.owned(ctx, accountID, id); err != nil {
		return err
	}

	used, err := s.repo.InUse(ctx, id)
	if err != nil {
		return fmt.Errorf("check category usage: %w", err)
	}

	if used {
		return ErrInUse
	}

	return s.repo.Delete(ctx, id)
}

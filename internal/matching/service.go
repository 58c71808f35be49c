package matching

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/movement"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	FindMatch(ctx context.Context, rawDescription string) (string, error)
	Upsert(ctx context.Context, mapping *Mapping) error
	List(ctx context.Context) ([]Mapping, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest tries to find a provider for the given raw description. The longest
// matching pattern wins. Returns empty string if no match found.
func (s *Service) Suggest(ctx context.Context, rawDescription string) (string, error) {
	if strings.TrimSpace(rawDescription) == "" {
		return "", nil
	}

	return s.repo.FindMatch(ctx, rawDescription)
}

// Apply fills the provider of parsed statement rows that have none, caching
// lookups for repeated descriptions.
func (s *Service) Apply(ctx context.Context, rows []movement.CreateParams) error {
	seen := map[string]string{}

	for i := range rows {
		if rows[i].Provider != "" {
			continue
		}

		desc := rows[i].Description

		provider, ok := seen[desc]
		if !ok {
			var err error

			provider, err = s.Suggest(ctx, desc)
			if err != nil {
				return fmt.Errorf("suggesting provider for row %d: %w", i+1, err)
			}

			seen[desc] = provider
		}

		rows[i].Provider = provider
	}

	return nil
}

// Learn remembers a mapping between a raw pattern and a provider, replacing
// the provider of an existing pattern.
func (s *Service) Learn(ctx context.Context, rawPattern, provider string) (*Mapping, error) {
	m := &Mapping{RawPattern: strings.TrimSpace(rawPattern), Provider: strings.TrimSpace(provider)}

	if m.RawPattern == "" || m.Provider == "" {
		return nil, fmt.Errorf("%w: pattern and provider are required", ErrInvalid)
	}

	if err := s.repo.Upsert(ctx, m); err != nil {
		return nil, fmt.Errorf("learning mapping: %w", err)
	}

	return m, nil
}

func (s *Service) List(ctx context.Context) ([]Mapping, error) {
	return s.repo.List(ctx)
}

func (s *Service) Forget(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

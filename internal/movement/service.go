package movement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/paging"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=movement
type Repository interface {
	List(ctx context.Context, accountID uuid.UUID, filter ListFilter, page paging.Params) ([]*Movement, int, error)
	Get(ctx context.Context, accountID, id uuid.UUID) (*Movement, error)
	TagsFor(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]TagRef, error)
	Documents(ctx context.Context, movementID uuid.UUID) ([]DocumentRef, error)
	Delete(ctx context.Context, accountID, id uuid.UUID) error
	Confirm(ctx context.Context, accountID, id uuid.UUID) error

	Begin(ctx context.Context) (Tx, error)
	// BeginImport starts a transaction that holds an advisory lock on the
	// account and date range, so two imports of one statement serialize.
	BeginImport(ctx context.Context, accountID uuid.UUID, minDate, maxDate time.Time) (Tx, error)
}

// Tx is a unit of work on one database transaction.
type Tx interface {
	CategoryInScope(ctx context.Context, accountID, categoryID uuid.UUID) (bool, error)
	DefaultCategory(ctx context.Context, accountID uuid.UUID, typ Type) (uuid.UUID, error)
	Lock(ctx context.Context, accountID, id uuid.UUID) (*Movement, error)
	Insert(ctx context.Context, mv *Movement) error
	Update(ctx context.Context, mv *Movement) error
	AccountTags(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error)
	ReplaceTags(ctx context.Context, movementID uuid.UUID, tagIDs []uuid.UUID) error
	FindDuplicates(ctx context.Context, accountID uuid.UUID, params []CreateParams) ([]*Movement, error)
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type ListFilter struct {
	Type       *Type
	State      *State
	CategoryID *uuid.UUID
	TagID      *uuid.UUID
	From       *time.Time
	To         *time.Time
	Provider   *string
	// Search matches description, provider and notes.
	Search *string
}

type CreateParams struct {
	Type        Type
	Date        time.Time
	Amount      decimal.Decimal
	CategoryID  uuid.UUID
	Provider    string
	Description string
	Notes       string
	Origin      Origin
	State       State
	TagIDs      []uuid.UUID
}

type UpdateParams struct {
	Type        *Type
	Date        *time.Time
	Amount      *decimal.Decimal
	CategoryID  *uuid.UUID
	Provider    *string
	Description *string
	Notes       *string
	State       *State
	// TagIDs replaces the tag set when non-nil.
	TagIDs *[]uuid.UUID
}

func (s *Service) inTx(begin func() (Tx, error), fn func(tx Tx) error) error {
	tx, err := begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

func (s *Service) begin(ctx context.Context) func() (Tx, error) {
	return func() (Tx, error) { return s.repo.Begin(ctx) }
}

func (s *Service) List(ctx context.Context, accountID uuid.UUID, filter ListFilter, page paging.Params) ([]*Movement, paging.Meta, error) {
	page = page.Normalize()

	items, total, err := s.repo.List(ctx, accountID, filter, page)
	if err != nil {
		return nil, paging.Meta{}, fmt.Errorf("list movements: %w", err)
	}

	if err := s.attachTags(ctx, items); err != nil {
		return nil, paging.Meta{}, err
	}

	return items, paging.NewMeta(page, total), nil
}

func (s *Service) attachTags(ctx context.Context, items []*Movement) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(items))
	for i, m := range items {
		ids[i] = m.ID
	}

	tags, err := s.repo.TagsFor(ctx, ids)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}

	for _, m := range items {
		m.Tags = tags[m.ID]
	}

	return nil
}

// Get returns the movement with its tags and documents.
func (s *Service) Get(ctx context.Context, accountID, id uuid.UUID) (*Movement, error) {
	m, err := s.repo.Get(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	if err := s.attachTags(ctx, []*Movement{m}); err != nil {
		return nil, err
	}

	docs, err := s.repo.Documents(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}

	m.Documents = docs

	return m, nil
}

func validate(m *Movement) error {
	if !m.Type.Valid() {
		return fmt.Errorf("%w: type must be income or expense", ErrInvalid)
	}

	if m.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalid)
	}

	if !m.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalid)
	}

	if !m.State.Valid() {
		return fmt.Errorf("%w: unknown state %q", ErrInvalid, m.State)
	}

	if !m.Origin.Valid() {
		return fmt.Errorf("%w: unknown origin %q", ErrInvalid, m.Origin)
	}

	return nil
}

func fromParams(accountID uuid.UUID, p CreateParams) *Movement {
	m := &Movement{
		AccountID:   accountID,
		Type:        p.Type,
		Date:        p.Date,
		Amount:      p.Amount.Round(2),
		CategoryID:  p.CategoryID,
		Provider:    strings.TrimSpace(p.Provider),
		Description: strings.TrimSpace(p.Description),
		Notes:       strings.TrimSpace(p.Notes),
		Origin:      p.Origin,
		State:       p.State,
	}

	if m.Origin == "" {
		m.Origin = OriginManual
	}

	if m.State == "" {
		m.State = StateConfirmed
	}

	return m
}

func checkCategory(ctx context.Context, tx Tx, accountID, categoryID uuid.UUID) error {
	if categoryID == uuid.Nil {
		return fmt.Errorf("%w: category is required", ErrInvalid)
	}

	ok, err := tx.CategoryInScope(ctx, accountID, categoryID)
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}

	if !ok {
		return ErrInvalidCategory
	}

	return nil
}

// setTags replaces the movement's tags with those of ids that belong to the
// account. Foreign tags are dropped without error.
func setTags(ctx context.Context, tx Tx, m *Movement, ids []uuid.UUID) error {
	owned := ids
	if len(ids) > 0 {
		var err error

		owned, err = tx.AccountTags(ctx, m.AccountID, ids)
		if err != nil {
			return fmt.Errorf("filter tags: %w", err)
		}
	}

	if err := tx.ReplaceTags(ctx, m.ID, owned); err != nil {
		return fmt.Errorf("replace tags: %w", err)
	}

	return nil
}

func (s *Service) Create(ctx context.Context, accountID uuid.UUID, params CreateParams) (*Movement, error) {
	m := fromParams(accountID, params)
	if err := validate(m); err != nil {
		return nil, err
	}

	err := s.inTx(s.begin(ctx), func(tx Tx) error {
		if err := checkCategory(ctx, tx, accountID, m.CategoryID); err != nil {
			return err
		}

		if err := tx.Insert(ctx, m); err != nil {
			return fmt.Errorf("insert movement: %w", err)
		}

		if len(params.TagIDs) == 0 {
			return nil
		}

		return setTags(ctx, tx, m, params.TagIDs)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, accountID, m.ID)
}

func (s *Service) Update(ctx context.Context, accountID, id uuid.UUID, params UpdateParams) (*Movement, error) {
	err := s.inTx(s.begin(ctx), func(tx Tx) error {
		m, err := tx.Lock(ctx, accountID, id)
		if err != nil {
			return err
		}

		categoryChanged := params.CategoryID != nil && *params.CategoryID != m.CategoryID
		applyUpdate(m, params)

		if err := validate(m); err != nil {
			return err
		}

		if categoryChanged {
			if err := checkCategory(ctx, tx, accountID, m.CategoryID); err != nil {
				return err
			}
		}

		if err := tx.Update(ctx, m); err != nil {
			return fmt.Errorf("update movement: %w", err)
		}

		if params.TagIDs == nil {
			return nil
		}

		return setTags(ctx, tx, m, *params.TagIDs)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, accountID, id)
}

func applyUpdate(m *Movement, p UpdateParams) {
	if p.Type != nil {
		m.Type = *p.Type
	}

	if p.Date != nil {
		m.Date = *p.Date
	}

	if p.Amount != nil {
		m.Amount = p.Amount.Round(2)
	}

	if p.CategoryID != nil {
		m.CategoryID = *p.CategoryID
	}

	if p.Provider != nil {
		m.Provider = strings.TrimSpace(*p.Provider)
	}

	if p.Description != nil {
		m.Description = strings.TrimSpace(*p.Description)
	}

	if p.Notes != nil {
		m.Notes = strings.TrimSpace(*p.Notes)
	}

	if p.State != nil {
		m.State = *p.State
	}
}

func (s *Service) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	return s.repo.Delete(ctx, accountID, id)
}

// Confirm moves a pending_review movement to confirmed.
func (s *Service) Confirm(ctx context.Context, accountID, id uuid.UUID) (*Movement, error) {
	m, err := s.repo.Get(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	if m.State != StatePendingReview {
		return nil, ErrNotPending
	}

	if err := s.repo.Confirm(ctx, accountID, id); err != nil {
		return nil, err
	}

	return s.Get(ctx, accountID, id)
}

type Skipped struct {
	Index  int
	Reason string
}

type BulkResult struct {
	Created []*Movement
	Skipped []Skipped
}

// BulkCreate inserts every valid row in one transaction. Rows that fail
// validation or reference a category outside the account are skipped.
func (s *Service) BulkCreate(ctx context.Context, accountID uuid.UUID, params []CreateParams) (*BulkResult, error) {
	result := &BulkResult{}
	if len(params) == 0 {
		return result, nil
	}

	err := s.inTx(s.begin(ctx), func(tx Tx) error {
		for i, p := range params {
			m := fromParams(accountID, p)

			err := validate(m)
			if err == nil {
				err = checkCategory(ctx, tx, accountID, m.CategoryID)
			}

			if errors.Is(err, ErrInvalid) || errors.Is(err, ErrInvalidCategory) {
				result.Skipped = append(result.Skipped, Skipped{Index: i, Reason: err.Error()})
				continue
			}

			if err != nil {
				return err
			}

			if err := tx.Insert(ctx, m); err != nil {
				return fmt.Errorf("insert movement %d: %w", i, err)
			}

			if len(p.TagIDs) > 0 {
				if err := setTags(ctx, tx, m, p.TagIDs); err != nil {
					return err
				}
			}

			result.Created = append(result.Created, m)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

type ImportResult struct {
	Imported  []*Movement
	New       []CreateParams
	Conflicts []Conflict
}

// Conflict pairs a statement line with the movement it appears to repeat.
type Conflict struct {
	Incoming CreateParams
	Existing *Movement
}

type dupKey struct {
	Date        string
	Amount      string
	Type        Type
	Description string
}

func keyOf(date time.Time, amount decimal.Decimal, typ Type, desc string) dupKey {
	return dupKey{
		Date:        date.Format(time.DateOnly),
		Amount:      amount.StringFixed(2),
		Type:        typ,
		Description: desc,
	}
}

// Import stores parsed statement lines as scanned movements pending review.
// When any line repeats an existing movement nothing is written and the
// conflicts are returned for the caller to resolve through ImportSelected.
func (s *Service) Import(ctx context.Context, accountID uuid.UUID, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	minDate, maxDate := dateRange(params)
	result := &ImportResult{}

	err := s.inTx(func() (Tx, error) {
		return s.repo.BeginImport(ctx, accountID, minDate, maxDate)
	}, func(tx Tx) error {
		duplicates, err := tx.FindDuplicates(ctx, accountID, params)
		if err != nil {
			return fmt.Errorf("find duplicates: %w", err)
		}

		lookup := make(map[dupKey]*Movement, len(duplicates))
		for _, d := range duplicates {
			lookup[keyOf(d.Date, d.Amount, d.Type, d.Description)] = d
		}

		var fresh []CreateParams

		for _, p := range params {
			if existing, found := lookup[keyOf(p.Date, p.Amount, p.Type, p.Description)]; found {
				result.Conflicts = append(result.Conflicts, Conflict{Incoming: p, Existing: existing})
				continue
			}

			fresh = append(fresh, p)
		}

		if len(result.Conflicts) > 0 {
			result.New = fresh
			return nil
		}

		result.Imported, err = insertScanned(ctx, tx, accountID, fresh)

		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ImportSelected stores the lines the user kept after reviewing conflicts.
func (s *Service) ImportSelected(ctx context.Context, accountID uuid.UUID, params []CreateParams) ([]*Movement, error) {
	if len(params) == 0 {
		return nil, nil
	}

	minDate, maxDate := dateRange(params)

	var created []*Movement

	err := s.inTx(func() (Tx, error) {
		return s.repo.BeginImport(ctx, accountID, minDate, maxDate)
	}, func(tx Tx) error {
		var err error

		created, err = insertScanned(ctx, tx, accountID, params)

		return err
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func insertScanned(ctx context.Context, tx Tx, accountID uuid.UUID, params []CreateParams) ([]*Movement, error) {
	defaults := make(map[Type]uuid.UUID)
	created := make([]*Movement, 0, len(params))

	for i, p := range params {
		p.Origin = OriginScanned
		p.State = StatePendingReview

		m := fromParams(accountID, p)
		if err := validate(m); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}

		if m.CategoryID == uuid.Nil {
			id, ok := defaults[m.Type]
			if !ok {
				var err error

				id, err = tx.DefaultCategory(ctx, accountID, m.Type)
				if err != nil {
					return nil, fmt.Errorf("default %s category: %w", m.Type, err)
				}

				defaults[m.Type] = id
			}

			m.CategoryID = id
		} else if err := checkCategory(ctx, tx, accountID, m.CategoryID); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}

		if err := tx.Insert(ctx, m); err != nil {
			return nil, fmt.Errorf("insert movement: %w", err)
		}

		created = append(created, m)
	}

	return created, nil
}

func dateRange(params []CreateParams) (time.Time, time.Time) {
	minDate := params[0].Date
	maxDate := params[0].Date

	for _, p := range params[1:] {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}

	return minDate, maxDate
}

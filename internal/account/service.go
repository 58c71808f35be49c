package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/access"
	"github.com/MrJamesThe3rd/tally/internal/currency"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=account
type Repository interface {
	Begin(ctx context.Context) (Tx, error)

	ListAccounts(ctx context.Context, filter ListFilter) ([]*Summary, error)
	GetSummary(ctx context.Context, id, viewerID uuid.UUID) (*Summary, error)
	ListMembers(ctx context.Context, accountID uuid.UUID) ([]*Member, error)
	SetState(ctx context.Context, id uuid.UUID, state access.AccountState) error

	FindUserByEmail(ctx context.Context, email string) (*UserRef, error)
	GetMember(ctx context.Context, accountID, userID uuid.UUID) (*Member, error)
	AddMember(ctx context.Context, accountID, userID uuid.UUID, role access.Role, accessType access.AccessType) error
	UpdateMemberRole(ctx context.Context, accountID, userID uuid.UUID, role access.Role) error
	RemoveMember(ctx context.Context, accountID, userID uuid.UUID) error
}

// Tx is a unit of work on one database transaction. Nothing it writes is
// visible until Commit.
type Tx interface {
	LockAccount(ctx context.Context, id uuid.UUID) (*Account, error)
	MemberRole(ctx context.Context, accountID, userID uuid.UUID) (access.Role, error)
	InsertAccount(ctx context.Context, acc *Account) error
	InsertMembership(ctx context.Context, accountID, userID uuid.UUID, role access.Role, accessType access.AccessType) error
	GlobalCategories(ctx context.Context) ([]CategoryTemplate, error)
	InsertCategoryCopy(ctx context.Context, accountID uuid.UUID, c CategoryTemplate) error
	MovementAmounts(ctx context.Context, accountID uuid.UUID) ([]Amount, error)
	UpdateMovementAmount(ctx context.Context, id uuid.UUID, value decimal.Decimal) error
	EventAmounts(ctx context.Context, accountID uuid.UUID) ([]Amount, error)
	UpdateEventAmount(ctx context.Context, id uuid.UUID, value decimal.Decimal) error
	UpdateAccount(ctx context.Context, acc *Account) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo         Repository
	converter    *currency.Converter
	baseCurrency string
}

func NewService(repo Repository, converter *currency.Converter, baseCurrency string) *Service {
	return &Service{
		repo:         repo,
		converter:    converter,
		baseCurrency: currency.Normalize(baseCurrency),
	}
}

type ListFilter struct {
	// UserID limits the result to accounts the user is a member of. Nil lists
	// every account.
	UserID *uuid.UUID
	State  *access.AccountState
	Type   *Type
}

type CreateParams struct {
	Name     string
	Type     Type
	Currency string
}

type UpdateParams struct {
	Name     *string
	Type     *Type
	Currency *string
	State    *access.AccountState
}

type UpdateResult struct {
	Account     *Account
	Converted   bool
	OldCurrency string
	NewCurrency string
	Movements   int
	Events      int
}

// minAmount is the smallest positive amount a converted movement can hold.
var minAmount = decimal.New(1, -2)

// inTx runs fn on a fresh transaction and commits when it returns nil.
// Every other outcome rolls back.
func (s *Service) inTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.repo.Begin(ctx)
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

// Create opens an account owned by p and seeds it with a private copy of
// every global category.
func (s *Service) Create(ctx context.Context, p access.Principal, params CreateParams) (*Account, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}

	if !params.Type.Valid() {
		return nil, fmt.Errorf("%w: type must be personal, business, savings or shared", ErrInvalid)
	}

	code := currency.Normalize(params.Currency)
	if code == "" {
		code = s.baseCurrency
	}

	if err := s.converter.Validate(code); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	acc := &Account{
		Name:     name,
		Type:     params.Type,
		Currency: code,
		OwnerID:  p.UserID,
		State:    access.AccountActive,
	}

	err := s.inTx(ctx, func(tx Tx) error {
		if err := tx.InsertAccount(ctx, acc); err != nil {
			return fmt.Errorf("insert account: %w", err)
		}

		if err := tx.InsertMembership(ctx, acc.ID, p.UserID, access.RoleOwner, access.AccessIndependent); err != nil {
			return fmt.Errorf("insert owner membership: %w", err)
		}

		globals, err := tx.GlobalCategories(ctx)
		if err != nil {
			return fmt.Errorf("load global categories: %w", err)
		}

		for _, c := range globals {
			if err := tx.InsertCategoryCopy(ctx, acc.ID, c); err != nil {
				return fmt.Errorf("copy category %q: %w", c.Name, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return acc, nil
}

// Update applies field changes to an account. A currency change rewrites
// every movement and event amount under the account in the same
// transaction, so the stored amounts always match the account currency.
func (s *Service) Update(ctx context.Context, g access.Grant, params UpdateParams) (*UpdateResult, error) {
	if !g.Admin && !g.IsOwner() {
		return nil, ErrOwnerOnly
	}

	if err := s.validateUpdate(&params); err != nil {
		return nil, err
	}

	var result UpdateResult

	err := s.inTx(ctx, func(tx Tx) error {
		acc, err := tx.LockAccount(ctx, g.AccountID)
		if err != nil {
			return fmt.Errorf("lock account: %w", err)
		}

		if !g.Admin {
			role, err := tx.MemberRole(ctx, g.AccountID, g.UserID)
			if err != nil {
				return fmt.Errorf("check owner: %w", err)
			}

			if role == "" {
				return access.ErrAccessDenied
			}

			if role != access.RoleOwner {
				return ErrOwnerOnly
			}
		}

		result.OldCurrency = acc.Currency
		result.NewCurrency = acc.Currency

		if params.Currency != nil && *params.Currency != acc.Currency {
			if err := s.convertAll(ctx, tx, acc, *params.Currency, &result); err != nil {
				return err
			}
		}

		if params.Name != nil {
			acc.Name = *params.Name
		}

		if params.Type != nil {
			acc.Type = *params.Type
		}

		if params.State != nil {
			acc.State = *params.State
		}

		if err := tx.UpdateAccount(ctx, acc); err != nil {
			return fmt.Errorf("update account: %w", err)
		}

		result.Account = acc

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *Service) validateUpdate(params *UpdateParams) error {
	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return fmt.Errorf("%w: name cannot be empty", ErrInvalid)
		}

		params.Name = &name
	}

	if params.Type != nil && !params.Type.Valid() {
		return fmt.Errorf("%w: type must be personal, business, savings or shared", ErrInvalid)
	}

	if params.State != nil && *params.State != access.AccountActive && *params.State != access.AccountArchived {
		return fmt.Errorf("%w: state must be active or archived", ErrInvalid)
	}

	if params.Currency != nil {
		code := currency.Normalize(*params.Currency)
		if err := s.converter.Validate(code); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}

		params.Currency = &code
	}

	return nil
}

func (s *Service) convertAll(ctx context.Context, tx Tx, acc *Account, to string, result *UpdateResult) error {
	from := acc.Currency

	movements, err := tx.MovementAmounts(ctx, acc.ID)
	if err != nil {
		return fmt.Errorf("load movement amounts: %w", err)
	}

	for _, m := range movements {
		v, err := s.converter.Convert(m.Value, from, to)
		if err != nil {
			return fmt.Errorf("convert movement %s: %w", m.ID, err)
		}

		// Movement amounts are strictly positive.
		if v.LessThan(minAmount) {
			v = minAmount
		}

		if err := tx.UpdateMovementAmount(ctx, m.ID, v); err != nil {
			return fmt.Errorf("update movement %s: %w", m.ID, err)
		}
	}

	events, err := tx.EventAmounts(ctx, acc.ID)
	if err != nil {
		return fmt.Errorf("load event amounts: %w", err)
	}

	for _, e := range events {
		v, err := s.converter.Convert(e.Value, from, to)
		if err != nil {
			return fmt.Errorf("convert event %s: %w", e.ID, err)
		}

		if err := tx.UpdateEventAmount(ctx, e.ID, v); err != nil {
			return fmt.Errorf("update event %s: %w", e.ID, err)
		}
	}

	acc.Currency = to
	result.Converted = true
	result.NewCurrency = to
	result.Movements = len(movements)
	result.Events = len(events)

	return nil
}

// Archive soft-deletes the account. Archived accounts stay readable.
func (s *Service) Archive(ctx context.Context, g access.Grant) error {
	if !g.Admin && !g.IsOwner() {
		return ErrOwnerOnly
	}

	if err := s.repo.SetState(ctx, g.AccountID, access.AccountArchived); err != nil {
		return fmt.Errorf("archive account: %w", err)
	}

	return nil
}

// List returns the accounts p belongs to. Admins may ask for every account.
func (s *Service) List(ctx context.Context, p access.Principal, all bool, filter ListFilter) ([]*Summary, error) {
	filter.UserID = &p.UserID
	if all && p.IsAdmin {
		filter.UserID = nil
	}

	accounts, err := s.repo.ListAccounts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	for _, a := range accounts {
		if a.Role == "" && p.IsAdmin {
			a.Role = access.RoleOwner
		}
	}

	return accounts, nil
}

func (s *Service) Get(ctx context.Context, g access.Grant) (*Detail, error) {
	summary, err := s.repo.GetSummary(ctx, g.AccountID, g.UserID)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}

	summary.Role = g.Role

	members, err := s.repo.ListMembers(ctx, g.AccountID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	return &Detail{Summary: *summary, Members: members}, nil
}

func (s *Service) Members(ctx context.Context, g access.Grant) ([]*Member, error) {
	return s.repo.ListMembers(ctx, g.AccountID)
}

// Invite adds an existing user to the account. Only editor and readonly can
// be handed out so an account never gains a second owner.
func (s *Service) Invite(ctx context.Context, g access.Grant, email string, role access.Role) (*Member, error) {
	if !g.Admin && !g.IsOwner() {
		return nil, ErrOwnerOnly
	}

	if role == "" {
		role = access.RoleEditor
	}

	if err := checkAssignable(role); err != nil {
		return nil, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalid)
	}

	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	existing, err := s.repo.GetMember(ctx, g.AccountID, user.ID)
	if err != nil && !errors.Is(err, ErrMemberNotFound) {
		return nil, fmt.Errorf("check membership: %w", err)
	}

	if existing != nil {
		return nil, ErrAlreadyMember
	}

	if err := s.repo.AddMember(ctx, g.AccountID, user.ID, role, access.AccessShared); err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}

	return &Member{
		UserID:     user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       role,
		AccessType: access.AccessShared,
	}, nil
}

func (s *Service) ChangeRole(ctx context.Context, g access.Grant, userID uuid.UUID, role access.Role) error {
	if !g.Admin && !g.IsOwner() {
		return ErrOwnerOnly
	}

	m, err := s.repo.GetMember(ctx, g.AccountID, userID)
	if err != nil {
		return fmt.Errorf("get member: %w", err)
	}

	if m.Role == access.RoleOwner {
		return ErrCannotModifyOwner
	}

	if err := checkAssignable(role); err != nil {
		return err
	}

	if err := s.repo.UpdateMemberRole(ctx, g.AccountID, userID, role); err != nil {
		return fmt.Errorf("update member role: %w", err)
	}

	return nil
}

func (s *Service) RemoveMember(ctx context.Context, g access.Grant, userID uuid.UUID) error {
	if !g.Admin && !g.IsOwner() {
		return ErrOwnerOnly
	}

	m, err := s.repo.GetMember(ctx, g.AccountID, userID)
	if err != nil {
		return fmt.Errorf("get member: %w", err)
	}

	if m.Role == access.RoleOwner {
		return ErrCannotModifyOwner
	}

	if err := s.repo.RemoveMember(ctx, g.AccountID, userID); err != nil {
		return fmt.Errorf("remove member: %w", err)
	}

	return nil
}

func checkAssignable(role access.Role) error {
	if role != access.RoleEditor && role != access.RoleReadonly {
		return ErrInvalidRole
	}

	return nil
}

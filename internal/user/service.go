package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/auth"
	"github.com/MrJamesThe3rd/tally/internal/paging"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	Create(ctx context.Context, u *User) error
	Get(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter ListFilter, page paging.Params) ([]*User, int, error)
	Update(ctx context.Context, u *User) error
	SetPassword(ctx context.Context, id uuid.UUID, hash string) error
	Delete(ctx context.Context, id uuid.UUID) error
	Accounts(ctx context.Context, userID uuid.UUID) ([]*AccountRef, error)
}

type Service struct {
	repo   Repository
	tokens *auth.Issuer
	hasher *auth.Hasher
}

func NewService(repo Repository, tokens *auth.Issuer, hasher *auth.Hasher) *Service {
	return &Service{repo: repo, tokens: tokens, hasher: hasher}
}

type ListFilter struct {
	Search *string
	State  *State
	Role   *Role
}

type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

type CreateParams struct {
	Name     string
	Email    string
	Password string
	Role     Role
	State    State
}

type UpdateParams struct {
	Name  *string
	Email *string
	Role  *Role
	State *State
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: email is not valid", ErrInvalid)
	}

	return email, nil
}

func checkPassword(password string) error {
	if len(password) < auth.MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalid, auth.MinPasswordLength)
	}

	return nil
}

func (s *Service) Register(ctx context.Context, params RegisterParams) (*Session, error) {
	u, err := s.create(ctx, CreateParams{
		Name:     params.Name,
		Email:    params.Email,
		Password: params.Password,
		Role:     RoleOrdinary,
		State:    StateActive,
	})
	if err != nil {
		return nil, err
	}

	return s.session(u)
}

// Login checks the credentials. Unknown emails and wrong passwords give the
// same error.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, fmt.Errorf("get user: %w", err)
	}

	if u.State == StateBlocked {
		return nil, ErrBlocked
	}

	if !s.hasher.Matches(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return s.session(u)
}

// Authenticate resolves a bearer token to an active user.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.Get(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	if u.State == StateBlocked {
		return nil, ErrBlocked
	}

	return u, nil
}

func (s *Service) Refresh(u *User) (string, error) {
	return s.tokens.Issue(u.ID, u.Email)
}

func (s *Service) session(u *User) (*Session, error) {
	token, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &Session{Token: token, User: u}, nil
}

func (s *Service) Profile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	accounts, err := s.repo.Accounts(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	return &Profile{User: u, Accounts: accounts}, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, name *string) (*User, error) {
	return s.Update(ctx, id, UpdateParams{Name: name})
}

func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if !s.hasher.Matches(u.PasswordHash, current) {
		return ErrWrongPassword
	}

	return s.ResetPassword(ctx, id, next)
}

func (s *Service) List(ctx context.Context, filter ListFilter, page paging.Params) ([]*User, int, error) {
	users, total, err := s.repo.List(ctx, filter, page.Normalize())
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*User, error) {
	if params.Role == "" {
		params.Role = RoleOrdinary
	}

	if params.State == "" {
		params.State = StateActive
	}

	return s.create(ctx, params)
}

func (s *Service) create(ctx context.Context, params CreateParams) (*User, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}

	email, err := normalizeEmail(params.Email)
	if err != nil {
		return nil, err
	}

	if err := checkPassword(params.Password); err != nil {
		return nil, err
	}

	if err := validRoleState(&params.Role, &params.State); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         params.Role,
		State:        params.State,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func validRoleState(role *Role, state *State) error {
	if role != nil && *role != RoleOrdinary && *role != RoleAdmin {
		return fmt.Errorf("%w: role must be ordinary or admin", ErrInvalid)
	}

	if state != nil && *state != StateActive && *state != StateBlocked {
		return fmt.Errorf("%w: state must be active or blocked", ErrInvalid)
	}

	return nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*User, error) {
	if err := validRoleState(params.Role, params.State); err != nil {
		return nil, err
	}

	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalid)
		}

		u.Name = name
	}

	if params.Email != nil {
		email, err := normalizeEmail(*params.Email)
		if err != nil {
			return nil, err
		}

		u.Email = email
	}

	if params.Role != nil {
		u.Role = *params.Role
	}

	if params.State != nil {
		u.State = *params.State
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// Delete removes a user. An admin cannot delete themselves.
func (s *Service) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return ErrSelfDelete
	}

	return s.repo.Delete(ctx, id)
}

func (s *Service) ResetPassword(ctx context.Context, id uuid.UUID, password string) error {
	if err := checkPassword(password); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	return s.repo.SetPassword(ctx, id, hash)
}

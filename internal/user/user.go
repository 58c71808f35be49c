package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalid            = errors.New("invalid user")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrBlocked            = errors.New("user is blocked, contact an administrator")
	ErrSelfDelete         = errors.New("cannot delete your own user")
)

type Role string

const (
	RoleOrdinary Role = "ordinary"
	RoleAdmin    Role = "admin"
)

type State string

const (
	StateActive  State = "active"
	StateBlocked State = "blocked"
)

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	State        State
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// AccountRef is one account the user belongs to, with the user's role on it.
type AccountRef struct {
	ID       uuid.UUID
	Name     string
	Type     string
	Currency string
	State    string
	Role     string
}

type Profile struct {
	User     *User
	Accounts []*AccountRef
}

// Session is a signed-in user with a fresh bearer token.
type Session struct {
	Token string
	User  *User
}

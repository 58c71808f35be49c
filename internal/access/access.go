package access

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

var (
	// ErrAccessDenied covers both a missing account and a missing membership so
	// callers cannot probe for account existence.
	ErrAccessDenied           = errors.New("account not found or access denied")
	ErrInsufficientPermission = errors.New("insufficient permissions")
	ErrArchivedAccount        = errors.New("archived accounts cannot be modified")
)

type Permission string

const (
	PermView             Permission = "view"
	PermCreate           Permission = "create"
	PermEdit             Permission = "edit"
	PermDelete           Permission = "delete"
	PermManageCategories Permission = "manage_categories"
	PermInviteUsers      Permission = "invite_users"
	PermViewReports      Permission = "view_reports"
)

type Role string

const (
	RoleOwner    Role = "owner"
	RoleEditor   Role = "editor"
	RoleReadonly Role = "readonly"
)

func (r Role) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

type AccessType string

const (
	AccessIndependent AccessType = "independent"
	AccessShared      AccessType = "shared"
)

type AccountState string

const (
	AccountActive   AccountState = "active"
	AccountArchived AccountState = "archived"
)

var rolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermView, PermCreate, PermEdit, PermDelete,
		PermManageCategories, PermInviteUsers, PermViewReports,
	},
	RoleEditor:   {PermView, PermCreate, PermEdit, PermViewReports},
	RoleReadonly: {PermView, PermViewReports},
}

// PermissionsFor returns a copy of the permission set of role. Unknown roles
// get nothing.
func PermissionsFor(role Role) []Permission {
	return slices.Clone(rolePermissions[role])
}

// Principal is the authenticated caller.
type Principal struct {
	UserID  uuid.UUID
	Email   string
	IsAdmin bool
}

// Membership is what the store knows about a user's link to an account.
type Membership struct {
	AccountID    uuid.UUID
	UserID       uuid.UUID
	Role         Role
	AccessType   AccessType
	AccountState AccountState
}

// Grant is the outcome of a successful authorization.
type Grant struct {
	AccountID   uuid.UUID
	UserID      uuid.UUID
	Role        Role
	Permissions []Permission
	Admin       bool
}

func (g Grant) Has(p Permission) bool {
	return slices.Contains(g.Permissions, p)
}

// IsOwner reports whether the grant allows structural account changes.
func (g Grant) IsOwner() bool {
	return g.Role == RoleOwner
}

// Decide is the authorization rule. Admins act as owners of every account,
// archived or not. Everyone else needs a membership, an account that is not
// archived when editing, and every required permission.
func Decide(p Principal, m *Membership, accountID uuid.UUID, required ...Permission) (Grant, error) {
	if p.IsAdmin {
		return Grant{
			AccountID:   accountID,
			UserID:      p.UserID,
			Role:        RoleOwner,
			Permissions: PermissionsFor(RoleOwner),
			Admin:       true,
		}, nil
	}

	if m == nil {
		return Grant{}, ErrAccessDenied
	}

	if m.AccountState == AccountArchived && slices.Contains(required, PermEdit) {
		return Grant{}, ErrArchivedAccount
	}

	granted := PermissionsFor(m.Role)
	for _, perm := range required {
		if !slices.Contains(granted, perm) {
			return Grant{}, ErrInsufficientPermission
		}
	}

	return Grant{
		AccountID:   accountID,
		UserID:      p.UserID,
		Role:        m.Role,
		Permissions: granted,
	}, nil
}

//go:generate mockgen -source=access.go -destination=lookup_mock.go -package=access
type MembershipLookup interface {
	// Membership returns nil, nil when the user has no membership on the account.
	Membership(ctx context.Context, userID, accountID uuid.UUID) (*Membership, error)
}

type Engine struct {
	lookup MembershipLookup
}

func NewEngine(lookup MembershipLookup) *Engine {
	return &Engine{lookup: lookup}
}

func (e *Engine) Authorize(ctx context.Context, p Principal, accountID uuid.UUID, required ...Permission) (Grant, error) {
	if p.IsAdmin {
		return Decide(p, nil, accountID, required...)
	}

	m, err := e.lookup.Membership(ctx, p.UserID, accountID)
	if err != nil {
		return Grant{}, fmt.Errorf("looking up membership: %w", err)
	}

	return Decide(p, m, accountID, required...)
}

type principalKey struct{}

type grantKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

func WithGrant(ctx context.Context, g Grant) context.Context {
	return context.WithValue(ctx, grantKey{}, g)
}

func GrantFrom(ctx context.Context) (Grant, bool) {
	g, ok := ctx.Value(grantKey{}).(Grant)
	return g, ok
}

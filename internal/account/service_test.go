package account_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/access"
	"github.com/MrJamesThe3rd/tally/internal/account"
	"github.com/MrJamesThe3rd/tally/internal/currency"
)

func newService(repo account.Repository) *account.Service {
	rates := currency.StaticRates{
		"USD": decimal.NewFromInt(1),
		"EUR": decimal.RequireFromString("0.92"),
		"MXN": decimal.RequireFromString("17.15"),
	}

	return account.NewService(repo, currency.NewConverter(rates), "USD")
}

type decimalMatcher struct {
	want decimal.Decimal
}

func (m decimalMatcher) Matches(x any) bool {
	d, ok := x.(decimal.Decimal)
	return ok && d.Equal(m.want)
}

func (m decimalMatcher) String() string {
	return "is decimal " + m.want.String()
}

func decEq(s string) gomock.Matcher {
	return decimalMatcher{want: decimal.RequireFromString(s)}
}

func ownerGrant() access.Grant {
	return access.Grant{
		AccountID:   uuid.New(),
		UserID:      uuid.New(),
		Role:        access.RoleOwner,
		Permissions: access.PermissionsFor(access.RoleOwner),
	}
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    account.CreateParams
		setupMock func(repo *account.MockRepository, tx *account.MockTx)
		wantErr   error
		check     func(t *testing.T, acc *account.Account)
	}

	globals := []account.CategoryTemplate{
		{Name: "Food", Type: "expense", Order: 1},
		{Name: "Salary", Type: "income", Order: 1},
		{Name: "Transfers", Type: "both", Order: 1},
	}

	tests := []testCase{
		{
			name:   "SeedsGlobalCategories",
			params: account.CreateParams{Name: "Household", Type: account.TypeShared, Currency: "eur"},
			setupMock: func(repo *account.MockRepository, tx *account.MockTx) {
				accountID := uuid.New()

				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().InsertAccount(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, acc *account.Account) error {
						acc.ID = accountID
						return nil
					})
				tx.EXPECT().InsertMembership(gomock.Any(), accountID, gomock.Any(), access.RoleOwner, access.AccessIndependent).Return(nil)
				tx.EXPECT().GlobalCategories(gomock.Any()).Return(globals, nil)

				for _, c := range globals {
					tx.EXPECT().InsertCategoryCopy(gomock.Any(), accountID, c).Return(nil)
				}

				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			check: func(t *testing.T, acc *account.Account) {
				assert.Equal(t, "EUR", acc.Currency)
				assert.Equal(t, access.AccountActive, acc.State)
			},
		},
		{
			name:   "DefaultsToBaseCurrency",
			params: account.CreateParams{Name: "  Wallet  ", Type: account.TypePersonal},
			setupMock: func(repo *account.MockRepository, tx *account.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().InsertAccount(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().InsertMembership(gomock.Any(), gomock.Any(), gomock.Any(), access.RoleOwner, access.AccessIndependent).Return(nil)
				tx.EXPECT().GlobalCategories(gomock.Any()).Return(nil, nil)
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			check: func(t *testing.T, acc *account.Account) {
				assert.Equal(t, "USD", acc.Currency)
				assert.Equal(t, "Wallet", acc.Name)
			},
		},
		{
			name:    "MissingName",
			params:  account.CreateParams{Type: account.TypePersonal},
			wantErr: account.ErrInvalid,
		},
		{
			name:    "BadType",
			params:  account.CreateParams{Name: "x", Type: "crypto"},
			wantErr: account.ErrInvalid,
		},
		{
			name:    "UnsupportedCurrency",
			params:  account.CreateParams{Name: "x", Type: account.TypeSavings, Currency: "JPY"},
			wantErr: currency.ErrUnsupported,
		},
		{
			name:   "CategoryCopyFailsRollsBack",
			params: account.CreateParams{Name: "x", Type: account.TypeBusiness},
			setupMock: func(repo *account.MockRepository, tx *account.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().InsertAccount(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().InsertMembership(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().GlobalCategories(gomock.Any()).Return(globals, nil)
				tx.EXPECT().InsertCategoryCopy(gomock.Any(), gomock.Any(), globals[0]).Return(nil)
				tx.EXPECT().InsertCategoryCopy(gomock.Any(), gomock.Any(), globals[1]).Return(errors.New("disk full"))
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: errors.New("copy category"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := account.NewMockRepository(ctrl)
			tx := account.NewMockTx(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, tx)
			}

			p := access.Principal{UserID: uuid.New()}
			got, err := newService(repo).Create(context.Background(), p, tt.params)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Nil(t, got)

				if errors.Is(tt.wantErr, account.ErrInvalid) || errors.Is(tt.wantErr, currency.ErrUnsupported) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.Contains(t, err.Error(), tt.wantErr.Error())
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, p.UserID, got.OwnerID)

			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}

func TestService_Update(t *testing.T) {
	type testCase struct {
		name      string
		grant     access.Grant
		params    account.UpdateParams
		setupMock func(g access.Grant, repo *account.MockRepository, tx *account.MockTx)
		wantErr   error
		check     func(t *testing.T, res *account.UpdateResult)
	}

	usd := func(id uuid.UUID) *account.Account {
		return &account.Account{ID: id, Name: "Main", Type: account.TypePersonal, Currency: "USD", State: access.AccountActive}
	}

	movementID := uuid.New()
	eventID := uuid.New()

	tests := []testCase{
		{
			name:   "ConvertsMovementsAndEvents",
			grant:  ownerGrant(),
			params: account.UpdateParams{Currency: new("eur")},
			setupMock: func(g access.Grant, repo *account.MockRepository, tx *account.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().LockAccount(gomock.Any(), g.AccountID).Return(usd(g.AccountID), nil)
				tx.EXPECT().MemberRole(gomock.Any(), g.AccountID, g.UserID).Return(access.RoleOwner, nil)
				tx.EXPECT().MovementAmounts(gomock.Any(), g.AccountID).
					Return([]account.Amount{{ID: movementID, Value: decimal.RequireFromString("100.00")}}, nil)
				tx.EXPECT().UpdateMovementAmount(gomock.Any(), movementID, decEq("92")).Return(nil)
				tx.EXPECT().EventAmounts(gomock.Any(), g.AccountID).
					Return([]account.Amount{{ID: eventID, Value: decimal.RequireFromString("25.00")}}, nil)
				tx.EXPECT().UpdateEventAmount(gomock.Any(), eventID, decEq("23")).Return(nil)
				tx.EXPECT().UpdateAccount(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			check: func(t *testing.T, res *account.UpdateResult) {
				assert.True(t, res.Converted)
				assert.Equal(t, "USD", res.OldCurrency)
				assert.Equal(t, "EUR", res.NewCurrency)
				assert.Equal(t, "EUR", res.Account.Currency)
				assert.Equal(t, 1, res.Movements)
				assert.Equal(t, 1, res.Events)
			},
		},
		{
			name:   "SameCurrencySkipsConversion",
			grant:  ownerGrant(),
			params: account.UpdateParams{Currency: new("USD"), Name: new("Renamed")},
			setupMock: func(g access.Grant, repo *account.MockRepository, tx *account.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().LockAccount(gomock.Any(), g.AccountID).Return(usd(g.AccountID), nil)
				tx.EXPECT().MemberRole(gomock.Any(), g.AccountID, g.UserID).Return(access.RoleOwner, nil)
				tx.EXPECT().UpdateAccount(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			check: func(t *testing.T, res *account.UpdateResult) {
				assert.False(t, res.Converted)
				assert.Equal(t, "Renamed", res.Account.Name)
				assert.Equal(t, "USD", res.Account.Currency)
			},
		},
		{
			name:   "TinyAmountStaysPositive",
			grant:  ownerGrant(),
			params: account.UpdateParams{Currency: new("USD")},
			setupMock: func(g access.Grant, repo *account.MockRepository, tx *account.MockTx) {
				acc := usd(g.AccountID)
				acc.Currency = "MXN"

				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().LockAccount(gomock.Any(), g.AccountID).Return(acc, nil)
				tx.EXPECT().MemberRole(gomock.Any(), g.AccountID, g.UserID).Return(access.RoleOwner, nil)
				tx.EXPECT().MovementAmounts(gomock.Any(), g.AccountID).
					Return([]account.Amount{{ID: movementID, Value: decimal.RequireFromString("0.05")}}, nil)
				tx.EXPECT().UpdateMovementAmount(gomock.Any(), movementID, decEq("0.01")).Return(nil)
				tx.EXPECT().EventAmounts(gomock.Any(), g.AccountID).Return(nil, nil)
				tx.EXPECT().UpdateAccount(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			check: func(t *testing.T, res *account.UpdateResult) {
				assert.True(t, res.Converted)
			},
		},
		{
			name:   "EventLoadFailsRollsBackMovements",
			grant:  ownerGrant(),
			params: account.UpdateParams{Currency: new("EUR")},
			setupMock: func(g access.Grant, repo *account.MockRepository, tx *account.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().LockAccount(gomock.Any(), g.AccountID).Return(usd(g.AccountID), nil)
				tx.EXPECT().MemberRole(gomock.Any(), g.AccountID, g.UserID).Return(access.RoleOwner, nil)
				tx.EXPECT().MovementAmounts(gomock.Any(), g.AccountID).
					Return([]account.Amount{{ID: movementID, Value: decimal.RequireFromString("100")}}, nil)
				tx.EXPECT().UpdateMovementAmount(gomock.Any(), movementID, gomock.Any()).Return(nil)
				tx.EXPECT().EventAmounts(gomock.Any(), g.AccountID).Return(nil, errors.New("connection reset"))
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: errors.New("load event amounts"),
		},
		{
			name:    "EditorIsRefusedBeforeAnyWrite",
			grant:   access.Grant{AccountID: uuid.New(), UserID: uuid.New(), Role: access.RoleEditor},
			params:  account.UpdateParams{Name: new("x")},
			wantErr: access.ErrInsufficientPermission,
		},
		{
			name:   "DemotedWhileWaitingForLock",
			grant:  ownerGrant(),
			params: account.UpdateParams{Name: new("x")},
			setupMock: func(g access.Grant, repo *account.MockRepository, tx *account.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().LockAccount(gomock.Any(), g.AccountID).Return(usd(g.AccountID), nil)
				tx.EXPECT().MemberRole(gomock.Any(), g.AccountID, g.UserID).Return(access.RoleReadonly, nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: account.ErrOwnerOnly,
		},
		{
			name:   "AdminSkipsOwnerCheck",
			grant:  access.Grant{AccountID: uuid.New(), UserID: uuid.New(), Role: access.RoleOwner, Admin: true},
			params: account.UpdateParams{State: new(access.AccountActive)},
			setupMock: func(g access.Grant, repo *account.MockRepository, tx *account.MockTx) {
				acc := usd(g.AccountID)
				acc.State = access.AccountArchived

				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().LockAccount(gomock.Any(), g.AccountID).Return(acc, nil)
				tx.EXPECT().UpdateAccount(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			check: func(t *testing.T, res *account.UpdateResult) {
				assert.Equal(t, access.AccountActive, res.Account.State)
			},
		},
		{
			name:    "UnsupportedCurrency",
			grant:   ownerGrant(),
			params:  account.UpdateParams{Currency: new("XYZ")},
			wantErr: account.ErrInvalid,
		},
		{
			name:    "BlankName",
			grant:   ownerGrant(),
			params:  account.UpdateParams{Name: new("   ")},
			wantErr: account.ErrInvalid,
		},
		{
			name:   "AccountMissing",
			grant:  ownerGrant(),
			params: account.UpdateParams{Name: new("x")},
			setupMock: func(g access.Grant, repo *account.MockRepository, tx *account.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().LockAccount(gomock.Any(), g.AccountID).Return(nil, account.ErrNotFound)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: account.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := account.NewMockRepository(ctrl)
			tx := account.NewMockTx(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(tt.grant, repo, tx)
			}

			got, err := newService(repo).Update(context.Background(), tt.grant, tt.params)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Nil(t, got)

				if errors.Is(err, tt.wantErr) {
					return
				}

				assert.Contains(t, err.Error(), tt.wantErr.Error())

				return
			}

			require.NoError(t, err)

			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}

func TestService_Archive(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := account.NewMockRepository(ctrl)
	svc := newService(repo)

	g := ownerGrant()
	repo.EXPECT().SetState(gomock.Any(), g.AccountID, access.AccountArchived).Return(nil)
	require.NoError(t, svc.Archive(context.Background(), g))

	editor := access.Grant{AccountID: uuid.New(), Role: access.RoleEditor}
	assert.ErrorIs(t, svc.Archive(context.Background(), editor), access.ErrInsufficientPermission)
}

func TestService_Invite(t *testing.T) {
	type testCase struct {
		name      string
		grant     access.Grant
		email     string
		role      access.Role
		setupMock func(g access.Grant, repo *account.MockRepository)
		wantRole  access.Role
		wantErr   error
	}

	invitee := &account.UserRef{ID: uuid.New(), Name: "Ana", Email: "ana@example.com"}

	tests := []testCase{
		{
			name:  "DefaultsToEditor",
			grant: ownerGrant(),
			email: "  Ana@Example.com ",
			setupMock: func(g access.Grant, repo *account.MockRepository) {
				repo.EXPECT().FindUserByEmail(gomock.Any(), "ana@example.com").Return(invitee, nil)
				repo.EXPECT().GetMember(gomock.Any(), g.AccountID, invitee.ID).Return(nil, account.ErrMemberNotFound)
				repo.EXPECT().AddMember(gomock.Any(), g.AccountID, invitee.ID, access.RoleEditor, access.AccessShared).Return(nil)
			},
			wantRole: access.RoleEditor,
		},
		{
			name:  "Readonly",
			grant: access.Grant{AccountID: uuid.New(), Role: access.RoleOwner, Admin: true},
			email: "ana@example.com",
			role:  access.RoleReadonly,
			setupMock: func(g access.Grant, repo *account.MockRepository) {
				repo.EXPECT().FindUserByEmail(gomock.Any(), "ana@example.com").Return(invitee, nil)
				repo.EXPECT().GetMember(gomock.Any(), g.AccountID, invitee.ID).Return(nil, account.ErrMemberNotFound)
				repo.EXPECT().AddMember(gomock.Any(), g.AccountID, invitee.ID, access.RoleReadonly, access.AccessShared).Return(nil)
			},
			wantRole: access.RoleReadonly,
		},
		{
			name:    "EditorCannotInvite",
			grant:   access.Grant{AccountID: uuid.New(), UserID: uuid.New(), Role: access.RoleEditor},
			email:   "ana@example.com",
			wantErr: access.ErrInsufficientPermission,
		},
		{
			name:    "SecondOwnerRefused",
			grant:   ownerGrant(),
			email:   "ana@example.com",
			role:    access.RoleOwner,
			wantErr: account.ErrInvalidRole,
		},
		{
			name:  "UnknownUser",
			grant: ownerGrant(),
			email: "ghost@example.com",
			setupMock: func(g access.Grant, repo *account.MockRepository) {
				repo.EXPECT().FindUserByEmail(gomock.Any(), "ghost@example.com").Return(nil, account.ErrUserNotFound)
			},
			wantErr: account.ErrUserNotFound,
		},
		{
			name:  "AlreadyMember",
			grant: ownerGrant(),
			email: "ana@example.com",
			setupMock: func(g access.Grant, repo *account.MockRepository) {
				repo.EXPECT().FindUserByEmail(gomock.Any(), "ana@example.com").Return(invitee, nil)
				repo.EXPECT().GetMember(gomock.Any(), g.AccountID, invitee.ID).
					Return(&account.Member{UserID: invitee.ID, Role: access.RoleReadonly}, nil)
			},
			wantErr: account.ErrAlreadyMember,
		},
		{
			name:  "RaceOnInsert",
			grant: ownerGrant(),
			email: "ana@example.com",
			setupMock: func(g access.Grant, repo *account.MockRepository) {
				repo.EXPECT().FindUserByEmail(gomock.Any(), "ana@example.com").Return(invitee, nil)
				repo.EXPECT().GetMember(gomock.Any(), g.AccountID, invitee.ID).Return(nil, account.ErrMemberNotFound)
				repo.EXPECT().AddMember(gomock.Any(), g.AccountID, invitee.ID, access.RoleEditor, access.AccessShared).
					Return(account.ErrAlreadyMember)
			},
			wantErr: account.ErrAlreadyMember,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := account.NewMockRepository(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(tt.grant, repo)
			}

			got, err := newService(repo).Invite(context.Background(), tt.grant, tt.email, tt.role)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, got.Role)
			assert.Equal(t, access.AccessShared, got.AccessType)
			assert.Equal(t, invitee.ID, got.UserID)
		})
	}
}

func TestService_ChangeRole(t *testing.T) {
	type testCase struct {
		name      string
		grant     access.Grant
		role      access.Role
		setupMock func(g access.Grant, target uuid.UUID, repo *account.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:  "EditorToReadonly",
			grant: ownerGrant(),
			role:  access.RoleReadonly,
			setupMock: func(g access.Grant, target uuid.UUID, repo *account.MockRepository) {
				repo.EXPECT().GetMember(gomock.Any(), g.AccountID, target).Return(&account.Member{Role: access.RoleEditor}, nil)
				repo.EXPECT().UpdateMemberRole(gomock.Any(), g.AccountID, target, access.RoleReadonly).Return(nil)
			},
		},
		{
			name:  "OwnerMembershipIsFixed",
			grant: ownerGrant(),
			role:  access.RoleEditor,
			setupMock: func(g access.Grant, target uuid.UUID, repo *account.MockRepository) {
				repo.EXPECT().GetMember(gomock.Any(), g.AccountID, target).Return(&account.Member{Role: access.RoleOwner}, nil)
			},
			wantErr: account.ErrCannotModifyOwner,
		},
		{
			name:  "OwnerMembershipIsFixedEvenForOwnerRole",
			grant: ownerGrant(),
			role:  access.RoleOwner,
			setupMock: func(g access.Grant, target uuid.UUID, repo *account.MockRepository) {
				repo.EXPECT().GetMember(gomock.Any(), g.AccountID, target).Return(&account.Member{Role: access.RoleOwner}, nil)
			},
			wantErr: account.ErrCannotModifyOwner,
		},
		{
			name:  "PromoteToOwnerRefused",
			grant: ownerGrant(),
			role:  access.RoleOwner,
			setupMock: func(g access.Grant, target uuid.UUID, repo *account.MockRepository) {
				repo.EXPECT().GetMember(gomock.Any(), g.AccountID, target).Return(&account.Member{Role: access.RoleEditor}, nil)
			},
			wantErr: account.ErrInvalidRole,
		},
		{
			name:  "NotAMember",
			grant: ownerGrant(),
			role:  access.RoleEditor,
			setupMock: func(g access.Grant, target uuid.UUID, repo *account.MockRepository) {
				repo.EXPECT().GetMember(gomock.Any(), g.AccountID, target).Return(nil, account.ErrMemberNotFound)
			},
			wantErr: account.ErrMemberNotFound,
		},
		{
			name:    "ReadonlyCannotManage",
			grant:   access.Grant{AccountID: uuid.New(), Role: access.RoleReadonly},
			role:    access.RoleEditor,
			wantErr: access.ErrInsufficientPermission,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := account.NewMockRepository(ctrl)
			target := uuid.New()

			if tt.setupMock != nil {
				tt.setupMock(tt.grant, target, repo)
			}

			err := newService(repo).ChangeRole(context.Background(), tt.grant, target, tt.role)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestService_RemoveMember(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := account.NewMockRepository(ctrl)
	svc := newService(repo)
	g := ownerGrant()

	owner, editor := uuid.New(), uuid.New()

	repo.EXPECT().GetMember(gomock.Any(), g.AccountID, owner).Return(&account.Member{Role: access.RoleOwner}, nil)
	assert.ErrorIs(t, svc.RemoveMember(context.Background(), g, owner), account.ErrCannotModifyOwner)

	repo.EXPECT().GetMember(gomock.Any(), g.AccountID, editor).Return(&account.Member{Role: access.RoleEditor}, nil)
	repo.EXPECT().RemoveMember(gomock.Any(), g.AccountID, editor).Return(nil)
	assert.NoError(t, svc.RemoveMember(context.Background(), g, editor))
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := account.NewMockRepository(ctrl)
	svc := newService(repo)

	user := access.Principal{UserID: uuid.New()}
	admin := access.Principal{UserID: uuid.New(), IsAdmin: true}

	repo.EXPECT().ListAccounts(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f account.ListFilter) ([]*account.Summary, error) {
			require.NotNil(t, f.UserID)
			assert.Equal(t, user.UserID, *f.UserID)

			return []*account.Summary{{Role: access.RoleEditor}}, nil
		})

	got, err := svc.List(context.Background(), user, true, account.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, access.RoleEditor, got[0].Role)

	repo.EXPECT().ListAccounts(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f account.ListFilter) ([]*account.Summary, error) {
			assert.Nil(t, f.UserID)
			return []*account.Summary{{}}, nil
		})

	got, err = svc.List(context.Background(), admin, true, account.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, access.RoleOwner, got[0].Role)
}

func TestService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := account.NewMockRepository(ctrl)
	g := access.Grant{AccountID: uuid.New(), UserID: uuid.New(), Role: access.RoleReadonly}

	repo.EXPECT().GetSummary(gomock.Any(), g.AccountID, g.UserID).
		Return(&account.Summary{Account: account.Account{ID: g.AccountID, Currency: "USD"}}, nil)
	repo.EXPECT().ListMembers(gomock.Any(), g.AccountID).
		Return([]*account.Member{{Role: access.RoleOwner}, {Role: access.RoleReadonly}}, nil)

	got, err := newService(repo).Get(context.Background(), g)
	require.NoError(t, err)
	assert.Equal(t, access.RoleReadonly, got.Role)
	assert.Len(t, got.Members, 2)
}

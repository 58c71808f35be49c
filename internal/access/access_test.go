package access_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/access"
)

var allPermissions = []access.Permission{
	access.PermView, access.PermCreate, access.PermEdit, access.PermDelete,
	access.PermManageCategories, access.PermInviteUsers, access.PermViewReports,
}

func member(role access.Role, state access.AccountState) *access.Membership {
	return &access.Membership{
		AccountID:    uuid.New(),
		UserID:       uuid.New(),
		Role:         role,
		AccessType:   access.AccessShared,
		AccountState: state,
	}
}

func TestPermissionsFor(t *testing.T) {
	assert.ElementsMatch(t, allPermissions, access.PermissionsFor(access.RoleOwner))
	assert.ElementsMatch(t, []access.Permission{
		access.PermView, access.PermCreate, access.PermEdit, access.PermViewReports,
	}, access.PermissionsFor(access.RoleEditor))
	assert.ElementsMatch(t, []access.Permission{
		access.PermView, access.PermViewReports,
	}, access.PermissionsFor(access.RoleReadonly))
	assert.Empty(t, access.PermissionsFor("janitor"))
}

func TestPermissionsFor_ReturnsCopy(t *testing.T) {
	perms := access.PermissionsFor(access.RoleReadonly)
	perms[0] = access.PermDelete

	assert.NotContains(t, access.PermissionsFor(access.RoleReadonly), access.PermDelete)
}

func TestRolesAreNested(t *testing.T) {
	owner := access.PermissionsFor(access.RoleOwner)
	editor := access.PermissionsFor(access.RoleEditor)

	for _, p := range editor {
		assert.Contains(t, owner, p)
	}

	for _, p := range access.PermissionsFor(access.RoleReadonly) {
		assert.Contains(t, editor, p)
	}
}

func TestDecide(t *testing.T) {
	type args struct {
		principal  access.Principal
		membership *access.Membership
		required   []access.Permission
	}

	type testCase struct {
		name     string
		args     args
		wantRole access.Role
		wantErr  error
	}

	user := access.Principal{UserID: uuid.New()}
	admin := access.Principal{UserID: uuid.New(), IsAdmin: true}

	tests := []testCase{
		{
			name:     "AdminWithoutMembership",
			args:     args{principal: admin, required: allPermissions},
			wantRole: access.RoleOwner,
		},
		{
			name: "AdminOnArchivedAccount",
			args: args{
				principal:  admin,
				membership: member(access.RoleReadonly, access.AccountArchived),
				required:   []access.Permission{access.PermEdit},
			},
			wantRole: access.RoleOwner,
		},
		{
			name:    "NoMembership",
			args:    args{principal: user, required: []access.Permission{access.PermView}},
			wantErr: access.ErrAccessDenied,
		},
		{
			name:    "NoMembershipNoRequirements",
			args:    args{principal: user},
			wantErr: access.ErrAccessDenied,
		},
		{
			name: "OwnerOnArchivedEdit",
			args: args{
				principal:  user,
				membership: member(access.RoleOwner, access.AccountArchived),
				required:   []access.Permission{access.PermView, access.PermEdit},
			},
			wantErr: access.ErrArchivedAccount,
		},
		{
			name: "OwnerOnArchivedView",
			args: args{
				principal:  user,
				membership: member(access.RoleOwner, access.AccountArchived),
				required:   []access.Permission{access.PermView, access.PermViewReports},
			},
			wantRole: access.RoleOwner,
		},
		{
			name: "ReadonlyOnArchivedEditReportsArchived",
			args: args{
				principal:  user,
				membership: member(access.RoleReadonly, access.AccountArchived),
				required:   []access.Permission{access.PermEdit},
			},
			wantErr: access.ErrArchivedAccount,
		},
		{
			name: "EditorCreates",
			args: args{
				principal:  user,
				membership: member(access.RoleEditor, access.AccountActive),
				required:   []access.Permission{access.PermCreate, access.PermEdit},
			},
			wantRole: access.RoleEditor,
		},
		{
			name: "EditorDeletes",
			args: args{
				principal:  user,
				membership: member(access.RoleEditor, access.AccountActive),
				required:   []access.Permission{access.PermDelete},
			},
			wantErr: access.ErrInsufficientPermission,
		},
		{
			name: "EditorInvites",
			args: args{
				principal:  user,
				membership: member(access.RoleEditor, access.AccountActive),
				required:   []access.Permission{access.PermInviteUsers},
			},
			wantErr: access.ErrInsufficientPermission,
		},
		{
			name: "ReadonlyViewsReports",
			args: args{
				principal:  user,
				membership: member(access.RoleReadonly, access.AccountActive),
				required:   []access.Permission{access.PermView, access.PermViewReports},
			},
			wantRole: access.RoleReadonly,
		},
		{
			name: "ReadonlyCreates",
			args: args{
				principal:  user,
				membership: member(access.RoleReadonly, access.AccountActive),
				required:   []access.Permission{access.PermCreate},
			},
			wantErr: access.ErrInsufficientPermission,
		},
		{
			name: "UnknownRole",
			args: args{
				principal:  user,
				membership: member("janitor", access.AccountActive),
				required:   []access.Permission{access.PermView},
			},
			wantErr: access.ErrInsufficientPermission,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accountID := uuid.New()

			got, err := access.Decide(tt.args.principal, tt.args.membership, accountID, tt.args.required...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got.Permissions)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, got.Role)
			assert.Equal(t, accountID, got.AccountID)

			for _, p := range tt.args.required {
				assert.True(t, got.Has(p), "missing %s", p)
			}
		})
	}
}

func TestDecide_AdminGetsOwnerPermissionsForAnyAccount(t *testing.T) {
	admin := access.Principal{UserID: uuid.New(), IsAdmin: true}

	for range 10 {
		g, err := access.Decide(admin, nil, uuid.New(), allPermissions...)
		require.NoError(t, err)
		assert.True(t, g.Admin)
		assert.ElementsMatch(t, access.PermissionsFor(access.RoleOwner), g.Permissions)
	}
}

func TestEngine_Authorize(t *testing.T) {
	type testCase struct {
		name      string
		principal access.Principal
		setupMock func(m *access.MockMembershipLookup, p access.Principal, accountID uuid.UUID)
		required  []access.Permission
		wantRole  access.Role
		wantErr   error
	}

	tests := []testCase{
		{
			name:      "AdminSkipsLookup",
			principal: access.Principal{UserID: uuid.New(), IsAdmin: true},
			required:  []access.Permission{access.PermDelete},
			wantRole:  access.RoleOwner,
		},
		{
			name:      "MemberGranted",
			principal: access.Principal{UserID: uuid.New()},
			setupMock: func(m *access.MockMembershipLookup, p access.Principal, accountID uuid.UUID) {
				m.EXPECT().
					Membership(gomock.Any(), p.UserID, accountID).
					Return(&access.Membership{Role: access.RoleEditor, AccountState: access.AccountActive}, nil)
			},
			required: []access.Permission{access.PermCreate},
			wantRole: access.RoleEditor,
		},
		{
			name:      "NotMember",
			principal: access.Principal{UserID: uuid.New()},
			setupMock: func(m *access.MockMembershipLookup, p access.Principal, accountID uuid.UUID) {
				m.EXPECT().Membership(gomock.Any(), p.UserID, accountID).Return(nil, nil)
			},
			required: []access.Permission{access.PermView},
			wantErr:  access.ErrAccessDenied,
		},
		{
			name:      "LookupFails",
			principal: access.Principal{UserID: uuid.New()},
			setupMock: func(m *access.MockMembershipLookup, p access.Principal, accountID uuid.UUID) {
				m.EXPECT().Membership(gomock.Any(), p.UserID, accountID).Return(nil, errors.New("db down"))
			},
			required: []access.Permission{access.PermView},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			lookup := access.NewMockMembershipLookup(ctrl)
			accountID := uuid.New()

			if tt.setupMock != nil {
				tt.setupMock(lookup, tt.principal, accountID)
			}

			got, err := access.NewEngine(lookup).Authorize(context.Background(), tt.principal, accountID, tt.required...)

			if tt.wantRole == "" {
				require.Error(t, err)

				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, got.Role)
		})
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()

	_, ok := access.PrincipalFrom(ctx)
	assert.False(t, ok)

	p := access.Principal{UserID: uuid.New(), Email: "a@b.c"}
	g := access.Grant{Role: access.RoleEditor}

	ctx = access.WithGrant(access.WithPrincipal(ctx, p), g)

	gotP, ok := access.PrincipalFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, p, gotP)

	gotG, ok := access.GrantFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, access.RoleEditor, gotG.Role)
}

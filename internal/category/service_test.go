package category_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/category"
)

func TestService_Create(t *testing.T) {
	accountID := uuid.New()

	type testCase struct {
		name      string
		params    category.CreateParams
		setupMock func(m *category.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			params: category.CreateParams{Name: " Pets ", Type: category.TypeExpense, Order: 12},
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().NameExists(gomock.Any(), &accountID, "Pets", uuid.Nil).Return(false, nil)
				m.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *category.Category) error {
						c.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name:   "DuplicateName",
			params: category.CreateParams{Name: "food", Type: category.TypeExpense},
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().NameExists(gomock.Any(), &accountID, "food", uuid.Nil).Return(true, nil)
			},
			wantErr: category.ErrNameTaken,
		},
		{
			name:    "BadType",
			params:  category.CreateParams{Name: "Pets", Type: "other"},
			wantErr: category.ErrInvalid,
		},
		{
			name:    "MissingName",
			params:  category.CreateParams{Type: category.TypeIncome},
			wantErr: category.ErrInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := category.NewMockRepository(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := category.NewService(repo)
			got, err := svc.Create(context.Background(), accountID, tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Pets", got.Name)
			assert.False(t, got.Global)
			assert.Equal(t, accountID, *got.AccountID)
		})
	}
}

func TestService_CreateGlobal(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := category.NewMockRepository(ctrl)

	repo.EXPECT().NameExists(gomock.Any(), (*uuid.UUID)(nil), "Gifts", uuid.Nil).Return(false, nil)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	got, err := category.NewService(repo).CreateGlobal(context.Background(),
		category.CreateParams{Name: "Gifts", Type: category.TypeBoth})
	require.NoError(t, err)
	assert.True(t, got.Global)
	assert.Nil(t, got.AccountID)
}

func TestService_Update(t *testing.T) {
	accountID := uuid.New()
	id := uuid.New()

	own := func() *category.Category {
		return &category.Category{ID: id, AccountID: new(accountID), Name: "Food", Type: category.TypeExpense}
	}

	type testCase struct {
		name      string
		params    category.UpdateParams
		setupMock func(m *category.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Rename",
			params: category.UpdateParams{Name: new("Groceries"), Order: new(4)},
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().Get(gomock.Any(), id).Return(own(), nil)
				m.EXPECT().NameExists(gomock.Any(), &accountID, "Groceries", id).Return(false, nil)
				m.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:   "CaseOnlyRenameSkipsCheck",
			params: category.UpdateParams{Name: new("FOOD")},
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().Get(gomock.Any(), id).Return(own(), nil)
				m.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:   "GlobalThroughAccountRoute",
			params: category.UpdateParams{Name: new("X")},
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().Get(gomock.Any(), id).Return(&category.Category{ID: id, Global: true}, nil)
			},
			wantErr: category.ErrNotFound,
		},
		{
			name:   "OtherAccount",
			params: category.UpdateParams{Name: new("X")},
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().Get(gomock.Any(), id).Return(&category.Category{ID: id, AccountID: new(uuid.New())}, nil)
			},
			wantErr: category.ErrNotFound,
		},
		{
			name:   "NameTaken",
			params: category.UpdateParams{Name: new("Home")},
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().Get(gomock.Any(), id).Return(own(), nil)
				m.EXPECT().NameExists(gomock.Any(), &accountID, "Home", id).Return(true, nil)
			},
			wantErr: category.ErrNameTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := category.NewMockRepository(ctrl)
			tt.setupMock(repo)

			_, err := category.NewService(repo).Update(context.Background(), accountID, id, tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestService_Delete(t *testing.T) {
	accountID := uuid.New()
	id := uuid.New()

	own := &category.Category{ID: id, AccountID: &accountID}

	type testCase struct {
		name      string
		global    bool
		setupMock func(m *category.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().Get(gomock.Any(), id).Return(own, nil)
				m.EXPECT().InUse(gomock.Any(), id).Return(false, nil)
				m.EXPECT().Delete(gomock.Any(), id).Return(nil)
			},
		},
		{
			name: "InUse",
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().Get(gomock.Any(), id).Return(own, nil)
				m.EXPECT().InUse(gomock.Any(), id).Return(true, nil)
			},
			wantErr: category.ErrInUse,
		},
		{
			name: "GlobalNotDeletableFromAccount",
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().Get(gomock.Any(), id).Return(&category.Category{ID: id, Global: true}, nil)
			},
			wantErr: category.ErrNotFound,
		},
		{
			name:   "GlobalInUse",
			global: true,
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().Get(gomock.Any(), id).Return(&category.Category{ID: id, Global: true}, nil)
				m.EXPECT().InUse(gomock.Any(), id).Return(true, nil)
			},
			wantErr: category.ErrInUse,
		},
		{
			name:   "UsageCheckFails",
			global: true,
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().Get(gomock.Any(), id).Return(&category.Category{ID: id, Global: true}, nil)
				m.EXPECT().InUse(gomock.Any(), id).Return(false, errors.New("db down"))
			},
			wantErr: errors.New("any"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := category.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := category.NewService(repo)

			var err error
			if tt.global {
				err = svc.DeleteGlobal(context.Background(), id)
			} else {
				err = svc.Delete(context.Background(), accountID, id)
			}

			switch {
			case tt.wantErr == nil:
				assert.NoError(t, err)
			case errors.Is(tt.wantErr, category.ErrInUse), errors.Is(tt.wantErr, category.ErrNotFound):
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				assert.Error(t, err)
			}
		})
	}
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := category.NewMockRepository(ctrl)
	svc := category.NewService(repo)
	accountID := uuid.New()

	typ := category.TypeIncome
	repo.EXPECT().List(gomock.Any(), &accountID, &typ).Return([]*category.Category{{}, {}}, nil)

	got, err := svc.List(context.Background(), accountID, &typ)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = svc.ListGlobal(context.Background(), new(category.Type("nope")))
	assert.ErrorIs(t, err, category.ErrInvalid)
}

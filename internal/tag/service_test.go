package tag_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/tag"
)

func TestService_Create(t *testing.T) {
	accountID := uuid.New()

	type args struct {
		name  string
		color string
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *tag.MockRepository)
		wantColor string
		wantErr   error
	}

	tests := []testCase{
		{
			name: "DefaultColor",
			args: args{name: "travel"},
			setupMock: func(m *tag.MockRepository) {
				m.EXPECT().NameExists(gomock.Any(), accountID, "travel", uuid.Nil).Return(false, nil)
				m.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantColor: tag.DefaultColor,
		},
		{
			name: "CustomColor",
			args: args{name: "work", color: "#10b981"},
			setupMock: func(m *tag.MockRepository) {
				m.EXPECT().NameExists(gomock.Any(), accountID, "work", uuid.Nil).Return(false, nil)
				m.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantColor: "#10b981",
		},
		{
			name: "Duplicate",
			args: args{name: "Travel"},
			setupMock: func(m *tag.MockRepository) {
				m.EXPECT().NameExists(gomock.Any(), accountID, "Travel", uuid.Nil).Return(true, nil)
			},
			wantErr: tag.ErrNameTaken,
		},
		{
			name:    "BadColor",
			args:    args{name: "x", color: "blue"},
			wantErr: tag.ErrInvalid,
		},
		{
			name:    "Blank",
			args:    args{name: "   "},
			wantErr: tag.ErrInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := tag.NewMockRepository(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := tag.NewService(repo).Create(context.Background(), accountID, tt.args.name, tt.args.color)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantColor, got.Color)
			assert.Equal(t, accountID, got.AccountID)
		})
	}
}

func TestService_Update(t *testing.T) {
	accountID := uuid.New()
	id := uuid.New()

	ctrl := gomock.NewController(t)
	repo := tag.NewMockRepository(ctrl)
	svc := tag.NewService(repo)

	repo.EXPECT().Get(gomock.Any(), accountID, id).Return(&tag.Tag{ID: id, AccountID: accountID, Name: "a", Color: "#000000"}, nil)
	repo.EXPECT().NameExists(gomock.Any(), accountID, "b", id).Return(false, nil)
	repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	got, err := svc.Update(context.Background(), accountID, id, tag.UpdateParams{Name: new("b"), Color: new("#FFFFFF")})
	require.NoError(t, err)
	assert.Equal(t, "b", got.Name)
	assert.Equal(t, "#FFFFFF", got.Color)

	repo.EXPECT().Get(gomock.Any(), accountID, id).Return(nil, tag.ErrNotFound)

	_, err = svc.Update(context.Background(), accountID, id, tag.UpdateParams{Name: new("c")})
	assert.ErrorIs(t, err, tag.ErrNotFound)
}

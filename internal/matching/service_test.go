package matching_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/matching"
	"github.com/MrJamesThe3rd/tally/internal/movement"
)

func TestService_Apply(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := matching.NewMockRepository(ctrl)

	repo.EXPECT().FindMatch(gomock.Any(), "COMPRAS C.DEB CONTINENTE").Return("Continente", nil).Times(1)
	repo.EXPECT().FindMatch(gomock.Any(), "TRF P/ JOAO").Return("", nil)

	rows := []movement.CreateParams{
		{Description: "COMPRAS C.DEB CONTINENTE"},
		{Description: "TRF P/ JOAO"},
		{Description: "COMPRAS C.DEB CONTINENTE"},
		{Description: "EDP", Provider: "EDP Comercial"},
		{Description: " "},
	}

	require.NoError(t, matching.NewService(repo).Apply(context.Background(), rows))

	assert.Equal(t, "Continente", rows[0].Provider)
	assert.Empty(t, rows[1].Provider)
	assert.Equal(t, "Continente", rows[2].Provider)
	assert.Equal(t, "EDP Comercial", rows[3].Provider)
	assert.Empty(t, rows[4].Provider)
}

func TestService_Apply_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := matching.NewMockRepository(ctrl)

	repo.EXPECT().FindMatch(gomock.Any(), "X").Return("", errors.New("db down"))

	err := matching.NewService(repo).Apply(context.Background(), []movement.CreateParams{{Description: "X"}})
	assert.ErrorContains(t, err, "row 1")
}

func TestService_Learn(t *testing.T) {
	type testCase struct {
		name      string
		pattern   string
		provider  string
		setupMock func(repo *matching.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:     "Trims",
			pattern:  "  continente ",
			provider: " Continente",
			setupMock: func(repo *matching.MockRepository) {
				repo.EXPECT().Upsert(gomock.Any(), &matching.Mapping{RawPattern: "continente", Provider: "Continente"}).Return(nil)
			},
		},
		{
			name:     "EmptyPattern",
			pattern:  " ",
			provider: "Continente",
			wantErr:  matching.ErrInvalid,
		},
		{
			name:    "EmptyProvider",
			pattern: "continente",
			wantErr: matching.ErrInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := matching.NewMockRepository(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			_, err := matching.NewService(repo).Learn(context.Background(), tt.pattern, tt.provider)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
		})
	}
}

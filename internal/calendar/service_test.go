package calendar_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/calendar"
)

var (
	accountID = uuid.New()
	userID    = uuid.New()
	start     = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
)

func TestTypeFor(t *testing.T) {
	assert.Equal(t, calendar.EventOneTimePayment, calendar.TypeFor(""))
	assert.Equal(t, calendar.EventOneTimePayment, calendar.TypeFor(calendar.RecurrenceNone))
	assert.Equal(t, calendar.EventRecurringPayment, calendar.TypeFor(calendar.RecurrenceMonthly))
}

func TestService_CreateEvent(t *testing.T) {
	categoryID := uuid.New()
	movementID := uuid.New()

	type testCase struct {
		name      string
		params    calendar.EventParams
		setupMock func(repo *calendar.MockRepository)
		verify    func(t *testing.T, got *calendar.Event)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "DerivesRecurringType",
			params: calendar.EventParams{
				Title:      " Rent ",
				StartsAt:   start,
				Recurrence: calendar.RecurrenceMonthly,
				Amount:     new(decimal.RequireFromString("750.005")),
				Reminders:  []calendar.ReminderParams{{}, {MinutesBefore: new(1440), Channel: calendar.ChannelEmail}},
			},
			setupMock: func(repo *calendar.MockRepository) {
				repo.EXPECT().CreateEvent(gomock.Any(), gomock.Any()).Return(nil)
			},
			verify: func(t *testing.T, got *calendar.Event) {
				assert.Equal(t, "Rent", got.Title)
				assert.Equal(t, calendar.EventRecurringPayment, got.Type)
				assert.Equal(t, "750.01", got.Amount.Decimal.StringFixed(2))
				require.Len(t, got.Reminders, 2)
				assert.Equal(t, calendar.DefaultMinutesBefore, got.Reminders[0].MinutesBefore)
				assert.Equal(t, calendar.ChannelApp, got.Reminders[0].Channel)
				assert.True(t, got.Reminders[0].Active)
				assert.Equal(t, 1440, got.Reminders[1].MinutesBefore)
				assert.Equal(t, calendar.ChannelEmail, got.Reminders[1].Channel)
			},
		},
		{
			name:   "DefaultsToOneTime",
			params: calendar.EventParams{Title: "Insurance", StartsAt: start},
			setupMock: func(repo *calendar.MockRepository) {
				repo.EXPECT().CreateEvent(gomock.Any(), gomock.Any()).Return(nil)
			},
			verify: func(t *testing.T, got *calendar.Event) {
				assert.Equal(t, calendar.EventOneTimePayment, got.Type)
				assert.Equal(t, calendar.RecurrenceNone, got.Recurrence)
				assert.False(t, got.Amount.Valid)
			},
		},
		{
			name:    "MissingTitle",
			params:  calendar.EventParams{StartsAt: start},
			wantErr: calendar.ErrInvalid,
		},
		{
			name:    "EndBeforeStart",
			params:  calendar.EventParams{Title: "x", StartsAt: start, EndsAt: new(start.Add(-time.Hour))},
			wantErr: calendar.ErrInvalid,
		},
		{
			name:    "UnknownRecurrence",
			params:  calendar.EventParams{Title: "x", StartsAt: start, Recurrence: "hourly"},
			wantErr: calendar.ErrInvalid,
		},
		{
			name:    "NonPositiveAmount",
			params:  calendar.EventParams{Title: "x", StartsAt: start, Amount: new(decimal.Zero)},
			wantErr: calendar.ErrInvalid,
		},
		{
			name:    "BadChannel",
			params:  calendar.EventParams{Title: "x", StartsAt: start, Reminders: []calendar.ReminderParams{{Channel: "fax"}}},
			wantErr: calendar.ErrInvalid,
		},
		{
			name:   "ForeignCategory",
			params: calendar.EventParams{Title: "x", StartsAt: start, CategoryID: &categoryID},
			setupMock: func(repo *calendar.MockRepository) {
				repo.EXPECT().CategoryInScope(gomock.Any(), accountID, categoryID).Return(false, nil)
			},
			wantErr: calendar.ErrInvalidCategory,
		},
		{
			name:   "ForeignMovement",
			params: calendar.EventParams{Title: "x", StartsAt: start, MovementID: &movementID},
			setupMock: func(repo *calendar.MockRepository) {
				repo.EXPECT().MovementInAccount(gomock.Any(), accountID, movementID).Return(false, nil)
			},
			wantErr: calendar.ErrInvalidMovement,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := calendar.NewMockRepository(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := calendar.NewService(repo).CreateEvent(context.Background(), accountID, userID, tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, accountID, got.AccountID)
			assert.Equal(t, userID, got.UserID)

			if tt.verify != nil {
				tt.verify(t, got)
			}
		})
	}
}

func TestService_UpdateEvent(t *testing.T) {
	eventID := uuid.New()
	categoryID := uuid.New()

	t.Run("UnchangedCategorySkipsScopeCheck", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := calendar.NewMockRepository(ctrl)

		repo.EXPECT().GetEvent(gomock.Any(), accountID, eventID).Return(&calendar.Event{
			ID: eventID, AccountID: accountID, Title: "Rent", StartsAt: start,
			Type: calendar.EventOneTimePayment, Recurrence: calendar.RecurrenceNone, CategoryID: &categoryID,
		}, nil)
		repo.EXPECT().UpdateEvent(gomock.Any(), gomock.Any()).Return(nil)

		got, err := calendar.NewService(repo).UpdateEvent(context.Background(), accountID, eventID, calendar.EventUpdate{
			Title:      new("Rent (flat)"),
			CategoryID: new(categoryID),
		})
		require.NoError(t, err)
		assert.Equal(t, "Rent (flat)", got.Title)
	})

	t.Run("NotFound", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := calendar.NewMockRepository(ctrl)

		repo.EXPECT().GetEvent(gomock.Any(), accountID, eventID).Return(nil, calendar.ErrEventNotFound)

		_, err := calendar.NewService(repo).UpdateEvent(context.Background(), accountID, eventID, calendar.EventUpdate{})
		assert.ErrorIs(t, err, calendar.ErrEventNotFound)
	})
}

func TestService_AddReminder(t *testing.T) {
	eventID := uuid.New()

	t.Run("Defaults", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := calendar.NewMockRepository(ctrl)

		repo.EXPECT().GetEvent(gomock.Any(), accountID, eventID).Return(&calendar.Event{ID: eventID, Title: "Rent"}, nil)
		repo.EXPECT().AddReminder(gomock.Any(), gomock.Any()).Return(nil)

		got, err := calendar.NewService(repo).AddReminder(context.Background(), accountID, eventID, calendar.ReminderParams{})
		require.NoError(t, err)
		assert.Equal(t, eventID, got.EventID)
		assert.Equal(t, calendar.DefaultMinutesBefore, got.MinutesBefore)
		assert.Equal(t, calendar.ChannelApp, got.Channel)
	})

	t.Run("NegativeMinutes", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := calendar.NewMockRepository(ctrl)

		_, err := calendar.NewService(repo).AddReminder(context.Background(), accountID, eventID, calendar.ReminderParams{MinutesBefore: new(-5)})
		assert.ErrorIs(t, err, calendar.ErrInvalid)
	})
}

func TestService_Remind(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := calendar.NewMockRepository(ctrl)

	repo.EXPECT().CreateEvent(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e *calendar.Event) error {
		assert.Equal(t, calendar.EventReminder, e.Type)
		assert.Equal(t, "Call the bank", e.Title)
		require.Len(t, e.Reminders, 1)
		assert.Equal(t, 0, e.Reminders[0].MinutesBefore)

		return nil
	})

	got, err := calendar.NewService(repo).Remind(context.Background(), accountID, userID, "Call the bank", start, "")
	require.NoError(t, err)
	assert.Equal(t, "Call the bank", got.Message)
	assert.Equal(t, calendar.ChannelApp, got.Channel)
}

func TestService_MarkSent(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := calendar.NewMockRepository(ctrl)
	id := uuid.New()

	repo.EXPECT().MarkSent(gomock.Any(), id, gomock.Any()).Return(calendar.ErrReminderNotFound)

	err := calendar.NewService(repo).MarkSent(context.Background(), id)
	assert.ErrorIs(t, err, calendar.ErrReminderNotFound)
}

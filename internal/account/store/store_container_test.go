//go:build container

package store_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/access"
	"github.com/MrJamesThe3rd/tally/internal/account"
	"github.com/MrJamesThe3rd/tally/internal/account/store"
	"github.com/MrJamesThe3rd/tally/internal/currency"
	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/database/dbtest"
)

// failingEvents breaks the conversion after the movements were rewritten.
type failingEvents struct {
	*store.Store
}

func (f failingEvents) Begin(ctx context.Context) (account.Tx, error) {
	tx, err := f.Store.Begin(ctx)
	if err != nil {
		return nil, err
	}

	return failingTx{Tx: tx}, nil
}

type failingTx struct {
	account.Tx
}

func (failingTx) EventAmounts(context.Context, uuid.UUID) ([]account.Amount, error) {
	return nil, errors.New("injected failure")
}

func newService(repo account.Repository) *account.Service {
	return account.NewService(repo, currency.NewConverter(currency.DefaultRates()), "USD")
}

func seedMovement(t *testing.T, db *sql.DB, accountID uuid.UUID, amount string) uuid.UUID {
	t.Helper()

	var id uuid.UUID

	err := db.QueryRow(`
		INSERT INTO movements (account_id, type, operation_date, amount, category_id, state)
		SELECT $1, 'expense', CURRENT_DATE, $2::numeric, c.id, 'confirmed'
		FROM categories c WHERE c.account_id = $1 AND c.type = 'expense'
		LIMIT 1
		RETURNING id`, accountID, amount).Scan(&id)
	require.NoError(t, err)

	return id
}

func seedEvent(t *testing.T, db *sql.DB, accountID, userID uuid.UUID, amount *string) uuid.UUID {
	t.Helper()

	var id uuid.UUID

	err := db.QueryRow(`
		INSERT INTO calendar_events (account_id, user_id, title, starts_at, type, amount)
		VALUES ($1, $2, 'rent', NOW(), 'one_time_payment', $3::numeric)
		RETURNING id`, accountID, userID, amount).Scan(&id)
	require.NoError(t, err)

	return id
}

func amountOf(t *testing.T, db *sql.DB, table string, id uuid.UUID) decimal.NullDecimal {
	t.Helper()

	var v decimal.NullDecimal
	require.NoError(t, db.QueryRow(`SELECT amount FROM `+table+` WHERE id = $1`, id).Scan(&v))

	return v
}

func TestStore_CreateSeedsPrivateCategories(t *testing.T) {
	db := dbtest.Postgres(t)
	ctx := context.Background()
	owner := dbtest.CreateUser(t, db, "Owner", "owner@example.com")

	svc := newService(store.New(db))

	acc, err := svc.Create(ctx, access.Principal{UserID: owner}, account.CreateParams{Name: "Main", Type: account.TypePersonal})
	require.NoError(t, err)

	var copies, globals int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM categories WHERE account_id = $1 AND is_global = FALSE`, acc.ID).Scan(&copies))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM categories WHERE is_global = TRUE`).Scan(&globals))
	assert.Equal(t, len(database.DefaultCategories), globals)
	assert.Equal(t, globals, copies)

	_, err = db.Exec(`UPDATE categories SET name = 'Groceries' WHERE is_global = TRUE AND name = 'Food'`)
	require.NoError(t, err)

	var copied string
	require.NoError(t, db.QueryRow(`
		SELECT name FROM categories WHERE account_id = $1 AND display_order = 3 AND type = 'expense'`, acc.ID).Scan(&copied))
	assert.Equal(t, "Food", copied)

	m, err := store.New(db).GetMember(ctx, acc.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, access.RoleOwner, m.Role)
	assert.Equal(t, access.AccessIndependent, m.AccessType)
}

func TestStore_ConvertCurrency(t *testing.T) {
	db := dbtest.Postgres(t)
	ctx := context.Background()
	owner := dbtest.CreateUser(t, db, "Owner", "owner@example.com")
	svc := newService(store.New(db))

	acc, err := svc.Create(ctx, access.Principal{UserID: owner}, account.CreateParams{Name: "Main", Type: account.TypePersonal})
	require.NoError(t, err)

	movementID := seedMovement(t, db, acc.ID, "100.00")
	eventID := seedEvent(t, db, acc.ID, owner, new("25.00"))
	noAmountID := seedEvent(t, db, acc.ID, owner, nil)

	g := access.Grant{AccountID: acc.ID, UserID: owner, Role: access.RoleOwner}

	res, err := svc.Update(ctx, g, account.UpdateParams{Currency: new("EUR")})
	require.NoError(t, err)
	assert.True(t, res.Converted)
	assert.Equal(t, "EUR", res.Account.Currency)

	assert.True(t, decimal.RequireFromString("92.00").Equal(amountOf(t, db, "movements", movementID).Decimal))
	assert.True(t, decimal.RequireFromString("23.00").Equal(amountOf(t, db, "calendar_events", eventID).Decimal))
	assert.False(t, amountOf(t, db, "calendar_events", noAmountID).Valid)

	res, err = svc.Update(ctx, g, account.UpdateParams{Currency: new("EUR")})
	require.NoError(t, err)
	assert.False(t, res.Converted)
	assert.True(t, decimal.RequireFromString("92.00").Equal(amountOf(t, db, "movements", movementID).Decimal))
}

func TestStore_ConvertCurrencyRollsBack(t *testing.T) {
	db := dbtest.Postgres(t)
	ctx := context.Background()
	owner := dbtest.CreateUser(t, db, "Owner", "owner@example.com")

	acc, err := newService(store.New(db)).Create(ctx, access.Principal{UserID: owner},
		account.CreateParams{Name: "Main", Type: account.TypePersonal})
	require.NoError(t, err)

	movementID := seedMovement(t, db, acc.ID, "100.00")

	svc := newService(failingEvents{Store: store.New(db)})
	g := access.Grant{AccountID: acc.ID, UserID: owner, Role: access.RoleOwner}

	_, err = svc.Update(ctx, g, account.UpdateParams{Currency: new("EUR"), Name: new("Renamed")})
	require.Error(t, err)

	assert.True(t, decimal.RequireFromString("100.00").Equal(amountOf(t, db, "movements", movementID).Decimal))

	var name, cur string
	require.NoError(t, db.QueryRow(`SELECT name, currency FROM accounts WHERE id = $1`, acc.ID).Scan(&name, &cur))
	assert.Equal(t, "Main", name)
	assert.Equal(t, "USD", cur)
}

func TestStore_ConvertCurrencyKeepsConcurrentEdit(t *testing.T) {
	db := dbtest.Postgres(t)
	ctx := context.Background()
	owner := dbtest.CreateUser(t, db, "Owner", "owner@example.com")
	svc := newService(store.New(db))

	acc, err := svc.Create(ctx, access.Principal{UserID: owner}, account.CreateParams{Name: "Main", Type: account.TypePersonal})
	require.NoError(t, err)

	movementID := seedMovement(t, db, acc.ID, "100.00")

	edit, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer edit.Rollback()

	_, err = edit.ExecContext(ctx, `UPDATE movements SET amount = 200.00 WHERE id = $1`, movementID)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		g := access.Grant{AccountID: acc.ID, UserID: owner, Role: access.RoleOwner}
		_, err := svc.Update(ctx, g, account.UpdateParams{Currency: new("EUR")})
		done <- err
	}()

	select {
	case err := <-done:
		t.Fatalf("conversion finished while the movement was locked: %v", err)
	case <-time.After(300 * time.Millisecond):
	}

	require.NoError(t, edit.Commit())
	require.NoError(t, <-done)

	assert.True(t, decimal.RequireFromString("184.00").Equal(amountOf(t, db, "movements", movementID).Decimal))
}

func TestStore_Members(t *testing.T) {
	db := dbtest.Postgres(t)
	ctx := context.Background()
	owner := dbtest.CreateUser(t, db, "Owner", "owner@example.com")
	guest := dbtest.CreateUser(t, db, "Guest", "guest@example.com")

	s := store.New(db)
	svc := newService(s)

	acc, err := svc.Create(ctx, access.Principal{UserID: owner}, account.CreateParams{Name: "Main", Type: account.TypeShared})
	require.NoError(t, err)

	g := access.Grant{AccountID: acc.ID, UserID: owner, Role: access.RoleOwner}

	_, err = svc.Invite(ctx, g, "GUEST@example.com", "")
	require.NoError(t, err)

	_, err = svc.Invite(ctx, g, "guest@example.com", access.RoleReadonly)
	assert.ErrorIs(t, err, account.ErrAlreadyMember)

	assert.ErrorIs(t, s.AddMember(ctx, acc.ID, guest, access.RoleEditor, access.AccessShared), account.ErrAlreadyMember)
	assert.ErrorIs(t, s.UpdateMemberRole(ctx, acc.ID, owner, access.RoleReadonly), account.ErrMemberNotFound)
	assert.ErrorIs(t, s.RemoveMember(ctx, acc.ID, owner), account.ErrMemberNotFound)

	members, err := s.ListMembers(ctx, acc.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, access.RoleOwner, members[0].Role)

	sum, err := s.GetSummary(ctx, acc.ID, guest)
	require.NoError(t, err)
	assert.Equal(t, access.RoleEditor, sum.Role)
	assert.Equal(t, 2, sum.MemberCount)
	assert.True(t, sum.Balance.Total.IsZero())
}

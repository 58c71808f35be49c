package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schema string

// Migrate applies the schema. Every statement is idempotent, so it is safe to
// run on each start.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}

	return nil
}

type GlobalCategory struct {
	Name  string
	Type  string
	Order int
}

// DefaultCategories are copied into every new account.
var DefaultCategories = []GlobalCategory{
	{Name: "Home", Type: "expense", Order: 1},
	{Name: "Transport", Type: "expense", Order: 2},
	{Name: "Food", Type: "expense", Order: 3},
	{Name: "Health", Type: "expense", Order: 4},
	{Name: "Education", Type: "expense", Order: 5},
	{Name: "Entertainment", Type: "expense", Order: 6},
	{Name: "Clothing", Type: "expense", Order: 7},
	{Name: "Utilities", Type: "expense", Order: 8},
	{Name: "Taxes", Type: "expense", Order: 9},
	{Name: "Insurance", Type: "expense", Order: 10},
	{Name: "Other expenses", Type: "expense", Order: 11},
	{Name: "Salary", Type: "income", Order: 1},
	{Name: "Freelance", Type: "income", Order: 2},
	{Name: "Investments", Type: "income", Order: 3},
	{Name: "Rent", Type: "income", Order: 4},
	{Name: "Sales", Type: "income", Order: 5},
	{Name: "Refunds", Type: "income", Order: 6},
	{Name: "Other income", Type: "income", Order: 7},
	{Name: "Transfers", Type: "both", Order: 1},
}

type SeedAdmin struct {
	Name         string
	Email        string
	PasswordHash string
}

// Seed inserts the default global categories and the bootstrap admin when
// they are missing. Existing rows are left untouched.
func Seed(ctx context.Context, db *sql.DB, admin *SeedAdmin) error {
	return WithTx(ctx, db, func(tx *sql.Tx) error {
		for _, c := range DefaultCategories {
			query := `
				INSERT INTO categories (name, type, display_order, is_global)
				SELECT $1, $2, $3, TRUE
				WHERE NOT EXISTS (
					SELECT 1 FROM categories WHERE is_global = TRUE AND name = $1
				)
			`
			if _, err := tx.ExecContext(ctx, query, c.Name, c.Type, c.Order); err != nil {
				return fmt.Errorf("seeding category %q: %w", c.Name, err)
			}
		}

		if admin == nil {
			return nil
		}

		query := `
			INSERT INTO users (name, email, password_hash, role, state)
			VALUES ($1, LOWER($2), $3, 'admin', 'active')
			ON CONFLICT (email) DO NOTHING
		`
		if _, err := tx.ExecContext(ctx, query, admin.Name, admin.Email, admin.PasswordHash); err != nil {
			return fmt.Errorf("seeding admin: %w", err)
		}

		return nil
	})
}

//go:build integration
// +build integration

package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedContact represents a contact to be inserted for testing.
type SeedContact struct {
	ID        string
	Name      string
	Email     *string
	Phone     *string
	Birthday  *time.Time // nil for NULL
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// InsertContacts inserts contacts into the database for testing.
func InsertContacts(t *testing.T, db *pgxpool.Pool, contacts []SeedContact) {
	t.Helper()
	ctx := context.Background()

	const q = `
		INSERT INTO contacts (
			id, name, email, phone, birthday, status, created_at, updated_at
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8
		)
	`
	for _, c := range contacts {
		_, err := db.Exec(ctx, q,
			c.ID, c.Name, c.Email, c.Phone, c.Birthday, c.Status, c.CreatedAt, c.UpdatedAt,
		)
		if err != nil {
			t.Fatalf("failed to insert seed contact id=%s: %v", c.ID, err)
		}
	}
}

// DateYMD creates a time.Time at midnight UTC for a given date.
func DateYMD(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

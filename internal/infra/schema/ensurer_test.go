//go:build unit

package schema_test

import (
	"context"
	"log/slog"
	"testing"

	"theater-booking-api/internal/infra"
	"theater-booking-api/internal/infra/schema"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDB struct {
	execs  []string
	execFn func(sql string) error
}

func (f *fakeDB) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	if f.execFn != nil {
		if err := f.execFn(sql); err != nil {
			return pgconn.CommandTag{}, err
		}
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("not used")
}

func (f *fakeDB) QueryRow(context.Context, string, ...any) pgx.Row {
	panic("not used")
}

func testTable() schema.Table {
	return schema.Table{
		Name:      "cancelled_bookings",
		CreateSQL: "CREATE TABLE IF NOT EXISTS cancelled_bookings (id BIGSERIAL PRIMARY KEY, booking_id TEXT NOT NULL UNIQUE)",
		Extended: []schema.Column{
			{Name: "refund_amount", DDL: "NUMERIC"},
			{Name: "payment_received", DDL: "TEXT"},
		},
	}
}

func TestEnsure_AppliedThenCached(t *testing.T) {
	fake := &fakeDB{}
	ensurer := schema.NewEnsurer(fake, slog.Default(), []schema.Table{testTable()})

	outcome, err := ensurer.Ensure(context.Background(), "cancelled_bookings")
	require.NoError(t, err)
	assert.Equal(t, schema.OutcomeApplied, outcome)
	assert.Len(t, fake.execs, 3)
	assert.Contains(t, fake.execs[1], "ADD COLUMN IF NOT EXISTS refund_amount NUMERIC")

	outcome, err = ensurer.Ensure(context.Background(), "cancelled_bookings")
	require.NoError(t, err)
	assert.Equal(t, schema.OutcomeAlreadyEnsured, outcome)
	assert.Len(t, fake.execs, 3, "cached ensure must not issue DDL again")
}

func TestEnsure_DuplicateColumnIsSteadyState(t *testing.T) {
	fake := &fakeDB{execFn: func(sql string) error {
		if sql == "ALTER TABLE cancelled_bookings ADD COLUMN IF NOT EXISTS refund_amount NUMERIC" {
			return &pgconn.PgError{Code: "42701"}
		}
		return nil
	}}
	ensurer := schema.NewEnsurer(fake, slog.Default(), []schema.Table{testTable()})

	outcome, err := ensurer.Ensure(context.Background(), "cancelled_bookings")
	require.NoError(t, err)
	assert.Equal(t, schema.OutcomeApplied, outcome)
}

func TestEnsure_DegradedIsNotCached(t *testing.T) {
	failing := true
	fake := &fakeDB{execFn: func(sql string) error {
		if failing && sql == "ALTER TABLE cancelled_bookings ADD COLUMN IF NOT EXISTS payment_received TEXT" {
			return &pgconn.PgError{Code: "42601"}
		}
		return nil
	}}
	ensurer := schema.NewEnsurer(fake, slog.Default(), []schema.Table{testTable()})

	outcome, err := ensurer.Ensure(context.Background(), "cancelled_bookings")
	require.NoError(t, err)
	assert.Equal(t, schema.OutcomeDegraded, outcome)

	// Once the failure clears, the next call retries and applies fully.
	failing = false
	outcome, err = ensurer.Ensure(context.Background(), "cancelled_bookings")
	require.NoError(t, err)
	assert.Equal(t, schema.OutcomeApplied, outcome)
}

func TestEnsure_UnknownTable(t *testing.T) {
	ensurer := schema.NewEnsurer(&fakeDB{}, slog.Default(), []schema.Table{testTable()})

	outcome, err := ensurer.Ensure(context.Background(), "mystery")
	assert.Equal(t, schema.OutcomeDegraded, outcome)
	assert.True(t, infra.IsKind(err, infra.KindSchemaDegraded))
}

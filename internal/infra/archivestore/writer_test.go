//go:build unit

package archivestore

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"theater-booking-api/internal/domain/booking"
	"theater-booking-api/internal/infra"
	"theater-booking-api/internal/infra/schema"
	"theater-booking-api/internal/pkg/clock"
	"theater-booking-api/internal/pkg/codec"
	"theater-booking-api/internal/pkg/ptr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type executed struct {
	sql  string
	args []any
}

type fakeDB struct {
	execs  []executed
	execFn func(sql string) error
	tag    string
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, executed{sql: sql, args: args})
	if f.execFn != nil {
		if err := f.execFn(sql); err != nil {
			return pgconn.CommandTag{}, err
		}
	}
	tag := f.tag
	if tag == "" {
		tag = "INSERT 0 1"
	}
	return pgconn.NewCommandTag(tag), nil
}

func (f *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("not used")
}

func (f *fakeDB) QueryRow(context.Context, string, ...any) pgx.Row {
	panic("not used")
}

func (f *fakeDB) upserts() []executed {
	out := make([]executed, 0, len(f.execs))
	for _, e := range f.execs {
		if strings.HasPrefix(e.sql, "INSERT INTO") {
			out = append(out, e)
		}
	}
	return out
}

// argsByColumn pairs the statement's column list with its bound args.
func argsByColumn(t *testing.T, e executed) map[string]any {
	t.Helper()
	open := strings.Index(e.sql, "(")
	closing := strings.Index(e.sql, ")")
	require.Greater(t, closing, open)

	names := strings.Split(e.sql[open+1:closing], ", ")
	require.Len(t, e.args, len(names))

	byCol := make(map[string]any, len(names))
	for i, name := range names {
		byCol[name] = e.args[i]
	}
	return byCol
}

func newTestWriter(fake *fakeDB) *Writer {
	ensurer := schema.NewEnsurer(fake, slog.Default(), Tables())
	clk := clock.NewMockClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	return NewWriter(fake, ensurer, clk, slog.Default())
}

func TestArchiveCancelled_UpsertRow(t *testing.T) {
	fake := &fakeDB{}
	writer := newTestWriter(fake)

	snap := booking.Snapshot{
		BookingID:     "B100",
		Name:          "Asha",
		Email:         "asha@example.com",
		TotalAmount:   booking.AmountOf(5000),
		CancelReason:  ptr.To("customer request"),
		StaffName:     ptr.To("Riya"),
		PaymentMethod: ptr.To("cash"),
		Original: &booking.Snapshot{
			AdvanceAmount: booking.AmountOf(1000),
			BookingDate:   ptr.To("2026-02-20"),
		},
	}

	require.NoError(t, writer.ArchiveCancelled(context.Background(), snap))

	upserts := fake.upserts()
	require.Len(t, upserts, 1)
	e := upserts[0]

	assert.True(t, strings.HasPrefix(e.sql, "INSERT INTO cancelled_bookings"))
	assert.Contains(t, e.sql, "ON CONFLICT (booking_id) DO UPDATE SET")
	assert.NotContains(t, e.sql, "booking_id = EXCLUDED.booking_id")
	assert.Contains(t, e.sql, "total_amount = EXCLUDED.total_amount")

	byCol := argsByColumn(t, e)
	assert.Equal(t, "B100", byCol["booking_id"])
	assert.Equal(t, "Asha", byCol["name"])
	assert.Equal(t, float64(5000), *byCol["total_amount"].(*float64))
	assert.Equal(t, float64(1000), *byCol["advance_amount"].(*float64))
	assert.Equal(t, "2026-02-20", *byCol["booking_date"].(*string))
	assert.Equal(t, "customer request", *byCol["cancellation_reason"].(*string))
	assert.Equal(t, "Cash - Riya", *byCol["payment_received"].(*string))

	// The blob round-trips to the reconciled record.
	var stored map[string]any
	require.NoError(t, codec.Decode(byCol["raw_payload"].(string), &stored))
	assert.Equal(t, "B100", stored["bookingId"])
	assert.Equal(t, float64(5000), stored["totalAmount"])
}

func TestArchiveCompleted_IdentityFallbacks(t *testing.T) {
	fake := &fakeDB{}
	writer := newTestWriter(fake)

	require.NoError(t, writer.ArchiveCompleted(context.Background(), booking.Snapshot{
		BookingID:   "B200",
		CompletedAt: ptr.To("2026-03-01T09:00:00Z"),
	}))

	upserts := fake.upserts()
	require.Len(t, upserts, 1)
	assert.True(t, strings.HasPrefix(upserts[0].sql, "INSERT INTO completed_bookings"))

	byCol := argsByColumn(t, upserts[0])
	assert.Equal(t, booking.DefaultName, byCol["name"])
	assert.Equal(t, booking.DefaultEmail, byCol["email"])
	assert.Nil(t, byCol["total_amount"].(*float64))
}

func TestArchive_MissingBookingID(t *testing.T) {
	fake := &fakeDB{}
	writer := newTestWriter(fake)

	err := writer.ArchiveCancelled(context.Background(), booking.Snapshot{Name: "Asha"})
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
	assert.Empty(t, fake.upserts())
}

func TestArchive_LegacyColumnFallback(t *testing.T) {
	fake := &fakeDB{}
	fake.execFn = func(sql string) error {
		if strings.HasPrefix(sql, "INSERT INTO") && strings.Contains(sql, "payment_received") {
			return &pgconn.PgError{Code: "42703"}
		}
		return nil
	}
	writer := newTestWriter(fake)

	require.NoError(t, writer.ArchiveCancelled(context.Background(), booking.Snapshot{
		BookingID:    "B300",
		CancelReason: ptr.To("no show"),
		StaffName:    ptr.To("Riya"),
	}))

	upserts := fake.upserts()
	require.Len(t, upserts, 2)

	legacy := upserts[1]
	assert.NotContains(t, legacy.sql, "payment_received")
	assert.NotContains(t, legacy.sql, "selected_movies")

	byCol := argsByColumn(t, legacy)
	assert.Equal(t, "B300", byCol["booking_id"])
	assert.Equal(t, "no show", *byCol["cancellation_reason"].(*string))
}

func TestArchive_NonSchemaErrorSurfaces(t *testing.T) {
	fake := &fakeDB{}
	fake.execFn = func(sql string) error {
		if strings.HasPrefix(sql, "INSERT INTO") {
			return &pgconn.PgError{Code: "23505"}
		}
		return nil
	}
	writer := newTestWriter(fake)

	err := writer.ArchiveCancelled(context.Background(), booking.Snapshot{BookingID: "B400"})
	require.Error(t, err)
	assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	assert.Len(t, fake.upserts(), 1, "only schema errors trigger the legacy retry")
}

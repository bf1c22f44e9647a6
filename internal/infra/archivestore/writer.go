// Package archivestore persists cancelled and completed bookings into the
// secondary relational store, one logical row per booking id, and reads them
// back for reporting.
package archivestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"theater-booking-api/internal/domain/booking"
	"theater-booking-api/internal/infra"
	"theater-booking-api/internal/infra/db"
	"theater-booking-api/internal/infra/schema"
	"theater-booking-api/internal/pkg/clock"
	"theater-booking-api/internal/pkg/codec"
	"theater-booking-api/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
)

var ErrMissingBookingID = errs.New("booking snapshot has no bookingId")

type Writer struct {
	db      db.DBTX
	ensurer *schema.Ensurer
	clock   clock.Clock
	logger  *slog.Logger
}

func NewWriter(dbtx db.DBTX, ensurer *schema.Ensurer, clk clock.Clock, logger *slog.Logger) *Writer {
	return &Writer{
		db:      dbtx,
		ensurer: ensurer,
		clock:   clk,
		logger:  logger,
	}
}

// ArchiveCancelled upserts the snapshot into the cancelled table. Retrying
// the same bookingId updates the existing row.
func (w *Writer) ArchiveCancelled(ctx context.Context, snap booking.Snapshot) error {
	return w.archive(ctx, TableCancelled, cancelledColumns(), snap)
}

// ArchiveCompleted upserts the snapshot into the completed table.
func (w *Writer) ArchiveCompleted(ctx context.Context, snap booking.Snapshot) error {
	return w.archive(ctx, TableCompleted, completedColumns(), snap)
}

func (w *Writer) archive(ctx context.Context, table string, cols []columnSpec, snap booking.Snapshot) error {
	rec := booking.Reconcile(snap)
	if strings.TrimSpace(rec.BookingID) == "" {
		return infra.WrapRepoErr("cannot archive booking", ErrMissingBookingID, infra.KindNotFound)
	}

	outcome, err := w.ensurer.Ensure(ctx, table)
	if err != nil {
		return err
	}
	if outcome == schema.OutcomeDegraded {
		w.logger.Warn("archiving against a degraded schema",
			"table", table, "booking_id", rec.BookingID)
	}

	blob, err := codec.Encode(rec)
	if err != nil {
		return infra.WrapRepoErr("failed to encode booking snapshot", err)
	}

	in := rowInput{snap: rec, blob: blob, now: w.clock.Now()}

	if err := w.exec(ctx, table, cols, in, false); err != nil {
		if !isUndefinedColumn(err) {
			return infra.WrapRepoErr("failed to upsert archived booking", err)
		}
		// The target table predates the extended column set and healing it
		// failed; the reduced legacy statement still makes forward progress.
		w.logger.Warn("falling back to legacy archive statement",
			"table", table, "booking_id", rec.BookingID)
		if err := w.exec(ctx, table, cols, in, true); err != nil {
			return infra.WrapRepoErr("failed legacy upsert of archived booking", err)
		}
	}

	return nil
}

func (w *Writer) exec(ctx context.Context, table string, cols []columnSpec, in rowInput, legacyOnly bool) error {
	names := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols))
	for _, col := range cols {
		if legacyOnly && !col.legacy {
			continue
		}
		names = append(names, col.name)
		args = append(args, col.value(in))
	}

	_, err := w.db.Exec(ctx, upsertSQL(table, names), args...)
	return err
}

// upsertSQL builds the parameterized insert with on-conflict-update keyed by
// booking_id, in the pack's EXCLUDED.* idiom.
func upsertSQL(table string, names []string) string {
	placeholders := make([]string, len(names))
	updates := make([]string, 0, len(names))
	for i, name := range names {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		if name == "booking_id" {
			continue
		}
		updates = append(updates, name+" = EXCLUDED."+name)
	}

	return "INSERT INTO " + table + " (" + strings.Join(names, ", ") + ")" +
		" VALUES (" + strings.Join(placeholders, ", ") + ")" +
		" ON CONFLICT (booking_id) DO UPDATE SET " + strings.Join(updates, ", ")
}

func isUndefinedColumn(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42703"
}

package commands

import (
	"context"
	"errors"
	"log/slog"

	"theater-booking-api/internal/domain/booking"
	"theater-booking-api/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrArchiveFailed           = errs.New("archival write failed")
	ErrOperationalDeleteFailed = errs.New("operational delete failed")
)

// ArchiveWriter is the upsert side of the archival store.
type ArchiveWriter interface {
	ArchiveCancelled(ctx context.Context, snap booking.Snapshot) error
	ArchiveCompleted(ctx context.Context, snap booking.Snapshot) error
}

// OperationalBookings removes the live document from the primary store.
type OperationalBookings interface {
	Delete(ctx context.Context, bookingID, mongoID string) error
}

type ArchiveCommands interface {
	ArchiveCancelled(ctx context.Context, snap booking.Snapshot) error
	ArchiveCompleted(ctx context.Context, snap booking.Snapshot) error
}

type archiveCommandsImpl struct {
	writer      ArchiveWriter
	operational OperationalBookings
	logger      *slog.Logger
}

func NewArchiveCommands(writer ArchiveWriter, operational OperationalBookings, logger *slog.Logger) ArchiveCommands {
	return &archiveCommandsImpl{
		writer:      writer,
		operational: operational,
		logger:      logger,
	}
}

// ArchiveCancelled writes the archival row and then removes the live
// document. The operational record is never deleted before the upsert has
// succeeded; a failed archival leaves the booking in place so the transition
// can be retried. Cancel and complete share this policy.
func (u *archiveCommandsImpl) ArchiveCancelled(ctx context.Context, snap booking.Snapshot) error {
	return u.archive(ctx, snap, u.writer.ArchiveCancelled)
}

// ArchiveCompleted behaves exactly like ArchiveCancelled against the
// completed table.
func (u *archiveCommandsImpl) ArchiveCompleted(ctx context.Context, snap booking.Snapshot) error {
	return u.archive(ctx, snap, u.writer.ArchiveCompleted)
}

func (u *archiveCommandsImpl) archive(ctx context.Context, snap booking.Snapshot, write func(context.Context, booking.Snapshot) error) error {
	if err := u.writeWithRetry(ctx, snap, write); err != nil {
		return errs.Mark(err, ErrArchiveFailed)
	}

	if err := u.operational.Delete(ctx, snap.BookingID, snap.MongoID); err != nil {
		// The archival row exists; the live document stays behind until the
		// transition is retried, which the upsert keying makes harmless.
		u.logger.Error("archived booking but failed to delete operational record",
			"booking_id", snap.BookingID, "error", err.Error())
		return errs.Mark(err, ErrOperationalDeleteFailed)
	}

	return nil
}

// writeWithRetry retries exactly once, and only on the narrow transient
// class: a retry on anything else would just repeat a deterministic failure.
func (u *archiveCommandsImpl) writeWithRetry(ctx context.Context, snap booking.Snapshot, write func(context.Context, booking.Snapshot) error) error {
	err := write(ctx, snap)
	if err == nil || !isTransient(err) {
		return err
	}

	u.logger.Warn("transient archival failure, retrying once",
		"booking_id", snap.BookingID, "error", err.Error())
	return write(ctx, snap)
}

func isTransient(err error) bool {
	if pgconn.SafeToRetry(err) {
		return true
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	// connection_exception family plus admin shutdown
	case "08000", "08001", "08003", "08006", "57P01":
		return true
	}
	return false
}

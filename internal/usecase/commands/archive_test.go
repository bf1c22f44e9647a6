//go:build unit

package commands_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"theater-booking-api/internal/domain/booking"
	"theater-booking-api/internal/usecase/commands"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	calls int
	errs  []error
}

func (f *fakeWriter) ArchiveCancelled(context.Context, booking.Snapshot) error {
	return f.next()
}

func (f *fakeWriter) ArchiveCompleted(context.Context, booking.Snapshot) error {
	return f.next()
}

func (f *fakeWriter) next() error {
	f.calls++
	if len(f.errs) == 0 {
		return nil
	}
	err := f.errs[0]
	f.errs = f.errs[1:]
	return err
}

type fakeOperational struct {
	deleted [][2]string
	err     error
}

func (f *fakeOperational) Delete(_ context.Context, bookingID, mongoID string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, [2]string{bookingID, mongoID})
	return nil
}

func newCommands(w *fakeWriter, op *fakeOperational) commands.ArchiveCommands {
	return commands.NewArchiveCommands(w, op, slog.Default())
}

func TestArchiveCancelled_DeletesAfterArchive(t *testing.T) {
	writer := &fakeWriter{}
	operational := &fakeOperational{}

	snap := booking.Snapshot{BookingID: "B100", MongoID: "66f1a2"}
	require.NoError(t, newCommands(writer, operational).ArchiveCancelled(context.Background(), snap))

	assert.Equal(t, 1, writer.calls)
	assert.Equal(t, [][2]string{{"B100", "66f1a2"}}, operational.deleted)
}

// Both transitions refuse to delete the live document until the archival
// upsert has succeeded.
func TestArchive_FailedArchiveBlocksDelete(t *testing.T) {
	boom := errors.New("store down")

	for _, run := range []func(commands.ArchiveCommands, context.Context, booking.Snapshot) error{
		commands.ArchiveCommands.ArchiveCancelled,
		commands.ArchiveCommands.ArchiveCompleted,
	} {
		writer := &fakeWriter{errs: []error{boom}}
		operational := &fakeOperational{}

		err := run(newCommands(writer, operational), context.Background(), booking.Snapshot{BookingID: "B100"})
		require.Error(t, err)
		assert.ErrorIs(t, err, commands.ErrArchiveFailed)
		assert.Empty(t, operational.deleted)
	}
}

func TestArchive_TransientErrorRetriedOnce(t *testing.T) {
	transient := &pgconn.PgError{Code: "08006"}
	writer := &fakeWriter{errs: []error{transient}}
	operational := &fakeOperational{}

	require.NoError(t, newCommands(writer, operational).ArchiveCompleted(context.Background(), booking.Snapshot{BookingID: "B100"}))
	assert.Equal(t, 2, writer.calls)
	assert.Len(t, operational.deleted, 1)
}

func TestArchive_TransientErrorNotRetriedTwice(t *testing.T) {
	transient := &pgconn.PgError{Code: "08006"}
	writer := &fakeWriter{errs: []error{transient, transient}}
	operational := &fakeOperational{}

	err := newCommands(writer, operational).ArchiveCancelled(context.Background(), booking.Snapshot{BookingID: "B100"})
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrArchiveFailed)
	assert.Equal(t, 2, writer.calls)
	assert.Empty(t, operational.deleted)
}

func TestArchive_DeterministicErrorNotRetried(t *testing.T) {
	writer := &fakeWriter{errs: []error{&pgconn.PgError{Code: "23502"}}}
	operational := &fakeOperational{}

	err := newCommands(writer, operational).ArchiveCancelled(context.Background(), booking.Snapshot{BookingID: "B100"})
	require.Error(t, err)
	assert.Equal(t, 1, writer.calls)
}

func TestArchive_DeleteFailureIsMarked(t *testing.T) {
	writer := &fakeWriter{}
	operational := &fakeOperational{err: errors.New("mongo unreachable")}

	err := newCommands(writer, operational).ArchiveCancelled(context.Background(), booking.Snapshot{BookingID: "B100"})
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrOperationalDeleteFailed)
	assert.Equal(t, 1, writer.calls, "archival row was written")
}

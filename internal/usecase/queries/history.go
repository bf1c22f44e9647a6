package queries

import (
	"context"
	"time"

	"theater-booking-api/internal/infra/archivestore"
	"theater-booking-api/internal/pkg/errs"
)

var (
	ErrUnknownTable     = errs.New("unknown archive table")
	ErrInvalidDateRange = errs.New("invalid date range")
)

const dateLayout = "2006-01-02"

// ArchiveReader is the read side of the archival store.
type ArchiveReader interface {
	QueryArchived(ctx context.Context, table string, from, to time.Time) ([]archivestore.Record, error)
}

type HistoryQueries interface {
	Archived(ctx context.Context, table, from, to string) ([]archivestore.Record, error)
}

type historyQueriesImpl struct {
	reader ArchiveReader
}

func NewHistoryQueries(reader ArchiveReader) HistoryQueries {
	return &historyQueriesImpl{reader: reader}
}

// Archived reads rows for [from 00:00:00, to 23:59:59] inclusive. The table
// argument is the public name ("cancelled"/"completed"), mapped onto the
// stored table.
func (q *historyQueriesImpl) Archived(ctx context.Context, table, from, to string) ([]archivestore.Record, error) {
	storeTable, err := resolveTable(table)
	if err != nil {
		return nil, err
	}

	start, end, err := DayRange(from, to)
	if err != nil {
		return nil, err
	}

	return q.reader.QueryArchived(ctx, storeTable, start, end)
}

func resolveTable(table string) (string, error) {
	switch table {
	case "cancelled", archivestore.TableCancelled:
		return archivestore.TableCancelled, nil
	case "completed", archivestore.TableCompleted:
		return archivestore.TableCompleted, nil
	default:
		return "", errs.Mark(errs.Newf("table %q", table), ErrUnknownTable)
	}
}

// DayRange expands two calendar dates into the inclusive timestamp window
// [from 00:00:00, to 23:59:59].
func DayRange(from, to string) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, from)
	if err != nil {
		return time.Time{}, time.Time{}, errs.Mark(err, ErrInvalidDateRange)
	}
	end, err := time.Parse(dateLayout, to)
	if err != nil {
		return time.Time{}, time.Time{}, errs.Mark(err, ErrInvalidDateRange)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, errs.Mark(errs.New("end before start"), ErrInvalidDateRange)
	}

	return start, end.Add(24*time.Hour - time.Second), nil
}

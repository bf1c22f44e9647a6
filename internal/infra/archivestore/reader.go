package archivestore

import (
	"context"
	"log/slog"
	"time"

	"theater-booking-api/internal/infra"
	"theater-booking-api/internal/infra/db"
	"theater-booking-api/internal/pkg/codec"
	"theater-booking-api/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgtype"
)

// Record is one flat archived row for reporting callers: column values plus
// anything recovered from the stored snapshot blob.
type Record map[string]any

type Reader struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewReader(dbtx db.DBTX, logger *slog.Logger) *Reader {
	return &Reader{db: dbtx, logger: logger}
}

// QueryArchived returns rows whose archival timestamp falls in [from, to]
// inclusive, newest first. Cancelled rows get their snapshot blob decoded and
// any nested original booking flattened underneath the row's own columns.
func (r *Reader) QueryArchived(ctx context.Context, table string, from, to time.Time) ([]Record, error) {
	if table != TableCancelled && table != TableCompleted {
		return nil, infra.WrapRepoErr("unknown archival table", errs.Newf("table %q is not queryable", table), infra.KindNotFound)
	}

	rows, err := r.db.Query(ctx,
		"SELECT * FROM "+table+" WHERE archived_at BETWEEN $1 AND $2 ORDER BY archived_at DESC",
		from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query archived bookings", err)
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	records := make([]Record, 0, 16)

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, infra.WrapRepoErr("failed to read archived row", err)
		}

		rec := make(Record, len(fds))
		for i, fd := range fds {
			rec[fd.Name] = normalizeValue(values[i])
		}

		if table == TableCancelled {
			r.restoreSnapshot(rec)
		}

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate archived rows", err)
	}

	return records, nil
}

// restoreSnapshot decodes the raw blob and re-flattens a nested original
// booking under the row, so callers get one complete record no matter how
// deeply the stored snapshot was nested. Decode failures leave the row's own
// columns untouched.
func (r *Reader) restoreSnapshot(rec Record) {
	token, ok := rec["raw_payload"].(string)
	if !ok || token == "" {
		return
	}

	var payload map[string]any
	if err := codec.Decode(token, &payload); err != nil {
		r.logger.Warn("failed to decode archived snapshot", "booking_id", rec["booking_id"], "error", err.Error())
		return
	}

	original, ok := payload["_originalBooking"].(map[string]any)
	if !ok {
		return
	}
	flattenOriginal(rec, original)
}

// flattenOriginal merges the original booking's fields into the record. The
// row's own columns win; the original only fills keys that are absent or
// null.
func flattenOriginal(rec Record, original map[string]any) {
	for key, value := range original {
		if key == "_originalBooking" {
			// One level is as deep as producers ever nest, but be safe.
			if nested, ok := value.(map[string]any); ok {
				flattenOriginal(rec, nested)
			}
			continue
		}
		if existing, present := rec[key]; !present || existing == nil {
			rec[key] = value
		}
	}
}

func normalizeValue(v any) any {
	switch n := v.(type) {
	case pgtype.Numeric:
		if !n.Valid {
			return nil
		}
		f, err := n.Float64Value()
		if err != nil {
			return nil
		}
		return f.Float64
	default:
		return v
	}
}

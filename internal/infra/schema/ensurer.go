// Package schema self-heals the archival tables. The tables evolved over
// several deployments without a migration tool; instead, on first touch per
// process, each table is brought up to the current column set with additive
// DDL. A table created by an older code path keeps working: failed additions
// degrade writes to the legacy column set, they never block archival.
package schema

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"theater-booking-api/internal/infra"
	"theater-booking-api/internal/infra/db"
	"theater-booking-api/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
)

// Outcome tells callers apart "fine" from "degraded" explicitly instead of
// making them match on swallowed error codes.
type Outcome int

const (
	OutcomeApplied Outcome = iota
	OutcomeAlreadyEnsured
	OutcomeDegraded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeAlreadyEnsured:
		return "already_ensured"
	case OutcomeDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// Column is one additive column introduced after the table's original
// creation.
type Column struct {
	Name string
	DDL  string
}

// Table describes a self-healing table: its base create statement (the
// legacy column set) plus the columns added since.
type Table struct {
	Name      string
	CreateSQL string
	Extended  []Column
}

// Ensurer caches per-table ensure state for the process lifetime. It is owned
// by the fx graph, not module-level state, so tests construct their own. A
// failed ensure is not cached; the next archival call retries it.
type Ensurer struct {
	db     db.DBTX
	logger *slog.Logger

	mu      sync.Mutex
	tables  map[string]Table
	ensured map[string]bool
}

func NewEnsurer(dbtx db.DBTX, logger *slog.Logger, tables []Table) *Ensurer {
	byName := make(map[string]Table, len(tables))
	for _, t := range tables {
		byName[t.Name] = t
	}
	return &Ensurer{
		db:      dbtx,
		logger:  logger,
		tables:  byName,
		ensured: make(map[string]bool),
	}
}

// Ensure is idempotent. "Column already exists" is the expected steady-state
// result and is swallowed; any other DDL failure is logged and reported as
// OutcomeDegraded without failing the archival call.
func (e *Ensurer) Ensure(ctx context.Context, table string) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ensured[table] {
		return OutcomeAlreadyEnsured, nil
	}

	spec, ok := e.tables[table]
	if !ok {
		return OutcomeDegraded, infra.WrapRepoErr("unknown archival table", errs.Newf("no schema registered for %q", table), infra.KindSchemaDegraded)
	}

	degraded := false

	if _, err := e.db.Exec(ctx, spec.CreateSQL); err != nil {
		e.logger.Warn("archive table create failed",
			"table", table, "error", err.Error())
		degraded = true
	}

	for _, col := range spec.Extended {
		stmt := "ALTER TABLE " + spec.Name + " ADD COLUMN IF NOT EXISTS " + col.Name + " " + col.DDL
		if _, err := e.db.Exec(ctx, stmt); err != nil {
			if isDuplicateColumn(err) {
				continue
			}
			e.logger.Warn("archive column add failed",
				"table", table, "column", col.Name, "error", err.Error())
			degraded = true
		}
	}

	if degraded {
		return OutcomeDegraded, nil
	}

	e.ensured[table] = true
	return OutcomeApplied, nil
}

func isDuplicateColumn(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42701"
}

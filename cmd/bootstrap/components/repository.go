package components

import (
	"log/slog"

	"theater-booking-api/internal/infra/archivestore"
	"theater-booking-api/internal/infra/db"
	"theater-booking-api/internal/infra/operational"
	"theater-booking-api/internal/infra/schema"
	"theater-booking-api/internal/usecase/commands"
	"theater-booking-api/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		NewSchemaEnsurer,
		fx.Annotate(
			archivestore.NewWriter,
			fx.As(new(commands.ArchiveWriter)),
		),
		fx.Annotate(
			archivestore.NewReader,
			fx.As(new(queries.ArchiveReader)),
		),
		fx.Annotate(
			archivestore.NewFeedbackStore,
			fx.As(new(commands.FeedbackStore)),
		),
		fx.Annotate(
			operational.NewBookingDeleter,
			fx.As(new(commands.OperationalBookings)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

func NewSchemaEnsurer(dbtx db.DBTX, logger *slog.Logger) *schema.Ensurer {
	return schema.NewEnsurer(dbtx, logger, archivestore.Tables())
}

package components

import (
	"vintour/internal/infra/db"
	"vintour/internal/infra/readstore"
	"vintour/internal/infra/repository"
	"vintour/internal/infra/uow"
	"vintour/internal/usecase/queries"
	"vintour/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	repositoryModule,
)

var baseOption = fx.Provide(
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// Vehicle
		fx.Annotate(
			readstore.NewVehicleReadStore,
			fx.As(new(queries.VehicleReads)),
		),
		// Block
		fx.Annotate(
			readstore.NewBlockReadStore,
			fx.As(new(queries.BlockReads)),
		),
		// Booking
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReads)),
		),
	),
)

// Pool-backed ports. The transactional repositories are built inside the
// unit of work from the transaction handle, so only the ports that must
// run outside a booking transaction are wired here.
var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		uow.NewPostgresUoW,
		// Blocks: holds are claimed and released outside the transaction
		// so the exclusion constraint serializes competing requests early.
		fx.Annotate(
			repository.NewBlockRepository,
			fx.As(new(shared.BlockStore)),
		),
		// Idempotency: TryInsert must commit independently of the booking
		// transaction for a concurrent duplicate to observe the claim.
		fx.Annotate(
			repository.NewIdempotencyRepository,
			fx.As(new(shared.IdempotencyStore)),
		),
		// Customer stats run post-commit, best effort.
		fx.Annotate(
			repository.NewCustomerRepository,
			fx.As(new(shared.CustomerStats)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

package components

import (
	"hostpanel/internal/infra/audit"
	"hostpanel/internal/infra/db"
	"hostpanel/internal/infra/gateway"
	"hostpanel/internal/infra/provision"
	"hostpanel/internal/infra/readstore"
	repo_impl "hostpanel/internal/infra/repository"
	"hostpanel/internal/infra/uow"
	"hostpanel/internal/pkg/config"
	"hostpanel/internal/usecase/commands"
	"hostpanel/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		uow.NewPostgresTxManager,
		fx.Annotate(
			repo_impl.NewUserRepository,
			fx.As(new(commands.UserRepository)),
		),
		fx.Annotate(
			repo_impl.NewPlanRepository,
			fx.As(new(commands.PlanRepository)),
		),
		fx.Annotate(
			repo_impl.NewCouponRepository,
			fx.As(new(commands.CouponRepository)),
		),
		fx.Annotate(
			repo_impl.NewGiftCodeRepository,
			fx.As(new(commands.GiftCodeRepository)),
		),
		fx.Annotate(
			repo_impl.NewPaymentRepository,
			fx.As(new(commands.PaymentRepository)),
		),
		fx.Annotate(
			repo_impl.NewUserPlanRepository,
			fx.As(new(commands.UserPlanRepository)),
		),
		fx.Annotate(
			gateway.NewHTTPGateway,
			fx.As(new(commands.PaymentGateway)),
		),
		fx.Annotate(
			audit.NewPostgresRecorder,
			fx.As(new(commands.AuditRecorder)),
		),
		NewProvisioner,
		// Read-side stores for queries
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserReadStore)),
		),
		fx.Annotate(
			readstore.NewEntitlementReadStore,
			fx.As(new(queries.EntitlementReadStore)),
		),
		fx.Annotate(
			readstore.NewPlanReadStore,
			fx.As(new(queries.PlanReadStore)),
		),
		fx.Annotate(
			readstore.NewPaymentReadStore,
			fx.As(new(queries.PaymentReadStore)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

// NewProvisioner picks the panel client when one is configured, otherwise a
// noop so local setups run without a panel.
func NewProvisioner(cfg config.ProvisionConfig) commands.Provisioner {
	if cfg.BaseURL == "" {
		return provision.NoopProvisioner{}
	}
	return provision.NewPanelClient(cfg)
}

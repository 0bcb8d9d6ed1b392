package components

import (
	"stayhub/internal/infra/gateway"
	"stayhub/internal/pkg/clock"
	"stayhub/internal/pkg/config"
	"stayhub/internal/usecase/commands"
	"stayhub/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		func(cfg config.Config) commands.SignatureVerifier {
			return gateway.NewHMACVerifier(cfg.Gateway)
		},
		commands.NewBookingCommands,
		commands.NewPaymentCommands,
		commands.NewWalletCommands,
		queries.NewBookingQueries,
		queries.NewWalletQueries,
	),
)

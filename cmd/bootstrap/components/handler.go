package components

import (
	"hostpanel/internal/handler"
	"hostpanel/internal/handler/api"
	"hostpanel/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewPurchaseHandler,
		api.NewGiftHandler,
		api.NewEntitlementHandler,
		middleware.NewAuthMiddleware,
		middleware.NewRateLimiter,
	),
	fx.Invoke(handler.NewRouter),
)

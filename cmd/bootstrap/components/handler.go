package components

import (
	"theater-booking-api/internal/handler"
	"theater-booking-api/internal/handler/api"
	"theater-booking-api/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewArchiveHandler,
		api.NewHistoryHandler,
		api.NewFeedbackHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)

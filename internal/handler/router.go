package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"theater-booking-api/internal/handler/api"
	"theater-booking-api/internal/handler/middleware"
	"theater-booking-api/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	authHandler *api.AuthHandler,
	archiveHandler *api.ArchiveHandler,
	historyHandler *api.HistoryHandler,
	feedbackHandler *api.FeedbackHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, authHandler, archiveHandler, historyHandler, feedbackHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	authHandler *api.AuthHandler,
	archiveHandler *api.ArchiveHandler,
	historyHandler *api.HistoryHandler,
	feedbackHandler *api.FeedbackHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
			})
		}

		archive := apiGroup.Group("/archive")
		archive.Use(authMiddleware.RequireAuth())
		{
			addRoutes(archive, []route{
				{Method: http.MethodPost, Path: "/cancelled", Handler: archiveHandler.ArchiveCancelled},
				{Method: http.MethodPost, Path: "/completed", Handler: archiveHandler.ArchiveCompleted},
				{Method: http.MethodGet, Path: "/:table/history", Handler: historyHandler.GetHistory},
			})
		}

		feedback := apiGroup.Group("/feedback")
		feedback.Use(authMiddleware.RequireAuth())
		{
			addRoutes(feedback, []route{
				{Method: http.MethodPost, Path: "", Handler: feedbackHandler.Upsert},
				{Method: http.MethodPatch, Path: "/:id", Handler: feedbackHandler.Update},
				{Method: http.MethodDelete, Path: "/:id", Handler: feedbackHandler.Delete},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		}
	}
}

func chainHandlers(handlers ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range handlers {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}

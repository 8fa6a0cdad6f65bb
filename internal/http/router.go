package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/beacon/backend/internal/config"
	"github.com/beacon/backend/internal/http/handlers"
	"github.com/beacon/backend/internal/http/middleware"
	"github.com/beacon/backend/internal/metrics"
	"github.com/beacon/backend/internal/observability"
	"github.com/beacon/backend/internal/pipeline"
	"github.com/beacon/backend/internal/service"
	"github.com/beacon/backend/internal/store"

	_ "github.com/beacon/backend/docs"
)

func Router(cfg config.Config, st store.Store, queue service.Enqueuer, m *metrics.Collector, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	if cfg.OtelEnabled {
		r.Use(otelgin.Middleware(observability.ServiceName))
	}
	r.Use(m.Middleware())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Key", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if origins := cfg.CORSOrigins(); len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = origins
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store:       st,
		Cases:       &service.CaseService{Store: st, Pipeline: queue, Metrics: m, Logger: logger},
		Assignments: &service.AssignmentService{Store: st, Pipeline: queue, Metrics: m, Logger: logger},
		Guides:      &service.GuideService{Store: st},
		Messages:    &service.MessageService{Store: st},
		Proximity:   &service.ProximityService{Store: st},
		Users:       &service.UserService{Store: st},
		Validator:   validator.New(),
		Logger:      logger,
	}

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	api := r.Group("/api")
	api.Use(middleware.Timeout(cfg.RequestTimeout))
	{
		api.POST("/users/location", h.UpsertLocation)
		api.GET("/users/:id", h.GetUser)
		api.GET("/users/:id/locations", h.LocationHistory)
		api.GET("/helpers/nearby", h.NearbyHelpers)

		api.POST("/cases", h.CreateCase)
		api.GET("/cases/nearby", h.NearbyCases)
		api.GET("/cases/:id", h.GetCase)
		api.GET("/cases/:id/history", h.CaseHistory)
		api.POST("/cases/:id/status", h.TransitionCase)
		api.GET("/cases/:id/route", h.CaseRoute)
		api.GET("/cases/:id/guide", h.CaseGuide)
		api.GET("/cases/:id/assignments", h.ListCaseAssignments)

		api.POST("/assignments", h.ClaimCase)
		api.GET("/assignments", h.ListHelperAssignments)
		api.GET("/assignments/:id", h.GetAssignment)
		api.POST("/assignments/:id/start", h.StartAssignment)
		api.POST("/assignments/:id/complete", h.CompleteAssignment)
		api.GET("/assignments/:id/guide", h.AssignmentGuide)
		api.POST("/assignments/:id/messages", h.SendMessage)
		api.GET("/assignments/:id/messages", h.MessageHistory)
		api.GET("/assignments/:id/messages/unread", h.UnreadMessages)
		api.GET("/assignments/:id/messages/latest-question", h.LatestQuestion)
		api.POST("/messages/read", h.MarkMessagesRead)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AdminKey(cfg.AdminKey, logger))
	{
		admin.POST("/cases/:id/reprocess", h.ReprocessCase)
		admin.PUT("/cases/:id/guide", h.SaveCaseGuide)
		admin.POST("/assignments/:id/reprocess", h.ReprocessAssignment)
		admin.PUT("/assignments/:id/guide", h.SaveAssignmentGuide)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

var _ service.Enqueuer = (*pipeline.Queue)(nil)

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/nexplan/nexplan-api/api/swagger"
	"github.com/nexplan/nexplan-api/internal/extract"
	"github.com/nexplan/nexplan-api/internal/handler"
	"github.com/nexplan/nexplan-api/internal/middleware"
	"github.com/nexplan/nexplan-api/internal/repository"
	"github.com/nexplan/nexplan-api/internal/service"
	"github.com/nexplan/nexplan-api/pkg/config"
	"github.com/nexplan/nexplan-api/pkg/logger"
	corsmiddleware "github.com/nexplan/nexplan-api/pkg/middleware/cors"
	reqidmiddleware "github.com/nexplan/nexplan-api/pkg/middleware/requestid"
	"github.com/nexplan/nexplan-api/pkg/response"
)

// @title NexPlan API
// @version 1.0.0
// @description Personal calendar with AI-assisted event extraction
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	store := repository.NewEventRepository()
	validate := validator.New()
	metricsSvc := service.NewMetricsService(store.Len)

	extractor, err := extract.NewGeminiClient(cfg.Gemini.APIKey,
		extract.WithModel(cfg.Gemini.Model),
		extract.WithBaseURL(cfg.Gemini.BaseURL),
		extract.WithTimeout(cfg.Gemini.Timeout),
		extract.WithLogger(logr))
	if err != nil {
		log.Fatalf("failed to init extraction client: %v", err)
	}

	eventSvc := service.NewEventService(store, validate, logr)
	assistantSvc := service.NewAssistantService(store, extractor, logr, metricsSvc, service.AssistantOptions{
		MaxAttachmentBytes: cfg.Assistant.MaxAttachmentBytes,
		AllowedMIMEs:       cfg.Assistant.AllowedMIMEs,
	})

	var importSvc *service.ImportService
	if cfg.Import.Enabled {
		importSvc = service.NewImportService(store, cfg.Import.Delay, logr)
		importSvc.Start(context.Background())
		defer importSvc.Stop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	metricsHandler := handler.NewMetricsHandler(metricsSvc)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	eventHandler := handler.NewEventHandler(eventSvc)
	api.GET("/events", eventHandler.List)
	api.POST("/events", eventHandler.Create)
	api.GET("/events/conflicts", eventHandler.Conflicts)
	api.GET("/events/:id", eventHandler.Get)
	api.PUT("/events/:id", eventHandler.Update)
	api.DELETE("/events/:id", eventHandler.Delete)
	api.POST("/events/:id/move", eventHandler.Move)

	calendarHandler := handler.NewCalendarHandler()
	api.GET("/calendar/navigate", calendarHandler.Navigate)

	assistantHandler := handler.NewAssistantHandler(assistantSvc)
	api.POST("/assistant/submissions", assistantHandler.Submit)
	api.GET("/assistant/session", assistantHandler.Session)
	api.DELETE("/assistant/session", assistantHandler.Discard)
	api.PATCH("/assistant/drafts/:index", assistantHandler.EditDraft)
	api.DELETE("/assistant/drafts/:index", assistantHandler.RemoveDraft)
	api.POST("/assistant/confirm", assistantHandler.Confirm)

	if importSvc != nil {
		importHandler := handler.NewImportHandler(importSvc)
		api.POST("/imports/classroom", importHandler.Trigger)
	}

	if cfg.Export.Enabled {
		exportHandler := handler.NewExportHandler(service.NewExportService(store, logr))
		api.GET("/export/agenda.ics", exportHandler.ICS)
		api.GET("/export/agenda.csv", exportHandler.CSV)
		api.GET("/export/agenda.pdf", exportHandler.PDF)
	}

	r.NoRoute(func(c *gin.Context) {
		response.JSON(c, http.StatusNotFound, gin.H{"message": "route not found"})
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

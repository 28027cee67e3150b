// Package router wires middleware and endpoint handlers onto a gin engine.
package router

import (
	swaggerfiles "github.com/swaggo/files"
	ginswagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/billie-crm/backend/internal/infrastructure/auth"
	"github.com/billie-crm/backend/internal/infrastructure/config"
	"github.com/billie-crm/backend/internal/infrastructure/logger"
	"github.com/billie-crm/backend/internal/infrastructure/telemetry"
	"github.com/billie-crm/backend/internal/interfaces/http/handler"
	"github.com/billie-crm/backend/internal/interfaces/http/middleware"
)

// Handlers groups the endpoint handlers the router registers
type Handlers struct {
	Ledger        *handler.LedgerHandler
	Investigation *handler.InvestigationHandler
	PeriodClose   *handler.PeriodCloseHandler
	WriteOff      *handler.WriteOffHandler
	ECLConfig     *handler.ECLConfigHandler
	Export        *handler.ExportHandler
	System        *handler.SystemHandler
}

// Router assembles the HTTP surface of the gateway
type Router struct {
	cfg      *config.Config
	logger   *zap.Logger
	handlers Handlers
	meters   *telemetry.MeterProvider
}

// New creates a router. meters may be nil when metrics are disabled.
func New(cfg *config.Config, log *zap.Logger, handlers Handlers, meters *telemetry.MeterProvider) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{cfg: cfg, logger: log, handlers: handlers, meters: meters}
}

// Setup installs middleware and registers every route on the engine
func (r *Router) Setup(engine *gin.Engine) {
	middleware.SetupValidator()

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(r.logger))
	engine.Use(logger.Recovery(r.logger))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(r.corsConfig()))

	if r.cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: r.cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
	}
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: r.meters,
		ServiceName:   r.cfg.Telemetry.ServiceName,
		Enabled:       r.meters != nil,
	}))

	if r.cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(r.cfg.HTTP.MaxBodySize))
	}
	if r.cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(r.cfg.HTTP.RateLimitRequests, r.cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	authMW := r.authMiddleware()
	engine.Use(authMW)

	engine.GET("/healthz", r.handlers.System.Healthz)
	engine.GET("/readyz", r.handlers.System.Readyz)

	r.registerSwagger(engine, authMW)

	api := engine.Group("/api")
	r.registerLedgerRoutes(api)
	r.registerInvestigationRoutes(api)
	r.registerPeriodCloseRoutes(api)
	r.registerWriteOffRoutes(api)
	r.registerECLConfigRoutes(api)
	r.registerExportRoutes(api)
	r.registerSystemRoutes(api)
}

func (r *Router) authMiddleware() gin.HandlerFunc {
	authCfg := middleware.DefaultAuthConfig(auth.NewTokenVerifier(r.cfg.Auth))
	authCfg.APIKeys = auth.NewAPIKeyVerifier(r.cfg.Auth.APIKeyHashes)
	authCfg.Logger = r.logger
	return middleware.RequireAuth(authCfg)
}

func (r *Router) corsConfig() middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	if len(r.cfg.HTTP.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = r.cfg.HTTP.CORSAllowOrigins
	}
	if len(r.cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = r.cfg.HTTP.CORSAllowMethods
	}
	if len(r.cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = r.cfg.HTTP.CORSAllowHeaders
	}
	return cors
}

func (r *Router) registerSwagger(engine *gin.Engine, authMW gin.HandlerFunc) {
	swaggerCfg := middleware.SwaggerConfig{
		Enabled:     r.cfg.Swagger.Enabled,
		RequireAuth: r.cfg.Swagger.RequireAuth,
		AllowedIPs:  r.cfg.Swagger.AllowedIPs,
	}
	docs := engine.Group("/swagger")
	docs.Use(middleware.SwaggerProtection(swaggerCfg, authMW))
	docs.GET("/*any", ginswagger.WrapHandler(swaggerfiles.Handler))
}

func (r *Router) registerLedgerRoutes(api *gin.RouterGroup) {
	ledger := api.Group("/ledger")
	// the portfolio summary route must come before the accountId wildcard
	ledger.GET("/ecl/portfolio", r.handlers.Ledger.GetPortfolioECL)
	ledger.GET("/ecl/:accountId", r.handlers.Ledger.GetECL)
	ledger.GET("/accrual/:accountId", r.handlers.Ledger.GetAccrual)
	ledger.GET("/schedule/:accountId", r.handlers.Ledger.GetSchedule)
}

func (r *Router) registerInvestigationRoutes(api *gin.RouterGroup) {
	inv := api.Group("/investigation")
	inv.GET("/search", r.handlers.Investigation.Search)
	inv.POST("/sample", r.handlers.Investigation.Sample)
	inv.GET("/trace/ecl/:accountId", r.handlers.Investigation.TraceECL)
	inv.GET("/trace/accrual/:accountId", r.handlers.Investigation.TraceAccrual)
}

func (r *Router) registerPeriodCloseRoutes(api *gin.RouterGroup) {
	pc := api.Group("/period-close")
	pc.POST("/preview", r.handlers.PeriodClose.Preview)
	pc.POST("/acknowledge-anomaly", r.handlers.PeriodClose.Acknowledge)
	pc.POST("/finalize", r.handlers.PeriodClose.Finalize)
	pc.GET("/history", r.handlers.PeriodClose.History)
	pc.GET("/:periodDate", r.handlers.PeriodClose.Get)
	pc.GET("/:periodDate/report", r.handlers.PeriodClose.Report)
}

func (r *Router) registerWriteOffRoutes(api *gin.RouterGroup) {
	wo := api.Group("/write-off")
	wo.POST("/cancel", r.handlers.WriteOff.Cancel)
	wo.GET("/requests/:requestId", r.handlers.WriteOff.RequestStatus)
}

func (r *Router) registerECLConfigRoutes(api *gin.RouterGroup) {
	ecl := api.Group("/ecl-config")
	ecl.GET("/pending/:changeId", r.handlers.ECLConfig.GetPending)
	ecl.DELETE("/pending/:changeId", r.handlers.ECLConfig.CancelPending)
}

func (r *Router) registerExportRoutes(api *gin.RouterGroup) {
	exp := api.Group("/export")
	exp.GET("/jobs/:jobId", r.handlers.Export.Status)
	exp.POST("/jobs/:jobId/retry", r.handlers.Export.Retry)
	exp.GET("/jobs/:jobId/result", r.handlers.Export.Result)
}

func (r *Router) registerSystemRoutes(api *gin.RouterGroup) {
	sys := api.Group("/system")
	sys.GET("/status", r.handlers.System.Status)
}

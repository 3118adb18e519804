package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/gigboard/internal/server/handlers"
	"github.com/mamadbah2/gigboard/pkg/metrics"
)

const requestIDHeader = "X-Request-ID"

// Handlers groups the HTTP handler adapters mounted on the engine.
type Handlers struct {
	Gigs     *handlers.GigHandler
	Visuals  *handlers.VisualsHandler
	Decision *handlers.DecisionHandler
	Reports  *handlers.ReportHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, m *metrics.Manager, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(metricsMiddleware(m))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	r.POST("/gigs", h.Gigs.Create)
	r.GET("/gigs", h.Gigs.List)
	r.POST("/gigs/refresh", h.Gigs.Refresh)
	r.GET("/gigs/categories", h.Gigs.Categories)

	r.GET("/visuals/revenue", h.Visuals.Revenue)
	r.GET("/visuals/hourly", h.Visuals.Hourly)
	r.GET("/visuals/audience", h.Visuals.Audience)
	r.GET("/baseline", h.Visuals.Baseline)

	r.POST("/decision/evaluate", h.Decision.Evaluate)
	r.GET("/decision/policy", h.Decision.Policy)

	r.POST("/reports/weekly", h.Reports.Publish)
	r.GET("/reports/weekly", h.Reports.Latest)

	logger.Info("router initialized")
	return r
}

// requestIDMiddleware keeps a caller supplied request id or mints one.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString("request_id")))
	}
}

// metricsMiddleware labels requests by route template so ids in paths don't
// explode cardinality.
func metricsMiddleware(m *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"sentinel/internal/metrics"
	"sentinel/internal/service"
)

// Server exposes the scan service over HTTP.
type Server struct {
	svc *service.ScanService
	log *logrus.Entry
}

// NewRouter constructs a Gin engine with registered routes. A nil gatherer
// leaves /metrics unregistered.
func NewRouter(svc *service.ScanService, gatherer prometheus.Gatherer, log *logrus.Entry) *gin.Engine {
	s := &Server{svc: svc, log: log}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	RegisterHealthRoutes(r)
	s.RegisterScanRoutes(r)
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler(gatherer)))
	}
	return r
}

func requestLogger(log *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Debug("request")
	}
}

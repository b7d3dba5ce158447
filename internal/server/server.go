package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/danmuck/packetctl/internal/analysis"
	"github.com/danmuck/packetctl/internal/config"
	"github.com/danmuck/packetctl/internal/observability"
	"github.com/danmuck/packetctl/internal/protocol/packet"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const version = "0.1.0"

// Daemon serves the packet decoder over HTTP.
type Daemon struct {
	Name     string    `json:"name"`
	Addr     string    `json:"addr"`
	Appeared time.Time `json:"appeared"`

	service *analysis.Service
	router  *gin.Engine
}

// DecodeRequest is the body of POST /decode and POST /decode/tree.
type DecodeRequest struct {
	Transmission string `json:"transmission"`
}

// DecodeResponse is returned for a successfully analysed transmission.
type DecodeResponse struct {
	analysis.Report
	Tree *packet.Packet `json:"tree,omitempty"`
}

func Appear(cfg config.DaemonConfig, logger zerolog.Logger) *Daemon {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(logger))
	r.Use(observability.RequestMetricsMiddleware(cfg.Name))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.CorsOrigins),
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	return &Daemon{
		Name:     cfg.Name,
		Addr:     cfg.Addr,
		Appeared: time.Now(),
		service:  analysis.NewService(cfg.Limits(), logger.With().Str("daemon", cfg.Name).Logger()),
		router:   r,
	}
}

func (d *Daemon) HTTPRouter() *gin.Engine {
	return d.router
}

func (d *Daemon) RegisterRoutes() {
	d.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(d.Appeared).String(),
			"service": d.Name,
			"version": version,
		})
	})

	d.router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":   true,
			"uptime":  time.Since(d.Appeared).String(),
			"service": d.Name,
			"version": version,
		})
	})

	d.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	d.router.POST("/decode", func(c *gin.Context) {
		d.handleDecode(c, false)
	})
	d.router.POST("/decode/tree", func(c *gin.Context) {
		d.handleDecode(c, true)
	})
}

func (d *Daemon) handleDecode(c *gin.Context, withTree bool) {
	var req DecodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	report, err := d.service.Analyze(req.Transmission)
	if err != nil {
		c.JSON(statusFor(err), gin.H{
			"id":    report.ID,
			"error": err.Error(),
		})
		return
	}

	resp := DecodeResponse{Report: report}
	if withTree {
		resp.Tree = report.Root
	}
	c.JSON(http.StatusOK, resp)
}

func (d *Daemon) Serve() error {
	d.RegisterRoutes()
	return d.router.Run(d.Addr)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, packet.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, packet.ErrEmptyTransmission), errors.Is(err, packet.ErrInvalidHex):
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}

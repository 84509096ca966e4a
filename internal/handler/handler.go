package handler

import (
	"context"
	"net/http"
	"time"

	"levelwatch/internal/domain"
	"levelwatch/internal/metrics"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type AlertProcessor interface {
	Process(ctx context.Context, payload domain.AlertPayload) error
}

type Handler struct {
	tracer  trace.Tracer
	secret  string
	alerts  AlertProcessor
	metrics *metrics.Metrics
}

func New(tracer trace.Tracer, secret string, alerts AlertProcessor, m *metrics.Metrics) *Handler {
	return &Handler{
		tracer:  tracer,
		secret:  secret,
		alerts:  alerts,
		metrics: m,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Index)
	r.GET("/health", h.Health)
	r.POST("/webhook", h.PostWebhook)
}

// Health godoc
// @Summary      Liveness check
// @Description  Reports OK status and the current Eastern wall-clock time
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   domain.FormatEastern(time.Now()),
	})
}

// Index godoc
// @Summary      Liveness banner
// @Tags         health
// @Produce      plain
// @Success      200  {string}  string
// @Router       / [get]
func (h *Handler) Index(c *gin.Context) {
	c.String(http.StatusOK, "Levelwatch Alert Webhook — Active")
}

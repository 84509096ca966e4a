package handler

import (
	"log"
	"net/http"

	"levelwatch/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

const maxWebhookBodyBytes int64 = 1 << 20 // 1MiB

// PostWebhook godoc
// @Summary      Receive a price alert
// @Description  Authenticates the shared secret, then runs the snapshot, analysis and notification pipeline synchronously
// @Tags         alerts
// @Accept       json
// @Produce      json
// @Param        payload  body  map[string]interface{}  true  "Alert payload (secret, ticker, price, level_name, direction, note)"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /webhook [post]
func (h *Handler) PostWebhook(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.webhook")
	defer span.End()

	h.metrics.AlertsReceived.Inc()

	if c.Request.Body != nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes)
	}

	var payload domain.AlertPayload
	if err := c.ShouldBindJSON(&payload); err != nil || len(payload) == 0 {
		h.metrics.AlertsBadRequest.Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "No JSON body"})
		return
	}

	if payload.Secret() != h.secret {
		h.metrics.AlertsUnauthorized.Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	span.SetAttributes(
		attribute.String("alert.ticker", payload.Ticker()),
		attribute.String("alert.level", payload.LevelName()),
	)
	log.Printf("alert received: %s %s %s", payload.Ticker(), payload.Direction(), payload.LevelName())

	if err := h.alerts.Process(ctx, payload); err != nil {
		h.metrics.PipelineFailures.Inc()
		log.Printf("webhook error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.metrics.AlertsDelivered.Inc()
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Alert sent"})
}

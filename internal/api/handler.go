package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"commande-service/internal/service"
	"commande-service/internal/store"
	"commande-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers
type Handler struct {
	orderService *service.OrderService
}

// NewHandler creates a new HTTP handler
func NewHandler(orderService *service.OrderService) *Handler {
	return &Handler{
		orderService: orderService,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/ping", h.ping)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/confirmCommande", h.confirmCommande)
	router.GET("/commandes", h.listCommandes)
	router.PATCH("/commandes/:id/status", h.updateStatus)
	router.GET("/order-status", h.orderStatus)
}

// ping handles liveness checks
func (h *Handler) ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// confirmCommande handles order submissions from the table-side menu
func (h *Handler) confirmCommande(c *gin.Context) {
	var req service.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   service.MsgInvalidParams,
		})
		return
	}

	resp, err := h.orderService.PlaceOrder(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// listCommandes handles the kitchen display query. Unparseable since or
// limit values are treated as absent; on success the body is a bare list.
func (h *Handler) listCommandes(c *gin.Context) {
	q := service.ListOrdersQuery{Status: c.Query("status")}
	if since, err := strconv.ParseInt(c.Query("since"), 10, 64); err == nil {
		q.Since = since
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		q.Limit = limit
	}

	views, err := h.orderService.ListOrders(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

// updateStatus handles kitchen status transitions
func (h *Handler) updateStatus(c *gin.Context) {
	var req service.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   service.MsgInvalidParams,
		})
		return
	}

	resp, err := h.orderService.UpdateStatus(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// orderStatus handles the table-side status poll
func (h *Handler) orderStatus(c *gin.Context) {
	ts, err := h.orderService.TableStatus(c.Request.Context(), c.Query("table"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if ts == nil {
		c.JSON(http.StatusOK, gin.H{"empty": true})
		return
	}

	c.JSON(http.StatusOK, ts)
}

// fail maps service errors onto the uniform failure envelope. Internal
// detail is logged, never returned to the caller.
func (h *Handler) fail(c *gin.Context, err error) {
	var invalid *service.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   invalid.Msg,
		})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   service.MsgOrderNotFound,
		})
	default:
		util.GetLogger().Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   service.MsgServerError,
		})
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}

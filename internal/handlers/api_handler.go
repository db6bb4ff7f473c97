package handlers

import (
	"time"

	"logistics/internal/redis"
	"logistics/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SessionStore keeps the server-side record of issued tokens so logout can
// revoke them.
type SessionStore interface {
	SetSession(sessionID string, data *redis.SessionData, ttl time.Duration) error
	GetSession(sessionID string) (*redis.SessionData, error)
	DeleteSession(sessionID string) error
}

type APIHandler struct {
	userService      services.UserService
	orderService     services.OrderService
	warehouseService services.WarehouseService
	routeService     services.RouteService
	undoService      services.UndoService
	ocrService       services.OCRService
	reportService    services.ReportService
	sessions         SessionStore
	jwtSecret        string
	sessionTTL       time.Duration
	logger           zerolog.Logger
}

// NewAPIHandler wires the services behind the local API. sessions may be nil,
// in which case tokens are only checked for signature and expiry.
func NewAPIHandler(
	userService services.UserService,
	orderService services.OrderService,
	warehouseService services.WarehouseService,
	routeService services.RouteService,
	undoService services.UndoService,
	ocrService services.OCRService,
	reportService services.ReportService,
	sessions SessionStore,
	jwtSecret string,
	sessionTTL time.Duration,
	logger zerolog.Logger,
) *APIHandler {
	return &APIHandler{
		userService:      userService,
		orderService:     orderService,
		warehouseService: warehouseService,
		routeService:     routeService,
		undoService:      undoService,
		ocrService:       ocrService,
		reportService:    reportService,
		sessions:         sessions,
		jwtSecret:        jwtSecret,
		sessionTTL:       sessionTTL,
		logger:           logger,
	}
}

func (h *APIHandler) RegisterRoutes(router *gin.Engine) {
	router.Use(RequestLogger(h.logger))

	api := router.Group("/api")
	api.POST("/auth/login", h.Login)

	authed := api.Group("", h.RequireAuth())
	{
		authed.POST("/auth/logout", h.Logout)
		authed.GET("/auth/me", h.Me)

		authed.GET("/users", h.ListUsers)
		authed.POST("/users", RequireAdmin(), h.CreateUser)
		authed.DELETE("/users/:id", RequireAdmin(), h.DeleteUser)

		authed.GET("/orders", h.ListOrders)
		authed.POST("/orders", h.CreateOrder)
		authed.GET("/orders/provinces", h.ListProvinces)
		authed.GET("/orders/export", h.ExportOrders)
		authed.GET("/orders/:id", h.GetOrder)
		authed.PUT("/orders/:id", h.UpdateOrder)
		authed.DELETE("/orders/:id", RequireAdmin(), h.DeleteOrder)
		authed.PUT("/orders/:id/status", h.UpdateOrderStatus)
		authed.GET("/orders/:id/status-history", h.GetStatusHistory)
		authed.PUT("/orders/:id/warehouse", h.AssignWarehouse)
		authed.GET("/orders/:id/warehouse-history", h.GetWarehouseHistory)

		authed.GET("/warehouses", h.ListWarehouses)
		authed.POST("/warehouses", h.CreateWarehouse)
		authed.GET("/warehouses/:id", h.GetWarehouse)
		authed.PUT("/warehouses/:id", h.UpdateWarehouse)
		authed.DELETE("/warehouses/:id", h.DeleteWarehouse)
		authed.GET("/warehouses/:id/stats", h.GetWarehouseStats)
		authed.GET("/warehouses/:id/orders", h.ListWarehouseOrders)

		authed.GET("/routes", h.ListRoutes)
		authed.POST("/routes", h.CreateRoute)
		authed.GET("/routes/stats", h.GetRouteStats)
		authed.GET("/routes/quote", h.QuoteRoute)
		authed.GET("/routes/:id", h.GetRoute)
		authed.PUT("/routes/:id", h.UpdateRoute)
		authed.DELETE("/routes/:id", h.DeleteRoute)

		authed.POST("/ocr/scan", h.ScanLabel)
		authed.POST("/ocr/parse", h.ParseLabelText)

		authed.GET("/history", h.GetHistory)
		authed.POST("/history/undo", h.Undo)
		authed.POST("/history/redo", h.Redo)
	}
}

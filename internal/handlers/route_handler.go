package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"logistics/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type quoteResponse struct {
	Origin   string          `json:"origin"`
	Dest     string          `json:"dest"`
	WeightKg float64         `json:"weight_kg"`
	Cost     decimal.Decimal `json:"cost"`
}

func (h *APIHandler) ListRoutes(c *gin.Context) {
	routes, err := h.routeService.GetAllRoutes()
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", routes)
}

func (h *APIHandler) GetRoute(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	route, err := h.routeService.GetRouteByID(id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", route)
}

func (h *APIHandler) CreateRoute(c *gin.Context) {
	var data models.RouteData
	if err := bindJSON(c, &data); err != nil {
		h.writeError(c, err)
		return
	}
	route, err := h.undoService.CreateRoute(data)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, fmt.Sprintf("Route %s created", route.Display()), route)
}

func (h *APIHandler) UpdateRoute(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	var patch models.RoutePatch
	if err := bindJSON(c, &patch); err != nil {
		h.writeError(c, err)
		return
	}
	route, err := h.undoService.UpdateRoute(id, patch)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Route updated", route)
}

func (h *APIHandler) DeleteRoute(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.undoService.DeleteRoute(id); err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, fmt.Sprintf("Route #%d deleted", id), nil)
}

func (h *APIHandler) GetRouteStats(c *gin.Context) {
	stats, err := h.routeService.GetRouteStats()
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", stats)
}

// QuoteRoute prices a shipment without creating an order.
func (h *APIHandler) QuoteRoute(c *gin.Context) {
	origin, dest := c.Query("origin"), c.Query("dest")
	weight, err := strconv.ParseFloat(c.DefaultQuery("weight", "0"), 64)
	if err != nil {
		h.writeError(c, badRequest("invalid weight %q", c.Query("weight")))
		return
	}

	cost, err := h.routeService.CalculateShippingCost(origin, dest, weight)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", quoteResponse{Origin: origin, Dest: dest, WeightKg: weight, Cost: cost})
}

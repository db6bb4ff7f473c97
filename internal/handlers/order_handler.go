package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"logistics/internal/models"
	"logistics/internal/repository"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type createOrderRequest struct {
	models.OrderData
	// AutoPrice replaces the shipping cost with the route price.
	AutoPrice bool `json:"auto_price"`
}

type statusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Note   string             `json:"note"`
}

type assignWarehouseRequest struct {
	WarehouseID uint   `json:"warehouse_id" binding:"required"`
	Note        string `json:"note"`
}

// ListOrders returns every order, newest first. q runs the full-text search
// over addresses and item names too; otherwise any of the search, status,
// days and province query parameters narrows the list.
func (h *APIHandler) ListOrders(c *gin.Context) {
	if q := c.Query("q"); q != "" {
		orders, err := h.orderService.SearchOrders(q)
		if err != nil {
			h.writeError(c, err)
			return
		}
		respond(c, http.StatusOK, "", orders)
		return
	}

	filter := repository.OrderFilter{
		Search:   c.Query("search"),
		Status:   models.OrderStatus(c.Query("status")),
		Province: c.Query("province"),
	}
	if days := c.Query("days"); days != "" {
		n, err := strconv.Atoi(days)
		if err != nil {
			h.writeError(c, badRequest("invalid days %q", days))
			return
		}
		filter.Days = n
	}

	orders, err := h.orderService.FilterOrders(filter)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", orders)
}

func (h *APIHandler) GetOrder(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	order, err := h.orderService.GetOrderByID(id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", order)
}

func (h *APIHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := bindJSON(c, &req); err != nil {
		h.writeError(c, err)
		return
	}
	if req.AutoPrice {
		if err := h.orderService.PriceOrder(&req.OrderData); err != nil {
			h.writeError(c, err)
			return
		}
	}

	order, err := h.undoService.CreateOrder(req.OrderData, actor(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, fmt.Sprintf("Order %s created", order.TrackingCode), order)
}

func (h *APIHandler) UpdateOrder(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	var patch models.OrderPatch
	if err := bindJSON(c, &patch); err != nil {
		h.writeError(c, err)
		return
	}
	if patch.IsEmpty() {
		h.writeError(c, badRequest("nothing to update"))
		return
	}

	order, err := h.undoService.UpdateOrder(id, patch)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Order updated", order)
}

func (h *APIHandler) UpdateOrderStatus(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	var req statusRequest
	if err := bindJSON(c, &req); err != nil {
		h.writeError(c, err)
		return
	}

	order, err := h.undoService.UpdateOrderStatus(id, req.Status, actor(c), req.Note)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Status changed to "+order.Status.Label(), order)
}

func (h *APIHandler) DeleteOrder(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.undoService.DeleteOrder(id); err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, fmt.Sprintf("Order #%d deleted", id), nil)
}

func (h *APIHandler) GetStatusHistory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	rows, err := h.orderService.GetStatusHistory(id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", rows)
}

func (h *APIHandler) AssignWarehouse(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	var req assignWarehouseRequest
	if err := bindJSON(c, &req); err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.warehouseService.AssignOrder(id, req.WarehouseID, req.Note); err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, fmt.Sprintf("Order #%d moved to warehouse #%d", id, req.WarehouseID), nil)
}

func (h *APIHandler) GetWarehouseHistory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	rows, err := h.warehouseService.GetOrderWarehouseHistory(id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", rows)
}

func (h *APIHandler) ListProvinces(c *gin.Context) {
	provinces, err := h.orderService.UniqueProvinces()
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", provinces)
}

// ExportOrders streams every order as an xlsx workbook.
func (h *APIHandler) ExportOrders(c *gin.Context) {
	var buf bytes.Buffer
	count, err := h.reportService.ExportOrders(&buf)
	if err != nil {
		h.writeError(c, err)
		return
	}

	filename := fmt.Sprintf("orders_%s.xlsx", time.Now().Format("20060102_150405"))
	h.logger.Info().Int("orders", count).Str("file", filename).Msg("orders exported")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

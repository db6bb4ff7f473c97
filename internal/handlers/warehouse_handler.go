package handlers

import (
	"fmt"
	"net/http"

	"logistics/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *APIHandler) ListWarehouses(c *gin.Context) {
	warehouses, err := h.warehouseService.GetAllWarehouses()
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", warehouses)
}

func (h *APIHandler) GetWarehouse(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	warehouse, err := h.warehouseService.GetWarehouseByID(id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", warehouse)
}

func (h *APIHandler) CreateWarehouse(c *gin.Context) {
	var data models.WarehouseData
	if err := bindJSON(c, &data); err != nil {
		h.writeError(c, err)
		return
	}
	warehouse, err := h.undoService.CreateWarehouse(data)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, fmt.Sprintf("Warehouse %s created", warehouse.Name), warehouse)
}

func (h *APIHandler) UpdateWarehouse(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	var patch models.WarehousePatch
	if err := bindJSON(c, &patch); err != nil {
		h.writeError(c, err)
		return
	}
	warehouse, err := h.undoService.UpdateWarehouse(id, patch)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Warehouse updated", warehouse)
}

func (h *APIHandler) DeleteWarehouse(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.undoService.DeleteWarehouse(id); err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, fmt.Sprintf("Warehouse #%d deleted", id), nil)
}

func (h *APIHandler) GetWarehouseStats(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	stats, err := h.warehouseService.GetWarehouseStats(id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", stats)
}

func (h *APIHandler) ListWarehouseOrders(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	orders, err := h.warehouseService.GetOrdersInWarehouse(id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", orders)
}

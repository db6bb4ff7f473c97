package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *APIHandler) GetHistory(c *gin.Context) {
	respond(c, http.StatusOK, "", h.undoService.State())
}

func (h *APIHandler) Undo(c *gin.Context) {
	action, err := h.undoService.Undo(actor(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Undid "+action.Describe(), h.undoService.State())
}

func (h *APIHandler) Redo(c *gin.Context) {
	action, err := h.undoService.Redo(actor(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Redid "+action.Describe(), h.undoService.State())
}

package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// maxLabelSize caps uploaded label images.
const maxLabelSize = 10 << 20

type parseTextRequest struct {
	Text string `json:"text"`
}

// ScanLabel runs text recognition on an uploaded label (multipart field
// "file") and returns the extracted order fields as a pre-fill.
func (h *APIHandler) ScanLabel(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		h.writeError(c, badRequest("file is required"))
		return
	}
	if header.Size > maxLabelSize {
		h.writeError(c, badRequest("file is larger than %d MB", maxLabelSize>>20))
		return
	}

	file, err := header.Open()
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		h.writeError(c, err)
		return
	}

	info, err := h.ocrService.ScanLabel(image, header.Filename)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Label scanned", info)
}

func (h *APIHandler) ParseLabelText(c *gin.Context) {
	var req parseTextRequest
	if err := bindJSON(c, &req); err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", h.ocrService.ParseText(req.Text))
}

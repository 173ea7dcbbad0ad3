package handlers

import (
	"github.com/gin-gonic/gin"

	"varibulk/internal/domain/variant"
)

// ErrorLogHandler lists recorded variant failures.
type ErrorLogHandler struct {
	*BaseHandler
	reader variant.ErrorLogReader
}

// NewErrorLogHandler creates a new error log handler.
func NewErrorLogHandler(base *BaseHandler, reader variant.ErrorLogReader) *ErrorLogHandler {
	return &ErrorLogHandler{BaseHandler: base, reader: reader}
}

// List handles GET /error-log?title=&limit=
func (h *ErrorLogHandler) List(c *gin.Context) {
	entries, err := h.reader.RecentErrors(c.Request.Context(), c.Query("title"), h.ParseIntQuery(c, "limit", 50))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, entries)
}

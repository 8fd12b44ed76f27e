package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ledger/internal/domain"
)

type errorBody struct {
	Message string `json:"message"`
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorBody{Message: msg})
}

// writeError maps service errors onto status codes. Unexpected errors are logged and
// answered with a generic message.
func (h *handlers) writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	var invalid *domain.ValidationError
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, errorBody{Message: invalid.Message})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorBody{Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, errorBody{Message: "not found"})
	case errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, errorBody{Message: "already exists"})
	default:
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.String("request_id", c.GetString(requestIDKey)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorBody{Message: "something went wrong, please try again"})
	}
}

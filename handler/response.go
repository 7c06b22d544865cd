package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/docqa-be/types"
)

// statusForKind maps error kinds to HTTP statuses: client mistakes to
// 422, provider outages to 502, everything else to 500.
func statusForKind(kind types.ErrorKind) int {
	switch kind {
	case types.ErrKindValidation:
		return http.StatusUnprocessableEntity
	case types.ErrKindEmbedding, types.ErrKindGeneration:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func sendError(c *gin.Context, err error) {
	kind := types.KindOf(err)
	c.JSON(statusForKind(kind), types.ErrorResponse{
		Status:    "error",
		Message:   err.Error(),
		ErrorKind: kind,
	})
}

func sendSuccess(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

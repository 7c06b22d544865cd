package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/docqa-be/service"
	"github.com/tieubaoca/docqa-be/types"
)

type QueryHandler struct {
	ragService *service.RAGService
}

func NewQueryHandler(ragService *service.RAGService) *QueryHandler {
	return &QueryHandler{
		ragService: ragService,
	}
}

// HandleQuery answers a natural-language question against everything
// ingested so far.
func (h *QueryHandler) HandleQuery(c *gin.Context) {
	var req types.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, types.NewValidationError("question is required"))
		return
	}

	result, err := h.ragService.Answer(c.Request.Context(), req.Question, req.TopK)
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, "", result)
}

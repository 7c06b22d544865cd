package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/docqa-be/service"
	"github.com/tieubaoca/docqa-be/types"
)

type UploadHandler struct {
	fileService *service.FileService
	ragService  *service.RAGService
}

func NewUploadHandler(fileService *service.FileService, ragService *service.RAGService) *UploadHandler {
	return &UploadHandler{
		fileService: fileService,
		ragService:  ragService,
	}
}

const maxUploadSize = 32 << 20

// HandleUpload accepts a multipart batch of PDF files under the
// "files" field, with optional "tags" values stored into chunk
// metadata, and runs the ingestion pipeline. The batch either lands
// completely or not at all.
func (h *UploadHandler) HandleUpload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		sendError(c, types.NewValidationError("invalid multipart form"))
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		sendError(c, types.NewValidationError("no files in upload batch"))
		return
	}

	var paths []string
	for _, file := range files {
		if file.Size > maxUploadSize {
			sendError(c, types.NewValidationError("file too large: "+file.Filename))
			return
		}
		path, err := h.fileService.SaveUpload(file)
		if err != nil {
			sendError(c, err)
			return
		}
		paths = append(paths, path)
	}

	result, err := h.ragService.IngestFiles(c.Request.Context(), paths, form.Value["tags"])
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, "Files processed and chunks stored. Please ask your question.", result)
}

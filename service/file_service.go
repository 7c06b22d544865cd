package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tieubaoca/docqa-be/types"
	"github.com/tieubaoca/docqa-be/utils"
)

// FileService writes uploaded files into the upload directory before
// the ingestion pipeline picks them up.
type FileService struct {
	uploadDir string
}

func NewFileService(uploadDir string) (*FileService, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &FileService{
		uploadDir: uploadDir,
	}, nil
}

// SaveUpload stores one uploaded file under a sanitized, timestamped
// name and returns the stored path. Only PDF uploads are accepted.
func (s *FileService) SaveUpload(file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" {
		return "", types.NewValidationError(fmt.Sprintf("unsupported file type: %s", ext))
	}

	src, err := file.Open()
	if err != nil {
		return "", types.NewExtractionError("failed to open uploaded file", err)
	}
	defer src.Close()

	originalName := strings.TrimSuffix(file.Filename, ext)
	filename := utils.SanitizeFileName(fmt.Sprintf("%s_%d%s", originalName, time.Now().UnixNano(), ext))
	path := filepath.Join(s.uploadDir, filename)

	dst, err := os.Create(path)
	if err != nil {
		return "", types.NewStoreError("failed to create upload file", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		return "", types.NewStoreError("failed to write upload file", err)
	}
	return path, nil
}

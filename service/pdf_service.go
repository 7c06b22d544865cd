package service

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/tieubaoca/docqa-be/types"
	"go.uber.org/zap"
)

// PDFService extracts text from PDF files page by page, falling back
// to OCR for pages pdftotext cannot read.
type PDFService struct {
	logger *zap.Logger
}

func NewPDFService(logger *zap.Logger) *PDFService {
	return &PDFService{
		logger: logger,
	}
}

// ExtractDocument pulls the text of every page of the given PDF. An
// unreadable file, or a file with no extractable text at all, is an
// extraction failure; ingestion of the whole batch is aborted by the
// caller in that case.
func (s *PDFService) ExtractDocument(filePath string) (*types.ExtractedDocument, error) {
	totalPages, err := getNumPages(filePath)
	if err != nil {
		return nil, types.NewExtractionError(fmt.Sprintf("cannot read %s", filepath.Base(filePath)), err)
	}

	doc := &types.ExtractedDocument{
		Source:     filepath.Base(filePath),
		TotalPages: totalPages,
	}

	empty := true
	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		text, err := s.extractText(filePath, pageNum)
		if err != nil {
			s.logger.Warn("failed to extract page text",
				zap.String("file", doc.Source),
				zap.Int("page", pageNum),
				zap.Error(err))
			doc.Pages = append(doc.Pages, "")
			continue
		}
		text = cleanText(text)
		if text != "" {
			empty = false
		}
		doc.Pages = append(doc.Pages, text)
	}

	if empty {
		return nil, types.NewExtractionError(fmt.Sprintf("no extractable text in %s", doc.Source), nil)
	}
	return doc, nil
}

// extractText tries pdftotext first and falls back to OCR.
func (s *PDFService) extractText(filePath string, pageNumber int) (string, error) {
	text, err := s.extractTextWithPdftotext(filePath, pageNumber)
	if err != nil || text == "" {
		text, err = s.extractTextWithTesseract(filePath, pageNumber)
		if err != nil {
			return "", fmt.Errorf("failed to extract text: %w", err)
		}
	}
	return text, nil
}

func (s *PDFService) extractTextWithPdftotext(filePath string, pageNumber int) (string, error) {
	page := strconv.Itoa(pageNumber)
	cmd := exec.Command("pdftotext", "-f", page, "-l", page,
		"-enc", "UTF-8", "-nopgbrk",
		filePath, "-")
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pdftotext failed on page %d: %w", pageNumber, err)
	}
	if trimmed := strings.TrimSpace(out.String()); len(trimmed) > 0 {
		return trimmed, nil
	}
	return "", fmt.Errorf("got nothing at page %d", pageNumber)
}

func (s *PDFService) extractTextWithTesseract(pdfPath string, pageNumber int) (string, error) {
	tempFolder, err := os.MkdirTemp("", "docqa-ocr-")
	if err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempFolder)

	page := strconv.Itoa(pageNumber)
	convertCmd := exec.Command("pdftoppm", "-f", page, "-l", page, "-png",
		pdfPath, filepath.Join(tempFolder, "page"))
	if err := convertCmd.Run(); err != nil {
		return "", fmt.Errorf("failed to render page %d: %w", pageNumber, err)
	}

	images, err := filepath.Glob(filepath.Join(tempFolder, "page-*.png"))
	if err != nil || len(images) == 0 {
		return "", fmt.Errorf("no rendered image for page %d", pageNumber)
	}

	ocrCmd := exec.Command("tesseract", images[0], "stdout",
		"--oem", "3",
		"--psm", "3",
	)
	var out bytes.Buffer
	ocrCmd.Stdout = &out
	if err := ocrCmd.Run(); err != nil {
		return "", fmt.Errorf("failed to run tesseract: %w", err)
	}
	if trimmed := strings.TrimSpace(out.String()); len(trimmed) > 0 {
		return trimmed, nil
	}
	return "", fmt.Errorf("got nothing at page %d", pageNumber)
}

// getNumPages uses pdfinfo to read the page count.
func getNumPages(pdfPath string) (int, error) {
	cmd := exec.Command("pdfinfo", pdfPath)
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("error running pdfinfo: %w", err)
	}

	scanner := bufio.NewScanner(&out)
	re := regexp.MustCompile(`Pages:\s+(\d+)`)
	for scanner.Scan() {
		if matches := re.FindStringSubmatch(scanner.Text()); len(matches) == 2 {
			return strconv.Atoi(matches[1])
		}
	}

	return 0, fmt.Errorf("unable to determine page count from pdfinfo")
}

func cleanText(text string) string {
	replacements := map[string]string{
		"\x00":     "",   // null character
		"\uFFFD":   "",   // unicode replacement character
		"\x1b":     "",   // escape character
		"\r":       "",   // carriage return
		"\f":       "\n", // form feed to newline
	}
	cleaned := text
	for old, new := range replacements {
		cleaned = strings.ReplaceAll(cleaned, old, new)
	}
	return strings.TrimSpace(cleaned)
}

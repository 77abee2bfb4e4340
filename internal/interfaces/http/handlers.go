package http

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/garyjia/offer-letters/internal/batch"
	"github.com/garyjia/offer-letters/internal/container"
	"github.com/garyjia/offer-letters/internal/models"
	"github.com/garyjia/offer-letters/internal/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Multipart field names of the generate request
const (
	FieldSpreadsheet = "excel_file"
	FieldBackground  = "image_template_file"
	FieldSignature   = "signature_file"
)

// SuccessMessage is returned when a batch completes
const SuccessMessage = "Offer letters generated successfully!"

//go:embed web/index.html
var indexPage []byte

// BatchRunner runs offer letter batches
type BatchRunner interface {
	Run(ctx context.Context, in batch.Input) (*models.BatchResult, error)
	OutputPath() string
	LettersDir() string
}

// UploadStore persists uploaded files
type UploadStore interface {
	SaveUpload(fileName string, r io.Reader) (string, error)
}

// PreviewRenderer rasterises the first page of a letter
type PreviewRenderer interface {
	FirstPagePNG(pdfPath string) ([]byte, error)
}

// HealthChecker reports component health
type HealthChecker interface {
	Health() *container.HealthStatus
}

// Dependencies are the collaborators of the handlers
type Dependencies struct {
	Batches  BatchRunner
	Uploads  UploadStore
	Previews PreviewRenderer
	Health   HealthChecker
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	deps          Dependencies
	letters       *storage.LocalFileStorage
	maxUploadSize int64
	logger        *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(deps Dependencies, maxUploadSize int64, logger *zap.Logger) *Handlers {
	return &Handlers{
		deps:          deps,
		letters:       storage.NewLocalFileStorage(deps.Batches.LettersDir(), logger),
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ErrorResponse is the body of every failed generate or download request
type ErrorResponse struct {
	Error string `json:"error"`
}

// GenerateResponse is the body of a successful generate request
type GenerateResponse struct {
	Message   string              `json:"message"`
	ExcelFile string              `json:"excel_file"`
	BatchID   string              `json:"batch_id"`
	Letters   []models.LetterFile `json:"letters"`
	MergedPDF string              `json:"merged_pdf,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string                               `json:"status"`
	Timestamp  string                               `json:"timestamp"`
	Version    string                               `json:"version"`
	Components map[string]container.ComponentHealth `json:"components,omitempty"`
}

// Index handles GET /
func (h *Handlers) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexPage)
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	status := http.StatusOK
	if h.deps.Health != nil {
		health := h.deps.Health.Health()
		response.Components = health.Components
		if !health.Overall {
			response.Status = "unhealthy"
			status = http.StatusServiceUnavailable
		}
	}

	c.JSON(status, Response{
		Success: status == http.StatusOK,
		Data:    response,
	})
}

// GenerateOfferLetters handles POST /generate_offer_letters
func (h *Handlers) GenerateOfferLetters(c *gin.Context) {
	if h.maxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)
	}

	// Step 1: Persist uploads
	spreadsheetPath, err := h.saveField(c, FieldSpreadsheet, true)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	backgroundPath, err := h.saveField(c, FieldBackground, true)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	signaturePath, err := h.saveField(c, FieldSignature, false)
	if err != nil {
		h.badRequest(c, err)
		return
	}

	// Step 2: Run the batch
	result, err := h.deps.Batches.Run(c.Request.Context(), batch.Input{
		SpreadsheetPath: spreadsheetPath,
		BackgroundPath:  backgroundPath,
		SignaturePath:   signaturePath,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, GenerateResponse{
		Message:   SuccessMessage,
		ExcelFile: result.OutputTable,
		BatchID:   result.BatchID,
		Letters:   result.Letters,
		MergedPDF: result.MergedPDF,
	})
}

// saveField stores one multipart file. A missing optional field yields an empty path.
func (h *Handlers) saveField(c *gin.Context, field string, required bool) (string, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) && !required {
			return "", nil
		}
		if errors.Is(err, http.ErrMissingFile) {
			return "", fmt.Errorf("missing required file %q", field)
		}
		return "", fmt.Errorf("failed to read %q: %w", field, err)
	}

	return h.saveUpload(field, header)
}

func (h *Handlers) saveUpload(field string, header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %q: %w", field, err)
	}
	defer file.Close()

	path, err := h.deps.Uploads.SaveUpload(header.Filename, file)
	if err != nil {
		return "", fmt.Errorf("failed to save %q: %w", field, err)
	}

	h.logger.Debug("Saved upload",
		zap.String("field", field),
		zap.String("path", path),
		zap.Int64("size", header.Size))

	return path, nil
}

func (h *Handlers) badRequest(c *gin.Context, err error) {
	h.logger.Warn("Rejected generate request", zap.Error(err))
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}

// DownloadTable handles GET /files/excel
func (h *Handlers) DownloadTable(c *gin.Context) {
	path := h.deps.Batches.OutputPath()
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no result table has been generated yet"})
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}

// DownloadLetter handles GET /files/letters/:name
func (h *Handlers) DownloadLetter(c *gin.Context) {
	path, ok := h.letterPath(c)
	if !ok {
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}

// PreviewLetter handles GET /files/letters/:name/preview
func (h *Handlers) PreviewLetter(c *gin.Context) {
	path, ok := h.letterPath(c)
	if !ok {
		return
	}

	data, err := h.deps.Previews.FirstPagePNG(path)
	if err != nil {
		h.logger.Error("Failed to render preview", zap.String("path", path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

// letterPath resolves the :name parameter to an existing letter, writing an error response otherwise
func (h *Handlers) letterPath(c *gin.Context) (string, bool) {
	name := c.Param("name")
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") || storage.IsStagingFolder(name) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "letter not found"})
		return "", false
	}

	path, err := h.letters.Resolve(name)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return "", false
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "letter not found"})
		return "", false
	}
	return path, true
}

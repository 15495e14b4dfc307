package http

import (
	"errors"
	"io"
	"log"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/leafletlens/client/internal/domain"
	"github.com/leafletlens/client/internal/exporter"
	"github.com/leafletlens/client/internal/intake"
	"github.com/leafletlens/client/internal/notify"
	"github.com/leafletlens/client/internal/presenter"
	"github.com/leafletlens/client/internal/usecase"
)

// Handler holds dependencies for HTTP handlers. It keeps no state of its
// own: every response is built from controller and notifier projections.
type Handler struct {
	controller *usecase.Controller
	presenter  *presenter.Presenter
	notifier   *notify.StatusNotifier
	exporter   *exporter.Exporter
}

// NewHandler creates a new HTTP handler
func NewHandler(
	controller *usecase.Controller,
	p *presenter.Presenter,
	notifier *notify.StatusNotifier,
	e *exporter.Exporter,
) *Handler {
	return &Handler{
		controller: controller,
		presenter:  p,
		notifier:   notifier,
		exporter:   e,
	}
}

// HealthCheck returns the health status of the application
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "leafletlens-client",
		"version": "1.0.0",
	})
}

// Index renders the page shell from the current workflow projections
func (h *Handler) Index(c *gin.Context) {
	data := presenter.PageData{
		TriggerEnabled: h.controller.TriggerEnabled(),
		ResultsVisible: h.controller.ResultsVisible(),
	}

	if message, visible := h.notifier.Current(); visible {
		data.Status = &presenter.StatusView{Text: message.Text, Kind: string(message.Kind)}
	}
	if file := h.controller.StagedFile(); file != nil {
		data.SelectionLabel = intake.SelectionLabel(file)
	}

	if data.ResultsVisible {
		products := h.controller.Products()
		rows, err := h.presenter.RenderRows(products)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		data.ProductCount = len(products)
		data.Rows = rows
	}

	page, err := h.presenter.RenderPage(data)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// Stage validates and stages an uploaded candidate without extracting
func (h *Handler) Stage(c *gin.Context) {
	candidate, err := formCandidate(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}

	if err := h.controller.Stage(candidate); err != nil {
		// Validation failure is already surfaced through the notifier
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// Upload triggers extraction of the staged file. A fresh file in the
// form stages it first, so one-shot submissions work too.
func (h *Handler) Upload(c *gin.Context) {
	if candidate, err := formCandidate(c); err == nil {
		if err := h.controller.Stage(candidate); err != nil {
			c.Redirect(http.StatusSeeOther, "/")
			return
		}
	}

	err := h.controller.RequestExtraction(c.Request.Context())
	switch {
	case errors.Is(err, domain.ErrNoFileStaged):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case errors.Is(err, domain.ErrExtractionInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		// Extraction failures are converted to notifications; the page
		// re-render shows the outcome.
		log.Printf("[delivery] Extraction failed: %v", err)
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// ProductDetail renders the detail fragment for one row. Before any
// collection is loaded the lookup falls through to the service's stored
// copy, so a deep link straight to /product/N still resolves.
func (h *Handler) ProductDetail(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
		return
	}

	product, err := h.controller.ProductAt(c.Request.Context(), index)
	if err != nil {
		// Unreachable from the rendered UI; a stale or hand-crafted index
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	detail, err := h.presenter.RenderProduct(*product, index)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(detail))
}

// Export writes the artifact locally and offers it as a download
func (h *Handler) Export(c *gin.Context) {
	products := h.controller.Products()

	if _, err := h.exporter.Export(products); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	data, err := exporter.Marshal(products)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+exporter.Filename+`"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// ClearStatus hides the current status message
func (h *Handler) ClearStatus(c *gin.Context) {
	h.notifier.Clear()
	c.Status(http.StatusNoContent)
}

// formCandidate reads the "image" form file into an intake candidate.
// Browsers submit an empty part when no file is picked; that counts as
// no candidate.
func formCandidate(c *gin.Context) (intake.Candidate, error) {
	header, err := c.FormFile("image")
	if err != nil {
		return intake.Candidate{}, err
	}
	if header.Filename == "" || header.Size == 0 {
		return intake.Candidate{}, http.ErrMissingFile
	}

	file, err := header.Open()
	if err != nil {
		return intake.Candidate{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return intake.Candidate{}, err
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(header.Filename))
	}

	return intake.Candidate{
		Name:     header.Filename,
		Size:     header.Size,
		MIMEType: mimeType,
		Data:     data,
	}, nil
}

package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"visaguide/internal/app"
	"visaguide/internal/platform/rabbitmq"
	"visaguide/internal/transport/http/middleware"
	"visaguide/internal/transport/http/response"
)

// ImportQueue hands import payloads to the background worker.
type ImportQueue interface {
	Publish(ctx context.Context, payload []byte) error
}

type VisaHandler struct {
	visaService *app.VisaService
	queue       ImportQueue
	logger      logrus.FieldLogger
}

// NewVisaHandler accepts a nil queue; asynchronous imports are then refused.
func NewVisaHandler(visaService *app.VisaService, queue ImportQueue, logger logrus.FieldLogger) *VisaHandler {
	return &VisaHandler{visaService: visaService, queue: queue, logger: logger}
}

func (h *VisaHandler) List(c *gin.Context) {
	records, err := h.visaService.ListAll(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "")
		return
	}
	response.OK(c, records)
}

func (h *VisaHandler) ByCountry(c *gin.Context) {
	country := c.Param("country")
	records, err := h.visaService.ListByCountry(c.Request.Context(), country)
	if err != nil {
		h.writeError(c, err, fmt.Sprintf("No visa information found for %s", country))
		return
	}
	response.OK(c, records)
}

func (h *VisaHandler) ByCountryAndType(c *gin.Context) {
	country, visaType := c.Param("country"), c.Param("type")
	record, err := h.visaService.GetByCountryAndType(c.Request.Context(), country, visaType)
	if err != nil {
		h.writeError(c, err, fmt.Sprintf("No %s visa information found for %s", visaType, country))
		return
	}
	response.OK(c, record)
}

func (h *VisaHandler) Countries(c *gin.Context) {
	countries, err := h.visaService.ListCountries(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "")
		return
	}
	response.OK(c, countries)
}

func (h *VisaHandler) VisaTypes(c *gin.Context) {
	country := c.Param("country")
	types, err := h.visaService.ListVisaTypes(c.Request.Context(), country)
	if err != nil {
		h.writeError(c, err, fmt.Sprintf("No visa information found for %s", country))
		return
	}
	response.OK(c, types)
}

func (h *VisaHandler) Search(c *gin.Context) {
	records, err := h.visaService.Search(c.Request.Context(), c.Query("term"))
	if err != nil {
		h.writeError(c, err, "")
		return
	}
	response.OK(c, records)
}

// Import stores a JSON array of records. With ?async=true the payload is
// queued for the import worker instead.
func (h *VisaHandler) Import(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		if middleware.BodyTooLarge(err) {
			response.Error(c, http.StatusRequestEntityTooLarge, response.CodePayloadTooLarge, "request body too large")
			return
		}
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	if c.Query("async") == "true" {
		h.enqueue(c, raw)
		return
	}

	n, err := h.visaService.ImportBatch(c.Request.Context(), raw)
	if err != nil {
		h.writeError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      fmt.Sprintf("Successfully imported %d visa entries", n),
		"successCount": n,
	})
}

func (h *VisaHandler) enqueue(c *gin.Context, raw []byte) {
	if h.queue == nil {
		response.Error(c, http.StatusServiceUnavailable, response.CodeInternalServer, "import queue is not configured")
		return
	}
	if err := h.queue.Publish(c.Request.Context(), raw); err != nil {
		if errors.Is(err, rabbitmq.ErrNotArray) {
			response.Error(c, http.StatusBadRequest, response.CodeImportNotArray, app.ErrImportNotArray.Error())
			return
		}
		h.logger.WithError(err).Error("enqueue import payload failed")
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "enqueue import failed")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "Import queued"})
}

func (h *VisaHandler) writeError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, app.ErrVisaNotFound):
		response.Error(c, http.StatusNotFound, response.CodeVisaNotFound, notFound)
	case errors.Is(err, app.ErrSearchTermRequired):
		response.Error(c, http.StatusBadRequest, response.CodeSearchTermRequired, "Search term is required")
	case errors.Is(err, app.ErrImportNotArray):
		response.Error(c, http.StatusBadRequest, response.CodeImportNotArray, "Expected an array of visa information")
	default:
		h.logger.WithError(err).WithField("path", c.FullPath()).Error("visa query failed")
		response.Error(c, http.StatusInternalServerError, response.CodeStorage, "failed to query visa information")
	}
}

package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lesotho-epassport/backend/internal/services/status"
)

// StatusHandler handles status lookup requests
type StatusHandler struct {
	service *status.Service
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(service *status.Service) *StatusHandler {
	return &StatusHandler{service: service}
}

// Check handles GET /status/:reference
func (h *StatusHandler) Check(c *gin.Context) {
	view, err := h.service.Lookup(c.Request.Context(), c.Param("reference"))
	if err != nil {
		switch {
		case errors.Is(err, status.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a reference number"})
		case errors.Is(err, status.ErrNotFound):
			body := gin.H{"error": "No application found for that reference"}
			if samples := h.service.SampleReferences(c.Request.Context()); len(samples) > 0 {
				body["sample_references"] = samples
			}
			c.JSON(http.StatusNotFound, body)
		default:
			log.Printf("status lookup failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check status. Please try again."})
		}
		return
	}

	c.JSON(http.StatusOK, view)
}

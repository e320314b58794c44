package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lesotho-epassport/backend/internal/models"
	"github.com/lesotho-epassport/backend/internal/records"
)

// UpdateHandler serves the public notices shown on the updates page
type UpdateHandler struct {
	store records.UpdateStore
}

// NewUpdateHandler creates a new update handler
func NewUpdateHandler(store records.UpdateStore) *UpdateHandler {
	return &UpdateHandler{store: store}
}

// List handles GET /updates
func (h *UpdateHandler) List(c *gin.Context) {
	updates, err := h.store.ListUpdates(c.Request.Context())
	if err != nil {
		log.Printf("list updates failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load updates"})
		return
	}
	if updates == nil {
		updates = []models.Update{}
	}
	c.JSON(http.StatusOK, updates)
}

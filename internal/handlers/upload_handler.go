package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lesotho-epassport/backend/internal/models"
	"github.com/lesotho-epassport/backend/internal/services/upload"
)

// UploadHandler handles artifact uploads made while the form is still
// being filled in: the front end uploads each file the moment it is
// picked and holds on to the returned URL until submission.
type UploadHandler struct {
	uploader *upload.Coordinator
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploader *upload.Coordinator) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

// Upload handles POST /uploads
func (h *UploadHandler) Upload(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse form data"})
		return
	}

	kind := models.ArtifactKind(c.PostForm("kind"))
	if !models.ValidArtifactKind(kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be photo, document or signature"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	hint := c.PostForm("hint")
	if hint == "" {
		hint = header.Filename
	}

	url, err := h.uploader.UploadArtifact(c.Request.Context(), kind, content, header.Header.Get("Content-Type"), hint)
	if err != nil {
		respondSubmissionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url, "kind": kind})
}

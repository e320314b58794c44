package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lesotho-epassport/backend/internal/services/application"
	"github.com/lesotho-epassport/backend/internal/services/storage"
	"github.com/lesotho-epassport/backend/internal/services/upload"
)

// maxMultipartMemory bounds in-memory parsing of renewal submissions
const maxMultipartMemory = 10 << 20 // 10 MB

// ApplicationHandler handles application and renewal submission requests
type ApplicationHandler struct {
	service *application.Service
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(service *application.Service) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

// Submit handles POST /applications
func (h *ApplicationHandler) Submit(c *gin.Context) {
	var req application.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	app, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		respondSubmissionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"reference": app.Reference})
}

// Renew handles POST /renewals. The photo travels in the multipart body
// and is validated before any storage call.
func (h *ApplicationHandler) Renew(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse form data"})
		return
	}

	req := application.RenewalRequest{
		Name:           c.PostForm("name"),
		Surname:        c.PostForm("surname"),
		PassportNumber: c.PostForm("passport_number"),
		District:       c.PostForm("district"),
	}

	file, header, err := c.Request.FormFile("photo")
	if err == nil {
		defer file.Close()
		photo, readErr := io.ReadAll(file)
		if readErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read photo"})
			return
		}
		req.Photo = photo
		req.PhotoContentType = header.Header.Get("Content-Type")
	}

	renewal, err := h.service.SubmitRenewal(c.Request.Context(), req)
	if err != nil {
		respondSubmissionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"reference": renewal.Reference})
}

// respondSubmissionError maps submission failures to HTTP responses. Every
// branch names the failed step so the applicant knows what to fix or
// retry; nothing here is fatal to the process.
func respondSubmissionError(c *gin.Context, err error) {
	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Validation failed: " + verr.Error(),
			"fields": verr.Fields(),
		})
	case errors.Is(err, upload.ErrMissingSignature):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please draw your signature before submitting"})
	case errors.Is(err, upload.ErrEmptyFile):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Uploaded file is empty"})
	case errors.Is(err, upload.ErrUnsupportedFileType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Photo must be a JPEG, PNG or GIF image"})
	case errors.Is(err, upload.ErrFileTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Photo must be 2 MB or smaller"})
	case errors.Is(err, upload.ErrUploadFailed), errors.Is(err, storage.ErrPublicURLUnavailable):
		log.Printf("upload step failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "File upload failed. Please try submitting again."})
	default:
		log.Printf("submission failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit. Please try again."})
	}
}

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/docflow/document-flow-api/internal/dto"
	apierrors "github.com/docflow/document-flow-api/internal/errors"
	"github.com/docflow/document-flow-api/internal/middleware"
	"github.com/docflow/document-flow-api/internal/models"
	"github.com/docflow/document-flow-api/internal/services"
	"github.com/docflow/document-flow-api/internal/utils"
)

// DocumentHandler coordinates document lifecycle HTTP handlers.
type DocumentHandler struct {
	docService *services.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(docService *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		docService: docService,
	}
}

// Upload stores a new document from a multipart form.
func (h *DocumentHandler) Upload(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "No file was uploaded")
		return
	}

	var deadline *time.Time
	if raw := c.PostForm("deadline"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			apierrors.BadRequest(c, "Deadline must be an RFC 3339 timestamp")
			return
		}
		deadline = &parsed
	}

	file, err := fileHeader.Open()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}
	defer file.Close()

	doc, err := h.docService.Upload(services.UploadInput{
		ActorID:     user.ID,
		Content:     file,
		FileName:    fileHeader.Filename,
		FileSize:    fileHeader.Size,
		MimeType:    fileHeader.Header.Get("Content-Type"),
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Deadline:    deadline,
	})
	if err != nil {
		respondDocumentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Document uploaded successfully",
		"document": dto.ToDocumentDTO(*doc),
	})
}

// List returns documents filtered by status and title search.
func (h *DocumentHandler) List(c *gin.Context) {
	input := services.ListInput{
		Search: c.Query("search"),
	}

	if raw := c.Query("status"); raw != "" {
		status := models.DocumentStatus(raw)
		input.Status = &status
	}

	if c.Query("page") != "" {
		params := utils.GetPaginationParams(c)
		input.Page = params.Page
		input.PageSize = params.Limit
	}

	docs, total, err := h.docService.List(input)
	if err != nil {
		respondDocumentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentListResponse(docs, total))
}

// Get returns a single document by ID.
func (h *DocumentHandler) Get(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	doc, err := h.docService.Get(id)
	if err != nil {
		respondDocumentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"document": dto.ToDocumentDTO(*doc)})
}

// Update applies a partial update to a document.
func (h *DocumentHandler) Update(c *gin.Context) {
	type UpdateRequest struct {
		Title       *string                `json:"title"`
		Description *string                `json:"description"`
		Status      *models.DocumentStatus `json:"status"`
		Deadline    *time.Time             `json:"deadline"`
	}

	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	doc, err := h.docService.Update(user, id, services.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Deadline:    req.Deadline,
	})
	if err != nil {
		respondDocumentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Document updated successfully",
		"document": dto.ToDocumentDTO(*doc),
	})
}

// Delete removes a document and its backing file.
func (h *DocumentHandler) Delete(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	if err := h.docService.Delete(user, id); err != nil {
		respondDocumentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully"})
}

// Sign records the actor's signature on an active document.
func (h *DocumentHandler) Sign(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	sig, err := h.docService.Sign(user.ID, id)
	if err != nil {
		respondDocumentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Document signed successfully",
		"signature": dto.ToSignatureDTO(*sig),
	})
}

// Download streams the document file with its original filename.
func (h *DocumentHandler) Download(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	doc, reader, err := h.docService.Download(id)
	if err != nil {
		respondDocumentError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.DataFromReader(http.StatusOK, doc.FileSize, doc.MimeType, reader, nil)
}

func parseDocumentID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid document ID")
		return uuid.Nil, false
	}
	return id, true
}

func respondDocumentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDocumentNotFound),
		errors.Is(err, services.ErrFileMissing):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrDocumentNotSignable):
		apierrors.InvalidOperation(c, err.Error())
	case errors.Is(err, services.ErrAlreadySigned):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrNotDocumentOwner):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrUnsupportedFileType),
		errors.Is(err, services.ErrFileTooLarge):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}

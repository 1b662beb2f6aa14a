package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apierrors "github.com/docflow/document-flow-api/internal/errors"
	"github.com/docflow/document-flow-api/internal/middleware"
	"github.com/docflow/document-flow-api/internal/services"
)

// ReportHandler coordinates statistics and export HTTP handlers.
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// DashboardStats returns the actor's dashboard aggregate.
func (h *ReportHandler) DashboardStats(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	stats, err := h.reportService.DashboardStats(user)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// DocumentStats returns per-status counts and role-dependent pending work.
func (h *ReportHandler) DocumentStats(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	stats, err := h.reportService.DocumentStats(user)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// SignatureReport returns the signature report for visible documents. With a
// documentId query parameter the single matching report is returned.
func (h *ReportHandler) SignatureReport(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	documentID, ok := parseOptionalDocumentID(c)
	if !ok {
		return
	}

	report, err := h.reportService.SignatureReport(user, documentID)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	if documentID != nil {
		if len(report) == 0 {
			apierrors.NotFound(c, "Report not found")
			return
		}
		c.JSON(http.StatusOK, report[0])
		return
	}

	c.JSON(http.StatusOK, report)
}

// SignatureReportPDF streams the signature report rendered as a PDF.
func (h *ReportHandler) SignatureReportPDF(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	documentID, ok := parseOptionalDocumentID(c)
	if !ok {
		return
	}

	content, err := h.reportService.ExportSignatureReportPDF(user, documentID)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	name := "all"
	if documentID != nil {
		name = documentID.String()
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "signature-report-"+name+".pdf"))
	c.Data(http.StatusOK, "application/pdf", content)
}

// DownloadSigned delivers all documents the actor signed: a single file
// directly, several as a zip archive.
func (h *ReportHandler) DownloadSigned(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	export, err := h.reportService.ExportSignedDocuments(user)
	if err != nil {
		if errors.Is(err, services.ErrNoSignedDocuments) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "")
		return
	}
	defer export.Content.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	c.Status(http.StatusOK)
	c.Header("Content-Type", export.ContentType)
	if _, err := io.Copy(c.Writer, export.Content); err != nil {
		// Headers are already gone; nothing left to do but log via gin.
		_ = c.Error(err)
	}
}

func parseOptionalDocumentID(c *gin.Context) (*uuid.UUID, bool) {
	raw := c.Query("documentId")
	if raw == "" {
		return nil, true
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		apierrors.BadRequest(c, "Invalid document ID")
		return nil, false
	}
	return &id, true
}

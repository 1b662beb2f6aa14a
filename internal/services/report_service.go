package services

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"

	"github.com/docflow/document-flow-api/internal/models"
	"github.com/docflow/document-flow-api/internal/repository"
	"github.com/docflow/document-flow-api/internal/storage"
)

var ErrNoSignedDocuments = errors.New("no signed documents available")

// requiredSignatures is the completion threshold for a document. The
// schema has no per-document setting yet, so one signature completes.
const requiredSignatures = 1

const (
	recentSignaturesLimit = 5
	pendingActionsLimit   = 5
)

// Derived report statuses.
const (
	ReportStatusExpired   = "expired"
	ReportStatusCompleted = "completed"
	ReportStatusPending   = "pending"
)

// ReportService derives read-only statistics and exports over documents
// and signatures.
type ReportService struct {
	docRepo  repository.DocumentRepository
	sigRepo  repository.SignatureRepository
	userRepo repository.UserRepository
	blobs    storage.BlobStore
}

// NewReportService creates a new ReportService.
func NewReportService(
	docRepo repository.DocumentRepository,
	sigRepo repository.SignatureRepository,
	userRepo repository.UserRepository,
	blobs storage.BlobStore,
) *ReportService {
	return &ReportService{
		docRepo:  docRepo,
		sigRepo:  sigRepo,
		userRepo: userRepo,
		blobs:    blobs,
	}
}

// RecentSignature is a dashboard line for one of the actor's signatures.
type RecentSignature struct {
	ID            uuid.UUID `json:"id"`
	DocumentTitle string    `json:"document_title"`
	UserName      string    `json:"user_name"`
	SignedAt      time.Time `json:"signed_at"`
}

// PendingAction is an active document with a future deadline the actor has
// not yet signed.
type PendingAction struct {
	ID            uuid.UUID `json:"id"`
	DocumentTitle string    `json:"document_title"`
	Deadline      time.Time `json:"deadline"`
	DaysLeft      int       `json:"days_left"`
}

// DashboardStats aggregates the actor's dashboard view. SignedDocuments and
// PendingDocuments count the actor's own authored documents; the to-sign
// view across all documents is PendingActions.
type DashboardStats struct {
	TotalDocuments   int64             `json:"total_documents"`
	TotalUsers       int64             `json:"total_users"`
	SignedDocuments  int64             `json:"signed_documents"`
	PendingDocuments int64             `json:"pending_documents"`
	RecentSignatures []RecentSignature `json:"recent_signatures"`
	PendingActions   []PendingAction   `json:"pending_actions"`
}

// DashboardStats computes the dashboard aggregate for the actor.
func (s *ReportService) DashboardStats(actor *models.User) (*DashboardStats, error) {
	totalDocuments, err := s.docRepo.CountAll()
	if err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}

	totalUsers, err := s.userRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	signed, err := s.docRepo.CountAuthoredSignedBy(actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count signed documents: %w", err)
	}

	pending, err := s.docRepo.CountAuthoredActiveUnsignedBy(actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending documents: %w", err)
	}

	sigs, err := s.sigRepo.ListByUser(actor.ID, recentSignaturesLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent signatures: %w", err)
	}

	recent := make([]RecentSignature, 0, len(sigs))
	for _, sig := range sigs {
		recent = append(recent, RecentSignature{
			ID:            sig.ID,
			DocumentTitle: sig.Document.Title,
			UserName:      sig.User.Name,
			SignedAt:      sig.SignedAt,
		})
	}

	now := time.Now()
	upcoming, err := s.docRepo.ListActiveUnsignedBy(actor.ID, &now, pendingActionsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending actions: %w", err)
	}

	actions := make([]PendingAction, 0, len(upcoming))
	for _, doc := range upcoming {
		if doc.Deadline == nil {
			continue
		}
		actions = append(actions, PendingAction{
			ID:            doc.ID,
			DocumentTitle: doc.Title,
			Deadline:      *doc.Deadline,
			DaysLeft:      daysLeft(*doc.Deadline, now),
		})
	}

	return &DashboardStats{
		TotalDocuments:   totalDocuments,
		TotalUsers:       totalUsers,
		SignedDocuments:  signed,
		PendingDocuments: pending,
		RecentSignatures: recent,
		PendingActions:   actions,
	}, nil
}

// ReportSignature is one signer line in a signature report.
type ReportSignature struct {
	UserID   uuid.UUID `json:"user_id"`
	UserName string    `json:"user_name"`
	SignedAt time.Time `json:"signed_at"`
}

// SignatureReportEntry is the per-document signature report.
type SignatureReportEntry struct {
	DocumentID         uuid.UUID         `json:"document_id"`
	DocumentTitle      string            `json:"document_title"`
	CreatedBy          uuid.UUID         `json:"created_by"`
	CreatorName        string            `json:"creator_name"`
	TotalSignatures    int               `json:"total_signatures"`
	RequiredSignatures int               `json:"required_signatures"`
	Signatures         []ReportSignature `json:"signatures"`
	Status             string            `json:"status"`
}

// SignatureReport builds the report for every document visible to the
// actor, or for a single document when documentID is set. A requested
// document that is absent or not visible yields an empty result.
func (s *ReportService) SignatureReport(actor *models.User, documentID *uuid.UUID) ([]SignatureReportEntry, error) {
	docs, err := s.visibleDocuments(actor, documentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	report := make([]SignatureReportEntry, 0, len(docs))
	for _, doc := range docs {
		entry := SignatureReportEntry{
			DocumentID:         doc.ID,
			DocumentTitle:      doc.Title,
			CreatedBy:          doc.CreatedBy,
			CreatorName:        doc.Creator.Name,
			TotalSignatures:    len(doc.Signatures),
			RequiredSignatures: requiredSignatures,
			Signatures:         make([]ReportSignature, 0, len(doc.Signatures)),
			Status:             deriveReportStatus(doc, now),
		}
		for _, sig := range doc.Signatures {
			entry.Signatures = append(entry.Signatures, ReportSignature{
				UserID:   sig.UserID,
				UserName: sig.User.Name,
				SignedAt: sig.SignedAt,
			})
		}
		report = append(report, entry)
	}

	return report, nil
}

// DocumentStats summarizes document counts for the actor. Pending differs by
// role on purpose: a user counts foreign active documents still awaiting
// their signature, an admin is shown the raw active count.
type DocumentStats struct {
	Total      int64  `json:"total"`
	Draft      int64  `json:"draft"`
	Active     int64  `json:"active"`
	Archived   int64  `json:"archived"`
	SignedByMe int64  `json:"signed_by_me"`
	Pending    int64  `json:"pending"`
	TotalUsers *int64 `json:"total_users,omitempty"`
}

// DocumentStats computes per-status counts and role-dependent pending work.
func (s *ReportService) DocumentStats(actor *models.User) (*DocumentStats, error) {
	total, err := s.docRepo.CountAll()
	if err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}

	stats := &DocumentStats{Total: total}

	for status, dst := range map[models.DocumentStatus]*int64{
		models.DocumentStatusDraft:    &stats.Draft,
		models.DocumentStatusActive:   &stats.Active,
		models.DocumentStatusArchived: &stats.Archived,
	} {
		count, err := s.docRepo.CountByStatus(status)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s documents: %w", status, err)
		}
		*dst = count
	}

	signedByMe, err := s.sigRepo.CountByUser(actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count signatures: %w", err)
	}
	stats.SignedByMe = signedByMe

	if actor.Role.CanViewAllReports() {
		totalUsers, err := s.userRepo.Count()
		if err != nil {
			return nil, fmt.Errorf("failed to count users: %w", err)
		}
		stats.TotalUsers = &totalUsers
		stats.Pending = stats.Active
	} else {
		pending, err := s.docRepo.CountActiveUnsignedForeign(actor.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count pending documents: %w", err)
		}
		stats.Pending = pending
	}

	return stats, nil
}

// ExportSignatureReportPDF renders the signature report as a PDF, one page
// per visible document.
func (s *ReportService) ExportSignatureReportPDF(actor *models.User, documentID *uuid.UUID) ([]byte, error) {
	docs, err := s.visibleDocuments(actor, documentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Document Signature Report", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Document Signature Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Generated: "+now.Format("2006-01-02 15:04"), "", 1, "R", false, 0, "")
	pdf.Ln(6)

	for i, doc := range docs {
		if i > 0 {
			pdf.AddPage()
		}

		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("%d. %s", i+1, doc.Title)), "", 1, "L", false, 0, "")
		pdf.Ln(2)

		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("Creator: %s (%s)", doc.Creator.Name, doc.Creator.Email)), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 6, "Created: "+doc.CreatedAt.Format("2006-01-02"), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 6, "Status: "+string(doc.Status), "", 1, "L", false, 0, "")
		if doc.Deadline != nil {
			pdf.CellFormat(0, 6, "Deadline: "+doc.Deadline.Format("2006-01-02"), "", 1, "L", false, 0, "")
		}
		pdf.Ln(2)

		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 7, "Signatures:", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)

		if len(doc.Signatures) == 0 {
			pdf.SetTextColor(200, 0, 0)
			pdf.CellFormat(0, 6, "No signatures", "", 1, "L", false, 0, "")
			pdf.SetTextColor(0, 0, 0)
		} else {
			for j, sig := range doc.Signatures {
				pdf.CellFormat(0, 6, tr(fmt.Sprintf("%d. %s (%s)", j+1, sig.User.Name, sig.User.Email)), "", 1, "L", false, 0, "")
				pdf.CellFormat(0, 6, "    Signed at: "+sig.SignedAt.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	return buf.Bytes(), nil
}

// SignedExport is the result of exporting the actor's signed documents:
// either a single file as-is, or a zip archive of all available files.
type SignedExport struct {
	FileName    string
	ContentType string
	Content     io.ReadCloser
	Archived    bool
	// Skipped lists blob paths that were missing and left out of the archive.
	Skipped []string
}

// ExportSignedDocuments collects every document the actor signed. One
// available file is delivered directly; several are bundled into a zip.
// Missing blobs are skipped, not fatal, unless nothing remains.
func (s *ReportService) ExportSignedDocuments(actor *models.User) (*SignedExport, error) {
	docs, err := s.docRepo.ListSignedBy(actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list signed documents: %w", err)
	}
	if len(docs) == 0 {
		return nil, ErrNoSignedDocuments
	}

	available := make([]models.Document, 0, len(docs))
	var skipped []string
	for _, doc := range docs {
		if !s.blobs.Exists(doc.FilePath) {
			log.Printf("Skipping missing file for document %s: %s", doc.ID, doc.FilePath)
			skipped = append(skipped, doc.FilePath)
			continue
		}
		available = append(available, doc)
	}
	if len(available) == 0 {
		return nil, ErrNoSignedDocuments
	}

	if len(available) == 1 {
		doc := available[0]
		reader, err := s.blobs.Open(doc.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open document file: %w", err)
		}
		return &SignedExport{
			FileName:    doc.FileName,
			ContentType: doc.MimeType,
			Content:     reader,
			Skipped:     skipped,
		}, nil
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	seen := make(map[string]int)
	for _, doc := range available {
		name := doc.FileName
		if n := seen[name]; n > 0 {
			name = fmt.Sprintf("%d-%s", n, name)
		}
		seen[doc.FileName]++

		entry, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("failed to create archive entry: %w", err)
		}

		reader, err := s.blobs.Open(doc.FilePath)
		if err != nil {
			log.Printf("Skipping unreadable file for document %s: %v", doc.ID, err)
			skipped = append(skipped, doc.FilePath)
			continue
		}
		_, copyErr := io.Copy(entry, reader)
		reader.Close()
		if copyErr != nil {
			return nil, fmt.Errorf("failed to write archive entry: %w", copyErr)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	return &SignedExport{
		FileName:    "signed-documents.zip",
		ContentType: "application/zip",
		Content:     io.NopCloser(&buf),
		Archived:    true,
		Skipped:     skipped,
	}, nil
}

// visibleDocuments restricts report scope: admins see everything, other
// roles only documents they created.
func (s *ReportService) visibleDocuments(actor *models.User, documentID *uuid.UUID) ([]models.Document, error) {
	var createdBy *uuid.UUID
	if !actor.Role.CanViewAllReports() {
		createdBy = &actor.ID
	}

	docs, err := s.docRepo.ListForReport(documentID, createdBy)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents for report: %w", err)
	}
	return docs, nil
}

// daysLeft counts whole days until the deadline, rounding up.
func daysLeft(deadline, now time.Time) int {
	return int(math.Ceil(deadline.Sub(now).Hours() / 24))
}

func deriveReportStatus(doc models.Document, now time.Time) string {
	if doc.Deadline != nil && doc.Deadline.Before(now) {
		return ReportStatusExpired
	}
	if len(doc.Signatures) > 0 {
		return ReportStatusCompleted
	}
	return ReportStatusPending
}

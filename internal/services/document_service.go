package services

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/docflow/document-flow-api/internal/constants"
	"github.com/docflow/document-flow-api/internal/models"
	"github.com/docflow/document-flow-api/internal/repository"
	"github.com/docflow/document-flow-api/internal/storage"
	"github.com/docflow/document-flow-api/internal/utils"
)

var (
	ErrDocumentNotFound    = errors.New("document not found")
	ErrDocumentNotSignable = errors.New("document is not open for signing")
	ErrAlreadySigned       = errors.New("document already signed by this user")
	ErrNotDocumentOwner    = errors.New("only the document owner or an admin can perform this action")
	ErrInvalidStatus       = errors.New("invalid document status")
	ErrTitleEmpty          = errors.New("title cannot be empty")
	ErrFileMissing         = errors.New("document file not found")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds the maximum allowed size")
)

// DocumentService handles document lifecycle business logic.
type DocumentService struct {
	docRepo repository.DocumentRepository
	sigRepo repository.SignatureRepository
	blobs   storage.BlobStore
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(docRepo repository.DocumentRepository, sigRepo repository.SignatureRepository, blobs storage.BlobStore) *DocumentService {
	return &DocumentService{
		docRepo: docRepo,
		sigRepo: sigRepo,
		blobs:   blobs,
	}
}

// UploadInput represents input for uploading a document.
type UploadInput struct {
	ActorID     uuid.UUID
	Content     io.Reader
	FileName    string
	FileSize    int64
	MimeType    string
	Title       string
	Description string
	Deadline    *time.Time
}

// Upload stores the file and creates the document record in draft status.
func (s *DocumentService) Upload(input UploadInput) (*models.Document, error) {
	if !constants.AllowedMimeTypes[input.MimeType] {
		return nil, ErrUnsupportedFileType
	}
	if input.FileSize > constants.MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	fileName := utils.DecodeFileName(input.FileName)

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = utils.StripExtension(fileName)
	}

	path, size, err := s.blobs.Save(input.Content, fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	doc := &models.Document{
		Title:       title,
		Description: input.Description,
		FilePath:    path,
		FileName:    fileName,
		FileSize:    size,
		MimeType:    input.MimeType,
		CreatedBy:   input.ActorID,
		Status:      models.DocumentStatusDraft,
		Deadline:    input.Deadline,
	}

	if err := s.docRepo.Create(doc); err != nil {
		// The record never existed; remove the orphaned blob.
		if delErr := s.blobs.Delete(path); delErr != nil {
			log.Printf("Failed to clean up blob after create failure: %v", delErr)
		}
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	return s.docRepo.FindByID(doc.ID, "Creator")
}

// ListInput represents filters for listing documents.
type ListInput struct {
	Status   *models.DocumentStatus
	Search   string
	Page     int
	PageSize int
}

// List returns documents matching the filters, newest first.
func (s *DocumentService) List(input ListInput) ([]models.Document, int64, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, 0, ErrInvalidStatus
	}

	docs, total, err := s.docRepo.List(repository.DocumentFilter{
		Status:      input.Status,
		TitleSearch: input.Search,
		Page:        input.Page,
		PageSize:    input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list documents: %w", err)
	}

	return docs, total, nil
}

// Get returns a document with creator and signatures.
func (s *DocumentService) Get(id uuid.UUID) (*models.Document, error) {
	doc, err := s.docRepo.FindByID(id, "Creator", "Signatures", "Signatures.User")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to find document: %w", err)
	}

	return doc, nil
}

// UpdateInput represents input for a partial document update.
type UpdateInput struct {
	Title         *string
	Description   *string
	Status        *models.DocumentStatus
	Deadline      *time.Time
	ClearDeadline bool
}

// Update applies the provided fields to a document. Only the owner or an
// admin may update.
func (s *DocumentService) Update(actor *models.User, id uuid.UUID, input UpdateInput) (*models.Document, error) {
	doc, err := s.docRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to find document: %w", err)
	}

	if !canManage(actor, doc) {
		return nil, ErrNotDocumentOwner
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleEmpty
		}
		doc.Title = *input.Title
	}
	if input.Description != nil {
		doc.Description = *input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		doc.Status = *input.Status
	}
	if input.ClearDeadline {
		doc.Deadline = nil
	} else if input.Deadline != nil {
		doc.Deadline = input.Deadline
	}

	if err := s.docRepo.Update(doc); err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}

	return s.docRepo.FindByID(doc.ID, "Creator", "Signatures", "Signatures.User")
}

// Delete removes the backing file and then the record. A missing file is
// tolerated so a crash between the two steps stays recoverable.
func (s *DocumentService) Delete(actor *models.User, id uuid.UUID) error {
	doc, err := s.docRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentNotFound
		}
		return fmt.Errorf("failed to find document: %w", err)
	}

	if !canManage(actor, doc) {
		return ErrNotDocumentOwner
	}

	if err := s.blobs.Delete(doc.FilePath); err != nil {
		return fmt.Errorf("failed to delete document file: %w", err)
	}

	if err := s.docRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	return nil
}

// Sign records the actor's acknowledgement of an active document. The unique
// index on (document_id, user_id) is the authoritative duplicate check.
func (s *DocumentService) Sign(actorID uuid.UUID, documentID uuid.UUID) (*models.Signature, error) {
	doc, err := s.docRepo.FindByID(documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to find document: %w", err)
	}

	if !doc.Status.Signable() {
		return nil, ErrDocumentNotSignable
	}

	exists, err := s.sigRepo.Exists(documentID, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing signature: %w", err)
	}
	if exists {
		return nil, ErrAlreadySigned
	}

	sig := &models.Signature{
		DocumentID: documentID,
		UserID:     actorID,
		SignedAt:   time.Now(),
	}

	if err := s.sigRepo.Create(sig); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadySigned
		}
		return nil, fmt.Errorf("failed to create signature: %w", err)
	}

	return sig, nil
}

// Download returns the document together with a reader over its file.
func (s *DocumentService) Download(id uuid.UUID) (*models.Document, io.ReadCloser, error) {
	doc, err := s.docRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrDocumentNotFound
		}
		return nil, nil, fmt.Errorf("failed to find document: %w", err)
	}

	if !s.blobs.Exists(doc.FilePath) {
		return nil, nil, ErrFileMissing
	}

	reader, err := s.blobs.Open(doc.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open document file: %w", err)
	}

	return doc, reader, nil
}

// canManage implements the ownership-or-role rule for mutating operations.
func canManage(actor *models.User, doc *models.Document) bool {
	return actor.ID == doc.CreatedBy || actor.Role.CanManageAllDocuments()
}

package repository

import (
	"time"

	"github.com/google/uuid"

	"github.com/docflow/document-flow-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uuid.UUID) (*models.User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(email string) (*models.User, error)

	// Count returns the total number of users
	Count() (int64, error)

	// List retrieves users ordered newest-created first
	List(page, pageSize int) ([]models.User, int64, error)

	// Update persists changes to a user
	Update(user *models.User) error
}

// DocumentFilter holds filtering options for listing documents
type DocumentFilter struct {
	Status      *models.DocumentStatus
	TitleSearch string
	CreatedBy   *uuid.UUID
	Page        int
	PageSize    int
}

// DocumentRepository defines the interface for document data access
type DocumentRepository interface {
	// Create creates a new document
	Create(doc *models.Document) error

	// FindByID finds a document by ID with optional preloading
	FindByID(id uuid.UUID, preload ...string) (*models.Document, error)

	// List retrieves documents with filtering, ordered newest-created first
	List(filter DocumentFilter) ([]models.Document, int64, error)

	// Update persists changes to a document
	Update(doc *models.Document) error

	// Delete removes a document and its signatures
	Delete(id uuid.UUID) error

	// CountAll returns the total number of documents
	CountAll() (int64, error)

	// CountByStatus returns the number of documents in the given status
	CountByStatus(status models.DocumentStatus) (int64, error)

	// CountAuthoredSignedBy counts documents created by the user that the
	// same user has signed
	CountAuthoredSignedBy(userID uuid.UUID) (int64, error)

	// CountAuthoredActiveUnsignedBy counts active documents created by the
	// user that the same user has not signed
	CountAuthoredActiveUnsignedBy(userID uuid.UUID) (int64, error)

	// CountActiveUnsignedForeign counts active documents neither created
	// nor signed by the user
	CountActiveUnsignedForeign(userID uuid.UUID) (int64, error)

	// ListActiveUnsignedBy lists active documents the user has not signed,
	// optionally restricted to those with a deadline after the given time
	ListActiveUnsignedBy(userID uuid.UUID, deadlineAfter *time.Time, limit int) ([]models.Document, error)

	// ListSignedBy lists documents carrying a signature by the user
	ListSignedBy(userID uuid.UUID) ([]models.Document, error)

	// ListForReport lists documents with creator and signatures preloaded,
	// optionally restricted to one document and/or one creator
	ListForReport(documentID, createdBy *uuid.UUID) ([]models.Document, error)
}

// SignatureRepository defines the interface for signature data access
type SignatureRepository interface {
	// Create appends a signature. A duplicate (document, user) pair fails
	// with gorm.ErrDuplicatedKey via the unique index.
	Create(sig *models.Signature) error

	// Exists reports whether the user already signed the document
	Exists(documentID, userID uuid.UUID) (bool, error)

	// ListByUser lists the user's signatures, most recent first, with
	// document and user preloaded
	ListByUser(userID uuid.UUID, limit int) ([]models.Signature, error)

	// CountByUser counts signatures made by the user
	CountByUser(userID uuid.UUID) (int64, error)
}

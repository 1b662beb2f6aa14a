package repository

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/docflow/document-flow-api/internal/database"
	"github.com/docflow/document-flow-api/internal/models"
	"github.com/docflow/document-flow-api/internal/utils"
)

// GormDocumentRepository is a GORM implementation of DocumentRepository
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &GormDocumentRepository{db: db}
}

// Create creates a new document
func (r *GormDocumentRepository) Create(doc *models.Document) error {
	return r.db.Create(doc).Error
}

// FindByID finds a document by ID with optional preloading
func (r *GormDocumentRepository) FindByID(id uuid.UUID, preload ...string) (*models.Document, error) {
	var doc models.Document
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&doc, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &doc, nil
}

// List retrieves documents with filtering, ordered newest-created first
func (r *GormDocumentRepository) List(filter DocumentFilter) ([]models.Document, int64, error) {
	var docs []models.Document

	query := r.db.Model(&models.Document{})

	if filter.Status != nil {
		query = query.Where("documents.status = ?", *filter.Status)
	}
	if filter.TitleSearch != "" {
		query = query.Where("LOWER(documents.title) LIKE ?", "%"+strings.ToLower(filter.TitleSearch)+"%")
	}
	if filter.CreatedBy != nil {
		query = query.Where("documents.created_by = ?", *filter.CreatedBy)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("documents.created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Limit:  filter.PageSize,
			Offset: (filter.Page - 1) * filter.PageSize,
		}))
	}

	if err := listQuery.Preload("Creator").Preload("Signatures").Preload("Signatures.User").Find(&docs).Error; err != nil {
		return nil, 0, err
	}

	return docs, total, nil
}

// Update persists changes to a document
func (r *GormDocumentRepository) Update(doc *models.Document) error {
	return r.db.Save(doc).Error
}

// Delete removes a document and its signatures
func (r *GormDocumentRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).Delete(&models.Signature{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Document{}, "id = ?", id).Error
	})
}

// CountAll returns the total number of documents
func (r *GormDocumentRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.Document{}).Count(&count).Error
	return count, err
}

// CountByStatus returns the number of documents in the given status
func (r *GormDocumentRepository) CountByStatus(status models.DocumentStatus) (int64, error) {
	var count int64
	err := r.db.Model(&models.Document{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// CountAuthoredSignedBy counts documents created by the user that the same
// user has signed
func (r *GormDocumentRepository) CountAuthoredSignedBy(userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Document{}).
		Where("documents.created_by = ?", userID).
		Where("EXISTS (?)", r.signedBySubQuery(userID)).
		Count(&count).Error
	return count, err
}

// CountAuthoredActiveUnsignedBy counts active documents created by the user
// that the same user has not signed
func (r *GormDocumentRepository) CountAuthoredActiveUnsignedBy(userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Document{}).
		Where("documents.created_by = ?", userID).
		Where("documents.status = ?", models.DocumentStatusActive).
		Where("NOT EXISTS (?)", r.signedBySubQuery(userID)).
		Count(&count).Error
	return count, err
}

// CountActiveUnsignedForeign counts active documents neither created nor
// signed by the user
func (r *GormDocumentRepository) CountActiveUnsignedForeign(userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Document{}).
		Where("documents.created_by <> ?", userID).
		Where("documents.status = ?", models.DocumentStatusActive).
		Where("NOT EXISTS (?)", r.signedBySubQuery(userID)).
		Count(&count).Error
	return count, err
}

// ListActiveUnsignedBy lists active documents the user has not signed
func (r *GormDocumentRepository) ListActiveUnsignedBy(userID uuid.UUID, deadlineAfter *time.Time, limit int) ([]models.Document, error) {
	var docs []models.Document

	query := r.db.Model(&models.Document{}).
		Where("documents.status = ?", models.DocumentStatusActive).
		Where("NOT EXISTS (?)", r.signedBySubQuery(userID))

	if deadlineAfter != nil {
		query = query.Where("documents.deadline > ?", *deadlineAfter)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Order("documents.created_at DESC").Find(&docs).Error; err != nil {
		return nil, err
	}

	return docs, nil
}

// ListSignedBy lists documents carrying a signature by the user
func (r *GormDocumentRepository) ListSignedBy(userID uuid.UUID) ([]models.Document, error) {
	var docs []models.Document

	err := r.db.Model(&models.Document{}).
		Where("EXISTS (?)", r.signedBySubQuery(userID)).
		Order("documents.created_at DESC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}

	return docs, nil
}

// ListForReport lists documents with creator and signatures preloaded
func (r *GormDocumentRepository) ListForReport(documentID, createdBy *uuid.UUID) ([]models.Document, error) {
	var docs []models.Document

	query := r.db.Model(&models.Document{})
	if documentID != nil {
		query = query.Where("documents.id = ?", *documentID)
	}
	if createdBy != nil {
		query = query.Where("documents.created_by = ?", *createdBy)
	}

	err := query.
		Preload("Creator").
		Preload("Signatures").
		Preload("Signatures.User").
		Order("documents.created_at DESC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}

	return docs, nil
}

// signedBySubQuery matches signatures by the user on the outer document row.
func (r *GormDocumentRepository) signedBySubQuery(userID uuid.UUID) *gorm.DB {
	return r.db.Model(&models.Signature{}).
		Select("1").
		Where("signatures.document_id = documents.id").
		Where("signatures.user_id = ?", userID)
}

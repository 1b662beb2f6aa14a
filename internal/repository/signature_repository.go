package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/docflow/document-flow-api/internal/models"
)

// GormSignatureRepository is a GORM implementation of SignatureRepository
type GormSignatureRepository struct {
	db *gorm.DB
}

// NewSignatureRepository creates a new SignatureRepository
func NewSignatureRepository(db *gorm.DB) SignatureRepository {
	return &GormSignatureRepository{db: db}
}

// Create appends a signature
func (r *GormSignatureRepository) Create(sig *models.Signature) error {
	return r.db.Create(sig).Error
}

// Exists reports whether the user already signed the document
func (r *GormSignatureRepository) Exists(documentID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.Signature{}).
		Where("document_id = ? AND user_id = ?", documentID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByUser lists the user's signatures, most recent first
func (r *GormSignatureRepository) ListByUser(userID uuid.UUID, limit int) ([]models.Signature, error) {
	var sigs []models.Signature

	query := r.db.
		Preload("Document").
		Preload("User").
		Where("user_id = ?", userID).
		Order("signed_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&sigs).Error; err != nil {
		return nil, err
	}

	return sigs, nil
}

// CountByUser counts signatures made by the user
func (r *GormSignatureRepository) CountByUser(userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Signature{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

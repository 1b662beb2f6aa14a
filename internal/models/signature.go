package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Signature is a timestamped acknowledgement binding one user to one
// document. The composite unique index is the source of truth for the
// at-most-one-per-pair rule; application pre-checks are an optimization.
type Signature struct {
	ID         uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	DocumentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_signatures_document_user" json:"document_id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_signatures_document_user" json:"user_id"`
	SignedAt   time.Time `gorm:"not null" json:"signed_at"`

	// Relations
	Document Document `gorm:"foreignKey:DocumentID" json:"document,omitempty"`
	User     User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (s *Signature) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.SignedAt.IsZero() {
		s.SignedAt = time.Now()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentStatus string

const (
	DocumentStatusDraft    DocumentStatus = "draft"
	DocumentStatusActive   DocumentStatus = "active"
	DocumentStatusArchived DocumentStatus = "archived"
)

// Valid reports whether the status is one of the three known values.
func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentStatusDraft, DocumentStatusActive, DocumentStatusArchived:
		return true
	}
	return false
}

// Signable reports whether signatures may be collected in this status.
func (s DocumentStatus) Signable() bool {
	return s == DocumentStatusActive
}

type Document struct {
	ID          uuid.UUID      `gorm:"type:uuid;primarykey" json:"id"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	FilePath    string         `gorm:"type:varchar(512);not null" json:"-"`
	FileName    string         `gorm:"type:varchar(255);not null" json:"file_name"`
	FileSize    int64          `gorm:"not null" json:"file_size"`
	MimeType    string         `gorm:"type:varchar(255);not null" json:"mime_type"`
	CreatedBy   uuid.UUID      `gorm:"type:uuid;not null;index" json:"created_by"`
	Status      DocumentStatus `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	Deadline    *time.Time     `json:"deadline"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	// Relations
	Creator    User        `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Signatures []Signature `gorm:"foreignKey:DocumentID" json:"signatures,omitempty"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

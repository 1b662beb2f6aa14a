package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/docflow/document-flow-api/internal/models"
)

// SignatureDTO represents a signature in API responses
type SignatureDTO struct {
	ID         uuid.UUID `json:"id"`
	DocumentID uuid.UUID `json:"document_id"`
	UserID     uuid.UUID `json:"user_id"`
	SignedAt   time.Time `json:"signed_at"`
	User       *UserDTO  `json:"user,omitempty"`
}

// DocumentDTO represents a document in API responses
type DocumentDTO struct {
	ID          uuid.UUID             `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	FileName    string                `json:"file_name"`
	FileSize    int64                 `json:"file_size"`
	MimeType    string                `json:"mime_type"`
	CreatedBy   uuid.UUID             `json:"created_by"`
	Status      models.DocumentStatus `json:"status"`
	Deadline    *time.Time            `json:"deadline"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
	Creator     *UserDTO              `json:"creator,omitempty"`
	Signatures  []SignatureDTO        `json:"signatures,omitempty"`
}

// DocumentListResponse represents a list of documents
type DocumentListResponse struct {
	Documents  []DocumentDTO `json:"documents"`
	TotalCount int64         `json:"total_count"`
}

// ToSignatureDTO converts a Signature model to SignatureDTO
func ToSignatureDTO(sig models.Signature) SignatureDTO {
	dto := SignatureDTO{
		ID:         sig.ID,
		DocumentID: sig.DocumentID,
		UserID:     sig.UserID,
		SignedAt:   sig.SignedAt,
	}

	// Include signer if preloaded
	if sig.User.ID != uuid.Nil {
		user := ToUserDTO(sig.User)
		dto.User = &user
	}

	return dto
}

// ToDocumentDTO converts a Document model to DocumentDTO
func ToDocumentDTO(doc models.Document) DocumentDTO {
	dto := DocumentDTO{
		ID:          doc.ID,
		Title:       doc.Title,
		Description: doc.Description,
		FileName:    doc.FileName,
		FileSize:    doc.FileSize,
		MimeType:    doc.MimeType,
		CreatedBy:   doc.CreatedBy,
		Status:      doc.Status,
		Deadline:    doc.Deadline,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}

	// Include creator if preloaded
	if doc.Creator.ID != uuid.Nil {
		creator := ToUserDTO(doc.Creator)
		dto.Creator = &creator
	}

	// Include signatures if preloaded
	if len(doc.Signatures) > 0 {
		dto.Signatures = make([]SignatureDTO, len(doc.Signatures))
		for i, sig := range doc.Signatures {
			dto.Signatures[i] = ToSignatureDTO(sig)
		}
	}

	return dto
}

// ToDocumentListResponse converts a slice of documents to DocumentListResponse
func ToDocumentListResponse(docs []models.Document, totalCount int64) DocumentListResponse {
	items := make([]DocumentDTO, len(docs))
	for i, doc := range docs {
		items[i] = ToDocumentDTO(doc)
	}

	return DocumentListResponse{
		Documents:  items,
		TotalCount: totalCount,
	}
}

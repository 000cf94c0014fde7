package repository

import (
	"time"

	"business-nexus/backend/internal/document/domain"
)

// SeedDocuments returns the chamber contents present at startup, owned by the first
// seeded entrepreneur.
func SeedDocuments() []*domain.Document {
	at := func(d int) time.Time { return time.Date(2024, time.March, d, 10, 0, 0, 0, time.UTC) }
	return []*domain.Document{
		{ID: "doc1", OwnerID: "e1", Name: "Investment Agreement.pdf", Type: "PDF", Status: domain.StatusDraft, UploadedAt: at(1)},
		{ID: "doc2", OwnerID: "e1", Name: "Shareholder Contract.docx", Type: "Document", Status: domain.StatusInReview, UploadedAt: at(3)},
		{ID: "doc3", OwnerID: "e1", Name: "NDA Signed.pdf", Type: "PDF", Status: domain.StatusSigned, UploadedAt: at(5)},
	}
}

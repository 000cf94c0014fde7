// Package domain holds the deal document model.
package domain

import (
	"errors"
	"strings"
	"time"
)

// Status is where a document stands in its signing workflow.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusInReview Status = "in_review"
	StatusSigned   Status = "signed"
)

var (
	// ErrInvalidStatus is returned for an unknown status name.
	ErrInvalidStatus = errors.New("status must be draft, in_review or signed")
	// ErrBadTransition is returned for a move the workflow does not allow.
	ErrBadTransition = errors.New("document cannot move to that status")
)

// ParseStatus returns the Status named by s.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusDraft, StatusInReview, StatusSigned:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// Label is the display name of s.
func (s Status) Label() string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusInReview:
		return "In Review"
	case StatusSigned:
		return "Signed"
	}
	return string(s)
}

// Document is one file in an entrepreneur's document chamber. The chamber tracks
// metadata only; file contents are stored elsewhere.
type Document struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"ownerId"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Status     Status    `json:"status"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Transition validates a move from the current status to to. Drafts go to review or
// straight to signed, documents in review get signed, and signed documents are final.
func (d *Document) Transition(to Status) error {
	if _, err := ParseStatus(string(to)); err != nil {
		return err
	}
	switch d.Status {
	case StatusDraft:
		if to == StatusInReview || to == StatusSigned {
			return nil
		}
	case StatusInReview:
		if to == StatusSigned {
			return nil
		}
	}
	return ErrBadTransition
}

// Clone returns a copy of d, or nil for nil.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

// TypeFromName derives the display type from a file name: "PDF" for .pdf files and
// "Document" otherwise.
func TypeFromName(name string) string {
	if strings.HasSuffix(strings.ToLower(name), ".pdf") {
		return "PDF"
	}
	return "Document"
}

// Package service implements the document chamber: the deal documents an entrepreneur
// uploads and moves through review to signature.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"business-nexus/backend/internal/audit"
	auditdomain "business-nexus/backend/internal/audit/domain"
	"business-nexus/backend/internal/document/domain"
	"business-nexus/backend/internal/document/repository"
	"business-nexus/backend/internal/platform/apperr"
)

// User-facing failure messages.
const (
	MsgDocumentNotFound = "document not found"
	MsgNameRequired     = "document name is required"
	MsgInvalidStatus    = "status must be draft, in_review or signed"
	MsgBadTransition    = "document cannot move to that status"
	MsgChanged          = "document was changed by another request"
	MsgSignedIsFinal    = "signed documents cannot be deleted"
)

// Chamber manages each owner's documents. Every operation is scoped to the acting
// owner; other owners' documents read as not found.
type Chamber struct {
	repo  repository.Repository
	log   *zap.Logger
	audit audit.AuditLogger
	now   func() time.Time
	newID func() string
}

// Option configures a Chamber.
type Option func(*Chamber)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(c *Chamber) { c.log = l } }

// WithAudit records document events through a.
func WithAudit(a audit.AuditLogger) Option { return func(c *Chamber) { c.audit = a } }

// WithClock replaces time.Now. Used by tests.
func WithClock(now func() time.Time) Option { return func(c *Chamber) { c.now = now } }

// WithIDs replaces the document id generator. Used by tests.
func WithIDs(next func() string) Option { return func(c *Chamber) { c.newID = next } }

// NewChamber returns a Chamber over repo.
func NewChamber(repo repository.Repository, opts ...Option) *Chamber {
	c := &Chamber{
		repo:  repo,
		log:   zap.NewNop(),
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upload records a new draft for ownerID. An empty docType is derived from the name.
func (c *Chamber) Upload(ctx context.Context, ownerID, name, docType string) (*domain.Document, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation(MsgNameRequired)
	}
	docType = strings.TrimSpace(docType)
	if docType == "" {
		docType = domain.TypeFromName(name)
	}
	d := &domain.Document{
		ID:         c.newID(),
		OwnerID:    ownerID,
		Name:       name,
		Type:       docType,
		Status:     domain.StatusDraft,
		UploadedAt: c.now(),
	}
	if err := c.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	c.auditEvent(ctx, ownerID, auditdomain.ActionDocumentUploaded, d)
	return d.Clone(), nil
}

// List returns ownerID's documents, oldest first.
func (c *Chamber) List(ctx context.Context, ownerID string) ([]*domain.Document, error) {
	return c.repo.ListByOwner(ctx, ownerID)
}

// Get returns ownerID's document id.
func (c *Chamber) Get(ctx context.Context, ownerID, id string) (*domain.Document, error) {
	return c.load(ctx, ownerID, id)
}

// SetStatus moves ownerID's document to to. Unknown statuses are validation errors;
// moves the workflow forbids, and races with a concurrent change, are invalid state.
func (c *Chamber) SetStatus(ctx context.Context, ownerID, id string, to domain.Status) (*domain.Document, error) {
	d, err := c.load(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := d.Transition(to); err != nil {
		if errors.Is(err, domain.ErrInvalidStatus) {
			return nil, apperr.Validation(MsgInvalidStatus)
		}
		return nil, apperr.InvalidState(MsgBadTransition)
	}
	ok, err := c.repo.UpdateStatus(ctx, d.ID, d.Status, to)
	if err != nil {
		return nil, fmt.Errorf("update document status: %w", err)
	}
	if !ok {
		return nil, apperr.InvalidState(MsgChanged)
	}
	d.Status = to
	c.auditEvent(ctx, ownerID, auditdomain.ActionDocumentStatusChanged, d)
	return d.Clone(), nil
}

// Delete removes ownerID's document. Signed documents are kept.
func (c *Chamber) Delete(ctx context.Context, ownerID, id string) error {
	d, err := c.load(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if d.Status == domain.StatusSigned {
		return apperr.InvalidState(MsgSignedIsFinal)
	}
	if err := c.repo.Delete(ctx, d.ID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	c.auditEvent(ctx, ownerID, auditdomain.ActionDocumentDeleted, d)
	return nil
}

func (c *Chamber) load(ctx context.Context, ownerID, id string) (*domain.Document, error) {
	d, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if d == nil || d.OwnerID != ownerID {
		return nil, apperr.NotFound(MsgDocumentNotFound)
	}
	return d, nil
}

func (c *Chamber) auditEvent(ctx context.Context, userID, action string, d *domain.Document) {
	if c.audit == nil {
		return
	}
	b, _ := json.Marshal(map[string]string{"document_id": d.ID, "status": string(d.Status)})
	c.audit.LogEvent(ctx, userID, action, auditdomain.ResourceDocument, string(b))
}

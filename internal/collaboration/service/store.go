// Package service implements the collaboration request lifecycle between investors
// and entrepreneurs.
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
	"business-nexus/backend/internal/collaboration/domain"
	"business-nexus/backend/internal/collaboration/repository"
	"business-nexus/backend/internal/platform/apperr"
	userdomain "business-nexus/backend/internal/user/domain"
	userrepo "business-nexus/backend/internal/user/repository"
)

// User-facing failure messages.
const (
	MsgUnknownInvestor     = "investor not found"
	MsgUnknownEntrepreneur = "entrepreneur not found"
	MsgRequestNotFound     = "request not found"
	MsgInvalidStatus       = "status must be accepted or rejected"
	MsgAlreadyResolved     = "request has already been resolved"
	MsgNotParticipant      = "only the addressed entrepreneur can resolve this request"
)

// AcceptanceListener is told about every request that moves to accepted.
type AcceptanceListener interface {
	RequestAccepted(ctx context.Context, req *domain.Request) error
}

// Store creates, resolves and lists collaboration requests.
type Store struct {
	repo      repository.Repository
	users     userrepo.Repository
	log       *zap.Logger
	audit     audit.AuditLogger
	listeners []AcceptanceListener
	now       func() time.Time
	newID     func() string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for storage and listener failures.
func WithLogger(l *zap.Logger) Option { return func(s *Store) { s.log = l } }

// WithAudit records request events through a.
func WithAudit(a audit.AuditLogger) Option { return func(s *Store) { s.audit = a } }

// WithListener registers l for acceptance events. Listeners run in registration order.
func WithListener(l AcceptanceListener) Option {
	return func(s *Store) { s.listeners = append(s.listeners, l) }
}

// WithClock replaces time.Now. Used by tests.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// WithIDs replaces the request id generator. Used by tests.
func WithIDs(next func() string) Option { return func(s *Store) { s.newID = next } }

// NewStore returns a Store over repo that resolves participants in users.
func NewStore(repo repository.Repository, users userrepo.Repository, opts ...Option) *Store {
	s := &Store{
		repo:  repo,
		users: users,
		log:   zap.NewNop(),
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateRequest records a pending request from investorID to entrepreneurID. Both ids
// must resolve to directory entries of the matching role.
func (s *Store) CreateRequest(ctx context.Context, investorID, entrepreneurID, message string) (*domain.Request, error) {
	if err := s.expectRole(ctx, investorID, userdomain.RoleInvestor, MsgUnknownInvestor); err != nil {
		return nil, err
	}
	if err := s.expectRole(ctx, entrepreneurID, userdomain.RoleEntrepreneur, MsgUnknownEntrepreneur); err != nil {
		return nil, err
	}
	req := &domain.Request{
		ID:             s.newID(),
		InvestorID:     investorID,
		EntrepreneurID: entrepreneurID,
		Message:        strings.TrimSpace(message),
		Status:         domain.StatusPending,
		CreatedAt:      s.now(),
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	s.auditEvent(ctx, investorID, auditdomain.ActionRequestCreated, req.ID, req.Status)
	return req.Clone(), nil
}

// UpdateStatus resolves a pending request. It fails with a not found error for an
// unknown id, a validation error for a status other than accepted or rejected, and an
// invalid state error once the request is resolved. Acceptance listeners run after the
// status is stored; their failures are logged and do not undo the transition.
func (s *Store) UpdateStatus(ctx context.Context, requestID string, to domain.Status) (*domain.Request, error) {
	req, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, req, to)
}

// Resolve is UpdateStatus on behalf of actorID, who must be the addressed entrepreneur.
func (s *Store) Resolve(ctx context.Context, actorID, requestID string, to domain.Status) (*domain.Request, error) {
	req, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.EntrepreneurID != actorID {
		return nil, apperr.Forbidden(MsgNotParticipant)
	}
	return s.resolve(ctx, req, to)
}

func (s *Store) load(ctx context.Context, requestID string) (*domain.Request, error) {
	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	if req == nil {
		return nil, apperr.NotFound(MsgRequestNotFound)
	}
	return req, nil
}

func (s *Store) resolve(ctx context.Context, req *domain.Request, to domain.Status) (*domain.Request, error) {
	if err := req.Transition(to); err != nil {
		return nil, transitionError(err)
	}
	ok, err := s.repo.UpdateStatus(ctx, req.ID, req.Status, to)
	if err != nil {
		return nil, fmt.Errorf("update request status: %w", err)
	}
	if !ok {
		// Resolved by someone else between the read and the write.
		return nil, apperr.InvalidState(MsgAlreadyResolved)
	}
	req.Status = to
	s.auditEvent(ctx, req.EntrepreneurID, auditdomain.ActionRequestStatusChanged, req.ID, to)

	if to == domain.StatusAccepted {
		for _, l := range s.listeners {
			if err := l.RequestAccepted(ctx, req.Clone()); err != nil {
				s.log.Warn("acceptance listener failed", zap.String("request_id", req.ID), zap.Error(err))
			}
		}
	}
	return req.Clone(), nil
}

// Get returns the request for id or a not found error.
func (s *Store) Get(ctx context.Context, id string) (*domain.Request, error) {
	return s.load(ctx, id)
}

// ListForInvestor returns the requests sent by investorID.
func (s *Store) ListForInvestor(ctx context.Context, investorID string) ([]*domain.Request, error) {
	return s.repo.ListByInvestor(ctx, investorID)
}

// ListForEntrepreneur returns the requests addressed to entrepreneurID.
func (s *Store) ListForEntrepreneur(ctx context.Context, entrepreneurID string) ([]*domain.Request, error) {
	return s.repo.ListByEntrepreneur(ctx, entrepreneurID)
}

// List returns every request.
func (s *Store) List(ctx context.Context) ([]*domain.Request, error) {
	return s.repo.List(ctx)
}

func (s *Store) expectRole(ctx context.Context, id string, role userdomain.Role, msg string) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", role, err)
	}
	if u == nil || u.Role != role {
		return apperr.Validation(msg)
	}
	return nil
}

func transitionError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidStatus):
		return apperr.Validation(MsgInvalidStatus)
	case errors.Is(err, domain.ErrTerminal):
		return apperr.InvalidState(MsgAlreadyResolved)
	}
	return err
}

func (s *Store) auditEvent(ctx context.Context, userID, action, requestID string, status domain.Status) {
	if s.audit == nil {
		return
	}
	b, _ := json.Marshal(map[string]string{"request_id": requestID, "status": string(status)})
	s.audit.LogEvent(ctx, userID, action, auditdomain.ResourceRequest, string(b))
}

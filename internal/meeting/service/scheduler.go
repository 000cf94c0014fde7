// Package service keeps the list of confirmed meetings produced by accepted
// collaboration requests.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	collabdomain "business-nexus/backend/internal/collaboration/domain"
	"business-nexus/backend/internal/kv"
	"business-nexus/backend/internal/meeting/domain"
	userrepo "business-nexus/backend/internal/user/repository"
)

// MeetingsKey holds the JSON array of confirmed meetings.
const MeetingsKey = "confirmedMeetings"

// Scheduler appends a confirmed meeting for every accepted request. It implements
// the collaboration store's acceptance listener.
type Scheduler struct {
	store kv.Store
	users userrepo.Repository
	log   *zap.Logger
	now   func() time.Time

	mu sync.Mutex
}

// NewScheduler returns a Scheduler persisting to store. users resolves the investor's
// name and email; it may be nil.
func NewScheduler(store kv.Store, users userrepo.Repository, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		store: store,
		users: users,
		log:   log.Named("meetings"),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// RequestAccepted records req as a confirmed meeting. A request already recorded is
// left as is.
func (s *Scheduler) RequestAccepted(ctx context.Context, req *collabdomain.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	meetings, err := s.load(ctx)
	if err != nil {
		return err
	}
	for _, m := range meetings {
		if m.ID == req.ID {
			return nil
		}
	}
	m := domain.ConfirmedMeeting{
		ID:             req.ID,
		InvestorID:     req.InvestorID,
		EntrepreneurID: req.EntrepreneurID,
		Message:        req.Message,
		Status:         domain.StatusConfirmed,
		ConfirmedAt:    s.now(),
	}
	if s.users != nil {
		u, err := s.users.GetByID(ctx, req.InvestorID)
		if err != nil {
			return fmt.Errorf("resolve investor: %w", err)
		}
		if u != nil {
			m.Name, m.Email = u.Name, u.Email
		}
	}
	b, err := json.Marshal(append(meetings, m))
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, MeetingsKey, b); err != nil {
		return fmt.Errorf("store meetings: %w", err)
	}
	s.log.Info("meeting confirmed", zap.String("request_id", req.ID))
	return nil
}

// ListForUser returns the meetings in which userID is the investor or the entrepreneur,
// in confirmation order.
func (s *Scheduler) ListForUser(ctx context.Context, userID string) ([]domain.ConfirmedMeeting, error) {
	s.mu.Lock()
	meetings, err := s.load(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := []domain.ConfirmedMeeting{}
	for _, m := range meetings {
		if m.Involves(userID) {
			out = append(out, m)
		}
	}
	return out, nil
}

// load reads the stored list. An undecodable value is treated as empty and overwritten
// by the next write.
func (s *Scheduler) load(ctx context.Context) ([]domain.ConfirmedMeeting, error) {
	raw, ok, err := s.store.Get(ctx, MeetingsKey)
	if err != nil {
		return nil, fmt.Errorf("load meetings: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var meetings []domain.ConfirmedMeeting
	if err := json.Unmarshal(raw, &meetings); err != nil {
		s.log.Warn("discarding unreadable meetings record", zap.Error(err))
		return nil, nil
	}
	return meetings, nil
}

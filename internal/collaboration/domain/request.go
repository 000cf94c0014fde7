package domain

import (
	"errors"
	"time"
)

// Status is the lifecycle state of a collaboration request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

var (
	// ErrInvalidStatus is returned for a target status other than accepted or rejected.
	ErrInvalidStatus = errors.New("status must be accepted or rejected")
	// ErrTerminal is returned when the request has already been accepted or rejected.
	ErrTerminal = errors.New("request has already been resolved")
)

// ParseStatus returns the Status named by s.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusAccepted, StatusRejected:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// Request is a proposed connection from one investor to one entrepreneur.
type Request struct {
	ID             string    `json:"id"`
	InvestorID     string    `json:"investorId"`
	EntrepreneurID string    `json:"entrepreneurId"`
	Message        string    `json:"message"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Transition validates a move from the current status to to. Only pending requests
// move, and only to accepted or rejected.
func (r *Request) Transition(to Status) error {
	if to != StatusAccepted && to != StatusRejected {
		return ErrInvalidStatus
	}
	if r.Status.Terminal() {
		return ErrTerminal
	}
	return nil
}

// Clone returns a copy of r, or nil for nil.
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

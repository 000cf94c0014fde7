package domain

import "time"

// StatusConfirmed is the status of every stored meeting.
const StatusConfirmed = "accepted"

// ConfirmedMeeting is written when an entrepreneur accepts a collaboration request.
// Name and Email describe the requesting investor.
type ConfirmedMeeting struct {
	ID             string    `json:"id"`
	InvestorID     string    `json:"investorId"`
	EntrepreneurID string    `json:"entrepreneurId"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Message        string    `json:"message"`
	Status         string    `json:"status"`
	ConfirmedAt    time.Time `json:"confirmedAt"`
}

// Involves reports whether userID is either party of the meeting.
func (m ConfirmedMeeting) Involves(userID string) bool {
	return userID != "" && (m.InvestorID == userID || m.EntrepreneurID == userID)
}

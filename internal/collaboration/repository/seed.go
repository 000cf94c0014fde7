package repository

import (
	"time"

	"business-nexus/backend/internal/collaboration/domain"
)

// SeedRequests returns the requests present at startup, referencing the seeded directory.
func SeedRequests() []*domain.Request {
	at := func(m time.Month, d int) time.Time { return time.Date(2023, m, d, 14, 30, 0, 0, time.UTC) }
	return []*domain.Request{
		{ID: "req1", InvestorID: "i1", EntrepreneurID: "e1", Status: domain.StatusPending, CreatedAt: at(time.May, 10),
			Message: "I'd like to explore potential investment opportunities in TechWave AI."},
		{ID: "req2", InvestorID: "i2", EntrepreneurID: "e1", Status: domain.StatusAccepted, CreatedAt: at(time.May, 5),
			Message: "Interested in discussing how your technology could be applied to sustainable finance."},
		{ID: "req3", InvestorID: "i3", EntrepreneurID: "e3", Status: domain.StatusPending, CreatedAt: at(time.May, 12),
			Message: "Would love to learn more about HealthPulse and your approach to remote monitoring."},
		{ID: "req4", InvestorID: "i2", EntrepreneurID: "e2", Status: domain.StatusPending, CreatedAt: at(time.May, 15),
			Message: "GreenLife aligns with our climate thesis. Open to a call next week?"},
	}
}

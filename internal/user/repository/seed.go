package repository

import (
	"time"

	"business-nexus/backend/internal/user/domain"
)

func avatar(name string) string {
	return "https://ui-avatars.com/api/?name=" + name + "&background=random"
}

// SeedUsers returns the directory present at startup. A fresh slice is built on every call.
func SeedUsers() []*domain.User {
	at := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 9, 0, 0, 0, time.UTC) }
	return []*domain.User{
		{ID: "e1", Name: "Sarah Johnson", Email: "sarah@techwave.io", Role: domain.RoleEntrepreneur, AvatarURL: avatar("Sarah%20Johnson"),
			Bio: "Serial entrepreneur building AI-driven financial analytics for SMBs.", IsOnline: true, CreatedAt: at(2023, time.January, 15),
			StartupName: "TechWave AI", Industry: "FinTech", PitchSummary: "AI-powered financial analytics that help small businesses forecast cash flow."},
		{ID: "e2", Name: "David Chen", Email: "david@greenlife.co", Role: domain.RoleEntrepreneur, AvatarURL: avatar("David%20Chen"),
			Bio: "Founder of GreenLife, sustainable packaging for e-commerce.", IsOnline: false, CreatedAt: at(2023, time.February, 20),
			StartupName: "GreenLife Solutions", Industry: "CleanTech", PitchSummary: "Biodegradable packaging that replaces single-use plastics in online retail."},
		{ID: "e3", Name: "Maya Patel", Email: "maya@healthpulse.com", Role: domain.RoleEntrepreneur, AvatarURL: avatar("Maya%20Patel"),
			Bio: "Healthcare technologist building remote patient monitoring.", IsOnline: true, CreatedAt: at(2023, time.March, 10),
			StartupName: "HealthPulse", Industry: "HealthTech", PitchSummary: "Wearable-based remote monitoring for patients with chronic conditions."},
		{ID: "e4", Name: "James Wilson", Email: "james@urbanfarm.io", Role: domain.RoleEntrepreneur, AvatarURL: avatar("James%20Wilson"),
			Bio: "Vertical farming for dense urban neighbourhoods.", IsOnline: false, CreatedAt: at(2023, time.April, 5),
			StartupName: "UrbanFarm", Industry: "AgTech", PitchSummary: "Modular vertical farms that grow produce inside city buildings."},
		{ID: "i1", Name: "Michael Rodriguez", Email: "michael@vcinnovate.com", Role: domain.RoleInvestor, AvatarURL: avatar("Michael%20Rodriguez"),
			Bio: "Early-stage investor focused on B2B SaaS and fintech.", IsOnline: true, CreatedAt: at(2022, time.November, 1)},
		{ID: "i2", Name: "Jennifer Lee", Email: "jennifer@impactvc.org", Role: domain.RoleInvestor, AvatarURL: avatar("Jennifer%20Lee"),
			Bio: "Impact investor in climate tech and sustainable consumer goods.", IsOnline: false, CreatedAt: at(2022, time.December, 12)},
		{ID: "i3", Name: "Robert Torres", Email: "robert@healthventures.com", Role: domain.RoleInvestor, AvatarURL: avatar("Robert%20Torres"),
			Bio: "Partner at a healthcare fund; digital health and medtech.", IsOnline: true, CreatedAt: at(2023, time.January, 3)},
	}
}

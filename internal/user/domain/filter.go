package domain

import "strings"

// Filter selects directory entries for discovery. Zero fields match everything.
type Filter struct {
	Role Role
	// Query matches case-insensitively against name, startup name, industry and pitch.
	Query string
	// Industries keeps users whose industry equals any entry, ignoring case.
	Industries []string
}

// Matches reports whether u passes every set criterion of f.
func (f Filter) Matches(u *User) bool {
	if u == nil {
		return false
	}
	if f.Role != "" && u.Role != f.Role {
		return false
	}
	if len(f.Industries) > 0 && !containsFold(f.Industries, u.Industry) {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	for _, field := range []string{u.Name, u.StartupName, u.Industry, u.PitchSummary} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Industries returns the distinct non-empty industries of users in first-seen order.
func Industries(users []*User) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, u := range users {
		if u == nil || u.Industry == "" || seen[strings.ToLower(u.Industry)] {
			continue
		}
		seen[strings.ToLower(u.Industry)] = true
		out = append(out, u.Industry)
	}
	return out
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(strings.TrimSpace(v), s) {
			return true
		}
	}
	return false
}

package entity

import (
	"strings"
	"time"
)

// TenureSummary is the slim view of a tenure held by a person record,
// sufficient for cross-tenancy eligibility rules.
type TenureSummary struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	HolderCount int        `json:"holderCount"`
}

// Active reports whether the summarized tenure has started and not ended
func (s TenureSummary) Active(now time.Time) bool {
	if s.StartDate.After(now) {
		return false
	}
	return s.EndDate == nil || s.EndDate.After(now)
}

// Person is the read-only person snapshot consumed by eligibility rules
type Person struct {
	ID          string          `json:"id"`
	Title       string          `json:"title,omitempty"`
	FirstName   string          `json:"firstName"`
	MiddleName  string          `json:"middleName,omitempty"`
	Surname     string          `json:"surname"`
	DateOfBirth time.Time       `json:"dateOfBirth"`
	Tenures     []TenureSummary `json:"tenures,omitempty"`
}

// FullName joins the non-empty name parts
func (p *Person) FullName() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{p.FirstName, p.MiddleName, p.Surname} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}

// IsAdult reports whether the person is at least 18 at the given time
func (p *Person) IsAdult(now time.Time) bool {
	return !p.DateOfBirth.AddDate(18, 0, 0).After(now)
}

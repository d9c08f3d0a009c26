package entity

import "time"

// Tenure type constants as used by the housing register
const (
	TenureTypeSecure       = "Secure"
	TenureTypeIntroductory = "Introductory"
	TenureTypeNonSecure    = "NonSecure"
)

// HouseholdMember is a person listed on a tenure, either as a responsible
// (named) tenure holder or as an ordinary household member.
type HouseholdMember struct {
	ID            string     `json:"id"`
	FullName      string     `json:"fullName"`
	IsResponsible bool       `json:"isResponsible"`
	DateOfBirth   time.Time  `json:"dateOfBirth"`
}

// ChargesSummary captures the arrears-related references attached to a
// tenure. It is populated from an external finance lookup and may be absent.
type ChargesSummary struct {
	HasActivePaymentAgreement    bool `json:"hasActivePaymentAgreement"`
	HasNoticeOfSeekingPossession bool `json:"hasNoticeOfSeekingPossession"`
}

// Tenure is the read-only tenancy snapshot consumed by eligibility rules
type Tenure struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	StartDate time.Time         `json:"startDate"`
	EndDate   *time.Time        `json:"endDate,omitempty"`
	Members   []HouseholdMember `json:"members"`

	// Charges is best-effort data; nil when the finance reference was absent
	Charges *ChargesSummary `json:"charges,omitempty"`
}

// IsActive reports whether the tenure has started and not ended
func (t *Tenure) IsActive(now time.Time) bool {
	if t.StartDate.After(now) {
		return false
	}
	return t.EndDate == nil || t.EndDate.After(now)
}

// IsSecure reports whether this is a secure tenancy
func (t *Tenure) IsSecure() bool {
	return t.Type == TenureTypeSecure
}

// Member returns the household member with the given person ID
func (t *Tenure) Member(personID string) (HouseholdMember, bool) {
	for _, member := range t.Members {
		if member.ID == personID {
			return member, true
		}
	}
	return HouseholdMember{}, false
}

// NamedHolders returns the responsible tenure holders
func (t *Tenure) NamedHolders() []HouseholdMember {
	var holders []HouseholdMember
	for _, member := range t.Members {
		if member.IsResponsible {
			holders = append(holders, member)
		}
	}
	return holders
}

package eligibility

import (
	"errors"
	"fmt"
	"time"

	"github.com/openhousing/processes/internal/domain/entity"
)

// ErrDataInvalid is returned when a rule's precondition is malformed, e.g.
// the proposed tenant is not listed on the tenure at all. It signals bad
// input, not a business-rule failure.
var ErrDataInvalid = errors.New("data invalid")

// Context holds the domain snapshots a rule battery evaluates against.
// Rules are pure over this data and must not depend on each other.
type Context struct {
	Tenure   *entity.Tenure
	Proposed *entity.Person

	// TenantID is the current (sole) tenant initiating the application;
	// ProposedID is the person to be added as joint tenant.
	TenantID   string
	ProposedID string

	Now time.Time
}

// Rule is a single named business condition
type Rule struct {
	ID          string
	Description string
	Evaluate    func(c *Context) (bool, error)
}

// AutomatedRules is the fixed battery run for the automated eligibility gate
// of a sole-to-joint application. BR7 and BR8 are best-effort: they pass when
// the external reference they depend on is simply absent.
func AutomatedRules() []Rule {
	return []Rule{
		{
			ID:          "BR1",
			Description: "the tenure is active",
			Evaluate: func(c *Context) (bool, error) {
				return c.Tenure.IsActive(c.Now), nil
			},
		},
		{
			ID:          "BR2",
			Description: "the tenant is a named tenure holder",
			Evaluate: func(c *Context) (bool, error) {
				member, ok := c.Tenure.Member(c.TenantID)
				return ok && member.IsResponsible, nil
			},
		},
		{
			ID:          "BR3",
			Description: "the tenure is a secure tenancy",
			Evaluate: func(c *Context) (bool, error) {
				return c.Tenure.IsSecure(), nil
			},
		},
		{
			ID:          "BR4",
			Description: "the tenant is the sole named tenure holder",
			Evaluate: func(c *Context) (bool, error) {
				holders := c.Tenure.NamedHolders()
				return len(holders) == 1 && holders[0].ID == c.TenantID, nil
			},
		},
		{
			ID:          "BR5",
			Description: "the proposed tenant is an adult",
			Evaluate: func(c *Context) (bool, error) {
				return c.Proposed.IsAdult(c.Now), nil
			},
		},
		{
			ID:          "BR6",
			Description: "the proposed tenant is a household member, not already a holder",
			Evaluate: func(c *Context) (bool, error) {
				member, ok := c.Tenure.Member(c.ProposedID)
				if !ok {
					return false, fmt.Errorf("%w: person %s is not listed on tenure %s", ErrDataInvalid, c.ProposedID, c.Tenure.ID)
				}
				return !member.IsResponsible, nil
			},
		},
		{
			ID:          "BR7",
			Description: "the proposed tenant does not hold another active secure tenancy alone",
			Evaluate: func(c *Context) (bool, error) {
				// Best effort: an absent tenure list on the person record
				// passes rather than blocking the application.
				for _, summary := range c.Proposed.Tenures {
					if summary.ID == c.Tenure.ID {
						continue
					}
					if summary.Active(c.Now) && summary.Type == entity.TenureTypeSecure && summary.HolderCount == 1 {
						return false, nil
					}
				}
				return true, nil
			},
		},
		{
			ID:          "BR8",
			Description: "no live payment agreement or notice of seeking possession on the tenure",
			Evaluate: func(c *Context) (bool, error) {
				// Best effort: no finance reference found passes.
				if c.Tenure.Charges == nil {
					return true, nil
				}
				return !c.Tenure.Charges.HasActivePaymentAgreement && !c.Tenure.Charges.HasNoticeOfSeekingPossession, nil
			},
		},
	}
}

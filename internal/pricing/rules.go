package pricing

import (
	"fmt"
	"math"
	"sort"
	"time"

	"atlas_tours/internal/domain"
)

// ruleContext carries everything a rule predicate can look at.
type ruleContext struct {
	selected    []domain.SelectedService
	opts        domain.PricingOptions
	now         time.Time
	daysToTrip  int
	hasTripDate bool
}

type predicate func(r domain.PricingRule, rc ruleContext) bool

// predicates dispatches rule applicability by rule type. Rule types without
// an entry are treated as not applicable, so a custom type added at runtime
// stays inert until a predicate is registered for it.
var predicates = map[domain.RuleType]predicate{
	domain.RuleEarlyBird: func(r domain.PricingRule, rc ruleContext) bool {
		if !rc.hasTripDate || rc.daysToTrip < r.Conditions.DaysInAdvance {
			return false
		}
		return r.Conditions.MaxDaysInAdvance == 0 || rc.daysToTrip <= r.Conditions.MaxDaysInAdvance
	},
	domain.RuleGroup: func(r domain.PricingRule, rc ruleContext) bool {
		return rc.opts.Participants >= r.Conditions.MinParticipants
	},
	domain.RuleMultiService: func(r domain.PricingRule, rc ruleContext) bool {
		return len(rc.selected) >= r.Conditions.MinServices
	},
	domain.RuleLoyalty: func(r domain.PricingRule, rc ruleContext) bool {
		return rc.opts.CustomerType == r.Conditions.CustomerType &&
			rc.opts.PreviousBookings >= r.Conditions.MinPreviousBookings
	},
	domain.RuleLastMinute: func(r domain.PricingRule, rc ruleContext) bool {
		return rc.hasTripDate && rc.daysToTrip >= 0 && rc.daysToTrip <= r.Conditions.MaxDaysInAdvance
	},
	domain.RuleSeasonal: func(r domain.PricingRule, rc ruleContext) bool {
		// Seasonal promotions are bounded by their validity window, which is
		// already checked against the clock; here it only needs a trip date.
		return rc.hasTripDate
	},
}

// applicableRules filters the rule table down to the rules that fire for
// this cart and sorts them priority-descending, stable on ties.
func applicableRules(rules []domain.PricingRule, selected []domain.SelectedService, opts domain.PricingOptions, now time.Time) []domain.PricingRule {
	rc := ruleContext{selected: selected, opts: opts, now: now}
	if opts.TripStartDate != nil {
		rc.hasTripDate = true
		rc.daysToTrip = int(math.Ceil(opts.TripStartDate.Sub(now).Hours() / 24))
	}

	var matched []domain.PricingRule
	for _, r := range rules {
		if !r.IsActive {
			continue
		}
		if r.ValidFrom != nil && now.Before(*r.ValidFrom) {
			continue
		}
		if r.ValidUntil != nil && now.After(*r.ValidUntil) {
			continue
		}
		if len(r.ServiceIDs) > 0 && !scopeOverlaps(r.ServiceIDs, selected) {
			continue
		}
		p, ok := predicates[r.RuleType]
		if !ok || !p(r, rc) {
			continue
		}
		matched = append(matched, r)
	}

	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Priority > matched[j].Priority })
	return matched
}

func scopeOverlaps(scope []string, selected []domain.SelectedService) bool {
	for _, id := range scope {
		for _, line := range selected {
			if line.Service.ID == id {
				return true
			}
		}
	}
	return false
}

// describeRule produces the human line shown next to the discount amount.
func describeRule(r domain.PricingRule) string {
	switch r.RuleType {
	case domain.RuleEarlyBird:
		return fmt.Sprintf("Book %d+ days in advance", r.Conditions.DaysInAdvance)
	case domain.RuleGroup:
		return fmt.Sprintf("Groups of %d or more participants", r.Conditions.MinParticipants)
	case domain.RuleMultiService:
		return fmt.Sprintf("Book %d or more services together", r.Conditions.MinServices)
	case domain.RuleLoyalty:
		return "Reward for returning customers"
	case domain.RuleLastMinute:
		return fmt.Sprintf("Departures within %d days", r.Conditions.MaxDaysInAdvance)
	case domain.RuleSeasonal:
		return "Seasonal promotion"
	}
	return r.Name
}

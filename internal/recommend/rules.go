package recommend

import (
	"time"

	"atlas_tours/internal/domain"
)

// defaultBusinessRules seeds the advisory checks the booking form surfaces.
// Predicates are plain Go closures so runtime-added rules can carry any
// condition over the cart and options.
func defaultBusinessRules() []domain.BusinessRule {
	return []domain.BusinessRule{
		{
			ID:       "accommodation_transport_conflict",
			Name:     "Check-in and transfer on the same day",
			Type:     domain.BRConflict,
			Message:  "Your accommodation and transport are scheduled on the same day; double-check arrival times.",
			Severity: domain.SeverityWarning,
			Predicate: func(selected []domain.SelectedService, _ domain.RecommendationOptions) bool {
				for _, a := range selected {
					if a.Service.Category != domain.CategoryAccommodation || a.ServiceDate == nil {
						continue
					}
					for _, t := range selected {
						if t.Service.Category != domain.CategoryTransport || t.ServiceDate == nil {
							continue
						}
						if sameDay(*a.ServiceDate, *t.ServiceDate) {
							return true
						}
					}
				}
				return false
			},
		},
		{
			ID:       "meal_activity_dependency",
			Name:     "Meals without activities",
			Type:     domain.BRDependency,
			Message:  "Meal bookings are scheduled around activities; add an activity to fix the meal times.",
			Severity: domain.SeverityInfo,
			Predicate: func(selected []domain.SelectedService, _ domain.RecommendationOptions) bool {
				return hasCategory(selected, domain.CategoryMeal) && !hasCategory(selected, domain.CategoryActivity)
			},
		},
		{
			ID:       "group_size_guide_requirement",
			Name:     "Large group without a guide",
			Type:     domain.BRDependency,
			Message:  "Groups larger than 6 need a local guide for activities.",
			Severity: domain.SeverityWarning,
			Predicate: func(selected []domain.SelectedService, opts domain.RecommendationOptions) bool {
				return opts.Participants > 6 &&
					hasCategory(selected, domain.CategoryActivity) &&
					!hasCategory(selected, domain.CategoryGuide)
			},
		},
		{
			ID:       "budget_accommodation_upgrade",
			Name:     "Room for a nicer room",
			Type:     domain.BRUpgrade,
			Message:  "Your budget leaves room to upgrade your accommodation.",
			Severity: domain.SeverityInfo,
			Predicate: func(selected []domain.SelectedService, opts domain.RecommendationOptions) bool {
				if opts.Budget <= 500 {
					return false
				}
				for _, line := range selected {
					if line.Service.Category == domain.CategoryAccommodation && line.Service.BasePrice < 100 {
						return true
					}
				}
				return false
			},
		},
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func hasCategory(selected []domain.SelectedService, cat domain.Category) bool {
	for _, line := range selected {
		if line.Service.Category == cat {
			return true
		}
	}
	return false
}

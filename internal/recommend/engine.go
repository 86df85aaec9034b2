package recommend

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"atlas_tours/internal/domain"
)

const maxResults = 8

// complementaryCategories maps a selected category to the categories that
// usually get booked alongside it.
var complementaryCategories = map[domain.Category][]domain.Category{
	domain.CategoryAccommodation: {domain.CategoryTransport, domain.CategoryMeal},
	domain.CategoryTransport:     {domain.CategoryAccommodation, domain.CategoryActivity},
	domain.CategoryActivity:      {domain.CategoryGuide, domain.CategoryMeal, domain.CategoryTransport},
	domain.CategoryGuide:         {domain.CategoryActivity},
	domain.CategoryMeal:          {domain.CategoryAccommodation, domain.CategoryActivity},
}

// conflictingTags lists tag pairs that don't mix well in one itinerary;
// candidates carrying the counterpart of a selected service's tag are
// skipped by the suggestion passes.
var conflictingTags = [][2]string{
	{"budget", "luxury"},
	{"backpacker", "premium"},
}

// upgradePaths maps a tag on a selected service to the tag its natural
// upgrade carries.
var upgradePaths = map[string]string{
	"standard": "luxury",
	"shared":   "private",
	"hostel":   "boutique",
}

// Engine produces ranked suggestions, advisory rule violations and package
// upsells for a cart. The catalog and rule set are replaceable at runtime;
// each call works on a snapshot.
type Engine struct {
	mu       sync.RWMutex
	services []domain.Service
	rules    []domain.BusinessRule
}

func NewEngine(services []domain.Service) *Engine {
	return &Engine{services: services, rules: defaultBusinessRules()}
}

func (e *Engine) UpdateServices(services []domain.Service) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.services = services
}

func (e *Engine) AddBusinessRule(r domain.BusinessRule) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules = append(e.rules, r)
}

func (e *Engine) snapshot() ([]domain.Service, []domain.BusinessRule) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]domain.Service(nil), e.services...), append([]domain.BusinessRule(nil), e.rules...)
}

// Recommendations aggregates the complementary, upgrade, popular, seasonal
// and alternative passes, drops anything already in the cart, ranks by
// confidence plus savings and caps the result at eight entries.
func (e *Engine) Recommendations(selected []domain.SelectedService, opts domain.RecommendationOptions) []domain.Recommendation {
	catalog, _ := e.snapshot()

	var recs []domain.Recommendation
	recs = append(recs, complementaryPass(catalog, selected, opts)...)
	recs = append(recs, upgradePass(catalog, selected, opts)...)
	recs = append(recs, popularPass(catalog, selected, opts)...)
	recs = append(recs, seasonalPass(catalog, selected, opts)...)
	recs = append(recs, alternativePass(catalog, selected, opts)...)

	seen := selectedIDs(selected)
	out := recs[:0]
	for _, r := range recs {
		if seen[r.Service.ID] {
			continue
		}
		seen[r.Service.ID] = true
		r.Confidence = clamp01(r.Confidence)
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence+out[i].PotentialSavings/100 > out[j].Confidence+out[j].PotentialSavings/100
	})
	if len(out) > maxResults {
		out = out[:maxResults]
	}
	return out
}

// ValidateSelection fires every business rule against the cart and returns
// the triggered ones. Purely advisory; nothing here blocks a booking.
func (e *Engine) ValidateSelection(selected []domain.SelectedService, opts domain.RecommendationOptions) []domain.RuleViolation {
	_, rules := e.snapshot()

	var out []domain.RuleViolation
	for _, r := range rules {
		if r.Predicate == nil || !r.Predicate(selected, opts) {
			continue
		}
		out = append(out, domain.RuleViolation{
			RuleID:   r.ID,
			Name:     r.Name,
			Message:  r.Message,
			Severity: r.Severity,
		})
	}
	return out
}

// PackageUpgrades offers a single completion bundle when the cart is partial
// (two to four lines) and core categories are still missing.
func (e *Engine) PackageUpgrades(selected []domain.SelectedService, opts domain.RecommendationOptions) []domain.PackageUpgrade {
	if len(selected) < 2 || len(selected) >= 5 {
		return nil
	}
	catalog, _ := e.snapshot()

	core := []domain.Category{
		domain.CategoryAccommodation, domain.CategoryTransport,
		domain.CategoryActivity, domain.CategoryMeal, domain.CategoryGuide,
	}
	have := selectedCategories(selected)
	ids := selectedIDs(selected)

	var additions []domain.Service
	for _, cat := range core {
		if have[cat] {
			continue
		}
		for _, svc := range catalog {
			if svc.Category != cat || ids[svc.ID] || !suitableForGroup(svc, opts.Participants) {
				continue
			}
			additions = append(additions, svc)
			break
		}
	}
	if len(additions) == 0 {
		return nil
	}

	original := 0.0
	for _, line := range selected {
		original += line.Service.BasePrice * float64(line.Quantity)
	}
	for _, svc := range additions {
		original += svc.BasePrice
	}
	pkg := original * 0.85

	return []domain.PackageUpgrade{{
		Name:          "Complete Experience Package",
		Description:   fmt.Sprintf("Round out your trip with %d more services at a package rate", len(additions)),
		Services:      additions,
		OriginalPrice: original,
		PackagePrice:  pkg,
		Savings:       original - pkg,
	}}
}

// ---- suggestion passes ----

func complementaryPass(catalog []domain.Service, selected []domain.SelectedService, opts domain.RecommendationOptions) []domain.Recommendation {
	ids := selectedIDs(selected)
	have := selectedCategories(selected)
	avg := averageSelectedPrice(selected)
	bundle := bundleDiscount(len(selected))

	var out []domain.Recommendation
	suggested := map[domain.Category]bool{}
	for _, line := range selected {
		for _, comp := range complementaryCategories[line.Service.Category] {
			if have[comp] || suggested[comp] {
				continue
			}
			suggested[comp] = true
			count := 0
			for _, svc := range catalog {
				if svc.Category != comp || ids[svc.ID] {
					continue
				}
				if !suitableForGroup(svc, opts.Participants) || conflictsWithSelection(svc, selected) {
					continue
				}
				conf := 0.5
				if svc.Rating > 3 {
					conf += (svc.Rating - 3) / 2 * 0.2
				}
				if locationMatchesSelection(svc, selected) {
					conf += 0.2
				}
				if avg > 0 && math.Abs(svc.BasePrice-avg) <= avg*0.5 {
					conf += 0.1
				}
				out = append(out, domain.Recommendation{
					Service:        svc,
					Reason:         fmt.Sprintf("Pairs well with the %s you selected", line.Service.Category),
					Type:           domain.RecComplementary,
					Confidence:     conf,
					BundleDiscount: bundle,
				})
				count++
				if count == 2 {
					break
				}
			}
		}
	}
	return out
}

func upgradePass(catalog []domain.Service, selected []domain.SelectedService, opts domain.RecommendationOptions) []domain.Recommendation {
	ids := selectedIDs(selected)

	var out []domain.Recommendation
	for _, line := range selected {
		orig := line.Service
		for _, svc := range catalog {
			if svc.Category != orig.Category || ids[svc.ID] {
				continue
			}
			if svc.BasePrice <= orig.BasePrice || svc.BasePrice > orig.BasePrice*2 {
				continue
			}
			if svc.Rating < orig.Rating && !followsUpgradePath(orig, svc) {
				continue
			}
			if !suitableForGroup(svc, opts.Participants) {
				continue
			}

			delta := svc.BasePrice - orig.BasePrice
			conf := 0.4
			if opts.Budget > 0 {
				switch frac := delta / opts.Budget; {
				case frac < 0.1:
					conf += 0.3
				case frac < 0.2:
					conf += 0.2
				case frac > 0.3:
					conf -= 0.2
				}
			}
			conf += (svc.Rating - orig.Rating) / 5 * 0.3

			if conf <= 0.4 {
				continue
			}
			if opts.Budget > 0 && delta > opts.Budget*0.2 {
				continue
			}
			out = append(out, domain.Recommendation{
				Service:    svc,
				Reason:     fmt.Sprintf("A step up from %s", orig.Name),
				Type:       domain.RecUpgrade,
				Confidence: conf,
			})
		}
	}
	return out
}

func popularPass(catalog []domain.Service, selected []domain.SelectedService, opts domain.RecommendationOptions) []domain.Recommendation {
	ids := selectedIDs(selected)
	have := selectedCategories(selected)

	var candidates []domain.Service
	for _, svc := range catalog {
		if ids[svc.ID] || have[svc.Category] {
			continue
		}
		if svc.Popularity <= 0.7 || svc.Rating <= 4.0 {
			continue
		}
		if !suitableForGroup(svc, opts.Participants) || conflictsWithSelection(svc, selected) {
			continue
		}
		candidates = append(candidates, svc)
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Popularity > candidates[j].Popularity })
	if len(candidates) > 3 {
		candidates = candidates[:3]
	}

	out := make([]domain.Recommendation, 0, len(candidates))
	for _, svc := range candidates {
		out = append(out, domain.Recommendation{
			Service:    svc,
			Reason:     "A favourite among our travellers",
			Type:       domain.RecPopular,
			Confidence: svc.Popularity*0.8 + svc.Rating/5*0.2,
		})
	}
	return out
}

func seasonalPass(catalog []domain.Service, selected []domain.SelectedService, opts domain.RecommendationOptions) []domain.Recommendation {
	if opts.TripStartDate == nil {
		return nil
	}
	season := seasonOf(opts.TripStartDate.Month())
	ids := selectedIDs(selected)

	var out []domain.Recommendation
	for _, svc := range catalog {
		if ids[svc.ID] || (!svc.HasTag(season) && !svc.HasTag("year-round")) {
			continue
		}
		out = append(out, domain.Recommendation{
			Service:    svc,
			Reason:     fmt.Sprintf("Great choice for %s trips", season),
			Type:       domain.RecSeasonal,
			Confidence: 0.6,
		})
		if len(out) == 2 {
			break
		}
	}
	return out
}

func alternativePass(catalog []domain.Service, selected []domain.SelectedService, opts domain.RecommendationOptions) []domain.Recommendation {
	ids := selectedIDs(selected)

	var out []domain.Recommendation
	for _, line := range selected {
		orig := line.Service
		for _, svc := range catalog {
			if svc.Category != orig.Category || ids[svc.ID] {
				continue
			}
			if svc.BasePrice >= orig.BasePrice || svc.Rating < orig.Rating-0.5 {
				continue
			}
			if !suitableForGroup(svc, opts.Participants) {
				continue
			}
			rec := domain.Recommendation{
				Service:    svc,
				Reason:     fmt.Sprintf("A budget-friendlier take on %s", orig.Name),
				Type:       domain.RecAlternative,
				Confidence: 0.5,
			}
			if savings := orig.BasePrice - svc.BasePrice; savings > 0 {
				rec.PotentialSavings = savings
			}
			out = append(out, rec)
		}
	}
	return out
}

// ---- helpers ----

func selectedIDs(selected []domain.SelectedService) map[string]bool {
	m := make(map[string]bool, len(selected))
	for _, line := range selected {
		m[line.Service.ID] = true
	}
	return m
}

func selectedCategories(selected []domain.SelectedService) map[domain.Category]bool {
	m := make(map[domain.Category]bool, len(selected))
	for _, line := range selected {
		m[line.Service.Category] = true
	}
	return m
}

func averageSelectedPrice(selected []domain.SelectedService) float64 {
	if len(selected) == 0 {
		return 0
	}
	sum := 0.0
	for _, line := range selected {
		sum += line.Service.BasePrice
	}
	return sum / float64(len(selected))
}

func bundleDiscount(cartSize int) float64 {
	switch {
	case cartSize >= 3:
		return 10
	case cartSize >= 2:
		return 5
	}
	return 0
}

// suitableForGroup filters out services whose tags cap the party size.
func suitableForGroup(svc domain.Service, participants int) bool {
	if participants <= 0 {
		return true
	}
	if svc.HasTag("couples") && participants > 2 {
		return false
	}
	if svc.HasTag("small-group") && participants > 6 {
		return false
	}
	return true
}

func conflictsWithSelection(svc domain.Service, selected []domain.SelectedService) bool {
	for _, line := range selected {
		for _, pair := range conflictingTags {
			if (svc.HasTag(pair[0]) && line.Service.HasTag(pair[1])) ||
				(svc.HasTag(pair[1]) && line.Service.HasTag(pair[0])) {
				return true
			}
		}
	}
	return false
}

func followsUpgradePath(orig, candidate domain.Service) bool {
	for from, to := range upgradePaths {
		if orig.HasTag(from) && candidate.HasTag(to) {
			return true
		}
	}
	return false
}

func seasonOf(m time.Month) string {
	switch m {
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	case time.September, time.October, time.November:
		return "autumn"
	}
	return "winter"
}

func locationMatchesSelection(svc domain.Service, selected []domain.SelectedService) bool {
	if svc.Location == "" {
		return false
	}
	for _, line := range selected {
		if line.Service.Location == svc.Location {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

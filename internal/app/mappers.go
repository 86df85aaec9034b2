package app

import (
	"strconv"
	"strings"

	"atlas_tours/internal/domain"
)

/********** alias registries (single source of truth) **********/

// Feed payloads vary between catalog revisions; the registry lists every
// spelling seen in the wild, preferred first.
var serviceAliases = map[string][]string{
	"name":         {"name", "title", "service_name"},
	"category":     {"category", "type", "service_type"},
	"base_price":   {"base_price", "basePrice", "price", "price.amount"},
	"price_type":   {"price_type", "priceType", "pricing_model", "price.unit"},
	"location":     {"location", "destination", "city", "address.city"},
	"rating":       {"rating", "score", "rating.value", "average_rating"},
	"review_count": {"review_count", "reviewCount", "reviews", "rating.count"},
	"popularity":   {"popularity", "popularity_score", "demand"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns the string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) string {
	for _, p := range aliases[key] {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

// getFloatFlexible: number from several paths (float64/int/string like "8,0").
func getFloatFlexible(m map[string]any, paths ...string) float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f
			}
		}
	}
	return 0
}

// firstSliceStrings: accept []any with either strings or {name/label} objects.
func firstSliceStrings(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		if raw, ok := lookupAny(m, k).([]any); ok {
			out := make([]string, 0, len(raw))
			for _, it := range raw {
				switch t := it.(type) {
				case string:
					if t != "" {
						out = append(out, t)
					}
				case map[string]any:
					if n, ok := t["name"].(string); ok && n != "" {
						out = append(out, n)
						continue
					}
					if l, ok := t["label"].(string); ok && l != "" {
						out = append(out, l)
					}
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

/********** service mapper **********/

func mapService(id string, p map[string]any) domain.Service {
	return domain.Service{
		ID:          id,
		Name:        firstNonEmptyAlias(p, serviceAliases, "name"),
		Category:    normalizeCategory(firstNonEmptyAlias(p, serviceAliases, "category")),
		BasePrice:   getFloatFlexible(p, serviceAliases["base_price"]...),
		PriceType:   normalizePriceType(firstNonEmptyAlias(p, serviceAliases, "price_type")),
		Location:    firstNonEmptyAlias(p, serviceAliases, "location"),
		Highlights:  firstSliceStrings(p, "highlights", "features", "inclusions"),
		Rating:      getFloatFlexible(p, serviceAliases["rating"]...),
		ReviewCount: int(getFloatFlexible(p, serviceAliases["review_count"]...)),
		Popularity:  getFloatFlexible(p, serviceAliases["popularity"]...),
		Tags:        firstSliceStrings(p, "tags", "labels", "keywords"),
	}
}

func normalizeCategory(s string) domain.Category {
	c := domain.Category(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case "hotel", "lodging", "stay":
		return domain.CategoryAccommodation
	case "transfer", "flight", "bus":
		return domain.CategoryTransport
	case "tour", "excursion":
		return domain.CategoryActivity
	case "food", "dining", "restaurant":
		return domain.CategoryMeal
	}
	return c
}

func normalizePriceType(s string) domain.PriceType {
	p := domain.PriceType(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case "per-person", "pp", "person":
		return domain.PricePerPerson
	case "per-group", "group":
		return domain.PricePerGroup
	case "per-day", "daily", "day":
		return domain.PricePerDay
	case "flat", "one-off":
		return domain.PriceFixed
	case "":
		return domain.PriceFixed
	}
	return p
}

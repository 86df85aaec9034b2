package domain

import "time"

type RecommendationType string

const (
	RecComplementary RecommendationType = "complementary"
	RecUpgrade       RecommendationType = "upgrade"
	RecAlternative   RecommendationType = "alternative"
	RecPopular       RecommendationType = "popular"
	RecSeasonal      RecommendationType = "seasonal"
)

// Recommendation is one ranked suggestion. Confidence is always in [0,1].
type Recommendation struct {
	Service          Service            `json:"service"`
	Reason           string             `json:"reason"`
	Type             RecommendationType `json:"type"`
	Confidence       float64            `json:"confidence"`
	PotentialSavings float64            `json:"potential_savings,omitempty"`
	BundleDiscount   float64            `json:"bundle_discount,omitempty"`
}

type RecommendationOptions struct {
	Participants  int        `json:"participants"`
	TripStartDate *time.Time `json:"trip_start_date,omitempty"`
	Budget        float64    `json:"budget,omitempty"`
}

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

type BusinessRuleType string

const (
	BRConflict   BusinessRuleType = "conflict"
	BRDependency BusinessRuleType = "dependency"
	BRUpgrade    BusinessRuleType = "upgrade"
	BRComplement BusinessRuleType = "complement"
)

// BusinessRule is a non-blocking advisory predicate over the current cart.
// Triggered rules annotate the selection; nothing blocks checkout.
type BusinessRule struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Type             BusinessRuleType `json:"type"`
	ServiceIDs       []string         `json:"service_ids,omitempty"`
	TargetServiceIDs []string         `json:"target_service_ids,omitempty"`
	Predicate        func(selected []SelectedService, opts RecommendationOptions) bool `json:"-"`
	Message          string           `json:"message"`
	Severity         Severity         `json:"severity"`
}

// RuleViolation reports one triggered business rule.
type RuleViolation struct {
	RuleID   string   `json:"rule_id"`
	Name     string   `json:"name"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// PackageUpgrade is a bundled completion offer for a partial cart.
type PackageUpgrade struct {
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Services      []Service `json:"services"`
	OriginalPrice float64   `json:"original_price"`
	PackagePrice  float64   `json:"package_price"`
	Savings       float64   `json:"savings"`
}

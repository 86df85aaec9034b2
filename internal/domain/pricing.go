package domain

import "time"

type RuleType string

const (
	RuleEarlyBird    RuleType = "early_bird"
	RuleGroup        RuleType = "group_discount"
	RuleSeasonal     RuleType = "seasonal"
	RuleLastMinute   RuleType = "last_minute"
	RuleMultiService RuleType = "multi_service"
	RuleLoyalty      RuleType = "loyalty"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed_amount"
)

// RuleConditions is the predicate payload of a PricingRule; which fields
// matter depends on the rule type.
type RuleConditions struct {
	DaysInAdvance       int    `json:"days_in_advance,omitempty"`
	MaxDaysInAdvance    int    `json:"max_days_in_advance,omitempty"`
	MinParticipants     int    `json:"min_participants,omitempty"`
	MinServices         int    `json:"min_services,omitempty"`
	CustomerType        string `json:"customer_type,omitempty"`
	MinPreviousBookings int    `json:"min_previous_bookings,omitempty"`
}

// PricingRule is a named discount rule. An empty ServiceIDs scope means
// the rule applies to any cart. Higher Priority applies first.
type PricingRule struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	RuleType      RuleType       `json:"rule_type"`
	ServiceIDs    []string       `json:"service_ids,omitempty"`
	Conditions    RuleConditions `json:"conditions"`
	DiscountType  DiscountType   `json:"discount_type"`
	DiscountValue float64        `json:"discount_value"`
	Priority      int            `json:"priority"`
	IsActive      bool           `json:"is_active"`
	ValidFrom     *time.Time     `json:"valid_from,omitempty"`
	ValidUntil    *time.Time     `json:"valid_until,omitempty"`
}

// ServiceCombination is a bundle discount that triggers only when every
// listed service id is present in the cart.
type ServiceCombination struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	ServiceIDs      []string     `json:"service_ids"`
	DiscountType    DiscountType `json:"discount_type"`
	DiscountValue   float64      `json:"discount_value"`
	MinParticipants int          `json:"min_participants,omitempty"`
	MaxParticipants int          `json:"max_participants,omitempty"`
	IsActive        bool         `json:"is_active"`
}

type PricingOptions struct {
	Participants     int        `json:"participants"`
	TripStartDate    *time.Time `json:"trip_start_date,omitempty"`
	CustomerType     string     `json:"customer_type,omitempty"` // new|returning|vip
	PreviousBookings int        `json:"previous_bookings,omitempty"`
	TaxRate          *float64   `json:"tax_rate,omitempty"`
	Currency         string     `json:"currency,omitempty"`
}

type AppliedDiscount struct {
	Name        string       `json:"name"`
	Type        DiscountType `json:"type"`
	Amount      float64      `json:"amount"`
	Description string       `json:"description"`
}

type TaxLine struct {
	Name   string  `json:"name"`
	Rate   float64 `json:"rate"`
	Amount float64 `json:"amount"`
}

// PricingBreakdown is the immutable result of a price calculation.
type PricingBreakdown struct {
	Subtotal  float64           `json:"subtotal"`
	Discounts []AppliedDiscount `json:"discounts"`
	Taxes     []TaxLine         `json:"taxes"`
	Total     float64           `json:"total"`
	Savings   float64           `json:"savings"`
	Currency  string            `json:"currency"`
}

package pricing

import (
	"sync"
	"time"

	"atlas_tours/internal/domain"
)

// Config is the calculator's static state: the discount rule table, bundle
// combinations, the month keyed seasonal multipliers, tax rate and currency.
// Now is the clock used for advance-booking math and rule validity windows;
// tests pin it.
type Config struct {
	Rules        []domain.PricingRule
	Combinations []domain.ServiceCombination
	Seasonal     map[time.Month]float64
	TaxRate      float64
	Currency     string
	Now          func() time.Time
}

// DefaultConfig seeds the standard rule set: early-bird tiers at 30/14 days,
// group tiers at 8+/4+ participants, multi-service tiers at 5+/3+ lines,
// a returning-customer reward and a last-minute deal inside 3 days.
func DefaultConfig() Config {
	return Config{
		Rules: []domain.PricingRule{
			{
				ID: "early_bird_30", Name: "Early Bird Special", RuleType: domain.RuleEarlyBird,
				Conditions:   domain.RuleConditions{DaysInAdvance: 30},
				DiscountType: domain.DiscountPercentage, DiscountValue: 15, Priority: 10, IsActive: true,
			},
			{
				ID: "early_bird_14", Name: "Advance Booking", RuleType: domain.RuleEarlyBird,
				Conditions:   domain.RuleConditions{DaysInAdvance: 14, MaxDaysInAdvance: 29},
				DiscountType: domain.DiscountPercentage, DiscountValue: 8, Priority: 9, IsActive: true,
			},
			{
				ID: "group_large", Name: "Large Group Discount", RuleType: domain.RuleGroup,
				Conditions:   domain.RuleConditions{MinParticipants: 8},
				DiscountType: domain.DiscountPercentage, DiscountValue: 15, Priority: 8, IsActive: true,
			},
			{
				ID: "group_small", Name: "Group Discount", RuleType: domain.RuleGroup,
				Conditions:   domain.RuleConditions{MinParticipants: 4},
				DiscountType: domain.DiscountPercentage, DiscountValue: 12, Priority: 7, IsActive: true,
			},
			{
				ID: "multi_service_5", Name: "Full Itinerary Discount", RuleType: domain.RuleMultiService,
				Conditions:   domain.RuleConditions{MinServices: 5},
				DiscountType: domain.DiscountPercentage, DiscountValue: 12, Priority: 6, IsActive: true,
			},
			{
				ID: "multi_service_3", Name: "Multi-Service Discount", RuleType: domain.RuleMultiService,
				Conditions:   domain.RuleConditions{MinServices: 3},
				DiscountType: domain.DiscountPercentage, DiscountValue: 8, Priority: 5, IsActive: true,
			},
			{
				ID: "loyalty_returning", Name: "Welcome Back Reward", RuleType: domain.RuleLoyalty,
				Conditions:   domain.RuleConditions{CustomerType: "returning", MinPreviousBookings: 1},
				DiscountType: domain.DiscountPercentage, DiscountValue: 10, Priority: 4, IsActive: true,
			},
			{
				ID: "last_minute_3", Name: "Last Minute Deal", RuleType: domain.RuleLastMinute,
				Conditions:   domain.RuleConditions{MaxDaysInAdvance: 3},
				DiscountType: domain.DiscountPercentage, DiscountValue: 5, Priority: 3, IsActive: true,
			},
		},
		Combinations: nil,
		Seasonal: map[time.Month]float64{
			time.January: 1.0, time.February: 1.0, time.March: 1.1, time.April: 1.1,
			time.May: 1.2, time.June: 1.3, time.July: 1.3, time.August: 1.3,
			time.September: 1.2, time.October: 1.1, time.November: 1.0, time.December: 1.2,
		},
		TaxRate:  0.08,
		Currency: "USD",
		Now:      time.Now,
	}
}

// Calculator turns a cart plus booking context into a deterministic price
// breakdown. Calculations read a snapshot of the config; the mutators are
// safe to call concurrently with calculations.
type Calculator struct {
	mu  sync.RWMutex
	cfg Config
}

func NewCalculator(cfg Config) *Calculator {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}
	return &Calculator{cfg: cfg}
}

func Default() *Calculator { return NewCalculator(DefaultConfig()) }

func (c *Calculator) AddRule(r domain.PricingRule) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.Rules = append(c.cfg.Rules, r)
}

func (c *Calculator) AddCombination(combo domain.ServiceCombination) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.Combinations = append(c.cfg.Combinations, combo)
}

func (c *Calculator) SetTaxRate(rate float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.TaxRate = rate
}

func (c *Calculator) SetCurrency(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.Currency = code
}

func (c *Calculator) snapshot() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cfg := c.cfg
	cfg.Rules = append([]domain.PricingRule(nil), c.cfg.Rules...)
	cfg.Combinations = append([]domain.ServiceCombination(nil), c.cfg.Combinations...)
	return cfg
}

// CalculatePrice computes subtotal, seasonal adjustment, stacked discounts,
// tax and total for the given cart. It is a pure function of its inputs and
// the configured rule tables; an empty cart yields a zeroed breakdown.
func (c *Calculator) CalculatePrice(selected []domain.SelectedService, opts domain.PricingOptions) domain.PricingBreakdown {
	cfg := c.snapshot()

	currency := cfg.Currency
	if opts.Currency != "" {
		currency = opts.Currency
	}
	if len(selected) == 0 {
		return domain.PricingBreakdown{
			Discounts: []domain.AppliedDiscount{},
			Taxes:     []domain.TaxLine{},
			Currency:  currency,
		}
	}

	subtotal := 0.0
	for _, line := range selected {
		subtotal += lineBase(line, opts)
	}
	subtotal *= seasonalMultiplier(cfg, opts.TripStartDate)

	now := cfg.Now()
	discounts := make([]domain.AppliedDiscount, 0, 4)

	// Sequential fold over the sorted rules: each percentage discount shrinks
	// the base the next one is computed against. Fixed amounts are capped at
	// whatever is left.
	running := subtotal
	for _, rule := range applicableRules(cfg.Rules, selected, opts, now) {
		amount := discountAmount(rule.DiscountType, rule.DiscountValue, running)
		if amount <= 0 {
			continue
		}
		running -= amount
		discounts = append(discounts, domain.AppliedDiscount{
			Name:        rule.Name,
			Type:        rule.DiscountType,
			Amount:      amount,
			Description: describeRule(rule),
		})
	}

	// Bundle combinations price against their own sub-basis and ignore the
	// running subtotal above.
	for _, d := range combinationDiscounts(cfg.Combinations, selected, opts) {
		discounts = append(discounts, d)
	}

	savings := 0.0
	for _, d := range discounts {
		savings += d.Amount
	}

	taxable := subtotal - savings
	if taxable < 0 {
		taxable = 0
	}
	rate := cfg.TaxRate
	if opts.TaxRate != nil {
		rate = *opts.TaxRate
	}
	tax := taxable * rate

	return domain.PricingBreakdown{
		Subtotal:  subtotal,
		Discounts: discounts,
		Taxes:     []domain.TaxLine{{Name: "Service Tax", Rate: rate, Amount: tax}},
		Total:     taxable + tax,
		Savings:   savings,
		Currency:  currency,
	}
}

func lineBase(line domain.SelectedService, opts domain.PricingOptions) float64 {
	base := line.Service.BasePrice
	switch line.Service.PriceType {
	case domain.PricePerPerson:
		base *= float64(line.Participants)
	case domain.PricePerDay:
		base *= float64(tripDuration(opts))
	}
	return base * float64(line.Quantity)
}

// tripDuration bills per_day lines for a single day.
// TODO: derive the real duration once the booking form collects an end date.
func tripDuration(domain.PricingOptions) int { return 1 }

func seasonalMultiplier(cfg Config, start *time.Time) float64 {
	if start == nil {
		return 1.0
	}
	if m, ok := cfg.Seasonal[start.Month()]; ok {
		return m
	}
	return 1.0
}

func discountAmount(t domain.DiscountType, value, basis float64) float64 {
	switch t {
	case domain.DiscountPercentage:
		return basis * value / 100
	case domain.DiscountFixed:
		if value > basis {
			return basis
		}
		return value
	}
	return 0
}

func combinationDiscounts(combos []domain.ServiceCombination, selected []domain.SelectedService, opts domain.PricingOptions) []domain.AppliedDiscount {
	inCart := make(map[string]domain.SelectedService, len(selected))
	for _, line := range selected {
		inCart[line.Service.ID] = line
	}

	var out []domain.AppliedDiscount
	for _, combo := range combos {
		if !combo.IsActive || len(combo.ServiceIDs) == 0 {
			continue
		}
		if combo.MinParticipants > 0 && opts.Participants < combo.MinParticipants {
			continue
		}
		if combo.MaxParticipants > 0 && opts.Participants > combo.MaxParticipants {
			continue
		}
		basis := 0.0
		complete := true
		for _, id := range combo.ServiceIDs {
			line, ok := inCart[id]
			if !ok {
				complete = false
				break
			}
			basis += line.Service.BasePrice * float64(line.Quantity)
		}
		if !complete {
			continue
		}
		amount := discountAmount(combo.DiscountType, combo.DiscountValue, basis)
		if amount <= 0 {
			continue
		}
		out = append(out, domain.AppliedDiscount{
			Name:        combo.Name,
			Type:        combo.DiscountType,
			Amount:      amount,
			Description: "Bundle discount for booking these services together",
		})
	}
	return out
}

package app

import (
	"context"
	"time"

	"atlas_tours/internal/domain"
	"atlas_tours/internal/pricing"
)

// QuoteService resolves cart lines against the catalog and prices them with
// the calculator.
type QuoteService struct {
	resolver
	calc *pricing.Calculator
}

func NewQuoteService(repo domain.CatalogRepository, cache domain.Cache, calc *pricing.Calculator, ttl time.Duration) *QuoteService {
	return &QuoteService{
		resolver: resolver{repo: repo, cache: cache, cacheTTL: ttl},
		calc:     calc,
	}
}

func (s *QuoteService) Quote(ctx context.Context, lines []CartLine, opts domain.PricingOptions) (domain.PricingBreakdown, error) {
	selected, err := s.resolveCart(ctx, lines)
	if err != nil {
		return domain.PricingBreakdown{}, err
	}
	return s.calc.CalculatePrice(selected, opts), nil
}

// Runtime rule management, forwarded to the calculator's guarded state.

func (s *QuoteService) AddRule(r domain.PricingRule)                  { s.calc.AddRule(r) }
func (s *QuoteService) AddCombination(c domain.ServiceCombination)    { s.calc.AddCombination(c) }
func (s *QuoteService) SetTaxRate(rate float64)                       { s.calc.SetTaxRate(rate) }
func (s *QuoteService) SetCurrency(code string)                       { s.calc.SetCurrency(code) }
func (s *QuoteService) FormatCurrency(amount float64, code string) string {
	return s.calc.FormatCurrency(amount, code)
}

package domain_test

import (
	"errors"
	"testing"

	"atlas_tours/internal/domain"
)

func validLine() domain.SelectedService {
	return domain.SelectedService{
		Service: domain.Service{
			ID:        "svc-1",
			Name:      "Harbour Hotel",
			Category:  domain.CategoryAccommodation,
			BasePrice: 80,
			PriceType: domain.PricePerPerson,
		},
		Quantity:     1,
		Participants: 2,
	}
}

func TestValidateCart(t *testing.T) {
	if err := domain.ValidateCart([]domain.SelectedService{validLine()}); err != nil {
		t.Fatalf("valid cart rejected: %v", err)
	}
	if err := domain.ValidateCart(nil); err != nil {
		t.Fatalf("empty cart rejected: %v", err)
	}

	cases := map[string]func(*domain.SelectedService){
		"zero quantity":     func(l *domain.SelectedService) { l.Quantity = 0 },
		"negative quantity": func(l *domain.SelectedService) { l.Quantity = -1 },
		"zero participants": func(l *domain.SelectedService) { l.Participants = 0 },
		"bad category":      func(l *domain.SelectedService) { l.Service.Category = "spa" },
		"bad price type":    func(l *domain.SelectedService) { l.Service.PriceType = "per_hour" },
	}
	for name, mutate := range cases {
		l := validLine()
		mutate(&l)
		err := domain.ValidateCart([]domain.SelectedService{l})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestServiceHasTag(t *testing.T) {
	svc := domain.Service{Tags: []string{"summer", "small-group"}}
	if !svc.HasTag("summer") || svc.HasTag("winter") {
		t.Fatalf("HasTag misbehaved for %v", svc.Tags)
	}
}

func TestCategoryAndPriceTypeValid(t *testing.T) {
	for _, c := range []domain.Category{
		domain.CategoryAccommodation, domain.CategoryTransport, domain.CategoryActivity,
		domain.CategoryMeal, domain.CategoryGuide,
	} {
		if !c.Valid() {
			t.Errorf("category %q should be valid", c)
		}
	}
	if domain.Category("cruise").Valid() {
		t.Error("unknown category accepted")
	}
	for _, p := range []domain.PriceType{
		domain.PricePerPerson, domain.PricePerGroup, domain.PricePerDay, domain.PriceFixed,
	} {
		if !p.Valid() {
			t.Errorf("price type %q should be valid", p)
		}
	}
	if domain.PriceType("per_km").Valid() {
		t.Error("unknown price type accepted")
	}
}

package recommend_test

import (
	"fmt"
	"math"
	"testing"
	"time"

	"atlas_tours/internal/domain"
	"atlas_tours/internal/recommend"
)

func fixtureCatalog() []domain.Service {
	return []domain.Service{
		{ID: "acc-standard", Name: "Harbour Hotel", Category: domain.CategoryAccommodation, BasePrice: 80, PriceType: domain.PricePerPerson, Rating: 4.4, Popularity: 0.6, Location: "Lisbon", Tags: []string{"standard"}},
		{ID: "acc-luxury", Name: "Palace Hotel", Category: domain.CategoryAccommodation, BasePrice: 150, PriceType: domain.PricePerPerson, Rating: 4.8, Popularity: 0.5, Location: "Lisbon", Tags: []string{"luxury"}},
		{ID: "trans-shuttle", Name: "Airport Shuttle", Category: domain.CategoryTransport, BasePrice: 40, PriceType: domain.PricePerGroup, Rating: 4.5, Popularity: 0.9, Location: "Lisbon", Tags: []string{"year-round"}},
		{ID: "meal-tasting", Name: "Tasting Menu", Category: domain.CategoryMeal, BasePrice: 60, PriceType: domain.PricePerPerson, Rating: 4.1, Popularity: 0.4, Location: "Porto"},
		{ID: "act-surf", Name: "Surf Lesson", Category: domain.CategoryActivity, BasePrice: 90, PriceType: domain.PricePerPerson, Rating: 4.6, Popularity: 0.8, Location: "Lisbon", Tags: []string{"summer"}},
		{ID: "act-walk", Name: "Old Town Walk", Category: domain.CategoryActivity, BasePrice: 30, PriceType: domain.PricePerPerson, Rating: 4.0, Popularity: 0.3, Location: "Lisbon", Tags: []string{"spring", "small-group"}},
		{ID: "guide-local", Name: "Local Guide", Category: domain.CategoryGuide, BasePrice: 70, PriceType: domain.PricePerDay, Rating: 4.9, Popularity: 0.95, Location: "Lisbon"},
	}
}

func line(svc domain.Service, participants int) domain.SelectedService {
	return domain.SelectedService{Service: svc, Quantity: 1, Participants: participants}
}

func findRec(recs []domain.Recommendation, id string) (domain.Recommendation, bool) {
	for _, r := range recs {
		if r.Service.ID == id {
			return r, true
		}
	}
	return domain.Recommendation{}, false
}

func TestRecommendations_ComplementaryForAccommodation(t *testing.T) {
	catalog := fixtureCatalog()
	eng := recommend.NewEngine(catalog)

	cart := []domain.SelectedService{line(catalog[0], 2)} // acc-standard
	recs := eng.Recommendations(cart, domain.RecommendationOptions{Participants: 2})

	shuttle, ok := findRec(recs, "trans-shuttle")
	if !ok {
		t.Fatalf("expected shuttle among recommendations: %+v", recs)
	}
	if shuttle.Type != domain.RecComplementary {
		t.Fatalf("shuttle type: %s", shuttle.Type)
	}
	// rating bonus + same location + comparable price on top of the 0.5 base
	if math.Abs(shuttle.Confidence-0.95) > 1e-9 {
		t.Fatalf("shuttle confidence: %v", shuttle.Confidence)
	}

	meal, ok := findRec(recs, "meal-tasting")
	if !ok {
		t.Fatalf("expected meal among recommendations: %+v", recs)
	}
	if meal.Confidence < 0.5 {
		t.Fatalf("complementary confidence below base: %v", meal.Confidence)
	}
	if recs[0].Service.ID != "trans-shuttle" {
		t.Fatalf("expected shuttle ranked first, got %s", recs[0].Service.ID)
	}
	for _, r := range recs {
		if r.BundleDiscount != 0 {
			t.Fatalf("single-line cart must not carry a bundle discount: %+v", r)
		}
	}
}

func TestRecommendations_BundleDiscountGrowsWithCart(t *testing.T) {
	catalog := fixtureCatalog()
	eng := recommend.NewEngine(catalog)

	cart := []domain.SelectedService{line(catalog[0], 2), line(catalog[4], 2), line(catalog[6], 2)}
	recs := eng.Recommendations(cart, domain.RecommendationOptions{Participants: 2})

	for _, r := range recs {
		if r.Type == domain.RecComplementary && r.BundleDiscount != 10 {
			t.Fatalf("three-line cart should offer 10%% bundle discount, got %+v", r)
		}
	}
}

func TestRecommendations_NeverSuggestsSelectedAndCapsAtEight(t *testing.T) {
	selected := domain.Service{ID: "act-base", Name: "Base Tour", Category: domain.CategoryActivity, BasePrice: 100, PriceType: domain.PricePerPerson, Rating: 4.0}
	catalog := []domain.Service{selected}
	for i := 0; i < 12; i++ {
		catalog = append(catalog, domain.Service{
			ID:        fmt.Sprintf("act-alt-%d", i),
			Name:      fmt.Sprintf("Alt Tour %d", i),
			Category:  domain.CategoryActivity,
			BasePrice: 50,
			PriceType: domain.PricePerPerson,
			Rating:    4.0,
		})
	}
	eng := recommend.NewEngine(catalog)

	recs := eng.Recommendations([]domain.SelectedService{line(selected, 2)}, domain.RecommendationOptions{Participants: 2})

	if len(recs) != 8 {
		t.Fatalf("expected cap at 8, got %d", len(recs))
	}
	for _, r := range recs {
		if r.Service.ID == "act-base" {
			t.Fatalf("recommended a service already in the cart")
		}
		if r.Confidence < 0 || r.Confidence > 1 {
			t.Fatalf("confidence out of range: %v", r.Confidence)
		}
	}
}

func TestRecommendations_UpgradeRespectsBudget(t *testing.T) {
	catalog := fixtureCatalog()
	eng := recommend.NewEngine(catalog)
	cart := []domain.SelectedService{line(catalog[0], 2)} // acc-standard at 80

	recs := eng.Recommendations(cart, domain.RecommendationOptions{Participants: 2, Budget: 1000})
	lux, ok := findRec(recs, "acc-luxury")
	if !ok || lux.Type != domain.RecUpgrade {
		t.Fatalf("expected luxury upgrade with a roomy budget: %+v", recs)
	}

	// The 70 price delta exceeds 20% of a 100 budget.
	recs = eng.Recommendations(cart, domain.RecommendationOptions{Participants: 2, Budget: 100})
	if _, ok := findRec(recs, "acc-luxury"); ok {
		t.Fatalf("upgrade should be withheld on a tight budget: %+v", recs)
	}
}

func TestRecommendations_SeasonalOnlySurfacesWithTripDate(t *testing.T) {
	guide := domain.Service{ID: "guide-1", Name: "Guide", Category: domain.CategoryGuide, BasePrice: 70, Rating: 4.2, Popularity: 0.3}
	picnic := domain.Service{ID: "meal-picnic", Name: "Beach Picnic", Category: domain.CategoryMeal, BasePrice: 45, Rating: 3.9, Popularity: 0.2, Tags: []string{"summer"}}
	eng := recommend.NewEngine([]domain.Service{guide, picnic})
	cart := []domain.SelectedService{line(guide, 2)}

	recs := eng.Recommendations(cart, domain.RecommendationOptions{Participants: 2})
	if _, ok := findRec(recs, "meal-picnic"); ok {
		t.Fatalf("summer pick surfaced without a trip date: %+v", recs)
	}

	july := time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC)
	recs = eng.Recommendations(cart, domain.RecommendationOptions{Participants: 2, TripStartDate: &july})
	pick, ok := findRec(recs, "meal-picnic")
	if !ok {
		t.Fatalf("expected seasonal pick for a July trip: %+v", recs)
	}
	if pick.Type != domain.RecSeasonal || math.Abs(pick.Confidence-0.6) > 1e-9 {
		t.Fatalf("seasonal rec: %+v", pick)
	}
}

func TestRecommendations_AlternativeCarriesSavings(t *testing.T) {
	catalog := fixtureCatalog()
	eng := recommend.NewEngine(catalog)
	cart := []domain.SelectedService{line(catalog[1], 2)} // acc-luxury at 150

	recs := eng.Recommendations(cart, domain.RecommendationOptions{Participants: 2})
	alt, ok := findRec(recs, "acc-standard")
	if !ok || alt.Type != domain.RecAlternative {
		t.Fatalf("expected cheaper accommodation as alternative: %+v", recs)
	}
	if math.Abs(alt.PotentialSavings-70) > 1e-9 {
		t.Fatalf("savings: %v", alt.PotentialSavings)
	}
	// savings weigh into the ranking, so it should lead
	if recs[0].Service.ID != "acc-standard" {
		t.Fatalf("expected alternative ranked first, got %s", recs[0].Service.ID)
	}
}

func TestRecommendations_GroupSizeFiltersTaggedServices(t *testing.T) {
	catalog := fixtureCatalog()
	eng := recommend.NewEngine(catalog)
	cart := []domain.SelectedService{line(catalog[2], 8)} // shuttle, party of 8

	recs := eng.Recommendations(cart, domain.RecommendationOptions{Participants: 8})
	if _, ok := findRec(recs, "act-walk"); ok {
		t.Fatalf("small-group walk offered to a party of 8: %+v", recs)
	}
	if _, ok := findRec(recs, "act-surf"); !ok {
		t.Fatalf("untagged activity should still surface: %+v", recs)
	}
}

func TestRecommendations_ConflictingTagsSkipped(t *testing.T) {
	hostel := domain.Service{ID: "acc-hostel", Name: "City Hostel", Category: domain.CategoryAccommodation, BasePrice: 25, Rating: 4.1, Tags: []string{"budget"}}
	limo := domain.Service{ID: "trans-limo", Name: "Limo Transfer", Category: domain.CategoryTransport, BasePrice: 120, Rating: 4.9, Popularity: 0.9, Tags: []string{"luxury"}}
	eng := recommend.NewEngine([]domain.Service{hostel, limo})

	recs := eng.Recommendations([]domain.SelectedService{line(hostel, 2)}, domain.RecommendationOptions{Participants: 2})
	if _, ok := findRec(recs, "trans-limo"); ok {
		t.Fatalf("luxury transfer suggested next to a budget stay: %+v", recs)
	}
}

func TestRecommendations_PopularPass(t *testing.T) {
	catalog := fixtureCatalog()
	eng := recommend.NewEngine(catalog)
	cart := []domain.SelectedService{line(catalog[3], 2)} // meal-tasting

	recs := eng.Recommendations(cart, domain.RecommendationOptions{Participants: 2})
	guide, ok := findRec(recs, "guide-local")
	if !ok {
		t.Fatalf("expected the top-rated guide to surface: %+v", recs)
	}
	want := 0.95*0.8 + 4.9/5*0.2
	if guide.Type != domain.RecPopular || math.Abs(guide.Confidence-want) > 1e-9 {
		t.Fatalf("popular rec: %+v", guide)
	}
}

func TestRecommendations_EmptyCatalog(t *testing.T) {
	eng := recommend.NewEngine(nil)
	cart := []domain.SelectedService{line(fixtureCatalog()[0], 2)}
	if recs := eng.Recommendations(cart, domain.RecommendationOptions{Participants: 2}); len(recs) != 0 {
		t.Fatalf("no catalog, no recommendations: %+v", recs)
	}

	eng.UpdateServices(fixtureCatalog())
	if recs := eng.Recommendations(cart, domain.RecommendationOptions{Participants: 2}); len(recs) == 0 {
		t.Fatal("expected recommendations after catalog refresh")
	}
}

func TestPackageUpgrades(t *testing.T) {
	catalog := fixtureCatalog()
	eng := recommend.NewEngine(catalog)

	cart := []domain.SelectedService{line(catalog[0], 2), line(catalog[2], 2)} // stay + shuttle
	ups := eng.PackageUpgrades(cart, domain.RecommendationOptions{Participants: 2})
	if len(ups) != 1 {
		t.Fatalf("expected one package offer, got %+v", ups)
	}
	pkg := ups[0]
	if pkg.Name != "Complete Experience Package" {
		t.Fatalf("package name: %s", pkg.Name)
	}
	if len(pkg.Services) != 3 {
		t.Fatalf("expected activity, meal and guide additions, got %+v", pkg.Services)
	}
	// 80 + 40 in the cart, plus surf (90), tasting (60) and guide (70)
	if math.Abs(pkg.OriginalPrice-340) > 1e-9 {
		t.Fatalf("original price: %v", pkg.OriginalPrice)
	}
	if math.Abs(pkg.PackagePrice-289) > 1e-9 {
		t.Fatalf("package price: %v", pkg.PackagePrice)
	}
	if math.Abs(pkg.Savings-51) > 1e-9 {
		t.Fatalf("savings: %v", pkg.Savings)
	}
}

func TestPackageUpgrades_CartSizeBounds(t *testing.T) {
	catalog := fixtureCatalog()
	eng := recommend.NewEngine(catalog)

	one := []domain.SelectedService{line(catalog[0], 2)}
	if ups := eng.PackageUpgrades(one, domain.RecommendationOptions{Participants: 2}); ups != nil {
		t.Fatalf("single-line cart should not get a package: %+v", ups)
	}

	five := []domain.SelectedService{
		line(catalog[0], 2), line(catalog[2], 2), line(catalog[3], 2), line(catalog[4], 2), line(catalog[6], 2),
	}
	if ups := eng.PackageUpgrades(five, domain.RecommendationOptions{Participants: 2}); ups != nil {
		t.Fatalf("full cart should not get a package: %+v", ups)
	}
}

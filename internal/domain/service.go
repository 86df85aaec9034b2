package domain

import "time"

type Category string

const (
	CategoryAccommodation Category = "accommodation"
	CategoryTransport     Category = "transport"
	CategoryActivity      Category = "activity"
	CategoryGuide         Category = "guide"
	CategoryMeal          Category = "meal"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryAccommodation, CategoryTransport, CategoryActivity, CategoryGuide, CategoryMeal:
		return true
	}
	return false
}

type PriceType string

const (
	PricePerPerson PriceType = "per_person"
	PricePerGroup  PriceType = "per_group"
	PricePerDay    PriceType = "per_day"
	PriceFixed     PriceType = "fixed"
)

func (p PriceType) Valid() bool {
	switch p {
	case PricePerPerson, PricePerGroup, PricePerDay, PriceFixed:
		return true
	}
	return false
}

// Service is a catalog item. Reference data owned by the catalog feed;
// the engines only read it. Optional numerics stay zero when the feed
// doesn't provide them.
type Service struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	BasePrice   float64  `json:"base_price"`
	PriceType   PriceType `json:"price_type"`
	Location    string   `json:"location,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
	Rating      float64  `json:"rating,omitempty"`      // 0..5
	ReviewCount int      `json:"review_count,omitempty"`
	Popularity  float64  `json:"popularity,omitempty"` // 0..1
	Tags        []string `json:"tags,omitempty"`
}

func (s Service) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// SelectedService is one cart line, owned by the booking caller and
// passed by value into engine calls.
type SelectedService struct {
	Service      Service    `json:"service"`
	Quantity     int        `json:"quantity"`
	Participants int        `json:"participants"`
	ServiceDate  *time.Time `json:"service_date,omitempty"`
}

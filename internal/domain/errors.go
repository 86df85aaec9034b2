package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// ValidateCart rejects cart lines the engines have no defined behavior for.
// The reference UI never produced these, so they fail fast at the boundary
// instead of yielding nonsensical totals.
func ValidateCart(selected []SelectedService) error {
	for i, line := range selected {
		if line.Quantity <= 0 {
			return fmt.Errorf("%w: line %d: quantity must be positive, got %d", ErrInvalidInput, i, line.Quantity)
		}
		if line.Participants <= 0 {
			return fmt.Errorf("%w: line %d: participants must be positive, got %d", ErrInvalidInput, i, line.Participants)
		}
		if !line.Service.Category.Valid() {
			return fmt.Errorf("%w: line %d: unknown category %q", ErrInvalidInput, i, line.Service.Category)
		}
		if !line.Service.PriceType.Valid() {
			return fmt.Errorf("%w: line %d: unknown price type %q", ErrInvalidInput, i, line.Service.PriceType)
		}
	}
	return nil
}

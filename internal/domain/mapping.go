package domain

import "strings"

// MappingStatus is the review state of a product_map row.
type MappingStatus string

const (
	MappingNeedsReview MappingStatus = "needs_review"
	MappingVerified    MappingStatus = "verified"
)

// ProductMapping resolves a checkout product id to a base inventory product.
type ProductMapping struct {
	ProductID       string        `json:"product_id" db:"product_id"`
	OfferName       string        `json:"offer_name" db:"offer_name"`
	BaseProduct     *string       `json:"base_product" db:"base_product"`
	UnitsPerVariant int64         `json:"units_per_variant" db:"units_per_variant"`
	Status          MappingStatus `json:"status" db:"status"`
}

// Base returns the mapped base product, or an empty string.
func (m ProductMapping) Base() string {
	if m.BaseProduct == nil {
		return ""
	}
	return *m.BaseProduct
}

// Units returns units per variant, never less than one.
func (m ProductMapping) Units() int64 {
	if m.UnitsPerVariant < 1 {
		return 1
	}
	return m.UnitsPerVariant
}

// PendingMapping holds the values a reviewer has typed for one unmapped row.
type PendingMapping struct {
	BaseProduct     string `json:"base_product"`
	UnitsPerVariant int64  `json:"units_per_variant"`
}

// PendingEdits is keyed by product id.
type PendingEdits map[string]PendingMapping

// Verify applies a pending edit and moves the mapping to verified.
// There is no transition back to needs_review.
func (m *ProductMapping) Verify(edit PendingMapping) error {
	if m.Status == MappingVerified {
		return ErrAlreadyVerified
	}

	base := strings.TrimSpace(edit.BaseProduct)
	if base == "" || edit.UnitsPerVariant < 1 {
		return ErrInvalidMapping
	}

	m.BaseProduct = &base
	m.UnitsPerVariant = edit.UnitsPerVariant
	m.Status = MappingVerified
	return nil
}

// NewDiscoveredMapping builds the row inserted when a sync sees an unknown product id.
func NewDiscoveredMapping(productID, offerName string) ProductMapping {
	return ProductMapping{
		ProductID:       productID,
		OfferName:       offerName,
		UnitsPerVariant: 1,
		Status:          MappingNeedsReview,
	}
}

package domain

import "errors"

var (
	ErrInvalidBatch     = errors.New("base product, unit cost and quantity are required")
	ErrInvalidMapping   = errors.New("base product and units per variant are required")
	ErrAlreadyVerified  = errors.New("product mapping is already verified")
	ErrNoPendingEdit    = errors.New("no pending edit for product")
	ErrMappingNotFound  = errors.New("product mapping not found")
	ErrInsightNotFound  = errors.New("no insight generated yet")
	ErrSuperseded       = errors.New("fetch superseded by a newer request")
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrViewUnavailable  = errors.New("view data unavailable")
)

package apperr

import "github.com/tuanvumaihuynh/brewery-api/pkg/zerror"

const (
	ValidationErrorCode  = "validationError"
	CustomerNotFoundCode = "CUSTOMER_NOT_FOUND"
	BeerNotFoundCode     = "BEER_NOT_FOUND"
)

var (
	ValidationErr       = zerror.NewValidationFailed(ValidationErrorCode, "validation error")
	CustomerNotFoundErr = zerror.NewNotFound(CustomerNotFoundCode, "customer not found")
	BeerNotFoundErr     = zerror.NewNotFound(BeerNotFoundCode, "beer not found")
)

package dto

import "github.com/shopspring/decimal"

// BeerDTO is the transport shape of a beer.
//
// Nil pointers mean "not supplied": they fail the validate tags on create and
// replace and are skipped by patch. Price is bounded by the NUMERIC(19,2) column.
type BeerDTO struct {
	ID               int32            `json:"id"`
	BeerName         string           `json:"beerName"                   validate:"required,notblank,max=255" patch:"max=255"`
	BeerStyle        string           `json:"beerStyle"                  validate:"required,notblank,max=255" patch:"max=255"`
	UPC              string           `json:"upc"                        validate:"required,notblank,max=25"  patch:"max=25"`
	QuantityOnHand   *int32           `json:"quantityOnHand,omitempty"   validate:"omitempty,gte=0"           patch:"omitempty,gte=0"`
	Price            *decimal.Decimal `json:"price,omitempty"            validate:"required,gte=0,lt=100000000000000000" patch:"omitempty,gte=0,lt=100000000000000000"`
	CreatedDate      *LocalDateTime   `json:"createdDate,omitempty"`
	LastModifiedDate *LocalDateTime   `json:"lastModifiedDate,omitempty"`
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Beer struct {
	ID               int32           `db:"id"`
	BeerName         string          `db:"beer_name"`
	BeerStyle        string          `db:"beer_style"`
	UPC              string          `db:"upc"`
	QuantityOnHand   *int32          `db:"quantity_on_hand"`
	Price            decimal.Decimal `db:"price"`
	CreatedDate      time.Time       `db:"created_date"`
	LastModifiedDate time.Time       `db:"last_modified_date"`
}

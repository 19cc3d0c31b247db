package mapper

import (
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/brewery-api/internal/dto"
	"github.com/tuanvumaihuynh/brewery-api/internal/model"
	"github.com/tuanvumaihuynh/brewery-api/pkg/ptr"
)

func BeerToDTO(b model.Beer) dto.BeerDTO {
	price := b.Price
	return dto.BeerDTO{
		ID:               b.ID,
		BeerName:         b.BeerName,
		BeerStyle:        b.BeerStyle,
		UPC:              b.UPC,
		QuantityOnHand:   b.QuantityOnHand,
		Price:            &price,
		CreatedDate:      dto.NewLocalDateTime(b.CreatedDate),
		LastModifiedDate: dto.NewLocalDateTime(b.LastModifiedDate),
	}
}

func BeerFromDTO(d dto.BeerDTO) model.Beer {
	b := model.Beer{
		ID:             d.ID,
		BeerName:       d.BeerName,
		BeerStyle:      d.BeerStyle,
		UPC:            d.UPC,
		QuantityOnHand: d.QuantityOnHand,
		Price:          ptr.Deref(d.Price, decimal.Zero),
	}
	if d.CreatedDate != nil {
		b.CreatedDate = d.CreatedDate.Time
	}
	if d.LastModifiedDate != nil {
		b.LastModifiedDate = d.LastModifiedDate.Time
	}
	return b
}

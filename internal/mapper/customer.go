package mapper

import (
	"github.com/tuanvumaihuynh/brewery-api/internal/dto"
	"github.com/tuanvumaihuynh/brewery-api/internal/model"
)

func CustomerToDTO(c model.Customer) dto.CustomerDTO {
	return dto.CustomerDTO{
		ID:               c.ID,
		CustomerName:     c.CustomerName,
		CreatedDate:      dto.NewLocalDateTime(c.CreatedDate),
		LastModifiedDate: dto.NewLocalDateTime(c.LastModifiedDate),
	}
}

func CustomerFromDTO(d dto.CustomerDTO) model.Customer {
	c := model.Customer{
		ID:           d.ID,
		CustomerName: d.CustomerName,
	}
	if d.CreatedDate != nil {
		c.CreatedDate = d.CreatedDate.Time
	}
	if d.LastModifiedDate != nil {
		c.LastModifiedDate = d.LastModifiedDate.Time
	}
	return c
}

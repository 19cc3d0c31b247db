// Package seed loads the sample customers and beers into an empty store.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/brewery-api/internal/dto"
	"github.com/tuanvumaihuynh/brewery-api/internal/service"
	"github.com/tuanvumaihuynh/brewery-api/pkg/ptr"
)

var Customers = []dto.CustomerDTO{
	{CustomerName: "Customer 1"},
	{CustomerName: "Customer 2"},
	{CustomerName: "Customer 3"},
}

var Beers = []dto.BeerDTO{
	{
		BeerName:       "Galaxy Cat",
		BeerStyle:      "PALE_ALE",
		UPC:            "12356",
		Price:          ptr.New(decimal.RequireFromString("12.99")),
		QuantityOnHand: ptr.New(int32(122)),
	},
	{
		BeerName:       "Crank",
		BeerStyle:      "PALE_ALE",
		UPC:            "12356222",
		Price:          ptr.New(decimal.RequireFromString("11.99")),
		QuantityOnHand: ptr.New(int32(392)),
	},
	{
		BeerName:       "Sunshine City",
		BeerStyle:      "IPA",
		UPC:            "12356",
		Price:          ptr.New(decimal.RequireFromString("13.99")),
		QuantityOnHand: ptr.New(int32(144)),
	},
}

// Run creates the sample rows for each resource whose table is empty.
func Run(ctx context.Context, logger *slog.Logger, customerSvc service.CustomerService, beerSvc service.BeerService) error {
	customers, err := customerSvc.ListCustomers(ctx)
	if err != nil {
		return fmt.Errorf("customer service list customers: %w", err)
	}
	if len(customers) == 0 {
		for _, c := range Customers {
			if _, err := customerSvc.CreateCustomer(ctx, c); err != nil {
				return fmt.Errorf("customer service create customer: %w", err)
			}
		}
		logger.InfoContext(ctx, "seeded customers", slog.Int("count", len(Customers)))
	}

	beers, err := beerSvc.ListBeers(ctx)
	if err != nil {
		return fmt.Errorf("beer service list beers: %w", err)
	}
	if len(beers) == 0 {
		for _, b := range Beers {
			if _, err := beerSvc.CreateBeer(ctx, b); err != nil {
				return fmt.Errorf("beer service create beer: %w", err)
			}
		}
		logger.InfoContext(ctx, "seeded beers", slog.Int("count", len(Beers)))
	}

	return nil
}

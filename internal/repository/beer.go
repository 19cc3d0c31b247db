package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/samber/mo"

	"github.com/tuanvumaihuynh/brewery-api/internal/model"
	"github.com/tuanvumaihuynh/brewery-api/internal/storage/db"
)

type BeerRepository interface {
	WithDB(db db.DB) BeerRepository
	ListBeers(ctx context.Context) ([]model.Beer, error)
	FindBeerByID(ctx context.Context, id int32) (mo.Option[model.Beer], error)
	// SaveBeer inserts the beer when its ID is zero and updates it otherwise.
	// Updating a missing row returns ErrNotFound.
	SaveBeer(ctx context.Context, beer model.Beer) (model.Beer, error)
	// DeleteBeerByID reports whether a row was removed.
	DeleteBeerByID(ctx context.Context, id int32) (bool, error)
}

type beerRepository struct {
	db db.DB
}

func NewBeerRepository(db db.DB) BeerRepository {
	return &beerRepository{
		db: db,
	}
}

func (r beerRepository) WithDB(db db.DB) BeerRepository {
	return &beerRepository{
		db: db,
	}
}

const beerColumns = `id, beer_name, beer_style, upc, quantity_on_hand, price, created_date, last_modified_date`

func (r beerRepository) ListBeers(ctx context.Context) ([]model.Beer, error) {
	rows, err := r.db.Query(ctx, `SELECT `+beerColumns+` FROM beer ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query beers: %w", err)
	}

	beers, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Beer])
	if err != nil {
		return nil, fmt.Errorf("collect beers: %w", err)
	}

	return beers, nil
}

func (r beerRepository) FindBeerByID(ctx context.Context, id int32) (mo.Option[model.Beer], error) {
	rows, err := r.db.Query(ctx, `SELECT `+beerColumns+` FROM beer WHERE id = @id`, pgx.NamedArgs{
		"id": id,
	})
	if err != nil {
		return mo.None[model.Beer](), fmt.Errorf("query beer: %w", err)
	}

	beer, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Beer])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mo.None[model.Beer](), nil
		}
		return mo.None[model.Beer](), fmt.Errorf("collect beer: %w", err)
	}

	return mo.Some(beer), nil
}

func (r beerRepository) SaveBeer(ctx context.Context, beer model.Beer) (model.Beer, error) {
	if beer.ID == 0 {
		return r.insertBeer(ctx, beer)
	}
	return r.updateBeer(ctx, beer)
}

func (r beerRepository) insertBeer(ctx context.Context, beer model.Beer) (model.Beer, error) {
	rows, err := r.db.Query(ctx, `
		INSERT INTO beer (beer_name, beer_style, upc, quantity_on_hand, price)
		VALUES (@beer_name, @beer_style, @upc, @quantity_on_hand, @price)
		RETURNING `+beerColumns, beerArgs(beer))
	if err != nil {
		return model.Beer{}, fmt.Errorf("insert beer: %w", err)
	}

	saved, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Beer])
	if err != nil {
		return model.Beer{}, fmt.Errorf("collect inserted beer: %w", err)
	}

	return saved, nil
}

func (r beerRepository) updateBeer(ctx context.Context, beer model.Beer) (model.Beer, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE beer
		SET
			beer_name          = @beer_name,
			beer_style         = @beer_style,
			upc                = @upc,
			quantity_on_hand   = @quantity_on_hand,
			price              = @price,
			last_modified_date = NOW() AT TIME ZONE 'UTC'
		WHERE id = @id
		RETURNING `+beerColumns, beerArgs(beer))
	if err != nil {
		return model.Beer{}, fmt.Errorf("update beer: %w", err)
	}

	saved, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Beer])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Beer{}, ErrNotFound
		}
		return model.Beer{}, fmt.Errorf("collect updated beer: %w", err)
	}

	return saved, nil
}

func (r beerRepository) DeleteBeerByID(ctx context.Context, id int32) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM beer WHERE id = @id`, pgx.NamedArgs{
		"id": id,
	})
	if err != nil {
		return false, fmt.Errorf("delete beer: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func beerArgs(beer model.Beer) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":               beer.ID,
		"beer_name":        beer.BeerName,
		"beer_style":       beer.BeerStyle,
		"upc":              beer.UPC,
		"quantity_on_hand": beer.QuantityOnHand,
		"price":            beer.Price,
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/brewery-api/internal/dto"
	"github.com/tuanvumaihuynh/brewery-api/internal/event"
	"github.com/tuanvumaihuynh/brewery-api/internal/mapper"
	"github.com/tuanvumaihuynh/brewery-api/internal/model"
	"github.com/tuanvumaihuynh/brewery-api/internal/repository"
	"github.com/tuanvumaihuynh/brewery-api/internal/storage/db"
	"github.com/tuanvumaihuynh/brewery-api/pkg/ptr"
)

type BeerService interface {
	ListBeers(ctx context.Context) ([]dto.BeerDTO, error)
	GetBeerByID(ctx context.Context, id int32) (mo.Option[dto.BeerDTO], error)
	CreateBeer(ctx context.Context, beer dto.BeerDTO) (dto.BeerDTO, error)
	// UpdateBeer replaces every mutable field. It returns None when the beer does not exist.
	UpdateBeer(ctx context.Context, id int32, beer dto.BeerDTO) (mo.Option[dto.BeerDTO], error)
	// PatchBeer copies only supplied, non-blank fields. It returns None when the beer does not exist.
	PatchBeer(ctx context.Context, id int32, beer dto.BeerDTO) (mo.Option[dto.BeerDTO], error)
	// DeleteBeerByID does not check that the beer exists.
	DeleteBeerByID(ctx context.Context, id int32) error
}

type beerService struct {
	db            db.DB
	beerRepo      repository.BeerRepository
	outboxMsgRepo repository.OutboxMsgRepository
}

func NewBeerService(
	db db.DB,
	beerRepo repository.BeerRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) BeerService {
	return &beerService{
		db:            db,
		beerRepo:      beerRepo,
		outboxMsgRepo: outboxMsgRepo,
	}
}

func (s *beerService) ListBeers(ctx context.Context) ([]dto.BeerDTO, error) {
	beers, err := s.beerRepo.ListBeers(ctx)
	if err != nil {
		return nil, fmt.Errorf("beer repository list beers: %w", err)
	}

	return lo.Map(beers, func(b model.Beer, _ int) dto.BeerDTO {
		return mapper.BeerToDTO(b)
	}), nil
}

func (s *beerService) GetBeerByID(ctx context.Context, id int32) (mo.Option[dto.BeerDTO], error) {
	found, err := s.beerRepo.FindBeerByID(ctx, id)
	if err != nil {
		return mo.None[dto.BeerDTO](), fmt.Errorf("beer repository find beer by id: %w", err)
	}

	beer, ok := found.Get()
	if !ok {
		return mo.None[dto.BeerDTO](), nil
	}

	return mo.Some(mapper.BeerToDTO(beer)), nil
}

func (s *beerService) CreateBeer(ctx context.Context, d dto.BeerDTO) (dto.BeerDTO, error) {
	// The store assigns the id and timestamps.
	beer := mapper.BeerFromDTO(d)
	beer.ID = 0
	beer.CreatedDate = time.Time{}
	beer.LastModifiedDate = time.Time{}

	var saved model.Beer
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		var err error
		saved, err = s.beerRepo.
			WithDB(db).
			SaveBeer(ctx, beer)
		if err != nil {
			return fmt.Errorf("beer repository save beer: %w", err)
		}

		return writeEvent(ctx, s.outboxMsgRepo.WithDB(db), event.TopicBeerCreated, saved.ID, beerEvent(saved))
	}); err != nil {
		return dto.BeerDTO{}, fmt.Errorf("db with tx: %w", err)
	}

	return mapper.BeerToDTO(saved), nil
}

func (s *beerService) UpdateBeer(ctx context.Context, id int32, d dto.BeerDTO) (mo.Option[dto.BeerDTO], error) {
	return s.modifyBeer(ctx, id, func(found *model.Beer) {
		found.BeerName = d.BeerName
		found.BeerStyle = d.BeerStyle
		found.UPC = d.UPC
		found.QuantityOnHand = d.QuantityOnHand
		found.Price = ptr.Deref(d.Price, decimal.Zero)
	})
}

func (s *beerService) PatchBeer(ctx context.Context, id int32, d dto.BeerDTO) (mo.Option[dto.BeerDTO], error) {
	return s.modifyBeer(ctx, id, func(found *model.Beer) {
		if hasText(d.BeerName) {
			found.BeerName = d.BeerName
		}
		if hasText(d.BeerStyle) {
			found.BeerStyle = d.BeerStyle
		}
		if d.Price != nil {
			found.Price = *d.Price
		}
		if hasText(d.UPC) {
			found.UPC = d.UPC
		}
		if d.QuantityOnHand != nil {
			found.QuantityOnHand = d.QuantityOnHand
		}
	})
}

// modifyBeer loads the beer, applies merge and persists the result
// in one transaction.
func (s *beerService) modifyBeer(ctx context.Context, id int32, merge func(*model.Beer)) (mo.Option[dto.BeerDTO], error) {
	result := mo.None[dto.BeerDTO]()

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		beerRepo := s.beerRepo.WithDB(db)

		found, err := beerRepo.FindBeerByID(ctx, id)
		if err != nil {
			return fmt.Errorf("beer repository find beer by id: %w", err)
		}

		beer, ok := found.Get()
		if !ok {
			return nil
		}

		merge(&beer)

		saved, err := beerRepo.SaveBeer(ctx, beer)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("beer repository save beer: %w", err)
		}

		if err := writeEvent(ctx, s.outboxMsgRepo.WithDB(db), event.TopicBeerUpdated, saved.ID, beerEvent(saved)); err != nil {
			return err
		}

		result = mo.Some(mapper.BeerToDTO(saved))
		return nil
	}); err != nil {
		return mo.None[dto.BeerDTO](), fmt.Errorf("db with tx: %w", err)
	}

	return result, nil
}

func (s *beerService) DeleteBeerByID(ctx context.Context, id int32) error {
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		deleted, err := s.beerRepo.
			WithDB(db).
			DeleteBeerByID(ctx, id)
		if err != nil {
			return fmt.Errorf("beer repository delete beer by id: %w", err)
		}

		if !deleted {
			return nil
		}

		return writeEvent(ctx, s.outboxMsgRepo.WithDB(db), event.TopicBeerDeleted, id, event.BeerChangedEvent{
			BeerID: id,
		})
	}); err != nil {
		return fmt.Errorf("db with tx: %w", err)
	}

	return nil
}

func beerEvent(b model.Beer) event.BeerChangedEvent {
	return event.BeerChangedEvent{
		BeerID:         b.ID,
		BeerName:       b.BeerName,
		BeerStyle:      b.BeerStyle,
		UPC:            b.UPC,
		Price:          b.Price.StringFixed(2),
		QuantityOnHand: b.QuantityOnHand,
	}
}

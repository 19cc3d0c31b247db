package http

import (
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/brewery-api/internal/apperr"
	"github.com/tuanvumaihuynh/brewery-api/internal/dto"
	"github.com/tuanvumaihuynh/brewery-api/internal/service"
	"github.com/tuanvumaihuynh/brewery-api/pkg/validator"
)

const beerIDParam = "beerId"

type beerHandler struct {
	beerSvc   service.BeerService
	validator validator.Validator
}

func newBeerHandler(beerSvc service.BeerService, validator validator.Validator) *beerHandler {
	return &beerHandler{
		beerSvc:   beerSvc,
		validator: validator,
	}
}

func (h *beerHandler) ListBeers(w http.ResponseWriter, r *http.Request) error {
	beers, err := h.beerSvc.ListBeers(r.Context())
	if err != nil {
		return fmt.Errorf("beer service list beers: %w", err)
	}

	return writeJSON(w, http.StatusOK, beers)
}

func (h *beerHandler) GetBeerByID(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, beerIDParam)
	if err != nil {
		return err
	}

	found, err := h.beerSvc.GetBeerByID(r.Context(), id)
	if err != nil {
		return fmt.Errorf("beer service get beer by id: %w", err)
	}

	beer, ok := found.Get()
	if !ok {
		return apperr.BeerNotFoundErr
	}

	return writeJSON(w, http.StatusOK, beer)
}

func (h *beerHandler) CreateBeer(w http.ResponseWriter, r *http.Request) error {
	var body dto.BeerDTO
	if err := decodeBody(r, &body); err != nil {
		return err
	}

	if err := h.validator.Validate(body); err != nil {
		return fmt.Errorf("validate beer: %w", err)
	}

	created, err := h.beerSvc.CreateBeer(r.Context(), body)
	if err != nil {
		return fmt.Errorf("beer service create beer: %w", err)
	}

	writeCreated(w, fmt.Sprintf("%s/%d", BeerPath, created.ID))
	return nil
}

func (h *beerHandler) UpdateBeer(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, beerIDParam)
	if err != nil {
		return err
	}

	var body dto.BeerDTO
	if err := decodeBody(r, &body); err != nil {
		return err
	}

	if err := h.validator.Validate(body); err != nil {
		return fmt.Errorf("validate beer: %w", err)
	}

	updated, err := h.beerSvc.UpdateBeer(r.Context(), id, body)
	if err != nil {
		return fmt.Errorf("beer service update beer: %w", err)
	}

	if updated.IsAbsent() {
		return apperr.BeerNotFoundErr
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *beerHandler) PatchBeer(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, beerIDParam)
	if err != nil {
		return err
	}

	var body dto.BeerDTO
	if err := decodeBody(r, &body); err != nil {
		return err
	}

	if err := h.validator.ValidatePartial(body); err != nil {
		return fmt.Errorf("validate beer patch: %w", err)
	}

	patched, err := h.beerSvc.PatchBeer(r.Context(), id, body)
	if err != nil {
		return fmt.Errorf("beer service patch beer: %w", err)
	}

	if patched.IsAbsent() {
		return apperr.BeerNotFoundErr
	}

	w.WriteHeader(http.StatusOK)
	return nil
}

func (h *beerHandler) DeleteBeer(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, beerIDParam)
	if err != nil {
		return err
	}

	found, err := h.beerSvc.GetBeerByID(r.Context(), id)
	if err != nil {
		return fmt.Errorf("beer service get beer by id: %w", err)
	}

	if found.IsAbsent() {
		return apperr.BeerNotFoundErr
	}

	if err := h.beerSvc.DeleteBeerByID(r.Context(), id); err != nil {
		return fmt.Errorf("beer service delete beer by id: %w", err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

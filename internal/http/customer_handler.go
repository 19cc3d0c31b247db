package http

import (
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/brewery-api/internal/apperr"
	"github.com/tuanvumaihuynh/brewery-api/internal/dto"
	"github.com/tuanvumaihuynh/brewery-api/internal/service"
	"github.com/tuanvumaihuynh/brewery-api/pkg/validator"
)

const customerIDParam = "customerId"

type customerHandler struct {
	customerSvc service.CustomerService
	validator   validator.Validator
}

func newCustomerHandler(customerSvc service.CustomerService, validator validator.Validator) *customerHandler {
	return &customerHandler{
		customerSvc: customerSvc,
		validator:   validator,
	}
}

func (h *customerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) error {
	customers, err := h.customerSvc.ListCustomers(r.Context())
	if err != nil {
		return fmt.Errorf("customer service list customers: %w", err)
	}

	return writeJSON(w, http.StatusOK, customers)
}

func (h *customerHandler) GetCustomerByID(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, customerIDParam)
	if err != nil {
		return err
	}

	found, err := h.customerSvc.GetCustomerByID(r.Context(), id)
	if err != nil {
		return fmt.Errorf("customer service get customer by id: %w", err)
	}

	customer, ok := found.Get()
	if !ok {
		return apperr.CustomerNotFoundErr
	}

	return writeJSON(w, http.StatusOK, customer)
}

func (h *customerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) error {
	var body dto.CustomerDTO
	if err := decodeBody(r, &body); err != nil {
		return err
	}

	if err := h.validator.Validate(body); err != nil {
		return fmt.Errorf("validate customer: %w", err)
	}

	created, err := h.customerSvc.CreateCustomer(r.Context(), body)
	if err != nil {
		return fmt.Errorf("customer service create customer: %w", err)
	}

	writeCreated(w, fmt.Sprintf("%s/%d", CustomerPath, created.ID))
	return nil
}

func (h *customerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, customerIDParam)
	if err != nil {
		return err
	}

	var body dto.CustomerDTO
	if err := decodeBody(r, &body); err != nil {
		return err
	}

	if err := h.validator.Validate(body); err != nil {
		return fmt.Errorf("validate customer: %w", err)
	}

	updated, err := h.customerSvc.UpdateCustomer(r.Context(), id, body)
	if err != nil {
		return fmt.Errorf("customer service update customer: %w", err)
	}

	if updated.IsAbsent() {
		return apperr.CustomerNotFoundErr
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *customerHandler) PatchCustomer(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, customerIDParam)
	if err != nil {
		return err
	}

	var body dto.CustomerDTO
	if err := decodeBody(r, &body); err != nil {
		return err
	}

	if err := h.validator.ValidatePartial(body); err != nil {
		return fmt.Errorf("validate customer patch: %w", err)
	}

	patched, err := h.customerSvc.PatchCustomer(r.Context(), id, body)
	if err != nil {
		return fmt.Errorf("customer service patch customer: %w", err)
	}

	if patched.IsAbsent() {
		return apperr.CustomerNotFoundErr
	}

	w.WriteHeader(http.StatusOK)
	return nil
}

func (h *customerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, customerIDParam)
	if err != nil {
		return err
	}

	found, err := h.customerSvc.GetCustomerByID(r.Context(), id)
	if err != nil {
		return fmt.Errorf("customer service get customer by id: %w", err)
	}

	if found.IsAbsent() {
		return apperr.CustomerNotFoundErr
	}

	if err := h.customerSvc.DeleteCustomerByID(r.Context(), id); err != nil {
		return fmt.Errorf("customer service delete customer by id: %w", err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

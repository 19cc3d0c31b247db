// Package repotest provides in-memory repositories for tests of the layers
// above the store.
package repotest

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/tuanvumaihuynh/brewery-api/internal/model"
	"github.com/tuanvumaihuynh/brewery-api/internal/repository"
	"github.com/tuanvumaihuynh/brewery-api/internal/storage/db"
)

var (
	_ db.HealthChecker               = DB{}
	_ repository.CustomerRepository  = (*CustomerStore)(nil)
	_ repository.BeerRepository      = (*BeerStore)(nil)
	_ repository.OutboxMsgRepository = (*OutboxStore)(nil)
)

// DB runs transactions inline. Only WithTx and IsHealthy are usable.
type DB struct {
	db.DB
}

func (d DB) WithTx(_ context.Context, txFunc func(db.DB) error) error {
	return txFunc(d)
}

func (DB) IsHealthy(context.Context) (bool, error) {
	return true, nil
}

type CustomerStore struct {
	mu     sync.Mutex
	nextID int32
	rows   map[int32]model.Customer
}

func NewCustomerStore() *CustomerStore {
	return &CustomerStore{rows: map[int32]model.Customer{}}
}

func (s *CustomerStore) WithDB(db.DB) repository.CustomerRepository { return s }

func (s *CustomerStore) ListCustomers(context.Context) ([]model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	customers := lo.Values(s.rows)
	slices.SortFunc(customers, func(a, b model.Customer) int { return int(a.ID - b.ID) })
	return customers, nil
}

func (s *CustomerStore) FindCustomerByID(_ context.Context, id int32) (mo.Option[model.Customer], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.rows[id]
	return mo.TupleToOption(c, ok), nil
}

func (s *CustomerStore) SaveCustomer(_ context.Context, c model.Customer) (model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if c.ID == 0 {
		s.nextID++
		c.ID = s.nextID
		c.CreatedDate = now
	} else {
		existing, ok := s.rows[c.ID]
		if !ok {
			return model.Customer{}, repository.ErrNotFound
		}
		c.CreatedDate = existing.CreatedDate
	}
	c.LastModifiedDate = now
	s.rows[c.ID] = c
	return c, nil
}

func (s *CustomerStore) DeleteCustomerByID(_ context.Context, id int32) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.rows[id]
	delete(s.rows, id)
	return ok, nil
}

type BeerStore struct {
	mu     sync.Mutex
	nextID int32
	rows   map[int32]model.Beer
}

func NewBeerStore() *BeerStore {
	return &BeerStore{rows: map[int32]model.Beer{}}
}

func (s *BeerStore) WithDB(db.DB) repository.BeerRepository { return s }

func (s *BeerStore) ListBeers(context.Context) ([]model.Beer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	beers := lo.Values(s.rows)
	slices.SortFunc(beers, func(a, b model.Beer) int { return int(a.ID - b.ID) })
	return beers, nil
}

func (s *BeerStore) FindBeerByID(_ context.Context, id int32) (mo.Option[model.Beer], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.rows[id]
	return mo.TupleToOption(b, ok), nil
}

func (s *BeerStore) SaveBeer(_ context.Context, b model.Beer) (model.Beer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if b.ID == 0 {
		s.nextID++
		b.ID = s.nextID
		b.CreatedDate = now
	} else {
		existing, ok := s.rows[b.ID]
		if !ok {
			return model.Beer{}, repository.ErrNotFound
		}
		b.CreatedDate = existing.CreatedDate
	}
	b.LastModifiedDate = now
	s.rows[b.ID] = b
	return b, nil
}

func (s *BeerStore) DeleteBeerByID(_ context.Context, id int32) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.rows[id]
	delete(s.rows, id)
	return ok, nil
}

// OutboxMsg is a stored outbox message with its relay outcome.
type OutboxMsg struct {
	ID uuid.UUID
	repository.CreateOutboxMsgParams
	Processed bool
	Error     *string
}

type OutboxStore struct {
	mu   sync.Mutex
	msgs []OutboxMsg
}

func NewOutboxStore() *OutboxStore {
	return &OutboxStore{}
}

func (s *OutboxStore) WithDB(db.DB) repository.OutboxMsgRepository { return s }

func (s *OutboxStore) CreateOutboxMsg(_ context.Context, params repository.CreateOutboxMsgParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.msgs = append(s.msgs, OutboxMsg{ID: uuid.New(), CreateOutboxMsgParams: params})
	return nil
}

func (s *OutboxStore) ListUnprocessedOutboxMsgs(_ context.Context, params repository.ListUnprocessedOutboxMsgsParams) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := lo.Filter(s.msgs, func(m OutboxMsg, _ int) bool { return !m.Processed })
	if len(pending) > int(params.BatchSize) {
		pending = pending[:params.BatchSize]
	}

	return lo.Map(pending, func(m OutboxMsg, _ int) repository.ListUnprocessedOutboxMsgsResult {
		return repository.ListUnprocessedOutboxMsgsResult{
			ID:           m.ID,
			Topic:        m.Topic,
			Headers:      m.Headers,
			Payload:      m.Payload,
			PartitionKey: m.PartitionKey,
		}
	}), nil
}

func (s *OutboxStore) BulkUpdateOutboxMsgs(_ context.Context, params repository.BulkUpdateOutboxMsgsParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range params.Items {
		for i := range s.msgs {
			if s.msgs[i].ID == item.ID {
				s.msgs[i].Processed = true
				s.msgs[i].Error = item.Error
			}
		}
	}
	return nil
}

// Msgs returns a snapshot of every stored message in insertion order.
func (s *OutboxStore) Msgs() []OutboxMsg {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.msgs)
}

// Topics returns the topic of every stored message in insertion order.
func (s *OutboxStore) Topics() []string {
	return lo.Map(s.Msgs(), func(m OutboxMsg, _ int) string { return m.Topic })
}

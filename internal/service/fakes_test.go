package service_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/tuanvumaihuynh/brewery-api/internal/model"
	"github.com/tuanvumaihuynh/brewery-api/internal/repository"
	"github.com/tuanvumaihuynh/brewery-api/internal/storage/db"
)

var errStore = errors.New("store unavailable")

// fakeDB runs transactions inline; no other DB method is used by services.
type fakeDB struct {
	db.DB
	txErr error
}

func (f fakeDB) WithTx(_ context.Context, txFunc func(db.DB) error) error {
	if f.txErr != nil {
		return f.txErr
	}
	return txFunc(f)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) tick() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type fakeCustomerRepo struct {
	mu        sync.Mutex
	clock     *fakeClock
	nextID    int32
	rows      map[int32]model.Customer
	failOn    string
	vanishOn  int32
	saveCalls int
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{
		clock: &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		rows:  map[int32]model.Customer{},
	}
}

func (r *fakeCustomerRepo) WithDB(db.DB) repository.CustomerRepository { return r }

func (r *fakeCustomerRepo) ListCustomers(context.Context) ([]model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn == "list" {
		return nil, errStore
	}
	customers := lo.Values(r.rows)
	sort.Slice(customers, func(i, j int) bool { return customers[i].ID < customers[j].ID })
	return customers, nil
}

func (r *fakeCustomerRepo) FindCustomerByID(_ context.Context, id int32) (mo.Option[model.Customer], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn == "find" {
		return mo.None[model.Customer](), errStore
	}
	c, ok := r.rows[id]
	if !ok {
		return mo.None[model.Customer](), nil
	}
	return mo.Some(c), nil
}

func (r *fakeCustomerRepo) SaveCustomer(_ context.Context, c model.Customer) (model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveCalls++
	if r.failOn == "save" {
		return model.Customer{}, errStore
	}

	now := r.clock.tick()
	if c.ID == 0 {
		r.nextID++
		c.ID = r.nextID
		c.CreatedDate = now
		c.LastModifiedDate = now
		r.rows[c.ID] = c
		return c, nil
	}

	existing, ok := r.rows[c.ID]
	if !ok || c.ID == r.vanishOn {
		return model.Customer{}, repository.ErrNotFound
	}
	c.CreatedDate = existing.CreatedDate
	c.LastModifiedDate = now
	r.rows[c.ID] = c
	return c, nil
}

func (r *fakeCustomerRepo) DeleteCustomerByID(_ context.Context, id int32) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn == "delete" {
		return false, errStore
	}
	_, ok := r.rows[id]
	delete(r.rows, id)
	return ok, nil
}

type fakeBeerRepo struct {
	mu     sync.Mutex
	clock  *fakeClock
	nextID int32
	rows   map[int32]model.Beer
	failOn string
}

func newFakeBeerRepo() *fakeBeerRepo {
	return &fakeBeerRepo{
		clock: &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		rows:  map[int32]model.Beer{},
	}
}

func (r *fakeBeerRepo) WithDB(db.DB) repository.BeerRepository { return r }

func (r *fakeBeerRepo) ListBeers(context.Context) ([]model.Beer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn == "list" {
		return nil, errStore
	}
	beers := lo.Values(r.rows)
	sort.Slice(beers, func(i, j int) bool { return beers[i].ID < beers[j].ID })
	return beers, nil
}

func (r *fakeBeerRepo) FindBeerByID(_ context.Context, id int32) (mo.Option[model.Beer], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn == "find" {
		return mo.None[model.Beer](), errStore
	}
	b, ok := r.rows[id]
	if !ok {
		return mo.None[model.Beer](), nil
	}
	return mo.Some(b), nil
}

func (r *fakeBeerRepo) SaveBeer(_ context.Context, b model.Beer) (model.Beer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn == "save" {
		return model.Beer{}, errStore
	}

	now := r.clock.tick()
	if b.ID == 0 {
		r.nextID++
		b.ID = r.nextID
		b.CreatedDate = now
		b.LastModifiedDate = now
		r.rows[b.ID] = b
		return b, nil
	}

	existing, ok := r.rows[b.ID]
	if !ok {
		return model.Beer{}, repository.ErrNotFound
	}
	b.CreatedDate = existing.CreatedDate
	b.LastModifiedDate = now
	r.rows[b.ID] = b
	return b, nil
}

func (r *fakeBeerRepo) DeleteBeerByID(_ context.Context, id int32) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rows[id]
	delete(r.rows, id)
	return ok, nil
}

type fakeOutboxMsgRepo struct {
	mu   sync.Mutex
	msgs []repository.CreateOutboxMsgParams
	fail bool
}

func (r *fakeOutboxMsgRepo) WithDB(db.DB) repository.OutboxMsgRepository { return r }

func (r *fakeOutboxMsgRepo) CreateOutboxMsg(_ context.Context, params repository.CreateOutboxMsgParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errStore
	}
	r.msgs = append(r.msgs, params)
	return nil
}

func (r *fakeOutboxMsgRepo) ListUnprocessedOutboxMsgs(context.Context, repository.ListUnprocessedOutboxMsgsParams) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	return nil, nil
}

func (r *fakeOutboxMsgRepo) BulkUpdateOutboxMsgs(context.Context, repository.BulkUpdateOutboxMsgsParams) error {
	return nil
}

func (r *fakeOutboxMsgRepo) topics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo.Map(r.msgs, func(m repository.CreateOutboxMsgParams, _ int) string { return m.Topic })
}

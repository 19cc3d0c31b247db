package service_test

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/brewery-api/internal/dto"
	"github.com/tuanvumaihuynh/brewery-api/internal/event"
	"github.com/tuanvumaihuynh/brewery-api/internal/service"
)

func newCustomerService(t *testing.T) (service.CustomerService, *fakeCustomerRepo, *fakeOutboxMsgRepo) {
	t.Helper()

	repo := newFakeCustomerRepo()
	outboxRepo := &fakeOutboxMsgRepo{}
	return service.NewCustomerService(fakeDB{}, repo, outboxRepo), repo, outboxRepo
}

func TestCustomerService_CreateCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("Should assign id and timestamps", func(t *testing.T) {
		svc, _, outboxRepo := newCustomerService(t)
		clientTime := dto.NewLocalDateTime(time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC))

		created, err := svc.CreateCustomer(ctx, dto.CustomerDTO{
			ID:               99,
			CustomerName:     "Ann",
			CreatedDate:      clientTime,
			LastModifiedDate: clientTime,
		})
		require.NoError(t, err)

		assert.Equal(t, int32(1), created.ID)
		assert.Equal(t, "Ann", created.CustomerName)
		require.NotNil(t, created.CreatedDate)
		assert.NotEqual(t, 1999, created.CreatedDate.Year())
		assert.Equal(t, []string{event.TopicCustomerCreated}, outboxRepo.topics())

		var ev event.CustomerChangedEvent
		require.NoError(t, json.Unmarshal(outboxRepo.msgs[0].Payload, &ev))
		assert.Equal(t, int32(1), ev.CustomerID)
		assert.Equal(t, "Ann", ev.CustomerName)
		require.NotNil(t, outboxRepo.msgs[0].PartitionKey)
		assert.Equal(t, "1", *outboxRepo.msgs[0].PartitionKey)
	})

	t.Run("Should round trip through get", func(t *testing.T) {
		svc, _, _ := newCustomerService(t)

		created, err := svc.CreateCustomer(ctx, dto.CustomerDTO{CustomerName: "Ann"})
		require.NoError(t, err)

		found, err := svc.GetCustomerByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, found.MustGet())
	})

	t.Run("Should assign unused ids", func(t *testing.T) {
		svc, _, _ := newCustomerService(t)

		first, err := svc.CreateCustomer(ctx, dto.CustomerDTO{CustomerName: "Ann"})
		require.NoError(t, err)
		second, err := svc.CreateCustomer(ctx, dto.CustomerDTO{CustomerName: "Bob"})
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("Should propagate store failure", func(t *testing.T) {
		svc, repo, outboxRepo := newCustomerService(t)
		repo.failOn = "save"

		_, err := svc.CreateCustomer(ctx, dto.CustomerDTO{CustomerName: "Ann"})
		assert.ErrorIs(t, err, errStore)
		assert.Empty(t, outboxRepo.topics())
	})

	t.Run("Should propagate outbox failure", func(t *testing.T) {
		svc, _, outboxRepo := newCustomerService(t)
		outboxRepo.fail = true

		_, err := svc.CreateCustomer(ctx, dto.CustomerDTO{CustomerName: "Ann"})
		assert.ErrorIs(t, err, errStore)
	})
}

func TestCustomerService_ListCustomers(t *testing.T) {
	ctx := context.Background()

	t.Run("Should return empty slice on empty store", func(t *testing.T) {
		svc, _, _ := newCustomerService(t)

		customers, err := svc.ListCustomers(ctx)
		require.NoError(t, err)
		assert.NotNil(t, customers)
		assert.Empty(t, customers)
	})

	t.Run("Should include every created customer", func(t *testing.T) {
		svc, _, _ := newCustomerService(t)
		for _, name := range []string{"Ann", "Bob", "Cid"} {
			_, err := svc.CreateCustomer(ctx, dto.CustomerDTO{CustomerName: name})
			require.NoError(t, err)
		}

		customers, err := svc.ListCustomers(ctx)
		require.NoError(t, err)
		assert.Len(t, customers, 3)
	})

	t.Run("Should propagate store failure", func(t *testing.T) {
		svc, repo, _ := newCustomerService(t)
		repo.failOn = "list"

		_, err := svc.ListCustomers(ctx)
		assert.ErrorIs(t, err, errStore)
	})
}

func TestCustomerService_GetCustomerByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Should return none for unknown id", func(t *testing.T) {
		svc, _, _ := newCustomerService(t)

		found, err := svc.GetCustomerByID(ctx, 42)
		require.NoError(t, err)
		assert.True(t, found.IsAbsent())
	})

	t.Run("Should propagate store failure", func(t *testing.T) {
		svc, repo, _ := newCustomerService(t)
		repo.failOn = "find"

		_, err := svc.GetCustomerByID(ctx, 1)
		assert.ErrorIs(t, err, errStore)
	})
}

func TestCustomerService_UpdateCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("Should replace name", func(t *testing.T) {
		svc, _, outboxRepo := newCustomerService(t)
		created, err := svc.CreateCustomer(ctx, dto.CustomerDTO{CustomerName: "Ann"})
		require.NoError(t, err)

		updated, err := svc.UpdateCustomer(ctx, created.ID, dto.CustomerDTO{ID: 500, CustomerName: "Anna"})
		require.NoError(t, err)

		got := updated.MustGet()
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "Anna", got.CustomerName)
		assert.True(t, got.LastModifiedDate.After(created.LastModifiedDate.Time))
		assert.True(t, got.CreatedDate.Equal(created.CreatedDate.Time))
		assert.Equal(t, []string{event.TopicCustomerCreated, event.TopicCustomerUpdated}, outboxRepo.topics())
	})

	t.Run("Should replace even with blank name", func(t *testing.T) {
		svc, _, _ := newCustomerService(t)
		created, err := svc.CreateCustomer(ctx, dto.CustomerDTO{CustomerName: "Ann"})
		require.NoError(t, err)

		updated, err := svc.UpdateCustomer(ctx, created.ID, dto.CustomerDTO{CustomerName: ""})
		require.NoError(t, err)
		assert.Equal(t, "", updated.MustGet().CustomerName)
	})

	t.Run("Should return none for unknown id", func(t *testing.T) {
		svc, repo, outboxRepo := newCustomerService(t)

		updated, err := svc.UpdateCustomer(ctx, 42, dto.CustomerDTO{CustomerName: "Anna"})
		require.NoError(t, err)
		assert.True(t, updated.IsAbsent())
		assert.Zero(t, repo.saveCalls)
		assert.Empty(t, outboxRepo.topics())
	})

	t.Run("Should return none when row vanishes before save", func(t *testing.T) {
		svc, repo, _ := newCustomerService(t)
		created, err := svc.CreateCustomer(ctx, dto.CustomerDTO{CustomerName: "Ann"})
		require.NoError(t, err)
		repo.vanishOn = created.ID

		updated, err := svc.UpdateCustomer(ctx, created.ID, dto.CustomerDTO{CustomerName: "Anna"})
		require.NoError(t, err)
		assert.True(t, updated.IsAbsent())
	})
}

func TestCustomerService_PatchCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("Should copy non-blank name", func(t *testing.T) {
		svc, _, _ := newCustomerService(t)
		created, err := svc.CreateCustomer(ctx, dto.CustomerDTO{CustomerName: "Ann"})
		require.NoError(t, err)

		patched, err := svc.PatchCustomer(ctx, created.ID, dto.CustomerDTO{CustomerName: "Anna"})
		require.NoError(t, err)
		assert.Equal(t, "Anna", patched.MustGet().CustomerName)
	})

	for _, blank := range []string{"", "   ", "\t\n"} {
		t.Run("Should keep name when patch name is blank "+strconv.Quote(blank), func(t *testing.T) {
			svc, _, _ := newCustomerService(t)
			created, err := svc.CreateCustomer(ctx, dto.CustomerDTO{CustomerName: "Ann"})
			require.NoError(t, err)

			patched, err := svc.PatchCustomer(ctx, created.ID, dto.CustomerDTO{CustomerName: blank})
			require.NoError(t, err)
			assert.Equal(t, "Ann", patched.MustGet().CustomerName)

			found, err := svc.GetCustomerByID(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, "Ann", found.MustGet().CustomerName)
		})
	}

	t.Run("Should be idempotent", func(t *testing.T) {
		svc, _, _ := newCustomerService(t)
		created, err := svc.CreateCustomer(ctx, dto.CustomerDTO{CustomerName: "Ann"})
		require.NoError(t, err)

		patch := dto.CustomerDTO{CustomerName: "Anna"}
		first, err := svc.PatchCustomer(ctx, created.ID, patch)
		require.NoError(t, err)
		second, err := svc.PatchCustomer(ctx, created.ID, patch)
		require.NoError(t, err)

		assert.Equal(t, first.MustGet().CustomerName, second.MustGet().CustomerName)
		assert.Equal(t, first.MustGet().ID, second.MustGet().ID)
	})

	t.Run("Should return none for unknown id", func(t *testing.T) {
		svc, _, _ := newCustomerService(t)

		patched, err := svc.PatchCustomer(ctx, 42, dto.CustomerDTO{CustomerName: "Anna"})
		require.NoError(t, err)
		assert.True(t, patched.IsAbsent())
	})

	t.Run("Should propagate transaction failure", func(t *testing.T) {
		repo := newFakeCustomerRepo()
		svc := service.NewCustomerService(fakeDB{txErr: errStore}, repo, &fakeOutboxMsgRepo{})

		_, err := svc.PatchCustomer(ctx, 1, dto.CustomerDTO{CustomerName: "Anna"})
		assert.ErrorIs(t, err, errStore)
	})
}

func TestCustomerService_DeleteCustomerByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Should remove customer and publish event", func(t *testing.T) {
		svc, _, outboxRepo := newCustomerService(t)
		created, err := svc.CreateCustomer(ctx, dto.CustomerDTO{CustomerName: "Ann"})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteCustomerByID(ctx, created.ID))

		found, err := svc.GetCustomerByID(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, found.IsAbsent())
		assert.Equal(t, []string{event.TopicCustomerCreated, event.TopicCustomerDeleted}, outboxRepo.topics())
	})

	t.Run("Should be a no-op for unknown id", func(t *testing.T) {
		svc, _, outboxRepo := newCustomerService(t)

		require.NoError(t, svc.DeleteCustomerByID(ctx, 42))
		assert.Empty(t, outboxRepo.topics())
	})

	t.Run("Should propagate store failure", func(t *testing.T) {
		svc, repo, _ := newCustomerService(t)
		repo.failOn = "delete"

		assert.ErrorIs(t, svc.DeleteCustomerByID(ctx, 1), errStore)
	})
}

package dto_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/brewery-api/internal/dto"
	"github.com/tuanvumaihuynh/brewery-api/pkg/ptr"
	"github.com/tuanvumaihuynh/brewery-api/pkg/validator"
)

func TestLocalDateTime(t *testing.T) {
	t.Run("Should marshal without zone offset", func(t *testing.T) {
		ts := dto.LocalDateTime{Time: time.Date(2024, 3, 1, 10, 30, 0, 500000000, time.UTC)}

		b, err := json.Marshal(ts)
		require.NoError(t, err)
		assert.Equal(t, `"2024-03-01T10:30:00.5"`, string(b))
	})

	t.Run("Should accept local and RFC 3339 input", func(t *testing.T) {
		var local, zoned dto.LocalDateTime
		require.NoError(t, json.Unmarshal([]byte(`"2024-03-01T10:30:00"`), &local))
		require.NoError(t, json.Unmarshal([]byte(`"2024-03-01T12:30:00+02:00"`), &zoned))

		assert.True(t, local.Equal(zoned.Time))
	})

	t.Run("Should accept minute precision and space separator", func(t *testing.T) {
		want := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
		for _, in := range []string{`"2024-03-01T10:30"`, `"2024-03-01 10:30:00"`, `"2024-03-01 10:30"`} {
			var ts dto.LocalDateTime
			require.NoError(t, json.Unmarshal([]byte(in), &ts), in)
			assert.True(t, want.Equal(ts.Time), in)
		}
	})

	t.Run("Should leave unparsable input zero", func(t *testing.T) {
		ts := dto.LocalDateTime{Time: time.Now()}
		require.NoError(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
		assert.True(t, ts.IsZero())

		var customer dto.CustomerDTO
		require.NoError(t, json.Unmarshal([]byte(`{"customerName":"Ann","createdDate":42}`), &customer))
		assert.Equal(t, "Ann", customer.CustomerName)
	})
}

func TestCustomerValidation(t *testing.T) {
	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	tests := []struct {
		name      string
		dto       dto.CustomerDTO
		wantFull  bool
		wantPatch bool
	}{
		{name: "valid", dto: dto.CustomerDTO{CustomerName: "Ann"}, wantFull: true, wantPatch: true},
		{name: "empty name", dto: dto.CustomerDTO{CustomerName: ""}, wantFull: false, wantPatch: true},
		{name: "blank name", dto: dto.CustomerDTO{CustomerName: "   "}, wantFull: false, wantPatch: true},
		{name: "oversized name", dto: dto.CustomerDTO{CustomerName: strings.Repeat("a", 256)}, wantFull: false, wantPatch: false},
		{name: "max length name", dto: dto.CustomerDTO{CustomerName: strings.Repeat("a", 255)}, wantFull: true, wantPatch: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantFull, v.Validate(tt.dto) == nil)
			assert.Equal(t, tt.wantPatch, v.ValidatePartial(tt.dto) == nil)
		})
	}
}

func TestBeerValidation(t *testing.T) {
	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	valid := func() dto.BeerDTO {
		return dto.BeerDTO{
			BeerName:       "Galaxy Cat",
			BeerStyle:      "PALE_ALE",
			UPC:            "12356222",
			QuantityOnHand: ptr.New(int32(12)),
			Price:          ptr.New(decimal.RequireFromString("11.99")),
		}
	}

	t.Run("Should accept a complete beer", func(t *testing.T) {
		assert.NoError(t, v.Validate(valid()))
	})

	t.Run("Should accept zero price", func(t *testing.T) {
		b := valid()
		b.Price = ptr.New(decimal.Zero)
		assert.NoError(t, v.Validate(b))
	})

	t.Run("Should require price on full payload only", func(t *testing.T) {
		b := valid()
		b.Price = nil
		assert.Error(t, v.Validate(b))
		assert.NoError(t, v.ValidatePartial(b))
	})

	t.Run("Should reject negative price on both payloads", func(t *testing.T) {
		b := valid()
		b.Price = ptr.New(decimal.RequireFromString("-1"))
		assert.Error(t, v.Validate(b))
		assert.Error(t, v.ValidatePartial(b))
	})

	t.Run("Should reject oversized upc", func(t *testing.T) {
		b := valid()
		b.UPC = strings.Repeat("1", 26)
		assert.Error(t, v.Validate(b))
		assert.Error(t, v.ValidatePartial(b))
	})

	t.Run("Should accept an empty patch", func(t *testing.T) {
		assert.NoError(t, v.ValidatePartial(dto.BeerDTO{}))
	})
}

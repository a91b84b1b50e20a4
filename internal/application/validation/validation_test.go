package validation

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Agencia-api/internal/application/dto"
	"github.com/jhoicas/Agencia-api/internal/domain"
)

func TestStruct_Valid(t *testing.T) {
	rate := decimal.RequireFromString("99.90")
	err := Struct(dto.CreateCreatorRequest{Name: "Sarah", Niche: "fitness", BaseRate: &rate})
	assert.NoError(t, err)
}

func TestStruct_UsesJSONFieldNames(t *testing.T) {
	zero := decimal.Zero
	err := Struct(dto.CreateCreatorRequest{Niche: "f", Email: "x", BaseRate: &zero})

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "name es requerido", ve.Fields["name"])
	assert.Equal(t, "niche debe tener al menos 2 caracteres", ve.Fields["niche"])
	assert.Equal(t, "email debe ser un email válido", ve.Fields["email"])
	assert.Equal(t, "base_rate debe ser mayor que 0", ve.Fields["base_rate"])
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStruct_NestedPath(t *testing.T) {
	err := Struct(dto.EmailDraftRequest{Type: "outreach", Context: dto.EmailContextDTO{CreatorName: "Sarah", BrandName: "Nike"}})

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "context.creator_niche")
}

func TestStruct_OneOf(t *testing.T) {
	err := Struct(dto.TransitionRequest{Status: "SIGNED"})

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields["status"], "debe ser uno de")
}

func TestStruct_MoneyScaleAndBound(t *testing.T) {
	cases := []struct {
		amount string
		ok     bool
	}{
		{"12.34", true},
		{"0.01", true},
		{"999999999999.99", true},
		{"5000", true},
		{"0.001", false},
		{"12.345", false},
		{"1000000000000", false},
		{"25000000000000.5", false},
	}
	for _, c := range cases {
		amount := decimal.RequireFromString(c.amount)
		errs := []error{
			Struct(dto.CreateCreatorRequest{Name: "Sarah", Niche: "fitness", BaseRate: &amount}),
			Struct(dto.UpdateCreatorRequest{BaseRate: &amount}),
			Struct(dto.CreateDealRequest{CreatorID: "c", Brand: "Nike", Amount: &amount}),
			Struct(dto.UpdateDealRequest{Amount: &amount}),
		}
		for i, err := range errs {
			if c.ok {
				assert.NoError(t, err, "%s (%d)", c.amount, i)
				continue
			}
			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve), "%s (%d)", c.amount, i)
			assert.Len(t, ve.Fields, 1, c.amount)
			for _, msg := range ve.Fields {
				assert.Contains(t, msg, "como máximo 2 decimales", c.amount)
			}
		}
	}
}

func TestStruct_EmptyPointerStillValidated(t *testing.T) {
	// "" en un *string llega al validador; el caso de uso lo traduce a "borrar" antes.
	empty := ""
	err := Struct(dto.UpdateCreatorRequest{Email: &empty})

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "email")
}

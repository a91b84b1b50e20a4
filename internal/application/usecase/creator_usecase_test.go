package usecase_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Agencia-api/internal/application/dto"
	"github.com/jhoicas/Agencia-api/internal/domain"
)

func TestCreatorCreate_BelongsToCallerAgency(t *testing.T) {
	f := newFixture(t)
	userID, agency := f.newAgencyUser(t, "u@acme.test", "Acme")
	rate := decimal.RequireFromString("250.50")

	out, err := f.creator.Create(f.ctx, userID, dto.CreateCreatorRequest{
		Name:  " Sarah ",
		Email: "sarah@creators.test",
		Niche: "fitness",
		SocialHandles: map[string]dto.SocialHandleDTO{
			"Instagram": {Handle: "@sarahfit"},
		},
		BaseRate: &rate,
	})
	require.NoError(t, err)
	assert.Equal(t, agency.ID, out.AgencyID)
	assert.Equal(t, "Sarah", out.Name)
	assert.Contains(t, out.SocialHandles, "instagram")
	require.NotNil(t, out.BaseRate)
	assert.True(t, rate.Equal(*out.BaseRate))

	got, err := f.creator.GetByID(f.ctx, userID, out.ID)
	require.NoError(t, err)
	assert.Equal(t, out.ID, got.ID)
}

func TestCreatorCreate_WithoutAgencyIsNoAgency(t *testing.T) {
	f := newFixture(t)
	userID := f.newUser(t, "u@acme.test")

	_, err := f.creator.Create(f.ctx, userID, dto.CreateCreatorRequest{Name: "Sarah", Niche: "fitness"})
	assert.ErrorIs(t, err, domain.ErrNoAgency)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, _, creators, _ := f.store.Counts()
	assert.Equal(t, 0, creators)
}

func TestCreatorCreate_ValidationReportsEveryField(t *testing.T) {
	f := newFixture(t)
	userID, _ := f.newAgencyUser(t, "u@acme.test", "Acme")
	negative := decimal.NewFromInt(-1)

	_, err := f.creator.Create(f.ctx, userID, dto.CreateCreatorRequest{
		Name:     "S",
		Email:    "no-es-email",
		Niche:    "fitness",
		BaseRate: &negative,
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "name")
	assert.Contains(t, ve.Fields, "email")
	assert.Contains(t, ve.Fields, "base_rate")

	_, _, creators, _ := f.store.Counts()
	assert.Equal(t, 0, creators)
}

func TestCreatorAccess_NotFoundBeforeForbidden(t *testing.T) {
	f := newFixture(t)
	ownerID, _ := f.newAgencyUser(t, "u@acme.test", "Acme")
	outsiderID, _ := f.newAgencyUser(t, "v@globex.test", "Globex")
	sarah := f.newCreator(t, ownerID, "Sarah")

	_, err := f.creator.GetByID(f.ctx, outsiderID, sarah.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.creator.GetByID(f.ctx, outsiderID, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.creator.Update(f.ctx, outsiderID, sarah.ID, dto.UpdateCreatorRequest{Name: strPtr("Hack")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = f.creator.Delete(f.ctx, outsiderID, sarah.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := f.creator.GetByID(f.ctx, ownerID, sarah.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sarah", got.Name)
}

func TestCreatorUpdate_PartialAndValidatedBeforeWrite(t *testing.T) {
	f := newFixture(t)
	userID, agency := f.newAgencyUser(t, "u@acme.test", "Acme")
	sarah := f.newCreator(t, userID, "Sarah")

	out, err := f.creator.Update(f.ctx, userID, sarah.ID, dto.UpdateCreatorRequest{Niche: strPtr("travel")})
	require.NoError(t, err)
	assert.Equal(t, "Sarah", out.Name)
	assert.Equal(t, "travel", out.Niche)
	assert.Equal(t, agency.ID, out.AgencyID)

	_, err = f.creator.Update(f.ctx, userID, sarah.ID, dto.UpdateCreatorRequest{
		Name:  strPtr("Sarah Connor"),
		Email: strPtr("mal"),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := f.creator.GetByID(f.ctx, userID, sarah.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sarah", got.Name, "una validación fallida no escribe nada")
}

func TestCreatorDelete_CascadesDeals(t *testing.T) {
	f := newFixture(t)
	userID, _ := f.newAgencyUser(t, "u@acme.test", "Acme")
	sarah := f.newCreator(t, userID, "Sarah")
	other := f.newCreator(t, userID, "Mike")
	var dealIDs []string
	for _, brand := range []string{"Nike", "Adidas", "Puma"} {
		dealIDs = append(dealIDs, f.newDeal(t, userID, sarah.ID, brand).ID)
	}
	keep := f.newDeal(t, userID, other.ID, "Reebok")

	require.NoError(t, f.creator.Delete(f.ctx, userID, sarah.ID))

	_, err := f.creator.GetByID(f.ctx, userID, sarah.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	for _, id := range dealIDs {
		_, err := f.deal.GetByID(f.ctx, userID, id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
	_, err = f.deal.GetByID(f.ctx, userID, keep.ID)
	assert.NoError(t, err)

	_, _, creators, deals := f.store.Counts()
	assert.Equal(t, 1, creators)
	assert.Equal(t, 1, deals)
}

func TestCreatorDelete_FailureKeepsEverything(t *testing.T) {
	f := newFixture(t)
	userID, _ := f.newAgencyUser(t, "u@acme.test", "Acme")
	sarah := f.newCreator(t, userID, "Sarah")
	f.newDeal(t, userID, sarah.ID, "Nike")
	f.newDeal(t, userID, sarah.ID, "Adidas")
	f.store.FailOn("creators.Delete", errors.New("disco lleno"))

	err := f.creator.Delete(f.ctx, userID, sarah.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInfrastructure)

	_, _, creators, deals := f.store.Counts()
	assert.Equal(t, 1, creators)
	assert.Equal(t, 2, deals, "los deals borrados dentro de la transacción se restauran")
}

func TestCreatorList_SummarizesDeals(t *testing.T) {
	f := newFixture(t)
	userID, _ := f.newAgencyUser(t, "u@acme.test", "Acme")
	outsiderID, _ := f.newAgencyUser(t, "v@globex.test", "Globex")
	sarah := f.newCreator(t, userID, "Sarah")
	f.newCreator(t, userID, "Mike")
	f.newCreator(t, outsiderID, "Ajeno")
	f.newDeal(t, userID, sarah.ID, "Nike")
	f.newDeal(t, userID, sarah.ID, "Adidas")

	out, err := f.creator.List(f.ctx, userID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, 20, out.Page.Limit)

	// más recientes primero
	assert.Equal(t, "Mike", out.Items[0].Name)
	assert.Equal(t, 0, out.Items[0].DealCount)
	assert.Equal(t, "Sarah", out.Items[1].Name)
	assert.Equal(t, 2, out.Items[1].DealCount)
	assert.Empty(t, out.Items[0].DealsAmounts)
	require.Len(t, out.Items[1].DealsAmounts, 1)
	assert.Equal(t, "USD", out.Items[1].DealsAmounts[0].Currency)
	assert.True(t, decimal.NewFromInt(10000).Equal(out.Items[1].DealsAmounts[0].Amount))

	page, err := f.creator.List(f.ctx, userID, dto.PageRequest{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Sarah", page.Items[0].Name)
}

func TestCreatorList_AmountsPerCurrency(t *testing.T) {
	f := newFixture(t)
	userID, _ := f.newAgencyUser(t, "u@acme.test", "Acme")
	sarah := f.newCreator(t, userID, "Sarah")
	usd := decimal.NewFromInt(100)
	eur := decimal.RequireFromString("100.50")
	for _, in := range []dto.CreateDealRequest{
		{CreatorID: sarah.ID, Brand: "Nike", Amount: &usd},
		{CreatorID: sarah.ID, Brand: "Adidas", Amount: &usd, Currency: "usd"},
		{CreatorID: sarah.ID, Brand: "Puma", Amount: &eur, Currency: "EUR"},
		{CreatorID: sarah.ID, Brand: "Sony"},
	} {
		_, err := f.deal.Create(f.ctx, userID, in)
		require.NoError(t, err)
	}

	out, err := f.creator.List(f.ctx, userID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	item := out.Items[0]
	assert.Equal(t, 4, item.DealCount)
	// 100 USD + 100 USD y 100,50 EUR nunca se suman entre sí
	require.Len(t, item.DealsAmounts, 2)
	assert.Equal(t, "EUR", item.DealsAmounts[0].Currency)
	assert.True(t, eur.Equal(item.DealsAmounts[0].Amount))
	assert.Equal(t, "USD", item.DealsAmounts[1].Currency)
	assert.True(t, decimal.NewFromInt(200).Equal(item.DealsAmounts[1].Amount))
}

func TestCreatorUpdate_ClearsOptionalFields(t *testing.T) {
	f := newFixture(t)
	userID, _ := f.newAgencyUser(t, "u@acme.test", "Acme")
	rate := decimal.NewFromInt(300)
	sarah, err := f.creator.Create(f.ctx, userID, dto.CreateCreatorRequest{
		Name: "Sarah", Niche: "fitness", Email: "sarah@creators.test", BaseRate: &rate,
	})
	require.NoError(t, err)

	out, err := f.creator.Update(f.ctx, userID, sarah.ID, dto.UpdateCreatorRequest{Email: strPtr("  ")})
	require.NoError(t, err)
	assert.Empty(t, out.Email)
	require.NotNil(t, out.BaseRate, "lo que no viene no se toca")

	out, err = f.creator.Update(f.ctx, userID, sarah.ID, dto.UpdateCreatorRequest{ClearBaseRate: true})
	require.NoError(t, err)
	assert.Nil(t, out.BaseRate)

	got, err := f.creator.GetByID(f.ctx, userID, sarah.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Email)
	assert.Nil(t, got.BaseRate)

	_, err = f.creator.Update(f.ctx, userID, sarah.ID, dto.UpdateCreatorRequest{BaseRate: &rate, ClearBaseRate: true})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "base_rate")
}

func TestCreatorRate_AtMostTwoDecimals(t *testing.T) {
	f := newFixture(t)
	userID, _ := f.newAgencyUser(t, "u@acme.test", "Acme")
	sarah := f.newCreator(t, userID, "Sarah")

	for _, bad := range []string{"0.001", "12.345", "1000000000000"} {
		rate := decimal.RequireFromString(bad)
		_, err := f.creator.Create(f.ctx, userID, dto.CreateCreatorRequest{Name: "Mike", Niche: "travel", BaseRate: &rate})
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve, bad)
		assert.Contains(t, ve.Fields, "base_rate", bad)

		_, err = f.creator.Update(f.ctx, userID, sarah.ID, dto.UpdateCreatorRequest{BaseRate: &rate})
		assert.ErrorIs(t, err, domain.ErrValidation, bad)
	}
	_, _, creators, _ := f.store.Counts()
	assert.Equal(t, 1, creators)

	rate := decimal.RequireFromString("12.34")
	out, err := f.creator.Update(f.ctx, userID, sarah.ID, dto.UpdateCreatorRequest{BaseRate: &rate})
	require.NoError(t, err)
	assert.True(t, rate.Equal(*out.BaseRate))
}

func TestCreatorAccess_MalformedIDIsNotFound(t *testing.T) {
	f := newFixture(t)
	userID, _ := f.newAgencyUser(t, "u@acme.test", "Acme")

	_, err := f.creator.GetByID(f.ctx, userID, "abc")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.creator.Update(f.ctx, userID, "abc", dto.UpdateCreatorRequest{Name: strPtr("Sarah")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	err = f.creator.Delete(f.ctx, userID, "abc")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

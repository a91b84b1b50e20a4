package pdf

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Agencia-api/internal/application/ports"
	"github.com/jhoicas/Agencia-api/internal/domain/entity"
)

func sampleBrief() ports.DealBrief {
	amount := decimal.RequireFromString("25000.5")
	next := time.Date(2026, time.October, 21, 10, 0, 0, 0, time.UTC)
	return ports.DealBrief{
		Agency: &entity.Agency{ID: "a1", Name: "Acme Talent"},
		Creator: &entity.Creator{
			ID: "c1", AgencyID: "a1", Name: "Sarah Johnson", Niche: "fitness", Email: "sarah@acme.test",
			SocialHandles: map[string]entity.SocialHandle{"tiktok": {Handle: "@sarahfit"}, "instagram": {Handle: "@sarah"}},
		},
		Deal: &entity.Deal{
			ID: "d1", CreatorID: "c1", Brand: "Nike", Amount: &amount, Currency: "USD",
			Status: entity.DealNegotiating, Deliverables: "2 reels + 3 stories",
			Description: strings.Repeat("Campaña de running. ", 60),
			NextActionAt: &next, ContractURL: "https://contracts.acme.test/nike",
		},
		GeneratedAt: time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC),
	}
}

func TestGenerateDealBrief(t *testing.T) {
	g := NewMarotoBriefGenerator()

	out, err := g.GenerateDealBrief(context.Background(), sampleBrief())
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))

	brief := sampleBrief()
	brief.Deal.Amount = nil
	brief.Deal.ContractURL = ""
	brief.Creator.SocialHandles = nil
	out, err = g.GenerateDealBrief(context.Background(), brief)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}

func TestGenerateDealBrief_Incomplete(t *testing.T) {
	brief := sampleBrief()
	brief.Creator = nil
	_, err := NewMarotoBriefGenerator().GenerateDealBrief(context.Background(), brief)
	assert.Error(t, err)
}

func TestFormatAmount(t *testing.T) {
	v := decimal.RequireFromString("25000.5")
	assert.Equal(t, "25.000,50 USD", formatAmount(&v, "USD"))
	small := decimal.NewFromInt(950)
	assert.Equal(t, "950,00 COP", formatAmount(&small, "COP"))
	big := decimal.NewFromInt(1234567)
	assert.Equal(t, "1.234.567,00 EUR", formatAmount(&big, "EUR"))
	assert.Equal(t, "Por definir", formatAmount(nil, "USD"))
}

func TestSocialLine(t *testing.T) {
	assert.Equal(t, "—", socialLine(nil))
	assert.Equal(t, "instagram @sarah, tiktok @sarahfit", socialLine(sampleBrief().Creator.SocialHandles))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hola", truncate("hola", 10))
	assert.Equal(t, "ho…", truncate("hola", 2))
}

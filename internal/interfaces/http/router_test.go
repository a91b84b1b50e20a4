package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Agencia-api/internal/application/access"
	appanalytics "github.com/jhoicas/Agencia-api/internal/application/analytics"
	"github.com/jhoicas/Agencia-api/internal/application/auth"
	"github.com/jhoicas/Agencia-api/internal/application/usecase"
	"github.com/jhoicas/Agencia-api/internal/infrastructure/memory"
	"github.com/jhoicas/Agencia-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Agencia-api/internal/interfaces/http"
)

type stubLLM struct {
	text string
	err  error
}

func (s *stubLLM) Draft(context.Context, string, string) (string, error) {
	return s.text, s.err
}

type testAPI struct {
	t   *testing.T
	app *fiber.App
	llm *stubLLM
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := memory.New()
	resolver := auth.NewIdentityResolver(store.Users(), store.Agencies())
	guard := access.NewGuard(store.Agencies(), store.Creators(), store.Deals())
	llm := &stubLLM{text: "Subject: Partnership\n\nHola Nike"}

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      auth.NewAuthUseCase(store.Users(), resolver, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer}),
		AgencyUC:    usecase.NewAgencyUseCase(store.TxRunner(), resolver, store.Agencies()),
		CreatorUC:   usecase.NewCreatorUseCase(store.TxRunner(), resolver, guard, store.Creators()),
		DealUC:      usecase.NewDealUseCase(store.TxRunner(), resolver, guard, store.Deals()),
		AIUC:        usecase.NewAIUseCase(llm, resolver, guard, time.Second),
		DashboardUC: appanalytics.NewDashboardUseCase(resolver, store.Agencies(), store.Analytics()),
		BriefUC:     usecase.NewDealBriefUseCase(resolver, guard, store.Agencies(), pdf.NewMarotoBriefGenerator()),
		JWTSecret:   testJWTSecret,
	})
	return &testAPI{t: t, app: app, llm: llm}
}

// do envía body como JSON (si no es nil) y decodifica la respuesta como objeto.
func (a *testAPI) do(method, path, token string, body any) (int, map[string]any) {
	a.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

// login registra al usuario y devuelve su token.
func (a *testAPI) login(email string) string {
	a.t.Helper()
	status, _ := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{"email": email, "password": "supersecreto"})
	require.Equal(a.t, http.StatusCreated, status)
	status, out := a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": "supersecreto"})
	require.Equal(a.t, http.StatusOK, status)
	token, _ := out["token"].(string)
	require.NotEmpty(a.t, token)
	return token
}

func (a *testAPI) provision(token, name string) {
	a.t.Helper()
	status, _ := a.do(http.MethodPost, "/api/agency", token, map[string]string{"name": name})
	require.Equal(a.t, http.StatusCreated, status)
}

func (a *testAPI) createCreator(token, name string) string {
	a.t.Helper()
	status, out := a.do(http.MethodPost, "/api/creators", token, map[string]any{"name": name, "niche": "fitness", "base_rate": "100"})
	require.Equal(a.t, http.StatusCreated, status)
	return out["id"].(string)
}

func (a *testAPI) createDeal(token, creatorID, brand string) string {
	a.t.Helper()
	status, out := a.do(http.MethodPost, "/api/deals", token, map[string]any{"creator_id": creatorID, "brand": brand, "amount": 5000})
	require.Equal(a.t, http.StatusCreated, status)
	assert.Equal(a.t, "PENDING", out["status"])
	return out["id"].(string)
}

func TestRouter_AgencyFlow(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("u@acme.test")

	status, out := api.do(http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "USER", out["role"])

	status, out = api.do(http.MethodPost, "/api/creators", token, map[string]string{"name": "Sarah", "niche": "fitness"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "NO_AGENCY", out["code"])

	status, _ = api.do(http.MethodGet, "/api/agency", token, nil)
	assert.Equal(t, http.StatusNotFound, status)

	api.provision(token, "Acme")
	status, out = api.do(http.MethodPost, "/api/agency", token, map[string]string{"name": "Otra"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "AGENCY_EXISTS", out["code"])

	status, out = api.do(http.MethodGet, "/api/agency", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Acme", out["name"])

	status, out = api.do(http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ADMIN", out["role"])
}

func TestRouter_DealLifecycle(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("u@acme.test")
	api.provision(token, "Acme")
	creatorID := api.createCreator(token, "Sarah")
	dealID := api.createDeal(token, creatorID, "Nike")

	status, out := api.do(http.MethodPost, "/api/deals/"+dealID+"/transition", token, map[string]string{"status": "NEGOTIATING"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "NEGOTIATING", out["status"])

	status, out = api.do(http.MethodPost, "/api/deals/"+dealID+"/transition", token, map[string]string{"status": "COMPLETED"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "INVALID_TRANSITION", out["code"])

	status, out = api.do(http.MethodGet, "/api/deals/"+dealID+"/transitions", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "NEGOTIATING", out["current"])
	assert.ElementsMatch(t, []any{"ACTIVE", "CANCELLED"}, out["next"])

	status, out = api.do(http.MethodPut, "/api/deals/"+dealID, token, map[string]string{"status": "ACTIVE", "currency": "eur"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ACTIVE", out["status"])
	assert.Equal(t, "EUR", out["currency"])

	status, out = api.do(http.MethodGet, "/api/deals?status=active&creator_id="+creatorID, token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, out["items"], 1)

	status, out = api.do(http.MethodGet, "/api/creators", token, nil)
	assert.Equal(t, http.StatusOK, status)
	items := out["items"].([]any)
	require.Len(t, items, 1)
	assert.EqualValues(t, 1, items[0].(map[string]any)["deal_count"])
}

func TestRouter_CrossAgencyAndMissing(t *testing.T) {
	api := newTestAPI(t)
	owner := api.login("u@acme.test")
	api.provision(owner, "Acme")
	creatorID := api.createCreator(owner, "Sarah")
	dealID := api.createDeal(owner, creatorID, "Nike")

	outsider := api.login("v@globex.test")
	api.provision(outsider, "Globex")

	status, out := api.do(http.MethodGet, "/api/deals/"+dealID, outsider, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", out["code"])

	status, _ = api.do(http.MethodDelete, "/api/creators/"+creatorID, outsider, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = api.do(http.MethodPost, "/api/deals", outsider, map[string]string{"creator_id": creatorID, "brand": "Adidas"})
	assert.Equal(t, http.StatusForbidden, status)

	status, out = api.do(http.MethodGet, "/api/creators/"+uuid.New().String(), outsider, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", out["code"])

	status, out = api.do(http.MethodGet, "/api/deals/"+dealID, owner, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "PENDING", out["status"])
}

func TestRouter_DeleteCreatorCascades(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("u@acme.test")
	api.provision(token, "Acme")
	creatorID := api.createCreator(token, "Sarah")
	dealID := api.createDeal(token, creatorID, "Nike")

	status, _ := api.do(http.MethodDelete, "/api/creators/"+creatorID, token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = api.do(http.MethodGet, "/api/deals/"+dealID, token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRouter_ValidationAndBody(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("u@acme.test")
	api.provision(token, "Acme")

	status, out := api.do(http.MethodPost, "/api/creators", token, map[string]string{"name": "S", "niche": "fitness"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", out["code"])
	fields := out["fields"].(map[string]any)
	assert.Contains(t, fields, "name")

	status, out = api.do(http.MethodPost, "/api/creators", token, "{no es json")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_BODY", out["code"])

	status, out = api.do(http.MethodPost, "/api/auth/register", "", map[string]string{"email": "u@acme.test", "password": "supersecreto"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "EMAIL_EXISTS", out["code"])
}

func TestRouter_Unauthenticated(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/api/agency", "/api/creators", "/api/deals", "/api/auth/me"} {
		status, _ := api.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, status, path)
	}

	status, _ := api.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "nadie@acme.test", "password": "supersecreto"})
	assert.Equal(t, http.StatusUnauthorized, status)

	// token válido de un usuario que ya no existe
	tok := strings.TrimPrefix(bearer(t, uuid.New().String()), "Bearer ")
	status, _ = api.do(http.MethodGet, "/api/auth/me", tok, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRouter_AIEndpoints(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("u@acme.test")
	api.provision(token, "Acme")
	creatorID := api.createCreator(token, "Sarah")

	emailBody := map[string]any{
		"type":    "outreach",
		"context": map[string]string{"creator_name": "Sarah", "creator_niche": "fitness", "brand_name": "Nike"},
	}
	status, out := api.do(http.MethodPost, "/api/ai/email", token, emailBody)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Subject: Partnership\n\nHola Nike", out["email"])

	status, out = api.do(http.MethodPost, "/api/ai/sponsorship-reply", token, map[string]any{
		"creator_id": creatorID, "email_body": "Hola, somos Nike", "follower_count": 20000,
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "$2000", out["proposed_rate"])

	api.llm.err = errors.New("overloaded")
	status, out = api.do(http.MethodPost, "/api/ai/email", token, emailBody)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "AI_UNAVAILABLE", out["code"])

	api.llm.err = context.DeadlineExceeded
	status, out = api.do(http.MethodPost, "/api/ai/email", token, emailBody)
	assert.Equal(t, http.StatusGatewayTimeout, status)
	assert.Equal(t, "AI_TIMEOUT", out["code"])
}

func TestRouter_Dashboard(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("u@acme.test")

	status, out := api.do(http.MethodGet, "/api/dashboard", token, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "NO_AGENCY", out["code"])

	api.provision(token, "Acme")
	creatorID := api.createCreator(token, "Sarah")
	dealID := api.createDeal(token, creatorID, "Nike")
	for _, s := range []string{"ACTIVE", "COMPLETED"} {
		status, _ = api.do(http.MethodPost, "/api/deals/"+dealID+"/transition", token, map[string]string{"status": s})
		require.Equal(t, http.StatusOK, status)
	}
	api.createDeal(token, creatorID, "Adidas")

	status, out = api.do(http.MethodGet, "/api/dashboard", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, out["creator_count"])
	assert.EqualValues(t, 0, out["active_deals"])
	assert.Len(t, out["pipeline"], 5)
	assert.Len(t, out["revenue"], 1)
	top, _ := out["top_creators"].([]any)
	require.Len(t, top, 1)
	assert.Equal(t, "Sarah", top[0].(map[string]any)["name"])

	status, out = api.do(http.MethodGet, "/api/dashboard?start_date=2020-01-01&end_date=2020-01-31", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, out["revenue"])
	assert.Equal(t, "Enero 2020", out["date_label"])

	status, out = api.do(http.MethodGet, "/api/dashboard?start_date=ayer", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", out["code"])
}

func TestRouter_DealBrief(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("u@acme.test")
	api.provision(token, "Acme")
	dealID := api.createDeal(token, api.createCreator(token, "Sarah"), "Nike")

	req := httptest.NewRequest(http.MethodGet, "/api/deals/"+dealID+"/brief", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "deal_nike_")

	other := api.login("o@globex.test")
	api.provision(other, "Globex")
	status, out := api.do(http.MethodGet, "/api/deals/"+dealID+"/brief", other, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", out["code"])

	status, _ = api.do(http.MethodGet, "/api/deals/"+uuid.New().String()+"/brief", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRouter_MalformedIDs(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("u@acme.test")
	api.provision(token, "Acme")

	for _, tc := range []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, "/api/creators/abc", nil},
		{http.MethodPut, "/api/creators/abc", map[string]string{"name": "Sarah"}},
		{http.MethodDelete, "/api/creators/abc", nil},
		{http.MethodGet, "/api/deals/abc", nil},
		{http.MethodPut, "/api/deals/abc", map[string]string{"brand": "Nike"}},
		{http.MethodDelete, "/api/deals/abc", nil},
		{http.MethodPost, "/api/deals/abc/transition", map[string]string{"status": "ACTIVE"}},
		{http.MethodGet, "/api/deals/abc/brief", nil},
	} {
		status, out := api.do(tc.method, tc.path, token, tc.body)
		assert.Equal(t, http.StatusNotFound, status, "%s %s", tc.method, tc.path)
		assert.Equal(t, "NOT_FOUND", out["code"], "%s %s", tc.method, tc.path)
	}

	status, out := api.do(http.MethodPost, "/api/deals", token, map[string]string{"creator_id": "abc", "brand": "Nike"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", out["code"])
}

func TestRouter_MoneyAndClearing(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("u@acme.test")
	api.provision(token, "Acme")
	creatorID := api.createCreator(token, "Sarah")

	for _, amount := range []string{"0.001", "12.345", "1000000000000"} {
		status, out := api.do(http.MethodPost, "/api/deals", token, map[string]any{"creator_id": creatorID, "brand": "Nike", "amount": amount})
		assert.Equal(t, http.StatusBadRequest, status, amount)
		assert.Equal(t, "VALIDATION", out["code"], amount)
	}

	status, out := api.do(http.MethodPost, "/api/deals", token, map[string]any{
		"creator_id": creatorID, "brand": "Nike", "amount": "12.34",
		"contact_email": "ana@nike.test", "next_action_at": time.Now().Add(time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, status)
	dealID := out["id"].(string)

	status, out = api.do(http.MethodPut, "/api/deals/"+dealID, token, map[string]any{
		"contact_email": "", "clear_amount": true, "clear_next_action_at": true,
	})
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, out["amount"])
	assert.Nil(t, out["next_action_at"])
	assert.NotContains(t, out, "contact_email")

	status, out = api.do(http.MethodPut, "/api/creators/"+creatorID, token, map[string]any{"email": "", "clear_base_rate": true})
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, out["base_rate"])
}

func TestRouter_CreatorListAmountsPerCurrency(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("u@acme.test")
	api.provision(token, "Acme")
	creatorID := api.createCreator(token, "Sarah")
	for _, cur := range []string{"USD", "EUR"} {
		status, _ := api.do(http.MethodPost, "/api/deals", token, map[string]any{"creator_id": creatorID, "brand": "Nike", "amount": 100, "currency": cur})
		require.Equal(t, http.StatusCreated, status)
	}

	status, out := api.do(http.MethodGet, "/api/creators", token, nil)
	require.Equal(t, http.StatusOK, status)
	items := out["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.EqualValues(t, 2, item["deal_count"])
	assert.NotContains(t, item, "deals_amount")
	amounts := item["deals_amounts"].([]any)
	require.Len(t, amounts, 2)
	assert.Equal(t, "EUR", amounts[0].(map[string]any)["currency"])
	assert.Equal(t, "USD", amounts[1].(map[string]any)["currency"])
}

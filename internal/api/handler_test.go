package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"credit-assist/internal/common/config"
	"credit-assist/internal/common/logger"
	"credit-assist/internal/convctx"
	"credit-assist/internal/dialogue"
	"credit-assist/internal/entity"
	"credit-assist/internal/intent"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestApp wires the full pipeline with no primary classifier, so the
// keyword fallback answers deterministically.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	log := logger.NewTestLogger(t)
	dispatcher := dialogue.NewDispatcher(
		intent.NewResolver(nil, log),
		entity.NewExtractor(nil, log),
		convctx.NewMemoryStore(),
		config.Dialogue{BaselineAnnualRate: 3.5, FilingFee: 150},
		nil,
		log,
	)

	app := fiber.New()
	SetupRouter(app, NewChatHandler(dispatcher, log))
	return app
}

func postChat(t *testing.T, app *fiber.App, message, userID string) (*http.Response, map[string]interface{}) {
	t.Helper()

	body, err := json.Marshal(ChatRequest{Message: message, UserID: userID})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return resp, payload
}

func TestHandleChat_Simulation(t *testing.T) {
	app := newTestApp(t)

	resp, payload := postChat(t, app, "Je voudrais simuler un crédit de 50000€ sur 5 ans", "u1")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "simulation_credit", payload["intent"])
	assert.Contains(t, payload["response"], "Mensualité")
}

func TestHandleChat_EmptyMessageIsBadRequest(t *testing.T) {
	app := newTestApp(t)

	resp, payload := postChat(t, app, "   ", "u1")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, payload["success"])
}

func TestHandleChat_DefaultsUserID(t *testing.T) {
	app := newTestApp(t)

	resp, _ := postChat(t, app, "Comment contacter un conseiller ?", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/api/users/default/summary", nil)
	r, err := app.Test(req, -1)
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
	summary := payload["summary"].(map[string]interface{})
	assert.Equal(t, float64(1), summary["turn_count"])
}

func TestHandleSummary(t *testing.T) {
	app := newTestApp(t)

	_, _ = postChat(t, app, "Je voudrais simuler un crédit de 50000€ sur 5 ans", "u42")

	req := httptest.NewRequest(http.MethodGet, "/api/users/u42/summary", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	summary := payload["summary"].(map[string]interface{})
	assert.Equal(t, "u42", summary["user_id"])
	assert.Equal(t, float64(1), summary["simulation_count"])
}

func TestHandleProducts(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Success  bool               `json:"success"`
		Products []dialogue.Product `json:"products"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.True(t, payload.Success)
	require.Len(t, payload.Products, 4)
	assert.Equal(t, "Crédit Personnel", payload.Products[0].Name)
}

func TestHandleRates(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/rates", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Success bool                `json:"success"`
		Rates   []dialogue.RateBand `json:"rates"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.True(t, payload.Success)
	require.Len(t, payload.Rates, 4)
	for _, r := range payload.Rates {
		assert.Greater(t, r.MaxRate, r.MinRate)
	}
}

func TestHandleHealth(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "healthy", payload["status"])
	// No primary classifier wired, so the pipeline reports degradation.
	assert.Contains(t, payload["detail"], "degraded")
}

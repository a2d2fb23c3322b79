package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"commande-service/internal/models"
	"commande-service/internal/service"
	"commande-service/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubCache struct {
	m map[string]*models.TableStatus
}

func (s *stubCache) GetTableStatus(ctx context.Context, table string) (*models.TableStatus, error) {
	return s.m[table], nil
}

func (s *stubCache) SetTableStatus(ctx context.Context, table string, ts *models.TableStatus) error {
	s.m[table] = ts
	return nil
}

func (s *stubCache) InvalidateTable(ctx context.Context, table string) error {
	delete(s.m, table)
	return nil
}

type stubPublisher struct{}

func (stubPublisher) PublishOrderPlaced(ctx context.Context, e *models.OrderPlacedEvent) error {
	return nil
}

func (stubPublisher) PublishOrderStatusChanged(ctx context.Context, e *models.OrderStatusChangedEvent) error {
	return nil
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	svc := service.NewOrderService(store.NewMemoryStore(), &stubCache{m: map[string]*models.TableStatus{}}, stubPublisher{})
	router := gin.New()
	NewHandler(svc).SetupRoutes(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestPing(t *testing.T) {
	router := setupRouter(t)
	w := doJSON(t, router, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"ok": true}, decode(t, w))
}

func TestIngestThenQueryScenario(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/confirmCommande", map[string]any{
		"table_numero": "12",
		"items": []map[string]any{
			{"plat_nom": "Pasta", "quantite": 2, "prix_unitaire": 10, "prix_total": 20},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	created := decode(t, w)
	assert.Equal(t, true, created["success"])
	assert.Equal(t, float64(1), created["inserted"])
	commandeID, _ := created["commande_id"].(string)
	_, err := uuid.Parse(commandeID)
	require.NoError(t, err)

	w = doJSON(t, router, http.MethodGet, "/commandes?status=RECEIVED", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var orders []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, commandeID, orders[0]["id"])
	assert.Equal(t, "12", orders[0]["table"])
	assert.Equal(t, models.StatusReceived, orders[0]["status"])

	items, _ := orders[0]["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, map[string]any{
		"dish": "Pasta", "qty": float64(2), "unit": float64(10), "total": float64(20),
		"accomp": []any{}, "comment": "",
	}, items[0])
}

func TestIngestRejectsInvalidBodies(t *testing.T) {
	router := setupRouter(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing table", map[string]any{"items": []map[string]any{{"plat_nom": "Pasta"}}}},
		{"empty items", map[string]any{"table_numero": "12", "items": []map[string]any{}}},
		{"items not a list", map[string]any{"table_numero": "12", "items": "Pasta"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/confirmCommande", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, map[string]any{
				"success": false, "error": service.MsgInvalidParams,
			}, decode(t, w))
		})
	}
}

func TestUpdateStatusScenarios(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/confirmCommande", map[string]any{
		"table_numero": "12",
		"items":        []map[string]any{{"plat_nom": "Pasta", "quantite": 1}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	commandeID := decode(t, w)["commande_id"].(string)

	// Bogus status: 400, nothing mutated.
	w = doJSON(t, router, http.MethodPatch, "/commandes/"+commandeID+"/status",
		map[string]any{"status": "BOGUS"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, map[string]any{"success": false, "error": "Statut invalide"}, decode(t, w))

	w = doJSON(t, router, http.MethodGet, "/commandes", nil)
	var orders []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, models.StatusReceived, orders[0]["status"])

	// Unknown order: 404.
	w = doJSON(t, router, http.MethodPatch, "/commandes/"+uuid.New().String()+"/status",
		map[string]any{"status": "PREPARING"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, map[string]any{"success": false, "error": "Commande introuvable"}, decode(t, w))

	// Valid transition with a message.
	w = doJSON(t, router, http.MethodPatch, "/commandes/"+commandeID+"/status",
		map[string]any{"status": "PREPARING", "message": "Encore 10 minutes"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"success": true, "updated": float64(1)}, decode(t, w))

	w = doJSON(t, router, http.MethodGet, "/order-status?table=12", nil)
	require.Equal(t, http.StatusOK, w.Code)
	status := decode(t, w)
	assert.Equal(t, commandeID, status["commande_id"])
	assert.Equal(t, "PREPARING", status["status"])
	assert.Equal(t, "Encore 10 minutes", status["message"])
	assert.NotZero(t, status["createdAt"])
}

func TestOrderStatusEmptyTable(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodGet, "/order-status?table=99", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"empty": true}, decode(t, w))
}

func TestOrderStatusMissingTable(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodGet, "/order-status", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, map[string]any{"success": false, "error": service.MsgTableRequired}, decode(t, w))
}

func TestListCommandesEmpty(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodGet, "/commandes", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", string(bytes.TrimSpace(w.Body.Bytes())), "success body is a bare list, even when empty")
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	orderapp "github.com/ircomercio/ordens/internal/application/order"
	partnerapp "github.com/ircomercio/ordens/internal/application/partner"
	"github.com/ircomercio/ordens/internal/domain/order"
	"github.com/ircomercio/ordens/internal/domain/partner"
	"github.com/ircomercio/ordens/internal/domain/shared"
	"github.com/ircomercio/ordens/internal/interfaces/http/dto"
	"github.com/ircomercio/ordens/internal/interfaces/http/middleware"
	"github.com/ircomercio/ordens/internal/interfaces/http/router"
)

type stubOrderRepo struct {
	orders map[uuid.UUID]*order.Order
}

func (r *stubOrderRepo) Save(_ context.Context, o *order.Order) error {
	r.orders[o.ID] = o
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return o, nil
}

func (r *stubOrderRepo) FindByMonth(_ context.Context, month time.Month, year int) ([]*order.Order, error) {
	var out []*order.Order
	for _, o := range r.orders {
		if o.IssueDate.Month() == month && o.IssueDate.Year() == year {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *stubOrderRepo) MaxSequentialNumber(context.Context) (int, error) {
	max := 0
	for _, o := range r.orders {
		if o.SequentialNumber > max {
			max = o.SequentialNumber
		}
	}
	return max, nil
}

func (r *stubOrderRepo) ExistsSequentialNumber(_ context.Context, number int) (bool, error) {
	for _, o := range r.orders {
		if o.SequentialNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status order.Status, closedAt *time.Time) error {
	o, ok := r.orders[id]
	if !ok {
		return shared.ErrNotFound
	}
	o.Status = status
	o.ClosedAt = closedAt
	return nil
}

func (r *stubOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.orders[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

type stubSupplierRepo struct {
	byKey map[string]*partner.Supplier
}

func (r *stubSupplierRepo) FindAll(context.Context) ([]*partner.Supplier, error) {
	var out []*partner.Supplier
	for _, s := range r.byKey {
		out = append(out, s)
	}
	return out, nil
}

func (r *stubSupplierRepo) FindByKey(_ context.Context, key string) (*partner.Supplier, error) {
	s, ok := r.byKey[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return s, nil
}

func (r *stubSupplierRepo) Save(_ context.Context, s *partner.Supplier) error {
	r.byKey[s.NameKey] = s
	return nil
}

func newHandlerTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	orderRepo := &stubOrderRepo{orders: make(map[uuid.UUID]*order.Order)}
	supplierRepo := &stubSupplierRepo{byKey: make(map[string]*partner.Supplier)}
	suppliers := partnerapp.NewService(supplierRepo, zap.NewNop())
	orders := orderapp.NewService(orderRepo, suppliers, order.VariantPurchasing, zap.NewNop())

	engine := gin.New()
	router.NewRouter(engine).
		Register(NewOrderHandler(orders)).
		Register(NewSupplierHandler(suppliers)).
		Setup()
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var resp dto.Response
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

const createBody = `{
	"numero_ordem": 1251,
	"responsavel": "Maria",
	"data_ordem": "2025-03-15",
	"razao_social": "Distribuidora Alfa Ltda",
	"local_entrega": "Depósito Central",
	"forma_pagamento": "Boleto",
	"items": [
		{"especificacao": "Parafuso", "quantidade": 10, "unidade": "CX", "valorUnitario": 2.5}
	]
}`

func createOrder(t *testing.T, engine *gin.Engine) string {
	t.Helper()
	w, resp := doJSON(t, engine, http.MethodPost, "/api/ordens", createBody)
	require.Equal(t, http.StatusCreated, w.Code)
	data := resp.Data.(map[string]interface{})
	return data["id"].(string)
}

func TestOrderHandlerCreate(t *testing.T) {
	engine := newHandlerTestServer(t)

	w, resp := doJSON(t, engine, http.MethodPost, "/api/ordens", createBody)
	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "DISTRIBUIDORA ALFA LTDA", data["razao_social"])
	assert.Equal(t, "R$ 25,00", data["valor_total"])
	assert.Equal(t, "aberta", data["status"])

	t.Run("missing required field is a 400", func(t *testing.T) {
		w, resp := doJSON(t, engine, http.MethodPost, "/api/ordens", `{"numero_ordem": 1}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, resp.Success)
	})
}

func TestOrderHandlerList(t *testing.T) {
	engine := newHandlerTestServer(t)
	createOrder(t, engine)

	t.Run("month parameter is zero based", func(t *testing.T) {
		w, resp := doJSON(t, engine, http.MethodGet, "/api/ordens?mes=2&ano=2025", "")
		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, resp.Data, 1)
	})

	t.Run("adjacent month is empty", func(t *testing.T) {
		w, resp := doJSON(t, engine, http.MethodGet, "/api/ordens?mes=3&ano=2025", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, resp.Data)
	})

	t.Run("out of range month is a 400", func(t *testing.T) {
		w, _ := doJSON(t, engine, http.MethodGet, "/api/ordens?mes=12&ano=2025", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderHandlerLastNumber(t *testing.T) {
	engine := newHandlerTestServer(t)

	w, resp := doJSON(t, engine, http.MethodGet, "/api/ordens/ultimo-numero", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(0), data["ultimoNumero"])

	createOrder(t, engine)

	_, resp = doJSON(t, engine, http.MethodGet, "/api/ordens/ultimo-numero", "")
	data = resp.Data.(map[string]interface{})
	assert.Equal(t, float64(1251), data["ultimoNumero"])
}

func TestOrderHandlerToggleStatus(t *testing.T) {
	engine := newHandlerTestServer(t)
	id := createOrder(t, engine)

	w, resp := doJSON(t, engine, http.MethodPatch, "/api/ordens/"+id+"/status", `{"status": "fechada"}`)
	require.Equal(t, http.StatusOK, w.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "fechada", data["status"])

	t.Run("foreign vocabulary is a 422", func(t *testing.T) {
		w, resp := doJSON(t, engine, http.MethodPatch, "/api/ordens/"+id+"/status", `{"status": "emitida"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeInvalidState, resp.Error.Code)
	})
}

func TestOrderHandlerDelete(t *testing.T) {
	engine := newHandlerTestServer(t)
	id := createOrder(t, engine)

	w, _ := doJSON(t, engine, http.MethodDelete, "/api/ordens/"+id, "")
	require.Equal(t, http.StatusNoContent, w.Code)

	t.Run("second delete is a 404", func(t *testing.T) {
		w, resp := doJSON(t, engine, http.MethodDelete, "/api/ordens/"+id, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	})

	t.Run("malformed id is a 400", func(t *testing.T) {
		w, _ := doJSON(t, engine, http.MethodDelete, "/api/ordens/not-a-uuid", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSupplierHandlerList(t *testing.T) {
	engine := newHandlerTestServer(t)
	createOrder(t, engine)

	w, resp := doJSON(t, engine, http.MethodGet, "/api/fornecedores", "")
	require.Equal(t, http.StatusOK, w.Code)

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "DISTRIBUIDORA ALFA LTDA")
}

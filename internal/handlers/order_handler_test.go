package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pizza_store/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderService struct {
	createErr error
	updateErr error
	getErr    error
	order     *models.Order
	created   *models.Order
}

func (s *fakeOrderService) CreateOrder(ctx context.Context, order *models.Order) error {
	if s.createErr != nil {
		return s.createErr
	}
	order.ID = uuid.New()
	s.created = order
	return nil
}

func (s *fakeOrderService) GetOrders(ctx context.Context, status *models.OrderStatus) ([]models.Order, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.order == nil {
		return nil, nil
	}
	return []models.Order{*s.order}, nil
}

func (s *fakeOrderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.order, nil
}

func (s *fakeOrderService) UpdateOrder(ctx context.Context, order *models.Order) error {
	return s.updateErr
}

func newOrderRouter(svc *fakeOrderService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewOrderHandler(svc, nil)

	router := gin.New()
	router.POST("/orders", handler.CreateOrder)
	router.GET("/orders", handler.GetOrders)
	router.GET("/orders/:id", handler.GetOrder)
	router.PUT("/orders/:id", handler.UpdateOrder)
	return router
}

func performJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestOrderHandlerCreateOrder(t *testing.T) {
	svc := &fakeOrderService{}
	router := newOrderRouter(svc)

	w := performJSON(t, router, http.MethodPost, "/orders", gin.H{
		"phone":   "+380991231212",
		"address": "Baker street 221 B",
		"items": []gin.H{
			{"product_variant_id": uuid.New(), "amount": 2},
		},
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, svc.created.ID.String(), resp["id"])

	// Orders always start uncompleted regardless of the payload.
	assert.Equal(t, models.OrderUncompleted, svc.created.Status)
	require.Len(t, svc.created.Items, 1)
	assert.Equal(t, 2, svc.created.Items[0].Amount)
}

func TestOrderHandlerCreateOrderMissingVariant(t *testing.T) {
	svc := &fakeOrderService{createErr: models.ErrProductVariantNotFound}
	router := newOrderRouter(svc)

	w := performJSON(t, router, http.MethodPost, "/orders", gin.H{
		"phone": "+380991231212",
		"items": []gin.H{
			{"product_variant_id": uuid.New(), "amount": 1},
		},
	})

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error": "Product variant does not exist."}`, w.Body.String())
}

func TestOrderHandlerCreateOrderInvalidAmount(t *testing.T) {
	svc := &fakeOrderService{}
	router := newOrderRouter(svc)

	w := performJSON(t, router, http.MethodPost, "/orders", gin.H{
		"phone": "+380991231212",
		"items": []gin.H{
			{"product_variant_id": uuid.New(), "amount": 0},
		},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, svc.created)
}

func TestOrderHandlerCreateOrderMissingPhone(t *testing.T) {
	svc := &fakeOrderService{}
	router := newOrderRouter(svc)

	w := performJSON(t, router, http.MethodPost, "/orders", gin.H{
		"items": []gin.H{},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderHandlerGetOrderResponseShape(t *testing.T) {
	order := &models.Order{
		ID:      uuid.New(),
		Phone:   "+380991231212",
		Address: "Baker street 221 B",
		Status:  models.OrderUncompleted,
		Items: []models.OrderItem{
			{
				ID:     uuid.New(),
				Amount: 2,
				ProductVariant: models.ProductVariant{
					ID:          uuid.New(),
					Name:        "Small",
					Weight:      decimal.NewFromInt(350),
					WeightUnits: "g",
					Price:       decimal.RequireFromString("2.5"),
					Product: models.Product{
						ID:   uuid.New(),
						Name: "Margarita",
						Category: models.Category{
							ID:   uuid.New(),
							Name: "Pizzas",
						},
					},
				},
			},
		},
	}
	svc := &fakeOrderService{order: order}
	router := newOrderRouter(svc)

	w := performJSON(t, router, http.MethodGet, "/orders/"+order.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ID     uuid.UUID `json:"id"`
		Status string    `json:"status"`
		Items  []struct {
			ProductVariant struct {
				Name    string `json:"name"`
				Product struct {
					Name     string `json:"name"`
					Category struct {
						Name string `json:"name"`
					} `json:"category"`
				} `json:"product"`
			} `json:"product_variant"`
			Amount     int             `json:"amount"`
			TotalPrice decimal.Decimal `json:"total_price"`
		} `json:"items"`
		TotalPrice decimal.Decimal `json:"total_price"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, order.ID, resp.ID)
	assert.Equal(t, "UNCOMPLETED", resp.Status)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Small", resp.Items[0].ProductVariant.Name)
	assert.Equal(t, "Margarita", resp.Items[0].ProductVariant.Product.Name)
	assert.Equal(t, "Pizzas", resp.Items[0].ProductVariant.Product.Category.Name)
	assert.True(t, resp.Items[0].TotalPrice.Equal(decimal.RequireFromString("5")))
	assert.True(t, resp.TotalPrice.Equal(decimal.RequireFromString("5")))
}

func TestOrderHandlerGetOrderMissing(t *testing.T) {
	svc := &fakeOrderService{getErr: models.ErrOrderNotFound}
	router := newOrderRouter(svc)

	w := performJSON(t, router, http.MethodGet, "/orders/"+uuid.NewString(), nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error": "Order does not exist."}`, w.Body.String())
}

func TestOrderHandlerGetOrderInvalidID(t *testing.T) {
	svc := &fakeOrderService{}
	router := newOrderRouter(svc)

	w := performJSON(t, router, http.MethodGet, "/orders/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderHandlerListInvalidStatusFilter(t *testing.T) {
	svc := &fakeOrderService{}
	router := newOrderRouter(svc)

	w := performJSON(t, router, http.MethodGet, "/orders?status=SHIPPED", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderHandlerUpdateOrderMissing(t *testing.T) {
	svc := &fakeOrderService{updateErr: models.ErrOrderNotFound}
	router := newOrderRouter(svc)

	w := performJSON(t, router, http.MethodPut, "/orders/"+uuid.NewString(), gin.H{
		"phone":  "+380991231212",
		"status": "COMPLETED",
		"items":  []gin.H{},
	})

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error": "Order does not exist."}`, w.Body.String())
}

func TestOrderHandlerUpdateOrderInvalidStatus(t *testing.T) {
	svc := &fakeOrderService{}
	router := newOrderRouter(svc)

	w := performJSON(t, router, http.MethodPut, "/orders/"+uuid.NewString(), gin.H{
		"phone":  "+380991231212",
		"status": "SHIPPED",
		"items":  []gin.H{},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
}

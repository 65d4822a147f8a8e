package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"pizza_store/internal/events"
	"pizza_store/internal/middleware"
	"pizza_store/internal/models"
	"pizza_store/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	orderService services.OrderService
	publisher    *events.Publisher
}

func NewOrderHandler(orderService services.OrderService, publisher *events.Publisher) *OrderHandler {
	return &OrderHandler{orderService: orderService, publisher: publisher}
}

type orderItemRequest struct {
	ProductVariantID uuid.UUID `json:"product_variant_id" binding:"required"`
	Amount           int       `json:"amount" binding:"required,gt=0"`
}

type createOrderRequest struct {
	Phone   string             `json:"phone" binding:"required"`
	Address string             `json:"address"`
	Note    string             `json:"note"`
	Items   []orderItemRequest `json:"items"`
}

type updateOrderRequest struct {
	Phone   string             `json:"phone" binding:"required"`
	Address string             `json:"address"`
	Note    string             `json:"note"`
	Status  models.OrderStatus `json:"status" binding:"required,oneof=UNCOMPLETED COMPLETED CANCELLED"`
	Items   []orderItemRequest `json:"items"`
}

// Response shapes mirror the stored aggregate: each item resolves its
// variant, the variant its product, the product its category.

type categoryResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type productInfoResponse struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Category    categoryResponse `json:"category"`
	Description string           `json:"description"`
	ImageURL    string           `json:"image_url"`
}

type variantResponse struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Weight      decimal.Decimal     `json:"weight"`
	WeightUnits string              `json:"weight_units"`
	Price       decimal.Decimal     `json:"price"`
	Product     productInfoResponse `json:"product"`
}

type orderItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductVariant variantResponse `json:"product_variant"`
	Amount         int             `json:"amount"`
	TotalPrice     decimal.Decimal `json:"total_price"`
}

type orderResponse struct {
	ID         uuid.UUID           `json:"id"`
	Phone      string              `json:"phone"`
	Address    string              `json:"address"`
	Note       string              `json:"note"`
	Status     models.OrderStatus  `json:"status"`
	Items      []orderItemResponse `json:"items"`
	TotalPrice decimal.Decimal     `json:"total_price"`
	CreatedAt  time.Time           `json:"created_at"`
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	defer func() {
		status := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middleware.RecordOrderOperation("create", status)
	}()

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order := &models.Order{
		Phone:   req.Phone,
		Address: req.Address,
		Note:    req.Note,
		Status:  models.OrderUncompleted,
		Items:   toOrderItems(req.Items),
	}
	if err := h.orderService.CreateOrder(c.Request.Context(), order); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": order.ID})

	// Publish only after the transaction has committed.
	if err := h.publisher.PublishOrderEvent(order.ID, "created", string(order.Status)); err != nil {
		log.Printf("Failed to publish order created event: %v", err)
	}
}

func (h *OrderHandler) GetOrders(c *gin.Context) {
	defer func() {
		status := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middleware.RecordOrderOperation("list", status)
	}()

	var status *models.OrderStatus
	if raw := c.Query("status"); raw != "" {
		s := models.OrderStatus(raw)
		if !s.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order status"})
			return
		}
		status = &s
	}

	orders, err := h.orderService.GetOrders(c.Request.Context(), status)
	if err != nil {
		h.writeError(c, err)
		return
	}

	responses := make([]orderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, toOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	defer func() {
		status := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middleware.RecordOrderOperation("get", status)
	}()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	defer func() {
		status := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middleware.RecordOrderOperation("update", status)
	}()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order := &models.Order{
		ID:      id,
		Phone:   req.Phone,
		Address: req.Address,
		Note:    req.Note,
		Status:  req.Status,
		Items:   toOrderItems(req.Items),
	}
	if err := h.orderService.UpdateOrder(c.Request.Context(), order); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})

	if err := h.publisher.PublishOrderEvent(id, "updated", string(order.Status)); err != nil {
		log.Printf("Failed to publish order updated event: %v", err)
	}
}

func (h *OrderHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order does not exist."})
	case errors.Is(err, models.ErrProductVariantNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product variant does not exist."})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func toOrderItems(items []orderItemRequest) []models.OrderItem {
	result := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		result = append(result, models.OrderItem{
			ProductVariantID: item.ProductVariantID,
			Amount:           item.Amount,
		})
	}
	return result
}

func toOrderResponse(order *models.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		variant := &item.ProductVariant
		items = append(items, orderItemResponse{
			ID: item.ID,
			ProductVariant: variantResponse{
				ID:          variant.ID,
				Name:        variant.Name,
				Weight:      variant.Weight,
				WeightUnits: variant.WeightUnits,
				Price:       variant.Price,
				Product: productInfoResponse{
					ID:   variant.Product.ID,
					Name: variant.Product.Name,
					Category: categoryResponse{
						ID:   variant.Product.Category.ID,
						Name: variant.Product.Category.Name,
					},
					Description: variant.Product.Description,
					ImageURL:    variant.Product.ImageURL,
				},
			},
			Amount:     item.Amount,
			TotalPrice: item.TotalPrice(),
		})
	}

	return orderResponse{
		ID:         order.ID,
		Phone:      order.Phone,
		Address:    order.Address,
		Note:       order.Note,
		Status:     order.Status,
		Items:      items,
		TotalPrice: order.TotalPrice(),
		CreatedAt:  order.CreatedAt,
	}
}

package services

import (
	"context"

	"pizza_store/internal/models"
	"pizza_store/internal/repository"

	"github.com/google/uuid"
)

// OrderService is a pass-through seam between the transport contract
// and the order store; it adds no behavior of its own.
type OrderService interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrders(ctx context.Context, status *models.OrderStatus) ([]models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateOrder(ctx context.Context, order *models.Order) error
}

type orderService struct {
	orderRepo repository.OrderRepository
}

func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderService{orderRepo: orderRepo}
}

func (s *orderService) CreateOrder(ctx context.Context, order *models.Order) error {
	return s.orderRepo.Create(ctx, order)
}

func (s *orderService) GetOrders(ctx context.Context, status *models.OrderStatus) ([]models.Order, error) {
	return s.orderRepo.GetAll(ctx, status)
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

func (s *orderService) UpdateOrder(ctx context.Context, order *models.Order) error {
	return s.orderRepo.Update(ctx, order)
}

package usecase

import (
	"context"

	"go.uber.org/zap"

	"myshop/internal/domain"
	"myshop/internal/dto"
	"myshop/internal/order/mapper"
)

type OrderRepository interface {
	PutOrder(ctx context.Context, order domain.Order) error
	FindByCustomerAndDateRange(ctx context.Context, customerID, startDate, endDate string) ([]domain.Order, error)
	FindByOrderID(ctx context.Context, orderID string) (*domain.Order, error)
}

type OrderUseCase struct {
	orderRepo OrderRepository
	mapper    *mapper.Mapper
	logger    *zap.Logger
}

func NewOrderUseCase(orderRepo OrderRepository, m *mapper.Mapper, logger *zap.Logger) *OrderUseCase {
	return &OrderUseCase{
		orderRepo: orderRepo,
		mapper:    m,
		logger:    logger,
	}
}

// CreateOrder builds a new order for the authenticated customer and persists
// it. The order id and date are generated; the caller controls only the items.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, customerID string, payload dto.OrderPayload) (*domain.Order, error) {
	order := uc.mapper.MapCreateOrder(customerID, payload)

	if err := uc.orderRepo.PutOrder(ctx, order); err != nil {
		return nil, err
	}

	uc.logger.Info("order created",
		zap.String("orderId", order.OrderID),
		zap.String("customerId", order.CustomerID),
		zap.Int("itemCount", len(order.OrderItems)),
	)

	return &order, nil
}

// ListOrders returns the customer's orders with dates in [startDate, endDate].
// Zero matches yields an empty slice, not an error.
func (uc *OrderUseCase) ListOrders(ctx context.Context, customerID, startDate, endDate string) ([]domain.Order, error) {
	orders, err := uc.orderRepo.FindByCustomerAndDateRange(ctx, customerID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	uc.logger.Debug("orders listed",
		zap.String("customerId", customerID),
		zap.String("startDate", startDate),
		zap.String("endDate", endDate),
		zap.Int("count", len(orders)),
	)

	return orders, nil
}

// UpdateOrder looks up an existing order by id, replaces its items wholesale
// and persists the result under the same key. A NotFoundError from the lookup
// propagates untranslated.
func (uc *OrderUseCase) UpdateOrder(ctx context.Context, orderID string, payload dto.OrderPayload) (*domain.Order, error) {
	existing, err := uc.orderRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	updated := uc.mapper.MapUpdateOrder(*existing, payload)

	if err := uc.orderRepo.PutOrder(ctx, updated); err != nil {
		return nil, err
	}

	uc.logger.Info("order updated",
		zap.String("orderId", updated.OrderID),
		zap.String("customerId", updated.CustomerID),
		zap.Int("itemCount", len(updated.OrderItems)),
	)

	return &updated, nil
}

package order

import (
	"database/sql"

	"go.uber.org/zap"

	"myshop/internal/order/controller"
	"myshop/internal/order/mapper"
	"myshop/internal/order/repository"
	"myshop/internal/order/usecase"
)

func NewModule(db *sql.DB, tableName string, logger *zap.Logger) *controller.OrderController {
	orderRepo := repository.NewMySQLOrderRepository(db, tableName)
	orderUC := usecase.NewOrderUseCase(orderRepo, mapper.New(), logger)
	return controller.NewOrderController(orderUC, logger)
}

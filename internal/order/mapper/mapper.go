package mapper

import (
	"time"

	"github.com/google/uuid"

	"myshop/internal/domain"
	"myshop/internal/dto"
)

// orderDateLayout is second-precision ISO-8601 in UTC. The fixed width keeps
// lexicographic comparison of stored dates equivalent to chronological order.
const orderDateLayout = "2006-01-02T15:04:05Z"

// Mapper builds order entities from request payloads. Now and NewID are only
// overridden in tests.
type Mapper struct {
	Now   func() time.Time
	NewID func() string
}

func New() *Mapper {
	return &Mapper{
		Now:   time.Now,
		NewID: uuid.NewString,
	}
}

// MapCreateOrder builds a fresh order for customerID. The order id and date
// are generated here; the caller never supplies them.
func (m *Mapper) MapCreateOrder(customerID string, payload dto.OrderPayload) domain.Order {
	return domain.Order{
		CustomerID:   customerID,
		OrderDateISO: m.Now().UTC().Format(orderDateLayout),
		OrderID:      m.NewID(),
		OrderItems:   mapOrderItems(payload),
	}
}

// MapUpdateOrder replaces the item sequence of an existing order. CustomerID,
// OrderDateISO and OrderID are immutable after creation and pass through
// unchanged.
func (m *Mapper) MapUpdateOrder(existing domain.Order, payload dto.OrderPayload) domain.Order {
	existing.OrderItems = mapOrderItems(payload)
	return existing
}

func mapOrderItems(payload dto.OrderPayload) []domain.OrderItem {
	items := make([]domain.OrderItem, len(payload.OrderItems))
	for i, item := range payload.OrderItems {
		items[i] = domain.OrderItem{
			ProductID:    item.ProductID,
			ProductTitle: item.ProductTitle,
			ProductPrice: item.ProductPrice,
			Quantity:     item.Quantity,
		}
	}
	return items
}

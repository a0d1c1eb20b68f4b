package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"myshop/internal/domain"
	"myshop/internal/errors"
)

// MySQLOrderRepository persists orders in a single range-keyed table:
// PRIMARY KEY (customer_id, order_date_iso) with a secondary index on
// order_id. Items are stored as a JSON document; they carry no identity of
// their own and are only ever written and read as a whole.
type MySQLOrderRepository struct {
	db        *sql.DB
	tableName string
}

func NewMySQLOrderRepository(db *sql.DB, tableName string) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db, tableName: tableName}
}

// orderItemRecord is the persisted item shape inside the order_items column.
type orderItemRecord struct {
	ProductID    string  `json:"productID"`
	ProductTitle string  `json:"productTitle"`
	ProductPrice float64 `json:"productPrice"`
	Quantity     int     `json:"quantity"`
}

// PutOrder is an unconditional upsert at (customer_id, order_date_iso).
// There is no version check; concurrent writers to the same key race with
// last-write-wins.
func (r *MySQLOrderRepository) PutOrder(ctx context.Context, order domain.Order) error {
	items, err := marshalItems(order.OrderItems)
	if err != nil {
		return fmt.Errorf("encoding order items: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (customer_id, order_date_iso, order_id, order_items)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE order_id = VALUES(order_id), order_items = VALUES(order_items)
	`, r.tableName)

	if _, err := r.db.ExecContext(ctx, query,
		order.CustomerID, order.OrderDateISO, order.OrderID, items,
	); err != nil {
		return fmt.Errorf("upserting order: %w", err)
	}

	return nil
}

// FindByCustomerAndDateRange returns the customer's orders whose date falls
// in the closed interval [startDate, endDate]. BETWEEN compares the
// fixed-width ISO strings lexicographically, which matches chronological
// order. An empty result is not an error.
func (r *MySQLOrderRepository) FindByCustomerAndDateRange(ctx context.Context, customerID, startDate, endDate string) ([]domain.Order, error) {
	query := fmt.Sprintf(`
		SELECT customer_id, order_date_iso, order_id, order_items
		FROM %s
		WHERE customer_id = ? AND order_date_iso BETWEEN ? AND ?
		ORDER BY order_date_iso
	`, r.tableName)

	rows, err := r.db.QueryContext(ctx, query, customerID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("querying orders by date range: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, nil
}

// FindByOrderID is a point lookup via the order_id index. The index is not
// declared unique; at most one match is assumed, as in the original table
// design.
func (r *MySQLOrderRepository) FindByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	query := fmt.Sprintf(`
		SELECT customer_id, order_date_iso, order_id, order_items
		FROM %s
		WHERE order_id = ?
		LIMIT 1
	`, r.tableName)

	row := r.db.QueryRowContext(ctx, query, orderID)
	order, err := scanOrder(row.Scan)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %s not found", orderID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	return &order, nil
}

func scanOrder(scan func(dest ...any) error) (domain.Order, error) {
	var order domain.Order
	var rawItems []byte

	if err := scan(&order.CustomerID, &order.OrderDateISO, &order.OrderID, &rawItems); err != nil {
		if err == sql.ErrNoRows {
			return domain.Order{}, err
		}
		return domain.Order{}, fmt.Errorf("scanning order row: %w", err)
	}

	items, err := unmarshalItems(rawItems)
	if err != nil {
		return domain.Order{}, fmt.Errorf("decoding order items: %w", err)
	}
	order.OrderItems = items

	return order, nil
}

func marshalItems(items []domain.OrderItem) ([]byte, error) {
	records := make([]orderItemRecord, len(items))
	for i, item := range items {
		records[i] = orderItemRecord{
			ProductID:    item.ProductID,
			ProductTitle: item.ProductTitle,
			ProductPrice: item.ProductPrice,
			Quantity:     item.Quantity,
		}
	}
	return json.Marshal(records)
}

func unmarshalItems(raw []byte) ([]domain.OrderItem, error) {
	var records []orderItemRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, len(records))
	for i, record := range records {
		items[i] = domain.OrderItem{
			ProductID:    record.ProductID,
			ProductTitle: record.ProductTitle,
			ProductPrice: record.ProductPrice,
			Quantity:     record.Quantity,
		}
	}
	return items, nil
}

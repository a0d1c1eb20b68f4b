package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myshop/internal/domain"
	"myshop/internal/errors"
	"myshop/internal/testutil"
)

// Unit Tests

func TestNewMySQLOrderRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLOrderRepository(db, "orders")

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
	assert.Equal(t, "orders", repo.tableName)
}

// Integration Tests

func setupRepo(t *testing.T) (*MySQLOrderRepository, *sql.DB) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	return NewMySQLOrderRepository(db, testutil.OrdersTable), db
}

func sampleOrder(customerID, dateISO, orderID string) domain.Order {
	return domain.Order{
		CustomerID:   customerID,
		OrderDateISO: dateISO,
		OrderID:      orderID,
		OrderItems: []domain.OrderItem{
			{ProductID: "P1", ProductTitle: "Widget", ProductPrice: 9.99, Quantity: 2},
		},
	}
}

func TestOrderRepository_PutAndFindByOrderID(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	order := sampleOrder("cust-123", "2026-08-27T10:30:45Z", "order-1")
	require.NoError(t, repo.PutOrder(ctx, order))

	found, err := repo.FindByOrderID(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, order, *found)
}

func TestOrderRepository_FindByOrderID_NotFound(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	_, err := repo.FindByOrderID(ctx, "order-404")
	require.Error(t, err)

	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok, "expected NotFoundError, got %T", err)
}

func TestOrderRepository_PutOrder_UpsertOverwrites(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	order := sampleOrder("cust-123", "2026-08-27T10:30:45Z", "order-1")
	require.NoError(t, repo.PutOrder(ctx, order))

	// Same key, new items. The second write wins unconditionally.
	order.OrderItems = []domain.OrderItem{
		{ProductID: "P2", ProductTitle: "Gadget", ProductPrice: 19.99, Quantity: 1},
	}
	require.NoError(t, repo.PutOrder(ctx, order))

	found, err := repo.FindByOrderID(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, order.OrderItems, found.OrderItems)

	orders, err := repo.FindByCustomerAndDateRange(ctx, "cust-123", "2026-01-01T00:00:00Z", "2026-12-31T23:59:59Z")
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestOrderRepository_FindByCustomerAndDateRange_ClosedInterval(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	dates := []string{
		"2026-08-25T00:00:00Z",
		"2026-08-26T00:00:00Z",
		"2026-08-27T00:00:00Z",
		"2026-08-28T00:00:00Z",
	}
	for _, date := range dates {
		order := sampleOrder("cust-123", date, "order-"+date[8:10])
		require.NoError(t, repo.PutOrder(ctx, order))
	}

	// Both endpoints are inclusive.
	orders, err := repo.FindByCustomerAndDateRange(ctx, "cust-123", "2026-08-26T00:00:00Z", "2026-08-27T00:00:00Z")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "2026-08-26T00:00:00Z", orders[0].OrderDateISO)
	assert.Equal(t, "2026-08-27T00:00:00Z", orders[1].OrderDateISO)
}

func TestOrderRepository_FindByCustomerAndDateRange_FiltersByCustomer(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.PutOrder(ctx, sampleOrder("cust-123", "2026-08-27T10:00:00Z", "order-1")))
	require.NoError(t, repo.PutOrder(ctx, sampleOrder("cust-456", "2026-08-27T11:00:00Z", "order-2")))

	orders, err := repo.FindByCustomerAndDateRange(ctx, "cust-123", "2026-08-27T00:00:00Z", "2026-08-27T23:59:59Z")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "cust-123", orders[0].CustomerID)
	assert.Equal(t, "order-1", orders[0].OrderID)
}

func TestOrderRepository_FindByCustomerAndDateRange_EmptyResult(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.PutOrder(ctx, sampleOrder("cust-123", "2026-08-27T10:00:00Z", "order-1")))

	orders, err := repo.FindByCustomerAndDateRange(ctx, "cust-123", "2027-01-01T00:00:00Z", "2027-12-31T23:59:59Z")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

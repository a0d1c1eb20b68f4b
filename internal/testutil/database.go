package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// OrdersTable is the table name used by integration tests.
const OrdersTable = "orders"

// SetupTestDB opens the integration-test database. It expects a MySQL
// instance on localhost:3306 with a database named 'myshop_test' and skips
// the test when none is available.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/myshop_test"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// SetupTestTables creates the orders table: composite primary key on
// (customer_id, order_date_iso) plus a secondary index on order_id.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createOrdersTable := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		customer_id    VARCHAR(64)  NOT NULL,
		order_date_iso VARCHAR(20)  NOT NULL,
		order_id       VARCHAR(64)  NOT NULL,
		order_items    JSON         NOT NULL,
		PRIMARY KEY (customer_id, order_date_iso),
		KEY idx_order_id (order_id)
	)`, OrdersTable)

	if _, err := db.Exec(createOrdersTable); err != nil {
		t.Fatalf("failed to create orders table: %v", err)
	}
}

// CleanupTestDB empties the test tables and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", OrdersTable)); err != nil {
		t.Logf("failed to clean table %s: %v", OrdersTable, err)
	}

	db.Close()
}

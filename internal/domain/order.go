package domain

// Order is keyed by (CustomerID, OrderDateISO); OrderID is the alternate
// lookup key. Both identify the same record.
type Order struct {
	CustomerID   string
	OrderDateISO string
	OrderID      string
	OrderItems   []OrderItem
}

// OrderItem has no identity of its own; it only exists as part of an
// Order's item sequence and is replaced wholesale on update.
type OrderItem struct {
	ProductID    string
	ProductTitle string
	ProductPrice float64
	Quantity     int
}

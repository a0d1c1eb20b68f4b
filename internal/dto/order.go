package dto

type OrderPayload struct {
	OrderItems []OrderItemPayload `json:"orderItems"`
}

type OrderItemPayload struct {
	ProductID    string  `json:"productID"`
	ProductTitle string  `json:"productTitle"`
	ProductPrice float64 `json:"productPrice"`
	Quantity     int     `json:"quantity"`
}

type OrderResponse struct {
	CustomerID   string              `json:"customerID"`
	OrderDateISO string              `json:"orderDateISO"`
	OrderID      string              `json:"orderID"`
	OrderItems   []OrderItemResponse `json:"orderItems"`
}

type OrderItemResponse struct {
	ProductID    string  `json:"productID"`
	ProductTitle string  `json:"productTitle"`
	ProductPrice float64 `json:"productPrice"`
	Quantity     int     `json:"quantity"`
}

package orders

import (
	"encoding/json"
	"time"

	"matbaa-backend/internal/models"
)

// API gövdelerinde alan adları eski istemciyle uyumlu (camelCase).
type ItemResponse struct {
	ID        uint           `json:"id"`
	OrderID   uint           `json:"orderId"`
	Type      string         `json:"type"`
	Params    map[string]any `json:"params"`
	Price     float64        `json:"price"`
	Quantity  int            `json:"quantity"`
	PrinterID *uint          `json:"printerId,omitempty"`
	Sides     int            `json:"sides"`
	Sheets    int            `json:"sheets"`
	Waste     int            `json:"waste"`
	Clicks    int            `json:"clicks"`
}

type OrderResponse struct {
	ID               uint           `json:"id"`
	Number           string         `json:"number"`
	Status           int            `json:"status"`
	CreatedAt        string         `json:"createdAt"`
	CustomerName     string         `json:"customerName"`
	CustomerPhone    string         `json:"customerPhone"`
	CustomerEmail    string         `json:"customerEmail"`
	PrepaymentAmount float64        `json:"prepaymentAmount"`
	PrepaymentStatus string         `json:"prepaymentStatus"`
	PaymentURL       string         `json:"paymentUrl"`
	PaymentID        string         `json:"paymentId"`
	UserID           *uint          `json:"userId"`
	Items            []ItemResponse `json:"items"`
}

func NewItemResponse(it models.Item) ItemResponse {
	params := map[string]any{}
	if err := json.Unmarshal([]byte(it.Params), &params); err != nil {
		params = map[string]any{"description": "Veri hatası"}
	}
	return ItemResponse{
		ID:        it.ID,
		OrderID:   it.OrderID,
		Type:      it.Type,
		Params:    params,
		Price:     it.Price,
		Quantity:  it.Quantity,
		PrinterID: it.PrinterID,
		Sides:     it.Sides,
		Sheets:    it.Sheets,
		Waste:     it.Waste,
		Clicks:    it.Clicks,
	}
}

func NewOrderResponse(o models.Order) OrderResponse {
	items := make([]ItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, NewItemResponse(it))
	}
	return OrderResponse{
		ID:               o.ID,
		Number:           o.Number,
		Status:           o.Status,
		CreatedAt:        o.CreatedAt.Format(time.RFC3339),
		CustomerName:     o.CustomerName,
		CustomerPhone:    o.CustomerPhone,
		CustomerEmail:    o.CustomerEmail,
		PrepaymentAmount: o.PrepaymentAmount,
		PrepaymentStatus: o.PrepaymentStatus,
		PaymentURL:       o.PaymentURL,
		PaymentID:        o.PaymentID,
		UserID:           o.UserID,
		Items:            items,
	}
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/tavolo/ordercore/internal/core/domain"
	"github.com/tavolo/ordercore/internal/core/service"
)

type errorHTTPResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type orderItemResponse struct {
	ID                  int64  `json:"id"`
	MenuItemID          int64  `json:"menu_item_id"`
	ItemName            string `json:"item_name"`
	ItemPrice           string `json:"item_price"`
	Quantity            int    `json:"quantity"`
	TotalPrice          string `json:"total_price"`
	SpecialInstructions string `json:"special_instructions,omitempty"`
}

type orderResponse struct {
	ID           int64               `json:"id"`
	OrderNumber  string              `json:"order_number"`
	RestaurantID int64               `json:"restaurant_id"`
	CustomerID   int64               `json:"customer_id"`
	Status       string              `json:"status"`
	Subtotal     string              `json:"subtotal"`
	TaxAmount    string              `json:"tax_amount"`
	TotalAmount  string              `json:"total_amount"`
	Notes        string              `json:"notes,omitempty"`
	Items        []orderItemResponse `json:"items,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

func toOrderResponse(o *domain.Order) orderResponse {
	resp := orderResponse{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		RestaurantID: o.RestaurantID,
		CustomerID:   o.CustomerID,
		Status:       string(o.Status),
		Subtotal:     o.Subtotal.StringFixed(2),
		TaxAmount:    o.TaxAmount.StringFixed(2),
		TotalAmount:  o.TotalAmount.StringFixed(2),
		Notes:        o.Notes,
		CreatedAt:    o.CreatedAt,
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ID:                  item.ID,
			MenuItemID:          item.MenuItemID,
			ItemName:            item.ItemName,
			ItemPrice:           item.ItemPrice.StringFixed(2),
			Quantity:            item.Quantity,
			TotalPrice:          item.TotalPrice.StringFixed(2),
			SpecialInstructions: item.SpecialInstructions,
		})
	}
	return resp
}

func toOrderListResponse(orders []domain.Order) []orderResponse {
	resp := make([]orderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, toOrderResponse(&orders[i]))
	}
	return resp
}

type menuItemResponse struct {
	ID          int64  `json:"id"`
	CategoryID  int64  `json:"menu_category_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
	IsAvailable bool   `json:"is_available"`
	SortOrder   int    `json:"sort_order"`
	Status      string `json:"status"`
}

func toMenuItemResponse(item *domain.MenuItem) menuItemResponse {
	return menuItemResponse{
		ID:          item.ID,
		CategoryID:  item.CategoryID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price.StringFixed(2),
		Stock:       item.Stock,
		IsAvailable: item.IsAvailable,
		SortOrder:   item.SortOrder,
		Status:      string(item.Status),
	}
}

type reservationResponse struct {
	ID              int64     `json:"id"`
	RestaurantID    int64     `json:"restaurant_id"`
	CustomerID      int64     `json:"customer_id"`
	PartySize       int       `json:"party_size"`
	ReservationTime time.Time `json:"reservation_time"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes,omitempty"`
}

func toReservationResponse(res *domain.Reservation) reservationResponse {
	return reservationResponse{
		ID:              res.ID,
		RestaurantID:    res.RestaurantID,
		CustomerID:      res.CustomerID,
		PartySize:       res.PartySize,
		ReservationTime: res.ReservationTime,
		Status:          string(res.Status),
		Notes:           res.Notes,
	}
}

type paymentResponse struct {
	ID            int64     `json:"id"`
	OrderID       int64     `json:"order_id"`
	Method        string    `json:"payment_method"`
	Amount        string    `json:"amount"`
	TransactionID string    `json:"transaction_id"`
	Status        string    `json:"status"`
	PaidAt        time.Time `json:"paid_at"`
}

func toPaymentResponse(p *domain.Payment) paymentResponse {
	return paymentResponse{
		ID:            p.ID,
		OrderID:       p.OrderID,
		Method:        string(p.Method),
		Amount:        p.Amount.StringFixed(2),
		TransactionID: p.TransactionID,
		Status:        p.Status,
		PaidAt:        p.PaidAt,
	}
}

func writeError(w http.ResponseWriter, err error) {
	var (
		validationErr *domain.ValidationError
		stockErr      *domain.InsufficientStockError
	)
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorHTTPResponse{Message: validationErr.Error(), Field: validationErr.Field})
	case errors.As(err, &stockErr):
		writeJSON(w, http.StatusConflict, errorHTTPResponse{Message: stockErr.Error()})
	case errors.Is(err, service.ErrDuplicateRequest):
		writeJSON(w, http.StatusConflict, errorHTTPResponse{Message: "duplicate request"})
	case errors.Is(err, domain.ErrInvalidStatusTransition):
		writeJSON(w, http.StatusConflict, errorHTTPResponse{Message: err.Error()})
	case errors.Is(err, domain.ErrNotRestaurantOwner):
		writeJSON(w, http.StatusForbidden, errorHTTPResponse{Message: err.Error()})
	case errors.Is(err, domain.ErrMenuItemNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrReservationNotFound),
		errors.Is(err, domain.ErrPaymentNotFound):
		writeJSON(w, http.StatusNotFound, errorHTTPResponse{Message: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorHTTPResponse{Message: "internal error"})
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorHTTPResponse{Message: message})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

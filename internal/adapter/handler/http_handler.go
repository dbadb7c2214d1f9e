package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tavolo/ordercore/internal/core/domain"
	"github.com/tavolo/ordercore/internal/core/service"
)

// HTTPHandler exposes the ordering core as a JSON API. Authentication happens
// upstream: the fronting layer resolves the session and forwards the caller's
// identity in X-Customer-ID (customers) or X-Restaurant-ID (owners), which
// the core trusts as-is.
type HTTPHandler struct {
	orders       *service.OrderService
	menu         *service.MenuService
	reservations *service.ReservationService
	payments     *service.PaymentService
}

func NewHTTPHandler(orders *service.OrderService, menu *service.MenuService, reservations *service.ReservationService, payments *service.PaymentService) *HTTPHandler {
	return &HTTPHandler{
		orders:       orders,
		menu:         menu,
		reservations: reservations,
		payments:     payments,
	}
}

func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.HealthCheck)

	mux.HandleFunc("POST /api/orders", h.PlaceOrder)
	mux.HandleFunc("GET /api/orders", h.ListCustomerOrders)
	mux.HandleFunc("GET /api/orders/{id}", h.GetOrder)
	mux.HandleFunc("POST /api/orders/{id}/status", h.UpdateOrderStatus)

	mux.HandleFunc("GET /api/restaurants/{id}/menu", h.ListMenu)
	mux.HandleFunc("GET /api/restaurants/{id}/orders", h.ListRestaurantOrders)
	mux.HandleFunc("GET /api/restaurants/{id}/reservations", h.ListRestaurantReservations)
	mux.HandleFunc("POST /api/menu-items", h.CreateMenuItem)
	mux.HandleFunc("PATCH /api/menu-items/{id}", h.UpdateMenuItem)

	mux.HandleFunc("POST /api/reservations", h.CreateReservation)
	mux.HandleFunc("GET /api/reservations/{id}", h.GetReservation)
	mux.HandleFunc("POST /api/reservations/{id}/status", h.UpdateReservationStatus)

	mux.HandleFunc("POST /api/payments", h.RecordPayment)
	mux.HandleFunc("GET /api/payments/{id}", h.GetPayment)
}

type placeOrderHTTPRequest struct {
	RestaurantID int64  `json:"restaurant_id"`
	Notes        string `json:"notes"`
	Items        []struct {
		MenuItemID          int64  `json:"menu_item_id"`
		Quantity            int    `json:"quantity"`
		SpecialInstructions string `json:"special_instructions"`
	} `json:"items"`
}

func (h *HTTPHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	customerID, ok := customerID(w, r)
	if !ok {
		return
	}

	var req placeOrderHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cart := make([]domain.CartLine, 0, len(req.Items))
	for _, item := range req.Items {
		cart = append(cart, domain.CartLine{
			MenuItemID:          item.MenuItemID,
			Quantity:            item.Quantity,
			SpecialInstructions: item.SpecialInstructions,
		})
	}

	order, err := h.orders.PlaceOrder(r.Context(), service.PlaceOrderRequest{
		RequestID:    r.Header.Get("Idempotency-Key"),
		CustomerID:   customerID,
		RestaurantID: req.RestaurantID,
		Cart:         cart,
		Notes:        req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

func (h *HTTPHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	order, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *HTTPHandler) ListCustomerOrders(w http.ResponseWriter, r *http.Request) {
	customerID, ok := customerID(w, r)
	if !ok {
		return
	}
	limit, offset := pageParams(r)
	orders, err := h.orders.ListCustomerOrders(r.Context(), customerID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderListResponse(orders))
}

func (h *HTTPHandler) ListRestaurantOrders(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	limit, offset := pageParams(r)
	orders, err := h.orders.ListRestaurantOrders(r.Context(), id, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderListResponse(orders))
}

type updateStatusHTTPRequest struct {
	Status string `json:"status"`
}

func (h *HTTPHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateStatusHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	order, err := h.orders.UpdateOrderStatus(r.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *HTTPHandler) ListMenu(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	items, err := h.menu.ListMenu(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]menuItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toMenuItemResponse(&items[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

type menuItemHTTPRequest struct {
	CategoryID  *int64  `json:"menu_category_id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *string `json:"price"`
	Stock       *int    `json:"stock"`
	IsAvailable *bool   `json:"is_available"`
	SortOrder   *int    `json:"sort_order"`
	Status      *string `json:"status"`
}

func (h *HTTPHandler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := restaurantID(w, r)
	if !ok {
		return
	}
	var req menuItemHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item := domain.MenuItem{IsAvailable: true}
	if req.CategoryID != nil {
		item.CategoryID = *req.CategoryID
	}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil {
		price, err := decimal.NewFromString(*req.Price)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid price")
			return
		}
		item.Price = price
	}
	if req.Stock != nil {
		item.Stock = *req.Stock
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if req.SortOrder != nil {
		item.SortOrder = *req.SortOrder
	}
	if req.Status != nil {
		item.Status = domain.MenuItemStatus(*req.Status)
	}

	created, err := h.menu.CreateMenuItem(r.Context(), restaurantID, item)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMenuItemResponse(created))
}

func (h *HTTPHandler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := restaurantID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req menuItemHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	upd := service.MenuItemUpdate{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Stock:       req.Stock,
		IsAvailable: req.IsAvailable,
		SortOrder:   req.SortOrder,
	}
	if req.Price != nil {
		price, err := decimal.NewFromString(*req.Price)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid price")
			return
		}
		upd.Price = &price
	}
	if req.Status != nil {
		status := domain.MenuItemStatus(*req.Status)
		upd.Status = &status
	}

	item, err := h.menu.UpdateMenuItem(r.Context(), restaurantID, id, upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMenuItemResponse(item))
}

type createReservationHTTPRequest struct {
	RestaurantID    int64     `json:"restaurant_id"`
	PartySize       int       `json:"party_size"`
	ReservationTime time.Time `json:"reservation_time"`
	Notes           string    `json:"notes"`
}

func (h *HTTPHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	customerID, ok := customerID(w, r)
	if !ok {
		return
	}
	var req createReservationHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := h.reservations.CreateReservation(r.Context(), service.CreateReservationRequest{
		CustomerID:      customerID,
		RestaurantID:    req.RestaurantID,
		PartySize:       req.PartySize,
		ReservationTime: req.ReservationTime,
		Notes:           req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReservationResponse(res))
}

func (h *HTTPHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	res, err := h.reservations.GetReservation(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationResponse(res))
}

func (h *HTTPHandler) ListRestaurantReservations(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	limit, offset := pageParams(r)
	reservations, err := h.reservations.ListRestaurantReservations(r.Context(), id, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]reservationResponse, 0, len(reservations))
	for i := range reservations {
		resp = append(resp, toReservationResponse(&reservations[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) UpdateReservationStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateStatusHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := h.reservations.UpdateReservationStatus(r.Context(), id, domain.ReservationStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationResponse(res))
}

type recordPaymentHTTPRequest struct {
	OrderID        int64  `json:"order_id"`
	PaymentMethod  string `json:"payment_method"`
	Amount         string `json:"amount"`
	PaymentDetails string `json:"payment_details"`
}

func (h *HTTPHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	customerID, ok := customerID(w, r)
	if !ok {
		return
	}
	var req recordPaymentHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid amount")
		return
	}
	payment, err := h.payments.RecordPayment(r.Context(), service.RecordPaymentRequest{
		OrderID:    req.OrderID,
		CustomerID: customerID,
		Method:     domain.PaymentMethod(req.PaymentMethod),
		Amount:     amount,
		Details:    req.PaymentDetails,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentResponse(payment))
}

func (h *HTTPHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	payment, err := h.payments.GetPayment(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentResponse(payment))
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func customerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	return identityHeader(w, r, "X-Customer-ID")
}

func restaurantID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	return identityHeader(w, r, "X-Restaurant-ID")
}

func identityHeader(w http.ResponseWriter, r *http.Request, header string) (int64, bool) {
	id, err := strconv.ParseInt(r.Header.Get(header), 10, 64)
	if err != nil || id <= 0 {
		writeMessage(w, http.StatusUnauthorized, "missing or invalid "+header)
		return 0, false
	}
	return id, true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeMessage(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func pageParams(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}

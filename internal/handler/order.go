package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"ordercore/internal/domain"
	"ordercore/internal/service"
)

// OrderHandler handles HTTP requests for order endpoints.
type OrderHandler struct {
	orderSvc *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderSvc *service.OrderService) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

// createOrderRequest is the JSON request body for POST /orders. Price
// is a string so the decimal literal reaches the domain untouched.
type createOrderRequest struct {
	Type        string  `json:"type"`
	Symbol      string  `json:"symbol"`
	Venue       string  `json:"venue"`
	Side        string  `json:"side"`
	Quantity    int64   `json:"quantity"`
	Price       *string `json:"price"`
	Label       *string `json:"label"`
	TimeInForce *string `json:"time_in_force"`
	ExpireTime  *string `json:"expire_time"`
}

// createBracketRequest is the JSON request body for POST /orders/bracket.
type createBracketRequest struct {
	Symbol       string  `json:"symbol"`
	Venue        string  `json:"venue"`
	Side         string  `json:"side"`
	Quantity     int64   `json:"quantity"`
	StopLoss     string  `json:"stop_loss"`
	ProfitTarget *string `json:"profit_target"`
	Label        *string `json:"label"`
}

// orderResponse is the JSON representation of an order's read surface.
// Nullable fields use pointers.
type orderResponse struct {
	OrderID        string  `json:"order_id"`
	Symbol         string  `json:"symbol"`
	Venue          string  `json:"venue"`
	Side           string  `json:"side"`
	Type           string  `json:"type"`
	Quantity       int64   `json:"quantity"`
	TimeInForce    string  `json:"time_in_force"`
	Status         string  `json:"status"`
	IsComplete     bool    `json:"is_complete"`
	Price          *string `json:"price"`
	Label          *string `json:"label"`
	ExpireTime     *string `json:"expire_time"`
	BrokerOrderID  *string `json:"broker_order_id"`
	FilledQuantity int64   `json:"filled_quantity"`
	AveragePrice   *string `json:"average_price"`
	Slippage       string  `json:"slippage"`
	EventCount     int     `json:"event_count"`
	CreatedAt      string  `json:"created_at"`
}

// bracketResponse is the JSON representation of an atomic order.
type bracketResponse struct {
	BracketID    string         `json:"bracket_id"`
	Entry        orderResponse  `json:"entry"`
	StopLoss     orderResponse  `json:"stop_loss"`
	ProfitTarget *orderResponse `json:"profit_target"`
	Timestamp    string         `json:"timestamp"`
}

// listOrdersResponse is the JSON response for GET /orders.
type listOrdersResponse struct {
	Orders []orderResponse `json:"orders"`
	Total  int             `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}

// CreateOrder handles POST /orders.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var expireTime *time.Time
	if req.ExpireTime != nil {
		t, err := time.Parse(time.RFC3339, *req.ExpireTime)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "expire_time must be a valid RFC 3339 timestamp")
			return
		}
		expireTime = &t
	}

	order, err := h.orderSvc.CreateOrder(service.CreateOrderRequest{
		Type:        req.Type,
		Symbol:      req.Symbol,
		Venue:       req.Venue,
		Side:        req.Side,
		Quantity:    req.Quantity,
		Price:       req.Price,
		Label:       req.Label,
		TimeInForce: req.TimeInForce,
		ExpireTime:  expireTime,
	})
	if err != nil {
		mapOrderError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, buildOrderResponse(order))
}

// CreateBracket handles POST /orders/bracket.
func (h *OrderHandler) CreateBracket(w http.ResponseWriter, r *http.Request) {
	var req createBracketRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	bracket, err := h.orderSvc.CreateBracket(service.CreateBracketRequest{
		Symbol:       req.Symbol,
		Venue:        req.Venue,
		Side:         req.Side,
		Quantity:     req.Quantity,
		StopLoss:     req.StopLoss,
		ProfitTarget: req.ProfitTarget,
		Label:        req.Label,
	})
	if err != nil {
		mapOrderError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, buildBracketResponse(bracket))
}

// GetOrder handles GET /orders/{order_id}.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")

	order, err := h.orderSvc.GetOrder(domain.OrderID(orderID))
	if err != nil {
		mapOrderError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildOrderResponse(order))
}

// GetBracket handles GET /brackets/{bracket_id}.
func (h *OrderHandler) GetBracket(w http.ResponseWriter, r *http.Request) {
	bracketID := chi.URLParam(r, "bracket_id")

	bracket, err := h.orderSvc.GetBracket(domain.OrderID(bracketID))
	if err != nil {
		mapOrderError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildBracketResponse(bracket))
}

// ListOrders handles GET /orders.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var status *string
	if s := q.Get("status"); s != "" {
		status = &s
	}

	page := 1
	if p := q.Get("page"); p != "" {
		v, err := strconv.Atoi(p)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "page must be an integer")
			return
		}
		page = v
	}
	limit := 20
	if l := q.Get("limit"); l != "" {
		v, err := strconv.Atoi(l)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "limit must be an integer")
			return
		}
		limit = v
	}

	orders, total, err := h.orderSvc.ListOrders(q.Get("symbol"), q.Get("venue"), status, page, limit)
	if err != nil {
		mapOrderError(w, err)
		return
	}

	resp := listOrdersResponse{
		Orders: make([]orderResponse, len(orders)),
		Total:  total,
		Page:   page,
		Limit:  limit,
	}
	for i, o := range orders {
		resp.Orders[i] = buildOrderResponse(o)
	}
	WriteJSON(w, http.StatusOK, resp)
}

// buildOrderResponse converts an order snapshot to JSON form.
func buildOrderResponse(o domain.OrderSnapshot) orderResponse {
	resp := orderResponse{
		OrderID:        string(o.ID),
		Symbol:         o.Symbol.Code,
		Venue:          string(o.Symbol.Venue),
		Side:           string(o.Side),
		Type:           string(o.Type),
		Quantity:       o.Quantity,
		TimeInForce:    string(o.TimeInForce),
		Status:         string(o.Status),
		IsComplete:     o.IsComplete,
		FilledQuantity: o.FilledQuantity,
		Slippage:       o.Slippage.String(),
		EventCount:     o.EventCount,
		CreatedAt:      o.Timestamp.UTC().Format(time.RFC3339),
	}

	if o.Price != nil {
		s := o.Price.String()
		resp.Price = &s
	}
	if o.Label != nil {
		s := string(*o.Label)
		resp.Label = &s
	}
	if o.ExpireTime != nil {
		s := o.ExpireTime.UTC().Format(time.RFC3339)
		resp.ExpireTime = &s
	}
	if o.BrokerOrderID != "" {
		s := string(o.BrokerOrderID)
		resp.BrokerOrderID = &s
	}
	if o.AveragePrice != nil {
		s := o.AveragePrice.String()
		resp.AveragePrice = &s
	}

	return resp
}

// buildBracketResponse converts an atomic order snapshot to JSON form.
func buildBracketResponse(b domain.AtomicOrderSnapshot) bracketResponse {
	resp := bracketResponse{
		BracketID: string(b.ID),
		Entry:     buildOrderResponse(b.Entry),
		StopLoss:  buildOrderResponse(b.StopLoss),
		Timestamp: b.Timestamp.UTC().Format(time.RFC3339),
	}
	if b.ProfitTarget != nil {
		pt := buildOrderResponse(*b.ProfitTarget)
		resp.ProfitTarget = &pt
	}
	return resp
}

// mapOrderError maps domain errors to HTTP responses for order
// endpoints.
func mapOrderError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		WriteError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, domain.ErrBracketNotFound):
		WriteError(w, http.StatusNotFound, "bracket_not_found", err.Error())
	case errors.Is(err, domain.ErrEventOrderMismatch):
		WriteError(w, http.StatusConflict, "event_order_mismatch", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

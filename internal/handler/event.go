package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ordercore/internal/domain"
	"ordercore/internal/service"
)

// EventHandler ingests venue-reported order events. It translates the
// tagged JSON body into the matching domain event and hands it to the
// service layer for application.
type EventHandler struct {
	orderSvc *service.OrderService
	clock    domain.Clock
}

// NewEventHandler creates a new EventHandler using the system clock
// for defaulted timestamps.
func NewEventHandler(orderSvc *service.OrderService) *EventHandler {
	return &EventHandler{orderSvc: orderSvc, clock: domain.SystemClock{}}
}

// applyEventRequest is the JSON request body for
// POST /orders/{order_id}/events. Type selects the event; the other
// fields are read per type. Prices are decimal literal strings.
type applyEventRequest struct {
	Type      string  `json:"type"`
	Timestamp *string `json:"timestamp"`

	Reason   *string `json:"reason"`
	Response *string `json:"response"`

	BrokerOrderID *string `json:"broker_order_id"`
	Price         *string `json:"price"`
	ExpireTime    *string `json:"expire_time"`

	ExecutionID     *string `json:"execution_id"`
	ExecutionTicket *string `json:"execution_ticket"`
	FilledQuantity  *int64  `json:"filled_quantity"`
	LeavesQuantity  *int64  `json:"leaves_quantity"`
	AveragePrice    *string `json:"average_price"`
}

// ApplyEvent handles POST /orders/{order_id}/events.
func (h *EventHandler) ApplyEvent(w http.ResponseWriter, r *http.Request) {
	orderID := domain.OrderID(chi.URLParam(r, "order_id"))

	var req applyEventRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	order, err := h.orderSvc.GetOrder(orderID)
	if err != nil {
		mapOrderError(w, err)
		return
	}

	event, err := h.buildEvent(order, req)
	if err != nil {
		mapOrderError(w, err)
		return
	}

	updated, err := h.orderSvc.ApplyEvent(orderID, event)
	if err != nil {
		mapOrderError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildOrderResponse(updated))
}

// buildEvent constructs the domain event the request describes. The
// event base is addressed to the given order; the request timestamp
// defaults to the current time when omitted.
func (h *EventHandler) buildEvent(order domain.OrderSnapshot, req applyEventRequest) (domain.Event, error) {
	at := h.clock.Now()
	if req.Timestamp != nil {
		t, err := time.Parse(time.RFC3339, *req.Timestamp)
		if err != nil {
			return nil, &domain.ValidationError{
				Message: "timestamp must be a valid RFC 3339 timestamp",
			}
		}
		at = t
	}

	base := domain.EventBase{
		Symbol:    order.Symbol,
		OrderID:   order.ID,
		EventID:   domain.NewEventID(),
		Timestamp: at,
	}

	switch req.Type {
	case "submitted":
		return domain.OrderSubmitted{EventBase: base, SubmittedTime: at}, nil

	case "accepted":
		return domain.OrderAccepted{EventBase: base, AcceptedTime: at}, nil

	case "rejected":
		return domain.OrderRejected{
			EventBase:    base,
			RejectedTime: at,
			Reason:       strOrEmpty(req.Reason),
		}, nil

	case "working":
		if req.BrokerOrderID == nil {
			return nil, &domain.ValidationError{Message: "working events require broker_order_id"}
		}
		price, err := requirePrice(req.Price, "working")
		if err != nil {
			return nil, err
		}
		var expire *time.Time
		if req.ExpireTime != nil {
			t, err := time.Parse(time.RFC3339, *req.ExpireTime)
			if err != nil {
				return nil, &domain.ValidationError{
					Message: "expire_time must be a valid RFC 3339 timestamp",
				}
			}
			expire = &t
		}
		return domain.OrderWorking{
			EventBase:     base,
			BrokerOrderID: domain.OrderID(*req.BrokerOrderID),
			Label:         order.Label,
			Side:          order.Side,
			Type:          order.Type,
			Quantity:      order.Quantity,
			Price:         price,
			TimeInForce:   order.TimeInForce,
			WorkingTime:   at,
			ExpireTime:    expire,
		}, nil

	case "modified":
		if req.BrokerOrderID == nil {
			return nil, &domain.ValidationError{Message: "modified events require broker_order_id"}
		}
		price, err := requirePrice(req.Price, "modified")
		if err != nil {
			return nil, err
		}
		return domain.OrderModified{
			EventBase:     base,
			BrokerOrderID: domain.OrderID(*req.BrokerOrderID),
			ModifiedPrice: price,
			ModifiedTime:  at,
		}, nil

	case "expired":
		return domain.OrderExpired{EventBase: base, ExpiredTime: at}, nil

	case "cancelled":
		return domain.OrderCancelled{EventBase: base, CancelledTime: at}, nil

	case "cancel_reject":
		return domain.OrderCancelReject{
			EventBase:    base,
			RejectedTime: at,
			Response:     strOrEmpty(req.Response),
			Reason:       strOrEmpty(req.Reason),
		}, nil

	case "partially_filled":
		if req.FilledQuantity == nil || req.LeavesQuantity == nil {
			return nil, &domain.ValidationError{
				Message: "partially_filled events require filled_quantity and leaves_quantity",
			}
		}
		avg, err := requirePrice(req.AveragePrice, "partially_filled")
		if err != nil {
			return nil, err
		}
		return domain.OrderPartiallyFilled{
			EventBase:       base,
			ExecutionID:     domain.ExecutionID(strOrEmpty(req.ExecutionID)),
			ExecutionTicket: domain.ExecutionTicket(strOrEmpty(req.ExecutionTicket)),
			Side:            order.Side,
			FilledQuantity:  *req.FilledQuantity,
			LeavesQuantity:  *req.LeavesQuantity,
			AveragePrice:    avg,
			ExecutionTime:   at,
		}, nil

	case "filled":
		if req.FilledQuantity == nil {
			return nil, &domain.ValidationError{Message: "filled events require filled_quantity"}
		}
		avg, err := requirePrice(req.AveragePrice, "filled")
		if err != nil {
			return nil, err
		}
		return domain.OrderFilled{
			EventBase:       base,
			ExecutionID:     domain.ExecutionID(strOrEmpty(req.ExecutionID)),
			ExecutionTicket: domain.ExecutionTicket(strOrEmpty(req.ExecutionTicket)),
			Side:            order.Side,
			FilledQuantity:  *req.FilledQuantity,
			AveragePrice:    avg,
			ExecutionTime:   at,
		}, nil

	default:
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("unknown event type: %s. Must be one of: submitted, accepted, rejected, working, modified, expired, cancelled, cancel_reject, partially_filled, filled", req.Type),
		}
	}
}

// requirePrice parses the price field of an event that cannot omit it.
// The field name in the error follows the event type.
func requirePrice(s *string, eventType string) (domain.Price, error) {
	if s == nil {
		return domain.Price{}, &domain.ValidationError{
			Message: fmt.Sprintf("%s events require a price", eventType),
		}
	}
	return domain.NewPrice(*s)
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

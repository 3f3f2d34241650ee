package service

import (
	"fmt"
	"sync"
	"time"

	"ordercore/internal/domain"
	"ordercore/internal/engine"
	"ordercore/internal/store"
)

// CreateOrderRequest represents the input for order creation. Price is
// a decimal literal string so that the order's reference price carries
// the caller's exact precision.
type CreateOrderRequest struct {
	Type        string
	Symbol      string
	Venue       string
	Side        string
	Quantity    int64
	Price       *string
	Label       *string
	TimeInForce *string
	ExpireTime  *time.Time
}

// CreateBracketRequest represents the input for atomic order creation.
type CreateBracketRequest struct {
	Symbol       string
	Venue        string
	Side         string
	Quantity     int64
	StopLoss     string
	ProfitTarget *string
	Label        *string
}

// OrderService owns the order factory, the stores and the expiry
// monitor. Its lock is the exclusive-access boundary the domain core
// requires: writers (order construction, event application) are
// exclusive, readers shared. Query and mutation methods return
// point-in-time snapshots taken under the lock, so derived order state
// never escapes it.
type OrderService struct {
	mu       sync.RWMutex
	factory  *domain.OrderFactory
	clock    domain.Clock
	orders   *store.OrderStore
	brackets *store.BracketStore
	expiry   *engine.ExpiryMonitor
}

// NewOrderService creates an OrderService. The expiry monitor is
// attached afterwards via SetExpiryMonitor because the monitor needs
// the service as its dispatcher.
func NewOrderService(
	factory *domain.OrderFactory,
	clock domain.Clock,
	orders *store.OrderStore,
	brackets *store.BracketStore,
) *OrderService {
	return &OrderService{
		factory:  factory,
		clock:    clock,
		orders:   orders,
		brackets: brackets,
	}
}

// SetExpiryMonitor wires the expiry monitor. Must be called before the
// service handles requests when GTD tracking is wanted; a nil monitor
// disables tracking.
func (s *OrderService) SetExpiryMonitor(m *engine.ExpiryMonitor) {
	s.expiry = m
}

// CreateOrder validates the request, dispatches to the matching
// factory constructor, stores the order, and begins expiry tracking
// for GTD orders.
func (s *OrderService) CreateOrder(req CreateOrderRequest) (domain.OrderSnapshot, error) {
	symbol, side, err := parseSymbolSide(req.Symbol, req.Venue, req.Side)
	if err != nil {
		return domain.OrderSnapshot{}, err
	}

	label, err := parseLabel(req.Label)
	if err != nil {
		return domain.OrderSnapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var order *domain.Order
	switch req.Type {
	case "market":
		order, err = s.factory.Market(symbol, side, req.Quantity, label)
	case "fill_or_kill":
		order, err = s.factory.FillOrKill(symbol, side, req.Quantity, label)
	case "immediate_or_cancel":
		order, err = s.factory.ImmediateOrCancel(symbol, side, req.Quantity, label)
	case "limit", "stop_market", "stop_limit", "market_if_touched":
		order, err = s.createPriced(req, symbol, side, label)
	default:
		return domain.OrderSnapshot{}, &domain.ValidationError{
			Message: fmt.Sprintf("unknown order type: %s. Must be one of: market, limit, stop_market, stop_limit, market_if_touched, fill_or_kill, immediate_or_cancel", req.Type),
		}
	}
	if err != nil {
		return domain.OrderSnapshot{}, err
	}

	s.orders.Create(order)
	if s.expiry != nil && order.TimeInForce == domain.TIFGTD {
		s.expiry.Add(order)
	}
	return order.Snapshot(), nil
}

func (s *OrderService) createPriced(req CreateOrderRequest, symbol domain.Symbol, side domain.OrderSide, label *domain.Label) (*domain.Order, error) {
	if req.Price == nil {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("price is required for %s orders", req.Type),
		}
	}
	price, err := domain.NewPrice(*req.Price)
	if err != nil {
		return nil, err
	}

	opts := &domain.OrderOptions{
		Label:      label,
		ExpireTime: req.ExpireTime,
	}
	if req.TimeInForce != nil {
		tif, err := parseTimeInForce(*req.TimeInForce)
		if err != nil {
			return nil, err
		}
		opts.TimeInForce = tif
	}

	switch req.Type {
	case "limit":
		return s.factory.Limit(symbol, side, req.Quantity, price, opts)
	case "stop_market":
		return s.factory.StopMarket(symbol, side, req.Quantity, price, opts)
	case "stop_limit":
		return s.factory.StopLimit(symbol, side, req.Quantity, price, opts)
	default:
		return s.factory.MarketIfTouched(symbol, side, req.Quantity, price, opts)
	}
}

// CreateBracket validates the request and creates an atomic market
// order. All legs are stored individually so venue events can address
// them, and the bracket itself is stored under its own id.
func (s *OrderService) CreateBracket(req CreateBracketRequest) (domain.AtomicOrderSnapshot, error) {
	symbol, side, err := parseSymbolSide(req.Symbol, req.Venue, req.Side)
	if err != nil {
		return domain.AtomicOrderSnapshot{}, err
	}

	label, err := parseLabel(req.Label)
	if err != nil {
		return domain.AtomicOrderSnapshot{}, err
	}

	stopLoss, err := domain.NewPrice(req.StopLoss)
	if err != nil {
		return domain.AtomicOrderSnapshot{}, err
	}
	var profitTarget *domain.Price
	if req.ProfitTarget != nil {
		p, err := domain.NewPrice(*req.ProfitTarget)
		if err != nil {
			return domain.AtomicOrderSnapshot{}, err
		}
		profitTarget = &p
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bracket, err := s.factory.AtomicMarket(symbol, side, req.Quantity, stopLoss, profitTarget, label)
	if err != nil {
		return domain.AtomicOrderSnapshot{}, err
	}

	s.orders.Create(bracket.Entry)
	s.orders.Create(bracket.StopLoss)
	if bracket.HasProfitTarget() {
		s.orders.Create(bracket.ProfitTarget)
	}
	s.brackets.Create(bracket)
	return bracket.Snapshot(), nil
}

// ApplyEvent resolves the order the event addresses and folds the
// event into it. Terminal transitions stop expiry tracking. The order's
// updated read surface is returned.
func (s *OrderService) ApplyEvent(orderID domain.OrderID, event domain.Event) (domain.OrderSnapshot, error) {
	order, err := s.orders.Get(orderID)
	if err != nil {
		return domain.OrderSnapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := order.Apply(event); err != nil {
		return domain.OrderSnapshot{}, err
	}
	if s.expiry != nil && order.IsComplete() {
		s.expiry.Remove(order.ID)
	}
	return order.Snapshot(), nil
}

// DispatchExpired implements engine.ExpiryDispatcher: it constructs an
// OrderExpired event for the due order and applies it. An unknown
// order id is ignored; the monitor's entry is already gone. The order
// may have completed between the monitor popping its entry and the
// dispatch landing here, so completion is re-checked under the lock.
func (s *OrderService) DispatchExpired(orderID domain.OrderID, expiredAt time.Time) {
	order, err := s.orders.Get(orderID)
	if err != nil {
		return
	}

	event := domain.OrderExpired{
		EventBase: domain.EventBase{
			Symbol:    order.Symbol,
			OrderID:   order.ID,
			EventID:   domain.NewEventID(),
			Timestamp: s.clock.Now(),
		},
		ExpiredTime: expiredAt,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if order.IsComplete() {
		return
	}
	_ = order.Apply(event)
}

// GetOrder retrieves a snapshot of an order by id.
func (s *OrderService) GetOrder(orderID domain.OrderID) (domain.OrderSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, err := s.orders.Get(orderID)
	if err != nil {
		return domain.OrderSnapshot{}, err
	}
	return order.Snapshot(), nil
}

// GetBracket retrieves a snapshot of an atomic order by its bracket id.
func (s *OrderService) GetBracket(bracketID domain.OrderID) (domain.AtomicOrderSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bracket, err := s.brackets.Get(bracketID)
	if err != nil {
		return domain.AtomicOrderSnapshot{}, err
	}
	return bracket.Snapshot(), nil
}

// ListOrders returns a paginated list of order snapshots for a symbol
// with optional status filtering.
func (s *OrderService) ListOrders(symbolCode, venue string, status *string, page, limit int) ([]domain.OrderSnapshot, int, error) {
	v, err := domain.ParseVenue(venue)
	if err != nil {
		return nil, 0, err
	}
	symbol, err := domain.NewSymbol(symbolCode, v)
	if err != nil {
		return nil, 0, err
	}

	var statusFilter *domain.OrderStatus
	if status != nil {
		st := domain.OrderStatus(*status)
		if !validOrderStatuses[st] {
			return nil, 0, &domain.ValidationError{
				Message: fmt.Sprintf("invalid status filter: %q", *status),
			}
		}
		statusFilter = &st
	}

	if page < 1 {
		return nil, 0, &domain.ValidationError{Message: "page must be >= 1"}
	}
	if limit < 1 || limit > 100 {
		return nil, 0, &domain.ValidationError{Message: "limit must be between 1 and 100"}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	orders, total := s.orders.ListBySymbol(symbol, statusFilter, page, limit)
	snapshots := make([]domain.OrderSnapshot, len(orders))
	for i, o := range orders {
		snapshots[i] = o.Snapshot()
	}
	return snapshots, total, nil
}

// validOrderStatuses lists all valid order status values for filtering.
var validOrderStatuses = map[domain.OrderStatus]bool{
	domain.StatusInitialized:     true,
	domain.StatusSubmitted:       true,
	domain.StatusAccepted:        true,
	domain.StatusRejected:        true,
	domain.StatusWorking:         true,
	domain.StatusCancelled:       true,
	domain.StatusExpired:         true,
	domain.StatusPartiallyFilled: true,
	domain.StatusFilled:          true,
	domain.StatusOverFilled:      true,
}

// validTimeInForce lists the time-in-force values accepted on priced
// order requests.
var validTimeInForce = map[domain.TimeInForce]bool{
	domain.TIFDay: true,
	domain.TIFGTC: true,
	domain.TIFGTD: true,
	domain.TIFIOC: true,
	domain.TIFFOC: true,
}

func parseSymbolSide(code, venue, side string) (domain.Symbol, domain.OrderSide, error) {
	v, err := domain.ParseVenue(venue)
	if err != nil {
		return domain.Symbol{}, "", err
	}
	symbol, err := domain.NewSymbol(code, v)
	if err != nil {
		return domain.Symbol{}, "", err
	}
	switch domain.OrderSide(side) {
	case domain.SideBuy, domain.SideSell:
		return symbol, domain.OrderSide(side), nil
	default:
		return domain.Symbol{}, "", &domain.ValidationError{
			Message: "side must be 'BUY' or 'SELL'",
		}
	}
}

func parseLabel(label *string) (*domain.Label, error) {
	if label == nil {
		return nil, nil
	}
	if *label == "" {
		return nil, &domain.ValidationError{Message: "label must not be empty when supplied"}
	}
	l := domain.Label(*label)
	return &l, nil
}

func parseTimeInForce(s string) (domain.TimeInForce, error) {
	tif := domain.TimeInForce(s)
	if !validTimeInForce[tif] {
		return "", &domain.ValidationError{
			Message: fmt.Sprintf("invalid time in force: %q. Must be one of: DAY, GTC, GTD, IOC, FOC", s),
		}
	}
	return tif, nil
}

package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"commande-service/internal/models"
	"commande-service/internal/util"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Query limits: limit bounds joined line rows, not orders.
const (
	defaultQueryLimit = 200
	maxQueryLimit     = 1000
)

// Store is the storage surface the order flow needs. Implemented by
// store.Store (Postgres) and store.MemoryStore.
type Store interface {
	InsertOrder(ctx context.Context, order *models.Order, lines []models.OrderLine) error
	OrderRows(ctx context.Context, f models.OrderFilter) ([]models.OrderRow, error)
	UpdateOrderStatus(ctx context.Context, orderID, status string, message *string) (table string, lines int, err error)
	LatestOrderForTable(ctx context.Context, table string) (*models.TableStatus, error)
}

// Cache holds the per-table latest status for the polling menu clients.
type Cache interface {
	GetTableStatus(ctx context.Context, table string) (*models.TableStatus, error)
	SetTableStatus(ctx context.Context, table string, ts *models.TableStatus) error
	InvalidateTable(ctx context.Context, table string) error
}

// EventPublisher emits order lifecycle events for downstream consumers.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error
	PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error
}

// OrderService handles the order lifecycle: ingestion, kitchen queries,
// status transitions and table status lookups.
type OrderService struct {
	store  Store
	cache  Cache
	events EventPublisher
	logger *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(store Store, cache Cache, events EventPublisher) *OrderService {
	return &OrderService{
		store:  store,
		cache:  cache,
		events: events,
		logger: util.GetLogger(),
	}
}

// PlaceOrderRequest represents a table's order submission
type PlaceOrderRequest struct {
	TableNumero string       `json:"table_numero"`
	Items       []PlacedItem `json:"items"`
}

// PlacedItem represents one dish in a submission
type PlacedItem struct {
	PlatID          *int64     `json:"plat_id"`
	PlatNom         string     `json:"plat_nom"`
	Quantite        LooseInt   `json:"quantite"`
	PrixUnitaire    LooseFloat `json:"prix_unitaire"`
	PrixTotal       LooseFloat `json:"prix_total"`
	Accompagnements string     `json:"accompagnements"`
	Commentaire     string     `json:"commentaire"`
}

// PlaceOrderResponse represents the response after placing an order
type PlaceOrderResponse struct {
	Success    bool   `json:"success"`
	CommandeID string `json:"commande_id"`
	Inserted   int    `json:"inserted"`
}

// PlaceOrder validates and persists a new order. One commande_id and one
// createdAt (UTC, second precision) are shared by every line, and all
// lines are written in a single transaction.
func (s *OrderService) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*PlaceOrderResponse, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.PlaceOrder")
	defer span.End()

	if strings.TrimSpace(req.TableNumero) == "" || len(req.Items) == 0 {
		return nil, invalidInput(MsgInvalidParams)
	}

	order := &models.Order{
		ID:          uuid.New().String(),
		TableNumber: req.TableNumero,
		Status:      models.StatusReceived,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}

	lines := make([]models.OrderLine, 0, len(req.Items))
	for _, it := range req.Items {
		line := models.OrderLine{
			OrderID:    order.ID,
			DishName:   it.PlatNom,
			Quantity:   int(it.Quantite),
			UnitPrice:  float64(it.PrixUnitaire),
			TotalPrice: float64(it.PrixTotal),
			SideItems:  pq.StringArray(splitSideItems(it.Accompagnements)),
			Comment:    it.Commentaire,
		}
		if it.PlatID != nil {
			line.DishID = sql.NullInt64{Int64: *it.PlatID, Valid: true}
		}
		lines = append(lines, line)
	}

	if err := s.store.InsertOrder(ctx, order, lines); err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	util.OrdersPlacedTotal.Inc()
	util.OrderLinesInsertedTotal.Add(float64(len(lines)))
	s.logger.Info("Order placed",
		zap.String("commande_id", order.ID),
		zap.String("table", order.TableNumber),
		zap.Int("lines", len(lines)))

	s.invalidateTable(ctx, order.TableNumber)
	s.publishOrderPlaced(ctx, order, lines)

	return &PlaceOrderResponse{
		Success:    true,
		CommandeID: order.ID,
		Inserted:   len(lines),
	}, nil
}

// ListOrdersQuery carries the optional kitchen query filters. Since is
// epoch milliseconds, zero means unset.
type ListOrdersQuery struct {
	Status string
	Since  int64
	Limit  int
}

// OrderView is one aggregated order as shown to the kitchen
type OrderView struct {
	ID              string          `json:"id"`
	Table           string          `json:"table"`
	CreatedAt       int64           `json:"createdAt"`
	Status          string          `json:"status"`
	MessageToClient string          `json:"messageToClient"`
	Items           []OrderItemView `json:"items"`
}

// OrderItemView is one line within an aggregated order
type OrderItemView struct {
	Dish    string   `json:"dish"`
	Qty     int      `json:"qty"`
	Unit    float64  `json:"unit"`
	Total   float64  `json:"total"`
	Accomp  []string `json:"accomp"`
	Comment string   `json:"comment"`
}

// ListOrders reads matching line rows newest-first and folds them into
// one aggregate per order for the kitchen display.
func (s *OrderService) ListOrders(ctx context.Context, q ListOrdersQuery) ([]OrderView, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.ListOrders")
	defer span.End()

	filter := models.OrderFilter{
		Status: q.Status,
		Limit:  clampLimit(q.Limit),
	}
	if q.Since > 0 {
		filter.Since = time.UnixMilli(q.Since).UTC()
	}

	rows, err := s.store.OrderRows(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	return groupRows(rows), nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultQueryLimit
	case limit > maxQueryLimit:
		return maxQueryLimit
	}
	return limit
}

// groupRows folds the sorted join rows into one aggregate per order,
// keeping the order in which each commande_id first appears. The input
// is already newest-first, so the aggregates come out newest-first too.
func groupRows(rows []models.OrderRow) []OrderView {
	views := make([]OrderView, 0)
	index := make(map[string]int)

	for _, r := range rows {
		i, ok := index[r.OrderID]
		if !ok {
			views = append(views, OrderView{
				ID:              r.OrderID,
				Table:           r.TableNumber,
				CreatedAt:       r.CreatedAt.UnixMilli(),
				Status:          r.Status,
				MessageToClient: r.ClientMessage.String,
				Items:           []OrderItemView{},
			})
			i = len(views) - 1
			index[r.OrderID] = i
		}

		accomp := make([]string, len(r.SideItems))
		copy(accomp, r.SideItems)

		views[i].Items = append(views[i].Items, OrderItemView{
			Dish:    r.DishName,
			Qty:     r.Quantity,
			Unit:    r.UnitPrice,
			Total:   r.TotalPrice,
			Accomp:  accomp,
			Comment: r.Comment,
		})
	}

	return views
}

// UpdateStatusRequest represents a kitchen status transition
type UpdateStatusRequest struct {
	Status  string  `json:"status"`
	Message *string `json:"message"`
}

// UpdateStatusResponse reports how many lines the transition covered
type UpdateStatusResponse struct {
	Success bool `json:"success"`
	Updated int  `json:"updated"`
}

// UpdateStatus moves an order to a new status in one bulk storage
// operation. An omitted message clears the stored client message; the
// kitchen resends it if it should survive the transition.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, req *UpdateStatusRequest) (*UpdateStatusResponse, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateStatus")
	defer span.End()

	if !models.ValidStatus(req.Status) {
		return nil, invalidInput(MsgInvalidStatus)
	}

	table, lines, err := s.store.UpdateOrderStatus(ctx, orderID, req.Status, req.Message)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	util.StatusTransitionsTotal.WithLabelValues(req.Status).Inc()
	s.logger.Info("Order status updated",
		zap.String("commande_id", orderID),
		zap.String("status", req.Status),
		zap.Int("lines", lines))

	s.invalidateTable(ctx, table)
	s.publishStatusChanged(ctx, orderID, table, req)

	return &UpdateStatusResponse{Success: true, Updated: lines}, nil
}

// TableStatus resolves the most recent order for a table, for the menu
// client to poll. Returns (nil, nil) when the table has no orders.
// Served from the cache when fresh; a miss reads storage and repopulates.
func (s *OrderService) TableStatus(ctx context.Context, table string) (*models.TableStatus, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.TableStatus")
	defer span.End()

	if strings.TrimSpace(table) == "" {
		return nil, invalidInput(MsgTableRequired)
	}

	cached, err := s.cache.GetTableStatus(ctx, table)
	if err != nil {
		s.logger.Warn("Table status cache read failed", zap.Error(err))
	} else if cached != nil {
		util.TableStatusCacheHits.Inc()
		return cached, nil
	}
	util.TableStatusCacheMisses.Inc()

	ts, err := s.store.LatestOrderForTable(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to look up table status: %w", err)
	}
	if ts == nil {
		return nil, nil
	}

	if err := s.cache.SetTableStatus(ctx, table, ts); err != nil {
		s.logger.Warn("Table status cache write failed", zap.Error(err))
	}

	return ts, nil
}

func (s *OrderService) invalidateTable(ctx context.Context, table string) {
	if err := s.cache.InvalidateTable(ctx, table); err != nil {
		s.logger.Warn("Table status cache invalidation failed",
			zap.String("table", table), zap.Error(err))
	}
}

func (s *OrderService) publishOrderPlaced(ctx context.Context, order *models.Order, lines []models.OrderLine) {
	items := make([]models.EventItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, models.EventItem{
			DishName: l.DishName,
			Quantity: l.Quantity,
			Total:    l.TotalPrice,
		})
	}

	event := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Now(),
		},
		CommandeID:  order.ID,
		TableNumber: order.TableNumber,
		Items:       items,
	}

	if err := s.events.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderPlaced event", zap.Error(err))
	}
}

func (s *OrderService) publishStatusChanged(ctx context.Context, orderID, table string, req *UpdateStatusRequest) {
	event := &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderStatusChanged,
			Timestamp: time.Now(),
		},
		CommandeID:  orderID,
		TableNumber: table,
		Status:      req.Status,
	}
	if req.Message != nil {
		event.Message = *req.Message
	}

	if err := s.events.PublishOrderStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
	}
}

package store

import (
	"context"
	"sort"
	"sync"

	"commande-service/internal/models"
)

// MemoryStore implements the same storage operations as Store against an
// in-process map, for unit tests and local development without Postgres.
// It mirrors the SQL ordering semantics: created_at descending, header
// seq descending, line id ascending.
type MemoryStore struct {
	mu         sync.Mutex
	orders     []*memOrder
	nextSeq    int64
	nextLineID int64
}

type memOrder struct {
	header models.Order
	lines  []models.OrderLine
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) InsertOrder(ctx context.Context, order *models.Order, lines []models.OrderLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextSeq++
	header := *order
	header.Seq = m.nextSeq

	cp := make([]models.OrderLine, len(lines))
	copy(cp, lines)
	for i := range cp {
		m.nextLineID++
		cp[i].ID = m.nextLineID
		cp[i].OrderID = order.ID
	}

	m.orders = append(m.orders, &memOrder{header: header, lines: cp})
	return nil
}

func (m *MemoryStore) OrderRows(ctx context.Context, f models.OrderFilter) ([]models.OrderRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := make([]*memOrder, 0, len(m.orders))
	for _, o := range m.orders {
		if f.Status != "" && o.header.Status != f.Status {
			continue
		}
		if !f.Since.IsZero() && o.header.CreatedAt.Before(f.Since) {
			continue
		}
		matched = append(matched, o)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i].header, matched[j].header
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.Seq > b.Seq
	})

	rows := make([]models.OrderRow, 0)
	for _, o := range matched {
		for _, l := range o.lines {
			if len(rows) == f.Limit {
				return rows, nil
			}
			rows = append(rows, models.OrderRow{
				OrderID:       o.header.ID,
				TableNumber:   o.header.TableNumber,
				Status:        o.header.Status,
				ClientMessage: o.header.ClientMessage,
				CreatedAt:     o.header.CreatedAt,
				LineID:        l.ID,
				DishID:        l.DishID,
				DishName:      l.DishName,
				Quantity:      l.Quantity,
				UnitPrice:     l.UnitPrice,
				TotalPrice:    l.TotalPrice,
				SideItems:     l.SideItems,
				Comment:       l.Comment,
			})
		}
	}
	return rows, nil
}

func (m *MemoryStore) UpdateOrderStatus(ctx context.Context, orderID, status string, message *string) (string, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, o := range m.orders {
		if o.header.ID != orderID {
			continue
		}
		o.header.Status = status
		o.header.ClientMessage.Valid = message != nil
		o.header.ClientMessage.String = ""
		if message != nil {
			o.header.ClientMessage.String = *message
		}
		return o.header.TableNumber, len(o.lines), nil
	}
	return "", 0, ErrNotFound
}

func (m *MemoryStore) LatestOrderForTable(ctx context.Context, table string) (*models.TableStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var latest *memOrder
	for _, o := range m.orders {
		if o.header.TableNumber != table {
			continue
		}
		if latest == nil ||
			o.header.CreatedAt.After(latest.header.CreatedAt) ||
			(o.header.CreatedAt.Equal(latest.header.CreatedAt) && o.header.Seq > latest.header.Seq) {
			latest = o
		}
	}
	if latest == nil {
		return nil, nil
	}
	return &models.TableStatus{
		OrderID:   latest.header.ID,
		Status:    latest.header.Status,
		Message:   latest.header.ClientMessage.String,
		CreatedAt: latest.header.CreatedAt.UnixMilli(),
	}, nil
}

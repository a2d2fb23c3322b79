package models

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// Order statuses
const (
	StatusReceived   = "RECEIVED"
	StatusPreparing  = "PREPARING"
	StatusCompleted  = "COMPLETED"
	StatusOutOfStock = "OUT_OF_STOCK"
)

// ValidStatus reports whether s is one of the four order statuses.
// Transitions between statuses are unconstrained; only the value itself
// is checked.
func ValidStatus(s string) bool {
	switch s {
	case StatusReceived, StatusPreparing, StatusCompleted, StatusOutOfStock:
		return true
	}
	return false
}

// Order is the persisted order header. Status and the client-facing
// message live here once, so every line of the order shares them.
type Order struct {
	ID            string         `db:"id"`
	Seq           int64          `db:"seq"`
	TableNumber   string         `db:"table_number"`
	Status        string         `db:"status"`
	ClientMessage sql.NullString `db:"client_message"`
	CreatedAt     time.Time      `db:"created_at"`
}

// OrderLine is one dish within an order. Prices are caller-supplied and
// stored as provided; nothing here recomputes totals.
type OrderLine struct {
	ID         int64          `db:"id"`
	OrderID    string         `db:"commande_id"`
	DishID     sql.NullInt64  `db:"dish_id"`
	DishName   string         `db:"dish_name"`
	Quantity   int            `db:"quantity"`
	UnitPrice  float64        `db:"unit_price"`
	TotalPrice float64        `db:"total_price"`
	SideItems  pq.StringArray `db:"side_items"`
	Comment    string         `db:"comment"`
}

// OrderRow is one row of the header/line join read by the kitchen query.
type OrderRow struct {
	OrderID       string         `db:"order_id"`
	TableNumber   string         `db:"table_number"`
	Status        string         `db:"status"`
	ClientMessage sql.NullString `db:"client_message"`
	CreatedAt     time.Time      `db:"created_at"`
	LineID        int64          `db:"line_id"`
	DishID        sql.NullInt64  `db:"dish_id"`
	DishName      string         `db:"dish_name"`
	Quantity      int            `db:"quantity"`
	UnitPrice     float64        `db:"unit_price"`
	TotalPrice    float64        `db:"total_price"`
	SideItems     pq.StringArray `db:"side_items"`
	Comment       string         `db:"comment"`
}

// OrderFilter bounds the kitchen query. Limit counts joined line rows,
// not orders, so an order straddling the boundary comes back with a
// subset of its lines.
type OrderFilter struct {
	Status string
	Since  time.Time // zero means no lower bound
	Limit  int
}

// TableStatus is the latest order state for one table, as polled by the
// menu client. CreatedAt is epoch milliseconds, matching the wire format.
type TableStatus struct {
	OrderID   string `json:"commande_id"`
	Status    string `json:"status"`
	Message   string `json:"message"`
	CreatedAt int64  `json:"createdAt"`
}

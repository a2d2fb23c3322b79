package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"commande-service/internal/models"
)

// InsertOrder writes the order header and all of its lines in one
// transaction: either every row for the commande_id lands, or none do.
func (s *Store) InsertOrder(ctx context.Context, order *models.Order, lines []models.OrderLine) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO commandes (id, table_number, status, client_message, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		order.ID, order.TableNumber, order.Status, order.ClientMessage, order.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order header: %w", err)
	}

	// NamedExecContext expands the slice into a single multi-row INSERT.
	_, err = tx.NamedExecContext(ctx,
		`INSERT INTO commande_lignes (commande_id, dish_id, dish_name, quantity, unit_price, total_price, side_items, comment)
		 VALUES (:commande_id, :dish_id, :dish_name, :quantity, :unit_price, :total_price, :side_items, :comment)`,
		lines)
	if err != nil {
		return fmt.Errorf("failed to insert order lines: %w", err)
	}

	return tx.Commit()
}

// OrderRows reads the header/line join for the kitchen display, newest
// orders first with line ids as a stable tie-break. The filter's limit
// bounds joined rows, so it must already be clamped by the caller.
func (s *Store) OrderRows(ctx context.Context, f models.OrderFilter) ([]models.OrderRow, error) {
	query := `
		SELECT o.id AS order_id, o.table_number, o.status, o.client_message, o.created_at,
		       l.id AS line_id, l.dish_id, l.dish_name, l.quantity, l.unit_price, l.total_price, l.side_items, l.comment
		FROM commandes o
		JOIN commande_lignes l ON l.commande_id = o.id`

	where := make([]string, 0, 2)
	args := make([]interface{}, 0, 3)
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("o.status = $%d", len(args)))
	}
	if !f.Since.IsZero() {
		args = append(args, f.Since)
		where = append(where, fmt.Sprintf("o.created_at >= $%d", len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, f.Limit)
	query += fmt.Sprintf(" ORDER BY o.created_at DESC, o.seq DESC, l.id ASC LIMIT $%d", len(args))

	rows := make([]models.OrderRow, 0)
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateOrderStatus rewrites the status and client message of one order
// in a single statement, so concurrent readers see the old state or the
// new one, never a mix. A nil message clears the stored one. Returns the
// order's table and line count; ErrNotFound if the order does not exist.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID, status string, message *string) (string, int, error) {
	var res struct {
		TableNumber string `db:"table_number"`
		Lines       int    `db:"lines"`
	}
	err := s.db.GetContext(ctx, &res, `
		UPDATE commandes o
		SET status = $1, client_message = $2
		WHERE o.id = $3
		RETURNING o.table_number,
		          (SELECT COUNT(*) FROM commande_lignes l WHERE l.commande_id = o.id) AS lines`,
		status, message, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", 0, ErrNotFound
	}
	if err != nil {
		return "", 0, err
	}
	return res.TableNumber, res.Lines, nil
}

// LatestOrderForTable resolves the most recent order for a table. The
// header is the single representative row per order, so the lookup never
// fans out per line. Returns (nil, nil) when the table has no orders.
func (s *Store) LatestOrderForTable(ctx context.Context, table string) (*models.TableStatus, error) {
	var row struct {
		ID            string         `db:"id"`
		Status        string         `db:"status"`
		ClientMessage sql.NullString `db:"client_message"`
		CreatedAt     time.Time      `db:"created_at"`
	}
	err := s.db.GetContext(ctx, &row, `
		SELECT id, status, client_message, created_at
		FROM commandes
		WHERE table_number = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT 1`, table)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &models.TableStatus{
		OrderID:   row.ID,
		Status:    row.Status,
		Message:   row.ClientMessage.String,
		CreatedAt: row.CreatedAt.UnixMilli(),
	}, nil
}

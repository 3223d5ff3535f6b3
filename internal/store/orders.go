package store

import (
	"database/sql"
	"fmt"

	"github.com/Rabindra900/mission-shakti-cafe/internal/models"
)

// CreateOrder inserts the order and all of its items in one transaction, so a
// crash can never leave an order without its lines.
func (s *Store) CreateOrder(order *models.Order, items []models.OrderItem) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO orders (customer_name, phone, address, payment_method, status, total_amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, order.CustomerName, order.Phone, order.Address, order.PaymentMethod, order.Status, order.TotalAmount)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	orderID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	order.ID = int(orderID)

	for i := range items {
		items[i].OrderID = order.ID
		res, err := tx.Exec(`
			INSERT INTO order_items (order_id, dish_id, quantity, price)
			VALUES (?, ?, ?, ?)
		`, items[i].OrderID, items[i].DishID, items[i].Quantity, items[i].Price)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
		itemID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		items[i].ID = int(itemID)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	order.Items = items
	return nil
}

func (s *Store) GetOrderByID(id int) (*models.Order, error) {
	query := `
		SELECT id, customer_name, phone, address, payment_method, status, total_amount, created_at
		FROM orders WHERE id = ?
	`
	row := s.DB.QueryRow(query, id)

	var o models.Order
	if err := row.Scan(&o.ID, &o.CustomerName, &o.Phone, &o.Address, &o.PaymentMethod, &o.Status, &o.TotalAmount, &o.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	items, err := s.getOrderItems(o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

// getOrderItems joins dishes for display names; a deleted dish leaves the
// line intact with an empty name.
func (s *Store) getOrderItems(orderID int) ([]models.OrderItem, error) {
	query := `
		SELECT oi.id, oi.order_id, oi.dish_id, COALESCE(d.name, ''), oi.quantity, oi.price
		FROM order_items oi
		LEFT JOIN dishes d ON d.id = oi.dish_id
		WHERE oi.order_id = ?
		ORDER BY oi.id
	`
	rows, err := s.DB.Query(query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.DishID, &it.DishName, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// GetOrders returns all orders newest first, optionally filtered by exact
// status. "All" or empty means no filter.
func (s *Store) GetOrders(status string) ([]models.Order, error) {
	query := `
		SELECT id, customer_name, phone, address, payment_method, status, total_amount, created_at
		FROM orders
	`
	var args []any
	if status != "" && status != "All" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	return s.queryOrders(query, args...)
}

func (s *Store) GetOrdersByPhone(phone string) ([]models.Order, error) {
	query := `
		SELECT id, customer_name, phone, address, payment_method, status, total_amount, created_at
		FROM orders
		WHERE phone = ?
		ORDER BY created_at DESC, id DESC
	`
	return s.queryOrders(query, phone)
}

func (s *Store) queryOrders(query string, args ...any) ([]models.Order, error) {
	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.CustomerName, &o.Phone, &o.Address, &o.PaymentMethod, &o.Status, &o.TotalAmount, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// UpdateOrderStatus overwrites the status with whatever string the admin
// submitted; no enum is enforced.
func (s *Store) UpdateOrderStatus(id int, status string) error {
	res, err := s.DB.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

package store

import (
	"database/sql"
	"time"

	"github.com/Rabindra900/mission-shakti-cafe/internal/models"
)

func (s *Store) GetCustomerByPhone(phone string) (*models.Customer, error) {
	query := `SELECT id, phone, created_at, last_login_at FROM customers WHERE phone = ?`
	row := s.DB.QueryRow(query, phone)

	var c models.Customer
	if err := row.Scan(&c.ID, &c.Phone, &c.CreatedAt, &c.LastLoginAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// TouchCustomer creates the customer on first login and stamps
// last_login_at on every login.
func (s *Store) TouchCustomer(phone string, now time.Time) (*models.Customer, error) {
	customer, err := s.GetCustomerByPhone(phone)
	if err != nil {
		return nil, err
	}

	if customer == nil {
		res, err := s.DB.Exec(`INSERT INTO customers (phone, created_at, last_login_at) VALUES (?, ?, ?)`, phone, now, now)
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		return &models.Customer{ID: int(id), Phone: phone, CreatedAt: now, LastLoginAt: now}, nil
	}

	if _, err := s.DB.Exec(`UPDATE customers SET last_login_at = ? WHERE id = ?`, now, customer.ID); err != nil {
		return nil, err
	}
	customer.LastLoginAt = now
	return customer, nil
}

func (s *Store) GetLatestCustomers(limit int) ([]models.Customer, error) {
	query := `SELECT id, phone, created_at, last_login_at FROM customers ORDER BY created_at DESC, id DESC LIMIT ?`
	rows, err := s.DB.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.Phone, &c.CreatedAt, &c.LastLoginAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

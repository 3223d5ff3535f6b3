package store

import (
	"database/sql"

	"github.com/Rabindra900/mission-shakti-cafe/internal/models"
)

type DashboardStats struct {
	TotalDishes     int
	TotalOrders     int
	PendingOrders   int
	TotalCustomers  int
	LatestCustomers []models.Customer
}

func (s *Store) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	err := s.DB.QueryRow(`SELECT COUNT(*) FROM dishes`).Scan(&stats.TotalDishes)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	err = s.DB.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&stats.TotalOrders)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	err = s.DB.QueryRow(`SELECT COUNT(*) FROM orders WHERE status = 'Pending'`).Scan(&stats.PendingOrders)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	err = s.DB.QueryRow(`SELECT COUNT(*) FROM customers`).Scan(&stats.TotalCustomers)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	latest, err := s.GetLatestCustomers(10)
	if err != nil {
		return nil, err
	}
	stats.LatestCustomers = latest

	return stats, nil
}

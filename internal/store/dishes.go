package store

import (
	"database/sql"

	"github.com/Rabindra900/mission-shakti-cafe/internal/models"
)

const dishColumns = `id, name, price, COALESCE(mrp, 0), category, COALESCE(image_filename, ''), COALESCE(veg_type, ''), is_best_seller, is_new, created_at`

func (s *Store) CreateDish(dish *models.Dish) error {
	query := `
		INSERT INTO dishes (name, price, mrp, category, image_filename, veg_type, is_best_seller, is_new, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`
	res, err := s.DB.Exec(query, dish.Name, dish.Price, dish.MRP, dish.Category, dish.ImageFilename, dish.VegType, dish.IsBestSeller, dish.IsNew)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	dish.ID = int(id)
	return nil
}

func (s *Store) GetAllDishes() ([]models.Dish, error) {
	return s.queryDishes(`SELECT ` + dishColumns + ` FROM dishes ORDER BY id`)
}

// GetDishesFiltered applies the public menu filter: "Veg"/"Non-veg" match the
// veg_type column, any other non-"All" value matches the category column.
func (s *Store) GetDishesFiltered(filter string) ([]models.Dish, error) {
	switch filter {
	case "", "All":
		return s.GetAllDishes()
	case "Veg", "Non-veg":
		return s.queryDishes(`SELECT `+dishColumns+` FROM dishes WHERE veg_type = ? ORDER BY id`, filter)
	default:
		return s.queryDishes(`SELECT `+dishColumns+` FROM dishes WHERE category = ? ORDER BY id`, filter)
	}
}

func (s *Store) queryDishes(query string, args ...any) ([]models.Dish, error) {
	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dishes []models.Dish
	for rows.Next() {
		var d models.Dish
		if err := rows.Scan(&d.ID, &d.Name, &d.Price, &d.MRP, &d.Category, &d.ImageFilename, &d.VegType, &d.IsBestSeller, &d.IsNew, &d.CreatedAt); err != nil {
			return nil, err
		}
		dishes = append(dishes, d)
	}
	return dishes, rows.Err()
}

func (s *Store) GetDishByID(id int) (*models.Dish, error) {
	row := s.DB.QueryRow(`SELECT `+dishColumns+` FROM dishes WHERE id = ?`, id)

	var d models.Dish
	if err := row.Scan(&d.ID, &d.Name, &d.Price, &d.MRP, &d.Category, &d.ImageFilename, &d.VegType, &d.IsBestSeller, &d.IsNew, &d.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// DeleteDish removes the dish only. Historical order_items keep their
// dish_id and price snapshot untouched.
func (s *Store) DeleteDish(id int) error {
	res, err := s.DB.Exec(`DELETE FROM dishes WHERE id = ?`, id)
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

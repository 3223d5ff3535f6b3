package models

import (
	"time"
)

type Dish struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Price         int       `json:"price"` // whole rupees
	MRP           int       `json:"mrp"`   // optional list price, 0 when unset
	Category      string    `json:"category"`
	ImageFilename string    `json:"image_filename"`
	VegType       string    `json:"veg_type"` // "Veg", "Non-veg" or empty
	IsBestSeller  bool      `json:"is_best_seller"`
	IsNew         bool      `json:"is_new"`
	CreatedAt     time.Time `json:"created_at"`
}

type Customer struct {
	ID          int       `json:"id"`
	Phone       string    `json:"phone"`
	CreatedAt   time.Time `json:"created_at"`
	LastLoginAt time.Time `json:"last_login_at"`
}

type Order struct {
	ID            int         `json:"id"`
	CustomerName  string      `json:"customer_name"`
	Phone         string      `json:"phone"`
	Address       string      `json:"address"`
	PaymentMethod string      `json:"payment_method"`
	Status        string      `json:"status"`
	TotalAmount   int         `json:"total_amount"`
	CreatedAt     time.Time   `json:"created_at"`
	Items         []OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	ID       int    `json:"id"`
	OrderID  int    `json:"order_id"`
	DishID   int    `json:"dish_id"`
	DishName string `json:"dish_name"` // For display convenience
	Quantity int    `json:"quantity"`
	Price    int    `json:"price"` // Unit price snapshot at order time
}

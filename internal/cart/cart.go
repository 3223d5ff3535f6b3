// Package cart implements the session-backed shopping cart: a map from
// dish id (string key) to quantity, stored in the visitor's cookie session.
package cart

import (
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/Rabindra900/mission-shakti-cafe/internal/models"
	"github.com/Rabindra900/mission-shakti-cafe/internal/store"
)

// Cart maps dish id (as string) to a positive quantity.
type Cart map[string]int

// DishFinder is the slice of the store the cart needs to resolve itself.
type DishFinder interface {
	GetDishByID(id int) (*models.Dish, error)
}

// Line is one resolved cart entry.
type Line struct {
	Dish     models.Dish
	Quantity int
	Subtotal int
}

// Add increments the quantity for the dish by one, starting from zero.
func (c Cart) Add(dishID int) {
	key := strconv.Itoa(dishID)
	c[key]++
}

// FromForm rebuilds a cart from submitted form values. Only fields named
// qty_<id> are considered; entries whose value is not a positive integer are
// dropped, everything else is ignored. This replaces the whole cart.
func FromForm(form url.Values) Cart {
	c := Cart{}
	for key, values := range form {
		id, ok := strings.CutPrefix(key, "qty_")
		if !ok || id == "" || len(values) == 0 {
			continue
		}
		qty, err := strconv.Atoi(values[0])
		if err != nil || qty <= 0 {
			continue
		}
		c[id] = qty
	}
	return c
}

// Resolve looks up every cart entry against the dish store and returns the
// priced lines plus the grand total. Entries whose id is malformed or whose
// dish no longer exists are silently skipped, never an error.
func (c Cart) Resolve(dishes DishFinder) ([]Line, int, error) {
	var lines []Line
	total := 0
	for key, qty := range c {
		if qty <= 0 {
			continue
		}
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		dish, err := dishes.GetDishByID(id)
		if errors.Is(err, store.ErrNotFound) {
			continue // dangling reference, filtered by design
		}
		if err != nil {
			return nil, 0, err
		}
		subtotal := dish.Price * qty
		lines = append(lines, Line{Dish: *dish, Quantity: qty, Subtotal: subtotal})
		total += subtotal
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Dish.ID < lines[j].Dish.ID })
	return lines, total, nil
}

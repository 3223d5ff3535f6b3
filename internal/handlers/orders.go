package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Rabindra900/mission-shakti-cafe/internal/models"
	"github.com/Rabindra900/mission-shakti-cafe/internal/notify"
	"github.com/Rabindra900/mission-shakti-cafe/internal/store"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
)

const paymentMethod = "Cash on Delivery"

type OrderHandler struct {
	Store         *store.Store
	Templates     *TemplateCache
	SessionStore  *sessions.CookieStore
	WhatsAppPhone string
}

// CheckoutGet shows the resolved cart with delivery-details form. An empty
// cart bounces back to the menu. RequireCustomer has already run.
func (h *OrderHandler) CheckoutGet(w http.ResponseWriter, r *http.Request) {
	session := getSession(h.SessionStore, r)
	c := cartFromSession(session)
	if len(c) == 0 {
		http.Redirect(w, r, "/menu", http.StatusSeeOther)
		return
	}

	lines, total, err := c.Resolve(h.Store)
	if err != nil {
		http.Error(w, "Error fetching cart", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("checkout.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	data := map[string]interface{}{
		"Lines":     lines,
		"Total":     total,
		"Phone":     customerPhone(session),
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// CheckoutPost persists the order with its line items and clears the cart.
// Name, phone and address are stored as submitted, empty included; the
// original site never validated them and that contract is kept.
func (h *OrderHandler) CheckoutPost(w http.ResponseWriter, r *http.Request) {
	session := getSession(h.SessionStore, r)
	c := cartFromSession(session)
	if len(c) == 0 {
		http.Redirect(w, r, "/menu", http.StatusSeeOther)
		return
	}

	lines, total, err := c.Resolve(h.Store)
	if err != nil {
		http.Error(w, "Error fetching cart", http.StatusInternalServerError)
		return
	}
	if len(lines) == 0 {
		// Every cart entry was dangling; nothing to order.
		http.Redirect(w, r, "/menu", http.StatusSeeOther)
		return
	}

	order := &models.Order{
		CustomerName:  r.FormValue("name"),
		Phone:         r.FormValue("phone"),
		Address:       r.FormValue("address"),
		PaymentMethod: paymentMethod,
		Status:        "Pending",
		TotalAmount:   total,
	}
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.OrderItem{
			DishID:   line.Dish.ID,
			DishName: line.Dish.Name,
			Quantity: line.Quantity,
			Price:    line.Dish.Price,
		})
	}

	if err := h.Store.CreateOrder(order, items); err != nil {
		slog.Error("Failed to create order", "error", err)
		session.AddFlash(FlashMessage{Type: "error", Message: "Failed to place order. Please try again."})
		session.Save(r, w)
		http.Redirect(w, r, "/checkout", http.StatusSeeOther)
		return
	}

	clearCart(session)
	session.Save(r, w)
	http.Redirect(w, r, "/order_success?order_id="+strconv.Itoa(order.ID), http.StatusSeeOther)
}

// OrderSuccess shows the confirmation page with the WhatsApp handoff link.
// The page is keyed by order id only, matching the original site.
func (h *OrderHandler) OrderSuccess(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("order_id"))
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	order, err := h.Store.GetOrderByID(id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "Error fetching order", http.StatusInternalServerError)
		return
	}

	message := notify.OrderMessage(order)
	whatsappURL := notify.WhatsAppLink(h.WhatsAppPhone, message)

	tmpl := h.Templates.Get("order_success.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session := getSession(h.SessionStore, r)
	data := map[string]interface{}{
		"Order":       order,
		"WhatsAppURL": whatsappURL,
		"Flashes":     GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// MyOrders lists the logged-in customer's orders, newest first. Correlation
// is by phone string equality only; there is no customer foreign key.
func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	session := getSession(h.SessionStore, r)

	orders, err := h.Store.GetOrdersByPhone(customerPhone(session))
	if err != nil {
		http.Error(w, "Error fetching orders", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("my_orders.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	data := map[string]interface{}{
		"Orders":  orders,
		"Flashes": GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

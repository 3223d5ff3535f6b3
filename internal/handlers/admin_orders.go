package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Rabindra900/mission-shakti-cafe/internal/store"
	"github.com/gorilla/csrf"
)

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = "All"
	}

	orders, err := h.Store.GetOrders(status)
	if err != nil {
		http.Error(w, "Error fetching orders", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("admin_orders.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	session := getSession(h.SessionStore, r)
	data := map[string]interface{}{
		"Orders":       orders,
		"StatusFilter": status,
		"CsrfField":    csrf.TemplateField(r),
		"Flashes":      GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// UpdateOrderStatus stores whatever status string was submitted; there is no
// closed status set.
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	status := r.FormValue("status")
	if status == "" {
		status = "Pending"
	}

	if err := h.Store.UpdateOrderStatus(id, status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "Error updating status", http.StatusInternalServerError)
		return
	}

	session := getSession(h.SessionStore, r)
	session.AddFlash(FlashMessage{Type: "success", Message: "Order updated!"})
	session.Save(r, w)
	http.Redirect(w, r, "/admin/orders", http.StatusSeeOther)
}

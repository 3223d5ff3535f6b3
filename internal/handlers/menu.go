package handlers

import (
	"net/http"

	"github.com/Rabindra900/mission-shakti-cafe/internal/store"
	"github.com/gorilla/sessions"
)

// Filter chips shown on the menu page, in display order.
var menuFilters = []string{"All", "Veg", "Non-veg", "Biryani", "Snacks", "Main Course", "Dessert", "Beverages"}

type MenuHandler struct {
	Store        *store.Store
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
}

func (h *MenuHandler) Index(w http.ResponseWriter, r *http.Request) {
	// ServeMux "/" matches everything; anything else is a 404.
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	dishes, err := h.Store.GetAllDishes()
	if err != nil {
		http.Error(w, "Error fetching dishes", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("index.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session := getSession(h.SessionStore, r)
	data := map[string]interface{}{
		"Dishes":     dishes,
		"Flashes":    GetFlash(session),
		"IsAdmin":    isAdmin(session),
		"IsCustomer": customerPhone(session) != "",
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *MenuHandler) Menu(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("filter")
	if filter == "" {
		filter = "All"
	}

	dishes, err := h.Store.GetDishesFiltered(filter)
	if err != nil {
		http.Error(w, "Error fetching dishes", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("menu.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session := getSession(h.SessionStore, r)
	data := map[string]interface{}{
		"Dishes":        dishes,
		"Filters":       menuFilters,
		"CurrentFilter": filter,
		"Flashes":       GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

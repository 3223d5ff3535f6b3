package handlers

import (
	"net/http"
	"strconv"

	"github.com/Rabindra900/mission-shakti-cafe/internal/cart"
	"github.com/Rabindra900/mission-shakti-cafe/internal/store"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
)

type CartHandler struct {
	Store        *store.Store
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
}

// Add increments the quantity for one dish and sends the visitor to the cart.
// The dish id is not checked against the store here; view-time resolution
// drops anything that does not exist.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid dish ID", http.StatusBadRequest)
		return
	}

	session := getSession(h.SessionStore, r)
	c := cartFromSession(session)
	c.Add(id)
	saveCart(session, c)
	session.Save(r, w)
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	session := getSession(h.SessionStore, r)
	c := cartFromSession(session)

	lines, total, err := c.Resolve(h.Store)
	if err != nil {
		http.Error(w, "Error fetching cart", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("cart.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	data := map[string]interface{}{
		"Lines":     lines,
		"Total":     total,
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// Update replaces the whole cart from the qty_<id> form fields.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	session := getSession(h.SessionStore, r)
	saveCart(session, cart.FromForm(r.PostForm))
	session.Save(r, w)
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

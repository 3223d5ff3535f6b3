package handlers

import (
	"net/http"

	"github.com/Rabindra900/mission-shakti-cafe/internal/cart"
	"github.com/gorilla/sessions"
)

// Single session for everything: identity, cart and flashes live together so
// that clearing the session on login wipes all of them at once.
const sessionName = "cafe-session"

// Session value keys.
const (
	keyCart          = "cart"
	keyCustomerPhone = "customer_phone"
	keyIsAdmin       = "is_admin"
	keyAdminPhone    = "admin_phone"
)

func getSession(store *sessions.CookieStore, r *http.Request) *sessions.Session {
	session, _ := store.Get(r, sessionName)
	return session
}

// cartFromSession returns the session cart, lazily creating an empty one.
func cartFromSession(session *sessions.Session) cart.Cart {
	if raw, ok := session.Values[keyCart].(map[string]int); ok {
		return cart.Cart(raw)
	}
	return cart.Cart{}
}

func saveCart(session *sessions.Session, c cart.Cart) {
	session.Values[keyCart] = map[string]int(c)
}

func clearCart(session *sessions.Session) {
	delete(session.Values, keyCart)
}

func customerPhone(session *sessions.Session) string {
	phone, _ := session.Values[keyCustomerPhone].(string)
	return phone
}

func isAdmin(session *sessions.Session) bool {
	admin, _ := session.Values[keyIsAdmin].(bool)
	return admin
}

// clearSession drops every session value, flashes included.
func clearSession(session *sessions.Session) {
	for k := range session.Values {
		delete(session.Values, k)
	}
}

package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/Rabindra900/mission-shakti-cafe/internal/models"
	"github.com/Rabindra900/mission-shakti-cafe/internal/store"
	"github.com/gorilla/sessions"
)

const testAdminPhone = "7978692808"

type testApp struct {
	store        *store.Store
	sessionStore *sessions.CookieStore
	mux          *http.ServeMux
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := store.NewStore(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	// Each :memory: connection is its own database; keep the pool at one.
	db.DB.SetMaxOpenConns(1)
	if err := db.Migrate(filepath.Join("..", "..", "migrations")); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	sessionStore := sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))

	templates := NewTemplateCache()
	if err := templates.Load(filepath.Join("..", "..", "templates")); err != nil {
		t.Fatalf("failed to load templates: %v", err)
	}

	authHandler := &AuthHandler{Store: db, SessionStore: sessionStore, Templates: templates, AdminPhone: testAdminPhone}
	menuHandler := &MenuHandler{Store: db, Templates: templates, SessionStore: sessionStore}
	cartHandler := &CartHandler{Store: db, Templates: templates, SessionStore: sessionStore}
	orderHandler := &OrderHandler{Store: db, Templates: templates, SessionStore: sessionStore, WhatsAppPhone: "917894332390"}
	adminHandler := &AdminHandler{Store: db, SessionStore: sessionStore, Templates: templates, UploadDir: t.TempDir()}

	mux := http.NewServeMux()
	mux.HandleFunc("/", menuHandler.Index)
	mux.HandleFunc("/menu", menuHandler.Menu)
	mux.HandleFunc("/add_to_cart/{id}", cartHandler.Add)
	mux.HandleFunc("/cart", cartHandler.View)
	mux.HandleFunc("POST /update_cart", cartHandler.Update)
	mux.HandleFunc("/login", authHandler.LoginGet)
	mux.HandleFunc("POST /login", authHandler.LoginPost)
	mux.HandleFunc("/order_success", orderHandler.OrderSuccess)
	mux.HandleFunc("/checkout", authHandler.RequireCustomer(orderHandler.CheckoutGet))
	mux.HandleFunc("POST /checkout", authHandler.RequireCustomer(orderHandler.CheckoutPost))
	mux.HandleFunc("/my-orders", authHandler.RequireCustomer(orderHandler.MyOrders))
	mux.HandleFunc("/admin/dashboard", authHandler.RequireAdmin(adminHandler.Dashboard))
	mux.HandleFunc("/admin/logout", authHandler.Logout)
	mux.HandleFunc("/admin/items", authHandler.RequireAdmin(adminHandler.ListDishes))
	mux.HandleFunc("POST /admin/items", authHandler.RequireAdmin(adminHandler.CreateDish))
	mux.HandleFunc("POST /admin/dishes/delete/{id}", authHandler.RequireAdmin(adminHandler.DeleteDish))
	mux.HandleFunc("/admin/orders", authHandler.RequireAdmin(adminHandler.ListOrders))
	mux.HandleFunc("POST /admin/orders/update_status/{id}", authHandler.RequireAdmin(adminHandler.UpdateOrderStatus))

	return &testApp{store: db, sessionStore: sessionStore, mux: mux}
}

// sessionCookie bakes the given values into a signed session cookie.
func (a *testApp) sessionCookie(t *testing.T, values map[interface{}]interface{}) *http.Cookie {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	session, _ := a.sessionStore.Get(r, sessionName)
	for k, v := range values {
		session.Values[k] = v
	}
	if err := session.Save(r, w); err != nil {
		t.Fatalf("failed to save session: %v", err)
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionName {
			return c
		}
	}
	t.Fatal("no session cookie written")
	return nil
}

// sessionFromResponse decodes the session the handler wrote back.
func (a *testApp) sessionFromResponse(t *testing.T, w *httptest.ResponseRecorder) *sessions.Session {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionName {
			r.AddCookie(c)
		}
	}
	session, err := a.sessionStore.Get(r, sessionName)
	if err != nil {
		t.Fatalf("failed to decode session: %v", err)
	}
	return session
}

func postForm(path string, form url.Values, cookies ...*http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

func redirectTarget(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 redirect, got %d: %s", w.Code, w.Body.String())
	}
	return w.Header().Get("Location")
}

func TestLoginRejectsBadPhone(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name  string
		phone string
	}{
		{"empty", ""},
		{"too short", "12345"},
		{"too long", "98765432109"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			app.mux.ServeHTTP(w, postForm("/login", url.Values{"phone": {tt.phone}}))

			if loc := redirectTarget(t, w); loc != "/login" {
				t.Errorf("expected redirect back to /login, got %q", loc)
			}
			if tt.phone != "" {
				c, err := app.store.GetCustomerByPhone(tt.phone)
				if err != nil {
					t.Fatalf("GetCustomerByPhone: %v", err)
				}
				if c != nil {
					t.Error("invalid login must not create a customer record")
				}
			}
		})
	}
}

func TestLoginCustomer(t *testing.T) {
	app := newTestApp(t)

	w := httptest.NewRecorder()
	app.mux.ServeHTTP(w, postForm("/login", url.Values{"phone": {"9876543210"}}))

	if loc := redirectTarget(t, w); loc != "/" {
		t.Errorf("expected redirect to /, got %q", loc)
	}

	session := app.sessionFromResponse(t, w)
	if customerPhone(session) != "9876543210" {
		t.Errorf("expected customer_phone in session, got %q", customerPhone(session))
	}
	if isAdmin(session) {
		t.Error("customer login must not set the admin flag")
	}

	c, err := app.store.GetCustomerByPhone("9876543210")
	if err != nil || c == nil {
		t.Fatalf("expected customer record, got %v, %v", c, err)
	}
}

func TestLoginAdmin(t *testing.T) {
	app := newTestApp(t)

	w := httptest.NewRecorder()
	app.mux.ServeHTTP(w, postForm("/login", url.Values{"phone": {testAdminPhone}}))

	if loc := redirectTarget(t, w); loc != "/admin/dashboard" {
		t.Errorf("expected redirect to /admin/dashboard, got %q", loc)
	}

	session := app.sessionFromResponse(t, w)
	if !isAdmin(session) {
		t.Error("expected admin flag set")
	}
	// Admin identity deliberately does not double as a customer identity.
	if customerPhone(session) != "" {
		t.Errorf("admin login must not set customer_phone, got %q", customerPhone(session))
	}
}

func TestLoginClearsExistingCart(t *testing.T) {
	app := newTestApp(t)
	cookie := app.sessionCookie(t, map[interface{}]interface{}{keyCart: map[string]int{"3": 2}})

	w := httptest.NewRecorder()
	app.mux.ServeHTTP(w, postForm("/login", url.Values{"phone": {"9876543210"}}, cookie))

	// Pins the source behavior: logging in wipes the whole session, the
	// anonymous cart included.
	session := app.sessionFromResponse(t, w)
	if c := cartFromSession(session); len(c) != 0 {
		t.Errorf("expected cart cleared on login, got %v", c)
	}
}

func TestAddToCart(t *testing.T) {
	app := newTestApp(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/add_to_cart/5", nil)
	app.mux.ServeHTTP(w, r)

	if loc := redirectTarget(t, w); loc != "/cart" {
		t.Errorf("expected redirect to /cart, got %q", loc)
	}
	session := app.sessionFromResponse(t, w)
	if c := cartFromSession(session); c["5"] != 1 {
		t.Errorf("expected quantity 1 for dish 5, got %v", c)
	}

	// A second add with the first response's cookie increments to 2.
	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionName {
			cookie = c
		}
	}
	w2 := httptest.NewRecorder()
	r2 := httptest.NewRequest(http.MethodGet, "/add_to_cart/5", nil)
	r2.AddCookie(cookie)
	app.mux.ServeHTTP(w2, r2)

	session = app.sessionFromResponse(t, w2)
	if c := cartFromSession(session); c["5"] != 2 {
		t.Errorf("expected quantity 2 after second add, got %v", c)
	}
}

func TestUpdateCart(t *testing.T) {
	app := newTestApp(t)
	cookie := app.sessionCookie(t, map[interface{}]interface{}{keyCart: map[string]int{"5": 1, "9": 4}})

	w := httptest.NewRecorder()
	app.mux.ServeHTTP(w, postForm("/update_cart", url.Values{"qty_5": {"3"}, "qty_9": {"0"}, "note": {"x"}}, cookie))

	if loc := redirectTarget(t, w); loc != "/cart" {
		t.Errorf("expected redirect to /cart, got %q", loc)
	}
	session := app.sessionFromResponse(t, w)
	c := cartFromSession(session)
	if c["5"] != 3 {
		t.Errorf("expected quantity 3 for dish 5, got %v", c)
	}
	if _, ok := c["9"]; ok {
		t.Errorf("expected dish 9 removed by qty 0, got %v", c)
	}
}

func TestCheckoutRequiresCustomer(t *testing.T) {
	app := newTestApp(t)

	// Anonymous visitor.
	w := httptest.NewRecorder()
	app.mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/checkout", nil))
	if loc := redirectTarget(t, w); loc != "/login" {
		t.Errorf("expected anonymous checkout to redirect to /login, got %q", loc)
	}

	// Admin session: the admin flag does not satisfy the customer gate.
	cookie := app.sessionCookie(t, map[interface{}]interface{}{keyIsAdmin: true, keyAdminPhone: testAdminPhone})
	w = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/checkout", nil)
	r.AddCookie(cookie)
	app.mux.ServeHTTP(w, r)
	if loc := redirectTarget(t, w); loc != "/login" {
		t.Errorf("expected admin checkout to redirect to /login, got %q", loc)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	app := newTestApp(t)
	cookie := app.sessionCookie(t, map[interface{}]interface{}{keyCustomerPhone: "9876543210"})

	w := httptest.NewRecorder()
	app.mux.ServeHTTP(w, postForm("/checkout", url.Values{"name": {"Asha"}}, cookie))

	if loc := redirectTarget(t, w); loc != "/menu" {
		t.Errorf("expected empty-cart checkout to redirect to /menu, got %q", loc)
	}
	orders, err := app.store.GetOrders("All")
	if err != nil {
		t.Fatalf("GetOrders: %v", err)
	}
	if len(orders) != 0 {
		t.Errorf("empty cart must never create an order, got %d", len(orders))
	}
}

func TestCheckoutCreatesOrderAndClearsCart(t *testing.T) {
	app := newTestApp(t)

	a := mustDish(t, app.store, "Chicken Biryani", 100)
	b := mustDish(t, app.store, "Samosa", 50)

	cookie := app.sessionCookie(t, map[interface{}]interface{}{
		keyCustomerPhone: "9876543210",
		keyCart: map[string]int{
			mustKey(a.ID): 2,
			mustKey(b.ID): 1,
			"9999":        3, // dangling reference, must be ignored
		},
	})

	form := url.Values{
		"name":    {"Asha"},
		"phone":   {"9876543210"},
		"address": {"12 Station Road"},
	}
	w := httptest.NewRecorder()
	app.mux.ServeHTTP(w, postForm("/checkout", form, cookie))

	loc := redirectTarget(t, w)
	if !strings.HasPrefix(loc, "/order_success?order_id=") {
		t.Fatalf("expected redirect to order confirmation, got %q", loc)
	}

	orders, err := app.store.GetOrders("All")
	if err != nil {
		t.Fatalf("GetOrders: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
	order, err := app.store.GetOrderByID(orders[0].ID)
	if err != nil {
		t.Fatalf("GetOrderByID: %v", err)
	}
	if order.TotalAmount != 250 {
		t.Errorf("expected total 250, got %d", order.TotalAmount)
	}
	if order.Status != "Pending" {
		t.Errorf("expected status Pending, got %q", order.Status)
	}
	if order.PaymentMethod != "Cash on Delivery" {
		t.Errorf("expected cash on delivery, got %q", order.PaymentMethod)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 order items, got %d", len(order.Items))
	}

	session := app.sessionFromResponse(t, w)
	if c := cartFromSession(session); len(c) != 0 {
		t.Errorf("expected cart cleared after checkout, got %v", c)
	}
}

func TestOrderSuccessUnknownOrder(t *testing.T) {
	app := newTestApp(t)

	w := httptest.NewRecorder()
	app.mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/order_success?order_id=42", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown order, got %d", w.Code)
	}
}

func TestAdminGate(t *testing.T) {
	app := newTestApp(t)

	paths := []string{"/admin/dashboard", "/admin/items", "/admin/orders"}
	for _, path := range paths {
		w := httptest.NewRecorder()
		app.mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if loc := redirectTarget(t, w); loc != "/login" {
			t.Errorf("%s: expected redirect to /login, got %q", path, loc)
		}
	}

	// A customer session is not enough either.
	cookie := app.sessionCookie(t, map[interface{}]interface{}{keyCustomerPhone: "9876543210"})
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	r.AddCookie(cookie)
	app.mux.ServeHTTP(w, r)
	if loc := redirectTarget(t, w); loc != "/login" {
		t.Errorf("expected customer to be denied admin access, got %q", loc)
	}
}

func TestAdminDeleteDishNotFound(t *testing.T) {
	app := newTestApp(t)
	cookie := app.sessionCookie(t, map[interface{}]interface{}{keyIsAdmin: true})

	w := httptest.NewRecorder()
	app.mux.ServeHTTP(w, postForm("/admin/dishes/delete/404", url.Values{}, cookie))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown dish, got %d", w.Code)
	}
}

func TestAdminUpdateOrderStatus(t *testing.T) {
	app := newTestApp(t)
	cookie := app.sessionCookie(t, map[interface{}]interface{}{keyIsAdmin: true})

	// Unknown order -> 404.
	w := httptest.NewRecorder()
	app.mux.ServeHTTP(w, postForm("/admin/orders/update_status/404", url.Values{"status": {"Delivered"}}, cookie))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown order, got %d", w.Code)
	}

	// Existing order: arbitrary status string is stored verbatim.
	d := mustDish(t, app.store, "Samosa", 20)
	orderCookie := app.sessionCookie(t, map[interface{}]interface{}{
		keyCustomerPhone: "9876543210",
		keyCart:          map[string]int{mustKey(d.ID): 1},
	})
	w = httptest.NewRecorder()
	app.mux.ServeHTTP(w, postForm("/checkout", url.Values{"name": {"Asha"}}, orderCookie))
	redirectTarget(t, w)

	orders, _ := app.store.GetOrders("All")
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}

	w = httptest.NewRecorder()
	path := "/admin/orders/update_status/" + mustKey(orders[0].ID)
	app.mux.ServeHTTP(w, postForm(path, url.Values{"status": {"Out For Delivery"}}, cookie))
	if loc := redirectTarget(t, w); loc != "/admin/orders" {
		t.Errorf("expected redirect to /admin/orders, got %q", loc)
	}

	got, _ := app.store.GetOrderByID(orders[0].ID)
	if got.Status != "Out For Delivery" {
		t.Errorf("expected status stored verbatim, got %q", got.Status)
	}
}

func TestAdminCreateDish(t *testing.T) {
	app := newTestApp(t)
	cookie := app.sessionCookie(t, map[interface{}]interface{}{keyIsAdmin: true})

	form := url.Values{
		"name":        {"Veg Biryani"},
		"price":       {"80"},
		"mrp":         {"100"},
		"category":    {"Biryani"},
		"veg_type":    {"Veg"},
		"best_seller": {"on"},
	}
	r := httptest.NewRequest(http.MethodPost, "/admin/items", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.AddCookie(cookie)
	w := httptest.NewRecorder()
	app.mux.ServeHTTP(w, r)

	if loc := redirectTarget(t, w); loc != "/admin/items" {
		t.Errorf("expected redirect to /admin/items, got %q", loc)
	}

	dishes, err := app.store.GetAllDishes()
	if err != nil {
		t.Fatalf("GetAllDishes: %v", err)
	}
	if len(dishes) != 1 {
		t.Fatalf("expected 1 dish, got %d", len(dishes))
	}
	d := dishes[0]
	if d.Name != "Veg Biryani" || d.Price != 80 || d.MRP != 100 || !d.IsBestSeller || d.IsNew {
		t.Errorf("unexpected dish: %+v", d)
	}
}

func TestMyOrdersFiltersByPhone(t *testing.T) {
	app := newTestApp(t)

	d := mustDish(t, app.store, "Samosa", 20)
	for _, phone := range []string{"9999999999", "8888888888"} {
		cookie := app.sessionCookie(t, map[interface{}]interface{}{
			keyCustomerPhone: phone,
			keyCart:          map[string]int{mustKey(d.ID): 1},
		})
		w := httptest.NewRecorder()
		app.mux.ServeHTTP(w, postForm("/checkout", url.Values{"phone": {phone}}, cookie))
		redirectTarget(t, w)
	}

	orders, err := app.store.GetOrdersByPhone("9999999999")
	if err != nil {
		t.Fatalf("GetOrdersByPhone: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order for phone, got %d", len(orders))
	}
	if orders[0].Phone != "9999999999" {
		t.Errorf("got order for wrong phone %q", orders[0].Phone)
	}
}

func mustDish(t *testing.T, s *store.Store, name string, price int) *models.Dish {
	t.Helper()
	d := &models.Dish{Name: name, Price: price, Category: "Main Course"}
	if err := s.CreateDish(d); err != nil {
		t.Fatalf("failed to create dish: %v", err)
	}
	return d
}

func mustKey(id int) string {
	return strconv.Itoa(id)
}

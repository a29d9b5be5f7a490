package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/cod-profit/internal/models"
)

func setupServer(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.CountrySettings{}, &models.Product{}, &models.Sale{}, &models.Expense{}, &models.ImportMapping{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(db), db
}

func signup(t *testing.T, handler http.Handler, email string) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"email":"`+email+`","password":"supersecret"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" && c.Value != "" {
			return c
		}
	}
	t.Fatalf("no session cookie on signup")
	return nil
}

func TestHealthEndpoints(t *testing.T) {
	handler, _ := setupServer(t)
	for _, path := range []string{"/health", "/healthz"} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, w.Code)
		}
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	handler, _ := setupServer(t)
	for _, path := range []string{"/products", "/sales", "/expenses", "/countries", "/dashboard/summary", "/analyze/products", "/imports/mapping"} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 got %d", path, w.Code)
		}
	}
}

func TestAuthenticatedAccess(t *testing.T) {
	handler, _ := setupServer(t)
	cookie := signup(t, handler, "seller@example.com")

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	// Full round trip through the mux: create then list.
	create := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(`{"name":"Smart Watch Ultra","price_production":15,"price_shipping":5}`))
	create.Header.Set("Content-Type", "application/json")
	create.AddCookie(cookie)
	wCreate := httptest.NewRecorder()
	handler.ServeHTTP(wCreate, create)
	if wCreate.Code != http.StatusCreated {
		t.Fatalf("create: expected 201 got %d body=%s", wCreate.Code, wCreate.Body.String())
	}

	list := httptest.NewRequest(http.MethodGet, "/products", nil)
	list.AddCookie(cookie)
	wList := httptest.NewRecorder()
	handler.ServeHTTP(wList, list)
	if !strings.Contains(wList.Body.String(), "Smart Watch Ultra") {
		t.Fatalf("expected created product in list body=%s", wList.Body.String())
	}
}

func TestSessionForDeletedUserRejected(t *testing.T) {
	handler, db := setupServer(t)
	cookie := signup(t, handler, "gone@example.com")

	if err := db.Where("email = ?", "gone@example.com").Delete(&models.User{}).Error; err != nil {
		t.Fatalf("delete user: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for deleted user got %d", w.Code)
	}
}

func TestMethodNotAllowedOnCollections(t *testing.T) {
	handler, _ := setupServer(t)
	cookie := signup(t, handler, "seller@example.com")

	req := httptest.NewRequest(http.MethodDelete, "/products", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", w.Code)
	}
	if w.Header().Get("Allow") == "" {
		t.Fatalf("expected Allow header")
	}
}

func TestCurrencyPreferenceCookie(t *testing.T) {
	handler, _ := setupServer(t)
	cookie := signup(t, handler, "seller@example.com")

	req := httptest.NewRequest(http.MethodGet, "/dashboard/summary?currency=mad", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var persisted bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "currency" && c.Value == "MAD" {
			persisted = true
		}
	}
	if !persisted {
		t.Fatalf("expected currency preference persisted as a cookie")
	}
}

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diewo77/cod-profit/internal/models"
)

func postExpense(t *testing.T, h *ExpenseHandler, url, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Create(w, req)
	return w
}

func TestExpenseCreateTypeRules(t *testing.T) {
	st := setupTestDB(t)
	h := NewExpenseHandler(st)

	// ADS requires a platform.
	w := postExpense(t, h, "/expenses", `{"date":"2023-10-24","amount":25,"type":"ADS"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for ADS without platform got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "platform") {
		t.Fatalf("expected platform violation body=%s", w.Body.String())
	}

	// FIXED requires a name.
	w = postExpense(t, h, "/expenses", `{"date":"2023-10-24","amount":25,"type":"FIXED"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for FIXED without name got %d", w.Code)
	}

	// Lowercase type is normalized before validation.
	w = postExpense(t, h, "/expenses", `{"date":"2023-10-24","amount":25,"type":"ads","platform":"Facebook"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}

	// Unknown type is rejected outright.
	w = postExpense(t, h, "/expenses", `{"date":"2023-10-24","amount":25,"type":"SHOPPING","platform":"X"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown type got %d", w.Code)
	}
}

func TestExpenseCreateDuplicateConfirmFlow(t *testing.T) {
	st := setupTestDB(t)
	h := NewExpenseHandler(st)

	body := `{"date":"2023-10-24","amount":25,"type":"ADS","platform":"Facebook"}`
	if w := postExpense(t, h, "/expenses", body); w.Code != http.StatusCreated {
		t.Fatalf("first create: expected 201 got %d", w.Code)
	}
	w := postExpense(t, h, "/expenses", body)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", w.Code)
	}
	if w := postExpense(t, h, "/expenses?confirm=1", body); w.Code != http.StatusCreated {
		t.Fatalf("confirmed create: expected 201 got %d", w.Code)
	}
	var n int64
	st.DB.Model(&models.Expense{}).Count(&n)
	if n != 2 {
		t.Fatalf("expected 2 expenses got %d", n)
	}
}

func TestExpenseListTypeFilter(t *testing.T) {
	st := setupTestDB(t)
	for _, e := range []models.Expense{
		{Date: "2023-10-24", Amount: 25, Type: models.ExpenseAds, Platform: "Facebook"},
		{Date: "2023-10-24", Amount: 100, Type: models.ExpenseFixed, Name: "Hosting"},
	} {
		exp := e
		if err := st.AddExpense(&exp); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	h := NewExpenseHandler(st)

	w := httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, "/expenses?type=ads", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"total":1`) {
		t.Fatalf("expected 1 filtered expense body=%s", w.Body.String())
	}

	w2 := httptest.NewRecorder()
	h.List(w2, httptest.NewRequest(http.MethodGet, "/expenses?type=GROCERIES", nil))
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad type filter got %d", w2.Code)
	}
}

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/diewo77/cod-profit/internal/httpx"
	"github.com/diewo77/cod-profit/internal/models"
	"github.com/diewo77/cod-profit/internal/store"
	"github.com/diewo77/cod-profit/internal/validation"
)

type ExpenseHandler struct{ Store *store.Store }

func NewExpenseHandler(st *store.Store) *ExpenseHandler { return &ExpenseHandler{Store: st} }

func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	var expenses []models.Expense
	q := h.Store.DB.Order("date desc")
	if t := strings.ToUpper(r.URL.Query().Get("type")); t != "" && t != "ALL" {
		if !models.ValidExpenseType(t) {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_expense_type", nil)
			return
		}
		q = q.Where("type = ?", t)
	}
	if err := q.Find(&expenses).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_expenses", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": expenses, "total": len(expenses)})
}

func validateExpense(e models.Expense) validation.Violations {
	v := validation.Violations{}
	validation.Required("date", e.Date, v)
	validation.NonNegativeFloat("amount", e.Amount, v)
	validation.OneOf("type", e.Type, []string{models.ExpenseAds, models.ExpenseFixed, models.ExpenseTest}, v)
	switch e.Type {
	case models.ExpenseAds, models.ExpenseTest:
		validation.Required("platform", e.Platform, v)
	case models.ExpenseFixed:
		validation.Required("name", e.Name, v)
	}
	return v
}

func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.Expense
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	in.ID = ""
	in.Type = strings.ToUpper(in.Type)
	if v := validateExpense(in); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if r.URL.Query().Get("confirm") != "1" {
		dup, err := h.Store.ExpenseDuplicate(in)
		if err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_expense", nil)
			return
		}
		if dup {
			httpx.JSONError(w, http.StatusConflict, "duplicate_record", nil)
			return
		}
	}
	if err := h.Store.AddExpense(&in); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_expense", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, in)
}

func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in models.Expense
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if in.ID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	in.Type = strings.ToUpper(in.Type)
	if v := validateExpense(in); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if err := h.Store.UpdateExpense(&in); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "expense_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_expense", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, in)
}

func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	if err := h.Store.DeleteExpense(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "expense_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_expense", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

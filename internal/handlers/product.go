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

type ProductHandler struct{ Store *store.Store }

func NewProductHandler(st *store.Store) *ProductHandler { return &ProductHandler{Store: st} }

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.Products()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_products", nil)
		return
	}
	if q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q"))); q != "" {
		filtered := products[:0]
		for _, p := range products {
			if strings.Contains(strings.ToLower(p.Name), q) {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": products, "total": len(products)})
}

func validateProduct(p models.Product) validation.Violations {
	v := validation.Violations{}
	validation.Required("name", p.Name, v)
	validation.NonNegativeFloat("price_production", p.PriceProduction, v)
	validation.NonNegativeFloat("price_shipping", p.PriceShipping, v)
	return v
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.Product
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	in.ID = ""
	if v := validateProduct(in); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if err := h.Store.AddProduct(&in); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_product", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, in)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in models.Product
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if in.ID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	if v := validateProduct(in); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if err := h.Store.UpdateProduct(&in); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "product_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_product", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, in)
}

// Delete removes a product. When dependent sales/expenses exist the caller
// must resend with confirm=1; the response carries the dependent counts so
// the UI can show exactly what the cascade will take with it.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	sales, expenses, err := h.Store.DependentCounts(id)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_check_dependents", nil)
		return
	}
	confirmed := r.URL.Query().Get("confirm") == "1"
	if (sales > 0 || expenses > 0) && !confirmed {
		httpx.JSONError(w, http.StatusConflict, "confirmation_required", map[string]int64{
			"sales": sales, "expenses": expenses,
		})
		return
	}
	if err := h.Store.DeleteProductCascade(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "product_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_product", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"status": "deleted", "cascade_sales": sales, "cascade_expenses": expenses})
}

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/diewo77/cod-profit/internal/httpx"
	"github.com/diewo77/cod-profit/internal/models"
	"github.com/diewo77/cod-profit/internal/services"
	"github.com/diewo77/cod-profit/internal/store"
	"github.com/diewo77/cod-profit/internal/validation"
)

type SaleHandler struct{ Store *store.Store }

func NewSaleHandler(st *store.Store) *SaleHandler { return &SaleHandler{Store: st} }

func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	var sales []models.Sale
	q := h.Store.DB.Order("date desc")
	if c := r.URL.Query().Get("country"); c != "" && c != "all" {
		q = q.Where("country = ?", c)
	}
	if p := r.URL.Query().Get("product"); p != "" && p != "all" {
		q = q.Where("product_id = ?", p)
	}
	if err := q.Find(&sales).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_sales", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": sales, "total": len(sales)})
}

func validateSale(s models.Sale) validation.Violations {
	v := validation.Violations{}
	validation.Required("date", s.Date, v)
	validation.Required("product_id", s.ProductID, v)
	validation.Required("country", s.Country, v)
	validation.MinInt("quantity", s.Quantity, 1, v)
	validation.NonNegativeFloat("total_price", s.TotalPrice, v)
	return v
}

// prepare normalizes a sale and recomputes the delivery fee from the current
// country rules; the client-sent fee is never trusted.
func (h *SaleHandler) prepare(s *models.Sale) error {
	s.Status = strings.ToUpper(s.Status)
	if !models.ValidStatus(s.Status) {
		s.Status = models.StatusProcessed
	}
	countries, err := h.Store.Countries()
	if err != nil {
		return err
	}
	s.DeliveryPrice = services.CalculateServiceFee(countries, s.Country, s.TotalPrice)
	return nil
}

// Create adds a manual sale. A record matching the duplicate key
// (date, total, phone, product) is rejected with 409 until the client
// confirms with confirm=1.
func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.Sale
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	in.ID = ""
	if v := validateSale(in); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if err := h.prepare(&in); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_sale", nil)
		return
	}
	if r.URL.Query().Get("confirm") != "1" {
		dup, err := h.Store.SaleDuplicate(in)
		if err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_sale", nil)
			return
		}
		if dup {
			httpx.JSONError(w, http.StatusConflict, "duplicate_record", nil)
			return
		}
	}
	if err := h.Store.AddSale(&in); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_sale", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, in)
}

func (h *SaleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in models.Sale
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if in.ID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	if v := validateSale(in); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if err := h.prepare(&in); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_sale", nil)
		return
	}
	if err := h.Store.UpdateSale(&in); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "sale_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_sale", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, in)
}

func (h *SaleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	if err := h.Store.DeleteSale(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "sale_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_sale", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/diewo77/cod-profit/internal/httpx"
	"github.com/diewo77/cod-profit/internal/models"
	"github.com/diewo77/cod-profit/internal/store"
	"github.com/diewo77/cod-profit/internal/validation"
)

type CountryHandler struct{ Store *store.Store }

func NewCountryHandler(st *store.Store) *CountryHandler { return &CountryHandler{Store: st} }

func (h *CountryHandler) List(w http.ResponseWriter, r *http.Request) {
	countries, err := h.Store.Countries()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_countries", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": countries, "total": len(countries)})
}

func validateCountry(c models.CountrySettings) validation.Violations {
	v := validation.Violations{}
	validation.Required("code", c.Code, v)
	validation.Required("name", c.Name, v)
	validation.Required("currency_code", c.CurrencyCode, v)
	validation.PositiveFloat("exchange_rate_to_usd", c.ExchangeRateToUSD, v)
	validation.NonNegativeFloat("service_fee", c.ServiceFee, v)
	validation.RangeFloat("service_fee_percentage", c.ServiceFeePercentage, 0, 100, v)
	return v
}

func (h *CountryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.CountrySettings
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	in.ID = ""
	if v := validateCountry(in); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if err := h.Store.SaveCountry(&in); err != nil {
		if errors.Is(err, store.ErrDuplicateCode) {
			httpx.JSONError(w, http.StatusConflict, "country_code_exists", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_save_country", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, in)
}

func (h *CountryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in models.CountrySettings
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if in.ID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	if v := validateCountry(in); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if err := h.Store.SaveCountry(&in); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "country_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_save_country", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, in)
}

func (h *CountryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	switch err := h.Store.DeleteCountry(id); {
	case errors.Is(err, store.ErrPrimaryCountry):
		httpx.JSONError(w, http.StatusConflict, "primary_country_not_deletable", nil)
	case errors.Is(err, store.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "country_not_found", nil)
	case err != nil:
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_country", nil)
	default:
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

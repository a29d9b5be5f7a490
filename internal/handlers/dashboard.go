package handlers

import (
	"net/http"

	"github.com/diewo77/cod-profit/internal/httpx"
	"github.com/diewo77/cod-profit/internal/middleware"
	"github.com/diewo77/cod-profit/internal/services"
	"github.com/diewo77/cod-profit/internal/store"
)

// DashboardHandler serves the aggregated views: summary totals, the daily
// trend series, and the per-product analysis. Every request rebuilds the
// snapshot from the store and recomputes — aggregates are never cached, so a
// mutation is visible on the next read.
type DashboardHandler struct{ Store *store.Store }

func NewDashboardHandler(st *store.Store) *DashboardHandler { return &DashboardHandler{Store: st} }

func parseFilters(r *http.Request) services.Filters {
	q := r.URL.Query()
	rng := services.ResolveDateRange(q.Get("range"), q.Get("start"), q.Get("end"))
	return services.Filters{
		Range:     rng,
		Country:   q.Get("country"),
		ProductID: q.Get("product"),
	}
}

func (h *DashboardHandler) snapshot(w http.ResponseWriter) (services.ReportInput, bool) {
	sales, expenses, products, countries, err := h.Store.Snapshot()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_data", nil)
		return services.ReportInput{}, false
	}
	return services.ReportInput{Sales: sales, Expenses: expenses, Products: products, Countries: countries}, true
}

func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	in, ok := h.snapshot(w)
	if !ok {
		return
	}
	f := parseFilters(r)
	display := services.NewConverter(in.Countries).DisplayCurrency(middleware.CurrencyFrom(r))
	sum := services.Compute(in, f, display)
	httpx.JSON(w, http.StatusOK, map[string]any{
		"currency":    display,
		"range":       f.Range,
		"summary":     sum,
		"total_spend": sum.TotalSpend(),
	})
}

func (h *DashboardHandler) Series(w http.ResponseWriter, r *http.Request) {
	in, ok := h.snapshot(w)
	if !ok {
		return
	}
	f := parseFilters(r)
	display := services.NewConverter(in.Countries).DisplayCurrency(middleware.CurrencyFrom(r))
	httpx.JSON(w, http.StatusOK, map[string]any{
		"currency": display,
		"range":    f.Range,
		"points":   services.DailySeries(in, f, display),
	})
}

func (h *DashboardHandler) AnalyzeProducts(w http.ResponseWriter, r *http.Request) {
	in, ok := h.snapshot(w)
	if !ok {
		return
	}
	f := parseFilters(r)
	display := services.NewConverter(in.Countries).DisplayCurrency(middleware.CurrencyFrom(r))
	httpx.JSON(w, http.StatusOK, map[string]any{
		"currency": display,
		"range":    f.Range,
		"items":    services.AnalyzeProducts(in, f, display),
	})
}

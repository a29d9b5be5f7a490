package handlers

import (
	"net/http"
	"strings"

	"github.com/diewo77/cod-profit/internal/httpx"
	"github.com/diewo77/cod-profit/internal/importer"
)

// Import mapping scopes.
const (
	ScopeSalesImport   = "sales_import"
	ScopeExpenseImport = "expense_import"
)

type ImportHandler struct{ Reconciler *importer.Reconciler }

func NewImportHandler(rec *importer.Reconciler) *ImportHandler { return &ImportHandler{Reconciler: rec} }

type salesImportRequest struct {
	Rows        []importer.Row   `json:"rows"`
	Mapping     importer.Mapping `json:"mapping"`
	Country     string           `json:"country"`
	SaveMapping bool             `json:"save_mapping"`
}

func (h *ImportHandler) Sales(w http.ResponseWriter, r *http.Request) {
	var in salesImportRequest
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if in.Country == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_country", nil)
		return
	}
	if len(in.Mapping) == 0 {
		// Fall back to the persisted mapping when the client sends none.
		saved, err := h.Reconciler.LoadMapping(ScopeSalesImport)
		if err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_mapping", nil)
			return
		}
		in.Mapping = saved
	}
	if len(in.Mapping) == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "missing_mapping", nil)
		return
	}
	res, err := h.Reconciler.ImportSales(in.Rows, in.Mapping, strings.ToUpper(in.Country))
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "import_failed", nil)
		return
	}
	if in.SaveMapping {
		if err := h.Reconciler.SaveMapping(ScopeSalesImport, in.Mapping); err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_save_mapping", nil)
			return
		}
	}
	httpx.JSON(w, http.StatusOK, res)
}

type expenseImportRequest struct {
	Rows        []importer.Row   `json:"rows"`
	Mapping     importer.Mapping `json:"mapping"`
	Type        string           `json:"type"`
	SaveMapping bool             `json:"save_mapping"`
}

func (h *ImportHandler) Expenses(w http.ResponseWriter, r *http.Request) {
	var in expenseImportRequest
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if len(in.Mapping) == 0 {
		saved, err := h.Reconciler.LoadMapping(ScopeExpenseImport)
		if err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_mapping", nil)
			return
		}
		in.Mapping = saved
	}
	if len(in.Mapping) == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "missing_mapping", nil)
		return
	}
	res, err := h.Reconciler.ImportExpenses(in.Rows, in.Mapping, strings.ToUpper(in.Type))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "import_failed", map[string]string{"reason": err.Error()})
		return
	}
	if in.SaveMapping {
		if err := h.Reconciler.SaveMapping(ScopeExpenseImport, in.Mapping); err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_save_mapping", nil)
			return
		}
	}
	httpx.JSON(w, http.StatusOK, res)
}

// Mapping serves GET (load) and PUT (save) of the persisted field mapping
// for a scope (default sales_import).
func (h *ImportHandler) Mapping(w http.ResponseWriter, r *http.Request) {
	scope := r.URL.Query().Get("scope")
	if scope == "" {
		scope = ScopeSalesImport
	}
	switch r.Method {
	case http.MethodGet:
		m, err := h.Reconciler.LoadMapping(scope)
		if err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_mapping", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"scope": scope, "mapping": m})
	case http.MethodPut, http.MethodPost:
		var m importer.Mapping
		if err := httpx.Decode(r, &m); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		if err := h.Reconciler.SaveMapping(scope, m); err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_save_mapping", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"scope": scope, "mapping": m})
	default:
		w.Header().Set("Allow", "GET,PUT")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}

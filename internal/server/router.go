package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/cod-profit/internal/auth"
	"github.com/diewo77/cod-profit/internal/handlers"
	"github.com/diewo77/cod-profit/internal/httpx"
	"github.com/diewo77/cod-profit/internal/importer"
	"github.com/diewo77/cod-profit/internal/middleware"
	"github.com/diewo77/cod-profit/internal/models"
	"github.com/diewo77/cod-profit/internal/store"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB) http.Handler {
	mux := http.NewServeMux()
	st := store.New(db)

	// RequireAuth double-checks that the session's user still exists.
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	// --- Health endpoints ---
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSONError(w, http.StatusServiceUnavailable, "degraded", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth endpoints
	authHandler := handlers.NewAuthHandler(db)
	authHandler.Register(mux)

	protect := func(h http.HandlerFunc) http.Handler {
		return auth.Middleware(auth.RequireAuth(h))
	}
	collection := func(list, create http.HandlerFunc) http.Handler {
		return protect(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				list(w, r)
			case http.MethodPost:
				create(w, r)
			default:
				w.Header().Set("Allow", "GET,POST")
				httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			}
		})
	}

	// Country settings
	ch := handlers.NewCountryHandler(st)
	mux.Handle("/countries", collection(ch.List, ch.Create))
	mux.Handle("/countries/update", protect(ch.Update))
	mux.Handle("/countries/delete", protect(ch.Delete))

	// Products (stock)
	ph := handlers.NewProductHandler(st)
	mux.Handle("/products", collection(ph.List, ph.Create))
	mux.Handle("/products/update", protect(ph.Update))
	mux.Handle("/products/delete", protect(ph.Delete))

	// Sales orders
	sh := handlers.NewSaleHandler(st)
	mux.Handle("/sales", collection(sh.List, sh.Create))
	mux.Handle("/sales/update", protect(sh.Update))
	mux.Handle("/sales/delete", protect(sh.Delete))

	// Expenses (ads / fixed / test charges)
	eh := handlers.NewExpenseHandler(st)
	mux.Handle("/expenses", collection(eh.List, eh.Create))
	mux.Handle("/expenses/update", protect(eh.Update))
	mux.Handle("/expenses/delete", protect(eh.Delete))

	// Dashboard & product analysis
	dh := handlers.NewDashboardHandler(st)
	mux.Handle("/dashboard/summary", protect(dh.Summary))
	mux.Handle("/dashboard/series", protect(dh.Series))
	mux.Handle("/analyze/products", protect(dh.AnalyzeProducts))

	// Spreadsheet imports
	ih := handlers.NewImportHandler(importer.New(st))
	mux.Handle("/imports/sales", protect(ih.Sales))
	mux.Handle("/imports/expenses", protect(ih.Expenses))
	mux.Handle("/imports/mapping", protect(ih.Mapping))

	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("COD Profit API"))
	})

	return middleware.Prefs(withRecover(withLogging(mux)))
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic serving %s: %v", r.URL.Path, rec)
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

package middleware

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const ctxCurrency ctxKey = "pref_currency"

// DefaultCurrency is the display currency before the user picks one.
const DefaultCurrency = "USD"

// Prefs extracts the display-currency preference (query > cookie > default)
// and stores it in context. Query-provided values persist in a cookie for
// ~30 days so the selection survives reloads and sessions. The value is kept
// as an uppercase currency selector; anything that is not USD is interpreted
// downstream as "the primary country's currency".
func Prefs(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		currency := DefaultCurrency
		if c, err := r.Cookie("currency"); err == nil && c.Value != "" {
			currency = c.Value
		}
		if qc := r.URL.Query().Get("currency"); qc != "" {
			currency = qc
			http.SetCookie(w, &http.Cookie{Name: "currency", Value: strings.ToUpper(qc), Path: "/", MaxAge: 86400 * 30})
		}
		currency = strings.ToUpper(strings.TrimSpace(currency))
		ctx := context.WithValue(r.Context(), ctxCurrency, currency)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CurrencyFrom returns the display currency preference from context.
func CurrencyFrom(r *http.Request) string {
	if v, ok := r.Context().Value(ctxCurrency).(string); ok && v != "" {
		return v
	}
	return DefaultCurrency
}

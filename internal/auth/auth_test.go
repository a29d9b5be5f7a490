package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func sessionCookie(t *testing.T, userID uint) *http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	CreateSession(w, userID)
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("no cookie set")
	}
	return cookies[0]
}

func TestSessionRoundTrip(t *testing.T) {
	c := sessionCookie(t, 42)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(c)
	uid, ok := ParseSession(r)
	if !ok || uid != 42 {
		t.Fatalf("expected uid 42 got %d ok=%v", uid, ok)
	}
}

func TestSessionTamperRejected(t *testing.T) {
	c := sessionCookie(t, 42)
	// Swap the user id, keep the old signature.
	tampered := &http.Cookie{Name: c.Name, Value: "7." + c.Value[len("42."):]}
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(tampered)
	if _, ok := ParseSession(r); ok {
		t.Fatalf("expected tampered session rejected")
	}

	// Garbage values never parse.
	for _, val := range []string{"", "justonepart", "a.b.c", "42."} {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "session", Value: val})
		if _, ok := ParseSession(r); ok {
			t.Fatalf("expected %q rejected", val)
		}
	}
}

func TestRequireAuth(t *testing.T) {
	SetUserVerifier(nil)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	protected := Middleware(RequireAuth(next))

	// No session: 401.
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}

	// Valid session: passes through.
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(sessionCookie(t, 1))
	w2 := httptest.NewRecorder()
	protected.ServeHTTP(w2, r)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w2.Code)
	}
}

func TestRequireAuthVerifierRejects(t *testing.T) {
	SetUserVerifier(func(_ context.Context, _ uint) bool { return false })
	t.Cleanup(func() { SetUserVerifier(nil) })

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	protected := Middleware(RequireAuth(next))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(sessionCookie(t, 1))
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, r)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 when verifier rejects got %d", w.Code)
	}
	// The stale session cookie is cleared on rejection.
	var cleared bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" && c.Value == "" {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("expected session cleared")
	}
}

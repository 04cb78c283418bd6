package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"ironhall/internal/adapters/http/perf"
	domainAccount "ironhall/internal/domain/account"
)

// TestSessionStore_CreateAndGet verifies the session round-trip.
func TestSessionStore_CreateAndGet(t *testing.T) {
	ss := NewSessionStore()
	token, err := ss.Create("acc-1", "jo@example.com", domainAccount.RoleClient)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	session, ok := ss.Get(token)
	if !ok {
		t.Fatal("session not found")
	}
	if session.AccountID != "acc-1" || session.Role != domainAccount.RoleClient {
		t.Errorf("session = %+v", session)
	}

	if _, ok := ss.Get("bogus"); ok {
		t.Error("bogus token returned a session")
	}
}

// TestSessionStore_Expiry verifies sessions past the TTL are rejected.
func TestSessionStore_Expiry(t *testing.T) {
	ss := NewSessionStore()
	token, err := ss.Create("acc-1", "jo@example.com", domainAccount.RoleClient)
	if err != nil {
		t.Fatal(err)
	}

	stale := ss.sessions[token]
	stale.CreatedAt = time.Now().Add(-sessionTTL - time.Minute)
	ss.sessions[token] = stale

	if _, ok := ss.Get(token); ok {
		t.Error("expired session returned")
	}
}

// TestSessionStore_ConcurrentExpiredGets verifies parallel lookups of an
// expired token all miss and the token ends up evicted. Run with -race.
func TestSessionStore_ConcurrentExpiredGets(t *testing.T) {
	ss := NewSessionStore()
	token, err := ss.Create("acc-1", "jo@example.com", domainAccount.RoleClient)
	if err != nil {
		t.Fatal(err)
	}

	stale := ss.sessions[token]
	stale.CreatedAt = time.Now().Add(-sessionTTL - time.Minute)
	ss.sessions[token] = stale

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := ss.Get(token); ok {
				t.Error("expired session returned")
			}
		}()
	}
	wg.Wait()

	if _, ok := ss.sessions[token]; ok {
		t.Error("expired session not evicted")
	}
}

// TestSessionStore_DeleteForAccount verifies all of an account's sessions are dropped.
func TestSessionStore_DeleteForAccount(t *testing.T) {
	ss := NewSessionStore()
	t1, _ := ss.Create("acc-1", "jo@example.com", domainAccount.RoleClient)
	t2, _ := ss.Create("acc-1", "jo@example.com", domainAccount.RoleClient)
	other, _ := ss.Create("acc-2", "sam@example.com", domainAccount.RoleTrainer)

	ss.DeleteForAccount("acc-1")

	if _, ok := ss.Get(t1); ok {
		t.Error("first session survived")
	}
	if _, ok := ss.Get(t2); ok {
		t.Error("second session survived")
	}
	if _, ok := ss.Get(other); !ok {
		t.Error("unrelated session was dropped")
	}
}

// TestRequireRole verifies role gating with redirect and forbidden paths.
func TestRequireRole(t *testing.T) {
	handler := RequireRole(domainAccount.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// No session: redirect to login.
	req := httptest.NewRequest("GET", "/admin", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusSeeOther {
		t.Errorf("anonymous status = %d, want 303", rr.Code)
	}

	// Wrong role: forbidden.
	req = httptest.NewRequest("GET", "/admin", nil)
	req = req.WithContext(ContextWithSession(req.Context(), Session{AccountID: "acc-1", Role: domainAccount.RoleClient}))
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Errorf("client status = %d, want 403", rr.Code)
	}

	// Matching role: passes through.
	req = httptest.NewRequest("GET", "/admin", nil)
	req = req.WithContext(ContextWithSession(req.Context(), Session{AccountID: "acc-2", Role: domainAccount.RoleAdmin}))
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", rr.Code)
	}
}

// TestRateLimiter_Allow verifies the bucket empties and refills.
func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(3, time.Hour)

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d denied, want allowed", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Error("request over limit allowed")
	}

	// A different IP has its own bucket.
	if !rl.Allow("5.6.7.8") {
		t.Error("fresh IP denied")
	}
}

// TestTimingMiddleware_EmitsEntry verifies a request entry is recorded.
func TestTimingMiddleware_EmitsEntry(t *testing.T) {
	collector := perf.NewCollector(100)
	handler := Timing(collector)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/test", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if collector.TotalRecorded() != 1 {
		t.Errorf("TotalRecorded = %d, want 1", collector.TotalRecorded())
	}
}

// TestTimingMiddleware_SkipsStatic verifies static assets are excluded from timing.
func TestTimingMiddleware_SkipsStatic(t *testing.T) {
	collector := perf.NewCollector(100)
	handler := Timing(collector)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/static/style.css", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if collector.TotalRecorded() != 0 {
		t.Errorf("TotalRecorded = %d, want 0 (static excluded)", collector.TotalRecorded())
	}
}

// TestTimingMiddleware_CapturesStatusCode verifies the wrapped writer records the status.
func TestTimingMiddleware_CapturesStatusCode(t *testing.T) {
	collector := perf.NewCollector(100)
	handler := Timing(collector)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest("GET", "/missing", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

// TestChain_Order verifies middlewares wrap outer to inner.
func TestChain_Order(t *testing.T) {
	var order []string
	mk := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mk("inner"), mk("outer"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if len(order) != 3 || order[0] != "outer" || order[1] != "inner" || order[2] != "handler" {
		t.Errorf("order = %v", order)
	}
}

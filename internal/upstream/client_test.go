package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dishboard/console/domain"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, handler http.Handler, token TokenSource) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(Config{BaseURL: server.URL, Timeout: 5 * time.Second}, token, nil)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var got string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, domain.DashboardStats{})
	}), staticToken("tok123"))

	if _, err := client.DashboardStats(context.Background()); err != nil {
		t.Fatalf("DashboardStats returned error: %v", err)
	}
	if got != "Bearer tok123" {
		t.Fatalf("Authorization = %q, want Bearer tok123", got)
	}
}

func TestClient_AnonymousWithoutToken(t *testing.T) {
	var got string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, domain.DashboardStats{})
	}), staticToken(""))

	if _, err := client.DashboardStats(context.Background()); err != nil {
		t.Fatalf("DashboardStats returned error: %v", err)
	}
	if got != "" {
		t.Fatalf("unexpected Authorization header %q", got)
	}
}

func TestClient_DeduplicatesConcurrentQueries(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		time.Sleep(100 * time.Millisecond)
		writeJSON(w, http.StatusOK, []domain.Order{{ID: "112329", Status: domain.OrderPending}})
	}), staticToken("tok123"))

	filter := domain.OrderFilter{Status: "all"}
	var wg sync.WaitGroup
	results := make([][]domain.Order, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = client.Orders(context.Background(), filter)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 2; i++ {
		if errs[i] != nil {
			t.Fatalf("call %d returned error: %v", i, errs[i])
		}
		if len(results[i]) != 1 || results[i][0].ID != "112329" {
			t.Fatalf("call %d result = %+v", i, results[i])
		}
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("network calls = %d, want 1 (shared in-flight request)", n)
	}
}

func TestClient_ConcurrentQueriesSurviveInvalidation(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []domain.Order{{ID: "112329", Status: domain.OrderPending}})
	}), staticToken("tok123"))

	// Keep every query racing against a fresh cache entry being produced
	// and immediately invalidated under it.
	stop := make(chan struct{})
	var invalidator sync.WaitGroup
	invalidator.Add(1)
	go func() {
		defer invalidator.Done()
		for {
			select {
			case <-stop:
				return
			default:
				client.Cache().Invalidate(TagOrder)
			}
		}
	}()

	ctx := context.Background()
	filter := domain.OrderFilter{Status: "all"}
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				orders, err := client.Orders(ctx, filter)
				if err != nil {
					t.Errorf("Orders returned error: %v", err)
					return
				}
				if len(orders) != 1 || orders[0].ID != "112329" {
					t.Errorf("orders = %+v", orders)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(stop)
	invalidator.Wait()
}

func TestClient_CachesAcrossSequentialQueries(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusOK, []domain.MenuItem{{ID: "m1", Name: "Ramen"}})
	}), staticToken("tok123"))

	ctx := context.Background()
	if _, err := client.MenuItems(ctx, domain.CategoryMeal); err != nil {
		t.Fatalf("first MenuItems call: %v", err)
	}
	if _, err := client.MenuItems(ctx, domain.CategoryMeal); err != nil {
		t.Fatalf("second MenuItems call: %v", err)
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("network calls = %d, want 1 (second served from cache)", n)
	}

	// A different fingerprint is its own entry.
	if _, err := client.MenuItems(ctx, domain.CategoryVegan); err != nil {
		t.Fatalf("third MenuItems call: %v", err)
	}
	if n := calls.Load(); n != 2 {
		t.Fatalf("network calls = %d, want 2", n)
	}
}

func TestClient_MutationInvalidatesDeclaredTags(t *testing.T) {
	var orderLists, statsCalls, menuCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /orders", func(w http.ResponseWriter, r *http.Request) {
		orderLists.Add(1)
		writeJSON(w, http.StatusOK, []domain.Order{{ID: "112329", Status: domain.OrderPending}})
	})
	mux.HandleFunc("GET /dashboard/stats", func(w http.ResponseWriter, r *http.Request) {
		statsCalls.Add(1)
		writeJSON(w, http.StatusOK, domain.DashboardStats{TotalOrders: 10})
	})
	mux.HandleFunc("GET /menu", func(w http.ResponseWriter, r *http.Request) {
		menuCalls.Add(1)
		writeJSON(w, http.StatusOK, []domain.MenuItem{})
	})
	mux.HandleFunc("PATCH /orders/112329/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.Order{ID: "112329", Status: domain.OrderDelivered})
	})
	client := newTestClient(t, mux, staticToken("tok123"))

	ctx := context.Background()
	if _, err := client.Orders(ctx, domain.OrderFilter{Status: "all"}); err != nil {
		t.Fatalf("priming orders: %v", err)
	}
	if _, err := client.DashboardStats(ctx); err != nil {
		t.Fatalf("priming stats: %v", err)
	}
	if _, err := client.MenuItems(ctx, ""); err != nil {
		t.Fatalf("priming menu: %v", err)
	}

	poke, cancel := client.Cache().Watch(TagOrder)
	defer cancel()

	order, err := client.UpdateOrderStatus(ctx, "112329", domain.OrderDelivered)
	if err != nil {
		t.Fatalf("UpdateOrderStatus returned error: %v", err)
	}
	if order.Status != domain.OrderDelivered {
		t.Fatalf("order status = %q", order.Status)
	}

	select {
	case <-poke:
	case <-time.After(time.Second):
		t.Fatal("order watcher not poked by the mutation")
	}

	if _, err := client.Orders(ctx, domain.OrderFilter{Status: "all"}); err != nil {
		t.Fatalf("re-reading orders: %v", err)
	}
	if _, err := client.DashboardStats(ctx); err != nil {
		t.Fatalf("re-reading stats: %v", err)
	}
	if _, err := client.MenuItems(ctx, ""); err != nil {
		t.Fatalf("re-reading menu: %v", err)
	}

	if n := orderLists.Load(); n != 2 {
		t.Fatalf("order fetches = %d, want 2 (refetched after invalidation)", n)
	}
	if n := statsCalls.Load(); n != 2 {
		t.Fatalf("stats fetches = %d, want 2 (refetched after invalidation)", n)
	}
	if n := menuCalls.Load(); n != 1 {
		t.Fatalf("menu fetches = %d, want 1 (untouched by order mutation)", n)
	}
}

func TestClient_RejectedRequestSurfacesServerMessage(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})
	}), staticToken(""))

	_, err := client.Login(context.Background(), Credentials{Email: "a@b.com", Password: "wrong"})
	if err == nil {
		t.Fatal("expected an error for a rejected login")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Message != "Invalid email or password" {
		t.Fatalf("APIError = %+v", apiErr)
	}
}

func TestClient_QueryFailureKeepsPreviousData(t *testing.T) {
	var fail atomic.Bool
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "db down"})
			return
		}
		writeJSON(w, http.StatusOK, []domain.Feedback{{ID: "f1", Rating: 5}})
	}), staticToken("tok123"))

	ctx := context.Background()
	if _, err := client.Feedback(ctx); err != nil {
		t.Fatalf("priming feedback: %v", err)
	}

	client.Cache().Invalidate(TagFeedback)
	fail.Store(true)

	if _, err := client.Feedback(ctx); err == nil {
		t.Fatal("expected the refetch failure to surface")
	}

	key, _ := Fingerprint("getFeedback", nil)
	if _, ok := client.Cache().Fresh(key); ok {
		t.Fatal("failed refetch must not mark the entry fresh")
	}
	data, ok := client.Cache().Last(key)
	if !ok {
		t.Fatal("previously-good data must survive a failed refetch")
	}
	var feedback []domain.Feedback
	if err := json.Unmarshal(data, &feedback); err != nil || len(feedback) != 1 {
		t.Fatalf("stale payload = %q (%v)", data, err)
	}
}

func TestClient_TransportFailureIsUnavailable(t *testing.T) {
	client := New(Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second}, staticToken(""), nil)

	_, err := client.DashboardStats(context.Background())
	if err == nil {
		t.Fatal("expected a transport error")
	}
	if !domain.IsDomainError(err, domain.ErrCodeUnavailable) {
		t.Fatalf("error = %v, want UNAVAILABLE classification", err)
	}
}

package clients

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestUserClientGetUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/42" {
			t.Errorf("path = %s, want /users/42", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 42, "name": "Alice", "email": "alice@example.com"}`))
	}))
	defer srv.Close()

	client, err := NewUserClient(srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	user, err := client.GetUser(context.Background(), "42")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.ID != "42" || user.Name != "Alice" || user.Email != "alice@example.com" {
		t.Errorf("user = %+v, want Alice with id 42", user)
	}
}

func TestUserClientNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client, _ := NewUserClient(srv.URL, srv.Client())
	_, err := client.GetUser(context.Background(), "404")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUserClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, _ := NewUserClient(srv.URL, srv.Client())
	_, err := client.GetUser(context.Background(), "42")
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConnection) {
		t.Errorf("err = %v, 500 must not map to not-found or connection failure", err)
	}
}

func TestUserClientConnectionRefused(t *testing.T) {
	// Закрытый сервер гарантирует отказ соединения.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client, _ := NewUserClient(url, nil)
	_, err := client.GetUser(context.Background(), "42")
	if !errors.Is(err, ErrConnection) {
		t.Errorf("err = %v, want ErrConnection", err)
	}
}

func TestUserClientContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client, _ := NewUserClient(srv.URL, srv.Client())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.GetUser(ctx, "42")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want context.DeadlineExceeded preserved", err)
	}
}

func TestUserClientRequiresBaseURL(t *testing.T) {
	if _, err := NewUserClient("", nil); err == nil {
		t.Error("expected error for empty base URL")
	}
}

func TestProductClientGetProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/7" {
			t.Errorf("path = %s, want /products/7", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 7, "name": "Widget", "price": 9.99, "description": "a widget", "stock": 10}`))
	}))
	defer srv.Close()

	client, err := NewProductClient(srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	product, err := client.GetProduct(context.Background(), "7")
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if product.ID != "7" || product.Name != "Widget" || product.Stock != 10 {
		t.Errorf("product = %+v, want Widget with stock 10", product)
	}
	if product.Price != 9.99 {
		t.Errorf("price = %v, want 9.99", product.Price)
	}
}

func TestProductClientDecrementStock(t *testing.T) {
	var gotMethod, gotPath, gotQuantity string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuantity = r.URL.Query().Get("quantity")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, _ := NewProductClient(srv.URL, srv.Client())
	if err := client.DecrementStock(context.Background(), "7", 3); err != nil {
		t.Fatalf("decrement: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %s, want POST", gotMethod)
	}
	if gotPath != "/products/7/decrement-stock" {
		t.Errorf("path = %s, want /products/7/decrement-stock", gotPath)
	}
	if gotQuantity != "3" {
		t.Errorf("quantity = %s, want 3", gotQuantity)
	}
}

func TestProductClientDecrementNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client, _ := NewProductClient(srv.URL, srv.Client())
	if err := client.DecrementStock(context.Background(), "404", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

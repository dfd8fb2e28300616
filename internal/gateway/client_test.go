package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testPayload() OrderPayload {
	return OrderPayload{
		OrderID: "order-1",
		Customer: map[string]string{
			"name":   "Arjun Mehta",
			"mobile": "9876543210",
		},
		Items: []OrderItem{
			{ProductID: "tshirt-1", Name: "Ghost Buster Tshirt", Quantity: 2, Price: 699},
		},
		Subtotal:  1398,
		Savings:   1400,
		ItemCount: 2,
	}
}

func TestSubmitSuccess(t *testing.T) {
	var received OrderPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 2*time.Second)
	res, err := client.Submit(context.Background(), testPayload())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !res.Succeeded {
		t.Fatalf("expected success, got %+v", res)
	}
	if received.OrderID != "order-1" || received.Subtotal != 1398 {
		t.Fatalf("payload mangled in transit: %+v", received)
	}
}

func TestSubmitFieldErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"errors": map[string]string{"pincode": "Delivery not available for this pincode"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 2*time.Second)
	res, err := client.Submit(context.Background(), testPayload())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Succeeded {
		t.Fatalf("expected rejection")
	}
	if res.FieldErrors["pincode"] != "Delivery not available for this pincode" {
		t.Fatalf("unexpected field errors: %+v", res.FieldErrors)
	}
}

func TestSubmitServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 2*time.Second)
	if _, err := client.Submit(context.Background(), testPayload()); err == nil {
		t.Fatalf("expected error for 502")
	}
}

func TestSubmitRespectsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewClient(srv.URL, 5*time.Second)
	if _, err := client.Submit(ctx, testPayload()); err == nil {
		t.Fatalf("expected context deadline error")
	}
}

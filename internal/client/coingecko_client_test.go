package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestGetSimplePrices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/simple/price" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("ids"); got != "usd-coin,ethereum,unknown-token" {
			t.Errorf("ids = %q", got)
		}
		if got := r.URL.Query().Get("vs_currencies"); got != "usd" {
			t.Errorf("vs_currencies = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"usd-coin":{"usd":1.0},"ethereum":{"usd":3000.5}}`))
	}))
	defer srv.Close()

	c := NewCoinGeckoClient(srv.URL+"/api/v3/", "", "usd", 2*time.Second, zap.NewNop())
	prices, err := c.GetSimplePrices(context.Background(), []string{"usd-coin", "ethereum", "unknown-token"})
	if err != nil {
		t.Fatalf("GetSimplePrices: %v", err)
	}
	if prices["usd-coin"] != 1.0 || prices["ethereum"] != 3000.5 {
		t.Fatalf("unexpected prices %v", prices)
	}
	if _, ok := prices["unknown-token"]; ok {
		t.Fatalf("unknown id must be absent, got %v", prices)
	}
}

func TestGetSimplePricesErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"status":{"error_code":429,"error_message":"rate limited"}}`))
	}))
	defer srv.Close()

	c := NewCoinGeckoClient(srv.URL, "", "usd", 2*time.Second, zap.NewNop())
	if _, err := c.GetSimplePrices(context.Background(), []string{"ethereum"}); err == nil {
		t.Fatalf("expected error on 429")
	}
}

func TestGetSimplePricesHonoursDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewCoinGeckoClient(srv.URL, "", "usd", 10*time.Second, zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := c.GetSimplePrices(ctx, []string{"ethereum"}); err == nil {
		t.Fatalf("expected timeout error")
	}
}

func TestGetSimplePricesEmptyInput(t *testing.T) {
	c := NewCoinGeckoClient("http://127.0.0.1:1", "", "", time.Second, zap.NewNop())
	prices, err := c.GetSimplePrices(context.Background(), nil)
	if err != nil || len(prices) != 0 {
		t.Fatalf("expected empty result without a request, got %v %v", prices, err)
	}
}

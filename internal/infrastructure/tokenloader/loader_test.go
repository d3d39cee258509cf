package tokenloader

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestLoadTokens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	data := `[
  {"symbol": "USDC", "name": "USD Coin", "decimals": 6, "coingeckoId": "usd-coin",
   "addresses": {"1": "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", "42161": "not-an-address"}},
  {"symbol": "USDC", "name": "Duplicate", "decimals": 6, "addresses": {"10": "0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85"}},
  {"symbol": "", "decimals": 18, "addresses": {"1": "0x6B175474E89094C44Da98b954EedeAC495271d0F"}},
  {"symbol": "BAD", "decimals": 18, "addresses": {"1": "0x123"}}
]`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	tokens, err := LoadTokens(path, zap.NewNop())
	if err != nil {
		t.Fatalf("LoadTokens: %v", err)
	}
	if len(tokens) != 1 {
		t.Fatalf("expected one valid token, got %+v", tokens)
	}
	usdc := tokens[0]
	if usdc.PriceFeedID != "usd-coin" || usdc.Decimals != 6 {
		t.Errorf("unexpected token: %+v", usdc)
	}
	if _, ok := usdc.AddressOn(42161); ok {
		t.Error("invalid address should have been dropped")
	}
	if _, ok := usdc.AddressOn(1); !ok {
		t.Error("valid address missing")
	}
}

func TestLoadTokensMissingFile(t *testing.T) {
	if _, err := LoadTokens(filepath.Join(t.TempDir(), "nope.json"), zap.NewNop()); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

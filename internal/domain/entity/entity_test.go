package entity

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestReadError(t *testing.T) {
	err := NewReadError(ReadErrorConfigGap, "plan reads", 10, "OP", ErrChainUnavailable)
	wrapped := fmt.Errorf("scan: %w", err)

	if !errors.Is(wrapped, ErrChainUnavailable) {
		t.Error("sentinel lost through wrapping")
	}
	if ReadErrorKindOf(wrapped) != ReadErrorConfigGap {
		t.Errorf("kind: %s", ReadErrorKindOf(wrapped))
	}
	if ReadErrorKindOf(errors.New("eof")) != ReadErrorConnectivity {
		t.Error("plain errors should count as connectivity")
	}
	if NewReadError(ReadErrorConnectivity, "x", 1, "ETH", nil) != nil {
		t.Error("nil cause should give a nil error")
	}
}

func TestHoldingPriceable(t *testing.T) {
	cases := []struct {
		h    Holding
		want bool
	}{
		{Holding{Balance: decimal.NewFromInt(1), PriceFeedID: "ethereum"}, true},
		{Holding{Balance: decimal.Zero, PriceFeedID: "ethereum"}, false},
		{Holding{Balance: decimal.NewFromInt(5)}, false},
	}
	for i, c := range cases {
		if got := c.h.Priceable(); got != c.want {
			t.Errorf("case %d: want %v, got %v", i, c.want, got)
		}
	}
}

func TestFreshAt(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	entry := CachedPortfolio{Timestamp: now.Add(-59 * time.Second)}
	if !entry.FreshAt(now, time.Minute) {
		t.Error("59s old entry should be fresh")
	}
	entry.Timestamp = now.Add(-time.Minute)
	if entry.FreshAt(now, time.Minute) {
		t.Error("entry exactly ttl old should be stale")
	}
	price := PriceCacheEntry{Timestamp: now.Add(-16 * time.Minute)}
	if price.FreshAt(now, 15*time.Minute) {
		t.Error("16m old price should be stale")
	}
}

func TestEmptySummary(t *testing.T) {
	s := EmptySummary("0xabc", "boom")
	if s.Holdings == nil || s.ActiveStrategies == nil || s.TotalValueUSD != 0 || s.Error != "boom" {
		t.Errorf("unexpected empty summary: %+v", s)
	}
}

func TestTokenAndChainLookups(t *testing.T) {
	tok := TokenConfig{Symbol: "USDC", Addresses: map[int64]string{1: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", 10: ""}}
	if _, ok := tok.AddressOn(10); ok {
		t.Error("empty address should count as absent")
	}
	if _, ok := tok.AddressOn(1); !ok {
		t.Error("address on chain 1 missing")
	}
	chains := []ChainConfig{{ChainID: 1, Name: "Ethereum"}}
	if ChainName(chains, 1) != "Ethereum" || ChainName(chains, 8453) != "chain-8453" {
		t.Error("unexpected chain names")
	}
}

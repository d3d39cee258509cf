package service

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"defi_copilot/internal/app/port"
	"defi_copilot/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
)

const (
	testVault = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	usdcEth   = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
	usdcArb   = "0xaf88d065e77c8cC2239327C5EDb3A432268e5831"
)

var errRPC = errors.New("connection refused")

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000_000_000_000))
}

type fakeClient struct {
	chain    entity.ChainConfig
	native   *big.Int
	balances map[common.Address]*big.Int
	down     bool
	calls    atomic.Int64

	// When gate is set, reads block until it is closed or their context ends.
	gate    chan struct{}
	entered chan struct{}
}

func (f *fakeClient) read(ctx context.Context) error {
	f.calls.Add(1)
	if f.entered != nil {
		select {
		case f.entered <- struct{}{}:
		default:
		}
	}
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.down {
		return errRPC
	}
	return nil
}

func (f *fakeClient) NativeBalance(ctx context.Context, _ common.Address) (*big.Int, error) {
	if err := f.read(ctx); err != nil {
		return nil, err
	}
	if f.native == nil {
		return big.NewInt(0), nil
	}
	return f.native, nil
}

func (f *fakeClient) TokenBalance(ctx context.Context, token common.Address, _ common.Address) (*big.Int, error) {
	if err := f.read(ctx); err != nil {
		return nil, err
	}
	if b, ok := f.balances[token]; ok {
		return b, nil
	}
	return big.NewInt(0), nil
}

func (f *fakeClient) Chain() entity.ChainConfig { return f.chain }
func (f *fakeClient) Close()                    {}

type fakePool map[int64]*fakeClient

func (p fakePool) Client(id int64) (port.BlockchainClient, bool) {
	c, ok := p[id]
	if !ok {
		return nil, false
	}
	return c, true
}

func (p fakePool) ChainIDs() []int64 {
	ids := make([]int64, 0, len(p))
	for id := range p {
		ids = append(ids, id)
	}
	return ids
}

func (p fakePool) calls() int64 {
	var n int64
	for _, c := range p {
		n += c.calls.Load()
	}
	return n
}

type fakeOracle struct {
	prices map[string]float64
	panics bool
	mu     sync.Mutex
	calls  int
	asked  [][]string
}

func (o *fakeOracle) GetPrices(_ context.Context, ids []string) map[string]float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.panics {
		panic("oracle exploded")
	}
	o.calls++
	o.asked = append(o.asked, ids)
	out := make(map[string]float64, len(ids))
	for _, id := range ids {
		out[id] = o.prices[id]
	}
	return out
}

type fakeStrategy struct {
	holdings []entity.Holding
	panics   bool
	calls    atomic.Int64
}

func (f *fakeStrategy) Key() string               { return "aave_v3" }
func (f *fakeStrategy) Protocol() string          { return "Aave V3" }
func (f *fakeStrategy) Type() entity.StrategyType { return entity.StrategyTypeLending }

func (f *fakeStrategy) Balances(context.Context, port.ConnectionPool, common.Address, []entity.TokenConfig) []entity.Holding {
	f.calls.Add(1)
	if f.panics {
		panic("nil map")
	}
	return f.holdings
}

type fakePortfolioStore struct {
	mu        sync.Mutex
	entries   map[string]entity.CachedPortfolio
	getErr    error
	upsertErr error
	gets      int
	upserts   int
	looked    chan string
}

func newFakePortfolioStore() *fakePortfolioStore {
	return &fakePortfolioStore{entries: make(map[string]entity.CachedPortfolio)}
}

func (s *fakePortfolioStore) GetPortfolio(_ context.Context, vault string) (entity.CachedPortfolio, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	if s.looked != nil {
		s.looked <- vault
	}
	if s.getErr != nil {
		return entity.CachedPortfolio{}, false, s.getErr
	}
	e, ok := s.entries[vault]
	return e, ok, nil
}

func (s *fakePortfolioStore) UpsertPortfolio(_ context.Context, vault string, entry entity.CachedPortfolio) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserts++
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.entries[vault] = entry
	return nil
}

type fakePriceStore struct {
	mu        sync.Mutex
	entries   map[string]entity.PriceCacheEntry
	getErr    error
	upsertErr error
	upserted  []entity.PriceCacheEntry
}

func newFakePriceStore() *fakePriceStore {
	return &fakePriceStore{entries: make(map[string]entity.PriceCacheEntry)}
}

func (s *fakePriceStore) GetPrices(_ context.Context, ids []string) (map[string]entity.PriceCacheEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	out := make(map[string]entity.PriceCacheEntry)
	for _, id := range ids {
		if e, ok := s.entries[id]; ok {
			out[id] = e
		}
	}
	return out, nil
}

func (s *fakePriceStore) UpsertPrices(_ context.Context, entries []entity.PriceCacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserted = append(s.upserted, entries...)
	if s.upsertErr != nil {
		return s.upsertErr
	}
	for _, e := range entries {
		s.entries[e.PriceFeedID] = e
	}
	return nil
}

type fakePriceAPI struct {
	prices map[string]float64
	err    error
	mu     sync.Mutex
	calls  [][]string
}

func (a *fakePriceAPI) GetSimplePrices(ctx context.Context, ids []string) (map[string]float64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, append([]string(nil), ids...))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if a.err != nil {
		return nil, a.err
	}
	out := make(map[string]float64)
	for _, id := range ids {
		if p, ok := a.prices[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

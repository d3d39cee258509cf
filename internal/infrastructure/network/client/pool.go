package client

import (
	"context"
	"sort"
	"sync"
	"time"

	"defi_copilot/internal/app/port"
	"defi_copilot/internal/domain/entity"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// PoolOptions configures how chain clients are built.
type PoolOptions struct {
	DialTimeout time.Duration
	RateLimit   float64 // requests per second per chain, 0 means unlimited
	BurstLimit  int
}

// Pool implements port.ConnectionPool. It is immutable after construction.
type Pool struct {
	clients map[int64]port.BlockchainClient
	ids     []int64
}

// NewPool wraps already-built clients.
func NewPool(clients ...port.BlockchainClient) *Pool {
	p := &Pool{clients: make(map[int64]port.BlockchainClient, len(clients))}
	for _, c := range clients {
		p.clients[c.Chain().ChainID] = c
	}
	for id := range p.clients {
		p.ids = append(p.ids, id)
	}
	sort.Slice(p.ids, func(i, j int) bool { return p.ids[i] < p.ids[j] })
	return p
}

// Connect builds one client per chain and probes it with eth_blockNumber.
// Chains that fail to dial or answer are logged and left out of the pool; they
// stay unavailable for the lifetime of the process.
func Connect(ctx context.Context, chains []entity.ChainConfig, opts PoolOptions, logger *zap.Logger) *Pool {
	log := logger.Named("ConnectionPool")

	var (
		mu    sync.Mutex
		alive []port.BlockchainClient
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, chain := range chains {
		g.Go(func() error {
			var limiter *rate.Limiter
			if opts.RateLimit > 0 {
				limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), opts.BurstLimit)
			}
			c, err := NewEVMClient(gctx, chain, opts.DialTimeout, limiter)
			if err != nil {
				log.Warn("Chain unavailable, failed to create client",
					zap.Int64("chainId", chain.ChainID), zap.String("name", chain.Name), zap.Error(err))
				return nil
			}
			block, err := c.Ping(gctx)
			if err != nil {
				log.Warn("Chain unavailable, liveness probe failed",
					zap.Int64("chainId", chain.ChainID), zap.String("name", chain.Name), zap.Error(err))
				c.Close()
				return nil
			}
			log.Info("Connected to chain",
				zap.Int64("chainId", chain.ChainID), zap.String("name", chain.Name), zap.Uint64("block", block))
			mu.Lock()
			alive = append(alive, c)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	p := NewPool(alive...)
	log.Info("Connection pool ready", zap.Int("configured", len(chains)), zap.Int("available", len(p.ids)))
	return p
}

// Client implements port.ConnectionPool.
func (p *Pool) Client(chainID int64) (port.BlockchainClient, bool) {
	c, ok := p.clients[chainID]
	return c, ok
}

// ChainIDs implements port.ConnectionPool, in ascending order.
func (p *Pool) ChainIDs() []int64 {
	out := make([]int64, len(p.ids))
	copy(out, p.ids)
	return out
}

// Close releases every client.
func (p *Pool) Close() {
	for _, c := range p.clients {
		c.Close()
	}
}

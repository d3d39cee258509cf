package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"defi_copilot/internal/config"
	"defi_copilot/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	portfolioCollection = "portfolio_cache"
	priceCollection     = "price_cache"
)

// Store implements port.PortfolioCacheStore and port.PriceCacheStore on MongoDB.
type Store struct {
	client     *mongo.Client
	portfolios *mongo.Collection
	prices     *mongo.Collection
	timeout    time.Duration
	logger     *zap.Logger
}

// New connects, pings and makes sure the lookup indexes exist.
func New(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger) (*Store, error) {
	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI).SetTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	s := &Store{
		client:     client,
		portfolios: db.Collection(portfolioCollection),
		prices:     db.Collection(priceCollection),
		timeout:    timeout,
		logger:     logger.Named("MongoStore"),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		s.logger.Warn("Failed to create cache indexes", zap.Error(err))
	}
	s.logger.Info("Mongo cache store ready", zap.String("database", cfg.Database))
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if _, err := s.portfolios.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "vault_address", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}
	_, err := s.prices.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "token_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// GetPortfolio implements port.PortfolioCacheStore.
func (s *Store) GetPortfolio(ctx context.Context, vaultAddress string) (entity.CachedPortfolio, bool, error) {
	var doc portfolioDocument
	err := s.portfolios.FindOne(ctx, bson.M{"vault_address": vaultAddress}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return entity.CachedPortfolio{}, false, nil
	}
	if err != nil {
		return entity.CachedPortfolio{}, false, fmt.Errorf("find portfolio %s: %w", vaultAddress, err)
	}
	entry, err := fromPortfolioDocument(doc)
	if err != nil {
		return entity.CachedPortfolio{}, false, fmt.Errorf("decode portfolio %s: %w", vaultAddress, err)
	}
	return entry, true, nil
}

// UpsertPortfolio implements port.PortfolioCacheStore.
func (s *Store) UpsertPortfolio(ctx context.Context, vaultAddress string, entry entity.CachedPortfolio) error {
	doc := toPortfolioDocument(entry)
	doc.VaultAddress = vaultAddress
	_, err := s.portfolios.UpdateOne(ctx,
		bson.M{"vault_address": vaultAddress},
		bson.M{"$set": doc},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert portfolio %s: %w", vaultAddress, err)
	}
	return nil
}

// GetPrices implements port.PriceCacheStore.
func (s *Store) GetPrices(ctx context.Context, priceFeedIDs []string) (map[string]entity.PriceCacheEntry, error) {
	out := make(map[string]entity.PriceCacheEntry, len(priceFeedIDs))
	if len(priceFeedIDs) == 0 {
		return out, nil
	}
	cur, err := s.prices.Find(ctx, bson.M{"token_id": bson.M{"$in": priceFeedIDs}})
	if err != nil {
		return nil, fmt.Errorf("find prices: %w", err)
	}
	var docs []priceDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode prices: %w", err)
	}
	for _, d := range docs {
		out[d.TokenID] = entity.PriceCacheEntry{PriceFeedID: d.TokenID, PriceUSD: d.PriceUSD, Timestamp: d.Timestamp}
	}
	return out, nil
}

// UpsertPrices implements port.PriceCacheStore.
func (s *Store) UpsertPrices(ctx context.Context, entries []entity.PriceCacheEntry) error {
	if len(entries) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(entries))
	for _, e := range entries {
		doc := priceDocument{TokenID: e.PriceFeedID, PriceUSD: e.PriceUSD, Timestamp: e.Timestamp.UTC()}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"token_id": e.PriceFeedID}).
			SetUpdate(bson.M{"$set": doc}).
			SetUpsert(true))
	}
	if _, err := s.prices.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("upsert prices: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

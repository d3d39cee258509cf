package mongostore

import (
	"time"

	"defi_copilot/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// Balances are stored as strings so no precision is lost.
type holdingDocument struct {
	Symbol          string  `bson:"symbol"`
	Name            string  `bson:"name"`
	ChainID         int64   `bson:"chain_id"`
	Balance         string  `bson:"balance"`
	PriceFeedID     string  `bson:"price_feed_id,omitempty"`
	PriceUSD        float64 `bson:"price_usd"`
	ValueUSD        float64 `bson:"value_usd"`
	Kind            string  `bson:"type"`
	Strategy        string  `bson:"strategy,omitempty"`
	Protocol        string  `bson:"protocol,omitempty"`
	StrategyType    string  `bson:"strategy_type,omitempty"`
	ReceiptToken    string  `bson:"atoken_address,omitempty"`
	UnderlyingToken string  `bson:"underlying_token,omitempty"`
}

type portfolioDocument struct {
	VaultAddress     string            `bson:"vault_address"`
	TotalValueUSD    float64           `bson:"total_value_usd"`
	Holdings         []holdingDocument `bson:"holdings"`
	ChainsCount      int               `bson:"chains_count"`
	TokensCount      int               `bson:"tokens_count"`
	StrategyCount    int               `bson:"strategy_count"`
	ActiveStrategies []string          `bson:"active_strategies"`
	Error            string            `bson:"error,omitempty"`
	Timestamp        time.Time         `bson:"timestamp"`
}

type priceDocument struct {
	TokenID   string    `bson:"token_id"`
	PriceUSD  float64   `bson:"price_usd"`
	Timestamp time.Time `bson:"timestamp"`
}

func toPortfolioDocument(entry entity.CachedPortfolio) portfolioDocument {
	s := entry.Summary
	holdings := make([]holdingDocument, 0, len(s.Holdings))
	for _, h := range s.Holdings {
		holdings = append(holdings, holdingDocument{
			Symbol:          h.Symbol,
			Name:            h.Name,
			ChainID:         h.ChainID,
			Balance:         h.Balance.String(),
			PriceFeedID:     h.PriceFeedID,
			PriceUSD:        h.PriceUSD,
			ValueUSD:        h.ValueUSD,
			Kind:            string(h.Kind),
			Strategy:        h.Strategy,
			Protocol:        h.Protocol,
			StrategyType:    string(h.StrategyType),
			ReceiptToken:    h.ReceiptToken,
			UnderlyingToken: h.UnderlyingToken,
		})
	}
	return portfolioDocument{
		VaultAddress:     s.VaultAddress,
		TotalValueUSD:    s.TotalValueUSD,
		Holdings:         holdings,
		ChainsCount:      s.ChainsCount,
		TokensCount:      s.TokensCount,
		StrategyCount:    s.StrategyCount,
		ActiveStrategies: s.ActiveStrategies,
		Error:            s.Error,
		Timestamp:        entry.Timestamp.UTC(),
	}
}

func fromPortfolioDocument(doc portfolioDocument) (entity.CachedPortfolio, error) {
	holdings := make([]entity.Holding, 0, len(doc.Holdings))
	for _, h := range doc.Holdings {
		bal, err := decimal.NewFromString(h.Balance)
		if err != nil {
			return entity.CachedPortfolio{}, err
		}
		holdings = append(holdings, entity.Holding{
			Symbol:          h.Symbol,
			Name:            h.Name,
			ChainID:         h.ChainID,
			Balance:         bal,
			PriceFeedID:     h.PriceFeedID,
			PriceUSD:        h.PriceUSD,
			ValueUSD:        h.ValueUSD,
			Kind:            entity.HoldingKind(h.Kind),
			Strategy:        h.Strategy,
			Protocol:        h.Protocol,
			StrategyType:    entity.StrategyType(h.StrategyType),
			ReceiptToken:    h.ReceiptToken,
			UnderlyingToken: h.UnderlyingToken,
		})
	}
	active := doc.ActiveStrategies
	if active == nil {
		active = []string{}
	}
	return entity.CachedPortfolio{
		Summary: entity.PortfolioSummary{
			VaultAddress:     doc.VaultAddress,
			TotalValueUSD:    doc.TotalValueUSD,
			Holdings:         holdings,
			ChainsCount:      doc.ChainsCount,
			TokensCount:      doc.TokensCount,
			StrategyCount:    doc.StrategyCount,
			ActiveStrategies: active,
			Error:            doc.Error,
		},
		Timestamp: doc.Timestamp,
	}, nil
}

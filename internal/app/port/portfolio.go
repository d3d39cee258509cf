package port

import (
	"context"

	"defi_copilot/internal/domain/entity"
)

// PortfolioService values vaults. It never returns an error: failures are
// reported through PortfolioSummary.Error.
type PortfolioService interface {
	GetPortfolioSummary(ctx context.Context, vaultAddress string) entity.PortfolioSummary
	GetPortfolioForLLM(ctx context.Context, vaultAddress string) entity.LLMPortfolio
}

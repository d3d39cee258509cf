package restapi

import (
	"net/http"

	"defi_copilot/internal/app/port"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PortfolioRequest is the body the frontend posts. Signature and AuthMessage are
// verified upstream and ignored here.
type PortfolioRequest struct {
	WalletAddress string `json:"wallet_address"`
	Signature     string `json:"signature"`
	AuthMessage   string `json:"auth_message"`
}

// PortfolioHandler serves portfolio summaries over HTTP.
type PortfolioHandler struct {
	portfolioService port.PortfolioService
	logger           *zap.Logger
}

// NewPortfolioHandler creates a new instance of PortfolioHandler.
func NewPortfolioHandler(ps port.PortfolioService, logger *zap.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: ps,
		logger:           logger.Named("PortfolioHandler"),
	}
}

// PostPortfolio handles POST /portfolio/.
// The summary is always returned with 200, even when it carries an error.
func (h *PortfolioHandler) PostPortfolio(c *gin.Context) {
	var req PortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	summary := h.portfolioService.GetPortfolioSummary(c.Request.Context(), req.WalletAddress)
	h.logResult(c, summary.VaultAddress, summary.Error)
	c.JSON(http.StatusOK, summary)
}

// GetPortfolio handles GET /api/v1/portfolio/:vaultAddress.
func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	summary := h.portfolioService.GetPortfolioSummary(c.Request.Context(), c.Param("vaultAddress"))
	h.logResult(c, summary.VaultAddress, summary.Error)
	c.JSON(http.StatusOK, summary)
}

// GetPortfolioForLLM handles GET /api/v1/portfolio/:vaultAddress/llm.
func (h *PortfolioHandler) GetPortfolioForLLM(c *gin.Context) {
	view := h.portfolioService.GetPortfolioForLLM(c.Request.Context(), c.Param("vaultAddress"))
	h.logResult(c, view.VaultAddress, view.Error)
	c.JSON(http.StatusOK, view)
}

// Health handles GET /health.
func (h *PortfolioHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *PortfolioHandler) logResult(c *gin.Context, vault, errMsg string) {
	if errMsg == "" {
		return
	}
	h.logger.Warn("Portfolio returned with error",
		zap.String("vault", vault),
		zap.String("requestId", c.GetString(requestIDKey)),
		zap.String("error", errMsg))
}

package restapi

import (
	"defi_copilot/internal/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SetupRouter wires the portfolio routes, middleware and /metrics.
func SetupRouter(portfolioHandler *PortfolioHandler, cfg config.ServerConfig, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader}

	router.Use(gin.Recovery(), cors.New(corsConfig), RequestID(), ZapLogger(logger))

	router.GET("/health", portfolioHandler.Health)
	router.POST("/portfolio/", portfolioHandler.PostPortfolio)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/portfolio/:vaultAddress", portfolioHandler.GetPortfolio)
		v1.GET("/portfolio/:vaultAddress/llm", portfolioHandler.GetPortfolioForLLM)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return router
}

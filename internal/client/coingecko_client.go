package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"defi_copilot/internal/entity"
	"defi_copilot/internal/infrastructure/httpclient"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// coinGeckoClientImpl is the fasthttp implementation of httpclient.CoinGeckoClient.
type coinGeckoClientImpl struct {
	client     *fasthttp.Client
	baseURL    string
	apiKey     string
	vsCurrency string
	timeout    time.Duration
	logger     *zap.Logger
}

// NewCoinGeckoClient creates a new CoinGecko client. timeout bounds requests whose
// context carries no deadline.
func NewCoinGeckoClient(baseURL, apiKey, vsCurrency string, timeout time.Duration, logger *zap.Logger) httpclient.CoinGeckoClient {
	if vsCurrency == "" {
		vsCurrency = "usd"
	}
	return &coinGeckoClientImpl{
		client:     &fasthttp.Client{Name: "defi-copilot"},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		vsCurrency: strings.ToLower(vsCurrency),
		timeout:    timeout,
		logger:     logger.Named("CoinGeckoClient"),
	}
}

// GetSimplePrices implements httpclient.CoinGeckoClient.
func (c *coinGeckoClientImpl) GetSimplePrices(ctx context.Context, priceFeedIDs []string) (map[string]float64, error) {
	if len(priceFeedIDs) == 0 {
		return map[string]float64{}, nil
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(c.baseURL + "/simple/price")
	args := req.URI().QueryArgs()
	args.Add("ids", strings.Join(priceFeedIDs, ","))
	args.Add("vs_currencies", c.vsCurrency)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}
	requestURL := req.URI().String()

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	c.logger.Debug("Requesting prices from CoinGecko", zap.Int("ids", len(priceFeedIDs)))

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			c.logger.Error("Failed to execute request to CoinGecko", zap.String("url", requestURL), zap.Error(err))
			return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			c.logger.Error("Failed to execute request to CoinGecko (with default timeout)", zap.String("url", requestURL), zap.Error(err))
			return nil, fmt.Errorf("failed to execute request to %s with default timeout: %w", requestURL, err)
		}
	}

	rawBody := resp.Body()
	if status := resp.StatusCode(); status != fasthttp.StatusOK {
		var apiErr entity.APIError
		msg := string(rawBody)
		if err := json.Unmarshal(rawBody, &apiErr); err == nil && apiErr.Message() != "" {
			msg = apiErr.Message()
		}
		c.logger.Error("CoinGecko returned non-OK status",
			zap.String("url", requestURL),
			zap.Int("statusCode", status),
			zap.ByteString("responseBody", rawBody))
		return nil, fmt.Errorf("coingecko status %d: %s", status, msg)
	}

	var parsed entity.SimplePriceResponse
	if err := json.Unmarshal(rawBody, &parsed); err != nil {
		c.logger.Error("Failed to unmarshal CoinGecko response",
			zap.String("url", requestURL),
			zap.ByteString("responseBody", rawBody),
			zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal CoinGecko response from %s: %w", requestURL, err)
	}
	if parsed == nil {
		return nil, errors.New("coingecko returned an empty body")
	}

	prices := make(map[string]float64, len(parsed))
	for id, quotes := range parsed {
		if price, ok := quotes[c.vsCurrency]; ok {
			prices[id] = price
		}
	}
	c.logger.Debug("Received prices from CoinGecko",
		zap.Int("requested", len(priceFeedIDs)),
		zap.Int("returned", len(prices)))
	return prices, nil
}

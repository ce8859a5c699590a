package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	defaultMarketLimit = 50
	defaultNewsLimit   = 20
)

// GetMarkets godoc
// @Summary      Aggregated market listings
// @Description  Returns the merged, deduplicated asset list from all active market providers, sorted by market cap
// @Tags         markets
// @Produce      json
// @Param        limit  query  int  false  "Result count (default 50)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/markets [get]
func (h *Handler) GetMarkets(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-markets")
	defer span.End()

	limit, ok := parseLimit(c, defaultMarketLimit)
	if !ok {
		return
	}

	assets := h.agg.MarketData(ctx, limit)
	c.JSON(http.StatusOK, gin.H{"count": len(assets), "assets": assets})
}

// GetNews godoc
// @Summary      Aggregated crypto news
// @Description  Returns the deduplicated news list from all active news sources, newest first
// @Tags         news
// @Produce      json
// @Param        limit  query  int  false  "Result count (default 20)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/news [get]
func (h *Handler) GetNews(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-news")
	defer span.End()

	limit, ok := parseLimit(c, defaultNewsLimit)
	if !ok {
		return
	}

	items := h.agg.News(ctx, limit)
	c.JSON(http.StatusOK, gin.H{"count": len(items), "news": items})
}

// GetSentiment godoc
// @Summary      Social sentiment per symbol
// @Description  Returns one sentiment sample per platform that answered, keyed by symbol
// @Tags         sentiment
// @Produce      json
// @Param        symbols  query  string  true  "Comma-separated symbols, e.g. BTC,ETH"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/sentiment [get]
func (h *Handler) GetSentiment(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-sentiment")
	defer span.End()

	raw := strings.TrimSpace(c.Query("symbols"))
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbols query parameter is required"})
		return
	}
	var symbols []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			symbols = append(symbols, s)
		}
	}
	if len(symbols) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no valid symbols supplied"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sentiment": h.agg.SocialSentiment(ctx, symbols)})
}

// GetFearGreed godoc
// @Summary      Fear & greed index
// @Description  Returns the latest fear & greed reading; neutral 50 when the provider is unreachable
// @Tags         sentiment
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/feargreed [get]
func (h *Handler) GetFearGreed(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-feargreed")
	defer span.End()

	c.JSON(http.StatusOK, h.agg.FearGreedIndex(ctx))
}

// GetOnChain godoc
// @Summary      On-chain metrics for a symbol
// @Description  Returns network metrics; synthetic placeholders unless a live reader is configured
// @Tags         onchain
// @Produce      json
// @Param        symbol  path  string  true  "Asset symbol"
// @Success      200  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]string
// @Router       /api/onchain/{symbol} [get]
func (h *Handler) GetOnChain(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-onchain")
	defer span.End()

	metrics := h.agg.OnChainMetrics(ctx, c.Param("symbol"))
	if metrics == nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "onchain data unavailable"})
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// ConvertCurrency godoc
// @Summary      Currency conversion
// @Description  Converts an amount between currencies using the in-memory exchange-rate table
// @Tags         rates
// @Produce      json
// @Param        amount  query  number  true   "Amount to convert"
// @Param        from    query  string  false  "Source currency code (default USD)"
// @Param        to      query  string  false  "Target currency code (default USD)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/convert [get]
func (h *Handler) ConvertCurrency(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.convert-currency")
	defer span.End()

	amount, err := strconv.ParseFloat(strings.TrimSpace(c.Query("amount")), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a number"})
		return
	}
	from := strings.ToUpper(strings.TrimSpace(c.DefaultQuery("from", "USD")))
	to := strings.ToUpper(strings.TrimSpace(c.DefaultQuery("to", "USD")))

	c.JSON(http.StatusOK, gin.H{
		"amount": amount,
		"from":   from,
		"to":     to,
		"result": h.agg.ConvertCurrency(amount, from, to),
	})
}

// GetProviders godoc
// @Summary      Provider availability
// @Description  Returns the active flag per registered provider
// @Tags         providers
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Router       /api/providers [get]
func (h *Handler) GetProviders(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-providers")
	defer span.End()

	c.JSON(http.StatusOK, h.agg.ProviderStatus())
}

func parseLimit(c *gin.Context, fallback int) (int, bool) {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return fallback, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return 0, false
	}
	return limit, true
}

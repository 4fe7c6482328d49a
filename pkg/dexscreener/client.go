// Package dexscreener is a minimal client for the DexScreener public API,
// covering the token boost listing and pair lookup endpoints.
package dexscreener

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/raykavin/boostwatch/pkg/core"
	"github.com/raykavin/boostwatch/pkg/logger"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"
)

const (
	defaultTimeout = 10 * time.Second
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

var errNoBoostList = errors.New("no boost list in payload")

// Client talks to the DexScreener HTTP API.
type Client struct {
	http      *http.Client
	boostURL  string
	searchURL string
	tokenURL  string
	chain     string
	log       logger.Logger
}

func NewClient(settings *core.Settings, log logger.Logger) *Client {
	return &Client{
		http:      &http.Client{Timeout: defaultTimeout},
		boostURL:  settings.BoostAPIURL,
		searchURL: settings.SearchAPIURL,
		tokenURL:  settings.TokenAPIURL,
		chain:     settings.TargetChain,
		log:       log,
	}
}

// LatestBoosts fetches the current boost listing snapshot. The endpoint
// has answered both with a bare array and with an object wrapping a
// "boosts" array; both shapes are accepted, anything else is a
// ParseError.
func (c *Client) LatestBoosts(ctx context.Context) ([]core.Boost, error) {
	body, err := c.get(ctx, c.boostURL)
	if err != nil {
		return nil, err
	}

	entries, err := boostList(body)
	if err != nil {
		return nil, &core.ParseError{URL: c.boostURL, Err: err}
	}

	now := time.Now()
	boosts := make([]core.Boost, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsObject() || !entry.Get("tokenAddress").Exists() {
			return nil, &core.ParseError{URL: c.boostURL, Err: fmt.Errorf("boost entry is not an object: %s", entry.Raw)}
		}

		url := entry.Get("url").String()
		boosts = append(boosts, core.Boost{
			TokenAddress: entry.Get("tokenAddress").String(),
			PairAddress:  pairAddressFromURL(url),
			ChainID:      strings.ToLower(entry.Get("chainId").String()),
			Amount:       int(entry.Get("amount").Int()),
			TotalAmount:  int(entry.Get("totalAmount").Int()),
			URL:          url,
			Description:  entry.Get("description").String(),
			ObservedAt:   now,
		})
	}

	return boosts, nil
}

// boostList normalizes the response envelope to a list of raw entries.
func boostList(body []byte) ([]gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("body is not valid JSON")
	}

	root := gjson.ParseBytes(body)
	if root.IsArray() {
		return root.Array(), nil
	}

	if boosts := root.Get("boosts"); boosts.IsArray() {
		return boosts.Array(), nil
	}

	return nil, errNoBoostList
}

// pairAddressFromURL extracts the pair address from a DexScreener pair
// URL, e.g. https://dexscreener.com/solana/<pair>.
func pairAddressFromURL(url string) string {
	url = strings.TrimSuffix(url, "/")
	idx := strings.LastIndex(url, "/")
	if idx < 0 || idx == len(url)-1 {
		return ""
	}

	tail := url[idx+1:]
	if strings.Contains(tail, ".") {
		// Bare host, no path
		return ""
	}
	return tail
}

// MostLiquidPair resolves market data for a token, preferring the pair
// with the highest USD liquidity on the target chain. The search
// endpoint is tried first, then the token endpoint. A token with no
// matching pair yields (nil, nil).
func (c *Client) MostLiquidPair(ctx context.Context, tokenAddress string) (*core.PairInfo, error) {
	urls := []string{
		fmt.Sprintf("%s?q=%s", c.searchURL, tokenAddress),
		fmt.Sprintf("%s/%s", strings.TrimSuffix(c.tokenURL, "/"), tokenAddress),
	}

	for _, url := range urls {
		pair, err := c.bestPair(ctx, url)
		if err != nil {
			c.log.WithError(err).Warnf("pair lookup failed for %s", tokenAddress)
			continue
		}

		if pair != nil {
			return pair, nil
		}
	}

	return nil, nil
}

func (c *Client) bestPair(ctx context.Context, url string) (*core.PairInfo, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var response pairsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, &core.ParseError{URL: url, Err: err}
	}

	candidates := lo.Filter(response.Pairs, func(p pairEntry, _ int) bool {
		return strings.EqualFold(p.ChainID, c.chain)
	})
	if len(candidates) == 0 {
		return nil, nil
	}

	best := lo.MaxBy(candidates, func(a, b pairEntry) bool {
		return a.Liquidity.Usd > b.Liquidity.Usd
	})

	return best.toPairInfo(), nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &core.NetworkError{URL: url, Err: err}
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &core.NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &core.NetworkError{URL: url, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &core.NetworkError{URL: url, Err: err}
	}

	return body, nil
}

// Wire representation of the pair lookup endpoints.
type pairsResponse struct {
	Pairs []pairEntry `json:"pairs"`
}

type pairEntry struct {
	ChainID     string `json:"chainId"`
	DexID       string `json:"dexId"`
	PairAddress string `json:"pairAddress"`
	BaseToken   struct {
		Address string `json:"address"`
		Name    string `json:"name"`
		Symbol  string `json:"symbol"`
	} `json:"baseToken"`
	PriceUsd  string  `json:"priceUsd"`
	MarketCap float64 `json:"marketCap"`
	Fdv       float64 `json:"fdv"`
	Liquidity struct {
		Usd float64 `json:"usd"`
	} `json:"liquidity"`
	Volume struct {
		H24 float64 `json:"h24"`
	} `json:"volume"`
	Txns struct {
		M5  txnWindow `json:"m5"`
		H24 txnWindow `json:"h24"`
	} `json:"txns"`
	PairCreatedAt int64 `json:"pairCreatedAt"`
}

type txnWindow struct {
	Buys  int `json:"buys"`
	Sells int `json:"sells"`
}

func (p pairEntry) toPairInfo() *core.PairInfo {
	price, _ := strconv.ParseFloat(p.PriceUsd, 64)

	marketCap := p.MarketCap
	if marketCap == 0 {
		marketCap = p.Fdv
	}

	return &core.PairInfo{
		PairAddress:   p.PairAddress,
		DexID:         p.DexID,
		BaseName:      p.BaseToken.Name,
		BaseSymbol:    p.BaseToken.Symbol,
		PriceUsd:      price,
		MarketCap:     marketCap,
		LiquidityUsd:  p.Liquidity.Usd,
		VolumeH24:     p.Volume.H24,
		TxnsM5:        core.TxnCount{Buys: p.Txns.M5.Buys, Sells: p.Txns.M5.Sells},
		TxnsH24:       core.TxnCount{Buys: p.Txns.H24.Buys, Sells: p.Txns.H24.Sells},
		PairCreatedAt: p.PairCreatedAt,
	}
}

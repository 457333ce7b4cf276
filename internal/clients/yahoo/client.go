// Package yahoo is a Yahoo Finance API client used as the market data gateway.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/marketdesk/marketdesk/internal/domain"
)

// ErrUpstream indicates the upstream quote service failed as a unit
// (network error or non-2xx status). Callers must treat the whole
// request as failed rather than degrade per symbol.
var ErrUpstream = errors.New("upstream market data service unavailable")

const (
	defaultQuoteHost  = "https://query1.finance.yahoo.com"
	defaultSearchHost = "https://query2.finance.yahoo.com"
)

// Client is a Yahoo Finance API client
type Client struct {
	client     *http.Client
	quoteHost  string
	searchHost string
	log        zerolog.Logger
}

// NewClient creates a new Yahoo Finance client. baseURL overrides both
// API hosts when non-empty (used by tests and proxies).
func NewClient(baseURL string, log zerolog.Logger) *Client {
	quoteHost := defaultQuoteHost
	searchHost := defaultSearchHost
	if baseURL != "" {
		quoteHost = strings.TrimRight(baseURL, "/")
		searchHost = quoteHost
	}

	return &Client{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		quoteHost:  quoteHost,
		searchHost: searchHost,
		log:        log.With().Str("client", "yahoo").Logger(),
	}
}

// yahooQuoteResponse represents the response from the Yahoo Finance quote API
type yahooQuoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol                     string   `json:"symbol"`
			RegularMarketPrice         *float64 `json:"regularMarketPrice"`
			RegularMarketChange        *float64 `json:"regularMarketChange"`
			RegularMarketChangePercent *float64 `json:"regularMarketChangePercent"`
			ShortName                  string   `json:"shortName"`
			LongName                   string   `json:"longName"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"quoteResponse"`
}

// GetQuotes fetches the latest quotes for all symbols in a single batched
// call. Symbols absent from the upstream response are absent from the
// returned map; a failed call returns ErrUpstream for the whole batch.
func (c *Client) GetQuotes(ctx context.Context, symbols []string) (map[string]Quote, error) {
	if len(symbols) == 0 {
		return map[string]Quote{}, nil
	}

	normalized := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if sym := domain.NormalizeSymbol(s); sym != "" {
			normalized = append(normalized, sym)
		}
	}

	params := url.Values{}
	params.Add("symbols", strings.Join(normalized, ","))

	reqURL := c.quoteHost + "/v7/finance/quote?" + params.Encode()

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var result yahooQuoteResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: failed to parse quote response: %v", ErrUpstream, err)
	}

	if result.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("%w: quote API error: %v", ErrUpstream, result.QuoteResponse.Error)
	}

	quotes := make(map[string]Quote, len(result.QuoteResponse.Result))
	for _, item := range result.QuoteResponse.Result {
		if item.Symbol == "" {
			continue
		}

		price := 0.0
		if item.RegularMarketPrice != nil {
			price = *item.RegularMarketPrice
		}

		name := item.ShortName
		if name == "" {
			name = item.LongName
		}

		symbol := domain.NormalizeSymbol(item.Symbol)
		quotes[symbol] = Quote{
			Symbol:        symbol,
			Price:         price,
			Change:        item.RegularMarketChange,
			PercentChange: item.RegularMarketChangePercent,
			Name:          name,
		}
	}

	c.log.Debug().
		Int("requested", len(normalized)).
		Int("returned", len(quotes)).
		Msg("Fetched quotes")

	return quotes, nil
}

// Search looks up symbols matching a free-text query
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	params := url.Values{}
	params.Add("q", query)
	params.Add("quotesCount", "6")
	params.Add("newsCount", "0")

	reqURL := c.searchHost + "/v1/finance/search?" + params.Encode()

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var result struct {
		Quotes []struct {
			Symbol    string `json:"symbol"`
			ShortName string `json:"shortname"`
			LongName  string `json:"longname"`
			ExchDisp  string `json:"exchDisp"`
		} `json:"quotes"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: failed to parse search response: %v", ErrUpstream, err)
	}

	results := make([]SearchResult, 0, len(result.Quotes))
	for _, q := range result.Quotes {
		if q.Symbol == "" {
			continue
		}

		name := q.ShortName
		if name == "" {
			name = q.LongName
		}
		if name == "" {
			name = q.Symbol
		}

		results = append(results, SearchResult{
			Symbol:   q.Symbol,
			Name:     name,
			Exchange: q.ExchDisp,
		})
	}

	return results, nil
}

// GetSeries fetches an ordered OHLC time series for one symbol.
// interval and rng use Yahoo chart API values (e.g. "1d", "1mo").
func (c *Client) GetSeries(ctx context.Context, symbol, interval, rng string) ([]Candle, error) {
	params := url.Values{}
	params.Add("interval", interval)
	params.Add("range", rng)

	reqURL := c.quoteHost + "/v8/finance/chart/" + url.PathEscape(domain.NormalizeSymbol(symbol)) + "?" + params.Encode()

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var result struct {
		Chart struct {
			Result []struct {
				Timestamp  []int64 `json:"timestamp"`
				Indicators struct {
					Quote []struct {
						Open   []float64 `json:"open"`
						High   []float64 `json:"high"`
						Low    []float64 `json:"low"`
						Close  []float64 `json:"close"`
						Volume []int64   `json:"volume"`
					} `json:"quote"`
				} `json:"indicators"`
			} `json:"result"`
			Error interface{} `json:"error"`
		} `json:"chart"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: failed to parse chart response: %v", ErrUpstream, err)
	}

	if result.Chart.Error != nil {
		return nil, fmt.Errorf("%w: chart API error: %v", ErrUpstream, result.Chart.Error)
	}

	if len(result.Chart.Result) == 0 {
		c.log.Warn().Str("symbol", symbol).Msg("No chart data returned")
		return []Candle{}, nil
	}

	chartData := result.Chart.Result[0]
	timestamps := chartData.Timestamp
	if len(chartData.Indicators.Quote) == 0 {
		c.log.Warn().Str("symbol", symbol).Msg("No quote data in chart response")
		return []Candle{}, nil
	}

	quote := chartData.Indicators.Quote[0]

	var candles []Candle
	for i := range timestamps {
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) || i >= len(quote.Close) {
			continue
		}

		// Yahoo sometimes returns null rows
		if quote.Open[i] == 0 && quote.High[i] == 0 && quote.Low[i] == 0 && quote.Close[i] == 0 {
			continue
		}

		volume := int64(0)
		if i < len(quote.Volume) {
			volume = quote.Volume[i]
		}

		candles = append(candles, Candle{
			Timestamp: time.Unix(timestamps[i], 0).UTC(),
			Open:      quote.Open[i],
			High:      quote.High[i],
			Low:       quote.Low[i],
			Close:     quote.Close[i],
			Volume:    volume,
		})
	}

	c.log.Debug().
		Str("symbol", symbol).
		Str("range", rng).
		Int("count", len(candles)).
		Msg("Fetched chart series")

	return candles, nil
}

// get performs one HTTP GET and returns the body. Single attempt, no
// retries; every failure maps to ErrUpstream.
func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Yahoo rejects requests without a browser-like User-Agent
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrUpstream, err)
	}

	return body, nil
}

// Package charts serves OHLC series and derived per-range statistics.
package charts

import (
	"context"
	"fmt"
	"math"

	"github.com/markcheno/go-talib"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/marketdesk/marketdesk/internal/clients/yahoo"
	"github.com/marketdesk/marketdesk/internal/domain"
)

// smaPeriod is the moving-average window for the chart overlay
const smaPeriod = 20

// SeriesProvider provides OHLC history for one symbol
type SeriesProvider interface {
	GetSeries(ctx context.Context, symbol, interval, rng string) ([]yahoo.Candle, error)
}

// Series is the chart payload for one symbol and range
type Series struct {
	Symbol   string         `json:"symbol"`
	Interval string         `json:"interval"`
	Range    string         `json:"range"`
	Candles  []yahoo.Candle `json:"candles"`
	SMA      []*float64     `json:"sma,omitempty"` // 20-bar SMA, nil until the window fills
}

// Stats summarizes the closes over one range
type Stats struct {
	Symbol     string  `json:"symbol"`
	Range      string  `json:"range"`
	Bars       int     `json:"bars"`
	High       float64 `json:"high"`
	Low        float64 `json:"low"`
	MeanReturn float64 `json:"mean_return"` // Mean of per-bar log returns
	Volatility float64 `json:"volatility"`  // Stddev of per-bar log returns
}

// Service computes chart payloads from the market data gateway
type Service struct {
	provider SeriesProvider
	log      zerolog.Logger
}

// NewService creates a new charts service
func NewService(provider SeriesProvider, log zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		log:      log.With().Str("service", "charts").Logger(),
	}
}

// GetSeries returns the OHLC series for a symbol with an SMA overlay
func (s *Service) GetSeries(ctx context.Context, symbol, interval, rng string) (*Series, error) {
	symbol = domain.NormalizeSymbol(symbol)

	candles, err := s.provider.GetSeries(ctx, symbol, interval, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch series: %w", err)
	}

	series := &Series{
		Symbol:   symbol,
		Interval: interval,
		Range:    rng,
		Candles:  candles,
	}

	if len(candles) >= smaPeriod {
		closes := make([]float64, len(candles))
		for i, c := range candles {
			closes[i] = c.Close
		}

		sma := talib.Sma(closes, smaPeriod)
		series.SMA = make([]*float64, len(sma))
		for i := range sma {
			// talib zero-fills the warm-up window; report those as absent
			if i >= smaPeriod-1 {
				v := sma[i]
				series.SMA[i] = &v
			}
		}
	}

	return series, nil
}

// GetStats returns range statistics over a symbol's closes
func (s *Service) GetStats(ctx context.Context, symbol, interval, rng string) (*Stats, error) {
	symbol = domain.NormalizeSymbol(symbol)

	candles, err := s.provider.GetSeries(ctx, symbol, interval, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch series: %w", err)
	}

	stats := &Stats{
		Symbol: symbol,
		Range:  rng,
		Bars:   len(candles),
	}

	if len(candles) == 0 {
		return stats, nil
	}

	stats.High = candles[0].High
	stats.Low = candles[0].Low

	var returns []float64
	for i, c := range candles {
		if c.High > stats.High {
			stats.High = c.High
		}
		if c.Low < stats.Low {
			stats.Low = c.Low
		}
		if i > 0 && candles[i-1].Close > 0 && c.Close > 0 {
			returns = append(returns, math.Log(c.Close/candles[i-1].Close))
		}
	}

	if len(returns) > 0 {
		stats.MeanReturn = stat.Mean(returns, nil)
	}
	if len(returns) > 1 {
		stats.Volatility = stat.StdDev(returns, nil)
	}

	return stats, nil
}

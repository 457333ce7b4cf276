package yahoo

import "time"

// Quote is the latest market quote for one symbol
type Quote struct {
	Symbol        string   `json:"symbol"`
	Price         float64  `json:"price"`
	Change        *float64 `json:"change,omitempty"`
	PercentChange *float64 `json:"percent_change,omitempty"`
	Name          string   `json:"name,omitempty"`
}

// SearchResult is one symbol match from the search endpoint
type SearchResult struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exch,omitempty"`
}

// Candle is one OHLC bar from the chart endpoint
type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

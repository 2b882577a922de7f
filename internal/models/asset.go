package models

import "time"

// Currency is a display currency accepted by the asset endpoints.
type Currency string

// Metal is a tradable metal.
type Metal string

// Range is a historical chart window.
type Range string

const (
	USD Currency = "USD"
	INR Currency = "INR"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	AED Currency = "AED"
)

const (
	Gold   Metal = "gold"
	Silver Metal = "silver"
)

const (
	Range1D  Range = "1D"
	Range1W  Range = "1W"
	Range1M  Range = "1M"
	Range5M  Range = "5M"
	Range1Y  Range = "1Y"
	Range5Y  Range = "5Y"
	Range10Y Range = "10Y"
)

// Currencies lists every supported currency in display order.
var Currencies = []Currency{INR, USD, EUR, GBP, AED}

// Ranges lists every supported chart window in display order.
var Ranges = []Range{Range1D, Range1W, Range1M, Range5M, Range1Y, Range5Y, Range10Y}

// Quote is a spot price per troy ounce.
type Quote struct {
	Metal         Metal     `json:"metal"`
	Price         float64   `json:"price"`
	Currency      Currency  `json:"currency"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	Timestamp     time.Time `json:"timestamp"`
	Source        string    `json:"source"`
}

// Overview carries the gold and silver spot quotes.
type Overview struct {
	Currency  Currency  `json:"currency"`
	UpdatedAt time.Time `json:"updatedAt"`
	Source    string    `json:"source"`
	Assets    struct {
		Gold   Quote `json:"gold"`
		Silver Quote `json:"silver"`
	} `json:"assets"`
}

// PricePoint is one sample of a historical series.
type PricePoint struct {
	Time  string  `json:"time"`
	Price float64 `json:"price"`
}

// Historical is a price series for one metal.
type Historical struct {
	Metal    Metal        `json:"metal"`
	Currency Currency     `json:"currency"`
	Range    Range        `json:"range"`
	Source   string       `json:"source"`
	Data     []PricePoint `json:"data"`
}

// RateRow is one purity row of a rate table.
type RateRow struct {
	Label     string  `json:"label"`
	Grams1    float64 `json:"grams1"`
	Grams10   float64 `json:"grams10"`
	Grams100  float64 `json:"grams100"`
	Kilogram1 float64 `json:"kilogram1"`
	Ounce1    float64 `json:"ounce1"`
}

// RateTable lists rates by purity.
type RateTable struct {
	Currency  Currency  `json:"currency"`
	UpdatedAt time.Time `json:"updatedAt"`
	Source    string    `json:"source"`
	Rows      []RateRow `json:"rows"`
}

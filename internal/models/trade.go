package models

import "encoding/json"

// TradePrice is the live buy/sell price.
type TradePrice struct {
	PricePerGramPaise int64   `json:"pricePerGramPaise"`
	GSTPercent        float64 `json:"gstPercent"`
}

// TradeResult is the backend's answer to a buy or sell. The transaction body is passed
// through untouched.
type TradeResult struct {
	Transaction json.RawMessage `json:"transaction,omitempty"`
	BonusMg     *int64          `json:"bonusMg,omitempty"`
	NewBalance  *int64          `json:"newBalance,omitempty"`
}

// TradeQuote combines the live price with the caller's wallet for the trade forms.
type TradeQuote struct {
	TradePrice
	BalanceMg        int64 `json:"balanceMg"`
	TotalPurchasedMg int64 `json:"totalPurchasedMg"`
	TotalBonusMg     int64 `json:"totalBonusMg"`
	BonusThresholdMg int64 `json:"bonusThresholdMg"`
	BonusMaxMg       int64 `json:"bonusMaxMg"`
	BonusPercent     int64 `json:"bonusPercent"`
}

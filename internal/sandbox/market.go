package sandbox

import (
	"math"
	"time"

	"github.com/hongminglow/sg-web/internal/models"
)

const (
	gramsPerOunce = 31.1035
	priceSource   = "sandbox"
)

// Spot prices per troy ounce in USD, with the day's move.
var spotUSD = map[models.Metal]struct{ price, change float64 }{
	models.Gold:   {price: 2400, change: 12.4},
	models.Silver: {price: 30, change: -0.15},
}

// usdRates converts USD to each supported currency.
var usdRates = map[models.Currency]float64{
	models.USD: 1,
	models.INR: 83.5,
	models.EUR: 0.92,
	models.GBP: 0.79,
	models.AED: 3.6725,
}

var purities = map[models.Metal][]struct {
	label  string
	factor float64
}{
	models.Gold:   {{"24K", 1}, {"22K", 0.916}, {"18K", 0.75}},
	models.Silver: {{"999 Fine", 0.999}, {"925 Sterling", 0.925}},
}

// Market produces deterministic price fixtures.
type Market struct {
	now func() time.Time
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (m Market) quote(metal models.Metal, currency models.Currency) models.Quote {
	spot := spotUSD[metal]
	rate := usdRates[currency]
	price := spot.price * rate
	return models.Quote{
		Metal:         metal,
		Price:         round2(price),
		Currency:      currency,
		Change:        round2(spot.change * rate),
		ChangePercent: round2(spot.change / (spot.price - spot.change) * 100),
		Timestamp:     m.now().UTC(),
		Source:        priceSource,
	}
}

// Overview returns both spot quotes in currency.
func (m Market) Overview(currency models.Currency) models.Overview {
	out := models.Overview{Currency: currency, UpdatedAt: m.now().UTC(), Source: priceSource}
	out.Assets.Gold = m.quote(models.Gold, currency)
	out.Assets.Silver = m.quote(models.Silver, currency)
	return out
}

var rangeSteps = map[models.Range]struct {
	points int
	step   time.Duration
	layout string
}{
	models.Range1D:  {24, time.Hour, "15:04"},
	models.Range1W:  {28, 6 * time.Hour, "Jan 2 15:04"},
	models.Range1M:  {30, 24 * time.Hour, "Jan 2"},
	models.Range5M:  {30, 5 * 24 * time.Hour, "Jan 2"},
	models.Range1Y:  {52, 7 * 24 * time.Hour, "Jan 2 2006"},
	models.Range5Y:  {60, 30 * 24 * time.Hour, "Jan 2006"},
	models.Range10Y: {40, 91 * 24 * time.Hour, "Jan 2006"},
}

// Historical returns a per-ounce series ending now.
func (m Market) Historical(metal models.Metal, currency models.Currency, rng models.Range) models.Historical {
	cfg := rangeSteps[rng]
	base := spotUSD[metal].price * usdRates[currency]
	end := m.now().UTC()

	out := models.Historical{Metal: metal, Currency: currency, Range: rng, Source: priceSource}
	for i := 0; i < cfg.points; i++ {
		back := cfg.points - 1 - i
		drift := 0.02 * math.Sin(float64(i)/3) * float64(back) / float64(cfg.points)
		out.Data = append(out.Data, models.PricePoint{
			Time:  end.Add(-time.Duration(back) * cfg.step).Format(cfg.layout),
			Price: round2(base * (1 + drift)),
		})
	}
	return out
}

// Rates returns the purity table for metal in currency.
func (m Market) Rates(metal models.Metal, currency models.Currency) models.RateTable {
	ounce := spotUSD[metal].price * usdRates[currency]
	gram := ounce / gramsPerOunce
	out := models.RateTable{Currency: currency, UpdatedAt: m.now().UTC(), Source: priceSource}
	for _, p := range purities[metal] {
		out.Rows = append(out.Rows, models.RateRow{
			Label:     p.label,
			Grams1:    round2(gram * p.factor),
			Grams10:   round2(gram * 10 * p.factor),
			Grams100:  round2(gram * 100 * p.factor),
			Kilogram1: round2(gram * 1000 * p.factor),
			Ounce1:    round2(ounce * p.factor),
		})
	}
	return out
}

// TradePrice is the INR price of one gram of 24K gold in paise.
func (m Market) TradePrice() models.TradePrice {
	perGram := spotUSD[models.Gold].price * usdRates[models.INR] / gramsPerOunce
	return models.TradePrice{PricePerGramPaise: int64(math.Round(perGram * 100)), GSTPercent: GSTPercent}
}

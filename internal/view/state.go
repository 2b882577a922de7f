package view

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/hongminglow/sg-web/internal/models"
)

// Selection is the market view state carried in the query string.
type Selection struct {
	Metal    models.Metal
	Currency models.Currency
	Range    models.Range
}

// SelectionFromQuery reads metal, currency and range, falling back to gold, INR and
// defRange.
func SelectionFromQuery(q url.Values, defRange models.Range) Selection {
	return Selection{
		Metal:    ParseMetal(q.Get("metal")),
		Currency: ParseCurrency(q.Get("currency"), models.INR),
		Range:    ParseRange(q.Get("range"), defRange),
	}
}

// With returns a relative link to s with one key replaced.
func (s Selection) With(key, value string) string {
	q := url.Values{
		"metal":    {string(s.Metal)},
		"currency": {string(s.Currency)},
		"range":    {string(s.Range)},
	}
	q.Set(key, value)
	return "?" + q.Encode()
}

// ParseMetal accepts "silver"; anything else is gold.
func ParseMetal(s string) models.Metal {
	if strings.EqualFold(strings.TrimSpace(s), string(models.Silver)) {
		return models.Silver
	}
	return models.Gold
}

// ParseCurrency returns the matching currency or def.
func ParseCurrency(s string, def models.Currency) models.Currency {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, c := range models.Currencies {
		if string(c) == s {
			return c
		}
	}
	return def
}

// ParseRange returns the matching range or def.
func ParseRange(s string, def models.Range) models.Range {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, r := range models.Ranges {
		if string(r) == s {
			return r
		}
	}
	return def
}

// Preset is a quick-pick trade amount.
type Preset struct {
	Label string
	Mg    int64
}

// TradePresets are the amounts offered on the buy and sell forms.
var TradePresets = []Preset{
	{Label: "100mg", Mg: 100},
	{Label: "500mg", Mg: 500},
	{Label: "1g", Mg: 1000},
	{Label: "5g", Mg: 5000},
	{Label: "10g", Mg: 10000},
	{Label: "50g", Mg: 50000},
	{Label: "100g", Mg: 100000},
}

// DefaultTradeMg is the preselected trade amount.
const DefaultTradeMg = 100

// Slab is a savings-scheme tier as advertised. The backend prices enrollments.
type Slab struct {
	MonthlyPaise int64
	BonusPaise   int64
}

// Slabs lists the advertised scheme tiers.
var Slabs = []Slab{
	{MonthlyPaise: 500000, BonusPaise: 1000000},
	{MonthlyPaise: 1000000, BonusPaise: 2000000},
	{MonthlyPaise: 2000000, BonusPaise: 4000000},
	{MonthlyPaise: 4000000, BonusPaise: 8000000},
	{MonthlyPaise: 6000000, BonusPaise: 12000000},
	{MonthlyPaise: 8000000, BonusPaise: 16000000},
	{MonthlyPaise: 10000000, BonusPaise: 24000000},
}

// Product weights offered for delivery.
var (
	CoinWeightsMg = []int64{1000, 2000, 5000, 8000, 10000, 20000, 50000, 100000}
	BarWeightsMg  = []int64{10000, 20000, 50000, 100000, 500000, 1000000}
)

// WeightsFor returns the offered weights for a product type.
func WeightsFor(productType string) []int64 {
	if productType == models.ProductBar {
		return BarWeightsMg
	}
	return CoinWeightsMg
}

// Pagination describes the controls implied by a page of results.
type Pagination struct {
	Page     int
	Limit    int
	Total    int
	Pages    int
	HasPrev  bool
	HasNext  bool
	PrevPage int
	NextPage int
}

// Paginate derives controls from page, limit and total.
func Paginate(page, limit, total int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	pages := (total + limit - 1) / limit
	p := Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
	p.HasPrev = page > 1
	p.HasNext = page*limit < total
	if p.HasPrev {
		p.PrevPage = page - 1
	}
	if p.HasNext {
		p.NextPage = page + 1
	}
	return p
}

// PageParam reads a positive page number, defaulting to 1.
func PageParam(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

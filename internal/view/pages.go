package view

import "github.com/hongminglow/sg-web/internal/models"

// ChartPoint is a historical sample converted to the display unit.
type ChartPoint struct {
	Time  string
	Price float64
}

// ConvertHistory converts per-ounce samples to the metal's display unit.
func ConvertHistory(metal models.Metal, points []models.PricePoint) []ChartPoint {
	out := make([]ChartPoint, 0, len(points))
	for _, p := range points {
		out = append(out, ChartPoint{Time: p.Time, Price: DisplayPrice(metal, p.Price)})
	}
	return out
}

// MarketData backs the rate panels on the public page and the dashboard.
type MarketData struct {
	Selection   Selection
	Currencies  []models.Currency
	Ranges      []models.Range
	Overview    models.Overview
	Active      models.Quote
	History     []ChartPoint
	GoldRates   models.RateTable
	SilverRates models.RateTable
}

// NewMarketData fills the derived fields from an overview and a series.
func NewMarketData(sel Selection, overview models.Overview, history models.Historical) MarketData {
	active := overview.Assets.Gold
	if sel.Metal == models.Silver {
		active = overview.Assets.Silver
	}
	return MarketData{
		Selection:  sel,
		Currencies: models.Currencies,
		Ranges:     models.Ranges,
		Overview:   overview,
		Active:     active,
		History:    ConvertHistory(sel.Metal, history.Data),
	}
}

// DashboardData backs the dashboard. Wallet is nil when it could not be loaded.
type DashboardData struct {
	Market             MarketData
	Wallet             *models.Wallet
	GoldPerGram        float64
	BalanceValue       float64
	BonusProfitPercent float64
}

// TradeData backs the buy and sell forms and their estimate.
type TradeData struct {
	Side     string
	Presets  []Preset
	AmountMg int64
	Quote    models.TradeQuote
	Subtotal int64
	GST      int64
	Total    int64
	BonusMg  int64
}

// WalletData backs the wallet page with one page of transactions.
type WalletData struct {
	Wallet           models.Wallet
	Transactions     []models.Transaction
	Pagination       Pagination
	GoldPerGram      float64
	BalanceValue     float64
	PurchaseProgress int64
	BonusProgress    int64
	StorageBenefit   *models.StorageBenefitStatus
}

// SchemeListData lists the visitor's schemes.
type SchemeListData struct {
	Schemes []models.Scheme
}

// SchemeEnrollData backs the enrollment form and any code verification result.
type SchemeEnrollData struct {
	Slabs        []Slab
	Selected     int64
	SGXCode      string
	Verification *models.SGXVerification
}

// SchemeDetailData shows one scheme with its installments.
type SchemeDetailData struct {
	Scheme         models.Scheme
	PaidCount      int
	TotalPaidPaise int64
	CanRedeem      bool
	Redemption     *models.Redemption
}

// DeliveryData backs the delivery form and the list of past requests.
type DeliveryData struct {
	Stores      []models.Store
	Deliveries  []models.Delivery
	ProductType string
	WeightMg    int64
	Weights     []int64
	StoreID     string
}

// AuthFormData echoes login and register fields back after a failed submission.
type AuthFormData struct {
	Phone string
	Name  string
	Email string
}

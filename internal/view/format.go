package view

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/hongminglow/sg-web/internal/models"
)

// GramsPerTroyOunce converts backend spot prices (per troy ounce) to per-gram prices.
const GramsPerTroyOunce = 31.1035

var currencySymbols = map[models.Currency]string{
	models.INR: "₹",
	models.USD: "$",
	models.EUR: "€",
	models.GBP: "£",
	models.AED: "AED ",
}

// PerGram converts a per-ounce price to a per-gram price.
func PerGram(pricePerOunce float64) float64 {
	return pricePerOunce / GramsPerTroyOunce
}

// DisplayPrice converts a per-ounce price into the unit the dashboard shows for metal:
// 10 grams of gold or 1 kilogram of silver.
func DisplayPrice(metal models.Metal, pricePerOunce float64) float64 {
	if metal == models.Silver {
		return PerGram(pricePerOunce) * 1000
	}
	return PerGram(pricePerOunce) * 10
}

// DisplayUnit labels DisplayPrice.
func DisplayUnit(metal models.Metal) string {
	if metal == models.Silver {
		return "Per 1 kg"
	}
	return "Per 10 gm"
}

// Grams formats milligrams as grams with three decimals.
func Grams(mg int64) string {
	return fmt.Sprintf("%.3f", float64(mg)/1000)
}

// Weight formats a product weight, dropping decimals from whole-gram weights.
func Weight(mg int64) string {
	if mg >= 1000 {
		return fmt.Sprintf("%.0fg", float64(mg)/1000)
	}
	return fmt.Sprintf("%.3fg", float64(mg)/1000)
}

// ChangePercent formats a market move with two decimals; zero counts as up.
func ChangePercent(v float64) string {
	sign := ""
	if v >= 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, v)
}

// GSTPreview estimates tax on amountPaise for display. The backend computes the charged
// amount.
func GSTPreview(amountPaise int64, gstPercent float64) int64 {
	return int64(math.Round(float64(amountPaise) * gstPercent / 100))
}

// TradeEstimate is the preview total for buying amountMg at pricePerGramPaise.
func TradeEstimate(amountMg, pricePerGramPaise int64, gstPercent float64) (subtotal, gst, total int64) {
	subtotal = int64(math.Round(float64(amountMg) * float64(pricePerGramPaise) / 1000))
	gst = GSTPreview(subtotal, gstPercent)
	return subtotal, gst, subtotal + gst
}

// BonusPreview estimates the first-gram bonus a purchase of amountMg would earn under q.
func BonusPreview(q models.TradeQuote, amountMg int64) int64 {
	eligible := Capped(amountMg, q.BonusThresholdMg-q.TotalPurchasedMg)
	room := q.BonusMaxMg - q.TotalBonusMg
	if eligible <= 0 || room <= 0 {
		return 0
	}
	return Capped(eligible*q.BonusPercent/100, room)
}

// Capped returns value limited to max.
func Capped(value, max int64) int64 {
	if value > max {
		return max
	}
	return value
}

// ProgressPercent is value/max as a percentage capped at 100.
func ProgressPercent(value, max int64) float64 {
	if max <= 0 {
		return 0
	}
	return math.Min(float64(value)/float64(max)*100, 100)
}

// BonusProfitPercent is the bonus metal as a share of purchased metal.
func BonusProfitPercent(w models.Wallet) float64 {
	if w.TotalPurchasedMg <= 0 {
		return 0
	}
	return float64(w.TotalBonusMg) / float64(w.TotalPurchasedMg) * 100
}

// Formatter renders money amounts for one locale.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter returns a formatter for tag. The product default is en-IN.
func NewFormatter(tag language.Tag) *Formatter {
	return &Formatter{printer: message.NewPrinter(tag)}
}

// Money formats value in currency with two decimals.
func (f *Formatter) Money(value float64, currency models.Currency) string {
	return f.money(value, currency, 2)
}

// Paise formats an INR amount given in paise.
func (f *Formatter) Paise(paise int64) string {
	return f.money(float64(paise)/100, models.INR, 2)
}

// PaiseWhole formats an INR amount given in paise without decimals.
func (f *Formatter) PaiseWhole(paise int64) string {
	return f.money(float64(paise)/100, models.INR, 0)
}

func (f *Formatter) money(value float64, currency models.Currency, digits int) string {
	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = string(currency) + " "
	}
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}
	n := f.printer.Sprint(number.Decimal(value, number.MinFractionDigits(digits), number.MaxFractionDigits(digits)))
	return sign + symbol + n
}

package services

import (
	"sort"

	"github.com/diewo77/cod-profit/internal/models"
)

// ReportInput is the working-set snapshot an aggregation runs over. Handlers
// rebuild it from the store on every request; nothing here is cached, so the
// output is always derivable from current state plus the filter selection.
type ReportInput struct {
	Sales     []models.Sale
	Expenses  []models.Expense
	Products  []models.Product
	Countries []models.CountrySettings
}

// Summary is the dashboard roll-up, all amounts in the display currency.
type Summary struct {
	TotalSales       float64 `json:"total_sales"`
	TotalServiceFees float64 `json:"total_service_fees"`
	TotalStockCost   float64 `json:"total_stock_cost"`
	TotalAds         float64 `json:"total_ads"`
	TotalFixed       float64 `json:"total_fixed"`
	TotalTest        float64 `json:"total_test"`
	Profit           float64 `json:"profit"`
	Margin           float64 `json:"margin"`
	Orders           int     `json:"orders"`
}

// TotalSpend is everything except revenue: stock, fees, ads, fixed and test charges.
func (s Summary) TotalSpend() float64 {
	return s.TotalStockCost + s.TotalServiceFees + s.TotalAds + s.TotalFixed + s.TotalTest
}

// DayPoint is one day's bucket of the profit/sales trend.
type DayPoint struct {
	Date   string  `json:"date"`
	Sales  float64 `json:"sales"`
	Profit float64 `json:"profit"`
}

// ProductReport is the per-product profitability breakdown, in the display currency.
type ProductReport struct {
	ProductID   string  `json:"product_id"`
	Name        string  `json:"name"`
	Units       int     `json:"units"`
	Orders      int     `json:"orders"`
	Revenue     float64 `json:"revenue"`
	StockCost   float64 `json:"stock_cost"`
	ServiceFees float64 `json:"service_fees"`
	AdSpend     float64 `json:"ad_spend"`
	OtherSpend  float64 `json:"other_spend"`
	Profit      float64 `json:"profit"`
	Margin      float64 `json:"margin"`
	ROI         float64 `json:"roi"`
}

func productByID(products []models.Product, id string) *models.Product {
	for i := range products {
		if products[i].ID == id {
			return &products[i]
		}
	}
	return nil
}

// safePct returns num/den*100 with a defined 0 for a zero denominator, so
// margins and ROI never surface NaN or Inf.
func safePct(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den * 100
}

// Compute rolls the filtered working set up into the dashboard summary.
// Sale amounts convert local->display per sale country; product costs and
// expense amounts convert USD->display. A sale whose country or product is
// unknown contributes zero for the missing part rather than failing.
func Compute(in ReportInput, f Filters, displayCurrency string) Summary {
	conv := NewConverter(in.Countries)
	usdRate := conv.USDToDisplayRate(displayCurrency)

	var sum Summary
	for _, s := range in.Sales {
		if !f.Match(s.Country, s.ProductID, s.Date) {
			continue
		}
		localRate := conv.LocalToDisplayRate(s.Country, displayCurrency)
		sum.TotalSales += s.TotalPrice * localRate
		sum.TotalServiceFees += s.DeliveryPrice * localRate
		sum.Orders++
		if p := productByID(in.Products, s.ProductID); p != nil {
			sum.TotalStockCost += p.UnitCost() * float64(s.Quantity) * usdRate
		}
	}
	for _, e := range in.Expenses {
		if !f.Match(e.Country, e.ProductID, e.Date) {
			continue
		}
		val := e.Amount * usdRate
		switch e.Type {
		case models.ExpenseAds:
			sum.TotalAds += val
		case models.ExpenseFixed:
			sum.TotalFixed += val
		case models.ExpenseTest:
			sum.TotalTest += val
		}
	}
	sum.Profit = sum.TotalSales - sum.TotalStockCost - sum.TotalServiceFees - sum.TotalAds - sum.TotalFixed - sum.TotalTest
	sum.Margin = safePct(sum.Profit, sum.TotalSales)
	return sum
}

// DailySeries buckets contributions by record date into a sales/profit trend.
// A day's profit is its sales minus that day's stock cost and fees, minus any
// expenses dated that day. Days appear only when a record falls on them;
// output is sorted ascending by date.
func DailySeries(in ReportInput, f Filters, displayCurrency string) []DayPoint {
	conv := NewConverter(in.Countries)
	usdRate := conv.USDToDisplayRate(displayCurrency)

	buckets := map[string]*DayPoint{}
	add := func(date string, sales, profit float64) {
		b, ok := buckets[date]
		if !ok {
			b = &DayPoint{Date: date}
			buckets[date] = b
		}
		b.Sales += sales
		b.Profit += profit
	}

	for _, s := range in.Sales {
		if !f.Match(s.Country, s.ProductID, s.Date) {
			continue
		}
		localRate := conv.LocalToDisplayRate(s.Country, displayCurrency)
		sVal := s.TotalPrice * localRate
		var cost float64
		if p := productByID(in.Products, s.ProductID); p != nil {
			cost = p.UnitCost() * float64(s.Quantity) * usdRate
		}
		fees := s.DeliveryPrice * localRate
		add(s.Date, sVal, sVal-cost-fees)
	}
	for _, e := range in.Expenses {
		if !f.Match(e.Country, e.ProductID, e.Date) {
			continue
		}
		add(e.Date, 0, -(e.Amount * usdRate))
	}

	out := make([]DayPoint, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// AnalyzeProducts computes per-product profitability over the filtered set,
// sorted by descending profit. ROI is profit over the full cost basis
// (stock + fees + linked spend), 0 when there is no cost basis.
func AnalyzeProducts(in ReportInput, f Filters, displayCurrency string) []ProductReport {
	conv := NewConverter(in.Countries)
	usdRate := conv.USDToDisplayRate(displayCurrency)

	out := make([]ProductReport, 0, len(in.Products))
	for _, p := range in.Products {
		if f.ProductID != "" && f.ProductID != "all" && p.ID != f.ProductID {
			continue
		}
		rep := ProductReport{ProductID: p.ID, Name: p.Name}
		for _, s := range in.Sales {
			if s.ProductID != p.ID || !f.Match(s.Country, s.ProductID, s.Date) {
				continue
			}
			localRate := conv.LocalToDisplayRate(s.Country, displayCurrency)
			rep.Revenue += s.TotalPrice * localRate
			rep.ServiceFees += s.DeliveryPrice * localRate
			rep.Units += s.Quantity
			rep.Orders++
		}
		rep.StockCost = p.UnitCost() * float64(rep.Units) * usdRate
		for _, e := range in.Expenses {
			if e.ProductID != p.ID || !f.Match(e.Country, e.ProductID, e.Date) {
				continue
			}
			val := e.Amount * usdRate
			if e.Type == models.ExpenseAds {
				rep.AdSpend += val
			} else {
				rep.OtherSpend += val
			}
		}
		rep.Profit = rep.Revenue - rep.StockCost - rep.ServiceFees - rep.AdSpend - rep.OtherSpend
		rep.Margin = safePct(rep.Profit, rep.Revenue)
		rep.ROI = safePct(rep.Profit, rep.StockCost+rep.ServiceFees+rep.AdSpend+rep.OtherSpend)
		out = append(out, rep)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Profit > out[j].Profit })
	return out
}

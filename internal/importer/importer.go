// Package importer turns raw spreadsheet rows into Sale/Expense records.
// Parsing workbook bytes into rows is an external adapter's job; this package
// receives rows as field->value maps plus a user-defined column mapping, and
// handles normalization, reference resolution, fee computation and duplicate
// suppression before handing accepted rows to the store as one batch.
package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/cod-profit/internal/models"
	"github.com/diewo77/cod-profit/internal/services"
	"github.com/diewo77/cod-profit/internal/store"
)

// Mapping binds logical import fields ("Date", "Total Price", ...) to source
// column identifiers (usually spreadsheet column letters).
type Mapping map[string]string

// Row is one parsed spreadsheet row: column identifier -> raw cell value.
// Cell values arrive untyped (string or number); coercion happens here.
type Row map[string]any

// Logical field names for the sales import.
const (
	FieldDate       = "Date"
	FieldFullName   = "Full Name"
	FieldPhone      = "Phone"
	FieldProduct    = "Product"
	FieldQuantity   = "Quantity"
	FieldTotalPrice = "Total Price"
	FieldStatus     = "Status"
	FieldAmount     = "Amount"
	FieldPlatform   = "Platform"
	FieldName       = "Name"
	FieldCountry    = "Country"
	FieldNote       = "Note"
)

// Result tallies what happened to each row of a batch. Rows are independent:
// one bad row never fails the import.
type Result struct {
	Imported        int `json:"imported"`
	Skipped         int `json:"skipped"`
	Duplicates      int `json:"duplicates"`
	UnknownProducts int `json:"unknown_products"`
}

// Days between the spreadsheet epoch (1899-12-30) and the Unix epoch.
const serialEpochOffset = 25569

// Reconciler validates import batches against current store state.
type Reconciler struct {
	Store *store.Store
}

func New(st *store.Store) *Reconciler { return &Reconciler{Store: st} }

func (m Mapping) value(r Row, field string) any {
	col, ok := m[field]
	if !ok || col == "" {
		return nil
	}
	return r[col]
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// NormalizeDate coerces a raw cell into a YYYY-MM-DD string. Numeric values
// are treated as spreadsheet date serials (day 0 = 1899-12-30). String dates
// are tried against the formats sellers actually export. Anything unparsable
// falls back to today.
func NormalizeDate(v any) string {
	return normalizeDateAt(v, time.Now())
}

func normalizeDateAt(v any, now time.Time) string {
	if f, ok := v.(float64); ok {
		return serialToDate(f)
	}
	if i, ok := v.(int); ok {
		return serialToDate(float64(i))
	}
	s := asString(v)
	if s == "" {
		return now.Format("2006-01-02")
	}
	// A bare number in a text cell is still a serial.
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 1000 {
		return serialToDate(f)
	}
	if len(s) >= 10 {
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return t.Format("2006-01-02")
		}
	}
	for _, layout := range []string{"02/01/2006", "2006/01/02", "02-01-2006", "January 2, 2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return now.Format("2006-01-02")
}

func serialToDate(serial float64) string {
	unixSec := int64((serial - serialEpochOffset) * 86400)
	return time.Unix(unixSec, 0).UTC().Format("2006-01-02")
}

// resolveProduct matches by case-insensitive trimmed name, or by direct id.
func resolveProduct(products []models.Product, raw string) string {
	needle := strings.ToLower(strings.TrimSpace(raw))
	if needle == "" {
		return ""
	}
	for i := range products {
		if strings.ToLower(strings.TrimSpace(products[i].Name)) == needle || products[i].ID == raw {
			return products[i].ID
		}
	}
	return ""
}

func saleKey(s models.Sale) string {
	return fmt.Sprintf("%s|%.4f|%s|%s", s.Date, s.TotalPrice, s.Phone, s.ProductID)
}

func expenseKey(e models.Expense) string {
	distinguisher := e.Platform
	if distinguisher == "" {
		distinguisher = e.Name
	}
	return fmt.Sprintf("%s|%.4f|%s", e.Date, e.Amount, distinguisher)
}

// ImportSales reconciles a batch of sale rows against the store and inserts
// the accepted ones in one bulk operation. All rows take countryCode — the
// country selected at import time — regardless of any country text in the
// row, and the delivery fee is computed from that country's current rules.
func (r *Reconciler) ImportSales(rows []Row, mapping Mapping, countryCode string) (Result, error) {
	var res Result
	countries, err := r.Store.Countries()
	if err != nil {
		return res, err
	}
	products, err := r.Store.Products()
	if err != nil {
		return res, err
	}
	var existing []models.Sale
	if err := r.Store.DB.Find(&existing).Error; err != nil {
		return res, err
	}
	seen := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		seen[saleKey(s)] = struct{}{}
	}

	accepted := make([]models.Sale, 0, len(rows))
	for _, row := range rows {
		total, ok := asFloat(mapping.value(row, FieldTotalPrice))
		if !ok || mapping.value(row, FieldDate) == nil {
			res.Skipped++
			continue
		}
		productID := resolveProduct(products, asString(mapping.value(row, FieldProduct)))
		if productID == "" {
			res.UnknownProducts++
			continue
		}
		qty := 1
		if q, ok := asFloat(mapping.value(row, FieldQuantity)); ok && q >= 1 {
			qty = int(q)
		}
		status := strings.ToUpper(asString(mapping.value(row, FieldStatus)))
		if !models.ValidStatus(status) {
			status = models.StatusProcessed
		}
		sale := models.Sale{
			Date:       NormalizeDate(mapping.value(row, FieldDate)),
			FullName:   asString(mapping.value(row, FieldFullName)),
			Phone:      asString(mapping.value(row, FieldPhone)),
			ProductID:  productID,
			Quantity:   qty,
			TotalPrice: total,
			Status:     status,
			Country:    countryCode,
		}
		sale.DeliveryPrice = services.CalculateServiceFee(countries, countryCode, sale.TotalPrice)

		key := saleKey(sale)
		if _, dup := seen[key]; dup {
			res.Duplicates++
			continue
		}
		seen[key] = struct{}{}
		accepted = append(accepted, sale)
	}

	if err := r.Store.AddSales(accepted); err != nil {
		return res, fmt.Errorf("bulk insert sales: %w", err)
	}
	res.Imported = len(accepted)
	return res, nil
}

// ImportExpenses reconciles a batch of expense rows of one type. The country
// comes from a per-row column (expenses are USD, so the country only scopes
// filtering); an unresolvable product leaves the link empty since it is
// optional here.
func (r *Reconciler) ImportExpenses(rows []Row, mapping Mapping, expenseType string) (Result, error) {
	var res Result
	if !models.ValidExpenseType(expenseType) {
		return res, errors.New("invalid_expense_type")
	}
	products, err := r.Store.Products()
	if err != nil {
		return res, err
	}
	var existing []models.Expense
	if err := r.Store.DB.Find(&existing).Error; err != nil {
		return res, err
	}
	seen := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		seen[expenseKey(e)] = struct{}{}
	}

	accepted := make([]models.Expense, 0, len(rows))
	for _, row := range rows {
		amount, ok := asFloat(mapping.value(row, FieldAmount))
		if !ok || amount < 0 || mapping.value(row, FieldDate) == nil {
			res.Skipped++
			continue
		}
		e := models.Expense{
			Date:      NormalizeDate(mapping.value(row, FieldDate)),
			Amount:    amount,
			Type:      expenseType,
			Platform:  asString(mapping.value(row, FieldPlatform)),
			Name:      asString(mapping.value(row, FieldName)),
			ProductID: resolveProduct(products, asString(mapping.value(row, FieldProduct))),
			Country:   strings.ToUpper(asString(mapping.value(row, FieldCountry))),
			Note:      asString(mapping.value(row, FieldNote)),
		}
		key := expenseKey(e)
		if _, dup := seen[key]; dup {
			res.Duplicates++
			continue
		}
		seen[key] = struct{}{}
		accepted = append(accepted, e)
	}

	if err := r.Store.AddExpenses(accepted); err != nil {
		return res, fmt.Errorf("bulk insert expenses: %w", err)
	}
	res.Imported = len(accepted)
	return res, nil
}

// SaveMapping persists a field mapping document for an import scope so it
// survives across sessions.
func (r *Reconciler) SaveMapping(scope string, mapping Mapping) error {
	doc, err := json.Marshal(mapping)
	if err != nil {
		return err
	}
	var existing models.ImportMapping
	err = r.Store.DB.Where("scope = ?", scope).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.Store.DB.Create(&models.ImportMapping{Scope: scope, Document: string(doc)}).Error
	}
	if err != nil {
		return err
	}
	existing.Document = string(doc)
	return r.Store.DB.Save(&existing).Error
}

// LoadMapping restores the saved mapping for a scope; a missing document
// yields an empty mapping, not an error.
func (r *Reconciler) LoadMapping(scope string) (Mapping, error) {
	var rec models.ImportMapping
	err := r.Store.DB.Where("scope = ?", scope).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Mapping{}, nil
	}
	if err != nil {
		return nil, err
	}
	m := Mapping{}
	if err := json.Unmarshal([]byte(rec.Document), &m); err != nil {
		return nil, fmt.Errorf("corrupt mapping document: %w", err)
	}
	return m, nil
}

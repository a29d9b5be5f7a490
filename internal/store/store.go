package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/diewo77/cod-profit/internal/models"
)

var (
	ErrNotFound       = errors.New("not_found")
	ErrPrimaryCountry = errors.New("primary_country_not_deletable")
	ErrDuplicateCode  = errors.New("country_code_exists")
)

// Store is the authoritative mutation surface over the entity collections.
// Every invariant the data model carries (exactly one primary country,
// cascade on product delete, all-or-nothing bulk imports) is enforced here
// so handlers and the importer cannot produce a half-applied state.
type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{DB: db} }

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// --- Products ---

func (s *Store) AddProduct(p *models.Product) error {
	ensureID(&p.ID)
	return s.DB.Create(p).Error
}

func (s *Store) UpdateProduct(p *models.Product) error {
	if p.ID == "" {
		return ErrNotFound
	}
	res := s.DB.Model(&models.Product{}).Where("id = ?", p.ID).Select("*").Omit("created_at").Updates(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DependentCounts returns how many sales and expenses reference the product,
// so a caller can demand explicit confirmation before a cascade delete.
func (s *Store) DependentCounts(productID string) (sales, expenses int64, err error) {
	if err = s.DB.Model(&models.Sale{}).Where("product_id = ?", productID).Count(&sales).Error; err != nil {
		return
	}
	err = s.DB.Model(&models.Expense{}).Where("product_id = ?", productID).Count(&expenses).Error
	return
}

// DeleteProductCascade removes the product and every sale/expense referencing
// it in one transaction. Declining the confirmation upstream means this is
// simply never called; there is no partial cascade.
func (s *Store) DeleteProductCascade(id string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.Sale{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.Expense{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Product{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// --- Sales ---

func (s *Store) AddSale(sale *models.Sale) error {
	ensureID(&sale.ID)
	return s.DB.Create(sale).Error
}

// AddSales inserts a validated batch as one transaction so readers never
// observe a half-imported state.
func (s *Store) AddSales(sales []models.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	for i := range sales {
		ensureID(&sales[i].ID)
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(sales, 200).Error
	})
}

func (s *Store) UpdateSale(sale *models.Sale) error {
	if sale.ID == "" {
		return ErrNotFound
	}
	res := s.DB.Model(&models.Sale{}).Where("id = ?", sale.ID).Select("*").Omit("created_at").Updates(sale)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteSale(id string) error {
	res := s.DB.Where("id = ?", id).Delete(&models.Sale{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SaleDuplicate probes the duplicate key for sales:
// (date, total_price, phone, product_id).
func (s *Store) SaleDuplicate(sale models.Sale) (bool, error) {
	var count int64
	err := s.DB.Model(&models.Sale{}).
		Where("date = ? AND total_price = ? AND phone = ? AND product_id = ?",
			sale.Date, sale.TotalPrice, sale.Phone, sale.ProductID).
		Count(&count).Error
	return count > 0, err
}

// --- Expenses ---

func (s *Store) AddExpense(e *models.Expense) error {
	ensureID(&e.ID)
	return s.DB.Create(e).Error
}

func (s *Store) AddExpenses(expenses []models.Expense) error {
	if len(expenses) == 0 {
		return nil
	}
	for i := range expenses {
		ensureID(&expenses[i].ID)
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(expenses, 200).Error
	})
}

func (s *Store) UpdateExpense(e *models.Expense) error {
	if e.ID == "" {
		return ErrNotFound
	}
	res := s.DB.Model(&models.Expense{}).Where("id = ?", e.ID).Select("*").Omit("created_at").Updates(e)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteExpense(id string) error {
	res := s.DB.Where("id = ?", id).Delete(&models.Expense{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ExpenseDuplicate probes the duplicate key for expenses:
// (date, amount, platform-or-name). Platform distinguishes ADS/TEST rows,
// Name distinguishes FIXED ones; whichever is set participates.
func (s *Store) ExpenseDuplicate(e models.Expense) (bool, error) {
	distinguisher := e.Platform
	if distinguisher == "" {
		distinguisher = e.Name
	}
	var count int64
	err := s.DB.Model(&models.Expense{}).
		Where("date = ? AND amount = ? AND (platform = ? OR name = ?)",
			e.Date, e.Amount, distinguisher, distinguisher).
		Count(&count).Error
	return count > 0, err
}

// --- Country settings ---

// SaveCountry creates or updates a country entry while keeping the
// single-primary invariant: the first country ever saved becomes primary,
// saving an entry as primary demotes all others in the same transaction, and
// demoting the only primary is silently undone (the forbidden zero-primary
// state is structurally unreachable, never an error).
func (s *Store) SaveCountry(c *models.CountrySettings) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var total int64
		if err := tx.Model(&models.CountrySettings{}).Count(&total).Error; err != nil {
			return err
		}
		isNew := c.ID == ""
		if isNew {
			var clash int64
			if err := tx.Model(&models.CountrySettings{}).Where("code = ?", c.Code).Count(&clash).Error; err != nil {
				return err
			}
			if clash > 0 {
				return ErrDuplicateCode
			}
			ensureID(&c.ID)
			if total == 0 {
				c.IsPrimary = true
			}
			if err := tx.Create(c).Error; err != nil {
				return err
			}
		} else {
			res := tx.Model(&models.CountrySettings{}).Where("id = ?", c.ID).Select("*").Omit("created_at").Updates(c)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrNotFound
			}
		}
		if c.IsPrimary {
			if err := tx.Model(&models.CountrySettings{}).Where("id <> ?", c.ID).
				Update("is_primary", false).Error; err != nil {
				return err
			}
			return nil
		}
		// Re-promote if this save would leave no primary at all.
		var primaries int64
		if err := tx.Model(&models.CountrySettings{}).Where("is_primary = ?", true).Count(&primaries).Error; err != nil {
			return err
		}
		if primaries == 0 {
			c.IsPrimary = true
			return tx.Model(&models.CountrySettings{}).Where("id = ?", c.ID).
				Update("is_primary", true).Error
		}
		return nil
	})
}

// DeleteCountry removes a non-primary country entry.
func (s *Store) DeleteCountry(id string) error {
	var c models.CountrySettings
	if err := s.DB.Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if c.IsPrimary {
		return ErrPrimaryCountry
	}
	return s.DB.Delete(&c).Error
}

// --- Snapshot loading ---

// Snapshot loads the full working set the aggregation engine runs over.
func (s *Store) Snapshot() (sales []models.Sale, expenses []models.Expense, products []models.Product, countries []models.CountrySettings, err error) {
	if err = s.DB.Find(&sales).Error; err != nil {
		return
	}
	if err = s.DB.Find(&expenses).Error; err != nil {
		return
	}
	if err = s.DB.Find(&products).Error; err != nil {
		return
	}
	err = s.DB.Find(&countries).Error
	return
}

// Countries returns all country settings.
func (s *Store) Countries() ([]models.CountrySettings, error) {
	var out []models.CountrySettings
	if err := s.DB.Order("created_at asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("load countries: %w", err)
	}
	return out, nil
}

// Products returns all products.
func (s *Store) Products() ([]models.Product, error) {
	var out []models.Product
	if err := s.DB.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	return out, nil
}

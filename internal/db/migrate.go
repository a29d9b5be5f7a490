package db

import (
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/diewo77/cod-profit/internal/models"
)

// Connect opens the database selected by dsn (sqlite path by default,
// postgres for postgres DSNs), migrates the schema, repairs the
// primary-country invariant for pre-existing data, and optionally seeds.
func Connect(dsn string) (*gorm.DB, error) {
	dsn = NormalizeDSN(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("empty DATABASE_DSN; check the environment configuration")
	}
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var db *gorm.DB
	var err error
	if IsPostgresDSN(dsn) {
		for i := 0; i < 10; i++ {
			db, err = gorm.Open(postgres.Open(dsn), cfg)
			if err == nil {
				break
			}
			fmt.Println("Retrying DB connection...", err)
			time.Sleep(2 * time.Second)
		}
	} else {
		db, err = gorm.Open(sqlite.Open(dsn), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	masked := dsn
	if strings.Contains(masked, "password=") {
		re := regexp.MustCompile(`(password=)([^\s]+)`)
		masked = re.ReplaceAllString(masked, `${1}***`)
	}
	fmt.Println("[DB] Using DSN:", masked)

	// MIGRATIONS=1 runs sql migrations via golang-migrate (postgres only);
	// otherwise AutoMigrate keeps dev and sqlite deployments simple.
	if v := strings.ToLower(os.Getenv("MIGRATIONS")); v == "1" || v == "true" || v == "yes" {
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}

	for _, table := range []string{"users", "country_settings", "sales"} {
		if !db.Migrator().HasTable(table) {
			return nil, errors.New("missing table after migration: " + table)
		}
	}

	if err := repairPrimaryCountry(db); err != nil {
		return nil, err
	}

	if v := strings.ToLower(os.Getenv("DB_SEED")); v == "1" || v == "true" || v == "yes" {
		seed(db)
	}
	return db, nil
}

// Migrate applies AutoMigrate for every model.
func Migrate(db *gorm.DB) error {
	modelsToMigrate := []interface{}{
		&models.User{}, &models.CountrySettings{}, &models.Product{},
		&models.Sale{}, &models.Expense{}, &models.ImportMapping{},
	}
	for _, m := range modelsToMigrate {
		if migErr := db.AutoMigrate(m); migErr != nil {
			return fmt.Errorf("automigrate %T: %w", m, migErr)
		}
	}
	return nil
}

// repairPrimaryCountry promotes the oldest country when data predating the
// single-primary enforcement has none marked primary. The store keeps the
// invariant from here on; this only heals what older writers left behind.
func repairPrimaryCountry(db *gorm.DB) error {
	var total, primaries int64
	if err := db.Model(&models.CountrySettings{}).Count(&total).Error; err != nil {
		return err
	}
	if total == 0 {
		return nil
	}
	if err := db.Model(&models.CountrySettings{}).Where("is_primary = ?", true).Count(&primaries).Error; err != nil {
		return err
	}
	if primaries == 1 {
		return nil
	}
	if primaries == 0 {
		var oldest models.CountrySettings
		if err := db.Order("created_at asc").First(&oldest).Error; err != nil {
			return err
		}
		log.Printf("[DB] no primary country configured; promoting %s", oldest.Code)
		return db.Model(&oldest).Update("is_primary", true).Error
	}
	// More than one primary: keep the oldest, demote the rest.
	var keep models.CountrySettings
	if err := db.Where("is_primary = ?", true).Order("created_at asc").First(&keep).Error; err != nil {
		return err
	}
	log.Printf("[DB] multiple primary countries found; keeping %s", keep.Code)
	return db.Model(&models.CountrySettings{}).Where("id <> ?", keep.ID).Update("is_primary", false).Error
}

func seed(db *gorm.DB) {
	baseCountries := []models.CountrySettings{
		{ID: "ma", Code: "MA", Name: "Morocco", CurrencyCode: "MAD", ExchangeRateToUSD: 0.1, ServiceFee: 30, ServiceFeePercentage: 0, IsPrimary: true},
		{ID: "ga", Code: "GA", Name: "Gabon", CurrencyCode: "XAF", ExchangeRateToUSD: 0.0016, ServiceFee: 2000, ServiceFeePercentage: 10},
	}
	for _, c := range baseCountries {
		var existing models.CountrySettings
		if err := db.Where("code = ?", c.Code).First(&existing).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			db.Create(&c)
		}
	}
	baseProducts := []models.Product{
		{ID: "seed-watch", Name: "Smart Watch Ultra", PriceProduction: 15, PriceShipping: 5, Countries: []string{"MA"}, Note: "Best seller"},
		{ID: "seed-trimmer", Name: "Beard Trimmer Pro", PriceProduction: 8, PriceShipping: 2, Countries: []string{"GA"}},
	}
	for _, p := range baseProducts {
		var existing models.Product
		if err := db.Where("name = ?", p.Name).First(&existing).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			db.Create(&p)
		}
	}
}

// runSQLMigrations executes migrations in ./migrations using golang-migrate file source.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ikkim/daily-report-backend/config"
	"github.com/ikkim/daily-report-backend/internal/app/model"
	"github.com/ikkim/daily-report-backend/internal/app/repository"
	"github.com/ikkim/daily-report-backend/internal/db"
	"github.com/ikkim/daily-report-backend/pkg/util"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Column layout of the customer sheet: code, name, address, phone.
const (
	colCode = iota
	colName
	colAddress
	colPhone
)

func main() {
	customersFile := flag.String("customers", "", "XLSX file with customer master data")
	batchSize := flag.Int("batch", 500, "insert batch size")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	ctx := context.Background()

	if err := seedAdmin(ctx, repository.NewSalesPersonRepository(db.GetDB())); err != nil {
		log.Fatal("Failed to seed admin account:", err)
	}

	if *customersFile == "" {
		fmt.Println("No customer file given, skipping customer import")
		return
	}

	fmt.Printf("Reading XLSX file: %s\n", *customersFile)
	customers, err := readCustomersFromXLSX(*customersFile)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	inserted, err := repository.NewCustomerRepository(db.GetDB()).BulkCreate(ctx, customers, *batchSize)
	if err != nil {
		log.Fatal("Failed to import customers:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("  Rows read: %d\n", len(customers))
	fmt.Printf("  Customers inserted: %d\n", inserted)
	fmt.Printf("  Already present: %d\n", int64(len(customers))-inserted)
}

// seedAdmin creates the bootstrap admin unless an account with that email exists.
func seedAdmin(ctx context.Context, repo repository.SalesPersonRepository) error {
	email := strings.ToLower(strings.TrimSpace(getEnv("SEED_ADMIN_EMAIL", "admin@example.com")))
	password := os.Getenv("SEED_ADMIN_PASSWORD")

	_, err := repo.FindByEmail(ctx, email)
	if err == nil {
		fmt.Printf("Admin %s already exists\n", email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if len(password) < 8 {
		return fmt.Errorf("SEED_ADMIN_PASSWORD must be at least 8 characters")
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &model.SalesPerson{
		EmployeeCode: getEnv("SEED_ADMIN_CODE", "ADMIN001"),
		Name:         getEnv("SEED_ADMIN_NAME", "Administrator"),
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		IsActive:     true,
	}
	if err := repo.Create(ctx, admin); err != nil {
		return err
	}

	fmt.Printf("Admin %s created (id=%d)\n", email, admin.ID)
	return nil
}

func readCustomersFromXLSX(filePath string) ([]model.Customer, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var customers []model.Customer
	seen := make(map[string]bool)
	skipped := 0

	// first row is the header
	for _, row := range rows[1:] {
		code := cell(row, colCode)
		name := cell(row, colName)
		if code == "" || name == "" || len(code) > 20 || seen[code] {
			skipped++
			continue
		}
		seen[code] = true

		customers = append(customers, model.Customer{
			CustomerCode: code,
			Name:         name,
			Address:      optional(cell(row, colAddress)),
			Phone:        optional(cell(row, colPhone)),
			IsActive:     true,
		})
	}

	fmt.Printf("Sheet %s: %d valid rows, %d skipped\n", sheetName, len(customers), skipped)
	return customers, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

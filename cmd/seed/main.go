package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/adeliap/rotiku-backend/config"
	"github.com/adeliap/rotiku-backend/internal/app/model"
	"github.com/adeliap/rotiku-backend/internal/app/repository"
	"github.com/adeliap/rotiku-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Imports the product catalog from an XLSX export. Expected columns:
//
//	0 name | 1 name_en | 2 description | 3 price | 4 discount_price
//	5 stock | 6 available_days | 7 jenis | 8 image_url
//
// available_days is a comma-joined list of lowercase weekdays. Unknown
// jenis names are created on the fly.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

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

	productRepo := repository.NewProductRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, skipped, err := readProductsFromXLSX(filePath, categoryRepo)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d (skipped %d rows)\n", len(products), skipped)
	if len(products) == 0 {
		fmt.Println("Nothing to import.")
		return
	}

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 200
	if err := productRepo.BulkCreate(products, batchSize); err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", len(products))
}

func readProductsFromXLSX(filePath string, categoryRepo repository.CategoryRepository) ([]model.Product, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	jenisIDs, err := loadJenisIndex(categoryRepo)
	if err != nil {
		return nil, 0, err
	}

	var products []model.Product
	seen := make(map[string]bool)
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}
		if len(row) < 7 {
			skipped++
			continue
		}

		name := strings.TrimSpace(cell(row, 0))
		priceStr := strings.TrimSpace(cell(row, 3))
		daysStr := strings.TrimSpace(cell(row, 6))

		if name == "" || priceStr == "" {
			skipped++
			continue
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price <= 0 {
			skipped++
			continue
		}

		days, ok := parseDays(daysStr)
		if !ok {
			skipped++
			continue
		}

		if seen[name] {
			skipped++
			continue
		}
		seen[name] = true

		product := model.Product{
			Name:          name,
			NameEn:        strings.TrimSpace(cell(row, 1)),
			Description:   strings.TrimSpace(cell(row, 2)),
			Price:         price,
			StockQuantity: parseStock(cell(row, 5)),
			ImageURL:      strings.TrimSpace(cell(row, 8)),
		}
		product.SetAvailableDays(days)

		if discount, err := strconv.ParseFloat(strings.TrimSpace(cell(row, 4)), 64); err == nil && discount > 0 && discount < price {
			product.DiscountPrice = &discount
		}

		if jenisName := strings.TrimSpace(cell(row, 7)); jenisName != "" {
			id, err := resolveJenis(categoryRepo, jenisIDs, jenisName)
			if err != nil {
				return nil, skipped, err
			}
			product.JenisID = &id
		}

		products = append(products, product)
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid products: %d\n", len(products))
	fmt.Printf("  Skipped rows: %d\n", skipped)

	return products, skipped, nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func parseStock(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// parseDays turns "monday,tuesday" into a validated day slice. An empty
// string means orderable every day.
func parseDays(s string) ([]model.OrderDay, bool) {
	if s == "" {
		return []model.OrderDay{
			model.DayMonday, model.DayTuesday, model.DayWednesday,
			model.DayThursday, model.DayFriday, model.DaySaturday, model.DaySunday,
		}, true
	}

	parts := strings.Split(s, ",")
	days := make([]model.OrderDay, 0, len(parts))
	for _, p := range parts {
		day := model.OrderDay(strings.ToLower(strings.TrimSpace(p)))
		if !model.ValidOrderDay(day) {
			return nil, false
		}
		days = append(days, day)
	}
	return days, true
}

func loadJenisIndex(categoryRepo repository.CategoryRepository) (map[string]uint, error) {
	all, err := categoryRepo.FindAllJenis()
	if err != nil {
		return nil, fmt.Errorf("failed to load jenis: %w", err)
	}

	index := make(map[string]uint, len(all))
	for _, j := range all {
		index[strings.ToLower(j.Name)] = j.ID
	}
	return index, nil
}

func resolveJenis(categoryRepo repository.CategoryRepository, index map[string]uint, name string) (uint, error) {
	key := strings.ToLower(name)
	if id, ok := index[key]; ok {
		return id, nil
	}

	jenis := &model.Jenis{Name: name}
	if err := categoryRepo.CreateJenis(jenis); err != nil {
		return 0, fmt.Errorf("failed to create jenis %q: %w", name, err)
	}
	fmt.Printf("Created jenis: %s\n", name)

	index[key] = jenis.ID
	return jenis.ID, nil
}

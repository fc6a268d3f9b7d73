package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ikkim/shopmall-backend/config"
	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/internal/app/repository"
	"github.com/ikkim/shopmall-backend/internal/db"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Catalog importer. Expects an XLSX sheet with the columns:
// name, description, price, cost, stock, category, owner, image_url.
// Categories and owners are created on first sight and reused after.
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

	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	ownerRepo := repository.NewOwnerRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, skipped, err := readProductsFromXLSX(filePath, categoryRepo, ownerRepo)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d (skipped %d rows)\n", len(products), skipped)

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := productRepo.BulkCreate(products, batchSize); err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", len(products))
}

func readProductsFromXLSX(
	filePath string,
	categoryRepo repository.CategoryRepository,
	ownerRepo repository.OwnerRepository,
) ([]model.Product, int, error) {
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

	var products []model.Product
	categoryCache := make(map[string]uint)
	ownerCache := make(map[string]uint)
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 6 {
			skipped++
			continue
		}

		name := strings.TrimSpace(row[0])
		description := strings.TrimSpace(row[1])
		price, priceErr := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		cost, _ := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
		stock, stockErr := strconv.Atoi(strings.TrimSpace(row[4]))
		categoryName := strings.TrimSpace(row[5])

		if name == "" || categoryName == "" || priceErr != nil || stockErr != nil || price < 0 || stock < 0 {
			skipped++
			continue
		}

		categoryID, err := resolveCategory(categoryRepo, categoryCache, categoryName)
		if err != nil {
			return nil, 0, fmt.Errorf("row %d: %w", i+1, err)
		}

		product := model.Product{
			Name:        name,
			Description: description,
			Price:       price,
			Cost:        cost,
			Stock:       stock,
			IsActive:    true,
			CategoryID:  categoryID,
		}

		if len(row) > 6 {
			if ownerName := strings.TrimSpace(row[6]); ownerName != "" {
				ownerID, err := resolveOwner(ownerRepo, ownerCache, ownerName)
				if err != nil {
					return nil, 0, fmt.Errorf("row %d: %w", i+1, err)
				}
				product.OwnerID = &ownerID
			}
		}

		if len(row) > 7 {
			product.ImageURL = strings.TrimSpace(row[7])
		}

		products = append(products, product)
	}

	return products, skipped, nil
}

func resolveCategory(repo repository.CategoryRepository, cache map[string]uint, name string) (uint, error) {
	if id, ok := cache[name]; ok {
		return id, nil
	}

	category, err := repo.FindByName(name)
	if err == nil {
		cache[name] = category.ID
		return category.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	category = &model.Category{Name: name, IsActive: true}
	if err := repo.Create(category); err != nil {
		return 0, err
	}
	cache[name] = category.ID
	return category.ID, nil
}

func resolveOwner(repo repository.OwnerRepository, cache map[string]uint, name string) (uint, error) {
	if id, ok := cache[name]; ok {
		return id, nil
	}

	owner, err := repo.FindByName(name)
	if err == nil {
		cache[name] = owner.ID
		return owner.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	owner = &model.Owner{Name: name, IsActive: true}
	if err := repo.Create(owner); err != nil {
		return 0, err
	}
	cache[name] = owner.ID
	return owner.ID, nil
}

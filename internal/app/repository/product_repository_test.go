package repository

import (
	"testing"

	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductRepositoryTest(t *testing.T) (ProductRepository, *model.Category, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	category := &model.Category{Name: "Drinks", IsActive: true}
	testDB.Create(category)

	return NewProductRepository(testDB), category, testDB
}

func TestProductRepository_DecrementStock(t *testing.T) {
	productRepo, category, testDB := setupProductRepositoryTest(t)

	product := &model.Product{
		Name: "Thai Tea", Price: 45, Stock: 5, IsActive: true, CategoryID: category.ID,
	}
	require.NoError(t, productRepo.Create(product))

	require.NoError(t, productRepo.DecrementStock(testDB, product.ID, 3))

	found, err := productRepo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, found.Stock)
}

func TestProductRepository_DecrementStock_Insufficient(t *testing.T) {
	productRepo, category, testDB := setupProductRepositoryTest(t)

	product := &model.Product{
		Name: "Thai Tea", Price: 45, Stock: 2, IsActive: true, CategoryID: category.ID,
	}
	require.NoError(t, productRepo.Create(product))

	err := productRepo.DecrementStock(testDB, product.ID, 3)
	assert.ErrorIs(t, err, ErrStockConflict)

	// Stock untouched after the rejected decrement
	found, _ := productRepo.FindByID(product.ID)
	assert.Equal(t, 2, found.Stock)
}

func TestProductRepository_DecrementStock_ExactlyToZero(t *testing.T) {
	productRepo, category, testDB := setupProductRepositoryTest(t)

	product := &model.Product{
		Name: "Thai Tea", Price: 45, Stock: 3, IsActive: true, CategoryID: category.ID,
	}
	require.NoError(t, productRepo.Create(product))

	require.NoError(t, productRepo.DecrementStock(testDB, product.ID, 3))

	found, _ := productRepo.FindByID(product.ID)
	assert.Equal(t, 0, found.Stock)
}

func TestProductRepository_FindAll_Filters(t *testing.T) {
	productRepo, category, testDB := setupProductRepositoryTest(t)

	other := &model.Category{Name: "Desserts", IsActive: true}
	testDB.Create(other)

	testDB.Create(&model.Product{Name: "Green Tea", Price: 40, Stock: 5, IsActive: true, CategoryID: category.ID})
	testDB.Create(&model.Product{Name: "Mango Sticky Rice", Price: 80, Stock: 5, IsActive: true, CategoryID: other.ID})
	testDB.Create(&model.Product{Name: "Hidden Tea", Price: 40, Stock: 5, IsActive: false, CategoryID: category.ID})

	products, total, err := productRepo.FindAll(ProductFilter{CategoryID: category.ID, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, products, 2)

	products, total, err = productRepo.FindAll(ProductFilter{ActiveOnly: true, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	products, total, err = productRepo.FindAll(ProductFilter{Search: "tea", ActiveOnly: true, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, products, 1)
	assert.Equal(t, "Green Tea", products[0].Name)
}

func TestProductRepository_FindByIDs(t *testing.T) {
	productRepo, category, testDB := setupProductRepositoryTest(t)

	a := &model.Product{Name: "A", Price: 10, Stock: 1, IsActive: true, CategoryID: category.ID}
	b := &model.Product{Name: "B", Price: 20, Stock: 1, IsActive: true, CategoryID: category.ID}
	testDB.Create(a)
	testDB.Create(b)

	products, err := productRepo.FindByIDs([]uint{a.ID, b.ID, 9999})
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestProductRepository_BulkCreate(t *testing.T) {
	productRepo, category, _ := setupProductRepositoryTest(t)

	batch := []model.Product{
		{Name: "Bulk A", Price: 10, Stock: 1, IsActive: true, CategoryID: category.ID},
		{Name: "Bulk B", Price: 20, Stock: 2, IsActive: true, CategoryID: category.ID},
		{Name: "Bulk C", Price: 30, Stock: 3, IsActive: true, CategoryID: category.ID},
	}
	require.NoError(t, productRepo.BulkCreate(batch, 2))

	_, total, err := productRepo.FindAll(ProductFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

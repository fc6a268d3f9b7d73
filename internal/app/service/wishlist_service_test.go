package service

import (
	"testing"

	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/internal/app/repository"
	"github.com/ikkim/shopmall-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupWishlistServiceTest(t *testing.T) (WishlistService, *model.User, *model.Product, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	wishlistRepo := repository.NewWishlistRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	wishlistService := NewWishlistService(wishlistRepo, productRepo)

	user := &model.User{
		Email:        "wish@example.com",
		PasswordHash: "hash",
		FirstName:    "Wish",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	category := &model.Category{Name: "Snacks", IsActive: true}
	testDB.Create(category)

	product := &model.Product{
		Name:       "Seaweed Crisps",
		Price:      35,
		Stock:      10,
		IsActive:   true,
		CategoryID: category.ID,
	}
	testDB.Create(product)

	return wishlistService, user, product, testDB
}

func TestWishlistService_AddAndList(t *testing.T) {
	wishlistService, user, product, _ := setupWishlistServiceTest(t)

	item, err := wishlistService.Add(user.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, item.ProductID)

	items, err := wishlistService.List(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Seaweed Crisps", items[0].Product.Name)
}

func TestWishlistService_Add_Duplicate(t *testing.T) {
	wishlistService, user, product, _ := setupWishlistServiceTest(t)

	_, err := wishlistService.Add(user.ID, product.ID)
	require.NoError(t, err)

	_, err = wishlistService.Add(user.ID, product.ID)
	assert.ErrorIs(t, err, ErrWishlistItemExists)
}

func TestWishlistService_Add_UnknownProduct(t *testing.T) {
	wishlistService, user, _, _ := setupWishlistServiceTest(t)

	_, err := wishlistService.Add(user.ID, 9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestWishlistService_Remove(t *testing.T) {
	wishlistService, user, product, _ := setupWishlistServiceTest(t)

	_, err := wishlistService.Add(user.ID, product.ID)
	require.NoError(t, err)

	require.NoError(t, wishlistService.Remove(user.ID, product.ID))

	items, err := wishlistService.List(user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 0)
}

func TestWishlistService_Remove_NotFound(t *testing.T) {
	wishlistService, user, product, _ := setupWishlistServiceTest(t)

	err := wishlistService.Remove(user.ID, product.ID)
	assert.ErrorIs(t, err, ErrWishlistItemNotFound)
}

func TestWishlistService_ListIsPerUser(t *testing.T) {
	wishlistService, user, product, testDB := setupWishlistServiceTest(t)

	_, err := wishlistService.Add(user.ID, product.ID)
	require.NoError(t, err)

	other := &model.User{Email: "other@example.com", PasswordHash: "hash", FirstName: "Other"}
	testDB.Create(other)

	items, err := wishlistService.List(other.ID)
	require.NoError(t, err)
	assert.Len(t, items, 0)
}

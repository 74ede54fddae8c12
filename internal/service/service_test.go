package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vendaro/marketplace/internal/models"
	"github.com/vendaro/marketplace/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Shop{}, &models.Product{}, &models.ProductVariant{},
		&models.Address{}, &models.CartItem{}, &models.Voucher{},
		&models.Order{}, &models.OrderItem{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func newOrderService(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := &OrderService{
		Repo:     &repo.GormRepo{DB: db},
		Currency: "USD",
	}
	return svc, db
}

func seedShop(t *testing.T, db *gorm.DB, ownerID uint, fee int64) *models.Shop {
	t.Helper()
	shop := &models.Shop{
		OwnerID:     ownerID,
		Name:        fmt.Sprintf("shop-%d", ownerID),
		ShippingFee: decimal.NewFromInt(fee),
		Currency:    "USD",
	}
	if err := db.Create(shop).Error; err != nil {
		t.Fatalf("seed shop: %v", err)
	}
	return shop
}

func seedProduct(t *testing.T, db *gorm.DB, shopID uint, price int64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		ShopID:     shopID,
		Title:      fmt.Sprintf("product-%d", shopID),
		Price:      decimal.NewFromInt(price),
		TotalStock: stock,
		IsActive:   true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func seedVariant(t *testing.T, db *gorm.DB, productID uint, price int64, stock int) *models.ProductVariant {
	t.Helper()
	variant := &models.ProductVariant{
		ProductID: productID,
		Name:      "variant",
		Price:     decimal.NewFromInt(price),
		Stock:     stock,
		IsActive:  true,
	}
	if err := db.Create(variant).Error; err != nil {
		t.Fatalf("seed variant: %v", err)
	}
	return variant
}

func seedAddress(t *testing.T, db *gorm.DB, userID uint) *models.Address {
	t.Helper()
	address := &models.Address{
		UserID:    userID,
		Recipient: "Test Buyer",
		Phone:     "555-0100",
		Line1:     "1 Test Street",
		City:      "Testville",
	}
	if err := db.Create(address).Error; err != nil {
		t.Fatalf("seed address: %v", err)
	}
	return address
}

func seedVoucher(t *testing.T, db *gorm.DB, voucher *models.Voucher) *models.Voucher {
	t.Helper()
	if voucher.StartDate.IsZero() {
		voucher.StartDate = time.Now().Add(-time.Hour)
	}
	if voucher.EndDate.IsZero() {
		voucher.EndDate = time.Now().Add(time.Hour)
	}
	if err := db.Create(voucher).Error; err != nil {
		t.Fatalf("seed voucher: %v", err)
	}
	return voucher
}

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func intPtr(v int) *int {
	return &v
}

package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/vendaro/marketplace/internal/models"
)

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product := models.Product{}
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) GetVariant(ctx context.Context, id uint) (*models.ProductVariant, error) {
	variant := models.ProductVariant{}
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&variant).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

// DecrementProductStock is a conditional update so two checkouts cannot both
// pass a stale stock read: zero rows affected means the stock was gone.
func (r *GormRepo) DecrementProductStock(ctx context.Context, productID, qty uint) error {
	res := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND total_stock >= ?", productID, qty).
		UpdateColumn("total_stock", gorm.Expr("total_stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *GormRepo) DecrementVariantStock(ctx context.Context, variantID, qty uint) error {
	res := r.DB.WithContext(ctx).Model(&models.ProductVariant{}).
		Where("id = ? AND stock >= ?", variantID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// Restore variants tolerate deleted catalog rows: restoring stock for a
// product that no longer exists is a no-op, not an error.
func (r *GormRepo) RestoreProductStock(ctx context.Context, productID, qty uint) error {
	return r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("total_stock", gorm.Expr("total_stock + ?", qty)).Error
}

func (r *GormRepo) RestoreVariantStock(ctx context.Context, variantID, qty uint) error {
	return r.DB.WithContext(ctx).Model(&models.ProductVariant{}).
		Where("id = ?", variantID).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty)).Error
}

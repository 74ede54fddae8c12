package repo

import (
	"context"

	"github.com/vendaro/marketplace/internal/models"
)

func (r *GormRepo) GetShop(ctx context.Context, id uint) (*models.Shop, error) {
	shop := models.Shop{}
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *GormRepo) GetShopByOwner(ctx context.Context, ownerID uint) (*models.Shop, error) {
	shop := models.Shop{}
	if err := r.DB.WithContext(ctx).Where("owner_id = ?", ownerID).First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

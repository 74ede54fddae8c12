package repo

import (
	"context"

	"github.com/vendaro/marketplace/internal/models"
)

func (r *GormRepo) GetOwnedAddress(ctx context.Context, addressID, userID uint) (*models.Address, error) {
	address := models.Address{}
	if err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

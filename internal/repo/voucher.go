package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/vendaro/marketplace/internal/models"
)

// Codes are stored uppercase; lookups normalize, so matching is
// case-insensitive without relying on collation.
func (r *GormRepo) GetVoucherByCode(ctx context.Context, shopID uint, code string) (*models.Voucher, error) {
	voucher := models.Voucher{}
	if err := r.DB.WithContext(ctx).
		Where("shop_id = ? AND code = ?", shopID, strings.ToUpper(code)).
		First(&voucher).Error; err != nil {
		return nil, err
	}
	return &voucher, nil
}

func (r *GormRepo) GetVoucher(ctx context.Context, id uint) (*models.Voucher, error) {
	voucher := models.Voucher{}
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&voucher).Error; err != nil {
		return nil, err
	}
	return &voucher, nil
}

// IncrementVoucherUsage bumps usage_count only while it is still below the
// limit, so concurrent orders cannot push it past usage_limit.
func (r *GormRepo) IncrementVoucherUsage(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Model(&models.Voucher{}).
		Where("id = ? AND (usage_limit IS NULL OR usage_count < usage_limit)", id).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUsageLimitReached
	}
	return nil
}

func (r *GormRepo) CreateVoucher(ctx context.Context, voucher *models.Voucher) (*models.Voucher, error) {
	voucher.Code = strings.ToUpper(voucher.Code)
	if err := r.DB.WithContext(ctx).Create(voucher).Error; err != nil {
		return nil, err
	}
	return voucher, nil
}

func (r *GormRepo) SaveVoucher(ctx context.Context, voucher *models.Voucher) error {
	return r.DB.WithContext(ctx).Save(voucher).Error
}

func (r *GormRepo) ListVouchers(ctx context.Context, shopID uint, offset, limit int) (int64, []models.Voucher, error) {
	q := r.DB.WithContext(ctx).Model(&models.Voucher{}).Where("shop_id = ?", shopID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var vouchers []models.Voucher
	if err := q.Order("id ASC").Offset(offset).Limit(limit).Find(&vouchers).Error; err != nil {
		return 0, nil, err
	}
	return total, vouchers, nil
}

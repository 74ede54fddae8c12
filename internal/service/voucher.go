package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vendaro/marketplace/internal/models"
	"github.com/vendaro/marketplace/internal/repo"
	"github.com/vendaro/marketplace/internal/transport"
)

var oneHundred = decimal.NewFromInt(100)

type VoucherService struct {
	Repo *repo.GormRepo
}

// VoucherCheck is the outcome of running a code through the validation
// chain. Reason is buyer-facing text; it is only set when Valid is false.
type VoucherCheck struct {
	Valid    bool
	Reason   string
	Discount decimal.Decimal
	Voucher  *models.Voucher
}

func (s *VoucherService) Validate(ctx context.Context, code string, shopID uint, subtotal decimal.Decimal, now time.Time) (*VoucherCheck, error) {
	return validateVoucher(ctx, s.Repo, code, shopID, subtotal, now)
}

// validateVoucher runs the checks in a fixed order; the first failure wins.
func validateVoucher(ctx context.Context, r *repo.GormRepo, code string, shopID uint, subtotal decimal.Decimal, now time.Time) (*VoucherCheck, error) {
	voucher, err := r.GetVoucherByCode(ctx, shopID, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &VoucherCheck{Valid: false, Reason: "voucher not found"}, nil
		}
		return nil, err
	}

	if !voucher.IsActive {
		return &VoucherCheck{Valid: false, Reason: "voucher is not active", Voucher: voucher}, nil
	}
	if now.Before(voucher.StartDate) {
		return &VoucherCheck{Valid: false, Reason: "voucher is not yet valid", Voucher: voucher}, nil
	}
	if now.After(voucher.EndDate) {
		return &VoucherCheck{Valid: false, Reason: "voucher is expired", Voucher: voucher}, nil
	}
	if voucher.UsageLimit != nil && voucher.UsageCount >= *voucher.UsageLimit {
		return &VoucherCheck{Valid: false, Reason: "voucher usage limit reached", Voucher: voucher}, nil
	}
	if voucher.MinOrderValue != nil && subtotal.LessThan(*voucher.MinOrderValue) {
		return &VoucherCheck{Valid: false, Reason: "minimum order value not met", Voucher: voucher}, nil
	}

	return &VoucherCheck{
		Valid:    true,
		Discount: voucherDiscount(voucher, subtotal),
		Voucher:  voucher,
	}, nil
}

func voucherDiscount(voucher *models.Voucher, subtotal decimal.Decimal) decimal.Decimal {
	switch voucher.Type {
	case models.VoucherTypePercentage:
		discount := subtotal.Mul(voucher.Value).Div(oneHundred).Round(2)
		if voucher.MaxDiscount != nil && discount.GreaterThan(*voucher.MaxDiscount) {
			discount = *voucher.MaxDiscount
		}
		return discount
	case models.VoucherTypeFixedAmount:
		if voucher.Value.GreaterThan(subtotal) {
			return subtotal
		}
		return voucher.Value
	}
	return decimal.Zero
}

// applyVoucher is called once per order that uses a voucher. The increment is
// conditional on the usage limit; cancellation never decrements usage_count.
func applyVoucher(ctx context.Context, r *repo.GormRepo, voucherID uint) error {
	if err := r.IncrementVoucherUsage(ctx, voucherID); err != nil {
		if errors.Is(err, repo.ErrUsageLimitReached) {
			return fmt.Errorf("%w: voucher usage limit reached", ErrVoucherInvalid)
		}
		return err
	}
	return nil
}

func (s *VoucherService) CreateVoucher(ctx context.Context, ownerID uint, req transport.CreateVoucherRequest) (*models.Voucher, error) {
	shop, err := s.Repo.GetShopByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: shop", ErrNotFound)
		}
		return nil, err
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, fmt.Errorf("%w: code required", ErrValidation)
	}
	if req.Type != models.VoucherTypePercentage && req.Type != models.VoucherTypeFixedAmount {
		return nil, fmt.Errorf("%w: unknown voucher type %q", ErrValidation, req.Type)
	}
	if req.Value.IsNegative() {
		return nil, fmt.Errorf("%w: value must be >= 0", ErrValidation)
	}
	if req.Type == models.VoucherTypePercentage && req.Value.GreaterThan(oneHundred) {
		return nil, fmt.Errorf("%w: percentage value must be <= 100", ErrValidation)
	}

	start, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: start_date must be RFC3339", ErrValidation)
	}
	end, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: end_date must be RFC3339", ErrValidation)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end_date before start_date", ErrValidation)
	}

	voucher := &models.Voucher{
		ShopID:        shop.ID,
		Code:          code,
		Type:          req.Type,
		Value:         req.Value,
		MinOrderValue: req.MinOrderValue,
		MaxDiscount:   req.MaxDiscount,
		UsageLimit:    req.UsageLimit,
		StartDate:     start,
		EndDate:       end,
		IsActive:      true,
	}
	return s.Repo.CreateVoucher(ctx, voucher)
}

func (s *VoucherService) ListVouchers(ctx context.Context, ownerID uint, offset, limit int) (int64, []models.Voucher, error) {
	shop, err := s.Repo.GetShopByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil, fmt.Errorf("%w: shop", ErrNotFound)
		}
		return 0, nil, err
	}
	return s.Repo.ListVouchers(ctx, shop.ID, offset, limit)
}

func (s *VoucherService) PatchVoucher(ctx context.Context, ownerID, voucherID uint, req transport.PatchVoucherRequest) (*models.Voucher, error) {
	shop, err := s.Repo.GetShopByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: shop", ErrNotFound)
		}
		return nil, err
	}

	voucher, err := s.Repo.GetVoucher(ctx, voucherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: voucher", ErrNotFound)
		}
		return nil, err
	}
	if voucher.ShopID != shop.ID {
		return nil, fmt.Errorf("%w: voucher", ErrNotFound)
	}

	if req.IsActive != nil {
		voucher.IsActive = *req.IsActive
	}
	if req.MinOrderValue != nil {
		voucher.MinOrderValue = req.MinOrderValue
	}
	if req.MaxDiscount != nil {
		voucher.MaxDiscount = req.MaxDiscount
	}
	if req.UsageLimit != nil {
		if *req.UsageLimit < voucher.UsageCount {
			return nil, fmt.Errorf("%w: usage_limit below current usage_count", ErrValidation)
		}
		voucher.UsageLimit = req.UsageLimit
	}
	if req.EndDate != nil {
		end, err := time.Parse(time.RFC3339, *req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: end_date must be RFC3339", ErrValidation)
		}
		voucher.EndDate = end
	}

	if err := s.Repo.SaveVoucher(ctx, voucher); err != nil {
		return nil, err
	}
	return voucher, nil
}

package transport

import (
	"github.com/shopspring/decimal"

	"github.com/vendaro/marketplace/internal/models"
)

type CreateOrderItem struct {
	ProductID uint  `json:"product_id"`
	VariantID *uint `json:"variant_id,omitempty"`
	Quantity  uint  `json:"quantity"`
}

type CreateOrdersRequest struct {
	Items         []CreateOrderItem    `json:"items"`
	AddressID     uint                 `json:"address_id"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	VoucherCode   string               `json:"voucher_code,omitempty"`
	Notes         string               `json:"notes,omitempty"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

type CreateVoucherRequest struct {
	Code          string             `json:"code"`
	Type          models.VoucherType `json:"type"`
	Value         decimal.Decimal    `json:"value"`
	MinOrderValue *decimal.Decimal   `json:"min_order_value,omitempty"`
	MaxDiscount   *decimal.Decimal   `json:"max_discount,omitempty"`
	UsageLimit    *int               `json:"usage_limit,omitempty"`
	StartDate     string             `json:"start_date"`
	EndDate       string             `json:"end_date"`
}

type PatchVoucherRequest struct {
	IsActive      *bool            `json:"is_active,omitempty"`
	MinOrderValue *decimal.Decimal `json:"min_order_value,omitempty"`
	MaxDiscount   *decimal.Decimal `json:"max_discount,omitempty"`
	UsageLimit    *int             `json:"usage_limit,omitempty"`
	EndDate       *string          `json:"end_date,omitempty"`
}

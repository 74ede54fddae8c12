package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusPacked    OrderStatus = "PACKED"
	OrderStatusShipping  OrderStatus = "SHIPPING"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

type PaymentMethod string

const (
	PaymentMethodCOD          PaymentMethod = "COD"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodEWallet      PaymentMethod = "E_WALLET"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

type VoucherType string

const (
	VoucherTypePercentage  VoucherType = "PERCENTAGE"
	VoucherTypeFixedAmount VoucherType = "FIXED_AMOUNT"
)

type Shop struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"           json:"id"`
	OwnerID     uint            `gorm:"index;not null"                     json:"owner_id"`
	Name        string          `gorm:"not null"                           json:"name"`
	ShippingFee decimal.Decimal `gorm:"type:decimal(12,2);not null"        json:"shipping_fee"`
	Currency    string          `gorm:"not null;default:USD"               json:"currency"`
}

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"           json:"id"`
	ShopID      uint            `gorm:"index;not null"                     json:"shop_id"`
	Title       string          `gorm:"not null"                           json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"        json:"price"`
	TotalStock  int             `gorm:"not null;default:0"                 json:"total_stock"`
	IsActive    bool            `gorm:"not null;default:true"              json:"is_active"`
	Images      StringList      `gorm:"serializer:json"                    json:"images"`
}

type ProductVariant struct {
	ID         uint            `gorm:"primaryKey;autoIncrement"            json:"id"`
	ProductID  uint            `gorm:"index;not null"                      json:"product_id"`
	Name       string          `gorm:"not null"                            json:"name"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null"         json:"price"`
	Stock      int             `gorm:"not null;default:0"                  json:"stock"`
	IsActive   bool            `gorm:"not null;default:true"               json:"is_active"`
	Attributes StringMap       `gorm:"serializer:json"                     json:"attributes"`
}

type Address struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint   `gorm:"index;not null"           json:"user_id"`
	Recipient  string `gorm:"not null"                 json:"recipient"`
	Phone      string `gorm:"not null"                 json:"phone"`
	Line1      string `gorm:"not null"                 json:"line1"`
	City       string `gorm:"not null"                 json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type CartItem struct {
	ID        uint  `gorm:"primaryKey"                  json:"id"`
	UserID    uint  `gorm:"index;not null"              json:"user_id"`
	ProductID uint  `gorm:"not null"                    json:"product_id"`
	VariantID *uint `json:"variant_id,omitempty"`
	Quantity  uint  `gorm:"default:1;check:quantity>0"  json:"quantity"`
}

type Voucher struct {
	ID            uint             `gorm:"primaryKey;autoIncrement"                   json:"id"`
	ShopID        uint             `gorm:"not null;uniqueIndex:idx_voucher_shop_code" json:"shop_id"`
	Code          string           `gorm:"not null;uniqueIndex:idx_voucher_shop_code" json:"code"`
	Type          VoucherType      `gorm:"not null"                                   json:"type"`
	Value         decimal.Decimal  `gorm:"type:decimal(12,2);not null"                json:"value"`
	MinOrderValue *decimal.Decimal `gorm:"type:decimal(12,2)"                         json:"min_order_value,omitempty"`
	MaxDiscount   *decimal.Decimal `gorm:"type:decimal(12,2)"                         json:"max_discount,omitempty"`
	UsageLimit    *int             `json:"usage_limit,omitempty"`
	UsageCount    int              `gorm:"not null;default:0"                         json:"usage_count"`
	StartDate     time.Time        `gorm:"not null"                                   json:"start_date"`
	EndDate       time.Time        `gorm:"not null"                                   json:"end_date"`
	IsActive      bool             `gorm:"not null;default:true"                      json:"is_active"`
}

// AddressSnapshot is the shipping address frozen at order time. The live
// Address row may be edited or deleted later without touching the order.
type AddressSnapshot struct {
	Recipient  string `json:"recipient"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type ProductSnapshot struct {
	ProductID uint            `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Images    StringList      `json:"images"`
}

type VariantSnapshot struct {
	VariantID  uint            `json:"variant_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Attributes StringMap       `json:"attributes"`
}

type Order struct {
	ID                 uint            `gorm:"primaryKey;autoIncrement"      json:"id"`
	OrderNumber        string          `gorm:"uniqueIndex;not null"          json:"order_number"`
	UserID             uint            `gorm:"index;not null"                json:"user_id"`
	ShopID             uint            `gorm:"index;not null"                json:"shop_id"`
	AddressID          *uint           `json:"address_id,omitempty"`
	ShippingAddress    AddressSnapshot `gorm:"serializer:json"               json:"shipping_address"`
	Status             OrderStatus     `gorm:"index;not null"                json:"status"`
	PaymentMethod      PaymentMethod   `gorm:"not null"                      json:"payment_method"`
	PaymentStatus      PaymentStatus   `gorm:"not null"                      json:"payment_status"`
	Subtotal           decimal.Decimal `gorm:"type:decimal(12,2);not null"   json:"subtotal"`
	ShippingFee        decimal.Decimal `gorm:"type:decimal(12,2);not null"   json:"shipping_fee"`
	Discount           decimal.Decimal `gorm:"type:decimal(12,2);not null"   json:"discount"`
	Total              decimal.Decimal `gorm:"type:decimal(12,2);not null"   json:"total"`
	Currency           string          `gorm:"not null"                      json:"currency"`
	VoucherCode        string          `json:"voucher_code,omitempty"`
	Notes              string          `json:"notes,omitempty"`
	CancellationReason string          `json:"cancellation_reason,omitempty"`
	CompletedAt        *time.Time      `json:"completed_at,omitempty"`
	CreatedAt          time.Time       `gorm:"not null"                      json:"created_at"`
	UpdatedAt          time.Time       `gorm:"not null"                      json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// OrderItem references product and variant weakly: the catalog rows may be
// deleted later, the snapshots keep the historical record intact.
type OrderItem struct {
	ID              uint             `gorm:"primaryKey;autoIncrement"    json:"id"`
	OrderID         uint             `gorm:"index;not null"              json:"order_id"`
	ProductID       *uint            `gorm:"index"                       json:"product_id,omitempty"`
	VariantID       *uint            `json:"variant_id,omitempty"`
	ProductSnapshot ProductSnapshot  `gorm:"serializer:json"             json:"product_snapshot"`
	VariantSnapshot *VariantSnapshot `gorm:"serializer:json"             json:"variant_snapshot,omitempty"`
	Quantity        uint             `gorm:"not null;check:quantity>0"   json:"quantity"`
	UnitPrice       decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Subtotal        decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Currency        string           `gorm:"not null"                    json:"currency"`
}

type StringList []string

type StringMap map[string]string

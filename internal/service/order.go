package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vendaro/marketplace/internal/events"
	"github.com/vendaro/marketplace/internal/models"
	"github.com/vendaro/marketplace/internal/ordernum"
	"github.com/vendaro/marketplace/internal/repo"
	"github.com/vendaro/marketplace/internal/search"
	"github.com/vendaro/marketplace/internal/transport"
	"github.com/vendaro/marketplace/pkg/logging"
)

type OrderService struct {
	Repo     *repo.GormRepo
	Producer *events.Producer
	Index    *search.OrderIndex
	Currency string
	Now      func() time.Time
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// resolvedLine is one validated cart line with the catalog rows it priced
// against. Snapshots are taken from these rows, not re-read later.
type resolvedLine struct {
	product   *models.Product
	variant   *models.ProductVariant
	quantity  uint
	unitPrice decimal.Decimal
}

// CreateOrders turns the buyer's cart lines into one order per shop. The
// whole call is a single transaction: a failure in any shop group rolls back
// every order and stock decrement already made for the sibling groups.
func (s *OrderService) CreateOrders(ctx context.Context, userID uint, req transport.CreateOrdersRequest) ([]models.Order, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: items required", ErrValidation)
	}
	switch req.PaymentMethod {
	case models.PaymentMethodCOD, models.PaymentMethodBankTransfer, models.PaymentMethodEWallet:
	default:
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, req.PaymentMethod)
	}
	for i := range req.Items {
		if req.Items[i].ProductID == 0 {
			return nil, fmt.Errorf("%w: product_id required", ErrValidation)
		}
		if req.Items[i].Quantity == 0 {
			return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}
	}

	address, err := s.Repo.GetOwnedAddress(ctx, req.AddressID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: address %d", ErrNotFound, req.AddressID)
		}
		return nil, err
	}

	var created []models.Order
	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		lines, err := resolveLines(ctx, tx, req.Items)
		if err != nil {
			return err
		}

		groups := map[uint][]resolvedLine{}
		for _, line := range lines {
			groups[line.product.ShopID] = append(groups[line.product.ShopID], line)
		}
		shopIDs := make([]uint, 0, len(groups))
		for shopID := range groups {
			shopIDs = append(shopIDs, shopID)
		}
		sort.Slice(shopIDs, func(i, j int) bool { return shopIDs[i] < shopIDs[j] })

		voucherApplied := false
		for _, shopID := range shopIDs {
			order, usedVoucher, err := s.createShopOrder(ctx, tx, userID, address, shopID, groups[shopID], req)
			if err != nil {
				return err
			}
			voucherApplied = voucherApplied || usedVoucher
			created = append(created, *order)
		}

		if req.VoucherCode != "" && !voucherApplied {
			return fmt.Errorf("%w: voucher not found", ErrVoucherInvalid)
		}

		// The cart is cleared once, after every shop group succeeded.
		return tx.ClearCart(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	l := logging.FromContext(ctx)
	for i := range created {
		if err := s.Producer.PublishEvent(ctx, created[i].OrderNumber, map[string]any{
			"type":        "order_created",
			"orderID":     created[i].ID,
			"orderNumber": created[i].OrderNumber,
			"userID":      created[i].UserID,
			"shopID":      created[i].ShopID,
			"total":       created[i].Total.StringFixed(2),
		}); err != nil {
			l.Warn("order_event_publish_failed", "orderID", created[i].ID, "error", err)
		}
		if err := s.Index.IndexOrder(ctx, &created[i]); err != nil {
			l.Warn("order_index_failed", "orderID", created[i].ID, "error", err)
		}
	}

	return created, nil
}

// resolveLines is the all-or-nothing validation pass over the full cart.
// Nothing is mutated here; any failure aborts the whole call.
func resolveLines(ctx context.Context, tx *repo.GormRepo, items []transport.CreateOrderItem) ([]resolvedLine, error) {
	lines := make([]resolvedLine, 0, len(items))
	for _, item := range items {
		product, err := tx.GetProduct(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: product %d", ErrNotFound, item.ProductID)
			}
			return nil, err
		}
		if !product.IsActive {
			return nil, fmt.Errorf("%w: product %d is inactive", ErrNotFound, product.ID)
		}

		line := resolvedLine{product: product, quantity: item.Quantity, unitPrice: product.Price}
		available := product.TotalStock

		if item.VariantID != nil {
			variant, err := tx.GetVariant(ctx, *item.VariantID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, fmt.Errorf("%w: variant %d", ErrNotFound, *item.VariantID)
				}
				return nil, err
			}
			if variant.ProductID != product.ID {
				return nil, fmt.Errorf("%w: variant %d does not belong to product %d", ErrNotFound, variant.ID, product.ID)
			}
			if !variant.IsActive {
				return nil, fmt.Errorf("%w: variant %d is inactive", ErrNotFound, variant.ID)
			}
			line.variant = variant
			line.unitPrice = variant.Price
			available = variant.Stock
		}

		if int(item.Quantity) > available {
			return nil, fmt.Errorf("%w: product %d", ErrInsufficientStock, product.ID)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (s *OrderService) createShopOrder(ctx context.Context, tx *repo.GormRepo, userID uint, address *models.Address, shopID uint, lines []resolvedLine, req transport.CreateOrdersRequest) (*models.Order, bool, error) {
	shop, err := tx.GetShop(ctx, shopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, fmt.Errorf("%w: shop %d", ErrNotFound, shopID)
		}
		return nil, false, err
	}

	subtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		lineSubtotal := line.unitPrice.Mul(decimal.NewFromInt(int64(line.quantity)))
		subtotal = subtotal.Add(lineSubtotal)

		productID := line.product.ID
		item := models.OrderItem{
			ProductID: &productID,
			ProductSnapshot: models.ProductSnapshot{
				ProductID: line.product.ID,
				Title:     line.product.Title,
				Price:     line.product.Price,
				Images:    line.product.Images,
			},
			Quantity:  line.quantity,
			UnitPrice: line.unitPrice,
			Subtotal:  lineSubtotal,
			Currency:  s.Currency,
		}
		if line.variant != nil {
			variantID := line.variant.ID
			item.VariantID = &variantID
			item.VariantSnapshot = &models.VariantSnapshot{
				VariantID:  line.variant.ID,
				Name:       line.variant.Name,
				Price:      line.variant.Price,
				Attributes: line.variant.Attributes,
			}
		}
		items = append(items, item)
	}

	discount := decimal.Zero
	usedVoucher := false
	voucherCode := ""
	if req.VoucherCode != "" {
		check, err := validateVoucher(ctx, tx, req.VoucherCode, shop.ID, subtotal, s.now())
		if err != nil {
			return nil, false, err
		}
		switch {
		case check.Voucher == nil:
			// the code belongs to a different shop; this group gets no discount
		case !check.Valid:
			return nil, false, fmt.Errorf("%w: %s", ErrVoucherInvalid, check.Reason)
		default:
			if err := applyVoucher(ctx, tx, check.Voucher.ID); err != nil {
				return nil, false, err
			}
			discount = check.Discount
			usedVoucher = true
			voucherCode = check.Voucher.Code
		}
	}

	total := subtotal.Add(shop.ShippingFee).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	gen := &ordernum.Generator{Exists: tx.OrderNumberExists, Now: s.Now}
	number, err := gen.Generate(ctx)
	if err != nil {
		return nil, false, err
	}

	addressID := address.ID
	order := &models.Order{
		OrderNumber:     number,
		UserID:          userID,
		ShopID:          shop.ID,
		AddressID:       &addressID,
		ShippingAddress: snapshotAddress(address),
		Status:          models.OrderStatusPending,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   models.PaymentStatusPending,
		Subtotal:        subtotal,
		ShippingFee:     shop.ShippingFee,
		Discount:        discount,
		Total:           total,
		Currency:        s.Currency,
		VoucherCode:     voucherCode,
		Notes:           req.Notes,
		Items:           items,
	}
	if _, err := tx.CreateOrder(ctx, order); err != nil {
		return nil, false, err
	}

	for _, line := range lines {
		if line.variant != nil {
			err = tx.DecrementVariantStock(ctx, line.variant.ID, line.quantity)
		} else {
			err = tx.DecrementProductStock(ctx, line.product.ID, line.quantity)
		}
		if err != nil {
			if errors.Is(err, repo.ErrInsufficientStock) {
				return nil, false, fmt.Errorf("%w: product %d", ErrInsufficientStock, line.product.ID)
			}
			return nil, false, err
		}
	}

	return order, usedVoucher, nil
}

func snapshotAddress(address *models.Address) models.AddressSnapshot {
	return models.AddressSnapshot{
		Recipient:  address.Recipient,
		Phone:      address.Phone,
		Line1:      address.Line1,
		City:       address.City,
		PostalCode: address.PostalCode,
		Country:    address.Country,
	}
}

// CancelOrder is the buyer-side cancellation flow. The transition table only
// has a CANCELLED edge from PENDING and CONFIRMED, so anything further along
// the pipeline fails with ErrInvalidTransition.
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID uint, reason string) (*models.Order, error) {
	var order *models.Order
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		var err error
		order, err = tx.GetOrder(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
			}
			return err
		}
		if order.UserID != userID {
			return fmt.Errorf("%w: order %d", ErrForbidden, orderID)
		}
		return applyTransition(ctx, tx, order, models.OrderStatusCancelled, reason, s.now())
	})
	if err != nil {
		return nil, err
	}

	s.afterStatusChange(ctx, order, "order_cancelled")
	return order, nil
}

// UpdateStatus is the seller-side flow driving an order through the pipeline.
func (s *OrderService) UpdateStatus(ctx context.Context, ownerID, orderID uint, next models.OrderStatus) (*models.Order, error) {
	if !IsKnownStatus(next) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, next)
	}

	shop, err := s.Repo.GetShopByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: shop", ErrNotFound)
		}
		return nil, err
	}

	var order *models.Order
	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		var err error
		order, err = tx.GetOrder(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
			}
			return err
		}
		if order.ShopID != shop.ID {
			return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return applyTransition(ctx, tx, order, next, "", s.now())
	})
	if err != nil {
		return nil, err
	}

	s.afterStatusChange(ctx, order, "order_status_changed")
	return order, nil
}

// applyTransition checks the table and performs the entry side effects:
// CANCELLED restores stock line by line, COMPLETED stamps completed_at and
// settles payment. Every other transition is a status change only.
func applyTransition(ctx context.Context, tx *repo.GormRepo, order *models.Order, next models.OrderStatus, reason string, now time.Time) error {
	if !CanTransition(order.Status, next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, next)
	}

	switch next {
	case models.OrderStatusCancelled:
		for _, item := range order.Items {
			var err error
			switch {
			case item.VariantID != nil:
				err = tx.RestoreVariantStock(ctx, *item.VariantID, item.Quantity)
			case item.ProductID != nil:
				err = tx.RestoreProductStock(ctx, *item.ProductID, item.Quantity)
			}
			if err != nil {
				return err
			}
		}
		order.Status = next
		order.CancellationReason = reason
	case models.OrderStatusCompleted:
		completedAt := now
		order.Status = next
		order.CompletedAt = &completedAt
		order.PaymentStatus = models.PaymentStatusPaid
	default:
		order.Status = next
	}

	return tx.SaveOrder(ctx, order)
}

func (s *OrderService) afterStatusChange(ctx context.Context, order *models.Order, eventType string) {
	l := logging.FromContext(ctx)
	if err := s.Producer.PublishEvent(ctx, order.OrderNumber, map[string]any{
		"type":        eventType,
		"orderID":     order.ID,
		"orderNumber": order.OrderNumber,
		"status":      order.Status,
	}); err != nil {
		l.Warn("order_event_publish_failed", "orderID", order.ID, "error", err)
	}
	if err := s.Index.IndexOrder(ctx, order); err != nil {
		l.Warn("order_index_failed", "orderID", order.ID, "error", err)
	}
}

func (s *OrderService) GetOrderForUser(ctx context.Context, orderID, userID uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}
	return order, nil
}

func (s *OrderService) ListOrdersForUser(ctx context.Context, userID uint, status models.OrderStatus, offset, limit int) (int64, []models.Order, error) {
	if status != "" && !IsKnownStatus(status) {
		return 0, nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	return s.Repo.ListOrdersByUser(ctx, userID, status, offset, limit)
}

func (s *OrderService) ListOrdersForShop(ctx context.Context, ownerID uint, status models.OrderStatus, offset, limit int) (int64, []models.Order, error) {
	if status != "" && !IsKnownStatus(status) {
		return 0, nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	shop, err := s.Repo.GetShopByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil, fmt.Errorf("%w: shop", ErrNotFound)
		}
		return 0, nil, err
	}
	return s.Repo.ListOrdersByShop(ctx, shop.ID, status, offset, limit)
}

// SearchShopOrders resolves ids from the search index, then loads the rows
// from the database so the response matches the list endpoints.
func (s *OrderService) SearchShopOrders(ctx context.Context, ownerID uint, query string, offset, limit int) (int64, []models.Order, error) {
	shop, err := s.Repo.GetShopByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil, fmt.Errorf("%w: shop", ErrNotFound)
		}
		return 0, nil, err
	}

	total, ids, err := s.Index.SearchShopOrders(ctx, shop.ID, query, offset, limit)
	if err != nil {
		return 0, nil, err
	}
	if len(ids) == 0 {
		return total, nil, nil
	}

	orders, err := s.Repo.GetOrdersByIDs(ctx, ids)
	if err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}

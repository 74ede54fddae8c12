package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/vendaro/marketplace/internal/models"
)

// OrderIndex mirrors committed orders into Elasticsearch for seller-side
// search. It is nil-safe: without a configured cluster every call is a no-op.
type OrderIndex struct {
	ES    *elasticsearch.Client
	Index string
}

type orderDoc struct {
	ID          uint               `json:"id"`
	OrderNumber string             `json:"order_number"`
	UserID      uint               `json:"user_id"`
	ShopID      uint               `json:"shop_id"`
	Status      models.OrderStatus `json:"status"`
	Recipient   string             `json:"recipient"`
	ItemTitles  []string           `json:"item_titles"`
	Total       string             `json:"total"`
}

func NewOrderIndex(client *elasticsearch.Client, index string) *OrderIndex {
	return &OrderIndex{ES: client, Index: index}
}

func (ix *OrderIndex) IndexOrder(ctx context.Context, order *models.Order) error {
	if ix == nil || ix.ES == nil {
		return nil
	}

	doc := orderDoc{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		ShopID:      order.ShopID,
		Status:      order.Status,
		Recipient:   order.ShippingAddress.Recipient,
		Total:       order.Total.StringFixed(2),
	}
	for _, item := range order.Items {
		doc.ItemTitles = append(doc.ItemTitles, item.ProductSnapshot.Title)
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("index order: %w", err)
	}

	res, err := ix.ES.Index(
		ix.Index,
		&buf,
		ix.ES.Index.WithDocumentID(strconv.FormatUint(uint64(order.ID), 10)),
		ix.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index order: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index order: %s", res.Status())
	}
	return nil
}

// SearchShopOrders runs a fuzzy multi_match over order number, recipient and
// item titles, scoped to one shop. Returns total hits and matching order ids.
func (ix *OrderIndex) SearchShopOrders(ctx context.Context, shopID uint, query string, from, size int) (int64, []uint, error) {
	if ix == nil || ix.ES == nil {
		return 0, nil, nil
	}

	body := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":     query,
						"fields":    []string{"order_number^2", "recipient", "item_titles"},
						"fuzziness": "AUTO",
					},
				},
				"filter": map[string]interface{}{
					"term": map[string]interface{}{"shop_id": shopID},
				},
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search orders: %w", err)
	}

	res, err := ix.ES.Search(
		ix.ES.Search.WithContext(ctx),
		ix.ES.Search.WithIndex(ix.Index),
		ix.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search orders: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, nil, fmt.Errorf("search orders: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source orderDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	ids := make([]uint, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		ids[i] = hit.Source.ID
	}
	return r.Hits.Total.Value, ids, nil
}

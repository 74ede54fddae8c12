package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vendaro/marketplace/internal/models"
	"github.com/vendaro/marketplace/internal/transport"
	"github.com/vendaro/marketplace/internal/util"
	"github.com/vendaro/marketplace/pkg/logging"
)

func (h *OrderHTTP) ListShopOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_shop_orders")

	ownerID, err := GetUserID(c)
	if err != nil {
		l.Warn("list_shop_orders_error", "status", 401, "reason", "invalid token", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)
	status := models.OrderStatus(c.QueryParam("status"))

	total, orders, err := h.Svc.ListOrdersForShop(ctx, ownerID, status, offset, limit)
	if err != nil {
		st, msg := statusFromErr(err)
		l.Warn("list_shop_orders_error", "status", st, "reason", msg, "error", err)
		return echo.NewHTTPError(st, msg)
	}

	l.Info("list_shop_orders_success")
	return c.JSON(http.StatusOK, map[string]any{
		"data": orders,
		"meta": pageMeta(page, limit, offset, total),
	})
}

func (h *OrderHTTP) SearchShopOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.search_shop_orders")

	ownerID, err := GetUserID(c)
	if err != nil {
		l.Warn("search_shop_orders_error", "status", 401, "reason", "invalid token", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	query := c.QueryParam("q")
	if query == "" {
		l.Warn("search_shop_orders_error", "status", 400, "reason", "q required")
		return echo.NewHTTPError(http.StatusBadRequest, "q required")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, orders, err := h.Svc.SearchShopOrders(ctx, ownerID, query, offset, limit)
	if err != nil {
		st, msg := statusFromErr(err)
		if st >= 500 {
			l.Error("search_shop_orders_error", "status", st, "reason", msg, "error", err)
		} else {
			l.Warn("search_shop_orders_error", "status", st, "reason", msg, "error", err)
		}
		return echo.NewHTTPError(st, msg)
	}

	l.Info("search_shop_orders_success")
	return c.JSON(http.StatusOK, map[string]any{
		"data": orders,
		"meta": pageMeta(page, limit, offset, total),
	})
}

func (h *OrderHTTP) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_order_status")

	ownerID, err := GetUserID(c)
	if err != nil {
		l.Warn("update_order_status_error", "status", 401, "reason", "invalid token", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("update_order_status_error", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var req transport.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_order_status_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.UpdateStatus(ctx, ownerID, uint(id), req.Status)
	if err != nil {
		status, msg := statusFromErr(err)
		l.Warn("update_order_status_error", "status", status, "reason", msg, "error", err)
		return echo.NewHTTPError(status, msg)
	}

	l.Info("update_order_status_success", "orderID", order.ID, "orderStatus", order.Status)
	return c.JSON(http.StatusOK, order)
}

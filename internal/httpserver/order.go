package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vendaro/marketplace/internal/models"
	"github.com/vendaro/marketplace/internal/service"
	"github.com/vendaro/marketplace/internal/transport"
	"github.com/vendaro/marketplace/internal/util"
	"github.com/vendaro/marketplace/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) CreateOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_orders")

	userID, err := GetUserID(c)
	if err != nil {
		l.Warn("create_orders_error", "status", 401, "reason", "invalid token", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	var req transport.CreateOrdersRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_orders_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	orders, err := h.Svc.CreateOrders(ctx, userID, req)
	if err != nil {
		status, msg := statusFromErr(err)
		if status >= 500 {
			l.Error("create_orders_error", "status", status, "reason", msg, "error", err)
		} else {
			l.Warn("create_orders_error", "status", status, "reason", msg, "error", err)
		}
		return echo.NewHTTPError(status, msg)
	}

	l.Info("create_orders_success", "count", len(orders))
	return c.JSON(http.StatusCreated, orders)
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_orders")

	userID, err := GetUserID(c)
	if err != nil {
		l.Warn("list_orders_error", "status", 401, "reason", "invalid token", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)
	status := models.OrderStatus(c.QueryParam("status"))

	total, orders, err := h.Svc.ListOrdersForUser(ctx, userID, status, offset, limit)
	if err != nil {
		st, msg := statusFromErr(err)
		l.Warn("list_orders_error", "status", st, "reason", msg, "error", err)
		return echo.NewHTTPError(st, msg)
	}

	l.Info("list_orders_success")
	return c.JSON(http.StatusOK, map[string]any{
		"data": orders,
		"meta": pageMeta(page, limit, offset, total),
	})
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	userID, err := GetUserID(c)
	if err != nil {
		l.Warn("get_order_error", "status", 401, "reason", "invalid token", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("get_order_error", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	order, err := h.Svc.GetOrderForUser(ctx, uint(id), userID)
	if err != nil {
		status, msg := statusFromErr(err)
		l.Warn("get_order_error", "status", status, "reason", msg, "error", err)
		return echo.NewHTTPError(status, msg)
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel_order")

	userID, err := GetUserID(c)
	if err != nil {
		l.Warn("cancel_order_error", "status", 401, "reason", "invalid token", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("cancel_order_error", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var req transport.CancelOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("cancel_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.CancelOrder(ctx, userID, uint(id), req.Reason)
	if err != nil {
		status, msg := statusFromErr(err)
		l.Warn("cancel_order_error", "status", status, "reason", msg, "error", err)
		return echo.NewHTTPError(status, msg)
	}

	l.Info("cancel_order_success", "orderID", order.ID)
	return c.JSON(http.StatusOK, order)
}

package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vendaro/marketplace/internal/service"
	"github.com/vendaro/marketplace/internal/transport"
	"github.com/vendaro/marketplace/internal/util"
	"github.com/vendaro/marketplace/pkg/logging"
)

type VoucherHTTP struct {
	Svc *service.VoucherService
}

func (h *VoucherHTTP) CreateVoucher(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "voucher.create_voucher")

	ownerID, err := GetUserID(c)
	if err != nil {
		l.Warn("create_voucher_error", "status", 401, "reason", "invalid token", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	var req transport.CreateVoucherRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_voucher_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	voucher, err := h.Svc.CreateVoucher(ctx, ownerID, req)
	if err != nil {
		status, msg := statusFromErr(err)
		l.Warn("create_voucher_error", "status", status, "reason", msg, "error", err)
		return echo.NewHTTPError(status, msg)
	}

	l.Info("create_voucher_success", "voucherID", voucher.ID)
	return c.JSON(http.StatusCreated, voucher)
}

func (h *VoucherHTTP) ListVouchers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "voucher.list_vouchers")

	ownerID, err := GetUserID(c)
	if err != nil {
		l.Warn("list_vouchers_error", "status", 401, "reason", "invalid token", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, vouchers, err := h.Svc.ListVouchers(ctx, ownerID, offset, limit)
	if err != nil {
		status, msg := statusFromErr(err)
		l.Warn("list_vouchers_error", "status", status, "reason", msg, "error", err)
		return echo.NewHTTPError(status, msg)
	}

	l.Info("list_vouchers_success")
	return c.JSON(http.StatusOK, map[string]any{
		"data": vouchers,
		"meta": pageMeta(page, limit, offset, total),
	})
}

func (h *VoucherHTTP) PatchVoucher(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "voucher.patch_voucher")

	ownerID, err := GetUserID(c)
	if err != nil {
		l.Warn("patch_voucher_error", "status", 401, "reason", "invalid token", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("patch_voucher_error", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var req transport.PatchVoucherRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_voucher_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	voucher, err := h.Svc.PatchVoucher(ctx, ownerID, uint(id), req)
	if err != nil {
		status, msg := statusFromErr(err)
		l.Warn("patch_voucher_error", "status", status, "reason", msg, "error", err)
		return echo.NewHTTPError(status, msg)
	}

	l.Info("patch_voucher_success", "voucherID", voucher.ID)
	return c.JSON(http.StatusOK, voucher)
}

package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	middleware "github.com/vendaro/marketplace/pkg/middleware/auth"
)

type Deps struct {
	OrderHandler   *OrderHTTP
	VoucherHandler *VoucherHTTP
	JWTSecret      []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMW := middleware.NewAuthMiddleware(d.JWTSecret)

	orders := e.Group("/orders", authMW.RequireAuth)
	orders.POST("", d.OrderHandler.CreateOrders)
	orders.GET("", d.OrderHandler.ListOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.POST("/:id/cancel", d.OrderHandler.CancelOrder)

	shop := e.Group("/shop", authMW.RequireSeller)
	shop.GET("/orders", d.OrderHandler.ListShopOrders)
	shop.GET("/orders/search", d.OrderHandler.SearchShopOrders)
	shop.PATCH("/orders/:id/status", d.OrderHandler.UpdateOrderStatus)
	shop.POST("/vouchers", d.VoucherHandler.CreateVoucher)
	shop.GET("/vouchers", d.VoucherHandler.ListVouchers)
	shop.PATCH("/vouchers/:id", d.VoucherHandler.PatchVoucher)
}

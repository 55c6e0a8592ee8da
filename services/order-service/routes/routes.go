package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/lumora-candles/backend/services/common/middleware"
	"github.com/lumora-candles/backend/services/order-service/controllers"
)

// RegisterOrderRoutes wires the order HTTP surface. Admin routes require a
// verified token carrying the admin role; the token itself is issued by the
// external auth service.
func RegisterOrderRoutes(r *gin.Engine, oc *controllers.OrderController, jwtSecret string) {
	orders := r.Group("/orders")
	{
		orders.POST("/", oc.CreateOrder)
		orders.GET("/user/:email", oc.GetUserOrders)
		orders.GET("/:id", oc.GetOrderByID)
	}

	admin := r.Group("/orders", middleware.RequireAuth(jwtSecret), middleware.RequireAdmin())
	{
		admin.GET("/admin/all", oc.GetAllOrders)
		admin.PATCH("/:id/status", oc.UpdateOrderStatus)
		admin.DELETE("/:id", oc.DeleteOrder)
	}
}

package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/lumora-candles/backend/services/cart-service/controllers"
)

// RegisterCartRoutes wires the cart HTTP surface. Carts are keyed by the
// X-Session-ID header; no authentication is required until checkout reaches
// the order service.
func RegisterCartRoutes(r *gin.Engine, cc *controllers.CartController) {
	cart := r.Group("/cart")
	{
		cart.GET("", cc.GetCart)
		cart.GET("/watch", cc.WatchCart)
		cart.POST("/items", cc.AddItem)
		cart.DELETE("/items/:productId", cc.RemoveItem)
		cart.DELETE("", cc.ClearCart)
		cart.POST("/checkout", cc.Checkout)
	}
}

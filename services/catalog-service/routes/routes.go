package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/lumora-candles/backend/services/catalog-service/controllers"
	"github.com/lumora-candles/backend/services/common/middleware"
)

// RegisterProductRoutes wires the catalog HTTP surface. Reads and review
// submission are public; writes require a verified admin token issued by the
// external auth service.
func RegisterProductRoutes(r *gin.Engine, pc *controllers.ProductController, jwtSecret string) {
	products := r.Group("/products")
	{
		products.GET("", pc.GetProducts)
		products.GET("/:id", pc.GetProductByID)
		products.POST("/:id/reviews", pc.AddReview)
	}

	admin := r.Group("/products", middleware.RequireAuth(jwtSecret), middleware.RequireAdmin())
	{
		admin.POST("", pc.CreateProduct)
		admin.PUT("/:id", pc.UpdateProduct)
		admin.DELETE("/:id", pc.DeleteProduct)
		admin.GET("/uploads/presign", pc.GetPresignedUpload)
	}
}

package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"marketplace-admin/cache"
	"marketplace-admin/firebase"
	"marketplace-admin/handlers"
	"marketplace-admin/metrics"
	"marketplace-admin/middleware"
)

// Deps carries what the handlers need. Storage and Cache may be nil.
type Deps struct {
	DB           *gorm.DB
	Storage      firebase.StorageClient
	Cache        cache.TreeCache
	Log          *zap.Logger
	LoginLimiter *middleware.RateLimiter
}

func SetupRoutes(r *gin.Engine, d Deps) {
	authHandler := &handlers.AuthHandler{DB: d.DB, Log: d.Log}
	categoryHandler := &handlers.CategoryHandler{DB: d.DB, Cache: d.Cache, Log: d.Log}
	attributeHandler := &handlers.AttributeHandler{DB: d.DB, Log: d.Log}
	adminProductHandler := &handlers.AdminProductHandler{DB: d.DB, Storage: d.Storage, Log: d.Log}
	sellerProductHandler := &handlers.SellerProductHandler{DB: d.DB, Storage: d.Storage, Log: d.Log}
	userHandler := &handlers.UserHandler{DB: d.DB, Log: d.Log}
	orderHandler := &handlers.OrderHandler{DB: d.DB, Log: d.Log}
	commissionHandler := &handlers.CommissionHandler{DB: d.DB, Log: d.Log}
	dashboardHandler := &handlers.DashboardHandler{DB: d.DB, Log: d.Log}
	profileHandler := &handlers.ProfileHandler{DB: d.DB, Storage: d.Storage, Log: d.Log}

	api := r.Group("/api/v1")

	// Auth routes
	auth := api.Group("/auth")
	{
		login := []gin.HandlerFunc{authHandler.Login}
		if d.LoginLimiter != nil {
			login = append([]gin.HandlerFunc{d.LoginLimiter.Middleware()}, login...)
		}
		auth.POST("/login", login...)
		auth.POST("/register/seller", authHandler.RegisterSeller)

		auth.GET("/me", middleware.AuthMiddleware(), authHandler.Me)
		auth.POST("/register/admin", middleware.AuthMiddleware(), middleware.AdminMiddleware(), authHandler.RegisterAdmin)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/dashboard", dashboardHandler.GetDashboard)

		// Categories
		admin.GET("/categories", categoryHandler.GetCategories)
		admin.GET("/categories/tree", categoryHandler.GetCategoryTree)
		admin.GET("/categories/:id", categoryHandler.GetCategory)
		admin.GET("/categories/:id/path", categoryHandler.GetCategoryPath)
		admin.POST("/categories", categoryHandler.CreateCategory)
		admin.PUT("/categories/:id", categoryHandler.UpdateCategory)
		admin.DELETE("/categories/:id", categoryHandler.DeleteCategory)

		// Attributes, values and category links
		attrs := admin.Group("/attributes")
		attrs.GET("", attributeHandler.GetAttributes)
		attrs.POST("", attributeHandler.CreateAttribute)
		attrs.POST("/values", attributeHandler.CreateAttributeValue)
		attrs.PUT("/values/:value_id", attributeHandler.UpdateAttributeValue)
		attrs.DELETE("/values/:value_id", attributeHandler.DeleteAttributeValue)
		attrs.GET("/category-attributes/:category_id", attributeHandler.GetCategoryAttributes)
		attrs.POST("/category-attributes", attributeHandler.CreateCategoryAttribute)
		attrs.PUT("/category-attributes/:id", attributeHandler.UpdateCategoryAttribute)
		attrs.DELETE("/category-attributes/:id", attributeHandler.DeleteCategoryAttribute)
		attrs.GET("/available/:category_id", attributeHandler.GetAvailableAttributes)
		attrs.GET("/:id", attributeHandler.GetAttribute)
		attrs.PUT("/:id", attributeHandler.UpdateAttribute)
		attrs.DELETE("/:id", attributeHandler.DeleteAttribute)
		attrs.GET("/:id/values", attributeHandler.GetAttributeValues)

		// Product review
		admin.GET("/products", adminProductHandler.GetProducts)
		admin.GET("/products/pending", adminProductHandler.GetPendingProducts)
		admin.GET("/products/:id", adminProductHandler.GetProduct)
		admin.PUT("/products/:id/approve", adminProductHandler.ApproveProduct)
		admin.PUT("/products/:id/status", adminProductHandler.UpdateProductStatus)
		admin.POST("/products/:id/recalculate-commission", adminProductHandler.RecalculateCommission)
		admin.DELETE("/products/:id", adminProductHandler.DeleteProduct)

		// Users and sellers
		admin.GET("/users", userHandler.GetUsers)
		admin.GET("/users/stats", userHandler.GetUserStats)
		admin.GET("/users/sellers", userHandler.GetSellers)
		admin.PUT("/users/sellers/:id/status", userHandler.UpdateSellerStatus)
		admin.GET("/users/:id", userHandler.GetUser)
		admin.PUT("/users/:id/status", userHandler.UpdateUserStatus)
		admin.DELETE("/users/:id", userHandler.DeleteUser)

		// Orders
		admin.GET("/orders", orderHandler.GetOrders)
		admin.GET("/orders/stats", orderHandler.GetOrderStats)
		admin.GET("/orders/pending", orderHandler.GetPendingOrders)
		admin.GET("/orders/:id", orderHandler.GetOrder)
		admin.PUT("/orders/:id/status", orderHandler.UpdateOrderStatus)
		admin.PUT("/orders/:id/payment", orderHandler.UpdatePaymentStatus)
		admin.POST("/orders/:id/cancel", orderHandler.CancelOrder)

		// Commissions
		admin.GET("/commissions", commissionHandler.GetCommissionSettings)
		admin.POST("/commissions", commissionHandler.CreateCommissionSetting)
		admin.POST("/commissions/calculate", commissionHandler.Calculate)
		admin.GET("/commissions/rate/calculate", commissionHandler.GetApplicableRate)
		admin.GET("/commissions/global/rate", commissionHandler.GetGlobalRate)
		admin.GET("/commissions/:id", commissionHandler.GetCommissionSetting)
		admin.PUT("/commissions/:id", commissionHandler.UpdateCommissionSetting)
		admin.DELETE("/commissions/:id", commissionHandler.DeleteCommissionSetting)
	}

	seller := api.Group("/seller")
	seller.Use(middleware.AuthMiddleware())
	seller.Use(middleware.SellerMiddleware())
	{
		seller.GET("/products", sellerProductHandler.GetProducts)
		seller.GET("/products/pending/count", sellerProductHandler.PendingCount)
		seller.GET("/products/approved/count", sellerProductHandler.ApprovedCount)
		seller.GET("/products/:id", sellerProductHandler.GetProduct)
		seller.POST("/products", sellerProductHandler.CreateProduct)
		seller.PUT("/products/:id", sellerProductHandler.UpdateProduct)
		seller.DELETE("/products/:id", sellerProductHandler.DeleteProduct)
		seller.PUT("/products/:id/variants", sellerProductHandler.ReplaceVariants)
		seller.POST("/products/:id/images", sellerProductHandler.UploadImage)

		seller.GET("/categories/tree", categoryHandler.GetActiveCategoryTree)
		seller.GET("/categories/:id/attributes", attributeHandler.GetSellerCategoryAttributes)

		seller.GET("/profile", profileHandler.GetProfile)
		seller.PUT("/profile", profileHandler.UpdateProfile)
		seller.PUT("/profile/password", profileHandler.ChangePassword)
		seller.DELETE("/profile/profile-picture", profileHandler.DeleteProfilePicture)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))
}

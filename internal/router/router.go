package router

import (
	"github.com/adeliap/rotiku-backend/config"
	"github.com/adeliap/rotiku-backend/internal/app/controller"
	"github.com/adeliap/rotiku-backend/internal/middleware"
	"github.com/adeliap/rotiku-backend/internal/websocket"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authController     *controller.AuthController
	productController  *controller.ProductController
	categoryController *controller.CategoryController
	cartController     *controller.CartController
	orderController    *controller.OrderController
	voucherController  *controller.VoucherController
	storeController    *controller.StoreController
	uploadController   *controller.UploadController
	wsController       *controller.WSController
	authMiddleware     *middleware.AuthMiddleware
	hub                *websocket.Hub
	config             *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	categoryController *controller.CategoryController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	voucherController *controller.VoucherController,
	storeController *controller.StoreController,
	uploadController *controller.UploadController,
	wsController *controller.WSController,
	authMiddleware *middleware.AuthMiddleware,
	hub *websocket.Hub,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:     authController,
		productController:  productController,
		categoryController: categoryController,
		cartController:     cartController,
		orderController:    orderController,
		voucherController:  voucherController,
		storeController:    storeController,
		uploadController:   uploadController,
		wsController:       wsController,
		authMiddleware:     authMiddleware,
		hub:                hub,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":      "healthy",
			"message":     "Rotiku API is running",
			"ws_sessions": r.hub.ConnectedSessions(),
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateProfile)
		}

		// Catalog browsing is public so the storefront works before login.
		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/:id", r.productController.GetProductByID)
			products.GET("/:id/addons", r.productController.GetProductAddons)
		}

		jenis := v1.Group("/jenis")
		{
			jenis.GET("", r.categoryController.ListJenis)
			jenis.GET("/:id/sub", r.categoryController.ListSubJenis)
		}

		v1.GET("/store/status", r.storeController.GetStatus)

		v1.POST("/vouchers/validate",
			r.authMiddleware.Authenticate(),
			r.voucherController.ValidateVoucher,
		)

		cart := v1.Group("/cart")
		cart.Use(r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("", r.cartController.AddToCart)
			cart.PUT("/:cartKey", r.cartController.UpdateQuantity)
			cart.PATCH("/:cartKey", r.cartController.EditCartItem)
			cart.DELETE("/:cartKey", r.cartController.RemoveFromCart)
			cart.DELETE("", r.cartController.ClearCart)
		}

		orders := v1.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		{
			orders.POST("/checkout", r.orderController.Checkout)
			orders.GET("", r.orderController.GetMyOrders)
			orders.GET("/:id", r.orderController.GetOrder)
		}

		kasir := v1.Group("/kasir")
		kasir.Use(r.authMiddleware.Authenticate())
		kasir.Use(r.authMiddleware.RequireRole("kasir", "admin"))
		{
			kasir.GET("/orders", r.orderController.ListStaffOrders)
			kasir.GET("/orders/:id", r.orderController.GetStaffOrder)
			kasir.PATCH("/orders/:id/status", r.orderController.UpdateOrderStatus)
			kasir.PATCH("/orders/:id/payment", r.orderController.UpdatePaymentStatus)

			kasir.PUT("/store/closure", r.storeController.SetClosure)

			kasir.GET("/reports/summary", r.orderController.GetSalesSummary)
			kasir.GET("/reports/orders.xlsx", r.orderController.ExportOrders)

			kasir.GET("/ws", r.wsController.Connect)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate())
		admin.Use(r.authMiddleware.RequireRole("admin"))
		{
			admin.POST("/products", r.productController.CreateProduct)
			admin.PUT("/products/:id", r.productController.UpdateProduct)
			admin.DELETE("/products/:id", r.productController.DeleteProduct)

			admin.POST("/products/:id/addons", r.productController.CreateAddon)
			admin.PUT("/addons/:id", r.productController.UpdateAddon)
			admin.DELETE("/addons/:id", r.productController.DeleteAddon)

			admin.POST("/jenis", r.categoryController.CreateJenis)
			admin.PUT("/jenis/:id", r.categoryController.UpdateJenis)
			admin.DELETE("/jenis/:id", r.categoryController.DeleteJenis)

			admin.POST("/sub-jenis", r.categoryController.CreateSubJenis)
			admin.PUT("/sub-jenis/:id", r.categoryController.UpdateSubJenis)
			admin.DELETE("/sub-jenis/:id", r.categoryController.DeleteSubJenis)

			admin.GET("/vouchers", r.voucherController.ListVouchers)
			admin.POST("/vouchers", r.voucherController.CreateVoucher)
			admin.PUT("/vouchers/:id", r.voucherController.UpdateVoucher)
			admin.DELETE("/vouchers/:id", r.voucherController.DeleteVoucher)

			admin.GET("/staff", r.authController.ListStaff)
			admin.POST("/staff", r.authController.CreateStaff)

			admin.POST("/upload/presigned-url", r.uploadController.GeneratePresignedURL)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

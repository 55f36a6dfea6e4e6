package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"backend/internal/cache"
	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handlers"
	"backend/internal/inventory"
	"backend/internal/logger"
	"backend/internal/middleware"
	"backend/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config:", err)
	}

	zl, err := logger.New()
	if err != nil {
		log.Fatal("logger:", err)
	}
	defer zl.Sync()
	sl := zl.Sugar()

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		sl.Fatalw("mongo connect failed", "error", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			sl.Warnw("mongo disconnect failed", "error", err)
		}
	}()
	db := client.Database(cfg.DBName)

	for name, ensure := range map[string]func() error{
		"users":    func() error { return database.EnsureUserIndexes(db) },
		"products": func() error { return database.EnsureProductIndexes(db) },
		"ledger":   func() error { return database.EnsureMovementIndexes(db) },
		"orders":   func() error { return database.EnsureOrderIndexes(db) },
		"coupons":  func() error { return database.EnsureCouponIndexes(db) },
	} {
		if err := ensure(); err != nil {
			sl.Fatalw("index bootstrap failed", "collection", name, "error", err)
		}
	}

	dashboards, err := cache.NewDashboardCache(cache.Config{
		Addr:       cfg.RedisAddr,
		Password:   cfg.RedisPassword,
		DB:         cfg.RedisDB,
		TTLSeconds: cfg.DashboardTTL,
	})
	if err != nil {
		sl.Fatalw("redis connect failed", "error", err)
	}
	if !cfg.CacheEnabled() {
		sl.Infow("dashboard cache disabled, REDIS_ADDR not set")
	}

	var store storage.ObjectStorage = storage.Disabled{}
	if cfg.StorageEnabled() {
		store, err = storage.NewMinioClient(storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			sl.Fatalw("object storage connect failed", "error", err)
		}
	} else {
		sl.Infow("uploads disabled, MINIO_ENDPOINT not set")
	}

	stock := inventory.NewService(db, sl)

	router := gin.Default()
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	// Public.
	api.POST("/auth/register", handlers.Register(db, sl, cfg.JWTSecret, cfg.AccessTTL(), cfg.RefreshTTL()))
	api.POST("/auth/login", handlers.Login(db, sl, cfg.JWTSecret, cfg.AccessTTL(), cfg.RefreshTTL()))
	api.POST("/auth/refresh", handlers.Refresh(db, sl, cfg.JWTSecret, cfg.AccessTTL(), cfg.RefreshTTL()))
	api.POST("/auth/logout", handlers.Logout(db))
	api.GET("/categories", handlers.GetCategories(db))
	api.GET("/payment-settings", handlers.GetPaymentSettings(db))
	api.POST("/coupons/validate", handlers.ValidateCoupon(db))

	// Any signed-in user.
	user := api.Group("", middleware.UserAuth(cfg.JWTSecret))
	user.GET("/auth/me", handlers.GetMe(db))
	user.PUT("/auth/me", handlers.UpdateProfile(db))
	user.GET("/products", handlers.GetProducts(db, cfg.LowStockLimit))
	user.GET("/products/:id", handlers.GetProduct(db))
	user.POST("/orders", handlers.CreateOrder(db, dashboards, sl))
	user.GET("/orders/:id", handlers.GetOrder(db))
	user.POST("/orders/:id/payment-slip", handlers.UploadPaymentSlip(db, store, sl))
	user.GET("/uploads/url", handlers.GetUploadURL(store))

	// Staff and admin.
	staff := api.Group("", middleware.StaffAuth(cfg.JWTSecret))
	staff.GET("/orders", handlers.GetOrders(db))
	staff.PUT("/orders/:id/shipping", handlers.UpdateShipping(db, sl))
	staff.POST("/products", handlers.CreateProduct(db, dashboards, sl))
	staff.PUT("/products/:id", handlers.UpdateProduct(db, sl))
	staff.POST("/products/:id/variants", handlers.AddVariant(db, sl))
	staff.POST("/products/:id/stock/add", handlers.AddStock(stock, dashboards, sl))
	staff.POST("/products/:id/stock/withdraw", handlers.WithdrawStock(stock, dashboards, sl))
	staff.GET("/products/:id/movements", handlers.GetMovements(stock))
	staff.POST("/products/:id/image", handlers.UploadProductImage(db, store, sl))
	staff.GET("/dashboard/summary", handlers.GetDashboardSummary(db, dashboards, cfg.LowStockLimit, sl))
	staff.GET("/dashboard/low-stock", handlers.GetLowStockAlerts(db, cfg.LowStockLimit))

	// Admin only.
	admin := api.Group("", middleware.AdminAuth(cfg.JWTSecret))
	admin.POST("/auth/staff", handlers.CreateStaffUser(db, sl))
	admin.DELETE("/products/:id", handlers.DeleteProduct(db, dashboards, sl))
	admin.POST("/categories", handlers.CreateCategory(db))
	admin.PUT("/categories/:id", handlers.UpdateCategory(db))
	admin.DELETE("/categories/:id", handlers.DeleteCategory(db))
	admin.GET("/coupons", handlers.GetCoupons(db))
	admin.POST("/coupons", handlers.CreateCoupon(db, sl))
	admin.PUT("/coupons/:id", handlers.UpdateCoupon(db))
	admin.DELETE("/coupons/:id", handlers.DeleteCoupon(db))
	admin.PUT("/payment-settings", handlers.UpdatePaymentSettings(db, sl))
	admin.POST("/payment-settings/accounts/:accountId/qr", handlers.UploadPaymentQR(db, store, sl))

	sl.Infow("listening", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		sl.Fatalw("server stopped", "error", err)
	}
}

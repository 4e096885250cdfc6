package router

import (
	"net/http"

	"shop-service/internal/models"
	"shop-service/internal/transport/http/dto"
	"shop-service/internal/transport/http/handlers"
	"shop-service/internal/transport/http/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Deps struct {
	Accounts     handlers.AccountAPI
	Catalog      handlers.CatalogAPI
	Orders       handlers.OrderAPI
	Carts        handlers.CartAPI
	Auth         middleware.Authenticator
	CookieSecure bool
}

func Router(d Deps, log *zap.Logger) *gin.Engine {
	dto.UseJSONFieldNames()

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	accountHandler := handlers.NewAccountHandler(d.Accounts, d.CookieSecure, log)
	productHandler := handlers.NewProductHandler(d.Catalog, log)
	orderHandler := handlers.NewOrderHandler(d.Orders, d.Carts, log)

	r.POST("/users/signup", accountHandler.Signup)
	r.POST("/users/login", accountHandler.Login)
	r.POST("/users/logout", accountHandler.Logout)

	authed := r.Group("/", middleware.AuthRequired(d.Auth, log))
	admin := middleware.RequireRole(models.RoleAdmin)

	users := authed.Group("/users")
	{
		users.GET("", accountHandler.List)
		users.GET("/me", accountHandler.Me)
	}

	products := authed.Group("/products")
	{
		products.GET("", productHandler.List)
		products.GET("/:id", productHandler.Get)
		products.POST("", admin, productHandler.Create)
		products.PUT("/:id", admin, productHandler.Put)
		products.PATCH("/:id/stock", admin, productHandler.UpdateStock)
		products.DELETE("/:id", admin, productHandler.Delete)
	}

	orders := authed.Group("/orders")
	{
		orders.POST("", orderHandler.Create)
		orders.GET("", orderHandler.List)
		orders.GET("/latest", orderHandler.Latest)
		orders.GET("/:id", orderHandler.Get)
	}

	cart := authed.Group("/cart")
	{
		cart.GET("", orderHandler.Cart)
		cart.POST("/items", orderHandler.AddToCart)
		cart.DELETE("/items/:productId", orderHandler.RemoveFromCart)
		cart.POST("/checkout", orderHandler.Checkout)
	}

	return r
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
		)
	}
}

package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/daily-report-backend/config"
	"github.com/ikkim/daily-report-backend/internal/app/controller"
	"github.com/ikkim/daily-report-backend/internal/app/model"
	"github.com/ikkim/daily-report-backend/internal/middleware"
	"golang.org/x/time/rate"
)

type Router struct {
	authController        *controller.AuthController
	reportController      *controller.ReportController
	commentController     *controller.CommentController
	customerController    *controller.CustomerController
	salesPersonController *controller.SalesPersonController
	authMiddleware        *middleware.AuthMiddleware
	config                *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	reportController *controller.ReportController,
	commentController *controller.CommentController,
	customerController *controller.CustomerController,
	salesPersonController *controller.SalesPersonController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:        authController,
		reportController:      reportController,
		commentController:     commentController,
		customerController:    customerController,
		salesPersonController: salesPersonController,
		authMiddleware:        authMiddleware,
		config:                cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Daily report API is running",
		})
	})

	authenticated := r.authMiddleware.Authenticate()
	adminOnly := r.authMiddleware.RequireRole(model.RoleAdmin)
	reviewers := r.authMiddleware.RequireRole(model.RoleManager, model.RoleAdmin)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login",
				middleware.RateLimitByIP(rate.Limit(r.config.RateLimit.LoginRPS), r.config.RateLimit.LoginBurst),
				r.authController.Login,
			)
			auth.POST("/refresh", r.authController.RefreshToken)
			auth.POST("/logout", authenticated, r.authController.Logout)
			auth.GET("/me", authenticated, r.authController.GetMe)
		}

		reports := v1.Group("/reports", authenticated)
		{
			reports.GET("", r.reportController.ListReports)
			reports.POST("", r.reportController.CreateReport)
			reports.GET("/missing", reviewers, r.reportController.ListMissingReports)
			reports.GET("/:id", r.reportController.GetReport)
			reports.PUT("/:id", r.reportController.UpdateReport)
			reports.DELETE("/:id", r.reportController.DeleteReport)

			reports.GET("/:id/comments", r.commentController.ListComments)
			reports.POST("/:id/comments", r.commentController.CreateComment)
		}

		comments := v1.Group("/comments", authenticated)
		{
			comments.PUT("/:id", r.commentController.UpdateComment)
			comments.DELETE("/:id", r.commentController.DeleteComment)
		}

		customers := v1.Group("/customers", authenticated)
		{
			customers.GET("", r.customerController.ListCustomers)
			customers.GET("/:id", r.customerController.GetCustomer)
			customers.POST("", adminOnly, r.customerController.CreateCustomer)
			customers.PUT("/:id", adminOnly, r.customerController.UpdateCustomer)
			customers.DELETE("/:id", adminOnly, r.customerController.DeleteCustomer)
		}

		salesPersons := v1.Group("/sales-persons", authenticated)
		{
			salesPersons.GET("", r.salesPersonController.ListSalesPersons)
			salesPersons.GET("/:id", r.salesPersonController.GetSalesPerson)
			salesPersons.POST("", adminOnly, r.salesPersonController.CreateSalesPerson)
			salesPersons.PUT("/:id", adminOnly, r.salesPersonController.UpdateSalesPerson)
			salesPersons.DELETE("/:id", adminOnly, r.salesPersonController.DeleteSalesPerson)
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

		if allowed && origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Package routes defines the HTTP routes for the identity service.
package routes

import (
	"github.com/amberglobal/identity-service/internal/handlers"
	"github.com/amberglobal/identity-service/internal/middleware"
	"github.com/amberglobal/identity-service/internal/models"
	"github.com/amberglobal/identity-service/internal/repository"
	"github.com/amberglobal/identity-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Setup configures all HTTP routes for the application.
func Setup(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	adminHandler *handlers.AdminHandler,
	healthHandler *handlers.HealthHandler,
	jwtService service.JWTService,
	adminRepo repository.AdminRepository,
	metrics *middleware.Metrics,
) {
	router.Use(metrics.Handler())

	router.GET("/health", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := router.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/verify-otp", authHandler.VerifyOTP)
		auth.POST("/resend-otp", authHandler.ResendOTP)
		auth.POST("/login", authHandler.Login)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)

		profile := auth.Group("", middleware.UserAuth(jwtService))
		{
			profile.GET("/profile", authHandler.Profile)
			profile.PUT("/profile", authHandler.UpdateProfile)
		}
	}

	admin := router.Group("/admin")
	{
		admin.POST("/login", adminHandler.Login)

		authed := admin.Group("", middleware.AdminAuth(jwtService, adminRepo))
		{
			authed.GET("/me", adminHandler.Me)
			authed.POST("/change-password", adminHandler.ChangePassword)
			authed.GET("/dashboard/stats", adminHandler.DashboardStats)
			authed.GET("/activities/recent", adminHandler.RecentActivities)

			super := authed.Group("", middleware.RequireSuperAdmin())
			{
				super.POST("/create", adminHandler.Create)
				super.GET("/list", adminHandler.List)
				super.GET("/:id", adminHandler.Get)
				super.PUT("/:id", adminHandler.Update)
				super.DELETE("/:id", adminHandler.Delete)
			}

			users := authed.Group("/users", middleware.RequirePermission(models.PermManageUsers))
			{
				users.GET("/list", adminHandler.ListUsers)
				users.PUT("/:id/status", adminHandler.UpdateUserStatus)
			}

			enquiries := authed.Group("/enquiries", middleware.RequirePermission(models.PermManageEnquiries))
			{
				enquiries.GET("/list", adminHandler.ListEnquiries)
				enquiries.PUT("/:id/status", adminHandler.UpdateEnquiryStatus)
			}
		}
	}
}

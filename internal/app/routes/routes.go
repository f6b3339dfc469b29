package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/placement/internal/app/controllers"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/middleware"
)

// Controllers groups the HTTP handlers mounted under /api/v1
type Controllers struct {
	Health       *controllers.HealthController
	Drive        *controllers.DriveController
	Registration *controllers.RegistrationController
	Analytics    *controllers.AnalyticsController
	Sheet        *controllers.SheetController
}

// ApplyLimit configures the per-student limit on drive applications
type ApplyLimit struct {
	Limiter middleware.Limiter
	Limit   int
	Window  time.Duration
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	ctrl Controllers,
	authMiddleware *middleware.AuthMiddleware,
	applyLimit ApplyLimit,
) {
	// API version group
	v1 := router.Group("/api/v1")

	v1.GET("/health", ctrl.Health.Health)

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	anyRole := authMiddleware.RoleRequired(models.RoleAdmin, models.RoleStudent)
	adminOnly := authMiddleware.RoleRequired(models.RoleAdmin)
	studentOnly := authMiddleware.RoleRequired(models.RoleStudent)

	drives := authenticated.Group("/drives")
	{
		drives.GET("", anyRole, ctrl.Drive.ListDrives)
		drives.GET("/eligible", anyRole, ctrl.Drive.ListEligibleDrives)
		drives.GET("/:id", anyRole, ctrl.Drive.GetDrive)

		drives.POST("/:id/registrations",
			studentOnly,
			middleware.RateLimit(applyLimit.Limiter, middleware.StudentKey("apply"), applyLimit.Limit, applyLimit.Window),
			ctrl.Registration.Apply,
		)

		drivesAdmin := drives.Group("")
		drivesAdmin.Use(adminOnly)
		{
			drivesAdmin.POST("", ctrl.Drive.CreateDrive)
			drivesAdmin.PUT("/:id", ctrl.Drive.UpdateDrive)
			drivesAdmin.POST("/:id/close", ctrl.Drive.CloseDrive)
			drivesAdmin.DELETE("/:id", ctrl.Drive.DeleteDrive)
		}
	}

	registrations := authenticated.Group("/registrations")
	{
		registrations.GET("", adminOnly, ctrl.Registration.ListRegistrations)
		registrations.GET("/:id", anyRole, ctrl.Registration.GetRegistration)
		registrations.POST("/:id/offer", adminOnly, ctrl.Registration.AttachOffer)
	}

	authenticated.GET("/me/registrations", studentOnly, ctrl.Registration.ListMyRegistrations)

	analytics := authenticated.Group("/analytics")
	analytics.Use(adminOnly)
	{
		analytics.GET("/stats", ctrl.Analytics.GetStats)
		analytics.GET("/trend", ctrl.Analytics.GetPlacementTrend)
		analytics.GET("/offers", ctrl.Analytics.GetOfferStatement)
	}

	sheets := authenticated.Group("/sheets")
	sheets.Use(adminOnly)
	{
		sheets.GET("", ctrl.Sheet.GetSheet)
		sheets.GET("/export", ctrl.Sheet.ExportSheet)
	}
}

package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-app-server/internal/clinic"
	"clinic-app-server/internal/config"
	"clinic-app-server/internal/handlers"
	"clinic-app-server/internal/middleware"
	"clinic-app-server/internal/models"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, svc *clinic.Service, rateLimit gin.HandlerFunc) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg, svc)
	appointmentHandler := handlers.NewAppointmentHandler(db, svc)
	profileHandler := handlers.NewProfileHandler(db)
	taskHandler := handlers.NewTaskHandler(db, svc)
	adminHandler := handlers.NewAdminHandler(db, svc)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		if rateLimit != nil {
			authRoutes.Use(rateLimit)
		}
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
		}

		// Appointment lifecycle routes
		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.GET("", appointmentHandler.ListAppointments) // Logic inside handler differentiates by role
			appointmentRoutes.GET("/options", appointmentHandler.GetBookingOptions)

			// Patients book for themselves
			appointmentRoutes.POST("", middleware.RoleAuthMiddleware(models.RolePatient), appointmentHandler.CreateAppointment)

			// Participants or staff cancel; participants reschedule
			appointmentRoutes.POST("/:id/cancel", appointmentHandler.CancelAppointment)
			appointmentRoutes.PATCH("/:id/reschedule",
				middleware.RoleAuthMiddleware(models.RolePatient, models.RoleDoctor),
				appointmentHandler.RescheduleAppointment)

			// Doctors complete via diagnosis and review the patient behind a visit
			appointmentRoutes.POST("/:id/diagnosis",
				middleware.RoleAuthMiddleware(models.RoleDoctor),
				appointmentHandler.FillDiagnosis)
			appointmentRoutes.GET("/:id/patient",
				middleware.RoleAuthMiddleware(models.RoleDoctor),
				profileHandler.GetPatientProfileForAppointment)
		}

		// Profile views
		profileRoutes := private.Group("/profile")
		{
			profileRoutes.GET("/patient", middleware.RoleAuthMiddleware(models.RolePatient), profileHandler.GetPatientProfile)
			profileRoutes.GET("/doctor", middleware.RoleAuthMiddleware(models.RoleDoctor), profileHandler.GetDoctorProfile)
		}

		// Task board
		taskRoutes := private.Group("/tasks")
		{
			taskRoutes.GET("", taskHandler.ListTasks) // Doctors see their own, staff see all
			taskRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleStaff), taskHandler.CreateTask)
			taskRoutes.DELETE("/:id", middleware.RoleAuthMiddleware(models.RoleStaff), taskHandler.DeleteTask)
		}

		// Staff administration
		adminRoutes := private.Group("/admin")
		adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleStaff))
		{
			adminRoutes.GET("/patients", adminHandler.ListPatients)
			adminRoutes.DELETE("/patients/:id", adminHandler.DeletePatient)
			adminRoutes.GET("/doctors", adminHandler.ListDoctors)
			adminRoutes.POST("/doctors", adminHandler.CreateDoctor)
			adminRoutes.DELETE("/doctors/:id", adminHandler.DeleteDoctor)
			adminRoutes.GET("/appointments", adminHandler.ListAppointments)
			adminRoutes.POST("/appointments/:id/cancel", appointmentHandler.CancelAppointment)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
